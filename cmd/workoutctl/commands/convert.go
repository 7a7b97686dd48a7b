package commands

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/2beens/workoutlog/internal/units"
)

// NewConvertCommand creates the convert command
func NewConvertCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "convert <value> <from> <to>",
		Short: "Convert a weight (kg, lb) or a length (cm, in)",
		Example: `  workoutctl convert 100 kg lb
  workoutctl convert 178 cm in`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := convert(args[0], args[1], args[2])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), result)
			return nil
		},
	}
}

func convert(rawValue, rawFrom, rawTo string) (string, error) {
	value, err := strconv.ParseFloat(rawValue, 64)
	if err != nil {
		return "", fmt.Errorf("invalid value %q", rawValue)
	}

	if from, err := units.ParseWeightUnit(rawFrom); err == nil {
		to, err := units.ParseWeightUnit(rawTo)
		if err != nil {
			return "", err
		}
		return units.FormatWeight(value, from, to), nil
	}

	from, err := units.ParseLengthUnit(rawFrom)
	if err != nil {
		return "", errors.New("from unit must be one of kg, lb, cm, in")
	}
	to, err := units.ParseLengthUnit(rawTo)
	if err != nil {
		return "", err
	}
	return units.FormatHeight(value, from, to), nil
}

package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewRootCommand creates the workoutctl root command
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:          "workoutctl",
		Short:        "Offline tools for workoutlog data",
		SilenceUsage: true,
	}

	rootCmd.AddCommand(NewStatsCommand())
	rootCmd.AddCommand(NewConvertCommand())

	return rootCmd
}

func Execute() {
	if err := NewRootCommand().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"time"

	"github.com/spf13/cobra"

	"github.com/2beens/workoutlog/internal/records"
	"github.com/2beens/workoutlog/internal/stats"
	"github.com/2beens/workoutlog/internal/units"
	"github.com/2beens/workoutlog/internal/workouts"
)

type statsOptions struct {
	file        string
	tz          string
	now         string
	window      int
	tracked     []string
	withRecords bool
	asJSON      bool
}

type statsOutput struct {
	Stats   stats.StatsResponse  `json:"stats"`
	Records []records.RecordView `json:"records,omitempty"`
}

// NewStatsCommand creates the stats command, computing the statistics of an
// exported workout history without a server.
func NewStatsCommand() *cobra.Command {
	opts := &statsOptions{}
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Compute statistics from a workouts export file",
		Long: `Compute statistics from a workouts export file.
The file holds a JSON array of workouts, as returned by the workouts list endpoint.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runStats(cmd.OutOrStdout(), opts)
		},
	}

	cmd.Flags().StringVarP(&opts.file, "file", "f", "", "workouts export file (JSON)")
	cmd.Flags().StringVar(&opts.tz, "tz", "UTC", "time zone used for calendar days")
	cmd.Flags().StringVar(&opts.now, "now", "", "reference time, RFC3339 or YYYY-MM-DD (default: current time)")
	cmd.Flags().IntVar(&opts.window, "window", stats.DefaultStreakWindowDays, "streak look-back window in days")
	cmd.Flags().StringSliceVar(&opts.tracked, "tracked", records.DefaultTrackedExercises, "exercises tracked for personal records")
	cmd.Flags().BoolVar(&opts.withRecords, "records", false, "also list personal records")
	cmd.Flags().BoolVar(&opts.asJSON, "json", false, "print JSON instead of text")
	_ = cmd.MarkFlagRequired("file")

	return cmd
}

func runStats(out io.Writer, opts *statsOptions) error {
	loc, err := time.LoadLocation(opts.tz)
	if err != nil {
		return fmt.Errorf("time zone %q: %w", opts.tz, err)
	}

	now, err := parseNow(opts.now, loc)
	if err != nil {
		return err
	}

	list, err := readWorkouts(opts.file)
	if err != nil {
		return err
	}

	calculator := stats.NewCalculator(loc, opts.window, func() time.Time { return now })
	output := statsOutput{
		Stats: stats.NewStatsResponse(calculator.Summarize(list)),
	}
	if opts.withRecords {
		for _, pr := range replayRecords(list, opts.tracked) {
			output.Records = append(output.Records, records.NewRecordView(pr, pr.Unit))
		}
	}

	if opts.asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(output)
	}

	s := output.Stats
	fmt.Fprintf(out, "workouts:       %d\n", s.TotalWorkouts)
	fmt.Fprintf(out, "last 7 days:    %d\n", s.Last7Days)
	fmt.Fprintf(out, "last 30 days:   %d\n", s.Last30Days)
	fmt.Fprintf(out, "this month:     %d\n", s.ThisCalendarMonth)
	fmt.Fprintf(out, "streak:         %d\n", s.Streak)
	fmt.Fprintf(out, "avg duration:   %s\n", s.AvgDurationFormatted)
	fmt.Fprintf(out, "total duration: %s\n", s.TotalDurationFormatted)
	if opts.withRecords {
		fmt.Fprintln(out, "records:")
		for _, r := range output.Records {
			fmt.Fprintf(out, "  %-16s %s\n", r.Exercise, r.Display)
		}
	}
	return nil
}

func parseNow(raw string, loc *time.Location) (time.Time, error) {
	if raw == "" {
		return time.Now(), nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}
	t, err := time.ParseInLocation("2006-01-02", raw, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid --now %q: want RFC3339 or YYYY-MM-DD", raw)
	}
	return t, nil
}

func readWorkouts(path string) ([]workouts.WorkoutSummary, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open export file: %w", err)
	}
	defer f.Close()

	var list []workouts.WorkoutSummary
	if err := json.NewDecoder(f).Decode(&list); err != nil {
		return nil, fmt.Errorf("decode export file: %w", err)
	}
	for i := range list {
		if list[i].WeightUnit != "" {
			unit, err := units.ParseWeightUnit(string(list[i].WeightUnit))
			if err != nil {
				return nil, fmt.Errorf("workout %s: %w", list[i].ID, err)
			}
			list[i].WeightUnit = unit
		}
		list[i].Recount()
	}
	return list, nil
}

// replayRecords runs record detection over the history, oldest workout first.
func replayRecords(list []workouts.WorkoutSummary, tracked []string) []records.PersonalRecord {
	ordered := make([]workouts.WorkoutSummary, len(list))
	copy(ordered, list)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Date.Before(ordered[j].Date)
	})

	current := map[string]records.PersonalRecord{}
	for _, name := range tracked {
		n := records.NormalizeName(name)
		current[n] = records.PersonalRecord{Exercise: n, Unit: units.Kilograms}
	}
	for _, w := range ordered {
		for _, pr := range records.Detect(w, current, tracked) {
			current[pr.Exercise] = pr
		}
	}

	result := make([]records.PersonalRecord, 0, len(current))
	for _, pr := range current {
		result = append(result, pr)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Exercise < result[j].Exercise
	})
	return result
}

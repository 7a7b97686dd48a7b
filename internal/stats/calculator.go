package stats

import (
	"time"

	"github.com/2beens/workoutlog/internal/workouts"
)

const DefaultStreakWindowDays = 60

// Summary holds the read-only aggregates shown on the progress screen.
// Last7Days and Last30Days are rolling windows ending today, ThisCalendarMonth
// counts from the first day of the current month.
type Summary struct {
	TotalWorkouts        int `json:"totalWorkouts"`
	Last7Days            int `json:"last7Days"`
	Last30Days           int `json:"last30Days"`
	ThisCalendarMonth    int `json:"thisCalendarMonth"`
	Streak               int `json:"streak"`
	AvgDurationSeconds   int `json:"avgDurationSeconds"`
	TotalDurationSeconds int `json:"totalDurationSeconds"`
}

// Calculator derives statistics from a workout list. It holds no state besides
// its configuration, results depend only on the input and the injected clock.
type Calculator struct {
	loc              *time.Location
	now              func() time.Time
	streakWindowDays int
}

func NewCalculator(loc *time.Location, streakWindowDays int, now func() time.Time) *Calculator {
	if loc == nil {
		loc = time.UTC
	}
	if streakWindowDays < 1 {
		streakWindowDays = DefaultStreakWindowDays
	}
	if now == nil {
		now = time.Now
	}
	return &Calculator{
		loc:              loc,
		now:              now,
		streakWindowDays: streakWindowDays,
	}
}

// dayOf returns local midnight of the calendar day t falls on.
func (c *Calculator) dayOf(t time.Time) time.Time {
	t = t.In(c.loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, c.loc)
}

func (c *Calculator) today() time.Time {
	return c.dayOf(c.now())
}

// Today is the current local date as YYYY-MM-DD.
func (c *Calculator) Today() string {
	return c.today().Format("2006-01-02")
}

// addDays moves by calendar days, always landing on local midnight.
func (c *Calculator) addDays(day time.Time, n int) time.Time {
	return time.Date(day.Year(), day.Month(), day.Day()+n, 0, 0, 0, 0, c.loc)
}

type dayKey struct {
	year  int
	month time.Month
	day   int
}

func keyOf(t time.Time) dayKey {
	return dayKey{year: t.Year(), month: t.Month(), day: t.Day()}
}

// Streak counts consecutive calendar days with at least one workout.
// A missing workout today does not break the streak yet: the walk then starts
// at yesterday. Any other missing day ends it. The walk is bounded by the
// streak window.
func (c *Calculator) Streak(list []workouts.WorkoutSummary) int {
	if len(list) == 0 {
		return 0
	}

	days := make(map[dayKey]bool, len(list))
	for _, w := range list {
		days[keyOf(c.dayOf(w.Date))] = true
	}

	day := c.today()
	if !days[keyOf(day)] {
		day = c.addDays(day, -1)
	}

	streak := 0
	for i := 0; i < c.streakWindowDays; i++ {
		if !days[keyOf(day)] {
			break
		}
		streak++
		day = c.addDays(day, -1)
	}
	return streak
}

// CountLastDays counts workouts whose calendar day lies in [today-(n-1), today].
func (c *Calculator) CountLastDays(list []workouts.WorkoutSummary, n int) int {
	if n < 1 {
		return 0
	}
	today := c.today()
	from := c.addDays(today, -(n - 1))
	return c.countBetween(list, from, today)
}

// CountCalendarMonth counts workouts from the first of the current month up to today.
func (c *Calculator) CountCalendarMonth(list []workouts.WorkoutSummary) int {
	today := c.today()
	firstOfMonth := time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, c.loc)
	return c.countBetween(list, firstOfMonth, today)
}

// countBetween counts workouts with a calendar day in [from, to], both inclusive.
func (c *Calculator) countBetween(list []workouts.WorkoutSummary, from, to time.Time) int {
	count := 0
	for _, w := range list {
		d := c.dayOf(w.Date)
		if d.Before(from) || d.After(to) {
			continue
		}
		count++
	}
	return count
}

// AverageDuration is the integer-floored mean duration in seconds, 0 for no workouts.
func (c *Calculator) AverageDuration(list []workouts.WorkoutSummary) int {
	if len(list) == 0 {
		return 0
	}
	return TotalDuration(list) / len(list)
}

func TotalDuration(list []workouts.WorkoutSummary) int {
	total := 0
	for _, w := range list {
		if w.Duration > 0 {
			total += w.Duration
		}
	}
	return total
}

func (c *Calculator) Summarize(list []workouts.WorkoutSummary) Summary {
	return Summary{
		TotalWorkouts:        len(list),
		Last7Days:            c.CountLastDays(list, 7),
		Last30Days:           c.CountLastDays(list, 30),
		ThisCalendarMonth:    c.CountCalendarMonth(list),
		Streak:               c.Streak(list),
		AvgDurationSeconds:   c.AverageDuration(list),
		TotalDurationSeconds: TotalDuration(list),
	}
}

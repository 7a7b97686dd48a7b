package records

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/2beens/workoutlog/internal/units"
	"github.com/2beens/workoutlog/internal/workouts"
)

var DefaultTrackedExercises = []string{"bench press", "squat", "deadlift"}

// PersonalRecord is the best weight lifted for a tracked exercise.
// A record that was never achieved has a nil Date and zero Value.
type PersonalRecord struct {
	UserID   string           `json:"userId"`
	Exercise string           `json:"exercise"`
	Value    float64          `json:"value"`
	Unit     units.WeightUnit `json:"unit"`
	Date     *time.Time       `json:"date,omitempty"`
}

func (pr PersonalRecord) Achieved() bool {
	return pr.Date != nil
}

func (pr PersonalRecord) Kilograms() float64 {
	return units.ToKilograms(pr.Value, pr.Unit)
}

// NormalizeName makes "Bench-Press ", "bench  press" and "Bench Press" equal.
func NormalizeName(name string) string {
	name = strings.ToLower(name)
	name = strings.ReplaceAll(name, "-", " ")
	return strings.Join(strings.Fields(name), " ")
}

// ParseWeight parses a weight as entered by the user, e.g. "100", "82.5",
// "82,5", "100 kg" or "225lbs". The unit is empty when none was typed.
// Anything else is reported as not a weight.
func ParseWeight(raw string) (float64, units.WeightUnit, bool) {
	s := strings.ToLower(strings.TrimSpace(raw))
	var unit units.WeightUnit
	for _, suffix := range []string{"kgs", "kg", "lbs", "lb"} {
		if strings.HasSuffix(s, suffix) {
			s = strings.TrimSpace(strings.TrimSuffix(s, suffix))
			unit, _ = units.ParseWeightUnit(suffix)
			break
		}
	}
	s = strings.ReplaceAll(s, ",", ".")
	if s == "" {
		return 0, "", false
	}

	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) || v <= 0 {
		return 0, "", false
	}
	return v, unit, true
}

type best struct {
	value float64
	unit  units.WeightUnit
	kg    float64
}

// Detect returns the records the workout improves. Only completed sets of
// tracked exercises count. A new record must be strictly heavier than the
// current one, compared in kilograms. Each tracked exercise yields at most one
// record, even if it appears in the workout more than once.
func Detect(workout workouts.WorkoutSummary, current map[string]PersonalRecord, tracked []string) []PersonalRecord {
	trackedSet := make(map[string]bool, len(tracked))
	for _, t := range tracked {
		trackedSet[NormalizeName(t)] = true
	}

	workoutUnit, err := units.ParseWeightUnit(string(workout.WeightUnit))
	if err != nil {
		workoutUnit = units.Kilograms
	}

	var order []string
	bests := map[string]best{}
	for _, e := range workout.Exercises {
		name := NormalizeName(e.Name)
		if !trackedSet[name] {
			continue
		}
		for _, set := range e.Sets {
			if !set.Completed {
				continue
			}
			v, unit, ok := ParseWeight(set.Weight)
			if !ok {
				continue
			}
			if unit == "" {
				unit = workoutUnit
			}
			kg := units.ToKilograms(v, unit)
			b, seen := bests[name]
			if !seen {
				order = append(order, name)
			}
			if !seen || kg > b.kg {
				bests[name] = best{value: v, unit: unit, kg: kg}
			}
		}
	}

	var updated []PersonalRecord
	for _, name := range order {
		b := bests[name]
		if cur, ok := current[name]; ok && cur.Achieved() && b.kg <= cur.Kilograms() {
			continue
		}
		date := workout.Date
		updated = append(updated, PersonalRecord{
			UserID:   workout.UserID,
			Exercise: name,
			Value:    b.value,
			Unit:     b.unit,
			Date:     &date,
		})
	}
	return updated
}

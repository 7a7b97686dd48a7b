package workouts

import (
	"errors"
	"strings"
	"time"

	"github.com/2beens/workoutlog/internal/units"
)

var (
	ErrWorkoutNotFound = errors.New("workout not found")
	ErrRoutineNotFound = errors.New("routine not found")
	ErrInvalidWorkout  = errors.New("invalid workout")
	ErrWorkoutExists   = errors.New("workout already exists")
)

type ExerciseSet struct {
	ID        string `json:"id"`
	Weight    string `json:"weight"`
	Reps      string `json:"reps"`
	Completed bool   `json:"completed"`
}

type WorkoutExercise struct {
	ID         string        `json:"id"`
	Name       string        `json:"name"`
	Sets       []ExerciseSet `json:"sets,omitempty"`
	TargetSets int           `json:"targetSets,omitempty"`
	TargetReps int           `json:"targetReps,omitempty"`
	Notes      string        `json:"notes,omitempty"`
}

// WorkoutSummary is a completed workout. Once saved it is only ever deleted.
type WorkoutSummary struct {
	ID            string            `json:"id"`
	UserID        string            `json:"userId"`
	Name          string            `json:"name"`
	Date          time.Time         `json:"date"`
	Duration      int               `json:"duration"` // seconds
	WeightUnit    units.WeightUnit  `json:"weightUnit"`
	Exercises     []WorkoutExercise `json:"exercises"`
	TotalSets     int               `json:"totalSets"`
	CompletedSets int               `json:"completedSets"`
}

type Routine struct {
	ID        string            `json:"id"`
	UserID    string            `json:"userId"`
	Name      string            `json:"name"`
	Exercises []WorkoutExercise `json:"exercises"`
	CreatedAt time.Time         `json:"createdAt"`
}

// NewSummary builds a workout summary with the set counters derived from exercises.
func NewSummary(userID, name string, date time.Time, durationSec int, unit units.WeightUnit, exercises []WorkoutExercise) WorkoutSummary {
	s := WorkoutSummary{
		UserID:     userID,
		Name:       name,
		Date:       date,
		Duration:   durationSec,
		WeightUnit: unit,
		Exercises:  exercises,
	}
	s.Recount()
	return s
}

// Recount recomputes TotalSets and CompletedSets from the exercise list,
// overriding whatever values came with the input.
func (s *WorkoutSummary) Recount() {
	s.TotalSets, s.CompletedSets = 0, 0
	for _, e := range s.Exercises {
		for _, set := range e.Sets {
			s.TotalSets++
			if set.Completed {
				s.CompletedSets++
			}
		}
	}
}

func (s *WorkoutSummary) Validate() error {
	if strings.TrimSpace(s.Name) == "" {
		return errors.Join(ErrInvalidWorkout, errors.New("name empty"))
	}
	if len(s.Exercises) == 0 {
		return errors.Join(ErrInvalidWorkout, errors.New("no exercises"))
	}
	for _, e := range s.Exercises {
		if strings.TrimSpace(e.Name) == "" {
			return errors.Join(ErrInvalidWorkout, errors.New("exercise name empty"))
		}
	}
	if s.Duration < 0 {
		return errors.Join(ErrInvalidWorkout, errors.New("negative duration"))
	}
	return nil
}

func (r *Routine) Validate() error {
	if strings.TrimSpace(r.Name) == "" {
		return errors.New("routine name empty")
	}
	for _, e := range r.Exercises {
		if strings.TrimSpace(e.Name) == "" {
			return errors.New("routine exercise name empty")
		}
		if e.TargetSets < 0 || e.TargetReps < 0 {
			return errors.New("negative routine targets")
		}
	}
	return nil
}

type ChangeKind string

const (
	ChangeAdded   ChangeKind = "added"
	ChangeDeleted ChangeKind = "deleted"
	// ChangeReset means the whole workout list of the user must be reloaded.
	ChangeReset ChangeKind = "reset"
)

// ChangeEvent describes a mutation of a user's workout history.
type ChangeEvent struct {
	Kind      ChangeKind      `json:"kind"`
	UserID    string          `json:"userId"`
	WorkoutID string          `json:"workoutId,omitempty"`
	Workout   *WorkoutSummary `json:"workout,omitempty"`
}

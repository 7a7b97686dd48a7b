package sessions

import (
	"errors"
	"strconv"
	"time"

	"github.com/2beens/workoutlog/internal/units"
	"github.com/2beens/workoutlog/internal/workouts"
)

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrInvalidSession  = errors.New("invalid session")
	ErrSessionFinished = errors.New("session already finished")
)

// Session is a workout in progress. It lives in redis until finished,
// discarded or expired.
type Session struct {
	ID         string                     `json:"id"`
	UserID     string                     `json:"userId"`
	Name       string                     `json:"name"`
	RoutineID  string                     `json:"routineId,omitempty"`
	StartedAt  time.Time                  `json:"startedAt"`
	WeightUnit units.WeightUnit           `json:"weightUnit"`
	Exercises  []workouts.WorkoutExercise `json:"exercises"`
}

// Elapsed is the whole seconds since the session started, never negative.
func (s *Session) Elapsed(now time.Time) int {
	elapsed := int(now.Sub(s.StartedAt).Seconds())
	if elapsed < 0 {
		return 0
	}
	return elapsed
}

type StartRequest struct {
	Name       string           `json:"name"`
	RoutineID  string           `json:"routineId,omitempty"`
	WeightUnit units.WeightUnit `json:"weightUnit,omitempty"`
}

// exercisesFromRoutine prepares the routine's exercises for a fresh run:
// planned sets are copied uncompleted, otherwise one empty set per target set.
func exercisesFromRoutine(routine workouts.Routine, newID func() string) []workouts.WorkoutExercise {
	exercises := make([]workouts.WorkoutExercise, 0, len(routine.Exercises))
	for _, re := range routine.Exercises {
		e := workouts.WorkoutExercise{
			ID:         newID(),
			Name:       re.Name,
			TargetSets: re.TargetSets,
			TargetReps: re.TargetReps,
			Notes:      re.Notes,
		}

		if len(re.Sets) > 0 {
			for _, set := range re.Sets {
				e.Sets = append(e.Sets, workouts.ExerciseSet{
					ID:     newID(),
					Weight: set.Weight,
					Reps:   set.Reps,
				})
			}
		} else {
			count := re.TargetSets
			if count < 1 {
				count = 1
			}
			reps := ""
			if re.TargetReps > 0 {
				reps = strconv.Itoa(re.TargetReps)
			}
			for i := 0; i < count; i++ {
				e.Sets = append(e.Sets, workouts.ExerciseSet{ID: newID(), Reps: reps})
			}
		}

		exercises = append(exercises, e)
	}
	return exercises
}

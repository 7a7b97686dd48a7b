package workouts

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/2beens/workoutlog/internal/telemetry/metrics"
	"github.com/2beens/workoutlog/internal/telemetry/tracing"
	"github.com/2beens/workoutlog/internal/units"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
)

//go:generate mockgen -source=$GOFILE -destination=service_mocks_test.go -package=workouts_test

type workoutsRepo interface {
	Add(ctx context.Context, workout WorkoutSummary) (*WorkoutSummary, error)
	Get(ctx context.Context, userID, id string) (*WorkoutSummary, error)
	ListAll(ctx context.Context, params WorkoutParams) ([]WorkoutSummary, error)
	List(ctx context.Context, params ListParams) ([]WorkoutSummary, int, error)
	Delete(ctx context.Context, userID, id string) error
}

type recordsProcessor interface {
	// ProcessWorkout returns the names of exercises that got a new personal record.
	ProcessWorkout(ctx context.Context, workout WorkoutSummary) ([]string, error)
}

type changeNotifier interface {
	Publish(ctx context.Context, event ChangeEvent) error
}

type AddWorkoutResult struct {
	Workout    WorkoutSummary `json:"workout"`
	NewRecords []string       `json:"newRecords"`
}

type Service struct {
	repo           workoutsRepo
	records        recordsProcessor
	notifier       changeNotifier
	metricsManager *metrics.Manager
	now            func() time.Time
}

func NewService(
	repo workoutsRepo,
	records recordsProcessor,
	notifier changeNotifier,
	metricsManager *metrics.Manager,
) *Service {
	return &Service{
		repo:           repo,
		records:        records,
		notifier:       notifier,
		metricsManager: metricsManager,
		now:            time.Now,
	}
}

// AddWorkout stores a completed workout for the user. Set counters are always
// recomputed here, values sent by the client are ignored.
func (s *Service) AddWorkout(ctx context.Context, userID string, workout WorkoutSummary) (_ *AddWorkoutResult, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.workouts.add")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("user.id", userID))

	if userID == "" {
		return nil, errors.New("user id empty")
	}
	workout.UserID = userID

	if err := workout.Validate(); err != nil {
		return nil, err
	}

	if workout.WeightUnit == "" {
		workout.WeightUnit = units.Kilograms
	} else {
		unit, err := units.ParseWeightUnit(string(workout.WeightUnit))
		if err != nil {
			return nil, errors.Join(ErrInvalidWorkout, err)
		}
		workout.WeightUnit = unit
	}

	if workout.ID == "" {
		workout.ID = uuid.NewString()
	}
	if workout.Date.IsZero() {
		workout.Date = s.now()
	}
	assignMissingIDs(workout.Exercises)
	workout.Recount()

	added, err := s.repo.Add(ctx, workout)
	if err != nil {
		return nil, fmt.Errorf("add workout: %w", err)
	}

	if s.metricsManager != nil {
		s.metricsManager.CounterWorkoutsAdded.Inc()
		s.metricsManager.HistogramWorkoutDuration.Observe(float64(added.Duration))
	}

	result := &AddWorkoutResult{
		Workout:    *added,
		NewRecords: []string{},
	}

	if s.records != nil {
		newRecords, err := s.records.ProcessWorkout(ctx, *added)
		if err != nil {
			// the workout is saved, records can be recomputed later
			log.Errorf("process personal records for workout %s: %s", added.ID, err)
		} else if len(newRecords) > 0 {
			result.NewRecords = newRecords
		}
	}

	s.publishChange(ctx, ChangeEvent{
		Kind:      ChangeAdded,
		UserID:    userID,
		WorkoutID: added.ID,
		Workout:   added,
	})

	return result, nil
}

func (s *Service) GetWorkout(ctx context.Context, userID, id string) (_ *WorkoutSummary, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.workouts.get")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	return s.repo.Get(ctx, userID, id)
}

// ListWorkouts returns the full workout history of the user, newest first.
func (s *Service) ListWorkouts(ctx context.Context, userID string) (_ []WorkoutSummary, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.workouts.listall")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	workouts, err := s.repo.ListAll(ctx, WorkoutParams{UserID: userID})
	if err != nil {
		return nil, fmt.Errorf("list workouts: %w", err)
	}
	return workouts, nil
}

func (s *Service) ListWorkoutsPage(ctx context.Context, userID string, page, size int) (_ []WorkoutSummary, total int, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.workouts.list")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	return s.repo.List(ctx, ListParams{
		WorkoutParams: WorkoutParams{UserID: userID},
		Page:          page,
		Size:          size,
	})
}

func (s *Service) DeleteWorkout(ctx context.Context, userID, id string) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.workouts.delete")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("workout.id", id))

	if err := s.repo.Delete(ctx, userID, id); err != nil {
		return err
	}

	if s.metricsManager != nil {
		s.metricsManager.CounterWorkoutsDeleted.Inc()
	}

	s.publishChange(ctx, ChangeEvent{
		Kind:      ChangeDeleted,
		UserID:    userID,
		WorkoutID: id,
	})
	return nil
}

func (s *Service) publishChange(ctx context.Context, event ChangeEvent) {
	if s.notifier == nil {
		return
	}
	if err := s.notifier.Publish(ctx, event); err != nil {
		log.Errorf("publish workouts change [%s] for user %s: %s", event.Kind, event.UserID, err)
	}
}

func assignMissingIDs(exercises []WorkoutExercise) {
	for i := range exercises {
		if exercises[i].ID == "" {
			exercises[i].ID = uuid.NewString()
		}
		for j := range exercises[i].Sets {
			if exercises[i].Sets[j].ID == "" {
				exercises[i].Sets[j].ID = uuid.NewString()
			}
		}
	}
}

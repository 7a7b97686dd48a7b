package records

import (
	"context"
	"fmt"

	"github.com/2beens/workoutlog/internal/telemetry/metrics"
	"github.com/2beens/workoutlog/internal/telemetry/tracing"
	"github.com/2beens/workoutlog/internal/workouts"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
)

//go:generate mockgen -source=$GOFILE -destination=service_mocks_test.go -package=records_test

type recordsRepo interface {
	EnsureTracked(ctx context.Context, userID string, exercises []string) error
	List(ctx context.Context, userID string) ([]PersonalRecord, error)
	Upsert(ctx context.Context, record PersonalRecord) (bool, error)
}

type Service struct {
	repo           recordsRepo
	tracked        []string
	metricsManager *metrics.Manager
}

func NewService(repo recordsRepo, tracked []string, metricsManager *metrics.Manager) *Service {
	if len(tracked) == 0 {
		tracked = DefaultTrackedExercises
	}
	normalized := make([]string, 0, len(tracked))
	for _, t := range tracked {
		normalized = append(normalized, NormalizeName(t))
	}
	return &Service{
		repo:           repo,
		tracked:        normalized,
		metricsManager: metricsManager,
	}
}

func (s *Service) Tracked() []string {
	return s.tracked
}

// ProcessWorkout updates the user's records from a newly added workout and
// returns the exercises that got a new record.
func (s *Service) ProcessWorkout(ctx context.Context, workout workouts.WorkoutSummary) (_ []string, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.records.process")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("user.id", workout.UserID))
	span.SetAttributes(attribute.String("workout.id", workout.ID))

	current, err := s.List(ctx, workout.UserID)
	if err != nil {
		return nil, fmt.Errorf("list records: %w", err)
	}

	byExercise := make(map[string]PersonalRecord, len(current))
	for _, pr := range current {
		byExercise[pr.Exercise] = pr
	}

	var improved []string
	for _, pr := range Detect(workout, byExercise, s.tracked) {
		stored, err := s.repo.Upsert(ctx, pr)
		if err != nil {
			return improved, fmt.Errorf("upsert record %s: %w", pr.Exercise, err)
		}
		if !stored {
			log.Debugf("record %s of user %s beaten meanwhile, keeping the stored one", pr.Exercise, pr.UserID)
			continue
		}
		log.Debugf("new personal record for user %s: %s %.1f %s", pr.UserID, pr.Exercise, pr.Value, pr.Unit)
		if s.metricsManager != nil {
			s.metricsManager.CounterPersonalRecords.WithLabelValues(pr.Exercise).Inc()
		}
		improved = append(improved, pr.Exercise)
	}

	return improved, nil
}

// List returns one record per tracked exercise, achieved or not.
func (s *Service) List(ctx context.Context, userID string) ([]PersonalRecord, error) {
	if err := s.repo.EnsureTracked(ctx, userID, s.tracked); err != nil {
		return nil, fmt.Errorf("ensure tracked: %w", err)
	}
	return s.repo.List(ctx, userID)
}

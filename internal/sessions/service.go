package sessions

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"

	"github.com/2beens/workoutlog/internal/telemetry/metrics"
	"github.com/2beens/workoutlog/internal/telemetry/tracing"
	"github.com/2beens/workoutlog/internal/units"
	"github.com/2beens/workoutlog/internal/workouts"
)

//go:generate mockgen -source=$GOFILE -destination=service_mocks_test.go -package=sessions

const sessionKeyPrefix = "workoutlog-session||"

type routinesGetter interface {
	Get(ctx context.Context, userID, id string) (*workouts.Routine, error)
}

type workoutAdder interface {
	AddWorkout(ctx context.Context, userID string, workout workouts.WorkoutSummary) (*workouts.AddWorkoutResult, error)
}

type Service struct {
	redisClient    *redis.Client
	routines       routinesGetter
	adder          workoutAdder
	ttl            time.Duration
	metricsManager *metrics.Manager
	now            func() time.Time
	newID          func() string
}

func NewService(
	redisClient *redis.Client,
	routines routinesGetter,
	adder workoutAdder,
	ttl time.Duration,
	metricsManager *metrics.Manager,
) *Service {
	return &Service{
		redisClient:    redisClient,
		routines:       routines,
		adder:          adder,
		ttl:            ttl,
		metricsManager: metricsManager,
		now:            time.Now,
		newID:          uuid.NewString,
	}
}

func sessionKey(id string) string {
	return sessionKeyPrefix + id
}

func (s *Service) Start(ctx context.Context, userID string, req StartRequest) (_ *Session, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.sessions.start")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("user.id", userID))

	session := &Session{
		ID:         s.newID(),
		UserID:     userID,
		Name:       strings.TrimSpace(req.Name),
		RoutineID:  req.RoutineID,
		StartedAt:  s.now(),
		WeightUnit: units.Kilograms,
		Exercises:  []workouts.WorkoutExercise{},
	}

	if req.WeightUnit != "" {
		unit, err := units.ParseWeightUnit(string(req.WeightUnit))
		if err != nil {
			return nil, errors.Join(ErrInvalidSession, err)
		}
		session.WeightUnit = unit
	}

	if req.RoutineID != "" {
		routine, err := s.routines.Get(ctx, userID, req.RoutineID)
		if err != nil {
			return nil, fmt.Errorf("get routine %s: %w", req.RoutineID, err)
		}
		session.Exercises = exercisesFromRoutine(*routine, s.newID)
		if session.Name == "" {
			session.Name = routine.Name
		}
	}

	if session.Name == "" {
		return nil, errors.Join(ErrInvalidSession, errors.New("name empty"))
	}

	if err := s.save(ctx, session, s.ttl); err != nil {
		return nil, err
	}

	if s.metricsManager != nil {
		s.metricsManager.GaugeActiveSessions.Inc()
	}
	log.Debugf("session %s started by user %s", session.ID, userID)

	return session, nil
}

// Get returns the user's session. Sessions of other users are reported as
// not found.
func (s *Service) Get(ctx context.Context, userID, id string) (_ *Session, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.sessions.get")
	defer func() {
		if errors.Is(err, ErrSessionNotFound) {
			tracing.EndSpanWithErrCheck(span, nil)
			return
		}
		tracing.EndSpanWithErrCheck(span, err)
	}()

	raw, err := s.redisClient.Get(ctx, sessionKey(id)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, err
	}

	var session Session
	if err := json.Unmarshal([]byte(raw), &session); err != nil {
		return nil, fmt.Errorf("unmarshal session %s: %w", id, err)
	}
	if session.UserID != userID {
		return nil, ErrSessionNotFound
	}

	return &session, nil
}

func (s *Service) UpdateExercises(ctx context.Context, userID, id string, exercises []workouts.WorkoutExercise) (_ *Session, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.sessions.update")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	session, err := s.Get(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	for _, e := range exercises {
		if strings.TrimSpace(e.Name) == "" {
			return nil, errors.Join(ErrInvalidSession, errors.New("exercise name empty"))
		}
	}
	if exercises == nil {
		exercises = []workouts.WorkoutExercise{}
	}
	session.Exercises = exercises

	if err := s.save(ctx, session, redis.KeepTTL); err != nil {
		return nil, err
	}
	return session, nil
}

// Finish turns the session into a completed workout. The duration is the time
// passed since the session started.
func (s *Service) Finish(ctx context.Context, userID, id string) (_ *workouts.AddWorkoutResult, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.sessions.finish")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	session, err := s.Get(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	now := s.now()
	summary := workouts.NewSummary(userID, session.Name, now, session.Elapsed(now), session.WeightUnit, session.Exercises)
	// one session is at most one workout, a repeated finish hits the same id
	summary.ID = session.ID

	result, err := s.adder.AddWorkout(ctx, userID, summary)
	if errors.Is(err, workouts.ErrWorkoutExists) {
		return nil, errors.Join(ErrSessionFinished, err)
	}
	if err != nil {
		return nil, err
	}

	if err := s.redisClient.Del(ctx, sessionKey(id)).Err(); err != nil {
		log.Errorf("delete finished session %s: %s", id, err)
	}

	if s.metricsManager != nil {
		s.metricsManager.CounterSessionsFinished.Inc()
		s.metricsManager.GaugeActiveSessions.Dec()
	}

	return result, nil
}

func (s *Service) Discard(ctx context.Context, userID, id string) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.sessions.discard")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	if _, err := s.Get(ctx, userID, id); err != nil {
		return err
	}

	if err := s.redisClient.Del(ctx, sessionKey(id)).Err(); err != nil {
		return err
	}

	if s.metricsManager != nil {
		s.metricsManager.GaugeActiveSessions.Dec()
	}
	return nil
}

func (s *Service) save(ctx context.Context, session *Session, ttl time.Duration) error {
	raw, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}
	return s.redisClient.Set(ctx, sessionKey(session.ID), raw, ttl).Err()
}

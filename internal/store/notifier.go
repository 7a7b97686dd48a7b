package store

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/go-redis/redis/v8"
	"go.uber.org/multierr"

	"github.com/2beens/workoutlog/internal/telemetry/tracing"
	"github.com/2beens/workoutlog/internal/workouts"
)

const ChangesChannel = "workoutlog-workout-changes"

type changeMessage struct {
	Origin string               `json:"origin"`
	Event  workouts.ChangeEvent `json:"event"`
}

// RedisNotifier fans workout changes out to every service instance.
// Origin identifies the publishing instance so it can skip its own messages.
type RedisNotifier struct {
	redisClient *redis.Client
	origin      string
	channel     string
}

func NewRedisNotifier(redisClient *redis.Client, origin string) *RedisNotifier {
	return &RedisNotifier{
		redisClient: redisClient,
		origin:      origin,
		channel:     ChangesChannel,
	}
}

func (n *RedisNotifier) Publish(ctx context.Context, event workouts.ChangeEvent) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "notifier.redis.publish")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	payload, err := json.Marshal(changeMessage{Origin: n.origin, Event: event})
	if err != nil {
		return fmt.Errorf("marshal change: %w", err)
	}

	return n.redisClient.Publish(ctx, n.channel, payload).Err()
}

// LocalNotifier applies changes to the in-process store right away.
type LocalNotifier struct {
	store *Store
}

func NewLocalNotifier(store *Store) *LocalNotifier {
	return &LocalNotifier{store: store}
}

func (n *LocalNotifier) Publish(_ context.Context, event workouts.ChangeEvent) error {
	n.store.Apply(event)
	return nil
}

type publisher interface {
	Publish(ctx context.Context, event workouts.ChangeEvent) error
}

// Notifiers publishes to all of its members, collecting every error.
type Notifiers []publisher

func (ns Notifiers) Publish(ctx context.Context, event workouts.ChangeEvent) error {
	var err error
	for _, n := range ns {
		err = multierr.Append(err, n.Publish(ctx, event))
	}
	return err
}

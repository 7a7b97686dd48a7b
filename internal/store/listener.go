package store

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/go-redis/redis/v8"
	log "github.com/sirupsen/logrus"

	"github.com/2beens/workoutlog/internal/workouts"
)

type workoutsLister interface {
	ListWorkouts(ctx context.Context, userID string) ([]workouts.WorkoutSummary, error)
}

// Listener applies changes published by other instances to the local store.
type Listener struct {
	redisClient *redis.Client
	store       *Store
	lister      workoutsLister
	origin      string
	channel     string
}

func NewListener(redisClient *redis.Client, store *Store, lister workoutsLister, origin string) *Listener {
	return &Listener{
		redisClient: redisClient,
		store:       store,
		lister:      lister,
		origin:      origin,
		channel:     ChangesChannel,
	}
}

// Run blocks until ctx is done or the subscription channel closes.
func (l *Listener) Run(ctx context.Context) error {
	pubsub := l.redisClient.Subscribe(ctx, l.channel)
	defer func() {
		if err := pubsub.Close(); err != nil {
			log.Errorf("close changes subscription: %s", err)
		}
	}()

	if _, err := pubsub.Receive(ctx); err != nil {
		return fmt.Errorf("subscribe to %s: %w", l.channel, err)
	}
	log.Debugf("listening for workout changes on %s", l.channel)

	messages := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-messages:
			if !ok {
				return nil
			}
			l.handle(ctx, msg.Payload)
		}
	}
}

func (l *Listener) handle(ctx context.Context, payload string) {
	var msg changeMessage
	if err := json.Unmarshal([]byte(payload), &msg); err != nil {
		log.Errorf("unmarshal workout change: %s", err)
		return
	}
	if msg.Origin == l.origin {
		return
	}

	event := msg.Event
	if event.UserID == "" {
		log.Warnf("workout change without user id: %s", payload)
		return
	}
	if !l.store.Has(event.UserID) {
		// nothing to patch, but a load in flight must not install its stale read
		l.store.Forget(event.UserID)
		return
	}

	switch {
	case event.Kind == workouts.ChangeAdded && event.Workout != nil,
		event.Kind == workouts.ChangeDeleted:
		l.store.Apply(event)
	default:
		l.reload(ctx, event.UserID)
	}
}

func (l *Listener) reload(ctx context.Context, userID string) {
	version := l.store.Version(userID)
	list, err := l.lister.ListWorkouts(ctx, userID)
	if err != nil {
		log.Errorf("reload workouts for user %s: %s", userID, err)
		l.store.Forget(userID)
		return
	}
	if !l.store.SetWorkoutsAt(userID, list, version) {
		// changed while reloading, let the next read load it again
		l.store.Forget(userID)
	}
}

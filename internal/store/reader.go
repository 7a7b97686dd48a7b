package store

import (
	"context"

	log "github.com/sirupsen/logrus"

	"github.com/2beens/workoutlog/internal/workouts"
)

// loadAttempts bounds how often a load is retried when the user keeps
// changing while it runs.
const loadAttempts = 3

// SnapshotReader serves workout lists from the store, loading a user's
// history from the lister the first time it is asked for.
type SnapshotReader struct {
	store  *Store
	lister workoutsLister
}

func NewReader(store *Store, lister workoutsLister) *SnapshotReader {
	return &SnapshotReader{
		store:  store,
		lister: lister,
	}
}

func (r *SnapshotReader) ListWorkouts(ctx context.Context, userID string) ([]workouts.WorkoutSummary, error) {
	if list, ok := r.store.Workouts(userID); ok {
		return list, nil
	}

	var list []workouts.WorkoutSummary
	for attempt := 0; attempt < loadAttempts; attempt++ {
		version := r.store.Version(userID)
		loaded, err := r.lister.ListWorkouts(ctx, userID)
		if err != nil {
			return nil, err
		}
		list = loaded
		if r.store.SetWorkoutsAt(userID, list, version) {
			return list, nil
		}
	}

	// still changing, serve the last read without keeping it
	log.Debugf("workouts of user %s changed during %d loads, not caching", userID, loadAttempts)
	return list, nil
}

package store

import (
	"sort"
	"sync"

	"github.com/2beens/workoutlog/internal/workouts"
)

// ChangeFunc receives the user's workout list after every change.
// The slice is a copy owned by the callee. A nil list means the store holds no
// snapshot for the user and the change has to be read from the database.
type ChangeFunc func(userID string, list []workouts.WorkoutSummary)

// Store keeps per-user workout snapshots and notifies subscribers when they
// change. SetWorkouts, SetWorkoutsAt, AddWorkout, DeleteWorkout and Forget are
// the only ways to mutate it.
//
// Every mutation of a user, including ones that find no snapshot, moves the
// user to a new version. A load from the database captures the version first
// and installs its result with SetWorkoutsAt, which refuses it when a change
// happened in the meantime.
type Store struct {
	mutex       sync.RWMutex
	snapshots   map[string][]workouts.WorkoutSummary
	versions    map[string]uint64
	baseVersion uint64
	nextVersion uint64
	subscribers map[string]map[int]ChangeFunc
	global      map[int]ChangeFunc
	nextSubID   int
}

func New() *Store {
	return &Store{
		snapshots:   make(map[string][]workouts.WorkoutSummary),
		versions:    make(map[string]uint64),
		nextVersion: 1,
		subscribers: make(map[string]map[int]ChangeFunc),
		global:      make(map[int]ChangeFunc),
	}
}

// Workouts returns a copy of the user's snapshot, newest first.
func (s *Store) Workouts(userID string) ([]workouts.WorkoutSummary, bool) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	list, ok := s.snapshots[userID]
	if !ok {
		return nil, false
	}
	return copyList(list), true
}

func (s *Store) Has(userID string) bool {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	_, ok := s.snapshots[userID]
	return ok
}

// Version identifies the state of the user's workouts. It changes with every
// mutation of the user.
func (s *Store) Version(userID string) uint64 {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return s.versionLocked(userID)
}

func (s *Store) SetWorkouts(userID string, list []workouts.WorkoutSummary) {
	snapshot := copyList(list)
	sortNewestFirst(snapshot)

	s.mutex.Lock()
	s.installLocked(userID, snapshot)
	callbacks := s.callbacksLocked(userID)
	s.mutex.Unlock()

	s.notify(callbacks, userID, snapshot)
}

// SetWorkoutsAt installs a list loaded while the user was at the given
// version. It reports false and keeps the store as it is when the user
// changed since, the list may miss that change.
func (s *Store) SetWorkoutsAt(userID string, list []workouts.WorkoutSummary, version uint64) bool {
	snapshot := copyList(list)
	sortNewestFirst(snapshot)

	s.mutex.Lock()
	if s.versionLocked(userID) != version {
		s.mutex.Unlock()
		return false
	}
	s.installLocked(userID, snapshot)
	callbacks := s.callbacksLocked(userID)
	s.mutex.Unlock()

	s.notify(callbacks, userID, snapshot)
	return true
}

// AddWorkout inserts the workout into an existing snapshot, replacing one with
// the same id. Users without a snapshot get no new one, a partial list would
// be mistaken for the full history, but their subscribers are still told.
// Reports whether the snapshot changed.
func (s *Store) AddWorkout(workout workouts.WorkoutSummary) bool {
	s.mutex.Lock()
	s.bumpLocked(workout.UserID)
	list, ok := s.snapshots[workout.UserID]
	if !ok {
		callbacks := s.callbacksLocked(workout.UserID)
		s.mutex.Unlock()
		s.notify(callbacks, workout.UserID, nil)
		return false
	}

	updated := make([]workouts.WorkoutSummary, 0, len(list)+1)
	for _, w := range list {
		if w.ID != workout.ID {
			updated = append(updated, w)
		}
	}
	updated = append(updated, workout)
	sortNewestFirst(updated)

	s.snapshots[workout.UserID] = updated
	callbacks := s.callbacksLocked(workout.UserID)
	s.mutex.Unlock()

	s.notify(callbacks, workout.UserID, updated)
	return true
}

func (s *Store) DeleteWorkout(userID, workoutID string) bool {
	s.mutex.Lock()
	s.bumpLocked(userID)
	list, ok := s.snapshots[userID]
	if !ok {
		callbacks := s.callbacksLocked(userID)
		s.mutex.Unlock()
		s.notify(callbacks, userID, nil)
		return false
	}

	updated := make([]workouts.WorkoutSummary, 0, len(list))
	for _, w := range list {
		if w.ID != workoutID {
			updated = append(updated, w)
		}
	}
	if len(updated) == len(list) {
		s.mutex.Unlock()
		return false
	}

	s.snapshots[userID] = updated
	callbacks := s.callbacksLocked(userID)
	s.mutex.Unlock()

	s.notify(callbacks, userID, updated)
	return true
}

// Forget drops the user's snapshot, the next read goes to the database.
// Subscribers are told with a nil list.
func (s *Store) Forget(userID string) {
	s.mutex.Lock()
	s.bumpLocked(userID)
	delete(s.snapshots, userID)
	callbacks := s.callbacksLocked(userID)
	s.mutex.Unlock()

	s.notify(callbacks, userID, nil)
}

// ForgetAll drops every snapshot. Used when changes from other instances
// might have been missed. Loads in flight will not be installed.
func (s *Store) ForgetAll() {
	s.mutex.Lock()
	s.snapshots = make(map[string][]workouts.WorkoutSummary)
	s.versions = make(map[string]uint64)
	s.baseVersion = s.nextVersion
	s.nextVersion++
	s.mutex.Unlock()
}

// Subscribe registers fn for changes of one user's workouts.
func (s *Store) Subscribe(userID string, fn ChangeFunc) (unsubscribe func()) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	id := s.nextSubID
	s.nextSubID++
	if s.subscribers[userID] == nil {
		s.subscribers[userID] = make(map[int]ChangeFunc)
	}
	s.subscribers[userID][id] = fn

	return func() {
		s.mutex.Lock()
		defer s.mutex.Unlock()
		delete(s.subscribers[userID], id)
		if len(s.subscribers[userID]) == 0 {
			delete(s.subscribers, userID)
		}
	}
}

// SubscribeAll registers fn for changes of any user.
func (s *Store) SubscribeAll(fn ChangeFunc) (unsubscribe func()) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	id := s.nextSubID
	s.nextSubID++
	s.global[id] = fn

	return func() {
		s.mutex.Lock()
		defer s.mutex.Unlock()
		delete(s.global, id)
	}
}

// Apply maps a change event onto the store.
func (s *Store) Apply(event workouts.ChangeEvent) {
	switch event.Kind {
	case workouts.ChangeAdded:
		if event.Workout != nil {
			s.AddWorkout(*event.Workout)
		} else {
			s.Forget(event.UserID)
		}
	case workouts.ChangeDeleted:
		s.DeleteWorkout(event.UserID, event.WorkoutID)
	case workouts.ChangeReset:
		s.Forget(event.UserID)
	}
}

func (s *Store) versionLocked(userID string) uint64 {
	if v, ok := s.versions[userID]; ok {
		return v
	}
	return s.baseVersion
}

func (s *Store) bumpLocked(userID string) {
	s.versions[userID] = s.nextVersion
	s.nextVersion++
}

func (s *Store) installLocked(userID string, snapshot []workouts.WorkoutSummary) {
	s.bumpLocked(userID)
	s.snapshots[userID] = snapshot
}

// callbacksLocked lists global subscribers before the user's own, so caches
// fed by SubscribeAll are invalidated before per-user listeners react.
func (s *Store) callbacksLocked(userID string) []ChangeFunc {
	callbacks := make([]ChangeFunc, 0, len(s.global)+len(s.subscribers[userID]))
	for _, fn := range s.global {
		callbacks = append(callbacks, fn)
	}
	for _, fn := range s.subscribers[userID] {
		callbacks = append(callbacks, fn)
	}
	return callbacks
}

// notify runs outside the lock, callbacks may call back into the store.
func (s *Store) notify(callbacks []ChangeFunc, userID string, list []workouts.WorkoutSummary) {
	for _, fn := range callbacks {
		if list == nil {
			fn(userID, nil)
			continue
		}
		fn(userID, copyList(list))
	}
}

func copyList(list []workouts.WorkoutSummary) []workouts.WorkoutSummary {
	if list == nil {
		return []workouts.WorkoutSummary{}
	}
	c := make([]workouts.WorkoutSummary, len(list))
	copy(c, list)
	return c
}

func sortNewestFirst(list []workouts.WorkoutSummary) {
	sort.SliceStable(list, func(i, j int) bool {
		return list[i].Date.After(list[j].Date)
	})
}

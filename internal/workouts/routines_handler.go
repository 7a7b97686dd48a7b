package workouts

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"

	"github.com/2beens/workoutlog/internal/auth"
	"github.com/2beens/workoutlog/internal/telemetry/tracing"
	"github.com/2beens/workoutlog/pkg"
)

//go:generate mockgen -source=$GOFILE -destination=routines_mocks_test.go -package=workouts_test

type routinesRepo interface {
	Add(ctx context.Context, routine Routine) (*Routine, error)
	Get(ctx context.Context, userID, id string) (*Routine, error)
	List(ctx context.Context, userID string) ([]Routine, error)
	Update(ctx context.Context, routine Routine) error
	Delete(ctx context.Context, userID, id string) error
}

type RoutinesHandler struct {
	repo routinesRepo
	now  func() time.Time
}

func NewRoutinesHandler(repo routinesRepo) *RoutinesHandler {
	return &RoutinesHandler{
		repo: repo,
		now:  time.Now,
	}
}

func (handler *RoutinesHandler) HandleAdd(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.routines.add")
	defer span.End()

	userID, ok := auth.UserIDFrom(ctx)
	if !ok {
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}

	var routine Routine
	if err := json.NewDecoder(r.Body).Decode(&routine); err != nil {
		http.Error(w, "add routine failed", http.StatusBadRequest)
		return
	}
	if err := routine.Validate(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	routine.UserID = userID
	routine.ID = uuid.NewString()
	routine.CreatedAt = handler.now()
	assignMissingIDs(routine.Exercises)

	added, err := handler.repo.Add(ctx, routine)
	if err != nil {
		log.Errorf("add routine [%s] for user %s: %s", routine.Name, userID, err)
		http.Error(w, "error, failed to add routine", http.StatusInternalServerError)
		return
	}

	pkg.WriteJSON(w, added, http.StatusCreated)
}

func (handler *RoutinesHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.routines.get")
	defer span.End()

	userID, ok := auth.UserIDFrom(ctx)
	if !ok {
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}

	id := mux.Vars(r)["id"]
	routine, err := handler.repo.Get(ctx, userID, id)
	if err != nil {
		if errors.Is(err, ErrRoutineNotFound) {
			http.Error(w, "routine not found", http.StatusNotFound)
			return
		}
		log.Errorf("get routine %s: %s", id, err)
		http.Error(w, "error, failed to get routine", http.StatusInternalServerError)
		return
	}

	pkg.WriteJSON(w, routine, http.StatusOK)
}

func (handler *RoutinesHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.routines.list")
	defer span.End()

	userID, ok := auth.UserIDFrom(ctx)
	if !ok {
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}

	routines, err := handler.repo.List(ctx, userID)
	if err != nil {
		log.Errorf("list routines for user %s: %s", userID, err)
		http.Error(w, "error, failed to list routines", http.StatusInternalServerError)
		return
	}
	if routines == nil {
		routines = []Routine{}
	}

	pkg.WriteJSON(w, routines, http.StatusOK)
}

func (handler *RoutinesHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.routines.update")
	defer span.End()

	userID, ok := auth.UserIDFrom(ctx)
	if !ok {
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}

	var routine Routine
	if err := json.NewDecoder(r.Body).Decode(&routine); err != nil {
		http.Error(w, "update routine failed", http.StatusBadRequest)
		return
	}
	if routine.ID == "" {
		http.Error(w, "error, id empty", http.StatusBadRequest)
		return
	}
	if err := routine.Validate(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	routine.UserID = userID
	assignMissingIDs(routine.Exercises)

	if err := handler.repo.Update(ctx, routine); err != nil {
		if errors.Is(err, ErrRoutineNotFound) {
			http.Error(w, "routine not found", http.StatusNotFound)
			return
		}
		log.Errorf("update routine %s: %s", routine.ID, err)
		http.Error(w, "error, failed to update routine", http.StatusInternalServerError)
		return
	}

	pkg.WriteJSON(w, routine, http.StatusOK)
}

func (handler *RoutinesHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.routines.delete")
	defer span.End()

	userID, ok := auth.UserIDFrom(ctx)
	if !ok {
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}

	id := mux.Vars(r)["id"]
	if err := handler.repo.Delete(ctx, userID, id); err != nil {
		if errors.Is(err, ErrRoutineNotFound) {
			http.Error(w, "routine not found", http.StatusNotFound)
			return
		}
		log.Errorf("delete routine %s: %s", id, err)
		http.Error(w, "error, failed to delete routine", http.StatusInternalServerError)
		return
	}

	pkg.WriteTextResponseOK(w, id)
}

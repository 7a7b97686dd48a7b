package sessions

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"

	"github.com/2beens/workoutlog/internal/auth"
	"github.com/2beens/workoutlog/internal/telemetry/tracing"
	"github.com/2beens/workoutlog/internal/workouts"
	"github.com/2beens/workoutlog/pkg"
)

//go:generate mockgen -source=$GOFILE -destination=handler_mocks_test.go -package=sessions

type sessionsService interface {
	Start(ctx context.Context, userID string, req StartRequest) (*Session, error)
	Get(ctx context.Context, userID, id string) (*Session, error)
	UpdateExercises(ctx context.Context, userID, id string, exercises []workouts.WorkoutExercise) (*Session, error)
	Finish(ctx context.Context, userID, id string) (*workouts.AddWorkoutResult, error)
	Discard(ctx context.Context, userID, id string) error
}

// SessionResponse adds the running time to a session.
type SessionResponse struct {
	*Session
	ElapsedSeconds   int    `json:"elapsedSeconds"`
	ElapsedFormatted string `json:"elapsedFormatted"`
}

type DiscardResponse struct {
	DiscardedID string `json:"discardedId"`
}

type Handler struct {
	service sessionsService
	now     func() time.Time
}

func NewHandler(service sessionsService) *Handler {
	return &Handler{
		service: service,
		now:     time.Now,
	}
}

func (h *Handler) response(session *Session) SessionResponse {
	elapsed := session.Elapsed(h.now())
	return SessionResponse{
		Session:          session,
		ElapsedSeconds:   elapsed,
		ElapsedFormatted: workouts.FormatDuration(elapsed),
	}
}

func writeError(w http.ResponseWriter, err error, action string) {
	switch {
	case errors.Is(err, ErrSessionNotFound):
		http.Error(w, "session not found", http.StatusNotFound)
	case errors.Is(err, workouts.ErrRoutineNotFound):
		http.Error(w, "routine not found", http.StatusNotFound)
	case errors.Is(err, ErrSessionFinished):
		http.Error(w, "session already finished", http.StatusConflict)
	case errors.Is(err, ErrInvalidSession), errors.Is(err, workouts.ErrInvalidWorkout):
		http.Error(w, err.Error(), http.StatusBadRequest)
	default:
		log.Errorf("%s: %s", action, err)
		http.Error(w, "error, failed to "+action, http.StatusInternalServerError)
	}
}

func (h *Handler) HandleStart(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.sessions.start")
	defer span.End()

	userID, ok := auth.UserIDFrom(ctx)
	if !ok {
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}

	var req StartRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Tracef("start session, unmarshal json: %s", err)
		http.Error(w, "invalid session data", http.StatusBadRequest)
		return
	}

	session, err := h.service.Start(ctx, userID, req)
	if err != nil {
		writeError(w, err, "start session")
		return
	}

	pkg.WriteJSON(w, h.response(session), http.StatusCreated)
}

func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.sessions.get")
	defer span.End()

	userID, ok := auth.UserIDFrom(ctx)
	if !ok {
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}

	session, err := h.service.Get(ctx, userID, mux.Vars(r)["id"])
	if err != nil {
		writeError(w, err, "get session")
		return
	}

	pkg.WriteJSON(w, h.response(session), http.StatusOK)
}

func (h *Handler) HandleUpdateExercises(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.sessions.update")
	defer span.End()

	userID, ok := auth.UserIDFrom(ctx)
	if !ok {
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}

	var exercises []workouts.WorkoutExercise
	if err := json.NewDecoder(r.Body).Decode(&exercises); err != nil {
		log.Tracef("update session exercises, unmarshal json: %s", err)
		http.Error(w, "invalid exercises", http.StatusBadRequest)
		return
	}

	session, err := h.service.UpdateExercises(ctx, userID, mux.Vars(r)["id"], exercises)
	if err != nil {
		writeError(w, err, "update session")
		return
	}

	pkg.WriteJSON(w, h.response(session), http.StatusOK)
}

func (h *Handler) HandleFinish(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.sessions.finish")
	defer span.End()

	userID, ok := auth.UserIDFrom(ctx)
	if !ok {
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}

	result, err := h.service.Finish(ctx, userID, mux.Vars(r)["id"])
	if err != nil {
		writeError(w, err, "finish session")
		return
	}

	pkg.WriteJSON(w, result, http.StatusCreated)
}

func (h *Handler) HandleDiscard(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.sessions.discard")
	defer span.End()

	userID, ok := auth.UserIDFrom(ctx)
	if !ok {
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}

	id := mux.Vars(r)["id"]
	if err := h.service.Discard(ctx, userID, id); err != nil {
		writeError(w, err, "discard session")
		return
	}

	pkg.WriteJSON(w, DiscardResponse{DiscardedID: id}, http.StatusOK)
}

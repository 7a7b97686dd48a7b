package profile

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	log "github.com/sirupsen/logrus"

	"github.com/2beens/workoutlog/internal/auth"
	"github.com/2beens/workoutlog/internal/telemetry/tracing"
	"github.com/2beens/workoutlog/pkg"
)

//go:generate mockgen -source=$GOFILE -destination=handler_mocks_test.go -package=profile_test

type profileService interface {
	Get(ctx context.Context, userID, email string) (*Profile, error)
	Update(ctx context.Context, userID, email string, req EditRequest) (*Profile, error)
	UpdatePreferences(ctx context.Context, userID, email string, prefs Preferences) (*Profile, error)
}

type Handler struct {
	service profileService
}

func NewHandler(service profileService) *Handler {
	return &Handler{
		service: service,
	}
}

func identity(ctx context.Context) (userID, email string, ok bool) {
	userID, ok = auth.UserIDFrom(ctx)
	if claims, found := auth.ClaimsFrom(ctx); found {
		email = claims.Email
	}
	return userID, email, ok
}

func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.profile.get")
	defer span.End()

	userID, email, ok := identity(ctx)
	if !ok {
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}

	p, err := h.service.Get(ctx, userID, email)
	if err != nil {
		log.Errorf("get profile %s: %s", userID, err)
		http.Error(w, "error, failed to get profile", http.StatusInternalServerError)
		return
	}

	pkg.WriteJSON(w, Display(*p), http.StatusOK)
}

func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.profile.update")
	defer span.End()

	userID, email, ok := identity(ctx)
	if !ok {
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}

	var req EditRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Tracef("update profile, unmarshal json: %s", err)
		http.Error(w, "invalid profile data", http.StatusBadRequest)
		return
	}

	p, err := h.service.Update(ctx, userID, email, req)
	if err != nil {
		if errors.Is(err, ErrInvalidProfile) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		log.Errorf("update profile %s: %s", userID, err)
		http.Error(w, "error, failed to update profile", http.StatusInternalServerError)
		return
	}

	pkg.WriteJSON(w, Display(*p), http.StatusOK)
}

func (h *Handler) HandleUpdatePreferences(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.profile.preferences")
	defer span.End()

	userID, email, ok := identity(ctx)
	if !ok {
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}

	var prefs Preferences
	if err := json.NewDecoder(r.Body).Decode(&prefs); err != nil {
		log.Tracef("update preferences, unmarshal json: %s", err)
		http.Error(w, "invalid preferences", http.StatusBadRequest)
		return
	}

	p, err := h.service.UpdatePreferences(ctx, userID, email, prefs)
	if err != nil {
		if errors.Is(err, ErrInvalidProfile) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		log.Errorf("update preferences %s: %s", userID, err)
		http.Error(w, "error, failed to update preferences", http.StatusInternalServerError)
		return
	}

	pkg.WriteJSON(w, Display(*p), http.StatusOK)
}

package auth

import (
	"context"
	"net/http"

	"github.com/2beens/workoutlog/internal/telemetry/tracing"
	"github.com/2beens/workoutlog/pkg"

	log "github.com/sirupsen/logrus"
)

//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=auth_test

type logoutService interface {
	Logout(ctx context.Context, claims *Claims) error
}

type Handler struct {
	service logoutService
}

func NewHandler(service logoutService) *Handler {
	return &Handler{
		service: service,
	}
}

func (h *Handler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.auth.logout")
	defer span.End()

	claims, ok := ClaimsFrom(ctx)
	if !ok {
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}

	if err := h.service.Logout(ctx, claims); err != nil {
		log.Errorf("logout user %s: %s", claims.UserID, err)
		http.Error(w, "logout failed", http.StatusInternalServerError)
		return
	}

	log.Debugf("user %s logged out, token %s revoked", claims.UserID, claims.ID)
	pkg.WriteTextResponseOK(w, "logged-out")
}

package stats

import (
	"context"
	"net/http"

	log "github.com/sirupsen/logrus"

	"github.com/2beens/workoutlog/internal/auth"
	"github.com/2beens/workoutlog/internal/telemetry/tracing"
	"github.com/2beens/workoutlog/internal/workouts"
	"github.com/2beens/workoutlog/pkg"
)

//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=stats_test

type workoutsLister interface {
	ListWorkouts(ctx context.Context, userID string) ([]workouts.WorkoutSummary, error)
}

type StatsResponse struct {
	Summary
	AvgDurationFormatted   string `json:"avgDurationFormatted"`
	TotalDurationFormatted string `json:"totalDurationFormatted"`
}

func NewStatsResponse(summary Summary) StatsResponse {
	return StatsResponse{
		Summary:                summary,
		AvgDurationFormatted:   workouts.FormatDuration(summary.AvgDurationSeconds),
		TotalDurationFormatted: workouts.FormatDuration(summary.TotalDurationSeconds),
	}
}

type Handler struct {
	lister     workoutsLister
	calculator *Calculator
	cache      *Cache
}

func NewHandler(lister workoutsLister, calculator *Calculator, cache *Cache) *Handler {
	return &Handler{
		lister:     lister,
		calculator: calculator,
		cache:      cache,
	}
}

// SummaryFor returns the cached summary of the user, computing it on a miss.
func (h *Handler) SummaryFor(ctx context.Context, userID string) (Summary, error) {
	day := h.calculator.Today()
	if h.cache != nil {
		if summary, ok := h.cache.Get(userID, day); ok {
			return summary, nil
		}
	}

	list, err := h.lister.ListWorkouts(ctx, userID)
	if err != nil {
		return Summary{}, err
	}

	summary := h.calculator.Summarize(list)
	if h.cache != nil {
		h.cache.Set(userID, day, summary)
	}
	return summary, nil
}

func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.stats.get")
	defer span.End()

	userID, ok := auth.UserIDFrom(ctx)
	if !ok {
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}

	summary, err := h.SummaryFor(ctx, userID)
	if err != nil {
		log.Errorf("compute stats for user %s: %s", userID, err)
		http.Error(w, "error, failed to get stats", http.StatusInternalServerError)
		return
	}

	pkg.WriteJSON(w, NewStatsResponse(summary), http.StatusOK)
}

package records

import (
	"context"
	"net/http"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/2beens/workoutlog/internal/auth"
	"github.com/2beens/workoutlog/internal/telemetry/tracing"
	"github.com/2beens/workoutlog/internal/units"
	"github.com/2beens/workoutlog/pkg"
)

//go:generate mockgen -source=$GOFILE -destination=handler_mocks_test.go -package=records_test

type recordsLister interface {
	List(ctx context.Context, userID string) ([]PersonalRecord, error)
}

type unitPreferences interface {
	PreferredWeightUnit(ctx context.Context, userID string) (units.WeightUnit, error)
}

// RecordView is a record converted to the unit the user wants to see.
type RecordView struct {
	Exercise string           `json:"exercise"`
	Value    int              `json:"value"`
	Unit     units.WeightUnit `json:"unit"`
	Display  string           `json:"display"`
	Date     *time.Time       `json:"date,omitempty"`
}

func NewRecordView(pr PersonalRecord, unit units.WeightUnit) RecordView {
	view := RecordView{
		Exercise: pr.Exercise,
		Unit:     unit,
		Display:  "-",
		Date:     pr.Date,
	}
	if pr.Achieved() {
		view.Value = units.ConvertWeight(pr.Value, pr.Unit, unit)
		view.Display = units.FormatWeight(pr.Value, pr.Unit, unit)
	}
	return view
}

type Handler struct {
	lister      recordsLister
	preferences unitPreferences
}

func NewHandler(lister recordsLister, preferences unitPreferences) *Handler {
	return &Handler{
		lister:      lister,
		preferences: preferences,
	}
}

func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.records.list")
	defer span.End()

	userID, ok := auth.UserIDFrom(ctx)
	if !ok {
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}

	unit := units.Kilograms
	if unitParam := r.URL.Query().Get("units"); unitParam != "" {
		parsed, err := units.ParseWeightUnit(unitParam)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		unit = parsed
	} else if h.preferences != nil {
		preferred, err := h.preferences.PreferredWeightUnit(ctx, userID)
		if err != nil {
			log.Warnf("get preferred weight unit for user %s: %s", userID, err)
		} else {
			unit = preferred
		}
	}

	list, err := h.lister.List(ctx, userID)
	if err != nil {
		log.Errorf("list records for user %s: %s", userID, err)
		http.Error(w, "error, failed to get records", http.StatusInternalServerError)
		return
	}

	views := make([]RecordView, 0, len(list))
	for _, pr := range list {
		views = append(views, NewRecordView(pr, unit))
	}

	pkg.WriteJSON(w, views, http.StatusOK)
}

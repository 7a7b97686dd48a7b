package live

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	log "github.com/sirupsen/logrus"

	"github.com/2beens/workoutlog/internal/auth"
	"github.com/2beens/workoutlog/internal/stats"
	"github.com/2beens/workoutlog/internal/store"
	"github.com/2beens/workoutlog/internal/telemetry/metrics"
	"github.com/2beens/workoutlog/internal/workouts"
)

const (
	defaultWriteWait    = 10 * time.Second
	defaultPongWait     = 60 * time.Second
	defaultPingInterval = 25 * time.Second
	maxMessageSize      = 512
)

type summaryProvider interface {
	SummaryFor(ctx context.Context, userID string) (stats.Summary, error)
}

type changeSubscriber interface {
	Subscribe(userID string, fn store.ChangeFunc) (unsubscribe func())
}

type StatsMessage struct {
	Type  string              `json:"type"`
	Stats stats.StatsResponse `json:"stats"`
}

// Handler pushes the stats summary of the connected user over a websocket,
// once on connect and again after every change of the user's workouts.
type Handler struct {
	upgrader       websocket.Upgrader
	summaries      summaryProvider
	subscriber     changeSubscriber
	metricsManager *metrics.Manager

	writeWait    time.Duration
	pongWait     time.Duration
	pingInterval time.Duration
}

func NewHandler(
	summaries summaryProvider,
	subscriber changeSubscriber,
	allowedOrigins []string,
	metricsManager *metrics.Manager,
) *Handler {
	return &Handler{
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     originChecker(allowedOrigins),
		},
		summaries:      summaries,
		subscriber:     subscriber,
		metricsManager: metricsManager,
		writeWait:      defaultWriteWait,
		pongWait:       defaultPongWait,
		pingInterval:   defaultPingInterval,
	}
}

// originChecker accepts requests without an Origin header, mobile clients
// do not send one.
func originChecker(allowedOrigins []string) func(r *http.Request) bool {
	allowed := make(map[string]bool, len(allowedOrigins))
	for _, o := range allowedOrigins {
		allowed[o] = true
	}
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		return origin == "" || allowed["*"] || allowed[origin]
	}
}

func (h *Handler) HandleStats(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFrom(r.Context())
	if !ok {
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}

	// subscribed before the upgrade so no change after the handshake is missed,
	// one pending signal is enough, the summary is always recomputed in full
	changed := make(chan struct{}, 1)
	unsubscribe := h.subscriber.Subscribe(userID, func(string, []workouts.WorkoutSummary) {
		select {
		case changed <- struct{}{}:
		default:
		}
	})
	defer unsubscribe()

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// upgrader already replied with an error
		log.Debugf("live stats upgrade for user %s: %s", userID, err)
		return
	}

	if h.metricsManager != nil {
		h.metricsManager.GaugeLiveClients.Inc()
		defer h.metricsManager.GaugeLiveClients.Dec()
	}

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	readerDone := make(chan struct{})
	go func() {
		defer close(readerDone)
		defer cancel()
		h.readLoop(conn)
	}()

	h.writeLoop(ctx, conn, userID, changed)

	if err := conn.Close(); err != nil {
		log.Debugf("close live stats conn for user %s: %s", userID, err)
	}
	<-readerDone
	log.Debugf("live stats client of user %s disconnected", userID)
}

// readLoop only handles control frames, it returns once the client goes away.
func (h *Handler) readLoop(conn *websocket.Conn) {
	conn.SetReadLimit(maxMessageSize)
	_ = conn.SetReadDeadline(time.Now().Add(h.pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(h.pongWait))
	})
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (h *Handler) writeLoop(ctx context.Context, conn *websocket.Conn, userID string, changed <-chan struct{}) {
	ticker := time.NewTicker(h.pingInterval)
	defer ticker.Stop()

	if !h.sendSummary(ctx, conn, userID) {
		return
	}

	for {
		select {
		case <-ctx.Done():
			_ = conn.WriteControl(
				websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
				time.Now().Add(h.writeWait),
			)
			return
		case <-changed:
			if !h.sendSummary(ctx, conn, userID) {
				return
			}
		case <-ticker.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(h.writeWait)); err != nil {
				return
			}
		}
	}
}

func (h *Handler) sendSummary(ctx context.Context, conn *websocket.Conn, userID string) bool {
	summary, err := h.summaries.SummaryFor(ctx, userID)
	if err != nil {
		log.Errorf("live stats summary for user %s: %s", userID, err)
		return ctx.Err() == nil
	}

	_ = conn.SetWriteDeadline(time.Now().Add(h.writeWait))
	if err := conn.WriteJSON(StatsMessage{Type: "stats", Stats: stats.NewStatsResponse(summary)}); err != nil {
		log.Debugf("write live stats for user %s: %s", userID, err)
		return false
	}
	return true
}

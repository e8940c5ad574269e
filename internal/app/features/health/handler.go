package health

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/dalemusser/campusdesk/internal/app/system/timeouts"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"
)

// Pinger is satisfied by *mongo.Client.
type Pinger interface {
	Ping(ctx context.Context, rp *readpref.ReadPref) error
}

// Handler reports liveness for load balancers and uptime checks.
type Handler struct {
	Client  Pinger
	Started time.Time
	Log     *zap.Logger
	now     func() time.Time
}

func NewHandler(client Pinger, logger *zap.Logger) *Handler {
	return &Handler{
		Client:  client,
		Started: time.Now(),
		Log:     logger,
		now:     time.Now,
	}
}

type check struct {
	Status    string `json:"status"`
	LatencyMS int64  `json:"latency_ms"`
	Error     string `json:"error,omitempty"`
}

type report struct {
	Status string           `json:"status"`
	Uptime string           `json:"uptime"`
	Checks map[string]check `json:"checks"`
}

func (h *Handler) pingMongo(ctx context.Context) check {
	ctx, cancel := context.WithTimeout(ctx, timeouts.Ping())
	defer cancel()

	start := h.now()
	err := h.Client.Ping(ctx, readpref.Primary())
	c := check{Status: "up", LatencyMS: h.now().Sub(start).Milliseconds()}
	if err != nil {
		h.Log.Error("health: mongo ping failed", zap.Error(err))
		c.Status = "down"
		c.Error = err.Error()
	}
	return c
}

// Serve handles GET /health. Any dependency that is down turns the overall
// status to "degraded" and the response code to 503.
func (h *Handler) Serve(w http.ResponseWriter, r *http.Request) {
	rep := report{
		Status: "ok",
		Uptime: h.now().Sub(h.Started).Truncate(time.Second).String(),
		Checks: map[string]check{"mongo": h.pingMongo(r.Context())},
	}

	code := http.StatusOK
	for _, c := range rep.Checks {
		if c.Status != "up" {
			rep.Status = "degraded"
			code = http.StatusServiceUnavailable
		}
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(rep)
}

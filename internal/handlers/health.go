package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/mux"
)

// HealthHandler returns uptime and database status.
type HealthHandler struct {
	startedAt time.Time
	ping      func(ctx context.Context) error
}

// NewHealthHandler creates a health endpoint handler. ping may be nil when
// no database is configured.
func NewHealthHandler(startedAt time.Time, ping func(ctx context.Context) error) *HealthHandler {
	return &HealthHandler{startedAt: startedAt, ping: ping}
}

func (h *HealthHandler) Register(api *mux.Router) {
	api.HandleFunc("/health", h.handle).Methods(http.MethodGet, http.MethodHead)
}

func (h *HealthHandler) handle(w http.ResponseWriter, r *http.Request) {
	status := http.StatusOK
	body := map[string]string{
		"status":   "ok",
		"uptime":   time.Since(h.startedAt).Truncate(time.Second).String(),
		"database": "memory",
	}
	if h.ping != nil {
		if err := h.ping(r.Context()); err != nil {
			status = http.StatusServiceUnavailable
			body["status"] = "degraded"
			body["database"] = "unreachable"
		} else {
			body["database"] = "ok"
		}
	}
	respondJSON(w, status, body)
}

package handlers

import (
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog/log"

	"github.com/markjakearzadon/nammakodai-gobackend/internal/auth"
	"github.com/markjakearzadon/nammakodai-gobackend/internal/middleware"
	"github.com/markjakearzadon/nammakodai-gobackend/internal/services"
	"github.com/markjakearzadon/nammakodai-gobackend/internal/stream"
)

const (
	userPingInterval  = 25 * time.Second
	adminPingInterval = 30 * time.Second
)

// StreamHandler serves the live SSE feeds and the admin WebSocket mirror.
type StreamHandler struct {
	hub            *stream.Hub
	users          *services.UserService
	dashboard      *services.DashboardService
	allowedOrigins []string

	userPing  time.Duration
	adminPing time.Duration

	quit      chan struct{}
	closeOnce sync.Once
}

func NewStreamHandler(hub *stream.Hub, users *services.UserService, dashboard *services.DashboardService, allowedOrigins []string) *StreamHandler {
	return &StreamHandler{
		hub:            hub,
		users:          users,
		dashboard:      dashboard,
		allowedOrigins: allowedOrigins,
		userPing:       userPingInterval,
		adminPing:      adminPingInterval,
		quit:           make(chan struct{}),
	}
}

// Close ends every open SSE stream.
func (h *StreamHandler) Close() {
	h.closeOnce.Do(func() { close(h.quit) })
}

func (h *StreamHandler) Register(api *mux.Router, guard *middleware.Authenticator) {
	api.Handle("/stream/user", guard.RequireUser(http.HandlerFunc(h.UserStream))).Methods(http.MethodGet)
	api.Handle("/stream/admin", guard.RequireAdmin(http.HandlerFunc(h.AdminStream))).Methods(http.MethodGet)
	api.Handle("/ws/admin", guard.RequireAdmin(http.HandlerFunc(h.AdminSocket))).Methods(http.MethodGet)
}

// UserStream pushes the caller's own document after every change.
func (h *StreamHandler) UserStream(w http.ResponseWriter, r *http.Request) {
	id, _ := auth.UserFrom(r.Context())
	user, err := h.users.Profile(r.Context(), id.Subject)
	if err != nil {
		respondServiceError(w, r, "user stream", err)
		return
	}

	client := h.hub.Subscribe(stream.UserTopic(id.Subject))
	defer h.hub.Unsubscribe(client)

	sse, err := stream.NewSSEWriter(w)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Streaming unsupported")
		return
	}
	if err := sse.Send(stream.EventUser, user.View()); err != nil {
		return
	}
	h.pump(r, sse, client, h.userPing)
}

// AdminStream sends an initial snapshot, then whatever the poller publishes.
func (h *StreamHandler) AdminStream(w http.ResponseWriter, r *http.Request) {
	snap, err := h.dashboard.Snapshot(r.Context())
	if err != nil {
		respondServiceError(w, r, "admin stream", err)
		return
	}

	client := h.hub.Subscribe(stream.AdminTopic)
	defer h.hub.Unsubscribe(client)

	sse, err := stream.NewSSEWriter(w)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Streaming unsupported")
		return
	}
	if err := sse.Send(stream.EventInitial, stream.NewInitialPayload(snap)); err != nil {
		return
	}
	admin, _ := auth.AdminFrom(r.Context())
	log.Info().Str("admin", admin.UserID).Msg("admin stream opened")
	h.pump(r, sse, client, h.adminPing)
}

func (h *StreamHandler) AdminSocket(w http.ResponseWriter, r *http.Request) {
	snap, err := h.dashboard.Snapshot(r.Context())
	if err != nil {
		respondServiceError(w, r, "admin socket", err)
		return
	}
	initial := &stream.Message{Type: stream.EventInitial, Data: stream.NewInitialPayload(snap), Timestamp: time.Now()}
	stream.ServeWS(h.hub, w, r, stream.AdminTopic, h.allowedOrigins, initial)
}

func (h *StreamHandler) pump(r *http.Request, sse *stream.SSEWriter, client *stream.Client, ping time.Duration) {
	ticker := time.NewTicker(ping)
	defer ticker.Stop()
	for {
		select {
		case <-r.Context().Done():
			return
		case <-h.quit:
			return
		case msg, ok := <-client.Send:
			if !ok {
				return
			}
			if err := sse.Send(msg.Type, msg.Data); err != nil {
				return
			}
		case now := <-ticker.C:
			if err := sse.Ping(now); err != nil {
				return
			}
		}
	}
}

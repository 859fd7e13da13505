package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/markjakearzadon/nammakodai-gobackend/internal/config"
	"github.com/markjakearzadon/nammakodai-gobackend/internal/handlers"
	"github.com/markjakearzadon/nammakodai-gobackend/internal/middleware"
	"github.com/markjakearzadon/nammakodai-gobackend/internal/services"
	"github.com/markjakearzadon/nammakodai-gobackend/internal/stations"
	"github.com/markjakearzadon/nammakodai-gobackend/internal/stream"
)

// Deps are the collaborators the routes are built on.
type Deps struct {
	Users     *services.UserService
	Wallets   *services.WalletService
	Admins    *services.AdminService
	Dashboard *services.DashboardService
	Hub       *stream.Hub
	Guard     *middleware.Authenticator
	Stations  []stations.Station
	// Ping checks the database for /api/health; nil means in-memory storage.
	Ping func(ctx context.Context) error
}

// Server wraps an http.Server with configured routes.
type Server struct {
	inner *http.Server
}

// NewRouter builds the full HTTP handler, middleware included.
func NewRouter(cfg config.Config, deps Deps) http.Handler {
	h, _ := buildRouter(cfg, deps)
	return h
}

func buildRouter(cfg config.Config, deps Deps) (http.Handler, *handlers.StreamHandler) {
	router := mux.NewRouter()
	router.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	}).Methods(http.MethodGet, http.MethodHead)

	api := router.PathPrefix("/api").Subrouter()
	handlers.NewHealthHandler(time.Now(), deps.Ping).Register(api)
	handlers.NewStationHandler(deps.Stations).Register(api)
	handlers.NewUserHandler(deps.Users).Register(api, deps.Guard)
	handlers.NewWalletHandler(deps.Wallets).Register(api, deps.Guard)
	handlers.NewAdminHandler(deps.Admins, deps.Dashboard).Register(api, deps.Guard)
	streams := handlers.NewStreamHandler(deps.Hub, deps.Users, deps.Dashboard, cfg.CORSOrigins)
	streams.Register(api, deps.Guard)

	router.Use(middleware.Recoverer)
	return middleware.Logging(middleware.CORS(cfg.CORSOrigins, router)), streams
}

// New wires up middleware, routes, and returns a ready server. WriteTimeout
// applies to REST calls; stream handlers clear it per connection.
func New(cfg config.Config, deps Deps) *Server {
	handler, streams := buildRouter(cfg, deps)
	httpServer := &http.Server{
		Addr:              cfg.HTTPAddress(),
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
	// open streams never go idle, so end them when shutdown begins
	httpServer.RegisterOnShutdown(streams.Close)
	return &Server{inner: httpServer}
}

// Start begins serving HTTP traffic.
func (s *Server) Start() error {
	return s.inner.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.inner.Shutdown(ctx)
}

package handlers

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/markjakearzadon/nammakodai-gobackend/internal/auth"
	"github.com/markjakearzadon/nammakodai-gobackend/internal/middleware"
	"github.com/markjakearzadon/nammakodai-gobackend/internal/models/dto"
	"github.com/markjakearzadon/nammakodai-gobackend/internal/services"
)

const maxFeedLimit = 1000

type AdminHandler struct {
	admins    *services.AdminService
	dashboard *services.DashboardService
}

func NewAdminHandler(admins *services.AdminService, dashboard *services.DashboardService) *AdminHandler {
	return &AdminHandler{admins: admins, dashboard: dashboard}
}

func (h *AdminHandler) Register(api *mux.Router, guard *middleware.Authenticator) {
	r := api.PathPrefix("/admin").Subrouter()
	r.HandleFunc("/seed-initial", h.SeedInitial).Methods(http.MethodPost)
	r.HandleFunc("/login", h.Login).Methods(http.MethodPost)

	protected := r.NewRoute().Subrouter()
	protected.Use(guard.RequireAdmin)
	protected.HandleFunc("/add", h.AddAdmin).Methods(http.MethodPost)
	protected.HandleFunc("/users", h.Users).Methods(http.MethodGet)
	protected.HandleFunc("/transactions", h.Transactions).Methods(http.MethodGet)
	protected.HandleFunc("/stats", h.Stats).Methods(http.MethodGet)
	protected.HandleFunc("/test", h.Test).Methods(http.MethodGet)
}

func (h *AdminHandler) SeedInitial(w http.ResponseWriter, r *http.Request) {
	seeded, err := h.admins.SeedInitial(r.Context())
	if err != nil {
		respondServiceError(w, r, "seed admin", err)
		return
	}
	respondJSON(w, http.StatusOK, dto.SeedResponse{OK: true, Seeded: seeded})
}

func (h *AdminHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req dto.AdminLoginRequest
	if !bind(w, r, &req, "Invalid input", false) {
		return
	}
	token, admin, err := h.admins.Login(r.Context(), req.UserID, req.Password)
	if err != nil {
		respondServiceError(w, r, "admin login", err)
		return
	}
	respondJSON(w, http.StatusOK, dto.AdminLoginResponse{Token: token, Admin: admin.View()})
}

func (h *AdminHandler) AddAdmin(w http.ResponseWriter, r *http.Request) {
	var req dto.AddAdminRequest
	if !bind(w, r, &req, "Invalid input", false) {
		return
	}
	admin, err := h.admins.AddAdmin(r.Context(), req)
	if err != nil {
		respondServiceError(w, r, "add admin", err)
		return
	}
	respondJSON(w, http.StatusCreated, dto.AddAdminResponse{OK: true, Admin: admin.View()})
}

func (h *AdminHandler) Users(w http.ResponseWriter, r *http.Request) {
	users, err := h.dashboard.Users(r.Context())
	if err != nil {
		respondServiceError(w, r, "list users", err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"users": users})
}

// Transactions serves the merged feed. ?limit= overrides the default of 100.
func (h *AdminHandler) Transactions(w http.ResponseWriter, r *http.Request) {
	limit := services.FeedLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 || n > maxFeedLimit {
			respondJSON(w, http.StatusBadRequest, errorBody{
				Error:   "Invalid input",
				Details: map[string]string{"limit": "must be between 1 and 1000"},
			})
			return
		}
		limit = n
	}
	feed, err := h.dashboard.Transactions(r.Context(), limit)
	if err != nil {
		respondServiceError(w, r, "list transactions", err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"transactions": feed})
}

func (h *AdminHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.dashboard.Stats(r.Context())
	if err != nil {
		respondServiceError(w, r, "stats", err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"stats": stats})
}

// Test echoes the claims of a valid admin token.
func (h *AdminHandler) Test(w http.ResponseWriter, r *http.Request) {
	id, _ := auth.AdminFrom(r.Context())
	respondJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"admin":   id,
		"message": "Admin authentication successful",
	})
}

package handlers

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/markjakearzadon/nammakodai-gobackend/internal/auth"
	"github.com/markjakearzadon/nammakodai-gobackend/internal/middleware"
	"github.com/markjakearzadon/nammakodai-gobackend/internal/models/dto"
	"github.com/markjakearzadon/nammakodai-gobackend/internal/services"
)

// UserHandler serves account routes under /api/auth.
type UserHandler struct {
	service *services.UserService
}

func NewUserHandler(service *services.UserService) *UserHandler {
	return &UserHandler{service: service}
}

func (h *UserHandler) Register(api *mux.Router, guard *middleware.Authenticator) {
	r := api.PathPrefix("/auth").Subrouter()
	r.HandleFunc("/register", h.CreateUser).Methods(http.MethodPost)
	r.HandleFunc("/login", h.Login).Methods(http.MethodPost)
	r.HandleFunc("/explore", h.Explore).Methods(http.MethodPost)
	r.Handle("/profile", guard.RequireUser(http.HandlerFunc(h.UpdateProfile))).Methods(http.MethodPut)
	r.Handle("/account", guard.RequireUser(http.HandlerFunc(h.DeleteAccount))).Methods(http.MethodDelete)
}

func (h *UserHandler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var req dto.RegisterRequest
	if !bind(w, r, &req, "Invalid input", false) {
		return
	}
	user, err := h.service.Register(r.Context(), req)
	if err != nil {
		respondServiceError(w, r, "register", err)
		return
	}
	respondJSON(w, http.StatusCreated, dto.UserResponse{User: user.View()})
}

func (h *UserHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req dto.LoginRequest
	if !bind(w, r, &req, "Invalid input", false) {
		return
	}
	token, user, err := h.service.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		respondServiceError(w, r, "login", err)
		return
	}
	respondJSON(w, http.StatusOK, dto.LoginResponse{Token: token, User: user.View()})
}

func (h *UserHandler) Explore(w http.ResponseWriter, r *http.Request) {
	var req dto.ExploreRequest
	if !bind(w, r, &req, "Invalid input", true) {
		return
	}
	token, user, err := h.service.Explore(r.Context(), req)
	if err != nil {
		respondServiceError(w, r, "explore", err)
		return
	}
	respondJSON(w, http.StatusCreated, dto.LoginResponse{Token: token, User: user.View()})
}

func (h *UserHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	id, _ := auth.UserFrom(r.Context())
	var req dto.UpdateProfileRequest
	if !bind(w, r, &req, "Invalid input", false) {
		return
	}
	user, err := h.service.UpdateProfile(r.Context(), id.Subject, req)
	if err != nil {
		respondServiceError(w, r, "update profile", err)
		return
	}
	respondJSON(w, http.StatusOK, dto.UserResponse{User: user.View()})
}

func (h *UserHandler) DeleteAccount(w http.ResponseWriter, r *http.Request) {
	id, _ := auth.UserFrom(r.Context())
	amount, refundURL, err := h.service.DeleteAccount(r.Context(), id.Subject)
	if err != nil {
		respondServiceError(w, r, "delete account", err)
		return
	}
	respondJSON(w, http.StatusOK, dto.DeleteAccountResponse{OK: true, RefundAmount: amount, RefundURL: refundURL})
}

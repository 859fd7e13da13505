package handlers

import (
	"math"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/markjakearzadon/nammakodai-gobackend/internal/auth"
	"github.com/markjakearzadon/nammakodai-gobackend/internal/middleware"
	"github.com/markjakearzadon/nammakodai-gobackend/internal/models"
	"github.com/markjakearzadon/nammakodai-gobackend/internal/models/dto"
	"github.com/markjakearzadon/nammakodai-gobackend/internal/services"
)

type WalletHandler struct {
	service *services.WalletService
}

func NewWalletHandler(service *services.WalletService) *WalletHandler {
	return &WalletHandler{service: service}
}

func (h *WalletHandler) Register(api *mux.Router, guard *middleware.Authenticator) {
	r := api.PathPrefix("/wallet").Subrouter()
	r.Use(guard.RequireUser)
	r.HandleFunc("/balance", h.Balance).Methods(http.MethodGet)
	r.HandleFunc("/deposit", h.Deposit).Methods(http.MethodPost)
	r.HandleFunc("/borrow", h.Borrow).Methods(http.MethodPost)
	r.HandleFunc("/return", h.Return).Methods(http.MethodPost)
}

func balanceResponse(u *models.User) dto.BalanceResponse {
	borrow := u.CurrentBorrow
	currency := u.Wallet.Currency
	if currency == "" {
		currency = models.CurrencyINR
	}
	return dto.BalanceResponse{
		Balance:       u.Wallet.Balance,
		Currency:      currency,
		Transactions:  models.RecentTransactions(u.Transactions, models.RecentLimit),
		CurrentBorrow: &borrow,
	}
}

func (h *WalletHandler) Balance(w http.ResponseWriter, r *http.Request) {
	id, _ := auth.UserFrom(r.Context())
	user, err := h.service.Balance(r.Context(), id.Subject)
	if err != nil {
		respondServiceError(w, r, "balance", err)
		return
	}
	respondJSON(w, http.StatusOK, balanceResponse(user))
}

// Deposit is a demo top-up: no payment provider is involved. Amounts are
// whole coins.
func (h *WalletHandler) Deposit(w http.ResponseWriter, r *http.Request) {
	id, _ := auth.UserFrom(r.Context())
	var req dto.DepositRequest
	if !bind(w, r, &req, "Invalid amount", false) {
		return
	}
	if req.Amount != math.Trunc(req.Amount) || req.Amount > math.MaxInt32 {
		respondJSON(w, http.StatusBadRequest, errorBody{
			Error:   "Invalid amount",
			Details: map[string]string{"amount": "must be a whole number of coins"},
		})
		return
	}
	user, err := h.service.Deposit(r.Context(), id.Subject, int64(req.Amount))
	if err != nil {
		respondServiceError(w, r, "deposit", err)
		return
	}
	respondJSON(w, http.StatusOK, balanceResponse(user))
}

func (h *WalletHandler) Borrow(w http.ResponseWriter, r *http.Request) {
	id, _ := auth.UserFrom(r.Context())
	var req dto.BorrowRequest
	if !bind(w, r, &req, "Invalid borrow input", false) {
		return
	}
	user, err := h.service.Borrow(r.Context(), id.Subject, req.StationID, req.StationName)
	if err != nil {
		respondServiceError(w, r, "borrow", err)
		return
	}
	respondJSON(w, http.StatusOK, dto.BorrowResponse{
		OK:            true,
		Balance:       user.Wallet.Balance,
		CurrentBorrow: user.CurrentBorrow,
		Transactions:  models.RecentTransactions(user.Transactions, models.RecentLimit),
	})
}

func (h *WalletHandler) Return(w http.ResponseWriter, r *http.Request) {
	id, _ := auth.UserFrom(r.Context())
	user, out, err := h.service.Return(r.Context(), id.Subject)
	if err != nil {
		respondServiceError(w, r, "return", err)
		return
	}
	respondJSON(w, http.StatusOK, dto.ReturnResponse{
		OK:            true,
		Balance:       user.Wallet.Balance,
		Transactions:  models.RecentTransactions(user.Transactions, models.RecentLimit),
		CurrentBorrow: user.CurrentBorrow,
		Outcome: dto.ReturnOutcome{
			Type:         out.Type,
			Amount:       out.Amount,
			OverdueHours: out.OverdueHours,
			ElapsedMs:    out.Elapsed.Milliseconds(),
			Charged:      out.Charged,
		},
	})
}

package handlers

import (
	"errors"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/markjakearzadon/nammakodai-gobackend/internal/services"
	"github.com/markjakearzadon/nammakodai-gobackend/internal/wallet"
)

type errorMapping struct {
	err     error
	status  int
	message string
}

var errorTable = []errorMapping{
	{wallet.ErrAlreadyBorrowing, http.StatusConflict, "Already borrowing an umbrella"},
	{wallet.ErrInsufficientCoins, http.StatusPaymentRequired, "Insufficient coins (need 50)"},
	{wallet.ErrExplorerBorrowUsed, http.StatusConflict, "Explorer one-time borrow already used"},
	{wallet.ErrNoActiveBorrow, http.StatusConflict, "No active borrow"},
	{wallet.ErrInvalidAmount, http.StatusBadRequest, "Invalid amount"},
	{services.ErrInvalidCredentials, http.StatusUnauthorized, "Invalid credentials"},
	{services.ErrEmailTaken, http.StatusConflict, "Email already registered"},
	{services.ErrEmailInUse, http.StatusConflict, "Email already in use"},
	{services.ErrUserNotFound, http.StatusNotFound, "User not found"},
	{services.ErrConcurrentUpdate, http.StatusConflict, "Account was updated concurrently, please retry"},
	{services.ErrInvalidAccessPassword, http.StatusForbidden, "Invalid access password"},
	{services.ErrAdminExists, http.StatusConflict, "User ID already exists"},
}

// respondServiceError maps domain errors to their HTTP status. Anything
// unknown is logged and reported as a 500.
func respondServiceError(w http.ResponseWriter, r *http.Request, op string, err error) {
	for _, m := range errorTable {
		if errors.Is(err, m.err) {
			respondError(w, m.status, m.message)
			return
		}
	}
	log.Error().Err(err).Str("op", op).Str("path", r.URL.Path).Msg("unexpected error")
	respondError(w, http.StatusInternalServerError, "Server error")
}

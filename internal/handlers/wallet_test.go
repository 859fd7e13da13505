package handlers

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/markjakearzadon/nammakodai-gobackend/internal/models"
	"github.com/markjakearzadon/nammakodai-gobackend/internal/models/dto"
)

func borrowBody() map[string]string {
	return map[string]string{"stationId": "S1", "stationName": "Gate"}
}

func TestWalletScenarioOverHTTP(t *testing.T) {
	a := newTestAPI(t)
	token := a.signup("asha@example.com")

	rec := a.do(http.MethodPost, "/api/wallet/borrow", token, borrowBody())
	require.Equal(t, http.StatusPaymentRequired, rec.Code)
	assert.JSONEq(t, `{"error":"Insufficient coins (need 50)"}`, rec.Body.String())

	rec = a.do(http.MethodPost, "/api/wallet/deposit", token, map[string]any{"amount": 100})
	require.Equal(t, http.StatusOK, rec.Code)
	bal := decode[dto.BalanceResponse](t, rec)
	assert.Equal(t, int64(100), bal.Balance)
	assert.Equal(t, "INR", bal.Currency)

	// the deposit promoted the account
	rec = a.do(http.MethodPost, "/api/auth/login", "", map[string]string{"email": "asha@example.com", "password": "secret1"})
	require.Equal(t, http.StatusOK, rec.Code)
	login := decode[dto.LoginResponse](t, rec)
	assert.Equal(t, models.RoleExistingUser, login.User.Role)

	start := a.clock.Now()
	rec = a.do(http.MethodPost, "/api/wallet/borrow", token, borrowBody())
	require.Equal(t, http.StatusOK, rec.Code)
	borrow := decode[dto.BorrowResponse](t, rec)
	assert.True(t, borrow.OK)
	assert.Equal(t, int64(50), borrow.Balance)
	assert.True(t, borrow.CurrentBorrow.Active)
	assert.Equal(t, start.Add(2*time.Hour), borrow.CurrentBorrow.DueAt.UTC())
	assert.Equal(t, int64(-50), borrow.Transactions[0].Amount)

	rec = a.do(http.MethodPost, "/api/wallet/borrow", token, borrowBody())
	assert.Equal(t, http.StatusConflict, rec.Code)

	a.clock.Advance(time.Hour)
	rec = a.do(http.MethodPost, "/api/wallet/return", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	ret := decode[dto.ReturnResponse](t, rec)
	assert.Equal(t, int64(100), ret.Balance)
	assert.False(t, ret.CurrentBorrow.Active)
	assert.Equal(t, models.TransactionRefund, ret.Outcome.Type)
	assert.Equal(t, time.Hour.Milliseconds(), ret.Outcome.ElapsedMs)

	rec = a.do(http.MethodPost, "/api/wallet/return", token, nil)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.JSONEq(t, `{"error":"No active borrow"}`, rec.Body.String())

	rec = a.do(http.MethodPost, "/api/wallet/borrow", token, borrowBody())
	require.Equal(t, http.StatusOK, rec.Code)
	a.clock.Advance(26 * time.Hour)
	rec = a.do(http.MethodPost, "/api/wallet/return", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	ret = decode[dto.ReturnResponse](t, rec)
	assert.Equal(t, int64(40), ret.Balance)
	assert.Equal(t, models.TransactionPenalty, ret.Outcome.Type)
	assert.Equal(t, int64(2), ret.Outcome.OverdueHours)
	assert.Equal(t, float64(2), ret.Transactions[0].Meta["overdueHours"])

	rec = a.do(http.MethodGet, "/api/wallet/balance", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	bal = decode[dto.BalanceResponse](t, rec)
	assert.Equal(t, int64(40), bal.Balance)
	assert.Len(t, bal.Transactions, 5)
	require.NotNil(t, bal.CurrentBorrow)
	assert.False(t, bal.CurrentBorrow.Active)
}

func TestDepositRejectsBadAmounts(t *testing.T) {
	a := newTestAPI(t)
	token := a.signup("asha@example.com")

	for _, body := range []any{
		map[string]any{"amount": 0},
		map[string]any{"amount": -5},
		map[string]any{"amount": 10.5},
		map[string]any{"amount": "abc"},
		map[string]any{},
	} {
		rec := a.do(http.MethodPost, "/api/wallet/deposit", token, body)
		assert.Equal(t, http.StatusBadRequest, rec.Code, body)
		assert.Equal(t, "Invalid amount", decode[errorBody](t, rec).Error)
	}
}

func TestBorrowNeedsStation(t *testing.T) {
	a := newTestAPI(t)
	token := a.signup("asha@example.com")

	rec := a.do(http.MethodPost, "/api/wallet/borrow", token, map[string]string{"stationId": "S1"})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	body := decode[errorBody](t, rec)
	assert.Equal(t, "Invalid borrow input", body.Error)
	assert.Equal(t, "is required", body.Details["stationName"])
}

func TestExplorerBorrowOverHTTP(t *testing.T) {
	a := newTestAPI(t)
	rec := a.do(http.MethodPost, "/api/auth/explore", "", map[string]string{})
	require.Equal(t, http.StatusCreated, rec.Code)
	token := decode[dto.LoginResponse](t, rec).Token

	rec = a.do(http.MethodPost, "/api/wallet/borrow", token, borrowBody())
	require.Equal(t, http.StatusOK, rec.Code)
	borrow := decode[dto.BorrowResponse](t, rec)
	assert.Equal(t, int64(0), borrow.Balance)
	assert.Equal(t, a.clock.Now().Add(50*time.Minute), borrow.CurrentBorrow.DueAt.UTC())

	a.clock.Advance(70 * time.Minute)
	rec = a.do(http.MethodPost, "/api/wallet/return", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	ret := decode[dto.ReturnResponse](t, rec)
	assert.Equal(t, models.TransactionPenalty, ret.Outcome.Type)
	assert.Equal(t, int64(-5), ret.Outcome.Amount)
	assert.False(t, ret.Outcome.Charged)
	assert.Equal(t, int64(0), ret.Balance)
	assert.Empty(t, ret.Transactions)

	rec = a.do(http.MethodPost, "/api/wallet/borrow", token, borrowBody())
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.JSONEq(t, `{"error":"Explorer one-time borrow already used"}`, rec.Body.String())
}

package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/markjakearzadon/nammakodai-gobackend/internal/auth"
	"github.com/markjakearzadon/nammakodai-gobackend/internal/middleware"
	"github.com/markjakearzadon/nammakodai-gobackend/internal/services"
	"github.com/markjakearzadon/nammakodai-gobackend/internal/stations"
	"github.com/markjakearzadon/nammakodai-gobackend/internal/storage/memory"
	"github.com/markjakearzadon/nammakodai-gobackend/internal/stream"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

type testAPI struct {
	t           *testing.T
	store       *memory.Store
	clock       *fakeClock
	hub         *stream.Hub
	dashboard   *services.DashboardService
	userTokens  *auth.TokenManager
	adminTokens *auth.TokenManager
	streams     *StreamHandler
	handler     http.Handler
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()
	a := &testAPI{
		t:           t,
		store:       memory.New(),
		clock:       &fakeClock{now: time.Date(2025, 10, 1, 9, 0, 0, 0, time.UTC)},
		hub:         stream.NewHub(16),
		userTokens:  auth.NewTokenManager("user-secret"),
		adminTokens: auth.NewTokenManager("admin-secret"),
	}

	users := services.NewUserService(a.store, a.userTokens, services.UserServiceConfig{
		UserTokenTTL:      7 * 24 * time.Hour,
		ExplorerTokenTTL:  3 * time.Hour,
		RefundRedirectURL: "https://example.com/refund",
		HashCost:          bcrypt.MinCost,
	})
	users.SetClock(a.clock.Now)
	users.SetNotifier(a.hub)

	wallets := services.NewWalletService(a.store)
	wallets.SetClock(a.clock.Now)
	wallets.SetNotifier(a.hub)

	admins := services.NewAdminService(a.store, a.adminTokens, services.AdminServiceConfig{
		TokenTTL:       7 * 24 * time.Hour,
		AccessPassword: "N3021K",
		SeedPassword:   "3021nk",
		HashCost:       bcrypt.MinCost,
	})
	a.dashboard = services.NewDashboardService(a.store)

	list, err := stations.Load()
	require.NoError(t, err)

	guard := middleware.NewAuthenticator(a.userTokens, a.adminTokens)
	router := mux.NewRouter()
	api := router.PathPrefix("/api").Subrouter()
	NewHealthHandler(time.Now(), nil).Register(api)
	NewStationHandler(list).Register(api)
	NewUserHandler(users).Register(api, guard)
	NewWalletHandler(wallets).Register(api, guard)
	NewAdminHandler(admins, a.dashboard).Register(api, guard)
	a.streams = NewStreamHandler(a.hub, users, a.dashboard, []string{"*"})
	a.streams.userPing = 50 * time.Millisecond
	a.streams.adminPing = 50 * time.Millisecond
	a.streams.Register(api, guard)
	a.handler = router
	return a
}

func (a *testAPI) do(method, path, token string, body any) *httptest.ResponseRecorder {
	a.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if raw, ok := body.(string); ok {
			buf.WriteString(raw)
		} else {
			require.NoError(a.t, json.NewEncoder(&buf).Encode(body))
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	a.handler.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

// signup registers and logs in, returning the user token.
func (a *testAPI) signup(email string) string {
	a.t.Helper()
	rec := a.do(http.MethodPost, "/api/auth/register", "", map[string]string{
		"name": "Asha", "email": email, "password": "secret1",
	})
	require.Equal(a.t, http.StatusCreated, rec.Code, rec.Body.String())
	rec = a.do(http.MethodPost, "/api/auth/login", "", map[string]string{
		"email": email, "password": "secret1",
	})
	require.Equal(a.t, http.StatusOK, rec.Code, rec.Body.String())
	return decode[map[string]any](a.t, rec)["token"].(string)
}

func (a *testAPI) adminToken() string {
	a.t.Helper()
	rec := a.do(http.MethodPost, "/api/admin/seed-initial", "", nil)
	require.Equal(a.t, http.StatusOK, rec.Code)
	rec = a.do(http.MethodPost, "/api/admin/login", "", map[string]string{
		"userId": services.SeedAdminUserID, "password": "3021nk",
	})
	require.Equal(a.t, http.StatusOK, rec.Code, rec.Body.String())
	return decode[map[string]any](a.t, rec)["token"].(string)
}

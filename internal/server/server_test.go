package server

import (
	"bufio"
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/markjakearzadon/nammakodai-gobackend/internal/auth"
	"github.com/markjakearzadon/nammakodai-gobackend/internal/config"
	"github.com/markjakearzadon/nammakodai-gobackend/internal/middleware"
	"github.com/markjakearzadon/nammakodai-gobackend/internal/services"
	"github.com/markjakearzadon/nammakodai-gobackend/internal/storage/memory"
	"github.com/markjakearzadon/nammakodai-gobackend/internal/stream"
)

func testDeps() (config.Config, Deps) {
	cfg := config.Config{
		Port:              "0",
		StorageDriver:     config.DriverMemory,
		CORSOrigins:       []string{"http://localhost:5173"},
		RefundRedirectURL: "https://example.com/refund",
	}
	store := memory.New()
	userTokens := auth.NewTokenManager("user-secret")
	adminTokens := auth.NewTokenManager("admin-secret")
	hub := stream.NewHub(8)

	users := services.NewUserService(store, userTokens, services.UserServiceConfig{
		UserTokenTTL:      time.Hour,
		ExplorerTokenTTL:  time.Hour,
		RefundRedirectURL: cfg.RefundRedirectURL,
		HashCost:          4,
	})
	users.SetNotifier(hub)
	wallets := services.NewWalletService(store)
	wallets.SetNotifier(hub)

	return cfg, Deps{
		Users:     users,
		Wallets:   wallets,
		Admins:    services.NewAdminService(store, adminTokens, services.AdminServiceConfig{TokenTTL: time.Hour, HashCost: 4}),
		Dashboard: services.NewDashboardService(store),
		Hub:       hub,
		Guard:     middleware.NewAuthenticator(userTokens, adminTokens),
	}
}

func TestRootAndNotFound(t *testing.T) {
	h := NewRouter(testDeps())

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "OK", rec.Body.String())
	assert.NotEmpty(t, rec.Header().Get(middleware.RequestIDHeader))

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/nope", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCORSPreflight(t *testing.T) {
	h := NewRouter(testDeps())

	req := httptest.NewRequest(http.MethodOptions, "/api/wallet/deposit", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "http://localhost:5173", rec.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodOptions, "/api/wallet/deposit", nil)
	req.Header.Set("Origin", "http://evil.test")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestHealthUsesMemoryWithoutPing(t *testing.T) {
	h := NewRouter(testDeps())

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/health", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "memory", body["database"])
}

// The user stream must flush through the logging middleware.
func TestUserStreamThroughMiddleware(t *testing.T) {
	srv := httptest.NewServer(NewRouter(testDeps()))
	defer srv.Close()

	body, _ := json.Marshal(map[string]string{"name": "Asha", "email": "asha@example.com", "password": "secret1"})
	resp, err := http.Post(srv.URL+"/api/auth/register", "application/json", bytes.NewReader(body))
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, err = http.Post(srv.URL+"/api/auth/login", "application/json", bytes.NewReader(body))
	require.NoError(t, err)
	var login struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&login))
	resp.Body.Close()

	resp, err = http.Get(srv.URL + "/api/stream/user?token=" + login.Token)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	line, err := bufio.NewReader(resp.Body).ReadString('\n')
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(line, "event: user"), line)
}

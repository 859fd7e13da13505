package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/markjakearzadon/nammakodai-gobackend/internal/auth"
	"github.com/markjakearzadon/nammakodai-gobackend/internal/models"
	"github.com/markjakearzadon/nammakodai-gobackend/internal/storage/memory"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2025, 10, 1, 9, 0, 0, 0, time.UTC)}
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

type recordingNotifier struct {
	mu    sync.Mutex
	users []models.UserView
}

func (n *recordingNotifier) NotifyUser(u *models.User) {
	n.mu.Lock()
	n.users = append(n.users, u.View())
	n.mu.Unlock()
}

func (n *recordingNotifier) count() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.users)
}

type fixture struct {
	store    *memory.Store
	clock    *fakeClock
	notifier *recordingNotifier
	tokens   *auth.TokenManager
	users    *UserService
	wallets  *WalletService
	admins   *AdminService
	board    *DashboardService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		store:    memory.New(),
		clock:    newFakeClock(),
		notifier: &recordingNotifier{},
		tokens:   auth.NewTokenManager("test-secret"),
	}
	f.users = NewUserService(f.store, f.tokens, UserServiceConfig{
		UserTokenTTL:      7 * 24 * time.Hour,
		ExplorerTokenTTL:  3 * time.Hour,
		RefundRedirectURL: "https://pay.example/refund",
		HashCost:          bcrypt.MinCost,
	})
	f.users.SetClock(f.clock.Now)
	f.users.SetNotifier(f.notifier)

	f.wallets = NewWalletService(f.store)
	f.wallets.SetClock(f.clock.Now)
	f.wallets.SetNotifier(f.notifier)

	f.admins = NewAdminService(f.store, auth.NewTokenManager("admin-secret"), AdminServiceConfig{
		TokenTTL:       7 * 24 * time.Hour,
		AccessPassword: "N3021K",
		SeedPassword:   "3021nk",
		HashCost:       bcrypt.MinCost,
	})

	f.board = NewDashboardService(f.store)
	f.board.SetClock(f.clock.Now)
	return f
}

func ctx() context.Context { return context.Background() }

func (f *fixture) register(t *testing.T, email string) *models.User {
	t.Helper()
	u, err := f.users.Register(ctx(), registerReq(email))
	require.NoError(t, err)
	return u
}

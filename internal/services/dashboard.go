package services

import (
	"context"
	"sort"
	"time"

	"github.com/markjakearzadon/nammakodai-gobackend/internal/models"
	"github.com/markjakearzadon/nammakodai-gobackend/internal/storage"
)

// FeedLimit caps the merged transaction feed.
const FeedLimit = 100

// DashboardService derives admin views from the full users collection. Nothing
// is cached; every call re-reads and recomputes.
type DashboardService struct {
	store storage.UserStore
	now   Clock
}

func NewDashboardService(store storage.UserStore) *DashboardService {
	return &DashboardService{store: store, now: time.Now}
}

func (s *DashboardService) SetClock(now Clock) { s.now = now }

func (s *DashboardService) Snapshot(ctx context.Context) (models.DashboardSnapshot, error) {
	users, err := s.store.ListUsers(ctx)
	if err != nil {
		return models.DashboardSnapshot{}, err
	}
	return models.DashboardSnapshot{
		Users:        Views(users),
		Stats:        ComputeStats(users),
		Transactions: MergeTransactions(users, FeedLimit),
		GeneratedAt:  s.now(),
	}, nil
}

func (s *DashboardService) Users(ctx context.Context) ([]models.UserView, error) {
	users, err := s.store.ListUsers(ctx)
	if err != nil {
		return nil, err
	}
	return Views(users), nil
}

func (s *DashboardService) Stats(ctx context.Context) (models.DashboardStats, error) {
	users, err := s.store.ListUsers(ctx)
	if err != nil {
		return models.DashboardStats{}, err
	}
	return ComputeStats(users), nil
}

func (s *DashboardService) Transactions(ctx context.Context, limit int) ([]models.FeedTransaction, error) {
	users, err := s.store.ListUsers(ctx)
	if err != nil {
		return nil, err
	}
	return MergeTransactions(users, limit), nil
}

func Views(users []models.User) []models.UserView {
	out := make([]models.UserView, 0, len(users))
	for i := range users {
		out = append(out, users[i].View())
	}
	return out
}

// ComputeStats counts users by role. Active counts everyone not blocked;
// there is no blocking flow yet, so it equals Total.
func ComputeStats(users []models.User) models.DashboardStats {
	stats := models.DashboardStats{Total: len(users)}
	for i := range users {
		u := &users[i]
		if u.Role != "blocked" {
			stats.Active++
		}
		switch u.Role {
		case models.RoleNewUser:
			stats.NewUsers++
		case models.RoleExistingUser:
			stats.ExistingUsers++
		case models.RoleExplorer:
			stats.Explorers++
		}
		if u.CurrentBorrow.Active {
			stats.ActiveBorrows++
		}
		stats.TotalBalance += u.Wallet.Balance
	}
	return stats
}

// MergeTransactions flattens every user's ledger, newest first, keeping at
// most limit entries.
func MergeTransactions(users []models.User, limit int) []models.FeedTransaction {
	feed := []models.FeedTransaction{}
	for i := range users {
		u := &users[i]
		for _, txn := range u.Transactions {
			feed = append(feed, models.FeedTransaction{
				Transaction: txn,
				UserID:      u.ID.Hex(),
				UserName:    u.Name,
				UserEmail:   u.Email,
			})
		}
	}
	sort.SliceStable(feed, func(i, j int) bool {
		return feed[i].CreatedAt.After(feed[j].CreatedAt)
	})
	if limit > 0 && len(feed) > limit {
		feed = feed[:limit]
	}
	return feed
}

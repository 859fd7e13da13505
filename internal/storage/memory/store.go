// Package memory is an in-process UserStore/AdminStore used by tests and by
// STORAGE_DRIVER=memory for local runs without MongoDB.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/markjakearzadon/nammakodai-gobackend/internal/models"
	"github.com/markjakearzadon/nammakodai-gobackend/internal/storage"
)

var (
	_ storage.UserStore  = (*Store)(nil)
	_ storage.AdminStore = (*Store)(nil)
)

type Store struct {
	mu         sync.RWMutex
	users      map[primitive.ObjectID]*models.User
	emailIndex map[string]primitive.ObjectID
	admins     map[string]*models.Admin
}

func New() *Store {
	return &Store{
		users:      make(map[primitive.ObjectID]*models.User),
		emailIndex: make(map[string]primitive.ObjectID),
		admins:     make(map[string]*models.Admin),
	}
}

func (s *Store) CreateUser(ctx context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := strings.ToLower(user.Email)
	if _, exists := s.emailIndex[key]; exists {
		return storage.ErrAlreadyExists
	}
	if user.ID.IsZero() {
		user.ID = primitive.NewObjectID()
	}
	now := time.Now()
	if user.CreatedAt.IsZero() {
		user.CreatedAt = now
	}
	user.UpdatedAt = now
	s.users[user.ID] = cloneUser(user)
	s.emailIndex[key] = user.ID
	return nil
}

func (s *Store) FindUserByID(ctx context.Context, id string) (*models.User, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, storage.ErrNotFound
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[objID]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return cloneUser(u), nil
}

func (s *Store) FindUserByEmail(ctx context.Context, email string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.emailIndex[strings.ToLower(email)]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return cloneUser(s.users[id]), nil
}

func (s *Store) ListUsers(ctx context.Context) ([]models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.User, 0, len(s.users))
	for _, u := range s.users {
		out = append(out, *cloneUser(u))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (s *Store) UpdateProfile(ctx context.Context, id, name, email string) (*models.User, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, storage.ErrNotFound
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[objID]
	if !ok {
		return nil, storage.ErrNotFound
	}
	newKey := strings.ToLower(email)
	if owner, taken := s.emailIndex[newKey]; taken && owner != objID {
		return nil, storage.ErrAlreadyExists
	}
	delete(s.emailIndex, strings.ToLower(u.Email))
	u.Name = name
	u.Email = email
	u.UpdatedAt = time.Now()
	s.emailIndex[newKey] = objID
	return cloneUser(u), nil
}

func (s *Store) SaveWallet(ctx context.Context, user *models.User, guard storage.BorrowGuard, added []models.Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored, ok := s.users[user.ID]
	if !ok {
		return storage.ErrNotFound
	}
	if stored.Version != user.Version {
		return storage.ErrVersionConflict
	}
	switch guard {
	case storage.GuardIdle:
		if stored.CurrentBorrow.Active {
			return storage.ErrVersionConflict
		}
	case storage.GuardActive:
		if !stored.CurrentBorrow.Active {
			return storage.ErrVersionConflict
		}
	}

	txns := make([]models.Transaction, 0, len(added)+len(stored.Transactions))
	txns = append(txns, added...)
	txns = append(txns, stored.Transactions...)

	stored.Role = user.Role
	stored.Wallet = user.Wallet
	stored.CurrentBorrow = user.CurrentBorrow
	stored.Explorer = user.Explorer
	stored.Transactions = txns
	stored.Version++
	stored.UpdatedAt = time.Now()

	user.Version = stored.Version
	user.UpdatedAt = stored.UpdatedAt
	return nil
}

func (s *Store) DeleteUser(ctx context.Context, id string) error {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return storage.ErrNotFound
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[objID]
	if !ok {
		return storage.ErrNotFound
	}
	delete(s.emailIndex, strings.ToLower(u.Email))
	delete(s.users, objID)
	return nil
}

func (s *Store) CreateAdmin(ctx context.Context, admin *models.Admin) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.admins[admin.UserID]; exists {
		return storage.ErrAlreadyExists
	}
	if admin.ID.IsZero() {
		admin.ID = primitive.NewObjectID()
	}
	now := time.Now()
	admin.CreatedAt = now
	admin.UpdatedAt = now
	copied := *admin
	s.admins[admin.UserID] = &copied
	return nil
}

func (s *Store) FindAdminByUserID(ctx context.Context, userID string) (*models.Admin, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	a, ok := s.admins[userID]
	if !ok {
		return nil, storage.ErrNotFound
	}
	copied := *a
	return &copied, nil
}

func cloneUser(u *models.User) *models.User {
	c := *u
	c.Transactions = make([]models.Transaction, len(u.Transactions))
	copy(c.Transactions, u.Transactions)
	if u.CurrentBorrow.StartedAt != nil {
		t := *u.CurrentBorrow.StartedAt
		c.CurrentBorrow.StartedAt = &t
	}
	if u.CurrentBorrow.DueAt != nil {
		t := *u.CurrentBorrow.DueAt
		c.CurrentBorrow.DueAt = &t
	}
	if u.Explorer.ExpiresAt != nil {
		t := *u.Explorer.ExpiresAt
		c.Explorer.ExpiresAt = &t
	}
	return &c
}

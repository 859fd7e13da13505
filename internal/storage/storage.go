package storage

import (
	"context"
	"errors"

	"github.com/markjakearzadon/nammakodai-gobackend/internal/models"
)

// ErrNotFound indicates a record does not exist.
var ErrNotFound = errors.New("record not found")

// ErrAlreadyExists indicates a uniqueness conflict.
var ErrAlreadyExists = errors.New("record already exists")

// ErrVersionConflict means the document changed between read and write.
var ErrVersionConflict = errors.New("record was modified concurrently")

// BorrowGuard adds a borrow-state precondition to a wallet write.
type BorrowGuard int

const (
	GuardNone BorrowGuard = iota
	// GuardIdle requires currentBorrow.active to be false at write time.
	GuardIdle
	// GuardActive requires currentBorrow.active to be true at write time.
	GuardActive
)

// UserStore captures persistence operations on user documents.
type UserStore interface {
	CreateUser(ctx context.Context, user *models.User) error
	FindUserByID(ctx context.Context, id string) (*models.User, error)
	FindUserByEmail(ctx context.Context, email string) (*models.User, error)
	ListUsers(ctx context.Context) ([]models.User, error)
	UpdateProfile(ctx context.Context, id, name, email string) (*models.User, error)
	// SaveWallet writes role, wallet, currentBorrow and explorer state and
	// prepends added to the transaction list. The write only applies if the
	// stored version still equals user.Version and guard holds; on success
	// user.Version is incremented.
	SaveWallet(ctx context.Context, user *models.User, guard BorrowGuard, added []models.Transaction) error
	DeleteUser(ctx context.Context, id string) error
}

// AdminStore captures persistence operations on admin documents.
type AdminStore interface {
	CreateAdmin(ctx context.Context, admin *models.Admin) error
	FindAdminByUserID(ctx context.Context, userID string) (*models.Admin, error)
}

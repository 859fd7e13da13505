package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Roles a user document can carry.
const (
	RoleNewUser      = "new_user"
	RoleExistingUser = "existing_user"
	RoleExplorer     = "explorer"
	RoleAdmin        = "admin"
)

// CurrencyINR is the only wallet currency. One coin is one rupee.
const CurrencyINR = "INR"

type Wallet struct {
	Balance  int64  `bson:"balance" json:"balance"`
	Currency string `bson:"currency" json:"currency"`
}

// CurrentBorrow is the single outstanding umbrella loan of a user.
type CurrentBorrow struct {
	Active      bool       `bson:"active" json:"active"`
	StationID   string     `bson:"stationId,omitempty" json:"stationId,omitempty"`
	StationName string     `bson:"stationName,omitempty" json:"stationName,omitempty"`
	StartedAt   *time.Time `bson:"startedAt,omitempty" json:"startedAt,omitempty"`
	DueAt       *time.Time `bson:"dueAt,omitempty" json:"dueAt,omitempty"`
}

// Explorer gates the one free borrow of a trial account.
type Explorer struct {
	Enabled    bool       `bson:"enabled" json:"enabled"`
	ExpiresAt  *time.Time `bson:"expiresAt,omitempty" json:"expiresAt,omitempty"`
	BorrowUsed bool       `bson:"borrowUsed" json:"borrowUsed"`
}

// User model
type User struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name          string             `bson:"name" json:"name"`
	Email         string             `bson:"email" json:"email"`
	PasswordHash  string             `bson:"passwordHash" json:"-"`
	Role          string             `bson:"role" json:"role"`
	Wallet        Wallet             `bson:"wallet" json:"wallet"`
	CurrentBorrow CurrentBorrow      `bson:"currentBorrow" json:"currentBorrow"`
	Explorer      Explorer           `bson:"explorer" json:"explorer"`
	Transactions  []Transaction      `bson:"transactions" json:"transactions"`
	Version       int64              `bson:"version" json:"-"`
	CreatedAt     time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt     time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// RecentLimit caps the transactions sent back to clients.
const RecentLimit = 50

// UserView is the client-facing projection of a user.
type UserView struct {
	ID            string         `json:"id"`
	Name          string         `json:"name"`
	Email         string         `json:"email"`
	Role          string         `json:"role"`
	Wallet        Wallet         `json:"wallet"`
	Explorer      *Explorer      `json:"explorer,omitempty"`
	CurrentBorrow *CurrentBorrow `json:"currentBorrow,omitempty"`
	Transactions  []Transaction  `json:"transactions"`
	CreatedAt     time.Time      `json:"createdAt"`
}

// View builds the client projection with at most RecentLimit transactions.
func (u *User) View() UserView {
	v := UserView{
		ID:           u.ID.Hex(),
		Name:         u.Name,
		Email:        u.Email,
		Role:         u.Role,
		Wallet:       u.Wallet,
		Transactions: RecentTransactions(u.Transactions, RecentLimit),
		CreatedAt:    u.CreatedAt,
	}
	if v.Wallet.Currency == "" {
		v.Wallet.Currency = CurrencyINR
	}
	if u.Role == RoleExplorer || u.Explorer.Enabled {
		explorer := u.Explorer
		v.Explorer = &explorer
	}
	borrow := u.CurrentBorrow
	v.CurrentBorrow = &borrow
	return v
}

// IsExplorerEligible reports whether the explorer free borrow path applies at now.
func (u *User) IsExplorerEligible(now time.Time) bool {
	return u.Role == RoleExplorer &&
		u.Explorer.Enabled &&
		u.Explorer.ExpiresAt != nil &&
		now.Before(*u.Explorer.ExpiresAt)
}

// Package wallet holds the borrow, return and deposit rules applied to a user
// document. Nothing here touches storage; callers persist the mutated user.
package wallet

import (
	"errors"
	"time"

	"github.com/markjakearzadon/nammakodai-gobackend/internal/models"
)

const (
	BorrowFee          int64 = 50
	MinBalanceToBorrow int64 = 50
	PenaltyPerHour     int64 = 5

	PaidBorrowDuration     = 2 * time.Hour
	ExplorerBorrowDuration = 50 * time.Minute
	PaidFreeWindow         = 24 * time.Hour
	ExplorerFreeWindow     = 50 * time.Minute
)

var (
	ErrAlreadyBorrowing   = errors.New("already borrowing an umbrella")
	ErrInsufficientCoins  = errors.New("insufficient coins (need 50)")
	ErrExplorerBorrowUsed = errors.New("explorer one-time borrow already used")
	ErrNoActiveBorrow     = errors.New("no active borrow")
	ErrInvalidAmount      = errors.New("invalid amount")
)

// Borrow starts a borrow session at now. It returns the ledger entry written,
// or nil for an explorer's free borrow.
func Borrow(u *models.User, stationID, stationName string, now time.Time) (*models.Transaction, error) {
	if u.CurrentBorrow.Active {
		return nil, ErrAlreadyBorrowing
	}

	explorer := u.IsExplorerEligible(now)
	if !explorer && u.Wallet.Balance < MinBalanceToBorrow {
		return nil, ErrInsufficientCoins
	}

	var (
		due time.Time
		txn *models.Transaction
	)
	if explorer {
		if u.Explorer.BorrowUsed {
			return nil, ErrExplorerBorrowUsed
		}
		u.Explorer.BorrowUsed = true
		due = now.Add(ExplorerBorrowDuration)
	} else {
		u.Wallet.Balance -= BorrowFee
		txn = &models.Transaction{
			Amount:    -BorrowFee,
			Type:      models.TransactionBorrow,
			Meta:      map[string]any{"stationId": stationID, "stationName": stationName},
			CreatedAt: now,
		}
		prepend(u, *txn)
		due = now.Add(PaidBorrowDuration)
	}

	started := now
	u.CurrentBorrow = models.CurrentBorrow{
		Active:      true,
		StationID:   stationID,
		StationName: stationName,
		StartedAt:   &started,
		DueAt:       &due,
	}
	return txn, nil
}

// Outcome describes how a return was settled.
type Outcome struct {
	Type         models.TransactionType
	Amount       int64
	OverdueHours int64
	Elapsed      time.Duration
	// Charged is false for explorers: the outcome is computed but their
	// wallet is never touched.
	Charged     bool
	Transaction *models.Transaction
}

// FreeWindow is the elapsed time a return may take before it is penalised.
func FreeWindow(role string) time.Duration {
	if role == models.RoleExplorer {
		return ExplorerFreeWindow
	}
	return PaidFreeWindow
}

// Settle computes the refund or penalty for a borrow that lasted elapsed.
func Settle(role string, elapsed time.Duration) (models.TransactionType, int64, int64) {
	window := FreeWindow(role)
	if elapsed <= window {
		return models.TransactionRefund, BorrowFee, 0
	}
	overdue := elapsed - window
	hours := int64(overdue / time.Hour)
	if overdue%time.Hour != 0 {
		hours++
	}
	return models.TransactionPenalty, -PenaltyPerHour * hours, hours
}

// Return closes the active borrow at now and settles it against the wallet.
func Return(u *models.User, now time.Time) (Outcome, error) {
	if !u.CurrentBorrow.Active {
		return Outcome{}, ErrNoActiveBorrow
	}

	var elapsed time.Duration
	if u.CurrentBorrow.StartedAt != nil {
		elapsed = now.Sub(*u.CurrentBorrow.StartedAt)
	}
	kind, delta, overdue := Settle(u.Role, elapsed)

	out := Outcome{
		Type:         kind,
		Amount:       delta,
		OverdueHours: overdue,
		Elapsed:      elapsed,
		Charged:      u.Role != models.RoleExplorer,
	}
	if out.Charged {
		meta := map[string]any{
			"stationId":   u.CurrentBorrow.StationID,
			"stationName": u.CurrentBorrow.StationName,
		}
		if kind == models.TransactionPenalty {
			meta["overdueHours"] = overdue
		}
		txn := models.Transaction{Amount: delta, Type: kind, Meta: meta, CreatedAt: now}
		u.Wallet.Balance += delta
		prepend(u, txn)
		out.Transaction = &txn
	}

	u.CurrentBorrow = models.CurrentBorrow{Active: false}
	return out, nil
}

// Deposit credits amount coins. Only positive amounts are accepted.
func Deposit(u *models.User, amount int64, now time.Time) (*models.Transaction, error) {
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}
	u.Wallet.Balance += amount
	if u.Wallet.Currency == "" {
		u.Wallet.Currency = models.CurrencyINR
	}
	txn := models.Transaction{Amount: amount, Type: models.TransactionDeposit, CreatedAt: now}
	prepend(u, txn)
	Promote(u)
	return &txn, nil
}

// Promote moves a new user with a positive balance to existing_user and
// reports whether the role changed. It runs on login and deposit only.
func Promote(u *models.User) bool {
	if u.Role == models.RoleNewUser && u.Wallet.Balance > 0 {
		u.Role = models.RoleExistingUser
		return true
	}
	return false
}

func prepend(u *models.User, txn models.Transaction) {
	u.Transactions = append([]models.Transaction{txn}, u.Transactions...)
}

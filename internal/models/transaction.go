package models

import "time"

type TransactionType string

const (
	TransactionDeposit TransactionType = "deposit"
	TransactionBorrow  TransactionType = "borrow"
	TransactionPenalty TransactionType = "penalty"
	TransactionRefund  TransactionType = "refund"
)

// Transaction is one wallet ledger entry. Entries are stored newest first and
// never modified after they are written.
type Transaction struct {
	Amount    int64           `bson:"amount" json:"amount"`
	Type      TransactionType `bson:"type" json:"type"`
	Meta      map[string]any  `bson:"meta,omitempty" json:"meta,omitempty"`
	CreatedAt time.Time       `bson:"createdAt" json:"createdAt"`
}

// RecentTransactions returns the first n entries of a newest-first list.
func RecentTransactions(txns []Transaction, n int) []Transaction {
	if len(txns) <= n {
		out := make([]Transaction, len(txns))
		copy(out, txns)
		return out
	}
	out := make([]Transaction, n)
	copy(out, txns[:n])
	return out
}

// FeedTransaction is a transaction tagged with its owner, used by the admin feed.
type FeedTransaction struct {
	Transaction `bson:",inline"`
	UserID      string `json:"userId"`
	UserName    string `json:"userName"`
	UserEmail   string `json:"userEmail"`
}

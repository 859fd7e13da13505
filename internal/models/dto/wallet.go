package dto

import "github.com/markjakearzadon/nammakodai-gobackend/internal/models"

type DepositRequest struct {
	Amount float64 `json:"amount" validate:"gt=0"`
}

type BorrowRequest struct {
	StationID   string `json:"stationId" validate:"required"`
	StationName string `json:"stationName" validate:"required"`
}

type BalanceResponse struct {
	Balance       int64                 `json:"balance"`
	Currency      string                `json:"currency"`
	Transactions  []models.Transaction  `json:"transactions"`
	CurrentBorrow *models.CurrentBorrow `json:"currentBorrow"`
}

type BorrowResponse struct {
	OK            bool                 `json:"ok"`
	Balance       int64                `json:"balance"`
	CurrentBorrow models.CurrentBorrow `json:"currentBorrow"`
	Transactions  []models.Transaction `json:"transactions"`
}

type ReturnOutcome struct {
	Type         models.TransactionType `json:"type"`
	Amount       int64                  `json:"amount"`
	OverdueHours int64                  `json:"overdueHours,omitempty"`
	ElapsedMs    int64                  `json:"elapsedMs"`
	Charged      bool                   `json:"charged"`
}

type ReturnResponse struct {
	OK            bool                 `json:"ok"`
	Balance       int64                `json:"balance"`
	Transactions  []models.Transaction `json:"transactions"`
	CurrentBorrow models.CurrentBorrow `json:"currentBorrow"`
	Outcome       ReturnOutcome        `json:"outcome"`
}

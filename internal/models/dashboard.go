package models

import "time"

// DashboardStats is recomputed from the full users collection on every request.
type DashboardStats struct {
	Total         int   `json:"total"`
	Active        int   `json:"active"`
	NewUsers      int   `json:"newUsers"`
	ExistingUsers int   `json:"existingUsers"`
	Explorers     int   `json:"explorers"`
	ActiveBorrows int   `json:"activeBorrows"`
	TotalBalance  int64 `json:"totalBalance"`
}

// DashboardSnapshot is what the admin feed pushes on every tick.
type DashboardSnapshot struct {
	Users        []UserView        `json:"users"`
	Stats        DashboardStats    `json:"stats"`
	Transactions []FeedTransaction `json:"transactions"`
	GeneratedAt  time.Time         `json:"generatedAt"`
}

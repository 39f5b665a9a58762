package models

import (
	"time"

	"github.com/google/uuid"
)

// StatsSnapshot is one locally persisted statistics document for a
// (username, start, end) request, so repeat runs are served without hitting
// GitHub again.
type StatsSnapshot struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	StartDate string    `json:"start_date"` // YYYY-MM-DD
	EndDate   string    `json:"end_date"`
	Document  string    `json:"document"` // YearStats as JSON
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewStatsSnapshot creates a new StatsSnapshot with a generated UUID
func NewStatsSnapshot(username, startDate, endDate, document string) *StatsSnapshot {
	now := time.Now()
	return &StatsSnapshot{
		ID:        uuid.New().String(),
		Username:  username,
		StartDate: startDate,
		EndDate:   endDate,
		Document:  document,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

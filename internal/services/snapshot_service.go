package services

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/qingbolan/yearscope/internal/models"
	"github.com/qingbolan/yearscope/internal/repositories"
)

// SnapshotService persists computed statistics locally per
// (username, start, end) so repeat runs are served without refetching.
type SnapshotService struct {
	snapshotRepo *repositories.SnapshotRepository
}

func NewSnapshotService(snapshotRepo *repositories.SnapshotRepository) *SnapshotService {
	return &SnapshotService{snapshotRepo: snapshotRepo}
}

// GetStats returns the stored statistics for the range with the cached flag
// set, or nil when no snapshot exists.
func (s *SnapshotService) GetStats(username, startDate, endDate string) (*models.YearStats, error) {
	snapshot, err := s.snapshotRepo.GetByRange(username, startDate, endDate)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	var stats models.YearStats
	if err := json.Unmarshal([]byte(snapshot.Document), &stats); err != nil {
		return nil, fmt.Errorf("unmarshal snapshot document: %w", err)
	}

	stats.Cached = true
	return &stats, nil
}

// SaveStats replaces the stored snapshot for the range.
func (s *SnapshotService) SaveStats(username, startDate, endDate string, stats *models.YearStats) error {
	document, err := json.Marshal(stats)
	if err != nil {
		return err
	}

	if err := s.snapshotRepo.DeleteByRange(username, startDate, endDate); err != nil {
		return err
	}

	return s.snapshotRepo.Create(models.NewStatsSnapshot(username, startDate, endDate, string(document)))
}

// DeleteStats removes the stored snapshot for the range.
func (s *SnapshotService) DeleteStats(username, startDate, endDate string) error {
	return s.snapshotRepo.DeleteByRange(username, startDate, endDate)
}

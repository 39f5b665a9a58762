package services

import (
	"fmt"
	"time"

	"github.com/qingbolan/yearscope/internal/models"
)

// PeriodService splits a requested date range into windows the GitHub
// contributions API accepts: at most one year each.
type PeriodService struct{}

func NewPeriodService() *PeriodService {
	return &PeriodService{}
}

// SplitRange returns ordered windows covering [start, end] exactly once.
// Each window spans at most one year, window i+1 starts the day after
// window i ends, and the last window is clipped to end. A start after end
// is rejected: an empty window list would be indistinguishable from a
// genuinely inactive range.
func (s *PeriodService) SplitRange(start, end time.Time) ([]models.TimeWindow, error) {
	start = truncateToDay(start)
	end = truncateToDay(end)

	if start.After(end) {
		return nil, fmt.Errorf("invalid range: start %s is after end %s",
			start.Format("2006-01-02"), end.Format("2006-01-02"))
	}

	var windows []models.TimeWindow
	for cursor := start; !cursor.After(end); {
		to := cursor.AddDate(1, 0, 0).AddDate(0, 0, -1)
		if to.After(end) {
			to = end
		}
		windows = append(windows, models.TimeWindow{From: cursor, To: to})
		cursor = to.AddDate(0, 0, 1)
	}

	return windows, nil
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

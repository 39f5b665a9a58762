package services

import (
	"time"

	"github.com/qingbolan/yearscope/internal/models"
)

// HistogramService buckets the daily series into week-indexed arrays plus
// weekday and hour-of-day distributions.
type HistogramService struct{}

func NewHistogramService() *HistogramService {
	return &HistogramService{}
}

// Build computes the week buckets relative to the window's end date: 52 for
// a full calendar year, ceil(days/7) otherwise. Contributions outside the
// bucket range are dropped silently. The hour histogram is only populated
// when timestamped commits are available.
func (s *HistogramService) Build(daily []models.DailyCount, window models.TimeWindow, commits []models.CommitRecord) models.ActivityHistogram {
	var histogram models.ActivityHistogram

	buckets := weekBucketCount(window)
	histogram.Weeks = make([]int, buckets)

	end := truncateToDay(window.To)
	for _, day := range daily {
		date, err := time.Parse("2006-01-02", day.Date)
		if err != nil {
			continue
		}

		idx := (buckets - 1) - weeksBetween(date, end)
		if idx >= 0 && idx < buckets {
			histogram.Weeks[idx] += day.Count
		}

		histogram.Weekdays[int(date.Weekday())] += day.Count
	}

	if len(commits) > 0 {
		histogram.Hours = make([]int, 24)
		for _, c := range commits {
			histogram.Hours[c.Date.UTC().Hour()]++
		}
	}

	return histogram
}

func weekBucketCount(window models.TimeWindow) int {
	from := truncateToDay(window.From)
	to := truncateToDay(window.To)

	if isFullCalendarYear(from, to) {
		return 52
	}

	totalDays := int(to.Sub(from).Hours()/24) + 1
	buckets := (totalDays + 6) / 7
	if buckets < 1 {
		buckets = 1
	}
	return buckets
}

func isFullCalendarYear(from, to time.Time) bool {
	return from.Year() == to.Year() &&
		from.Month() == time.January && from.Day() == 1 &&
		to.Month() == time.December && to.Day() == 31
}

func weeksBetween(date, end time.Time) int {
	days := int(end.Sub(date).Hours() / 24)
	if days < 0 {
		return -1
	}
	return days / 7
}

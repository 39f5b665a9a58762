package services

import (
	"math"
	"sort"
	"time"

	"github.com/qingbolan/yearscope/internal/models"
)

// StreakService computes activity streaks from the daily count series.
type StreakService struct{}

func NewStreakService() *StreakService {
	return &StreakService{}
}

// Compute walks the active dates (count > 0) for the longest run of
// consecutive days, then walks backward from rangeEnd for the current run.
// A zero rangeEnd defaults to today. An empty series yields all-zero fields.
func (s *StreakService) Compute(daily []models.DailyCount, rangeEnd time.Time) models.StreakResult {
	var result models.StreakResult

	active := make(map[string]bool)
	var activeDates []time.Time
	totalCount := 0

	for _, day := range daily {
		if day.Count <= 0 {
			continue
		}
		date, err := time.Parse("2006-01-02", day.Date)
		if err != nil {
			continue
		}
		if !active[day.Date] {
			activeDates = append(activeDates, date)
		}
		active[day.Date] = true
		totalCount += day.Count
	}

	result.ActiveDays = len(activeDates)
	if result.ActiveDays > 0 {
		avg := float64(totalCount) / float64(result.ActiveDays)
		result.AvgPerActiveDay = math.Round(avg*10) / 10
	}

	sort.Slice(activeDates, func(i, j int) bool { return activeDates[i].Before(activeDates[j]) })

	// Longest streak: a gap of exactly one day extends the run, anything
	// else closes it and opens a new one.
	var runStart, prev time.Time
	runLength := 0
	for _, date := range activeDates {
		if runLength > 0 && date.Sub(prev) == 24*time.Hour {
			runLength++
		} else {
			runStart = date
			runLength = 1
		}
		prev = date

		if runLength > result.LongestStreak {
			result.LongestStreak = runLength
			result.LongestStreakStart = runStart.Format("2006-01-02")
			result.LongestStreakEnd = date.Format("2006-01-02")
		}
	}

	// Current streak, counted independently backward from the range end. An
	// inactive end date means there is no current streak at all.
	if rangeEnd.IsZero() {
		rangeEnd = time.Now().UTC()
	}
	end := truncateToDay(rangeEnd)
	for i := 0; i < 365; i++ {
		if !active[end.AddDate(0, 0, -i).Format("2006-01-02")] {
			break
		}
		result.CurrentStreak++
	}

	return result
}

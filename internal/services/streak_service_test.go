package services

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/qingbolan/yearscope/internal/models"
)

func TestComputeStreaks(t *testing.T) {
	service := NewStreakService()

	testCases := []struct {
		name            string
		daily           []models.DailyCount
		rangeEnd        string
		expectedLongest int
		expectedCurrent int
		expectedActive  int
	}{
		{
			name: "Gap resets the run",
			daily: []models.DailyCount{
				{Date: "2024-01-01", Count: 3},
				{Date: "2024-01-02", Count: 1},
				{Date: "2024-01-03", Count: 0},
				{Date: "2024-01-04", Count: 2},
			},
			rangeEnd:        "2024-01-04",
			expectedLongest: 2,
			expectedCurrent: 1,
			expectedActive:  3,
		},
		{
			name: "Inactive end date kills the current streak",
			daily: []models.DailyCount{
				{Date: "2024-01-01", Count: 5},
				{Date: "2024-01-02", Count: 5},
			},
			rangeEnd:        "2024-01-03",
			expectedLongest: 2,
			expectedCurrent: 0,
			expectedActive:  2,
		},
		{
			name: "Unbroken run",
			daily: []models.DailyCount{
				{Date: "2024-06-01", Count: 1},
				{Date: "2024-06-02", Count: 1},
				{Date: "2024-06-03", Count: 1},
			},
			rangeEnd:        "2024-06-03",
			expectedLongest: 3,
			expectedCurrent: 3,
			expectedActive:  3,
		},
		{
			name:            "Empty series",
			daily:           nil,
			rangeEnd:        "2024-12-31",
			expectedLongest: 0,
			expectedCurrent: 0,
			expectedActive:  0,
		},
		{
			name: "Unordered input",
			daily: []models.DailyCount{
				{Date: "2024-03-02", Count: 1},
				{Date: "2024-03-01", Count: 1},
				{Date: "2024-03-05", Count: 1},
			},
			rangeEnd:        "2024-03-05",
			expectedLongest: 2,
			expectedCurrent: 1,
			expectedActive:  3,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			result := service.Compute(tc.daily, date(tc.rangeEnd))

			assert.Equal(t, tc.expectedLongest, result.LongestStreak)
			assert.Equal(t, tc.expectedCurrent, result.CurrentStreak)
			assert.Equal(t, tc.expectedActive, result.ActiveDays)
		})
	}
}

func TestComputeStreakBounds(t *testing.T) {
	service := NewStreakService()

	result := service.Compute([]models.DailyCount{
		{Date: "2024-01-01", Count: 3},
		{Date: "2024-01-02", Count: 1},
		{Date: "2024-01-03", Count: 0},
		{Date: "2024-01-04", Count: 2},
	}, date("2024-01-04"))

	assert.Equal(t, "2024-01-01", result.LongestStreakStart)
	assert.Equal(t, "2024-01-02", result.LongestStreakEnd)
	assert.Equal(t, 2.0, result.AvgPerActiveDay)
}

func TestComputeStreakAverageRounding(t *testing.T) {
	service := NewStreakService()

	// 7 contributions over 3 active days is 2.333..., rounded to one decimal.
	result := service.Compute([]models.DailyCount{
		{Date: "2024-01-01", Count: 4},
		{Date: "2024-01-02", Count: 2},
		{Date: "2024-01-04", Count: 1},
	}, date("2024-01-04"))

	assert.Equal(t, 2.3, result.AvgPerActiveDay)
}

package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qingbolan/yearscope/internal/models"
)

func TestBuildHistogramBucketCount(t *testing.T) {
	service := NewHistogramService()

	testCases := []struct {
		name            string
		start           string
		end             string
		expectedBuckets int
	}{
		{
			name:            "Full calendar year pins to 52",
			start:           "2024-01-01",
			end:             "2024-12-31",
			expectedBuckets: 52,
		},
		{
			name:            "Ten days round up to two weeks",
			start:           "2024-03-01",
			end:             "2024-03-10",
			expectedBuckets: 2,
		},
		{
			name:            "Exactly one week",
			start:           "2024-03-01",
			end:             "2024-03-07",
			expectedBuckets: 1,
		},
		{
			name:            "Single day",
			start:           "2024-03-01",
			end:             "2024-03-01",
			expectedBuckets: 1,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			window := models.TimeWindow{From: date(tc.start), To: date(tc.end)}
			histogram := service.Build(nil, window, nil)
			assert.Len(t, histogram.Weeks, tc.expectedBuckets)
		})
	}
}

func TestBuildHistogramWeekIndexing(t *testing.T) {
	service := NewHistogramService()
	window := models.TimeWindow{From: date("2024-03-01"), To: date("2024-03-14")}

	daily := []models.DailyCount{
		{Date: "2024-03-14", Count: 5}, // 0 days before end, last bucket
		{Date: "2024-03-08", Count: 3}, // 6 days before end, still last bucket
		{Date: "2024-03-07", Count: 2}, // 7 days before end, previous bucket
		{Date: "2024-03-20", Count: 9}, // after the window, dropped
	}

	histogram := service.Build(daily, window, nil)
	require.Len(t, histogram.Weeks, 2)
	assert.Equal(t, 2, histogram.Weeks[0])
	assert.Equal(t, 8, histogram.Weeks[1])
}

func TestBuildHistogramWeekdays(t *testing.T) {
	service := NewHistogramService()
	window := models.TimeWindow{From: date("2024-03-04"), To: date("2024-03-10")}

	daily := []models.DailyCount{
		{Date: "2024-03-04", Count: 2}, // Monday
		{Date: "2024-03-05", Count: 1}, // Tuesday
		{Date: "2024-03-10", Count: 4}, // Sunday
	}

	histogram := service.Build(daily, window, nil)
	assert.Equal(t, 2, histogram.Weekdays[int(time.Monday)])
	assert.Equal(t, 1, histogram.Weekdays[int(time.Tuesday)])
	assert.Equal(t, 4, histogram.Weekdays[int(time.Sunday)])
	assert.Equal(t, 0, histogram.Weekdays[int(time.Friday)])
}

func TestBuildHistogramHours(t *testing.T) {
	service := NewHistogramService()
	window := models.TimeWindow{From: date("2024-01-01"), To: date("2024-12-31")}

	t.Run("No commits leaves hours empty", func(t *testing.T) {
		histogram := service.Build(nil, window, nil)
		assert.Nil(t, histogram.Hours)
	})

	t.Run("Commits bucket by UTC hour", func(t *testing.T) {
		commits := []models.CommitRecord{
			{Date: time.Date(2024, 5, 1, 9, 15, 0, 0, time.UTC)},
			{Date: time.Date(2024, 5, 2, 9, 45, 0, 0, time.UTC)},
			{Date: time.Date(2024, 5, 3, 23, 0, 0, 0, time.UTC)},
		}

		histogram := service.Build(nil, window, commits)
		require.Len(t, histogram.Hours, 24)
		assert.Equal(t, 2, histogram.Hours[9])
		assert.Equal(t, 1, histogram.Hours[23])
	})
}

package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func TestSplitRange(t *testing.T) {
	service := NewPeriodService()

	testCases := []struct {
		name          string
		start         string
		end           string
		expectedCount int
	}{
		{
			name:          "Single day",
			start:         "2024-06-15",
			end:           "2024-06-15",
			expectedCount: 1,
		},
		{
			name:          "Full calendar year",
			start:         "2024-01-01",
			end:           "2024-12-31",
			expectedCount: 1,
		},
		{
			name:          "Just over one year",
			start:         "2024-01-01",
			end:           "2025-01-01",
			expectedCount: 2,
		},
		{
			name:          "Three years",
			start:         "2022-03-10",
			end:           "2025-03-09",
			expectedCount: 3,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			windows, err := service.SplitRange(date(tc.start), date(tc.end))
			require.NoError(t, err)
			require.Len(t, windows, tc.expectedCount)

			// Windows must tile the range exactly: first starts at start,
			// last ends at end, each next window starts the day after the
			// previous one ends.
			assert.Equal(t, date(tc.start), windows[0].From)
			assert.Equal(t, date(tc.end), windows[len(windows)-1].To)

			for i, w := range windows {
				assert.False(t, w.From.After(w.To), "window %d inverted", i)
				assert.LessOrEqual(t, w.Days(), 366, "window %d exceeds one year", i)
				if i > 0 {
					assert.Equal(t, windows[i-1].To.AddDate(0, 0, 1), w.From,
						"window %d does not start the day after window %d ends", i, i-1)
				}
			}
		})
	}
}

func TestSplitRangeStartAfterEnd(t *testing.T) {
	service := NewPeriodService()

	windows, err := service.SplitRange(date("2024-05-01"), date("2024-04-30"))
	assert.Error(t, err)
	assert.Nil(t, windows)
}

func TestSplitRangeTruncatesTimeOfDay(t *testing.T) {
	service := NewPeriodService()

	start := time.Date(2024, 1, 1, 15, 30, 0, 0, time.UTC)
	end := time.Date(2024, 12, 31, 4, 0, 0, 0, time.UTC)

	windows, err := service.SplitRange(start, end)
	require.NoError(t, err)
	require.Len(t, windows, 1)
	assert.Equal(t, date("2024-01-01"), windows[0].From)
	assert.Equal(t, date("2024-12-31"), windows[0].To)
}

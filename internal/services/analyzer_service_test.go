package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qingbolan/yearscope/internal/models"
)

func commitAt(repo, message string, ts string) models.CommitRecord {
	parsed, err := time.Parse("2006-01-02T15:04:05", ts)
	if err != nil {
		panic(err)
	}
	return models.CommitRecord{Repo: repo, Message: message, Date: parsed.UTC()}
}

func TestKeywords(t *testing.T) {
	service := NewAnalyzerService()

	testCases := []struct {
		name     string
		messages []string
		limit    int
		expected []models.KeywordCount
	}{
		{
			name:     "Boilerplate and short tokens dropped",
			messages: []string{"Fix bug in parser", "fix bug"},
			limit:    10,
			expected: []models.KeywordCount{
				{Word: "bug", Count: 2},
				{Word: "parser", Count: 1},
			},
		},
		{
			name:     "Case folded before counting",
			messages: []string{"Refactor Scheduler", "scheduler tweaks"},
			limit:    10,
			expected: []models.KeywordCount{
				{Word: "scheduler", Count: 2},
				{Word: "tweaks", Count: 1},
			},
		},
		{
			name:     "Ties keep first-encountered order",
			messages: []string{"alpha beta", "beta alpha"},
			limit:    10,
			expected: []models.KeywordCount{
				{Word: "alpha", Count: 2},
				{Word: "beta", Count: 2},
			},
		},
		{
			name:     "Limit truncates",
			messages: []string{"alpha alpha beta beta gamma"},
			limit:    2,
			expected: []models.KeywordCount{
				{Word: "alpha", Count: 2},
				{Word: "beta", Count: 2},
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var commits []models.CommitRecord
			for _, msg := range tc.messages {
				commits = append(commits, models.CommitRecord{Message: msg})
			}

			keywords := service.Keywords(commits, tc.limit)
			assert.Equal(t, tc.expected, keywords)
		})
	}
}

func TestSummary(t *testing.T) {
	service := NewAnalyzerService()

	commits := []models.CommitRecord{
		commitAt("api", "one", "2024-01-10T10:00:00"),
		commitAt("api", "two", "2024-01-15T10:00:00"),
		commitAt("web", "three", "2024-02-01T10:00:00"),
	}
	commits[0].Insertions = 10
	commits[0].Deletions = 2
	commits[1].Insertions = 5

	summary := service.Summary(commits)

	assert.Equal(t, 3, summary.TotalCommits)
	assert.Equal(t, 2, summary.TotalRepos)
	assert.Equal(t, "api", summary.TopRepo)
	assert.Equal(t, "2024-01", summary.PeakMonth)
	assert.Equal(t, 15, summary.LinesAdded)
	assert.Equal(t, 2, summary.LinesDeleted)
	assert.Equal(t,
		"A year of code! You made 3 commits across 2 repositories. Your most active month was 2024-01.",
		summary.Narrative)
}

func TestSummaryTieBreaksOnFirstToReachMax(t *testing.T) {
	service := NewAnalyzerService()

	// Both repos end at two commits; "api" reached two first.
	commits := []models.CommitRecord{
		commitAt("api", "a", "2024-01-01T10:00:00"),
		commitAt("api", "b", "2024-01-02T10:00:00"),
		commitAt("web", "c", "2024-01-03T10:00:00"),
		commitAt("web", "d", "2024-01-04T10:00:00"),
	}

	summary := service.Summary(commits)
	assert.Equal(t, "api", summary.TopRepo)
}

func TestFilterByRange(t *testing.T) {
	service := NewAnalyzerService()

	commits := []models.CommitRecord{
		commitAt("api", "before", "2023-12-31T23:59:00"),
		commitAt("api", "first day", "2024-01-01T00:30:00"),
		commitAt("api", "last day", "2024-12-31T23:00:00"),
		commitAt("api", "after", "2025-01-01T00:00:01"),
	}

	filtered := service.FilterByRange(commits, date("2024-01-01"), date("2024-12-31"))
	require.Len(t, filtered, 2)
	assert.Equal(t, "first day", filtered[0].Message)
	assert.Equal(t, "last day", filtered[1].Message)
}

func TestFilterByAuthor(t *testing.T) {
	service := NewAnalyzerService()

	commits := []models.CommitRecord{
		{Author: "Jane Doe", Message: "a"},
		{Author: "someone else", Message: "b"},
		{Author: "jane.doe@example.com", Message: "c"},
	}

	t.Run("Case-insensitive substring match", func(t *testing.T) {
		filtered := service.FilterByAuthor(commits, "jane")
		assert.Len(t, filtered, 2)
	})

	t.Run("Empty author keeps everything", func(t *testing.T) {
		filtered := service.FilterByAuthor(commits, "")
		assert.Len(t, filtered, 3)
	})
}

func TestProjectRanking(t *testing.T) {
	service := NewAnalyzerService()

	commits := []models.CommitRecord{
		{Repo: "web"}, {Repo: "api"}, {Repo: "api"}, {Repo: "cli"},
	}

	ranking := service.ProjectRanking(commits)
	require.Len(t, ranking, 3)
	assert.Equal(t, models.ProjectCount{Repo: "api", Count: 2}, ranking[0])
	// web and cli tie at one; web was seen first.
	assert.Equal(t, models.ProjectCount{Repo: "web", Count: 1}, ranking[1])
	assert.Equal(t, models.ProjectCount{Repo: "cli", Count: 1}, ranking[2])
}

func TestTimeline(t *testing.T) {
	service := NewAnalyzerService()

	commits := []models.CommitRecord{
		commitAt("api", "a", "2024-02-01T10:00:00"),
		commitAt("api", "b", "2024-01-15T10:00:00"),
		commitAt("api", "c", "2024-01-15T18:00:00"),
	}

	timeline := service.Timeline(commits)
	assert.Equal(t, []models.DailyCount{
		{Date: "2024-01-15", Count: 2},
		{Date: "2024-02-01", Count: 1},
	}, timeline)
}

func TestLanguageHistogram(t *testing.T) {
	service := NewAnalyzerService()

	t.Run("Insertions weighted when line stats present", func(t *testing.T) {
		commits := []models.CommitRecord{
			{
				Files: []string{"main.go", "util.go", "notes.txt"},
				FileStats: map[string]models.FileStat{
					"main.go":   {Insertions: 30},
					"util.go":   {Insertions: 10},
					"notes.txt": {Insertions: 99},
				},
			},
		}

		histogram := service.LanguageHistogram(commits)
		require.Len(t, histogram, 1)
		assert.Equal(t, models.LanguageCount{Language: "Go", Count: 40}, histogram[0])
	})

	t.Run("File count fallback without line stats", func(t *testing.T) {
		commits := []models.CommitRecord{
			{Files: []string{"app.py", "tests.py", "index.html"}},
		}

		histogram := service.LanguageHistogram(commits)
		require.Len(t, histogram, 2)
		assert.Equal(t, models.LanguageCount{Language: "Python", Count: 2}, histogram[0])
		assert.Equal(t, models.LanguageCount{Language: "HTML", Count: 1}, histogram[1])
	})
}

package models

// AnalyzedSummary is the headline view over the flat commit list.
type AnalyzedSummary struct {
	TotalCommits int    `json:"total_commits"`
	TotalRepos   int    `json:"total_repos"`
	TopRepo      string `json:"top_repo"`
	PeakMonth    string `json:"peak_month"` // YYYY-MM
	Narrative    string `json:"narrative"`
	LinesAdded   int    `json:"lines_added"`
	LinesDeleted int    `json:"lines_deleted"`
}

// StreakResult reports consecutive-day activity runs over the daily series.
type StreakResult struct {
	LongestStreak      int     `json:"longest_streak"`
	LongestStreakStart string  `json:"longest_streak_start"` // YYYY-MM-DD, empty when no streak
	LongestStreakEnd   string  `json:"longest_streak_end"`
	CurrentStreak      int     `json:"current_streak"`
	ActiveDays         int     `json:"active_days"`
	AvgPerActiveDay    float64 `json:"avg_per_active_day"` // rounded to one decimal
}

// ActivityHistogram buckets the daily series for rendering.
type ActivityHistogram struct {
	Weeks    []int  `json:"weeks"`    // week-indexed totals, oldest first
	Weekdays [7]int `json:"weekdays"` // Sunday..Saturday
	Hours    []int  `json:"hours"`    // 24 bins, only when timestamps exist
}

// KeywordCount is one extracted commit-message keyword with its frequency.
type KeywordCount struct {
	Word  string `json:"word"`
	Count int    `json:"count"`
}

// LanguageCount is one language with its accumulated line (or file) count
// from the commit analysis.
type LanguageCount struct {
	Language string `json:"language"`
	Count    int    `json:"count"`
}

// ProjectCount is one repository with its commit frequency.
type ProjectCount struct {
	Repo  string `json:"repo"`
	Count int    `json:"count"`
}

// YearStats is the full statistics object handed to the display layer.
type YearStats struct {
	Profile UserProfile `json:"profile"`

	TotalContributions int `json:"totalContributions"`
	TotalCommits       int `json:"totalCommits"`
	PullRequests       int `json:"pullRequests"`
	PullRequestReviews int `json:"pullRequestReviews"`
	Issues             int `json:"issues"`

	Summary   AnalyzedSummary   `json:"summary"`
	Streaks   StreakResult      `json:"streaks"`
	Histogram ActivityHistogram `json:"histogram"`

	Daily         []DailyCount        `json:"dailyContributions"`
	Repos         []*RepoContribution `json:"repositoryContributions"`
	Organizations []OrganizationRef   `json:"organizations"`
	Languages     []LanguageStat      `json:"languageStats"`
	Timeline      []DailyCount        `json:"timeline"`
	Projects      []ProjectCount      `json:"projects"`
	Keywords      []KeywordCount      `json:"keywords"`
	CommitLang    []LanguageCount     `json:"commitLanguages"`

	PublicRepos  int `json:"publicRepos"`
	PrivateRepos int `json:"privateRepos"`
	TotalRepos   int `json:"totalRepos"`

	TokenType     string   `json:"tokenType,omitempty"`
	MissingScopes []string `json:"missingScopes,omitempty"`
	Cached        bool     `json:"cached"`
}

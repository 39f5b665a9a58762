package services

import (
	"fmt"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/qingbolan/yearscope/internal/models"
)

// DefaultKeywordLimit caps the keyword extraction result.
const DefaultKeywordLimit = 50

var wordPattern = regexp.MustCompile(`[A-Za-z0-9_]+`)

// stopwords dropped during keyword extraction: commit-message boilerplate
// that carries no signal about what the work was about.
var stopwords = map[string]bool{
	"the": true, "and": true, "for": true, "with": true, "from": true,
	"this": true, "that": true, "are": true, "was": true, "were": true,
	"will": true, "been": true, "have": true, "has": true, "had": true,
	"not": true, "but": true, "all": true, "can": true, "now": true,
	"new": true, "use": true, "used": true, "using": true, "via": true,
	"per": true, "into": true, "onto": true, "some": true, "more": true,
	"also": true, "just": true, "only": true, "when": true, "where": true,
	"fix": true, "fixed": true, "fixes": true, "fixing": true,
	"add": true, "added": true, "adds": true, "adding": true,
	"update": true, "updated": true, "updates": true, "updating": true,
	"remove": true, "removed": true, "removes": true, "removing": true,
	"merge": true, "merged": true, "merges": true, "merging": true,
	"branch": true, "pull": true, "request": true,
	"commit": true, "commits": true, "change": true, "changed": true,
	"changes": true, "minor": true, "wip": true, "chore": true,
	"feat": true, "docs": true, "refactor": true, "cleanup": true,
	"initial": true, "readme": true, "version": true, "release": true,
}

// extensionLanguages maps file extensions to language labels for the commit
// language histogram.
var extensionLanguages = map[string]string{
	".go":    "Go",
	".py":    "Python",
	".js":    "JavaScript",
	".jsx":   "JavaScript",
	".ts":    "TypeScript",
	".tsx":   "TypeScript",
	".java":  "Java",
	".rb":    "Ruby",
	".rs":    "Rust",
	".c":     "C",
	".h":     "C",
	".cpp":   "C++",
	".cc":    "C++",
	".hpp":   "C++",
	".cs":    "C#",
	".php":   "PHP",
	".swift": "Swift",
	".kt":    "Kotlin",
	".scala": "Scala",
	".sh":    "Shell",
	".html":  "HTML",
	".css":   "CSS",
	".scss":  "SCSS",
	".vue":   "Vue",
	".dart":  "Dart",
	".ex":    "Elixir",
	".exs":   "Elixir",
	".erl":   "Erlang",
	".lua":   "Lua",
	".r":     "R",
	".pl":    "Perl",
	".sql":   "SQL",
	".md":    "Markdown",
	".json":  "JSON",
	".yaml":  "YAML",
	".yml":   "YAML",
	".toml":  "TOML",
}

// AnalyzerService derives summary, timeline, project, language and keyword
// statistics from a flat commit list.
type AnalyzerService struct{}

func NewAnalyzerService() *AnalyzerService {
	return &AnalyzerService{}
}

// FilterByAuthor keeps commits whose author matches the given name by
// case-insensitive substring.
func (s *AnalyzerService) FilterByAuthor(commits []models.CommitRecord, author string) []models.CommitRecord {
	if author == "" {
		return commits
	}
	needle := strings.ToLower(author)

	var filtered []models.CommitRecord
	for _, c := range commits {
		if strings.Contains(strings.ToLower(c.Author), needle) {
			filtered = append(filtered, c)
		}
	}
	return filtered
}

// FilterByRange keeps commits whose calendar day falls inside [start, end].
func (s *AnalyzerService) FilterByRange(commits []models.CommitRecord, start, end time.Time) []models.CommitRecord {
	startDay := truncateToDay(start)
	endDay := truncateToDay(end)

	var filtered []models.CommitRecord
	for _, c := range commits {
		day := truncateToDay(c.Date.UTC())
		if day.Before(startDay) || day.After(endDay) {
			continue
		}
		filtered = append(filtered, c)
	}
	return filtered
}

// Summary computes headline stats in a single deterministic pass. Ties on
// top repo and peak month resolve to the first value that reached the
// maximum.
func (s *AnalyzerService) Summary(commits []models.CommitRecord) models.AnalyzedSummary {
	summary := models.AnalyzedSummary{TotalCommits: len(commits)}

	repoCounts := make(map[string]int)
	monthCounts := make(map[string]int)
	topRepoCount := 0
	peakMonthCount := 0

	for _, c := range commits {
		repoCounts[c.Repo]++
		if repoCounts[c.Repo] > topRepoCount {
			topRepoCount = repoCounts[c.Repo]
			summary.TopRepo = c.Repo
		}

		month := c.Date.UTC().Format("2006-01")
		monthCounts[month]++
		if monthCounts[month] > peakMonthCount {
			peakMonthCount = monthCounts[month]
			summary.PeakMonth = month
		}

		summary.LinesAdded += c.Insertions
		summary.LinesDeleted += c.Deletions
	}

	summary.TotalRepos = len(repoCounts)
	summary.Narrative = fmt.Sprintf(
		"A year of code! You made %d commits across %d repositories. Your most active month was %s.",
		summary.TotalCommits, summary.TotalRepos, summary.PeakMonth)

	return summary
}

// Timeline groups commit counts by calendar day, ascending.
func (s *AnalyzerService) Timeline(commits []models.CommitRecord) []models.DailyCount {
	counts := make(map[string]int)
	for _, c := range commits {
		counts[c.Date.UTC().Format("2006-01-02")]++
	}

	dates := make([]string, 0, len(counts))
	for date := range counts {
		dates = append(dates, date)
	}
	sort.Strings(dates)

	timeline := make([]models.DailyCount, 0, len(dates))
	for _, date := range dates {
		timeline = append(timeline, models.DailyCount{Date: date, Count: counts[date]})
	}
	return timeline
}

// ProjectRanking groups commit counts by repository, descending. Ties keep
// first-encountered order.
func (s *AnalyzerService) ProjectRanking(commits []models.CommitRecord) []models.ProjectCount {
	counts := make(map[string]int)
	var order []string
	for _, c := range commits {
		if _, ok := counts[c.Repo]; !ok {
			order = append(order, c.Repo)
		}
		counts[c.Repo]++
	}

	ranking := make([]models.ProjectCount, 0, len(order))
	for _, repo := range order {
		ranking = append(ranking, models.ProjectCount{Repo: repo, Count: counts[repo]})
	}
	sort.SliceStable(ranking, func(i, j int) bool {
		return ranking[i].Count > ranking[j].Count
	})
	return ranking
}

// LanguageHistogram maps touched files to languages via their extension.
// When per-file line stats are present insertions are accumulated; otherwise
// each touched file counts as one.
func (s *AnalyzerService) LanguageHistogram(commits []models.CommitRecord) []models.LanguageCount {
	counts := make(map[string]int)
	var order []string

	accumulate := func(language string, amount int) {
		if _, ok := counts[language]; !ok {
			order = append(order, language)
		}
		counts[language] += amount
	}

	for _, c := range commits {
		if len(c.FileStats) > 0 {
			// Map iteration order is random; walk the file list instead.
			for _, file := range c.Files {
				if language, ok := lookupLanguage(file); ok {
					accumulate(language, c.FileStats[file].Insertions)
				}
			}
			continue
		}
		for _, file := range c.Files {
			if language, ok := lookupLanguage(file); ok {
				accumulate(language, 1)
			}
		}
	}

	histogram := make([]models.LanguageCount, 0, len(order))
	for _, language := range order {
		histogram = append(histogram, models.LanguageCount{Language: language, Count: counts[language]})
	}
	sort.SliceStable(histogram, func(i, j int) bool {
		return histogram[i].Count > histogram[j].Count
	})
	return histogram
}

func lookupLanguage(file string) (string, bool) {
	ext := strings.ToLower(filepath.Ext(file))
	language, ok := extensionLanguages[ext]
	return language, ok
}

// Keywords tokenizes commit messages, drops short tokens and stopwords and
// returns the top N by frequency. Ties keep first-encountered order. A limit
// of zero or less means DefaultKeywordLimit.
func (s *AnalyzerService) Keywords(commits []models.CommitRecord, limit int) []models.KeywordCount {
	if limit <= 0 {
		limit = DefaultKeywordLimit
	}

	counts := make(map[string]int)
	var order []string

	for _, c := range commits {
		for _, token := range wordPattern.FindAllString(c.Message, -1) {
			word := strings.ToLower(token)
			if len(word) < 3 || stopwords[word] {
				continue
			}
			if _, ok := counts[word]; !ok {
				order = append(order, word)
			}
			counts[word]++
		}
	}

	keywords := make([]models.KeywordCount, 0, len(order))
	for _, word := range order {
		keywords = append(keywords, models.KeywordCount{Word: word, Count: counts[word]})
	}
	sort.SliceStable(keywords, func(i, j int) bool {
		return keywords[i].Count > keywords[j].Count
	})

	if len(keywords) > limit {
		keywords = keywords[:limit]
	}
	return keywords
}

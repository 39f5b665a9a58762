package services

import (
	"github.com/qingbolan/yearscope/internal/models"
)

// StatsService assembles the display-facing statistics object from the
// merged aggregate and the collected commit list.
type StatsService struct {
	analyzerService  *AnalyzerService
	streakService    *StreakService
	histogramService *HistogramService
}

func NewStatsService(analyzerService *AnalyzerService, streakService *StreakService, histogramService *HistogramService) *StatsService {
	return &StatsService{
		analyzerService:  analyzerService,
		streakService:    streakService,
		histogramService: histogramService,
	}
}

// BuildYearStats derives all higher-order analytics for the window.
func (s *StatsService) BuildYearStats(agg *models.ContributionAggregate, commits []models.CommitRecord, window models.TimeWindow) *models.YearStats {
	commits = s.analyzerService.FilterByRange(commits, window.From, window.To)

	stats := &models.YearStats{
		Profile:            agg.Profile,
		TotalContributions: agg.TotalContributions,
		TotalCommits:       agg.TotalCommits,
		PullRequests:       agg.PullRequests,
		PullRequestReviews: agg.PullRequestReviews,
		Issues:             agg.Issues,
		Daily:              agg.Daily,
		Repos:              agg.Repos,
		Organizations:      agg.Organizations,
		Languages:          agg.Languages,
		PublicRepos:        agg.PublicRepos,
		PrivateRepos:       agg.PrivateRepos,
		TotalRepos:         agg.TotalRepos,
		TokenType:          agg.TokenType,
		MissingScopes:      agg.MissingScopes,
	}

	stats.Summary = s.analyzerService.Summary(commits)
	stats.Timeline = s.analyzerService.Timeline(commits)
	stats.Projects = s.analyzerService.ProjectRanking(commits)
	stats.CommitLang = s.analyzerService.LanguageHistogram(commits)
	stats.Keywords = s.analyzerService.Keywords(commits, DefaultKeywordLimit)

	stats.Streaks = s.streakService.Compute(agg.Daily, window.To)
	stats.Histogram = s.histogramService.Build(agg.Daily, window, commits)

	return stats
}

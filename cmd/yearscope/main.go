package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/qingbolan/yearscope/internal/models"
	"github.com/qingbolan/yearscope/internal/repositories"
	"github.com/qingbolan/yearscope/internal/services"
	"github.com/qingbolan/yearscope/pkg/config"
	"github.com/qingbolan/yearscope/pkg/database"
	"github.com/qingbolan/yearscope/pkg/logger"
	"github.com/qingbolan/yearscope/pkg/ratelimit"
)

func main() {
	var (
		username = flag.String("user", "", "GitHub username")
		startStr = flag.String("start", "", "range start (YYYY-MM-DD, default Jan 1 of this year)")
		endStr   = flag.String("end", "", "range end (YYYY-MM-DD, default Dec 31 of this year)")
		tokenArg = flag.String("token", "", "GitHub token (falls back to YEARSCOPE_GITHUB_TOKEN, then the stored token)")
		refresh  = flag.Bool("refresh", false, "ignore the local snapshot and refetch")
		outDir   = flag.String("out", "outputs", "output directory for report artifacts")
	)
	flag.Parse()

	if *username == "" {
		log.Fatal("-user is required")
	}

	cfg, err := config.NewLoader("YEARSCOPE").Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}
	logger.Init(cfg.LogLevel)

	if err := database.Init(cfg.DatabasePath); err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer database.Close()

	start, end, err := resolveRange(*startStr, *endStr)
	if err != nil {
		log.Fatalf("invalid range: %v", err)
	}

	// Initialize dependencies
	tokenRepo := repositories.NewTokenRepository(database.DB)
	tokenService := services.NewTokenService(tokenRepo)
	snapshotRepo := repositories.NewSnapshotRepository(database.DB)
	snapshotService := services.NewSnapshotService(snapshotRepo)

	limiter := ratelimit.New(cfg.GithubRateLimit)
	periodService := services.NewPeriodService()
	githubService := services.NewGitHubService(limiter, cfg.HTTPClientTimeout)
	contributionService := services.NewContributionService(periodService, githubService)

	gistCacheService, err := services.NewGistCacheService(limiter, cfg.MirrorSize, cfg.HTTPClientTimeout)
	if err != nil {
		log.Fatalf("Failed to initialize cache service: %v", err)
	}
	commitService := services.NewCommitService(gistCacheService, limiter, cfg.CommitRepoLimit, cfg.HTTPClientTimeout)

	statsService := services.NewStatsService(
		services.NewAnalyzerService(),
		services.NewStreakService(),
		services.NewHistogramService(),
	)
	exportService := services.NewExportService(*outDir)

	token := *tokenArg
	if token == "" {
		token = cfg.GithubToken
	}
	if token == "" {
		token = tokenService.ResolveToken(*username)
	}

	startDate := start.Format("2006-01-02")
	endDate := end.Format("2006-01-02")

	if !*refresh {
		cached, err := snapshotService.GetStats(*username, startDate, endDate)
		if err != nil {
			logger.WithError(err).Warn("snapshot lookup failed")
		}
		if cached != nil {
			logger.Infof("serving %s %s..%s from local snapshot", *username, startDate, endDate)
			export(exportService, cached, *username)
			return
		}
	}

	ctx := context.Background()
	progress := func(message string) { logger.Info(message) }

	agg, err := contributionService.Collect(ctx, *username, start, end, token, progress)
	if err != nil {
		log.Fatalf("aggregation failed: %v", err)
	}

	if len(agg.MissingScopes) > 0 {
		logger.Warnf("token is missing scopes %v, some activity may be invisible", agg.MissingScopes)
	}

	window := models.TimeWindow{From: start, To: end}

	var commits []models.CommitRecord
	if token != "" {
		commits, err = commitService.CollectCommits(ctx, token, *username, agg.Repos, window)
		if err != nil {
			logger.WithError(err).Warn("commit collection failed, continuing without line stats")
		}
		if err := tokenService.SaveToken(*username, token, agg.TokenType, agg.MissingScopes); err != nil {
			logger.WithError(err).Warn("failed to store token")
		}
	}

	stats := statsService.BuildYearStats(agg, commits, window)

	if err := snapshotService.SaveStats(*username, startDate, endDate, stats); err != nil {
		logger.WithError(err).Warn("failed to persist snapshot")
	}

	export(exportService, stats, *username)
}

func export(exportService *services.ExportService, stats *models.YearStats, username string) {
	jsonPath, err := exportService.ExportJSON(stats, fmt.Sprintf("%s-stats.json", username))
	if err != nil {
		log.Fatalf("JSON export failed: %v", err)
	}
	xlsxPath, err := exportService.ExportExcel(stats, fmt.Sprintf("%s-stats.xlsx", username))
	if err != nil {
		log.Fatalf("Excel export failed: %v", err)
	}
	logger.Infof("report written to %s and %s", jsonPath, xlsxPath)
}

func resolveRange(startStr, endStr string) (time.Time, time.Time, error) {
	year := time.Now().UTC().Year()
	start := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(year, time.December, 31, 0, 0, 0, 0, time.UTC)

	var err error
	if startStr != "" {
		start, err = time.Parse("2006-01-02", startStr)
		if err != nil {
			return start, end, err
		}
	}
	if endStr != "" {
		end, err = time.Parse("2006-01-02", endStr)
		if err != nil {
			return start, end, err
		}
	}
	return start, end, nil
}

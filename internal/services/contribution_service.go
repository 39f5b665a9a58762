package services

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/qingbolan/yearscope/internal/models"
	"github.com/qingbolan/yearscope/pkg/logger"
)

// ProgressFunc receives one human-readable status message per window.
type ProgressFunc func(message string)

// ContributionService drives the windowed aggregation: it chunks the
// requested range, fetches each window strictly in order and reconciles the
// payloads into one session-scoped aggregate.
type ContributionService struct {
	periodService *PeriodService
	githubService *GitHubService
}

func NewContributionService(periodService *PeriodService, githubService *GitHubService) *ContributionService {
	return &ContributionService{
		periodService: periodService,
		githubService: githubService,
	}
}

// Collect fetches and merges all windows for the range. Windows are fetched
// sequentially, never concurrently: credential classification and progress
// reporting depend on window 0 completing first. On the authenticated path
// any window failure aborts the whole aggregation with no partial result.
func (s *ContributionService) Collect(ctx context.Context, username string, start, end time.Time, token string, progress ProgressFunc) (*models.ContributionAggregate, error) {
	windows, err := s.periodService.SplitRange(start, end)
	if err != nil {
		return nil, err
	}

	if token == "" {
		return s.collectPublic(ctx, username, start, end, progress)
	}

	state := newAggregateState()
	for i, window := range windows {
		report(progress, fmt.Sprintf("Fetching contributions %s to %s (window %d of %d)",
			window.From.Format("2006-01-02"), window.To.Format("2006-01-02"), i+1, len(windows)))

		payload, err := s.githubService.FetchWindow(ctx, token, window)
		if err != nil {
			return nil, fmt.Errorf("window %d: %w", i+1, err)
		}
		state.merge(payload, i)
	}

	return state.finalize(), nil
}

// collectPublic serves the unauthenticated path from the public events feed,
// best effort over a single window.
func (s *ContributionService) collectPublic(ctx context.Context, username string, start, end time.Time, progress ProgressFunc) (*models.ContributionAggregate, error) {
	report(progress, fmt.Sprintf("Fetching public events for %s", username))

	payload, err := s.githubService.FetchPublicEvents(ctx, username, models.TimeWindow{From: start, To: end})
	if err != nil {
		return nil, err
	}

	state := newAggregateState()
	state.merge(payload, 0)
	return state.finalize(), nil
}

func report(progress ProgressFunc, message string) {
	if progress != nil {
		progress(message)
	}
	logger.Debugf("progress: %s", message)
}

// aggregateState accumulates window payloads with explicit keyed maps. Repo
// identity is the owner+name tuple, organizations are keyed by login and
// daily counts by date.
type aggregateState struct {
	agg *models.ContributionAggregate

	repoIndex map[models.RepoKey]*models.RepoContribution
	repoOrder []models.RepoKey
	dailyMap  map[string]int
	orgIndex  map[string]bool
	orgOrder  []models.OrganizationRef
}

func newAggregateState() *aggregateState {
	return &aggregateState{
		agg:       &models.ContributionAggregate{},
		repoIndex: make(map[models.RepoKey]*models.RepoContribution),
		dailyMap:  make(map[string]int),
		orgIndex:  make(map[string]bool),
	}
}

// merge folds one window payload into the state. Counts accumulate
// additively; repository metadata is captured from the first sighting and
// never overwritten.
func (st *aggregateState) merge(p *WindowPayload, windowIdx int) {
	st.agg.TotalCommits += p.TotalCommits
	st.agg.PullRequests += p.PullRequests
	st.agg.PullRequestReviews += p.PullRequestReviews
	st.agg.Issues += p.Issues
	st.agg.TotalContributions += p.CalendarTotal

	// Correct chunking yields no duplicate dates; summing is the safety net.
	for _, day := range p.Daily {
		st.dailyMap[day.Date] += day.Count
	}

	for _, rc := range p.RepoCommits {
		if existing, ok := st.repoIndex[rc.Key]; ok {
			existing.CommitCount += rc.Count
			continue
		}
		contribution := &models.RepoContribution{
			Name:        rc.Key.Name,
			FullName:    rc.Key.FullName(),
			Owner:       rc.Key.Owner,
			CommitCount: rc.Count,
			IsPrivate:   rc.IsPrivate,
			IsOrg:       rc.IsOrgOwned,
			Stars:       rc.Stars,
			Forks:       rc.Forks,
			Language:    rc.Language,
			Description: rc.Description,
			URL:         rc.URL,
		}
		st.repoIndex[rc.Key] = contribution
		st.repoOrder = append(st.repoOrder, rc.Key)
	}

	for _, org := range p.Organizations {
		if !st.orgIndex[org.Login] {
			st.orgIndex[org.Login] = true
			st.orgOrder = append(st.orgOrder, org)
		}
	}

	// Profile, repository directory and credential classification are
	// time-range independent; window 0 is authoritative for all of them.
	if windowIdx == 0 {
		st.agg.Profile = p.Profile
		st.agg.TotalRepos = p.TotalRepos
		st.agg.Languages = buildLanguageStats(p.Directory)
		for _, entry := range p.Directory {
			if entry.IsPrivate {
				st.agg.PrivateRepos++
			} else {
				st.agg.PublicRepos++
			}
		}
		st.agg.TokenType, st.agg.MissingScopes = ClassifyToken(p.ScopesHeader, p.HasScopesHeader)
	}
}

// finalize produces the merged aggregate: daily series sorted ascending,
// repositories sorted by count descending and the hidden-contribution bucket
// appended when the totals demand one.
func (st *aggregateState) finalize() *models.ContributionAggregate {
	dates := make([]string, 0, len(st.dailyMap))
	for date := range st.dailyMap {
		dates = append(dates, date)
	}
	sort.Strings(dates)
	for _, date := range dates {
		st.agg.Daily = append(st.agg.Daily, models.DailyCount{Date: date, Count: st.dailyMap[date]})
	}

	repos := make([]*models.RepoContribution, 0, len(st.repoOrder))
	for _, key := range st.repoOrder {
		repos = append(repos, st.repoIndex[key])
	}
	st.agg.Repos = resolveDiscrepancy(st.agg.TotalCommits, repos)
	st.agg.Organizations = st.orgOrder

	return st.agg
}

// resolveDiscrepancy repairs the known upstream undercount: when the total
// commit count exceeds the sum of attributable per-repo counts, the
// difference belongs to repositories the viewer cannot enumerate (typically
// private organization activity). One synthetic bucket with a reserved
// identity carries that delta.
func resolveDiscrepancy(totalCommits int, repos []*models.RepoContribution) []*models.RepoContribution {
	visibleSum := 0
	for _, repo := range repos {
		if repo.CommitCount > 0 {
			visibleSum += repo.CommitCount
		}
	}

	if totalCommits > visibleSum {
		key := models.RepoKey{Owner: models.HiddenRepoOwner, Name: models.HiddenRepoName}
		repos = append(repos, &models.RepoContribution{
			Name:        key.Name,
			FullName:    key.FullName(),
			Owner:       key.Owner,
			CommitCount: totalCommits - visibleSum,
			IsPrivate:   true,
			IsOrg:       true,
			Language:    "Other",
			Description: "Contributions in repositories not visible to this token",
		})
	}

	sort.SliceStable(repos, func(i, j int) bool {
		return repos[i].CommitCount > repos[j].CommitCount
	})

	return repos
}

// buildLanguageStats aggregates the directory's language size edges. Sizes
// are repository-level facts independent of the date range, so this runs
// once over window 0's listing.
func buildLanguageStats(directory []DirectoryEntry) []models.LanguageStat {
	index := make(map[string]*models.LanguageStat)
	var order []string

	for _, entry := range directory {
		for _, edge := range entry.Languages {
			name := edge.Name
			if name == "" {
				name = "Other"
			}
			stat, ok := index[name]
			if !ok {
				color := edge.Color
				if color == "" {
					color = "#8b949e"
				}
				stat = &models.LanguageStat{Name: name, Color: color}
				index[name] = stat
				order = append(order, name)
			}
			stat.Size += edge.Size
			stat.RepoCount++
		}
	}

	var totalSize int64
	for _, name := range order {
		totalSize += index[name].Size
	}

	stats := make([]models.LanguageStat, 0, len(order))
	for _, name := range order {
		stat := *index[name]
		if totalSize > 0 {
			stat.Percentage = float64(stat.Size) / float64(totalSize) * 100
		}
		stats = append(stats, stat)
	}

	sort.SliceStable(stats, func(i, j int) bool {
		return stats[i].Size > stats[j].Size
	})

	return stats
}

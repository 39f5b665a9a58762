package services

import (
	"context"
	"net/http"
	"time"

	"github.com/google/go-github/v57/github"
	"github.com/qingbolan/yearscope/internal/models"
	"github.com/qingbolan/yearscope/pkg/logger"
	"github.com/qingbolan/yearscope/pkg/ratelimit"
	"golang.org/x/oauth2"
)

// CommitService collects per-commit line statistics for the repositories the
// user contributed to, consulting the external cache so stats are only
// computed once per commit hash.
type CommitService struct {
	cache      *GistCacheService
	limiter    *ratelimit.Limiter
	httpClient *http.Client
	repoLimit  int
}

func NewCommitService(cache *GistCacheService, limiter *ratelimit.Limiter, repoLimit int, timeout time.Duration) *CommitService {
	return &CommitService{
		cache:      cache,
		limiter:    limiter,
		httpClient: &http.Client{Timeout: timeout},
		repoLimit:  repoLimit,
	}
}

// createClient creates a GitHub client with the provided token
func (s *CommitService) createClient(ctx context.Context, token string) *github.Client {
	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
	ctx = context.WithValue(ctx, oauth2.HTTPClient, s.httpClient)
	return github.NewClient(oauth2.NewClient(ctx, ts))
}

// CollectCommits lists the user's commits in the top contributing
// repositories, fetching per-file stats only for hashes absent from the
// cache record, then writes the merged record back. A cache write failure is
// logged and swallowed: the statistics were already computed.
func (s *CommitService) CollectCommits(ctx context.Context, token, username string, repos []*models.RepoContribution, window models.TimeWindow) ([]models.CommitRecord, error) {
	record, err := s.cache.Read(ctx, token)
	if err != nil {
		logger.WithError(err).Warn("cache read failed, recomputing all commit stats")
		record = nil
	}
	if record == nil {
		record = models.NewCacheRecord(username)
	}
	record.Owner = username

	client := s.createClient(ctx, token)
	since := window.From.UTC()
	until := endOfDay(window.To.UTC())

	var commits []models.CommitRecord
	dirty := false

	scanned := 0
	for _, repo := range repos {
		if scanned >= s.repoLimit {
			break
		}
		if repo.CommitCount <= 0 || repo.Owner == "" || repo.Owner == models.HiddenRepoOwner {
			continue
		}
		scanned++

		repoCommits, changed, err := s.collectRepo(ctx, client, record, repo, username, since, until)
		if err != nil {
			logger.WithError(err).Warnf("skipping commit stats for %s", repo.FullName)
			continue
		}
		commits = append(commits, repoCommits...)
		dirty = dirty || changed
	}

	if dirty {
		if err := s.cache.Write(ctx, token, record); err != nil {
			logger.WithError(err).Warn("cache write failed, continuing without persistence")
		}
	}

	return commits, nil
}

func (s *CommitService) collectRepo(ctx context.Context, client *github.Client, record *models.CacheRecord, repo *models.RepoContribution, username string, since, until time.Time) ([]models.CommitRecord, bool, error) {
	opt := &github.CommitsListOptions{
		Author:      username,
		Since:       since,
		Until:       until,
		ListOptions: github.ListOptions{PerPage: 100},
	}

	var listed []*github.RepositoryCommit
	for {
		if err := s.limiter.WaitGithub(ctx); err != nil {
			return nil, false, err
		}
		page, resp, err := client.Repositories.ListCommits(ctx, repo.Owner, repo.Name, opt)
		if err != nil {
			return nil, false, err
		}
		listed = append(listed, page...)
		if resp.NextPage == 0 {
			break
		}
		opt.Page = resp.NextPage
	}

	var commits []models.CommitRecord
	dirty := false

	for _, c := range listed {
		if c == nil {
			continue
		}
		sha := c.GetSHA()

		stat, ok := record.Get(repo.FullName, sha)
		if !ok {
			fetched, err := s.fetchCommitStat(ctx, client, repo.Owner, repo.Name, sha)
			if err != nil {
				logger.WithError(err).Warnf("commit stats unavailable for %s@%s", repo.FullName, sha)
				continue
			}
			stat = fetched
			record.Put(repo.FullName, sha, stat)
			dirty = true
		}

		author := c.GetCommit().GetAuthor().GetName()
		if author == "" {
			author = c.GetAuthor().GetLogin()
		}

		files := make([]string, 0, len(stat.FileStats))
		fileStats := make(map[string]models.FileStat, len(stat.FileStats))
		for name, fs := range stat.FileStats {
			files = append(files, name)
			fileStats[name] = fs
		}

		commits = append(commits, models.CommitRecord{
			Repo:       repo.FullName,
			Hash:       sha,
			Date:       c.GetCommit().GetAuthor().GetDate().Time.UTC(),
			Author:     author,
			Message:    c.GetCommit().GetMessage(),
			Files:      files,
			FileStats:  fileStats,
			Insertions: stat.Additions,
			Deletions:  stat.Deletions,
		})
	}

	return commits, dirty, nil
}

func (s *CommitService) fetchCommitStat(ctx context.Context, client *github.Client, owner, name, sha string) (models.CommitStat, error) {
	if err := s.limiter.WaitGithub(ctx); err != nil {
		return models.CommitStat{}, err
	}

	detail, _, err := client.Repositories.GetCommit(ctx, owner, name, sha, &github.ListOptions{})
	if err != nil {
		return models.CommitStat{}, err
	}

	stat := models.CommitStat{FileStats: make(map[string]models.FileStat)}
	for _, f := range detail.Files {
		if f == nil {
			continue
		}
		stat.Additions += f.GetAdditions()
		stat.Deletions += f.GetDeletions()
		stat.FileStats[f.GetFilename()] = models.FileStat{
			Insertions: f.GetAdditions(),
			Deletions:  f.GetDeletions(),
		}
	}

	return stat, nil
}

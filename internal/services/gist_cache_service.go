package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/go-github/v57/github"
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/qingbolan/yearscope/internal/models"
	"github.com/qingbolan/yearscope/pkg/logger"
	"github.com/qingbolan/yearscope/pkg/ratelimit"
	"golang.org/x/oauth2"
	"golang.org/x/sync/singleflight"
)

// The cache gist is discovered by this description marker, never by name.
// Exactly one gist per credential carries it.
const (
	gistMarker   = "yearscope per-commit statistics cache (do not edit)"
	gistFileName = "yearscope-cache.json"
)

type mirrorEntry struct {
	gistID string
	record *models.CacheRecord
}

// GistCacheService persists per-commit statistics in one gist per
// authenticated identity. A process-local LRU mirror avoids redundant round
// trips within a session; a single-flight group keeps concurrent lookups
// from creating duplicate gists.
type GistCacheService struct {
	httpClient *http.Client
	limiter    *ratelimit.Limiter
	group      singleflight.Group
	mirror     *lru.Cache[string, *mirrorEntry]
}

func NewGistCacheService(limiter *ratelimit.Limiter, mirrorSize int, timeout time.Duration) (*GistCacheService, error) {
	mirror, err := lru.New[string, *mirrorEntry](mirrorSize)
	if err != nil {
		return nil, err
	}
	return &GistCacheService{
		httpClient: &http.Client{Timeout: timeout},
		limiter:    limiter,
		mirror:     mirror,
	}, nil
}

// createClient creates a GitHub client with the provided token
func (s *GistCacheService) createClient(ctx context.Context, token string) *github.Client {
	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
	ctx = context.WithValue(ctx, oauth2.HTTPClient, s.httpClient)
	return github.NewClient(oauth2.NewClient(ctx, ts))
}

// fingerprint keys the mirror and the single-flight group without holding
// the raw token in either.
func fingerprint(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:8])
}

// Invalidate drops all mirrored state. Call it whenever the active
// credential changes.
func (s *GistCacheService) Invalidate() {
	s.mirror.Purge()
}

// FindOrCreate locates the cache gist for the credential, creating it with
// an empty version-stamped record when absent.
func (s *GistCacheService) FindOrCreate(ctx context.Context, token string) (string, error) {
	key := fingerprint(token)

	if entry, ok := s.mirror.Get(key); ok && entry.gistID != "" {
		return entry.gistID, nil
	}

	id, err, _ := s.group.Do(key, func() (interface{}, error) {
		return s.findOrCreateGist(ctx, token)
	})
	if err != nil {
		return "", err
	}

	gistID := id.(string)
	s.mirror.Add(key, &mirrorEntry{gistID: gistID})
	return gistID, nil
}

func (s *GistCacheService) findOrCreateGist(ctx context.Context, token string) (string, error) {
	client := s.createClient(ctx, token)

	gistID, err := s.findGist(ctx, client)
	if err != nil {
		return "", err
	}
	if gistID != "" {
		return gistID, nil
	}

	if err := s.limiter.WaitGithub(ctx); err != nil {
		return "", err
	}

	empty, err := json.Marshal(models.NewCacheRecord(""))
	if err != nil {
		return "", err
	}

	created, _, err := client.Gists.Create(ctx, &github.Gist{
		Description: github.String(gistMarker),
		Public:      github.Bool(false),
		Files: map[github.GistFilename]github.GistFile{
			gistFileName: {Content: github.String(string(empty))},
		},
	})
	if err != nil {
		return "", fmt.Errorf("create cache gist: %w", err)
	}

	return created.GetID(), nil
}

func (s *GistCacheService) findGist(ctx context.Context, client *github.Client) (string, error) {
	opt := &github.GistListOptions{ListOptions: github.ListOptions{PerPage: 100}}
	for {
		if err := s.limiter.WaitGithub(ctx); err != nil {
			return "", err
		}
		gists, resp, err := client.Gists.List(ctx, "", opt)
		if err != nil {
			return "", fmt.Errorf("list gists: %w", err)
		}
		for _, gist := range gists {
			if gist.GetDescription() == gistMarker {
				return gist.GetID(), nil
			}
		}
		if resp.NextPage == 0 {
			return "", nil
		}
		opt.Page = resp.NextPage
	}
}

// Read fetches and parses the cache record. A version mismatch is a soft
// miss: the record is treated as absent and full recomputation proceeds.
func (s *GistCacheService) Read(ctx context.Context, token string) (*models.CacheRecord, error) {
	key := fingerprint(token)
	if entry, ok := s.mirror.Get(key); ok && entry.record != nil {
		return entry.record, nil
	}

	gistID, err := s.FindOrCreate(ctx, token)
	if err != nil {
		return nil, err
	}

	if err := s.limiter.WaitGithub(ctx); err != nil {
		return nil, err
	}

	client := s.createClient(ctx, token)
	gist, _, err := client.Gists.Get(ctx, gistID)
	if err != nil {
		return nil, fmt.Errorf("fetch cache gist: %w", err)
	}

	file, ok := gist.Files[gistFileName]
	if !ok {
		return nil, nil
	}

	content := file.GetContent()
	if content == "" && file.GetSize() > 0 {
		// Content too large to inline; fall back to the raw URL.
		content, err = s.fetchRaw(ctx, token, file.GetRawURL())
		if err != nil {
			return nil, err
		}
	}

	record := decodeCacheRecord([]byte(content))
	if record == nil {
		return nil, nil
	}

	s.mirror.Add(key, &mirrorEntry{gistID: gistID, record: record})
	return record, nil
}

func (s *GistCacheService) fetchRaw(ctx context.Context, token, rawURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", err
	}
	resp, err := s.createAuthDo(ctx, token, req)
	if err != nil {
		return "", fmt.Errorf("fetch raw gist content: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("raw gist content returned status %d", resp.StatusCode)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	return string(body), nil
}

func (s *GistCacheService) createAuthDo(ctx context.Context, token string, req *http.Request) (*http.Response, error) {
	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
	ctx = context.WithValue(ctx, oauth2.HTTPClient, s.httpClient)
	return oauth2.NewClient(ctx, ts).Do(req)
}

// decodeCacheRecord parses a stored record, returning nil for unparseable
// content or a schema version other than the current one. No migration is
// attempted.
func decodeCacheRecord(content []byte) *models.CacheRecord {
	var record models.CacheRecord
	if err := json.Unmarshal(content, &record); err != nil {
		logger.WithError(err).Warn("cache record unparseable, treating as absent")
		return nil
	}
	if record.Version != models.CacheSchemaVersion {
		logger.Infof("cache record version %d does not match %d, treating as absent",
			record.Version, models.CacheSchemaVersion)
		return nil
	}
	if record.PerRepo == nil {
		record.PerRepo = make(map[string]map[string]models.CommitStat)
	}
	return &record
}

// Write stamps a fresh lastUpdated and overwrites the gist file wholesale.
// Merging prior and new data is the caller's responsibility.
func (s *GistCacheService) Write(ctx context.Context, token string, record *models.CacheRecord) error {
	gistID, err := s.FindOrCreate(ctx, token)
	if err != nil {
		return err
	}

	record.Version = models.CacheSchemaVersion
	record.LastUpdated = time.Now().UTC()

	content, err := json.Marshal(record)
	if err != nil {
		return err
	}

	if err := s.limiter.WaitGithub(ctx); err != nil {
		return err
	}

	client := s.createClient(ctx, token)
	_, _, err = client.Gists.Edit(ctx, gistID, &github.Gist{
		Files: map[github.GistFilename]github.GistFile{
			gistFileName: {Content: github.String(string(content))},
		},
	})
	if err != nil {
		return fmt.Errorf("write cache gist: %w", err)
	}

	s.mirror.Add(fingerprint(token), &mirrorEntry{gistID: gistID, record: record})
	return nil
}

// Clear deletes the remote cache gist and drops the mirrored entry.
func (s *GistCacheService) Clear(ctx context.Context, token string) error {
	client := s.createClient(ctx, token)

	gistID, err := s.findGist(ctx, client)
	if err != nil {
		return err
	}
	if gistID != "" {
		if err := s.limiter.WaitGithub(ctx); err != nil {
			return err
		}
		if _, err := client.Gists.Delete(ctx, gistID); err != nil {
			return fmt.Errorf("delete cache gist: %w", err)
		}
	}

	s.mirror.Remove(fingerprint(token))
	return nil
}

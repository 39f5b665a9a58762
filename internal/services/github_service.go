package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/go-github/v57/github"
	"github.com/qingbolan/yearscope/internal/models"
	"github.com/qingbolan/yearscope/pkg/ratelimit"
	"golang.org/x/oauth2"
)

const githubGraphQLURL = "https://api.github.com/graphql"

// Scopes the engine needs for complete visibility. admin:org implies the
// org-read requirement.
var requiredScopes = []string{"repo", "read:org"}

// ErrUserNotFound is returned when the public events feed reports an unknown
// username. It is fatal even on the best-effort unauthenticated path.
var ErrUserNotFound = errors.New("github user not found")

const (
	eventPageSize = 100
	maxEventPages = 3
)

// contributionQuery is the aggregate query issued once per window. The
// repository listing and organization data are time-range independent but
// come back with every window; the reconciler only reads them from window 0.
const contributionQuery = `
query($from: DateTime!, $to: DateTime!) {
    viewer {
        login
        avatarUrl
        bio
        company
        location
        followers { totalCount }
        following { totalCount }
        repositories(first: 100, ownerAffiliations: [OWNER, COLLABORATOR, ORGANIZATION_MEMBER], orderBy: {field: PUSHED_AT, direction: DESC}) {
            totalCount
            nodes {
                name
                nameWithOwner
                isPrivate
                stargazerCount
                forkCount
                description
                url
                primaryLanguage { name color }
                owner { login avatarUrl __typename }
                languages(first: 10, orderBy: {field: SIZE, direction: DESC}) {
                    edges { size node { name color } }
                }
            }
        }
        contributionsCollection(from: $from, to: $to) {
            totalCommitContributions
            totalPullRequestContributions
            totalPullRequestReviewContributions
            totalIssueContributions
            contributionCalendar {
                totalContributions
                weeks {
                    contributionDays { date contributionCount }
                }
            }
            commitContributionsByRepository(maxRepositories: 100) {
                repository {
                    name
                    nameWithOwner
                    isPrivate
                    stargazerCount
                    forkCount
                    description
                    url
                    primaryLanguage { name color }
                    owner { login avatarUrl __typename }
                }
                contributions { totalCount }
            }
            pullRequestContributionsByRepository(maxRepositories: 100) {
                repository {
                    name
                    owner { login avatarUrl __typename }
                }
                contributions { totalCount }
            }
            issueContributionsByRepository(maxRepositories: 100) {
                repository {
                    name
                    owner { login avatarUrl __typename }
                }
                contributions { totalCount }
            }
        }
    }
}`

type GitHubService struct {
	httpClient *http.Client
	graphqlURL string
	limiter    *ratelimit.Limiter
}

func NewGitHubService(limiter *ratelimit.Limiter, timeout time.Duration) *GitHubService {
	return &GitHubService{
		httpClient: &http.Client{Timeout: timeout},
		graphqlURL: githubGraphQLURL,
		limiter:    limiter,
	}
}

// createAuthClient creates an HTTP client carrying the bearer token
func (s *GitHubService) createAuthClient(ctx context.Context, token string) *http.Client {
	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
	ctx = context.WithValue(ctx, oauth2.HTTPClient, s.httpClient)
	return oauth2.NewClient(ctx, ts)
}

// FetchWindow issues the aggregate query for one window. The window's end is
// extended to the last second of its calendar day, so every window is
// inclusive of its final date. Any non-success response or GraphQL error
// payload is fatal for the authenticated path.
func (s *GitHubService) FetchWindow(ctx context.Context, token string, window models.TimeWindow) (*WindowPayload, error) {
	if err := s.limiter.WaitGithub(ctx); err != nil {
		return nil, err
	}

	from := window.From.UTC()
	to := endOfDay(window.To.UTC())

	body, err := json.Marshal(graphQLRequest{
		Query: contributionQuery,
		Variables: map[string]string{
			"from": from.Format(time.RFC3339),
			"to":   to.Format(time.RFC3339),
		},
	})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.graphqlURL, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.createAuthClient(ctx, token).Do(req)
	if err != nil {
		return nil, fmt.Errorf("github graphql request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("github graphql returned status %d", resp.StatusCode)
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read graphql response: %w", err)
	}

	var decoded graphQLResponse
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return nil, fmt.Errorf("unmarshal graphql response: %w", err)
	}
	if len(decoded.Errors) > 0 {
		return nil, errors.New(decoded.Errors[0].Message)
	}

	payload := parseViewer(&decoded.Data.Viewer)
	scopes, present := resp.Header[http.CanonicalHeaderKey("X-OAuth-Scopes")]
	if present && len(scopes) > 0 {
		payload.ScopesHeader = scopes[0]
	}
	payload.HasScopesHeader = present

	return payload, nil
}

// parseViewer converts the wire payload into a WindowPayload with documented
// defaults for absent optional fields.
func parseViewer(v *viewerPayload) *WindowPayload {
	p := &WindowPayload{
		Profile: models.UserProfile{
			Login:     v.Login,
			AvatarURL: v.AvatarURL,
			Bio:       deref(v.Bio),
			Company:   deref(v.Company),
			Location:  deref(v.Location),
			Followers: v.Followers.TotalCount,
			Following: v.Following.TotalCount,
		},
		TotalCommits:       v.ContributionsCollection.TotalCommitContributions,
		PullRequests:       v.ContributionsCollection.TotalPullRequestContributions,
		PullRequestReviews: v.ContributionsCollection.TotalPullRequestReviewContributions,
		Issues:             v.ContributionsCollection.TotalIssueContributions,
		CalendarTotal:      v.ContributionsCollection.ContributionCalendar.TotalContributions,
		TotalRepos:         v.Repositories.TotalCount,
	}

	for _, week := range v.ContributionsCollection.ContributionCalendar.Weeks {
		for _, day := range week.ContributionDays {
			p.Daily = append(p.Daily, models.DailyCount{Date: day.Date, Count: day.ContributionCount})
		}
	}

	for _, edge := range v.ContributionsCollection.CommitContributionsByRepository {
		repo := edge.Repository
		p.RepoCommits = append(p.RepoCommits, WindowRepoCount{
			Key:         models.RepoKey{Owner: repo.Owner.Login, Name: repo.Name},
			Count:       edge.Contributions.TotalCount,
			IsPrivate:   repo.IsPrivate,
			IsOrgOwned:  repo.Owner.TypeName == "Organization",
			Stars:       repo.StargazerCount,
			Forks:       repo.ForkCount,
			Language:    languageName(repo.PrimaryLanguage),
			Description: deref(repo.Description),
			URL:         repo.URL,
		})
	}

	// An organization may be revealed by any one of the three contribution
	// categories, even with zero visible commits in it.
	categories := [][]repoContributionEdge{
		v.ContributionsCollection.CommitContributionsByRepository,
		v.ContributionsCollection.PullRequestContributionsByRepo,
		v.ContributionsCollection.IssueContributionsByRepo,
	}
	for _, edges := range categories {
		for _, edge := range edges {
			owner := edge.Repository.Owner
			if owner.TypeName == "Organization" {
				p.Organizations = append(p.Organizations, models.OrganizationRef{
					Login:     owner.Login,
					AvatarURL: owner.AvatarURL,
				})
			}
		}
	}

	for _, node := range v.Repositories.Nodes {
		entry := DirectoryEntry{
			Key:       models.RepoKey{Owner: node.Owner.Login, Name: node.Name},
			FullName:  node.NameWithOwner,
			IsPrivate: node.IsPrivate,
		}
		for _, edge := range node.Languages.Edges {
			entry.Languages = append(entry.Languages, LanguageEdge{
				Name:  edge.Node.Name,
				Color: edge.Node.Color,
				Size:  edge.Size,
			})
		}
		p.Directory = append(p.Directory, entry)
	}

	return p
}

// ClassifyToken classifies the credential from the first window's
// X-OAuth-Scopes header and computes the missing-scope list. Fine-grained
// tokens send no header at all; that is the restricted-scope signal.
func ClassifyToken(header string, present bool) (tokenType string, missing []string) {
	if !present {
		return "fine-grained", append([]string(nil), requiredScopes...)
	}

	granted := make(map[string]bool)
	for _, s := range strings.Split(header, ",") {
		if s = strings.TrimSpace(s); s != "" {
			granted[s] = true
		}
	}

	for _, required := range requiredScopes {
		if granted[required] {
			continue
		}
		if required == "read:org" && granted["admin:org"] {
			continue
		}
		missing = append(missing, required)
	}

	return "classic", missing
}

// FetchPublicEvents builds a best-effort payload from the public events feed
// for the unauthenticated path. An unknown user is fatal; any other page
// failure stops pagination and returns what was already collected.
func (s *GitHubService) FetchPublicEvents(ctx context.Context, username string, window models.TimeWindow) (*WindowPayload, error) {
	client := github.NewClient(s.httpClient)

	from := window.From.UTC()
	to := endOfDay(window.To.UTC())

	dailyMap := make(map[string]int)
	repoMap := make(map[models.RepoKey]int)

	for page := 1; page <= maxEventPages; page++ {
		if err := s.limiter.WaitGithub(ctx); err != nil {
			return nil, err
		}

		events, resp, err := client.Activity.ListEventsPerformedByUser(ctx, username, true, &github.ListOptions{
			PerPage: eventPageSize,
			Page:    page,
		})
		if err != nil {
			if resp != nil && resp.StatusCode == http.StatusNotFound {
				return nil, fmt.Errorf("%w: %s", ErrUserNotFound, username)
			}
			break
		}

		for _, event := range events {
			if event.GetType() != "PushEvent" {
				continue
			}
			created := event.GetCreatedAt().Time.UTC()
			if created.Before(from) || created.After(to) {
				continue
			}

			parsed, err := event.ParsePayload()
			if err != nil {
				continue
			}
			push, ok := parsed.(*github.PushEvent)
			if !ok {
				continue
			}

			key := splitRepoName(event.GetRepo().GetName())
			size := push.GetSize()
			dailyMap[created.Format("2006-01-02")] += size
			repoMap[key] += size
		}

		if resp.NextPage == 0 {
			break
		}
	}

	payload := &WindowPayload{
		Profile: models.UserProfile{Login: username},
	}
	for date, count := range dailyMap {
		payload.Daily = append(payload.Daily, models.DailyCount{Date: date, Count: count})
		payload.TotalCommits += count
	}
	payload.CalendarTotal = payload.TotalCommits
	for key, count := range repoMap {
		payload.RepoCommits = append(payload.RepoCommits, WindowRepoCount{
			Key:      key,
			Count:    count,
			Language: "Other",
		})
	}

	return payload, nil
}

func splitRepoName(fullName string) models.RepoKey {
	if i := strings.Index(fullName, "/"); i >= 0 {
		return models.RepoKey{Owner: fullName[:i], Name: fullName[i+1:]}
	}
	return models.RepoKey{Name: fullName}
}

func endOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, 0, t.Location())
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func languageName(l *languageNode) string {
	if l == nil || l.Name == "" {
		return "Other"
	}
	return l.Name
}

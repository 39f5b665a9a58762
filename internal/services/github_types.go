package services

import "github.com/qingbolan/yearscope/internal/models"

// Wire types for the GraphQL aggregate query. Optional fields are pointers
// or connection wrappers; absent values fall back to documented defaults
// when converted (absent language name becomes "Other").

type graphQLRequest struct {
	Query     string            `json:"query"`
	Variables map[string]string `json:"variables,omitempty"`
}

type graphQLError struct {
	Message string `json:"message"`
}

type graphQLResponse struct {
	Data struct {
		Viewer viewerPayload `json:"viewer"`
	} `json:"data"`
	Errors []graphQLError `json:"errors"`
}

type countConnection struct {
	TotalCount int `json:"totalCount"`
}

type languageNode struct {
	Name  string `json:"name"`
	Color string `json:"color"`
}

type languageEdge struct {
	Size int64        `json:"size"`
	Node languageNode `json:"node"`
}

type repoOwner struct {
	Login     string `json:"login"`
	AvatarURL string `json:"avatarUrl"`
	TypeName  string `json:"__typename"`
}

type repositoryNode struct {
	Name            string        `json:"name"`
	NameWithOwner   string        `json:"nameWithOwner"`
	IsPrivate       bool          `json:"isPrivate"`
	StargazerCount  int           `json:"stargazerCount"`
	ForkCount       int           `json:"forkCount"`
	Description     *string       `json:"description"`
	URL             string        `json:"url"`
	PrimaryLanguage *languageNode `json:"primaryLanguage"`
	Owner           repoOwner     `json:"owner"`
	Languages       struct {
		Edges []languageEdge `json:"edges"`
	} `json:"languages"`
}

type repositoryConnection struct {
	TotalCount int              `json:"totalCount"`
	Nodes      []repositoryNode `json:"nodes"`
}

type contributionDay struct {
	Date              string `json:"date"`
	ContributionCount int    `json:"contributionCount"`
}

type calendarWeek struct {
	ContributionDays []contributionDay `json:"contributionDays"`
}

type contributionCalendar struct {
	TotalContributions int            `json:"totalContributions"`
	Weeks              []calendarWeek `json:"weeks"`
}

type repoContributionEdge struct {
	Repository    repositoryNode  `json:"repository"`
	Contributions countConnection `json:"contributions"`
}

type contributionsCollection struct {
	TotalCommitContributions            int                    `json:"totalCommitContributions"`
	TotalPullRequestContributions       int                    `json:"totalPullRequestContributions"`
	TotalPullRequestReviewContributions int                    `json:"totalPullRequestReviewContributions"`
	TotalIssueContributions             int                    `json:"totalIssueContributions"`
	ContributionCalendar                contributionCalendar   `json:"contributionCalendar"`
	CommitContributionsByRepository     []repoContributionEdge `json:"commitContributionsByRepository"`
	PullRequestContributionsByRepo      []repoContributionEdge `json:"pullRequestContributionsByRepository"`
	IssueContributionsByRepo            []repoContributionEdge `json:"issueContributionsByRepository"`
}

type viewerPayload struct {
	Login                   string                  `json:"login"`
	AvatarURL               string                  `json:"avatarUrl"`
	Bio                     *string                 `json:"bio"`
	Company                 *string                 `json:"company"`
	Location                *string                 `json:"location"`
	Followers               countConnection         `json:"followers"`
	Following               countConnection         `json:"following"`
	Repositories            repositoryConnection    `json:"repositories"`
	ContributionsCollection contributionsCollection `json:"contributionsCollection"`
}

// WindowPayload is the parsed result of one aggregate query. It is transient:
// merged into the session aggregate and then discarded.
type WindowPayload struct {
	Profile models.UserProfile

	TotalCommits       int
	PullRequests       int
	PullRequestReviews int
	Issues             int
	CalendarTotal      int

	Daily       []models.DailyCount
	RepoCommits []WindowRepoCount

	// Organization refs seen in any of the three contribution categories.
	Organizations []models.OrganizationRef

	// Full repository listing. Time-range independent; the reconciler only
	// consumes it from window 0.
	Directory  []DirectoryEntry
	TotalRepos int

	// Raw X-OAuth-Scopes header, inspected only on the first window.
	ScopesHeader    string
	HasScopesHeader bool
}

// WindowRepoCount is one repository's commit count within a single window.
type WindowRepoCount struct {
	Key         models.RepoKey
	Count       int
	IsPrivate   bool
	IsOrgOwned  bool
	Stars       int
	Forks       int
	Language    string
	Description string
	URL         string
}

// DirectoryEntry is one repository from the full listing, with its language
// size edges.
type DirectoryEntry struct {
	Key       models.RepoKey
	FullName  string
	IsPrivate bool
	Languages []LanguageEdge
}

// LanguageEdge is one (language, byte size) pair of a repository.
type LanguageEdge struct {
	Name  string
	Color string
	Size  int64
}

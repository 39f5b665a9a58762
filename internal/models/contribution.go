package models

// RepoKey is the canonical identity of a repository: the owner and name
// tuple, not a formatted string. Used as a map key during reconciliation.
type RepoKey struct {
	Owner string
	Name  string
}

// FullName returns the usual owner/name rendering of the key.
func (k RepoKey) FullName() string {
	return k.Owner + "/" + k.Name
}

// Reserved identity of the synthetic bucket holding contributions whose
// repository the viewer cannot enumerate (private organization activity).
const (
	HiddenRepoOwner = "private"
	HiddenRepoName  = "other-repositories"
)

// RepoContribution is the per-repository commit breakdown after merging all
// windows. CommitCount accumulates additively across windows.
type RepoContribution struct {
	Name        string `json:"repo"`
	FullName    string `json:"fullName"`
	Owner       string `json:"owner"`
	CommitCount int    `json:"count"`
	IsPrivate   bool   `json:"isPrivate"`
	IsOrg       bool   `json:"isOrg"`
	Stars       int    `json:"stars"`
	Forks       int    `json:"forks"`
	Language    string `json:"language"`
	Description string `json:"description"`
	URL         string `json:"url"`
}

// Key returns the canonical identity of the contribution's repository.
func (r *RepoContribution) Key() RepoKey {
	return RepoKey{Owner: r.Owner, Name: r.Name}
}

// DailyCount is one calendar day of the contribution calendar.
type DailyCount struct {
	Date  string `json:"date"` // YYYY-MM-DD
	Count int    `json:"count"`
}

// LanguageStat aggregates one language's byte size over the full repository
// listing. Language sizes are repository-level facts independent of the
// requested date range.
type LanguageStat struct {
	Name       string  `json:"name"`
	Color      string  `json:"color"`
	Size       int64   `json:"size"`
	RepoCount  int     `json:"repoCount"`
	Percentage float64 `json:"percentage"`
}

// OrganizationRef identifies an organization the user contributed to.
type OrganizationRef struct {
	Login     string `json:"login"`
	AvatarURL string `json:"avatarUrl"`
}

// UserProfile carries the profile fields returned alongside the first
// window's payload.
type UserProfile struct {
	Login     string `json:"username"`
	AvatarURL string `json:"avatarUrl"`
	Bio       string `json:"bio"`
	Company   string `json:"company"`
	Location  string `json:"location"`
	Followers int    `json:"followers"`
	Following int    `json:"following"`
}

// ContributionAggregate is the session-scoped merge of all window payloads.
// It is discarded once derived statistics have been produced; only per-commit
// line stats are persisted externally.
type ContributionAggregate struct {
	Profile UserProfile

	TotalContributions int
	TotalCommits       int
	PullRequests       int
	PullRequestReviews int
	Issues             int

	Daily         []DailyCount
	Repos         []*RepoContribution
	Organizations []OrganizationRef
	Languages     []LanguageStat

	PublicRepos  int
	PrivateRepos int
	TotalRepos   int

	// Credential advisory, classified once from the first window.
	TokenType     string
	MissingScopes []string
}

package models

import "time"

// CacheSchemaVersion gates the external cache document. A record carrying a
// different version is ignored wholesale; there is no partial migration.
const CacheSchemaVersion = 2

// CommitStat holds the derived per-commit line statistics that are persisted
// externally between sessions.
type CommitStat struct {
	Additions int                 `json:"additions"`
	Deletions int                 `json:"deletions"`
	FileStats map[string]FileStat `json:"file_stats,omitempty"`
}

// CacheRecord is the externally persisted document holding previously
// computed per-commit statistics, keyed by repository full name and commit
// hash.
type CacheRecord struct {
	Version     int                              `json:"version"`
	Owner       string                           `json:"owner"`
	PerRepo     map[string]map[string]CommitStat `json:"per_repo"`
	LastUpdated time.Time                        `json:"last_updated"`
}

// NewCacheRecord returns an empty record stamped with the current schema
// version.
func NewCacheRecord(owner string) *CacheRecord {
	return &CacheRecord{
		Version:     CacheSchemaVersion,
		Owner:       owner,
		PerRepo:     make(map[string]map[string]CommitStat),
		LastUpdated: time.Now().UTC(),
	}
}

// Get looks up the stats for one commit.
func (r *CacheRecord) Get(repoFullName, hash string) (CommitStat, bool) {
	commits, ok := r.PerRepo[repoFullName]
	if !ok {
		return CommitStat{}, false
	}
	stat, ok := commits[hash]
	return stat, ok
}

// Put stores the stats for one commit, creating the repo bucket on demand.
func (r *CacheRecord) Put(repoFullName, hash string, stat CommitStat) {
	if r.PerRepo == nil {
		r.PerRepo = make(map[string]map[string]CommitStat)
	}
	if r.PerRepo[repoFullName] == nil {
		r.PerRepo[repoFullName] = make(map[string]CommitStat)
	}
	r.PerRepo[repoFullName][hash] = stat
}

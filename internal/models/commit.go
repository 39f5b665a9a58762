package models

import "time"

// FileStat holds the line delta of a single file within one commit.
type FileStat struct {
	Insertions int `json:"insertions"`
	Deletions  int `json:"deletions"`
}

// CommitRecord is one commit authored by the user, flattened for analysis.
type CommitRecord struct {
	Repo       string              `json:"repo"`
	Hash       string              `json:"hash"`
	Date       time.Time           `json:"date"`
	Author     string              `json:"author"`
	Message    string              `json:"message"`
	Files      []string            `json:"files"`
	FileStats  map[string]FileStat `json:"file_stats,omitempty"`
	Insertions int                 `json:"insertions"`
	Deletions  int                 `json:"deletions"`
}

package services

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/qingbolan/yearscope/internal/models"
)

func TestClassifyToken(t *testing.T) {
	testCases := []struct {
		name            string
		header          string
		present         bool
		expectedType    string
		expectedMissing []string
	}{
		{
			name:            "No header means fine-grained",
			header:          "",
			present:         false,
			expectedType:    "fine-grained",
			expectedMissing: []string{"repo", "read:org"},
		},
		{
			name:            "Classic with all required scopes",
			header:          "repo, read:org, gist",
			present:         true,
			expectedType:    "classic",
			expectedMissing: nil,
		},
		{
			name:            "Classic missing repo",
			header:          "read:org",
			present:         true,
			expectedType:    "classic",
			expectedMissing: []string{"repo"},
		},
		{
			name:            "admin:org satisfies read:org",
			header:          "repo, admin:org",
			present:         true,
			expectedType:    "classic",
			expectedMissing: nil,
		},
		{
			name:            "Empty header still classic",
			header:          "",
			present:         true,
			expectedType:    "classic",
			expectedMissing: []string{"repo", "read:org"},
		},
		{
			name:            "Whitespace tolerated",
			header:          "  repo ,read:org  ",
			present:         true,
			expectedType:    "classic",
			expectedMissing: nil,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			tokenType, missing := ClassifyToken(tc.header, tc.present)
			assert.Equal(t, tc.expectedType, tokenType)
			assert.Equal(t, tc.expectedMissing, missing)
		})
	}
}

func TestSplitRepoName(t *testing.T) {
	testCases := []struct {
		name     string
		fullName string
		expected models.RepoKey
	}{
		{
			name:     "Owner and name",
			fullName: "jane/api",
			expected: models.RepoKey{Owner: "jane", Name: "api"},
		},
		{
			name:     "No slash keeps name only",
			fullName: "api",
			expected: models.RepoKey{Name: "api"},
		},
		{
			name:     "Only first slash splits",
			fullName: "jane/api/v2",
			expected: models.RepoKey{Owner: "jane", Name: "api/v2"},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, splitRepoName(tc.fullName))
		})
	}
}

func TestLanguageName(t *testing.T) {
	assert.Equal(t, "Other", languageName(nil))
	assert.Equal(t, "Go", languageName(&languageNode{Name: "Go"}))
}

func TestDeref(t *testing.T) {
	value := "hello"
	assert.Equal(t, "hello", deref(&value))
	assert.Equal(t, "", deref(nil))
}

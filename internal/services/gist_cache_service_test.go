package services

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qingbolan/yearscope/internal/models"
)

func TestDecodeCacheRecord(t *testing.T) {
	t.Run("Current version round-trips", func(t *testing.T) {
		original := models.NewCacheRecord("jane")
		original.Put("jane/api", "abc123", models.CommitStat{Additions: 10, Deletions: 2})

		content, err := json.Marshal(original)
		require.NoError(t, err)

		decoded := decodeCacheRecord(content)
		require.NotNil(t, decoded)

		stat, ok := decoded.Get("jane/api", "abc123")
		require.True(t, ok)
		assert.Equal(t, 10, stat.Additions)
		assert.Equal(t, 2, stat.Deletions)
	})

	t.Run("Stale version treated as absent", func(t *testing.T) {
		content := []byte(`{"version": 1, "owner": "jane", "per_repo": {}}`)
		assert.Nil(t, decodeCacheRecord(content))
	})

	t.Run("Garbage treated as absent", func(t *testing.T) {
		assert.Nil(t, decodeCacheRecord([]byte("not json at all")))
	})

	t.Run("Missing perRepo map is initialized", func(t *testing.T) {
		content := []byte(`{"version": 2, "owner": "jane"}`)
		decoded := decodeCacheRecord(content)
		require.NotNil(t, decoded)
		assert.NotNil(t, decoded.PerRepo)
	})
}

func TestFingerprintIsStable(t *testing.T) {
	a := fingerprint("ghp_sometoken")
	b := fingerprint("ghp_sometoken")
	c := fingerprint("ghp_othertoken")

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
	assert.Len(t, a, 16)
}

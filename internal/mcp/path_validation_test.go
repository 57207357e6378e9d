package mcp

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveDataPath(t *testing.T) {
	dataDir := t.TempDir()

	t.Run("relative path inside data dir", func(t *testing.T) {
		got, err := resolveDataPath(dataDir, "cases.csv")
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(dataDir, "cases.csv"), got)
	})

	t.Run("nested relative path", func(t *testing.T) {
		got, err := resolveDataPath(dataDir, "sub/cases.csv")
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(dataDir, "sub", "cases.csv"), got)
	})

	t.Run("absolute path inside data dir", func(t *testing.T) {
		inside := filepath.Join(dataDir, "cases.csv")
		got, err := resolveDataPath(dataDir, inside)
		require.NoError(t, err)
		assert.Equal(t, inside, got)
	})

	t.Run("escape via dot-dot", func(t *testing.T) {
		_, err := resolveDataPath(dataDir, "../outside.csv")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "within the data directory")
	})

	t.Run("absolute path outside data dir", func(t *testing.T) {
		_, err := resolveDataPath(dataDir, "/etc/passwd")
		assert.Error(t, err)
	})

	t.Run("empty path", func(t *testing.T) {
		_, err := resolveDataPath(dataDir, "")
		assert.Error(t, err)
	})

	t.Run("dot-dot that stays inside", func(t *testing.T) {
		got, err := resolveDataPath(dataDir, "sub/../cases.csv")
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(dataDir, "cases.csv"), got)
	})
}

package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileGivesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadOverridesSubset(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mapedit.yaml")
	require.NoError(t, os.WriteFile(path, []byte("influence: 3.5\ncache:\n  max_entries: 8\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 3.5, cfg.Influence)
	assert.Equal(t, 8, cfg.Cache.MaxEntries)
	// Untouched fields keep their defaults.
	assert.Equal(t, Default().OutlineWidth, cfg.OutlineWidth)
	assert.Equal(t, Default().Cache.MaxBytes, cfg.Cache.MaxBytes)
}

func TestLoadMalformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("influence: [not a number"), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, 150, cfg.Search.DebounceMs)
	assert.Equal(t, 100, cfg.Search.MaxBatchSize)
	assert.Equal(t, 20, cfg.Search.ChunkSize)
	assert.Equal(t, "error", cfg.Logger.Level)
	assert.Equal(t, "crossref.json", cfg.Datasets.CrossRef)
	assert.False(t, cfg.Sentry.Enabled)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_MissingFileFallsBackToDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	require.NoError(t, err)
	assert.Equal(t, 150, cfg.Search.DebounceMs)
}

func TestLoad_PartialFileGetsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
[search]
debounce_ms = 300

[logger]
level = "debug"
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 300, cfg.Search.DebounceMs)
	assert.Equal(t, "debug", cfg.Logger.Level)
	// Unset fields still pick up defaults.
	assert.Equal(t, 100, cfg.Search.MaxBatchSize)
	assert.Equal(t, 5, cfg.Search.SuggestionLimit)
}

func TestLoad_RejectsInvalidValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
[logger]
level = "loud"
`), 0o644))

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid log level")
}

func TestValidate_ChunkSizeBound(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Search.ChunkSize = 500
	cfg.Search.MaxBatchSize = 100
	assert.Error(t, cfg.Validate())
}

func TestSaveAndReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")

	cfg := DefaultConfig()
	cfg.Search.DebounceMs = 250
	cfg.Output.JSON = true
	require.NoError(t, cfg.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 250, loaded.Search.DebounceMs)
	assert.True(t, loaded.Output.JSON)
}

func TestDatasetPath(t *testing.T) {
	cfg := DefaultConfig()
	cfg.DataDir = "/data/axisfinder"

	assert.Equal(t, filepath.Join("/data/axisfinder", "crossref.json"), cfg.DatasetPath("crossref.json"))
	assert.Equal(t, "/abs/specs.json", cfg.DatasetPath("/abs/specs.json"))
	assert.Empty(t, cfg.DatasetPath(""))
}

func TestDebounceInterval(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Search.DebounceMs = 150
	assert.Equal(t, 150*time.Millisecond, cfg.DebounceInterval())
}

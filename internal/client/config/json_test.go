package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempJSON(t *testing.T, data map[string]any) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "cfg.json")
	b, err := json.Marshal(data)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, b, 0o600))
	return path
}

func Test_parseJson_SourcesAndPrecedence(t *testing.T) {
	path := writeTempJSON(t, map[string]any{
		"server_url":    "http://www.example:9000",
		"sync_interval": "1m",
		"backoff_cap":   "30m",
		"max_attempts":  3,
	})

	t.Run("loads from -config", func(t *testing.T) {
		cfg := &Config{}
		cfg.LoadDefaults()
		require.NoError(t, parseJson(cfg, []string{"-config", path}))

		assert.Equal(t, "http://www.example:9000", cfg.ServerURL)
		assert.Equal(t, time.Minute, cfg.SyncInterval)
		assert.Equal(t, 30*time.Minute, cfg.BackoffCap)
		assert.Equal(t, 3, cfg.MaxAttempts)
		// untouched
		assert.Equal(t, "gophnotes.db", cfg.DBPath)
	})

	t.Run("flags override json", func(t *testing.T) {
		cfg, err := load([]string{"-c", path, "-i", "5"})
		require.NoError(t, err)
		assert.Equal(t, 5*time.Second, cfg.SyncInterval)
		assert.Equal(t, "http://www.example:9000", cfg.ServerURL)
	})

	t.Run("no config flag leaves values", func(t *testing.T) {
		cfg := &Config{DBPath: "keep.db"}
		require.NoError(t, parseJson(cfg, nil))
		assert.Equal(t, "keep.db", cfg.DBPath)
	})

	t.Run("invalid JSON fails", func(t *testing.T) {
		bad := filepath.Join(t.TempDir(), "bad.json")
		require.NoError(t, os.WriteFile(bad, []byte(`{ this is not valid json`), 0o600))
		require.Error(t, parseJson(&Config{}, []string{"-config", bad}))
	})

	t.Run("missing file fails", func(t *testing.T) {
		require.Error(t, parseJson(&Config{}, []string{"-c", filepath.Join(t.TempDir(), "none.json")}))
	})
}

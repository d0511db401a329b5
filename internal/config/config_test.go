package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("", nil)
	require.NoError(t, err)
	assert.Equal(t, Default(), *cfg)
	assert.Equal(t, slog.LevelInfo, cfg.SlogLevel())
}

func TestLoadLayers(t *testing.T) {
	path := filepath.Join(t.TempDir(), "knoldeck.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
db:
  path: from-file.db
log:
  level: warn
http:
  addr: 0.0.0.0:9090
  session_ttl: 5m
weight:
  decay: 0.6
`), 0o644))

	t.Setenv("KNOLDECK_LOG_LEVEL", "debug")
	t.Setenv("KNOLDECK_SAMPLER_SEED", "77")

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	RegisterFlags(flags)
	require.NoError(t, flags.Parse([]string{"--repos-dir", "/tmp/decks"}))

	cfg, err := Load(path, flags)
	require.NoError(t, err)

	assert.Equal(t, "from-file.db", cfg.DB.Path, "unchanged flags do not override the file")
	assert.Equal(t, "0.0.0.0:9090", cfg.HTTP.Addr)
	assert.Equal(t, 5*time.Minute, cfg.HTTP.SessionTTL)
	assert.Equal(t, "debug", cfg.Log.Level, "env overrides the file")
	assert.EqualValues(t, 77, cfg.Sampler.Seed)
	assert.Equal(t, "/tmp/decks", cfg.Repos.Dir, "changed flags win")
	assert.Equal(t, 0.6, cfg.Weight.Decay)
	assert.Equal(t, 1.3, cfg.Weight.Boost)
	assert.Equal(t, slog.LevelDebug, cfg.SlogLevel())
}

func TestLoadMissingFile(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"), nil)
	require.NoError(t, err)
	assert.Equal(t, "knoldeck.db", cfg.DB.Path)
	assert.Equal(t, 30*time.Minute, cfg.HTTP.SessionTTL)
}

func TestLoadInvalid(t *testing.T) {
	testCases := []struct {
		name string
		key  string
		val  string
	}{
		{name: "Unknown log level", key: "KNOLDECK_LOG_LEVEL", val: "loud"},
		{name: "Bad address", key: "KNOLDECK_HTTP_ADDR", val: "not an address"},
		{name: "Decay above one", key: "KNOLDECK_WEIGHT_DECAY", val: "1.5"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Setenv(tc.key, tc.val)
			_, err := Load("", nil)
			assert.Error(t, err)
		})
	}
}

func TestEnvKey(t *testing.T) {
	assert.Equal(t, "db.path", envKey("KNOLDECK_DB_PATH"))
	assert.Equal(t, "http.addr", envKey("KNOLDECK_HTTP_ADDR"))
}

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFullConfig(t *testing.T) {
	data := []byte(`
database:
  path: /tmp/decks.db
session:
  default_target: 15
  seed: 42
server:
  addr: ":9000"
  read_timeout: 5s
  write_timeout: 1m
stats:
  snapshot_keep: 7
`)

	cfg, err := Parse(data)
	require.NoError(t, err)

	assert.Equal(t, "/tmp/decks.db", cfg.Database.Path)
	assert.Equal(t, 15, cfg.Session.DefaultTarget)
	assert.Equal(t, uint64(42), cfg.Session.Seed)
	assert.Equal(t, ":9000", cfg.Server.Addr)
	assert.Equal(t, 5*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, time.Minute, cfg.Server.WriteTimeout)
	assert.Equal(t, 7, cfg.Stats.SnapshotKeep)
}

func TestParseAppliesDefaults(t *testing.T) {
	cfg, err := Parse([]byte("session:\n  seed: 1\n"))
	require.NoError(t, err)

	assert.Equal(t, "", cfg.Database.Path)
	assert.Equal(t, DefaultTarget, cfg.Session.DefaultTarget)
	assert.Equal(t, DefaultAddr, cfg.Server.Addr)
	assert.Equal(t, DefaultReadTimeout, cfg.Server.ReadTimeout)
	assert.Equal(t, DefaultWriteTimeout, cfg.Server.WriteTimeout)
	assert.Equal(t, DefaultSnapshotKeep, cfg.Stats.SnapshotKeep)
}

func TestParseRejectsInvalid(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"negative target", "session:\n  default_target: -1\n"},
		{"negative keep", "stats:\n  snapshot_keep: -3\n"},
		{"negative timeout", "server:\n  read_timeout: -1s\n"},
		{"malformed", "session: [\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			assert.Error(t, err)
		})
	}
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("session:\n  default_target: 8\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 8, cfg.Session.DefaultTarget)
}

func TestDefaultPath(t *testing.T) {
	t.Setenv("RECALL_CONFIG", "/etc/recall.yaml")
	p, err := DefaultPath()
	require.NoError(t, err)
	assert.Equal(t, "/etc/recall.yaml", p)

	dir := t.TempDir()
	t.Setenv("RECALL_CONFIG", "")
	t.Setenv("XDG_CONFIG_HOME", dir)
	p, err = DefaultPath()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "recall", "config.yaml"), p)
}

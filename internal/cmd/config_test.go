package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig(t *testing.T) {
	t.Run("defaults match the standard game parameters", func(t *testing.T) {
		cfg, err := loadConfig("")
		require.NoError(t, err)

		assert.Equal(t, ":8080", cfg.Server.Addr)
		gameCfg := cfg.gameConfig()
		assert.Equal(t, 50*time.Millisecond, gameCfg.TickRate)
		assert.Equal(t, 60*time.Second, gameCfg.SessionLength)
		assert.Equal(t, 5*time.Second, gameCfg.ReactionWindow)
		assert.Equal(t, 100, gameCfg.SpawnRange)
		assert.True(t, gameCfg.EndOnHazardTimeout)
		assert.False(t, cfg.Database.Enabled)
		assert.False(t, cfg.NATS.Enabled)
	})

	t.Run("yaml file overrides defaults", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.yaml")
		require.NoError(t, os.WriteFile(path, []byte(`
server:
  addr: ":9090"
game:
  tick_rate_ms: 100
  session_length_ms: 30000
  end_on_hazard_timeout: false
nats:
  enabled: true
  url: nats://queue:4222
`), 0o644))

		cfg, err := loadConfig(path)
		require.NoError(t, err)

		assert.Equal(t, ":9090", cfg.Server.Addr)
		assert.Equal(t, 100*time.Millisecond, cfg.gameConfig().TickRate)
		assert.Equal(t, 30*time.Second, cfg.gameConfig().SessionLength)
		assert.False(t, cfg.gameConfig().EndOnHazardTimeout)
		assert.True(t, cfg.NATS.Enabled)
		assert.Equal(t, "nats://queue:4222", cfg.NATS.URL)
		// Untouched keys keep their defaults.
		assert.Equal(t, 5*time.Second, cfg.gameConfig().ReactionWindow)
	})

	t.Run("environment overrides the file", func(t *testing.T) {
		t.Setenv("PORT", "7070")
		t.Setenv("NATS_ENABLED", "true")

		cfg, err := loadConfig("")
		require.NoError(t, err)

		assert.Equal(t, ":7070", cfg.Server.Addr)
		assert.True(t, cfg.NATS.Enabled)
	})

	t.Run("missing file is an error", func(t *testing.T) {
		_, err := loadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
		assert.Error(t, err)
	})
}

package main

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/BenjaminWFox/certified-js13k/internal/game"
)

type Config struct {
	Server struct {
		Addr string `yaml:"addr"`
	} `yaml:"server"`
	Game struct {
		TickRateMS         int  `yaml:"tick_rate_ms"`
		SessionLengthMS    int  `yaml:"session_length_ms"`
		ReactionWindowMS   int  `yaml:"reaction_window_ms"`
		HazardSpawnRange   int  `yaml:"hazard_spawn_range"`
		EndOnHazardTimeout bool `yaml:"end_on_hazard_timeout"`
	} `yaml:"game"`
	Database struct {
		Enabled bool `yaml:"enabled"`
	} `yaml:"database"`
	NATS struct {
		Enabled bool   `yaml:"enabled"`
		URL     string `yaml:"url"`
		Subject string `yaml:"subject"`
	} `yaml:"nats"`
}

func defaultConfig() *Config {
	cfg := &Config{}
	cfg.Server.Addr = ":8080"
	gameDefaults := game.DefaultConfig()
	cfg.Game.TickRateMS = int(gameDefaults.TickRate.Milliseconds())
	cfg.Game.SessionLengthMS = int(gameDefaults.SessionLength.Milliseconds())
	cfg.Game.ReactionWindowMS = int(gameDefaults.ReactionWindow.Milliseconds())
	cfg.Game.HazardSpawnRange = gameDefaults.SpawnRange
	cfg.Game.EndOnHazardTimeout = gameDefaults.EndOnHazardTimeout
	return cfg
}

// loadConfig builds the effective configuration: defaults, then the yaml
// file when present, then environment overrides.
func loadConfig(path string) (*Config, error) {
	cfg := defaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	if port := os.Getenv("PORT"); port != "" {
		cfg.Server.Addr = ":" + port
	}
	if url := os.Getenv("NATS_URL"); url != "" {
		cfg.NATS.URL = url
	}
	cfg.Database.Enabled = getEnvAsBool("DB_ENABLED", cfg.Database.Enabled)
	cfg.NATS.Enabled = getEnvAsBool("NATS_ENABLED", cfg.NATS.Enabled)

	return cfg, nil
}

func (c *Config) gameConfig() game.Config {
	return game.Config{
		TickRate:           time.Duration(c.Game.TickRateMS) * time.Millisecond,
		SessionLength:      time.Duration(c.Game.SessionLengthMS) * time.Millisecond,
		ReactionWindow:     time.Duration(c.Game.ReactionWindowMS) * time.Millisecond,
		SpawnRange:         c.Game.HazardSpawnRange,
		EndOnHazardTimeout: c.Game.EndOnHazardTimeout,
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

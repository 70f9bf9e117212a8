package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadExampleConfig(t *testing.T) {
	config, err := LoadConfig("../../arena.example.yaml")
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	if config.Physics.BoardSize != 1000 {
		t.Errorf("Expected board size 1000, got %v", config.Physics.BoardSize)
	}

	if config.Physics.RespondTimeout != 100*time.Millisecond {
		t.Errorf("Expected respond timeout 100ms, got %v", config.Physics.RespondTimeout)
	}

	if len(config.Physics.ExplosionBands) != 3 || config.Physics.ExplosionBands[0].Damage != 10 {
		t.Errorf("Unexpected explosion bands: %+v", config.Physics.ExplosionBands)
	}

	if config.Match.Games != 20 || config.Match.Workers != 4 {
		t.Errorf("Expected 20 games on 4 workers, got %d on %d", config.Match.Games, config.Match.Workers)
	}

	if config.Logging.ResultPath != "results.yaml" {
		t.Errorf("Expected result path results.yaml, got %q", config.Logging.ResultPath)
	}
}

func TestDefaultConfig(t *testing.T) {
	config := GetDefaultConfig()

	if err := config.Validate(); err != nil {
		t.Fatalf("Default config validation failed: %v", err)
	}

	if config.Match.Workers != 1 {
		t.Errorf("Expected sequential games by default, got %d workers", config.Match.Workers)
	}
}

func TestPartialConfigKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "arena.yaml")
	content := "match:\n  games: 3\nphysics:\n  cannon_cooldown: 4\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}

	config, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}

	if config.Match.Games != 3 || config.Physics.CannonCooldown != 4 {
		t.Errorf("Overrides not applied: %+v", config.Match)
	}
	if config.Match.Rounds != 1000 || config.Physics.FPS != 30 {
		t.Errorf("Defaults lost: rounds=%d fps=%d", config.Match.Rounds, config.Physics.FPS)
	}
}

func TestLoadConfigErrors(t *testing.T) {
	dir := t.TempDir()

	if _, err := LoadConfig(filepath.Join(dir, "missing.yaml")); err == nil {
		t.Errorf("Expected error for missing file")
	}

	bad := filepath.Join(dir, "bad.yaml")
	if err := os.WriteFile(bad, []byte("match: [unterminated"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadConfig(bad); err == nil {
		t.Errorf("Expected error for malformed YAML")
	}

	invalid := filepath.Join(dir, "invalid.yaml")
	if err := os.WriteFile(invalid, []byte("match:\n  rounds: -5\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadConfig(invalid); err == nil {
		t.Errorf("Expected validation error for negative rounds")
	}

	unbounded := filepath.Join(dir, "unbounded.yaml")
	if err := os.WriteFile(unbounded, []byte("physics:\n  respond_timeout: 0s\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadConfig(unbounded); err == nil {
		t.Errorf("Expected validation error for a zero respond timeout")
	}
}

func TestSaveConfigRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	config := GetDefaultConfig()
	config.Match.Seed = 1234
	config.Physics.RespondTimeout = 250 * time.Millisecond
	config.Logging.ReplayPath = "replay.json"

	if err := SaveConfig(config, path); err != nil {
		t.Fatalf("SaveConfig() error = %v", err)
	}

	loaded, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}

	if loaded.Match.Seed != 1234 {
		t.Errorf("Expected seed 1234, got %d", loaded.Match.Seed)
	}
	if loaded.Physics.RespondTimeout != 250*time.Millisecond {
		t.Errorf("Expected respond timeout 250ms, got %v", loaded.Physics.RespondTimeout)
	}
	if loaded.Logging.ReplayPath != "replay.json" {
		t.Errorf("Expected replay path replay.json, got %q", loaded.Logging.ReplayPath)
	}

	config.Match.Games = 0
	if err := SaveConfig(config, path); err == nil {
		t.Errorf("Expected SaveConfig to reject an invalid config")
	}
}

func TestConfigValidation(t *testing.T) {
	tests := []struct {
		name   string
		modify func(c *Config)
		hasErr bool
	}{
		{
			name:   "valid config",
			modify: func(c *Config) {},
		},
		{
			name:   "zero games",
			modify: func(c *Config) { c.Match.Games = 0 },
			hasErr: true,
		},
		{
			name:   "zero rounds",
			modify: func(c *Config) { c.Match.Rounds = 0 },
			hasErr: true,
		},
		{
			name:   "no workers",
			modify: func(c *Config) { c.Match.Workers = 0 },
			hasErr: true,
		},
		{
			name:   "unknown log level",
			modify: func(c *Config) { c.Logging.Level = "loud" },
			hasErr: true,
		},
		{
			name:   "upper-case log level",
			modify: func(c *Config) { c.Logging.Level = "DEBUG" },
		},
		{
			name:   "invalid physics",
			modify: func(c *Config) { c.Physics.MissileStep = 0 },
			hasErr: true,
		},
		{
			name:   "unbounded respond timeout",
			modify: func(c *Config) { c.Physics.RespondTimeout = 0 },
			hasErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := GetDefaultConfig()
			tt.modify(config)
			err := config.Validate()
			if tt.hasErr && err == nil {
				t.Errorf("Expected validation error for %s", tt.name)
			}
			if !tt.hasErr && err != nil {
				t.Errorf("Unexpected validation error for %s: %v", tt.name, err)
			}
		})
	}
}

func TestEnvironmentOverrides(t *testing.T) {
	config := GetDefaultConfig()

	t.Setenv("ARENA_GAMES", "42")
	t.Setenv("ARENA_ROUNDS", "500")
	t.Setenv("ARENA_SEED", "-7")
	t.Setenv("ARENA_WORKERS", "not-a-number")
	t.Setenv("ARENA_RESPOND_TIMEOUT", "30ms")
	t.Setenv("ARENA_MAX_SCAN_HALF_ANGLE", "180")
	t.Setenv("ARENA_LOG_LEVEL", "DEBUG")
	t.Setenv("ARENA_NO_COLOR", "true")
	t.Setenv("ARENA_REPLAY_PATH", "out/replay.yaml")

	MergeWithEnvironment(config)

	if config.Match.Games != 42 || config.Match.Rounds != 500 || config.Match.Seed != -7 {
		t.Errorf("Match overrides not applied: %+v", config.Match)
	}
	if config.Match.Workers != 1 {
		t.Errorf("Unparseable workers should be ignored, got %d", config.Match.Workers)
	}
	if config.Physics.RespondTimeout != 30*time.Millisecond {
		t.Errorf("Expected respond timeout 30ms, got %v", config.Physics.RespondTimeout)
	}
	if config.Physics.MaxScanHalfAngle != 180 {
		t.Errorf("Expected omni scanner, got %v", config.Physics.MaxScanHalfAngle)
	}
	if config.Logging.Level != "debug" || !config.Logging.NoColor {
		t.Errorf("Logging overrides not applied: %+v", config.Logging)
	}
	if config.Logging.ReplayPath != "out/replay.yaml" {
		t.Errorf("Expected replay path override, got %q", config.Logging.ReplayPath)
	}
}

func TestCLIOverrides(t *testing.T) {
	config := GetDefaultConfig()

	overrides := map[string]interface{}{
		"games":           5,
		"rounds":          -1,
		"seed":            int64(99),
		"workers":         8,
		"respond_timeout": 2 * time.Second,
		"log_level":       "warn",
		"show_events":     true,
		"result_path":     "results.json",
		"unknown":         "ignored",
	}

	MergeWithCLIOverrides(config, overrides)

	if config.Match.Games != 5 {
		t.Errorf("Expected 5 games, got %d", config.Match.Games)
	}
	if config.Match.Rounds != 1000 {
		t.Errorf("Negative rounds should be ignored, got %d", config.Match.Rounds)
	}
	if config.Match.Seed != 99 || config.Match.Workers != 8 {
		t.Errorf("Unexpected match config: %+v", config.Match)
	}
	if config.Physics.RespondTimeout != 2*time.Second {
		t.Errorf("Expected respond timeout 2s, got %v", config.Physics.RespondTimeout)
	}
	if config.Logging.Level != "warn" || !config.Logging.ShowEvents || config.Logging.ResultPath != "results.json" {
		t.Errorf("Unexpected logging config: %+v", config.Logging)
	}
}

func TestLoadConfigOrDefaultFallsBack(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("ARENA_GAMES", "3")

	config, err := LoadConfigOrDefault(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("LoadConfigOrDefault() error = %v", err)
	}

	if config.Match.Games != 3 {
		t.Errorf("Expected environment override on defaults, got %d games", config.Match.Games)
	}
	if config.Match.Rounds != GetDefaultConfig().Match.Rounds {
		t.Errorf("Expected default rounds, got %d", config.Match.Rounds)
	}
}

func TestLoadConfigWithOverrides(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	config, err := LoadConfigWithOverrides("../../arena.example.yaml", map[string]interface{}{"games": 2})
	if err != nil {
		t.Fatalf("LoadConfigWithOverrides() error = %v", err)
	}
	if config.Match.Games != 2 || config.Match.Workers != 4 {
		t.Errorf("Expected file values with CLI games override, got %+v", config.Match)
	}
}

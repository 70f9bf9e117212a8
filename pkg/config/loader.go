package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/picogrid/robot-arena/pkg/logger"
)

// DirName is the per-user configuration directory under $HOME
const DirName = ".arena-sim"

// DefaultPath returns $HOME/.arena-sim/config.yaml
func DefaultPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(homeDir, DirName, "config.yaml"), nil
}

// LoadConfig loads configuration from a YAML file. Fields the file leaves
// out keep their default value.
func LoadConfig(path string) (*Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, fmt.Errorf("config file not found: %s", path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	config := GetDefaultConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("error parsing config file: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

// LoadConfigOrDefault loads config from path, then from the usual locations,
// then falls back to the defaults. Environment overrides are always applied.
func LoadConfigOrDefault(path string) (*Config, error) {
	var config *Config
	var err error

	if path != "" {
		config, err = LoadConfig(path)
		if err != nil {
			logger.Warnf("Could not load config from %s: %v", path, err)
			config = nil
		}
	}

	if config == nil {
		defaultPaths := []string{
			"arena.yaml",
			"config.yaml",
		}
		if home, err := DefaultPath(); err == nil {
			defaultPaths = append(defaultPaths, home)
		}

		for _, p := range defaultPaths {
			if _, err := os.Stat(p); err == nil {
				config, err = LoadConfig(p)
				if err == nil {
					logger.Debugf("Loaded config from: %s", p)
					break
				}
				logger.Warnf("Ignoring %s: %v", p, err)
			}
		}
	}

	if config == nil {
		logger.Debug("Using default configuration")
		config = GetDefaultConfig()
	}

	MergeWithEnvironment(config)

	return config, nil
}

// LoadConfigWithOverrides loads config and applies both environment and CLI
// overrides
func LoadConfigWithOverrides(path string, cliOverrides map[string]interface{}) (*Config, error) {
	config, err := LoadConfigOrDefault(path)
	if err != nil {
		return nil, err
	}

	if cliOverrides != nil {
		MergeWithCLIOverrides(config, cliOverrides)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed after overrides: %w", err)
	}

	return config, nil
}

// SaveConfig saves configuration to a YAML file
func SaveConfig(config *Config, path string) error {
	if err := config.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("error marshaling config: %w", err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("error creating directory: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("error writing config file: %w", err)
	}

	return nil
}

// MergeWithCLIOverrides applies command-line overrides. Values of the wrong
// type or out of range are ignored.
func MergeWithCLIOverrides(config *Config, overrides map[string]interface{}) {
	for key, value := range overrides {
		switch key {
		case "games":
			if n, ok := value.(int); ok && n > 0 {
				config.Match.Games = n
			}
		case "rounds":
			if n, ok := value.(int); ok && n > 0 {
				config.Match.Rounds = n
			}
		case "seed":
			switch v := value.(type) {
			case int:
				config.Match.Seed = int64(v)
			case int64:
				config.Match.Seed = v
			}
		case "workers":
			if n, ok := value.(int); ok && n > 0 {
				config.Match.Workers = n
			}
		case "respond_timeout":
			if d, ok := value.(time.Duration); ok && d > 0 {
				config.Physics.RespondTimeout = d
			}
		case "initialize_timeout":
			if d, ok := value.(time.Duration); ok && d > 0 {
				config.Physics.InitializeTimeout = d
			}
		case "max_scan_half_angle":
			if v, ok := value.(float64); ok && v >= 0 && v <= 180 {
				config.Physics.MaxScanHalfAngle = v
			}
		case "log_level":
			if level, ok := value.(string); ok && isValidLevel(level) {
				config.Logging.Level = strings.ToLower(level)
			}
		case "no_color":
			if v, ok := value.(bool); ok {
				config.Logging.NoColor = v
			}
		case "show_events":
			if v, ok := value.(bool); ok {
				config.Logging.ShowEvents = v
			}
		case "replay_path":
			if p, ok := value.(string); ok {
				config.Logging.ReplayPath = p
			}
		case "result_path":
			if p, ok := value.(string); ok {
				config.Logging.ResultPath = p
			}
		}
	}
}

// MergeWithEnvironment applies ARENA_* environment variables. Unparseable
// values are ignored.
func MergeWithEnvironment(config *Config) {
	// Match budgets
	if v := os.Getenv("ARENA_GAMES"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			config.Match.Games = n
		}
	}

	if v := os.Getenv("ARENA_ROUNDS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			config.Match.Rounds = n
		}
	}

	if v := os.Getenv("ARENA_SEED"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			config.Match.Seed = n
		}
	}

	if v := os.Getenv("ARENA_WORKERS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			config.Match.Workers = n
		}
	}

	// Physics
	if v := os.Getenv("ARENA_BOARD_SIZE"); v != "" {
		if size, err := strconv.ParseFloat(v, 64); err == nil && size > 0 {
			config.Physics.BoardSize = size
		}
	}

	if v := os.Getenv("ARENA_FPS"); v != "" {
		if fps, err := strconv.Atoi(v); err == nil && fps > 0 {
			config.Physics.FPS = fps
		}
	}

	if v := os.Getenv("ARENA_CANNON_COOLDOWN"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			config.Physics.CannonCooldown = n
		}
	}

	if v := os.Getenv("ARENA_MAX_SCAN_HALF_ANGLE"); v != "" {
		if deg, err := strconv.ParseFloat(v, 64); err == nil && deg >= 0 && deg <= 180 {
			config.Physics.MaxScanHalfAngle = deg
		}
	}

	if v := os.Getenv("ARENA_RESPOND_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			config.Physics.RespondTimeout = d
		}
	}

	if v := os.Getenv("ARENA_INITIALIZE_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			config.Physics.InitializeTimeout = d
		}
	}

	// Logging
	if v := os.Getenv("ARENA_LOG_LEVEL"); v != "" && isValidLevel(v) {
		config.Logging.Level = strings.ToLower(v)
	}

	if v := os.Getenv("ARENA_NO_COLOR"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			config.Logging.NoColor = b
		}
	}

	if v := os.Getenv("ARENA_REPLAY_PATH"); v != "" {
		config.Logging.ReplayPath = v
	}

	if v := os.Getenv("ARENA_RESULT_PATH"); v != "" {
		config.Logging.ResultPath = v
	}
}

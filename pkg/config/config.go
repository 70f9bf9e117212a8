// Package config loads the arena configuration: physics, match budgets and
// logging, from YAML with environment and command-line overrides.
package config

import (
	"fmt"
	"strings"

	"github.com/picogrid/robot-arena/pkg/arena"
)

// Config is the complete arena configuration
type Config struct {
	Physics arena.Physics `yaml:"physics"`
	Match   MatchConfig   `yaml:"match"`
	Logging LoggingConfig `yaml:"logging"`
}

// MatchConfig holds the default match budgets
type MatchConfig struct {
	Games   int   `yaml:"games"`
	Rounds  int   `yaml:"rounds"`
	Seed    int64 `yaml:"seed"`    // 0 picks a seed from the clock
	Workers int   `yaml:"workers"` // 1 runs games sequentially
}

// LoggingConfig controls console output and result files
type LoggingConfig struct {
	Level      string `yaml:"level"`
	NoColor    bool   `yaml:"no_color"`
	ShowEvents bool   `yaml:"show_events"`
	ReplayPath string `yaml:"replay_path,omitempty"`
	ResultPath string `yaml:"result_path,omitempty"`
}

var validLevels = []string{"debug", "info", "warn", "error"}

// GetDefaultConfig returns the reference configuration
func GetDefaultConfig() *Config {
	return &Config{
		Physics: arena.DefaultPhysics(),
		Match: MatchConfig{
			Games:   10,
			Rounds:  1000,
			Workers: 1,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Validate checks the configuration for values a match cannot run with
func (c *Config) Validate() error {
	if err := c.Physics.Validate(); err != nil {
		return fmt.Errorf("physics: %w", err)
	}

	if c.Match.Games <= 0 {
		return fmt.Errorf("match.games must be positive")
	}
	if c.Match.Rounds <= 0 {
		return fmt.Errorf("match.rounds must be positive")
	}
	if c.Match.Workers < 1 {
		return fmt.Errorf("match.workers must be at least 1")
	}

	if !isValidLevel(c.Logging.Level) {
		return fmt.Errorf("logging.level must be one of %s", strings.Join(validLevels, ", "))
	}

	return nil
}

func isValidLevel(level string) bool {
	for _, valid := range validLevels {
		if strings.ToLower(level) == valid {
			return true
		}
	}
	return false
}

// String returns a human-readable summary of the configuration
func (c *Config) String() string {
	var sb strings.Builder

	sb.WriteString("Arena Configuration:\n")
	sb.WriteString(fmt.Sprintf("  Board: %.0f x %.0f at %d FPS\n", c.Physics.BoardSize, c.Physics.BoardSize, c.Physics.FPS))
	sb.WriteString(fmt.Sprintf("  Robots: diameter %.0f, max damage %d, collision damage %d\n",
		c.Physics.RobotDiameter, c.Physics.MaxDamage, c.Physics.CollisionDamage))
	sb.WriteString(fmt.Sprintf("  Cannon: cooldown %d ticks, range %.0f, missile step %.0f\n",
		c.Physics.CannonCooldown, c.Physics.MaxFireRange, c.Physics.MissileStep))
	sb.WriteString(fmt.Sprintf("  Scanner: half-angle up to %.0f°\n", c.Physics.MaxScanHalfAngle))
	sb.WriteString(fmt.Sprintf("  Budgets: respond %v, initialize %v\n",
		c.Physics.RespondTimeout, c.Physics.InitializeTimeout))
	sb.WriteString(fmt.Sprintf("  Match: %d games x %d rounds, %d workers\n",
		c.Match.Games, c.Match.Rounds, c.Match.Workers))
	if c.Match.Seed != 0 {
		sb.WriteString(fmt.Sprintf("  Seed: %d\n", c.Match.Seed))
	}
	sb.WriteString(fmt.Sprintf("  Log level: %s\n", c.Logging.Level))
	if c.Logging.ReplayPath != "" {
		sb.WriteString(fmt.Sprintf("  Replay: %s\n", c.Logging.ReplayPath))
	}
	if c.Logging.ResultPath != "" {
		sb.WriteString(fmt.Sprintf("  Results: %s\n", c.Logging.ResultPath))
	}

	return sb.String()
}

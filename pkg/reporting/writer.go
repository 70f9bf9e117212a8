package reporting

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/picogrid/robot-arena/pkg/arena"
	"github.com/picogrid/robot-arena/pkg/executor"
)

// Replay is the on-disk trace of one simulated game
type Replay struct {
	MatchID     string        `json:"match_id" yaml:"match_id"`
	GeneratedAt time.Time     `json:"generated_at" yaml:"generated_at"`
	Competitors []string      `json:"competitors" yaml:"competitors"` // indexed by board id
	Physics     arena.Physics `json:"physics" yaml:"physics"`
	Rounds      []arena.Round `json:"rounds" yaml:"rounds"`
}

// Result is the on-disk record of a finished match
type Result struct {
	MatchID     string                 `json:"match_id" yaml:"match_id"`
	Scenario    string                 `json:"scenario,omitempty" yaml:"scenario,omitempty"`
	GeneratedAt time.Time              `json:"generated_at" yaml:"generated_at"`
	Duration    string                 `json:"duration" yaml:"duration"`
	Seed        int64                  `json:"seed" yaml:"seed"`
	Ranking     []string               `json:"ranking" yaml:"ranking"`
	Stats       executor.Stats         `json:"stats" yaml:"stats"`
	Games       []executor.GameResult  `json:"games" yaml:"games"`
	Events      map[string]int         `json:"events,omitempty" yaml:"events,omitempty"`
	Metadata    map[string]interface{} `json:"metadata,omitempty" yaml:"metadata,omitempty"`
}

// NewResult builds a result record from a finished match
func NewResult(matchID string, seed int64, res *executor.MatchResult) *Result {
	return &Result{
		MatchID:     matchID,
		GeneratedAt: time.Now(),
		Duration:    res.Duration.Round(time.Millisecond).String(),
		Seed:        seed,
		Ranking:     res.Stats.Ranking(),
		Stats:       res.Stats,
		Games:       res.Games,
	}
}

type format int

const (
	formatJSON format = iota
	formatYAML
)

func formatFor(path string) (format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return formatJSON, nil
	case ".yaml", ".yml":
		return formatYAML, nil
	default:
		return 0, fmt.Errorf("unsupported file extension %q (use .json, .yaml or .yml)", filepath.Ext(path))
	}
}

func writeFile(path string, v interface{}) error {
	f, err := formatFor(path)
	if err != nil {
		return err
	}

	var data []byte
	switch f {
	case formatJSON:
		data, err = json.MarshalIndent(v, "", "  ")
	case formatYAML:
		data, err = yaml.Marshal(v)
	}
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", path, err)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

func readFile(path string, v interface{}) error {
	f, err := formatFor(path)
	if err != nil {
		return err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}

	switch f {
	case formatJSON:
		err = json.Unmarshal(data, v)
	case formatYAML:
		err = yaml.Unmarshal(data, v)
	}
	if err != nil {
		return fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return nil
}

// WriteReplay saves a replay as JSON or YAML depending on the extension
func WriteReplay(path string, replay *Replay) error {
	return writeFile(path, replay)
}

// ReadReplay loads a replay written by WriteReplay
func ReadReplay(path string) (*Replay, error) {
	var replay Replay
	if err := readFile(path, &replay); err != nil {
		return nil, err
	}
	return &replay, nil
}

// WriteResult saves a match result as JSON or YAML depending on the
// extension
func WriteResult(path string, result *Result) error {
	return writeFile(path, result)
}

// ReadResult loads a result written by WriteResult
func ReadResult(path string) (*Result, error) {
	var result Result
	if err := readFile(path, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

package roster

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/picogrid/robot-arena/pkg/arena"
	"github.com/picogrid/robot-arena/pkg/geometry"
)

// Scenario is a named match setup loaded from YAML
type Scenario struct {
	Name        string          `yaml:"name"`
	Description string          `yaml:"description"`
	Version     string          `yaml:"version"`
	Competitors []Entrant       `yaml:"competitors"`
	Parameters  []Parameter     `yaml:"parameters"`
	Positions   []geometry.Vec2 `yaml:"positions,omitempty"`

	// Physics holds overrides decoded on top of the caller's base physics
	Physics yaml.Node `yaml:"physics,omitempty"`
}

// Entrant is one competitor slot in a scenario. ID defaults to Program.
type Entrant struct {
	ID      string `yaml:"id,omitempty"`
	Program string `yaml:"program"`
}

// Parameter defines a configurable match parameter
type Parameter struct {
	Name        string      `yaml:"name"`
	Type        string      `yaml:"type"` // integer, float, string, duration, boolean
	Description string      `yaml:"description"`
	Default     interface{} `yaml:"default"`
	Required    bool        `yaml:"required"`
	Min         interface{} `yaml:"min,omitempty"`
	Max         interface{} `yaml:"max,omitempty"`
	Options     []string    `yaml:"options,omitempty"` // For string enums
}

// LoadScenario reads and validates a scenario file
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario: %w", err)
	}

	var s Scenario
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("failed to parse scenario: %w", err)
	}
	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("invalid scenario %s: %w", path, err)
	}
	return &s, nil
}

// Validate checks the scenario for structural errors. Program names are
// only checked when the competitors are resolved against a registry.
func (s *Scenario) Validate() error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if len(s.Competitors) == 0 {
		return fmt.Errorf("at least one competitor is required")
	}
	if len(s.Positions) > 0 && len(s.Positions) != len(s.Competitors) {
		return fmt.Errorf("got %d positions for %d competitors", len(s.Positions), len(s.Competitors))
	}

	ids := make(map[string]bool, len(s.Competitors))
	for i, e := range s.Competitors {
		if e.Program == "" {
			return fmt.Errorf("competitor %d has no program", i)
		}
		id := e.id()
		if ids[id] {
			return fmt.Errorf("duplicate competitor id %s", id)
		}
		ids[id] = true
	}

	for _, p := range s.Parameters {
		switch p.Type {
		case "integer", "float", "string", "duration", "boolean":
		default:
			return fmt.Errorf("parameter %s: unsupported type %q", p.Name, p.Type)
		}
	}
	return nil
}

func (e Entrant) id() string {
	if e.ID != "" {
		return e.ID
	}
	return e.Program
}

// Resolve builds the competitor list against reg
func (s *Scenario) Resolve(reg *Registry) ([]arena.Competitor, error) {
	out := make([]arena.Competitor, 0, len(s.Competitors))
	for _, e := range s.Competitors {
		factory, err := reg.Get(e.Program)
		if err != nil {
			return nil, fmt.Errorf("scenario %s: %w", s.Name, err)
		}
		out = append(out, arena.Competitor{ID: e.id(), Factory: factory})
	}
	return out, nil
}

// ApplyPhysics decodes the scenario's physics overrides on top of base.
// Fields the scenario does not mention keep their base value.
func (s *Scenario) ApplyPhysics(base arena.Physics) (arena.Physics, error) {
	if s.Physics.Kind == 0 {
		return base, nil
	}
	out := base
	if err := s.Physics.Decode(&out); err != nil {
		return base, fmt.Errorf("scenario %s physics: %w", s.Name, err)
	}
	if err := out.Validate(); err != nil {
		return base, fmt.Errorf("scenario %s physics: %w", s.Name, err)
	}
	return out, nil
}

// BoardOptions returns the board options the scenario pins, if any
func (s *Scenario) BoardOptions() []arena.Option {
	if len(s.Positions) == 0 {
		return nil
	}
	return []arena.Option{arena.WithPositions(s.Positions...)}
}

// Defaults returns the default value of every parameter that has one
func (s *Scenario) Defaults() map[string]interface{} {
	out := make(map[string]interface{}, len(s.Parameters))
	for _, p := range s.Parameters {
		if p.Default != nil {
			out[p.Name] = p.Default
		}
	}
	return out
}

// IntParam reads an integer parameter from resolved values, falling back to
// def when it is missing
func IntParam(values map[string]interface{}, name string, def int) (int, error) {
	v, ok := values[name]
	if !ok || v == nil {
		return def, nil
	}
	switch val := v.(type) {
	case int:
		return val, nil
	case int64:
		return int(val), nil
	case float64:
		return int(val), nil
	case string:
		n, err := strconv.Atoi(val)
		if err != nil {
			return 0, fmt.Errorf("parameter %s: %w", name, err)
		}
		return n, nil
	default:
		return 0, fmt.Errorf("parameter %s: unexpected type %T", name, v)
	}
}

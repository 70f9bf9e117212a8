// Package roster maps program names to competitor factories and describes
// scenarios: which programs fight and with what match budgets.
package roster

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/picogrid/robot-arena/pkg/arena"
)

// ErrUnknownProgram is returned when a name is not registered
var ErrUnknownProgram = errors.New("roster: unknown program")

// Entry is one registered program
type Entry struct {
	Name        string
	Description string
	Factory     arena.ProgramFactory
}

// Registry manages available competitor programs
type Registry struct {
	mu       sync.RWMutex
	programs map[string]Entry
}

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	return &Registry{
		programs: make(map[string]Entry),
	}
}

// Register adds a program under name
func (r *Registry) Register(name, description string, factory arena.ProgramFactory) error {
	if name == "" {
		return fmt.Errorf("program name cannot be empty")
	}
	if factory == nil {
		return fmt.Errorf("program %s has no factory", name)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.programs[name]; exists {
		return fmt.Errorf("program %s already registered", name)
	}

	r.programs[name] = Entry{Name: name, Description: description, Factory: factory}
	return nil
}

// Get returns the factory registered under name
func (r *Registry) Get(name string) (arena.ProgramFactory, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entry, exists := r.programs[name]
	if !exists {
		return nil, fmt.Errorf("%w: %s", ErrUnknownProgram, name)
	}
	return entry.Factory, nil
}

// List returns all registered programs sorted by name
func (r *Registry) List() []Entry {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entries := make([]Entry, 0, len(r.programs))
	for _, e := range r.programs {
		entries = append(entries, e)
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name < entries[j].Name })
	return entries
}

// Names returns the registered program names, sorted
func (r *Registry) Names() []string {
	entries := r.List()
	names := make([]string, len(entries))
	for i, e := range entries {
		names[i] = e.Name
	}
	return names
}

// Competitors builds one competitor per program name, using the name as the
// competitor id. A name listed twice gets a numeric suffix from its second
// appearance on.
func (r *Registry) Competitors(names ...string) ([]arena.Competitor, error) {
	seen := make(map[string]int, len(names))
	out := make([]arena.Competitor, 0, len(names))
	for _, name := range names {
		factory, err := r.Get(name)
		if err != nil {
			return nil, err
		}
		seen[name]++
		id := name
		if n := seen[name]; n > 1 {
			id = fmt.Sprintf("%s-%d", name, n)
		}
		out = append(out, arena.Competitor{ID: id, Factory: factory})
	}
	return out, nil
}

// DefaultRegistry is the global program registry
var DefaultRegistry = NewRegistry()

package utils

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/picogrid/robot-arena/pkg/roster"
)

func TestParseEnvValue(t *testing.T) {
	tests := []struct {
		name    string
		value   string
		typ     string
		want    interface{}
		wantErr bool
	}{
		{name: "integer", value: "42", typ: "integer", want: 42},
		{name: "bad integer", value: "forty", typ: "integer", wantErr: true},
		{name: "float", value: "2.5", typ: "float", want: 2.5},
		{name: "string", value: "sniper", typ: "string", want: "sniper"},
		{name: "boolean", value: "true", typ: "boolean", want: true},
		{name: "duration", value: "250ms", typ: "duration", want: 250 * time.Millisecond},
		{name: "bad duration", value: "soon", typ: "duration", wantErr: true},
		{name: "unknown type", value: "x", typ: "vector", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseEnvValue(tt.value, roster.Parameter{Name: "p", Type: tt.typ})
			if (err != nil) != tt.wantErr {
				t.Fatalf("parseEnvValue() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("parseEnvValue() = %v (%T), want %v (%T)", got, got, tt.want, tt.want)
			}
		})
	}
}

func TestPromptForParametersSkipped(t *testing.T) {
	t.Setenv("ARENA_SKIP_PROMPTS", "true")
	t.Setenv("ARENA_GAMES", "12")

	params := []roster.Parameter{
		{Name: "games", Type: "integer", Default: 5},
		{Name: "respond-timeout", Type: "duration", Default: "100ms"},
		{Name: "label", Type: "string"},
	}
	t.Setenv("ARENA_RESPOND_TIMEOUT", "300ms")

	values, err := PromptForParameters(params)
	if err != nil {
		t.Fatalf("PromptForParameters() error = %v", err)
	}
	if values["games"] != 12 {
		t.Errorf("games = %v, want 12 from the environment", values["games"])
	}
	if values["respond-timeout"] != 300*time.Millisecond {
		t.Errorf("respond-timeout = %v, want 300ms", values["respond-timeout"])
	}
	if _, ok := values["label"]; ok {
		t.Errorf("optional parameter without a value was set: %v", values["label"])
	}
}

func TestPromptForParametersRequiredMissing(t *testing.T) {
	t.Setenv("ARENA_SKIP_PROMPTS", "true")

	_, err := PromptForParameters([]roster.Parameter{{Name: "seed", Type: "integer", Required: true}})
	if err == nil {
		t.Fatal("expected error for a required parameter with no value")
	}
}

func TestIsInteractiveHonoursSkip(t *testing.T) {
	t.Setenv("ARENA_SKIP_PROMPTS", "true")
	if IsInteractive() {
		t.Error("IsInteractive() = true with prompts disabled")
	}
}

func TestPromptForProgramsNeedsTwo(t *testing.T) {
	reg := roster.NewRegistry()
	if _, err := PromptForPrograms(reg); err == nil {
		t.Error("expected error for an empty registry")
	}
}

func TestDiscoverScenariosIn(t *testing.T) {
	dir := t.TempDir()
	files := map[string]string{
		"b.yaml":      "name: Brawl\ncompetitors:\n  - program: rabbit\n  - program: sniper\n",
		"a.yml":       "name: ambush\ncompetitors:\n  - program: charger\n",
		"broken.yaml": "name: \ncompetitors: []\n",
		"notes.txt":   "not a scenario",
	}
	if err := os.MkdirAll(filepath.Join(dir, "nested"), 0755); err != nil {
		t.Fatal(err)
	}
	files[filepath.Join("nested", "c.yaml")] = "name: Corner\ncompetitors:\n  - program: idle\n"
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0644); err != nil {
			t.Fatal(err)
		}
	}

	scenarios, err := DiscoverScenariosIn(dir)
	if err != nil {
		t.Fatalf("DiscoverScenariosIn() error = %v", err)
	}

	var names []string
	for _, s := range scenarios {
		names = append(names, s.Scenario.Name)
	}
	want := []string{"Brawl", "Corner", "ambush"}
	if len(names) != len(want) {
		t.Fatalf("names = %v, want %v", names, want)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Errorf("names = %v, want %v", names, want)
			break
		}
	}

	found, err := FindScenario(scenarios, "BRAWL")
	if err != nil {
		t.Fatalf("FindScenario() error = %v", err)
	}
	if filepath.Base(found.Path) != "b.yaml" {
		t.Errorf("found path = %s, want b.yaml", found.Path)
	}
	if _, err := FindScenario(scenarios, "missing"); err == nil {
		t.Error("expected error for an unknown scenario")
	}
}

func TestDiscoverScenariosInMissingDir(t *testing.T) {
	scenarios, err := DiscoverScenariosIn(filepath.Join(t.TempDir(), "absent"))
	if err != nil || scenarios != nil {
		t.Errorf("DiscoverScenariosIn() = %v, %v; want nil, nil", scenarios, err)
	}
}

func TestShippedScenariosLoad(t *testing.T) {
	scenarios, err := DiscoverScenarios()
	if err != nil {
		t.Fatalf("DiscoverScenarios() error = %v", err)
	}
	if len(scenarios) == 0 {
		t.Fatal("no scenarios found in the project")
	}
}

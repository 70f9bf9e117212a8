package utils

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/picogrid/robot-arena/pkg/logger"
	"github.com/picogrid/robot-arena/pkg/roster"
)

// ScenarioInfo contains information about a discovered scenario
type ScenarioInfo struct {
	Path     string
	Scenario *roster.Scenario
}

// DiscoverScenarios finds every scenario file under the project's
// scenarios directory
func DiscoverScenarios() ([]ScenarioInfo, error) {
	rootDir, err := findProjectRoot()
	if err != nil {
		return nil, err
	}
	return DiscoverScenariosIn(filepath.Join(rootDir, "scenarios"))
}

// DiscoverScenariosIn walks dir for .yaml and .yml files and loads each as
// a scenario. Files that fail to load are skipped with a warning.
func DiscoverScenariosIn(dir string) ([]ScenarioInfo, error) {
	var scenarios []ScenarioInfo

	if _, err := os.Stat(dir); os.IsNotExist(err) {
		return nil, nil
	}

	err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}

		ext := strings.ToLower(filepath.Ext(path))
		if ext != ".yaml" && ext != ".yml" {
			return nil
		}

		s, err := roster.LoadScenario(path)
		if err != nil {
			logger.Warnf("Skipping %s: %v", path, err)
			return nil
		}
		scenarios = append(scenarios, ScenarioInfo{Path: path, Scenario: s})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan for scenarios: %w", err)
	}

	sort.Slice(scenarios, func(i, j int) bool {
		return scenarios[i].Scenario.Name < scenarios[j].Scenario.Name
	})
	return scenarios, nil
}

// FindScenario returns the discovered scenario whose name matches, ignoring
// case
func FindScenario(scenarios []ScenarioInfo, name string) (*ScenarioInfo, error) {
	for i := range scenarios {
		if strings.EqualFold(scenarios[i].Scenario.Name, name) {
			return &scenarios[i], nil
		}
	}
	return nil, fmt.Errorf("scenario %q not found", name)
}

// findProjectRoot finds the project root by looking for go.mod
func findProjectRoot() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}

	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("could not find project root (no go.mod found)")
		}
		dir = parent
	}
}

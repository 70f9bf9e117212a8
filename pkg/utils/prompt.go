package utils

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/AlecAivazis/survey/v2"
	"golang.org/x/term"

	"github.com/picogrid/robot-arena/pkg/roster"
)

// IsInteractive reports whether stdin and stdout are both terminals and
// prompts have not been disabled with ARENA_SKIP_PROMPTS
func IsInteractive() bool {
	if skipPrompts() {
		return false
	}
	return term.IsTerminal(int(os.Stdin.Fd())) && term.IsTerminal(int(os.Stdout.Fd()))
}

func skipPrompts() bool {
	return os.Getenv("ARENA_SKIP_PROMPTS") == "true"
}

// envKey maps a parameter name to its ARENA_ environment variable
func envKey(name string) string {
	return "ARENA_" + strings.ToUpper(strings.ReplaceAll(name, "-", "_"))
}

// PromptForScenario asks which discovered scenario to run
func PromptForScenario(scenarios []ScenarioInfo) (*ScenarioInfo, error) {
	if len(scenarios) == 0 {
		return nil, fmt.Errorf("no scenarios available")
	}

	options := make([]string, len(scenarios))
	for i, s := range scenarios {
		options[i] = s.Scenario.Name
	}

	var selected string
	prompt := &survey.Select{
		Message: "Select a scenario:",
		Options: options,
		Description: func(value string, index int) string {
			return scenarios[index].Scenario.Description
		},
	}
	if err := survey.AskOne(prompt, &selected); err != nil {
		return nil, err
	}
	return FindScenario(scenarios, selected)
}

// PromptForPrograms asks which registered programs should compete. At
// least two must be picked.
func PromptForPrograms(reg *roster.Registry) ([]string, error) {
	entries := reg.List()
	if len(entries) < 2 {
		return nil, fmt.Errorf("at least two registered programs are needed, found %d", len(entries))
	}

	options := make([]string, len(entries))
	for i, e := range entries {
		options[i] = e.Name
	}

	var selected []string
	prompt := &survey.MultiSelect{
		Message: "Select competitors:",
		Options: options,
		Description: func(value string, index int) string {
			return entries[index].Description
		},
	}
	if err := survey.AskOne(prompt, &selected, survey.WithValidator(survey.MinItems(2))); err != nil {
		return nil, err
	}
	return selected, nil
}

// PromptForParameters prompts the user for match parameters. With
// ARENA_SKIP_PROMPTS=true values come from ARENA_<NAME> or the defaults.
func PromptForParameters(params []roster.Parameter) (map[string]interface{}, error) {
	result := make(map[string]interface{})

	for _, param := range params {
		value, err := promptForParameter(param)
		if err != nil {
			return nil, fmt.Errorf("failed to get %s: %w", param.Name, err)
		}
		if value != nil {
			result[param.Name] = value
		}
	}

	return result, nil
}

// promptForParameter resolves one parameter. With prompts skipped the value
// comes from ARENA_<NAME> or the default; otherwise the environment value
// only pre-fills the prompt.
func promptForParameter(param roster.Parameter) (interface{}, error) {
	envValue := os.Getenv(envKey(param.Name))

	if skipPrompts() {
		switch {
		case envValue != "":
			return parseEnvValue(envValue, param)
		case param.Default != nil:
			return param.Default, nil
		case param.Required:
			return nil, fmt.Errorf("required parameter %s not provided and no default available", param.Name)
		}
		return nil, nil
	}

	if envValue != "" {
		if parsed, err := parseEnvValue(envValue, param); err == nil {
			param.Default = parsed
		}
	}

	switch param.Type {
	case "integer":
		answer, err := ask(param, "", rangeValidator(param, func(s string) (float64, error) {
			n, err := strconv.Atoi(s)
			return float64(n), err
		}))
		if err != nil {
			return nil, err
		}
		return strconv.Atoi(answer)
	case "float":
		answer, err := ask(param, "", rangeValidator(param, func(s string) (float64, error) {
			return strconv.ParseFloat(s, 64)
		}))
		if err != nil {
			return nil, err
		}
		return strconv.ParseFloat(answer, 64)
	case "duration":
		answer, err := ask(param, " (e.g. 100ms, 2s)", func(val interface{}) error {
			if _, err := time.ParseDuration(val.(string)); err != nil {
				return fmt.Errorf("invalid duration, use forms like 100ms or 2s")
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
		return time.ParseDuration(answer)
	case "boolean":
		var result bool
		prompt := &survey.Confirm{Message: param.Description, Default: defaultBool(param.Default)}
		if err := survey.AskOne(prompt, &result); err != nil {
			return nil, err
		}
		return result, nil
	case "string":
		if len(param.Options) > 0 {
			var result string
			prompt := &survey.Select{
				Message: param.Description,
				Options: param.Options,
				Default: defaultString(param.Default),
			}
			if err := survey.AskOne(prompt, &result); err != nil {
				return nil, err
			}
			return result, nil
		}
		var validators []survey.Validator
		if param.Required {
			validators = append(validators, survey.Required)
		}
		return ask(param, "", survey.ComposeValidators(validators...))
	default:
		return nil, fmt.Errorf("unsupported parameter type: %s", param.Type)
	}
}

// ask shows a text prompt pre-filled with the parameter default
func ask(param roster.Parameter, hint string, validator survey.Validator) (string, error) {
	prompt := &survey.Input{
		Message: param.Description + hint,
		Default: defaultString(param.Default),
	}
	var answer string
	if err := survey.AskOne(prompt, &answer, survey.WithValidator(validator)); err != nil {
		return "", err
	}
	return answer, nil
}

// rangeValidator parses an answer and checks it against the parameter's
// min and max
func rangeValidator(param roster.Parameter, parse func(string) (float64, error)) survey.Validator {
	return func(val interface{}) error {
		v, err := parse(val.(string))
		if err != nil {
			return fmt.Errorf("invalid %s: %v", param.Type, err)
		}
		if param.Min != nil && v < toFloat64(param.Min) {
			return fmt.Errorf("value must be at least %v", param.Min)
		}
		if param.Max != nil && v > toFloat64(param.Max) {
			return fmt.Errorf("value must be at most %v", param.Max)
		}
		return nil
	}
}

// parseEnvValue parses an environment variable value according to the parameter type
func parseEnvValue(value string, param roster.Parameter) (interface{}, error) {
	switch param.Type {
	case "integer":
		return strconv.Atoi(value)
	case "float":
		return strconv.ParseFloat(value, 64)
	case "string":
		return value, nil
	case "boolean":
		return strconv.ParseBool(value)
	case "duration":
		return time.ParseDuration(value)
	default:
		return nil, fmt.Errorf("unsupported parameter type: %s", param.Type)
	}
}

func defaultString(v interface{}) string {
	switch val := v.(type) {
	case nil:
		return ""
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	default:
		return fmt.Sprintf("%v", val)
	}
}

func defaultBool(v interface{}) bool {
	switch val := v.(type) {
	case bool:
		return val
	case string:
		b, _ := strconv.ParseBool(val)
		return b
	}
	return false
}

func toFloat64(v interface{}) float64 {
	switch val := v.(type) {
	case float64:
		return val
	case int:
		return float64(val)
	case string:
		f, _ := strconv.ParseFloat(val, 64)
		return f
	default:
		return 0
	}
}

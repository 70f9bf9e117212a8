package cmd

import (
	"strings"
	"testing"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// newLoggingViper mirrors the root command's logging bindings on top of a
// home config that sets both logging keys.
func newLoggingViper(t *testing.T) (*viper.Viper, *pflag.FlagSet) {
	t.Helper()

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("log-level", "info", "")
	flags.Bool("no-color", false, "")

	v := viper.New()
	_ = v.BindPFlag("logging.level", flags.Lookup("log-level"))
	_ = v.BindPFlag("logging.no_color", flags.Lookup("no-color"))
	_ = v.BindEnv("logging.level", "ARENA_LOG_LEVEL")
	_ = v.BindEnv("logging.no_color", "ARENA_NO_COLOR")

	v.SetConfigType("yaml")
	if err := v.ReadConfig(strings.NewReader("logging:\n  level: error\n  no_color: true\n")); err != nil {
		t.Fatalf("ReadConfig() error = %v", err)
	}
	return v, flags
}

func TestLoggingOverridesIgnoreViperConfigFile(t *testing.T) {
	v, flags := newLoggingViper(t)

	overrides := map[string]interface{}{}
	loggingOverrides(v, flags, overrides)

	if len(overrides) != 0 {
		t.Errorf("overrides = %v, want none from the config file alone", overrides)
	}
}

func TestLoggingOverridesFromEnvironment(t *testing.T) {
	t.Setenv("ARENA_LOG_LEVEL", "warn")
	t.Setenv("ARENA_NO_COLOR", "false")
	v, flags := newLoggingViper(t)

	overrides := map[string]interface{}{}
	loggingOverrides(v, flags, overrides)

	if overrides["log_level"] != "warn" {
		t.Errorf("log_level = %v, want warn", overrides["log_level"])
	}
	if overrides["no_color"] != false {
		t.Errorf("no_color = %v, want false", overrides["no_color"])
	}
}

func TestLoggingOverridesFromFlags(t *testing.T) {
	v, flags := newLoggingViper(t)
	if err := flags.Set("log-level", "debug"); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	overrides := map[string]interface{}{}
	loggingOverrides(v, flags, overrides)

	if overrides["log_level"] != "debug" {
		t.Errorf("log_level = %v, want debug", overrides["log_level"])
	}
	if _, ok := overrides["no_color"]; ok {
		t.Errorf("no_color set without its flag or env var")
	}
}

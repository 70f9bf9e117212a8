package cmd

import (
	"context"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/picogrid/robot-arena/pkg/config"
	"github.com/picogrid/robot-arena/pkg/logger"
	"github.com/picogrid/robot-arena/pkg/telemetry"

	// Register the built-in bots
	_ "github.com/picogrid/robot-arena/cmd/bots"
)

var (
	cfgFile  string
	logLevel string
	noColor  bool
	metrics  bool

	metricsProvider *telemetry.Provider
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "arena-sim",
	Short: "Robot arena simulator",
	Long: `arena-sim runs matches between robot programs in a square arena.
Robots drive, scan and fire missiles; a match is a series of games and the
robot that outlasts the others most often ranks first.`,
	SilenceUsage:      true,
	PersistentPreRunE: startMetrics,
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./arena.yaml or $HOME/.arena-sim/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")
	rootCmd.PersistentFlags().BoolVar(&metrics, "metrics", false, "print game metrics to stderr when the command exits")

	_ = viper.BindPFlag("logging.level", rootCmd.PersistentFlags().Lookup("log-level"))
	_ = viper.BindPFlag("logging.no_color", rootCmd.PersistentFlags().Lookup("no-color"))
	_ = viper.BindEnv("logging.level", "ARENA_LOG_LEVEL")
	_ = viper.BindEnv("logging.no_color", "ARENA_NO_COLOR")
	_ = viper.BindPFlag("metrics.enabled", rootCmd.PersistentFlags().Lookup("metrics"))
	_ = viper.BindEnv("metrics.enabled", "ARENA_METRICS")

	// Add commands
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(replayCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(configCmd)
}

// Execute runs the root command
func Execute() error {
	err := rootCmd.Execute()
	if metricsProvider != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if shutdownErr := metricsProvider.Shutdown(ctx); shutdownErr != nil {
			logger.Warnf("Failed to flush metrics: %v", shutdownErr)
		}
	}
	return err
}

func startMetrics(cmd *cobra.Command, _ []string) error {
	p, err := telemetry.New(telemetry.Config{
		Enabled:     viper.GetBool("metrics.enabled"),
		ServiceName: cmd.Root().Name(),
	})
	if err != nil {
		return err
	}
	p.Install()
	metricsProvider = p
	return nil
}

// initConfig reads in config file and ENV variables if set
func initConfig() {
	if cfgFile != "" {
		// Use config file from the flag
		viper.SetConfigFile(cfgFile)
	} else {
		// Search for config in home directory
		viper.AddConfigPath("$HOME/" + config.DirName)
		viper.SetConfigType("yaml")
		viper.SetConfigName("config")
	}

	viper.SetEnvPrefix("ARENA")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	viper.AutomaticEnv()

	// If a config file is found, read it in
	_ = viper.ReadInConfig()

	logger.SetLevel(logger.ParseLevel(viper.GetString("logging.level")))
	logger.SetNoColor(viper.GetBool("logging.no_color"))
}

// loadConfig loads the arena configuration with the command's overrides.
// Logging settings given by flag or environment win over the file.
func loadConfig(overrides map[string]interface{}) (*config.Config, error) {
	if overrides == nil {
		overrides = make(map[string]interface{})
	}
	loggingOverrides(viper.GetViper(), rootCmd.PersistentFlags(), overrides)

	cfg, err := config.LoadConfigWithOverrides(cfgFile, overrides)
	if err != nil {
		return nil, err
	}

	logger.SetLevel(logger.ParseLevel(cfg.Logging.Level))
	logger.SetNoColor(cfg.Logging.NoColor)
	return cfg, nil
}

// loggingOverrides copies the logging settings the user gave on the command
// line or in the environment. Values viper read from its own config file are
// left to the arena config.
func loggingOverrides(v *viper.Viper, flags *pflag.FlagSet, overrides map[string]interface{}) {
	if setByUser(flags, "log-level", "ARENA_LOG_LEVEL") {
		overrides["log_level"] = v.GetString("logging.level")
	}
	if setByUser(flags, "no-color", "ARENA_NO_COLOR") {
		overrides["no_color"] = v.GetBool("logging.no_color")
	}
}

func setByUser(flags *pflag.FlagSet, flag, env string) bool {
	if flags.Changed(flag) {
		return true
	}
	return os.Getenv(env) != ""
}

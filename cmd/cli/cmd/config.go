package cmd

import (
	"fmt"
	"os"

	"github.com/AlecAivazis/survey/v2"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/picogrid/robot-arena/pkg/config"
	"github.com/picogrid/robot-arena/pkg/logger"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage arena configuration",
	Long:  `Show, create and locate the arena configuration file`,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration",
	RunE:  showConfig,
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a default configuration file",
	RunE:  initConfigFile,
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the default configuration path",
	RunE:  printConfigPath,
}

func init() {
	configInitCmd.Flags().Bool("force", false, "overwrite an existing file without asking")

	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configPathCmd)
}

func showConfig(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(nil)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	fmt.Print(string(data))
	return nil
}

func initConfigFile(cmd *cobra.Command, args []string) error {
	path := cfgFile
	if path == "" {
		var err error
		if path, err = config.DefaultPath(); err != nil {
			return err
		}
	}

	force, _ := cmd.Flags().GetBool("force")
	if _, err := os.Stat(path); err == nil && !force {
		var confirm bool
		prompt := &survey.Confirm{
			Message: fmt.Sprintf("%s exists. Overwrite it?", path),
			Default: false,
		}
		if err := survey.AskOne(prompt, &confirm); err != nil {
			return err
		}
		if !confirm {
			fmt.Println("Init cancelled")
			return nil
		}
	}

	if err := config.SaveConfig(config.GetDefaultConfig(), path); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}

	logger.Successf("Configuration written to %s", path)
	return nil
}

func printConfigPath(cmd *cobra.Command, args []string) error {
	path, err := config.DefaultPath()
	if err != nil {
		return err
	}
	fmt.Println(path)
	return nil
}

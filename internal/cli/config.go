package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/monorkin/classroom-datagen/internal/config"
	"github.com/monorkin/classroom-datagen/internal/globals"
)

var forceInit bool

// configCmd represents the config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect and create settings files",
	Long:  `Commands for writing the default settings file and printing the effective settings.`,
}

// configInitCmd represents the config init command
var configInitCmd = &cobra.Command{
	Use:   "init [path]",
	Short: "Write the default settings as YAML",
	Long: `Write the default settings to path, or to the default settings location
when no path is given. Existing files are kept unless --force is set.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runConfigInit,
}

// configShowCmd represents the config show command
var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective settings",
	Long:  `Print the settings after applying the settings file and environment overrides.`,
	Args:  cobra.NoArgs,
	RunE:  runConfigShow,
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	path := config.DefaultSettingsPath()
	if len(args) == 1 {
		path = args[0]
	}

	if _, err := os.Stat(path); err == nil && !forceInit {
		return fmt.Errorf("settings file %s already exists, use --force to overwrite", path)
	}

	if err := config.DefaultSettings().SaveTo(path); err != nil {
		return fmt.Errorf("failed to write settings: %w", err)
	}

	globals.L().Debug("Wrote default settings", "path", path)
	fmt.Fprintf(cmd.OutOrStdout(), "Settings written to %s\n", path)
	return nil
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	settings, err := loadSettings()
	if err != nil {
		return err
	}

	data, err := settings.Marshal()
	if err != nil {
		return fmt.Errorf("failed to format settings: %w", err)
	}

	_, err = cmd.OutOrStdout().Write(data)
	return err
}

func init() {
	// Add config command to root
	rootCmd.AddCommand(configCmd)

	configInitCmd.Flags().BoolVar(&forceInit, "force", false, "Overwrite an existing settings file")
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configShowCmd)
}

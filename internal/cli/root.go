package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/monorkin/classroom-datagen/internal/config"
	"github.com/monorkin/classroom-datagen/internal/globals"
	"github.com/monorkin/classroom-datagen/internal/version"
)

var (
	verbose    bool
	configPath string
	rootOpts   = &generateOptions{}
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "classroom-datagen",
	Short: "Synthetic classroom sensor dataset generator",
	Long: `Generates an hourly table of simulated classroom sensor readings (temperature,
humidity, CO2, noise, light and occupancy) with a weekday class-hour pattern,
clips it to plausible ranges and writes it as CSV, XLSX, InfluxDB line protocol,
a SQLite run store or straight into InfluxDB.

Without a subcommand it behaves like "generate".`,
	Version:       version.GetVersion(),
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		globals.Initialize(verbose)
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runGenerate(cmd, rootOpts)
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	err := rootCmd.Execute()
	if err != nil {
		globals.L().Error("Command failed", "error", err)
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	}
	return err
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose (debug) logging")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Settings YAML file (default $CLASSROOM_DATAGEN_CONFIG or "+config.DefaultSettingsPath()+")")

	rootOpts.register(rootCmd.Flags())
}

// loadSettings resolves defaults, the settings file and the environment.
// An explicitly requested file must exist; the default location is optional.
func loadSettings() (*config.Settings, error) {
	var settings *config.Settings

	if path := config.SettingsPath(configPath); path != "" {
		loaded, err := config.LoadSettings(path)
		if err != nil {
			return nil, fmt.Errorf("failed to load settings from %s: %w", path, err)
		}
		globals.L().Debug("Loaded settings", "path", path)
		settings = loaded
	} else {
		isNew, loaded := config.LoadOrInitializeSettingsFromDefaultLocation()
		if isNew {
			globals.L().Debug("Using default settings")
		} else {
			globals.L().Debug("Loaded settings", "path", config.DefaultSettingsPath())
		}
		settings = loaded
	}

	if err := settings.ApplyEnv(); err != nil {
		return nil, fmt.Errorf("failed to apply environment overrides: %w", err)
	}

	return settings, nil
}

package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"vkfcheck/internal/config"
	ckerrors "vkfcheck/internal/errors"
	"vkfcheck/internal/slogutil"
	"vkfcheck/internal/version"
)

// skipValidation marks commands that must run even with an invalid config.
const skipValidation = "vkfcheck/skip-validation"

var (
	// verbosity is the repeatable -v flag
	verbosity int
	// quietFlag silences the console logger
	quietFlag bool
	// dataDirFlag is the workspace holding .vkfcheck/ and project.toml
	dataDirFlag string
)

// app is the per-invocation state set up before each command runs.
var app struct {
	root    string
	cfg     *config.Config
	logger  *slog.Logger
	factory *slogutil.LoggerFactory
}

var rootCmd = &cobra.Command{
	Use:   "vkfcheck",
	Short: "vkfcheck - VKF fire-protection metrics for building models",
	Long: `vkfcheck reads IFC building models and derives the two metrics the Swiss
VKF fire-protection rules are keyed on: the building height (with its
low-rise / mid-rise / high-rise category) and the building floor area summed
per storey from space quantities.

Models are read from .ifc, .ifczip, .ifc.gz or YAML model documents.
Results can be saved to a local run history below .vkfcheck/.`,
	Version:           version.Version,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setupApp,
}

func init() {
	cobra.OnFinalize(closeApp)
	rootCmd.SetVersionTemplate("vkfcheck version {{.Version}}\n")
	rootCmd.PersistentFlags().CountVarP(&verbosity, "verbose", "v", "Increase log verbosity (-v info, -vv debug)")
	rootCmd.PersistentFlags().BoolVarP(&quietFlag, "quiet", "q", false, "Suppress log output")
	rootCmd.PersistentFlags().StringVar(&dataDirFlag, "data-dir", "",
		"Workspace directory holding .vkfcheck/ and project.toml (default: current directory)")
}

// setupApp resolves the workspace root, loads and validates the config and
// builds the logger. Precedence for the console level: --quiet, then -v,
// then the warning default.
func setupApp(cmd *cobra.Command, args []string) error {
	root, err := workspaceRoot()
	if err != nil {
		return err
	}
	app.root = root

	cfg, err := config.LoadConfig(root)
	if err != nil {
		return ckerrors.NewCheckError(ckerrors.ConfigInvalid, "failed to load configuration", err, nil)
	}
	if cmd.Annotations[skipValidation] == "" {
		if err := cfg.Validate(); err != nil {
			return ckerrors.NewCheckError(ckerrors.ConfigInvalid, "invalid configuration", err, nil)
		}
	}
	app.cfg = cfg

	app.factory = slogutil.NewLoggerFactory(root, slogutil.FileOptions{
		Enabled:    cfg.Logging.File,
		Format:     cfg.Logging.Format,
		Level:      cfg.Logging.Level,
		MaxSize:    cfg.Logging.MaxSize,
		MaxBackups: cfg.Logging.MaxBackups,
	})
	app.logger = app.factory.CLILogger(cmd.ErrOrStderr(), slogutil.LevelFromVerbosity(verbosity, quietFlag))
	app.logger.Debug("vkfcheck starting",
		"command", cmd.CommandPath(),
		"version", version.Info(),
		"root", root,
	)
	return nil
}

// closeApp releases the log files. It runs after every command, failed ones
// included.
func closeApp() {
	if app.factory != nil {
		_ = app.factory.Close()
		app.factory = nil
	}
}

// workspaceRoot returns --data-dir or the working directory.
func workspaceRoot() (string, error) {
	if dataDirFlag != "" {
		info, err := os.Stat(dataDirFlag)
		if err != nil {
			return "", fmt.Errorf("data directory: %w", err)
		}
		if !info.IsDir() {
			return "", fmt.Errorf("data directory %s is not a directory", dataDirFlag)
		}
		return dataDirFlag, nil
	}
	return os.Getwd()
}

package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"vkfcheck/internal/config"
	"vkfcheck/internal/paths"
)

var configForce bool

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage vkfcheck configuration",
	Long:  "View and manage vkfcheck configuration stored in .vkfcheck/config.json",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the effective configuration",
	Long: `Display the effective configuration: config.json merged with defaults and
VKFCHECK_* environment overrides. Values that differ from the defaults are
marked. An invalid configuration is shown together with the problem.

Examples:
  vkfcheck config show
  vkfcheck config show --format json
  VKFCHECK_RULES_LOWRISEMAXM=12 vkfcheck config show`,
	Args:        cobra.NoArgs,
	Annotations: map[string]string{skipValidation: "true"},
	RunE:        runConfigShow,
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write the default configuration to .vkfcheck/config.json",
	Args:  cobra.NoArgs,
	RunE:  runConfigInit,
}

func init() {
	configInitCmd.Flags().BoolVar(&configForce, "force", false, "Overwrite an existing config.json")

	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configInitCmd)
	rootCmd.AddCommand(configCmd)
}

// ConfigShowResponseCLI is the response format for config show
type ConfigShowResponseCLI struct {
	ConfigPath      string         `json:"configPath"`
	UsedDefaults    bool           `json:"usedDefaults"`
	ValidationError string         `json:"validationError,omitempty"`
	Config          *config.Config `json:"config"`
}

// TextLines renders one line per setting, marking non-default values.
func (r *ConfigShowResponseCLI) TextLines() []string {
	cfg := r.Config
	defaults := config.DefaultConfig()

	lines := []string{"vkfcheck Configuration", strings.Repeat("─", 50)}
	if r.UsedDefaults {
		lines = append(lines, "Source: defaults (no config file found)")
	} else {
		lines = append(lines, "Source: "+r.ConfigPath)
	}
	if r.ValidationError != "" {
		lines = append(lines, "Invalid: "+r.ValidationError)
	}

	lines = append(lines, "", configLine("version", cfg.Version, defaults.Version))

	lines = append(lines, "", "placement:")
	lines = append(lines, configLine("  maxHops", cfg.Placement.MaxHops, defaults.Placement.MaxHops))

	lines = append(lines, "", "quantities:")
	lines = append(lines, configLine("  areaNames",
		strings.Join(cfg.Quantities.AreaNames, ", "), strings.Join(defaults.Quantities.AreaNames, ", ")))

	lines = append(lines, "", "rules:")
	lines = append(lines,
		configLine("  lowRiseMaxM", cfg.Rules.LowRiseMaxM, defaults.Rules.LowRiseMaxM),
		configLine("  midRiseMaxM", cfg.Rules.MidRiseMaxM, defaults.Rules.MidRiseMaxM),
		configLine("  smallBuildingLimitM2", cfg.Rules.SmallBuildingLimitM2, defaults.Rules.SmallBuildingLimitM2),
		configLine("  storeyAreaLimitM2", cfg.Rules.StoreyAreaLimitM2, defaults.Rules.StoreyAreaLimitM2),
	)

	lines = append(lines, "", "storage:")
	lines = append(lines,
		configLine("  enabled", cfg.Storage.Enabled, defaults.Storage.Enabled),
		configLine("  path", cfg.Storage.Path, defaults.Storage.Path),
	)

	lines = append(lines, "", "logging:")
	lines = append(lines,
		configLine("  format", cfg.Logging.Format, defaults.Logging.Format),
		configLine("  level", cfg.Logging.Level, defaults.Logging.Level),
		configLine("  file", cfg.Logging.File, defaults.Logging.File),
		configLine("  maxSize", cfg.Logging.MaxSize, defaults.Logging.MaxSize),
		configLine("  maxBackups", cfg.Logging.MaxBackups, defaults.Logging.MaxBackups),
	)
	return lines
}

func configLine(name string, value, defaultValue interface{}) string {
	line := fmt.Sprintf("%s: %v", name, value)
	if fmt.Sprint(value) != fmt.Sprint(defaultValue) {
		line += fmt.Sprintf(" (default: %v)", defaultValue)
	}
	return line
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	path := paths.GetConfigPath(app.root)
	resp := &ConfigShowResponseCLI{
		ConfigPath:   path,
		UsedDefaults: !paths.FileExists(path),
		Config:       app.cfg,
	}
	if err := app.cfg.Validate(); err != nil {
		resp.ValidationError = err.Error()
	}
	return writeResponse(cmd.OutOrStdout(), resp)
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	path := paths.GetConfigPath(app.root)
	if !configForce && paths.FileExists(path) {
		return fmt.Errorf("config file already exists: %s (use --force to overwrite)", path)
	}
	if err := config.DefaultConfig().Save(app.root); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	_, err := fmt.Fprintf(cmd.OutOrStdout(), "Created %s\n", path)
	return err
}

package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"vkfcheck/internal/paths"
	"vkfcheck/internal/placement"
	"vkfcheck/internal/quantity"
	"vkfcheck/internal/vkf"
)

// CurrentVersion is the only config schema version accepted by Validate.
const CurrentVersion = 1

// EnvPrefix prefixes environment overrides, e.g. VKFCHECK_RULES_LOWRISEMAXM.
const EnvPrefix = "VKFCHECK"

// Config represents the complete vkfcheck configuration
type Config struct {
	Version int `json:"version" mapstructure:"version"`

	Placement  PlacementConfig  `json:"placement" mapstructure:"placement"`
	Quantities QuantitiesConfig `json:"quantities" mapstructure:"quantities"`
	Rules      vkf.Rules        `json:"rules" mapstructure:"rules"`
	Storage    StorageConfig    `json:"storage" mapstructure:"storage"`
	Logging    LoggingConfig    `json:"logging" mapstructure:"logging"`
}

// PlacementConfig bounds the placement chain walk. MaxHops may lower the
// default cap of 64 but never raise it.
type PlacementConfig struct {
	MaxHops int `json:"maxHops" mapstructure:"maxHops"`
}

// QuantitiesConfig lists the quantity names read as a space's floor area
type QuantitiesConfig struct {
	AreaNames []string `json:"areaNames" mapstructure:"areaNames"`
}

// StorageConfig contains run history configuration
type StorageConfig struct {
	Enabled bool `json:"enabled" mapstructure:"enabled"`
	// Path overrides the database location; empty means .vkfcheck/vkfcheck.db
	Path string `json:"path" mapstructure:"path"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Format     string `json:"format" mapstructure:"format"`
	Level      string `json:"level" mapstructure:"level"`
	File       bool   `json:"file" mapstructure:"file"`
	MaxSize    string `json:"maxSize" mapstructure:"maxSize"`
	MaxBackups int    `json:"maxBackups" mapstructure:"maxBackups"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Version: CurrentVersion,
		Placement: PlacementConfig{
			MaxHops: placement.DefaultMaxHops,
		},
		Quantities: QuantitiesConfig{
			AreaNames: append([]string(nil), quantity.DefaultAreaNames...),
		},
		Rules: vkf.DefaultRules(),
		Storage: StorageConfig{
			Enabled: true,
		},
		Logging: LoggingConfig{
			Format:     "human",
			Level:      "info",
			File:       false,
			MaxSize:    "10MB",
			MaxBackups: 3,
		},
	}
}

// setDefaults registers every key so that environment overrides apply
// even when no config file exists.
func setDefaults(v *viper.Viper, cfg *Config) {
	v.SetDefault("version", cfg.Version)
	v.SetDefault("placement.maxHops", cfg.Placement.MaxHops)
	v.SetDefault("quantities.areaNames", cfg.Quantities.AreaNames)
	v.SetDefault("rules.lowRiseMaxM", cfg.Rules.LowRiseMaxM)
	v.SetDefault("rules.midRiseMaxM", cfg.Rules.MidRiseMaxM)
	v.SetDefault("rules.smallBuildingLimitM2", cfg.Rules.SmallBuildingLimitM2)
	v.SetDefault("rules.storeyAreaLimitM2", cfg.Rules.StoreyAreaLimitM2)
	v.SetDefault("storage.enabled", cfg.Storage.Enabled)
	v.SetDefault("storage.path", cfg.Storage.Path)
	v.SetDefault("logging.format", cfg.Logging.Format)
	v.SetDefault("logging.level", cfg.Logging.Level)
	v.SetDefault("logging.file", cfg.Logging.File)
	v.SetDefault("logging.maxSize", cfg.Logging.MaxSize)
	v.SetDefault("logging.maxBackups", cfg.Logging.MaxBackups)
}

// LoadConfig loads configuration from <root>/.vkfcheck/config.json with
// VKFCHECK_* environment overrides. A missing file yields the defaults.
func LoadConfig(root string) (*Config, error) {
	v := viper.New()
	setDefaults(v, DefaultConfig())

	v.SetConfigName("config")
	v.SetConfigType("json")
	v.AddConfigPath(paths.GetDataDir(root))

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}

	return &cfg, nil
}

// Save writes the configuration to <root>/.vkfcheck/config.json
func (c *Config) Save(root string) error {
	if _, err := paths.EnsureDataDir(root); err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(filepath.Clean(paths.GetConfigPath(root)), data, 0644)
}

// DatabasePath returns the configured run history location.
func (c *Config) DatabasePath(root string) string {
	if c.Storage.Path != "" {
		return c.Storage.Path
	}
	return paths.GetDatabasePath(root)
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Version != CurrentVersion {
		return &ConfigError{Field: "version", Message: fmt.Sprintf("unsupported config version %d", c.Version)}
	}
	if c.Placement.MaxHops <= 0 {
		return &ConfigError{Field: "placement.maxHops", Message: "must be positive"}
	}
	if c.Placement.MaxHops > placement.DefaultMaxHops {
		return &ConfigError{
			Field:   "placement.maxHops",
			Message: fmt.Sprintf("must not exceed %d", placement.DefaultMaxHops),
		}
	}
	if len(c.Quantities.AreaNames) == 0 {
		return &ConfigError{Field: "quantities.areaNames", Message: "at least one quantity name is required"}
	}
	for i, name := range c.Quantities.AreaNames {
		if quantity.NormalizeName(name) == "" {
			return &ConfigError{Field: fmt.Sprintf("quantities.areaNames[%d]", i), Message: "empty quantity name"}
		}
	}

	r := c.Rules
	if r.LowRiseMaxM <= 0 {
		return &ConfigError{Field: "rules.lowRiseMaxM", Message: "must be positive"}
	}
	if r.MidRiseMaxM <= r.LowRiseMaxM {
		return &ConfigError{Field: "rules.midRiseMaxM", Message: "must be greater than rules.lowRiseMaxM"}
	}
	if r.SmallBuildingLimitM2 <= 0 {
		return &ConfigError{Field: "rules.smallBuildingLimitM2", Message: "must be positive"}
	}
	if r.StoreyAreaLimitM2 <= 0 {
		return &ConfigError{Field: "rules.storeyAreaLimitM2", Message: "must be positive"}
	}

	switch c.Logging.Format {
	case "human", "json":
	default:
		return &ConfigError{Field: "logging.format", Message: "must be \"human\" or \"json\""}
	}
	if c.Logging.MaxBackups < 0 {
		return &ConfigError{Field: "logging.maxBackups", Message: "must not be negative"}
	}

	return nil
}

// ConfigError represents a configuration error
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return "config error in field '" + e.Field + "': " + e.Message
}

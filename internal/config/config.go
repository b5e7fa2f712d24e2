package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/harrison/diskreport/internal/fileutil"
	"github.com/harrison/diskreport/internal/metadata"
)

// HistoryConfig controls the run history database
type HistoryConfig struct {
	// Enabled records every successful scan in the history database
	Enabled bool `yaml:"enabled"`

	// DBPath overrides the database location; empty means HistoryDBPath()
	DBPath string `yaml:"db_path"`
}

// Config represents diskreport configuration options
type Config struct {
	// LogLevel sets the logging verbosity (trace, debug, info, warn, error)
	LogLevel string `yaml:"log_level"`

	// LogDir is the directory where run logs are written
	LogDir string `yaml:"log_dir"`

	// OutputDir is where report workbooks are written
	OutputDir string `yaml:"output_dir"`

	// Workers bounds metadata extraction (0 = number of CPUs)
	Workers int `yaml:"workers"`

	// OwnerResolver selects how owners are looked up: native, shell or unknown
	OwnerResolver string `yaml:"owner_resolver"`

	// Exclude lists doublestar globs, relative to the scan root, to skip
	Exclude []string `yaml:"exclude"`

	// Dedupe reports a file once even when several patterns match it
	Dedupe bool `yaml:"dedupe"`

	// OwnerTimestamps keeps the Modified Timestamp column on owner sheets
	OwnerTimestamps bool `yaml:"owner_timestamps"`

	History HistoryConfig `yaml:"history"`
}

// DefaultConfig returns a Config with default values
func DefaultConfig() *Config {
	return &Config{
		LogLevel:        "info",
		LogDir:          ".diskreport/logs",
		OutputDir:       ".",
		Workers:         0,
		OwnerResolver:   metadata.ResolverNative,
		Dedupe:          false,
		OwnerTimestamps: true,
		History: HistoryConfig{
			Enabled: true,
		},
	}
}

// LoadConfig loads configuration from path.
// A missing file yields the defaults; a malformed file is an error.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var fileCfg Config
	if err := yaml.Unmarshal(data, &fileCfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	// Presence map so explicit false and zero values still override defaults
	var rawMap map[string]interface{}
	if err := yaml.Unmarshal(data, &rawMap); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	has := func(key string) bool {
		_, ok := rawMap[key]
		return ok
	}

	if fileCfg.LogLevel != "" {
		cfg.LogLevel = fileCfg.LogLevel
	}
	if fileCfg.LogDir != "" {
		cfg.LogDir = fileCfg.LogDir
	}
	if fileCfg.OutputDir != "" {
		cfg.OutputDir = fileCfg.OutputDir
	}
	if has("workers") {
		cfg.Workers = fileCfg.Workers
	}
	if fileCfg.OwnerResolver != "" {
		cfg.OwnerResolver = fileCfg.OwnerResolver
	}
	if has("exclude") {
		cfg.Exclude = fileCfg.Exclude
	}
	if has("dedupe") {
		cfg.Dedupe = fileCfg.Dedupe
	}
	if has("owner_timestamps") {
		cfg.OwnerTimestamps = fileCfg.OwnerTimestamps
	}

	if section, ok := rawMap["history"].(map[string]interface{}); ok {
		if _, exists := section["enabled"]; exists {
			cfg.History.Enabled = fileCfg.History.Enabled
		}
		if _, exists := section["db_path"]; exists {
			cfg.History.DBPath = fileCfg.History.DBPath
		}
	}

	return cfg, nil
}

// LoadConfigFromDir loads .diskreport/config.yaml under dir.
func LoadConfigFromDir(dir string) (*Config, error) {
	return LoadConfig(filepath.Join(dir, ".diskreport", "config.yaml"))
}

// Overrides holds CLI flag values. Nil fields leave the configuration
// unchanged.
type Overrides struct {
	LogLevel        *string
	LogDir          *string
	OutputDir       *string
	Workers         *int
	OwnerResolver   *string
	Exclude         []string // appended to the configured globs
	Dedupe          *bool
	OwnerTimestamps *bool
	HistoryEnabled  *bool
}

// MergeWithFlags applies CLI flags on top of the configuration.
func (c *Config) MergeWithFlags(o Overrides) {
	if o.LogLevel != nil {
		c.LogLevel = *o.LogLevel
	}
	if o.LogDir != nil {
		c.LogDir = *o.LogDir
	}
	if o.OutputDir != nil {
		c.OutputDir = *o.OutputDir
	}
	if o.Workers != nil {
		c.Workers = *o.Workers
	}
	if o.OwnerResolver != nil {
		c.OwnerResolver = *o.OwnerResolver
	}
	if len(o.Exclude) > 0 {
		c.Exclude = append(append([]string(nil), c.Exclude...), o.Exclude...)
	}
	if o.Dedupe != nil {
		c.Dedupe = *o.Dedupe
	}
	if o.OwnerTimestamps != nil {
		c.OwnerTimestamps = *o.OwnerTimestamps
	}
	if o.HistoryEnabled != nil {
		c.History.Enabled = *o.HistoryEnabled
	}
}

// Validate validates the configuration values
func (c *Config) Validate() error {
	switch strings.ToLower(c.LogLevel) {
	case "trace", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log_level %q, must be one of: trace, debug, info, warn, error", c.LogLevel)
	}

	if c.Workers < 0 {
		return fmt.Errorf("workers must be >= 0, got %d", c.Workers)
	}

	if c.OutputDir == "" {
		return fmt.Errorf("output_dir cannot be empty")
	}

	if _, err := metadata.NewOwnerResolver(c.OwnerResolver); err != nil {
		return fmt.Errorf("invalid owner_resolver: %w", err)
	}

	if err := fileutil.ValidateExcludes(c.Exclude); err != nil {
		return fmt.Errorf("invalid exclude: %w", err)
	}

	return nil
}

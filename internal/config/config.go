// =============================================================================
// Revenue Reconciler - Configuration Module
// =============================================================================
//
// This module loads the application configuration. A single file drives the
// CLI: where exports are picked up, where reports are stored, how logging
// behaves and how an export's columns are laid out.
//
// CONFIGURATION FILE:
//   config.yaml (or config.toml) in the working directory, overridable with
//   the --config flag. Unset options receive defaults, and the working
//   directories are created on load.
//
// =============================================================================

package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml"
	"gopkg.in/yaml.v3"
)

// =============================================================================
// MAIN CONFIGURATION STRUCTURE
// =============================================================================

// Config holds the application configuration.
type Config struct {
	// =========================================================================
	// DIRECTORY SETTINGS
	// =========================================================================

	// InputDir is scanned for accounting exports by `reconciler import`.
	// Default: "./input"
	InputDir string `yaml:"input_dir" toml:"input_dir"`

	// OutputDir receives exported workbooks and run summaries.
	// Default: "./output"
	OutputDir string `yaml:"output_dir" toml:"output_dir"`

	// InputArchiveDir receives exports after a successful import.
	// Default: "./input_archive"
	InputArchiveDir string `yaml:"input_archive_dir" toml:"input_archive_dir"`

	// ArchiveInputs moves imported exports into InputArchiveDir.
	// Default: true
	ArchiveInputs *bool `yaml:"archive_inputs" toml:"archive_inputs"`

	// =========================================================================
	// STORAGE SETTINGS
	// =========================================================================

	// Database configures the report store.
	Database DatabaseConfig `yaml:"database" toml:"database"`

	// =========================================================================
	// LOGGING SETTINGS
	// =========================================================================

	// LogLevel is one of "debug", "info", "warn", "error".
	// Default: "info"
	LogLevel string `yaml:"log_level" toml:"log_level"`

	// LogFormat is "console" or "json".
	// Default: "console"
	LogFormat string `yaml:"log_format" toml:"log_format"`

	// LogFile is "stdout", "stderr" or a file path.
	// Default: "stderr"
	LogFile string `yaml:"log_file" toml:"log_file"`

	// =========================================================================
	// PROCESSING SETTINGS
	// =========================================================================

	// MaxConcurrency bounds how many exports are imported at once.
	// Default: 4
	MaxConcurrency int `yaml:"max_concurrency" toml:"max_concurrency"`

	// ContinueOnError keeps importing the remaining files when one fails.
	// Default: true
	ContinueOnError *bool `yaml:"continue_on_error" toml:"continue_on_error"`

	// OutputNameFormat names exported workbooks. Placeholders:
	//   {uuid}      - A random UUID
	//   {timestamp} - Current timestamp (YYYYMMDD_HHMMSS)
	//   {type}      - Report type (daily, monthly, range)
	//   {period}    - Period label with unsafe characters removed
	// Default: "{type}_{period}_{uuid}.xlsx"
	OutputNameFormat string `yaml:"output_name_format" toml:"output_name_format"`

	// =========================================================================
	// EXPORT LAYOUT
	// =========================================================================

	// CSV configures reading of CSV exports.
	CSV CSVSettings `yaml:"csv" toml:"csv"`

	// Columns is the positional layout of an export row.
	Columns Columns `yaml:"columns" toml:"columns"`
}

// DatabaseConfig selects the report store backend.
type DatabaseConfig struct {
	// Driver is "sqlite" or "postgres".
	// Default: "sqlite"
	Driver string `yaml:"driver" toml:"driver"`

	// DSN is a file path for sqlite or a connection string for postgres.
	// Default: "./reports.db"
	DSN string `yaml:"dsn" toml:"dsn"`
}

// CSVSettings contains settings for reading CSV exports.
type CSVSettings struct {
	// Delimiter separates fields. Accepts a single character or one of
	// "tab", "pipe", "semicolon".
	// Default: ","
	Delimiter string `yaml:"delimiter" toml:"delimiter"`

	// Encoding of the file: "UTF-8", "Windows-1250", "Windows-1252",
	// "ISO-8859-1" or "ISO-8859-2".
	// Default: "UTF-8"
	Encoding string `yaml:"encoding" toml:"encoding"`
}

// Columns holds the 0-based column positions of an export row.
type Columns struct {
	Code     int `yaml:"code" toml:"code"`
	Quantity int `yaml:"quantity" toml:"quantity"`
	Amount   int `yaml:"amount" toml:"amount"`
}

// DefaultColumns is the layout of the accounting system's export.
func DefaultColumns() Columns {
	return Columns{Code: 2, Quantity: 5, Amount: 7}
}

// =============================================================================
// CONFIGURATION LOADING FUNCTIONS
// =============================================================================

// Load reads the configuration file at path. The format is chosen by
// extension (.yaml, .yml or .toml). A missing file yields the defaults.
//
// RETURNS:
//   - A pointer to the Config struct with defaults applied.
//   - An error if the file cannot be parsed or the configuration is invalid.
func Load(path string) (*Config, error) {
	var cfg Config

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := unmarshal(path, data, &cfg); err != nil {
			return nil, err
		}
	case os.IsNotExist(err):
		// Defaults only.
	default:
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	ApplyDefaults(&cfg)

	if err := Validate(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

func unmarshal(path string, data []byte, cfg *Config) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		if err := toml.Unmarshal(data, cfg); err != nil {
			return fmt.Errorf("failed to parse TOML config file: %w", err)
		}
	case ".yaml", ".yml", "":
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return fmt.Errorf("failed to parse YAML config file: %w", err)
		}
	default:
		return fmt.Errorf("unsupported config file format: %s", filepath.Ext(path))
	}
	return nil
}

// ApplyDefaults sets default values for any unset configuration options.
func ApplyDefaults(cfg *Config) {
	if cfg.InputDir == "" {
		cfg.InputDir = "./input"
	}
	if cfg.OutputDir == "" {
		cfg.OutputDir = "./output"
	}
	if cfg.InputArchiveDir == "" {
		cfg.InputArchiveDir = "./input_archive"
	}
	if cfg.ArchiveInputs == nil {
		cfg.ArchiveInputs = boolPtr(true)
	}
	if cfg.Database.Driver == "" {
		cfg.Database.Driver = "sqlite"
	}
	if cfg.Database.DSN == "" {
		cfg.Database.DSN = "./reports.db"
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
	if cfg.LogFormat == "" {
		cfg.LogFormat = "console"
	}
	if cfg.LogFile == "" {
		cfg.LogFile = "stderr"
	}
	if cfg.MaxConcurrency <= 0 {
		cfg.MaxConcurrency = 4
	}
	if cfg.ContinueOnError == nil {
		cfg.ContinueOnError = boolPtr(true)
	}
	if cfg.OutputNameFormat == "" {
		cfg.OutputNameFormat = "{type}_{period}_{uuid}.xlsx"
	}
	if cfg.CSV.Delimiter == "" {
		cfg.CSV.Delimiter = ","
	}
	if cfg.CSV.Encoding == "" {
		cfg.CSV.Encoding = "UTF-8"
	}
	if cfg.Columns == (Columns{}) {
		cfg.Columns = DefaultColumns()
	}
}

// Validate checks option values and creates the working directories.
func Validate(cfg *Config) error {
	switch cfg.Database.Driver {
	case "sqlite", "postgres":
	default:
		return fmt.Errorf("unknown database driver %q", cfg.Database.Driver)
	}

	switch cfg.LogFormat {
	case "console", "json":
	default:
		return fmt.Errorf("unknown log format %q", cfg.LogFormat)
	}

	if cfg.Columns.Code < 0 || cfg.Columns.Quantity < 0 || cfg.Columns.Amount < 0 {
		return fmt.Errorf("column positions must not be negative")
	}

	dirs := []string{cfg.InputDir, cfg.OutputDir, cfg.InputArchiveDir}
	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	return nil
}

// ShouldArchive reports whether imported exports are archived.
func (c *Config) ShouldArchive() bool {
	return c.ArchiveInputs == nil || *c.ArchiveInputs
}

// ShouldContinueOnError reports whether a failed import stops the run.
func (c *Config) ShouldContinueOnError() bool {
	return c.ContinueOnError == nil || *c.ContinueOnError
}

func boolPtr(v bool) *bool {
	return &v
}

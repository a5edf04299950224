// Package config holds the TOML configuration for the axisfinder CLI.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
)

// Config represents the complete configuration for the axisfinder CLI
type Config struct {
	// Dataset file locations
	Datasets DatasetsConfig `toml:"datasets"`

	// Search engine settings
	Search SearchConfig `toml:"search"`

	// Logger configuration
	Logger LoggerConfig `toml:"logger"`

	// Output configuration
	Output OutputConfig `toml:"output"`

	// Sentry configuration
	Sentry SentryConfig `toml:"sentry"`

	// Directory paths (computed, not stored in TOML)
	DataDir   string `toml:"-"`
	ConfigDir string `toml:"-"`
}

// DatasetsConfig locates the static JSON datasets the lookups are built
// from. Paths are resolved relative to DataDir when not absolute.
type DatasetsConfig struct {
	// Combined competitor/legacy cross-reference dataset
	CrossRef string `toml:"crossref"`

	// Axis catalog product specs
	Specs string `toml:"specs"`

	// Accessory compatibility database
	Accessories string `toml:"accessories"`

	// List prices
	MSRP string `toml:"msrp"`

	// Hand-curated verified product URLs (optional)
	VerifiedURLs string `toml:"verified_urls"`

	// Known typo/variant aliases (optional)
	Aliases string `toml:"aliases"`
}

// SearchConfig contains matching and batch settings
type SearchConfig struct {
	// Delay before an interactive keystroke triggers a search
	DebounceMs int `toml:"debounce_ms"`

	// Maximum queries accepted in one batch; excess is truncated
	MaxBatchSize int `toml:"max_batch_size"`

	// Batch items processed between cancellation checks
	ChunkSize int `toml:"chunk_size"`

	// Length of the "did you mean" suggestion list
	SuggestionLimit int `toml:"suggestion_limit"`

	// Minimum query length before interactive search fires
	MinQueryLength int `toml:"min_query_length"`
}

// LoggerConfig mirrors the logger package settings
type LoggerConfig struct {
	Level     string `toml:"level"`
	Output    string `toml:"output"`
	Color     bool   `toml:"color"`
	Timestamp bool   `toml:"timestamp"`
}

// OutputConfig controls CLI rendering
type OutputConfig struct {
	// Force-disable colored output
	NoColor bool `toml:"no_color"`

	// Print responses as JSON instead of tables
	JSON bool `toml:"json"`

	// Show low-confidence results without prompting
	ShowLowConfidence bool `toml:"show_low_confidence"`
}

// SentryConfig contains error reporting settings
type SentryConfig struct {
	Enabled     bool    `toml:"enabled"`
	DSN         string  `toml:"dsn"`
	Environment string  `toml:"environment"`
	SampleRate  float64 `toml:"sample_rate"`
}

// DefaultConfig returns the configuration used when no file exists
func DefaultConfig() *Config {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		homeDir = "."
	}
	dataDir := filepath.Join(homeDir, ".local", "share", "axisfinder")
	configDir := filepath.Join(homeDir, ".config", "axisfinder")

	return &Config{
		Datasets: DatasetsConfig{
			CrossRef:    "crossref.json",
			Specs:       "specs.json",
			Accessories: "accessories.json",
			MSRP:        "msrp.json",
		},
		Search: SearchConfig{
			DebounceMs:      150,
			MaxBatchSize:    100,
			ChunkSize:       20,
			SuggestionLimit: 5,
			MinQueryLength:  2,
		},
		Logger: LoggerConfig{
			Level:     "error",
			Output:    "stderr",
			Color:     true,
			Timestamp: true,
		},
		Output: OutputConfig{
			ShowLowConfidence: true,
		},
		Sentry: SentryConfig{
			Enabled:     false,
			Environment: "production",
			SampleRate:  1.0,
		},
		DataDir:   dataDir,
		ConfigDir: configDir,
	}
}

// Load reads configuration from configPath, falling back to the default
// location and then to defaults when no file exists.
func Load(configPath string) (*Config, error) {
	config := DefaultConfig()

	if configPath == "" {
		configPath = filepath.Join(config.ConfigDir, "config.toml")
	}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		config.ApplyDefaults()
		return config, nil
	}

	if _, err := toml.DecodeFile(configPath, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", configPath, err)
	}

	config.ApplyDefaults()

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

// Save writes the configuration to the specified file path
func (c *Config) Save(configPath string) error {
	configDir := filepath.Dir(configPath)
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	file, err := os.Create(configPath)
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer file.Close()

	encoder := toml.NewEncoder(file)
	if err := encoder.Encode(c); err != nil {
		return fmt.Errorf("failed to encode config as TOML: %w", err)
	}

	return nil
}

// ApplyDefaults fills in zero values left by a partial config file
func (c *Config) ApplyDefaults() {
	if c.Search.DebounceMs <= 0 {
		c.Search.DebounceMs = 150
	}
	if c.Search.MaxBatchSize <= 0 {
		c.Search.MaxBatchSize = 100
	}
	if c.Search.ChunkSize <= 0 {
		c.Search.ChunkSize = 20
	}
	if c.Search.SuggestionLimit <= 0 {
		c.Search.SuggestionLimit = 5
	}
	if c.Search.MinQueryLength <= 0 {
		c.Search.MinQueryLength = 2
	}
	if c.Logger.Level == "" {
		c.Logger.Level = "error"
	}
	if c.Logger.Output == "" {
		c.Logger.Output = "stderr"
	}
	if c.Sentry.SampleRate <= 0 {
		c.Sentry.SampleRate = 1.0
	}
}

// Validate validates the configuration values
func (c *Config) Validate() error {
	switch c.Logger.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log level: %s", c.Logger.Level)
	}
	if c.Search.MaxBatchSize > 10000 {
		return fmt.Errorf("max_batch_size too large: %d", c.Search.MaxBatchSize)
	}
	if c.Search.ChunkSize > c.Search.MaxBatchSize {
		return fmt.Errorf("chunk_size %d exceeds max_batch_size %d", c.Search.ChunkSize, c.Search.MaxBatchSize)
	}
	return nil
}

// DatasetPath resolves a dataset file location against DataDir.
func (c *Config) DatasetPath(name string) string {
	if name == "" || filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(c.DataDir, name)
}

// DebounceInterval returns the interactive search debounce as a duration.
func (c *Config) DebounceInterval() time.Duration {
	return time.Duration(c.Search.DebounceMs) * time.Millisecond
}

package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
)

type Config struct {
	Environment string `toml:"environment"`

	// storage
	DataDirectory   string `toml:"data_directory"`
	BackupFrequency string `toml:"backup_frequency"`
	MaxBackups      int    `toml:"max_backups"`

	// presentation
	DefaultWeightUnit string   `toml:"default_weight_unit"`
	DateFormat        string   `toml:"date_format"`
	WorkoutTypes      []string `toml:"workout_types"`

	// logging
	LogLevel      string `toml:"log_level"`
	LogsPath      string `toml:"logs_path"`
	LogToStdout   bool   `toml:"log_to_stdout"`
	LogFormatJSON bool   `toml:"log_format_json"`
	SentryEnabled bool   `toml:"sentry_enabled"`

	// metrics are written in the prometheus text format, e.g. for the
	// node exporter textfile collector. empty disables it
	MetricsTextfile string `toml:"metrics_textfile"`

	// tracing, both exporters are off when empty
	TraceFile    string `toml:"trace_file"`
	OTLPEndpoint string `toml:"otlp_endpoint"`
	OTLPInsecure bool   `toml:"otlp_insecure"`

	// analytics reports cache, used by the long-running mcp server
	CacheSizeMB     int `toml:"cache_size_mb"`
	CacheTTLSeconds int `toml:"cache_ttl_seconds"`
}

// Default returns the config used when no config file exists,
// and the base on top of which config files are applied.
func Default() *Config {
	return &Config{
		Environment:       "development",
		DataDirectory:     "data",
		BackupFrequency:   "weekly",
		MaxBackups:        5,
		DefaultWeightUnit: "kg",
		DateFormat:        "2006-01-02",
		WorkoutTypes: []string{
			"Running",
			"Cycling",
			"Swimming",
			"Strength Training",
			"Yoga",
			"Walking",
			"Cardio",
			"Stretching",
		},
		LogLevel:        "info",
		LogsPath:        "",
		LogToStdout:     false,
		CacheSizeMB:     1,
		CacheTTLSeconds: 60,
	}
}

// Toml holds values, not pointers, so that decoding a file
// only overrides the keys present in it
type Toml struct {
	Development Config
	Production  Config
}

func (t *Toml) Get(env string) (*Config, error) {
	switch strings.ToLower(env) {
	case "dev", "development":
		return &t.Development, nil
	case "prod", "production":
		return &t.Production, nil
	default:
		return nil, fmt.Errorf("unknown env: %s", env)
	}
}

// Load reads the TOML config file and returns the config for the given env.
// Keys missing from the file keep their default values, and a missing
// file means the defaults are used as they are.
func Load(env, path string) (*Config, error) {
	t := &Toml{
		Development: *Default(),
		Production:  *Default(),
	}
	t.Production.Environment = "production"

	if _, err := t.Get(env); err != nil {
		return nil, err
	}

	if path != "" {
		if _, err := toml.DecodeFile(path, t); err != nil {
			if !errors.Is(err, os.ErrNotExist) {
				return nil, fmt.Errorf("decode config file [%s]: %w", path, err)
			}
		}
	}

	cfg, err := t.Get(env)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if strings.TrimSpace(c.DataDirectory) == "" {
		return errors.New("data_directory cannot be empty")
	}
	switch strings.ToLower(c.DefaultWeightUnit) {
	case "kg", "lbs":
	default:
		return fmt.Errorf("unsupported default_weight_unit: %s", c.DefaultWeightUnit)
	}
	switch strings.ToLower(c.BackupFrequency) {
	case "daily", "weekly", "monthly", "never":
	default:
		return fmt.Errorf("unsupported backup_frequency: %s", c.BackupFrequency)
	}
	if c.MaxBackups < 0 {
		return fmt.Errorf("max_backups cannot be negative: %d", c.MaxBackups)
	}
	if c.DateFormat == "" {
		return errors.New("date_format cannot be empty")
	}
	if c.CacheSizeMB < 0 || c.CacheTTLSeconds < 0 {
		return errors.New("cache size and ttl cannot be negative")
	}
	return nil
}

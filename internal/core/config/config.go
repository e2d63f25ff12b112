package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/aevon-lab/rainfall-explorer/internal/core/aggregation"
	"github.com/aevon-lab/rainfall-explorer/internal/core/monsoon"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/robfig/cron/v3"
	"github.com/shopspring/decimal"
)

const envPrefix = "RAINFALL_"

// Config is the top-level application config.
type Config struct {
	Server      ServerConfig      `koanf:"server"`
	Dataset     DatasetConfig     `koanf:"dataset"`
	Database    DatabaseConfig    `koanf:"database"`
	Monsoon     MonsoonConfig     `koanf:"monsoon"`
	Climatology ClimatologyConfig `koanf:"climatology"`
	Aggregation AggregationConfig `koanf:"aggregation"`
	Metrics     MetricsConfig     `koanf:"metrics"`
}

type ServerConfig struct {
	Port          int    `koanf:"port"`
	Host          string `koanf:"host"`
	MaxBodySizeMB int    `koanf:"max_body_size_mb"`
	Mode          string `koanf:"mode"` // debug | release
}

// Dataset source kinds.
const (
	SourceFile     = "file"
	SourceURL      = "url"
	SourcePostgres = "postgres"
)

type DatasetConfig struct {
	Source        string   `koanf:"source"` // file | url | postgres
	Path          string   `koanf:"path"`
	URL           string   `koanf:"url"`
	StationID     string   `koanf:"station_id"`
	StationFile   string   `koanf:"station_file"`
	ValueColumn   string   `koanf:"value_column"`
	DateLayouts   []string `koanf:"date_layouts"`
	MissingValues []string `koanf:"missing_values"`
	FetchTimeout  string   `koanf:"fetch_timeout"`
	RefreshCron   string   `koanf:"refresh_cron"` // empty disables scheduled reloads
}

// FetchTimeoutDuration returns the parsed URL fetch timeout.
func (c DatasetConfig) FetchTimeoutDuration() time.Duration {
	d, err := time.ParseDuration(c.FetchTimeout)
	if err != nil || d <= 0 {
		return 30 * time.Second
	}
	return d
}

type DatabaseConfig struct {
	Type         string `koanf:"type"`
	DSN          string `koanf:"dsn"` // empty disables postgres
	MaxOpenConns int    `koanf:"max_open_conns"`
	MaxIdleConns int    `koanf:"max_idle_conns"`
	AutoMigrate  bool   `koanf:"auto_migrate"`
}

// Enabled reports whether a database is configured.
func (c DatabaseConfig) Enabled() bool {
	return strings.TrimSpace(c.DSN) != ""
}

type MonsoonConfig struct {
	StartMonthDay  string `koanf:"start_month_day"` // MM-DD
	DryThresholdMM string `koanf:"dry_threshold_mm"`
	DryRunDays     int    `koanf:"dry_run_days"`
}

// StartMonthAndDay parses StartMonthDay.
func (c MonsoonConfig) StartMonthAndDay() (time.Month, int, error) {
	return monsoon.ParseMonthDay(c.StartMonthDay)
}

// Threshold parses DryThresholdMM.
func (c MonsoonConfig) Threshold() (decimal.Decimal, error) {
	return decimal.NewFromString(strings.TrimSpace(c.DryThresholdMM))
}

type ClimatologyConfig struct {
	ExcludeFocal bool `koanf:"exclude_focal"`
	CacheSize    int  `koanf:"cache_size"`
}

type AggregationConfig struct {
	DefaultGranularity string `koanf:"default_granularity"`
}

type MetricsConfig struct {
	Enabled bool   `koanf:"enabled"`
	Path    string `koanf:"path"`
}

func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server.port %d (must be 1-65535)", c.Server.Port)
	}
	if strings.TrimSpace(c.Server.Host) == "" {
		return fmt.Errorf("server.host is required")
	}
	if c.Server.MaxBodySizeMB <= 0 {
		return fmt.Errorf("server.max_body_size_mb must be > 0")
	}
	if c.Server.Mode != "debug" && c.Server.Mode != "release" {
		return fmt.Errorf("invalid server.mode %q (must be debug or release)", c.Server.Mode)
	}

	switch c.Dataset.Source {
	case SourceFile:
		if strings.TrimSpace(c.Dataset.Path) == "" {
			return fmt.Errorf("dataset.path is required for source %q", SourceFile)
		}
	case SourceURL:
		if strings.TrimSpace(c.Dataset.URL) == "" {
			return fmt.Errorf("dataset.url is required for source %q", SourceURL)
		}
	case SourcePostgres:
		if !c.Database.Enabled() {
			return fmt.Errorf("database.dsn is required for dataset source %q", SourcePostgres)
		}
	default:
		return fmt.Errorf("unsupported dataset.source %q (must be file, url or postgres)", c.Dataset.Source)
	}
	if strings.TrimSpace(c.Dataset.StationID) == "" {
		return fmt.Errorf("dataset.station_id is required")
	}
	if len(c.Dataset.DateLayouts) == 0 {
		return fmt.Errorf("dataset.date_layouts must not be empty")
	}
	if c.Dataset.FetchTimeout != "" {
		d, err := time.ParseDuration(c.Dataset.FetchTimeout)
		if err != nil {
			return fmt.Errorf("invalid dataset.fetch_timeout %q: %w", c.Dataset.FetchTimeout, err)
		}
		if d <= 0 {
			return fmt.Errorf("dataset.fetch_timeout must be > 0")
		}
	}
	if c.Dataset.RefreshCron != "" {
		if _, err := cron.ParseStandard(c.Dataset.RefreshCron); err != nil {
			return fmt.Errorf("invalid dataset.refresh_cron %q: %w", c.Dataset.RefreshCron, err)
		}
	}

	if c.Database.Enabled() {
		if c.Database.Type != "" && c.Database.Type != "postgres" {
			return fmt.Errorf("unsupported database.type %q", c.Database.Type)
		}
		if c.Database.MaxOpenConns <= 0 {
			return fmt.Errorf("database.max_open_conns must be > 0")
		}
		if c.Database.MaxIdleConns <= 0 {
			return fmt.Errorf("database.max_idle_conns must be > 0")
		}
	}

	if _, _, err := c.Monsoon.StartMonthAndDay(); err != nil {
		return fmt.Errorf("invalid monsoon.start_month_day: %w", err)
	}
	threshold, err := c.Monsoon.Threshold()
	if err != nil {
		return fmt.Errorf("invalid monsoon.dry_threshold_mm %q: %w", c.Monsoon.DryThresholdMM, err)
	}
	if threshold.IsNegative() {
		return fmt.Errorf("monsoon.dry_threshold_mm must be >= 0")
	}
	if c.Monsoon.DryRunDays < 1 {
		return fmt.Errorf("monsoon.dry_run_days must be >= 1")
	}

	if c.Climatology.CacheSize < 0 {
		return fmt.Errorf("climatology.cache_size must be >= 0")
	}

	if _, err := aggregation.ParseGranularity(c.Aggregation.DefaultGranularity); err != nil {
		return fmt.Errorf("invalid aggregation.default_granularity: %w", err)
	}

	if c.Metrics.Enabled && !strings.HasPrefix(c.Metrics.Path, "/") {
		return fmt.Errorf("metrics.path must start with /")
	}

	return nil
}

// Load parses config from defaults, an optional YAML file and RAINFALL_ env vars, then validates it.
func Load(configPath string) (*Config, error) {
	k := koanf.New(".")

	defaults := map[string]interface{}{
		"server.port":                     8080,
		"server.host":                     "0.0.0.0",
		"server.max_body_size_mb":         1,
		"server.mode":                     "release",
		"dataset.source":                  SourceFile,
		"dataset.path":                    "./data/rainfall.csv",
		"dataset.station_id":              "default",
		"dataset.date_layouts":            []string{"2006-01-02", "02-01-2006", "2006/01/02"},
		"dataset.missing_values":          []string{"", "NA", "NaN", "null", "-"},
		"dataset.fetch_timeout":           "30s",
		"dataset.refresh_cron":            "",
		"database.type":                   "postgres",
		"database.dsn":                    "",
		"database.max_open_conns":         10,
		"database.max_idle_conns":         5,
		"database.auto_migrate":           true,
		"monsoon.start_month_day":         "09-01",
		"monsoon.dry_threshold_mm":        "2.5",
		"monsoon.dry_run_days":            5,
		"climatology.exclude_focal":       true,
		"climatology.cache_size":          64,
		"aggregation.default_granularity": string(aggregation.Monthly),
		"metrics.enabled":                 true,
		"metrics.path":                    "/metrics",
	}
	for key, value := range defaults {
		k.Set(key, value)
	}

	if configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file: %w", err)
		}
	}

	if err := k.Load(env.Provider(envPrefix, ".", func(s string) string {
		return strings.Replace(strings.ToLower(strings.TrimPrefix(s, envPrefix)), "__", ".", -1)
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

package config

import (
	"fmt"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config holds all configuration for the testgen engine.
// Configuration can come from YAML file (config.yaml) or environment variables.
// Environment variables always override YAML values for fields that support both.
// Secrets (passwords, keys) must only come from environment variables.
type Config struct {
	Env     string `yaml:"env" env:"ENVIRONMENT" env-default:"local"`
	Version string `yaml:"-"` // Set at load time, not from config

	// Metadata store configuration (PostgreSQL)
	Database DatabaseConfig `yaml:"database"`

	// Profiling defaults applied when a connection leaves them unset
	Profiling ProfilingConfig `yaml:"profiling"`
}

// DatabaseConfig holds metadata-store PostgreSQL configuration.
type DatabaseConfig struct {
	Host           string `yaml:"host" env:"PGHOST" env-default:"localhost"`
	Port           int    `yaml:"port" env:"PGPORT" env-default:"5432"`
	User           string `yaml:"user" env:"PGUSER" env-default:"testgen"`
	Password       string `yaml:"-" env:"PGPASSWORD"` // Secret - not in YAML
	Database       string `yaml:"database" env:"PGDATABASE" env-default:"testgen"`
	MaxConnections int32  `yaml:"max_connections" env:"PGMAX_CONNECTIONS" env-default:"25"`
	SSLMode        string `yaml:"ssl_mode" env:"PGSSLMODE" env-default:"disable"`
	MigrationsPath string `yaml:"migrations_path" env:"PGMIGRATIONS_PATH" env-default:"migrations"`
}

// ProfilingConfig holds engine-level profiling defaults.
type ProfilingConfig struct {
	// MaxThreads is the default worker count for target-DB query dispatch
	// when the connection does not specify one. Capped at 8.
	MaxThreads int `yaml:"max_threads" env:"PROFILING_MAX_THREADS" env-default:"4"`
	// MaxQueryChars bounds the length of any single generated query.
	MaxQueryChars int `yaml:"max_query_chars" env:"PROFILING_MAX_QUERY_CHARS" env-default:"9000"`
	// ContingencyThreshold is the default association-rule ratio threshold.
	ContingencyThreshold float64 `yaml:"contingency_threshold" env:"PROFILING_CONTINGENCY_THRESHOLD" env-default:"0.95"`
	// ContingencyMaxValues is the distinct-value ceiling for pair analysis.
	ContingencyMaxValues int `yaml:"contingency_max_values" env:"PROFILING_CONTINGENCY_MAX_VALUES" env-default:"6"`
}

// Load reads configuration from config.yaml with environment variable overrides.
// The version parameter is injected at build time and set on the returned Config.
// Secrets (PGPASSWORD) must come from environment variables (yaml:"-" fields).
func Load(version string) (*Config, error) {
	cfg := &Config{
		Version: version,
	}

	if err := cleanenv.ReadConfig("config.yaml", cfg); err != nil {
		return nil, fmt.Errorf("failed to read config.yaml: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// LoadFromEnv reads configuration from environment variables only.
// Used by CLI invocations that run outside a deployment directory.
func LoadFromEnv(version string) (*Config, error) {
	cfg := &Config{
		Version: version,
	}

	if err := cleanenv.ReadEnv(cfg); err != nil {
		return nil, fmt.Errorf("failed to read environment: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

func (c *Config) validate() error {
	if c.Profiling.MaxThreads < 1 {
		c.Profiling.MaxThreads = 1
	}
	if c.Profiling.MaxThreads > 8 {
		c.Profiling.MaxThreads = 8
	}
	if c.Profiling.MaxQueryChars < 1000 {
		return fmt.Errorf("max_query_chars must be at least 1000, got %d", c.Profiling.MaxQueryChars)
	}
	if c.Profiling.ContingencyThreshold <= 0 || c.Profiling.ContingencyThreshold > 1 {
		return fmt.Errorf("contingency_threshold must be in (0,1], got %f", c.Profiling.ContingencyThreshold)
	}
	return nil
}

// ConnectionString returns a PostgreSQL connection string for the metadata store.
func (c *DatabaseConfig) ConnectionString() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Database, c.SSLMode,
	)
}

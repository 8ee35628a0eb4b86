// Package config provides the application configuration: store location,
// logging, HTTP server, ingestion source, cache and background jobs.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// LogConfig controls the structured logger.
type LogConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn or error
	Format string `yaml:"format"` // text or json
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Addr         string  `yaml:"addr"`
	RateLimit    float64 `yaml:"rate_limit"` // Requests per second per client; 0 disables limiting
	RateBurst    int     `yaml:"rate_burst"`
	MaxBodyBytes int64   `yaml:"max_body_bytes"`
}

// SourceConfig selects where rebuilds read classifier tables from.
type SourceConfig struct {
	Driver string `yaml:"driver"` // sqlite, postgres or csv
	DSN    string `yaml:"dsn"`    // Database connection string for sqlite and postgres
	Dir    string `yaml:"dir"`    // Directory with KLADR.csv, STREET.csv and SOCRBASE.csv for csv
}

// CacheConfig enables the Redis cache in front of code lookups.
type CacheConfig struct {
	RedisAddr     string        `yaml:"redis_addr"` // Empty disables the cache
	RedisPassword string        `yaml:"redis_password"`
	RedisDB       int           `yaml:"redis_db"`
	TTL           time.Duration `yaml:"ttl"`
	Prefix        string        `yaml:"prefix"`
}

// JobsConfig configures background rebuilds.
type JobsConfig struct {
	MaxWorkers int `yaml:"max_workers"`
}

// Config is the root application configuration.
type Config struct {
	DataDir string       `yaml:"data_dir"` // Directory holding the address store and reduction table
	Log     LogConfig    `yaml:"log"`
	Server  ServerConfig `yaml:"server"`
	Source  SourceConfig `yaml:"source"`
	Cache   CacheConfig  `yaml:"cache"`
	Jobs    JobsConfig   `yaml:"jobs"`
}

// Supported source drivers.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverCSV      = "csv"
)

// Default returns a configuration with every default applied.
func Default() *Config {
	cfg := &Config{}
	cfg.ApplyDefaults()
	return cfg
}

// ApplyDefaults fills zero values with defaults.
func (c *Config) ApplyDefaults() {
	if c.DataDir == "" {
		c.DataDir = "./data"
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}
	if c.Server.Addr == "" {
		c.Server.Addr = ":8080"
	}
	if c.Server.RateBurst == 0 {
		c.Server.RateBurst = 20
	}
	if c.Server.MaxBodyBytes == 0 {
		c.Server.MaxBodyBytes = 1 << 20
	}
	if c.Source.Driver == "" {
		c.Source.Driver = DriverCSV
	}
	if c.Cache.TTL == 0 {
		c.Cache.TTL = time.Hour
	}
	if c.Cache.Prefix == "" {
		c.Cache.Prefix = "ruaddress"
	}
	if c.Jobs.MaxWorkers == 0 {
		c.Jobs.MaxWorkers = 1
	}
}

// Validate returns a list of configuration problems; empty means valid.
func (c *Config) Validate() []string {
	var problems []string

	if strings.TrimSpace(c.DataDir) == "" {
		problems = append(problems, "data_dir cannot be empty")
	}
	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "warning", "error":
	default:
		problems = append(problems, fmt.Sprintf("log.level '%s' is not one of debug, info, warn, error", c.Log.Level))
	}
	switch strings.ToLower(c.Log.Format) {
	case "text", "json":
	default:
		problems = append(problems, fmt.Sprintf("log.format '%s' is not one of text, json", c.Log.Format))
	}
	switch c.Source.Driver {
	case DriverSQLite, DriverPostgres:
		if c.Source.DSN == "" {
			problems = append(problems, fmt.Sprintf("source.dsn is required for driver '%s'", c.Source.Driver))
		}
	case DriverCSV:
	default:
		problems = append(problems, fmt.Sprintf("source.driver '%s' is not one of sqlite, postgres, csv", c.Source.Driver))
	}
	if c.Server.RateLimit < 0 {
		problems = append(problems, "server.rate_limit cannot be negative")
	}
	if c.Server.MaxBodyBytes < 0 {
		problems = append(problems, "server.max_body_bytes cannot be negative")
	}
	if c.Jobs.MaxWorkers < 0 {
		problems = append(problems, "jobs.max_workers cannot be negative")
	}
	if c.Cache.RedisDB < 0 {
		problems = append(problems, "cache.redis_db cannot be negative")
	}
	return problems
}

// Load reads configuration from a YAML file, applies environment overrides
// and defaults. A missing file yields defaults plus overrides.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if path != "" {
		data, err := os.ReadFile(path) // #nosec G304 -- config path is supplied by the operator
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("failed to read config %s: %w", path, err)
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
			}
		}
	}
	if err := cfg.applyEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	cfg.ApplyDefaults()
	if problems := cfg.Validate(); len(problems) > 0 {
		return nil, fmt.Errorf("invalid configuration: %s", strings.Join(problems, "; "))
	}
	return cfg, nil
}

// applyEnv overrides fields from environment variables.
func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok && v != "" {
			*dst = v
		}
	}
	str("RUADDRESS_DATA_DIR", &c.DataDir)
	str("LOG_LEVEL", &c.Log.Level)
	str("LOG_FORMAT", &c.Log.Format)
	str("RUADDRESS_ADDR", &c.Server.Addr)
	str("RUADDRESS_SOURCE_DRIVER", &c.Source.Driver)
	str("RUADDRESS_SOURCE_DSN", &c.Source.DSN)
	str("RUADDRESS_SOURCE_DIR", &c.Source.Dir)
	str("REDIS_ADDR", &c.Cache.RedisAddr)
	str("REDIS_PASSWORD", &c.Cache.RedisPassword)

	if v, ok := lookup("REDIS_DB"); ok && v != "" {
		db, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid REDIS_DB '%s': %w", v, err)
		}
		c.Cache.RedisDB = db
	}
	return nil
}

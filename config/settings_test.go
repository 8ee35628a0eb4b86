package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Equal(t, "./data", cfg.DataDir)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "text", cfg.Log.Format)
	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, DriverCSV, cfg.Source.Driver)
	assert.Equal(t, time.Hour, cfg.Cache.TTL)
	assert.Equal(t, 1, cfg.Jobs.MaxWorkers)
	assert.Empty(t, cfg.Validate())
}

func TestLoadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
data_dir: /var/lib/ruaddress
log:
  level: debug
  format: json
server:
  addr: ":9090"
  rate_limit: 5
source:
  driver: sqlite
  dsn: /tmp/kladr.db
cache:
  redis_addr: localhost:6379
  ttl: 10m
`), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/var/lib/ruaddress", cfg.DataDir)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, ":9090", cfg.Server.Addr)
	assert.InDelta(t, 5.0, cfg.Server.RateLimit, 1e-9)
	assert.Equal(t, 20, cfg.Server.RateBurst)
	assert.Equal(t, DriverSQLite, cfg.Source.Driver)
	assert.Equal(t, 10*time.Minute, cfg.Cache.TTL)
	assert.Equal(t, "ruaddress", cfg.Cache.Prefix)
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default().DataDir, cfg.DataDir)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("RUADDRESS_DATA_DIR", "/srv/index")
	t.Setenv("LOG_LEVEL", "warn")
	t.Setenv("REDIS_ADDR", "redis:6379")
	t.Setenv("REDIS_DB", "3")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "/srv/index", cfg.DataDir)
	assert.Equal(t, "warn", cfg.Log.Level)
	assert.Equal(t, "redis:6379", cfg.Cache.RedisAddr)
	assert.Equal(t, 3, cfg.Cache.RedisDB)

	t.Setenv("REDIS_DB", "three")
	_, err = Load("")
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	cfg := Default()
	cfg.Log.Level = "verbose"
	cfg.Log.Format = "xml"
	cfg.Source.Driver = DriverPostgres
	cfg.Server.RateLimit = -1

	problems := cfg.Validate()
	assert.Len(t, problems, 4)
	assert.Contains(t, problems, "source.dsn is required for driver 'postgres'")

	cfg = Default()
	cfg.Source.Driver = "oracle"
	assert.Len(t, cfg.Validate(), 1)
}

func TestLoadRejectsInvalidConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("source:\n  driver: postgres\n"), 0o600))

	_, err := Load(path)
	assert.ErrorContains(t, err, "source.dsn is required")

	require.NoError(t, os.WriteFile(path, []byte("log: [unclosed"), 0o600))
	_, err = Load(path)
	assert.ErrorContains(t, err, "failed to parse config")
}

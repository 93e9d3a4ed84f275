package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func writeYAML(t *testing.T, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(p, []byte(body), 0o600))
	return p
}

func TestDefault(t *testing.T) {
	c, err := Default()
	require.NoError(t, err)
	require.Equal(t, "dev", c.App.Env)
	require.Equal(t, "sqlite", c.Storage.Driver)
	require.Equal(t, "lobby.db", c.Storage.DSN)
	require.Equal(t, "memory", c.Cache.Kind)
	require.Equal(t, 2*time.Minute, c.MemoryTTL())
	require.False(t, c.Flags.Migrate)

	ac := c.AdapterConfig()
	require.Equal(t, "sqlite", ac.Name)
	require.Equal(t, 30*time.Minute, ac.ConnMaxLifetime)
	require.Equal(t, 10, ac.MaxOpenConns)
}

func TestLoadYAML(t *testing.T) {
	p := writeYAML(t, `
app:
  app_env: prod
  log_level: warn
storage:
  driver: postgres
  dsn: postgres://lobby@localhost/lobby
  max_open_conns: 25
  conn_max_lifetime: 1h
cache:
  kind: redis
  redis:
    addr: redis:6379
    db: 3
flags:
  migrate: true
`)
	c, err := Load(p)
	require.NoError(t, err)
	require.Equal(t, "prod", c.App.Env)
	require.Equal(t, "warn", c.App.LogLevel)
	require.Equal(t, "postgres", c.Storage.Driver)
	require.Equal(t, 25, c.Storage.MaxOpenConns)
	require.Equal(t, 2, c.Storage.MaxIdleConns)
	require.Equal(t, time.Hour, c.AdapterConfig().ConnMaxLifetime)
	require.Equal(t, "redis:6379", c.Cache.Redis.Addr)
	require.Equal(t, 3, c.Cache.Redis.DB)
	require.Equal(t, "lobby:", c.Cache.Redis.Prefix)
	require.True(t, c.Flags.Migrate)
}

func TestEnvOverrides(t *testing.T) {
	p := writeYAML(t, `
storage:
  driver: postgres
  dsn: postgres://file
`)
	t.Setenv("STORAGE_DRIVER", " MySQL ")
	t.Setenv("STORAGE_DSN", "lobby:pw@tcp(db:3306)/lobby")
	t.Setenv("STORAGE_MAX_OPEN_CONNS", "4")
	t.Setenv("STORAGE_CONN_MAX_LIFETIME", "90s")
	t.Setenv("CACHE_KIND", "redis")
	t.Setenv("REDIS_PASSWORD", "s3cret")
	t.Setenv("REDIS_DB", "not-a-number")
	t.Setenv("FLAGS_MIGRATE", "true")

	c, err := Load(p)
	require.NoError(t, err)
	require.Equal(t, "mysql", c.Storage.Driver)
	require.Equal(t, "lobby:pw@tcp(db:3306)/lobby", c.Storage.DSN)
	require.Equal(t, 4, c.Storage.MaxOpenConns)
	require.Equal(t, 90*time.Second, c.AdapterConfig().ConnMaxLifetime)
	require.Equal(t, "redis", c.Cache.Kind)
	require.Equal(t, "s3cret", c.Cache.Redis.Password)
	require.Equal(t, 0, c.Cache.Redis.DB, "unparsable ints are ignored")
	require.True(t, c.Flags.Migrate)
}

func TestValidate(t *testing.T) {
	cases := map[string]string{
		"unknown driver": "storage:\n  driver: oracle\n  dsn: x\n",
		"missing dsn":    "storage:\n  driver: postgres\n",
		"bad lifetime":   "storage:\n  conn_max_lifetime: forever\n",
		"bad cache kind": "cache:\n  kind: memcached\n",
		"bad ttl":        "cache:\n  memory:\n    default_ttl: soon\n",
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Load(writeYAML(t, body))
			require.Error(t, err)
		})
	}

	c, err := Load(writeYAML(t, "storage:\n  driver: noop\n"))
	require.NoError(t, err)
	require.Empty(t, c.Storage.DSN)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.ErrorIs(t, err, os.ErrNotExist)
}

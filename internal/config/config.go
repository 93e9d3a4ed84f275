package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/dropDatabas3/gamelobby/internal/store"
)

type Config struct {
	// Bloque app (opcional en YAML).
	App struct {
		// dev | staging | prod
		Env      string `yaml:"app_env"`
		LogLevel string `yaml:"log_level"`
	} `yaml:"app"`

	Storage struct {
		// postgres | sqlite | mysql | noop
		Driver          string `yaml:"driver"`
		DSN             string `yaml:"dsn"`
		MaxOpenConns    int    `yaml:"max_open_conns"`
		MaxIdleConns    int    `yaml:"max_idle_conns"`
		ConnMaxLifetime string `yaml:"conn_max_lifetime"`
	} `yaml:"storage"`

	Cache struct {
		// memory | redis
		Kind  string `yaml:"kind"`
		Redis struct {
			Addr     string `yaml:"addr"`
			Password string `yaml:"password"`
			DB       int    `yaml:"db"`
			Prefix   string `yaml:"prefix"`
		} `yaml:"redis"`
		Memory struct {
			DefaultTTL string `yaml:"default_ttl"`
		} `yaml:"memory"`
	} `yaml:"cache"`

	Flags struct {
		// Aplica las migraciones embebidas al abrir el store.
		Migrate bool `yaml:"migrate"`
	} `yaml:"flags"`
}

var (
	knownDrivers    = []string{"postgres", "sqlite", "mysql", "noop"}
	knownCacheKinds = []string{"memory", "redis"}
)

// Default retorna una config sin archivo: defaults + variables de entorno.
func Default() (*Config, error) {
	var c Config
	return c.finish()
}

// Load lee el YAML en path. Con path vacío equivale a Default.
func Load(path string) (*Config, error) {
	if path == "" {
		return Default()
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	return c.finish()
}

func (c *Config) finish() (*Config, error) {
	c.applyEnvOverrides()
	c.applyDefaults()
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Config) applyDefaults() {
	// sane defaults
	if c.App.Env == "" {
		c.App.Env = "dev"
	}
	if c.App.LogLevel == "" {
		c.App.LogLevel = "info"
	}
	if c.Storage.Driver == "" {
		c.Storage.Driver = "sqlite"
	}
	if c.Storage.Driver == "sqlite" && c.Storage.DSN == "" {
		c.Storage.DSN = "lobby.db"
	}
	if c.Storage.MaxOpenConns == 0 {
		c.Storage.MaxOpenConns = 10
	}
	if c.Storage.MaxIdleConns == 0 {
		c.Storage.MaxIdleConns = 2
	}
	if c.Storage.ConnMaxLifetime == "" {
		c.Storage.ConnMaxLifetime = "30m"
	}
	if c.Cache.Kind == "" {
		c.Cache.Kind = "memory"
	}
	if c.Cache.Redis.Addr == "" {
		c.Cache.Redis.Addr = "localhost:6379"
	}
	if c.Cache.Redis.Prefix == "" {
		c.Cache.Redis.Prefix = "lobby:"
	}
	if c.Cache.Memory.DefaultTTL == "" {
		c.Cache.Memory.DefaultTTL = "2m"
	}
}

// Validate rechaza drivers desconocidos, DSN faltantes y duraciones inválidas.
func (c *Config) Validate() error {
	var errs []error
	if !contains(knownDrivers, c.Storage.Driver) {
		errs = append(errs, fmt.Errorf("storage.driver %q must be one of %s", c.Storage.Driver, strings.Join(knownDrivers, "|")))
	}
	if c.Storage.Driver != "noop" && c.Storage.DSN == "" {
		errs = append(errs, fmt.Errorf("storage.dsn is required for driver %q", c.Storage.Driver))
	}
	if c.Storage.MaxOpenConns < 0 || c.Storage.MaxIdleConns < 0 {
		errs = append(errs, errors.New("storage pool sizes must not be negative"))
	}
	if _, err := time.ParseDuration(c.Storage.ConnMaxLifetime); err != nil {
		errs = append(errs, fmt.Errorf("storage.conn_max_lifetime: %w", err))
	}
	if !contains(knownCacheKinds, c.Cache.Kind) {
		errs = append(errs, fmt.Errorf("cache.kind %q must be one of %s", c.Cache.Kind, strings.Join(knownCacheKinds, "|")))
	}
	if _, err := time.ParseDuration(c.Cache.Memory.DefaultTTL); err != nil {
		errs = append(errs, fmt.Errorf("cache.memory.default_ttl: %w", err))
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return nil
}

// AdapterConfig arma la config del adapter de storage.
// Llamar solo sobre una config validada.
func (c *Config) AdapterConfig() store.AdapterConfig {
	lifetime, _ := time.ParseDuration(c.Storage.ConnMaxLifetime)
	return store.AdapterConfig{
		Name:            c.Storage.Driver,
		DSN:             c.Storage.DSN,
		MaxOpenConns:    c.Storage.MaxOpenConns,
		MaxIdleConns:    c.Storage.MaxIdleConns,
		ConnMaxLifetime: lifetime,
	}
}

// MemoryTTL retorna el TTL por defecto del cache en memoria.
func (c *Config) MemoryTTL() time.Duration {
	d, _ := time.ParseDuration(c.Cache.Memory.DefaultTTL)
	return d
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

func getEnvStr(key string) (string, bool) {
	v := os.Getenv(key)
	return v, v != ""
}

func getEnvInt(key string) (int, bool) {
	if s, ok := getEnvStr(key); ok {
		if i, err := strconv.Atoi(strings.TrimSpace(s)); err == nil {
			return i, true
		}
	}
	return 0, false
}

func getEnvBool(key string) (bool, bool) {
	if s, ok := getEnvStr(key); ok {
		if b, err := strconv.ParseBool(strings.TrimSpace(s)); err == nil {
			return b, true
		}
	}
	return false, false
}

// applyEnvOverrides: pisa config.yaml con variables de entorno.
// Las duraciones se copian como string y se validan en Validate.
func (c *Config) applyEnvOverrides() {
	// APP
	if v, ok := getEnvStr("APP_ENV"); ok {
		c.App.Env = v
	}
	if v, ok := getEnvStr("LOG_LEVEL"); ok {
		c.App.LogLevel = v
	}

	// STORAGE
	if v, ok := getEnvStr("STORAGE_DRIVER"); ok {
		c.Storage.Driver = strings.ToLower(strings.TrimSpace(v))
	}
	if v, ok := getEnvStr("STORAGE_DSN"); ok {
		c.Storage.DSN = v
	}
	if v, ok := getEnvInt("STORAGE_MAX_OPEN_CONNS"); ok {
		c.Storage.MaxOpenConns = v
	}
	if v, ok := getEnvInt("STORAGE_MAX_IDLE_CONNS"); ok {
		c.Storage.MaxIdleConns = v
	}
	if v, ok := getEnvStr("STORAGE_CONN_MAX_LIFETIME"); ok {
		c.Storage.ConnMaxLifetime = strings.TrimSpace(v)
	}

	// CACHE
	if v, ok := getEnvStr("CACHE_KIND"); ok {
		c.Cache.Kind = strings.ToLower(strings.TrimSpace(v))
	}
	if v, ok := getEnvStr("REDIS_ADDR"); ok {
		c.Cache.Redis.Addr = v
	}
	if v, ok := getEnvStr("REDIS_PASSWORD"); ok {
		c.Cache.Redis.Password = v
	}
	if v, ok := getEnvInt("REDIS_DB"); ok {
		c.Cache.Redis.DB = v
	}
	if v, ok := getEnvStr("REDIS_PREFIX"); ok {
		c.Cache.Redis.Prefix = v
	}
	if v, ok := getEnvStr("CACHE_MEMORY_DEFAULT_TTL"); ok {
		c.Cache.Memory.DefaultTTL = strings.TrimSpace(v)
	}

	// FLAGS
	if v, ok := getEnvBool("FLAGS_MIGRATE"); ok {
		c.Flags.Migrate = v
	}
}

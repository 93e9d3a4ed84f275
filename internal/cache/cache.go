// Package cache provee un cliente key/value con TTL sobre memoria o Redis.
// Lo usa la lista de revocación de tokens.
package cache

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// Client define las operaciones de cache.
type Client interface {
	// Get obtiene un valor. Retorna ErrNotFound si no existe o expiró.
	Get(ctx context.Context, key string) (string, error)

	// Set guarda un valor con TTL. Si ttl es 0 usa el default del backend
	// (memory) o no expira (redis).
	Set(ctx context.Context, key, value string, ttl time.Duration) error

	// Delete elimina una key. Borrar una key inexistente no es error.
	Delete(ctx context.Context, key string) error

	// Exists verifica si una key existe.
	Exists(ctx context.Context, key string) (bool, error)

	// Ping verifica la conexión.
	Ping(ctx context.Context) error

	// Close cierra la conexión.
	Close() error
}

// Config configuración para crear un cliente de cache.
type Config struct {
	Kind       string // "memory" | "redis"
	Addr       string // host:port de Redis
	Password   string
	DB         int
	Prefix     string        // prefijo para todas las keys
	DefaultTTL time.Duration // solo memory
}

// ErrNotFound indica que la key no existe.
var ErrNotFound = errors.New("cache: key not found")

// IsNotFound verifica si el error es porque la key no existe.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// New crea un cliente de cache según la configuración.
// Para redis verifica la conexión antes de retornar.
func New(ctx context.Context, cfg Config) (Client, error) {
	switch cfg.Kind {
	case "redis":
		return NewRedis(ctx, cfg)
	case "memory", "":
		return NewMemory(cfg.Prefix, cfg.DefaultTTL), nil
	default:
		return nil, fmt.Errorf("cache: unknown kind %q", cfg.Kind)
	}
}

func prefixed(prefix, k string) string {
	return prefix + k
}

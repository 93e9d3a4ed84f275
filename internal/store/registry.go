// Package store provee el registry de adaptadores de base de datos.
package store

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/dropDatabas3/gamelobby/internal/domain/repository"
)

// Adapter representa un adaptador de base de datos capaz de crear repositorios.
type Adapter interface {
	// Name retorna el nombre del adapter (ej: "postgres", "sqlite", "mysql").
	Name() string

	// Connect establece conexión con el almacenamiento.
	Connect(ctx context.Context, cfg AdapterConfig) (AdapterConnection, error)
}

// AdapterConnection representa una conexión activa.
// Provee acceso a los repositorios implementados por el adapter.
type AdapterConnection interface {
	// Name retorna el nombre del adapter.
	Name() string

	// Ping verifica la conexión.
	Ping(ctx context.Context) error

	// Close cierra la conexión.
	Close() error

	// ─── Repositorios ───

	Users() repository.UserRepository
	Games() repository.GameRepository
	Parties() repository.PartyRepository
}

// AdapterConfig configuración para conectar a un almacenamiento.
type AdapterConfig struct {
	// Name del adapter: "postgres", "sqlite", "mysql", "noop"
	Name string

	// DSN connection string. Para sqlite es el path del archivo.
	DSN string

	// Pool settings
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// ─── Registry Global ───

var (
	registryMu sync.RWMutex
	adapters   = make(map[string]Adapter)
)

// RegisterAdapter registra un adapter en el registry global.
// Llamar en init() de cada adapter.
func RegisterAdapter(a Adapter) {
	registryMu.Lock()
	defer registryMu.Unlock()

	name := a.Name()
	if _, exists := adapters[name]; exists {
		panic(fmt.Sprintf("adapter: %q already registered", name))
	}
	adapters[name] = a
}

// GetAdapter obtiene un adapter por nombre.
func GetAdapter(name string) (Adapter, bool) {
	registryMu.RLock()
	defer registryMu.RUnlock()
	a, ok := adapters[name]
	return a, ok
}

// ListAdapters retorna los nombres de todos los adapters registrados, ordenados.
func ListAdapters() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()

	names := make([]string, 0, len(adapters))
	for name := range adapters {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// OpenAdapter abre una conexión usando el adapter especificado en la config.
func OpenAdapter(ctx context.Context, cfg AdapterConfig) (AdapterConnection, error) {
	a, ok := GetAdapter(cfg.Name)
	if !ok {
		return nil, fmt.Errorf("adapter: %q not registered", cfg.Name)
	}
	return a.Connect(ctx, cfg)
}

// Package sqlite implementa el adapter SQLite embebido del store.
// Usa modernc.org/sqlite (Go puro, sin cgo) sobre database/sql.
//
// DSN: path del archivo (ej: ./data/lobby.db) o ":memory:".
// El adapter agrega los pragmas necesarios: foreign_keys, busy_timeout,
// journal_mode=WAL y _txlock=immediate para serializar escritores.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	_ "modernc.org/sqlite"

	"github.com/dropDatabas3/gamelobby/internal/store"
	"github.com/dropDatabas3/gamelobby/internal/store/adapters/sqldb"
	"github.com/dropDatabas3/gamelobby/migrations"
)

func init() {
	store.RegisterAdapter(&sqliteAdapter{})
}

// dsnPragmas se agregan a todo DSN.
const dsnPragmas = "_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_txlock=immediate"

// dialect de SQLite: BEGIN IMMEDIATE toma el lock de escritura al abrir la
// transacción, así que no hace falta FOR UPDATE (SQLite no lo soporta).
var dialect = sqldb.Dialect{
	Name:     "sqlite",
	Classify: classify,
}

// sqliteAdapter implementa store.Adapter para SQLite.
type sqliteAdapter struct{}

func (a *sqliteAdapter) Name() string { return "sqlite" }

func (a *sqliteAdapter) Connect(ctx context.Context, cfg store.AdapterConfig) (store.AdapterConnection, error) {
	if cfg.DSN == "" {
		return nil, errors.New("sqlite: DSN is required")
	}

	db, err := sql.Open("sqlite", buildDSN(cfg.DSN))
	if err != nil {
		return nil, fmt.Errorf("sqlite: open: %w", err)
	}

	// Una base en memoria vive dentro de una única conexión.
	if isMemory(cfg.DSN) {
		db.SetMaxOpenConns(1)
	} else if cfg.MaxOpenConns > 0 {
		db.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		db.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	if cfg.ConnMaxLifetime > 0 && !isMemory(cfg.DSN) {
		db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlite: ping failed: %w", err)
	}

	return sqldb.NewConnection(db, dialect, migrations.SQLite()), nil
}

// buildDSN agrega los pragmas del adapter al DSN del usuario.
func buildDSN(dsn string) string {
	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	return dsn + sep + dsnPragmas
}

func isMemory(dsn string) bool {
	return strings.HasPrefix(dsn, ":memory:") || strings.Contains(dsn, "mode=memory")
}

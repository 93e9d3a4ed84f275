// Package sqldb implementa los repositorios del lobby sobre database/sql.
// Lo comparten los adapters sqlite y mysql; cada uno aporta su Dialect.
package sqldb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"

	"github.com/dropDatabas3/gamelobby/internal/domain/repository"
	"github.com/dropDatabas3/gamelobby/internal/store"
)

// Dialect describe las diferencias de motor que importan a los repositorios.
type Dialect struct {
	// Name del adapter, también usado como prefijo de errores.
	Name string

	// TxOptions para transacciones de escritura (nil = default del driver).
	TxOptions *sql.TxOptions

	// ForUpdate sufijo de lock de fila (" FOR UPDATE" o vacío si el motor
	// serializa escritores al abrir la transacción).
	ForUpdate string

	// Classify traduce errores del driver a la taxonomía de repository.
	Classify func(error) error
}

// Connection implementa store.AdapterConnection y store.MigratableConnection
// sobre un *sql.DB.
type Connection struct {
	db         *sql.DB
	dialect    Dialect
	migrations fs.FS
}

var (
	_ store.AdapterConnection    = (*Connection)(nil)
	_ store.MigratableConnection = (*Connection)(nil)
)

// NewConnection envuelve db. La Connection toma posesión de db.
func NewConnection(db *sql.DB, d Dialect, migrations fs.FS) *Connection {
	if d.Classify == nil {
		d.Classify = func(err error) error { return err }
	}
	return &Connection{db: db, dialect: d, migrations: migrations}
}

func (c *Connection) Name() string { return c.dialect.Name }

func (c *Connection) Ping(ctx context.Context) error {
	return c.db.PingContext(ctx)
}

func (c *Connection) Close() error {
	return c.db.Close()
}

// DB expone el *sql.DB subyacente (tests y tooling).
func (c *Connection) DB() *sql.DB { return c.db }

// ─── Repositorios ───

func (c *Connection) Users() repository.UserRepository    { return &userRepo{c} }
func (c *Connection) Games() repository.GameRepository    { return &gameRepo{c} }
func (c *Connection) Parties() repository.PartyRepository { return &partyRepo{c} }

// ─── Migraciones ───

// GetMigrationExecutor implementa store.MigratableConnection.
func (c *Connection) GetMigrationExecutor() store.SQLExecutor { return c.db }

// Migrations implementa store.MigratableConnection.
func (c *Connection) Migrations() fs.FS { return c.migrations }

// ─── Helpers ───

// withTx ejecuta fn en una transacción de escritura.
// Cualquier error (o panic) deja la base como estaba.
func (c *Connection) withTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := c.db.BeginTx(ctx, c.dialect.TxOptions)
	if err != nil {
		return err
	}
	defer tx.Rollback() //nolint:errcheck

	if err := fn(tx); err != nil {
		return err
	}
	return tx.Commit()
}

// wrap clasifica err y le agrega el prefijo "<driver>: <op>".
func (c *Connection) wrap(op string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %s: %w", c.dialect.Name, op, c.classify(err))
}

func (c *Connection) classify(err error) error {
	if repository.IsTaxonomy(err) {
		return err
	}
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%w: %w", repository.ErrNotFound, err)
	}
	return c.dialect.Classify(err)
}

// exists corre una query "SELECT 1 ..." y reporta si devolvió alguna fila.
func exists(ctx context.Context, tx *sql.Tx, query string, args ...any) (bool, error) {
	var one int
	err := tx.QueryRowContext(ctx, query, args...).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	return err == nil, err
}

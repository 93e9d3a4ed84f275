// Package pg implementa el adapter PostgreSQL del store.
// Usa pgxpool directamente; las migraciones corren sobre database/sql vía pgx/stdlib.
package pg

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"sync"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"

	"github.com/dropDatabas3/gamelobby/internal/domain/repository"
	"github.com/dropDatabas3/gamelobby/internal/store"
	"github.com/dropDatabas3/gamelobby/migrations"
)

func init() {
	store.RegisterAdapter(&postgresAdapter{})
}

// txOptions aplica a toda transacción de escritura.
var txOptions = pgx.TxOptions{IsoLevel: pgx.Serializable}

// postgresAdapter implementa store.Adapter para PostgreSQL.
type postgresAdapter struct{}

func (a *postgresAdapter) Name() string { return "postgres" }

func (a *postgresAdapter) Connect(ctx context.Context, cfg store.AdapterConfig) (store.AdapterConnection, error) {
	if cfg.DSN == "" {
		return nil, errors.New("pg: DSN is required")
	}

	poolCfg, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("pg: parse DSN: %w", err)
	}

	// Configurar pool
	if cfg.MaxOpenConns > 0 {
		poolCfg.MaxConns = int32(cfg.MaxOpenConns)
	} else {
		poolCfg.MaxConns = 10
	}
	if cfg.MaxIdleConns > 0 {
		poolCfg.MinConns = int32(cfg.MaxIdleConns)
	}
	if cfg.ConnMaxLifetime > 0 {
		poolCfg.MaxConnLifetime = cfg.ConnMaxLifetime
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("pg: create pool: %w", err)
	}

	// Verificar conexión
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pg: ping failed: %w", err)
	}

	return &pgConnection{pool: pool}, nil
}

// pgConnection representa una conexión activa a PostgreSQL.
type pgConnection struct {
	pool *pgxpool.Pool

	sqlOnce sync.Once
	sqlDB   *sql.DB
}

func (c *pgConnection) Name() string { return "postgres" }

func (c *pgConnection) Ping(ctx context.Context) error {
	return c.pool.Ping(ctx)
}

func (c *pgConnection) Close() error {
	var err error
	if c.sqlDB != nil {
		err = c.sqlDB.Close()
	}
	c.pool.Close()
	return err
}

// ─── Repositorios ───

func (c *pgConnection) Users() repository.UserRepository    { return &userRepo{pool: c.pool} }
func (c *pgConnection) Games() repository.GameRepository    { return &gameRepo{pool: c.pool} }
func (c *pgConnection) Parties() repository.PartyRepository { return &partyRepo{pool: c.pool} }

// ─── Migraciones ───

// GetMigrationExecutor implementa store.MigratableConnection.
// Comparte el pool de pgx a través de database/sql.
func (c *pgConnection) GetMigrationExecutor() store.SQLExecutor {
	c.sqlOnce.Do(func() {
		c.sqlDB = stdlib.OpenDBFromPool(c.pool)
	})
	return c.sqlDB
}

// Migrations implementa store.MigratableConnection.
func (c *pgConnection) Migrations() fs.FS { return migrations.Postgres() }

// Pool expone el pool subyacente (tests y tooling).
func (c *pgConnection) Pool() *pgxpool.Pool { return c.pool }

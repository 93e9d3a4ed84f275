// Package mysql implementa el adapter MySQL del store.
// Usa database/sql con github.com/go-sql-driver/mysql y comparte los
// repositorios de sqldb con el adapter SQLite.
//
// Requisitos:
//   - MySQL 8.0.16+ (CHECK constraints)
//   - DSN format: user:password@tcp(host:port)/database
package mysql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/go-sql-driver/mysql"

	"github.com/dropDatabas3/gamelobby/internal/store"
	"github.com/dropDatabas3/gamelobby/internal/store/adapters/sqldb"
	"github.com/dropDatabas3/gamelobby/migrations"
)

func init() {
	store.RegisterAdapter(&mysqlAdapter{})
}

// dialect de MySQL: transacciones SERIALIZABLE con lock de fila explícito.
var dialect = sqldb.Dialect{
	Name:      "mysql",
	TxOptions: &sql.TxOptions{Isolation: sql.LevelSerializable},
	ForUpdate: " FOR UPDATE",
	Classify:  classify,
}

// mysqlAdapter implementa store.Adapter para MySQL.
type mysqlAdapter struct{}

func (a *mysqlAdapter) Name() string { return "mysql" }

func (a *mysqlAdapter) Connect(ctx context.Context, cfg store.AdapterConfig) (store.AdapterConnection, error) {
	if cfg.DSN == "" {
		return nil, errors.New("mysql: DSN is required")
	}

	mcfg, err := mysql.ParseDSN(cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("mysql: parse DSN: %w", err)
	}
	connector, err := mysql.NewConnector(mcfg)
	if err != nil {
		return nil, fmt.Errorf("mysql: open: %w", err)
	}
	db := sql.OpenDB(connector)

	// Configurar pool de conexiones
	if cfg.MaxOpenConns > 0 {
		db.SetMaxOpenConns(cfg.MaxOpenConns)
	} else {
		db.SetMaxOpenConns(10)
	}
	if cfg.MaxIdleConns > 0 {
		db.SetMaxIdleConns(cfg.MaxIdleConns)
	} else {
		db.SetMaxIdleConns(2)
	}
	if cfg.ConnMaxLifetime > 0 {
		db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	} else {
		db.SetConnMaxLifetime(30 * time.Minute)
	}
	db.SetConnMaxIdleTime(5 * time.Minute)

	// Verificar conectividad
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("mysql: ping failed: %w", err)
	}

	return sqldb.NewConnection(db, dialect, migrations.MySQL()), nil
}

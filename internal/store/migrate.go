package store

import (
	"context"
	"database/sql"
	"fmt"
	"io/fs"
	"path"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"
)

// Las migraciones SQL se embeben en el binario (ver paquete migrations).
// Formato de archivo: {version}_{name}.sql (ej: 0001_lobby.sql)

// SQLExecutor interfaz mínima para aplicar migraciones (satisfecha por *sql.DB).
type SQLExecutor interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	BeginTx(ctx context.Context, opts *sql.TxOptions) (*sql.Tx, error)
}

// MigratableConnection interfaz opcional para conexiones que pueden ejecutar migraciones.
// Las conexiones de DB (postgres, sqlite, mysql) deben implementar esto.
type MigratableConnection interface {
	// GetMigrationExecutor retorna el ejecutor para migraciones.
	GetMigrationExecutor() SQLExecutor

	// Migrations retorna el FS con los .sql del engine (en la raíz del FS).
	Migrations() fs.FS
}

// Migrator aplica migraciones SQL a una base de datos.
type Migrator struct {
	migrationsFS  fs.FS
	migrationsDir string
}

// NewMigrator crea un nuevo Migrator.
func NewMigrator(migrationsFS fs.FS, migrationsDir string) *Migrator {
	if migrationsDir == "" {
		migrationsDir = "."
	}
	return &Migrator{
		migrationsFS:  migrationsFS,
		migrationsDir: migrationsDir,
	}
}

// Migration representa una migración individual.
type Migration struct {
	Version int
	Name    string
	SQL     string
}

// MigrationResult resultado de aplicar migraciones.
type MigrationResult struct {
	Applied  []int
	Skipped  []int
	Failed   *int
	Error    error
	Duration time.Duration
}

// migrationFilePattern patrón para nombres de archivo de migración.
var migrationFilePattern = regexp.MustCompile(`^(\d+)_(.+)\.sql$`)

// Migrate aplica las migraciones pendientes de conn si el adapter las soporta.
// Conexiones sin migraciones (noop) retornan un resultado vacío.
func Migrate(ctx context.Context, conn AdapterConnection) (*MigrationResult, error) {
	mc, ok := conn.(MigratableConnection)
	if !ok {
		return &MigrationResult{}, nil
	}
	return NewMigrator(mc.Migrations(), ".").Run(ctx, mc.GetMigrationExecutor(), conn.Name())
}

// ParseMigrations lee y parsea las migraciones del FS.
func (m *Migrator) ParseMigrations() ([]Migration, error) {
	var migrations []Migration

	err := fs.WalkDir(m.migrationsFS, m.migrationsDir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}

		matches := migrationFilePattern.FindStringSubmatch(path.Base(p))
		if matches == nil {
			return nil // Ignorar archivos que no coinciden
		}

		version, _ := strconv.Atoi(matches[1])
		content, err := fs.ReadFile(m.migrationsFS, p)
		if err != nil {
			return fmt.Errorf("reading %s: %w", p, err)
		}

		migrations = append(migrations, Migration{
			Version: version,
			Name:    matches[2],
			SQL:     string(content),
		})
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(migrations, func(i, j int) bool {
		return migrations[i].Version < migrations[j].Version
	})
	for i := 1; i < len(migrations); i++ {
		if migrations[i].Version == migrations[i-1].Version {
			return nil, fmt.Errorf("duplicate migration version %d", migrations[i].Version)
		}
	}

	return migrations, nil
}

// Run aplica migraciones pendientes a una base de datos.
func (m *Migrator) Run(ctx context.Context, exec SQLExecutor, driver string) (*MigrationResult, error) {
	start := time.Now()
	result := &MigrationResult{}

	fail := func(err error) (*MigrationResult, error) {
		result.Error = err
		result.Duration = time.Since(start)
		return result, err
	}

	if err := m.ensureMigrationsTable(ctx, exec, driver); err != nil {
		return fail(fmt.Errorf("creating migrations table: %w", err))
	}

	applied, err := m.getAppliedVersions(ctx, exec)
	if err != nil {
		return fail(fmt.Errorf("getting applied migrations: %w", err))
	}

	migrations, err := m.ParseMigrations()
	if err != nil {
		return fail(fmt.Errorf("parsing migrations: %w", err))
	}

	for _, mig := range migrations {
		if applied[mig.Version] {
			result.Skipped = append(result.Skipped, mig.Version)
			continue
		}

		if err := m.applyMigration(ctx, exec, driver, mig); err != nil {
			v := mig.Version
			result.Failed = &v
			return fail(fmt.Errorf("applying migration %d_%s: %w", mig.Version, mig.Name, err))
		}

		result.Applied = append(result.Applied, mig.Version)
	}

	result.Duration = time.Since(start)
	return result, nil
}

// HasPending verifica si hay migraciones pendientes.
func (m *Migrator) HasPending(ctx context.Context, exec SQLExecutor, driver string) (bool, error) {
	if err := m.ensureMigrationsTable(ctx, exec, driver); err != nil {
		return false, err
	}

	applied, err := m.getAppliedVersions(ctx, exec)
	if err != nil {
		return false, err
	}

	migrations, err := m.ParseMigrations()
	if err != nil {
		return false, err
	}

	for _, mig := range migrations {
		if !applied[mig.Version] {
			return true, nil
		}
	}
	return false, nil
}

// ensureMigrationsTable crea la tabla de tracking de migraciones.
func (m *Migrator) ensureMigrationsTable(ctx context.Context, exec SQLExecutor, driver string) error {
	var createSQL string
	switch driver {
	case "postgres":
		createSQL = `
			CREATE TABLE IF NOT EXISTS _migrations (
				version INT PRIMARY KEY,
				name VARCHAR(255) NOT NULL,
				applied_at TIMESTAMPTZ DEFAULT NOW()
			)`
	case "mysql":
		createSQL = `
			CREATE TABLE IF NOT EXISTS _migrations (
				version INT PRIMARY KEY,
				name VARCHAR(255) NOT NULL,
				applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
			)`
	default:
		createSQL = `
			CREATE TABLE IF NOT EXISTS _migrations (
				version INT PRIMARY KEY,
				name TEXT NOT NULL,
				applied_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
			)`
	}

	_, err := exec.ExecContext(ctx, createSQL)
	return err
}

// getAppliedVersions obtiene las versiones ya aplicadas.
func (m *Migrator) getAppliedVersions(ctx context.Context, exec SQLExecutor) (map[int]bool, error) {
	rows, err := exec.QueryContext(ctx, "SELECT version FROM _migrations")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	applied := make(map[int]bool)
	for rows.Next() {
		var v int
		if err := rows.Scan(&v); err != nil {
			return nil, err
		}
		applied[v] = true
	}
	return applied, rows.Err()
}

// applyMigration ejecuta una migración y la registra en la misma transacción.
// En MySQL el DDL hace commit implícito, por eso cada archivo debe ser idempotente.
func (m *Migrator) applyMigration(ctx context.Context, exec SQLExecutor, driver string, mig Migration) error {
	tx, err := exec.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback() //nolint:errcheck

	for _, stmt := range splitStatements(mig.SQL) {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}

	insert := "INSERT INTO _migrations (version, name) VALUES (?, ?)"
	if driver == "postgres" {
		insert = "INSERT INTO _migrations (version, name) VALUES ($1, $2)"
	}
	if _, err := tx.ExecContext(ctx, insert, mig.Version, mig.Name); err != nil {
		return err
	}
	return tx.Commit()
}

// splitStatements separa un archivo en sentencias terminadas en ';' al final de línea.
// Las líneas de comentario ("--") se descartan.
func splitStatements(src string) []string {
	var out []string
	var b strings.Builder
	flush := func() {
		stmt := strings.TrimSpace(b.String())
		stmt = strings.TrimSpace(strings.TrimSuffix(stmt, ";"))
		if stmt != "" {
			out = append(out, stmt)
		}
		b.Reset()
	}
	for _, line := range strings.Split(src, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "--") {
			continue
		}
		b.WriteString(line)
		b.WriteByte('\n')
		if strings.HasSuffix(trimmed, ";") {
			flush()
		}
	}
	flush()
	return out
}

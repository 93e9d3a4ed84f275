// Package migrations embeds the SQL schema migrations of every supported engine.
//
// Each engine directory holds files named {version}_{name}.sql, applied in
// version order by store.Migrator.
package migrations

import (
	"embed"
	"io/fs"
)

//go:embed postgres/*.sql
var postgresFS embed.FS

//go:embed sqlite/*.sql
var sqliteFS embed.FS

//go:embed mysql/*.sql
var mysqlFS embed.FS

// Postgres returns the PostgreSQL migrations rooted at the FS top level.
func Postgres() fs.FS { return sub(postgresFS, "postgres") }

// SQLite returns the SQLite migrations rooted at the FS top level.
func SQLite() fs.FS { return sub(sqliteFS, "sqlite") }

// MySQL returns the MySQL migrations rooted at the FS top level.
func MySQL() fs.FS { return sub(mysqlFS, "mysql") }

func sub(fsys embed.FS, dir string) fs.FS {
	s, err := fs.Sub(fsys, dir)
	if err != nil {
		// dir is a compile-time constant matched by the embed pattern.
		panic(err)
	}
	return s
}

package store

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"
)

func TestSplitStatements(t *testing.T) {
	src := `-- header comment
CREATE TABLE a (
    id INT -- trailing
);

-- between
CREATE INDEX a_idx ON a (id);
INSERT INTO a VALUES (1)`

	got := splitStatements(src)
	require.Equal(t, []string{
		"CREATE TABLE a (\n    id INT -- trailing\n)",
		"CREATE INDEX a_idx ON a (id)",
		"INSERT INTO a VALUES (1)",
	}, got)
	require.Empty(t, splitStatements("-- only comments\n\n"))
}

func TestParseMigrations(t *testing.T) {
	fsys := fstest.MapFS{
		"0002_more.sql":  {Data: []byte("SELECT 2;")},
		"0001_init.sql":  {Data: []byte("SELECT 1;")},
		"README.md":      {Data: []byte("ignored")},
		"notes_0003.sql": {Data: []byte("ignored")},
	}
	migs, err := NewMigrator(fsys, "").ParseMigrations()
	require.NoError(t, err)
	require.Len(t, migs, 2)
	require.Equal(t, 1, migs[0].Version)
	require.Equal(t, "init", migs[0].Name)
	require.Equal(t, 2, migs[1].Version)

	dup := fstest.MapFS{
		"0001_a.sql": {Data: []byte("SELECT 1;")},
		"1_b.sql":    {Data: []byte("SELECT 1;")},
	}
	_, err = NewMigrator(dup, ".").ParseMigrations()
	require.Error(t, err)
}

func openSQLite(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", filepath.Join(t.TempDir(), "migrate.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestMigratorRun(t *testing.T) {
	ctx := context.Background()
	db := openSQLite(t)

	fsys := fstest.MapFS{
		"0001_init.sql": {Data: []byte("CREATE TABLE t (id INTEGER PRIMARY KEY);\nINSERT INTO t (id) VALUES (1);")},
		"0002_more.sql": {Data: []byte("INSERT INTO t (id) VALUES (2);")},
	}
	m := NewMigrator(fsys, ".")

	pending, err := m.HasPending(ctx, db, "sqlite")
	require.NoError(t, err)
	require.True(t, pending)

	res, err := m.Run(ctx, db, "sqlite")
	require.NoError(t, err)
	require.Equal(t, []int{1, 2}, res.Applied)

	res, err = m.Run(ctx, db, "sqlite")
	require.NoError(t, err)
	require.Empty(t, res.Applied)
	require.Equal(t, []int{1, 2}, res.Skipped)

	pending, err = m.HasPending(ctx, db, "sqlite")
	require.NoError(t, err)
	require.False(t, pending)

	var n int
	require.NoError(t, db.QueryRowContext(ctx, "SELECT count(*) FROM t").Scan(&n))
	require.Equal(t, 2, n)
}

func TestMigratorRunRollsBackFailedMigration(t *testing.T) {
	ctx := context.Background()
	db := openSQLite(t)

	fsys := fstest.MapFS{
		"0001_init.sql":   {Data: []byte("CREATE TABLE t (id INTEGER PRIMARY KEY);")},
		"0002_broken.sql": {Data: []byte("INSERT INTO t (id) VALUES (1);\nINSERT INTO missing (id) VALUES (1);")},
	}
	res, err := NewMigrator(fsys, ".").Run(ctx, db, "sqlite")
	require.Error(t, err)
	require.Equal(t, []int{1}, res.Applied)
	require.NotNil(t, res.Failed)
	require.Equal(t, 2, *res.Failed)

	// La fila insertada por la migración fallida no quedó.
	var n int
	require.NoError(t, db.QueryRowContext(ctx, "SELECT count(*) FROM t").Scan(&n))
	require.Equal(t, 0, n)

	var applied int
	require.NoError(t, db.QueryRowContext(ctx, "SELECT count(*) FROM _migrations").Scan(&applied))
	require.Equal(t, 1, applied)
}

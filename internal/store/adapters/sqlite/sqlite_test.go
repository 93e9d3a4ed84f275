package sqlite_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dropDatabas3/gamelobby/internal/store"
	_ "github.com/dropDatabas3/gamelobby/internal/store/adapters/sqlite"
	"github.com/dropDatabas3/gamelobby/internal/store/storetest"
)

func openTemp(t *testing.T) store.AdapterConnection {
	t.Helper()
	ctx := context.Background()
	conn, err := store.OpenAdapter(ctx, store.AdapterConfig{
		Name: "sqlite",
		DSN:  filepath.Join(t.TempDir(), "lobby.db"),
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	res, err := store.Migrate(ctx, conn)
	require.NoError(t, err)
	require.NotEmpty(t, res.Applied)
	return conn
}

func TestSQLiteAdapterRegistered(t *testing.T) {
	adapter, ok := store.GetAdapter("sqlite")
	require.True(t, ok, "sqlite adapter not registered")
	require.Equal(t, "sqlite", adapter.Name())
}

func TestSQLiteAdapterConnectRequiresDSN(t *testing.T) {
	adapter, ok := store.GetAdapter("sqlite")
	require.True(t, ok)

	_, err := adapter.Connect(context.Background(), store.AdapterConfig{Name: "sqlite"})
	require.Error(t, err)
}

func TestSQLiteMigrateIdempotent(t *testing.T) {
	ctx := context.Background()
	conn := openTemp(t)

	res, err := store.Migrate(ctx, conn)
	require.NoError(t, err)
	require.Empty(t, res.Applied)
	require.NotEmpty(t, res.Skipped)
}

func TestSQLiteInMemory(t *testing.T) {
	ctx := context.Background()
	conn, err := store.OpenAdapter(ctx, store.AdapterConfig{Name: "sqlite", DSN: ":memory:"})
	require.NoError(t, err)
	defer conn.Close()

	_, err = store.Migrate(ctx, conn)
	require.NoError(t, err)
	require.NoError(t, conn.Ping(ctx))

	games, err := conn.Games().List(ctx)
	require.NoError(t, err)
	require.Empty(t, games)
}

func TestSQLiteConformance(t *testing.T) {
	storetest.Run(t, openTemp)
}

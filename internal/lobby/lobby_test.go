package lobby

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/dropDatabas3/gamelobby/internal/config"
	"github.com/dropDatabas3/gamelobby/internal/domain/repository"
	"github.com/dropDatabas3/gamelobby/internal/metrics"
	"github.com/dropDatabas3/gamelobby/internal/observability/logger"
	"github.com/dropDatabas3/gamelobby/internal/store"
)

func testConfig(t *testing.T, driver string) *config.Config {
	t.Helper()
	var cfg config.Config
	cfg.Storage.Driver = driver
	if driver == "sqlite" {
		cfg.Storage.DSN = filepath.Join(t.TempDir(), "lobby.db")
	}
	cfg.Storage.ConnMaxLifetime = "30m"
	cfg.Cache.Kind = "memory"
	cfg.Cache.Memory.DefaultTTL = "1m"
	cfg.Flags.Migrate = true
	require.NoError(t, cfg.Validate())
	return &cfg
}

func openSQLite(t *testing.T) *Store {
	t.Helper()
	s, err := Open(context.Background(), testConfig(t, "sqlite"), prometheus.NewRegistry())
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func newUser(id, name string) repository.CreateUserInput {
	return repository.CreateUserInput{
		ID:       id,
		Name:     name,
		Email:    name + "@example.com",
		Password: []byte("opaque"),
	}
}

func TestOpenMigratesAndServes(t *testing.T) {
	ctx := context.Background()
	s := openSQLite(t)
	require.Equal(t, "sqlite", s.Driver())
	require.NoError(t, s.Ping(ctx))

	u, err := s.CreateUser(ctx, newUser("u1", "Alice"))
	require.NoError(t, err)
	require.False(t, u.IsVerified)

	byName, err := s.GetUserByLogin(ctx, "ALICE")
	require.NoError(t, err)
	require.Equal(t, "u1", byName.ID)
	byEmail, err := s.GetUserByLogin(ctx, "alice@EXAMPLE.com")
	require.NoError(t, err)
	require.Equal(t, "u1", byEmail.ID)
	_, err = s.GetUserByLogin(ctx, "bob")
	require.True(t, repository.IsNotFound(err))

	require.NoError(t, s.SetUserVerified(ctx, "u1", true))
	require.NoError(t, s.SetUserAdmin(ctx, "u1", true))
	u, err = s.GetUserByID(ctx, "u1")
	require.NoError(t, err)
	require.True(t, u.IsVerified)
	require.True(t, u.IsAdmin)
}

func TestLobbyFlow(t *testing.T) {
	ctx := context.Background()
	s := openSQLite(t)

	for i, name := range []string{"ann", "ben", "cid"} {
		_, err := s.CreateUser(ctx, newUser(string(rune('a'+i)), name))
		require.NoError(t, err)
	}
	g, err := s.CreateGame(ctx, repository.CreateGameInput{Name: "chess", OwnerID: "a", Capacity: 2})
	require.NoError(t, err)

	p, err := s.CreateParty(ctx, "p1", "chess", []string{"b", "a"})
	require.NoError(t, err)
	require.Equal(t, []string{"a", "b"}, p.Members)

	err = s.AddPartyMember(ctx, "p1", "c")
	require.True(t, repository.IsCapacityExceeded(err))

	require.NoError(t, s.RemovePartyMember(ctx, "p1", "b"))
	require.NoError(t, s.AddPartyMember(ctx, "p1", "c"))

	parties, err := s.GetPartiesByGame(ctx, g.ID)
	require.NoError(t, err)
	require.Len(t, parties, 1)
	require.Equal(t, []string{"a", "c"}, parties[0].Members)

	require.True(t, repository.IsReferential(s.DeleteUser(ctx, "c")))
	require.NoError(t, s.ChangeUserID(ctx, "c", "c2"))
	got, err := s.GetParty(ctx, "p1")
	require.NoError(t, err)
	require.Equal(t, []string{"a", "c2"}, got.Members)

	require.NoError(t, s.SetGameOwner(ctx, g.ID, "b"))
	owned, err := s.GetGamesByOwner(ctx, "b")
	require.NoError(t, err)
	require.Len(t, owned, 1)

	require.NoError(t, s.DeleteParty(ctx, "p1"))
	_, err = s.CreateParty(ctx, "p1", "chess", nil)
	require.True(t, repository.IsConflict(err))

	require.NoError(t, s.DeleteGame(ctx, g.ID))
	all, err := s.GetAllGames(ctx)
	require.NoError(t, err)
	require.Empty(t, all)
	_, err = s.GetGameByName(ctx, "chess")
	require.True(t, repository.IsNotFound(err))
	_, err = s.GetGameByID(ctx, g.ID)
	require.True(t, repository.IsNotFound(err))

	require.NoError(t, s.DeleteUser(ctx, "c2"))
}

func TestFormatViolations(t *testing.T) {
	ctx := context.Background()
	s := openSQLite(t)
	_, err := s.CreateUser(ctx, newUser("u1", "alice"))
	require.NoError(t, err)

	invalid := func() float64 {
		return testutil.ToFloat64(metrics.StoreOperations.WithLabelValues("sqlite", "create_user", "invalid_input"))
	}
	before := invalid()

	bad := newUser("u2", "bob@example.com")
	_, err = s.CreateUser(ctx, bad)
	require.True(t, repository.IsInvalidInput(err))
	require.Equal(t, before+1, invalid())

	_, err = s.CreateUser(ctx, repository.CreateUserInput{ID: "u2", Name: "bob", Email: "bob@example.com"})
	require.True(t, repository.IsInvalidInput(err), "empty credential")

	_, err = s.CreateGame(ctx, repository.CreateGameInput{Name: "chess", OwnerID: "u1", Capacity: 0})
	require.True(t, repository.IsInvalidInput(err))

	_, err = s.CreateGame(ctx, repository.CreateGameInput{Name: "chess", OwnerID: "u1", Capacity: 4})
	require.NoError(t, err)

	_, err = s.CreateParty(ctx, "", "chess", []string{"u1"})
	require.True(t, repository.IsInvalidInput(err))
	_, err = s.CreateParty(ctx, "p1", "chess", []string{"u1", "u1"})
	require.True(t, repository.IsConflict(err))
	require.True(t, repository.IsInvalidInput(s.ChangeUserID(ctx, "u1", " ")))
	require.True(t, repository.IsInvalidInput(s.AddPartyMember(ctx, "p1", "")))

	_, err = s.GetParty(ctx, "p1")
	require.True(t, repository.IsNotFound(err), "rejected party must not exist")
}

func TestLogsMutations(t *testing.T) {
	ctx := context.Background()
	core, logs := observer.New(zapcore.InfoLevel)
	cfg := testConfig(t, "sqlite")

	conn, err := store.OpenAdapter(ctx, cfg.AdapterConfig())
	require.NoError(t, err)
	_, err = store.Migrate(ctx, conn)
	require.NoError(t, err)
	s := New(conn, WithLogger(zap.New(core)))
	defer s.Close()

	_, err = s.CreateUser(ctx, newUser("u1", "alice"))
	require.NoError(t, err)
	_, err = s.CreateUser(ctx, newUser("u2", "ALICE"))
	require.True(t, repository.IsConflict(err))
	_, err = s.GetUserByID(ctx, "u1")
	require.NoError(t, err)

	entries := logs.All()
	require.Len(t, entries, 2, "reads log at debug")

	require.Equal(t, zapcore.InfoLevel, entries[0].Level)
	require.Equal(t, "create_user", entries[0].ContextMap()["op"])
	require.Equal(t, "sqlite", entries[0].ContextMap()["driver"])

	require.Equal(t, zapcore.WarnLevel, entries[1].Level)
	require.Equal(t, "conflict", entries[1].ContextMap()["error_kind"])
	require.Equal(t, "u2", entries[1].ContextMap()["user_id"])
}

func TestContextLoggerWins(t *testing.T) {
	ctx := context.Background()
	s := openSQLite(t)

	core, logs := observer.New(zapcore.InfoLevel)
	ctx = logger.ToContext(ctx, zap.New(core).With(zap.String("request_id", "r1")))

	_, err := s.CreateUser(ctx, newUser("u1", "alice"))
	require.NoError(t, err)
	require.Equal(t, 1, logs.Len())
	require.Equal(t, "r1", logs.All()[0].ContextMap()["request_id"])
}

func TestNoopDriver(t *testing.T) {
	ctx := context.Background()
	s, err := Open(ctx, testConfig(t, "noop"), prometheus.NewRegistry())
	require.NoError(t, err)
	defer s.Close()

	_, err = s.CreateUser(ctx, newUser("u1", "alice"))
	require.True(t, repository.IsNoDatabase(err))
	_, err = s.GetAllGames(ctx)
	require.True(t, repository.IsNoDatabase(err))
}

func TestTokens(t *testing.T) {
	ctx := context.Background()
	s := openSQLite(t)
	token := uuid.NewString()

	revoked, err := s.IsTokenRevoked(ctx, token)
	require.NoError(t, err)
	require.False(t, revoked)

	require.NoError(t, s.RevokeToken(ctx, token, time.Minute))
	revoked, err = s.IsTokenRevoked(ctx, token)
	require.NoError(t, err)
	require.True(t, revoked)
}

func TestTokensWithoutList(t *testing.T) {
	ctx := context.Background()
	cfg := testConfig(t, "noop")
	conn, err := store.OpenAdapter(ctx, cfg.AdapterConfig())
	require.NoError(t, err)
	s := New(conn)
	defer s.Close()

	err = s.RevokeToken(ctx, "t1", time.Minute)
	require.ErrorIs(t, err, repository.ErrNotImplemented)
}

package storetest

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dropDatabas3/gamelobby/internal/domain/repository"
	"github.com/dropDatabas3/gamelobby/internal/store"
)

func testUserLookup(t *testing.T, conn store.AdapterConnection) {
	ctx := context.Background()
	users := conn.Users()
	_, err := users.Create(ctx, repository.CreateUserInput{
		ID: "u1", Name: "Alice", Email: "Alice@X.com", Password: []byte("cred"), IsAdmin: true,
	})
	require.NoError(t, err)

	got, err := users.GetByID(ctx, "u1")
	require.NoError(t, err)
	require.Equal(t, "Alice", got.Name)
	require.Equal(t, "Alice@X.com", got.Email)
	require.Equal(t, []byte("cred"), got.Password)
	require.True(t, got.IsAdmin)
	require.False(t, got.IsVerified)

	for _, login := range []string{"alice", "ALICE", "alice@x.com", "ALICE@X.COM"} {
		got, err := users.GetByLogin(ctx, login)
		require.NoError(t, err, login)
		require.Equal(t, "u1", got.ID, login)
	}

	_, err = users.GetByLogin(ctx, "bob")
	require.ErrorIs(t, err, repository.ErrNotFound)
	_, err = users.GetByID(ctx, "missing")
	require.ErrorIs(t, err, repository.ErrNotFound)
}

func testUserUniqueness(t *testing.T, conn store.AdapterConnection) {
	ctx := context.Background()
	users := conn.Users()
	mustUser(t, conn, "u1", "alice")

	cases := map[string]repository.CreateUserInput{
		"same id":          {ID: "u1", Name: "carol", Email: "carol@example.com", Password: []byte("p")},
		"same name":        {ID: "u2", Name: "alice", Email: "other@example.com", Password: []byte("p")},
		"name other case":  {ID: "u2", Name: "ALICE", Email: "other@example.com", Password: []byte("p")},
		"same email":       {ID: "u2", Name: "bob", Email: "alice@example.com", Password: []byte("p")},
		"email other case": {ID: "u2", Name: "bob", Email: "Alice@Example.COM", Password: []byte("p")},
	}
	for name, in := range cases {
		_, err := users.Create(ctx, in)
		require.ErrorIs(t, err, repository.ErrConflict, name)
	}

	// El primer registro queda intacto.
	got, err := users.GetByID(ctx, "u1")
	require.NoError(t, err)
	require.Equal(t, "alice", got.Name)
	require.Equal(t, "alice@example.com", got.Email)
	_, err = users.GetByID(ctx, "u2")
	require.ErrorIs(t, err, repository.ErrNotFound)
}

func testUserFlags(t *testing.T, conn store.AdapterConnection) {
	ctx := context.Background()
	users := conn.Users()
	mustUser(t, conn, "u1", "alice")

	// Idempotentes: aplicar dos veces el mismo valor no falla.
	for i := 0; i < 2; i++ {
		require.NoError(t, users.SetVerified(ctx, "u1", true))
		require.NoError(t, users.SetAdmin(ctx, "u1", true))
	}
	got, err := users.GetByID(ctx, "u1")
	require.NoError(t, err)
	require.True(t, got.IsVerified)
	require.True(t, got.IsAdmin)

	require.NoError(t, users.SetAdmin(ctx, "u1", false))
	got, err = users.GetByID(ctx, "u1")
	require.NoError(t, err)
	require.False(t, got.IsAdmin)
	require.True(t, got.IsVerified)

	require.ErrorIs(t, users.SetVerified(ctx, "ghost", true), repository.ErrNotFound)
	require.ErrorIs(t, users.SetAdmin(ctx, "ghost", true), repository.ErrNotFound)
}

func testUserChangeID(t *testing.T, conn store.AdapterConnection) {
	ctx := context.Background()
	users := conn.Users()
	mustUser(t, conn, "u1", "alice")
	mustUser(t, conn, "u2", "bob")
	g := mustGame(t, conn, "chess", "u1", 4)
	_, err := conn.Parties().Create(ctx, "p1", "chess", []string{"u1", "u2"})
	require.NoError(t, err)

	require.ErrorIs(t, users.ChangeID(ctx, "ghost", "u9"), repository.ErrNotFound)
	require.ErrorIs(t, users.ChangeID(ctx, "u1", "u2"), repository.ErrConflict)

	require.NoError(t, users.ChangeID(ctx, "u1", "u1-renamed"))

	_, err = users.GetByID(ctx, "u1")
	require.ErrorIs(t, err, repository.ErrNotFound)
	got, err := users.GetByID(ctx, "u1-renamed")
	require.NoError(t, err)
	require.Equal(t, "alice", got.Name)

	// El cambio se propaga a ownership y membresías.
	game, err := conn.Games().GetByID(ctx, g.ID)
	require.NoError(t, err)
	require.Equal(t, "u1-renamed", game.OwnerID)
	party, err := conn.Parties().GetByID(ctx, "p1")
	require.NoError(t, err)
	require.ElementsMatch(t, []string{"u1-renamed", "u2"}, party.Members)
}

func testUserDeleteRestrict(t *testing.T, conn store.AdapterConnection) {
	ctx := context.Background()
	users := conn.Users()
	mustUser(t, conn, "owner", "owner")
	mustUser(t, conn, "u1", "alice")
	mustUser(t, conn, "u2", "bob")
	mustGame(t, conn, "chess", "owner", 4)
	_, err := conn.Parties().Create(ctx, "p1", "chess", []string{"u1"})
	require.NoError(t, err)

	// Con membresía: rechazado y el usuario sigue existiendo.
	require.ErrorIs(t, users.Delete(ctx, "u1"), repository.ErrReferential)
	_, err = users.GetByID(ctx, "u1")
	require.NoError(t, err)

	// Dueño de un juego: rechazado.
	require.ErrorIs(t, users.Delete(ctx, "owner"), repository.ErrReferential)

	// Sin referencias: borrado.
	require.NoError(t, users.Delete(ctx, "u2"))
	_, err = users.GetByID(ctx, "u2")
	require.ErrorIs(t, err, repository.ErrNotFound)
	require.ErrorIs(t, users.Delete(ctx, "u2"), repository.ErrNotFound)

	// Al salir de la party el borrado procede.
	require.NoError(t, conn.Parties().RemoveMember(ctx, "p1", "u1"))
	require.NoError(t, users.Delete(ctx, "u1"))
}

// testUserEmailCase: todos los motores dan el mismo resultado para emails
// que difieren solo en mayúsculas, y rechazan los no ASCII.
func testUserEmailCase(t *testing.T, conn store.AdapterConnection) {
	ctx := context.Background()
	users := conn.Users()

	_, err := users.Create(ctx, repository.CreateUserInput{ID: "u1", Name: "alice", Email: "Élan@x.com", Password: []byte("p")})
	require.ErrorIs(t, err, repository.ErrInvalidInput)
	_, err = users.Create(ctx, repository.CreateUserInput{ID: "u2", Name: "bobby", Email: "élan@x.com", Password: []byte("p")})
	require.ErrorIs(t, err, repository.ErrInvalidInput)

	_, err = users.Create(ctx, repository.CreateUserInput{ID: "u1", Name: "alice", Email: "Elan@x.com", Password: []byte("p")})
	require.NoError(t, err)
	_, err = users.Create(ctx, repository.CreateUserInput{ID: "u2", Name: "bobby", Email: "eLAN@X.COM", Password: []byte("p")})
	require.ErrorIs(t, err, repository.ErrConflict)
	require.False(t, repository.IsConcurrencyConflict(err))

	_, err = users.GetByID(ctx, "u2")
	require.ErrorIs(t, err, repository.ErrNotFound)
}

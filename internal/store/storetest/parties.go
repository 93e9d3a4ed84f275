package storetest

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"github.com/dropDatabas3/gamelobby/internal/domain/repository"
	"github.com/dropDatabas3/gamelobby/internal/store"
)

func testPartyAtomicity(t *testing.T, conn store.AdapterConnection) {
	ctx := context.Background()
	parties := conn.Parties()
	mustUser(t, conn, "u1", "alice")
	mustUser(t, conn, "u2", "bob")
	g := mustGame(t, conn, "chess", "u1", 10)

	_, err := parties.Create(ctx, "p1", "checkers", []string{"u1"})
	require.ErrorIs(t, err, repository.ErrNotFound)

	// El primer faltante falla toda la operación, aunque los anteriores existan.
	_, err = parties.Create(ctx, "p1", "chess", []string{"u1", "u2", "ghost", "u3"})
	require.ErrorIs(t, err, repository.ErrReferential)
	require.Contains(t, err.Error(), "ghost")
	_, err = parties.GetByID(ctx, "p1")
	require.ErrorIs(t, err, repository.ErrNotFound)
	require.Equal(t, 0, seats(t, conn, g.ID))

	// Un fallo no retira el ID: puede crearse después.
	p, err := parties.Create(ctx, "p1", "chess", []string{"u2", "u1"})
	require.NoError(t, err)
	require.Equal(t, []string{"u1", "u2"}, p.Members)

	_, err = parties.Create(ctx, "p1", "chess", []string{"u1"})
	require.ErrorIs(t, err, repository.ErrConflict)
	require.Equal(t, 2, seats(t, conn, g.ID))

	empty, err := parties.Create(ctx, "p-empty", "chess", nil)
	require.NoError(t, err)
	require.NotNil(t, empty.Members)
	require.Empty(t, empty.Members)

	got, err := parties.GetByID(ctx, "p-empty")
	require.NoError(t, err)
	require.Equal(t, g.ID, got.GameID)
	require.Empty(t, got.Members)
}

func testPartyCapacity(t *testing.T, conn store.AdapterConnection) {
	ctx := context.Background()
	parties := conn.Parties()
	for i := 1; i <= 4; i++ {
		mustUser(t, conn, fmt.Sprintf("u%d", i), fmt.Sprintf("user%d", i))
	}
	g := mustGame(t, conn, "duel", "u1", 3)

	_, err := parties.Create(ctx, "p1", "duel", []string{"u1", "u2", "u3", "u4"})
	require.ErrorIs(t, err, repository.ErrCapacityExceeded)
	require.Equal(t, 0, seats(t, conn, g.ID))

	_, err = parties.Create(ctx, "p1", "duel", []string{"u1", "u2"})
	require.NoError(t, err)

	// La capacidad cuenta membresías de todas las parties del juego.
	_, err = parties.Create(ctx, "p2", "duel", []string{"u3", "u4"})
	require.ErrorIs(t, err, repository.ErrCapacityExceeded)
	_, err = parties.Create(ctx, "p2", "duel", []string{"u3"})
	require.NoError(t, err)
	require.Equal(t, 3, seats(t, conn, g.ID))

	require.ErrorIs(t, parties.AddMember(ctx, "p2", "u4"), repository.ErrCapacityExceeded)

	// Liberar un lugar habilita el siguiente alta.
	require.NoError(t, parties.RemoveMember(ctx, "p1", "u2"))
	require.NoError(t, parties.AddMember(ctx, "p2", "u4"))
	require.Equal(t, 3, seats(t, conn, g.ID))
}

func testPartyMembers(t *testing.T, conn store.AdapterConnection) {
	ctx := context.Background()
	parties := conn.Parties()
	mustUser(t, conn, "u1", "alice")
	mustUser(t, conn, "u2", "bob")
	mustUser(t, conn, "u3", "carol")
	g := mustGame(t, conn, "chess", "u1", 10)

	_, err := parties.Create(ctx, "pb", "chess", []string{"u3"})
	require.NoError(t, err)
	_, err = parties.Create(ctx, "pa", "chess", []string{"u1"})
	require.NoError(t, err)

	require.NoError(t, parties.AddMember(ctx, "pa", "u2"))
	require.ErrorIs(t, parties.AddMember(ctx, "pa", "u2"), repository.ErrConflict)
	require.ErrorIs(t, parties.AddMember(ctx, "pa", "ghost"), repository.ErrReferential)
	require.ErrorIs(t, parties.AddMember(ctx, "nope", "u2"), repository.ErrNotFound)

	list, err := parties.ListByGame(ctx, g.ID)
	require.NoError(t, err)
	require.Equal(t, []repository.Party{
		{ID: "pa", GameID: g.ID, Members: []string{"u1", "u2"}},
		{ID: "pb", GameID: g.ID, Members: []string{"u3"}},
	}, list)

	require.NoError(t, parties.RemoveMember(ctx, "pa", "u1"))
	require.ErrorIs(t, parties.RemoveMember(ctx, "pa", "u1"), repository.ErrNotFound)
	require.ErrorIs(t, parties.RemoveMember(ctx, "nope", "u1"), repository.ErrNotFound)

	got, err := parties.GetByID(ctx, "pa")
	require.NoError(t, err)
	require.Equal(t, []string{"u2"}, got.Members)

	none, err := parties.ListByGame(ctx, g.ID+100)
	require.NoError(t, err)
	require.NotNil(t, none)
	require.Empty(t, none)
}

func testPartyRetiredIDs(t *testing.T, conn store.AdapterConnection) {
	ctx := context.Background()
	parties := conn.Parties()
	mustUser(t, conn, "u1", "alice")
	g := mustGame(t, conn, "chess", "u1", 4)

	_, err := parties.Create(ctx, "p1", "chess", []string{"u1"})
	require.NoError(t, err)
	require.NoError(t, parties.Delete(ctx, "p1"))
	require.ErrorIs(t, parties.Delete(ctx, "p1"), repository.ErrNotFound)

	_, err = parties.GetByID(ctx, "p1")
	require.ErrorIs(t, err, repository.ErrNotFound)

	// deleted es terminal: el ID no vuelve a usarse.
	_, err = parties.Create(ctx, "p1", "chess", nil)
	require.ErrorIs(t, err, repository.ErrConflict)

	// Las membresías cayeron con la party: u1 puede borrarse si no es dueño.
	require.ErrorIs(t, conn.Users().Delete(ctx, "u1"), repository.ErrReferential) // dueño de chess
	mustUser(t, conn, "u2", "bob")
	require.NoError(t, conn.Games().SetOwner(ctx, g.ID, "u2"))
	require.NoError(t, conn.Users().Delete(ctx, "u1"))
}

// testConcurrentPartyCapacity lanza creaciones concurrentes contra un mismo
// juego; la suma de lugares nunca supera la capacidad.
func testConcurrentPartyCapacity(t *testing.T, conn store.AdapterConnection) {
	ctx := context.Background()
	const (
		capacity = 3
		writers  = 10
	)
	mustUser(t, conn, "owner", "owner")
	for i := 0; i < writers; i++ {
		mustUser(t, conn, fmt.Sprintf("u%d", i), fmt.Sprintf("user%d", i))
	}
	g := mustGame(t, conn, "arena", "owner", capacity)

	results := make([]error, writers)
	var eg errgroup.Group
	for i := 0; i < writers; i++ {
		eg.Go(func() error {
			_, results[i] = conn.Parties().Create(ctx, fmt.Sprintf("p%d", i), "arena", []string{fmt.Sprintf("u%d", i)})
			return nil
		})
	}
	require.NoError(t, eg.Wait())

	ok := 0
	for i, err := range results {
		switch {
		case err == nil:
			ok++
		case repository.IsCapacityExceeded(err), repository.IsConcurrencyConflict(err):
		default:
			t.Fatalf("writer %d: unexpected error: %v", i, err)
		}
	}
	require.LessOrEqual(t, ok, capacity)
	require.Equal(t, ok, seats(t, conn, g.ID))
}

// testConcurrentUniqueName crea en paralelo usuarios con el mismo nombre:
// gana exactamente uno.
func testConcurrentUniqueName(t *testing.T, conn store.AdapterConnection) {
	ctx := context.Background()
	const writers = 8

	results := make([]error, writers)
	var eg errgroup.Group
	for i := 0; i < writers; i++ {
		eg.Go(func() error {
			_, results[i] = conn.Users().Create(ctx, repository.CreateUserInput{
				ID:       fmt.Sprintf("u%d", i),
				Name:     "highlander",
				Email:    fmt.Sprintf("h%d@example.com", i),
				Password: []byte("p"),
			})
			return nil
		})
	}
	require.NoError(t, eg.Wait())

	ok := 0
	for i, err := range results {
		switch {
		case err == nil:
			ok++
		case repository.IsConflict(err), repository.IsConcurrencyConflict(err):
		default:
			t.Fatalf("writer %d: unexpected error: %v", i, err)
		}
	}
	require.Equal(t, 1, ok)

	u, err := conn.Users().GetByLogin(ctx, "HIGHLANDER")
	require.NoError(t, err)
	require.Equal(t, "highlander", u.Name)
}

// testPartyRepeatedMember: un ID repetido es ErrConflict determinístico,
// no una carrera perdida, y no deja nada escrito.
func testPartyRepeatedMember(t *testing.T, conn store.AdapterConnection) {
	ctx := context.Background()
	mustUser(t, conn, "u1", "alice")
	mustUser(t, conn, "u2", "bob")
	g := mustGame(t, conn, "chess", "u1", 10)

	_, err := conn.Parties().Create(ctx, "p1", "chess", []string{"u1", "u2", "u1"})
	require.ErrorIs(t, err, repository.ErrConflict)
	require.False(t, repository.IsConcurrencyConflict(err))

	_, err = conn.Parties().GetByID(ctx, "p1")
	require.ErrorIs(t, err, repository.ErrNotFound)
	require.Equal(t, 0, seats(t, conn, g.ID))

	// El ID no quedó consumido.
	p, err := conn.Parties().Create(ctx, "p1", "chess", []string{"u2", "u1"})
	require.NoError(t, err)
	require.Equal(t, []string{"u1", "u2"}, p.Members)
}

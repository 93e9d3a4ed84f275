package storetest

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dropDatabas3/gamelobby/internal/domain/repository"
	"github.com/dropDatabas3/gamelobby/internal/store"
)

// testScenarios recorre el flujo usuario → juego → party de punta a punta.
func testScenarios(t *testing.T, conn store.AdapterConnection) {
	ctx := context.Background()
	cred := []byte("cred")

	// 1. Nombre duplicado
	_, err := conn.Users().Create(ctx, repository.CreateUserInput{ID: "u1", Name: "alice", Email: "alice@x.com", Password: cred})
	require.NoError(t, err)
	_, err = conn.Users().Create(ctx, repository.CreateUserInput{ID: "u2", Name: "alice", Email: "bob@x.com", Password: cred})
	require.ErrorIs(t, err, repository.ErrConflict)
	_, err = conn.Users().Create(ctx, repository.CreateUserInput{ID: "u2", Name: "bob", Email: "bob@x.com", Password: cred})
	require.NoError(t, err)

	// 2. Juego y party
	game, err := conn.Games().Create(ctx, repository.CreateGameInput{Name: "chess", OwnerID: "u1", Capacity: 2})
	require.NoError(t, err)
	require.Equal(t, int64(1), game.ID)

	party, err := conn.Parties().Create(ctx, "p1", "chess", []string{"u1", "u2"})
	require.NoError(t, err)
	require.Equal(t, game.ID, party.GameID)
	require.Equal(t, []string{"u1", "u2"}, party.Members)

	// 3. Usuario inexistente: nada queda escrito
	_, err = conn.Parties().Create(ctx, "p2", "chess", []string{"u1", "u3"})
	require.ErrorIs(t, err, repository.ErrReferential)
	_, err = conn.Parties().GetByID(ctx, "p2")
	require.ErrorIs(t, err, repository.ErrNotFound)
	parties, err := conn.Parties().ListByGame(ctx, game.ID)
	require.NoError(t, err)
	require.Len(t, parties, 1)
	require.Equal(t, 2, seats(t, conn, game.ID))

	// 4. Transferencia de ownership
	require.NoError(t, conn.Games().SetOwner(ctx, game.ID, "u2"))
	got, err := conn.Games().GetByID(ctx, game.ID)
	require.NoError(t, err)
	require.Equal(t, "u2", got.OwnerID)
}

func testGameCatalog(t *testing.T, conn store.AdapterConnection) {
	ctx := context.Background()
	games := conn.Games()
	mustUser(t, conn, "u1", "alice")
	mustUser(t, conn, "u2", "bob")

	// Colecciones vacías, nunca nil.
	all, err := games.List(ctx)
	require.NoError(t, err)
	require.NotNil(t, all)
	require.Empty(t, all)

	chess := mustGame(t, conn, "chess", "u1", 2)
	goGame := mustGame(t, conn, "go", "u2", 2)
	poker := mustGame(t, conn, "poker", "u1", 8)
	require.Less(t, chess.ID, goGame.ID)
	require.Less(t, goGame.ID, poker.ID)

	_, err = games.Create(ctx, repository.CreateGameInput{Name: "chess", OwnerID: "u2", Capacity: 3})
	require.ErrorIs(t, err, repository.ErrConflict)
	_, err = games.Create(ctx, repository.CreateGameInput{Name: "bridge", OwnerID: "ghost", Capacity: 4})
	require.ErrorIs(t, err, repository.ErrReferential)

	got, err := games.GetByName(ctx, "poker")
	require.NoError(t, err)
	require.Equal(t, *poker, *got)
	_, err = games.GetByName(ctx, "Poker")
	require.ErrorIs(t, err, repository.ErrNotFound)
	_, err = games.GetByID(ctx, 9999)
	require.ErrorIs(t, err, repository.ErrNotFound)

	owned, err := games.ListByOwner(ctx, "u1")
	require.NoError(t, err)
	require.Equal(t, []repository.Game{*chess, *poker}, owned)

	none, err := games.ListByOwner(ctx, "nobody")
	require.NoError(t, err)
	require.NotNil(t, none)
	require.Empty(t, none)

	all, err = games.List(ctx)
	require.NoError(t, err)
	require.Equal(t, []repository.Game{*chess, *goGame, *poker}, all)
}

func testGameSetOwner(t *testing.T, conn store.AdapterConnection) {
	ctx := context.Background()
	games := conn.Games()
	mustUser(t, conn, "u1", "alice")
	mustUser(t, conn, "u2", "bob")
	g := mustGame(t, conn, "chess", "u1", 2)

	require.ErrorIs(t, games.SetOwner(ctx, g.ID, "ghost"), repository.ErrReferential)
	got, err := games.GetByID(ctx, g.ID)
	require.NoError(t, err)
	require.Equal(t, "u1", got.OwnerID)

	// El juego se chequea antes que el owner.
	require.ErrorIs(t, games.SetOwner(ctx, g.ID+100, "ghost"), repository.ErrNotFound)

	require.NoError(t, games.SetOwner(ctx, g.ID, "u2"))
	require.NoError(t, games.SetOwner(ctx, g.ID, "u2"))
	got, err = games.GetByID(ctx, g.ID)
	require.NoError(t, err)
	require.Equal(t, "u2", got.OwnerID)
}

func testGameDeleteCascade(t *testing.T, conn store.AdapterConnection) {
	ctx := context.Background()
	mustUser(t, conn, "u1", "alice")
	mustUser(t, conn, "u2", "bob")
	chess := mustGame(t, conn, "chess", "u1", 4)
	goGame := mustGame(t, conn, "go", "u1", 4)

	_, err := conn.Parties().Create(ctx, "p1", "chess", []string{"u1", "u2"})
	require.NoError(t, err)
	_, err = conn.Parties().Create(ctx, "p2", "chess", nil)
	require.NoError(t, err)
	_, err = conn.Parties().Create(ctx, "p3", "go", []string{"u2"})
	require.NoError(t, err)

	require.NoError(t, conn.Games().Delete(ctx, chess.ID))
	require.ErrorIs(t, conn.Games().Delete(ctx, chess.ID), repository.ErrNotFound)

	_, err = conn.Games().GetByID(ctx, chess.ID)
	require.ErrorIs(t, err, repository.ErrNotFound)
	for _, id := range []string{"p1", "p2"} {
		_, err = conn.Parties().GetByID(ctx, id)
		require.ErrorIs(t, err, repository.ErrNotFound, id)
	}
	parties, err := conn.Parties().ListByGame(ctx, chess.ID)
	require.NoError(t, err)
	require.Empty(t, parties)

	// Las parties de otros juegos no se tocan.
	p3, err := conn.Parties().GetByID(ctx, "p3")
	require.NoError(t, err)
	require.Equal(t, goGame.ID, p3.GameID)

	// u1 ya no tiene membresías pero sigue siendo dueño de "go".
	require.ErrorIs(t, conn.Users().Delete(ctx, "u1"), repository.ErrReferential)

	// Los IDs borrados por cascade quedan retirados.
	_, err = conn.Parties().Create(ctx, "p1", "go", nil)
	require.ErrorIs(t, err, repository.ErrConflict)
}

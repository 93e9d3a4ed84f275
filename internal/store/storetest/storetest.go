// Package storetest contiene la suite de conformidad que todo adapter de
// store debe pasar. Los tests de cada adapter la invocan con su Factory.
package storetest

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dropDatabas3/gamelobby/internal/domain/repository"
	"github.com/dropDatabas3/gamelobby/internal/store"
)

// Factory retorna una conexión con migraciones aplicadas y tablas vacías.
// Se llama una vez por subtest; los IDs de juego deben arrancar en 1.
type Factory func(t *testing.T) store.AdapterConnection

// Run corre la suite completa.
func Run(t *testing.T, open Factory) {
	tests := []struct {
		name string
		fn   func(t *testing.T, conn store.AdapterConnection)
	}{
		{"Scenarios", testScenarios},
		{"UserLookup", testUserLookup},
		{"UserUniqueness", testUserUniqueness},
		{"UserFlags", testUserFlags},
		{"UserChangeID", testUserChangeID},
		{"UserDeleteRestrict", testUserDeleteRestrict},
		{"UserEmailCase", testUserEmailCase},
		{"GameCatalog", testGameCatalog},
		{"GameSetOwner", testGameSetOwner},
		{"GameDeleteCascade", testGameDeleteCascade},
		{"PartyAtomicity", testPartyAtomicity},
		{"PartyCapacity", testPartyCapacity},
		{"PartyMembers", testPartyMembers},
		{"PartyRetiredIDs", testPartyRetiredIDs},
		{"PartyRepeatedMember", testPartyRepeatedMember},
		{"ConcurrentPartyCapacity", testConcurrentPartyCapacity},
		{"ConcurrentUniqueName", testConcurrentUniqueName},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			tc.fn(t, open(t))
		})
	}
}

// ─── Helpers ───

func mustUser(t *testing.T, conn store.AdapterConnection, id, name string) *repository.User {
	t.Helper()
	u, err := conn.Users().Create(context.Background(), repository.CreateUserInput{
		ID:       id,
		Name:     name,
		Email:    fmt.Sprintf("%s@example.com", name),
		Password: []byte("opaque-" + id),
	})
	require.NoError(t, err)
	return u
}

func mustGame(t *testing.T, conn store.AdapterConnection, name, owner string, capacity int) *repository.Game {
	t.Helper()
	g, err := conn.Games().Create(context.Background(), repository.CreateGameInput{
		Name:     name,
		OwnerID:  owner,
		Capacity: capacity,
	})
	require.NoError(t, err)
	return g
}

// seats suma las membresías de todas las parties del juego.
func seats(t *testing.T, conn store.AdapterConnection, gameID int64) int {
	t.Helper()
	parties, err := conn.Parties().ListByGame(context.Background(), gameID)
	require.NoError(t, err)
	n := 0
	for _, p := range parties {
		n += len(p.Members)
	}
	return n
}

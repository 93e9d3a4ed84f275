package repository

import "context"

// Party representa una instancia activa de un juego con sus miembros.
type Party struct {
	ID      string
	GameID  int64
	Members []string // IDs de usuario, ordenados
}

// PartyRepository define operaciones sobre parties y membresías
// (Party/Membership Manager).
type PartyRepository interface {
	// Create crea la party y todas sus membresías en una sola transacción.
	// Orden de chequeos: juego (ErrNotFound), id de party libre y nunca usado
	// (ErrConflict), usuarios existentes (ErrReferential), capacidad
	// (ErrCapacityExceeded). Ante cualquier error no queda nada escrito.
	// Un ID repetido en userIDs es ErrConflict antes de abrir la transacción.
	Create(ctx context.Context, partyID, gameName string, userIDs []string) (*Party, error)

	// GetByID busca una party con sus miembros. Retorna ErrNotFound si no existe.
	GetByID(ctx context.Context, partyID string) (*Party, error)

	// ListByGame lista las parties activas de un juego (vacío si no hay).
	ListByGame(ctx context.Context, gameID int64) ([]Party, error)

	// AddMember agrega un usuario a una party activa respetando la capacidad del juego.
	AddMember(ctx context.Context, partyID, userID string) error

	// RemoveMember quita un usuario de una party.
	// Retorna ErrNotFound si la party no existe o el usuario no es miembro.
	RemoveMember(ctx context.Context, partyID, userID string) error

	// Delete elimina la party y sus membresías, y retira el ID para siempre.
	Delete(ctx context.Context, partyID string) error
}

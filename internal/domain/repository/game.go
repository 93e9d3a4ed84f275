package repository

import "context"

// Game representa una entrada del catálogo de juegos.
type Game struct {
	ID       int64
	Name     string
	OwnerID  string
	Capacity int // máximo de membresías entre todas las parties del juego
}

// CreateGameInput contiene los datos para crear un juego.
type CreateGameInput struct {
	Name     string
	OwnerID  string
	Capacity int
}

// GameRepository define operaciones sobre el catálogo de juegos (Game Catalog).
type GameRepository interface {
	// Create crea un juego y le asigna un ID.
	// Retorna ErrReferential si el owner no existe, ErrConflict si el nombre ya existe.
	Create(ctx context.Context, input CreateGameInput) (*Game, error)

	// GetByID busca un juego por ID. Retorna ErrNotFound si no existe.
	GetByID(ctx context.Context, gameID int64) (*Game, error)

	// GetByName busca un juego por nombre exacto. Retorna ErrNotFound si no existe.
	GetByName(ctx context.Context, name string) (*Game, error)

	// ListByOwner lista los juegos de un owner ordenados por ID (vacío si no hay).
	ListByOwner(ctx context.Context, ownerID string) ([]Game, error)

	// List lista todos los juegos ordenados por ID (vacío si no hay).
	List(ctx context.Context) ([]Game, error)

	// SetOwner transfiere la propiedad del juego.
	// Retorna ErrNotFound si el juego no existe, ErrReferential si el nuevo owner no existe.
	SetOwner(ctx context.Context, gameID int64, ownerID string) error

	// Delete elimina el juego junto con sus parties y membresías (cascade).
	// Los IDs de las parties borradas quedan retirados.
	Delete(ctx context.Context, gameID int64) error
}

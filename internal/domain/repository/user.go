package repository

import "context"

// User representa una identidad registrada en el lobby.
type User struct {
	ID         string
	Name       string
	Email      string
	Password   []byte // credencial opaca, nunca se interpreta en esta capa
	IsAdmin    bool
	IsVerified bool
}

// CreateUserInput contiene los datos para crear un usuario.
type CreateUserInput struct {
	ID       string
	Name     string
	Email    string
	Password []byte
	IsAdmin  bool
}

// UserRepository define operaciones sobre usuarios (User Directory).
type UserRepository interface {
	// Create crea un usuario.
	// Retorna ErrConflict si el id, el nombre o el email ya existen
	// (nombre y email se comparan sin distinguir mayúsculas).
	// Retorna ErrInvalidInput si no pasa validation.User (email solo ASCII).
	Create(ctx context.Context, input CreateUserInput) (*User, error)

	// GetByID busca un usuario por ID.
	// Retorna ErrNotFound si no existe.
	GetByID(ctx context.Context, userID string) (*User, error)

	// GetByLogin busca un usuario cuyo nombre o email coincida con login,
	// sin distinguir mayúsculas. Retorna ErrNotFound si no hay coincidencia.
	GetByLogin(ctx context.Context, login string) (*User, error)

	// SetVerified marca al usuario como verificado o no. Idempotente.
	SetVerified(ctx context.Context, userID string, verified bool) error

	// SetAdmin marca al usuario como administrador o no. Idempotente.
	SetAdmin(ctx context.Context, userID string, admin bool) error

	// ChangeID renombra el identificador del usuario; el cambio se propaga
	// a juegos y membresías (ON UPDATE CASCADE).
	ChangeID(ctx context.Context, oldID, newID string) error

	// Delete elimina un usuario.
	// Retorna ErrReferential si todavía tiene membresías o juegos a su nombre.
	Delete(ctx context.Context, userID string) error
}

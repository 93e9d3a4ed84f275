// Package noop implementa el adapter no-op para modo sin DB.
// Toda operación retorna repository.ErrNoDatabase.
package noop

import (
	"context"

	"github.com/dropDatabas3/gamelobby/internal/domain/repository"
	"github.com/dropDatabas3/gamelobby/internal/store"
)

// Se registra como "noop" para que STORAGE_DRIVER=noop sea una elección explícita;
// nunca se usa como default silencioso.
func init() {
	store.RegisterAdapter(&noopAdapter{})
}

type noopAdapter struct{}

// New retorna el adapter noop.
func New() store.Adapter {
	return &noopAdapter{}
}

func (a *noopAdapter) Name() string { return "noop" }

func (a *noopAdapter) Connect(ctx context.Context, cfg store.AdapterConfig) (store.AdapterConnection, error) {
	return &noopConnection{}, nil
}

type noopConnection struct{}

func (c *noopConnection) Name() string                   { return "noop" }
func (c *noopConnection) Ping(ctx context.Context) error { return nil }
func (c *noopConnection) Close() error                   { return nil }

// Todos los repos retornan ErrNoDatabase
func (c *noopConnection) Users() repository.UserRepository    { return noopUserRepo{} }
func (c *noopConnection) Games() repository.GameRepository    { return noopGameRepo{} }
func (c *noopConnection) Parties() repository.PartyRepository { return noopPartyRepo{} }

// ─── Repos que retornan ErrNoDatabase ───

type noopUserRepo struct{}
type noopGameRepo struct{}
type noopPartyRepo struct{}

func (noopUserRepo) Create(ctx context.Context, input repository.CreateUserInput) (*repository.User, error) {
	return nil, repository.ErrNoDatabase
}
func (noopUserRepo) GetByID(ctx context.Context, userID string) (*repository.User, error) {
	return nil, repository.ErrNoDatabase
}
func (noopUserRepo) GetByLogin(ctx context.Context, login string) (*repository.User, error) {
	return nil, repository.ErrNoDatabase
}
func (noopUserRepo) SetVerified(ctx context.Context, userID string, verified bool) error {
	return repository.ErrNoDatabase
}
func (noopUserRepo) SetAdmin(ctx context.Context, userID string, admin bool) error {
	return repository.ErrNoDatabase
}
func (noopUserRepo) ChangeID(ctx context.Context, oldID, newID string) error {
	return repository.ErrNoDatabase
}
func (noopUserRepo) Delete(ctx context.Context, userID string) error {
	return repository.ErrNoDatabase
}

func (noopGameRepo) Create(ctx context.Context, input repository.CreateGameInput) (*repository.Game, error) {
	return nil, repository.ErrNoDatabase
}
func (noopGameRepo) GetByID(ctx context.Context, gameID int64) (*repository.Game, error) {
	return nil, repository.ErrNoDatabase
}
func (noopGameRepo) GetByName(ctx context.Context, name string) (*repository.Game, error) {
	return nil, repository.ErrNoDatabase
}
func (noopGameRepo) ListByOwner(ctx context.Context, ownerID string) ([]repository.Game, error) {
	return nil, repository.ErrNoDatabase
}
func (noopGameRepo) List(ctx context.Context) ([]repository.Game, error) {
	return nil, repository.ErrNoDatabase
}
func (noopGameRepo) SetOwner(ctx context.Context, gameID int64, ownerID string) error {
	return repository.ErrNoDatabase
}
func (noopGameRepo) Delete(ctx context.Context, gameID int64) error {
	return repository.ErrNoDatabase
}

func (noopPartyRepo) Create(ctx context.Context, partyID, gameName string, userIDs []string) (*repository.Party, error) {
	return nil, repository.ErrNoDatabase
}
func (noopPartyRepo) GetByID(ctx context.Context, partyID string) (*repository.Party, error) {
	return nil, repository.ErrNoDatabase
}
func (noopPartyRepo) ListByGame(ctx context.Context, gameID int64) ([]repository.Party, error) {
	return nil, repository.ErrNoDatabase
}
func (noopPartyRepo) AddMember(ctx context.Context, partyID, userID string) error {
	return repository.ErrNoDatabase
}
func (noopPartyRepo) RemoveMember(ctx context.Context, partyID, userID string) error {
	return repository.ErrNoDatabase
}
func (noopPartyRepo) Delete(ctx context.Context, partyID string) error {
	return repository.ErrNoDatabase
}

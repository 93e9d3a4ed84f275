package lobby

import (
	"context"
	"time"

	"github.com/dropDatabas3/gamelobby/internal/domain/repository"
	"github.com/dropDatabas3/gamelobby/internal/observability/logger"
	"github.com/dropDatabas3/gamelobby/internal/validation"
)

// CreateParty crea la party de gameName con userIDs como miembros, todo o nada.
// Un ID repetido en userIDs es ErrConflict y no llega al store.
func (s *Store) CreateParty(ctx context.Context, partyID, gameName string, userIDs []string) (p *repository.Party, err error) {
	defer func(start time.Time) {
		s.done(ctx, "create_party", true, start, err, logger.PartyID(partyID), logger.GameName(gameName), logger.Count(len(userIDs)))
	}(time.Now())

	if err = validation.ID("party id", partyID); err != nil {
		return nil, err
	}
	if err = validation.Members(userIDs); err != nil {
		return nil, err
	}
	return s.conn.Parties().Create(ctx, partyID, gameName, userIDs)
}

func (s *Store) GetParty(ctx context.Context, partyID string) (p *repository.Party, err error) {
	defer func(start time.Time) { s.done(ctx, "get_party", false, start, err, logger.PartyID(partyID)) }(time.Now())
	return s.conn.Parties().GetByID(ctx, partyID)
}

func (s *Store) GetPartiesByGame(ctx context.Context, gameID int64) (ps []repository.Party, err error) {
	defer func(start time.Time) {
		s.done(ctx, "get_parties_by_game", false, start, err, logger.GameID(gameID), logger.Count(len(ps)))
	}(time.Now())
	return s.conn.Parties().ListByGame(ctx, gameID)
}

// AddPartyMember suma un usuario a la party respetando la capacidad del juego.
func (s *Store) AddPartyMember(ctx context.Context, partyID, userID string) (err error) {
	defer func(start time.Time) {
		s.done(ctx, "add_party_member", true, start, err, logger.PartyID(partyID), logger.UserID(userID))
	}(time.Now())

	if err = validation.ID("user id", userID); err != nil {
		return err
	}
	return s.conn.Parties().AddMember(ctx, partyID, userID)
}

func (s *Store) RemovePartyMember(ctx context.Context, partyID, userID string) (err error) {
	defer func(start time.Time) {
		s.done(ctx, "remove_party_member", true, start, err, logger.PartyID(partyID), logger.UserID(userID))
	}(time.Now())
	return s.conn.Parties().RemoveMember(ctx, partyID, userID)
}

// DeleteParty elimina la party; su ID no se puede volver a usar.
func (s *Store) DeleteParty(ctx context.Context, partyID string) (err error) {
	defer func(start time.Time) { s.done(ctx, "delete_party", true, start, err, logger.PartyID(partyID)) }(time.Now())
	return s.conn.Parties().Delete(ctx, partyID)
}

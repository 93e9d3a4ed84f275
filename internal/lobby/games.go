package lobby

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/dropDatabas3/gamelobby/internal/domain/repository"
	"github.com/dropDatabas3/gamelobby/internal/observability/logger"
	"github.com/dropDatabas3/gamelobby/internal/validation"
)

// CreateGame valida el formato y agrega el juego al catálogo.
func (s *Store) CreateGame(ctx context.Context, in repository.CreateGameInput) (g *repository.Game, err error) {
	defer func(start time.Time) {
		fields := []zap.Field{logger.GameName(in.Name), logger.UserID(in.OwnerID), zap.Int("capacity", in.Capacity)}
		if g != nil {
			fields = append(fields, logger.GameID(g.ID))
		}
		s.done(ctx, "create_game", true, start, err, fields...)
	}(time.Now())

	if err = validation.Game(in); err != nil {
		return nil, err
	}
	return s.conn.Games().Create(ctx, in)
}

func (s *Store) GetGameByID(ctx context.Context, id int64) (g *repository.Game, err error) {
	defer func(start time.Time) { s.done(ctx, "get_game", false, start, err, logger.GameID(id)) }(time.Now())
	return s.conn.Games().GetByID(ctx, id)
}

func (s *Store) GetGameByName(ctx context.Context, name string) (g *repository.Game, err error) {
	defer func(start time.Time) { s.done(ctx, "get_game_by_name", false, start, err, logger.GameName(name)) }(time.Now())
	return s.conn.Games().GetByName(ctx, name)
}

// GetGamesByOwner lista los juegos del usuario, ordenados por ID.
func (s *Store) GetGamesByOwner(ctx context.Context, ownerID string) (gs []repository.Game, err error) {
	defer func(start time.Time) {
		s.done(ctx, "get_games_by_owner", false, start, err, logger.UserID(ownerID), logger.Count(len(gs)))
	}(time.Now())
	return s.conn.Games().ListByOwner(ctx, ownerID)
}

// GetAllGames lista el catálogo completo, ordenado por ID.
func (s *Store) GetAllGames(ctx context.Context) (gs []repository.Game, err error) {
	defer func(start time.Time) { s.done(ctx, "get_all_games", false, start, err, logger.Count(len(gs))) }(time.Now())
	return s.conn.Games().List(ctx)
}

// SetGameOwner transfiere la propiedad del juego.
func (s *Store) SetGameOwner(ctx context.Context, gameID int64, ownerID string) (err error) {
	defer func(start time.Time) {
		s.done(ctx, "set_game_owner", true, start, err, logger.GameID(gameID), logger.UserID(ownerID))
	}(time.Now())
	return s.conn.Games().SetOwner(ctx, gameID, ownerID)
}

// DeleteGame elimina el juego con sus parties y membresías.
func (s *Store) DeleteGame(ctx context.Context, gameID int64) (err error) {
	defer func(start time.Time) { s.done(ctx, "delete_game", true, start, err, logger.GameID(gameID)) }(time.Now())
	return s.conn.Games().Delete(ctx, gameID)
}

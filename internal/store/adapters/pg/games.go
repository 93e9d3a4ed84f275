package pg

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dropDatabas3/gamelobby/internal/domain/repository"
)

var _ repository.GameRepository = (*gameRepo)(nil)

// ─── GameRepository ───

type gameRepo struct{ pool *pgxpool.Pool }

const gameColumns = `id, name, owner_id, capacity`

func (r *gameRepo) Create(ctx context.Context, input repository.CreateGameInput) (*repository.Game, error) {
	game := &repository.Game{Name: input.Name, OwnerID: input.OwnerID, Capacity: input.Capacity}

	err := pgx.BeginTxFunc(ctx, r.pool, txOptions, func(tx pgx.Tx) error {
		ok, err := userExists(ctx, tx, input.OwnerID)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("%w: owner %q does not exist", repository.ErrReferential, input.OwnerID)
		}

		var taken bool
		if err := tx.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM game WHERE name = $1)`, input.Name).Scan(&taken); err != nil {
			return err
		}
		if taken {
			return fmt.Errorf("%w: game name %q already in use", repository.ErrConflict, input.Name)
		}

		return tx.QueryRow(ctx, `
			INSERT INTO game (name, owner_id, capacity) VALUES ($1, $2, $3)
			RETURNING id
		`, input.Name, input.OwnerID, input.Capacity).Scan(&game.ID)
	})
	if err != nil {
		return nil, wrap("create game", err)
	}
	return game, nil
}

func (r *gameRepo) GetByID(ctx context.Context, gameID int64) (*repository.Game, error) {
	var g repository.Game
	err := r.pool.QueryRow(ctx, `SELECT `+gameColumns+` FROM game WHERE id = $1`, gameID).
		Scan(&g.ID, &g.Name, &g.OwnerID, &g.Capacity)
	if err != nil {
		return nil, wrap("get game by id", err)
	}
	return &g, nil
}

func (r *gameRepo) GetByName(ctx context.Context, name string) (*repository.Game, error) {
	var g repository.Game
	err := r.pool.QueryRow(ctx, `SELECT `+gameColumns+` FROM game WHERE name = $1`, name).
		Scan(&g.ID, &g.Name, &g.OwnerID, &g.Capacity)
	if err != nil {
		return nil, wrap("get game by name", err)
	}
	return &g, nil
}

func (r *gameRepo) ListByOwner(ctx context.Context, ownerID string) ([]repository.Game, error) {
	return r.list(ctx, "list games by owner", `SELECT `+gameColumns+` FROM game WHERE owner_id = $1 ORDER BY id`, ownerID)
}

func (r *gameRepo) List(ctx context.Context) ([]repository.Game, error) {
	return r.list(ctx, "list games", `SELECT `+gameColumns+` FROM game ORDER BY id`)
}

func (r *gameRepo) list(ctx context.Context, op, query string, args ...any) ([]repository.Game, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, wrap(op, err)
	}
	defer rows.Close()

	games := []repository.Game{}
	for rows.Next() {
		var g repository.Game
		if err := rows.Scan(&g.ID, &g.Name, &g.OwnerID, &g.Capacity); err != nil {
			return nil, wrap(op, err)
		}
		games = append(games, g)
	}
	if err := rows.Err(); err != nil {
		return nil, wrap(op, err)
	}
	return games, nil
}

func (r *gameRepo) SetOwner(ctx context.Context, gameID int64, ownerID string) error {
	err := pgx.BeginTxFunc(ctx, r.pool, txOptions, func(tx pgx.Tx) error {
		if _, err := lockGame(ctx, tx, gameID); err != nil {
			return err
		}
		ok, err := userExists(ctx, tx, ownerID)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("%w: owner %q does not exist", repository.ErrReferential, ownerID)
		}
		_, err = tx.Exec(ctx, `UPDATE game SET owner_id = $2 WHERE id = $1`, gameID, ownerID)
		return err
	})
	return wrap("set game owner", err)
}

func (r *gameRepo) Delete(ctx context.Context, gameID int64) error {
	err := pgx.BeginTxFunc(ctx, r.pool, txOptions, func(tx pgx.Tx) error {
		if _, err := lockGame(ctx, tx, gameID); err != nil {
			return err
		}
		// Las parties caen por cascade; sus IDs quedan retirados.
		_, err := tx.Exec(ctx, `
			INSERT INTO retired_party (id) SELECT id FROM party WHERE game_id = $1
			ON CONFLICT (id) DO NOTHING
		`, gameID)
		if err != nil {
			return err
		}
		_, err = tx.Exec(ctx, `DELETE FROM game WHERE id = $1`, gameID)
		return err
	})
	return wrap("delete game", err)
}

// lockGame toma el lock de fila del juego y retorna su capacidad.
func lockGame(ctx context.Context, tx pgx.Tx, gameID int64) (int, error) {
	var capacity int
	err := tx.QueryRow(ctx, `SELECT capacity FROM game WHERE id = $1 FOR UPDATE`, gameID).Scan(&capacity)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, fmt.Errorf("%w: game %d", repository.ErrNotFound, gameID)
	}
	return capacity, err
}

// usedSeats cuenta las membresías de todas las parties del juego.
func usedSeats(ctx context.Context, tx pgx.Tx, gameID int64) (int, error) {
	var n int
	err := tx.QueryRow(ctx, `
		SELECT count(*) FROM party_membership m
		JOIN party p ON p.id = m.party_id
		WHERE p.game_id = $1
	`, gameID).Scan(&n)
	return n, err
}

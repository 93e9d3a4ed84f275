package sqldb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dropDatabas3/gamelobby/internal/domain/repository"
)

var _ repository.GameRepository = (*gameRepo)(nil)

// ─── GameRepository ───

type gameRepo struct{ c *Connection }

const gameColumns = `id, name, owner_id, capacity`

func (r *gameRepo) Create(ctx context.Context, input repository.CreateGameInput) (*repository.Game, error) {
	game := &repository.Game{Name: input.Name, OwnerID: input.OwnerID, Capacity: input.Capacity}

	err := r.c.withTx(ctx, func(tx *sql.Tx) error {
		ok, err := exists(ctx, tx, `SELECT 1 FROM app_user WHERE id = ?`+r.c.dialect.ForUpdate, input.OwnerID)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("%w: owner %q does not exist", repository.ErrReferential, input.OwnerID)
		}

		taken, err := exists(ctx, tx, `SELECT 1 FROM game WHERE name = ?`, input.Name)
		if err != nil {
			return err
		}
		if taken {
			return fmt.Errorf("%w: game name %q already in use", repository.ErrConflict, input.Name)
		}

		res, err := tx.ExecContext(ctx, `INSERT INTO game (name, owner_id, capacity) VALUES (?, ?, ?)`,
			input.Name, input.OwnerID, input.Capacity)
		if err != nil {
			return err
		}
		game.ID, err = res.LastInsertId()
		return err
	})
	if err != nil {
		return nil, r.c.wrap("create game", err)
	}
	return game, nil
}

func (r *gameRepo) GetByID(ctx context.Context, gameID int64) (*repository.Game, error) {
	var g repository.Game
	err := r.c.db.QueryRowContext(ctx, `SELECT `+gameColumns+` FROM game WHERE id = ?`, gameID).
		Scan(&g.ID, &g.Name, &g.OwnerID, &g.Capacity)
	if err != nil {
		return nil, r.c.wrap("get game by id", err)
	}
	return &g, nil
}

func (r *gameRepo) GetByName(ctx context.Context, name string) (*repository.Game, error) {
	var g repository.Game
	err := r.c.db.QueryRowContext(ctx, `SELECT `+gameColumns+` FROM game WHERE name = ?`, name).
		Scan(&g.ID, &g.Name, &g.OwnerID, &g.Capacity)
	if err != nil {
		return nil, r.c.wrap("get game by name", err)
	}
	return &g, nil
}

func (r *gameRepo) ListByOwner(ctx context.Context, ownerID string) ([]repository.Game, error) {
	return r.list(ctx, "list games by owner", `SELECT `+gameColumns+` FROM game WHERE owner_id = ? ORDER BY id`, ownerID)
}

func (r *gameRepo) List(ctx context.Context) ([]repository.Game, error) {
	return r.list(ctx, "list games", `SELECT `+gameColumns+` FROM game ORDER BY id`)
}

func (r *gameRepo) list(ctx context.Context, op, query string, args ...any) ([]repository.Game, error) {
	rows, err := r.c.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, r.c.wrap(op, err)
	}
	defer rows.Close()

	games := []repository.Game{}
	for rows.Next() {
		var g repository.Game
		if err := rows.Scan(&g.ID, &g.Name, &g.OwnerID, &g.Capacity); err != nil {
			return nil, r.c.wrap(op, err)
		}
		games = append(games, g)
	}
	if err := rows.Err(); err != nil {
		return nil, r.c.wrap(op, err)
	}
	return games, nil
}

func (r *gameRepo) SetOwner(ctx context.Context, gameID int64, ownerID string) error {
	err := r.c.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := r.c.lockGame(ctx, tx, gameID); err != nil {
			return err
		}
		ok, err := exists(ctx, tx, `SELECT 1 FROM app_user WHERE id = ?`+r.c.dialect.ForUpdate, ownerID)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("%w: owner %q does not exist", repository.ErrReferential, ownerID)
		}
		_, err = tx.ExecContext(ctx, `UPDATE game SET owner_id = ? WHERE id = ?`, ownerID, gameID)
		return err
	})
	return r.c.wrap("set game owner", err)
}

func (r *gameRepo) Delete(ctx context.Context, gameID int64) error {
	err := r.c.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := r.c.lockGame(ctx, tx, gameID); err != nil {
			return err
		}
		// Las parties caen por cascade; sus IDs quedan retirados.
		_, err := tx.ExecContext(ctx, `INSERT INTO retired_party (id) SELECT id FROM party WHERE game_id = ?`, gameID)
		if err != nil {
			return err
		}
		_, err = tx.ExecContext(ctx, `DELETE FROM game WHERE id = ?`, gameID)
		return err
	})
	return r.c.wrap("delete game", err)
}

// lockGame toma el lock de fila del juego y retorna su capacidad.
func (c *Connection) lockGame(ctx context.Context, tx *sql.Tx, gameID int64) (int, error) {
	var capacity int
	err := tx.QueryRowContext(ctx, `SELECT capacity FROM game WHERE id = ?`+c.dialect.ForUpdate, gameID).Scan(&capacity)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, fmt.Errorf("%w: game %d", repository.ErrNotFound, gameID)
	}
	return capacity, err
}

// usedSeats cuenta las membresías de todas las parties del juego.
func usedSeats(ctx context.Context, tx *sql.Tx, gameID int64) (int, error) {
	var n int
	err := tx.QueryRowContext(ctx, `
		SELECT count(*) FROM party_membership m
		JOIN party p ON p.id = m.party_id
		WHERE p.game_id = ?
	`, gameID).Scan(&n)
	return n, err
}

package pg

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dropDatabas3/gamelobby/internal/domain/repository"
	"github.com/dropDatabas3/gamelobby/internal/validation"
)

var _ repository.PartyRepository = (*partyRepo)(nil)

// ─── PartyRepository ───

type partyRepo struct{ pool *pgxpool.Pool }

func (r *partyRepo) Create(ctx context.Context, partyID, gameName string, userIDs []string) (*repository.Party, error) {
	// IDs repetidos: ErrConflict antes de tocar la PK de membresía.
	if err := validation.Members(userIDs); err != nil {
		return nil, err
	}
	party := &repository.Party{ID: partyID, Members: slices.Sorted(slices.Values(userIDs))}
	if party.Members == nil {
		party.Members = []string{}
	}

	err := pgx.BeginTxFunc(ctx, r.pool, txOptions, func(tx pgx.Tx) error {
		// 1. Juego (queda bloqueado hasta el commit)
		var capacity int
		err := tx.QueryRow(ctx, `SELECT id, capacity FROM game WHERE name = $1 FOR UPDATE`, gameName).
			Scan(&party.GameID, &capacity)
		if errors.Is(err, pgx.ErrNoRows) {
			return fmt.Errorf("%w: game %q", repository.ErrNotFound, gameName)
		}
		if err != nil {
			return err
		}

		// 2. ID libre y nunca usado
		var taken bool
		err = tx.QueryRow(ctx, `
			SELECT EXISTS (SELECT 1 FROM party WHERE id = $1)
			    OR EXISTS (SELECT 1 FROM retired_party WHERE id = $1)
		`, partyID).Scan(&taken)
		if err != nil {
			return err
		}
		if taken {
			return fmt.Errorf("%w: party id %q already used", repository.ErrConflict, partyID)
		}

		// 3. Usuarios existentes, reportando el primer faltante en orden de entrada
		if len(userIDs) > 0 {
			rows, err := tx.Query(ctx, `SELECT id FROM app_user WHERE id = ANY($1) FOR KEY SHARE`, userIDs)
			if err != nil {
				return err
			}
			found, err := pgx.CollectRows(rows, pgx.RowTo[string])
			if err != nil {
				return err
			}
			for _, id := range userIDs {
				if !slices.Contains(found, id) {
					return fmt.Errorf("%w: user %q does not exist", repository.ErrReferential, id)
				}
			}
		}

		// 4. Capacidad del juego
		used, err := usedSeats(ctx, tx, party.GameID)
		if err != nil {
			return err
		}
		if used+len(userIDs) > capacity {
			return fmt.Errorf("%w: game %q has %d of %d seats taken, %d requested",
				repository.ErrCapacityExceeded, gameName, used, capacity, len(userIDs))
		}

		// 5. Party + membresías
		if _, err := tx.Exec(ctx, `INSERT INTO party (id, game_id) VALUES ($1, $2)`, partyID, party.GameID); err != nil {
			return err
		}
		if len(userIDs) == 0 {
			return nil
		}
		rowsSrc := make([][]any, len(userIDs))
		for i, id := range userIDs {
			rowsSrc[i] = []any{partyID, id}
		}
		_, err = tx.CopyFrom(ctx, pgx.Identifier{"party_membership"}, []string{"party_id", "user_id"}, pgx.CopyFromRows(rowsSrc))
		return err
	})
	if err != nil {
		return nil, wrap("create party", err)
	}
	return party, nil
}

func (r *partyRepo) GetByID(ctx context.Context, partyID string) (*repository.Party, error) {
	party := &repository.Party{ID: partyID}
	err := r.pool.QueryRow(ctx, `SELECT game_id FROM party WHERE id = $1`, partyID).Scan(&party.GameID)
	if err != nil {
		return nil, wrap("get party", err)
	}

	rows, err := r.pool.Query(ctx, `SELECT user_id FROM party_membership WHERE party_id = $1 ORDER BY user_id`, partyID)
	if err != nil {
		return nil, wrap("get party members", err)
	}
	party.Members, err = pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, wrap("get party members", err)
	}
	if party.Members == nil {
		party.Members = []string{}
	}
	return party, nil
}

func (r *partyRepo) ListByGame(ctx context.Context, gameID int64) ([]repository.Party, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT p.id, m.user_id
		FROM party p
		LEFT JOIN party_membership m ON m.party_id = p.id
		WHERE p.game_id = $1
		ORDER BY p.id, m.user_id
	`, gameID)
	if err != nil {
		return nil, wrap("list parties", err)
	}
	defer rows.Close()

	parties := []repository.Party{}
	for rows.Next() {
		var id string
		var userID *string
		if err := rows.Scan(&id, &userID); err != nil {
			return nil, wrap("list parties", err)
		}
		if n := len(parties); n == 0 || parties[n-1].ID != id {
			parties = append(parties, repository.Party{ID: id, GameID: gameID, Members: []string{}})
		}
		if userID != nil {
			last := &parties[len(parties)-1]
			last.Members = append(last.Members, *userID)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, wrap("list parties", err)
	}
	return parties, nil
}

func (r *partyRepo) AddMember(ctx context.Context, partyID, userID string) error {
	err := pgx.BeginTxFunc(ctx, r.pool, txOptions, func(tx pgx.Tx) error {
		var gameID int64
		err := tx.QueryRow(ctx, `SELECT game_id FROM party WHERE id = $1`, partyID).Scan(&gameID)
		if errors.Is(err, pgx.ErrNoRows) {
			return fmt.Errorf("%w: party %q", repository.ErrNotFound, partyID)
		}
		if err != nil {
			return err
		}
		capacity, err := lockGame(ctx, tx, gameID)
		if err != nil {
			return err
		}

		ok, err := userExists(ctx, tx, userID)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("%w: user %q does not exist", repository.ErrReferential, userID)
		}

		var member bool
		err = tx.QueryRow(ctx, `
			SELECT EXISTS (SELECT 1 FROM party_membership WHERE party_id = $1 AND user_id = $2)
		`, partyID, userID).Scan(&member)
		if err != nil {
			return err
		}
		if member {
			return fmt.Errorf("%w: user %q already in party %q", repository.ErrConflict, userID, partyID)
		}

		used, err := usedSeats(ctx, tx, gameID)
		if err != nil {
			return err
		}
		if used+1 > capacity {
			return fmt.Errorf("%w: game %d has %d of %d seats taken",
				repository.ErrCapacityExceeded, gameID, used, capacity)
		}

		_, err = tx.Exec(ctx, `INSERT INTO party_membership (party_id, user_id) VALUES ($1, $2)`, partyID, userID)
		return err
	})
	return wrap("add party member", err)
}

func (r *partyRepo) RemoveMember(ctx context.Context, partyID, userID string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM party_membership WHERE party_id = $1 AND user_id = $2`, partyID, userID)
	if err != nil {
		return wrap("remove party member", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("pg: remove party member: %w: user %q in party %q", repository.ErrNotFound, userID, partyID)
	}
	return nil
}

func (r *partyRepo) Delete(ctx context.Context, partyID string) error {
	err := pgx.BeginTxFunc(ctx, r.pool, txOptions, func(tx pgx.Tx) error {
		var id string
		err := tx.QueryRow(ctx, `SELECT id FROM party WHERE id = $1 FOR UPDATE`, partyID).Scan(&id)
		if errors.Is(err, pgx.ErrNoRows) {
			return fmt.Errorf("%w: party %q", repository.ErrNotFound, partyID)
		}
		if err != nil {
			return err
		}
		if _, err := tx.Exec(ctx, `INSERT INTO retired_party (id) VALUES ($1) ON CONFLICT (id) DO NOTHING`, partyID); err != nil {
			return err
		}
		_, err = tx.Exec(ctx, `DELETE FROM party WHERE id = $1`, partyID)
		return err
	})
	return wrap("delete party", err)
}

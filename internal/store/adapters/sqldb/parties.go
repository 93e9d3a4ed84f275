package sqldb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"slices"

	"github.com/dropDatabas3/gamelobby/internal/domain/repository"
	"github.com/dropDatabas3/gamelobby/internal/validation"
)

var _ repository.PartyRepository = (*partyRepo)(nil)

// ─── PartyRepository ───

type partyRepo struct{ c *Connection }

func (r *partyRepo) Create(ctx context.Context, partyID, gameName string, userIDs []string) (*repository.Party, error) {
	// IDs repetidos: ErrConflict antes de tocar la PK de membresía.
	if err := validation.Members(userIDs); err != nil {
		return nil, err
	}
	party := &repository.Party{ID: partyID, Members: slices.Sorted(slices.Values(userIDs))}
	if party.Members == nil {
		party.Members = []string{}
	}

	err := r.c.withTx(ctx, func(tx *sql.Tx) error {
		// 1. Juego (queda bloqueado hasta el commit)
		var capacity int
		err := tx.QueryRowContext(ctx, `SELECT id, capacity FROM game WHERE name = ?`+r.c.dialect.ForUpdate, gameName).
			Scan(&party.GameID, &capacity)
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("%w: game %q", repository.ErrNotFound, gameName)
		}
		if err != nil {
			return err
		}

		// 2. ID libre y nunca usado
		taken, err := exists(ctx, tx, `
			SELECT 1 FROM party WHERE id = ?
			UNION ALL
			SELECT 1 FROM retired_party WHERE id = ?
		`, partyID, partyID)
		if err != nil {
			return err
		}
		if taken {
			return fmt.Errorf("%w: party id %q already used", repository.ErrConflict, partyID)
		}

		// 3. Usuarios existentes, reportando el primer faltante en orden de entrada
		for _, id := range userIDs {
			ok, err := exists(ctx, tx, `SELECT 1 FROM app_user WHERE id = ?`, id)
			if err != nil {
				return err
			}
			if !ok {
				return fmt.Errorf("%w: user %q does not exist", repository.ErrReferential, id)
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
		if _, err := tx.ExecContext(ctx, `INSERT INTO party (id, game_id) VALUES (?, ?)`, partyID, party.GameID); err != nil {
			return err
		}
		if len(userIDs) == 0 {
			return nil
		}
		stmt, err := tx.PrepareContext(ctx, `INSERT INTO party_membership (party_id, user_id) VALUES (?, ?)`)
		if err != nil {
			return err
		}
		defer stmt.Close()
		for _, id := range userIDs {
			if _, err := stmt.ExecContext(ctx, partyID, id); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, r.c.wrap("create party", err)
	}
	return party, nil
}

func (r *partyRepo) GetByID(ctx context.Context, partyID string) (*repository.Party, error) {
	party := &repository.Party{ID: partyID, Members: []string{}}
	err := r.c.db.QueryRowContext(ctx, `SELECT game_id FROM party WHERE id = ?`, partyID).Scan(&party.GameID)
	if err != nil {
		return nil, r.c.wrap("get party", err)
	}

	rows, err := r.c.db.QueryContext(ctx, `SELECT user_id FROM party_membership WHERE party_id = ? ORDER BY user_id`, partyID)
	if err != nil {
		return nil, r.c.wrap("get party members", err)
	}
	defer rows.Close()
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, r.c.wrap("get party members", err)
		}
		party.Members = append(party.Members, id)
	}
	if err := rows.Err(); err != nil {
		return nil, r.c.wrap("get party members", err)
	}
	return party, nil
}

func (r *partyRepo) ListByGame(ctx context.Context, gameID int64) ([]repository.Party, error) {
	rows, err := r.c.db.QueryContext(ctx, `
		SELECT p.id, m.user_id
		FROM party p
		LEFT JOIN party_membership m ON m.party_id = p.id
		WHERE p.game_id = ?
		ORDER BY p.id, m.user_id
	`, gameID)
	if err != nil {
		return nil, r.c.wrap("list parties", err)
	}
	defer rows.Close()

	parties := []repository.Party{}
	for rows.Next() {
		var id string
		var userID sql.NullString
		if err := rows.Scan(&id, &userID); err != nil {
			return nil, r.c.wrap("list parties", err)
		}
		if n := len(parties); n == 0 || parties[n-1].ID != id {
			parties = append(parties, repository.Party{ID: id, GameID: gameID, Members: []string{}})
		}
		if userID.Valid {
			last := &parties[len(parties)-1]
			last.Members = append(last.Members, userID.String)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, r.c.wrap("list parties", err)
	}
	return parties, nil
}

func (r *partyRepo) AddMember(ctx context.Context, partyID, userID string) error {
	err := r.c.withTx(ctx, func(tx *sql.Tx) error {
		var gameID int64
		err := tx.QueryRowContext(ctx, `SELECT game_id FROM party WHERE id = ?`, partyID).Scan(&gameID)
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("%w: party %q", repository.ErrNotFound, partyID)
		}
		if err != nil {
			return err
		}
		capacity, err := r.c.lockGame(ctx, tx, gameID)
		if err != nil {
			return err
		}

		ok, err := exists(ctx, tx, `SELECT 1 FROM app_user WHERE id = ?`, userID)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("%w: user %q does not exist", repository.ErrReferential, userID)
		}

		member, err := exists(ctx, tx, `SELECT 1 FROM party_membership WHERE party_id = ? AND user_id = ?`, partyID, userID)
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

		_, err = tx.ExecContext(ctx, `INSERT INTO party_membership (party_id, user_id) VALUES (?, ?)`, partyID, userID)
		return err
	})
	return r.c.wrap("add party member", err)
}

func (r *partyRepo) RemoveMember(ctx context.Context, partyID, userID string) error {
	res, err := r.c.db.ExecContext(ctx, `DELETE FROM party_membership WHERE party_id = ? AND user_id = ?`, partyID, userID)
	if err != nil {
		return r.c.wrap("remove party member", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return r.c.wrap("remove party member", err)
	}
	if n == 0 {
		return r.c.wrap("remove party member",
			fmt.Errorf("%w: user %q in party %q", repository.ErrNotFound, userID, partyID))
	}
	return nil
}

func (r *partyRepo) Delete(ctx context.Context, partyID string) error {
	err := r.c.withTx(ctx, func(tx *sql.Tx) error {
		ok, err := exists(ctx, tx, `SELECT 1 FROM party WHERE id = ?`+r.c.dialect.ForUpdate, partyID)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("%w: party %q", repository.ErrNotFound, partyID)
		}
		if _, err := tx.ExecContext(ctx, `INSERT INTO retired_party (id) VALUES (?)`, partyID); err != nil {
			return err
		}
		_, err = tx.ExecContext(ctx, `DELETE FROM party WHERE id = ?`, partyID)
		return err
	})
	return r.c.wrap("delete party", err)
}

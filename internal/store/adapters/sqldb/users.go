package sqldb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dropDatabas3/gamelobby/internal/domain/repository"
	"github.com/dropDatabas3/gamelobby/internal/validation"
)

var _ repository.UserRepository = (*userRepo)(nil)

// ─── UserRepository ───

type userRepo struct{ c *Connection }

const userColumns = `id, name, email, password, is_admin, is_verified`

func scanUser(row *sql.Row) (*repository.User, error) {
	var u repository.User
	if err := row.Scan(&u.ID, &u.Name, &u.Email, &u.Password, &u.IsAdmin, &u.IsVerified); err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *userRepo) Create(ctx context.Context, input repository.CreateUserInput) (*repository.User, error) {
	if err := validation.User(input); err != nil {
		return nil, err
	}
	err := r.c.withTx(ctx, func(tx *sql.Tx) error {
		var taken string
		err := tx.QueryRowContext(ctx, `
			SELECT CASE
				WHEN id = ? THEN 'id'
				WHEN lower(name) = lower(?) THEN 'name'
				ELSE 'email'
			END
			FROM app_user
			WHERE id = ? OR lower(name) = lower(?) OR lower(email) = lower(?)
			LIMIT 1
		`, input.ID, input.Name, input.ID, input.Name, input.Email).Scan(&taken)
		switch {
		case err == nil:
			return fmt.Errorf("%w: user %s already in use", repository.ErrConflict, taken)
		case !errors.Is(err, sql.ErrNoRows):
			return err
		}

		_, err = tx.ExecContext(ctx, `
			INSERT INTO app_user (id, name, email, password, is_admin, is_verified)
			VALUES (?, ?, ?, ?, ?, ?)
		`, input.ID, input.Name, input.Email, input.Password, input.IsAdmin, false)
		return err
	})
	if err != nil {
		return nil, r.c.wrap("create user", err)
	}

	return &repository.User{
		ID:       input.ID,
		Name:     input.Name,
		Email:    input.Email,
		Password: input.Password,
		IsAdmin:  input.IsAdmin,
	}, nil
}

func (r *userRepo) GetByID(ctx context.Context, userID string) (*repository.User, error) {
	u, err := scanUser(r.c.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM app_user WHERE id = ?`, userID))
	if err != nil {
		return nil, r.c.wrap("get user by id", err)
	}
	return u, nil
}

func (r *userRepo) GetByLogin(ctx context.Context, login string) (*repository.User, error) {
	// Un nombre nunca tiene forma de email, así que a lo sumo una fila coincide.
	const query = `SELECT ` + userColumns + ` FROM app_user
		WHERE lower(name) = lower(?) OR lower(email) = lower(?)`
	u, err := scanUser(r.c.db.QueryRowContext(ctx, query, login, login))
	if err != nil {
		return nil, r.c.wrap("get user by login", err)
	}
	return u, nil
}

func (r *userRepo) SetVerified(ctx context.Context, userID string, verified bool) error {
	return r.setFlag(ctx, "set verified", `UPDATE app_user SET is_verified = ? WHERE id = ?`, userID, verified)
}

func (r *userRepo) SetAdmin(ctx context.Context, userID string, admin bool) error {
	return r.setFlag(ctx, "set admin", `UPDATE app_user SET is_admin = ? WHERE id = ?`, userID, admin)
}

// setFlag chequea existencia antes del UPDATE: MySQL no cuenta como afectadas
// las filas que no cambian.
func (r *userRepo) setFlag(ctx context.Context, op, query, userID string, value bool) error {
	err := r.c.withTx(ctx, func(tx *sql.Tx) error {
		if err := r.lock(ctx, tx, userID); err != nil {
			return err
		}
		_, err := tx.ExecContext(ctx, query, value, userID)
		return err
	})
	return r.c.wrap(op, err)
}

func (r *userRepo) ChangeID(ctx context.Context, oldID, newID string) error {
	err := r.c.withTx(ctx, func(tx *sql.Tx) error {
		if err := r.lock(ctx, tx, oldID); err != nil {
			return err
		}
		if oldID == newID {
			return nil
		}

		taken, err := exists(ctx, tx, `SELECT 1 FROM app_user WHERE id = ?`, newID)
		if err != nil {
			return err
		}
		if taken {
			return fmt.Errorf("%w: user id %q already in use", repository.ErrConflict, newID)
		}

		// game.owner_id y party_membership.user_id siguen el cambio (ON UPDATE CASCADE).
		_, err = tx.ExecContext(ctx, `UPDATE app_user SET id = ? WHERE id = ?`, newID, oldID)
		return err
	})
	return r.c.wrap("change user id", err)
}

func (r *userRepo) Delete(ctx context.Context, userID string) error {
	err := r.c.withTx(ctx, func(tx *sql.Tx) error {
		if err := r.lock(ctx, tx, userID); err != nil {
			return err
		}

		var memberships, games int
		err := tx.QueryRowContext(ctx, `
			SELECT
				(SELECT count(*) FROM party_membership WHERE user_id = ?),
				(SELECT count(*) FROM game WHERE owner_id = ?)
		`, userID, userID).Scan(&memberships, &games)
		if err != nil {
			return err
		}
		if memberships > 0 || games > 0 {
			return fmt.Errorf("%w: user %q still has %d memberships and owns %d games",
				repository.ErrReferential, userID, memberships, games)
		}

		_, err = tx.ExecContext(ctx, `DELETE FROM app_user WHERE id = ?`, userID)
		return err
	})
	return r.c.wrap("delete user", err)
}

// lock toma el lock de fila del usuario (si el motor lo soporta) o retorna ErrNotFound.
func (r *userRepo) lock(ctx context.Context, tx *sql.Tx, userID string) error {
	ok, err := exists(ctx, tx, `SELECT 1 FROM app_user WHERE id = ?`+r.c.dialect.ForUpdate, userID)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: user %q", repository.ErrNotFound, userID)
	}
	return nil
}

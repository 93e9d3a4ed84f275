package pg

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dropDatabas3/gamelobby/internal/domain/repository"
	"github.com/dropDatabas3/gamelobby/internal/validation"
)

var _ repository.UserRepository = (*userRepo)(nil)

// ─── UserRepository ───

type userRepo struct{ pool *pgxpool.Pool }

const userColumns = `id, name, email, password, is_admin, is_verified`

func scanUser(row pgx.Row) (*repository.User, error) {
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
	err := pgx.BeginTxFunc(ctx, r.pool, txOptions, func(tx pgx.Tx) error {
		var taken string
		err := tx.QueryRow(ctx, `
			SELECT CASE
				WHEN id = $1 THEN 'id'
				WHEN lower(name) = lower($2) THEN 'name'
				ELSE 'email'
			END
			FROM app_user
			WHERE id = $1 OR lower(name) = lower($2) OR lower(email) = lower($3)
			LIMIT 1
		`, input.ID, input.Name, input.Email).Scan(&taken)
		switch {
		case err == nil:
			return fmt.Errorf("%w: user %s already in use", repository.ErrConflict, taken)
		case !errors.Is(err, pgx.ErrNoRows):
			return err
		}

		_, err = tx.Exec(ctx, `
			INSERT INTO app_user (id, name, email, password, is_admin, is_verified)
			VALUES ($1, $2, $3, $4, $5, FALSE)
		`, input.ID, input.Name, input.Email, input.Password, input.IsAdmin)
		return err
	})
	if err != nil {
		return nil, wrap("create user", err)
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
	u, err := scanUser(r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM app_user WHERE id = $1`, userID))
	if err != nil {
		return nil, wrap("get user by id", err)
	}
	return u, nil
}

func (r *userRepo) GetByLogin(ctx context.Context, login string) (*repository.User, error) {
	// Un nombre nunca tiene forma de email, así que a lo sumo una fila coincide.
	const query = `SELECT ` + userColumns + ` FROM app_user
		WHERE lower(name) = lower($1) OR lower(email) = lower($1)`
	u, err := scanUser(r.pool.QueryRow(ctx, query, login))
	if err != nil {
		return nil, wrap("get user by login", err)
	}
	return u, nil
}

func (r *userRepo) SetVerified(ctx context.Context, userID string, verified bool) error {
	return r.setFlag(ctx, "set verified", `UPDATE app_user SET is_verified = $2 WHERE id = $1`, userID, verified)
}

func (r *userRepo) SetAdmin(ctx context.Context, userID string, admin bool) error {
	return r.setFlag(ctx, "set admin", `UPDATE app_user SET is_admin = $2 WHERE id = $1`, userID, admin)
}

func (r *userRepo) setFlag(ctx context.Context, op, query, userID string, value bool) error {
	tag, err := r.pool.Exec(ctx, query, userID, value)
	if err != nil {
		return wrap(op, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("pg: %s: %w", op, repository.ErrNotFound)
	}
	return nil
}

func (r *userRepo) ChangeID(ctx context.Context, oldID, newID string) error {
	err := pgx.BeginTxFunc(ctx, r.pool, txOptions, func(tx pgx.Tx) error {
		if err := lockUser(ctx, tx, oldID); err != nil {
			return err
		}
		if oldID == newID {
			return nil
		}

		var taken bool
		if err := tx.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM app_user WHERE id = $1)`, newID).Scan(&taken); err != nil {
			return err
		}
		if taken {
			return fmt.Errorf("%w: user id %q already in use", repository.ErrConflict, newID)
		}

		// game.owner_id y party_membership.user_id siguen el cambio (ON UPDATE CASCADE).
		_, err := tx.Exec(ctx, `UPDATE app_user SET id = $2 WHERE id = $1`, oldID, newID)
		return err
	})
	return wrap("change user id", err)
}

func (r *userRepo) Delete(ctx context.Context, userID string) error {
	err := pgx.BeginTxFunc(ctx, r.pool, txOptions, func(tx pgx.Tx) error {
		if err := lockUser(ctx, tx, userID); err != nil {
			return err
		}

		var memberships, games int
		err := tx.QueryRow(ctx, `
			SELECT
				(SELECT count(*) FROM party_membership WHERE user_id = $1),
				(SELECT count(*) FROM game WHERE owner_id = $1)
		`, userID).Scan(&memberships, &games)
		if err != nil {
			return err
		}
		if memberships > 0 || games > 0 {
			return fmt.Errorf("%w: user %q still has %d memberships and owns %d games",
				repository.ErrReferential, userID, memberships, games)
		}

		_, err = tx.Exec(ctx, `DELETE FROM app_user WHERE id = $1`, userID)
		return err
	})
	return wrap("delete user", err)
}

// lockUser toma el lock de fila del usuario o retorna ErrNotFound.
func lockUser(ctx context.Context, tx pgx.Tx, userID string) error {
	var id string
	err := tx.QueryRow(ctx, `SELECT id FROM app_user WHERE id = $1 FOR UPDATE`, userID).Scan(&id)
	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("%w: user %q", repository.ErrNotFound, userID)
	}
	return err
}

// userExists chequea la existencia de un usuario referenciado (FOR KEY SHARE
// bloquea su borrado hasta el fin de la transacción).
func userExists(ctx context.Context, tx pgx.Tx, userID string) (bool, error) {
	var id string
	err := tx.QueryRow(ctx, `SELECT id FROM app_user WHERE id = $1 FOR KEY SHARE`, userID).Scan(&id)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, nil
	}
	return err == nil, err
}

package lobby

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/dropDatabas3/gamelobby/internal/domain/repository"
	"github.com/dropDatabas3/gamelobby/internal/observability/logger"
	"github.com/dropDatabas3/gamelobby/internal/validation"
)

// CreateUser valida el formato y crea el usuario.
func (s *Store) CreateUser(ctx context.Context, in repository.CreateUserInput) (u *repository.User, err error) {
	defer func(start time.Time) {
		s.done(ctx, "create_user", true, start, err, logger.UserID(in.ID), logger.Email(in.Email), zap.Bool("is_admin", in.IsAdmin))
	}(time.Now())

	if err = validation.User(in); err != nil {
		return nil, err
	}
	return s.conn.Users().Create(ctx, in)
}

// GetUserByID busca un usuario por ID.
func (s *Store) GetUserByID(ctx context.Context, id string) (u *repository.User, err error) {
	defer func(start time.Time) { s.done(ctx, "get_user", false, start, err, logger.UserID(id)) }(time.Now())
	return s.conn.Users().GetByID(ctx, id)
}

// GetUserByLogin busca por nombre o email, sin distinguir mayúsculas.
func (s *Store) GetUserByLogin(ctx context.Context, login string) (u *repository.User, err error) {
	defer func(start time.Time) { s.done(ctx, "get_user_by_login", false, start, err, logger.Login(login)) }(time.Now())
	return s.conn.Users().GetByLogin(ctx, login)
}

// SetUserVerified marca o desmarca al usuario como verificado.
func (s *Store) SetUserVerified(ctx context.Context, id string, verified bool) (err error) {
	defer func(start time.Time) {
		s.done(ctx, "set_user_verified", true, start, err, logger.UserID(id), zap.Bool("verified", verified))
	}(time.Now())
	return s.conn.Users().SetVerified(ctx, id, verified)
}

// SetUserAdmin marca o desmarca al usuario como administrador.
func (s *Store) SetUserAdmin(ctx context.Context, id string, admin bool) (err error) {
	defer func(start time.Time) {
		s.done(ctx, "set_user_admin", true, start, err, logger.UserID(id), zap.Bool("admin", admin))
	}(time.Now())
	return s.conn.Users().SetAdmin(ctx, id, admin)
}

// ChangeUserID renombra el ID; juegos y membresías siguen al usuario.
func (s *Store) ChangeUserID(ctx context.Context, oldID, newID string) (err error) {
	defer func(start time.Time) {
		s.done(ctx, "change_user_id", true, start, err, logger.UserID(oldID), zap.String("new_user_id", newID))
	}(time.Now())

	if err = validation.ID("new user id", newID); err != nil {
		return err
	}
	return s.conn.Users().ChangeID(ctx, oldID, newID)
}

// DeleteUser elimina un usuario sin membresías ni juegos propios.
func (s *Store) DeleteUser(ctx context.Context, id string) (err error) {
	defer func(start time.Time) { s.done(ctx, "delete_user", true, start, err, logger.UserID(id)) }(time.Now())
	return s.conn.Users().Delete(ctx, id)
}

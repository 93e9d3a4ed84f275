package pg

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/dropDatabas3/gamelobby/internal/domain/repository"
)

// SQLSTATE relevantes.
const (
	codeUniqueViolation      = "23505"
	codeForeignKeyViolation  = "23503"
	codeCheckViolation       = "23514"
	codeNotNullViolation     = "23502"
	codeSerializationFailure = "40001"
	codeDeadlockDetected     = "40P01"
	codeLockNotAvailable     = "55P03"
)

// classify traduce un error de pgx a la taxonomía de repository.
// Los errores que ya pertenecen a la taxonomía pasan sin cambios.
//
// Toda escritura pre-chequea unicidad y referencias dentro de su transacción,
// así que una violación de unique o FK que llega desde el motor significa
// que otra transacción ganó la carrera.
func classify(err error) error {
	if err == nil || repository.IsTaxonomy(err) {
		return err
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("%w: %w", repository.ErrNotFound, err)
	}

	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}
	switch pgErr.Code {
	case codeUniqueViolation:
		return repository.RaceLost(repository.ErrConflict, err)
	case codeForeignKeyViolation:
		return repository.RaceLost(repository.ErrReferential, err)
	case codeCheckViolation, codeNotNullViolation:
		return fmt.Errorf("%w: %w", repository.ErrInvalidInput, err)
	case codeSerializationFailure, codeDeadlockDetected, codeLockNotAvailable:
		return fmt.Errorf("%w: %w", repository.ErrConcurrencyConflict, err)
	}
	return err
}

// wrap clasifica err y le agrega el prefijo "pg: <op>".
func wrap(op string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("pg: %s: %w", op, classify(err))
}

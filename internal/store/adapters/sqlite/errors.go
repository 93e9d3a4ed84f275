package sqlite

import (
	"errors"
	"fmt"
	"strings"

	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/dropDatabas3/gamelobby/internal/domain/repository"
)

// classify traduce errores de modernc.org/sqlite a la taxonomía de repository.
// Los escritores están serializados, así que una violación de constraint
// después del pre-chequeo solo puede venir de una carrera.
func classify(err error) error {
	var sErr *sqlite.Error
	if errors.As(err, &sErr) {
		switch sErr.Code() {
		case sqlite3.SQLITE_CONSTRAINT_UNIQUE, sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY:
			return repository.RaceLost(repository.ErrConflict, err)
		case sqlite3.SQLITE_CONSTRAINT_FOREIGNKEY:
			return repository.RaceLost(repository.ErrReferential, err)
		case sqlite3.SQLITE_CONSTRAINT_CHECK, sqlite3.SQLITE_CONSTRAINT_NOTNULL:
			return fmt.Errorf("%w: %w", repository.ErrInvalidInput, err)
		}
		switch sErr.Code() & 0xff {
		case sqlite3.SQLITE_BUSY, sqlite3.SQLITE_LOCKED:
			return fmt.Errorf("%w: %w", repository.ErrConcurrencyConflict, err)
		}
	}

	// Fallback por mensaje (errores envueltos por capas que pierden el tipo).
	msg := err.Error()
	switch {
	case strings.Contains(msg, "UNIQUE constraint failed"):
		return repository.RaceLost(repository.ErrConflict, err)
	case strings.Contains(msg, "FOREIGN KEY constraint failed"):
		return repository.RaceLost(repository.ErrReferential, err)
	case strings.Contains(msg, "CHECK constraint failed"), strings.Contains(msg, "NOT NULL constraint failed"):
		return fmt.Errorf("%w: %w", repository.ErrInvalidInput, err)
	case strings.Contains(msg, "database is locked"):
		return fmt.Errorf("%w: %w", repository.ErrConcurrencyConflict, err)
	}
	return err
}

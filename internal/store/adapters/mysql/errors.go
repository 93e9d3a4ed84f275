package mysql

import (
	"errors"
	"fmt"

	"github.com/go-sql-driver/mysql"

	"github.com/dropDatabas3/gamelobby/internal/domain/repository"
)

// Números de error del servidor MySQL.
const (
	erDupEntry        = 1062
	erRowIsReferenced = 1451
	erNoReferencedRow = 1452
	erCheckViolated   = 3819
	erBadNull         = 1048
	erLockDeadlock    = 1213
	erLockWaitTimeout = 1205
)

// classify traduce *mysql.MySQLError a la taxonomía de repository.
func classify(err error) error {
	var myErr *mysql.MySQLError
	if !errors.As(err, &myErr) {
		return err
	}
	switch myErr.Number {
	case erDupEntry:
		return repository.RaceLost(repository.ErrConflict, err)
	case erRowIsReferenced, erNoReferencedRow:
		return repository.RaceLost(repository.ErrReferential, err)
	case erCheckViolated, erBadNull:
		return fmt.Errorf("%w: %w", repository.ErrInvalidInput, err)
	case erLockDeadlock, erLockWaitTimeout:
		return fmt.Errorf("%w: %w", repository.ErrConcurrencyConflict, err)
	}
	return err
}

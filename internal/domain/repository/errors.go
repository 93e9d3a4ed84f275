package repository

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound indica que el recurso solicitado no existe.
	ErrNotFound = errors.New("not found")

	// ErrConflict indica una violación de unicidad (nombre, email, id de party duplicados).
	ErrConflict = errors.New("conflict")

	// ErrInvalidInput indica que los datos de entrada no cumplen el formato esperado.
	ErrInvalidInput = errors.New("invalid input")

	// ErrReferential indica que una referencia (owner, usuario, juego) no existe
	// o que un borrado fue rechazado porque todavía hay filas que dependen del recurso.
	ErrReferential = errors.New("referential violation")

	// ErrCapacityExceeded indica que la operación superaría la capacidad del juego.
	ErrCapacityExceeded = errors.New("capacity exceeded")

	// ErrConcurrencyConflict indica que otra transacción concurrente ganó la carrera.
	// El reintento es responsabilidad del caller.
	ErrConcurrencyConflict = errors.New("concurrency conflict")

	// ErrNotImplemented indica que la operación no está implementada por este driver.
	ErrNotImplemented = errors.New("not implemented")

	// ErrNoDatabase indica que no hay base de datos configurada.
	ErrNoDatabase = errors.New("no database configured")
)

// RaceLost envuelve un error de constraint que apareció después de que el
// pre-chequeo dentro de la transacción había pasado: otro writer llegó primero.
// El resultado matchea tanto ErrConcurrencyConflict como kind.
func RaceLost(kind, cause error) error {
	return fmt.Errorf("%w (%w): %w", ErrConcurrencyConflict, kind, cause)
}

// IsTaxonomy reporta si err ya fue clasificado en alguno de los sentinels del paquete.
func IsTaxonomy(err error) bool {
	for _, target := range []error{
		ErrNotFound, ErrConflict, ErrInvalidInput, ErrReferential,
		ErrCapacityExceeded, ErrConcurrencyConflict, ErrNotImplemented, ErrNoDatabase,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// IsNotFound verifica si el error es ErrNotFound.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsConflict verifica si el error es ErrConflict.
func IsConflict(err error) bool {
	return errors.Is(err, ErrConflict)
}

// IsInvalidInput verifica si el error es ErrInvalidInput.
func IsInvalidInput(err error) bool {
	return errors.Is(err, ErrInvalidInput)
}

// IsReferential verifica si el error es ErrReferential.
func IsReferential(err error) bool {
	return errors.Is(err, ErrReferential)
}

// IsCapacityExceeded verifica si el error es ErrCapacityExceeded.
func IsCapacityExceeded(err error) bool {
	return errors.Is(err, ErrCapacityExceeded)
}

// IsConcurrencyConflict verifica si el error es ErrConcurrencyConflict.
func IsConcurrencyConflict(err error) bool {
	return errors.Is(err, ErrConcurrencyConflict)
}

// IsNoDatabase verifica si el error es ErrNoDatabase.
func IsNoDatabase(err error) bool {
	return errors.Is(err, ErrNoDatabase)
}

// Kind retorna una etiqueta estable para la categoría del error
// ("ok" si err es nil, "error" si no pertenece a la taxonomía).
// Se usa en logs y labels de métricas.
func Kind(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrConcurrencyConflict):
		// Antes que conflict/referential: una carrera perdida matchea ambos.
		return "concurrency_conflict"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrConflict):
		return "conflict"
	case errors.Is(err, ErrInvalidInput):
		return "invalid_input"
	case errors.Is(err, ErrReferential):
		return "referential"
	case errors.Is(err, ErrCapacityExceeded):
		return "capacity_exceeded"
	case errors.Is(err, ErrNotImplemented):
		return "not_implemented"
	case errors.Is(err, ErrNoDatabase):
		return "no_database"
	}
	return "error"
}

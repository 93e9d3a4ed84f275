package logger

import (
	"time"

	"go.uber.org/zap"

	"github.com/dropDatabas3/gamelobby/internal/domain/repository"
)

// ─── Campos de dominio ───

// UserID crea un campo para el ID del usuario.
func UserID(v string) zap.Field {
	return zap.String("user_id", v)
}

// GameID crea un campo para el ID del juego.
func GameID(v int64) zap.Field {
	return zap.Int64("game_id", v)
}

// GameName crea un campo para el nombre del juego.
func GameName(v string) zap.Field {
	return zap.String("game_name", v)
}

// PartyID crea un campo para el ID de la party.
func PartyID(v string) zap.Field {
	return zap.String("party_id", v)
}

// ─── Campos de sistema ───

// Driver crea un campo para el adapter de storage activo.
func Driver(v string) zap.Field {
	return zap.String("driver", v)
}

// Component crea un campo para el componente/módulo.
func Component(v string) zap.Field {
	return zap.String("component", v)
}

// Op crea un campo para la operación actual.
func Op(v string) zap.Field {
	return zap.String("op", v)
}

// Err crea un campo para un error.
func Err(err error) zap.Field {
	return zap.Error(err)
}

// ErrKind etiqueta la categoría del error (not_found, conflict, ...).
func ErrKind(err error) zap.Field {
	return zap.String("error_kind", repository.Kind(err))
}

// Count crea un campo para un conteo.
func Count(v int) zap.Field {
	return zap.Int("count", v)
}

// Duration crea un campo para una duración.
func Duration(v time.Duration) zap.Field {
	return zap.Duration("duration", v)
}

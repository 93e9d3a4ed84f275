package logger

import (
	"context"

	"go.uber.org/zap"
)

type ctxKey struct{}

// ToContext inyecta un logger en el contexto.
func ToContext(ctx context.Context, l *zap.Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, l)
}

// From extrae el logger del contexto, o el singleton si no hay ninguno.
func From(ctx context.Context) *zap.Logger {
	return FromOr(ctx, L())
}

// FromOr extrae el logger del contexto, o def si no hay ninguno.
func FromOr(ctx context.Context, def *zap.Logger) *zap.Logger {
	if ctx != nil {
		if l, ok := ctx.Value(ctxKey{}).(*zap.Logger); ok {
			return l
		}
	}
	return def
}

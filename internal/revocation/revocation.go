// Package revocation mantiene la lista de tokens revocados.
// Un token revocado deja de ser válido hasta que expira su entrada.
package revocation

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/dropDatabas3/gamelobby/internal/cache"
	"github.com/dropDatabas3/gamelobby/internal/domain/repository"
	"github.com/dropDatabas3/gamelobby/internal/metrics"
	"github.com/dropDatabas3/gamelobby/internal/observability/logger"
)

const keyPrefix = "revoked:"

// List es la lista de revocación sobre un cache.Client.
type List struct {
	c   cache.Client
	log *zap.Logger
}

// New crea la lista sobre el cliente dado.
func New(c cache.Client) *List {
	return &List{c: c, log: logger.Named("revocation")}
}

// Revoke marca tokenID como revocado durante ttl.
// Conviene pasar el tiempo de vida restante del token; con ttl 0 rige el
// default del backend. Revocar dos veces es idempotente.
func (l *List) Revoke(ctx context.Context, tokenID string, ttl time.Duration) error {
	if err := checkID(tokenID); err != nil {
		return err
	}
	if ttl < 0 {
		return fmt.Errorf("%w: negative ttl %s", repository.ErrInvalidInput, ttl)
	}
	if err := l.c.Set(ctx, keyPrefix+tokenID, "1", ttl); err != nil {
		return fmt.Errorf("revocation: revoke: %w", err)
	}
	metrics.RevokedTokens.Inc()
	logger.From(ctx).Info("token revoked", logger.Component("revocation"), zap.String("token_id", tokenID), logger.Duration(ttl))
	return nil
}

// IsRevoked reporta si tokenID está en la lista.
func (l *List) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	if err := checkID(tokenID); err != nil {
		return false, err
	}
	ok, err := l.c.Exists(ctx, keyPrefix+tokenID)
	if err != nil {
		l.log.Warn("revocation lookup failed", zap.String("token_id", tokenID), logger.Err(err))
		return false, fmt.Errorf("revocation: lookup: %w", err)
	}
	return ok, nil
}

func checkID(tokenID string) error {
	if strings.TrimSpace(tokenID) == "" {
		return fmt.Errorf("%w: token id is blank", repository.ErrInvalidInput)
	}
	return nil
}

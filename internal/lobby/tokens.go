package lobby

import (
	"context"
	"fmt"
	"time"

	"github.com/dropDatabas3/gamelobby/internal/domain/repository"
)

// RevokeToken agrega tokenID a la lista de revocación durante ttl.
func (s *Store) RevokeToken(ctx context.Context, tokenID string, ttl time.Duration) (err error) {
	defer func(start time.Time) { s.done(ctx, "revoke_token", true, start, err) }(time.Now())
	if s.tokens == nil {
		return fmt.Errorf("%w: no revocation list configured", repository.ErrNotImplemented)
	}
	return s.tokens.Revoke(ctx, tokenID, ttl)
}

// IsTokenRevoked reporta si tokenID fue revocado y su entrada no expiró.
func (s *Store) IsTokenRevoked(ctx context.Context, tokenID string) (revoked bool, err error) {
	defer func(start time.Time) { s.done(ctx, "is_token_revoked", false, start, err) }(time.Now())
	if s.tokens == nil {
		return false, fmt.Errorf("%w: no revocation list configured", repository.ErrNotImplemented)
	}
	return s.tokens.IsRevoked(ctx, tokenID)
}

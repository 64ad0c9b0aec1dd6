package redis

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/jhoicas/Heladeria-api/internal/application/auth"
)

var _ auth.TokenRevocations = (*TokenRevocations)(nil)

// TokenRevocations registro de tokens cerrados con logout. Se guarda el hash del token,
// nunca el token, con TTL hasta su expiración: después el JWT ya no valida de todas formas.
// Formato de llave: auth:revocado:<sha256 hex>
type TokenRevocations struct {
	client redis.Cmdable
	now    func() time.Time
}

// NewTokenRevocations crea el registro sobre el cliente.
func NewTokenRevocations(client redis.Cmdable) *TokenRevocations {
	return &TokenRevocations{client: client, now: time.Now}
}

func (s *TokenRevocations) Revoke(ctx context.Context, token string, expiresAt time.Time) error {
	ttl := expiresAt.Sub(s.now())
	if ttl <= 0 {
		return nil
	}
	if err := s.client.Set(ctx, s.key(token), "1", ttl).Err(); err != nil {
		return fmt.Errorf("token revoke: %w", err)
	}
	return nil
}

func (s *TokenRevocations) IsRevoked(ctx context.Context, token string) (bool, error) {
	n, err := s.client.Exists(ctx, s.key(token)).Result()
	if err != nil {
		return false, fmt.Errorf("token revoked: %w", err)
	}
	return n > 0, nil
}

func (s *TokenRevocations) key(token string) string {
	sum := sha256.Sum256([]byte(token))
	return "auth:revocado:" + hex.EncodeToString(sum[:])
}

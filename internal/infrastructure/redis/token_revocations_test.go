package redis

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (f *fakeRedis) Set(_ context.Context, key string, _ interface{}, exp time.Duration) *redis.StatusCmd {
	if f.err != nil {
		return redis.NewStatusResult("", f.err)
	}
	f.keys[key] = exp
	return redis.NewStatusResult("OK", nil)
}

func (f *fakeRedis) Exists(_ context.Context, keys ...string) *redis.IntCmd {
	if f.err != nil {
		return redis.NewIntResult(0, f.err)
	}
	var n int64
	for _, k := range keys {
		if _, ok := f.keys[k]; ok {
			n++
		}
	}
	return redis.NewIntResult(n, nil)
}

func newTestRevocations(fr *fakeRedis, now time.Time) *TokenRevocations {
	s := NewTokenRevocations(fr)
	s.now = func() time.Time { return now }
	return s
}

func TestTokenRevocations_RevocaHastaLaExpiracion(t *testing.T) {
	fr := newFakeRedis()
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	s := newTestRevocations(fr, now)
	ctx := context.Background()

	revoked, err := s.IsRevoked(ctx, "tok-1")
	require.NoError(t, err)
	assert.False(t, revoked)

	require.NoError(t, s.Revoke(ctx, "tok-1", now.Add(30*time.Minute)))
	revoked, err = s.IsRevoked(ctx, "tok-1")
	require.NoError(t, err)
	assert.True(t, revoked)

	require.Len(t, fr.keys, 1)
	for k, ttl := range fr.keys {
		assert.NotContains(t, k, "tok-1", "la llave no expone el token")
		assert.Equal(t, 30*time.Minute, ttl)
	}

	revoked, err = s.IsRevoked(ctx, "tok-2")
	require.NoError(t, err)
	assert.False(t, revoked)
}

func TestTokenRevocations_TokenVencidoNoSeGuarda(t *testing.T) {
	fr := newFakeRedis()
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, newTestRevocations(fr, now).Revoke(context.Background(), "tok", now.Add(-time.Minute)))
	assert.Empty(t, fr.keys)
}

func TestTokenRevocations_ErrorDeRedis(t *testing.T) {
	fr := newFakeRedis()
	fr.err = errors.New("connection refused")
	_, err := NewTokenRevocations(fr).IsRevoked(context.Background(), "tok")
	assert.ErrorContains(t, err, "connection refused")
}

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

// fakeRedis implementa solo SetNX, Set, Exists y Del; el resto de redis.Cmdable queda nil.
type fakeRedis struct {
	redis.Cmdable
	keys map[string]time.Duration
	err  error
}

func newFakeRedis() *fakeRedis {
	return &fakeRedis{keys: map[string]time.Duration{}}
}

func (f *fakeRedis) SetNX(_ context.Context, key string, _ interface{}, exp time.Duration) *redis.BoolCmd {
	if f.err != nil {
		return redis.NewBoolResult(false, f.err)
	}
	if _, ok := f.keys[key]; ok {
		return redis.NewBoolResult(false, nil)
	}
	f.keys[key] = exp
	return redis.NewBoolResult(true, nil)
}

func (f *fakeRedis) Del(_ context.Context, keys ...string) *redis.IntCmd {
	var n int64
	for _, k := range keys {
		if _, ok := f.keys[k]; ok {
			delete(f.keys, k)
			n++
		}
	}
	return redis.NewIntResult(n, nil)
}

func TestIdempotencyStore_ReservaUnaSolaVez(t *testing.T) {
	fr := newFakeRedis()
	s := NewIdempotencyStore(fr, 10*time.Minute)
	ctx := context.Background()

	ok, err := s.Reserve(ctx, "ana@heladeria.test:abc")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 10*time.Minute, fr.keys["idem:venta:ana@heladeria.test:abc"])

	ok, err = s.Reserve(ctx, "ana@heladeria.test:abc")
	require.NoError(t, err)
	assert.False(t, ok, "el reenvío con la misma llave debe detectarse")
}

func TestIdempotencyStore_ReleasePermiteReintentar(t *testing.T) {
	s := NewIdempotencyStore(newFakeRedis(), 0)
	ctx := context.Background()

	_, err := s.Reserve(ctx, "abc")
	require.NoError(t, err)
	require.NoError(t, s.Release(ctx, "abc"))

	ok, err := s.Reserve(ctx, "abc")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestIdempotencyStore_TTLPorDefecto(t *testing.T) {
	fr := newFakeRedis()
	_, err := NewIdempotencyStore(fr, 0).Reserve(context.Background(), "k")
	require.NoError(t, err)
	assert.Equal(t, time.Hour, fr.keys["idem:venta:k"])
}

func TestIdempotencyStore_ErrorDeRedis(t *testing.T) {
	fr := newFakeRedis()
	fr.err = errors.New("connection refused")
	_, err := NewIdempotencyStore(fr, 0).Reserve(context.Background(), "k")
	assert.ErrorContains(t, err, "connection refused")
}

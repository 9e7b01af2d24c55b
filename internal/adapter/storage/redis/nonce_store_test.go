package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNonceStore_CheckAndSet_NewNonce(t *testing.T) {
	s := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: s.Addr()})
	store := NewNonceStore(client)
	ctx := context.Background()

	ok, err := store.CheckAndSet(ctx, "payment_failed", "sig-abc", 5*time.Minute)
	require.NoError(t, err)
	assert.True(t, ok, "new nonce should return true")
	assert.True(t, s.Exists("webhook:payment_failed:sig-abc"))
}

func TestNonceStore_CheckAndSet_Replay(t *testing.T) {
	s := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: s.Addr()})
	store := NewNonceStore(client)
	ctx := context.Background()

	ok, err := store.CheckAndSet(ctx, "payment_failed", "sig-xyz", 5*time.Minute)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = store.CheckAndSet(ctx, "payment_failed", "sig-xyz", 5*time.Minute)
	require.NoError(t, err)
	assert.False(t, ok, "replayed nonce should return false")
}

func TestNonceStore_CheckAndSet_ScopesAreIndependent(t *testing.T) {
	s := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: s.Addr()})
	store := NewNonceStore(client)
	ctx := context.Background()

	ok1, err := store.CheckAndSet(ctx, "payment_failed", "sig-123", 5*time.Minute)
	require.NoError(t, err)
	assert.True(t, ok1)

	ok2, err := store.CheckAndSet(ctx, "membership_invalid", "sig-123", 5*time.Minute)
	require.NoError(t, err)
	assert.True(t, ok2, "same nonce on another endpoint should be accepted")
}

func TestNonceStore_CheckAndSet_Expired(t *testing.T) {
	s := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: s.Addr()})
	store := NewNonceStore(client)
	ctx := context.Background()

	ok, err := store.CheckAndSet(ctx, "payment_failed", "sig-expire", time.Second)
	require.NoError(t, err)
	assert.True(t, ok)

	s.FastForward(2 * time.Second)

	ok, err = store.CheckAndSet(ctx, "payment_failed", "sig-expire", time.Second)
	require.NoError(t, err)
	assert.True(t, ok, "expired nonce should be accepted again")
}

func TestNonceStore_Release(t *testing.T) {
	s := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: s.Addr()})
	store := NewNonceStore(client)
	ctx := context.Background()

	_, err := store.CheckAndSet(ctx, "payment_failed", "sig-retry", 5*time.Minute)
	require.NoError(t, err)

	require.NoError(t, store.Release(ctx, "payment_failed", "sig-retry"))

	ok, err := store.CheckAndSet(ctx, "payment_failed", "sig-retry", 5*time.Minute)
	require.NoError(t, err)
	assert.True(t, ok, "released nonce should be processed again")
}

func TestNonceStore_RedisDown(t *testing.T) {
	s := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: s.Addr()})
	store := NewNonceStore(client)
	s.Close()

	_, err := store.CheckAndSet(context.Background(), "payment_failed", "sig", time.Minute)
	assert.ErrorContains(t, err, "redis nonce check")
}

func TestNoopNonceStore(t *testing.T) {
	var store NoopNonceStore
	for i := 0; i < 2; i++ {
		ok, err := store.CheckAndSet(context.Background(), "payment_failed", "same", time.Minute)
		require.NoError(t, err)
		assert.True(t, ok)
	}
	assert.NoError(t, store.Release(context.Background(), "payment_failed", "same"))
}

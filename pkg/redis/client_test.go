package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestClient(t *testing.T) (*Client, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)

	client, err := NewClient("redis://"+mr.Addr(), "development", zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })
	return client, mr
}

func TestClientSetGet(t *testing.T) {
	ctx := context.Background()
	client, _ := newTestClient(t)

	key := client.KeyBuilder.KeyGlobalSummary()
	require.NoError(t, client.Set(ctx, key, "payload", TTLSummary))

	val, err := client.Get(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, "payload", val)
}

func TestClientGetMiss(t *testing.T) {
	ctx := context.Background()
	client, _ := newTestClient(t)

	_, err := client.Get(ctx, "staging:goat:missing")
	assert.ErrorIs(t, err, Nil)
}

func TestClientSetNX(t *testing.T) {
	ctx := context.Background()
	client, _ := newTestClient(t)

	key := client.KeyBuilder.KeyIdempotency("tok-1")

	ok, err := client.SetNX(ctx, key, "1", TTLIdempotency)
	require.NoError(t, err)
	assert.True(t, ok)

	// A second request with the same token is a duplicate.
	ok, err = client.SetNX(ctx, key, "1", TTLIdempotency)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestClientTTLExpiry(t *testing.T) {
	ctx := context.Background()
	client, mr := newTestClient(t)

	key := client.KeyBuilder.KeyTicker()
	require.NoError(t, client.Set(ctx, key, "ring", TTLTicker))

	mr.FastForward(TTLTicker + time.Second)

	_, err := client.Get(ctx, key)
	assert.ErrorIs(t, err, Nil)
}

func TestClientDeleteAndExists(t *testing.T) {
	ctx := context.Background()
	client, _ := newTestClient(t)

	k1 := client.KeyBuilder.KeyGlobalSummary()
	k2 := client.KeyBuilder.KeyWarzoneStats("LAL")
	require.NoError(t, client.Set(ctx, k1, "a", TTLSummary))
	require.NoError(t, client.Set(ctx, k2, "b", TTLWarzone))

	n, err := client.Exists(ctx, k1, k2)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	require.NoError(t, client.Delete(ctx, k1, k2))

	n, err = client.Exists(ctx, k1, k2)
	require.NoError(t, err)
	assert.Equal(t, int64(0), n)
}

func TestClientHealth(t *testing.T) {
	ctx := context.Background()
	client, mr := newTestClient(t)

	require.NoError(t, client.Health(ctx))

	mr.Close()
	assert.Error(t, client.Health(ctx))
}

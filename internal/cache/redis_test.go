package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRedis(t *testing.T, prefix string) (*RedisStorage, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	s, err := NewRedisStorage(RedisConfig{Addr: mr.Addr(), Prefix: prefix})
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s, mr
}

func TestRedisStorage_GetSetDelete(t *testing.T) {
	s, mr := newTestRedis(t, "personashop:")

	val, err := s.Get("missing")
	require.NoError(t, err)
	assert.Nil(t, val)

	require.NoError(t, s.Set("cart:u-1", []byte(`[{"product_id":"p-1"}]`), 0))
	val, err = s.Get("cart:u-1")
	require.NoError(t, err)
	assert.Equal(t, `[{"product_id":"p-1"}]`, string(val))

	// keys are namespaced on the server
	assert.True(t, mr.Exists("personashop:cart:u-1"))
	assert.False(t, mr.Exists("cart:u-1"))

	require.NoError(t, s.Delete("cart:u-1"))
	val, err = s.Get("cart:u-1")
	require.NoError(t, err)
	assert.Nil(t, val)
	assert.False(t, mr.Exists("personashop:cart:u-1"))
}

func TestRedisStorage_IgnoresEmptyKeysAndValues(t *testing.T) {
	s, mr := newTestRedis(t, "p:")

	require.NoError(t, s.Set("", []byte("v"), 0))
	require.NoError(t, s.Set("k", nil, 0))
	assert.Empty(t, mr.Keys())

	val, err := s.Get("")
	require.NoError(t, err)
	assert.Nil(t, val)
	require.NoError(t, s.Delete(""))
}

func TestRedisStorage_Expiry(t *testing.T) {
	s, mr := newTestRedis(t, "p:")

	require.NoError(t, s.Set("revoked:jti-1", []byte("1"), time.Minute))
	assert.Equal(t, time.Minute, mr.TTL("p:revoked:jti-1"))

	mr.FastForward(59 * time.Second)
	val, err := s.Get("revoked:jti-1")
	require.NoError(t, err)
	assert.Equal(t, []byte("1"), val)

	mr.FastForward(2 * time.Second)
	val, err = s.Get("revoked:jti-1")
	require.NoError(t, err)
	assert.Nil(t, val)
}

func TestRedisStorage_ResetOnlyTouchesPrefix(t *testing.T) {
	s, mr := newTestRedis(t, "shop-a:")
	other, err := NewRedisStorage(RedisConfig{Addr: mr.Addr(), Prefix: "shop-b:"})
	require.NoError(t, err)
	defer other.Close()

	require.NoError(t, s.Set("cart:u-1", []byte("a"), 0))
	require.NoError(t, s.Set("cart:u-2", []byte("a"), 0))
	require.NoError(t, other.Set("cart:u-1", []byte("b"), 0))

	require.NoError(t, s.Reset())

	val, err := s.Get("cart:u-1")
	require.NoError(t, err)
	assert.Nil(t, val)
	val, err = other.Get("cart:u-1")
	require.NoError(t, err)
	assert.Equal(t, []byte("b"), val)
	assert.Equal(t, []string{"shop-b:cart:u-1"}, mr.Keys())

	// nothing left to clear
	require.NoError(t, s.Reset())
}

func TestRedisStorage_ConnectionErrors(t *testing.T) {
	s, mr := newTestRedis(t, "p:")
	require.NoError(t, s.Ping(context.Background()))

	mr.SetError("ERR maintenance in progress")
	_, err := s.Get("k")
	assert.ErrorContains(t, err, "redis get k")
	assert.ErrorContains(t, s.Set("k", []byte("v"), 0), "redis set k")
	assert.Error(t, s.Ping(context.Background()))
	mr.SetError("")

	addr := mr.Addr()
	mr.Close()
	_, err = NewRedisStorage(RedisConfig{Addr: addr})
	assert.ErrorContains(t, err, "failed to connect to redis")
}

package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStorage_GetSetDelete(t *testing.T) {
	s := NewMemoryStorage()

	val, err := s.Get("missing")
	require.NoError(t, err)
	assert.Nil(t, val)

	require.NoError(t, s.Set("k", []byte("v"), 0))
	val, err = s.Get("k")
	require.NoError(t, err)
	assert.Equal(t, []byte("v"), val)

	require.NoError(t, s.Delete("k"))
	val, err = s.Get("k")
	require.NoError(t, err)
	assert.Nil(t, val)
}

func TestMemoryStorage_Expiry(t *testing.T) {
	s := NewMemoryStorage()
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return now }

	require.NoError(t, s.Set("k", []byte("v"), time.Minute))

	now = now.Add(59 * time.Second)
	val, _ := s.Get("k")
	assert.Equal(t, []byte("v"), val)

	now = now.Add(time.Second)
	val, _ = s.Get("k")
	assert.Nil(t, val)
}

func TestMemoryStorage_ValuesAreCopied(t *testing.T) {
	s := NewMemoryStorage()
	in := []byte("abc")
	require.NoError(t, s.Set("k", in, 0))
	in[0] = 'x'

	out, _ := s.Get("k")
	assert.Equal(t, []byte("abc"), out)
	out[1] = 'y'

	again, _ := s.Get("k")
	assert.Equal(t, []byte("abc"), again)
}

func TestMemoryStorage_Reset(t *testing.T) {
	s := NewMemoryStorage()
	require.NoError(t, s.Set("a", []byte("1"), 0))
	require.NoError(t, s.Set("b", []byte("2"), 0))

	require.NoError(t, s.Reset())

	a, _ := s.Get("a")
	b, _ := s.Get("b")
	assert.Nil(t, a)
	assert.Nil(t, b)
}

func TestJSONHelpers(t *testing.T) {
	s := NewMemoryStorage()

	var got []string
	found, err := GetJSON(s, "categories", &got)
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, SetJSON(s, "categories", []string{"casual", "formal"}, time.Minute))
	found, err = GetJSON(s, "categories", &got)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, []string{"casual", "formal"}, got)

	require.NoError(t, s.Set("broken", []byte("{"), 0))
	_, err = GetJSON(s, "broken", &got)
	assert.Error(t, err)
}

package testutil

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStorage_GetSet(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryStorage()

	_, ok, err := m.Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, m.Set(ctx, "k", []byte("v1")))
	v, ok, err := m.Get(ctx, "k")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "v1", string(v))
	assert.Equal(t, 1, m.Writes())
}

func TestMemoryStorage_ReturnsCopies(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryStorage()

	buf := []byte("abc")
	require.NoError(t, m.Set(ctx, "k", buf))
	buf[0] = 'x'
	assert.Equal(t, "abc", m.Raw("k"))

	v, _, _ := m.Get(ctx, "k")
	v[0] = 'y'
	assert.Equal(t, "abc", m.Raw("k"))
}

func TestMemoryStorage_PutIsNotAWrite(t *testing.T) {
	m := NewMemoryStorage()
	m.Put("k", "seed")
	assert.Equal(t, "seed", m.Raw("k"))
	assert.Equal(t, 0, m.Writes())
}

func TestMemoryStorage_InjectedFailures(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryStorage()

	m.FailSet(true)
	assert.ErrorIs(t, m.Set(ctx, "k", []byte("v")), ErrInjected)
	assert.Equal(t, 0, m.Writes())

	m.FailGet(true)
	_, _, err := m.Get(ctx, "k")
	assert.ErrorIs(t, err, ErrInjected)

	m.FailSet(false)
	m.FailGet(false)
	require.NoError(t, m.Set(ctx, "k", []byte("v")))
	_, ok, err := m.Get(ctx, "k")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestFixtures(t *testing.T) {
	assert.Nil(t, VariantOf(RedSilk(), "indigo"))
	v := VariantOf(BatikCotton(), "indigo")
	require.NotNil(t, v)
	assert.Equal(t, 12.0, v.Stock)
}

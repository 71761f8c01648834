package kv_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cartaz/pkg/kv"
)

func TestInMemorySetGet(t *testing.T) {
	ctx := context.Background()
	s := kv.NewInMemory()

	_, ok := s.Get(ctx, "missing")
	assert.False(t, ok)

	require.NoError(t, s.Set(ctx, "a", "1"))
	v, ok := s.Get(ctx, "a")
	assert.True(t, ok)
	assert.Equal(t, "1", v)

	require.NoError(t, s.Set(ctx, "a", "2"))
	v, _ = s.Get(ctx, "a")
	assert.Equal(t, "2", v)
}

func TestInMemoryDelete(t *testing.T) {
	ctx := context.Background()
	s := kv.NewInMemory()

	require.NoError(t, s.Set(ctx, "a", "1"))
	require.NoError(t, s.Delete(ctx, "a"))
	_, ok := s.Get(ctx, "a")
	assert.False(t, ok)

	// deleting an absent key is a no-op
	require.NoError(t, s.Delete(ctx, "a"))
}

func TestInMemoryDeleteMany(t *testing.T) {
	ctx := context.Background()
	s := kv.NewInMemory()

	for _, k := range []string{"a", "b", "c"} {
		require.NoError(t, s.Set(ctx, k, "x"))
	}
	require.NoError(t, s.DeleteMany(ctx, "a", "b"))

	_, ok := s.Get(ctx, "a")
	assert.False(t, ok)
	_, ok = s.Get(ctx, "b")
	assert.False(t, ok)
	_, ok = s.Get(ctx, "c")
	assert.True(t, ok)
}

package keyValue

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newLocal(t *testing.T) *Store {
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	return New(ctx, zap.NewNop().Sugar(), nil)
}

func TestLocalGetSet(t *testing.T) {
	ctx := context.Background()
	s := newLocal(t)

	value, err := s.Get(ctx, "missing")
	require.NoError(t, err)
	require.Equal(t, "", value)

	require.NoError(t, s.Set(ctx, "key", "y", time.Minute))

	value, err = s.Get(ctx, "key")
	require.NoError(t, err)
	require.Equal(t, "y", value)

	value, err = s.GetDel(ctx, "key")
	require.NoError(t, err)
	require.Equal(t, "y", value)

	value, err = s.Get(ctx, "key")
	require.NoError(t, err)
	require.Equal(t, "", value)
}

func TestLocalExpired(t *testing.T) {
	ctx := context.Background()
	s := newLocal(t)

	require.NoError(t, s.Set(ctx, "key", "y", time.Nanosecond))
	time.Sleep(time.Millisecond)

	value, err := s.Get(ctx, "key")
	require.NoError(t, err)
	require.Equal(t, "", value)
}

func TestLocalHash(t *testing.T) {
	ctx := context.Background()
	s := newLocal(t)

	require.NoError(t, s.HSet(ctx, "voice:1", "10", "a"))
	require.NoError(t, s.HSet(ctx, "voice:1", "11", "b"))

	all, err := s.HGetAll(ctx, "voice:1")
	require.NoError(t, err)
	require.Equal(t, map[string]string{"10": "a", "11": "b"}, all)

	existed, err := s.HDel(ctx, "voice:1", "10")
	require.NoError(t, err)
	require.True(t, existed)

	existed, err = s.HDel(ctx, "voice:1", "10")
	require.NoError(t, err)
	require.False(t, existed)

	field, err := s.HGet(ctx, "voice:1", "11")
	require.NoError(t, err)
	require.Equal(t, "b", field)
}

package cache

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestRedis(t *testing.T) (*RedisClient, *miniredis.Miniredis) {
	s := miniredis.RunT(t)
	client, err := NewRedisClient(&Config{Addr: s.Addr()})
	require.NoError(t, err)
	t.Cleanup(func() { client.Close() })
	return client, s
}

func TestNewRedisClient_Unreachable(t *testing.T) {
	s := miniredis.RunT(t)
	addr := s.Addr()
	s.Close()

	_, err := NewRedisClient(&Config{Addr: addr})
	assert.Error(t, err)
}

func TestDeleteByPattern(t *testing.T) {
	client, s := setupTestRedis(t)
	ctx := context.Background()

	require.NoError(t, s.Set("categories:m1:a", "1"))
	require.NoError(t, s.Set("categories:m1:b", "2"))
	require.NoError(t, s.Set("categories:m2:a", "3"))

	require.NoError(t, client.DeleteByPattern(ctx, "categories:m1:*"))

	assert.False(t, s.Exists("categories:m1:a"))
	assert.False(t, s.Exists("categories:m1:b"))
	assert.True(t, s.Exists("categories:m2:a"))

	// nothing left to match is not an error
	require.NoError(t, client.DeleteByPattern(ctx, "categories:m1:*"))
}

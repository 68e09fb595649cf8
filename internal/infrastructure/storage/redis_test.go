package storage

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

func testRepository(t *testing.T) *LevelRepository {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	repo, err := NewLevelRepository(&RedisConfig{Client: client, TTL: time.Hour})
	require.NoError(t, err)
	return repo
}

func TestRedisConfigValidation(t *testing.T) {
	_, err := NewLevelRepository(nil)
	require.Error(t, err)

	_, err = NewLevelRepository(&RedisConfig{})
	require.Error(t, err)
}

func TestRedisLevelRoundTrip(t *testing.T) {
	repo := testRepository(t)
	ctx := context.Background()
	m, entities := sampleLevel()

	require.NoError(t, repo.Save(ctx, "session-1", m, entities))

	exists, err := repo.Exists(ctx, "session-1", m.Depth)
	require.NoError(t, err)
	require.True(t, exists)

	loadedMap, loadedEntities, err := repo.Load(ctx, "session-1", m.Depth)
	require.NoError(t, err)
	require.Equal(t, m.Name, loadedMap.Name)
	require.Equal(t, m.Tiles, loadedMap.Tiles)
	require.Len(t, loadedEntities, len(entities))
	require.Equal(t, entities[0].ID, loadedEntities[0].ID)
}

func TestRedisSaveRequiresSession(t *testing.T) {
	repo := testRepository(t)
	m, entities := sampleLevel()
	require.Error(t, repo.Save(context.Background(), "", m, entities))
}

func TestRedisLoadMissingLevel(t *testing.T) {
	repo := testRepository(t)
	_, _, err := repo.Load(context.Background(), "session-1", 99)
	require.ErrorIs(t, err, redis.Nil)
}

func TestRedisDeleteAndList(t *testing.T) {
	repo := testRepository(t)
	ctx := context.Background()
	m, entities := sampleLevel()

	require.NoError(t, repo.Save(ctx, "session-1", m, entities))
	keys, err := repo.ListKeys(ctx)
	require.NoError(t, err)
	require.Len(t, keys, 1)

	require.NoError(t, repo.Delete(ctx, "session-1", m.Depth))

	exists, err := repo.Exists(ctx, "session-1", m.Depth)
	require.NoError(t, err)
	require.False(t, exists)

	keys, err = repo.ListKeys(ctx)
	require.NoError(t, err)
	require.Empty(t, keys)
}

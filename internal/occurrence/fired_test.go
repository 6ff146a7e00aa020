package occurrence_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hallister/belfry/internal/occurrence"
)

func TestRedisStoreMarkFired(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	store := occurrence.NewRedisStore(client, time.Minute)

	ctx := context.Background()
	occ := time.Date(2024, 1, 1, 8, 0, 0, 0, time.UTC)

	fresh, err := store.MarkFired(ctx, 1, occ)
	require.NoError(t, err)
	assert.True(t, fresh)

	fresh, err = store.MarkFired(ctx, 1, occ)
	require.NoError(t, err)
	assert.False(t, fresh, "same key marks only once")

	// a different schedule or minute is a different key
	fresh, err = store.MarkFired(ctx, 2, occ)
	require.NoError(t, err)
	assert.True(t, fresh)

	fresh, err = store.MarkFired(ctx, 1, occ.Add(time.Minute))
	require.NoError(t, err)
	assert.True(t, fresh)
}

func TestRedisStoreKeysExpireAfterGraceWindow(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	store := occurrence.NewRedisStore(client, time.Minute)

	ctx := context.Background()
	occ := time.Date(2024, 1, 1, 8, 0, 0, 0, time.UTC)

	fresh, err := store.MarkFired(ctx, 1, occ)
	require.NoError(t, err)
	require.True(t, fresh)

	mr.FastForward(2 * time.Minute)

	fresh, err = store.MarkFired(ctx, 1, occ)
	require.NoError(t, err)
	assert.True(t, fresh, "expired keys may be re-marked; the resolver guarantees they can no longer be due")
}

func TestMemoryStoreMarkFired(t *testing.T) {
	store := occurrence.NewMemoryStore(time.Minute)
	ctx := context.Background()
	occ := time.Date(2024, 1, 1, 8, 0, 0, 0, time.UTC)

	fresh, err := store.MarkFired(ctx, 1, occ)
	require.NoError(t, err)
	assert.True(t, fresh)

	fresh, err = store.MarkFired(ctx, 1, occ)
	require.NoError(t, err)
	assert.False(t, fresh)

	fresh, err = store.MarkFired(ctx, 1, occ.Add(time.Minute))
	require.NoError(t, err)
	assert.True(t, fresh)
}

package repository

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"authgate/internal/domain"
)

func newTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis.Run failed: %v", err)
	}
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, client
}

func TestRedisTokenRepository_RefreshLifecycle(t *testing.T) {
	mr, rdb := newTestRedis(t)
	repo := NewRedisTokenRepository(rdb)
	ctx := context.Background()
	exp := time.Now().Add(time.Hour).Truncate(time.Second)

	require.NoError(t, repo.StoreRefreshToken(ctx, &domain.RefreshToken{UserID: 9, Hash: "abc", ExpiresAt: exp}))
	assert.True(t, mr.Exists(redisRefreshPrefix+"abc"))
	assert.Greater(t, mr.TTL(redisRefreshPrefix+"abc"), 59*time.Minute)

	found, err := repo.FindRefreshToken(ctx, "abc")
	require.NoError(t, err)
	assert.Equal(t, int64(9), found.UserID)
	assert.Equal(t, exp.Unix(), found.ExpiresAt.Unix())

	n, err := repo.DeleteRefreshTokens(ctx, "abc")
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	_, err = repo.FindRefreshToken(ctx, "abc")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestRedisTokenRepository_ExpiresWithTTL(t *testing.T) {
	mr, rdb := newTestRedis(t)
	repo := NewRedisTokenRepository(rdb)
	ctx := context.Background()

	require.NoError(t, repo.StoreRefreshToken(ctx, &domain.RefreshToken{UserID: 1, Hash: "short", ExpiresAt: time.Now().Add(time.Minute)}))
	require.NoError(t, repo.StoreAccessToken(ctx, &domain.AccessToken{UserID: 1, Hash: "short", ExpiresAt: time.Now().Add(time.Minute)}))
	assert.True(t, mr.Exists(redisAccessPrefix+"short"))

	mr.FastForward(2 * time.Minute)

	_, err := repo.FindRefreshToken(ctx, "short")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	n, err := repo.DeleteExpired(ctx, time.Now())
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestRedisTokenRepository_SkipsAlreadyExpired(t *testing.T) {
	mr, rdb := newTestRedis(t)
	repo := NewRedisTokenRepository(rdb)

	err := repo.StoreRefreshToken(context.Background(), &domain.RefreshToken{UserID: 1, Hash: "past", ExpiresAt: time.Now().Add(-time.Second)})
	require.NoError(t, err)
	assert.False(t, mr.Exists(redisRefreshPrefix+"past"))
}

func TestRedisTokenRepository_FindTreatsExpiredRecordAsMissing(t *testing.T) {
	_, rdb := newTestRedis(t)
	repo := NewRedisTokenRepository(rdb)
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Second)
	repo.now = func() time.Time { return now }

	require.NoError(t, repo.StoreRefreshToken(ctx, &domain.RefreshToken{UserID: 3, Hash: "edge", ExpiresAt: now.Add(time.Minute)}))

	found, err := repo.FindRefreshToken(ctx, "edge")
	require.NoError(t, err)
	assert.Equal(t, int64(3), found.UserID)

	// key still present, but the recorded expiry has been reached
	repo.now = func() time.Time { return now.Add(time.Minute) }
	_, err = repo.FindRefreshToken(ctx, "edge")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

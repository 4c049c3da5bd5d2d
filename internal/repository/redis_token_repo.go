package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"authgate/internal/domain"

	"github.com/redis/go-redis/v9"
)

const (
	redisAccessPrefix  = "authgate:at:"
	redisRefreshPrefix = "authgate:rt:"
)

// RedisTokenRepository keeps token records as keys that expire with the token,
// so expired rows never need an explicit purge.
type RedisTokenRepository struct {
	rdb *redis.Client
	now func() time.Time
}

func NewRedisTokenRepository(rdb *redis.Client) *RedisTokenRepository {
	return &RedisTokenRepository{rdb: rdb, now: time.Now}
}

type redisTokenRecord struct {
	UserID    int64 `json:"user_id"`
	ExpiresAt int64 `json:"expires_at"`
	CreatedAt int64 `json:"created_at"`
}

func (r *RedisTokenRepository) StoreAccessToken(ctx context.Context, t *domain.AccessToken) error {
	if err := r.put(ctx, redisAccessPrefix+t.Hash, t.UserID, t.ExpiresAt); err != nil {
		return fmt.Errorf("store access token: %w", err)
	}
	return nil
}

func (r *RedisTokenRepository) StoreRefreshToken(ctx context.Context, t *domain.RefreshToken) error {
	if err := r.put(ctx, redisRefreshPrefix+t.Hash, t.UserID, t.ExpiresAt); err != nil {
		return fmt.Errorf("store refresh token: %w", err)
	}
	return nil
}

func (r *RedisTokenRepository) FindRefreshToken(ctx context.Context, hash string) (*domain.RefreshToken, error) {
	raw, err := r.rdb.Get(ctx, redisRefreshPrefix+hash).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get refresh token: %w", err)
	}

	var rec redisTokenRecord
	if err := json.Unmarshal(raw, &rec); err != nil {
		return nil, fmt.Errorf("decode refresh token: %w", err)
	}
	t := &domain.RefreshToken{
		UserID:    rec.UserID,
		Hash:      hash,
		ExpiresAt: time.Unix(rec.ExpiresAt, 0).UTC(),
		CreatedAt: time.Unix(rec.CreatedAt, 0).UTC(),
	}
	// the key TTL has sub-second slack past the recorded expiry
	if t.IsExpired(r.now()) {
		return nil, domain.ErrNotFound
	}
	return t, nil
}

func (r *RedisTokenRepository) DeleteRefreshTokens(ctx context.Context, hash string) (int64, error) {
	n, err := r.rdb.Del(ctx, redisRefreshPrefix+hash).Result()
	if err != nil {
		return 0, fmt.Errorf("delete refresh tokens: %w", err)
	}
	return n, nil
}

// DeleteExpired is a no-op: keys carry their own TTL.
func (r *RedisTokenRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	return 0, nil
}

func (r *RedisTokenRepository) put(ctx context.Context, key string, userID int64, expiresAt time.Time) error {
	ttl := expiresAt.Sub(r.now())
	if ttl <= 0 {
		return nil
	}

	payload, err := json.Marshal(redisTokenRecord{
		UserID:    userID,
		ExpiresAt: expiresAt.Unix(),
		CreatedAt: r.now().Unix(),
	})
	if err != nil {
		return err
	}
	return r.rdb.Set(ctx, key, payload, ttl).Err()
}

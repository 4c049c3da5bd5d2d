package repository

import (
	"context"
	"fmt"
	"time"

	"authgate/internal/domain"

	"gorm.io/gorm"
)

// TokenRepository provides DB access for issued access and refresh tokens.
type TokenRepository struct {
	db *gorm.DB
}

func NewTokenRepository(db *gorm.DB) *TokenRepository {
	return &TokenRepository{db: db}
}

func (r *TokenRepository) StoreAccessToken(ctx context.Context, t *domain.AccessToken) error {
	if err := r.db.WithContext(ctx).Create(t).Error; err != nil {
		return fmt.Errorf("store access token: %w", err)
	}
	return nil
}

func (r *TokenRepository) StoreRefreshToken(ctx context.Context, t *domain.RefreshToken) error {
	if err := r.db.WithContext(ctx).Create(t).Error; err != nil {
		return fmt.Errorf("store refresh token: %w", err)
	}
	return nil
}

func (r *TokenRepository) FindRefreshToken(ctx context.Context, hash string) (*domain.RefreshToken, error) {
	var t domain.RefreshToken
	if err := r.db.WithContext(ctx).Where("hash = ?", hash).First(&t).Error; err != nil {
		return nil, translate(err)
	}
	return &t, nil
}

func (r *TokenRepository) DeleteRefreshTokens(ctx context.Context, hash string) (int64, error) {
	res := r.db.WithContext(ctx).Where("hash = ?", hash).Delete(&domain.RefreshToken{})
	if res.Error != nil {
		return 0, fmt.Errorf("delete refresh tokens: %w", res.Error)
	}
	return res.RowsAffected, nil
}

// DeleteExpired removes access and refresh rows with expires_at <= now.
func (r *TokenRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("expires_at <= ?", now).Delete(&domain.RefreshToken{})
		if res.Error != nil {
			return res.Error
		}
		total += res.RowsAffected

		res = tx.Where("expires_at <= ?", now).Delete(&domain.AccessToken{})
		if res.Error != nil {
			return res.Error
		}
		total += res.RowsAffected
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("delete expired tokens: %w", err)
	}
	return total, nil
}

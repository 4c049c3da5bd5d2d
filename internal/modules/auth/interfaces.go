package auth

import (
	"context"
	"time"

	"authgate/internal/domain"
	jwtsvc "authgate/internal/pkg/jwt"
)

// UserRepositoryInterface lists the user store methods the auth flows use.
type UserRepositoryInterface interface {
	Create(ctx context.Context, u *domain.User) error
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	SetAccessToken(ctx context.Context, userID int64, hash string, expiresAt time.Time) error
}

// TokenRepositoryInterface stores issued token hashes.
type TokenRepositoryInterface interface {
	StoreAccessToken(ctx context.Context, t *domain.AccessToken) error
	StoreRefreshToken(ctx context.Context, t *domain.RefreshToken) error
	FindRefreshToken(ctx context.Context, hash string) (*domain.RefreshToken, error)
	DeleteRefreshTokens(ctx context.Context, hash string) (int64, error)
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

type tokenCodec interface {
	EncodeAccess(userID int64, issuedAt, expiresAt time.Time) (string, error)
	EncodeRefresh(userID int64, issuedAt, expiresAt time.Time) (string, error)
	DecodeAccess(token string) (*jwtsvc.AccessClaims, error)
	DecodeRefresh(token string) (*jwtsvc.RefreshClaims, error)
	Mask(token string) (string, error)
	Unmask(masked string) (string, error)
}

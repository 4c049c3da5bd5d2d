package auth

import (
	"context"
	"errors"
	"time"

	"authgate/internal/domain"
	jwtsvc "authgate/internal/pkg/jwt"

	"github.com/rs/zerolog"
)

const (
	DefaultAccessTTL  = 86400 * time.Second
	DefaultRefreshTTL = 432000 * time.Second
)

type TokenConfig struct {
	// Key is the process-wide jwt key; it keys the token hashes.
	Key        string
	AccessTTL  time.Duration
	RefreshTTL time.Duration
}

// TokenService issues, validates and revokes access/refresh token pairs.
type TokenService struct {
	users      UserRepositoryInterface
	tokens     TokenRepositoryInterface
	codec      tokenCodec
	hasher     *TokenHasher
	accessTTL  time.Duration
	refreshTTL time.Duration
	now        func() time.Time
	log        zerolog.Logger
}

func NewTokenService(
	users UserRepositoryInterface,
	tokens TokenRepositoryInterface,
	codec tokenCodec,
	cfg TokenConfig,
	log zerolog.Logger,
) *TokenService {
	if cfg.AccessTTL <= 0 {
		cfg.AccessTTL = DefaultAccessTTL
	}
	if cfg.RefreshTTL <= 0 {
		cfg.RefreshTTL = DefaultRefreshTTL
	}
	return &TokenService{
		users:      users,
		tokens:     tokens,
		codec:      codec,
		hasher:     NewTokenHasher(cfg.Key),
		accessTTL:  cfg.AccessTTL,
		refreshTTL: cfg.RefreshTTL,
		now:        time.Now,
		log:        log,
	}
}

// Issue signs a new token pair for user and records both hashes.
// Store writes run in order and stop at the first failure; earlier writes stay.
func (s *TokenService) Issue(ctx context.Context, user *domain.User) (*TokenPair, error) {
	now := s.clock()
	accessExp := now.Add(s.accessTTL)
	refreshExp := now.Add(s.refreshTTL)

	accessToken, err := s.codec.EncodeAccess(user.ID, now, accessExp)
	if err != nil {
		return nil, ErrTokenIssueFailed.withCause(err)
	}
	refreshToken, err := s.codec.EncodeRefresh(user.ID, now, refreshExp)
	if err != nil {
		return nil, ErrTokenIssueFailed.withCause(err)
	}

	accessHash := s.hasher.Hash(accessToken)
	refreshHash := s.hasher.Hash(refreshToken)

	s.purgeBestEffort(ctx, now)

	if err := s.users.SetAccessToken(ctx, user.ID, accessHash, accessExp); err != nil {
		return nil, ErrTokenIssueFailed.withCause(err)
	}
	if err := s.tokens.StoreRefreshToken(ctx, &domain.RefreshToken{
		UserID:    user.ID,
		Hash:      refreshHash,
		ExpiresAt: refreshExp,
	}); err != nil {
		return nil, ErrTokenIssueFailed.withCause(err)
	}
	if err := s.tokens.StoreAccessToken(ctx, &domain.AccessToken{
		UserID:    user.ID,
		Hash:      accessHash,
		ExpiresAt: accessExp,
	}); err != nil {
		return nil, ErrTokenIssueFailed.withCause(err)
	}

	maskedAccess, err := s.codec.Mask(accessToken)
	if err != nil {
		return nil, ErrTokenIssueFailed.withCause(err)
	}
	maskedRefresh, err := s.codec.Mask(refreshToken)
	if err != nil {
		return nil, ErrTokenIssueFailed.withCause(err)
	}

	return &TokenPair{
		AccessToken:      maskedAccess,
		RefreshToken:     maskedRefresh,
		AccessExpiresAt:  accessExp.Unix(),
		RefreshExpiresAt: refreshExp.Unix(),
	}, nil
}

// Revoke deletes every whitelist row for the raw refresh token.
// Deleting nothing is not an error.
func (s *TokenService) Revoke(ctx context.Context, rawRefreshToken string) (int64, error) {
	return s.tokens.DeleteRefreshTokens(ctx, s.hasher.Hash(rawRefreshToken))
}

// ValidateRefreshToken checks the whitelist before the signature, so a
// revoked token is rejected as not_whitelisted even when still signed and
// unexpired. It returns the claims and the unmasked token.
func (s *TokenService) ValidateRefreshToken(ctx context.Context, masked string) (*jwtsvc.RefreshClaims, string, error) {
	raw, err := s.codec.Unmask(masked)
	if err != nil {
		return nil, "", ErrNotWhitelisted
	}

	if _, err := s.tokens.FindRefreshToken(ctx, s.hasher.Hash(raw)); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, "", ErrNotWhitelisted
		}
		return nil, "", ErrInternal.withCause(err)
	}

	claims, err := s.codec.DecodeRefresh(raw)
	if err != nil {
		return nil, "", err
	}
	return claims, raw, nil
}

// PurgeExpired removes token rows whose expiry is at or before now.
func (s *TokenService) PurgeExpired(ctx context.Context) (int64, error) {
	return s.tokens.DeleteExpired(ctx, s.clock())
}

func (s *TokenService) purgeBestEffort(ctx context.Context, now time.Time) {
	n, err := s.tokens.DeleteExpired(ctx, now)
	if err != nil {
		s.log.Warn().Err(err).Msg("purge expired tokens failed")
		return
	}
	if n > 0 {
		s.log.Debug().Int64("deleted", n).Msg("purged expired tokens")
	}
}

func (s *TokenService) clock() time.Time {
	return s.now().UTC().Truncate(time.Second)
}

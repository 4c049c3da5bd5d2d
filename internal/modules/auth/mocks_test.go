package auth

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"authgate/internal/domain"
	jwtsvc "authgate/internal/pkg/jwt"
)

const testKey = "test_secret_key_32_characters_min"

// Mock User Repository implementing the interface
type mockUserRepo struct {
	mock.Mock
}

func (m *mockUserRepo) Create(ctx context.Context, u *domain.User) error {
	args := m.Called(ctx, u)
	return args.Error(0)
}

func (m *mockUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *mockUserRepo) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *mockUserRepo) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	args := m.Called(ctx, email)
	return args.Bool(0), args.Error(1)
}

func (m *mockUserRepo) SetAccessToken(ctx context.Context, userID int64, hash string, expiresAt time.Time) error {
	args := m.Called(ctx, userID, hash, expiresAt)
	return args.Error(0)
}

// Mock Token Repository
type mockTokenRepo struct {
	mock.Mock
}

func (m *mockTokenRepo) StoreAccessToken(ctx context.Context, t *domain.AccessToken) error {
	args := m.Called(ctx, t)
	return args.Error(0)
}

func (m *mockTokenRepo) StoreRefreshToken(ctx context.Context, t *domain.RefreshToken) error {
	args := m.Called(ctx, t)
	return args.Error(0)
}

func (m *mockTokenRepo) FindRefreshToken(ctx context.Context, hash string) (*domain.RefreshToken, error) {
	args := m.Called(ctx, hash)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RefreshToken), args.Error(1)
}

func (m *mockTokenRepo) DeleteRefreshTokens(ctx context.Context, hash string) (int64, error) {
	args := m.Called(ctx, hash)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockTokenRepo) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	args := m.Called(ctx, now)
	return args.Get(0).(int64), args.Error(1)
}

type fixture struct {
	users  *mockUserRepo
	tokens *mockTokenRepo
	codec  *jwtsvc.Service
	ts     *TokenService
	svc    *Service
	now    time.Time
}

func newFixture(t *testing.T, rotate bool) *fixture {
	t.Helper()

	codec, err := jwtsvc.New(testKey)
	require.NoError(t, err)

	f := &fixture{
		users:  new(mockUserRepo),
		tokens: new(mockTokenRepo),
		codec:  codec,
		now:    time.Now().UTC().Truncate(time.Second),
	}
	f.ts = NewTokenService(f.users, f.tokens, codec, TokenConfig{Key: testKey}, zerolog.Nop())
	f.ts.now = func() time.Time { return f.now }
	f.svc = NewService(f.users, f.ts, codec, rotate, zerolog.Nop())
	return f
}

// expectIssue sets up the store writes of one successful Issue for userID.
func (f *fixture) expectIssue(userID int64) {
	f.tokens.On("DeleteExpired", mock.Anything, f.now).Return(int64(0), nil).Once()
	f.users.On("SetAccessToken", mock.Anything, userID, mock.AnythingOfType("string"), f.now.Add(DefaultAccessTTL)).Return(nil).Once()
	f.tokens.On("StoreRefreshToken", mock.Anything, mock.MatchedBy(func(rt *domain.RefreshToken) bool {
		return rt.UserID == userID && rt.ExpiresAt.Equal(f.now.Add(DefaultRefreshTTL))
	})).Return(nil).Once()
	f.tokens.On("StoreAccessToken", mock.Anything, mock.MatchedBy(func(at *domain.AccessToken) bool {
		return at.UserID == userID && at.ExpiresAt.Equal(f.now.Add(DefaultAccessTTL))
	})).Return(nil).Once()
}

// maskedRefresh returns a masked refresh token for userID and its raw form.
func (f *fixture) maskedRefresh(t *testing.T, userID int64, expiresAt time.Time) (string, string) {
	t.Helper()
	raw, err := f.codec.EncodeRefresh(userID, f.now, expiresAt)
	require.NoError(t, err)
	masked, err := f.codec.Mask(raw)
	require.NoError(t, err)
	return masked, raw
}

package auth

import (
	"context"
	"errors"
	"regexp"
	"strings"

	"authgate/internal/domain"
	jwtsvc "authgate/internal/pkg/jwt"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
)

var bearerPattern = regexp.MustCompile(`^Bearer\s+(\S.*)$`)

// Service contains the business logic of the authentication flows
type Service struct {
	users         UserRepositoryInterface
	tokens        *TokenService
	codec         tokenCodec
	rotateRefresh bool
	log           zerolog.Logger
}

func NewService(
	users UserRepositoryInterface,
	tokens *TokenService,
	codec tokenCodec,
	rotateRefresh bool,
	log zerolog.Logger,
) *Service {
	return &Service{
		users:         users,
		tokens:        tokens,
		codec:         codec,
		rotateRefresh: rotateRefresh,
		log:           log,
	}
}

func (s *Service) Register(ctx context.Context, req RegisterRequest) (*AuthResult, error) {
	email := strings.TrimSpace(req.Email)
	fullname := strings.TrimSpace(req.Fullname)
	if fullname == "" || email == "" || req.Password == "" {
		return nil, ErrMissingFields
	}

	exists, err := s.users.ExistsByEmail(ctx, email)
	if err != nil {
		return nil, ErrRegistrationFailed.withCause(err)
	}
	if exists {
		return nil, ErrUserExists
	}

	hashedPassword, err := s.hashPassword(req.Password)
	if err != nil {
		return nil, ErrRegistrationFailed.withCause(err)
	}

	user := &domain.User{
		Fullname:     fullname,
		Email:        email,
		PasswordHash: hashedPassword,
		Status:       domain.StatusActive,
		CreatedBy:    domain.SystemActorID,
		ModifiedBy:   domain.SystemActorID,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, domain.ErrDuplicate) {
			return nil, ErrUserExists
		}
		return nil, ErrRegistrationFailed.withCause(err)
	}

	s.log.Info().Int64("user_id", user.ID).Msg("user registered")
	return s.issueFor(ctx, user)
}

// Login fails with the same ErrInvalidAuthentication whether the email is
// unknown, the password is wrong or the account is not active.
func (s *Service) Login(ctx context.Context, req LoginRequest) (*AuthResult, error) {
	email := strings.TrimSpace(req.Email)
	if email == "" || req.Password == "" {
		return nil, ErrMissingCredentials
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, ErrInvalidAuthentication
		}
		return nil, ErrInternal.withCause(err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrInvalidAuthentication
	}
	if !user.IsActive() {
		return nil, ErrInvalidAuthentication
	}

	return s.issueFor(ctx, user)
}

// Refresh exchanges a whitelisted refresh token for a new pair. With
// rotation enabled the consumed token is revoked once the new pair exists.
func (s *Service) Refresh(ctx context.Context, req RefreshRequest) (*AuthResult, error) {
	if strings.TrimSpace(req.RefreshToken) == "" {
		return nil, ErrMissingToken
	}

	claims, raw, err := s.tokens.ValidateRefreshToken(ctx, strings.TrimSpace(req.RefreshToken))
	if err != nil {
		return nil, err
	}

	userID, err := claims.UserID()
	if err != nil {
		return nil, ErrInvalidAuthentication
	}
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, ErrInvalidAuthentication
		}
		return nil, ErrInternal.withCause(err)
	}

	result, err := s.issueFor(ctx, user)
	if err != nil {
		return nil, err
	}

	if s.rotateRefresh {
		if _, err := s.tokens.Revoke(ctx, raw); err != nil {
			return nil, ErrInternal.withCause(err)
		}
	}
	return result, nil
}

// Logout removes the refresh token from the whitelist. Both masked tokens,
// as handed out by Issue, and raw signed tokens are accepted.
func (s *Service) Logout(ctx context.Context, req LogoutRequest) (*LogoutResult, error) {
	token := strings.TrimSpace(req.Token)
	if token == "" {
		return nil, ErrMissingToken
	}

	if raw, err := s.codec.Unmask(token); err == nil {
		token = raw
	}

	deleted, err := s.tokens.Revoke(ctx, token)
	if err != nil {
		return nil, ErrLogoutFailed.withCause(err)
	}
	s.log.Debug().Int64("deleted", deleted).Msg("logout")
	return &LogoutResult{Deleted: deleted}, nil
}

// AuthenticateAccessToken validates an Authorization header value.
// Access tokens are not checked against any store; they stay valid until
// their embedded expiry.
func (s *Service) AuthenticateAccessToken(header string) (*jwtsvc.AccessClaims, error) {
	m := bearerPattern.FindStringSubmatch(header)
	if m == nil {
		return nil, ErrIncompleteAuthorizationHeader
	}

	raw, err := s.codec.Unmask(strings.TrimSpace(m[1]))
	if err != nil {
		return nil, err
	}
	return s.codec.DecodeAccess(raw)
}

func (s *Service) CurrentUser(ctx context.Context, userID int64) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, ErrInvalidAuthentication
		}
		return nil, ErrInternal.withCause(err)
	}
	user.PasswordHash = ""
	return user, nil
}

func (s *Service) issueFor(ctx context.Context, user *domain.User) (*AuthResult, error) {
	pair, err := s.tokens.Issue(ctx, user)
	if err != nil {
		return nil, err
	}
	user.PasswordHash = ""
	return &AuthResult{User: user, Tokens: pair}, nil
}

func (s *Service) hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

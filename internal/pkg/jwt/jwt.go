package jwt

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	typeAccess  = "access"
	typeRefresh = "refresh"

	// LastLoginLayout formats the lastlogin claim of access tokens.
	LastLoginLayout = "2006-01-02 15:04:05"
)

type Service struct {
	secret  []byte
	maskKey []byte
	now     func() time.Time
}

// AccessClaims are carried by access tokens. Expire mirrors the registered
// exp claim as a plain Unix timestamp.
type AccessClaims struct {
	UserID    int64  `json:"id"`
	LastLogin string `json:"lastlogin"`
	Expire    int64  `json:"expire"`
	Type      string `json:"typ"`
	jwtlib.RegisteredClaims
}

// RefreshClaims are carried by refresh tokens; the user id travels in sub.
type RefreshClaims struct {
	Expire int64  `json:"expire"`
	Type   string `json:"typ"`
	jwtlib.RegisteredClaims
}

// UserID parses the sub claim.
func (c *RefreshClaims) UserID() (int64, error) {
	id, err := strconv.ParseInt(c.Subject, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parse sub claim: %w", err)
	}
	return id, nil
}

func New(secret string) (*Service, error) {
	if secret == "" {
		return nil, errors.New("jwt: empty secret")
	}
	maskKey, err := deriveMaskKey([]byte(secret))
	if err != nil {
		return nil, err
	}
	return &Service{
		secret:  []byte(secret),
		maskKey: maskKey,
		now:     time.Now,
	}, nil
}

// WithClock returns a copy of the service that validates against clock.
func (s *Service) WithClock(clock func() time.Time) *Service {
	cp := *s
	cp.now = clock
	return &cp
}

func (s *Service) EncodeAccess(userID int64, issuedAt, expiresAt time.Time) (string, error) {
	claims := AccessClaims{
		UserID:    userID,
		LastLogin: issuedAt.Format(LastLoginLayout),
		Expire:    expiresAt.Unix(),
		Type:      typeAccess,
		RegisteredClaims: jwtlib.RegisteredClaims{
			ID:        uuid.NewString(),
			ExpiresAt: jwtlib.NewNumericDate(expiresAt),
			IssuedAt:  jwtlib.NewNumericDate(issuedAt),
		},
	}
	return s.sign(claims)
}

func (s *Service) EncodeRefresh(userID int64, issuedAt, expiresAt time.Time) (string, error) {
	claims := RefreshClaims{
		Expire: expiresAt.Unix(),
		Type:   typeRefresh,
		RegisteredClaims: jwtlib.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   strconv.FormatInt(userID, 10),
			ExpiresAt: jwtlib.NewNumericDate(expiresAt),
			IssuedAt:  jwtlib.NewNumericDate(issuedAt),
		},
	}
	return s.sign(claims)
}

func (s *Service) DecodeAccess(tokenStr string) (*AccessClaims, error) {
	claims := &AccessClaims{}
	if err := s.parse(tokenStr, claims); err != nil {
		return nil, err
	}
	if claims.Type != typeAccess {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

func (s *Service) DecodeRefresh(tokenStr string) (*RefreshClaims, error) {
	claims := &RefreshClaims{}
	if err := s.parse(tokenStr, claims); err != nil {
		return nil, err
	}
	if claims.Type != typeRefresh || claims.Subject == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

func (s *Service) sign(claims jwtlib.Claims) (string, error) {
	token := jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign jwt: %w", err)
	}
	return signed, nil
}

func (s *Service) parse(tokenStr string, claims jwtlib.Claims) error {
	token, err := jwtlib.ParseWithClaims(tokenStr, claims, func(t *jwtlib.Token) (any, error) {
		return s.secret, nil
	},
		jwtlib.WithValidMethods([]string{jwtlib.SigningMethodHS256.Alg()}),
		jwtlib.WithExpirationRequired(),
		jwtlib.WithTimeFunc(s.now),
	)
	if err != nil {
		if errors.Is(err, jwtlib.ErrTokenExpired) {
			return ErrTokenExpired
		}
		return ErrInvalidToken
	}
	if !token.Valid {
		return ErrInvalidToken
	}
	return nil
}

package auth

import (
	"authgate/internal/domain"
)

const (
	MessageLoginSuccess  = "Successful Login Authentication"
	MessageLogoutSuccess = "Successful Logout"
	MessageTokenValid    = "Valid Token"
)

type RegisterRequest struct {
	Fullname string `json:"fullname" form:"fullname"`
	Email    string `json:"email" form:"email"`
	Password string `json:"password" form:"password"`
}

type LoginRequest struct {
	Email    string `json:"email" form:"email"`
	Password string `json:"password" form:"password"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" form:"refresh_token"`
}

type LogoutRequest struct {
	Token string `json:"token" form:"token"`
}

// TokenPair holds masked tokens ready for transport.
type TokenPair struct {
	AccessToken      string
	RefreshToken     string
	AccessExpiresAt  int64
	RefreshExpiresAt int64
}

type AuthResult struct {
	User   *domain.User
	Tokens *TokenPair
}

// Data merges the public user fields with the issued tokens.
func (r *AuthResult) Data() map[string]any {
	return map[string]any{
		"id":                 r.User.ID,
		"fullname":           r.User.Fullname,
		"email":              r.User.Email,
		"status":             r.User.Status,
		"created_by":         r.User.CreatedBy,
		"modified_by":        r.User.ModifiedBy,
		"access_token":       r.Tokens.AccessToken,
		"refresh_token":      r.Tokens.RefreshToken,
		"expires_at":         r.Tokens.AccessExpiresAt,
		"refresh_expires_at": r.Tokens.RefreshExpiresAt,
	}
}

type LogoutResult struct {
	Deleted int64 `json:"deleted"`
}

type UserPublic struct {
	ID        int64  `json:"id"`
	Fullname  string `json:"fullname"`
	Email     string `json:"email"`
	Status    string `json:"status"`
	CreatedAt string `json:"created_at"`
}

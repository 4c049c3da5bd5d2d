package jwt

import "net/http"

// Error is returned by token decoding. Callers surface it as is.
type Error struct {
	Status  int
	Code    string
	Message string
}

func (e *Error) Error() string { return e.Code + ": " + e.Message }

var (
	ErrTokenExpired = &Error{Status: http.StatusUnauthorized, Code: "token_expired", Message: "Expired Token"}
	ErrInvalidToken = &Error{Status: http.StatusUnauthorized, Code: "invalid_token", Message: "Invalid Token"}
)

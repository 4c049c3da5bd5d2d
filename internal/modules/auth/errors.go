package auth

import "net/http"

type Kind string

const (
	KindValidation     Kind = "validation"
	KindAuthentication Kind = "authentication"
	KindConflict       Kind = "conflict"
	KindPersistence    Kind = "persistence"
	KindToken          Kind = "token"
)

// Error is the structured failure of an auth flow. Two errors match with
// errors.Is when their codes are equal, so sentinels still match after a
// cause has been attached.
type Error struct {
	Kind    Kind
	Status  int
	Code    string
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Code + ": " + e.Message + ": " + e.Err.Error()
	}
	return e.Code + ": " + e.Message
}

func (e *Error) Unwrap() error { return e.Err }

func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Code == e.Code
}

func (e *Error) withCause(err error) *Error {
	cp := *e
	cp.Err = err
	return &cp
}

var (
	ErrMissingFields                 = &Error{Kind: KindValidation, Status: http.StatusBadRequest, Code: "missing_fields", Message: "Missing Registration Data"}
	ErrMissingCredentials            = &Error{Kind: KindValidation, Status: http.StatusBadRequest, Code: "missing_credentials", Message: "Missing Login Credentials"}
	ErrMissingToken                  = &Error{Kind: KindValidation, Status: http.StatusBadRequest, Code: "missing_token", Message: "Missing Token"}
	ErrIncompleteAuthorizationHeader = &Error{Kind: KindValidation, Status: http.StatusBadRequest, Code: "incomplete_authorization_header", Message: "Incomplete Authorization Header"}
	ErrUserExists                    = &Error{Kind: KindConflict, Status: http.StatusBadRequest, Code: "user_exists", Message: "User Already Exists"}
	ErrInvalidAuthentication         = &Error{Kind: KindAuthentication, Status: http.StatusUnauthorized, Code: "invalid_authentication", Message: "Invalid Authentication"}
	ErrNotWhitelisted                = &Error{Kind: KindToken, Status: http.StatusBadRequest, Code: "not_whitelisted", Message: "Token not exist on whitelist"}
	ErrRegistrationFailed            = &Error{Kind: KindPersistence, Status: http.StatusInternalServerError, Code: "registration_failed", Message: "User Registration Failed"}
	ErrTokenIssueFailed              = &Error{Kind: KindPersistence, Status: http.StatusInternalServerError, Code: "token_issue_failed", Message: "Token Issuance Failed"}
	ErrLogoutFailed                  = &Error{Kind: KindPersistence, Status: http.StatusInternalServerError, Code: "logout_failed", Message: "Logout Failed"}
	ErrInternal                      = &Error{Kind: KindPersistence, Status: http.StatusInternalServerError, Code: "internal_error", Message: "Internal Server Error"}
)

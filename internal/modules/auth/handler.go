package auth

import (
	"errors"
	"net/http"

	jwtsvc "authgate/internal/pkg/jwt"
	"authgate/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

// Handler manages all HTTP interactions for authentication
type Handler struct {
	service *Service
}

// NewHandler creates a new auth handler with injected service
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterPublicRoutes(v1 *gin.RouterGroup) {
	authGroup := v1.Group("/auth")
	{
		authGroup.POST("/register", h.Register)
		authGroup.POST("/login", h.Login)
		authGroup.POST("/refresh", h.Refresh)
		authGroup.POST("/logout", h.Logout)
		authGroup.GET("/verify", h.Verify)
	}
}

func (h *Handler) RegisterProtectedRoutes(protected *gin.RouterGroup) {
	userGroup := protected.Group("/users")
	{
		userGroup.GET("/me", h.GetMe)
	}
}

// Register creates an active account and signs the user in.
// @Summary		Register
// @Tags		Authentication
// @Param		request	body	RegisterRequest	true	"fullname, email, password"
// @Success		200	{object}	map[string]interface{}	"User fields merged with access and refresh tokens"
// @Failure		400	{object}	map[string]interface{}	"missing_fields or user_exists"
// @Failure		500	{object}	map[string]interface{}	"registration_failed"
// @Router		/auth/register [POST]
func (h *Handler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBind(&req); err != nil {
		req = RegisterRequest{}
	}

	result, err := h.service.Register(c.Request.Context(), req)
	if err != nil {
		WriteError(c, err)
		return
	}
	response.Success(c, http.StatusOK, MessageLoginSuccess, result.Data())
}

// Login signs a user in with email and password.
// @Summary		Login
// @Tags		Authentication
// @Param		request	body	LoginRequest	true	"email, password"
// @Success		200	{object}	map[string]interface{}	"User fields merged with access and refresh tokens"
// @Failure		400	{object}	map[string]interface{}	"missing_credentials"
// @Failure		401	{object}	map[string]interface{}	"invalid_authentication"
// @Router		/auth/login [POST]
func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBind(&req); err != nil {
		req = LoginRequest{}
	}

	result, err := h.service.Login(c.Request.Context(), req)
	if err != nil {
		WriteError(c, err)
		return
	}
	response.Success(c, http.StatusOK, MessageLoginSuccess, result.Data())
}

// Refresh exchanges a whitelisted refresh token for a new token pair.
// @Summary		Refresh tokens
// @Tags		Authentication
// @Param		request	body	RefreshRequest	true	"refresh_token (masked)"
// @Success		200	{object}	map[string]interface{}	"User fields merged with the new tokens"
// @Failure		400	{object}	map[string]interface{}	"missing_token or not_whitelisted"
// @Failure		401	{object}	map[string]interface{}	"invalid_authentication, token_expired or invalid_token"
// @Router		/auth/refresh [POST]
func (h *Handler) Refresh(c *gin.Context) {
	var req RefreshRequest
	if err := c.ShouldBind(&req); err != nil {
		req = RefreshRequest{}
	}

	result, err := h.service.Refresh(c.Request.Context(), req)
	if err != nil {
		WriteError(c, err)
		return
	}
	response.Success(c, http.StatusOK, MessageLoginSuccess, result.Data())
}

// Logout removes a refresh token from the whitelist.
// @Summary		Logout
// @Tags		Authentication
// @Param		request	body	LogoutRequest	true	"token"
// @Success		200	{object}	map[string]interface{}	"Number of deleted whitelist rows"
// @Failure		400	{object}	map[string]interface{}	"missing_token"
// @Router		/auth/logout [POST]
func (h *Handler) Logout(c *gin.Context) {
	var req LogoutRequest
	if err := c.ShouldBind(&req); err != nil {
		req = LogoutRequest{}
	}

	result, err := h.service.Logout(c.Request.Context(), req)
	if err != nil {
		WriteError(c, err)
		return
	}
	response.Success(c, http.StatusOK, MessageLogoutSuccess, result)
}

// Verify decodes the bearer access token of the request.
// @Summary		Verify access token
// @Tags		Authentication
// @Security	BearerAuth
// @Success		200	{object}	map[string]interface{}	"Decoded claims"
// @Failure		400	{object}	map[string]interface{}	"incomplete_authorization_header"
// @Failure		401	{object}	map[string]interface{}	"token_expired or invalid_token"
// @Router		/auth/verify [GET]
func (h *Handler) Verify(c *gin.Context) {
	claims, err := h.service.AuthenticateAccessToken(c.GetHeader("Authorization"))
	if err != nil {
		WriteError(c, err)
		return
	}
	response.Success(c, http.StatusOK, MessageTokenValid, gin.H{
		"id":        claims.UserID,
		"lastlogin": claims.LastLogin,
		"expire":    claims.Expire,
	})
}

// GetMe returns the authenticated user.
// @Summary		Current user
// @Tags		Users
// @Security	BearerAuth
// @Success		200	{object}	map[string]interface{}	"User profile"
// @Failure		401	{object}	map[string]interface{}	"invalid_authentication"
// @Router		/users/me [GET]
func (h *Handler) GetMe(c *gin.Context) {
	userID := c.GetInt64("user_id")
	if userID == 0 {
		WriteError(c, ErrInvalidAuthentication)
		return
	}

	user, err := h.service.CurrentUser(c.Request.Context(), userID)
	if err != nil {
		WriteError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "OK", gin.H{
		"user": UserPublic{
			ID:        user.ID,
			Fullname:  user.Fullname,
			Email:     user.Email,
			Status:    string(user.Status),
			CreatedAt: user.CreatedAt.Format("2006-01-02"),
		},
	})
}

// WriteError renders auth and token errors with their own status, code and
// message. Anything else becomes a 500.
func WriteError(c *gin.Context, err error) {
	var authErr *Error
	var tokenErr *jwtsvc.Error

	switch {
	case errors.As(err, &authErr):
		if authErr.Status >= http.StatusInternalServerError {
			_ = c.Error(err)
		}
		response.Error(c, authErr.Status, authErr.Code, authErr.Message)
	case errors.As(err, &tokenErr):
		response.Error(c, tokenErr.Status, tokenErr.Code, tokenErr.Message)
	default:
		_ = c.Error(err)
		response.Error(c, http.StatusInternalServerError, ErrInternal.Code, ErrInternal.Message)
	}
}

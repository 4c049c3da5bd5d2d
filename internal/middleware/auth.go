package middleware

import (
	"authgate/internal/modules/auth"
	jwtsvc "authgate/internal/pkg/jwt"

	"github.com/gin-gonic/gin"
)

type accessTokenAuthenticator interface {
	AuthenticateAccessToken(header string) (*jwtsvc.AccessClaims, error)
}

// JWTAuth rejects requests without a valid bearer access token and exposes
// the token's user id as "user_id".
func JWTAuth(authenticator accessTokenAuthenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, err := authenticator.AuthenticateAccessToken(c.GetHeader("Authorization"))
		if err != nil {
			auth.WriteError(c, err)
			c.Abort()
			return
		}

		c.Set("user_id", claims.UserID)
		c.Set("claims", claims)

		c.Next()
	}
}

package middleware

import (
	"net/http"
	"runtime/debug"

	"authgate/internal/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

func Recovery(log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				log.Error().
					Interface("error", r).
					Bytes("stack", debug.Stack()).
					Str("path", c.Request.URL.Path).
					Str("request_id", RequestIDFrom(c.Request.Context())).
					Msg("panic recovered")
				response.Abort(c, http.StatusInternalServerError, "internal_error", "Internal Server Error")
			}
		}()
		c.Next()
	}
}

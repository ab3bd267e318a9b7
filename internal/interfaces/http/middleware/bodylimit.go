package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/secureshop/backend/internal/infrastructure/logger"
	"github.com/secureshop/backend/internal/interfaces/http/dto"
)

// BodyLimit returns a middleware that limits request body size
func BodyLimit(maxBytes int64) gin.HandlerFunc {
	return BodyLimitWithOverrides(maxBytes, nil)
}

// BodyLimitWithOverrides applies maxBytes everywhere except under the path
// prefixes in overrides, which get their own limit. Multipart uploads use
// this to accept files larger than an ordinary JSON body.
func BodyLimitWithOverrides(maxBytes int64, overrides map[string]int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		limit := maxBytes
		for prefix, n := range overrides {
			if strings.HasPrefix(c.Request.URL.Path, prefix) {
				limit = n
				break
			}
		}

		if c.Request.ContentLength > limit {
			c.AbortWithStatusJSON(http.StatusRequestEntityTooLarge,
				dto.NewErrorResponseWithRequestID(dto.ErrCodeFileTooLarge, "Request body exceeds maximum allowed size", c.GetString(logger.GinRequestIDKey)))
			return
		}

		// streaming bodies without Content-Length are cut off on read
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, limit)
		c.Next()
	}
}

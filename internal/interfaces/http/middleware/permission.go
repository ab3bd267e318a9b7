package middleware

import (
	"net/http"
	"slices"

	"github.com/gin-gonic/gin"
	"github.com/secureshop/backend/internal/infrastructure/logger"
	"github.com/secureshop/backend/internal/interfaces/http/dto"
	"go.uber.org/zap"
)

// Roles carried in access tokens
const (
	RoleUser  = "USER"
	RoleAdmin = "ADMIN"
)

// PermissionConfig holds configuration for role checks
type PermissionConfig struct {
	// OnDenied is called when the role check fails. Default: 403 JSON
	OnDenied func(c *gin.Context, required []string)
	Logger   *zap.Logger
}

// RequireRole only lets callers holding one of roles through. It must run
// after JWTAuthMiddleware.
func RequireRole(roles ...string) gin.HandlerFunc {
	return RequireRoleWithConfig(PermissionConfig{}, roles...)
}

// RequireRoleWithConfig is RequireRole with custom denial handling
func RequireRoleWithConfig(cfg PermissionConfig, roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if GetJWTClaims(c) == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized,
				dto.NewErrorResponseWithRequestID(dto.ErrCodeUnauthorized, "Authentication required", c.GetString(logger.GinRequestIDKey)))
			return
		}
		if !slices.Contains(roles, GetJWTRole(c)) {
			handlePermissionDenied(c, cfg, roles)
			return
		}
		c.Next()
	}
}

// RequireAdmin restricts a route group to administrators
func RequireAdmin() gin.HandlerFunc {
	return RequireRole(RoleAdmin)
}

// IsAdmin reports whether the authenticated caller is an administrator
func IsAdmin(c *gin.Context) bool {
	return GetJWTRole(c) == RoleAdmin
}

func handlePermissionDenied(c *gin.Context, cfg PermissionConfig, required []string) {
	if cfg.OnDenied != nil {
		cfg.OnDenied(c, required)
		c.Abort()
		return
	}

	if cfg.Logger != nil {
		cfg.Logger.Warn("Permission denied",
			zap.String("user_id", GetJWTUserID(c)),
			zap.String("role", GetJWTRole(c)),
			zap.Strings("required_roles", required),
			zap.String("path", c.Request.URL.Path),
			zap.String("method", c.Request.Method),
		)
	}

	c.AbortWithStatusJSON(http.StatusForbidden,
		dto.NewErrorResponseWithRequestID(dto.ErrCodeForbidden, "Access denied: insufficient permissions", c.GetString(logger.GinRequestIDKey)))
}

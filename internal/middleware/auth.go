package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/aarogyahq/booking-api/internal/model"
	"github.com/aarogyahq/booking-api/pkg/auth"
)

const (
	ContextUserID       = "user_id"
	ContextUserEmail    = "user_email"
	ContextUserRoles    = "user_roles"
	ContextCapabilities = "user_capabilities"
)

type AuthMiddleware struct {
	jwt auth.JWTService
}

func NewAuthMiddleware(jwt auth.JWTService) *AuthMiddleware {
	return &AuthMiddleware{jwt: jwt}
}

// Authenticate verifies the bearer token and puts the caller's identity,
// roles and resolved capabilities in the context.
func (m *AuthMiddleware) Authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			m.abort(c, "missing authorization header")
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			m.abort(c, "invalid authorization format")
			return
		}

		claims, err := m.jwt.ValidateToken(parts[1])
		if err != nil {
			m.abort(c, "invalid token")
			return
		}

		c.Set(ContextUserID, claims.UserID)
		c.Set(ContextUserEmail, claims.Email)
		c.Set(ContextUserRoles, claims.Roles)
		c.Set(ContextCapabilities, model.ResolveCapabilities(claims.Roles))
		c.Next()
	}
}

// RequireRole passes when the caller holds any of the given roles.
func (m *AuthMiddleware) RequireRole(roles ...model.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		held := CurrentRoles(c)
		for _, r := range roles {
			if model.HasRole(held, r) {
				c.Next()
				return
			}
		}
		c.AbortWithStatusJSON(http.StatusForbidden, ErrorResponse{
			Code:    http.StatusForbidden,
			Message: "permission denied",
			TraceID: c.GetString(ContextRequestID),
		})
	}
}

// RequireCapability gates a route on the resolved capability set.
func (m *AuthMiddleware) RequireCapability(allowed func(model.Capabilities) bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !allowed(CurrentCapabilities(c)) {
			c.AbortWithStatusJSON(http.StatusForbidden, ErrorResponse{
				Code:    http.StatusForbidden,
				Message: "permission denied",
				TraceID: c.GetString(ContextRequestID),
			})
			return
		}
		c.Next()
	}
}

func (m *AuthMiddleware) abort(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{
		Code:    http.StatusUnauthorized,
		Message: message,
		TraceID: c.GetString(ContextRequestID),
	})
}

// CurrentUserID returns the authenticated caller's ID, or uuid.Nil outside
// an authenticated route.
func CurrentUserID(c *gin.Context) uuid.UUID {
	if id, ok := c.Get(ContextUserID); ok {
		if userID, ok := id.(uuid.UUID); ok {
			return userID
		}
	}
	return uuid.Nil
}

func CurrentRoles(c *gin.Context) []model.Role {
	if v, ok := c.Get(ContextUserRoles); ok {
		if roles, ok := v.([]model.Role); ok {
			return roles
		}
	}
	return nil
}

func CurrentCapabilities(c *gin.Context) model.Capabilities {
	if v, ok := c.Get(ContextCapabilities); ok {
		if caps, ok := v.(model.Capabilities); ok {
			return caps
		}
	}
	return model.Capabilities{}
}

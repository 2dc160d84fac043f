package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"agroland-backend/internal/services"
)

// Context keys populated by the auth middleware for downstream handlers.
const (
	ContextUserID    = "userID"
	ContextUserRole  = "userRole"
	ContextUserEmail = "userEmail"
)

// AuthMiddleware validates bearer tokens and enforces role access
type AuthMiddleware struct {
	authService *services.AuthService
}

// NewAuthMiddleware creates a new auth middleware
func NewAuthMiddleware(authService *services.AuthService) *AuthMiddleware {
	return &AuthMiddleware{authService: authService}
}

// bearerToken extracts the token from the Authorization header. An empty
// string means the header is absent or malformed.
func bearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if !strings.HasPrefix(header, "Bearer ") {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
}

func abortUnauthorized(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"success": false,
		"error":   message,
	})
}

func (m *AuthMiddleware) setClaims(c *gin.Context, claims *services.JWTClaims) {
	c.Set(ContextUserID, claims.UserID)
	c.Set(ContextUserRole, claims.Role)
	c.Set(ContextUserEmail, claims.Email)
}

// AuthRequired rejects requests without a valid access token
func (m *AuthMiddleware) AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			abortUnauthorized(c, "Authentication required")
			return
		}

		claims, err := m.authService.ValidateToken(token)
		if err != nil {
			abortUnauthorized(c, "Invalid token: "+err.Error())
			return
		}

		m.setClaims(c, claims)
		c.Next()
	}
}

// OptionalAuth attaches the caller's identity when a valid token is
// presented but lets anonymous and bad-token requests through. Routes
// behind it serve a public view that widens for owners and admins.
func (m *AuthMiddleware) OptionalAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if token := bearerToken(c); token != "" {
			if claims, err := m.authService.ValidateToken(token); err == nil {
				m.setClaims(c, claims)
			}
		}
		c.Next()
	}
}

// RequireRoles allows only callers whose token role is one of the given
// roles. It must run after AuthRequired.
func (m *AuthMiddleware) RequireRoles(roles ...string) gin.HandlerFunc {
	allowed := make(map[string]bool, len(roles))
	for _, role := range roles {
		allowed[role] = true
	}

	return func(c *gin.Context) {
		userRole := c.GetString(ContextUserRole)
		if userRole == "" {
			abortUnauthorized(c, "Authentication required")
			return
		}

		if !allowed[userRole] {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"success": false,
				"error":   "Insufficient permissions",
			})
			return
		}

		c.Next()
	}
}

// RequireRole is the single-role form of RequireRoles
func (m *AuthMiddleware) RequireRole(role string) gin.HandlerFunc {
	return m.RequireRoles(role)
}

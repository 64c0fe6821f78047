package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gramseva/api/internal/auth"
	"github.com/gramseva/api/internal/model"
)

// IdentityResolver lazily creates or reuses a named user record. Implemented
// by the lifecycle service; used only by the demo-identity path.
type IdentityResolver interface {
	EnsureUser(ctx context.Context, username, fullName, role string) (*model.User, error)
}

// AuthMiddleware requires a valid JWT token
func AuthMiddleware(jwtSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := bearerClaims(c, jwtSecret)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "valid bearer token required"})
			c.Abort()
			return
		}

		setPrincipal(c, claims.UserID, claims.Username, claims.Role)
		c.Next()
	}
}

// OfficialMiddleware requires a valid JWT token AND the official role.
func OfficialMiddleware(jwtSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := bearerClaims(c, jwtSecret)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "valid bearer token required"})
			c.Abort()
			return
		}

		if claims.Role != model.RoleOfficial {
			c.JSON(http.StatusForbidden, gin.H{"error": "official access required"})
			c.Abort()
			return
		}

		setPrincipal(c, claims.UserID, claims.Username, claims.Role)
		c.Next()
	}
}

// DemoIdentityMiddleware substitutes the named placeholder user for requests
// that carry no token, creating it on first use. Only mounted when demo mode
// is enabled.
func DemoIdentityMiddleware(jwtSecret string, resolver IdentityResolver, username, fullName, role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if claims, ok := bearerClaims(c, jwtSecret); ok {
			setPrincipal(c, claims.UserID, claims.Username, claims.Role)
			c.Next()
			return
		}

		user, err := resolver.EnsureUser(c.Request.Context(), username, fullName, role)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to resolve demo identity"})
			c.Abort()
			return
		}

		setPrincipal(c, user.ID, user.Username, user.Role)
		c.Next()
	}
}

func bearerClaims(c *gin.Context, jwtSecret string) (*auth.Claims, bool) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return nil, false
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return nil, false
	}

	claims, err := auth.ValidateAccessToken(parts[1], jwtSecret)
	if err != nil {
		return nil, false
	}
	return claims, true
}

func setPrincipal(c *gin.Context, userID, username, role string) {
	c.Set("userID", userID)
	c.Set("username", username)
	c.Set("userRole", role)
}

package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/yigit/ratemyteacher/internal/app/models"
	"github.com/yigit/ratemyteacher/internal/app/services"
	"github.com/yigit/ratemyteacher/internal/pkg/auth"
)

// UserHandlerFunc is a handler that runs on behalf of an authenticated user
type UserHandlerFunc func(c *gin.Context, caller *models.User)

// AuthMiddleware for authentication and authorization
type AuthMiddleware struct {
	authService services.AuthService
}

// NewAuthMiddleware creates a new AuthMiddleware
func NewAuthMiddleware(authService services.AuthService) *AuthMiddleware {
	return &AuthMiddleware{authService: authService}
}

// User resolves the bearer token to a stored user and passes it to h
func (m *AuthMiddleware) User(h UserHandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := requestToken(c)
		if err != nil {
			HandleAPIError(c, err)
			return
		}

		caller, err := m.authService.AuthenticateUser(c.Request.Context(), token)
		if err != nil {
			HandleAPIError(c, err)
			return
		}

		h(c, caller)
	}
}

// AdminAuth rejects requests that do not carry an admin token
func (m *AuthMiddleware) AdminAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := requestToken(c)
		if err != nil {
			HandleAPIError(c, err)
			return
		}

		if err := m.authService.AuthenticateAdmin(token); err != nil {
			HandleAPIError(c, err)
			return
		}

		c.Next()
	}
}

// requestToken reads the token from the Authorization header only; tokens
// in the URL are ignored
func requestToken(c *gin.Context) (string, error) {
	return auth.ExtractBearerToken(c.GetHeader("Authorization"))
}

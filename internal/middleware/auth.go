package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/jwalitptl/loyalty-admin-api/internal/handler"
	"github.com/jwalitptl/loyalty-admin-api/internal/model"
	"github.com/jwalitptl/loyalty-admin-api/internal/service/auth"
)

// ContextCaller is the gin context key holding the authenticated
// model.CallerIdentity.
const ContextCaller = "caller"

type AuthMiddleware struct {
	authService auth.AuthServicer
}

func NewAuthMiddleware(authService auth.AuthServicer) *AuthMiddleware {
	return &AuthMiddleware{authService: authService}
}

// Authenticate verifies the bearer token and stores the typed caller
// identity in the request context.
func (m *AuthMiddleware) Authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, handler.NewErrorResponse("missing authorization header"))
			c.Abort()
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.JSON(http.StatusUnauthorized, handler.NewErrorResponse("invalid authorization format"))
			c.Abort()
			return
		}

		caller, err := m.authService.ValidateToken(c.Request.Context(), parts[1])
		if err != nil {
			c.JSON(http.StatusUnauthorized, handler.NewErrorResponse("invalid token"))
			c.Abort()
			return
		}

		c.Set(ContextCaller, caller)
		c.Next()
	}
}

// RequireSuperAdmin gates a route group to super-admin callers. It must
// run after Authenticate.
func (m *AuthMiddleware) RequireSuperAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		caller, ok := CallerFrom(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, handler.NewErrorResponse("missing caller identity"))
			c.Abort()
			return
		}
		if err := m.authService.RequireSuperAdmin(caller); err != nil {
			c.JSON(http.StatusForbidden, handler.NewErrorResponse("super-admin access required"))
			c.Abort()
			return
		}
		c.Next()
	}
}

// CallerFrom extracts the authenticated caller set by Authenticate.
func CallerFrom(c *gin.Context) (model.CallerIdentity, bool) {
	v, exists := c.Get(ContextCaller)
	if !exists {
		return model.CallerIdentity{}, false
	}
	caller, ok := v.(model.CallerIdentity)
	return caller, ok
}

// auth_middleware.go
package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"autoparts-backoffice/internal/dto"
	"autoparts-backoffice/internal/model"
	"autoparts-backoffice/internal/service"
)

const sessionKey = "session"

// Middleware que valida el token y guarda la sesión en el contexto
func AuthMiddleware(authService *service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, dto.Fail("missing authorization header"))
			c.Abort()
			return
		}

		token := strings.TrimPrefix(authHeader, "Bearer ")
		token = strings.TrimSpace(token)
		session, err := authService.ValidateToken(c.Request.Context(), token)

		if err != nil {
			c.JSON(http.StatusUnauthorized, dto.Fail("invalid or expired token"))
			c.Abort()
			return
		}

		c.Set(sessionKey, session)
		c.Next()
	}
}

// SessionFrom recupera la sesión que dejó AuthMiddleware.
func SessionFrom(c *gin.Context) (model.Session, bool) {
	v, ok := c.Get(sessionKey)
	if !ok {
		return model.Session{}, false
	}
	session, ok := v.(model.Session)
	return session, ok
}

// SetSession existe para que los tests inyecten una sesión sin token.
func SetSession(c *gin.Context, session model.Session) {
	c.Set(sessionKey, session)
}

// admin_only.go
package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"autoparts-backoffice/internal/dto"
)

func AdminOnly() gin.HandlerFunc {
	return func(c *gin.Context) {
		session, ok := SessionFrom(c)
		if !ok || !session.IsAdmin() {
			c.JSON(http.StatusForbidden, dto.Fail("admin privileges required"))
			c.Abort()
			return
		}
		c.Next()
	}
}

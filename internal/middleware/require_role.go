package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/thomaslittle/usrp-backend/internal/auth"
	"github.com/thomaslittle/usrp-backend/internal/common"
)

// RequireRole checks that the authenticated user's role meets the required
// role. It requires JWTAuth to be applied first.
func RequireRole(requiredRole string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !auth.HasPermission(GetUserRole(c), requiredRole) {
			common.ErrorResponse(c, http.StatusForbidden, "Insufficient role", nil)
			c.Abort()
			return
		}
		c.Next()
	}
}

package middleware

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/thomaslittle/usrp-backend/internal/common"
	"github.com/thomaslittle/usrp-backend/pkg/jwt"
)

// sessionCookie is the cookie carrying the session token for browser clients
const sessionCookie = "usrp_session"

// sessionHeader is the fallback header for clients that cannot send cookies
const sessionHeader = "X-Session-Token"

// JWTAuth authenticates a request from the Authorization bearer header,
// the X-Session-Token header, or the session cookie, in that order.
func JWTAuth(jwtManager *jwt.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := extractToken(c)
		if tokenString == "" {
			common.ErrorResponse(c, 401, "Missing authentication token", nil)
			c.Abort()
			return
		}

		claims, err := jwtManager.VerifyToken(tokenString)
		if err != nil {
			if errors.Is(err, jwt.ErrExpiredToken) {
				common.ErrorResponse(c, 401, "Token expired", err)
			} else {
				common.ErrorResponse(c, 401, "Invalid token", err)
			}
			c.Abort()
			return
		}

		c.Set("userID", claims.UserID)
		c.Set("username", claims.Username)
		c.Set("role", claims.Role)
		c.Set("department", claims.Department)
		c.Set("rank", claims.Rank)

		c.Next()
	}
}

// OptionalJWTAuth resolves identity when a token is present but lets
// anonymous requests through. Read-only endpoints use this to return
// department-scoped data for known users.
func OptionalJWTAuth(jwtManager *jwt.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := extractToken(c)
		if tokenString != "" {
			if claims, err := jwtManager.VerifyToken(tokenString); err == nil {
				c.Set("userID", claims.UserID)
				c.Set("username", claims.Username)
				c.Set("role", claims.Role)
				c.Set("department", claims.Department)
				c.Set("rank", claims.Rank)
			}
		}
		c.Next()
	}
}

func extractToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if authHeader != "" {
		parts := strings.Split(authHeader, " ")
		if len(parts) == 2 && parts[0] == "Bearer" {
			return parts[1]
		}
	}
	if token := c.GetHeader(sessionHeader); token != "" {
		return token
	}
	if token, err := c.Cookie(sessionCookie); err == nil {
		return token
	}
	return ""
}

// GetUserID extracts user ID from context
func GetUserID(c *gin.Context) string {
	return getString(c, "userID")
}

// GetUserRole extracts the user's role from context
func GetUserRole(c *gin.Context) string {
	return getString(c, "role")
}

// GetUserDepartment extracts the user's department from context
func GetUserDepartment(c *gin.Context) string {
	return getString(c, "department")
}

// GetUsername extracts the username from context
func GetUsername(c *gin.Context) string {
	return getString(c, "username")
}

func getString(c *gin.Context, key string) string {
	value, exists := c.Get(key)
	if !exists {
		return ""
	}
	if str, ok := value.(string); ok {
		return str
	}
	return ""
}

package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"telecore/internal/models/db_models"
	"telecore/pkg/utils"
)

const (
	ContextUserID = "user_id"
	ContextRole   = "Role"
)

func JWTAuthMiddleware(tokens *utils.JWTManager) gin.HandlerFunc {

	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			utils.RespondError(c, http.StatusUnauthorized, "Authorization header missing or invalid")
			c.Abort()
			return
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		claims, err := tokens.ValidateToken(tokenString)
		if err != nil {
			utils.RespondError(c, http.StatusUnauthorized, "Invalid or expired token")
			c.Abort()
			return
		}

		if _, err := uuid.Parse(claims.UserID); err != nil || !db_models.Role(claims.Role).Valid() {
			utils.RespondError(c, http.StatusUnauthorized, "Token subject or role is invalid")
			c.Abort()
			return
		}

		// Pass user information to the next handler
		c.Set(ContextUserID, claims.UserID)
		c.Set(ContextRole, claims.Role)
		c.Next()
	}
}

// RoleMiddleware admits callers holding any of the given roles.
func RoleMiddleware(allowed ...db_models.Role) gin.HandlerFunc {

	return func(c *gin.Context) {
		role := db_models.Role(c.GetString(ContextRole))

		for _, r := range allowed {
			if role == r {
				c.Next()
				return
			}
		}

		utils.RespondError(c, http.StatusForbidden, "Forbidden: insufficient permissions")
		c.Abort()
	}
}

// CallerID returns the authenticated subject set by JWTAuthMiddleware.
func CallerID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.GetString(ContextUserID))
	return id, err == nil
}

func CallerRole(c *gin.Context) db_models.Role {
	return db_models.Role(c.GetString(ContextRole))
}

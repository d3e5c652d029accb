package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/wayplan/wayplan-backend/models"
	"github.com/wayplan/wayplan-backend/services"
	"github.com/wayplan/wayplan-backend/utils"
)

const userContextKey = "currentUser"

// RequireAuth validates the Bearer access token and places the
// authenticated user in the request context.
func RequireAuth(auth *services.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := utils.ExtractBearerToken(c.GetHeader("Authorization"))
		if token == "" {
			utils.HandleError(c, utils.NewUnauthorizedError("Missing access token"))
			c.Abort()
			return
		}

		user, err := auth.Authenticate(c.Request.Context(), token)
		if err != nil {
			utils.HandleError(c, err)
			c.Abort()
			return
		}

		c.Set(userContextKey, user)
		c.Next()
	}
}

// CurrentUser returns the authenticated user set by RequireAuth.
func CurrentUser(c *gin.Context) *models.User {
	value, exists := c.Get(userContextKey)
	if !exists {
		return nil
	}
	user, ok := value.(*models.User)
	if !ok {
		return nil
	}
	return user
}

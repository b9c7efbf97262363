package httpctx

import (
	"yatube/api/models"

	"github.com/gin-gonic/gin"
)

const (
	userIDKey  = "userID"
	isAdminKey = "isAdmin"
	userKey    = "user"
)

// SetUser records the authenticated user on the request context.
func SetUser(c *gin.Context, user *models.User) {
	c.Set(userIDKey, user.ID)
	c.Set(isAdminKey, user.IsAdmin)
	c.Set(userKey, user)
}

// ClearUser forgets the identity for the rest of the request, e.g. after
// logging out.
func ClearUser(c *gin.Context) {
	c.Set(userIDKey, uint(0))
	c.Set(isAdminKey, false)
	c.Set(userKey, (*models.User)(nil))
}

// CurrentUserID retrieves the authenticated user ID from Gin context if present.
func CurrentUserID(c *gin.Context) (uint, bool) {
	val, exists := c.Get(userIDKey)
	if !exists {
		return 0, false
	}
	uid, ok := val.(uint)
	return uid, ok && uid != 0
}

// CurrentUser is nil for anonymous requests.
func CurrentUser(c *gin.Context) *models.User {
	val, exists := c.Get(userKey)
	if !exists {
		return nil
	}
	user, _ := val.(*models.User)
	return user
}

// IsAdminRequest indicates whether the current request is from an admin.
func IsAdminRequest(c *gin.Context) bool {
	val, exists := c.Get(isAdminKey)
	if !exists {
		return false
	}
	isAdmin, ok := val.(bool)
	return ok && isAdmin
}

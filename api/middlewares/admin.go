package middlewares

import (
	"net/http"

	httpctx "yatube/api/utils/httpctx"

	"github.com/gin-gonic/gin"
)

// AdminOnlyMiddleware lets staff through and sends everyone else to log in.
func AdminOnlyMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if httpctx.IsAdminRequest(c) {
			c.Next()
			return
		}
		c.Redirect(http.StatusFound, LoginURL(c.Request.URL.RequestURI()))
		c.Abort()
	}
}

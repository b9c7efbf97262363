package middlewares

import (
	"net/http"
	"net/url"
	"strings"
	"time"

	"yatube/api/auth"
	"yatube/api/models"
	httpctx "yatube/api/utils/httpctx"
	Logger "yatube/api/utils/log"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

const LoginPath = "/auth/login/"

// Authenticate resolves the session cookie into a user. Anonymous and stale
// sessions pass through without an identity; a session issued before the
// last password change is stale.
func Authenticate(db *gorm.DB, secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		session, err := auth.ExtractSession(secret, c.Request)
		if err != nil {
			c.Next()
			return
		}
		user, err := models.FindUserByID(db.WithContext(c.Request.Context()), session.UserID)
		if err != nil || !session.Matches(secret, user.Password) {
			c.Next()
			return
		}
		httpctx.SetUser(c, user)
		c.Next()
	}
}

// LoginURL builds the login redirect for next, keeping slashes readable.
func LoginURL(next string) string {
	return LoginPath + "?next=" + strings.ReplaceAll(url.QueryEscape(next), "%2F", "/")
}

func redirectToLogin(c *gin.Context) {
	c.Redirect(http.StatusFound, LoginURL(c.Request.URL.RequestURI()))
	c.Abort()
}

// LoginRequired sends anonymous visitors to the login page.
func LoginRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		if httpctx.CurrentUser(c) == nil {
			redirectToLogin(c)
			return
		}
		c.Next()
	}
}

// ViewerHandler serves a request on behalf of a signed in user.
type ViewerHandler func(c *gin.Context, viewer *models.User)

// WithViewer passes the signed in user to h. Anonymous visitors are sent to
// the login page and never reach h.
func WithViewer(h ViewerHandler) gin.HandlerFunc {
	return func(c *gin.Context) {
		viewer := httpctx.CurrentUser(c)
		if viewer == nil {
			redirectToLogin(c)
			return
		}
		h(c, viewer)
	}
}

// RequestLogger writes one structured line per request.
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		fields := logrus.Fields{
			"method":    c.Request.Method,
			"path":      c.Request.URL.Path,
			"status":    c.Writer.Status(),
			"latency":   time.Since(start).String(),
			"client_ip": c.ClientIP(),
		}
		if uid, ok := httpctx.CurrentUserID(c); ok {
			fields["user_id"] = uid
		}
		entry := Logger.Log.WithFields(fields)
		switch {
		case c.Writer.Status() >= http.StatusInternalServerError:
			entry.Error("request failed")
		case len(c.Errors) > 0:
			entry.WithField("errors", c.Errors.String()).Warn("request")
		default:
			entry.Info("request")
		}
	}
}

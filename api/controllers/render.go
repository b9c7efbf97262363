package controllers

import (
	"html/template"
	"net/http"
	"strings"
	"time"

	"yatube/api/media"
	"yatube/api/templates"
	httpctx "yatube/api/utils/httpctx"
	Logger "yatube/api/utils/log"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

const dateLayout = "02.01.2006 15:04"

func parseTemplates(server *Server) (*template.Template, error) {
	return templates.Parse(template.FuncMap{
		"media": func(key string) string {
			if server.Media == nil {
				return "/media/" + key
			}
			return server.Media.URL(key)
		},
		"thumb": func(key string) string {
			if server.Media == nil {
				return "/media/" + media.ThumbKey(key)
			}
			return server.Media.URL(media.ThumbKey(key))
		},
		"date": func(t time.Time) string {
			return t.Format(dateLayout)
		},
		"linebreaksbr": linebreaksbr,
		"dict":         dict,
		"year": func() int {
			return time.Now().Year()
		},
	})
}

func linebreaksbr(text string) template.HTML {
	escaped := template.HTMLEscapeString(strings.ReplaceAll(text, "\r\n", "\n"))
	return template.HTML(strings.ReplaceAll(escaped, "\n", "<br>"))
}

func dict(pairs ...interface{}) (map[string]interface{}, error) {
	if len(pairs)%2 != 0 {
		return nil, errors.New("dict expects key/value pairs")
	}
	out := make(map[string]interface{}, len(pairs)/2)
	for i := 0; i < len(pairs); i += 2 {
		key, ok := pairs[i].(string)
		if !ok {
			return nil, errors.Errorf("dict key %v is not a string", pairs[i])
		}
		out[key] = pairs[i+1]
	}
	return out, nil
}

// render executes a page with the viewer and the request path filled in.
func (server *Server) render(c *gin.Context, status int, name string, data gin.H) {
	if data == nil {
		data = gin.H{}
	}
	if viewer := httpctx.CurrentUser(c); viewer != nil {
		data["viewer"] = viewer
	}
	data["path"] = c.Request.URL.Path
	c.HTML(status, name, data)
}

func (server *Server) notFound(c *gin.Context) {
	server.render(c, http.StatusNotFound, "misc/404.html", gin.H{"title": "Страница не найдена"})
}

func (server *Server) serverError(c *gin.Context, err error) {
	_ = c.Error(err)
	Logger.Log.WithError(err).WithField("path", c.Request.URL.Path).Error("request failed")
	server.render(c, http.StatusInternalServerError, "misc/500.html", gin.H{"title": "Ошибка сервера"})
}

// lookupFailed answers a failed lookup with 404 for missing rows and 500
// otherwise.
func (server *Server) lookupFailed(c *gin.Context, err error) {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		server.notFound(c)
		return
	}
	server.serverError(c, err)
}

func (server *Server) recoverPanic(c *gin.Context, recovered interface{}) {
	Logger.Log.WithField("panic", recovered).WithField("path", c.Request.URL.Path).Error("panic recovered")
	server.render(c, http.StatusInternalServerError, "misc/500.html", gin.H{"title": "Ошибка сервера"})
	c.Abort()
}

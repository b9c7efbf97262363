package controllers

import (
	"bytes"
	"html/template"
	"net/http"

	Logger "yatube/api/utils/log"

	"github.com/gin-gonic/gin"
)

// Index renders the home feed. The post list is cached per page number and
// only expires with its ttl, so new posts show up once it runs out.
func (server *Server) Index(c *gin.Context) {
	ctx := c.Request.Context()
	rawPage := c.Query("page")
	cacheKey := indexCacheKey(rawPage)

	fragment, ok, err := server.Cache.Get(ctx, cacheKey)
	if err != nil {
		Logger.Log.WithError(err).WithField("key", cacheKey).Warn("index cache read failed")
		ok = false
	}
	if !ok {
		page, err := server.Feed.Home(ctx, rawPage)
		if err != nil {
			server.serverError(c, err)
			return
		}
		var buf bytes.Buffer
		err = server.templates.ExecuteTemplate(&buf, "index_fragment", gin.H{
			"posts": page.Posts,
			"page":  page.Page,
		})
		if err != nil {
			server.serverError(c, err)
			return
		}
		fragment = buf.String()
		if ttl := server.Config.IndexCacheTTL; ttl > 0 {
			if err := server.Cache.Set(ctx, cacheKey, buf.Bytes(), ttl); err != nil {
				Logger.Log.WithError(err).WithField("key", cacheKey).Warn("index cache write failed")
			}
		}
	}

	server.render(c, http.StatusOK, "index.html", gin.H{
		"fragment": template.HTML(fragment),
	})
}

func (server *Server) AboutAuthor(c *gin.Context) {
	server.render(c, http.StatusOK, "about/author.html", gin.H{"title": "Об авторе"})
}

func (server *Server) AboutTech(c *gin.Context) {
	server.render(c, http.StatusOK, "about/tech.html", gin.H{"title": "Технологии"})
}

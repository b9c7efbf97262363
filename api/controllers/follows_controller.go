package controllers

import (
	"net/http"

	"yatube/api/models"

	"github.com/gin-gonic/gin"
)

func (server *Server) FollowIndex(c *gin.Context, viewer *models.User) {
	page, err := server.Feed.Follow(c.Request.Context(), viewer, c.Query("page"))
	if err != nil {
		server.serverError(c, err)
		return
	}
	server.render(c, http.StatusOK, "follow.html", gin.H{
		"title": "Подписки",
		"posts": page.Posts,
		"page":  page.Page,
	})
}

// ProfileFollow subscribes the viewer to the author. Following yourself or
// following twice changes nothing.
func (server *Server) ProfileFollow(c *gin.Context, viewer *models.User) {
	db := server.DB.WithContext(c.Request.Context())

	author, err := models.FindUserByUsername(db, c.Param("username"))
	if err != nil {
		server.lookupFailed(c, err)
		return
	}
	if author.ID != viewer.ID {
		if _, err := models.FollowAuthor(db, viewer.ID, author.ID); err != nil {
			server.serverError(c, err)
			return
		}
	}
	c.Redirect(http.StatusFound, profileURL(author.Username))
}

func (server *Server) ProfileUnfollow(c *gin.Context, viewer *models.User) {
	db := server.DB.WithContext(c.Request.Context())

	author, err := models.FindUserByUsername(db, c.Param("username"))
	if err != nil {
		server.lookupFailed(c, err)
		return
	}
	if author.ID != viewer.ID {
		if _, err := models.UnfollowAuthor(db, viewer.ID, author.ID); err != nil {
			server.serverError(c, err)
			return
		}
	}
	c.Redirect(http.StatusFound, profileURL(author.Username))
}

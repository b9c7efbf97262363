package controllers

import (
	"net/http"

	"yatube/api/forms"
	"yatube/api/models"

	"github.com/gin-gonic/gin"
)

// AddComment stores a comment and returns to the post. An empty comment is
// dropped without a message.
func (server *Server) AddComment(c *gin.Context, viewer *models.User) {
	db := server.DB.WithContext(c.Request.Context())

	postID, err := parseIDParam(c, "post_id")
	if err != nil {
		server.notFound(c)
		return
	}
	post, err := models.FindAuthorPost(db, c.Param("username"), postID)
	if err != nil {
		server.lookupFailed(c, err)
		return
	}

	if c.Request.Method == http.MethodPost {
		var form forms.CommentForm
		if err := c.ShouldBind(&form); err == nil && form.Validate() {
			if _, err := form.Comment(post.ID, viewer.ID).SaveComment(db); err != nil {
				server.serverError(c, err)
				return
			}
		}
	}
	c.Redirect(http.StatusFound, postURL(post.Author.Username, post.ID))
}

// DeleteComment removes the comment when the requester wrote it.
func (server *Server) DeleteComment(c *gin.Context, viewer *models.User) {
	db := server.DB.WithContext(c.Request.Context())

	commentID, err := parseIDParam(c, "comment_id")
	if err != nil {
		server.notFound(c)
		return
	}
	comment, err := models.FindCommentByID(db, commentID)
	if err != nil {
		server.lookupFailed(c, err)
		return
	}
	if comment.AuthorID == viewer.ID {
		if _, err := comment.DeleteAComment(db); err != nil {
			server.serverError(c, err)
			return
		}
	}
	c.Redirect(http.StatusFound, postURL(c.Param("username"), comment.PostID))
}

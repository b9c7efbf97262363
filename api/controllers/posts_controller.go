package controllers

import (
	"net/http"
	"strings"

	"yatube/api/forms"
	"yatube/api/media"
	"yatube/api/models"
	httpctx "yatube/api/utils/httpctx"
	Logger "yatube/api/utils/log"

	"github.com/gin-gonic/gin"
)

func (server *Server) GroupPosts(c *gin.Context) {
	feed, err := server.Feed.Group(c.Request.Context(), c.Param("slug"), c.Query("page"))
	if err != nil {
		server.lookupFailed(c, err)
		return
	}
	server.render(c, http.StatusOK, "group.html", gin.H{
		"title": feed.Group.Title,
		"group": feed.Group,
		"posts": feed.Posts,
		"page":  feed.Page,
	})
}

func (server *Server) Profile(c *gin.Context) {
	feed, err := server.Feed.Profile(c.Request.Context(), c.Param("username"), httpctx.CurrentUser(c), c.Query("page"))
	if err != nil {
		server.lookupFailed(c, err)
		return
	}
	server.render(c, http.StatusOK, "profile.html", gin.H{
		"title":        feed.Author.FullName(),
		"author":       feed.Author,
		"posts":        feed.Posts,
		"page":         feed.Page,
		"posts_count":  feed.Count,
		"followers":    feed.FollowersCount,
		"following":    feed.FollowingCount,
		"can_follow":   feed.CanFollow,
		"is_following": feed.Following,
	})
}

func (server *Server) PostView(c *gin.Context) {
	postID, err := parseIDParam(c, "post_id")
	if err != nil {
		server.notFound(c)
		return
	}
	detail, err := server.Feed.Post(c.Request.Context(), c.Param("username"), postID)
	if err != nil {
		server.lookupFailed(c, err)
		return
	}
	server.render(c, http.StatusOK, "post.html", gin.H{
		"title":       detail.Post.String(),
		"post":        detail.Post,
		"author":      detail.Author,
		"comments":    detail.Comments,
		"posts_count": detail.PostsCount,
		"followers":   detail.Followers,
		"following":   detail.FollowingTo,
	})
}

// bindPostForm reads a submitted post form, including the optional image.
func bindPostForm(c *gin.Context) (*forms.PostForm, error) {
	form := forms.NewPostForm(nil)
	if err := c.ShouldBind(form); err != nil {
		return nil, err
	}
	if fh, err := c.FormFile("image"); err == nil {
		form.Image = fh
	}
	return form, nil
}

func (server *Server) NewPost(c *gin.Context, viewer *models.User) {
	ctx := c.Request.Context()
	db := server.DB.WithContext(ctx)

	form := forms.NewPostForm(nil)
	if c.Request.Method == http.MethodPost {
		bound, err := bindPostForm(c)
		if err != nil {
			server.serverError(c, err)
			return
		}
		form = bound
		valid, err := form.Validate(db)
		if err != nil {
			server.serverError(c, err)
			return
		}
		if valid {
			post := &models.Post{AuthorID: viewer.ID}
			form.ApplyTo(post)
			if up := form.Upload(); up != nil {
				if err := media.Save(ctx, server.Media, up); err != nil {
					server.serverError(c, err)
					return
				}
			}
			if _, err := post.SavePost(db); err != nil {
				server.removeImage(c, post.Image)
				server.serverError(c, err)
				return
			}
			c.Redirect(http.StatusFound, "/")
			return
		}
	}

	groups, err := models.FindAllGroups(db, "", "")
	if err != nil {
		server.serverError(c, err)
		return
	}
	server.render(c, http.StatusOK, "new.html", gin.H{
		"title":  "Новая запись",
		"form":   form,
		"groups": groups,
		"action": "/new/",
	})
}

// PostEdit lets the author change a post. Anyone else is sent back to the
// post page.
func (server *Server) PostEdit(c *gin.Context, viewer *models.User) {
	ctx := c.Request.Context()
	db := server.DB.WithContext(ctx)

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
	detailURL := postURL(post.Author.Username, post.ID)
	if post.AuthorID != viewer.ID {
		c.Redirect(http.StatusFound, detailURL)
		return
	}

	form := forms.NewPostForm(post)
	if c.Request.Method == http.MethodPost {
		bound, err := bindPostForm(c)
		if err != nil {
			server.serverError(c, err)
			return
		}
		form = bound
		valid, err := form.Validate(db)
		if err != nil {
			server.serverError(c, err)
			return
		}
		if valid {
			replaced := form.ApplyTo(post)
			up := form.Upload()
			if up != nil {
				if err := media.Save(ctx, server.Media, up); err != nil {
					server.serverError(c, err)
					return
				}
			}
			if _, err := post.UpdateAPost(db); err != nil {
				if up != nil {
					server.removeImage(c, up.Key)
				}
				server.serverError(c, err)
				return
			}
			server.removeImage(c, replaced)
			c.Redirect(http.StatusFound, detailURL)
			return
		}
	}

	groups, err := models.FindAllGroups(db, "", "")
	if err != nil {
		server.serverError(c, err)
		return
	}
	server.render(c, http.StatusOK, "new.html", gin.H{
		"title":   "Редактировать запись",
		"form":    form,
		"groups":  groups,
		"post":    post,
		"editing": true,
		"action":  detailURL + "edit/",
	})
}

// PostDelete removes a post of the requesting user. A request for somebody
// else's post only bounces back to it.
func (server *Server) PostDelete(c *gin.Context, viewer *models.User) {
	ctx := c.Request.Context()
	db := server.DB.WithContext(ctx)
	username := c.Param("username")

	postID, err := parseIDParam(c, "post_id")
	if err != nil {
		server.notFound(c)
		return
	}
	if !strings.EqualFold(viewer.Username, username) {
		c.Redirect(http.StatusFound, postURL(username, postID))
		return
	}
	post, err := models.FindAuthorPost(db, username, postID)
	if err != nil {
		server.lookupFailed(c, err)
		return
	}
	if _, err := models.DeleteAPost(db, post.ID); err != nil {
		server.serverError(c, err)
		return
	}
	server.removeImage(c, post.Image)
	c.Redirect(http.StatusFound, profileURL(viewer.Username))
}

// removeImage drops an image that no post references any more. Failures are
// only logged.
func (server *Server) removeImage(c *gin.Context, key string) {
	if key == "" || server.Media == nil {
		return
	}
	if err := media.Remove(c.Request.Context(), server.Media, key); err != nil {
		Logger.Log.WithError(err).WithField("key", key).Warn("could not remove image")
	}
}

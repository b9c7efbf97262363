package controllers

import (
	"net/http"
	"strings"
	"time"

	"yatube/api/forms"
	"yatube/api/models"
	"yatube/api/pagination"
	Logger "yatube/api/utils/log"

	"github.com/araddon/dateparse"
	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

const adminPerPage = 25

func (server *Server) AdminDashboard(c *gin.Context) {
	db := server.DB.WithContext(c.Request.Context())
	stats := map[string]int64{}
	counted := []struct {
		name  string
		model interface{}
	}{
		{"users", &models.User{}},
		{"posts", &models.Post{}},
		{"groups", &models.Group{}},
		{"comments", &models.Comment{}},
		{"follows", &models.Follow{}},
	}
	for _, item := range counted {
		var n int64
		if err := db.Model(item.model).Count(&n).Error; err != nil {
			server.serverError(c, err)
			return
		}
		stats[item.name] = n
	}
	server.render(c, http.StatusOK, "admin/dashboard.html", gin.H{"title": "Администрирование", "stats": stats})
}

// AdminClearCache drops every cached home page fragment.
func (server *Server) AdminClearCache(c *gin.Context) {
	if err := server.invalidateIndexCache(c.Request.Context()); err != nil {
		server.serverError(c, err)
		return
	}
	c.Redirect(http.StatusFound, "/admin/")
}

func (server *Server) AdminGroups(c *gin.Context) {
	db := server.DB.WithContext(c.Request.Context())
	q := c.Query("q")
	groups, err := models.FindAllGroups(db, q, c.Query("title"))
	if err != nil {
		server.serverError(c, err)
		return
	}
	server.render(c, http.StatusOK, "admin/groups.html", gin.H{"title": "Группы", "groups": groups, "q": q})
}

// AdminGroupForm creates a group at /admin/groups/new/ and edits one at
// /admin/groups/:id/.
func (server *Server) AdminGroupForm(c *gin.Context) {
	db := server.DB.WithContext(c.Request.Context())

	var group *models.Group
	action := "/admin/groups/new/"
	form := &forms.GroupForm{}
	if c.Param("id") != "" {
		id, err := parseIDParam(c, "id")
		if err != nil {
			server.notFound(c)
			return
		}
		if group, err = models.FindGroupByID(db, id); err != nil {
			server.lookupFailed(c, err)
			return
		}
		action = c.Request.URL.Path
		form = &forms.GroupForm{Title: group.Title, Slug: group.Slug, Description: group.Description}
	}

	if c.Request.Method == http.MethodPost {
		form = &forms.GroupForm{}
		if err := c.ShouldBind(form); err != nil {
			server.serverError(c, err)
			return
		}
		if group != nil {
			form.ExcludeID = group.ID
		}
		valid, err := form.Validate(db)
		if err != nil {
			server.serverError(c, err)
			return
		}
		if valid {
			saved := form.Group()
			if group != nil {
				saved.ID = group.ID
				_, err = saved.UpdateAGroup(db)
			} else {
				_, err = saved.SaveGroup(db)
			}
			if err != nil {
				server.serverError(c, err)
				return
			}
			c.Redirect(http.StatusFound, "/admin/groups/")
			return
		}
	}

	server.render(c, http.StatusOK, "admin/group_form.html", gin.H{
		"title":  "Группа",
		"form":   form,
		"group":  group,
		"action": action,
	})
}

func (server *Server) AdminDeleteGroup(c *gin.Context) {
	server.adminDelete(c, "/admin/groups/", func(db *gorm.DB, id uint) (int64, error) {
		return models.DeleteAGroup(db, id)
	})
}

// AdminPosts lists posts newest first. q searches the text and since keeps
// posts published on or after a loosely formatted date.
func (server *Server) AdminPosts(c *gin.Context) {
	ctx := c.Request.Context()
	db := server.DB.WithContext(ctx)
	q := strings.TrimSpace(c.Query("q"))
	since := strings.TrimSpace(c.Query("since"))

	scopes := []func(*gorm.DB) *gorm.DB{}
	if q != "" {
		scopes = append(scopes, models.TextContains(q))
	}
	if since != "" {
		t, err := dateparse.ParseIn(since, time.Local)
		if err != nil {
			Logger.Log.WithField("since", since).Debug("ignoring unparsable date filter")
		} else {
			scopes = append(scopes, models.PublishedSince(t))
		}
	}

	count, err := models.CountPosts(db, scopes...)
	if err != nil {
		server.serverError(c, err)
		return
	}
	page := pagination.New(count, adminPerPage).Get(c.Query("page"))
	posts := []models.Post{}
	if count > 0 {
		if posts, err = models.FindPosts(db, page.Limit(), page.Offset(), scopes...); err != nil {
			server.serverError(c, err)
			return
		}
	}
	server.render(c, http.StatusOK, "admin/posts.html", gin.H{
		"title": "Посты",
		"posts": posts,
		"page":  page,
		"q":     q,
		"since": since,
	})
}

func (server *Server) AdminDeletePost(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		server.notFound(c)
		return
	}
	post, err := models.FindPostByID(server.DB.WithContext(c.Request.Context()), id)
	if err != nil {
		server.lookupFailed(c, err)
		return
	}
	server.adminDelete(c, "/admin/posts/", func(db *gorm.DB, id uint) (int64, error) {
		n, err := models.DeleteAPost(db, id)
		if err == nil {
			server.removeImage(c, post.Image)
		}
		return n, err
	})
}

func (server *Server) AdminComments(c *gin.Context) {
	db := server.DB.WithContext(c.Request.Context())
	q := c.Query("q")
	pageNumber := pagination.ParseNumber(c.Query("page"))

	comments, count, err := models.FindAllComments(db, q, adminPerPage, (pageNumber-1)*adminPerPage)
	if err != nil {
		server.serverError(c, err)
		return
	}
	page := pagination.New(count, adminPerPage).Get(c.Query("page"))
	if page.Number != pageNumber {
		// past the last page; list the last one instead
		if comments, _, err = models.FindAllComments(db, q, page.Limit(), page.Offset()); err != nil {
			server.serverError(c, err)
			return
		}
	}
	server.render(c, http.StatusOK, "admin/comments.html", gin.H{
		"title":    "Комментарии",
		"comments": comments,
		"page":     page,
		"q":        q,
	})
}

func (server *Server) AdminDeleteComment(c *gin.Context) {
	server.adminDelete(c, "/admin/comments/", func(db *gorm.DB, id uint) (int64, error) {
		comment := models.Comment{ID: id}
		return comment.DeleteAComment(db)
	})
}

func (server *Server) AdminFollows(c *gin.Context) {
	db := server.DB.WithContext(c.Request.Context())
	follows, err := models.FindAllFollows(db, queryID(c, "user"), queryID(c, "author"))
	if err != nil {
		server.serverError(c, err)
		return
	}
	server.render(c, http.StatusOK, "admin/follows.html", gin.H{"title": "Подписки", "follows": follows})
}

func (server *Server) AdminDeleteFollow(c *gin.Context) {
	server.adminDelete(c, "/admin/follows/", models.DeleteFollow)
}

func (server *Server) AdminUsers(c *gin.Context) {
	db := server.DB.WithContext(c.Request.Context())
	q := c.Query("q")
	users, err := models.FindAllUsers(db, q)
	if err != nil {
		server.serverError(c, err)
		return
	}
	server.render(c, http.StatusOK, "admin/users.html", gin.H{"title": "Пользователи", "users": users, "q": q})
}

// AdminDeleteUser removes an account with everything it wrote. Staff cannot
// delete themselves.
func (server *Server) AdminDeleteUser(c *gin.Context, viewer *models.User) {
	server.adminDelete(c, "/admin/users/", func(db *gorm.DB, id uint) (int64, error) {
		if id == viewer.ID {
			return 0, nil
		}
		images, err := models.FindAuthorImages(db, id)
		if err != nil {
			return 0, err
		}
		n, err := models.DeleteAUser(db, id)
		if err == nil {
			for _, key := range images {
				server.removeImage(c, key)
			}
		}
		return n, err
	})
}

// adminDelete parses :id, runs del and returns to the list. Deleting a row
// that is already gone is not an error.
func (server *Server) adminDelete(c *gin.Context, listURL string, del func(*gorm.DB, uint) (int64, error)) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		server.notFound(c)
		return
	}
	if _, err := del(server.DB.WithContext(c.Request.Context()), id); err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		server.serverError(c, err)
		return
	}
	c.Redirect(http.StatusFound, listURL)
}

package controllers

import (
	"strings"

	"yatube/api/media"
	"yatube/api/middlewares"
	"yatube/api/models"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func (s *Server) initializeRoutes() {
	s.Router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	if local, ok := s.Media.(*media.LocalStore); ok && strings.HasPrefix(local.BaseURL, "/") && local.BaseURL != "/" {
		s.Router.Static(strings.TrimSuffix(local.BaseURL, "/"), local.Root)
	}

	s.Router.GET("/", s.Index)
	s.Router.GET("/group/:slug/", s.GroupPosts)
	s.Router.GET("/about/author/", s.AboutAuthor)
	s.Router.GET("/about/tech/", s.AboutTech)

	loginRequired := middlewares.LoginRequired()
	s.Router.GET("/new/", middlewares.WithViewer(s.NewPost))
	s.Router.POST("/new/", middlewares.WithViewer(s.NewPost))
	s.Router.GET("/follow/", middlewares.WithViewer(s.FollowIndex))

	authGroup := s.Router.Group("/auth")
	{
		credentials := []gin.HandlerFunc{}
		if s.Config.RateLimit {
			credentials = append(credentials, middlewares.LoginRateLimitMiddleware())
		}
		authGroup.GET("/signup/", s.Signup)
		authGroup.POST("/signup/", append(credentials, s.Signup)...)
		authGroup.GET("/login/", s.Login)
		authGroup.POST("/login/", append(credentials, s.Login)...)
		authGroup.GET("/logout/", s.Logout)
		authGroup.POST("/logout/", s.Logout)
		authGroup.GET("/password_change/", middlewares.WithViewer(s.PasswordChange))
		authGroup.POST("/password_change/", middlewares.WithViewer(s.PasswordChange))
		authGroup.GET("/password_change/done/", loginRequired, s.PasswordChangeDone)
		authGroup.GET("/password_reset/", s.PasswordReset)
		authGroup.POST("/password_reset/", append(credentials, s.PasswordReset)...)
		authGroup.GET("/password_reset/done/", s.PasswordResetDone)
		authGroup.GET("/reset/:token/", s.PasswordResetConfirm)
		authGroup.POST("/reset/:token/", append(credentials, s.PasswordResetConfirm)...)
		authGroup.GET("/reset/done/", s.PasswordResetComplete)
	}

	admin := s.Router.Group("/admin", loginRequired, middlewares.AdminOnlyMiddleware())
	{
		admin.GET("/", s.AdminDashboard)
		admin.POST("/cache/clear", s.AdminClearCache)
		admin.GET("/groups/", s.AdminGroups)
		admin.GET("/groups/new/", s.AdminGroupForm)
		admin.POST("/groups/new/", s.AdminGroupForm)
		admin.GET("/groups/:id/", s.AdminGroupForm)
		admin.POST("/groups/:id/", s.AdminGroupForm)
		admin.POST("/groups/:id/delete", s.AdminDeleteGroup)
		admin.GET("/posts/", s.AdminPosts)
		admin.POST("/posts/:id/delete", s.AdminDeletePost)
		admin.GET("/comments/", s.AdminComments)
		admin.POST("/comments/:id/delete", s.AdminDeleteComment)
		admin.GET("/follows/", s.AdminFollows)
		admin.POST("/follows/:id/delete", s.AdminDeleteFollow)
		admin.GET("/users/", s.AdminUsers)
		admin.POST("/users/:id/delete", middlewares.WithViewer(s.AdminDeleteUser))
	}

	// Profile routes come last; the static prefixes above take precedence.
	s.Router.GET("/:username/", s.Profile)
	s.Router.GET("/:username/follow/", middlewares.WithViewer(s.ProfileFollow))
	s.Router.POST("/:username/follow/", middlewares.WithViewer(s.ProfileFollow))
	s.Router.GET("/:username/unfollow/", middlewares.WithViewer(s.ProfileUnfollow))
	s.Router.POST("/:username/unfollow/", middlewares.WithViewer(s.ProfileUnfollow))
	s.Router.GET("/:username/:post_id/", s.PostView)
	s.Router.GET("/:username/:post_id/edit/", middlewares.WithViewer(s.PostEdit))
	s.Router.POST("/:username/:post_id/edit/", middlewares.WithViewer(s.PostEdit))
	s.Router.GET("/:username/:post_id/delete", middlewares.WithViewer(s.PostDelete))
	s.Router.POST("/:username/:post_id/delete", middlewares.WithViewer(s.PostDelete))
	s.Router.GET("/:username/:post_id/comment", middlewares.WithViewer(s.AddComment))
	s.Router.POST("/:username/:post_id/comment", middlewares.WithViewer(s.AddComment))
	s.Router.GET("/:username/:post_id/comment/:comment_id/delete", middlewares.WithViewer(s.DeleteComment))
	s.Router.POST("/:username/:post_id/comment/:comment_id/delete", middlewares.WithViewer(s.DeleteComment))

	models.ReserveUsernames(shadowedUsernames(s.Router.Routes())...)
}

// shadowedUsernames lists the names whose /<name>/ profile the router would
// never reach: the first segment of every static route, and every common
// prefix of two such segments, where the route tree splits and does not fall
// back to :username.
func shadowedUsernames(routes gin.RoutesInfo) []string {
	seen := map[string]bool{}
	var segments []string
	for _, route := range routes {
		segment := strings.SplitN(strings.TrimPrefix(route.Path, "/"), "/", 2)[0]
		if segment == "" || segment[0] == ':' || segment[0] == '*' || seen[segment] {
			continue
		}
		seen[segment] = true
		segments = append(segments, segment)
	}

	names := append([]string(nil), segments...)
	for i := range segments {
		for j := i + 1; j < len(segments); j++ {
			prefix := commonPrefix(segments[i], segments[j])
			if prefix != "" && !seen[prefix] {
				seen[prefix] = true
				names = append(names, prefix)
			}
		}
	}
	return names
}

func commonPrefix(a, b string) string {
	n := 0
	for n < len(a) && n < len(b) && a[n] == b[n] {
		n++
	}
	return a[:n]
}

package controllers

import (
	"net/http"
	"net/url"
	"strings"
	"time"

	"yatube/api/auth"
	"yatube/api/forms"
	"yatube/api/models"
	"yatube/api/utils/formaterror"
	httpctx "yatube/api/utils/httpctx"
	Logger "yatube/api/utils/log"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

const defaultSessionTTL = 14 * 24 * time.Hour

func (server *Server) sessionTTL() time.Duration {
	if server.Config.SessionTTL > 0 {
		return server.Config.SessionTTL
	}
	return defaultSessionTTL
}

// signIn issues the session cookie for user.
func (server *Server) signIn(c *gin.Context, user *models.User) error {
	ttl := server.sessionTTL()
	token, err := auth.CreateToken(server.Config.APISecret, user.ID, auth.PasswordStamp(server.Config.APISecret, user.Password), ttl)
	if err != nil {
		return errors.Wrap(err, "create session token")
	}
	auth.SetSession(c.Writer, token, ttl, server.Config.IsProduction())
	return nil
}

// safeNext only accepts local absolute paths as a post-login target.
func safeNext(next string) string {
	next = strings.TrimSpace(next)
	if next == "" || !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.Contains(next, `\`) {
		return "/"
	}
	u, err := url.Parse(next)
	if err != nil || u.Scheme != "" || u.Host != "" {
		return "/"
	}
	return next
}

func (server *Server) Signup(c *gin.Context) {
	db := server.DB.WithContext(c.Request.Context())
	form := &forms.SignupForm{}

	if c.Request.Method == http.MethodPost {
		if err := c.ShouldBind(form); err != nil {
			server.serverError(c, err)
			return
		}
		valid, err := form.Validate(db)
		if err != nil {
			server.serverError(c, err)
			return
		}
		if valid {
			user, err := form.User().SaveUser(db)
			if err == nil {
				if err := server.signIn(c, user); err != nil {
					server.serverError(c, err)
					return
				}
				c.Redirect(http.StatusFound, "/")
				return
			}
			// a concurrent signup may still hit the unique indexes
			Logger.Log.WithError(err).Warn("signup failed")
			for field, msg := range formaterror.FormatError(err.Error()) {
				form.Errors[field] = msg
			}
		}
	}
	server.render(c, http.StatusOK, "auth/signup.html", gin.H{"title": "Регистрация", "form": form})
}

func (server *Server) Login(c *gin.Context) {
	db := server.DB.WithContext(c.Request.Context())
	form := &forms.LoginForm{Next: c.Query("next")}

	if c.Request.Method == http.MethodPost {
		if err := c.ShouldBind(form); err != nil {
			server.serverError(c, err)
			return
		}
		if form.Validate() {
			user, err := form.Authenticate(db)
			if err != nil {
				server.serverError(c, err)
				return
			}
			if user != nil {
				if err := server.signIn(c, user); err != nil {
					server.serverError(c, err)
					return
				}
				c.Redirect(http.StatusFound, safeNext(form.Next))
				return
			}
		}
	}
	server.render(c, http.StatusOK, "auth/login.html", gin.H{
		"title": "Войти",
		"form":  form,
		"next":  form.Next,
	})
}

func (server *Server) Logout(c *gin.Context) {
	auth.ClearSession(c.Writer, server.Config.IsProduction())
	httpctx.ClearUser(c)
	server.render(c, http.StatusOK, "auth/logged_out.html", gin.H{"title": "Вы вышли"})
}

// PasswordChange ends every other session of the user and keeps the current
// one by issuing a fresh cookie.
func (server *Server) PasswordChange(c *gin.Context, viewer *models.User) {
	db := server.DB.WithContext(c.Request.Context())
	form := &forms.PasswordChangeForm{}

	if c.Request.Method == http.MethodPost {
		if err := c.ShouldBind(form); err != nil {
			server.serverError(c, err)
			return
		}
		if form.Validate(viewer) {
			if err := viewer.UpdatePassword(db, form.Password1); err != nil {
				server.serverError(c, err)
				return
			}
			if err := server.signIn(c, viewer); err != nil {
				server.serverError(c, err)
				return
			}
			c.Redirect(http.StatusFound, "/auth/password_change/done/")
			return
		}
	}
	server.render(c, http.StatusOK, "auth/password_change_form.html", gin.H{"title": "Изменить пароль", "form": form})
}

func (server *Server) PasswordChangeDone(c *gin.Context) {
	server.render(c, http.StatusOK, "auth/password_change_done.html", gin.H{"title": "Пароль изменён"})
}

// PasswordReset mails a one time link when the address belongs to a user.
// The answer is the same either way.
func (server *Server) PasswordReset(c *gin.Context) {
	ctx := c.Request.Context()
	db := server.DB.WithContext(ctx)
	form := &forms.PasswordResetForm{}

	if c.Request.Method == http.MethodPost {
		if err := c.ShouldBind(form); err != nil {
			server.serverError(c, err)
			return
		}
		if form.Validate() {
			user, err := models.FindUserByEmail(db, form.Email)
			switch {
			case err == nil:
				if err := server.sendResetLink(c, user); err != nil {
					server.serverError(c, err)
					return
				}
			case !errors.Is(err, gorm.ErrRecordNotFound):
				server.serverError(c, err)
				return
			}
			c.Redirect(http.StatusFound, "/auth/password_reset/done/")
			return
		}
	}
	server.render(c, http.StatusOK, "auth/password_reset_form.html", gin.H{"title": "Сброс пароля", "form": form})
}

func (server *Server) sendResetLink(c *gin.Context, user *models.User) error {
	db := server.DB.WithContext(c.Request.Context())
	reset := &models.ResetPassword{Email: user.Email}
	reset.Prepare()
	if _, err := reset.DeleteDetails(db); err != nil {
		return err
	}
	if _, err := reset.SaveDetails(db); err != nil {
		return err
	}
	link := server.Config.SiteURL + "/auth/reset/" + reset.Token + "/"
	if err := server.Mailer.SendResetPassword(c.Request.Context(), user.Email, user.FullName(), link); err != nil {
		// the token stays valid; the user can ask again
		Logger.Log.WithError(err).WithField("email", user.Email).Error("could not send reset email")
	}
	return nil
}

func (server *Server) PasswordResetDone(c *gin.Context) {
	server.render(c, http.StatusOK, "auth/password_reset_done.html", gin.H{"title": "Письмо отправлено"})
}

func (server *Server) PasswordResetConfirm(c *gin.Context) {
	db := server.DB.WithContext(c.Request.Context())
	token := c.Param("token")
	form := &forms.SetPasswordForm{}
	data := gin.H{"title": "Новый пароль", "form": form, "token": token}

	reset, err := models.FindResetPassword(db, token, time.Now())
	if errors.Is(err, models.ErrInvalidToken) {
		data["valid_link"] = false
		server.render(c, http.StatusOK, "auth/password_reset_confirm.html", data)
		return
	}
	if err != nil {
		server.serverError(c, err)
		return
	}
	data["valid_link"] = true

	if c.Request.Method == http.MethodPost {
		if err := c.ShouldBind(form); err != nil {
			server.serverError(c, err)
			return
		}
		if form.Validate() {
			user, err := models.FindUserByEmail(db, reset.Email)
			if err != nil {
				server.lookupFailed(c, err)
				return
			}
			if err := user.UpdatePassword(db, form.Password1); err != nil {
				server.serverError(c, err)
				return
			}
			if _, err := reset.DeleteDetails(db); err != nil {
				server.serverError(c, err)
				return
			}
			c.Redirect(http.StatusFound, "/auth/reset/done/")
			return
		}
	}
	server.render(c, http.StatusOK, "auth/password_reset_confirm.html", data)
}

func (server *Server) PasswordResetComplete(c *gin.Context) {
	server.render(c, http.StatusOK, "auth/password_reset_complete.html", gin.H{"title": "Пароль изменён"})
}

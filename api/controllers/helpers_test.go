package controllers_test

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"yatube/api/auth"
	"yatube/api/config"
	"yatube/api/controllers"
	"yatube/api/media"
	"yatube/api/models"
	"yatube/api/testutil"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

const testSecret = "controllers-test-secret"

func newTestServer(t *testing.T, cfg *config.Config) *controllers.Server {
	t.Helper()
	gin.SetMode(gin.TestMode)
	if cfg == nil {
		cfg = &config.Config{}
	}
	cfg.APISecret = testSecret
	if cfg.PostsPerPage == 0 {
		cfg.PostsPerPage = 10
	}
	if cfg.SiteURL == "" {
		cfg.SiteURL = "http://testserver"
	}
	store, err := media.NewLocalStore(t.TempDir(), "/media/")
	require.NoError(t, err)

	server := &controllers.Server{
		DB:     testutil.NewTestDB(t),
		Config: cfg,
		Media:  store,
	}
	require.NoError(t, server.Setup())
	return server
}

func serve(server *controllers.Server, req *http.Request, user *models.User) *httptest.ResponseRecorder {
	if user != nil {
		token, err := auth.CreateToken(testSecret, user.ID, auth.PasswordStamp(testSecret, user.Password), time.Hour)
		if err != nil {
			panic(err)
		}
		req.AddCookie(&http.Cookie{Name: auth.SessionCookie, Value: token})
	}
	w := httptest.NewRecorder()
	server.Router.ServeHTTP(w, req)
	return w
}

func get(server *controllers.Server, target string, user *models.User) *httptest.ResponseRecorder {
	return serve(server, httptest.NewRequest(http.MethodGet, target, nil), user)
}

func postForm(server *controllers.Server, target string, values url.Values, user *models.User) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return serve(server, req, user)
}

// postMultipart submits fields plus an optional image file named filename.
func postMultipart(t *testing.T, server *controllers.Server, target string, fields map[string]string, filename string, data []byte, user *models.User) *httptest.ResponseRecorder {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	if filename != "" {
		fw, err := mw.CreateFormFile("image", filename)
		require.NoError(t, err)
		_, err = fw.Write(data)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, target, &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return serve(server, req, user)
}

func countRows(t *testing.T, server *controllers.Server, model interface{}) int64 {
	t.Helper()
	var n int64
	require.NoError(t, server.DB.Model(model).Count(&n).Error)
	return n
}

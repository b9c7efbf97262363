package controllers_test

import (
	"net/http"
	"net/url"
	"testing"

	"yatube/api/models"
	"yatube/api/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFollowAndUnfollow(t *testing.T) {
	server := newTestServer(t, nil)
	leo := testutil.CreateUser(t, server.DB, "leo")
	mia := testutil.CreateUser(t, server.DB, "mia")

	for i := 0; i < 2; i++ {
		w := get(server, "/leo/follow/", mia)
		require.Equal(t, http.StatusFound, w.Code)
		assert.Equal(t, "/leo/", w.Header().Get("Location"))
	}
	assert.Equal(t, int64(1), countRows(t, server, &models.Follow{}))

	following, err := models.IsFollowing(server.DB, mia.ID, leo.ID)
	require.NoError(t, err)
	assert.True(t, following)
	assert.Contains(t, get(server, "/leo/", mia).Body.String(), "/leo/unfollow/")

	w := postForm(server, "/leo/unfollow/", url.Values{}, mia)
	require.Equal(t, http.StatusFound, w.Code)
	assert.Zero(t, countRows(t, server, &models.Follow{}))

	w = get(server, "/leo/unfollow/", mia)
	require.Equal(t, http.StatusFound, w.Code)
	assert.Zero(t, countRows(t, server, &models.Follow{}))
}

func TestFollowSelfIsNoop(t *testing.T) {
	server := newTestServer(t, nil)
	leo := testutil.CreateUser(t, server.DB, "leo")

	w := get(server, "/leo/follow/", leo)
	require.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/leo/", w.Header().Get("Location"))
	assert.Zero(t, countRows(t, server, &models.Follow{}))

	w = get(server, "/leo/unfollow/", leo)
	require.Equal(t, http.StatusFound, w.Code)
}

func TestFollowUnknownAuthor(t *testing.T) {
	server := newTestServer(t, nil)
	mia := testutil.CreateUser(t, server.DB, "mia")

	assert.Equal(t, http.StatusNotFound, get(server, "/ghost/follow/", mia).Code)
	assert.Equal(t, http.StatusNotFound, get(server, "/ghost/unfollow/", mia).Code)
}

func TestFollowFeed(t *testing.T) {
	server := newTestServer(t, nil)
	leo := testutil.CreateUser(t, server.DB, "leo")
	mia := testutil.CreateUser(t, server.DB, "mia")
	zoe := testutil.CreateUser(t, server.DB, "zoe")
	testutil.CreatePost(t, server.DB, leo, nil, "новость от Льва")

	require.Equal(t, http.StatusFound, get(server, "/leo/follow/", mia).Code)

	w := get(server, "/follow/", mia)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "новость от Льва")

	w = get(server, "/follow/", zoe)
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotContains(t, w.Body.String(), "новость от Льва")

	w = get(server, "/follow/", nil)
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/auth/login/?next=/follow/", w.Header().Get("Location"))
}

package models_test

import (
	"testing"

	"yatube/api/models"
	"yatube/api/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserValidate(t *testing.T) {
	u := models.User{Username: " Leo ", Email: "LEO@Example.com ", Password: "pw"}
	u.Prepare()
	assert.Equal(t, "leo", u.Username)
	assert.Equal(t, "leo@example.com", u.Email)
	assert.Empty(t, u.Validate(""))

	for _, name := range []string{"new", "follow", "admin"} {
		u := models.User{Username: name, Email: "x@example.com", Password: "pw"}
		assert.Contains(t, u.Validate(""), "username", name)
	}

	bad := models.User{Username: "has space", Email: "not-an-email"}
	msgs := bad.Validate("")
	assert.Contains(t, msgs, "username")
	assert.Contains(t, msgs, "email")
	assert.Contains(t, msgs, "password")

	login := models.User{}
	assert.Len(t, login.Validate("login"), 2)
}

func TestSaveUserHashesPassword(t *testing.T) {
	db := testutil.NewTestDB(t)
	user := testutil.CreateUser(t, db, "leo")

	assert.NotEqual(t, testutil.DefaultPassword, user.Password)
	assert.NoError(t, user.CheckPassword(testutil.DefaultPassword))

	require.NoError(t, user.UpdatePassword(db, "another-pass"))
	stored, err := models.FindUserByUsername(db, "LEO")
	require.NoError(t, err)
	assert.NoError(t, stored.CheckPassword("another-pass"))
	assert.Error(t, stored.CheckPassword(testutil.DefaultPassword))
}

func TestSaveUserDuplicateUsername(t *testing.T) {
	db := testutil.NewTestDB(t)
	testutil.CreateUser(t, db, "leo")

	dup := &models.User{Username: "leo", Email: "other@example.com", Password: "pw"}
	_, err := dup.SaveUser(db)
	assert.Error(t, err)
}

func TestDeleteAUserCascades(t *testing.T) {
	db := testutil.NewTestDB(t)
	leo := testutil.CreateUser(t, db, "leo")
	ann := testutil.CreateUser(t, db, "ann")

	leoPost := testutil.CreatePost(t, db, leo, nil, "leo writes")
	annPost := testutil.CreatePost(t, db, ann, nil, "ann writes")
	testutil.CreateComment(t, db, ann, leoPost, "on leo's post")
	testutil.CreateComment(t, db, leo, annPost, "leo on ann's post")
	_, err := models.FollowAuthor(db, leo.ID, ann.ID)
	require.NoError(t, err)
	_, err = models.FollowAuthor(db, ann.ID, leo.ID)
	require.NoError(t, err)

	n, err := models.DeleteAUser(db, leo.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	var posts, comments, follows int64
	db.Model(&models.Post{}).Count(&posts)
	db.Model(&models.Comment{}).Count(&comments)
	db.Model(&models.Follow{}).Count(&follows)
	assert.Equal(t, int64(1), posts)
	assert.Equal(t, int64(0), comments)
	assert.Equal(t, int64(0), follows)
}

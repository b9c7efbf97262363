package models_test

import (
	"errors"
	"testing"
	"time"

	"yatube/api/models"
	"yatube/api/testutil"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func postIDs(posts []models.Post) []uint {
	ids := make([]uint, 0, len(posts))
	for _, p := range posts {
		ids = append(ids, p.ID)
	}
	return ids
}

func TestPostString(t *testing.T) {
	p := models.Post{Text: "Тестовый текст поста длиннее пятнадцати"}
	assert.Equal(t, "Тестовый текст ", p.String())

	short := models.Post{Text: "коротко"}
	assert.Equal(t, "коротко", short.String())
}

func TestPostValidate(t *testing.T) {
	p := models.Post{Text: "   "}
	p.Prepare()
	assert.Contains(t, p.Validate(), "text")
}

func TestPubDateSurvivesUpdate(t *testing.T) {
	db := testutil.NewTestDB(t)
	leo := testutil.CreateUser(t, db, "leo")
	group := testutil.CreateGroup(t, db, "Cats", "cats")
	post := testutil.CreatePost(t, db, leo, group, "first")
	require.False(t, post.PubDate.IsZero())

	before, err := models.FindPostByID(db, post.ID)
	require.NoError(t, err)

	post.Text = "edited"
	post.GroupID = nil
	post.PubDate = time.Now().Add(time.Hour)
	_, err = post.UpdateAPost(db)
	require.NoError(t, err)

	after, err := models.FindPostByID(db, post.ID)
	require.NoError(t, err)
	assert.Equal(t, "edited", after.Text)
	assert.Nil(t, after.GroupID)
	assert.Nil(t, after.Group)
	assert.True(t, before.PubDate.Equal(after.PubDate))
	assert.Equal(t, "leo", after.Author.Username)
}

func TestFindAuthorPost(t *testing.T) {
	db := testutil.NewTestDB(t)
	leo := testutil.CreateUser(t, db, "leo")
	testutil.CreateUser(t, db, "ann")
	post := testutil.CreatePost(t, db, leo, nil, "hello")

	found, err := models.FindAuthorPost(db, "leo", post.ID)
	require.NoError(t, err)
	assert.Equal(t, post.ID, found.ID)

	_, err = models.FindAuthorPost(db, "ann", post.ID)
	assert.True(t, errors.Is(err, gorm.ErrRecordNotFound))
}

func TestFindPostsScopes(t *testing.T) {
	db := testutil.NewTestDB(t)
	leo := testutil.CreateUser(t, db, "leo")
	ann := testutil.CreateUser(t, db, "ann")
	cats := testutil.CreateGroup(t, db, "Cats", "cats")

	p1 := testutil.CreatePost(t, db, leo, cats, "one")
	p2 := testutil.CreatePost(t, db, ann, nil, "two")
	p3 := testutil.CreatePost(t, db, ann, cats, "three")

	all, err := models.FindPosts(db, 10, 0)
	require.NoError(t, err)
	assert.Empty(t, cmp.Diff([]uint{p3.ID, p2.ID, p1.ID}, postIDs(all)))

	inGroup, err := models.FindPosts(db, 10, 0, models.InGroup(cats.ID))
	require.NoError(t, err)
	assert.Empty(t, cmp.Diff([]uint{p3.ID, p1.ID}, postIDs(inGroup)))
	require.NotNil(t, inGroup[0].Group)
	assert.Equal(t, "cats", inGroup[0].Group.Slug)

	_, err = models.FollowAuthor(db, leo.ID, ann.ID)
	require.NoError(t, err)
	feed, err := models.FindPosts(db, 10, 0, models.FollowedBy(leo.ID))
	require.NoError(t, err)
	assert.Empty(t, cmp.Diff([]uint{p3.ID, p2.ID}, postIDs(feed)))

	count, err := models.CountPosts(db, models.ByAuthor(ann.ID))
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)

	window, err := models.FindPosts(db, 1, 1)
	require.NoError(t, err)
	assert.Empty(t, cmp.Diff([]uint{p2.ID}, postIDs(window)))
}

func TestDeleteAPostRemovesComments(t *testing.T) {
	db := testutil.NewTestDB(t)
	leo := testutil.CreateUser(t, db, "leo")
	post := testutil.CreatePost(t, db, leo, nil, "bye")
	testutil.CreateComment(t, db, leo, post, "c1")
	testutil.CreateComment(t, db, leo, post, "c2")

	n, err := models.DeleteAPost(db, post.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	comments, err := models.FindCommentsByPost(db, post.ID)
	require.NoError(t, err)
	assert.Empty(t, comments)
}

func TestDeleteAGroupKeepsPosts(t *testing.T) {
	db := testutil.NewTestDB(t)
	leo := testutil.CreateUser(t, db, "leo")
	cats := testutil.CreateGroup(t, db, "Cats", "cats")
	post := testutil.CreatePost(t, db, leo, cats, "meow")

	n, err := models.DeleteAGroup(db, cats.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	after, err := models.FindPostByID(db, post.ID)
	require.NoError(t, err)
	assert.Nil(t, after.GroupID)
}

func TestGroupValidateAndOrder(t *testing.T) {
	bad := models.Group{Title: "", Slug: "no spaces"}
	msgs := bad.Validate()
	assert.Contains(t, msgs, "title")
	assert.Contains(t, msgs, "slug")

	db := testutil.NewTestDB(t)
	testutil.CreateGroup(t, db, "Zebras", "zebras")
	testutil.CreateGroup(t, db, "Antelopes", "antelopes")

	groups, err := models.FindAllGroups(db, "", "")
	require.NoError(t, err)
	require.Len(t, groups, 2)
	assert.Equal(t, "Antelopes", groups[0].Title)

	found, err := models.FindAllGroups(db, "zebras desc", "")
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "zebras", found[0].Slug)
}

package feed

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"yatube/api/models"
	"yatube/api/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestHomePagination(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewTestDB(t)
	leo := testutil.CreateUser(t, db, "leo")
	for i := 0; i < 13; i++ {
		testutil.CreatePost(t, db, leo, nil, fmt.Sprintf("post %d", i))
	}
	svc := NewService(db, 10)

	first, err := svc.Home(ctx, "")
	require.NoError(t, err)
	assert.Len(t, first.Posts, 10)
	assert.Equal(t, 2, first.NumPages)
	assert.Equal(t, "post 12", first.Posts[0].Text)
	assert.Equal(t, "leo", first.Posts[0].Author.Username)

	beyond, err := svc.Home(ctx, "999")
	require.NoError(t, err)
	assert.Equal(t, 2, beyond.Number)
	assert.Len(t, beyond.Posts, 3)
	assert.Equal(t, "post 0", beyond.Posts[2].Text)

	bogus, err := svc.Home(ctx, "abc")
	require.NoError(t, err)
	assert.Equal(t, 1, bogus.Number)
}

func TestHomeEmpty(t *testing.T) {
	svc := NewService(testutil.NewTestDB(t), 10)
	page, err := svc.Home(context.Background(), "3")
	require.NoError(t, err)
	assert.Equal(t, 1, page.Number)
	assert.Equal(t, 1, page.NumPages)
	assert.Empty(t, page.Posts)
}

func TestGroupFeed(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewTestDB(t)
	leo := testutil.CreateUser(t, db, "leo")
	cats := testutil.CreateGroup(t, db, "Cats", "cats")
	testutil.CreateGroup(t, db, "Dogs", "dogs")
	inCats := testutil.CreatePost(t, db, leo, cats, "meow")
	testutil.CreatePost(t, db, leo, nil, "no group")
	svc := NewService(db, 10)

	feed, err := svc.Group(ctx, "cats", "")
	require.NoError(t, err)
	assert.Equal(t, "Cats", feed.Group.Title)
	require.Len(t, feed.Posts, 1)
	assert.Equal(t, inCats.ID, feed.Posts[0].ID)

	dogs, err := svc.Group(ctx, "dogs", "")
	require.NoError(t, err)
	assert.Empty(t, dogs.Posts)

	_, err = svc.Group(ctx, "missing", "")
	assert.True(t, errors.Is(err, gorm.ErrRecordNotFound))
}

func TestProfileFeed(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewTestDB(t)
	leo := testutil.CreateUser(t, db, "leo")
	ann := testutil.CreateUser(t, db, "ann")
	testutil.CreatePost(t, db, leo, nil, "mine")
	testutil.CreatePost(t, db, ann, nil, "hers")
	_, err := models.FollowAuthor(db, ann.ID, leo.ID)
	require.NoError(t, err)
	svc := NewService(db, 10)

	anon, err := svc.Profile(ctx, "leo", nil, "")
	require.NoError(t, err)
	assert.Len(t, anon.Posts, 1)
	assert.True(t, anon.CanFollow)
	assert.False(t, anon.Following)
	assert.Equal(t, int64(1), anon.FollowersCount)

	own, err := svc.Profile(ctx, "leo", leo, "")
	require.NoError(t, err)
	assert.False(t, own.CanFollow)

	byAnn, err := svc.Profile(ctx, "leo", ann, "")
	require.NoError(t, err)
	assert.True(t, byAnn.CanFollow)
	assert.True(t, byAnn.Following)

	_, err = svc.Profile(ctx, "nobody", nil, "")
	assert.True(t, errors.Is(err, gorm.ErrRecordNotFound))
}

func TestFollowFeedShowsOnlyFollowedAuthors(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewTestDB(t)
	leo := testutil.CreateUser(t, db, "leo")
	ann := testutil.CreateUser(t, db, "ann")
	bob := testutil.CreateUser(t, db, "bob")
	_, err := models.FollowAuthor(db, leo.ID, ann.ID)
	require.NoError(t, err)
	post := testutil.CreatePost(t, db, ann, nil, "from ann")
	svc := NewService(db, 10)

	forLeo, err := svc.Follow(ctx, leo, "")
	require.NoError(t, err)
	require.Len(t, forLeo.Posts, 1)
	assert.Equal(t, post.ID, forLeo.Posts[0].ID)

	forBob, err := svc.Follow(ctx, bob, "")
	require.NoError(t, err)
	assert.Empty(t, forBob.Posts)
}

func TestPostDetail(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewTestDB(t)
	leo := testutil.CreateUser(t, db, "leo")
	ann := testutil.CreateUser(t, db, "ann")
	post := testutil.CreatePost(t, db, leo, nil, "detail")
	testutil.CreateComment(t, db, ann, post, "older")
	newer := testutil.CreateComment(t, db, leo, post, "newer")
	svc := NewService(db, 10)

	detail, err := svc.Post(ctx, "leo", post.ID)
	require.NoError(t, err)
	assert.Equal(t, "leo", detail.Author.Username)
	require.Len(t, detail.Comments, 2)
	assert.Equal(t, newer.ID, detail.Comments[0].ID)
	assert.Equal(t, int64(1), detail.PostsCount)

	_, err = svc.Post(ctx, "ann", post.ID)
	assert.True(t, errors.Is(err, gorm.ErrRecordNotFound))
}

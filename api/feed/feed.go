// Package feed answers the paginated post listings and the post detail page.
package feed

import (
	"context"

	"yatube/api/models"
	"yatube/api/pagination"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

type Service struct {
	db      *gorm.DB
	perPage int
}

func NewService(db *gorm.DB, perPage int) *Service {
	if perPage < 1 {
		perPage = 10
	}
	return &Service{db: db, perPage: perPage}
}

func (s *Service) PerPage() int {
	return s.perPage
}

// PostPage is one page of a feed.
type PostPage struct {
	pagination.Page
	Posts []models.Post
}

type GroupFeed struct {
	Group *models.Group
	PostPage
}

type ProfileFeed struct {
	Author *models.User
	PostPage
	Following      bool
	CanFollow      bool
	FollowersCount int64
	FollowingCount int64
}

type PostDetail struct {
	Post        *models.Post
	Author      *models.User
	Comments    []models.Comment
	PostsCount  int64
	Followers   int64
	FollowingTo int64
}

func (s *Service) page(ctx context.Context, rawPage string, scopes ...func(*gorm.DB) *gorm.DB) (PostPage, error) {
	db := s.db.WithContext(ctx)
	count, err := models.CountPosts(db, scopes...)
	if err != nil {
		return PostPage{}, errors.Wrap(err, "count posts")
	}
	pg := pagination.New(count, s.perPage).Get(rawPage)
	posts := []models.Post{}
	if count > 0 {
		posts, err = models.FindPosts(db, pg.Limit(), pg.Offset(), scopes...)
		if err != nil {
			return PostPage{}, errors.Wrap(err, "find posts")
		}
	}
	return PostPage{Page: pg, Posts: posts}, nil
}

// Home lists every post, newest first.
func (s *Service) Home(ctx context.Context, rawPage string) (PostPage, error) {
	return s.page(ctx, rawPage)
}

// Group lists the posts of the group with slug. An unknown slug yields
// gorm.ErrRecordNotFound.
func (s *Service) Group(ctx context.Context, slug, rawPage string) (*GroupFeed, error) {
	group, err := models.FindGroupBySlug(s.db.WithContext(ctx), slug)
	if err != nil {
		return nil, err
	}
	pp, err := s.page(ctx, rawPage, models.InGroup(group.ID))
	if err != nil {
		return nil, err
	}
	return &GroupFeed{Group: group, PostPage: pp}, nil
}

// Profile lists the posts of username. viewer may be nil.
func (s *Service) Profile(ctx context.Context, username string, viewer *models.User, rawPage string) (*ProfileFeed, error) {
	db := s.db.WithContext(ctx)
	author, err := models.FindUserByUsername(db, username)
	if err != nil {
		return nil, err
	}
	pp, err := s.page(ctx, rawPage, models.ByAuthor(author.ID))
	if err != nil {
		return nil, err
	}
	feed := &ProfileFeed{
		Author:    author,
		PostPage:  pp,
		CanFollow: viewer == nil || viewer.ID != author.ID,
	}
	if viewer != nil && viewer.ID != author.ID {
		if feed.Following, err = models.IsFollowing(db, viewer.ID, author.ID); err != nil {
			return nil, err
		}
	}
	if feed.FollowersCount, err = models.CountFollowers(db, author.ID); err != nil {
		return nil, err
	}
	if feed.FollowingCount, err = models.CountFollowing(db, author.ID); err != nil {
		return nil, err
	}
	return feed, nil
}

// Follow lists posts by the authors viewer follows.
func (s *Service) Follow(ctx context.Context, viewer *models.User, rawPage string) (PostPage, error) {
	return s.page(ctx, rawPage, models.FollowedBy(viewer.ID))
}

// Post resolves a post by id and author username, with its comments newest
// first. A post of another author is reported as not found.
func (s *Service) Post(ctx context.Context, username string, postID uint) (*PostDetail, error) {
	db := s.db.WithContext(ctx)
	post, err := models.FindAuthorPost(db, username, postID)
	if err != nil {
		return nil, err
	}
	comments, err := models.FindCommentsByPost(db, post.ID)
	if err != nil {
		return nil, err
	}
	detail := &PostDetail{Post: post, Author: &post.Author, Comments: comments}
	if detail.PostsCount, err = models.CountPosts(db, models.ByAuthor(post.AuthorID)); err != nil {
		return nil, err
	}
	if detail.Followers, err = models.CountFollowers(db, post.AuthorID); err != nil {
		return nil, err
	}
	if detail.FollowingTo, err = models.CountFollowing(db, post.AuthorID); err != nil {
		return nil, err
	}
	return detail, nil
}

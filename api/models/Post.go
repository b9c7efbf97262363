package models

import (
	"strings"
	"time"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

type Post struct {
	ID       uint      `gorm:"primary_key;autoIncrement" json:"id"`
	Text     string    `gorm:"type:text;not null" json:"text"`
	PubDate  time.Time `gorm:"column:pub_date;not null;index" json:"pub_date"`
	AuthorID uint      `gorm:"not null;index" json:"author_id"`
	Author   User      `gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE" json:"author"`
	GroupID  *uint     `gorm:"index" json:"group_id"`
	Group    *Group    `gorm:"foreignKey:GroupID;constraint:OnDelete:SET NULL" json:"group,omitempty"`
	Image    string    `gorm:"size:255;not null;default:''" json:"image"`
}

// pub_date is stamped once and never touched by updates.
func (p *Post) BeforeCreate(tx *gorm.DB) (err error) {
	if p.PubDate.IsZero() {
		p.PubDate = time.Now()
	}
	return nil
}

// String is the short label used in listings.
func (p *Post) String() string {
	return truncateRunes(p.Text, 15)
}

func (p *Post) Prepare() {
	p.Text = strings.TrimSpace(p.Text)
}

func (p *Post) Validate() map[string]string {
	var errorMessages = make(map[string]string)
	if p.Text == "" {
		errorMessages["text"] = requiredField
	}
	return errorMessages
}

func (p *Post) SavePost(db *gorm.DB) (*Post, error) {
	if err := db.Omit("Author", "Group").Create(p).Error; err != nil {
		return nil, err
	}
	return p, nil
}

// UpdateAPost writes the editable columns, including a cleared group or image.
func (p *Post) UpdateAPost(db *gorm.DB) (*Post, error) {
	err := db.Model(&Post{}).Where("id = ?", p.ID).
		Select("text", "group_id", "image").
		Updates(map[string]interface{}{
			"text":     p.Text,
			"group_id": p.GroupID,
			"image":    p.Image,
		}).Error
	if err != nil {
		return nil, err
	}
	return p, nil
}

func FindPostByID(db *gorm.DB, id uint) (*Post, error) {
	var post Post
	err := db.Scopes(WithPostRelations).Where("posts.id = ?", id).Take(&post).Error
	if err != nil {
		return nil, errors.Wrapf(err, "post %d", id)
	}
	return &post, nil
}

// FindAuthorPost resolves a post by id only when it belongs to username.
func FindAuthorPost(db *gorm.DB, username string, id uint) (*Post, error) {
	authors := db.Model(&User{}).Select("id").Where("username = ?", strings.ToLower(username))
	var post Post
	err := db.Scopes(WithPostRelations).
		Where("posts.id = ? AND posts.author_id IN (?)", id, authors).
		Take(&post).Error
	if err != nil {
		return nil, errors.Wrapf(err, "post %d of %q", id, username)
	}
	return &post, nil
}

// FindPosts returns one window of posts, newest first, narrowed by scopes.
func FindPosts(db *gorm.DB, limit, offset int, scopes ...func(*gorm.DB) *gorm.DB) ([]Post, error) {
	var posts []Post
	err := db.Model(&Post{}).
		Scopes(scopes...).
		Scopes(WithPostRelations, NewestPostsFirst).
		Limit(limit).Offset(offset).
		Find(&posts).Error
	if err != nil {
		return nil, err
	}
	return posts, nil
}

func CountPosts(db *gorm.DB, scopes ...func(*gorm.DB) *gorm.DB) (int64, error) {
	var count int64
	err := db.Model(&Post{}).Scopes(scopes...).Count(&count).Error
	return count, err
}

// DeleteAPost removes the post and its comments.
func DeleteAPost(db *gorm.DB, id uint) (int64, error) {
	var affected int64
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("post_id = ?", id).Delete(&Comment{}).Error; err != nil {
			return err
		}
		result := tx.Where("id = ?", id).Delete(&Post{})
		if result.Error != nil {
			return result.Error
		}
		affected = result.RowsAffected
		return nil
	})
	return affected, err
}

// FindAuthorImages lists the image keys of every post by authorID.
func FindAuthorImages(db *gorm.DB, authorID uint) ([]string, error) {
	var keys []string
	err := db.Model(&Post{}).Where("author_id = ? AND image <> ''", authorID).Pluck("image", &keys).Error
	return keys, err
}

func WithPostRelations(db *gorm.DB) *gorm.DB {
	return db.Preload("Author").Preload("Group")
}

func NewestPostsFirst(db *gorm.DB) *gorm.DB {
	return db.Order("posts.pub_date desc").Order("posts.id desc")
}

func InGroup(groupID uint) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("posts.group_id = ?", groupID)
	}
}

func ByAuthor(authorID uint) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("posts.author_id = ?", authorID)
	}
}

// FollowedBy narrows to posts whose author userID follows.
func FollowedBy(userID uint) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		authors := db.Session(&gorm.Session{NewDB: true}).
			Model(&Follow{}).Select("author_id").Where("user_id = ?", userID)
		return db.Where("posts.author_id IN (?)", authors)
	}
}

// TextContains is the admin search on post text.
func TextContains(q string) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if q = strings.TrimSpace(q); q == "" {
			return db
		}
		return db.Where("lower(posts.text) LIKE ?", "%"+strings.ToLower(q)+"%")
	}
}

func PublishedSince(since time.Time) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if since.IsZero() {
			return db
		}
		return db.Where("posts.pub_date >= ?", since)
	}
}

func truncateRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

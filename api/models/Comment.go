package models

import (
	"strings"
	"time"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

type Comment struct {
	ID       uint      `gorm:"primary_key;autoIncrement" json:"id"`
	PostID   uint      `gorm:"not null;index" json:"post_id"`
	Post     Post      `gorm:"foreignKey:PostID;constraint:OnDelete:CASCADE" json:"-"`
	AuthorID uint      `gorm:"not null;index" json:"author_id"`
	Author   User      `gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE" json:"author"`
	Text     string    `gorm:"type:text;not null" json:"text"`
	Created  time.Time `gorm:"column:created;not null;index" json:"created"`
}

func (c *Comment) BeforeCreate(tx *gorm.DB) (err error) {
	if c.Created.IsZero() {
		c.Created = time.Now()
	}
	return nil
}

func (c *Comment) String() string {
	return truncateRunes(c.Text, 15)
}

func (c *Comment) Prepare() {
	c.ID = 0
	c.Text = strings.TrimSpace(c.Text)
	c.Author = User{}
	c.Post = Post{}
}

func (c *Comment) Validate() map[string]string {
	var errorMessages = make(map[string]string)

	if c.Text == "" {
		errorMessages["text"] = requiredField
	}
	if c.AuthorID == 0 {
		errorMessages["author"] = requiredField
	}
	if c.PostID == 0 {
		errorMessages["post"] = requiredField
	}
	return errorMessages
}

func (c *Comment) SaveComment(db *gorm.DB) (*Comment, error) {
	if err := db.Omit("Author", "Post").Create(c).Error; err != nil {
		return nil, err
	}
	return c, nil
}

// FindCommentsByPost returns the comments of a post, newest first.
func FindCommentsByPost(db *gorm.DB, postID uint) ([]Comment, error) {
	comments := []Comment{}
	err := db.Preload("Author").Where("post_id = ?", postID).
		Order("created desc").Order("id desc").Find(&comments).Error
	if err != nil {
		return nil, err
	}
	return comments, nil
}

func FindCommentByID(db *gorm.DB, id uint) (*Comment, error) {
	var comment Comment
	if err := db.Preload("Author").Where("id = ?", id).Take(&comment).Error; err != nil {
		return nil, errors.Wrapf(err, "comment %d", id)
	}
	return &comment, nil
}

// FindAllComments lists comments for the admin, optionally filtered by text.
func FindAllComments(db *gorm.DB, q string, limit, offset int) ([]Comment, int64, error) {
	q = strings.TrimSpace(q)
	filtered := func() *gorm.DB {
		query := db.Model(&Comment{})
		if q != "" {
			query = query.Where("lower(text) LIKE ?", "%"+strings.ToLower(q)+"%")
		}
		return query
	}
	var count int64
	if err := filtered().Count(&count).Error; err != nil {
		return nil, 0, err
	}
	var comments []Comment
	err := filtered().Preload("Author").Preload("Post").
		Order("created desc").Order("id desc").
		Limit(limit).Offset(offset).Find(&comments).Error
	if err != nil {
		return nil, 0, err
	}
	return comments, count, nil
}

func (c *Comment) DeleteAComment(db *gorm.DB) (int64, error) {
	result := db.Where("id = ?", c.ID).Delete(&Comment{})
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

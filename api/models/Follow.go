package models

import (
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Follow is a subscription of UserID to the posts of AuthorID.
type Follow struct {
	ID        uint      `gorm:"primary_key;autoIncrement" json:"id"`
	UserID    uint      `gorm:"not null;index;uniqueIndex:idx_follows_unique,priority:1" json:"user_id"`
	User      User      `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"user"`
	AuthorID  uint      `gorm:"not null;index;uniqueIndex:idx_follows_unique,priority:2" json:"author_id"`
	Author    User      `gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE" json:"author"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

// FollowAuthor creates the edge unless it already exists. It reports whether
// a new row was inserted.
func FollowAuthor(db *gorm.DB, userID, authorID uint) (bool, error) {
	if userID == authorID {
		return false, ErrSelfFollow
	}
	follow := Follow{UserID: userID, AuthorID: authorID}
	result := db.Omit("User", "Author").
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&follow)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// UnfollowAuthor is idempotent; a missing edge deletes nothing.
func UnfollowAuthor(db *gorm.DB, userID, authorID uint) (int64, error) {
	if userID == authorID {
		return 0, ErrSelfFollow
	}
	result := db.Where("user_id = ? AND author_id = ?", userID, authorID).Delete(&Follow{})
	return result.RowsAffected, result.Error
}

func IsFollowing(db *gorm.DB, userID, authorID uint) (bool, error) {
	var count int64
	err := db.Model(&Follow{}).
		Where("user_id = ? AND author_id = ?", userID, authorID).
		Count(&count).Error
	return count > 0, err
}

func CountFollowers(db *gorm.DB, authorID uint) (int64, error) {
	var count int64
	err := db.Model(&Follow{}).Where("author_id = ?", authorID).Count(&count).Error
	return count, err
}

func CountFollowing(db *gorm.DB, userID uint) (int64, error) {
	var count int64
	err := db.Model(&Follow{}).Where("user_id = ?", userID).Count(&count).Error
	return count, err
}

// FindAllFollows lists edges for the admin. Zero ids disable that filter.
func FindAllFollows(db *gorm.DB, userID, authorID uint) ([]Follow, error) {
	var follows []Follow
	query := db.Preload("User").Preload("Author").Order("created_at desc").Order("id desc")
	if userID != 0 {
		query = query.Where("user_id = ?", userID)
	}
	if authorID != 0 {
		query = query.Where("author_id = ?", authorID)
	}
	if err := query.Limit(200).Find(&follows).Error; err != nil {
		return nil, err
	}
	return follows, nil
}

func DeleteFollow(db *gorm.DB, id uint) (int64, error) {
	result := db.Where("id = ?", id).Delete(&Follow{})
	return result.RowsAffected, result.Error
}

// RemoveUserFollowEdges drops every edge the user takes part in.
func RemoveUserFollowEdges(db *gorm.DB, userID uint) (int64, error) {
	result := db.Where("user_id = ? OR author_id = ?", userID, userID).Delete(&Follow{})
	return result.RowsAffected, result.Error
}

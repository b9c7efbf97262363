package models

import (
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/twinj/uuid"
	"gorm.io/gorm"
)

// ResetPasswordTTL bounds how long an emailed reset link stays usable.
const ResetPasswordTTL = 24 * time.Hour

type ResetPassword struct {
	ID        uint      `gorm:"primary_key;autoIncrement" json:"id"`
	Email     string    `gorm:"size:254;not null;index" json:"email"`
	Token     string    `gorm:"size:255;not null;uniqueIndex" json:"token"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (r *ResetPassword) Prepare() {
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
	if r.Token == "" {
		r.Token = uuid.NewV4().String()
	}
}

func (r *ResetPassword) SaveDetails(db *gorm.DB) (*ResetPassword, error) {
	if err := db.Create(r).Error; err != nil {
		return nil, err
	}
	return r, nil
}

// FindResetPassword returns the token row when it exists and has not expired.
func FindResetPassword(db *gorm.DB, token string, now time.Time) (*ResetPassword, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, ErrInvalidToken
	}
	var rp ResetPassword
	err := db.Where("token = ?", token).Take(&rp).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrInvalidToken
	}
	if err != nil {
		return nil, err
	}
	if now.Sub(rp.CreatedAt) > ResetPasswordTTL {
		return nil, ErrInvalidToken
	}
	return &rp, nil
}

// DeleteDetails consumes every outstanding token for the same email.
func (r *ResetPassword) DeleteDetails(db *gorm.DB) (int64, error) {
	result := db.Where("email = ?", r.Email).Delete(&ResetPassword{})
	return result.RowsAffected, result.Error
}

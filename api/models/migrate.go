package models

import (
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// AutoMigrate creates or updates every table of the application.
func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&User{},
		&Group{},
		&Post{},
		&Comment{},
		&Follow{},
		&ResetPassword{},
	); err != nil {
		return errors.Wrap(err, "auto migrate")
	}
	if db.Dialector.Name() == "postgres" {
		if err := ensureFollowConstraints(db); err != nil {
			return errors.Wrap(err, "follow constraints")
		}
	}
	return nil
}

func ensureFollowConstraints(db *gorm.DB) error {
	var count int64
	if err := db.Raw(
		"SELECT COUNT(1) FROM pg_constraint WHERE conname = ?",
		"follows_no_self_follow",
	).Scan(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		if err := db.Exec(
			"ALTER TABLE follows ADD CONSTRAINT follows_no_self_follow CHECK (user_id <> author_id)",
		).Error; err != nil {
			return err
		}
	}
	return nil
}

package models

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// Group is a community posts can be published into.
type Group struct {
	ID          uint   `gorm:"primary_key;autoIncrement" json:"id"`
	Title       string `gorm:"size:200;not null" json:"title"`
	Description string `gorm:"type:text;not null;default:''" json:"description"`
	Slug        string `gorm:"size:50;not null;uniqueIndex" json:"slug"`
}

var slugPattern = regexp.MustCompile(`^[-a-zA-Z0-9_]+$`)

func (g *Group) String() string {
	return g.Title
}

func (g *Group) Prepare() {
	g.Title = strings.TrimSpace(g.Title)
	g.Description = strings.TrimSpace(g.Description)
	g.Slug = strings.TrimSpace(g.Slug)
}

func (g *Group) Validate() map[string]string {
	var errorMessages = make(map[string]string)

	switch {
	case g.Title == "":
		errorMessages["title"] = requiredField
	case utf8.RuneCountInString(g.Title) > 200:
		errorMessages["title"] = "Убедитесь, что это значение содержит не более 200 символов."
	}
	switch {
	case g.Slug == "":
		errorMessages["slug"] = requiredField
	case len(g.Slug) > 50 || !slugPattern.MatchString(g.Slug):
		errorMessages["slug"] = "Значение должно состоять только из латинских букв, цифр, знаков подчеркивания или дефиса."
	}
	return errorMessages
}

func (g *Group) SaveGroup(db *gorm.DB) (*Group, error) {
	if err := db.Create(g).Error; err != nil {
		return nil, err
	}
	return g, nil
}

func (g *Group) UpdateAGroup(db *gorm.DB) (*Group, error) {
	err := db.Model(&Group{}).Where("id = ?", g.ID).Updates(map[string]interface{}{
		"title":       g.Title,
		"slug":        g.Slug,
		"description": g.Description,
	}).Error
	if err != nil {
		return nil, err
	}
	return g, nil
}

func FindGroupBySlug(db *gorm.DB, slug string) (*Group, error) {
	var group Group
	if err := db.Where("slug = ?", slug).Take(&group).Error; err != nil {
		return nil, errors.Wrapf(err, "group %q", slug)
	}
	return &group, nil
}

func FindGroupByID(db *gorm.DB, id uint) (*Group, error) {
	var group Group
	if err := db.Where("id = ?", id).Take(&group).Error; err != nil {
		return nil, errors.Wrapf(err, "group %d", id)
	}
	return &group, nil
}

// FindAllGroups returns groups ordered by title. A non-empty q filters on the
// description and a non-empty title narrows to an exact title.
func FindAllGroups(db *gorm.DB, q, title string) ([]Group, error) {
	var groups []Group
	query := db.Order("title asc").Order("id asc")
	if q = strings.TrimSpace(q); q != "" {
		query = query.Where("lower(description) LIKE ?", "%"+strings.ToLower(q)+"%")
	}
	if title != "" {
		query = query.Where("title = ?", title)
	}
	if err := query.Find(&groups).Error; err != nil {
		return nil, err
	}
	return groups, nil
}

// DeleteAGroup detaches the group's posts before removing the group.
func DeleteAGroup(db *gorm.DB, id uint) (int64, error) {
	var affected int64
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&Post{}).Where("group_id = ?", id).Update("group_id", nil).Error; err != nil {
			return err
		}
		result := tx.Where("id = ?", id).Delete(&Group{})
		if result.Error != nil {
			return result.Error
		}
		affected = result.RowsAffected
		return nil
	})
	return affected, err
}

package forms

import (
	"yatube/api/models"

	"github.com/jinzhu/copier"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// GroupForm is the admin form for communities.
type GroupForm struct {
	Title       string `form:"title"`
	Slug        string `form:"slug"`
	Description string `form:"description"`

	// ExcludeID is the group being edited, whose own slug is not a clash.
	ExcludeID uint   `form:"-"`
	Errors    Errors `form:"-"`
}

func (f *GroupForm) Validate(db *gorm.DB) (bool, error) {
	f.Errors = Errors{}
	group := f.Group()
	merge(f.Errors, group.Validate())
	if !f.Errors.Has("slug") {
		existing, err := models.FindGroupBySlug(db, group.Slug)
		switch {
		case err == nil && existing.ID != f.ExcludeID:
			f.Errors["slug"] = "Сообщество с таким Адрес уже существует."
		case err != nil && !errors.Is(err, gorm.ErrRecordNotFound):
			return false, err
		}
	}
	return !f.Errors.Any(), nil
}

func (f *GroupForm) Group() *models.Group {
	group := &models.Group{}
	_ = copier.Copy(group, f)
	group.Prepare()
	return group
}

package forms

import (
	"mime/multipart"
	"strconv"
	"strings"

	"yatube/api/media"
	"yatube/api/models"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// PostForm backs both the create and the edit page.
type PostForm struct {
	Text       string `form:"text"`
	Group      string `form:"group"`
	ClearImage string `form:"clear_image"`

	Image *multipart.FileHeader `form:"-"`

	Errors  Errors `form:"-"`
	groupID *uint
	upload  *media.Upload
}

// NewPostForm prefills the form from an existing post.
func NewPostForm(post *models.Post) *PostForm {
	form := &PostForm{Errors: Errors{}}
	if post == nil {
		return form
	}
	form.Text = post.Text
	if post.GroupID != nil {
		form.Group = strconv.FormatUint(uint64(*post.GroupID), 10)
	}
	return form
}

func (f *PostForm) SelectedGroup(id uint) bool {
	return f.Group == strconv.FormatUint(uint64(id), 10)
}

// Validate checks the text, resolves the group and decodes the image. The
// returned error is only set for storage failures.
func (f *PostForm) Validate(db *gorm.DB) (bool, error) {
	f.Errors = Errors{}

	post := models.Post{Text: f.Text}
	post.Prepare()
	f.Text = post.Text
	merge(f.Errors, post.Validate())

	f.groupID = nil
	if raw := strings.TrimSpace(f.Group); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			f.Errors["group"] = invalidChoice
		} else if _, err := models.FindGroupByID(db, uint(id)); err != nil {
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return false, err
			}
			f.Errors["group"] = invalidChoice
		} else {
			gid := uint(id)
			f.groupID = &gid
		}
	}

	f.upload = nil
	if f.Image != nil && f.Image.Size > 0 {
		up, err := processFile(f.Image)
		switch {
		case errors.Is(err, media.ErrTooLarge):
			f.Errors["image"] = "Размер изображения не должен превышать 5 МБ."
		case err != nil:
			f.Errors["image"] = "Загрузите правильное изображение. Файл, который вы загрузили, поврежден или не является изображением."
		default:
			f.upload = up
		}
	}

	return !f.Errors.Any(), nil
}

func processFile(fh *multipart.FileHeader) (*media.Upload, error) {
	file, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return media.Process(file, fh.Filename)
}

// Upload is the decoded image of a valid form, if one was submitted.
func (f *PostForm) Upload() *media.Upload {
	return f.upload
}

// ApplyTo copies the validated values onto post and returns the image key
// that is no longer referenced, if any.
func (f *PostForm) ApplyTo(post *models.Post) (replacedImage string) {
	post.Text = f.Text
	post.GroupID = f.groupID
	post.Group = nil

	switch {
	case f.upload != nil:
		replacedImage = post.Image
		post.Image = f.upload.Key
	case f.ClearImage != "":
		replacedImage = post.Image
		post.Image = ""
	}
	return replacedImage
}

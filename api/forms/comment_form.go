package forms

import "yatube/api/models"

type CommentForm struct {
	Text string `form:"text"`

	Errors Errors `form:"-"`
}

func (f *CommentForm) Validate() bool {
	f.Errors = Errors{}
	comment := models.Comment{Text: f.Text}
	comment.Prepare()
	f.Text = comment.Text
	if comment.Text == "" {
		f.Errors["text"] = requiredField
	}
	return !f.Errors.Any()
}

func (f *CommentForm) Comment(postID, authorID uint) *models.Comment {
	return &models.Comment{PostID: postID, AuthorID: authorID, Text: f.Text}
}

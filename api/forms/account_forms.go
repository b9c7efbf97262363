package forms

import (
	"strings"

	"yatube/api/models"

	"github.com/badoux/checkmail"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

type SignupForm struct {
	FirstName string `form:"first_name"`
	LastName  string `form:"last_name"`
	Username  string `form:"username"`
	Email     string `form:"email"`
	Password1 string `form:"password1"`
	Password2 string `form:"password2"`

	Errors Errors `form:"-"`
}

func (f *SignupForm) User() *models.User {
	user := &models.User{
		FirstName: f.FirstName,
		LastName:  f.LastName,
		Username:  f.Username,
		Email:     f.Email,
		Password:  f.Password1,
	}
	user.Prepare()
	return user
}

func (f *SignupForm) Validate(db *gorm.DB) (bool, error) {
	f.Errors = Errors{}
	user := f.User()
	merge(f.Errors, user.Validate(""))
	delete(f.Errors, "password")
	validateNewPasswords(f.Errors, "password1", "password2", f.Password1, f.Password2)

	if !f.Errors.Has("username") {
		if _, err := models.FindUserByUsername(db, user.Username); err == nil {
			f.Errors["username"] = "Пользователь с таким именем уже существует."
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return false, err
		}
	}
	if !f.Errors.Has("email") {
		if _, err := models.FindUserByEmail(db, user.Email); err == nil {
			f.Errors["email"] = "Пользователь с таким email уже существует."
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return false, err
		}
	}
	return !f.Errors.Any(), nil
}

type LoginForm struct {
	Username string `form:"username"`
	Password string `form:"password"`
	Next     string `form:"next"`

	Errors Errors `form:"-"`
}

func (f *LoginForm) Validate() bool {
	f.Errors = Errors{}
	user := models.User{Username: f.Username, Password: f.Password}
	user.Prepare()
	f.Username = user.Username
	merge(f.Errors, user.Validate("login"))
	return !f.Errors.Any()
}

// Authenticate checks the credentials and records a form level error when
// they do not match.
func (f *LoginForm) Authenticate(db *gorm.DB) (*models.User, error) {
	user, err := models.FindUserByUsername(db, f.Username)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		f.Errors["__all__"] = invalidCredentials
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if err := user.CheckPassword(f.Password); err != nil {
		f.Errors["__all__"] = invalidCredentials
		return nil, nil
	}
	return user, nil
}

const invalidCredentials = "Пожалуйста, введите правильные имя пользователя и пароль. Оба поля могут быть чувствительны к регистру."

type PasswordChangeForm struct {
	OldPassword string `form:"old_password"`
	Password1   string `form:"new_password1"`
	Password2   string `form:"new_password2"`

	Errors Errors `form:"-"`
}

func (f *PasswordChangeForm) Validate(user *models.User) bool {
	f.Errors = Errors{}
	if f.OldPassword == "" {
		f.Errors["old_password"] = requiredField
	} else if err := user.CheckPassword(f.OldPassword); err != nil {
		f.Errors["old_password"] = "Ваш старый пароль введен неправильно. Пожалуйста, введите его снова."
	}
	validateNewPasswords(f.Errors, "new_password1", "new_password2", f.Password1, f.Password2)
	return !f.Errors.Any()
}

type PasswordResetForm struct {
	Email string `form:"email"`

	Errors Errors `form:"-"`
}

func (f *PasswordResetForm) Validate() bool {
	f.Errors = Errors{}
	f.Email = strings.ToLower(strings.TrimSpace(f.Email))
	if f.Email == "" {
		f.Errors["email"] = requiredField
	} else if err := checkmail.ValidateFormat(f.Email); err != nil {
		f.Errors["email"] = "Введите правильный адрес электронной почты."
	}
	return !f.Errors.Any()
}

type SetPasswordForm struct {
	Password1 string `form:"new_password1"`
	Password2 string `form:"new_password2"`

	Errors Errors `form:"-"`
}

func (f *SetPasswordForm) Validate() bool {
	f.Errors = Errors{}
	validateNewPasswords(f.Errors, "new_password1", "new_password2", f.Password1, f.Password2)
	return !f.Errors.Any()
}

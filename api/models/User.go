package models

import (
	"regexp"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"yatube/api/security"

	"github.com/badoux/checkmail"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

type User struct {
	ID        uint      `gorm:"primary_key;autoIncrement" json:"id"`
	Username  string    `gorm:"size:150;not null;uniqueIndex" json:"username"`
	Email     string    `gorm:"size:254;not null;uniqueIndex" json:"email"`
	Password  string    `gorm:"size:255;not null" json:"-"`
	FirstName string    `gorm:"size:150;not null;default:''" json:"first_name"`
	LastName  string    `gorm:"size:150;not null;default:''" json:"last_name"`
	IsAdmin   bool      `gorm:"not null;default:false" json:"is_admin"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

var usernamePattern = regexp.MustCompile(`^[\w.@+-]+$`)

// Usernames that would shadow a top level route. The router adds the names it
// cannot send to a profile through ReserveUsernames.
var (
	reservedMu        sync.RWMutex
	reservedUsernames = map[string]bool{
		"new":     true,
		"follow":  true,
		"group":   true,
		"about":   true,
		"auth":    true,
		"admin":   true,
		"media":   true,
		"metrics": true,
		"static":  true,
	}
)

// ReserveUsernames keeps names out of signup.
func ReserveUsernames(names ...string) {
	reservedMu.Lock()
	defer reservedMu.Unlock()
	for _, name := range names {
		reservedUsernames[strings.ToLower(name)] = true
	}
}

func IsReservedUsername(name string) bool {
	reservedMu.RLock()
	defer reservedMu.RUnlock()
	return reservedUsernames[strings.ToLower(name)]
}

func (u *User) Prepare() {
	u.Username = strings.ToLower(strings.TrimSpace(u.Username))
	u.Email = strings.ToLower(strings.TrimSpace(u.Email))
	u.FirstName = strings.TrimSpace(u.FirstName)
	u.LastName = strings.TrimSpace(u.LastName)
}

// FullName falls back to the username when no name was given.
func (u *User) FullName() string {
	name := strings.TrimSpace(u.FirstName + " " + u.LastName)
	if name == "" {
		return u.Username
	}
	return name
}

func (u *User) Validate(action string) map[string]string {
	var errorMessages = make(map[string]string)

	switch strings.ToLower(action) {
	case "login":
		if u.Username == "" {
			errorMessages["username"] = requiredField
		}
		if u.Password == "" {
			errorMessages["password"] = requiredField
		}
	case "forgotpassword":
		validateEmail(u.Email, errorMessages)
	default:
		switch {
		case u.Username == "":
			errorMessages["username"] = requiredField
		case utf8.RuneCountInString(u.Username) > 150:
			errorMessages["username"] = "Убедитесь, что это значение содержит не более 150 символов."
		case !usernamePattern.MatchString(u.Username):
			errorMessages["username"] = "Введите правильное имя пользователя. Оно может содержать только буквы, цифры и знаки @/./+/-/_."
		case IsReservedUsername(u.Username):
			errorMessages["username"] = "Это имя пользователя недоступно."
		}
		validateEmail(u.Email, errorMessages)
		if u.Password == "" {
			errorMessages["password"] = requiredField
		}
	}
	return errorMessages
}

func validateEmail(email string, errorMessages map[string]string) {
	if email == "" {
		errorMessages["email"] = requiredField
		return
	}
	if err := checkmail.ValidateFormat(email); err != nil {
		errorMessages["email"] = "Введите правильный адрес электронной почты."
	}
}

// SaveUser hashes the plain text password and inserts the user.
func (u *User) SaveUser(db *gorm.DB) (*User, error) {
	hashedPassword, err := security.Hash(u.Password)
	if err != nil {
		return nil, errors.Wrap(err, "hash password")
	}
	u.Password = string(hashedPassword)
	if err := db.Create(u).Error; err != nil {
		return nil, err
	}
	return u, nil
}

func (u *User) CheckPassword(password string) error {
	return security.VerifyPassword(u.Password, password)
}

func (u *User) UpdatePassword(db *gorm.DB, password string) error {
	hashedPassword, err := security.Hash(password)
	if err != nil {
		return errors.Wrap(err, "hash password")
	}
	err = db.Model(&User{}).Where("id = ?", u.ID).Updates(map[string]interface{}{
		"password":   string(hashedPassword),
		"updated_at": time.Now(),
	}).Error
	if err != nil {
		return err
	}
	u.Password = string(hashedPassword)
	return nil
}

func FindUserByID(db *gorm.DB, uid uint) (*User, error) {
	var user User
	if err := db.Where("id = ?", uid).Take(&user).Error; err != nil {
		return nil, errors.Wrapf(err, "user %d", uid)
	}
	return &user, nil
}

func FindUserByUsername(db *gorm.DB, username string) (*User, error) {
	username = strings.ToLower(strings.TrimSpace(username))
	if username == "" {
		return nil, gorm.ErrRecordNotFound
	}
	var user User
	if err := db.Where("username = ?", username).Take(&user).Error; err != nil {
		return nil, errors.Wrapf(err, "user %q", username)
	}
	return &user, nil
}

func FindUserByEmail(db *gorm.DB, email string) (*User, error) {
	var user User
	err := db.Where("lower(email) = ?", strings.ToLower(strings.TrimSpace(email))).Take(&user).Error
	if err != nil {
		return nil, errors.Wrapf(err, "user %q", email)
	}
	return &user, nil
}

// FindAllUsers lists users for the admin, optionally filtered by a username
// or email fragment.
func FindAllUsers(db *gorm.DB, q string) ([]User, error) {
	var users []User
	query := db.Order("username asc")
	if q = strings.TrimSpace(q); q != "" {
		like := "%" + strings.ToLower(q) + "%"
		query = query.Where("lower(username) LIKE ? OR lower(email) LIKE ?", like, like)
	}
	if err := query.Limit(100).Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

// DeleteAUser removes the user together with their posts, the comments on
// those posts, their own comments, follow edges in both directions and any
// pending password reset tokens.
func DeleteAUser(db *gorm.DB, uid uint) (int64, error) {
	var affected int64
	err := db.Transaction(func(tx *gorm.DB) error {
		var user User
		if err := tx.Where("id = ?", uid).Take(&user).Error; err != nil {
			return err
		}
		ownPosts := tx.Model(&Post{}).Select("id").Where("author_id = ?", uid)
		if err := tx.Where("post_id IN (?)", ownPosts).Delete(&Comment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("author_id = ?", uid).Delete(&Comment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("author_id = ?", uid).Delete(&Post{}).Error; err != nil {
			return err
		}
		if _, err := RemoveUserFollowEdges(tx, uid); err != nil {
			return err
		}
		if err := tx.Where("email = ?", user.Email).Delete(&ResetPassword{}).Error; err != nil {
			return err
		}
		result := tx.Where("id = ?", uid).Delete(&User{})
		if result.Error != nil {
			return result.Error
		}
		affected = result.RowsAffected
		return nil
	})
	if err != nil {
		return 0, err
	}
	return affected, nil
}

// Package forms validates submitted HTML forms and maps them onto models.
package forms

import (
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

const (
	requiredField   = "Обязательное поле."
	invalidChoice   = "Выберите корректный вариант. Вашего варианта нет среди допустимых значений."
	passwordMinLen  = 8
	passwordsDiffer = "Введенные пароли не совпадают."
)

// Errors maps a field name to its message. "__all__" holds form level errors.
type Errors map[string]string

func (e Errors) Has(field string) bool {
	_, ok := e[field]
	return ok
}

func (e Errors) Get(field string) string {
	return e[field]
}

func (e Errors) Any() bool {
	return len(e) > 0
}

func merge(dst Errors, src map[string]string) {
	for k, v := range src {
		if _, exists := dst[k]; !exists {
			dst[k] = v
		}
	}
}

// validatePassword applies the minimum length and numeric-only rules.
func validatePassword(errs Errors, field, password string) {
	switch {
	case password == "":
		errs[field] = requiredField
	case utf8.RuneCountInString(password) < passwordMinLen:
		errs[field] = "Введённый пароль слишком короткий. Он должен содержать как минимум " +
			strconv.Itoa(passwordMinLen) + " символов."
	case strings.IndexFunc(password, func(r rune) bool { return !unicode.IsDigit(r) }) < 0:
		errs[field] = "Введённый пароль состоит только из цифр."
	}
}

// validateNewPasswords checks a password and its confirmation, reported
// under the given field names.
func validateNewPasswords(errs Errors, field1, field2, password1, password2 string) {
	validatePassword(errs, field1, password1)
	if password2 == "" {
		errs[field2] = requiredField
	} else if password1 != password2 {
		errs[field2] = passwordsDiffer
	}
}

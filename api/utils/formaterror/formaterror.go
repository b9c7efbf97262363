package formaterror

import "strings"

// FormatError maps storage and credential errors onto form field messages.
func FormatError(err string) map[string]string {
	errorMessages := map[string]string{}
	lower := strings.ToLower(err)

	switch {
	case strings.Contains(lower, "username"):
		errorMessages["username"] = "Пользователь с таким именем уже существует."
	case strings.Contains(lower, "email"):
		errorMessages["email"] = "Пользователь с таким email уже существует."
	case strings.Contains(lower, "slug"):
		errorMessages["slug"] = "Группа с таким адресом уже существует."
	case strings.Contains(lower, "hashedpassword"), strings.Contains(lower, "record not found"):
		errorMessages["__all__"] = "Пожалуйста, введите правильные имя пользователя и пароль."
	}
	if len(errorMessages) == 0 {
		errorMessages["__all__"] = "Не удалось сохранить данные."
	}
	return errorMessages
}

package models

import "github.com/pkg/errors"

const requiredField = "Обязательное поле."

var (
	ErrSelfFollow   = errors.New("users cannot follow themselves")
	ErrInvalidToken = errors.New("password reset token is invalid or expired")
)

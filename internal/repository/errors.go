package repository

import "errors"

var (
	ErrUsernameExists = errors.New("username is already in use")
	ErrEmailExists    = errors.New("email is already in use")
	ErrUserNotFound   = errors.New("user not found")
)

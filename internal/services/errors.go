package services

import "errors"

var (
	ErrInvalidCredentials    = errors.New("invalid credentials")
	ErrEmailTaken            = errors.New("email already registered")
	ErrEmailInUse            = errors.New("email already in use")
	ErrUserNotFound          = errors.New("user not found")
	ErrConcurrentUpdate      = errors.New("account was updated concurrently, please retry")
	ErrInvalidAccessPassword = errors.New("invalid access password")
	ErrAdminExists           = errors.New("user id already exists")
)

package user

import "errors"

var (
	ErrUserNotFound  = errors.New("user not found")
	ErrEmailTaken    = errors.New("email already exists")
	ErrUsernameTaken = errors.New("username already exists")

	ErrResetTokenNotFound = errors.New("reset token not found")
	// ErrResetTokenConsumed means the token was burned between lookup and use.
	ErrResetTokenConsumed = errors.New("reset token has already been used")
)

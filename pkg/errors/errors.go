package errors

import (
	"errors"
	"fmt"
)

const (
	CodeValidation   = "VALIDATION_ERROR"
	CodeWeakPassword = "WEAK_PASSWORD"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidToken       = errors.New("invalid or expired token")
	ErrUnauthorized       = errors.New("unauthorized access")

	ErrUserNotFound  = errors.New("user not found")
	ErrEmailTaken    = errors.New("email is already registered")
	ErrUsernameTaken = errors.New("username is already taken")

	ErrResetTokenInvalid        = errors.New("token invalid")
	ErrResetTokenExpired        = errors.New("token expired")
	ErrPasswordReused           = errors.New("new password must be different from the current password")
	ErrCurrentPasswordIncorrect = errors.New("current password is incorrect")

	ErrIngredientNotFound = errors.New("ingredient not found")
	ErrMenuNotFound       = errors.New("menu not found")
	ErrRestaurantNotFound = errors.New("restaurant not found")
	ErrFavoriteNotFound   = errors.New("favorite not found")
	ErrAlreadyFavorited   = errors.New("item is already in favorites")
	ErrSavedNotFound      = errors.New("item is not in the saved list")
	ErrAlreadySaved       = errors.New("item is already saved")

	ErrReviewNotFound = errors.New("review not found")
	ErrForbidden      = errors.New("not allowed to modify this review")
)

type AppError struct {
	Code    string
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}

	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func NewAppError(code, message string, err error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Validation wraps err as a VALIDATION_ERROR with a client-safe message.
func Validation(message string, err error) *AppError {
	return NewAppError(CodeValidation, message, err)
}

package utils

import (
	"errors"
	"sync"
	"unicode/utf8"

	"golang.org/x/crypto/bcrypt"
)

const (
	PasswordHashCost  = 10
	MinPasswordLength = 8
	// MaxPasswordBytes is the bcrypt input limit.
	MaxPasswordBytes = 72
)

var (
	ErrPasswordTooShort    = errors.New("password must be at least 8 characters")
	ErrPasswordComposition = errors.New("password must contain at least one letter and one digit")
	ErrPasswordTooLong     = errors.New("password must be at most 72 bytes")
)

// DummyPasswordHash is a hash at PasswordHashCost that no password matches in
// practice. Login compares against it when the account does not exist so both
// failure paths cost one bcrypt compare.
var DummyPasswordHash = sync.OnceValue(func() string {
	hash, err := bcrypt.GenerateFromPassword([]byte("unused-login-placeholder-0"), PasswordHashCost)
	if err != nil {
		panic(err)
	}
	return string(hash)
})

func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), PasswordHashCost)
	return string(bytes), err
}

func CheckPassword(hashedPassword, password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password))
	return err == nil
}

// ValidatePassword enforces the password policy shared by registration,
// password reset and password change.
func ValidatePassword(password string) error {
	if utf8.RuneCountInString(password) < MinPasswordLength {
		return ErrPasswordTooShort
	}
	if len(password) > MaxPasswordBytes {
		return ErrPasswordTooLong
	}

	var hasLetter, hasDigit bool
	for _, char := range password {
		switch {
		case char >= 'a' && char <= 'z', char >= 'A' && char <= 'Z':
			hasLetter = true
		case char >= '0' && char <= '9':
			hasDigit = true
		}
	}

	if !hasLetter || !hasDigit {
		return ErrPasswordComposition
	}

	return nil
}

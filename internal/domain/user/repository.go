package user

import (
	"context"
	"time"
)

// Repository defines the interface for user repository operations
type Repository interface {
	// Create inserts u and fills its ID. Unique violations surface as
	// ErrEmailTaken or ErrUsernameTaken.
	Create(ctx context.Context, u *User) error
	GetByID(ctx context.Context, userID uint) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	// FindByEmailOrUsername returns every user matching either value.
	FindByEmailOrUsername(ctx context.Context, email, username string) ([]*User, error)
	Update(ctx context.Context, u *User) error
	// UpdateWithAllergies is Update plus a full replacement of the user's
	// allergy set, committed together.
	UpdateWithAllergies(ctx context.Context, u *User, ingredientIDs []uint) error
	UpdateLastLogin(ctx context.Context, userID uint, at time.Time) error
	// ChangePassword stores a new hash and burns every outstanding reset
	// token of the user in one transaction.
	ChangePassword(ctx context.Context, userID uint, passwordHash string, at time.Time) error
}

// ResetTokenRepository defines the interface for password reset token operations
type ResetTokenRepository interface {
	Create(ctx context.Context, token *PasswordResetToken) error
	GetByToken(ctx context.Context, token string) (*PasswordResetToken, error)
	// Consume atomically sets the user's password hash, marks token used and
	// marks every other unused token of the same user used.
	Consume(ctx context.Context, token *PasswordResetToken, passwordHash string, at time.Time) error
	Stats(ctx context.Context, now time.Time) (*ResetTokenStats, error)
}

package user

import "time"

// User represents a user entity in the domain
type User struct {
	ID              uint
	Username        string
	Email           string
	PasswordHash    string `json:"-"`
	FullName        *string
	Country         *string
	Phone           *string
	ProfileImageURL *string
	LastLogin       *time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// PasswordResetToken is a single-use credential mailed to a user. Rows are
// never deleted; a consumed or expired token stays as an audit record.
type PasswordResetToken struct {
	ID        uint
	UserID    uint
	Token     string
	ExpiresAt time.Time
	Used      bool
	UsedAt    *time.Time
	CreatedAt time.Time
}

func (t *PasswordResetToken) IsExpired(now time.Time) bool {
	return !now.Before(t.ExpiresAt)
}

// IsUsable reports whether the token can still complete a reset at now.
func (t *PasswordResetToken) IsUsable(now time.Time) bool {
	return !t.Used && !t.IsExpired(now)
}

// ResetTokenStats is a point-in-time breakdown of the reset token table.
type ResetTokenStats struct {
	Active  int64
	Expired int64
	Used    int64
}

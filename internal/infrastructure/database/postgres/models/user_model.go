package models

import "time"

const (
	UsersEmailIndex    = "idx_users_email"
	UsersUsernameIndex = "idx_users_username"
)

// UserModel represents the database model for User
type UserModel struct {
	ID              uint       `gorm:"primaryKey;autoIncrement"`
	Username        string     `gorm:"type:varchar(50);not null;uniqueIndex:idx_users_username"`
	Email           string     `gorm:"type:varchar(255);not null;uniqueIndex:idx_users_email"`
	PasswordHash    string     `gorm:"type:varchar(255);not null"`
	FullName        *string    `gorm:"type:varchar(255)"`
	Country         *string    `gorm:"type:varchar(100)"`
	Phone           *string    `gorm:"type:varchar(30)"`
	ProfileImageURL *string    `gorm:"type:text"`
	LastLogin       *time.Time `gorm:"type:timestamptz"`
	CreatedAt       time.Time  `gorm:"not null"`
	UpdatedAt       time.Time  `gorm:"not null"`
}

func (UserModel) TableName() string {
	return "users"
}

// PasswordResetTokenModel represents the database model for PasswordResetToken
type PasswordResetTokenModel struct {
	ID        uint       `gorm:"primaryKey;autoIncrement"`
	UserID    uint       `gorm:"not null;index"`
	User      UserModel  `gorm:"constraint:OnDelete:CASCADE"`
	Token     string     `gorm:"type:char(64);not null;uniqueIndex"`
	ExpiresAt time.Time  `gorm:"not null;index"`
	Used      bool       `gorm:"default:false;not null"`
	UsedAt    *time.Time `gorm:"type:timestamptz"`
	CreatedAt time.Time  `gorm:"not null"`
}

func (PasswordResetTokenModel) TableName() string {
	return "password_reset_tokens"
}

package models

import "time"

type SavedMenuModel struct {
	ID        uint      `gorm:"primaryKey;autoIncrement"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_user_saved_user_menu"`
	MenuID    uint      `gorm:"not null;uniqueIndex:idx_user_saved_user_menu"`
	Menu      MenuModel `gorm:"constraint:OnDelete:CASCADE"`
	CreatedAt time.Time `gorm:"not null;index"`
}

func (SavedMenuModel) TableName() string {
	return "user_saved"
}

type SavedRestaurantModel struct {
	ID           uint            `gorm:"primaryKey;autoIncrement"`
	UserID       uint            `gorm:"not null;uniqueIndex:idx_restaurant_saved_user_restaurant"`
	RestaurantID uint            `gorm:"not null;uniqueIndex:idx_restaurant_saved_user_restaurant"`
	Restaurant   RestaurantModel `gorm:"constraint:OnDelete:CASCADE"`
	CreatedAt    time.Time       `gorm:"not null;index"`
}

func (SavedRestaurantModel) TableName() string {
	return "restaurant_saved"
}

type ReviewModel struct {
	ID        uint      `gorm:"primaryKey;autoIncrement"`
	UserID    uint      `gorm:"not null;index"`
	User      UserModel `gorm:"constraint:OnDelete:CASCADE"`
	MenuID    uint      `gorm:"not null;index:idx_reviews_menu_created,priority:1"`
	Menu      MenuModel `gorm:"constraint:OnDelete:CASCADE"`
	Rating    int       `gorm:"not null;check:rating BETWEEN 1 AND 5"`
	Comment   string    `gorm:"type:text;not null"`
	CreatedAt time.Time `gorm:"not null;index:idx_reviews_menu_created,priority:2"`
	UpdatedAt time.Time `gorm:"not null"`
}

func (ReviewModel) TableName() string {
	return "reviews"
}

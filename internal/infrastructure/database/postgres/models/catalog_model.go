package models

import "time"

const (
	MenuFavoritesUniqueIndex       = "idx_user_favorites_user_menu"
	RestaurantFavoritesUniqueIndex = "idx_restaurant_favorites_user_restaurant"
)

type IngredientModel struct {
	ID   uint   `gorm:"primaryKey;autoIncrement"`
	Name string `gorm:"type:varchar(255);not null;uniqueIndex"`
}

func (IngredientModel) TableName() string {
	return "ingredients"
}

type UserAllergyModel struct {
	UserID       uint            `gorm:"primaryKey"`
	IngredientID uint            `gorm:"primaryKey"`
	Ingredient   IngredientModel `gorm:"constraint:OnDelete:CASCADE"`
	CreatedAt    time.Time       `gorm:"not null"`
}

func (UserAllergyModel) TableName() string {
	return "user_allergies"
}

type RestaurantModel struct {
	ID       uint    `gorm:"primaryKey;autoIncrement"`
	Name     string  `gorm:"type:varchar(255);not null"`
	Address  *string `gorm:"type:text"`
	ImageURL *string `gorm:"type:text"`
}

func (RestaurantModel) TableName() string {
	return "restaurants"
}

type MenuModel struct {
	ID           uint            `gorm:"primaryKey;autoIncrement"`
	RestaurantID uint            `gorm:"not null;index"`
	Restaurant   RestaurantModel `gorm:"constraint:OnDelete:CASCADE"`
	Name         string          `gorm:"type:varchar(255);not null"`
	Price        *float64        `gorm:"type:numeric(10,2)"`
	ImageURL     *string         `gorm:"type:text"`
}

func (MenuModel) TableName() string {
	return "restaurant_menus"
}

type MenuFavoriteModel struct {
	ID        uint      `gorm:"primaryKey;autoIncrement"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_user_favorites_user_menu"`
	MenuID    uint      `gorm:"not null;uniqueIndex:idx_user_favorites_user_menu"`
	Menu      MenuModel `gorm:"constraint:OnDelete:CASCADE"`
	CreatedAt time.Time `gorm:"not null;index"`
}

func (MenuFavoriteModel) TableName() string {
	return "user_favorites"
}

type RestaurantFavoriteModel struct {
	ID           uint            `gorm:"primaryKey;autoIncrement"`
	UserID       uint            `gorm:"not null;uniqueIndex:idx_restaurant_favorites_user_restaurant"`
	RestaurantID uint            `gorm:"not null;uniqueIndex:idx_restaurant_favorites_user_restaurant"`
	Restaurant   RestaurantModel `gorm:"constraint:OnDelete:CASCADE"`
	CreatedAt    time.Time       `gorm:"not null;index"`
}

func (RestaurantFavoriteModel) TableName() string {
	return "restaurant_favorites"
}

// All lists every model in dependency order for AutoMigrate.
func All() []any {
	return []any{
		&UserModel{},
		&PasswordResetTokenModel{},
		&IngredientModel{},
		&UserAllergyModel{},
		&RestaurantModel{},
		&MenuModel{},
		&MenuFavoriteModel{},
		&RestaurantFavoriteModel{},
		&SavedMenuModel{},
		&SavedRestaurantModel{},
		&ReviewModel{},
	}
}

package favorite

import (
	"time"

	"restaurant-review-api/internal/domain/restaurant"
)

type MenuFavorite struct {
	ID        uint
	UserID    uint
	MenuID    uint
	Menu      *restaurant.Menu
	CreatedAt time.Time
}

type RestaurantFavorite struct {
	ID           uint
	UserID       uint
	RestaurantID uint
	Restaurant   *restaurant.Restaurant
	CreatedAt    time.Time
}

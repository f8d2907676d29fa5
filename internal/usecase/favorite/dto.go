package favorite

import (
	"time"

	domainFavorite "restaurant-review-api/internal/domain/favorite"
	domainRestaurant "restaurant-review-api/internal/domain/restaurant"
)

type RestaurantSummary struct {
	ID       uint    `json:"restaurant_id"`
	Name     string  `json:"restaurant_name"`
	Address  *string `json:"address,omitempty"`
	ImageURL *string `json:"image_url,omitempty"`
}

type MenuFavoriteResponse struct {
	ID          uint               `json:"favorite_id"`
	MenuID      uint               `json:"menu_id"`
	MenuName    string             `json:"menu_name"`
	Price       *float64           `json:"price,omitempty"`
	ImageURL    *string            `json:"image_url,omitempty"`
	Restaurant  *RestaurantSummary `json:"restaurant,omitempty"`
	FavoritedAt time.Time          `json:"favorited_at"`
}

type RestaurantFavoriteResponse struct {
	ID          uint              `json:"favorite_id"`
	Restaurant  RestaurantSummary `json:"restaurant"`
	FavoritedAt time.Time         `json:"favorited_at"`
}

type ListResponse struct {
	Menus            []MenuFavoriteResponse       `json:"menus"`
	Restaurants      []RestaurantFavoriteResponse `json:"restaurants"`
	TotalMenus       int                          `json:"total_menus"`
	TotalRestaurants int                          `json:"total_restaurants"`
}

type CheckResponse struct {
	IsFavorite bool `json:"is_favorite"`
}

func toRestaurantSummary(r *domainRestaurant.Restaurant) *RestaurantSummary {
	if r == nil {
		return nil
	}
	return &RestaurantSummary{ID: r.ID, Name: r.Name, Address: r.Address, ImageURL: r.ImageURL}
}

func ToMenuFavoriteResponse(f *domainFavorite.MenuFavorite) MenuFavoriteResponse {
	out := MenuFavoriteResponse{ID: f.ID, MenuID: f.MenuID, FavoritedAt: f.CreatedAt}
	if f.Menu != nil {
		out.MenuName = f.Menu.Name
		out.Price = f.Menu.Price
		out.ImageURL = f.Menu.ImageURL
		out.Restaurant = toRestaurantSummary(f.Menu.Restaurant)
	}
	return out
}

func ToRestaurantFavoriteResponse(f *domainFavorite.RestaurantFavorite) RestaurantFavoriteResponse {
	out := RestaurantFavoriteResponse{ID: f.ID, FavoritedAt: f.CreatedAt}
	if s := toRestaurantSummary(f.Restaurant); s != nil {
		out.Restaurant = *s
	} else {
		out.Restaurant.ID = f.RestaurantID
	}
	return out
}

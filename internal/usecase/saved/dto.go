package saved

import (
	"time"

	domainSaved "restaurant-review-api/internal/domain/saved"
)

const (
	ActionAdded   = "added"
	ActionRemoved = "removed"
)

type MenuItemResponse struct {
	ID             uint      `json:"saved_id"`
	MenuID         uint      `json:"menu_id"`
	MenuName       string    `json:"menu_name"`
	Price          *float64  `json:"price"`
	RestaurantID   uint      `json:"restaurant_id"`
	RestaurantName string    `json:"restaurant_name"`
	ImageURL       *string   `json:"image_url"`
	CreatedAt      time.Time `json:"created_at"`
}

type RestaurantItemResponse struct {
	ID             uint      `json:"saved_id"`
	RestaurantID   uint      `json:"restaurant_id"`
	RestaurantName string    `json:"restaurant_name"`
	Address        *string   `json:"address"`
	ImageURL       *string   `json:"image_url"`
	CreatedAt      time.Time `json:"created_at"`
}

type ListResponse struct {
	Menus            []MenuItemResponse       `json:"menus"`
	Restaurants      []RestaurantItemResponse `json:"restaurants"`
	TotalMenus       int                      `json:"total_menus"`
	TotalRestaurants int                      `json:"total_restaurants"`
}

// ActionResponse describes the outcome of a save or unsave call.
type ActionResponse struct {
	SavedID uint             `json:"saved_id,omitempty"`
	Type    domainSaved.Kind `json:"type"`
	ItemID  uint             `json:"item_id"`
	Action  string           `json:"action"`
}

type CheckResponse struct {
	IsSaved bool `json:"is_saved"`
}

func toMenuItemResponse(item *domainSaved.Item) MenuItemResponse {
	out := MenuItemResponse{ID: item.ID, MenuID: item.TargetID, CreatedAt: item.CreatedAt}
	if m := item.Menu; m != nil {
		out.MenuName = m.Name
		out.Price = m.Price
		out.ImageURL = m.ImageURL
		out.RestaurantID = m.RestaurantID
		if m.Restaurant != nil {
			out.RestaurantName = m.Restaurant.Name
		}
	}
	return out
}

func toRestaurantItemResponse(item *domainSaved.Item) RestaurantItemResponse {
	out := RestaurantItemResponse{ID: item.ID, RestaurantID: item.TargetID, CreatedAt: item.CreatedAt}
	if r := item.Restaurant; r != nil {
		out.RestaurantName = r.Name
		out.Address = r.Address
		out.ImageURL = r.ImageURL
	}
	return out
}

package favorite

import "context"

type Repository interface {
	// AddMenu fails with ErrAlreadyFavorited when the pair exists.
	AddMenu(ctx context.Context, fav *MenuFavorite) error
	RemoveMenu(ctx context.Context, userID, menuID uint) error
	IsMenuFavorite(ctx context.Context, userID, menuID uint) (bool, error)
	// ListMenus returns the newest favorites first with menu and restaurant loaded.
	ListMenus(ctx context.Context, userID uint) ([]*MenuFavorite, error)

	AddRestaurant(ctx context.Context, fav *RestaurantFavorite) error
	RemoveRestaurant(ctx context.Context, userID, restaurantID uint) error
	IsRestaurantFavorite(ctx context.Context, userID, restaurantID uint) (bool, error)
	ListRestaurants(ctx context.Context, userID uint) ([]*RestaurantFavorite, error)
}

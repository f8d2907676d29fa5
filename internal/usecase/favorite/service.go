package favorite

import (
	"context"
	"errors"
	"fmt"
	"time"

	domainFavorite "restaurant-review-api/internal/domain/favorite"
	domainRestaurant "restaurant-review-api/internal/domain/restaurant"
	"restaurant-review-api/internal/logger"
	appErrors "restaurant-review-api/pkg/errors"

	"go.uber.org/zap"
)

// Service manages a user's favorite menus and restaurants.
type Service struct {
	favorites   domainFavorite.Repository
	restaurants domainRestaurant.Repository
	now         func() time.Time
}

func NewService(favorites domainFavorite.Repository, restaurants domainRestaurant.Repository) *Service {
	return &Service{favorites: favorites, restaurants: restaurants, now: time.Now}
}

func (s *Service) List(ctx context.Context, userID uint) (*ListResponse, error) {
	menus, err := s.favorites.ListMenus(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list favorite menus: %w", err)
	}
	restaurants, err := s.favorites.ListRestaurants(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list favorite restaurants: %w", err)
	}

	resp := &ListResponse{
		Menus:            make([]MenuFavoriteResponse, 0, len(menus)),
		Restaurants:      make([]RestaurantFavoriteResponse, 0, len(restaurants)),
		TotalMenus:       len(menus),
		TotalRestaurants: len(restaurants),
	}
	for _, m := range menus {
		resp.Menus = append(resp.Menus, ToMenuFavoriteResponse(m))
	}
	for _, r := range restaurants {
		resp.Restaurants = append(resp.Restaurants, ToRestaurantFavoriteResponse(r))
	}
	return resp, nil
}

func (s *Service) AddMenu(ctx context.Context, userID, menuID uint) (*MenuFavoriteResponse, error) {
	menu, err := s.restaurants.GetMenu(ctx, menuID)
	if err != nil {
		return nil, mapFavoriteError(err)
	}

	exists, err := s.favorites.IsMenuFavorite(ctx, userID, menuID)
	if err != nil {
		return nil, fmt.Errorf("failed to check menu favorite: %w", err)
	}
	if exists {
		return nil, appErrors.ErrAlreadyFavorited
	}

	fav := &domainFavorite.MenuFavorite{UserID: userID, MenuID: menuID, Menu: menu, CreatedAt: s.now()}
	if err := s.favorites.AddMenu(ctx, fav); err != nil {
		return nil, mapFavoriteError(err)
	}

	logger.Info("Menu added to favorites",
		zap.Uint("user_id", userID),
		zap.Uint("menu_id", menuID),
		zap.String("event", "favorite_menu_added"),
	)
	resp := ToMenuFavoriteResponse(fav)
	return &resp, nil
}

func (s *Service) RemoveMenu(ctx context.Context, userID, menuID uint) error {
	if err := s.favorites.RemoveMenu(ctx, userID, menuID); err != nil {
		return mapFavoriteError(err)
	}
	logger.Info("Menu removed from favorites",
		zap.Uint("user_id", userID),
		zap.Uint("menu_id", menuID),
		zap.String("event", "favorite_menu_removed"),
	)
	return nil
}

func (s *Service) IsMenuFavorite(ctx context.Context, userID, menuID uint) (*CheckResponse, error) {
	ok, err := s.favorites.IsMenuFavorite(ctx, userID, menuID)
	if err != nil {
		return nil, fmt.Errorf("failed to check menu favorite: %w", err)
	}
	return &CheckResponse{IsFavorite: ok}, nil
}

func (s *Service) AddRestaurant(ctx context.Context, userID, restaurantID uint) (*RestaurantFavoriteResponse, error) {
	restaurant, err := s.restaurants.GetRestaurant(ctx, restaurantID)
	if err != nil {
		return nil, mapFavoriteError(err)
	}

	exists, err := s.favorites.IsRestaurantFavorite(ctx, userID, restaurantID)
	if err != nil {
		return nil, fmt.Errorf("failed to check restaurant favorite: %w", err)
	}
	if exists {
		return nil, appErrors.ErrAlreadyFavorited
	}

	fav := &domainFavorite.RestaurantFavorite{
		UserID:       userID,
		RestaurantID: restaurantID,
		Restaurant:   restaurant,
		CreatedAt:    s.now(),
	}
	if err := s.favorites.AddRestaurant(ctx, fav); err != nil {
		return nil, mapFavoriteError(err)
	}

	logger.Info("Restaurant added to favorites",
		zap.Uint("user_id", userID),
		zap.Uint("restaurant_id", restaurantID),
		zap.String("event", "favorite_restaurant_added"),
	)
	resp := ToRestaurantFavoriteResponse(fav)
	return &resp, nil
}

func (s *Service) RemoveRestaurant(ctx context.Context, userID, restaurantID uint) error {
	if err := s.favorites.RemoveRestaurant(ctx, userID, restaurantID); err != nil {
		return mapFavoriteError(err)
	}
	logger.Info("Restaurant removed from favorites",
		zap.Uint("user_id", userID),
		zap.Uint("restaurant_id", restaurantID),
		zap.String("event", "favorite_restaurant_removed"),
	)
	return nil
}

func (s *Service) IsRestaurantFavorite(ctx context.Context, userID, restaurantID uint) (*CheckResponse, error) {
	ok, err := s.favorites.IsRestaurantFavorite(ctx, userID, restaurantID)
	if err != nil {
		return nil, fmt.Errorf("failed to check restaurant favorite: %w", err)
	}
	return &CheckResponse{IsFavorite: ok}, nil
}

func mapFavoriteError(err error) error {
	switch {
	case errors.Is(err, domainRestaurant.ErrMenuNotFound):
		return appErrors.ErrMenuNotFound
	case errors.Is(err, domainRestaurant.ErrRestaurantNotFound):
		return appErrors.ErrRestaurantNotFound
	case errors.Is(err, domainFavorite.ErrFavoriteNotFound):
		return appErrors.ErrFavoriteNotFound
	case errors.Is(err, domainFavorite.ErrAlreadyFavorited):
		return appErrors.ErrAlreadyFavorited
	default:
		return err
	}
}

package saved

import (
	"context"
	"errors"
	"fmt"
	"time"

	domainRestaurant "restaurant-review-api/internal/domain/restaurant"
	domainSaved "restaurant-review-api/internal/domain/saved"
	"restaurant-review-api/internal/logger"
	appErrors "restaurant-review-api/pkg/errors"

	"go.uber.org/zap"
)

// Service manages a user's saved menus and restaurants.
type Service struct {
	items       domainSaved.Repository
	restaurants domainRestaurant.Repository
	now         func() time.Time
}

func NewService(items domainSaved.Repository, restaurants domainRestaurant.Repository) *Service {
	return &Service{items: items, restaurants: restaurants, now: time.Now}
}

func (s *Service) List(ctx context.Context, userID uint) (*ListResponse, error) {
	menus, err := s.items.List(ctx, userID, domainSaved.KindMenu)
	if err != nil {
		return nil, fmt.Errorf("failed to list saved menus: %w", err)
	}
	restaurants, err := s.items.List(ctx, userID, domainSaved.KindRestaurant)
	if err != nil {
		return nil, fmt.Errorf("failed to list saved restaurants: %w", err)
	}

	resp := &ListResponse{
		Menus:            make([]MenuItemResponse, 0, len(menus)),
		Restaurants:      make([]RestaurantItemResponse, 0, len(restaurants)),
		TotalMenus:       len(menus),
		TotalRestaurants: len(restaurants),
	}
	for _, m := range menus {
		resp.Menus = append(resp.Menus, toMenuItemResponse(m))
	}
	for _, r := range restaurants {
		resp.Restaurants = append(resp.Restaurants, toRestaurantItemResponse(r))
	}
	return resp, nil
}

// Add saves the target for userID. The target must exist and must not be
// saved already.
func (s *Service) Add(ctx context.Context, userID uint, kind domainSaved.Kind, targetID uint) (*ActionResponse, error) {
	item := &domainSaved.Item{UserID: userID, Kind: kind, TargetID: targetID, CreatedAt: s.now()}
	if err := s.loadTarget(ctx, item); err != nil {
		return nil, err
	}

	exists, err := s.items.Exists(ctx, userID, kind, targetID)
	if err != nil {
		return nil, fmt.Errorf("failed to check saved %s: %w", kind, err)
	}
	if exists {
		return nil, appErrors.ErrAlreadySaved
	}

	if err := s.items.Add(ctx, item); err != nil {
		return nil, mapSavedError(err)
	}

	logger.Info("Item saved",
		zap.Uint("user_id", userID),
		zap.String("type", string(kind)),
		zap.Uint("item_id", targetID),
		zap.String("event", "saved_item_added"),
	)
	return &ActionResponse{SavedID: item.ID, Type: kind, ItemID: targetID, Action: ActionAdded}, nil
}

func (s *Service) Remove(ctx context.Context, userID uint, kind domainSaved.Kind, targetID uint) (*ActionResponse, error) {
	if err := s.items.Remove(ctx, userID, kind, targetID); err != nil {
		return nil, mapSavedError(err)
	}
	logger.Info("Item unsaved",
		zap.Uint("user_id", userID),
		zap.String("type", string(kind)),
		zap.Uint("item_id", targetID),
		zap.String("event", "saved_item_removed"),
	)
	return &ActionResponse{Type: kind, ItemID: targetID, Action: ActionRemoved}, nil
}

func (s *Service) IsSaved(ctx context.Context, userID uint, kind domainSaved.Kind, targetID uint) (*CheckResponse, error) {
	ok, err := s.items.Exists(ctx, userID, kind, targetID)
	if err != nil {
		return nil, mapSavedError(err)
	}
	return &CheckResponse{IsSaved: ok}, nil
}

func (s *Service) loadTarget(ctx context.Context, item *domainSaved.Item) error {
	switch item.Kind {
	case domainSaved.KindMenu:
		menu, err := s.restaurants.GetMenu(ctx, item.TargetID)
		if err != nil {
			return mapSavedError(err)
		}
		item.Menu = menu
	case domainSaved.KindRestaurant:
		restaurant, err := s.restaurants.GetRestaurant(ctx, item.TargetID)
		if err != nil {
			return mapSavedError(err)
		}
		item.Restaurant = restaurant
	default:
		return mapSavedError(domainSaved.ErrUnknownKind)
	}
	return nil
}

func mapSavedError(err error) error {
	switch {
	case errors.Is(err, domainRestaurant.ErrMenuNotFound):
		return appErrors.ErrMenuNotFound
	case errors.Is(err, domainRestaurant.ErrRestaurantNotFound):
		return appErrors.ErrRestaurantNotFound
	case errors.Is(err, domainSaved.ErrNotSaved):
		return appErrors.ErrSavedNotFound
	case errors.Is(err, domainSaved.ErrAlreadySaved):
		return appErrors.ErrAlreadySaved
	case errors.Is(err, domainSaved.ErrUnknownKind):
		return appErrors.Validation("Invalid saved item type", err)
	default:
		return err
	}
}

package postgres

import (
	"context"
	"errors"
	"fmt"

	"restaurant-review-api/internal/domain/restaurant"
	"restaurant-review-api/internal/infrastructure/database/postgres/models"

	"gorm.io/gorm"
)

type RestaurantRepository struct {
	db *DB
}

func NewRestaurantRepository(db *DB) *RestaurantRepository {
	return &RestaurantRepository{db: db}
}

func (r *RestaurantRepository) GetRestaurant(ctx context.Context, id uint) (*restaurant.Restaurant, error) {
	var dbModel models.RestaurantModel
	err := r.db.DB.WithContext(ctx).First(&dbModel, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, restaurant.ErrRestaurantNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get restaurant: %w", err)
	}
	return toRestaurantEntity(&dbModel), nil
}

func (r *RestaurantRepository) GetMenu(ctx context.Context, id uint) (*restaurant.Menu, error) {
	var dbModel models.MenuModel
	err := r.db.DB.WithContext(ctx).Preload("Restaurant").First(&dbModel, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, restaurant.ErrMenuNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get menu: %w", err)
	}
	return toMenuEntity(&dbModel), nil
}

func toRestaurantEntity(m *models.RestaurantModel) *restaurant.Restaurant {
	return &restaurant.Restaurant{
		ID:       m.ID,
		Name:     m.Name,
		Address:  m.Address,
		ImageURL: m.ImageURL,
	}
}

func toMenuEntity(m *models.MenuModel) *restaurant.Menu {
	menu := &restaurant.Menu{
		ID:           m.ID,
		RestaurantID: m.RestaurantID,
		Name:         m.Name,
		Price:        m.Price,
		ImageURL:     m.ImageURL,
	}
	if m.Restaurant.ID != 0 {
		menu.Restaurant = toRestaurantEntity(&m.Restaurant)
	}
	return menu
}

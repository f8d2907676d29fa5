package postgres

import (
	"context"
	"fmt"
	"time"

	"restaurant-review-api/internal/domain/favorite"
	"restaurant-review-api/internal/infrastructure/database/postgres/models"
)

type FavoriteRepository struct {
	db *DB
}

func NewFavoriteRepository(db *DB) *FavoriteRepository {
	return &FavoriteRepository{db: db}
}

func (r *FavoriteRepository) AddMenu(ctx context.Context, fav *favorite.MenuFavorite) error {
	if fav.CreatedAt.IsZero() {
		fav.CreatedAt = time.Now()
	}
	row := &models.MenuFavoriteModel{UserID: fav.UserID, MenuID: fav.MenuID, CreatedAt: fav.CreatedAt}
	if err := r.db.DB.WithContext(ctx).Create(row).Error; err != nil {
		if _, dup := uniqueViolation(err); dup {
			return favorite.ErrAlreadyFavorited
		}
		return fmt.Errorf("failed to add menu favorite: %w", err)
	}
	fav.ID = row.ID
	return nil
}

func (r *FavoriteRepository) RemoveMenu(ctx context.Context, userID, menuID uint) error {
	result := r.db.DB.WithContext(ctx).
		Where("user_id = ? AND menu_id = ?", userID, menuID).
		Delete(&models.MenuFavoriteModel{})
	if result.Error != nil {
		return fmt.Errorf("failed to remove menu favorite: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return favorite.ErrFavoriteNotFound
	}
	return nil
}

func (r *FavoriteRepository) IsMenuFavorite(ctx context.Context, userID, menuID uint) (bool, error) {
	var count int64
	err := r.db.DB.WithContext(ctx).Model(&models.MenuFavoriteModel{}).
		Where("user_id = ? AND menu_id = ?", userID, menuID).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check menu favorite: %w", err)
	}
	return count > 0, nil
}

func (r *FavoriteRepository) ListMenus(ctx context.Context, userID uint) ([]*favorite.MenuFavorite, error) {
	var rows []models.MenuFavoriteModel
	err := r.db.DB.WithContext(ctx).
		Preload("Menu.Restaurant").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list menu favorites: %w", err)
	}

	out := make([]*favorite.MenuFavorite, len(rows))
	for i := range rows {
		out[i] = &favorite.MenuFavorite{
			ID:        rows[i].ID,
			UserID:    rows[i].UserID,
			MenuID:    rows[i].MenuID,
			Menu:      toMenuEntity(&rows[i].Menu),
			CreatedAt: rows[i].CreatedAt,
		}
	}
	return out, nil
}

func (r *FavoriteRepository) AddRestaurant(ctx context.Context, fav *favorite.RestaurantFavorite) error {
	if fav.CreatedAt.IsZero() {
		fav.CreatedAt = time.Now()
	}
	row := &models.RestaurantFavoriteModel{UserID: fav.UserID, RestaurantID: fav.RestaurantID, CreatedAt: fav.CreatedAt}
	if err := r.db.DB.WithContext(ctx).Create(row).Error; err != nil {
		if _, dup := uniqueViolation(err); dup {
			return favorite.ErrAlreadyFavorited
		}
		return fmt.Errorf("failed to add restaurant favorite: %w", err)
	}
	fav.ID = row.ID
	return nil
}

func (r *FavoriteRepository) RemoveRestaurant(ctx context.Context, userID, restaurantID uint) error {
	result := r.db.DB.WithContext(ctx).
		Where("user_id = ? AND restaurant_id = ?", userID, restaurantID).
		Delete(&models.RestaurantFavoriteModel{})
	if result.Error != nil {
		return fmt.Errorf("failed to remove restaurant favorite: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return favorite.ErrFavoriteNotFound
	}
	return nil
}

func (r *FavoriteRepository) IsRestaurantFavorite(ctx context.Context, userID, restaurantID uint) (bool, error) {
	var count int64
	err := r.db.DB.WithContext(ctx).Model(&models.RestaurantFavoriteModel{}).
		Where("user_id = ? AND restaurant_id = ?", userID, restaurantID).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check restaurant favorite: %w", err)
	}
	return count > 0, nil
}

func (r *FavoriteRepository) ListRestaurants(ctx context.Context, userID uint) ([]*favorite.RestaurantFavorite, error) {
	var rows []models.RestaurantFavoriteModel
	err := r.db.DB.WithContext(ctx).
		Preload("Restaurant").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list restaurant favorites: %w", err)
	}

	out := make([]*favorite.RestaurantFavorite, len(rows))
	for i := range rows {
		out[i] = &favorite.RestaurantFavorite{
			ID:           rows[i].ID,
			UserID:       rows[i].UserID,
			RestaurantID: rows[i].RestaurantID,
			Restaurant:   toRestaurantEntity(&rows[i].Restaurant),
			CreatedAt:    rows[i].CreatedAt,
		}
	}
	return out, nil
}

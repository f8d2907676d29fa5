package postgres

import (
	"context"
	"fmt"
	"time"

	"restaurant-review-api/internal/domain/saved"
	"restaurant-review-api/internal/infrastructure/database/postgres/models"

	"gorm.io/gorm"
)

// SavedRepository keeps saved menus and saved restaurants in two tables
// behind one saved.Repository.
type SavedRepository struct {
	db *DB
}

func NewSavedRepository(db *DB) *SavedRepository {
	return &SavedRepository{db: db}
}

func (r *SavedRepository) Add(ctx context.Context, item *saved.Item) error {
	if item.CreatedAt.IsZero() {
		item.CreatedAt = time.Now()
	}

	var (
		row any
		id  *uint
	)
	switch item.Kind {
	case saved.KindMenu:
		m := &models.SavedMenuModel{UserID: item.UserID, MenuID: item.TargetID, CreatedAt: item.CreatedAt}
		row, id = m, &m.ID
	case saved.KindRestaurant:
		m := &models.SavedRestaurantModel{UserID: item.UserID, RestaurantID: item.TargetID, CreatedAt: item.CreatedAt}
		row, id = m, &m.ID
	default:
		return saved.ErrUnknownKind
	}

	if err := r.db.DB.WithContext(ctx).Create(row).Error; err != nil {
		if _, dup := uniqueViolation(err); dup {
			return saved.ErrAlreadySaved
		}
		return fmt.Errorf("failed to save %s: %w", item.Kind, err)
	}
	item.ID = *id
	return nil
}

func (r *SavedRepository) Remove(ctx context.Context, userID uint, kind saved.Kind, targetID uint) error {
	scope, model, err := savedScope(r.db.DB.WithContext(ctx), userID, kind, targetID)
	if err != nil {
		return err
	}
	result := scope.Delete(model)
	if result.Error != nil {
		return fmt.Errorf("failed to remove saved %s: %w", kind, result.Error)
	}
	if result.RowsAffected == 0 {
		return saved.ErrNotSaved
	}
	return nil
}

func (r *SavedRepository) Exists(ctx context.Context, userID uint, kind saved.Kind, targetID uint) (bool, error) {
	scope, model, err := savedScope(r.db.DB.WithContext(ctx), userID, kind, targetID)
	if err != nil {
		return false, err
	}
	var count int64
	if err := scope.Model(model).Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to check saved %s: %w", kind, err)
	}
	return count > 0, nil
}

func (r *SavedRepository) List(ctx context.Context, userID uint, kind saved.Kind) ([]*saved.Item, error) {
	q := r.db.DB.WithContext(ctx).Where("user_id = ?", userID).Order("created_at DESC")

	switch kind {
	case saved.KindMenu:
		var rows []models.SavedMenuModel
		if err := q.Preload("Menu.Restaurant").Find(&rows).Error; err != nil {
			return nil, fmt.Errorf("failed to list saved menus: %w", err)
		}
		out := make([]*saved.Item, len(rows))
		for i := range rows {
			out[i] = &saved.Item{
				ID:        rows[i].ID,
				UserID:    rows[i].UserID,
				Kind:      saved.KindMenu,
				TargetID:  rows[i].MenuID,
				Menu:      toMenuEntity(&rows[i].Menu),
				CreatedAt: rows[i].CreatedAt,
			}
		}
		return out, nil
	case saved.KindRestaurant:
		var rows []models.SavedRestaurantModel
		if err := q.Preload("Restaurant").Find(&rows).Error; err != nil {
			return nil, fmt.Errorf("failed to list saved restaurants: %w", err)
		}
		out := make([]*saved.Item, len(rows))
		for i := range rows {
			out[i] = &saved.Item{
				ID:         rows[i].ID,
				UserID:     rows[i].UserID,
				Kind:       saved.KindRestaurant,
				TargetID:   rows[i].RestaurantID,
				Restaurant: toRestaurantEntity(&rows[i].Restaurant),
				CreatedAt:  rows[i].CreatedAt,
			}
		}
		return out, nil
	default:
		return nil, saved.ErrUnknownKind
	}
}

func savedScope(db *gorm.DB, userID uint, kind saved.Kind, targetID uint) (*gorm.DB, any, error) {
	switch kind {
	case saved.KindMenu:
		return db.Where("user_id = ? AND menu_id = ?", userID, targetID), &models.SavedMenuModel{}, nil
	case saved.KindRestaurant:
		return db.Where("user_id = ? AND restaurant_id = ?", userID, targetID), &models.SavedRestaurantModel{}, nil
	default:
		return nil, nil, saved.ErrUnknownKind
	}
}

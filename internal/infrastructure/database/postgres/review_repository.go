package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"restaurant-review-api/internal/domain/review"
	"restaurant-review-api/internal/infrastructure/database/postgres/models"

	"gorm.io/gorm"
)

type ReviewRepository struct {
	db *DB
}

func NewReviewRepository(db *DB) *ReviewRepository {
	return &ReviewRepository{db: db}
}

func (r *ReviewRepository) Create(ctx context.Context, rv *review.Review) error {
	now := time.Now()
	if rv.CreatedAt.IsZero() {
		rv.CreatedAt = now
	}
	rv.UpdatedAt = rv.CreatedAt

	row := &models.ReviewModel{
		UserID:    rv.UserID,
		MenuID:    rv.MenuID,
		Rating:    rv.Rating,
		Comment:   rv.Comment,
		CreatedAt: rv.CreatedAt,
		UpdatedAt: rv.UpdatedAt,
	}
	if err := r.db.DB.WithContext(ctx).Omit("User", "Menu").Create(row).Error; err != nil {
		return fmt.Errorf("failed to create review: %w", err)
	}
	rv.ID = row.ID
	return nil
}

func (r *ReviewRepository) GetByID(ctx context.Context, id uint) (*review.Review, error) {
	var row models.ReviewModel
	err := r.db.DB.WithContext(ctx).Preload("User").First(&row, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, review.ErrReviewNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get review: %w", err)
	}
	return toReviewEntity(&row), nil
}

func (r *ReviewRepository) Update(ctx context.Context, rv *review.Review) error {
	result := r.db.DB.WithContext(ctx).Model(&models.ReviewModel{}).
		Where("id = ?", rv.ID).
		Updates(map[string]any{
			"rating":     rv.Rating,
			"comment":    rv.Comment,
			"updated_at": rv.UpdatedAt,
		})
	if result.Error != nil {
		return fmt.Errorf("failed to update review: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return review.ErrReviewNotFound
	}
	return nil
}

func (r *ReviewRepository) Delete(ctx context.Context, id uint) error {
	result := r.db.DB.WithContext(ctx).Delete(&models.ReviewModel{}, "id = ?", id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete review: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return review.ErrReviewNotFound
	}
	return nil
}

func (r *ReviewRepository) ListByMenu(ctx context.Context, menuID uint, offset, limit int) (*review.Page, error) {
	db := r.db.DB.WithContext(ctx)

	var total int64
	if err := db.Model(&models.ReviewModel{}).Where("menu_id = ?", menuID).Count(&total).Error; err != nil {
		return nil, fmt.Errorf("failed to count reviews: %w", err)
	}

	var rows []models.ReviewModel
	err := db.Preload("User").
		Where("menu_id = ?", menuID).
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list reviews: %w", err)
	}

	page := &review.Page{Reviews: make([]*review.Review, len(rows)), Total: total}
	for i := range rows {
		page.Reviews[i] = toReviewEntity(&rows[i])
	}
	return page, nil
}

func toReviewEntity(m *models.ReviewModel) *review.Review {
	rv := &review.Review{
		ID:        m.ID,
		UserID:    m.UserID,
		MenuID:    m.MenuID,
		Rating:    m.Rating,
		Comment:   m.Comment,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
	if m.User.ID != 0 {
		rv.Author = &review.Author{
			ID:              m.User.ID,
			Username:        m.User.Username,
			FullName:        m.User.FullName,
			ProfileImageURL: m.User.ProfileImageURL,
		}
	}
	return rv
}

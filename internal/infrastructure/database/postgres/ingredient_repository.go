package postgres

import (
	"context"
	"fmt"
	"time"

	"restaurant-review-api/internal/domain/ingredient"
	"restaurant-review-api/internal/infrastructure/database/postgres/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type IngredientRepository struct {
	db *DB
}

func NewIngredientRepository(db *DB) *IngredientRepository {
	return &IngredientRepository{db: db}
}

// Search expects query to be LIKE-escaped already.
func (r *IngredientRepository) Search(ctx context.Context, query string, limit int) ([]*ingredient.Ingredient, error) {
	var dbModels []models.IngredientModel
	q := r.db.DB.WithContext(ctx).Order("name ASC")
	if query != "" {
		q = q.Where("name ILIKE ?", "%"+query+"%")
	}
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&dbModels).Error; err != nil {
		return nil, fmt.Errorf("failed to search ingredients: %w", err)
	}
	return toIngredientEntities(dbModels), nil
}

func (r *IngredientRepository) GetByIDs(ctx context.Context, ids []uint) ([]*ingredient.Ingredient, error) {
	if len(ids) == 0 {
		return []*ingredient.Ingredient{}, nil
	}
	var dbModels []models.IngredientModel
	if err := r.db.DB.WithContext(ctx).Where("id IN ?", ids).Order("name ASC").Find(&dbModels).Error; err != nil {
		return nil, fmt.Errorf("failed to get ingredients: %w", err)
	}
	return toIngredientEntities(dbModels), nil
}

func (r *IngredientRepository) ExistsByID(ctx context.Context, id uint) (bool, error) {
	var count int64
	if err := r.db.DB.WithContext(ctx).Model(&models.IngredientModel{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to check ingredient: %w", err)
	}
	return count > 0, nil
}

func (r *IngredientRepository) ListUserAllergies(ctx context.Context, userID uint) ([]*ingredient.Ingredient, error) {
	var dbModels []models.IngredientModel
	err := r.db.DB.WithContext(ctx).
		Joins("JOIN user_allergies ON user_allergies.ingredient_id = ingredients.id").
		Where("user_allergies.user_id = ?", userID).
		Order("ingredients.name ASC").
		Find(&dbModels).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list allergies: %w", err)
	}
	return toIngredientEntities(dbModels), nil
}

func (r *IngredientRepository) AddUserAllergy(ctx context.Context, userID, ingredientID uint) error {
	row := &models.UserAllergyModel{UserID: userID, IngredientID: ingredientID, CreatedAt: time.Now()}
	err := r.db.DB.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(row).Error
	if err != nil {
		return fmt.Errorf("failed to add allergy: %w", err)
	}
	return nil
}

func (r *IngredientRepository) RemoveUserAllergy(ctx context.Context, userID, ingredientID uint) error {
	err := r.db.DB.WithContext(ctx).
		Where("user_id = ? AND ingredient_id = ?", userID, ingredientID).
		Delete(&models.UserAllergyModel{}).Error
	if err != nil {
		return fmt.Errorf("failed to remove allergy: %w", err)
	}
	return nil
}

func replaceAllergies(tx *gorm.DB, userID uint, ingredientIDs []uint) error {
	if err := tx.Where("user_id = ?", userID).Delete(&models.UserAllergyModel{}).Error; err != nil {
		return fmt.Errorf("failed to clear allergies: %w", err)
	}
	if len(ingredientIDs) == 0 {
		return nil
	}

	now := time.Now()
	rows := make([]models.UserAllergyModel, 0, len(ingredientIDs))
	for _, id := range ingredientIDs {
		rows = append(rows, models.UserAllergyModel{UserID: userID, IngredientID: id, CreatedAt: now})
	}
	if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&rows).Error; err != nil {
		return fmt.Errorf("failed to store allergies: %w", err)
	}
	return nil
}

func toIngredientEntities(dbModels []models.IngredientModel) []*ingredient.Ingredient {
	out := make([]*ingredient.Ingredient, len(dbModels))
	for i, m := range dbModels {
		out[i] = &ingredient.Ingredient{ID: m.ID, Name: m.Name}
	}
	return out
}

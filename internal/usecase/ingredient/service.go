package ingredient

import (
	"context"
	"fmt"

	domainIngredient "restaurant-review-api/internal/domain/ingredient"
	"restaurant-review-api/internal/logger"
	appErrors "restaurant-review-api/pkg/errors"
	"restaurant-review-api/pkg/utils"

	"go.uber.org/zap"
)

type Service struct {
	repo domainIngredient.Repository
}

func NewService(repo domainIngredient.Repository) *Service {
	return &Service{repo: repo}
}

// Search returns up to MaxSearchResults ingredients whose name contains query.
// An empty query lists the first page alphabetically.
func (s *Service) Search(ctx context.Context, query string) ([]IngredientResponse, error) {
	query = utils.SanitizeSearchQuery(query)

	items, err := s.repo.Search(ctx, query, MaxSearchResults)
	if err != nil {
		return nil, fmt.Errorf("failed to search ingredients: %w", err)
	}
	return ToIngredientResponses(items), nil
}

func (s *Service) ListAllergies(ctx context.Context, userID uint) ([]IngredientResponse, error) {
	items, err := s.repo.ListUserAllergies(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list allergies: %w", err)
	}
	return ToIngredientResponses(items), nil
}

func (s *Service) AddAllergy(ctx context.Context, userID uint, req *AllergyRequest) ([]IngredientResponse, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, appErrors.Validation("Invalid input", err)
	}

	exists, err := s.repo.ExistsByID(ctx, req.IngredientID)
	if err != nil {
		return nil, fmt.Errorf("failed to check ingredient: %w", err)
	}
	if !exists {
		return nil, appErrors.ErrIngredientNotFound
	}

	if err := s.repo.AddUserAllergy(ctx, userID, req.IngredientID); err != nil {
		return nil, fmt.Errorf("failed to add allergy: %w", err)
	}

	logger.Info("Allergy added",
		zap.Uint("user_id", userID),
		zap.Uint("ingredient_id", req.IngredientID),
		zap.String("event", "allergy_added"),
	)
	return s.ListAllergies(ctx, userID)
}

// RemoveAllergy succeeds whether or not the allergy was recorded.
func (s *Service) RemoveAllergy(ctx context.Context, userID uint, req *AllergyRequest) ([]IngredientResponse, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, appErrors.Validation("Invalid input", err)
	}

	if err := s.repo.RemoveUserAllergy(ctx, userID, req.IngredientID); err != nil {
		return nil, fmt.Errorf("failed to remove allergy: %w", err)
	}

	logger.Info("Allergy removed",
		zap.Uint("user_id", userID),
		zap.Uint("ingredient_id", req.IngredientID),
		zap.String("event", "allergy_removed"),
	)
	return s.ListAllergies(ctx, userID)
}

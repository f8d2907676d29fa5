package review

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	domainRestaurant "restaurant-review-api/internal/domain/restaurant"
	domainReview "restaurant-review-api/internal/domain/review"
	"restaurant-review-api/internal/logger"
	appErrors "restaurant-review-api/pkg/errors"
	"restaurant-review-api/pkg/utils"

	"go.uber.org/zap"
)

var errEmptyComment = errors.New("comment must not be blank")

// Service handles menu ratings and comments. Only the author may edit or
// delete a review.
type Service struct {
	reviews     domainReview.Repository
	restaurants domainRestaurant.Repository
	now         func() time.Time
}

func NewService(reviews domainReview.Repository, restaurants domainRestaurant.Repository) *Service {
	return &Service{reviews: reviews, restaurants: restaurants, now: time.Now}
}

func (s *Service) ListByMenu(ctx context.Context, menuID uint, page, limit int) (*ListResponse, error) {
	if page < 1 {
		page = 1
	}
	switch {
	case limit <= 0:
		limit = DefaultPageSize
	case limit > MaxPageSize:
		limit = MaxPageSize
	}

	if _, err := s.restaurants.GetMenu(ctx, menuID); err != nil {
		return nil, mapReviewError(err)
	}

	result, err := s.reviews.ListByMenu(ctx, menuID, (page-1)*limit, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list reviews: %w", err)
	}

	resp := &ListResponse{
		Reviews: make([]ReviewResponse, 0, len(result.Reviews)),
		Meta:    PageMeta{Total: result.Total, Page: page, Limit: limit},
	}
	for _, r := range result.Reviews {
		resp.Reviews = append(resp.Reviews, ToReviewResponse(r))
	}
	return resp, nil
}

func (s *Service) Create(ctx context.Context, userID uint, req *CreateRequest) (*ReviewResponse, error) {
	req.Comment = strings.TrimSpace(req.Comment)
	if err := utils.ValidateStruct(req); err != nil {
		return nil, appErrors.Validation("Invalid input", err)
	}

	if _, err := s.restaurants.GetMenu(ctx, req.MenuID); err != nil {
		return nil, mapReviewError(err)
	}

	rv := &domainReview.Review{
		UserID:    userID,
		MenuID:    req.MenuID,
		Rating:    req.Rating,
		Comment:   req.Comment,
		CreatedAt: s.now(),
	}
	if err := s.reviews.Create(ctx, rv); err != nil {
		return nil, err
	}

	logger.Info("Review created",
		zap.Uint("user_id", userID),
		zap.Uint("menu_id", req.MenuID),
		zap.Uint("review_id", rv.ID),
		zap.String("event", "review_created"),
	)

	return s.load(ctx, rv.ID)
}

func (s *Service) Update(ctx context.Context, userID, reviewID uint, req *UpdateRequest) (*ReviewResponse, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, appErrors.Validation("Invalid input", err)
	}
	if req.Comment != nil {
		trimmed := strings.TrimSpace(*req.Comment)
		if trimmed == "" {
			return nil, appErrors.Validation("Invalid input", errEmptyComment)
		}
		req.Comment = &trimmed
	}

	rv, err := s.ownedReview(ctx, userID, reviewID, "update")
	if err != nil {
		return nil, err
	}

	if req.Rating != nil {
		rv.Rating = *req.Rating
	}
	if req.Comment != nil {
		rv.Comment = *req.Comment
	}
	rv.UpdatedAt = s.now()

	if err := s.reviews.Update(ctx, rv); err != nil {
		return nil, mapReviewError(err)
	}

	logger.Info("Review updated",
		zap.Uint("user_id", userID),
		zap.Uint("review_id", reviewID),
		zap.String("event", "review_updated"),
	)
	resp := ToReviewResponse(rv)
	return &resp, nil
}

func (s *Service) Delete(ctx context.Context, userID, reviewID uint) error {
	if _, err := s.ownedReview(ctx, userID, reviewID, "delete"); err != nil {
		return err
	}
	if err := s.reviews.Delete(ctx, reviewID); err != nil {
		return mapReviewError(err)
	}

	logger.Info("Review deleted",
		zap.Uint("user_id", userID),
		zap.Uint("review_id", reviewID),
		zap.String("event", "review_deleted"),
	)
	return nil
}

func (s *Service) ownedReview(ctx context.Context, userID, reviewID uint, action string) (*domainReview.Review, error) {
	rv, err := s.reviews.GetByID(ctx, reviewID)
	if err != nil {
		return nil, mapReviewError(err)
	}
	if !rv.OwnedBy(userID) {
		logger.Warn("Review change rejected: not the author",
			zap.Uint("user_id", userID),
			zap.Uint("review_id", reviewID),
			zap.String("action", action),
			zap.String("event", "review_forbidden"),
		)
		return nil, appErrors.ErrForbidden
	}
	return rv, nil
}

func (s *Service) load(ctx context.Context, reviewID uint) (*ReviewResponse, error) {
	rv, err := s.reviews.GetByID(ctx, reviewID)
	if err != nil {
		return nil, mapReviewError(err)
	}
	resp := ToReviewResponse(rv)
	return &resp, nil
}

func mapReviewError(err error) error {
	switch {
	case errors.Is(err, domainRestaurant.ErrMenuNotFound):
		return appErrors.ErrMenuNotFound
	case errors.Is(err, domainReview.ErrReviewNotFound):
		return appErrors.ErrReviewNotFound
	default:
		return err
	}
}

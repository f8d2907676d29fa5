package review

import (
	"time"

	domainReview "restaurant-review-api/internal/domain/review"
)

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

type CreateRequest struct {
	MenuID  uint   `json:"menu_id" validate:"required,gt=0"`
	Rating  int    `json:"rating" validate:"required,min=1,max=5"`
	Comment string `json:"comment" validate:"required,max=2000"`
}

// UpdateRequest changes only the fields that are present.
type UpdateRequest struct {
	Rating  *int    `json:"rating" validate:"omitempty,min=1,max=5"`
	Comment *string `json:"comment" validate:"omitempty,max=2000"`
}

type AuthorResponse struct {
	ID              uint    `json:"user_id"`
	Username        string  `json:"username"`
	FullName        *string `json:"full_name"`
	ProfileImageURL *string `json:"profile_image_url"`
}

type ReviewResponse struct {
	ID        uint            `json:"review_id"`
	MenuID    uint            `json:"menu_id"`
	Rating    int             `json:"rating"`
	Comment   string          `json:"comment"`
	User      *AuthorResponse `json:"user,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

type PageMeta struct {
	Total int64 `json:"total"`
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
}

type ListResponse struct {
	Reviews []ReviewResponse `json:"reviews"`
	Meta    PageMeta         `json:"meta"`
}

func ToReviewResponse(r *domainReview.Review) ReviewResponse {
	out := ReviewResponse{
		ID:        r.ID,
		MenuID:    r.MenuID,
		Rating:    r.Rating,
		Comment:   r.Comment,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
	if a := r.Author; a != nil {
		out.User = &AuthorResponse{
			ID:              a.ID,
			Username:        a.Username,
			FullName:        a.FullName,
			ProfileImageURL: a.ProfileImageURL,
		}
	}
	return out
}

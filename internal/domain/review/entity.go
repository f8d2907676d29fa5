package review

import "time"

const (
	MinRating = 1
	MaxRating = 5
)

// Author is the public part of the user who wrote a review.
type Author struct {
	ID              uint
	Username        string
	FullName        *string
	ProfileImageURL *string
}

type Review struct {
	ID        uint
	UserID    uint
	MenuID    uint
	Rating    int
	Comment   string
	Author    *Author
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (r *Review) OwnedBy(userID uint) bool {
	return r.UserID == userID
}

// Page is one slice of a menu's reviews plus the total across all pages.
type Page struct {
	Reviews []*Review
	Total   int64
}

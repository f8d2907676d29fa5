package saved

import (
	"time"

	"restaurant-review-api/internal/domain/restaurant"
)

// Kind names what a saved item points at.
type Kind string

const (
	KindMenu       Kind = "menu"
	KindRestaurant Kind = "restaurant"
)

func (k Kind) Valid() bool {
	return k == KindMenu || k == KindRestaurant
}

// Item is one entry of a user's saved list. Exactly one of Menu and
// Restaurant is set when the repository loads the target.
type Item struct {
	ID         uint
	UserID     uint
	Kind       Kind
	TargetID   uint
	Menu       *restaurant.Menu
	Restaurant *restaurant.Restaurant
	CreatedAt  time.Time
}

package restaurant

import "context"

// Repository is the read side of the catalog that other modules reference.
type Repository interface {
	GetRestaurant(ctx context.Context, id uint) (*Restaurant, error)
	GetMenu(ctx context.Context, id uint) (*Menu, error)
}

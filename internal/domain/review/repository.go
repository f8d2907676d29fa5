package review

import "context"

type Repository interface {
	Create(ctx context.Context, r *Review) error
	// GetByID loads the review with its author.
	GetByID(ctx context.Context, id uint) (*Review, error)
	// Update stores rating, comment and updated_at.
	Update(ctx context.Context, r *Review) error
	Delete(ctx context.Context, id uint) error
	// ListByMenu returns newest first, authors loaded.
	ListByMenu(ctx context.Context, menuID uint, offset, limit int) (*Page, error)
}

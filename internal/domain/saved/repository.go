package saved

import "context"

type Repository interface {
	// Add fails with ErrAlreadySaved when the user already saved the target.
	Add(ctx context.Context, item *Item) error
	Remove(ctx context.Context, userID uint, kind Kind, targetID uint) error
	Exists(ctx context.Context, userID uint, kind Kind, targetID uint) (bool, error)
	// List returns the newest items of one kind first, targets loaded.
	List(ctx context.Context, userID uint, kind Kind) ([]*Item, error)
}

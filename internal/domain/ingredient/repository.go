package ingredient

import "context"

type Repository interface {
	// Search matches names case-insensitively and orders them by name.
	Search(ctx context.Context, query string, limit int) ([]*Ingredient, error)
	GetByIDs(ctx context.Context, ids []uint) ([]*Ingredient, error)
	ExistsByID(ctx context.Context, id uint) (bool, error)

	ListUserAllergies(ctx context.Context, userID uint) ([]*Ingredient, error)
	// AddUserAllergy is a no-op when the pair already exists.
	AddUserAllergy(ctx context.Context, userID, ingredientID uint) error
	RemoveUserAllergy(ctx context.Context, userID, ingredientID uint) error
}

package ingredient

import domainIngredient "restaurant-review-api/internal/domain/ingredient"

// MaxSearchResults caps the ingredient search so the picker stays small.
const MaxSearchResults = 20

type AllergyRequest struct {
	IngredientID uint `json:"ingredient_id" validate:"required,gt=0"`
}

type IngredientResponse struct {
	ID   uint   `json:"ingredient_id"`
	Name string `json:"ingredient_name"`
}

func ToIngredientResponses(items []*domainIngredient.Ingredient) []IngredientResponse {
	out := make([]IngredientResponse, 0, len(items))
	for _, it := range items {
		out = append(out, IngredientResponse{ID: it.ID, Name: it.Name})
	}
	return out
}

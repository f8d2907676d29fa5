package ingredient

// Ingredient is a dish component a user can declare an allergy to.
type Ingredient struct {
	ID   uint
	Name string
}

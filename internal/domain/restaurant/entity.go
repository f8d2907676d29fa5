package restaurant

type Restaurant struct {
	ID       uint
	Name     string
	Address  *string
	ImageURL *string
}

type Menu struct {
	ID           uint
	RestaurantID uint
	Name         string
	Price        *float64
	ImageURL     *string
	Restaurant   *Restaurant
}

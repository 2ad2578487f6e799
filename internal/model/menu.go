package model

// MenuItem describes one entry of the static pizza catalog served
// by GET /menu. The catalog is fixed; menu management is out of
// scope for this service.
type MenuItem struct {
	ID          uint64  `json:"id"`
	Name        string  `json:"name"`
	Price       float64 `json:"price"`
	Description string  `json:"description"`
}

// Menu returns the static catalog. A fresh slice is returned on each
// call so callers cannot mutate the shared definition.
func Menu() []MenuItem {
	return []MenuItem{
		{ID: 1, Name: "Margherita", Price: 350, Description: "Tomato sauce, mozzarella, basil"},
		{ID: 2, Name: "Pepperoni", Price: 450, Description: "Tomato sauce, mozzarella, pepperoni"},
		{ID: 3, Name: "Hawaiian", Price: 400, Description: "Tomato sauce, mozzarella, chicken, pineapple"},
		{ID: 4, Name: "Four Cheese", Price: 500, Description: "Cream sauce, mozzarella, parmesan, blue cheese, cheddar"},
	}
}

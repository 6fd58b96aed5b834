package model

// All returns every persisted model, in migration order.
func All() []interface{} {
	return []interface{}{
		&User{},
		&Category{},
		&Subcategory{},
		&Project{},
		&Offer{},
		&ProjectMedia{},
		&Favorite{},
		&Review{},
		&Order{},
	}
}

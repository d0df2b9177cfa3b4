package models

// All lists every persisted model in dependency order. Used by sqlite
// bootstraps and tests; postgres schemas come from goose migrations.
func All() []any {
	return []any{
		&Seller{},
		&SellerAuth{},
		&Store{},
		&Customer{},
		&CustomerAuth{},
		&Product{},
		&Cart{},
		&CartItem{},
		&Order{},
		&OrderItem{},
	}
}

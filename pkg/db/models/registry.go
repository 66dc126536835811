package models

// All lists every model in dependency order, parents first.
func All() []any {
	return []any{
		&User{},
		&Product{},
		&Cart{},
		&CartItem{},
		&UserAddress{},
		&Order{},
		&OrderItem{},
		&Rental{},
		&Fine{},
		&Service{},
		&Booking{},
		&Dispatch{},
		&Inventory{},
		&Payment{},
		&Feedback{},
		&Report{},
		&Contact{},
	}
}

package cart

import "errors"

var (
	// ErrNoCourtBookings возвращается при оформлении корзины без слотов кортов
	ErrNoCourtBookings = errors.New("cart: no court bookings to reserve")
)

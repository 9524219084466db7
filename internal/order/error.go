package order

import "errors"

var (
	// -- Validation & Input --
	ErrInvalidStatus = errors.New("invalid order status")
	ErrEmptyCart     = errors.New("cart is empty")

	// -- Resource State --
	ErrOrderNotFound     = errors.New("order not found")
	ErrInvalidTransition = errors.New("invalid order status transition")
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrNotOwner          = errors.New("order belongs to another user")
)

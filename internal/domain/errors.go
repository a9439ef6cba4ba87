package domain

import "errors"

var (
	ErrEmptyCart         = errors.New("cart is empty")
	ErrMissingAddress    = errors.New("delivery address is required")
	ErrInvalidQuantity   = errors.New("item quantity must be a positive integer")
	ErrProductNotFound   = errors.New("product not found")
	ErrOrderNotFound     = errors.New("order not found")
	ErrForbidden         = errors.New("access denied")
	ErrInvalidTransition = errors.New("order already processed")
	ErrInvalidStatus     = errors.New("unknown order status")
)

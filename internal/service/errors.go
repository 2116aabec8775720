package service

import "errors"

// Validation failures surface immediately to the operator and abort the
// operation; they are the only errors a vendor ever sees. Remote failures
// degrade to the local store instead.
var (
	ErrEmptyCart          = errors.New("cart is empty")
	ErrCustomerRequired   = errors.New("customer name is required")
	ErrDiscountRange      = errors.New("discount must be between 0 and 100")
	ErrInsufficientStock  = errors.New("insufficient stock")
	ErrUnknownStatus      = errors.New("unknown order status")
	ErrBackwardTransition = errors.New("order status can only move forward")
)

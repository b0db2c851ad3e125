package checkout

import "errors"

var (
	ErrEmptyCart		= errors.New("cart is empty, nothing to checkout")
	ErrSessionNotFound	= errors.New("checkout session not found")
	ErrAddressRequired	= errors.New("shipping address must be submitted before payment")
	ErrIllegalTransition	= errors.New("illegal transition of checkout status")
	ErrSessionOwnerMismatch	= errors.New("checkout session belongs to another user")
)

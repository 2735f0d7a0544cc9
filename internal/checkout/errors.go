package checkout

import "errors"

var (
	ErrEmptyCart          = errors.New("cart is empty, nothing to checkout")
	ErrIllegalTransition  = errors.New("illegal transition of checkout status")
	ErrPaymentInFlight    = errors.New("a payment is already in progress for this cart")
	ErrOrchestratorClosed = errors.New("checkout session is closed")
)

package payment

import "errors"

var (
	ErrNotConfigured      = errors.New("payment gateway public key not configured")
	ErrInvalidAmount      = errors.New("invalid amount: amount must convert to a positive whole number of minor units")
	ErrGatewayUnreachable = errors.New("payment gateway unreachable")
	ErrDeclined           = errors.New("payment declined by gateway")
	ErrUnknownReference   = errors.New("unknown payment reference")
	ErrUnverified         = errors.New("payment could not be verified with the gateway")
)

// DefaultDeclineMessage is used when the gateway reports a failure without a message.
const DefaultDeclineMessage = "Payment failed"

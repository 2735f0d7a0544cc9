package domain

type CheckoutStatus string

const (
	CheckoutStatusIdle                 CheckoutStatus = "IDLE"
	CheckoutStatusAwaitingCustomerInfo CheckoutStatus = "AWAITING_CUSTOMER_INFO"
	CheckoutStatusAwaitingPayment      CheckoutStatus = "AWAITING_PAYMENT"
	CheckoutStatusSettledSuccess       CheckoutStatus = "SETTLED_SUCCESS"
	CheckoutStatusSettledFailed        CheckoutStatus = "SETTLED_FAILED"
	CheckoutStatusCancelled            CheckoutStatus = "CANCELLED"
)

var transitions = map[CheckoutStatus][]CheckoutStatus{
	CheckoutStatusIdle:                 {CheckoutStatusAwaitingCustomerInfo},
	CheckoutStatusAwaitingCustomerInfo: {CheckoutStatusAwaitingPayment, CheckoutStatusIdle},
	CheckoutStatusAwaitingPayment:      {CheckoutStatusSettledSuccess, CheckoutStatusSettledFailed, CheckoutStatusCancelled},
	CheckoutStatusSettledFailed:        {CheckoutStatusAwaitingCustomerInfo},
	CheckoutStatusCancelled:            {CheckoutStatusAwaitingCustomerInfo},
	CheckoutStatusSettledSuccess:       {CheckoutStatusAwaitingCustomerInfo, CheckoutStatusIdle},
}

func CanTransitionTo(from, to CheckoutStatus) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// IsTransient reports states that are left again as soon as they are entered.
func (s CheckoutStatus) IsTransient() bool {
	return s == CheckoutStatusSettledFailed || s == CheckoutStatusCancelled
}

// String representation (for logging)
func (s CheckoutStatus) String() string {
	return string(s)
}

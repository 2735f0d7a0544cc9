package domain

type PaymentStatus string

const (
	PaymentSuccess   PaymentStatus = "success"
	PaymentFailed    PaymentStatus = "failed"
	PaymentAbandoned PaymentStatus = "abandoned"
)

// PaymentResult is the normalized outcome of one payment attempt.
type PaymentResult struct {
	Status        PaymentStatus `json:"status"`
	Reference     string        `json:"reference,omitempty"`
	TransactionID string        `json:"transaction_id,omitempty"`
	Message       string        `json:"message,omitempty"`
	Err           error         `json:"-"`
}

func Succeeded(reference, transactionID string) PaymentResult {
	return PaymentResult{Status: PaymentSuccess, Reference: reference, TransactionID: transactionID}
}

func Failed(reference string, err error) PaymentResult {
	return PaymentResult{Status: PaymentFailed, Reference: reference, Message: err.Error(), Err: err}
}

func Abandoned(reference string) PaymentResult {
	return PaymentResult{Status: PaymentAbandoned, Reference: reference}
}

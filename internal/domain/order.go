package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type OrderItem struct {
	ProductID   string          `json:"product_id"`
	ProductName string          `json:"product_name"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Subtotal    decimal.Decimal `json:"subtotal"`
}

// CompletedCheckout is handed to the order backend after a successful payment.
type CompletedCheckout struct {
	OrderID       string          `json:"order_id"`
	SessionID     string          `json:"session_id"`
	Reference     string          `json:"reference"`
	TransactionID string          `json:"transaction_id"`
	Customer      CustomerInfo    `json:"customer"`
	Items         []OrderItem     `json:"items"`
	TotalAmount   decimal.Decimal `json:"total_amount"`
	Currency      string          `json:"currency"`
	CompletedAt   time.Time       `json:"completed_at"`
}

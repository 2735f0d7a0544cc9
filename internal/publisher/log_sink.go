package publisher

import (
	"context"

	d "github.com/Abu-Issam/buyshea-connect/internal/domain"
	"go.uber.org/zap"
)

// LogSink records completed checkouts in the log. It is used when no broker
// is configured.
type LogSink struct {
	logger *zap.Logger
}

func NewLogSink(logger *zap.Logger) *LogSink {
	return &LogSink{logger: logger}
}

func (s *LogSink) HandOff(_ context.Context, order d.CompletedCheckout) error {
	s.logger.Info("checkout completed",
		zap.String("order_id", order.OrderID),
		zap.String("session_id", order.SessionID),
		zap.String("reference", order.Reference),
		zap.String("transaction_id", order.TransactionID),
		zap.Int("items", len(order.Items)),
		zap.String("total", order.TotalAmount.StringFixed(2)),
		zap.String("currency", order.Currency))
	return nil
}

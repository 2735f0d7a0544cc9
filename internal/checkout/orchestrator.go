package checkout

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/Abu-Issam/buyshea-connect/internal/cart"
	d "github.com/Abu-Issam/buyshea-connect/internal/domain"
	"github.com/Abu-Issam/buyshea-connect/internal/payment"
	"github.com/Abu-Issam/buyshea-connect/internal/validation"
	"go.uber.org/zap"
)

const (
	SuccessTitle       = "Order placed successfully!"
	SuccessDescription = "We'll send you an email with your order details."
	FailureTitle       = "Payment failed"
	CancelTitle        = "Payment cancelled"
	CancelDescription  = "Your cart has been kept. You can try again whenever you're ready."
	HandOffTitle       = "Failed to process order"
	HandOffDescription = "Your payment was successful but we couldn't create your order. Please contact support."
)

// OrderSink receives a checkout once its payment has succeeded.
type OrderSink interface {
	HandOff(ctx context.Context, order d.CompletedCheckout) error
}

type Deps struct {
	SessionID string
	Cart      *cart.Cart
	Payments  payment.Initiator
	Notifier  d.Notifier
	Sink      OrderSink
	Logger    *zap.Logger
	Currency  string
	// HandOffTimeout bounds a single OrderSink call.
	HandOffTimeout time.Duration
}

// Snapshot is the pollable view of one checkout.
type Snapshot struct {
	Status           d.CheckoutStatus `json:"status"`
	AttemptID        uint64           `json:"attempt_id,omitempty"`
	Reference        string           `json:"reference,omitempty"`
	AuthorizationURL string           `json:"authorization_url,omitempty"`
	Options          *payment.Options `json:"options,omitempty"`
	Customer         *d.CustomerInfo  `json:"customer,omitempty"`
	LastResult       *d.PaymentResult `json:"last_result,omitempty"`
	OrderID          string           `json:"order_id,omitempty"`
	Totals           d.Totals         `json:"totals"`
}

// Orchestrator runs the checkout state machine of one cart session. At most
// one payment attempt is in flight; results from older attempts are dropped.
type Orchestrator struct {
	deps Deps
	now  func() time.Time

	mu         sync.Mutex
	status     d.CheckoutStatus
	customer   *d.CustomerInfo
	attempt    *payment.Attempt
	snapshot   cartSnapshot
	orderID    string
	lastResult *d.PaymentResult
	closed     bool

	done chan struct{}
	wg   sync.WaitGroup
}

func New(deps Deps) *Orchestrator {
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	if deps.HandOffTimeout <= 0 {
		deps.HandOffTimeout = 10 * time.Second
	}
	return &Orchestrator{
		deps:   deps,
		now:    time.Now,
		status: d.CheckoutStatusIdle,
		done:   make(chan struct{}),
	}
}

func (o *Orchestrator) Status() d.CheckoutStatus {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.status
}

// Proceed reveals the customer form.
func (o *Orchestrator) Proceed() error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.status == d.CheckoutStatusAwaitingCustomerInfo {
		return nil
	}
	if !d.CanTransitionTo(o.status, d.CheckoutStatusAwaitingCustomerInfo) {
		return fmt.Errorf("%w: %s -> %s", ErrIllegalTransition, o.status, d.CheckoutStatusAwaitingCustomerInfo)
	}
	if o.deps.Cart.Len() == 0 {
		return ErrEmptyCart
	}
	return o.transitionLocked(d.CheckoutStatusAwaitingCustomerInfo)
}

// Back returns to the cart and discards entered customer info.
func (o *Orchestrator) Back() error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if err := o.transitionLocked(d.CheckoutStatusIdle); err != nil {
		return err
	}
	o.customer = nil
	return nil
}

// Submit validates the customer and starts a payment for the current cart.
// Field problems come back as validation.FieldErrors. The payment is initiated
// without holding the checkout lock.
func (o *Orchestrator) Submit(ctx context.Context, in validation.CustomerInput) (*payment.Attempt, error) {
	o.mu.Lock()

	if o.closed {
		o.mu.Unlock()
		return nil, ErrOrchestratorClosed
	}
	if o.status == d.CheckoutStatusAwaitingPayment {
		o.mu.Unlock()
		return nil, ErrPaymentInFlight
	}
	if !d.CanTransitionTo(o.status, d.CheckoutStatusAwaitingPayment) {
		from := o.status
		o.mu.Unlock()
		return nil, fmt.Errorf("%w: %s -> %s", ErrIllegalTransition, from, d.CheckoutStatusAwaitingPayment)
	}

	customer, fe := validation.ValidateCustomer(in)
	if !fe.Valid() {
		o.mu.Unlock()
		return nil, fe
	}

	lines := o.deps.Cart.Lines()
	if len(lines) == 0 {
		o.mu.Unlock()
		return nil, ErrEmptyCart
	}

	now := o.now()
	totals := cart.ComputeTotals(lines)
	amount := totals.Total.Round(2)
	snap := takeSnapshot(lines, amount, now)
	id := orderID(now)

	// AwaitingPayment with no attempt yet: concurrent submits and cart edits
	// are refused until the attempt is attached.
	o.status = d.CheckoutStatusAwaitingPayment
	o.customer = &customer
	o.attempt = nil
	o.snapshot = snap
	o.orderID = id
	o.lastResult = nil
	o.mu.Unlock()

	att := o.deps.Payments.Initiate(ctx, payment.Request{
		Owner:    o.deps.SessionID,
		Amount:   amount,
		Email:    customer.Email,
		Name:     customer.Name,
		Phone:    customer.Phone,
		Metadata: buildMetadata(id, customer, snap),
	})

	o.mu.Lock()
	if o.closed {
		o.mu.Unlock()
		att.Cancel()
		return nil, ErrOrchestratorClosed
	}
	o.attempt = att
	o.wg.Add(1)
	o.mu.Unlock()

	o.deps.Logger.Info("checkout submitted",
		zap.String("session_id", o.deps.SessionID),
		zap.String("order_id", id),
		zap.Uint64("attempt_id", att.ID),
		zap.String("reference", att.Reference),
		zap.String("amount", amount.StringFixed(2)))

	go o.await(att)

	return att, nil
}

// EditCart runs fn against the cart unless a payment is in flight. Settlement
// clears the cart under the same lock.
func (o *Orchestrator) EditCart(fn func(c *cart.Cart)) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.status == d.CheckoutStatusAwaitingPayment {
		return ErrPaymentInFlight
	}
	fn(o.deps.Cart)
	return nil
}

func (o *Orchestrator) Snapshot() Snapshot {
	o.mu.Lock()
	defer o.mu.Unlock()

	s := Snapshot{
		Status:     o.status,
		Customer:   o.customer,
		LastResult: o.lastResult,
		OrderID:    o.orderID,
		Totals:     o.deps.Cart.Totals(),
	}
	if o.attempt != nil {
		s.AttemptID = o.attempt.ID
		s.Reference = o.attempt.Reference
		if h, ok := o.attempt.Handle(); ok {
			s.AuthorizationURL = h.AuthorizationURL
			opts := h.Options
			s.Options = &opts
		}
	}
	return s
}

// Close stops waiting on outstanding attempts and releases their widget
// sessions. Late results are dropped.
func (o *Orchestrator) Close() {
	o.mu.Lock()
	if o.closed {
		o.mu.Unlock()
		return
	}
	o.closed = true
	close(o.done)
	att := o.attempt
	o.mu.Unlock()

	if att != nil {
		att.Cancel()
	}
	o.wg.Wait()
}

func (o *Orchestrator) await(att *payment.Attempt) {
	defer o.wg.Done()

	select {
	case r := <-att.Done():
		o.settle(att, r)
	case <-o.done:
	}
}

func (o *Orchestrator) settle(att *payment.Attempt, r d.PaymentResult) {
	o.mu.Lock()

	if o.attempt == nil || o.attempt.ID != att.ID || o.status != d.CheckoutStatusAwaitingPayment {
		current := uint64(0)
		if o.attempt != nil {
			current = o.attempt.ID
		}
		o.mu.Unlock()
		o.deps.Logger.Warn("ignoring stale payment result",
			zap.String("session_id", o.deps.SessionID),
			zap.Uint64("attempt_id", att.ID),
			zap.Uint64("current_attempt_id", current),
			zap.String("status", string(r.Status)))
		return
	}

	o.lastResult = &r
	logger := o.deps.Logger.With(
		zap.String("session_id", o.deps.SessionID),
		zap.Uint64("attempt_id", att.ID),
		zap.String("reference", r.Reference))

	switch r.Status {
	case d.PaymentSuccess:
		o.deps.Cart.Clear()
		o.notify(d.NotificationSuccess, SuccessTitle, SuccessDescription)
		o.status = d.CheckoutStatusSettledSuccess
		order := o.completedLocked(r)
		o.mu.Unlock()

		logger.Info("payment succeeded", zap.String("transaction_id", r.TransactionID))
		o.handOff(order, logger)
		return

	case d.PaymentAbandoned:
		o.status = d.CheckoutStatusCancelled
		o.notify(d.NotificationInfo, CancelTitle, CancelDescription)
		o.status = d.CheckoutStatusAwaitingCustomerInfo
		logger.Info("payment cancelled by customer")

	default:
		o.status = d.CheckoutStatusSettledFailed
		o.notify(d.NotificationError, FailureTitle, r.Message)
		o.status = d.CheckoutStatusAwaitingCustomerInfo
		logger.Warn("payment failed", zap.String("message", r.Message), zap.Error(r.Err))
	}
	o.mu.Unlock()
}

func (o *Orchestrator) completedLocked(r d.PaymentResult) d.CompletedCheckout {
	order := d.CompletedCheckout{
		OrderID:       o.orderID,
		SessionID:     o.deps.SessionID,
		Reference:     r.Reference,
		TransactionID: r.TransactionID,
		Items:         o.snapshot.Items,
		TotalAmount:   o.snapshot.Total,
		Currency:      o.deps.Currency,
		CompletedAt:   o.now(),
	}
	if o.customer != nil {
		order.Customer = *o.customer
	}
	return order
}

func (o *Orchestrator) handOff(order d.CompletedCheckout, logger *zap.Logger) {
	if o.deps.Sink == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), o.deps.HandOffTimeout)
	defer cancel()

	if err := o.deps.Sink.HandOff(ctx, order); err != nil {
		logger.Error("order hand-off failed", zap.String("order_id", order.OrderID), zap.Error(err))
		o.notify(d.NotificationError, HandOffTitle, HandOffDescription)
	}
}

func (o *Orchestrator) transitionLocked(to d.CheckoutStatus) error {
	if !d.CanTransitionTo(o.status, to) {
		return fmt.Errorf("%w: %s -> %s", ErrIllegalTransition, o.status, to)
	}
	o.status = to
	return nil
}

func (o *Orchestrator) notify(level d.NotificationLevel, title, description string) {
	if o.deps.Notifier == nil {
		return
	}
	o.deps.Notifier.Notify(d.Notification{
		Level:       level,
		Title:       title,
		Description: description,
		CreatedAt:   o.now(),
	})
}

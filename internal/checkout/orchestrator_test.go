package checkout

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/Abu-Issam/buyshea-connect/internal/cart"
	d "github.com/Abu-Issam/buyshea-connect/internal/domain"
	"github.com/Abu-Issam/buyshea-connect/internal/notify"
	"github.com/Abu-Issam/buyshea-connect/internal/payment"
	"github.com/Abu-Issam/buyshea-connect/internal/validation"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type okScript struct{}

func (okScript) Load(context.Context) error { return nil }

type mockSink struct {
	mu     sync.Mutex
	orders []d.CompletedCheckout
	err    error
}

func (m *mockSink) HandOff(_ context.Context, order d.CompletedCheckout) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.orders = append(m.orders, order)
	return m.err
}

func (m *mockSink) received() []d.CompletedCheckout {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]d.CompletedCheckout(nil), m.orders...)
}

type fixture struct {
	cart     *cart.Cart
	queue    *notify.Queue
	registry *payment.Registry
	sink     *mockSink
	orch     *Orchestrator
}

func newFixture(t *testing.T, publicKey string) *fixture {
	t.Helper()

	queue := notify.NewQueue(0)
	c := cart.New(queue)
	registry := payment.NewRegistry()
	adapter := payment.NewAdapter(payment.Config{
		PublicKey:  publicKey,
		Currency:   "GHS",
		Channels:   []string{"card", "mobile_money", "bank_transfer"},
		PaymentFor: "BuyShea Products",
	}, okScript{}, payment.NewInlineWidget(registry), zap.NewNop())
	sink := &mockSink{}

	orch := New(Deps{
		SessionID: "session-1",
		Cart:      c,
		Payments:  adapter,
		Notifier:  queue,
		Sink:      sink,
		Logger:    zap.NewNop(),
		Currency:  "GHS",
	})
	t.Cleanup(orch.Close)

	return &fixture{cart: c, queue: queue, registry: registry, sink: sink, orch: orch}
}

func product(id, name, price string) d.Product {
	return d.Product{ID: id, Name: name, Price: decimal.RequireFromString(price), Images: []string{"/x.jpg"}}
}

func (f *fixture) fillCart() {
	f.cart.AddOrIncrement(product("1", "Pure Organic Shea Butter", "89.99"), 1)
	f.cart.AddOrIncrement(product("3", "Shea & Vanilla Body Cream", "65.99"), 1)
}

var validCustomer = validation.CustomerInput{Name: "Ama Mensah", Email: "ama@example.com", Phone: "0244000000"}

func opened(t *testing.T, att *payment.Attempt) payment.Handle {
	t.Helper()
	var h payment.Handle
	require.Eventually(t, func() bool {
		var ok bool
		h, ok = att.Handle()
		return ok
	}, 2*time.Second, 5*time.Millisecond)
	return h
}

func waitStatus(t *testing.T, o *Orchestrator, want d.CheckoutStatus) {
	t.Helper()
	require.Eventually(t, func() bool { return o.Status() == want }, 2*time.Second, 5*time.Millisecond,
		"status never reached %s", want)
}

func TestProceed_RefusesEmptyCart(t *testing.T) {
	f := newFixture(t, "pk_test")

	assert.ErrorIs(t, f.orch.Proceed(), ErrEmptyCart)
	assert.Equal(t, d.CheckoutStatusIdle, f.orch.Status())
}

func TestSubmit_RequiresCustomerStep(t *testing.T) {
	f := newFixture(t, "pk_test")
	f.fillCart()

	_, err := f.orch.Submit(context.Background(), validCustomer)
	assert.ErrorIs(t, err, ErrIllegalTransition)
}

func TestSubmit_InvalidCustomer(t *testing.T) {
	f := newFixture(t, "pk_test")
	f.fillCart()
	require.NoError(t, f.orch.Proceed())

	_, err := f.orch.Submit(context.Background(), validation.CustomerInput{Name: "Al", Email: "not-an-email"})

	var fe validation.FieldErrors
	require.True(t, errors.As(err, &fe))
	assert.Contains(t, fe, "name")
	assert.Contains(t, fe, "email")
	assert.Equal(t, d.CheckoutStatusAwaitingCustomerInfo, f.orch.Status())
	assert.Zero(t, f.registry.Len())
}

func TestCheckout_Success(t *testing.T) {
	f := newFixture(t, "pk_test")
	f.fillCart()
	require.NoError(t, f.orch.Proceed())

	att, err := f.orch.Submit(context.Background(), validCustomer)
	require.NoError(t, err)
	assert.Equal(t, d.CheckoutStatusAwaitingPayment, f.orch.Status())

	h := opened(t, att)
	assert.Equal(t, int64(15598), h.Options.Amount)
	assert.Equal(t, "Ama", h.Options.FirstName)
	assert.Equal(t, "Mensah", h.Options.LastName)

	fields := h.Options.Metadata.CustomFields
	require.Len(t, fields, 5)
	assert.Equal(t, "payment_for", fields[0].VariableName)
	assert.Equal(t, "order_id", fields[1].VariableName)
	assert.Regexp(t, `^ORDER_\d+$`, fields[1].Value)
	assert.Equal(t, 2, fields[2].Value)
	assert.Equal(t, "Ama Mensah", fields[3].Value)
	items := fields[4].Value.([]CartItemMeta)
	assert.Equal(t, CartItemMeta{ID: "1", Name: "Pure Organic Shea Butter", Quantity: 1, Price: 89.99}, items[0])

	snap := f.orch.Snapshot()
	assert.Equal(t, att.Reference, snap.Reference)
	require.NotNil(t, snap.Options)

	require.NoError(t, f.registry.Deliver(context.Background(), "session-1", payment.CallbackResponse{
		Reference: att.Reference, Status: "success", Transaction: "4099260516", TrxRef: att.Reference,
	}))
	waitStatus(t, f.orch, d.CheckoutStatusSettledSuccess)

	assert.Empty(t, f.cart.Lines())

	notes := f.queue.Drain()
	require.NotEmpty(t, notes)
	assert.Equal(t, d.NotificationSuccess, notes[0].Level)
	assert.Equal(t, SuccessTitle, notes[0].Title)
	assert.Equal(t, SuccessDescription, notes[0].Description)

	require.Eventually(t, func() bool { return len(f.sink.received()) == 1 }, time.Second, 5*time.Millisecond)
	order := f.sink.received()[0]
	assert.Equal(t, "4099260516", order.TransactionID)
	assert.Equal(t, att.Reference, order.Reference)
	assert.Equal(t, "session-1", order.SessionID)
	assert.Equal(t, "GHS", order.Currency)
	assert.Equal(t, "ama@example.com", order.Customer.Email)
	assert.Len(t, order.Items, 2)
	assert.True(t, order.TotalAmount.Equal(decimal.RequireFromString("155.98")))

	last := f.orch.Snapshot().LastResult
	require.NotNil(t, last)
	assert.Equal(t, d.PaymentSuccess, last.Status)
}

func TestSubmit_SecondSubmitWhileInFlight(t *testing.T) {
	f := newFixture(t, "pk_test")
	f.fillCart()
	require.NoError(t, f.orch.Proceed())

	att, err := f.orch.Submit(context.Background(), validCustomer)
	require.NoError(t, err)
	opened(t, att)

	_, err = f.orch.Submit(context.Background(), validCustomer)
	assert.ErrorIs(t, err, ErrPaymentInFlight)
	assert.ErrorIs(t, f.orch.Back(), ErrIllegalTransition)
	assert.Equal(t, d.CheckoutStatusAwaitingPayment, f.orch.Status())
}

func TestCheckout_FailureKeepsCart(t *testing.T) {
	f := newFixture(t, "pk_test")
	f.fillCart()
	require.NoError(t, f.orch.Proceed())
	before := f.cart.Lines()

	att, err := f.orch.Submit(context.Background(), validCustomer)
	require.NoError(t, err)
	opened(t, att)

	require.NoError(t, f.registry.Deliver(context.Background(), "session-1", payment.CallbackResponse{Reference: att.Reference, Status: "failed", Message: "Declined"}))
	waitStatus(t, f.orch, d.CheckoutStatusAwaitingCustomerInfo)

	assert.Equal(t, before, f.cart.Lines())
	notes := f.queue.Drain()
	require.Len(t, notes, 1)
	assert.Equal(t, d.NotificationError, notes[0].Level)
	assert.Equal(t, FailureTitle, notes[0].Title)
	assert.Equal(t, "Declined", notes[0].Description)
	assert.Empty(t, f.sink.received())

	att2, err := f.orch.Submit(context.Background(), validCustomer)
	require.NoError(t, err)
	assert.Greater(t, att2.ID, att.ID)
}

func TestCheckout_CancelKeepsCart(t *testing.T) {
	f := newFixture(t, "pk_test")
	f.fillCart()
	require.NoError(t, f.orch.Proceed())

	att, err := f.orch.Submit(context.Background(), validCustomer)
	require.NoError(t, err)
	opened(t, att)

	require.NoError(t, f.registry.Close("session-1", att.Reference))
	waitStatus(t, f.orch, d.CheckoutStatusAwaitingCustomerInfo)

	assert.Len(t, f.cart.Lines(), 2)
	notes := f.queue.Drain()
	require.Len(t, notes, 1)
	assert.Equal(t, d.NotificationInfo, notes[0].Level)
	assert.Equal(t, CancelTitle, notes[0].Title)

	// a late success for the closed widget has nowhere to go
	assert.ErrorIs(t, f.registry.Deliver(context.Background(), "session-1", payment.CallbackResponse{Reference: att.Reference, Status: "success"}),
		payment.ErrUnknownReference)
}

func TestCheckout_MissingKeyFailsFast(t *testing.T) {
	f := newFixture(t, "")
	f.fillCart()
	require.NoError(t, f.orch.Proceed())

	_, err := f.orch.Submit(context.Background(), validCustomer)
	require.NoError(t, err)
	waitStatus(t, f.orch, d.CheckoutStatusAwaitingCustomerInfo)

	last := f.orch.Snapshot().LastResult
	require.NotNil(t, last)
	assert.ErrorIs(t, last.Err, payment.ErrNotConfigured)
	assert.Len(t, f.cart.Lines(), 2)
}

func TestBack(t *testing.T) {
	f := newFixture(t, "pk_test")
	f.fillCart()

	assert.ErrorIs(t, f.orch.Back(), ErrIllegalTransition)

	require.NoError(t, f.orch.Proceed())
	require.NoError(t, f.orch.Proceed())
	require.NoError(t, f.orch.Back())

	assert.Equal(t, d.CheckoutStatusIdle, f.orch.Status())
	assert.Len(t, f.cart.Lines(), 2)
	assert.Nil(t, f.orch.Snapshot().Customer)
}

func TestSettle_IgnoresStaleAttempt(t *testing.T) {
	f := newFixture(t, "pk_test")
	f.fillCart()
	require.NoError(t, f.orch.Proceed())

	att, err := f.orch.Submit(context.Background(), validCustomer)
	require.NoError(t, err)
	opened(t, att)

	f.orch.settle(&payment.Attempt{ID: att.ID + 100, Reference: "ref_old"}, d.Succeeded("ref_old", "T-old"))

	assert.Equal(t, d.CheckoutStatusAwaitingPayment, f.orch.Status())
	assert.Len(t, f.cart.Lines(), 2)
	assert.Empty(t, f.queue.Peek())
}

func TestCheckout_HandOffFailureNotifies(t *testing.T) {
	f := newFixture(t, "pk_test")
	f.sink.err = errors.New("broker down")
	f.fillCart()
	require.NoError(t, f.orch.Proceed())

	att, err := f.orch.Submit(context.Background(), validCustomer)
	require.NoError(t, err)
	opened(t, att)
	require.NoError(t, f.registry.Deliver(context.Background(), "session-1", payment.CallbackResponse{Reference: att.Reference, Status: "success"}))

	require.Eventually(t, func() bool { return len(f.queue.Peek()) == 2 }, 2*time.Second, 5*time.Millisecond)
	notes := f.queue.Drain()
	assert.Equal(t, SuccessTitle, notes[0].Title)
	assert.Equal(t, HandOffTitle, notes[1].Title)
	assert.Equal(t, d.CheckoutStatusSettledSuccess, f.orch.Status())
}

func TestProceed_AfterSuccessNeedsNewItems(t *testing.T) {
	f := newFixture(t, "pk_test")
	f.fillCart()
	require.NoError(t, f.orch.Proceed())

	att, err := f.orch.Submit(context.Background(), validCustomer)
	require.NoError(t, err)
	opened(t, att)
	require.NoError(t, f.registry.Deliver(context.Background(), "session-1", payment.CallbackResponse{Reference: att.Reference, Status: "success"}))
	waitStatus(t, f.orch, d.CheckoutStatusSettledSuccess)

	assert.ErrorIs(t, f.orch.Proceed(), ErrEmptyCart)

	f.cart.AddOrIncrement(product("2", "Lavender Infused Shea Soap", "35.99"), 1)
	require.NoError(t, f.orch.Proceed())
	assert.Equal(t, d.CheckoutStatusAwaitingCustomerInfo, f.orch.Status())
}

func TestClose_DropsLateResults(t *testing.T) {
	f := newFixture(t, "pk_test")
	f.fillCart()
	require.NoError(t, f.orch.Proceed())

	att, err := f.orch.Submit(context.Background(), validCustomer)
	require.NoError(t, err)
	opened(t, att)

	require.Equal(t, 1, f.registry.Len())

	f.orch.Close()
	require.Eventually(t, func() bool { return f.registry.Len() == 0 }, 2*time.Second, 5*time.Millisecond)
	assert.ErrorIs(t, f.registry.Deliver(context.Background(), "session-1", payment.CallbackResponse{Reference: att.Reference, Status: "success"}),
		payment.ErrUnknownReference)

	assert.Equal(t, d.CheckoutStatusAwaitingPayment, f.orch.Status())
	assert.Len(t, f.cart.Lines(), 2)

	_, err = f.orch.Submit(context.Background(), validCustomer)
	assert.ErrorIs(t, err, ErrOrchestratorClosed)
}

func TestCheckout_CallbackFromOtherSessionIgnored(t *testing.T) {
	f := newFixture(t, "pk_test")
	f.fillCart()
	require.NoError(t, f.orch.Proceed())

	att, err := f.orch.Submit(context.Background(), validCustomer)
	require.NoError(t, err)
	opened(t, att)

	assert.ErrorIs(t, f.registry.Deliver(context.Background(), "session-2", payment.CallbackResponse{Reference: att.Reference, Status: "success"}),
		payment.ErrUnknownReference)
	assert.ErrorIs(t, f.registry.Close("", att.Reference), payment.ErrUnknownReference)

	assert.Equal(t, d.CheckoutStatusAwaitingPayment, f.orch.Status())
	assert.Len(t, f.cart.Lines(), 2)
	assert.Equal(t, 1, f.registry.Len())
}

// gatedInitiator blocks in Initiate until release is closed.
type gatedInitiator struct {
	entered chan struct{}
	release chan struct{}
}

func (g *gatedInitiator) Initiate(_ context.Context, _ payment.Request) *payment.Attempt {
	close(g.entered)
	<-g.release
	return &payment.Attempt{ID: 1, Reference: "ref_gated"}
}

func newGatedFixture(t *testing.T) (*fixture, *gatedInitiator) {
	t.Helper()
	queue := notify.NewQueue(0)
	c := cart.New(queue)
	gate := &gatedInitiator{entered: make(chan struct{}), release: make(chan struct{})}
	orch := New(Deps{SessionID: "session-1", Cart: c, Payments: gate, Notifier: queue, Logger: zap.NewNop()})
	f := &fixture{cart: c, queue: queue, orch: orch}
	f.fillCart()
	require.NoError(t, orch.Proceed())
	return f, gate
}

func TestSubmit_InitiateRunsWithoutLock(t *testing.T) {
	f, gate := newGatedFixture(t)

	submitted := make(chan error, 1)
	go func() {
		_, err := f.orch.Submit(context.Background(), validCustomer)
		submitted <- err
	}()
	<-gate.entered

	read := make(chan Snapshot, 1)
	go func() { read <- f.orch.Snapshot() }()
	select {
	case snap := <-read:
		assert.Equal(t, d.CheckoutStatusAwaitingPayment, snap.Status)
		assert.Zero(t, snap.AttemptID)
	case <-time.After(time.Second):
		t.Fatal("snapshot blocked while the payment was being initiated")
	}

	_, err := f.orch.Submit(context.Background(), validCustomer)
	assert.ErrorIs(t, err, ErrPaymentInFlight)

	close(gate.release)
	require.NoError(t, <-submitted)
	assert.Equal(t, "ref_gated", f.orch.Snapshot().Reference)
	f.orch.Close()
}

func TestSubmit_ClosedDuringInitiate(t *testing.T) {
	f, gate := newGatedFixture(t)

	submitted := make(chan error, 1)
	go func() {
		_, err := f.orch.Submit(context.Background(), validCustomer)
		submitted <- err
	}()
	<-gate.entered

	f.orch.Close()
	close(gate.release)
	assert.ErrorIs(t, <-submitted, ErrOrchestratorClosed)
}

func TestEditCart_RefusedWhilePaymentInFlight(t *testing.T) {
	f := newFixture(t, "pk_test")
	f.fillCart()

	require.NoError(t, f.orch.EditCart(func(c *cart.Cart) { c.Remove("3") }))
	assert.Len(t, f.cart.Lines(), 1)

	require.NoError(t, f.orch.Proceed())
	att, err := f.orch.Submit(context.Background(), validCustomer)
	require.NoError(t, err)
	opened(t, att)

	called := false
	assert.ErrorIs(t, f.orch.EditCart(func(*cart.Cart) { called = true }), ErrPaymentInFlight)
	assert.False(t, called)

	require.NoError(t, f.registry.Close("session-1", att.Reference))
	waitStatus(t, f.orch, d.CheckoutStatusAwaitingCustomerInfo)
	assert.NoError(t, f.orch.EditCart(func(c *cart.Cart) { c.Clear() }))
	assert.Empty(t, f.cart.Lines())
}

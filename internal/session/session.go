package session

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/Abu-Issam/buyshea-connect/internal/cart"
	"github.com/Abu-Issam/buyshea-connect/internal/chat"
	"github.com/Abu-Issam/buyshea-connect/internal/checkout"
	"github.com/Abu-Issam/buyshea-connect/internal/notify"
	"github.com/Abu-Issam/buyshea-connect/internal/payment"
	"go.uber.org/zap"
)

// Deps are shared by every session.
type Deps struct {
	Payments             payment.Initiator
	Sink                 checkout.OrderSink
	Currency             string
	ChatDelay            time.Duration
	NotificationCapacity int
	Logger               *zap.Logger
}

// Session is the storefront state of one visitor.
type Session struct {
	ID            string
	CreatedAt     time.Time
	Cart          *cart.Cart
	Notifications *notify.Queue
	Checkout      *checkout.Orchestrator
	Chat          *chat.Conversation

	lastSeen atomic.Int64

	// persistMu orders cache writes for this session.
	persistMu sync.Mutex
}

func newSession(id string, deps Deps, now time.Time) *Session {
	queue := notify.NewQueue(deps.NotificationCapacity)
	c := cart.New(queue)

	s := &Session{
		ID:            id,
		CreatedAt:     now,
		Cart:          c,
		Notifications: queue,
		Checkout: checkout.New(checkout.Deps{
			SessionID: id,
			Cart:      c,
			Payments:  deps.Payments,
			Notifier:  queue,
			Sink:      deps.Sink,
			Logger:    deps.Logger,
			Currency:  deps.Currency,
		}),
		Chat: chat.NewConversation(deps.ChatDelay),
	}
	s.touch(now)
	return s
}

func (s *Session) touch(now time.Time) {
	s.lastSeen.Store(now.UnixNano())
}

func (s *Session) LastSeen() time.Time {
	return time.Unix(0, s.lastSeen.Load())
}

func (s *Session) close() {
	s.Checkout.Close()
	s.Chat.Close()
}

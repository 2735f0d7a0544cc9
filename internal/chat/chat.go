package chat

import (
	"math/rand/v2"
	"strings"
	"sync"
	"time"

	d "github.com/Abu-Issam/buyshea-connect/internal/domain"
	"github.com/google/uuid"
)

const Greeting = "Hello! I'm your BuyShea assistant. How can I help you today? " +
	"You can ask me about our shea products, shipping, or anything else related to our offerings."

var Replies = []string{
	"Thank you for your question! Our shea butter is ethically sourced from Ghana.",
	"Our products are 100% organic and contain no synthetic additives.",
	"We offer worldwide shipping. Orders typically arrive within 5-10 business days.",
	"Yes, we have a satisfaction guarantee! If you're not happy with your purchase, we offer returns within 30 days.",
	"Our shea butter is excellent for dry skin and can be used on both face and body.",
	"We work directly with women's cooperatives in Ghana to ensure fair compensation.",
}

// Conversation is the chat widget of one visitor. Every user message is
// answered with a canned reply after a delay.
type Conversation struct {
	delay time.Duration
	pick  func(n int) int
	now   func() time.Time

	mu       sync.Mutex
	messages []d.ChatMessage
	timers   map[*time.Timer]struct{}
	closed   bool
}

func NewConversation(delay time.Duration) *Conversation {
	c := &Conversation{
		delay:  delay,
		pick:   rand.IntN,
		now:    time.Now,
		timers: make(map[*time.Timer]struct{}),
	}
	c.messages = []d.ChatMessage{c.message(d.ChatRoleAssistant, Greeting)}
	return c
}

// Send appends the user message and schedules a reply. Blank input is ignored.
func (c *Conversation) Send(text string) (d.ChatMessage, bool) {
	if strings.TrimSpace(text) == "" {
		return d.ChatMessage{}, false
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return d.ChatMessage{}, false
	}

	msg := c.message(d.ChatRoleUser, text)
	c.messages = append(c.messages, msg)

	// t is assigned before the lock is released, so the callback sees it.
	var t *time.Timer
	t = time.AfterFunc(c.delay, func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		c.replyLocked(t)
	})
	c.timers[t] = struct{}{}
	return msg, true
}

func (c *Conversation) Messages() []d.ChatMessage {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]d.ChatMessage, len(c.messages))
	copy(out, c.messages)
	return out
}

// Pending reports whether a reply is still being typed.
func (c *Conversation) Pending() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.timers) > 0
}

// Close cancels scheduled replies.
func (c *Conversation) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	for t := range c.timers {
		t.Stop()
		delete(c.timers, t)
	}
}

func (c *Conversation) replyLocked(t *time.Timer) {
	if _, ok := c.timers[t]; !ok {
		return
	}
	delete(c.timers, t)
	c.messages = append(c.messages, c.message(d.ChatRoleAssistant, Replies[c.pick(len(Replies))]))
}

func (c *Conversation) message(role d.ChatRole, content string) d.ChatMessage {
	return d.ChatMessage{
		ID:        uuid.NewString(),
		Content:   content,
		Role:      role,
		Timestamp: c.now(),
	}
}

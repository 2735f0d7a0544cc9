package payment

import (
	"context"
	"sync"

	d "github.com/Abu-Issam/buyshea-connect/internal/domain"
)

// Handle describes an opened widget session.
type Handle struct {
	AuthorizationURL string  `json:"authorization_url,omitempty"`
	AccessCode       string  `json:"access_code,omitempty"`
	Options          Options `json:"options"`
}

// Attempt is one payment initiation. Its result is delivered exactly once on Done.
type Attempt struct {
	ID        uint64
	Reference string

	done chan d.PaymentResult
	once sync.Once

	mu        sync.Mutex
	handle    *Handle
	release   func()
	cancelled bool
}

func newAttempt(id uint64, reference string) *Attempt {
	return &Attempt{
		ID:        id,
		Reference: reference,
		done:      make(chan d.PaymentResult, 1),
	}
}

func (a *Attempt) Done() <-chan d.PaymentResult {
	return a.done
}

// Wait blocks until the result arrives or ctx ends.
func (a *Attempt) Wait(ctx context.Context) (d.PaymentResult, error) {
	select {
	case r := <-a.done:
		return r, nil
	case <-ctx.Done():
		return d.PaymentResult{}, ctx.Err()
	}
}

// Handle returns the widget session once the widget has been opened.
func (a *Attempt) Handle() (Handle, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.handle == nil {
		return Handle{}, false
	}
	return *a.handle, true
}

func (a *Attempt) setHandle(h Handle) {
	a.mu.Lock()
	a.handle = &h
	a.mu.Unlock()
}

// resolve reports whether r was the first result.
func (a *Attempt) resolve(r d.PaymentResult) bool {
	first := false
	a.once.Do(func() {
		first = true
		a.done <- r
	})
	return first
}

// Cancel gives up on the attempt: the widget registration is released and any
// later callback for the reference is refused.
func (a *Attempt) Cancel() {
	a.mu.Lock()
	a.cancelled = true
	release := a.release
	a.release = nil
	a.mu.Unlock()

	if release != nil {
		release()
	}
}

// setRelease arms fn for Cancel. When the attempt was already cancelled fn
// runs at once.
func (a *Attempt) setRelease(fn func()) {
	a.mu.Lock()
	if !a.cancelled {
		a.release = fn
		a.mu.Unlock()
		return
	}
	a.mu.Unlock()
	fn()
}

func (a *Attempt) isCancelled() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.cancelled
}

package payment

import (
	"context"
	"fmt"
	"sync"
)

// Callbacks are invoked by the widget when a transaction ends.
type Callbacks struct {
	// Owner is the session that started the attempt. Callbacks from any other
	// session are refused.
	Owner      string
	OnResponse func(ctx context.Context, resp CallbackResponse)
	OnClose    func()
}

// Registry routes widget callbacks arriving over HTTP to the attempt that
// opened the widget. Each reference is delivered at most once.
type Registry struct {
	mu      sync.Mutex
	pending map[string]Callbacks
}

func NewRegistry() *Registry {
	return &Registry{pending: make(map[string]Callbacks)}
}

func (r *Registry) Register(reference string, cb Callbacks) {
	r.mu.Lock()
	r.pending[reference] = cb
	r.mu.Unlock()
}

// Deliver routes a transaction response reported by owner. The reference
// falls back to trxref. A reference owned by another session is reported as
// unknown and stays registered.
func (r *Registry) Deliver(ctx context.Context, owner string, resp CallbackResponse) error {
	ref := resp.Reference
	if ref == "" {
		ref = resp.TrxRef
	}
	cb, ok := r.take(ref, owner)
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownReference, ref)
	}
	if cb.OnResponse != nil {
		cb.OnResponse(ctx, resp)
	}
	return nil
}

// Close reports that the visitor dismissed the widget.
func (r *Registry) Close(owner, reference string) error {
	cb, ok := r.take(reference, owner)
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownReference, reference)
	}
	if cb.OnClose != nil {
		cb.OnClose()
	}
	return nil
}

// Forget drops a registration whose attempt is no longer waited on.
func (r *Registry) Forget(reference string) {
	r.mu.Lock()
	delete(r.pending, reference)
	r.mu.Unlock()
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.pending)
}

func (r *Registry) take(reference, owner string) (Callbacks, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	cb, ok := r.pending[reference]
	if !ok || cb.Owner != owner {
		return Callbacks{}, false
	}
	delete(r.pending, reference)
	return cb, true
}

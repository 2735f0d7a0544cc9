package payment

import (
	"context"
	"sync"
	"sync/atomic"
)

type mockScriptLoader struct {
	calls atomic.Int32
	gate  chan struct{}
	err   error
}

func (m *mockScriptLoader) Load(context.Context) error {
	m.calls.Add(1)
	if m.gate != nil {
		<-m.gate
	}
	return m.err
}

type openCall struct {
	opts Options
	cb   Callbacks
}

type mockWidget struct {
	mu        sync.Mutex
	opened    []openCall
	forgotten []string
	err       error
	handle    Handle
}

func (m *mockWidget) Open(_ context.Context, opts Options, cb Callbacks) (Handle, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return Handle{}, m.err
	}
	m.opened = append(m.opened, openCall{opts: opts, cb: cb})
	h := m.handle
	h.Options = opts
	return h, nil
}

func (m *mockWidget) Forget(reference string) {
	m.mu.Lock()
	m.forgotten = append(m.forgotten, reference)
	m.mu.Unlock()
}

func (m *mockWidget) forgottenRefs() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.forgotten...)
}

func (m *mockWidget) calls() []openCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]openCall, len(m.opened))
	copy(out, m.opened)
	return out
}

type mockVerifier struct {
	ver   Verification
	err   error
	calls atomic.Int32
}

func (m *mockVerifier) Verify(context.Context, string) (Verification, error) {
	m.calls.Add(1)
	return m.ver, m.err
}

package payment

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	d "github.com/Abu-Issam/buyshea-connect/internal/domain"
	"go.uber.org/zap"
)

type Config struct {
	PublicKey  string
	Currency   string
	Channels   []string
	PaymentFor string
	// OpenTimeout bounds the widget call once the script is loaded.
	OpenTimeout time.Duration
	// Verifier confirms reported successes with the gateway. Without one the
	// widget's report is trusted.
	Verifier Verifier
}

type LoadState int

const (
	NotLoaded LoadState = iota
	Loading
	Loaded
)

func (s LoadState) String() string {
	switch s {
	case NotLoaded:
		return "not_loaded"
	case Loading:
		return "loading"
	case Loaded:
		return "loaded"
	}
	return "unknown"
}

// Initiator starts payment attempts. Checkout depends on this, not on Adapter.
type Initiator interface {
	Initiate(ctx context.Context, req Request) *Attempt
}

// Adapter normalizes the payment widget into single-shot attempts.
type Adapter struct {
	cfg    Config
	script ScriptLoader
	widget Widget
	logger *zap.Logger
	now    func() time.Time

	nextID atomic.Uint64

	mu      sync.Mutex
	state   LoadState
	pending []func(error)
}

func NewAdapter(cfg Config, script ScriptLoader, widget Widget, logger *zap.Logger) *Adapter {
	return &Adapter{
		cfg:    cfg,
		script: script,
		widget: widget,
		logger: logger,
		now:    time.Now,
	}
}

func (a *Adapter) Configured() bool {
	return strings.TrimSpace(a.cfg.PublicKey) != ""
}

func (a *Adapter) LoadState() LoadState {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.state
}

// Initiate never fails synchronously: every outcome, including precondition
// failures, arrives on the returned attempt.
func (a *Adapter) Initiate(ctx context.Context, req Request) *Attempt {
	att := newAttempt(a.nextID.Add(1), NewReference(a.now()))

	if !a.Configured() {
		att.resolve(d.Failed(att.Reference, ErrNotConfigured))
		return att
	}
	minor, err := ToMinorUnits(req.Amount)
	if err != nil {
		att.resolve(d.Failed(att.Reference, err))
		return att
	}

	// the HTTP request that started the attempt may finish before the widget opens
	ctx = context.WithoutCancel(ctx)

	a.ensureLoaded(ctx, func(err error) {
		if err != nil {
			a.logger.Warn("payment script load failed",
				zap.String("reference", att.Reference), zap.Error(err))
			att.resolve(d.Failed(att.Reference, fmt.Errorf("%w: %v", ErrGatewayUnreachable, err)))
			return
		}
		a.open(ctx, att, req.Owner, buildOptions(a.cfg, req, minor, att.Reference))
	})
	return att
}

func (a *Adapter) open(ctx context.Context, att *Attempt, owner string, opts Options) {
	if att.isCancelled() {
		return
	}
	if a.cfg.OpenTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.cfg.OpenTimeout)
		defer cancel()
	}

	handle, err := a.widget.Open(ctx, opts, Callbacks{
		Owner: owner,
		OnResponse: func(ctx context.Context, resp CallbackResponse) {
			att.resolve(a.settle(ctx, opts, resp))
		},
		OnClose: func() {
			att.resolve(d.Abandoned(att.Reference))
		},
	})
	if err != nil {
		att.resolve(d.Failed(att.Reference, err))
		return
	}
	att.setHandle(handle)
	att.setRelease(func() { a.widget.Forget(opts.Ref) })

	a.logger.Info("payment widget opened",
		zap.Uint64("attempt_id", att.ID),
		zap.String("reference", att.Reference),
		zap.Int64("amount", opts.Amount),
		zap.String("currency", opts.Currency))
}

// ensureLoaded runs cont once the script is loaded. Callers arriving while a
// load is running are queued behind it instead of starting another one.
func (a *Adapter) ensureLoaded(ctx context.Context, cont func(error)) {
	a.mu.Lock()
	switch a.state {
	case Loaded:
		a.mu.Unlock()
		cont(nil)
		return
	case Loading:
		a.pending = append(a.pending, cont)
		a.mu.Unlock()
		return
	}
	a.state = Loading
	a.pending = append(a.pending, cont)
	a.mu.Unlock()

	go a.load(ctx)
}

func (a *Adapter) load(ctx context.Context) {
	err := a.script.Load(ctx)

	a.mu.Lock()
	if err != nil {
		a.state = NotLoaded
	} else {
		a.state = Loaded
	}
	waiting := a.pending
	a.pending = nil
	a.mu.Unlock()

	for _, cont := range waiting {
		cont(err)
	}
}

// settle maps a widget report to a result. Reported successes are checked
// against the gateway when a verifier is configured.
func (a *Adapter) settle(ctx context.Context, opts Options, resp CallbackResponse) d.PaymentResult {
	result := mapResponse(opts.Ref, resp)
	if result.Status != d.PaymentSuccess || a.cfg.Verifier == nil {
		return result
	}

	ver, err := a.cfg.Verifier.Verify(ctx, opts.Ref)
	if err == nil {
		err = ver.matches(opts)
	}
	if err != nil {
		a.logger.Warn("payment verification failed",
			zap.String("reference", opts.Ref), zap.Error(err))
		return d.Failed(opts.Ref, err)
	}
	if ver.TransactionID != "" {
		result.TransactionID = ver.TransactionID
	}
	return result
}

func mapResponse(reference string, resp CallbackResponse) d.PaymentResult {
	if resp.Reference != "" {
		reference = resp.Reference
	}
	if resp.Status == string(d.PaymentSuccess) {
		return d.Succeeded(reference, resp.Transaction)
	}
	msg := resp.Message
	if msg == "" {
		msg = DefaultDeclineMessage
	}
	return d.PaymentResult{
		Status:    d.PaymentFailed,
		Reference: reference,
		Message:   msg,
		Err:       fmt.Errorf("%w: %s", ErrDeclined, msg),
	}
}

package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/Abu-Issam/buyshea-connect/pkg/circuitbreaker"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"
)

// Widget opens a payment session for the visitor and later reports the outcome
// through cb. Forget drops a session nobody waits on any more.
type Widget interface {
	Open(ctx context.Context, opts Options, cb Callbacks) (Handle, error)
	Forget(reference string)
}

// NewHTTPClient returns a traced client for gateway calls.
func NewHTTPClient(timeout time.Duration) *http.Client {
	return &http.Client{
		Timeout:   timeout,
		Transport: otelhttp.NewTransport(http.DefaultTransport),
	}
}

// InlineWidget hands the options back to the browser, which opens the inline
// popup with the public key and posts the outcome to the callback endpoints.
type InlineWidget struct {
	registry *Registry
}

func NewInlineWidget(registry *Registry) *InlineWidget {
	return &InlineWidget{registry: registry}
}

func (w *InlineWidget) Open(_ context.Context, opts Options, cb Callbacks) (Handle, error) {
	w.registry.Register(opts.Ref, cb)
	return Handle{Options: opts}, nil
}

func (w *InlineWidget) Forget(reference string) {
	w.registry.Forget(reference)
}

// HostedWidget initializes the transaction server side and returns the hosted
// checkout page for the visitor.
type HostedWidget struct {
	registry  *Registry
	client    *http.Client
	breaker   *circuitbreaker.Breaker
	initURL   string
	secretKey string
	logger    *zap.Logger
}

func NewHostedWidget(registry *Registry, client *http.Client, breaker *circuitbreaker.Breaker,
	initURL, secretKey string, logger *zap.Logger) *HostedWidget {
	return &HostedWidget{
		registry:  registry,
		client:    client,
		breaker:   breaker,
		initURL:   initURL,
		secretKey: secretKey,
		logger:    logger,
	}
}

type initializeRequest struct {
	Email     string          `json:"email"`
	Amount    string          `json:"amount"`
	Currency  string          `json:"currency"`
	Reference string          `json:"reference"`
	Channels  []string        `json:"channels,omitempty"`
	Metadata  initializeExtra `json:"metadata"`
}

type initializeExtra struct {
	CustomFields []CustomField `json:"custom_fields"`
	FirstName    string        `json:"first_name,omitempty"`
	LastName     string        `json:"last_name,omitempty"`
	Phone        string        `json:"phone,omitempty"`
}

type initializeResponse struct {
	Status  bool   `json:"status"`
	Message string `json:"message"`
	Data    struct {
		AuthorizationURL string `json:"authorization_url"`
		AccessCode       string `json:"access_code"`
		Reference        string `json:"reference"`
	} `json:"data"`
}

func (w *HostedWidget) Open(ctx context.Context, opts Options, cb Callbacks) (Handle, error) {
	body, err := json.Marshal(initializeRequest{
		Email:     opts.Email,
		Amount:    strconv.FormatInt(opts.Amount, 10),
		Currency:  opts.Currency,
		Reference: opts.Ref,
		Channels:  opts.Channels,
		Metadata: initializeExtra{
			CustomFields: opts.Metadata.CustomFields,
			FirstName:    opts.FirstName,
			LastName:     opts.LastName,
			Phone:        opts.Phone,
		},
	})
	if err != nil {
		return Handle{}, fmt.Errorf("failed to encode initialize request: %w", err)
	}

	var out initializeResponse
	err = w.breaker.Do(func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.initURL, bytes.NewReader(body))
		if err != nil {
			return err
		}
		req.Header.Set("Content-Type", "application/json")
		if w.secretKey != "" {
			req.Header.Set("Authorization", "Bearer "+w.secretKey)
		}

		resp, err := w.client.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		if resp.StatusCode >= http.StatusInternalServerError {
			return fmt.Errorf("gateway returned %d", resp.StatusCode)
		}
		if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<20)).Decode(&out); err != nil {
			return fmt.Errorf("failed to decode initialize response: %w", err)
		}
		return nil
	})
	if err != nil {
		return Handle{}, fmt.Errorf("%w: %v", ErrGatewayUnreachable, err)
	}
	if !out.Status {
		msg := out.Message
		if msg == "" {
			msg = DefaultDeclineMessage
		}
		return Handle{}, fmt.Errorf("%w: %s", ErrDeclined, msg)
	}

	w.registry.Register(opts.Ref, cb)
	w.logger.Debug("payment session initialized",
		zap.String("reference", opts.Ref),
		zap.String("access_code", out.Data.AccessCode))

	return Handle{
		AuthorizationURL: out.Data.AuthorizationURL,
		AccessCode:       out.Data.AccessCode,
		Options:          opts,
	}, nil
}

func (w *HostedWidget) Forget(reference string) {
	w.registry.Forget(reference)
}

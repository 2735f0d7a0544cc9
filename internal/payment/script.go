package payment

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/Abu-Issam/buyshea-connect/pkg/circuitbreaker"
)

// ScriptLoader makes the widget available. It is called at most once at a
// time by the adapter.
type ScriptLoader interface {
	Load(ctx context.Context) error
}

// HTTPScriptLoader fetches the widget script to confirm the gateway is reachable.
type HTTPScriptLoader struct {
	url     string
	client  *http.Client
	breaker *circuitbreaker.Breaker
}

func NewHTTPScriptLoader(url string, client *http.Client, breaker *circuitbreaker.Breaker) *HTTPScriptLoader {
	return &HTTPScriptLoader{url: url, client: client, breaker: breaker}
}

func (l *HTTPScriptLoader) Load(ctx context.Context) error {
	return l.breaker.Do(func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, l.url, nil)
		if err != nil {
			return err
		}
		resp, err := l.client.Do(req)
		if err != nil {
			return fmt.Errorf("failed to load payment script: %w", err)
		}
		defer resp.Body.Close()
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 1<<20))

		if resp.StatusCode != http.StatusOK {
			return fmt.Errorf("failed to load payment script: status %d", resp.StatusCode)
		}
		return nil
	})
}

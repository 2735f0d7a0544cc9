package payment

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	d "github.com/Abu-Issam/buyshea-connect/internal/domain"
	"github.com/Abu-Issam/buyshea-connect/pkg/circuitbreaker"
)

// Verification is the gateway's own record of a transaction.
type Verification struct {
	Status        string
	Reference     string
	Amount        int64
	Currency      string
	TransactionID string
}

// Verifier confirms a reported transaction with the gateway.
type Verifier interface {
	Verify(ctx context.Context, reference string) (Verification, error)
}

// HTTPVerifier calls the gateway's transaction verify endpoint with the
// secret key.
type HTTPVerifier struct {
	client    *http.Client
	breaker   *circuitbreaker.Breaker
	verifyURL string
	secretKey string
}

func NewHTTPVerifier(client *http.Client, breaker *circuitbreaker.Breaker, verifyURL, secretKey string) *HTTPVerifier {
	return &HTTPVerifier{
		client:    client,
		breaker:   breaker,
		verifyURL: strings.TrimRight(verifyURL, "/"),
		secretKey: secretKey,
	}
}

type verifyResponse struct {
	Status  bool   `json:"status"`
	Message string `json:"message"`
	Data    struct {
		ID        int64  `json:"id"`
		Status    string `json:"status"`
		Reference string `json:"reference"`
		Amount    int64  `json:"amount"`
		Currency  string `json:"currency"`
	} `json:"data"`
}

func (v *HTTPVerifier) Verify(ctx context.Context, reference string) (Verification, error) {
	var out verifyResponse
	err := v.breaker.Do(func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet,
			v.verifyURL+"/"+url.PathEscape(reference), nil)
		if err != nil {
			return err
		}
		req.Header.Set("Authorization", "Bearer "+v.secretKey)

		resp, err := v.client.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		if resp.StatusCode >= http.StatusInternalServerError {
			return fmt.Errorf("gateway returned %d", resp.StatusCode)
		}
		if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<20)).Decode(&out); err != nil {
			return fmt.Errorf("failed to decode verify response: %w", err)
		}
		return nil
	})
	if err != nil {
		return Verification{}, fmt.Errorf("%w: %v", ErrGatewayUnreachable, err)
	}
	if !out.Status {
		return Verification{}, fmt.Errorf("%w: %s", ErrUnverified, out.Message)
	}

	ver := Verification{
		Status:    out.Data.Status,
		Reference: out.Data.Reference,
		Amount:    out.Data.Amount,
		Currency:  out.Data.Currency,
	}
	if out.Data.ID != 0 {
		ver.TransactionID = strconv.FormatInt(out.Data.ID, 10)
	}
	return ver, nil
}

// matches reports whether ver confirms a successful charge of opts.
func (ver Verification) matches(opts Options) error {
	switch {
	case ver.Status != string(d.PaymentSuccess):
		return fmt.Errorf("%w: gateway status %q", ErrUnverified, ver.Status)
	case ver.Reference != "" && ver.Reference != opts.Ref:
		return fmt.Errorf("%w: reference mismatch", ErrUnverified)
	case ver.Amount != opts.Amount:
		return fmt.Errorf("%w: amount %d, expected %d", ErrUnverified, ver.Amount, opts.Amount)
	case ver.Currency != "" && !strings.EqualFold(ver.Currency, opts.Currency):
		return fmt.Errorf("%w: currency %s, expected %s", ErrUnverified, ver.Currency, opts.Currency)
	}
	return nil
}

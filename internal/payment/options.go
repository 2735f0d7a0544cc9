package payment

import (
	"strings"
	"unicode"

	"github.com/shopspring/decimal"
)

// Request is what checkout hands to the adapter.
type Request struct {
	// Owner is the session whose callbacks may settle the attempt.
	Owner    string
	Amount   decimal.Decimal
	Email    string
	Name     string
	Phone    string
	Metadata Metadata
}

// MetadataEntry keeps caller metadata ordered; maps would shuffle custom fields.
type MetadataEntry struct {
	Key   string
	Value any
}

type Metadata []MetadataEntry

type CustomField struct {
	DisplayName  string `json:"display_name"`
	VariableName string `json:"variable_name"`
	Value        any    `json:"value"`
}

type OptionsMetadata struct {
	CustomFields []CustomField `json:"custom_fields"`
}

// Options is the payload handed to the payment widget.
type Options struct {
	Key       string          `json:"key"`
	Email     string          `json:"email"`
	Amount    int64           `json:"amount"`
	Currency  string          `json:"currency"`
	Ref       string          `json:"ref"`
	FirstName string          `json:"firstname"`
	LastName  string          `json:"lastname"`
	Phone     string          `json:"phone,omitempty"`
	Metadata  OptionsMetadata `json:"metadata"`
	Channels  []string        `json:"channels"`
}

// CallbackResponse is what the widget reports when a transaction ends.
type CallbackResponse struct {
	Reference   string `json:"reference"`
	Status      string `json:"status"`
	Message     string `json:"message,omitempty"`
	Transaction string `json:"transaction"`
	TrxRef      string `json:"trxref"`
}

func buildOptions(cfg Config, req Request, minor int64, ref string) Options {
	first, last := splitName(req.Name)

	fields := make([]CustomField, 0, len(req.Metadata)+1)
	fields = append(fields, CustomField{
		DisplayName:  "Payment For",
		VariableName: "payment_for",
		Value:        cfg.PaymentFor,
	})
	for _, e := range req.Metadata {
		fields = append(fields, CustomField{
			DisplayName:  e.Key,
			VariableName: strings.ToLower(e.Key),
			Value:        e.Value,
		})
	}

	channels := make([]string, len(cfg.Channels))
	copy(channels, cfg.Channels)

	return Options{
		Key:       cfg.PublicKey,
		Email:     req.Email,
		Amount:    minor,
		Currency:  cfg.Currency,
		Ref:       ref,
		FirstName: first,
		LastName:  last,
		Phone:     req.Phone,
		Metadata:  OptionsMetadata{CustomFields: fields},
		Channels:  channels,
	}
}

// splitName splits on the first run of whitespace.
func splitName(name string) (first, last string) {
	name = strings.TrimSpace(name)
	i := strings.IndexFunc(name, unicode.IsSpace)
	if i < 0 {
		return name, ""
	}
	return name[:i], strings.TrimSpace(name[i:])
}

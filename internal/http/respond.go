package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/Abu-Issam/buyshea-connect/internal/checkout"
	"github.com/Abu-Issam/buyshea-connect/internal/payment"
	"github.com/Abu-Issam/buyshea-connect/internal/validation"
	"github.com/Abu-Issam/buyshea-connect/pkg/logger"
	"go.uber.org/zap"
)

type ErrorResponse struct {
	Error   string                 `json:"error"`
	Code    string                 `json:"code,omitempty"`
	Details string                 `json:"details,omitempty"`
	Fields  validation.FieldErrors `json:"fields,omitempty"`
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		zap.L().Warn("failed to encode response", zap.Error(err))
	}
}

func respondError(w http.ResponseWriter, status int, code, message string) {
	respondJSON(w, status, ErrorResponse{
		Error: message,
		Code:  code,
	})
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return false
	}
	return true
}

// handleError converts domain errors to HTTP responses.
func handleError(w http.ResponseWriter, r *http.Request, err error) {
	var fe validation.FieldErrors
	if errors.As(err, &fe) {
		respondJSON(w, http.StatusUnprocessableEntity, ErrorResponse{
			Error:  "validation failed",
			Code:   "validation_failed",
			Fields: fe,
		})
		return
	}

	var (
		status int
		code   string
	)
	switch {
	case errors.Is(err, checkout.ErrEmptyCart):
		status, code = http.StatusConflict, "empty_cart"
	case errors.Is(err, checkout.ErrIllegalTransition):
		status, code = http.StatusConflict, "illegal_transition"
	case errors.Is(err, checkout.ErrPaymentInFlight):
		status, code = http.StatusConflict, "payment_in_flight"
	case errors.Is(err, checkout.ErrOrchestratorClosed):
		status, code = http.StatusGone, "session_closed"
	case errors.Is(err, payment.ErrUnknownReference):
		status, code = http.StatusNotFound, "unknown_reference"
	case errors.Is(err, payment.ErrNotConfigured):
		status, code = http.StatusServiceUnavailable, "payment_not_configured"
	case errors.Is(err, payment.ErrGatewayUnreachable):
		status, code = http.StatusBadGateway, "gateway_unreachable"
	case errors.Is(err, context.DeadlineExceeded):
		status, code = http.StatusGatewayTimeout, "timeout"
	case errors.Is(err, context.Canceled):
		// client went away
		status, code = 499, "canceled"
	default:
		logger.From(r.Context(), zap.L()).Error("request failed", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "internal_error", "internal server error")
		return
	}
	respondError(w, status, code, err.Error())
}

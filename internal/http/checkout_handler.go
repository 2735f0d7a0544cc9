package http

import (
	"net/http"

	"github.com/Abu-Issam/buyshea-connect/internal/validation"
)

type CheckoutHandler struct{}

func NewCheckoutHandler() *CheckoutHandler {
	return &CheckoutHandler{}
}

type CustomerValidationResponse struct {
	Valid  bool                   `json:"valid"`
	Fields validation.FieldErrors `json:"fields,omitempty"`
}

// GET /api/v1/checkout
func (h *CheckoutHandler) GetCheckout(w http.ResponseWriter, r *http.Request) {
	sess, ok := requireSession(w, r)
	if !ok {
		return
	}
	respondJSON(w, http.StatusOK, sess.Checkout.Snapshot())
}

// POST /api/v1/checkout/proceed
func (h *CheckoutHandler) Proceed(w http.ResponseWriter, r *http.Request) {
	sess, ok := requireSession(w, r)
	if !ok {
		return
	}
	if err := sess.Checkout.Proceed(); err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, sess.Checkout.Snapshot())
}

// POST /api/v1/checkout/back
func (h *CheckoutHandler) Back(w http.ResponseWriter, r *http.Request) {
	sess, ok := requireSession(w, r)
	if !ok {
		return
	}
	if err := sess.Checkout.Back(); err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, sess.Checkout.Snapshot())
}

// POST /api/v1/checkout/customer/validate
func (h *CheckoutHandler) ValidateCustomer(w http.ResponseWriter, r *http.Request) {
	var req validation.CustomerInput
	if !decodeJSON(w, r, &req) {
		return
	}
	_, fe := validation.ValidateCustomer(req)
	respondJSON(w, http.StatusOK, CustomerValidationResponse{Valid: fe.Valid(), Fields: fe})
}

// POST /api/v1/checkout/submit
// Responds 202 once the attempt is started; the outcome is polled through
// GET /api/v1/checkout.
func (h *CheckoutHandler) Submit(w http.ResponseWriter, r *http.Request) {
	sess, ok := requireSession(w, r)
	if !ok {
		return
	}

	var req validation.CustomerInput
	if !decodeJSON(w, r, &req) {
		return
	}

	if _, err := sess.Checkout.Submit(r.Context(), req); err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusAccepted, sess.Checkout.Snapshot())
}

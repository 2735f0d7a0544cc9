package http

import (
	"context"
	"net/http"

	"github.com/Abu-Issam/buyshea-connect/internal/payment"
	"github.com/go-chi/chi/v5"
)

// CallbackRouter delivers widget callbacks to the attempt that opened the
// widget. Only the session that started the attempt may settle it.
type CallbackRouter interface {
	Deliver(ctx context.Context, owner string, resp payment.CallbackResponse) error
	Close(owner, reference string) error
}

type PaymentHandler struct {
	router CallbackRouter
}

func NewPaymentHandler(router CallbackRouter) *PaymentHandler {
	return &PaymentHandler{router: router}
}

type AckResponse struct {
	Status string `json:"status"`
}

// POST /api/v1/payments/callback
func (h *PaymentHandler) Callback(w http.ResponseWriter, r *http.Request) {
	sess, ok := requireSession(w, r)
	if !ok {
		return
	}

	var req payment.CallbackResponse
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Reference == "" && req.TrxRef == "" {
		respondError(w, http.StatusBadRequest, "missing_reference", "reference is required")
		return
	}
	if req.Status == "" {
		respondError(w, http.StatusBadRequest, "missing_status", "status is required")
		return
	}

	if err := h.router.Deliver(r.Context(), sess.ID, req); err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, AckResponse{Status: "accepted"})
}

// POST /api/v1/payments/{reference}/close
func (h *PaymentHandler) Close(w http.ResponseWriter, r *http.Request) {
	sess, ok := requireSession(w, r)
	if !ok {
		return
	}
	if err := h.router.Close(sess.ID, chi.URLParam(r, "reference")); err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, AckResponse{Status: "closed"})
}

package http

import (
	"net/http"

	"github.com/Abu-Issam/buyshea-connect/internal/account"
	"github.com/Abu-Issam/buyshea-connect/internal/validation"
)

type AccountHandler struct {
	service account.Service
}

func NewAccountHandler(service account.Service) *AccountHandler {
	return &AccountHandler{service: service}
}

// POST /api/v1/account/register
func (h *AccountHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req validation.RegistrationInput
	if !decodeJSON(w, r, &req) {
		return
	}
	out, err := h.service.Register(r.Context(), req)
	h.respond(w, r, out, err)
}

// POST /api/v1/account/login
func (h *AccountHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req validation.LoginInput
	if !decodeJSON(w, r, &req) {
		return
	}
	out, err := h.service.Login(r.Context(), req)
	h.respond(w, r, out, err)
}

// POST /api/v1/contact
func (h *AccountHandler) Contact(w http.ResponseWriter, r *http.Request) {
	var req validation.ContactInput
	if !decodeJSON(w, r, &req) {
		return
	}
	out, err := h.service.SubmitContact(r.Context(), req)
	h.respond(w, r, out, err)
}

func (h *AccountHandler) respond(w http.ResponseWriter, r *http.Request, out account.Outcome, err error) {
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, out)
}

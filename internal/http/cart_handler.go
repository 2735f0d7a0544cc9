package http

import (
	"net/http"

	"github.com/Abu-Issam/buyshea-connect/internal/cart"
	d "github.com/Abu-Issam/buyshea-connect/internal/domain"
	"github.com/go-chi/chi/v5"
)

const maxQuantity = 99

type CartHandler struct {
	catalog ProductCatalog
}

func NewCartHandler(catalog ProductCatalog) *CartHandler {
	return &CartHandler{catalog: catalog}
}

type AddItemRequestDTO struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

type UpdateQuantityRequestDTO struct {
	// Delta shifts the quantity; the line never drops below 1.
	Delta int `json:"delta"`
}

type CartResponse struct {
	Lines     []d.CartLine `json:"lines"`
	ItemCount int          `json:"item_count"`
	Totals    d.Totals     `json:"totals"`
}

type cartReader interface {
	Lines() []d.CartLine
	ItemCount() int
	Totals() d.Totals
}

func cartResponse(c cartReader) CartResponse {
	lines := c.Lines()
	if lines == nil {
		lines = []d.CartLine{}
	}
	return CartResponse{Lines: lines, ItemCount: c.ItemCount(), Totals: c.Totals()}
}

// GET /api/v1/cart
func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	sess, ok := requireSession(w, r)
	if !ok {
		return
	}
	respondJSON(w, http.StatusOK, cartResponse(sess.Cart))
}

// POST /api/v1/cart/items
func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	sess, ok := requireSession(w, r)
	if !ok {
		return
	}

	var req AddItemRequestDTO
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Quantity == 0 {
		req.Quantity = 1
	}
	if req.Quantity < 0 || req.Quantity > maxQuantity {
		respondError(w, http.StatusBadRequest, "invalid_quantity", "quantity must be between 1 and 99")
		return
	}

	p, found := h.catalog.ByID(req.ProductID)
	if !found {
		respondError(w, http.StatusNotFound, "product_not_found", "product not found")
		return
	}

	if err := sess.Checkout.EditCart(func(c *cart.Cart) { c.AddOrIncrement(p, req.Quantity) }); err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, cartResponse(sess.Cart))
}

// PATCH /api/v1/cart/items/{product_id}
func (h *CartHandler) UpdateQuantity(w http.ResponseWriter, r *http.Request) {
	sess, ok := requireSession(w, r)
	if !ok {
		return
	}

	productID := chi.URLParam(r, "product_id")
	line, found := findLine(sess.Cart.Lines(), productID)
	if !found {
		respondError(w, http.StatusNotFound, "item_not_found", "product is not in the cart")
		return
	}

	var req UpdateQuantityRequestDTO
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Delta < -maxQuantity || req.Delta > maxQuantity {
		respondError(w, http.StatusBadRequest, "invalid_delta", "delta must be between -99 and 99")
		return
	}

	if err := sess.Checkout.EditCart(func(c *cart.Cart) { c.AddOrIncrement(line.Product, req.Delta) }); err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, cartResponse(sess.Cart))
}

// DELETE /api/v1/cart/items/{product_id}
func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	sess, ok := requireSession(w, r)
	if !ok {
		return
	}
	// absent ids are a no-op
	productID := chi.URLParam(r, "product_id")
	if err := sess.Checkout.EditCart(func(c *cart.Cart) { c.Remove(productID) }); err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, cartResponse(sess.Cart))
}

// DELETE /api/v1/cart
func (h *CartHandler) ClearCart(w http.ResponseWriter, r *http.Request) {
	sess, ok := requireSession(w, r)
	if !ok {
		return
	}
	if err := sess.Checkout.EditCart(func(c *cart.Cart) { c.Clear() }); err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, cartResponse(sess.Cart))
}

func findLine(lines []d.CartLine, productID string) (d.CartLine, bool) {
	for _, l := range lines {
		if l.Product.ID == productID {
			return l, true
		}
	}
	return d.CartLine{}, false
}

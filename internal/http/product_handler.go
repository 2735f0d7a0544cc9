package http

import (
	"net/http"
	"strconv"

	"github.com/Abu-Issam/buyshea-connect/internal/catalog"
	d "github.com/Abu-Issam/buyshea-connect/internal/domain"
	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
)

const defaultRelatedLimit = 4

// ProductCatalog is the read side of the catalog the handlers use.
type ProductCatalog interface {
	ByID(id string) (d.Product, bool)
	Filter(q catalog.Query) []d.Product
	Featured() []d.Product
	NewArrivals() []d.Product
	Related(id string, limit int) []d.Product
}

type ProductHandler struct {
	catalog ProductCatalog
}

func NewProductHandler(catalog ProductCatalog) *ProductHandler {
	return &ProductHandler{catalog: catalog}
}

type ProductsResponse struct {
	Products []d.Product `json:"products"`
	Count    int         `json:"count"`
}

func productsResponse(products []d.Product) ProductsResponse {
	return ProductsResponse{Products: products, Count: len(products)}
}

// GET /api/v1/products?category=&q=&min_price=&max_price=&sort=
func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	q := catalog.DefaultQuery()
	params := r.URL.Query()

	if c := params.Get("category"); c != "" {
		q.Category = d.Category(c)
		if q.Category != d.CategoryAll && !q.Category.Valid() {
			respondError(w, http.StatusBadRequest, "invalid_category", "unknown category "+strconv.Quote(c))
			return
		}
	}
	q.Search = params.Get("q")
	if s := params.Get("sort"); s != "" {
		q.Sort = catalog.Sort(s)
	}

	var ok bool
	if q.MinPrice, ok = parsePrice(w, params.Get("min_price"), "min_price", q.MinPrice); !ok {
		return
	}
	if q.MaxPrice, ok = parsePrice(w, params.Get("max_price"), "max_price", q.MaxPrice); !ok {
		return
	}

	respondJSON(w, http.StatusOK, productsResponse(h.catalog.Filter(q)))
}

func (h *ProductHandler) Featured(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, productsResponse(h.catalog.Featured()))
}

func (h *ProductHandler) NewArrivals(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, productsResponse(h.catalog.NewArrivals()))
}

// GET /api/v1/products/{id}
func (h *ProductHandler) Get(w http.ResponseWriter, r *http.Request) {
	p, ok := h.catalog.ByID(chi.URLParam(r, "id"))
	if !ok {
		respondError(w, http.StatusNotFound, "product_not_found", "product not found")
		return
	}
	respondJSON(w, http.StatusOK, p)
}

// GET /api/v1/products/{id}/related?limit=
func (h *ProductHandler) Related(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if _, ok := h.catalog.ByID(id); !ok {
		respondError(w, http.StatusNotFound, "product_not_found", "product not found")
		return
	}

	limit := defaultRelatedLimit
	if s := r.URL.Query().Get("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 0 {
			respondError(w, http.StatusBadRequest, "invalid_limit", "limit must be a non-negative integer")
			return
		}
		limit = n
	}
	respondJSON(w, http.StatusOK, productsResponse(h.catalog.Related(id, limit)))
}

func parsePrice(w http.ResponseWriter, raw, name string, fallback decimal.Decimal) (decimal.Decimal, bool) {
	if raw == "" {
		return fallback, true
	}
	v, err := decimal.NewFromString(raw)
	if err != nil || v.IsNegative() {
		respondError(w, http.StatusBadRequest, "invalid_"+name, name+" must be a non-negative number")
		return decimal.Zero, false
	}
	return v, true
}

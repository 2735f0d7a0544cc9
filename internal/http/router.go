package http

import (
	"net/http"
	"time"

	"github.com/Abu-Issam/buyshea-connect/internal/account"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"
)

type RouterConfig struct {
	Catalog            ProductCatalog
	Sessions           SessionStore
	Callbacks          CallbackRouter
	Accounts           account.Service
	Logger             *zap.Logger
	RequestTimeout     time.Duration
	MaxRequestBodySize int64
	SessionTTL         time.Duration
	// Ready reports whether checkout can take payments; surfaced by /health.
	Ready func() bool
}

func NewRouter(cfg RouterConfig) http.Handler {
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = 30 * time.Second
	}

	productHandler := NewProductHandler(cfg.Catalog)
	cartHandler := NewCartHandler(cfg.Catalog)
	checkoutHandler := NewCheckoutHandler()
	paymentHandler := NewPaymentHandler(cfg.Callbacks)
	accountHandler := NewAccountHandler(cfg.Accounts)

	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.RequestID)
	r.Use(AccessLog(cfg.Logger))
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(cfg.RequestTimeout))
	r.Use(middleware.Compress(5))
	if cfg.MaxRequestBodySize > 0 {
		r.Use(middleware.RequestSize(cfg.MaxRequestBodySize))
	}

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		payments := "ok"
		if cfg.Ready != nil && !cfg.Ready() {
			payments = "not_configured"
		}
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok", "payments": payments})
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/products", func(r chi.Router) {
			r.Get("/", productHandler.List)
			r.Get("/featured", productHandler.Featured)
			r.Get("/new", productHandler.NewArrivals)
			r.Get("/{id}", productHandler.Get)
			r.Get("/{id}/related", productHandler.Related)
		})

		r.Route("/account", func(r chi.Router) {
			r.Post("/register", accountHandler.Register)
			r.Post("/login", accountHandler.Login)
		})
		r.Post("/contact", accountHandler.Contact)

		r.Group(func(r chi.Router) {
			r.Use(SessionMiddleware(cfg.Sessions, cfg.SessionTTL))

			r.Route("/cart", func(r chi.Router) {
				r.Get("/", cartHandler.GetCart)
				r.Delete("/", cartHandler.ClearCart)
				r.Post("/items", cartHandler.AddItem)
				r.Patch("/items/{product_id}", cartHandler.UpdateQuantity)
				r.Delete("/items/{product_id}", cartHandler.RemoveItem)
			})

			r.Route("/checkout", func(r chi.Router) {
				r.Get("/", checkoutHandler.GetCheckout)
				r.Post("/proceed", checkoutHandler.Proceed)
				r.Post("/back", checkoutHandler.Back)
				r.Post("/submit", checkoutHandler.Submit)
				r.Post("/customer/validate", checkoutHandler.ValidateCustomer)
			})

			// Posted by the widget script in the visitor's browser.
			r.Route("/payments", func(r chi.Router) {
				r.Post("/callback", paymentHandler.Callback)
				r.Post("/{reference}/close", paymentHandler.Close)
			})

			r.Get("/notifications", GetNotifications)
			r.Get("/chat/messages", GetChat)
			r.Post("/chat/messages", SendChat)
		})
	})

	return otelhttp.NewHandler(r, "storefront")
}

package main

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/capitalize-ai/telegram-storefront/internal/bot"
	"github.com/capitalize-ai/telegram-storefront/internal/handler"
	"github.com/capitalize-ai/telegram-storefront/internal/middleware"
	"github.com/capitalize-ai/telegram-storefront/pkg/logger"
)

// routerConfig carries the handlers and settings the router mounts.
type routerConfig struct {
	health        *handler.HealthHandler
	products      *handler.ProductHandler
	carts         *handler.CartHandler
	orders        *handler.OrderHandler
	conversations *handler.ConversationHandler
	auth          *handler.AuthHandler // nil without a bot token

	// webhook is mounted at bot.WebhookPath when set.
	webhook http.Handler

	jwtSecret      string
	authRequired   bool
	rateLimit      int
	rateWindow     time.Duration
	allowedOrigins []string
}

func newRouter(cfg routerConfig, log *logger.Logger) chi.Router {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Logging(log))
	r.Use(middleware.SecurityHeaders)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.CORS(cfg.allowedOrigins))

	// Health endpoints (no auth required)
	r.Get("/health", cfg.health.Health)
	r.Get("/ready", cfg.health.Ready)

	// Metrics endpoint
	r.Handle("/metrics", promhttp.Handler())

	if cfg.webhook != nil {
		r.Post(bot.WebhookPath, cfg.webhook.ServeHTTP)
	}

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", cfg.health.Status)
		if cfg.auth != nil {
			r.Post("/auth/telegram", cfg.auth.Telegram)
		}

		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(cfg.jwtSecret, cfg.authRequired))
			r.Use(middleware.RateLimit(cfg.rateLimit, cfg.rateWindow))

			// Catalog
			r.Get("/products", cfg.products.List)
			r.Get("/products/{id}", cfg.products.Get)
			r.Get("/categories", cfg.products.Categories)

			// Cart
			r.Route("/cart", func(r chi.Router) {
				r.Patch("/item/{itemId}", cfg.carts.UpdateItem)
				r.Delete("/item/{itemId}", cfg.carts.RemoveItem)

				r.Route("/{userId}", func(r chi.Router) {
					r.Use(middleware.RequireSelf("userId"))
					r.Get("/", cfg.carts.List)
					r.Post("/", cfg.carts.Add)
					r.Delete("/", cfg.carts.Clear)
					r.Get("/summary", cfg.carts.Summary)
				})
			})

			// Orders
			r.Post("/orders", cfg.orders.Create)

			// Chat history
			r.With(middleware.RequireSelf("userId")).Get("/conversations/{userId}", cfg.conversations.List)
		})
	})

	return r
}

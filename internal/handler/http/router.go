package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/PriyankaPriyadarsini7/ecommerce-dashboard/pkg/health"
	"github.com/PriyankaPriyadarsini7/ecommerce-dashboard/pkg/middleware"
)

// RouterOptions carries the router-level knobs from configuration.
type RouterOptions struct {
	RateLimitRPS   int
	RateLimitBurst int
	CORS           middleware.CORSConfig
	PprofCIDRs     []string
}

// NewRouter creates a chi router with all dashboard routes registered.
func NewRouter(
	products *ProductHandler,
	wishlists *WishlistHandler,
	healthHandler *health.Handler,
	logger *slog.Logger,
	opts RouterOptions,
) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.Recovery(logger))
	r.Use(chimw.Compress(5))
	r.Use(chimw.Timeout(60 * time.Second))
	r.Use(middleware.RequestLogging(logger))
	r.Use(middleware.PrometheusMetrics("dashboard"))
	r.Use(middleware.Tracing("dashboard"))
	r.Use(middleware.RequestLogger(logger))
	r.Use(middleware.CORS(opts.CORS))

	// Health check endpoints
	r.Get("/health/live", healthHandler.LivenessHandler())
	r.Get("/health/ready", healthHandler.ReadinessHandler())
	r.Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
		promhttp.Handler().ServeHTTP(w, r)
	})

	// Pprof debug endpoints with IP allowlist.
	middleware.RegisterPprof(r, opts.PprofCIDRs, logger)

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(ContentTypeJSON)
		if opts.RateLimitRPS > 0 {
			r.Use(middleware.RateLimit(opts.RateLimitRPS, opts.RateLimitBurst, logger))
		}

		r.Route("/products", func(r chi.Router) {
			r.Get("/", products.List)
			r.Post("/", products.Create)
			r.Post("/refresh", products.Refresh)
			r.Get("/categories", products.Categories)

			r.Get("/{id}", products.Get)
			r.Put("/{id}", products.Update)
			r.Delete("/{id}", products.Delete)
		})

		r.Route("/filters", func(r chi.Router) {
			r.Put("/search", products.SetSearch)
			r.Put("/category", products.SetCategory)
		})

		r.Route("/wishlist", func(r chi.Router) {
			r.Get("/", wishlists.List)
			r.Delete("/", wishlists.Clear)
			r.Post("/toggle", wishlists.Toggle)
		})
	})

	return r
}

package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/PriyankaPriyadarsini7/ecommerce-dashboard/internal/config"
	"github.com/PriyankaPriyadarsini7/ecommerce-dashboard/internal/gateway"
	handler "github.com/PriyankaPriyadarsini7/ecommerce-dashboard/internal/handler/http"
	"github.com/PriyankaPriyadarsini7/ecommerce-dashboard/internal/store"
	"github.com/PriyankaPriyadarsini7/ecommerce-dashboard/internal/wishlist"
	redisrepo "github.com/PriyankaPriyadarsini7/ecommerce-dashboard/internal/wishlist/redis"
	"github.com/PriyankaPriyadarsini7/ecommerce-dashboard/pkg/health"
	"github.com/PriyankaPriyadarsini7/ecommerce-dashboard/pkg/middleware"
	"github.com/PriyankaPriyadarsini7/ecommerce-dashboard/pkg/tracing"
)

// App wires together all dependencies and runs the dashboard service.
type App struct {
	cfg             *config.Config
	logger          *slog.Logger
	rdb             *redis.Client
	products        *store.ProductStore
	httpServer      *http.Server
	tracingShutdown func(context.Context) error
}

// NewApp creates a new application instance, initializing all dependencies.
func NewApp(cfg *config.Config, logger *slog.Logger) (*App, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Initialize tracing.
	tracingCfg := tracing.DefaultConfig("dashboard")
	tracingCfg.Environment = cfg.Environment
	tracingCfg.OTLPEndpoint = cfg.OTELEndpoint
	tracingCfg.SampleRate = cfg.OTELSampleRate
	tracingCfg.Enabled = cfg.OTELEnabled

	tracingShutdown, err := tracing.InitTracer(ctx, tracingCfg)
	if err != nil {
		return nil, fmt.Errorf("init tracing: %w", err)
	}

	// Initialize Redis client.
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPass,
		DB:       cfg.RedisDB,
	})

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("connect to redis: %w", err)
	}
	logger.Info("connected to Redis",
		slog.String("addr", cfg.RedisAddr),
		slog.Int("db", cfg.RedisDB),
	)

	// Build the dependency graph.
	catalogCfg := gateway.DefaultConfig(cfg.CatalogBaseURL)
	catalogCfg.Timeout = cfg.CatalogTimeout()
	catalog := gateway.New(catalogCfg, logger)

	products := store.NewProductStore(catalog, logger, store.Options{
		FetchLimit:     cfg.CatalogFetchLimit,
		SearchDebounce: cfg.SearchDebounce(),
	})

	wishlistRepo := redisrepo.NewWishlistRepository(rdb, cfg.WishlistKey)
	wishlists := wishlist.NewStore(ctx, wishlistRepo, logger)

	// Health checks.
	healthHandler := health.NewHandler()
	healthHandler.Register("redis", func(ctx context.Context) error {
		return rdb.Ping(ctx).Err()
	})
	healthHandler.Register("catalog", catalog.Ping)

	// HTTP router.
	router := handler.NewRouter(
		handler.NewProductHandler(products, catalog, logger),
		handler.NewWishlistHandler(wishlists, logger),
		healthHandler,
		logger,
		handler.RouterOptions{
			RateLimitRPS:   cfg.RateLimitRPS,
			RateLimitBurst: cfg.RateLimitBurst,
			CORS: middleware.CORSConfig{
				AllowedOrigins: cfg.CORSAllowedOrigins,
			},
			PprofCIDRs: cfg.PprofAllowedCIDRs,
		},
	)

	httpServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return &App{
		cfg:             cfg,
		logger:          logger,
		rdb:             rdb,
		products:        products,
		httpServer:      httpServer,
		tracingShutdown: tracingShutdown,
	}, nil
}

// Run starts the HTTP server, triggers the initial catalog fetch, and blocks
// until the context is canceled.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)

	go func() {
		a.logger.Info("starting HTTP server",
			slog.String("addr", a.httpServer.Addr),
		)
		if err := a.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- fmt.Errorf("http server: %w", err)
		}
	}()

	// Initial fetch, the way the dashboard page loads its inventory on
	// mount. A failure lands in the store's error slot; the dashboard keeps
	// serving and the user can refresh.
	go func() {
		fetchCtx, cancel := context.WithTimeout(ctx, a.cfg.CatalogTimeout())
		defer cancel()
		if err := a.products.FetchAll(fetchCtx); err != nil {
			a.logger.Warn("initial catalog fetch failed",
				slog.String("error", err.Error()),
			)
		}
	}()

	select {
	case <-ctx.Done():
		a.logger.Info("shutdown signal received")
	case err := <-errCh:
		return err
	}

	return a.Shutdown()
}

// Shutdown gracefully stops all components.
func (a *App) Shutdown() error {
	a.logger.Info("shutting down application...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := a.httpServer.Shutdown(shutdownCtx); err != nil {
		a.logger.Error("http server shutdown error", slog.String("error", err.Error()))
	}

	// Cancel any pending debounced search commit.
	a.products.Close()

	if err := a.tracingShutdown(shutdownCtx); err != nil {
		a.logger.Error("tracing shutdown error", slog.String("error", err.Error()))
	}

	if err := a.rdb.Close(); err != nil {
		a.logger.Error("redis close error", slog.String("error", err.Error()))
	}

	a.logger.Info("application shutdown complete")
	return nil
}

package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ghain/storefront-backend/config"
	"github.com/ghain/storefront-backend/internal/app/controller"
	"github.com/ghain/storefront-backend/internal/app/repository"
	"github.com/ghain/storefront-backend/internal/app/service"
	"github.com/ghain/storefront-backend/internal/db"
	"github.com/ghain/storefront-backend/internal/dom"
	"github.com/ghain/storefront-backend/internal/middleware"
	"github.com/ghain/storefront-backend/internal/router"
	"github.com/ghain/storefront-backend/internal/scheduler"
	"github.com/ghain/storefront-backend/internal/storage"
	ws "github.com/ghain/storefront-backend/internal/websocket"
	"github.com/ghain/storefront-backend/pkg/logger"
	"github.com/ghain/storefront-backend/pkg/redis"
	"github.com/ghain/storefront-backend/web"
	"github.com/shopspring/decimal"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load configuration", err)
	}

	// Initialize logger
	logger.Initialize(logger.Config{
		Level:       cfg.LogLevel(),
		Format:      cfg.Log.Format,
		EnableColor: cfg.Server.Environment == "development",
	})

	logger.Info("Starting Ghain storefront server", map[string]interface{}{
		"environment":     cfg.Server.Environment,
		"port":            cfg.Server.Port,
		"log_level":       cfg.LogLevel(),
		"storage_backend": string(cfg.Storage.Backend),
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize database
	if err := db.Initialize(&cfg.Database); err != nil {
		logger.Fatal("Failed to initialize database", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			logger.Error("Failed to close database connection", err)
		}
	}()

	// Run migrations (seeds the default catalog when empty)
	if err := db.Migrate(); err != nil {
		logger.Fatal("Failed to run migrations", err)
	}

	// Storage backend
	var backend storage.Backend
	var purgeScheduler *scheduler.SlotPurgeScheduler
	switch cfg.Storage.Backend {
	case config.StorageBackendRedis:
		if err := redis.Init(&cfg.Redis); err != nil {
			logger.Fatal("Failed to initialize Redis", err)
		}
		defer redis.Close()
		backend = storage.NewRedisBackend(redis.GetClient(), cfg.Storage.SlotTTL)
	case config.StorageBackendDatabase:
		dbBackend := storage.NewDatabaseBackend(db.GetDB())
		backend = dbBackend
		if cfg.Storage.SlotTTL > 0 {
			purgeScheduler = scheduler.NewSlotPurgeScheduler(dbBackend, cfg.Storage.PurgeCron, cfg.Storage.SlotTTL)
		}
	default:
		backend = storage.NewMemoryBackend()
	}

	// Change notifications: stores -> bus -> hub (+ relay to other instances)
	bus := service.NewEventBus()
	stores := service.NewStoreFactory(backend, cfg.Storage.KeyPrefix, service.WithNotifier(bus))

	hub := ws.NewHub(ws.WithSnapshot(controller.SyncSnapshot(stores), cfg.Sync.SettleDelay))
	go hub.Run(ctx)
	bus.Subscribe(hub)

	if cfg.Storage.Backend == config.StorageBackendRedis {
		relay := redis.NewRelay(redis.GetClient(), cfg.Redis.Channel, hub)
		bus.Subscribe(relay)
		go func() {
			if err := relay.Run(ctx); err != nil {
				logger.Error("Storage event relay stopped", err)
			}
		}()
	}

	if purgeScheduler != nil {
		if err := purgeScheduler.Start(); err != nil {
			logger.Fatal("Failed to start slot purge scheduler", err)
		}
		defer purgeScheduler.Stop()
	}

	// Initialize repositories
	productRepo := repository.NewProductRepository(db.GetDB())

	// Initialize services
	productService := service.NewProductService(productRepo)
	checkoutService := service.NewCheckoutService(productService, service.ShippingRates{
		FlatRate:    decimal.NewFromFloat(cfg.Checkout.FlatRate),
		LocalPickup: decimal.NewFromFloat(cfg.Checkout.LocalPickup),
	})

	// Pages
	pages, err := pageFiles(cfg.Server.PagesDir)
	if err != nil {
		logger.Fatal("Failed to open storefront pages", err)
	}
	assets, err := fs.Sub(web.Assets, "assets")
	if err != nil {
		logger.Fatal("Failed to open storefront assets", err)
	}
	renderer := dom.NewRenderer(dom.Defaults()...)

	// Initialize controllers
	cartController := controller.NewCartController(stores, productService)
	favoritesController := controller.NewFavoritesController(stores, productService)
	selectionController := controller.NewSelectionController(stores, productService)
	productController := controller.NewProductController(productService)
	checkoutController := controller.NewCheckoutController(checkoutService, stores)
	pageController := controller.NewPageController(pages, renderer, stores, productService, checkoutService)
	syncController := controller.NewSyncController(hub, cfg.CORS.AllowedOrigins)

	// Initialize middleware
	sessionMiddleware := middleware.NewSessionMiddleware(cfg.Session)

	// Setup router
	r := router.NewRouter(
		cartController,
		favoritesController,
		selectionController,
		productController,
		checkoutController,
		pageController,
		syncController,
		sessionMiddleware,
		assets,
		cfg,
	)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:           r.Setup(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logger.Info("Server started successfully", map[string]interface{}{
			"address": srv.Addr,
			"pid":     os.Getpid(),
		})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Failed to start server", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server gracefully...")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server forced to shutdown", err)
	}
	cancel()
	logger.Info("Server stopped successfully")
}

// pageFiles serves pages from dir when set, otherwise the embedded copies.
func pageFiles(dir string) (fs.FS, error) {
	if dir != "" {
		return os.DirFS(dir), nil
	}
	return fs.Sub(web.Pages, "pages")
}

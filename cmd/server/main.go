package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/uptrace/opentelemetry-go-extra/otelgorm"
	"go.uber.org/zap"

	catalogapp "github.com/pos/backend/internal/application/catalog"
	partnerapp "github.com/pos/backend/internal/application/partner"
	reportapp "github.com/pos/backend/internal/application/report"
	salesapp "github.com/pos/backend/internal/application/sales"
	syncapp "github.com/pos/backend/internal/application/sync"
	webhookapp "github.com/pos/backend/internal/application/webhook"
	"github.com/pos/backend/internal/infrastructure/cache"
	"github.com/pos/backend/internal/infrastructure/config"
	"github.com/pos/backend/internal/infrastructure/ecommerce"
	"github.com/pos/backend/internal/infrastructure/logger"
	"github.com/pos/backend/internal/infrastructure/persistence"
	"github.com/pos/backend/internal/infrastructure/receipt"
	"github.com/pos/backend/internal/infrastructure/telemetry"
	"github.com/pos/backend/internal/interfaces/http/handler"
	"github.com/pos/backend/internal/interfaces/http/middleware"
	"github.com/pos/backend/internal/interfaces/http/router"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	log, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	log.Info("Starting POS Backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// Initialize database connection
	gormLogLevel := logger.MapGormLogLevel(cfg.Log.Level)
	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, gormLogLevel)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected successfully")

	// Initialize tracing
	ctx := context.Background()
	tracerProvider, err := telemetry.NewTracerProvider(ctx, cfg.Telemetry, log)
	if err != nil {
		log.Fatal("Failed to initialize tracer provider", zap.Error(err))
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tracerProvider.Shutdown(shutdownCtx); err != nil {
			log.Error("Error shutting down tracer provider", zap.Error(err))
		}
	}()

	if cfg.Telemetry.Enabled {
		if err := db.DB.Use(otelgorm.NewPlugin(otelgorm.WithDBName(cfg.Database.DBName))); err != nil {
			log.Warn("Failed to enable database tracing", zap.Error(err))
		}
	}

	// Initialize repositories
	productRepo := persistence.NewGormProductRepository(db.DB)
	customerRepo := persistence.NewGormCustomerRepository(db.DB)
	orderLineRepo := persistence.NewGormOrderLineRepository(db.DB)
	webhookEventRepo := persistence.NewGormWebhookEventRepository(db.DB)

	// Initialize upstream store adapter
	shopifyConfig := ecommerce.NewShopifyConfig(cfg.Shopify.ShopURL, cfg.Shopify.AccessToken)
	shopifyConfig.APIVersion = cfg.Shopify.APIVersion
	shopifyConfig.TimeoutSeconds = cfg.Shopify.TimeoutSeconds
	platform, err := ecommerce.NewShopifyAdapter(shopifyConfig)
	if err != nil {
		log.Fatal("Failed to initialize store adapter", zap.Error(err))
	}

	// Initialize sync lock backed by Redis
	syncLock, err := cache.NewRedisSyncLock(&cfg.Redis, cfg.Sync.LockTTL)
	if err != nil {
		log.Fatal("Failed to connect to Redis", zap.Error(err))
	}
	defer func() {
		if err := syncLock.Close(); err != nil {
			log.Error("Error closing Redis connection", zap.Error(err))
		}
	}()
	log.Info("Redis connected successfully")

	// Initialize receipt rendering when enabled
	var receipts salesapp.ReceiptGenerator
	if cfg.Receipt.Enabled {
		renderer := receipt.NewRenderer(cfg.Receipt.RenderTimeout, log)
		defer renderer.Close()

		store, err := receipt.NewStore(renderer, cfg.Receipt.OutputDir, cfg.Receipt.StoreName, cfg.Receipt.Footer, log)
		if err != nil {
			log.Fatal("Failed to initialize receipt store", zap.Error(err))
		}
		receipts = store
		log.Info("Receipt rendering enabled", zap.String("output_dir", cfg.Receipt.OutputDir))
	}

	// Initialize application services
	productQueryService := catalogapp.NewProductQueryService(productRepo)
	customerService := partnerapp.NewCustomerService(platform, customerRepo, log)
	cartService := salesapp.NewCartService(platform, productRepo, customerRepo, orderLineRepo, receipts, log)
	orderQueryService := salesapp.NewOrderQueryService(orderLineRepo)
	syncService := syncapp.NewService(platform, productRepo, customerRepo, syncLock, log)
	reconcileService := webhookapp.NewReconcileService(
		productRepo, customerRepo, orderLineRepo, webhookEventRepo,
		cfg.Webhook.Secret, cfg.Webhook.AllowUnverified, log,
	)
	logQueryService := webhookapp.NewLogQueryService(webhookEventRepo)
	reportService := reportapp.NewService(orderLineRepo)

	// Initialize HTTP handlers
	productHandler := handler.NewProductHandler(productQueryService)
	customerHandler := handler.NewCustomerHandler(customerService)
	orderHandler := handler.NewOrderHandler(cartService, orderQueryService)
	syncHandler := handler.NewSyncHandler(syncService)
	webhookHandler := handler.NewWebhookHandler(reconcileService, logQueryService)
	reportHandler := handler.NewReportHandler(reportService)
	systemHandler := handler.NewSystemHandler(db)

	// Set Gin mode based on environment
	if cfg.App.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	// Setup validation
	middleware.SetupValidator()

	engine := gin.New()

	// Configure trusted proxies
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	// Middleware stack: request ID, recovery, logging, tracing, CORS,
	// body size limit
	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.Tracing(cfg.Telemetry.ServiceName, cfg.Telemetry.Enabled))

	corsConfig := middleware.CORSConfig{
		AllowOrigins: cfg.HTTP.CORSAllowOrigins,
		AllowMethods: cfg.HTTP.CORSAllowMethods,
		AllowHeaders: cfg.HTTP.CORSAllowHeaders,
		MaxAge:       12 * time.Hour,
	}
	engine.Use(middleware.CORSWithConfig(corsConfig))
	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))

	// Health check endpoint (outside API versioning)
	engine.GET("/health", systemHandler.Health)

	// Rendered receipts are served as static files
	if cfg.Receipt.Enabled {
		engine.Static("/receipts", cfg.Receipt.OutputDir)
	}

	// Setup API routes
	r := router.NewRouter(engine, router.WithAPIVersion("v1"))

	productRoutes := router.NewDomainGroup("products", "/products")
	productRoutes.GET("", productHandler.List)
	productRoutes.GET("/barcode/:barcode", productHandler.GetByBarcode)
	productRoutes.GET("/:id", productHandler.Get)

	customerRoutes := router.NewDomainGroup("customers", "/customers")
	customerRoutes.POST("", customerHandler.Create)
	customerRoutes.GET("", customerHandler.List)
	customerRoutes.GET("/:id", customerHandler.Get)

	orderRoutes := router.NewDomainGroup("orders", "/orders")
	orderRoutes.POST("/cart", orderHandler.CreateCart)
	orderRoutes.POST("/manual", orderHandler.CreateManual)
	orderRoutes.GET("", orderHandler.List)
	orderRoutes.GET("/external/:externalOrderID", orderHandler.GetByExternalID)
	orderRoutes.GET("/:id", orderHandler.Get)

	syncRoutes := router.NewDomainGroup("sync", "/sync")
	syncRoutes.POST("/products", syncHandler.SyncProducts)
	syncRoutes.POST("/customers", syncHandler.SyncCustomers)

	webhookRoutes := router.NewDomainGroup("webhooks", "/webhooks")
	webhookRoutes.POST("/shopify", webhookHandler.Receive)
	webhookRoutes.GET("/events", webhookHandler.ListEvents)
	webhookRoutes.GET("/stats", webhookHandler.Stats)

	reportRoutes := router.NewDomainGroup("reports", "/reports")
	reportRoutes.GET("/today", reportHandler.Today)
	reportRoutes.GET("/sales", reportHandler.Sales)

	systemRoutes := router.NewDomainGroup("system", "/system")
	systemRoutes.GET("/health", systemHandler.Health)
	systemRoutes.GET("/info", systemHandler.GetSystemInfo)

	r.Register(productRoutes).
		Register(customerRoutes).
		Register(orderRoutes).
		Register(syncRoutes).
		Register(webhookRoutes).
		Register(reportRoutes).
		Register(systemRoutes)

	r.Setup()

	// Create HTTP server with config
	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	// Start server in goroutine
	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}

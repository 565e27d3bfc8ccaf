package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	inventoryapp "github.com/sami999khan999/multi-vendor-ecommerce-sub001/internal/application/inventory"
	"github.com/sami999khan999/multi-vendor-ecommerce-sub001/internal/domain/inventory"
	"github.com/sami999khan999/multi-vendor-ecommerce-sub001/internal/infrastructure/config"
	"github.com/sami999khan999/multi-vendor-ecommerce-sub001/internal/infrastructure/event"
	"github.com/sami999khan999/multi-vendor-ecommerce-sub001/internal/infrastructure/logger"
	"github.com/sami999khan999/multi-vendor-ecommerce-sub001/internal/infrastructure/persistence"
	"github.com/sami999khan999/multi-vendor-ecommerce-sub001/internal/infrastructure/telemetry"
	"github.com/sami999khan999/multi-vendor-ecommerce-sub001/internal/interfaces/http/handler"
	"github.com/sami999khan999/multi-vendor-ecommerce-sub001/internal/interfaces/http/middleware"
	"github.com/sami999khan999/multi-vendor-ecommerce-sub001/internal/interfaces/http/router"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

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

	log.Info("Starting inventory service",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	run(cfg, log)
}

// run wires the service and blocks until shutdown. Deferred teardown keeps
// the reverse-of-startup ordering.
func run(cfg *config.Config, log *zap.Logger) {
	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level),
		logger.WithSlowThreshold(telemetry.SlowQueryThresholdOrDefault(cfg.Telemetry.DBSlowQueryThresh)),
	)
	db, err := persistence.NewDatabaseWithCustomLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected successfully")

	ctx := context.Background()
	tracerProvider, meterProvider := setupTelemetry(ctx, cfg, db, log)
	defer shutdownProvider("tracer provider", tracerProvider.Shutdown, log)
	defer shutdownProvider("meter provider", meterProvider.Shutdown, log)

	// Repositories and application services
	locationRepo := persistence.NewGormLocationRepository(db.DB)
	entryRepo := persistence.NewGormStockEntryRepository(db.DB)
	movementRepo := persistence.NewGormMovementRepository(db.DB)
	txScope := persistence.NewGormTransactionScope(db.DB)

	ledgerService := inventoryapp.NewLedgerService(entryRepo, movementRepo, txScope)
	reservationService := inventoryapp.NewReservationService(entryRepo, txScope, cfg.Inventory.LogReservations)
	transferService := inventoryapp.NewTransferService(txScope)
	locationService := inventoryapp.NewLocationService(locationRepo, entryRepo, txScope)
	movementService := inventoryapp.NewMovementService(movementRepo)

	ledgerService.SetTxTimeout(cfg.Inventory.TxTimeout)
	reservationService.SetTxTimeout(cfg.Inventory.TxTimeout)
	transferService.SetTxTimeout(cfg.Inventory.TxTimeout)

	inventoryService := inventoryapp.NewInventoryService(
		ledgerService,
		reservationService,
		transferService,
		locationService,
		movementService,
		inventory.NewAllocationService(),
		entryRepo,
		locationRepo,
	)

	eventBus := event.NewInMemoryEventBus(log)

	// Business metrics fed by stock events and periodic ledger aggregation
	businessMetrics, err := telemetry.NewBusinessMetrics(telemetry.BusinessMetricsConfig{
		Meter:         meterProvider.Meter("inventory.business"),
		Logger:        log,
		StockProvider: telemetry.NewGormStockMetricsProvider(db.DB),
	})
	if err != nil {
		log.Fatal("Failed to initialize business metrics", zap.Error(err))
	}
	if meterProvider.IsEnabled() {
		businessMetrics.StartPeriodicCollection(ctx, 5*time.Minute)
		defer businessMetrics.Stop()

		metricsHandler := telemetry.NewStockEventMetricsHandler(businessMetrics, log)
		eventBus.Subscribe(metricsHandler, metricsHandler.EventTypes()...)
		log.Info("Stock event metrics handler registered",
			zap.Strings("event_types", metricsHandler.EventTypes()),
		)
	}

	if err := eventBus.Start(ctx); err != nil {
		log.Fatal("Failed to start event bus", zap.Error(err))
	}
	defer func() {
		if err := eventBus.Stop(context.Background()); err != nil {
			log.Error("Error stopping event bus", zap.Error(err))
		}
	}()

	if cfg.Event.PublishEnabled {
		ledgerService.SetEventPublisher(eventBus)
		reservationService.SetEventPublisher(eventBus)
		transferService.SetEventPublisher(eventBus)
		locationService.SetEventPublisher(eventBus)
	}

	engine := buildEngine(cfg, db, log, meterProvider)
	registerRoutes(engine, inventoryService, locationService, movementService)

	serve(engine, cfg, log)
}

func setupTelemetry(ctx context.Context, cfg *config.Config, db *persistence.Database, log *zap.Logger) (*telemetry.TracerProvider, *telemetry.MeterProvider) {
	tracerProvider, err := telemetry.NewTracerProvider(ctx, telemetry.Config{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		SamplingRatio:     cfg.Telemetry.SamplingRatio,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize tracer provider", zap.Error(err))
	}

	meterProvider, err := telemetry.NewMeterProvider(ctx, telemetry.MetricsConfig{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize meter provider", zap.Error(err))
	}

	// otelgorm spans around every query
	if err := telemetry.RegisterDBTracing(db.DB, telemetry.DBInstrumentationConfig{
		Enabled:    cfg.Telemetry.DBTraceEnabled,
		DBName:     cfg.Database.DBName,
		LogFullSQL: cfg.Telemetry.DBLogFullSQL,
	}, log); err != nil {
		log.Fatal("Failed to register database tracing", zap.Error(err))
	}

	if meterProvider.IsEnabled() {
		if _, err := telemetry.RegisterDBPoolMetrics(db.DB, meterProvider.Meter("inventory.db"), log); err != nil {
			log.Fatal("Failed to register database pool metrics", zap.Error(err))
		}
	}

	return tracerProvider, meterProvider
}

func shutdownProvider(name string, shutdown func(context.Context) error, log *zap.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := shutdown(ctx); err != nil {
		log.Error("Error shutting down "+name, zap.Error(err))
	}
}

// buildEngine assembles the middleware stack. Ordering matters: request id
// first so every later stage can tag it, recovery before anything that can
// panic, tracing before logging so log lines carry span context.
func buildEngine(cfg *config.Config, db *persistence.Database, log *zap.Logger, meterProvider *telemetry.MeterProvider) *gin.Engine {
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	middleware.SetupValidator()

	engine := gin.New()
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	if cfg.Telemetry.Enabled {
		engine.Use(middleware.TracingWithConfig(middleware.TracingConfig{
			ServiceName: cfg.Telemetry.ServiceName,
			Enabled:     true,
		}))
		engine.Use(middleware.SpanErrorMarker())
	}
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.Secure())
	engine.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     cfg.HTTP.CORSAllowOrigins,
		AllowMethods:     cfg.HTTP.CORSAllowMethods,
		AllowHeaders:     cfg.HTTP.CORSAllowHeaders,
		ExposeHeaders:    []string{"X-Request-ID", "X-RateLimit-Limit", "X-RateLimit-Remaining"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))
	engine.Use(middleware.HTTPMetrics(middleware.HTTPMetricsConfig{
		MeterProvider: meterProvider,
		ServiceName:   cfg.Telemetry.ServiceName,
		Enabled:       cfg.Telemetry.Enabled,
	}))
	if cfg.HTTP.RateLimitEnabled {
		limiter := middleware.NewRateLimiter(cfg.HTTP.RateLimitRequests, cfg.HTTP.RateLimitWindow)
		engine.Use(middleware.RateLimit(limiter))
		log.Info("Rate limiting enabled",
			zap.Int("requests", cfg.HTTP.RateLimitRequests),
			zap.Duration("window", cfg.HTTP.RateLimitWindow),
		)
	}

	// Health endpoints live outside API versioning
	engine.GET("/health", healthHandler(db, log))
	engine.GET("/api/v1/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	return engine
}

func registerRoutes(
	engine *gin.Engine,
	inventoryService *inventoryapp.InventoryService,
	locationService *inventoryapp.LocationService,
	movementService *inventoryapp.MovementService,
) {
	inventoryHandler := handler.NewInventoryHandler(inventoryService)
	locationHandler := handler.NewLocationHandler(locationService)
	movementHandler := handler.NewMovementHandler(movementService)
	systemHandler := handler.NewSystemHandler()

	locationRoutes := router.NewDomainGroup("locations", "/locations")
	locationRoutes.POST("", locationHandler.Create)
	locationRoutes.GET("", locationHandler.List)
	locationRoutes.GET("/:id", locationHandler.Get)
	locationRoutes.PUT("/:id", locationHandler.Update)
	locationRoutes.DELETE("/:id", locationHandler.Delete)
	locationRoutes.POST("/:id/activate", locationHandler.Activate)
	locationRoutes.POST("/:id/deactivate", locationHandler.Deactivate)
	locationRoutes.GET("/:id/inventory", locationHandler.GetWithInventory)

	inventoryRoutes := router.NewDomainGroup("inventory", "/inventory")
	inventoryRoutes.GET("/entries", inventoryHandler.ListEntries)
	inventoryRoutes.GET("/entries/lookup", inventoryHandler.GetEntry)
	inventoryRoutes.GET("/variants/:variant_id/entries", inventoryHandler.ListByVariant)
	inventoryRoutes.GET("/variants/:variant_id/totals", inventoryHandler.GetVariantTotals)
	inventoryRoutes.GET("/variants/:variant_id/best-location", inventoryHandler.FindBestLocation)
	inventoryRoutes.GET("/locations/:location_id/entries", inventoryHandler.ListByLocation)
	inventoryRoutes.POST("/availability/check", inventoryHandler.CheckAvailability)
	inventoryRoutes.POST("/stock/adjust", inventoryHandler.AdjustStock)
	inventoryRoutes.POST("/stock/transfer", inventoryHandler.TransferStock)
	inventoryRoutes.POST("/stock/reserve", inventoryHandler.ReserveStock)
	inventoryRoutes.POST("/stock/release", inventoryHandler.ReleaseStock)
	inventoryRoutes.POST("/stock/fulfill", inventoryHandler.FulfillStock)
	inventoryRoutes.POST("/stock/reconcile", inventoryHandler.Reconcile)

	movementRoutes := router.NewDomainGroup("movements", "/movements")
	movementRoutes.GET("", movementHandler.List)
	movementRoutes.GET("/:id", movementHandler.Get)
	movementRoutes.GET("/variant/:variant_id", movementHandler.ListByVariant)
	movementRoutes.GET("/location/:location_id", movementHandler.ListByLocation)
	movementRoutes.GET("/order/:order_id", movementHandler.ListByOrder)

	systemRoutes := router.NewDomainGroup("system", "/system")
	systemRoutes.GET("/info", systemHandler.GetSystemInfo)
	systemRoutes.GET("/ping", systemHandler.Ping)

	router.NewRouter(engine, router.WithAPIVersion("v1")).
		Register(locationRoutes).
		Register(inventoryRoutes).
		Register(movementRoutes).
		Register(systemRoutes).
		Setup()
}

// serve starts the HTTP server and blocks until SIGINT or SIGTERM.
func serve(engine *gin.Engine, cfg *config.Config, log *zap.Logger) {
	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

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

func healthHandler(db *persistence.Database, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		status, dbState := http.StatusOK, "ok"
		if err := db.Ping(); err != nil {
			log.Warn("Health check failed", zap.Error(err))
			status, dbState = http.StatusServiceUnavailable, "error"
		}
		label := "healthy"
		if status != http.StatusOK {
			label = "unhealthy"
		}
		c.JSON(status, gin.H{
			"status":   label,
			"time":     time.Now().Format(time.RFC3339),
			"database": dbState,
		})
	}
}

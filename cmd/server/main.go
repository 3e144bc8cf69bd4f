package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	appasset "github.com/catalogue/backend/internal/application/asset"
	cartapp "github.com/catalogue/backend/internal/application/cart"
	catalogapp "github.com/catalogue/backend/internal/application/catalog"
	contentapp "github.com/catalogue/backend/internal/application/content"
	enquiryapp "github.com/catalogue/backend/internal/application/enquiry"
	identityapp "github.com/catalogue/backend/internal/application/identity"
	importapp "github.com/catalogue/backend/internal/application/import"
	"github.com/catalogue/backend/internal/domain/asset"
	"github.com/catalogue/backend/internal/domain/shared"
	"github.com/catalogue/backend/internal/infrastructure/auth"
	"github.com/catalogue/backend/internal/infrastructure/cache"
	"github.com/catalogue/backend/internal/infrastructure/config"
	"github.com/catalogue/backend/internal/infrastructure/event"
	"github.com/catalogue/backend/internal/infrastructure/logger"
	"github.com/catalogue/backend/internal/infrastructure/persistence"
	"github.com/catalogue/backend/internal/infrastructure/scheduler"
	"github.com/catalogue/backend/internal/infrastructure/storage"
	"github.com/catalogue/backend/internal/infrastructure/telemetry"
	"github.com/catalogue/backend/internal/interfaces/http/handler"
	"github.com/catalogue/backend/internal/interfaces/http/middleware"
	"github.com/catalogue/backend/internal/interfaces/http/router"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	_ "github.com/catalogue/backend/docs"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

//	@title			Catalogue API
//	@version		1.0
//	@description	Product catalogue, cart and enquiry service for the dashboard and storefront.

//	@host		localhost:8080
//	@BasePath	/api/v1

//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				Bearer token authentication. Format: "Bearer {token}"

// shutdownTimeout bounds the whole graceful shutdown sequence
const shutdownTimeout = 30 * time.Second

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
		Service:    cfg.App.Name,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	log.Info("Starting catalogue backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	ctx := context.Background()

	// Telemetry
	otelProviders, err := telemetry.Setup(ctx, telemetry.Config{
		ServiceName:       cfg.Telemetry.ServiceName,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		Insecure:          cfg.Telemetry.Insecure,
		TracingEnabled:    cfg.Telemetry.Enabled,
		SamplingRatio:     cfg.Telemetry.SamplingRatio,
		MetricsEnabled:    cfg.Telemetry.MetricsEnabled,
		MetricsInterval:   cfg.Telemetry.MetricsInterval,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize telemetry", zap.Error(err))
	}
	meter := otelProviders.Meter(telemetry.TracerName)

	catalogMetrics, err := telemetry.NewCatalogMetrics(meter, log)
	if err != nil {
		log.Fatal("Failed to create catalogue metrics", zap.Error(err))
	}

	// Database
	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level),
		logger.WithSlowThreshold(cfg.Telemetry.DBSlowQueryThresh),
		logger.WithIgnoreRecordNotFoundError(true),
		logger.WithBoundValues(cfg.Telemetry.DBLogFullSQL),
	)
	db, err := persistence.NewDatabase(&cfg.Database, persistence.WithLogger(gormLog))
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	log.Info("Database connected successfully")

	if err := telemetry.NewDBTracingPlugin(telemetry.DBTracingConfig{
		Enabled:         cfg.Telemetry.Enabled && cfg.Telemetry.DBTraceEnabled,
		LogFullSQL:      cfg.Telemetry.DBLogFullSQL,
		SlowQueryThresh: cfg.Telemetry.DBSlowQueryThresh,
	}, log).Register(db.DB); err != nil {
		log.Fatal("Failed to register database tracing", zap.Error(err))
	}

	var dbMetrics *telemetry.DBMetrics
	if sqlDB, err := db.DB.DB(); err == nil {
		dbMetrics, err = telemetry.NewDBMetrics(meter, sqlDB, cfg.Telemetry.DBSlowQueryThresh, log)
		if err != nil {
			log.Fatal("Failed to create database metrics", zap.Error(err))
		}
		if err := dbMetrics.Register(db.DB); err != nil {
			log.Fatal("Failed to register database metrics", zap.Error(err))
		}
	}

	// Redis backs token revocation and enquiry idempotency when configured
	var redisClient *redis.Client
	if cfg.Redis.Enabled() {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr(),
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
	}

	var revocations auth.Revocations
	if redisClient != nil {
		revocations = auth.NewRedisRevocations(redisClient)
	} else {
		log.Warn("Redis not configured, token revocations are not enforced")
		revocations = auth.NewMemoryRevocations()
	}

	idempotencyStore, err := cache.NewIdempotencyStoreFactory(redisClient,
		cache.WithLogger(log),
		cache.WithInMemoryFallback(cfg.App.Env != "production"),
	).CreateStore(ctx)
	if err != nil {
		log.Fatal("Failed to create idempotency store", zap.Error(err))
	}

	// Asset storage
	assetStorage, err := newAssetStorage(ctx, cfg, log)
	if err != nil {
		log.Fatal("Failed to initialize asset storage", zap.Error(err))
	}

	// Repositories
	categoryRepo := persistence.NewGormCategoryRepository(db.DB)
	productRepo := persistence.NewGormProductRepository(db.DB)
	cartRepo := persistence.NewGormCartRepository(db.DB)
	enquiryRepo := persistence.NewGormEnquiryRepository(db.DB)
	userDirectory := persistence.NewGormUserDirectory(db.DB)
	cleanupFailures := persistence.NewGormAssetCleanupRepository(db.DB)

	// Event bus: released assets are deleted off the request path
	eventBus := event.NewAsyncEventBus(log)
	cleanupHandler := event.NewIdempotentHandler(
		"asset_cleanup",
		appasset.NewCleanupHandler(assetStorage, cleanupFailures, catalogMetrics, log),
		idempotencyStore,
		shared.DefaultIdempotencyConfig(),
		log,
	)
	eventBus.Subscribe(cleanupHandler, cleanupHandler.EventTypes()...)
	if err := eventBus.Start(ctx); err != nil {
		log.Fatal("Failed to start event bus", zap.Error(err))
	}
	log.Info("Event handlers registered", zap.Strings("asset_cleanup_events", cleanupHandler.EventTypes()))

	releaser := appasset.NewReleaser(eventBus, log)
	uploader := appasset.NewUploader(assetStorage, releaser)

	// Application services
	categoryService := catalogapp.NewCategoryService(categoryRepo, uploader)
	productService := catalogapp.NewProductService(productRepo, categoryRepo, uploader, releaser)
	importService := importapp.NewProductImportService(productRepo, categoryRepo, cfg.Import.MaxRows, catalogMetrics)
	cartService := cartapp.NewService(cartRepo, productRepo, catalogMetrics)
	enquiryService := enquiryapp.NewService(
		persistence.NewGormEnquiryTransactionScope(db.DB),
		enquiryRepo, productRepo, userDirectory,
		enquiryapp.WithIdempotency(idempotencyStore, shared.IdempotencyConfig{
			Enabled: cfg.Enquiry.IdempotencyEnabled,
			TTL:     cfg.Enquiry.IdempotencyTTL,
		}),
		enquiryapp.WithMetrics(catalogMetrics),
	)
	userService := identityapp.NewUserService(userDirectory)
	contentService := contentapp.NewService(
		persistence.NewGormSocialLinkRepository(db.DB),
		persistence.NewGormBannerRepository(db.DB),
		persistence.NewGormTermsRepository(db.DB),
		uploader, releaser,
	)

	// Asset reconcile scheduler
	reconcileScheduler, err := scheduler.NewAssetReconcileScheduler(
		appasset.NewReconciler(assetStorage, cleanupFailures, log),
		log,
		scheduler.AssetReconcileSchedulerConfig{
			Enabled:   cfg.Scheduler.AssetReconcileEnabled,
			Interval:  cfg.Scheduler.AssetReconcileInterval,
			BatchSize: cfg.Scheduler.AssetReconcileBatchSize,
			Timeout:   cfg.Scheduler.AssetReconcileTimeout,
		},
	)
	if err != nil {
		log.Fatal("Failed to create asset reconcile scheduler", zap.Error(err))
	}
	if err := reconcileScheduler.Start(ctx); err != nil {
		log.Fatal("Failed to start asset reconcile scheduler", zap.Error(err))
	}

	// Health probes
	healthHandler := handler.NewHealthHandler(db.PingContext)
	if redisClient != nil {
		healthHandler.AddCheck("redis", func(ctx context.Context) error {
			return redisClient.Ping(ctx).Err()
		})
	}

	// Set Gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	if err := middleware.SetupValidator(); err != nil {
		log.Fatal("Failed to register validators", zap.Error(err))
	}

	engine := gin.New()
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	httpMetrics, err := middleware.HTTPMetrics(meter)
	if err != nil {
		log.Fatal("Failed to create HTTP metrics", zap.Error(err))
	}

	// Apply middleware stack in order:
	// 1. RequestID - Generate/propagate request ID
	// 2. Tracing - Root span per request, then request/user attributes
	// 3. Logger - Log requests with request-scoped logger
	// 4. Recovery - Catch panics
	// 5. CORS, security headers, body limit, HTTP metrics
	corsConfig := middleware.DefaultCORSConfig()
	corsConfig.AllowOrigins = cfg.HTTP.CORSAllowOrigins
	if len(cfg.HTTP.CORSAllowMethods) > 0 {
		corsConfig.AllowMethods = cfg.HTTP.CORSAllowMethods
	}
	if len(cfg.HTTP.CORSAllowHeaders) > 0 {
		corsConfig.AllowHeaders = cfg.HTTP.CORSAllowHeaders
	}

	securityConfig := middleware.DefaultSecurityConfig()
	securityConfig.HSTSEnabled = cfg.App.Env == "production"

	engine.Use(
		middleware.RequestID(),
		middleware.TracingWithConfig(middleware.TracingConfig{
			ServiceName: cfg.Telemetry.ServiceName,
			Enabled:     cfg.Telemetry.Enabled,
		}),
		middleware.SpanAttributes(),
		logger.AccessLog(log, logger.WithSkipPaths("/health")),
		logger.Recovery(log),
		middleware.CORSWithConfig(corsConfig),
		middleware.SecureWithConfig(securityConfig),
		middleware.BodyLimitWithUploads(cfg.HTTP.MaxBodySize, cfg.HTTP.MaxUploadSize),
		httpMetrics,
	)

	// Health check endpoint (outside API versioning)
	engine.GET("/health", healthHandler.Check)

	// Swagger documentation endpoint
	engine.GET("/swagger/*any",
		middleware.SwaggerProtection(middleware.SwaggerConfig{
			Enabled:    cfg.Swagger.Enabled,
			AllowedIPs: cfg.Swagger.AllowedIPs,
		}),
		ginSwagger.WrapHandler(swaggerFiles.Handler),
	)

	guards := router.Guards{
		Authenticate: middleware.JWTAuthMiddlewareWithConfig(middleware.JWTMiddlewareConfig{
			JWTService:     auth.NewJWTService(cfg.JWT),
			Revocations:    revocations,
			Logger:         log,
		}),
		RequireAdmin: middleware.RequireAdmin(),
	}
	handlers := router.Handlers{
		Category: handler.NewCategoryHandler(categoryService, productService),
		Product:  handler.NewProductHandler(productService),
		Import:   handler.NewImportHandler(importService, cfg.Import.MaxFileSize),
		Cart:     handler.NewCartHandler(cartService),
		Enquiry:  handler.NewEnquiryHandler(enquiryService),
		User:     handler.NewUserHandler(userService),
		Content:  handler.NewContentHandler(contentService),
		Health:   healthHandler,
	}
	router.NewRouter(engine, router.WithAPIVersion("v1"), router.WithGuards(guards)).
		Mount(router.CatalogueRoutes(handlers)...).
		Setup()

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
	serverErr := make(chan error, 1)
	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case sig := <-quit:
		log.Info("Shutting down server...", zap.String("signal", sig.String()))
	case err := <-serverErr:
		log.Error("Server failed", zap.Error(err))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}
	if err := reconcileScheduler.Stop(shutdownCtx); err != nil {
		log.Error("Error stopping asset reconcile scheduler", zap.Error(err))
	}
	if err := eventBus.Stop(shutdownCtx); err != nil {
		log.Error("Error stopping event bus", zap.Error(err))
	}
	if err := idempotencyStore.Close(); err != nil {
		log.Error("Error closing idempotency store", zap.Error(err))
	}
	if redisClient != nil {
		if err := redisClient.Close(); err != nil {
			log.Error("Error closing redis client", zap.Error(err))
		}
	}
	if dbMetrics != nil {
		dbMetrics.Stop()
	}
	_ = otelProviders.Shutdown(shutdownCtx)
	if err := db.Close(); err != nil {
		log.Error("Error closing database", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}

// newAssetStorage builds the configured asset store. The local provider keeps
// objects in memory and is meant for development only.
func newAssetStorage(ctx context.Context, cfg *config.Config, log *zap.Logger) (asset.Storage, error) {
	if cfg.Storage.Provider != "s3" {
		log.Warn("Using in-memory asset storage", zap.String("provider", cfg.Storage.Provider))
		return storage.NewMemoryStorage(cfg.Storage.PublicBaseURL), nil
	}

	s3Storage, err := storage.NewS3Storage(&cfg.Storage, storage.WithLogger(log))
	if err != nil {
		return nil, err
	}
	if err := s3Storage.EnsureBucket(ctx); err != nil {
		return nil, err
	}
	log.Info("S3 asset storage ready",
		zap.String("bucket", cfg.Storage.Bucket),
		zap.String("endpoint", cfg.Storage.Endpoint),
	)
	return s3Storage, nil
}

package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	cartapp "github.com/secureshop/backend/internal/application/cart"
	catalogapp "github.com/secureshop/backend/internal/application/catalog"
	checkoutapp "github.com/secureshop/backend/internal/application/checkout"
	contentapp "github.com/secureshop/backend/internal/application/content"
	eventapp "github.com/secureshop/backend/internal/application/event"
	identityapp "github.com/secureshop/backend/internal/application/identity"
	inventoryapp "github.com/secureshop/backend/internal/application/inventory"
	mediaapp "github.com/secureshop/backend/internal/application/media"
	orderapp "github.com/secureshop/backend/internal/application/order"
	paymentapp "github.com/secureshop/backend/internal/application/payment"
	promotionapp "github.com/secureshop/backend/internal/application/promotion"
	reportapp "github.com/secureshop/backend/internal/application/report"
	supportapp "github.com/secureshop/backend/internal/application/support"
	"github.com/secureshop/backend/internal/domain/order"
	"github.com/secureshop/backend/internal/domain/shared"
	"github.com/secureshop/backend/internal/domain/shared/valueobject"
	"github.com/secureshop/backend/internal/infrastructure/auth"
	"github.com/secureshop/backend/internal/infrastructure/cache"
	"github.com/secureshop/backend/internal/infrastructure/config"
	"github.com/secureshop/backend/internal/infrastructure/event"
	"github.com/secureshop/backend/internal/infrastructure/export"
	"github.com/secureshop/backend/internal/infrastructure/logger"
	"github.com/secureshop/backend/internal/infrastructure/mail"
	"github.com/secureshop/backend/internal/infrastructure/oauth"
	"github.com/secureshop/backend/internal/infrastructure/payment"
	"github.com/secureshop/backend/internal/infrastructure/persistence"
	"github.com/secureshop/backend/internal/infrastructure/printing"
	"github.com/secureshop/backend/internal/infrastructure/scheduler"
	"github.com/secureshop/backend/internal/infrastructure/storage"
	"github.com/secureshop/backend/internal/infrastructure/telemetry"
	"github.com/secureshop/backend/internal/interfaces/http/handler"
	"github.com/secureshop/backend/internal/interfaces/http/middleware"
	"github.com/secureshop/backend/internal/interfaces/http/router"
	"go.uber.org/zap"

	_ "github.com/secureshop/backend/docs"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// version is set at build time with -ldflags "-X main.version=..."
var version = "dev"

//	@title			SecureShop API
//	@version		1.0
//	@description	Storefront and back office API for the SecureShop electronics store
//	@termsOfService	http://swagger.io/terms/

//	@contact.name	API Support
//	@contact.url	https://github.com/secureshop/backend
//	@contact.email	support@secureshop.vn

//	@license.name	Apache 2.0
//	@license.url	http://www.apache.org/licenses/LICENSE-2.0.html

//	@host		localhost:8080
//	@BasePath	/api/v1

//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				Bearer token authentication. Format: "Bearer {token}"

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

	log.Info("Starting SecureShop API",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
		zap.String("version", version),
	)

	ctx := context.Background()

	loc, err := time.LoadLocation(cfg.App.Timezone)
	if err != nil {
		log.Warn("Unknown timezone, falling back to UTC", zap.String("timezone", cfg.App.Timezone), zap.Error(err))
		loc = time.UTC
	}

	// Tracing
	tracerProvider, err := telemetry.NewTracerProvider(ctx, telemetry.Config{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		SamplingRatio:     cfg.Telemetry.SamplingRatio,
		ServiceName:       cfg.Telemetry.ServiceName,
		ServiceVersion:    version,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
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

	// OTLP log export; the stdout core keeps writing as before
	logProvider, err := telemetry.NewLoggerProvider(ctx, telemetry.LogsConfig{
		Enabled:           cfg.Telemetry.LogsEnabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		ServiceName:       cfg.Telemetry.ServiceName,
		ServiceVersion:    version,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize OTLP logs", zap.Error(err))
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := logProvider.Shutdown(shutdownCtx); err != nil {
			log.Error("Error shutting down logger provider", zap.Error(err))
		}
	}()
	log = logProvider.Bridge(log, logger.ParseLevel(cfg.Log.Level))

	// Continuous profiling
	profiler, err := telemetry.NewProfiler(telemetry.ProfilerConfig{
		Enabled:           cfg.Telemetry.Profiling.Enabled,
		ServerAddress:     cfg.Telemetry.Profiling.ServerAddress,
		ApplicationName:   cfg.Telemetry.ServiceName,
		BasicAuthUser:     cfg.Telemetry.Profiling.BasicAuthUser,
		BasicAuthPassword: cfg.Telemetry.Profiling.BasicAuthPassword,
		ProfileTypes:      cfg.Telemetry.Profiling.ProfileTypes,
	}, log)
	if err != nil {
		log.Fatal("Failed to start profiler", zap.Error(err))
	}
	defer func() {
		_ = profiler.Stop()
	}()
	if profiler.IsEnabled() && cfg.Telemetry.Profiling.SpanProfiles {
		tracerProvider.EnableSpanProfiles()
	}

	// Database
	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level))
	db, err := persistence.NewDatabase(&cfg.Database, persistence.WithLogger(gormLog))
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	if cfg.Database.Driver == "sqlite" {
		if err := db.AutoMigrate(); err != nil {
			log.Fatal("Failed to migrate sqlite schema", zap.Error(err))
		}
	}
	if cfg.Telemetry.Enabled && cfg.Telemetry.DBTraceEnabled {
		dbTracing := telemetry.DefaultDBTracingConfig()
		dbTracing.Enabled = true
		dbTracing.DBSystem = cfg.Database.Driver
		if cfg.Telemetry.DBSlowQueryThresh > 0 {
			dbTracing.SlowQueryThresh = cfg.Telemetry.DBSlowQueryThresh
		}
		if err := telemetry.NewDBTracingPlugin(dbTracing, log).Register(db.DB); err != nil {
			log.Warn("Failed to register database tracing", zap.Error(err))
		}
	}
	log.Info("Database connected", zap.String("driver", cfg.Database.Driver))

	// Metrics
	metrics := telemetry.NewMetrics("secureshop")
	meterProvider, err := telemetry.NewMeterProvider(ctx, telemetry.MeterConfig{
		Enabled:           cfg.Telemetry.MetricsEnabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		ServiceName:       cfg.Telemetry.ServiceName,
		ServiceVersion:    version,
		Insecure:          cfg.Telemetry.Insecure,
		ExportInterval:    cfg.Telemetry.MetricsInterval,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize OTLP metrics", zap.Error(err))
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := meterProvider.Shutdown(shutdownCtx); err != nil {
			log.Error("Error shutting down meter provider", zap.Error(err))
		}
	}()
	if meterProvider.IsEnabled() {
		if err := metrics.ExportOTLP(meterProvider.Meter("secureshop")); err != nil {
			log.Warn("Failed to mirror metrics over OTLP", zap.Error(err))
		}
	}
	if sqlDB, err := db.DB.DB(); err == nil {
		if err := metrics.RegisterDB(sqlDB, cfg.Database.DBName); err != nil {
			log.Warn("Failed to register database metrics", zap.Error(err))
		}
	}

	// Redis backs token revocation, verification tokens and idempotency keys
	// when configured. Without it every store is in-memory.
	var (
		redisClient   *redis.Client
		universal     redis.UniversalClient
		blacklist     auth.TokenBlacklist     = auth.NewInMemoryTokenBlacklist()
		verifications auth.VerificationTokens = auth.NewInMemoryVerificationTokens()
		confirmTokens auth.VerificationTokens = auth.NewInMemoryVerificationTokens()
	)
	if cfg.Redis.Enabled() {
		redisClient, err = cache.NewRedisClient(ctx, cfg.Redis)
		if err != nil {
			log.Fatal("Failed to connect to Redis", zap.Error(err))
		}
		defer func() {
			if err := redisClient.Close(); err != nil {
				log.Error("Error closing Redis", zap.Error(err))
			}
		}()
		universal = redisClient
		blacklist = auth.NewRedisTokenBlacklist(redisClient)
		verifications = auth.NewRedisVerificationTokens(redisClient)
		confirmTokens = auth.NewRedisTokenStore(redisClient, auth.OrderConfirmationPrefix)
		log.Info("Redis connected", zap.String("addr", cfg.Redis.Addr()))
	}
	idempotencyStore := cache.NewIdempotencyStore(universal, log)
	defer func() {
		_ = idempotencyStore.Close()
	}()

	// Object storage
	objectStorage, err := newObjectStorage(ctx, cfg.Storage, log)
	if err != nil {
		log.Fatal("Failed to initialize object storage", zap.Error(err))
	}

	// Repositories
	userRepo := persistence.NewGormUserRepository(db.DB)
	addressRepo := persistence.NewGormAddressRepository(db.DB)
	categoryRepo := persistence.NewGormCategoryRepository(db.DB)
	brandRepo := persistence.NewGormBrandRepository(db.DB)
	productRepo := persistence.NewGormProductRepository(db.DB)
	reviewRepo := persistence.NewGormReviewRepository(db.DB)
	inventoryRepo := persistence.NewGormInventoryRepository(db.DB)
	movementRepo := persistence.NewGormMovementRepository(db.DB)
	cartRepo := persistence.NewGormCartRepository(db.DB)
	discountRepo := persistence.NewGormDiscountRepository(db.DB)
	orderRepo := persistence.NewGormOrderRepository(db.DB)
	paymentRepo := persistence.NewGormPaymentRepository(db.DB)
	articleRepo := persistence.NewGormArticleRepository(db.DB)
	bannerRepo := persistence.NewGormBannerRepository(db.DB)
	ticketRepo := persistence.NewGormTicketRepository(db.DB)
	warrantyRepo := persistence.NewGormWarrantyRepository(db.DB)
	outboxRepo := persistence.NewGormOutboxRepository(db.DB)
	tx := persistence.NewTxManager(db.DB)

	// Events are written to the outbox inside the business transaction
	eventSerializer := event.NewEventSerializer()
	event.RegisterAllEvents(eventSerializer)
	outboxPublisher := event.NewOutboxPublisher(outboxRepo, eventSerializer, cfg.Event.MaxRetries)

	// Adapters
	jwtService := auth.NewJWTService(cfg.JWT)
	mailer := mail.NewLogMailer(cfg.Mail.From, log)

	var oauthProvider identityapp.OAuthProvider
	if cfg.OAuth.GoogleEnabled() {
		google, err := oauth.NewGoogleProvider(cfg.OAuth, cfg.JWT.Secret)
		if err != nil {
			log.Fatal("Failed to initialize Google login", zap.Error(err))
		}
		oauthProvider = google
	}

	vnpay, err := payment.NewVNPayAdapter(cfg.VNPay)
	if err != nil {
		log.Fatal("Failed to initialize VNPay", zap.Error(err))
	}

	chrome := printing.NewChromedpRenderer(printing.ChromedpConfig{
		DefaultTimeout: cfg.Printing.Timeout,
		RemoteURL:      cfg.Printing.ChromeURL,
		NoSandbox:      true,
		Logger:         log,
	})
	defer func() {
		if err := chrome.Close(); err != nil {
			log.Error("Error closing browser", zap.Error(err))
		}
	}()
	invoiceRenderer := printing.NewInvoiceRenderer(chrome, printing.DefaultSeller(), loc)

	// Application services
	authService := identityapp.NewAuthService(
		userRepo, tx, outboxPublisher, jwtService, blacklist, verifications, mailer, oauthProvider,
		identityapp.AuthServiceConfig{
			VerificationTTL:     cfg.Mail.VerificationTTL,
			VerificationBaseURL: cfg.Mail.VerificationBaseURL,
		},
		log,
	)
	userService := identityapp.NewUserService(userRepo, addressRepo, tx, outboxPublisher, jwtService, blacklist, log)

	categoryService := catalogapp.NewCategoryService(categoryRepo, log)
	brandService := catalogapp.NewBrandService(brandRepo, log)
	productService := catalogapp.NewProductService(productRepo, categoryRepo, brandRepo, inventoryRepo, reviewRepo, tx, outboxPublisher, log)
	reviewService := catalogapp.NewReviewService(reviewRepo, productRepo, orderRepo, tx, log)

	inventoryService := inventoryapp.NewInventoryService(inventoryRepo, movementRepo, productRepo, tx, outboxPublisher, log)
	cartService := cartapp.NewCartService(cartRepo, productRepo, inventoryRepo, log)
	discountService := promotionapp.NewDiscountService(discountRepo, log)

	checkoutOpts := []checkoutapp.Option{
		checkoutapp.WithIdempotency(idempotencyStore, cfg.Checkout.IdempotencyTTL),
		checkoutapp.WithMetrics(metrics),
	}
	if cfg.Checkout.StandardShippingFee.IsPositive() && cfg.Checkout.ExpressShippingFee.IsPositive() {
		checkoutOpts = append(checkoutOpts, checkoutapp.WithShippingFees(order.ShippingFees{
			Standard: valueobject.VNDOf(cfg.Checkout.StandardShippingFee),
			Express:  valueobject.VNDOf(cfg.Checkout.ExpressShippingFee),
		}))
	}
	checkoutService := checkoutapp.NewService(
		productRepo, cartRepo, orderRepo, inventoryService, discountService, tx, outboxPublisher, log,
		checkoutOpts...,
	)
	orderService := orderapp.NewOrderService(orderRepo, inventoryService, tx, outboxPublisher, invoiceRenderer, metrics, log)
	confirmationService := orderapp.NewConfirmationService(orderRepo, orderService, confirmTokens, mailer,
		orderapp.ConfirmationConfig{
			BaseURL: cfg.Mail.OrderConfirmationBaseURL,
			TTL:     cfg.Mail.OrderConfirmationTTL,
		},
		log,
	)
	paymentService := paymentapp.NewPaymentService(orderRepo, paymentRepo, vnpay, tx, outboxPublisher, metrics, log)

	mediaService := mediaapp.NewService(objectStorage, cfg.Storage.MaxUploadSize)
	articleService := contentapp.NewArticleService(articleRepo, log)
	bannerService := contentapp.NewBannerService(bannerRepo, log)
	ticketService := supportapp.NewTicketService(ticketRepo, log)
	warrantyService := supportapp.NewWarrantyService(warrantyRepo, orderRepo, log)
	analyticsService := reportapp.NewAnalyticsService(orderRepo, productRepo, inventoryRepo, userRepo, export.NewExcelWriter(), loc, log)
	outboxService := eventapp.NewOutboxService(outboxRepo, log)

	// Event bus and subscribers
	eventBus := event.NewInMemoryEventBus(log)
	eventBus.Subscribe(event.NewAuditHandler(log))
	eventBus.Subscribe(inventoryapp.NewLowStockHandler(log).
		WithNotifier(inventoryapp.NewLoggingStockAlertNotifier(log)))
	// one confirmation mail per placed order even when the outbox redelivers
	eventBus.Subscribe(event.NewIdempotentHandler(confirmationService, idempotencyStore, idempotencyConfig(), log))
	if len(cfg.Event.KafkaBrokers) > 0 {
		forwarder, err := event.NewKafkaForwarder(ctx, cfg.Event.KafkaBrokers, cfg.Event.KafkaTopic, eventSerializer, log)
		if err != nil {
			log.Fatal("Failed to connect to Kafka", zap.Error(err))
		}
		defer forwarder.Close()
		// the outbox may redeliver after a crash; the key keeps Kafka at-most-once per event
		eventBus.Subscribe(event.NewIdempotentHandler(forwarder, idempotencyStore, idempotencyConfig(), log))
		log.Info("Kafka forwarding enabled",
			zap.Strings("brokers", cfg.Event.KafkaBrokers),
			zap.String("topic", cfg.Event.KafkaTopic),
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

	if cfg.Event.ProcessorEnabled {
		outboxConfig := event.DefaultOutboxProcessorConfig()
		if cfg.Event.BatchSize > 0 {
			outboxConfig.BatchSize = cfg.Event.BatchSize
		}
		if cfg.Event.PollInterval > 0 {
			outboxConfig.PollInterval = cfg.Event.PollInterval
		}
		outboxConfig.CleanupEnabled = cfg.Event.CleanupEnabled
		if cfg.Event.CleanupRetention > 0 {
			outboxConfig.CleanupRetention = cfg.Event.CleanupRetention
		}
		outboxProcessor := event.NewOutboxProcessor(outboxRepo, eventBus, eventSerializer, outboxConfig, log).
			WithRecorder(metrics)
		if err := outboxProcessor.Start(ctx); err != nil {
			log.Fatal("Failed to start outbox processor", zap.Error(err))
		}
		defer func() {
			if err := outboxProcessor.Stop(context.Background()); err != nil {
				log.Error("Error stopping outbox processor", zap.Error(err))
			}
		}()
		log.Info("Outbox processor started",
			zap.Int("batch_size", outboxConfig.BatchSize),
			zap.Duration("poll_interval", outboxConfig.PollInterval),
		)
	}

	// Background maintenance
	if cfg.Scheduler.Enabled {
		jobs := scheduler.New(scheduler.Config{
			Workers:       cfg.Scheduler.Workers,
			JobTimeout:    cfg.Scheduler.JobTimeout,
			RetryAttempts: cfg.Scheduler.RetryAttempts,
			RetryDelay:    cfg.Scheduler.RetryDelay,
		}, log)
		jobs.Register(scheduler.TaskExpireUnpaidOrders,
			scheduler.ExpireUnpaidOrders(orderService, cfg.Checkout.UnpaidOrderTTL, log))
		if err := jobs.Start(ctx); err != nil {
			log.Fatal("Failed to start scheduler", zap.Error(err))
		}
		ticker := scheduler.NewTicker(jobs, log).
			Every(scheduler.TaskExpireUnpaidOrders, cfg.Scheduler.ExpireInterval)
		if err := ticker.Start(ctx); err != nil {
			log.Fatal("Failed to start scheduler ticker", zap.Error(err))
		}
		defer func() {
			if err := ticker.Stop(context.Background()); err != nil {
				log.Error("Error stopping scheduler ticker", zap.Error(err))
			}
			if err := jobs.Stop(context.Background()); err != nil {
				log.Error("Error stopping scheduler", zap.Error(err))
			}
		}()
	}

	// HTTP handlers
	healthChecks := map[string]handler.HealthCheck{
		"database": func(context.Context) error { return db.Ping() },
	}
	if redisClient != nil {
		healthChecks["redis"] = func(ctx context.Context) error { return redisClient.Ping(ctx).Err() }
	}
	handlers := router.Handlers{
		Auth:      handler.NewAuthHandler(authService, cfg.Cookie, cfg.OAuth),
		User:      handler.NewUserHandler(userService),
		Product:   handler.NewProductHandler(productService),
		Category:  handler.NewCategoryHandler(categoryService),
		Brand:     handler.NewBrandHandler(brandService),
		Review:    handler.NewReviewHandler(reviewService),
		Inventory: handler.NewInventoryHandler(inventoryService),
		Cart:      handler.NewCartHandler(cartService),
		Promotion: handler.NewPromotionHandler(discountService),
		Checkout:  handler.NewCheckoutHandler(checkoutService),
		Order:     handler.NewOrderHandler(orderService, confirmationService),
		Payment:   handler.NewPaymentHandler(paymentService),
		Upload:    handler.NewUploadHandler(mediaService),
		Article:   handler.NewArticleHandler(articleService),
		Banner:    handler.NewBannerHandler(bannerService),
		Ticket:    handler.NewTicketHandler(ticketService),
		Warranty:  handler.NewWarrantyHandler(warrantyService),
		Report:    handler.NewReportHandler(analyticsService),
		Outbox:    handler.NewOutboxHandler(outboxService),
		System:    handler.NewSystemHandler(cfg.App.Name, version, healthChecks),
	}

	if cfg.App.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	middleware.SetupValidator()

	engine := gin.New()
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	// Middleware order:
	// 1. RequestID - Generate/propagate request ID
	// 2. Recovery - Catch panics
	// 3. Tracing - Root span per request
	// 4. Logger - Log requests
	// 5. Metrics - Count and time requests
	// 6. Security - Add security headers
	// 7. CORS - Handle cross-origin requests
	// 8. BodyLimit - Limit request body size, uploads get their own limit
	// 9. RateLimit - Apply rate limiting (if enabled)
	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log, nil))
	engine.Use(middleware.TracingWithConfig(middleware.TracingConfig{
		ServiceName: cfg.Telemetry.ServiceName,
		Enabled:     cfg.Telemetry.Enabled,
	}))
	engine.Use(middleware.SpanAttributes())
	if profiler.IsEnabled() {
		engine.Use(middleware.ProfilingWithConfig(middleware.DefaultProfilingConfig()))
	}
	engine.Use(logger.GinMiddleware(log))
	if cfg.Metrics.Enabled {
		metricsConfig := middleware.DefaultHTTPMetricsConfig(metrics)
		metricsConfig.SkipPaths = append(metricsConfig.SkipPaths, cfg.Metrics.Path)
		engine.Use(middleware.HTTPMetrics(metricsConfig))
	}
	engine.Use(middleware.Secure())
	engine.Use(middleware.CORSWithConfig(middleware.StorefrontCORSConfig(
		cfg.HTTP.CORSAllowOrigins,
		cfg.HTTP.CORSAllowMethods,
		cfg.HTTP.CORSAllowHeaders,
	)))

	r := router.NewRouter(engine, router.WithAPIVersion("v1"))

	// multipart overhead on top of the file itself
	uploadLimit := mediaService.MaxSize() + 1<<20
	engine.Use(middleware.BodyLimitWithOverrides(cfg.HTTP.MaxBodySize, map[string]int64{
		r.BasePath() + "/uploads": uploadLimit,
	}))

	if cfg.HTTP.RateLimitEnabled {
		limiter := middleware.NewRateLimiter("global", cfg.HTTP.RateLimitRequests, cfg.HTTP.RateLimitWindow).
			WithRecorder(metrics)
		engine.Use(middleware.RateLimit(limiter))
		log.Info("Rate limiting enabled",
			zap.Int("requests", cfg.HTTP.RateLimitRequests),
			zap.Duration("window", cfg.HTTP.RateLimitWindow),
		)
	}

	jwtMiddleware := middleware.JWTAuthMiddlewareWithConfig(middleware.JWTMiddlewareConfig{
		JWTService:     jwtService,
		TokenBlacklist: blacklist,
		Logger:         log,
	})
	guards := router.Guards{
		Auth:         jwtMiddleware,
		OptionalAuth: middleware.OptionalJWTAuthMiddleware(jwtService, blacklist),
		Admin:        middleware.RequireAdmin(),
	}
	if cfg.HTTP.AuthRateLimitEnabled {
		authLimiter := middleware.NewRateLimiter("auth", cfg.HTTP.AuthRateLimitRequests, cfg.HTTP.AuthRateLimitWindow).
			WithRecorder(metrics)
		guards.AuthLimit = middleware.RateLimit(authLimiter)
	}

	// Platform endpoints outside API versioning
	engine.GET("/health", handlers.System.Health)
	if cfg.Metrics.Enabled {
		engine.GET(cfg.Metrics.Path, gin.WrapH(metrics.Handler()))
	}
	if cfg.Swagger.Enabled {
		engine.GET("/swagger/*any",
			middleware.SwaggerProtection(middleware.SwaggerConfig{
				Enabled:     true,
				RequireAuth: cfg.Swagger.RequireAuth,
				AllowedIPs:  cfg.Swagger.AllowedIPs,
			}, jwtMiddleware),
			ginSwagger.WrapHandler(swaggerFiles.Handler),
		)
	}

	for _, group := range router.Groups(handlers, guards) {
		r.Register(group)
	}
	r.Setup()

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
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
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
		log.Error("Server forced to shutdown", zap.Error(err))
		return
	}

	log.Info("Server exited gracefully")
}

// newObjectStorage picks S3 when a bucket is configured, otherwise the
// in-memory store
func newObjectStorage(ctx context.Context, cfg config.StorageConfig, log *zap.Logger) (mediaapp.ObjectStorage, error) {
	if !cfg.Enabled() {
		log.Warn("Object storage not configured, uploads are kept in memory")
		return storage.NewMemoryObjectStorage(cfg.PublicBaseURL), nil
	}
	s3, err := storage.NewS3ObjectStorage(&cfg, storage.WithLogger(log))
	if err != nil {
		return nil, err
	}
	if err := s3.EnsureBucket(ctx); err != nil {
		return nil, err
	}
	log.Info("Object storage ready", zap.String("bucket", s3.Bucket()))
	return s3, nil
}

func idempotencyConfig() shared.IdempotencyConfig {
	c := shared.DefaultIdempotencyConfig()
	c.Enabled = true
	return c
}

package main

import (
	"context"
	"errors"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	authapp "github.com/batchtrack/backend/internal/application/auth"
	catalogapp "github.com/batchtrack/backend/internal/application/catalog"
	submissionapp "github.com/batchtrack/backend/internal/application/submission"
	"github.com/batchtrack/backend/internal/infrastructure/auth"
	"github.com/batchtrack/backend/internal/infrastructure/cache"
	"github.com/batchtrack/backend/internal/infrastructure/classify"
	"github.com/batchtrack/backend/internal/infrastructure/config"
	"github.com/batchtrack/backend/internal/infrastructure/logger"
	"github.com/batchtrack/backend/internal/infrastructure/migration"
	"github.com/batchtrack/backend/internal/infrastructure/persistence"
	"github.com/batchtrack/backend/internal/infrastructure/storage"
	"github.com/batchtrack/backend/internal/infrastructure/telemetry"
	"github.com/batchtrack/backend/internal/interfaces/http/handler"
	"github.com/batchtrack/backend/internal/interfaces/http/middleware"
	"github.com/batchtrack/backend/internal/interfaces/http/router"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// version is set at build time with -ldflags "-X main.version=..."
var version = "dev"

const slowQueryThreshold = 200 * time.Millisecond

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
		_ = log.Sync()
	}()

	ctx := context.Background()
	tel, log := setupTelemetry(ctx, cfg, log)
	defer tel.shutdown(log)

	log.Info("Starting batchtrack",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
		zap.String("version", version),
	)

	db, err := openDatabase(cfg, log)
	if err != nil {
		log.Fatal("Failed to prepare database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()

	if cfg.Telemetry.Enabled && cfg.Telemetry.DBTraceEnabled {
		plugin := telemetry.NewDBTracingPlugin(telemetry.DBTracingConfig{
			Enabled:         true,
			LogFullSQL:      cfg.Telemetry.DBLogFullSQL,
			SlowQueryThresh: slowQueryThreshold,
			DBSystem:        db.Driver(),
		}, log)
		if err := plugin.Register(db.DB); err != nil {
			log.Fatal("Failed to register database tracing", zap.Error(err))
		}
	}

	// Redis is optional; nil selects the in-memory caches
	cacheFactory := cache.NewFactory(cfg.Redis, cache.WithLogger(log))
	redisClient, err := cacheFactory.Connect()
	if err != nil {
		log.Fatal("Failed to connect to Redis", zap.Error(err))
	}
	if redisClient != nil {
		defer func() { _ = redisClient.Close() }()
	}
	locationCache := cacheFactory.CreateLocationCache(redisClient)
	if closer, ok := locationCache.(io.Closer); ok {
		defer func() { _ = closer.Close() }()
	}
	blacklist := newTokenBlacklist(redisClient)

	blobs, reports, err := newBlobStore(ctx, cfg, log)
	if err != nil {
		log.Fatal("Failed to initialize report storage", zap.Error(err))
	}

	var locator classify.Locator = classify.StaticLocator{}
	if cfg.Geo.Enabled {
		locator = classify.NewIPAPILocator(cfg.Geo, locationCache, log.Named("geo"))
	}
	classifier := classify.NewClassifier(locator)

	// Repositories and services
	batchRepo := persistence.NewGormBatchRepository(db.DB)
	submissionRepo := persistence.NewGormSubmissionRepository(db.DB)

	catalogService := catalogapp.NewService(
		persistence.NewGormProductRepository(db.DB),
		persistence.NewGormPackageRepository(db.DB),
		batchRepo,
		persistence.NewGormCascadeDeleter(db.DB),
		blobs,
		log.Named("catalog"),
	)
	submissionLog := submissionapp.NewLog(submissionRepo, batchRepo, classifier, log.Named("submissions"))
	redemptionService := submissionapp.NewRedemptionService(batchRepo, submissionLog, log.Named("redemption"))
	if tel.meter != nil {
		redemptionMetrics, err := telemetry.NewRedemptionMetrics(tel.meter)
		if err != nil {
			log.Fatal("Failed to create redemption metrics", zap.Error(err))
		}
		redemptionService.SetMetrics(redemptionMetrics)
	}

	jwtService := auth.NewJWTService(cfg.JWT)
	authService := authapp.NewService(
		auth.NewAdminCredentials(cfg.Admin.Username, cfg.Admin.PasswordHash),
		jwtService,
		blacklist,
		log.Named("auth"),
	)

	// HTTP
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	middleware.SetupValidator()

	engine := gin.New()
	engine.RemoteIPHeaders = []string{"X-Forwarded-For", "X-Real-IP", "CF-Connecting-IP", "True-Client-IP"}
	if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
		log.Fatal("Invalid trusted proxies", zap.Error(err))
	}
	engine.Use(
		middleware.RequestID(),
		logger.Recovery(log),
		middleware.TracingWithConfig(middleware.TracingConfig{
			ServiceName: cfg.Telemetry.ServiceName,
			Enabled:     cfg.Telemetry.Enabled,
		}),
		middleware.TracingAttributeInjector(),
		middleware.SpanErrorMarker(),
		middleware.HTTPMetrics(tel.meter),
		middleware.Profiling(cfg.Telemetry.ProfilingEnabled),
		logger.GinMiddleware(log),
		middleware.Secure(),
		middleware.CORSWithConfig(corsConfig(cfg.HTTP)),
		middleware.BodyLimit(cfg.HTTP.MaxBodySize),
	)

	if reports != nil {
		engine.GET("/reports/*key", handler.NewReportHandler(reports).Get)
	}

	guards := router.Guards{
		Admin: middleware.JWTAuthMiddlewareWithConfig(middleware.JWTMiddlewareConfig{
			JWTService:     jwtService,
			TokenBlacklist: blacklist,
			Logger:         log,
		}),
	}
	if cfg.HTTP.RateLimitEnabled {
		limiter := middleware.NewRateLimiter(cfg.HTTP.RateLimitRequests, cfg.HTTP.RateLimitWindow)
		defer limiter.Close()
		guards.Public = middleware.RateLimit(limiter)
	}

	handlers := router.Handlers{
		Health:     handler.NewHealthHandler(db, version),
		Auth:       handler.NewAuthHandler(authService),
		Product:    handler.NewProductHandler(catalogService),
		Package:    handler.NewPackageHandler(catalogService),
		Batch:      handler.NewBatchHandler(catalogService, submissionLog),
		Redemption: handler.NewRedemptionHandler(redemptionService),
		Submission: handler.NewSubmissionHandler(submissionLog),
		Customer:   handler.NewCustomerHandler(submissionapp.NewAggregator(submissionRepo)),
	}
	router.RegisterAPI(router.NewRouter(engine, router.WithAPIVersion("v1")), handlers, guards).Setup()

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

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}
	log.Info("Server exited gracefully")
}

// telemetryStack holds the OpenTelemetry providers and the profiler
type telemetryStack struct {
	tracer   *telemetry.TracerProvider
	meters   *telemetry.MeterProvider
	logs     *telemetry.LoggerProvider
	profiler *telemetry.Profiler
	// meter is nil when metrics are disabled
	meter metric.Meter
}

// setupTelemetry starts the providers the configuration enables and returns
// the logger bridged to OTLP logs when that is on. Failures are logged and
// leave the corresponding signal disabled.
func setupTelemetry(ctx context.Context, cfg *config.Config, log *zap.Logger) (*telemetryStack, *zap.Logger) {
	t := cfg.Telemetry
	stack := &telemetryStack{}
	var err error

	stack.tracer, err = telemetry.NewTracerProvider(ctx, telemetry.Config{
		Enabled:           t.Enabled,
		CollectorEndpoint: t.CollectorEndpoint,
		SamplingRatio:     t.SamplingRatio,
		ServiceName:       t.ServiceName,
		Insecure:          t.Insecure,
	}, log)
	if err != nil {
		log.Error("Tracing disabled", zap.Error(err))
		stack.tracer, _ = telemetry.NewTracerProvider(ctx, telemetry.Config{}, log)
	}

	stack.meters, err = telemetry.NewMeterProvider(ctx, telemetry.MetricsConfig{
		Enabled:           t.Enabled && t.MetricsEnabled,
		CollectorEndpoint: t.CollectorEndpoint,
		ExportInterval:    t.MetricsInterval,
		ServiceName:       t.ServiceName,
		Insecure:          t.Insecure,
	}, log)
	if err != nil {
		log.Error("Metrics disabled", zap.Error(err))
		stack.meters, _ = telemetry.NewMeterProvider(ctx, telemetry.MetricsConfig{}, log)
	}
	if stack.meters.IsEnabled() {
		stack.meter = stack.meters.Meter(telemetry.TracerName)
	}

	stack.logs, err = telemetry.NewLoggerProvider(ctx, telemetry.LogsConfig{
		Enabled:           t.Enabled && t.LogsEnabled,
		CollectorEndpoint: t.CollectorEndpoint,
		ServiceName:       t.ServiceName,
		Insecure:          t.Insecure,
	}, log)
	if err != nil {
		log.Error("OTEL logs disabled", zap.Error(err))
		stack.logs, _ = telemetry.NewLoggerProvider(ctx, telemetry.LogsConfig{}, log)
	}
	log = stack.logs.Bridge(log, zapcore.InfoLevel)

	stack.profiler, err = telemetry.NewProfiler(telemetry.ProfilerConfig{
		Enabled:         t.ProfilingEnabled,
		ServerAddress:   t.PyroscopeAddress,
		ApplicationName: t.ServiceName,
	}, log)
	if err != nil {
		log.Error("Profiling disabled", zap.Error(err))
		stack.profiler, _ = telemetry.NewProfiler(telemetry.ProfilerConfig{}, log)
	}
	if stack.profiler.IsEnabled() {
		stack.tracer.EnableSpanProfiles()
	}

	return stack, log
}

func (s *telemetryStack) shutdown(log *zap.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := s.profiler.Stop(); err != nil {
		log.Warn("Profiler stop failed", zap.Error(err))
	}
	if err := s.meters.Shutdown(ctx); err != nil {
		log.Warn("Meter provider shutdown failed", zap.Error(err))
	}
	if err := s.tracer.Shutdown(ctx); err != nil {
		log.Warn("Tracer provider shutdown failed", zap.Error(err))
	}
	if err := s.logs.Shutdown(ctx); err != nil {
		log.Warn("Logger provider shutdown failed", zap.Error(err))
	}
}

// openDatabase connects and brings the schema up to date: SQL migrations on
// postgres, AutoMigrate on sqlite
func openDatabase(cfg *config.Config, log *zap.Logger) (*persistence.Database, error) {
	gormLog := logger.NewGormLogger(log.Named("gorm"), logger.MapGormLogLevel(cfg.Log.Level), slowQueryThreshold)
	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, gormLog)
	if err != nil {
		return nil, err
	}
	log.Info("Database connected", zap.String("driver", db.Driver()))

	if cfg.Database.IsSQLite() {
		if err := db.AutoMigrate(); err != nil {
			_ = db.Close()
			return nil, err
		}
		return db, nil
	}

	sqlDB, err := db.DB.DB()
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	migrator, err := migration.New(sqlDB, log.Named("migrate"))
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	if err := migrator.Up(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

// newBlobStore returns the S3 store when storage is enabled. Otherwise it
// returns an in-memory store, also returned as the second value so its
// reports can be served over HTTP.
func newBlobStore(ctx context.Context, cfg *config.Config, log *zap.Logger) (catalogapp.BlobStore, *storage.MemoryBlobStore, error) {
	if cfg.Storage.Enabled {
		store, err := storage.NewS3BlobStore(&cfg.Storage, storage.WithLogger(log.Named("storage")))
		if err != nil {
			return nil, nil, err
		}
		if err := store.EnsureBucket(ctx); err != nil {
			return nil, nil, err
		}
		log.Info("Report storage: S3", zap.String("bucket", store.Bucket()))
		return store, nil, nil
	}

	baseURL := cfg.Storage.PublicBaseURL
	if baseURL == "" {
		baseURL = "http://localhost:" + cfg.App.Port + "/reports"
	}
	log.Warn("Object storage disabled, reports are kept in memory", zap.String("base_url", baseURL))
	store := storage.NewMemoryBlobStore(baseURL)
	return store, store, nil
}

// corsConfig overlays the configured lists on the defaults
func corsConfig(h config.HTTPConfig) middleware.CORSConfig {
	cors := middleware.DefaultCORSConfig()
	cors.AllowOrigins = h.CORSAllowOrigins
	if len(h.CORSAllowMethods) > 0 {
		cors.AllowMethods = h.CORSAllowMethods
	}
	if len(h.CORSAllowHeaders) > 0 {
		cors.AllowHeaders = h.CORSAllowHeaders
	}
	return cors
}

func newTokenBlacklist(client *redis.Client) auth.TokenBlacklist {
	if client != nil {
		return auth.NewRedisTokenBlacklist(client)
	}
	return auth.NewInMemoryTokenBlacklist()
}

package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	eventapp "github.com/erp/payroll/internal/application/event"
	apppayroll "github.com/erp/payroll/internal/application/payroll"
	reportapp "github.com/erp/payroll/internal/application/report"
	"github.com/erp/payroll/internal/domain/shared"
	"github.com/erp/payroll/internal/infrastructure/auth"
	"github.com/erp/payroll/internal/infrastructure/cache"
	"github.com/erp/payroll/internal/infrastructure/config"
	"github.com/erp/payroll/internal/infrastructure/event"
	"github.com/erp/payroll/internal/infrastructure/logger"
	"github.com/erp/payroll/internal/infrastructure/migration"
	"github.com/erp/payroll/internal/infrastructure/notifier"
	"github.com/erp/payroll/internal/infrastructure/persistence"
	"github.com/erp/payroll/internal/infrastructure/scheduler"
	"github.com/erp/payroll/internal/infrastructure/statement"
	"github.com/erp/payroll/internal/infrastructure/storage"
	"github.com/erp/payroll/internal/infrastructure/telemetry"
	"github.com/erp/payroll/internal/interfaces/http/handler"
	"github.com/erp/payroll/internal/interfaces/http/middleware"
	"github.com/erp/payroll/internal/interfaces/http/router"
	"github.com/erp/payroll/migrations"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/text/language"

	_ "github.com/erp/payroll/docs"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

//	@title			Payroll Ledger API
//	@version		1.0
//	@description	Payroll disbursement ledger: accounts, employee wallets, payrolls, vouchers, group payrolls and their approval chains.

//	@contact.name	API Support
//	@contact.url	https://github.com/erp/payroll

//	@license.name	Apache 2.0
//	@license.url	http://www.apache.org/licenses/LICENSE-2.0.html

//	@host		localhost:8080
//	@BasePath	/api/v1

//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				Bearer token authentication. Format: "Bearer {token}"

func main() {
	// A missing .env is fine, real deployments set the environment directly
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	log, err := logger.New(logger.FromAppConfig(cfg))
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = log.Sync()
	}()

	ctx := context.Background()

	// Telemetry: traces, metrics, logs bridge, continuous profiling
	otelCfg := telemetry.Config{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		SamplingRatio:     cfg.Telemetry.SamplingRatio,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}
	tracerProvider, err := telemetry.NewTracerProvider(ctx, otelCfg, log)
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
	loggerProvider, err := telemetry.NewLoggerProvider(ctx, telemetry.LogsConfig{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize logger provider", zap.Error(err))
	}
	log = loggerProvider.Bridge(log, zapcore.InfoLevel)

	profiler, err := telemetry.NewProfiler(telemetry.ProfilerConfig{
		Enabled:         cfg.Telemetry.ProfilingEnabled,
		ServerAddress:   cfg.Telemetry.PyroscopeURL,
		ApplicationName: cfg.Telemetry.ServiceName,
	}, log)
	if err != nil {
		log.Fatal("Failed to start profiler", zap.Error(err))
	}
	if profiler.IsEnabled() {
		tracerProvider.EnableSpanProfiles()
	}

	log.Info("Starting payroll ledger",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
		zap.Bool("telemetry", tracerProvider.IsEnabled()),
	)

	if cfg.Database.AutoMigrate {
		if err := runMigrations(cfg, log); err != nil {
			log.Fatal("Failed to apply migrations", zap.Error(err))
		}
	}

	db, err := persistence.NewDatabase(&cfg.Database, log, cfg.Log.Level)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	if err := telemetry.RegisterDBTracing(db.DB, telemetry.DBTracingConfig{
		Enabled:         cfg.Telemetry.Enabled && cfg.Telemetry.DBTraceEnabled,
		LogFullSQL:      cfg.Telemetry.DBLogFullSQL,
		SlowQueryThresh: cfg.Telemetry.DBSlowQueryThresh,
		DBSystem:        "postgresql",
	}, log); err != nil {
		log.Fatal("Failed to register database tracing", zap.Error(err))
	}
	if sqlDB, err := db.DB.DB(); err == nil {
		if err := telemetry.RegisterDBPoolMetrics(meterProvider.Meter(telemetry.MeterName), sqlDB); err != nil {
			log.Warn("Failed to register database pool metrics", zap.Error(err))
		}
	}
	log.Info("Database connected successfully")

	// Record locks, idempotency keys and token revocations live in Redis when
	// it is configured, in memory otherwise
	stores, err := cache.NewStoreFactory(cfg.Redis, cfg.Lock,
		cache.WithLogger(log),
		cache.WithInMemoryFallback(cfg.App.Env != "production"),
	).CreateStores(ctx)
	if err != nil {
		log.Fatal("Failed to create coordination stores", zap.Error(err))
	}
	defer func() {
		if err := stores.Close(); err != nil {
			log.Error("Error closing coordination stores", zap.Error(err))
		}
	}()

	payrollMetrics, err := telemetry.NewPayrollMetrics(meterProvider.Meter(telemetry.MeterName))
	if err != nil {
		log.Fatal("Failed to create payroll metrics", zap.Error(err))
	}

	// Repositories
	accountRepo := persistence.NewGormAccountRepository(db.DB)
	transactionRepo := persistence.NewGormTransactionRepository(db.DB)
	settingsRepo := persistence.NewGormSettingsRepository(db.DB)
	employeeRepo := persistence.NewGormEmployeeRepository(db.DB)
	employeeLedgerRepo := persistence.NewGormEmployeeLedgerRepository(db.DB)
	payrollRepo := persistence.NewGormPayrollRepository(db.DB)
	voucherRepo := persistence.NewGormVoucherRepository(db.DB)
	groupPayrollRepo := persistence.NewGormGroupPayrollRepository(db.DB)
	ledgerReportRepo := persistence.NewGormLedgerReportRepository(db.DB)
	outboxRepo := event.NewGormOutboxRepository(db.DB)

	// Events are written to the outbox inside the posting transaction and
	// delivered to the bus after commit
	retryPolicy := shared.RetryPolicy{
		MaxRetries:  cfg.Event.MaxRetries,
		BaseBackoff: cfg.Event.RetryBaseBackoff,
		MaxBackoff:  cfg.Event.RetryMaxBackoff,
	}
	serializer := event.NewPayrollSerializer()
	outboxPublisher := event.NewOutboxPublisher(serializer, retryPolicy)

	// Application services
	accountService := apppayroll.NewAccountService(accountRepo, transactionRepo, settingsRepo, log)
	settingsService := apppayroll.NewSettingsService(settingsRepo, accountService, log)
	employeeService := apppayroll.NewEmployeeService(employeeRepo, employeeLedgerRepo, log)
	deps := apppayroll.Dependencies{
		Scope:    persistence.NewGormTransactionScope(db.DB, outboxPublisher),
		Settings: settingsService,
		Locker:   stores.Locker,
		Notifier: notifier.New(cfg.Notifier, log),
		Metrics:  payrollMetrics,
		Logger:   log,
	}
	payrollService := apppayroll.NewPayrollService(payrollRepo, deps)
	voucherService := apppayroll.NewVoucherService(voucherRepo, deps)
	groupPayrollService := apppayroll.NewGroupPayrollService(groupPayrollRepo, deps)
	reportService := reportapp.NewReportService(ledgerReportRepo)
	outboxService := eventapp.NewOutboxService(outboxRepo, log)

	if _, err := accountService.ValidateAll(ctx); err != nil {
		if cfg.Payroll.StrictAccounts {
			log.Fatal("Account validation failed", zap.Error(err))
		}
		log.Warn("Account validation failed", zap.Error(err))
	}

	// Statement exports go to S3 when storage is enabled, to memory otherwise
	renderer := statement.NewPDFRenderer(language.Make(cfg.Payroll.StatementLocale))
	if cfg.Storage.Enabled {
		s3Storage, err := storage.NewS3StatementStorage(&cfg.Storage, storage.WithLogger(log))
		if err != nil {
			log.Fatal("Failed to create statement storage", zap.Error(err))
		}
		if err := s3Storage.EnsureBucket(ctx); err != nil {
			log.Fatal("Failed to prepare statement bucket", zap.Error(err))
		}
		employeeService.SetStatementExport(renderer, s3Storage)
	} else {
		employeeService.SetStatementExport(renderer, storage.NewMemoryStatementStorage("http://localhost:"+cfg.App.Port+"/statements"))
	}

	// Event bus with the cost-center projection
	eventBus := event.NewInMemoryEventBus(log)
	costCenterHandler := event.NewIdempotentHandler(
		apppayroll.NewCostCenterHandler(persistence.NewGormCostCenterGateway(db.DB), log),
		stores.Idempotency,
		log,
		event.WithIdempotencyConfig(shared.IdempotencyConfig{TTL: cfg.Event.IdempotencyTTL, Enabled: true}),
	)
	eventBus.Subscribe(costCenterHandler, costCenterHandler.EventTypes()...)
	if err := eventBus.Start(ctx); err != nil {
		log.Fatal("Failed to start event bus", zap.Error(err))
	}
	defer func() {
		if err := eventBus.Stop(context.Background()); err != nil {
			log.Error("Error stopping event bus", zap.Error(err))
		}
	}()

	if cfg.Event.ProcessorEnabled {
		processorConfig := event.DefaultOutboxProcessorConfig()
		processorConfig.BatchSize = cfg.Event.BatchSize
		processorConfig.PollInterval = cfg.Event.PollInterval
		processorConfig.StaleAfter = cfg.Event.StaleAfter
		processorConfig.Retry = retryPolicy
		processorConfig.CleanupEnabled = cfg.Event.CleanupEnabled
		processorConfig.CleanupRetention = cfg.Event.CleanupRetention
		outboxProcessor := event.NewOutboxProcessor(outboxRepo, eventBus, serializer, processorConfig, log)
		if err := outboxProcessor.Start(ctx); err != nil {
			log.Fatal("Failed to start outbox processor", zap.Error(err))
		}
		defer func() {
			if err := outboxProcessor.Stop(context.Background()); err != nil {
				log.Error("Error stopping outbox processor", zap.Error(err))
			}
		}()
		log.Info("Outbox processor started",
			zap.Int("batch_size", processorConfig.BatchSize),
			zap.Duration("poll_interval", processorConfig.PollInterval),
		)
	}

	systemHandler := handler.NewSystemHandler(telemetry.ServiceVersion)
	systemHandler.AddHealthCheck("database", func(context.Context) error { return db.Ping() })
	if stores.Client != nil {
		systemHandler.AddHealthCheck("redis", func(ctx context.Context) error { return stores.Client.Ping(ctx).Err() })
	}

	// Nightly reconciliation and account validation
	if cfg.Scheduler.Enabled {
		schedulerConfig := scheduler.DefaultConfig()
		if cfg.Scheduler.JobTimeout > 0 {
			schedulerConfig.JobTimeout = cfg.Scheduler.JobTimeout
		}
		jobScheduler := scheduler.NewScheduler(schedulerConfig, scheduler.NewLedgerExecutor(accountService, payrollMetrics, log), log)
		if err := jobScheduler.Start(ctx); err != nil {
			log.Fatal("Failed to start ledger scheduler", zap.Error(err))
		}
		defer func() {
			if err := jobScheduler.Stop(context.Background()); err != nil {
				log.Error("Error stopping ledger scheduler", zap.Error(err))
			}
		}()
		trigger := scheduler.NewCronTrigger(scheduler.CronTriggerConfig{
			Hour:          cfg.Scheduler.ReconcileHour,
			Minute:        cfg.Scheduler.ReconcileMinute,
			CheckInterval: cfg.Scheduler.CheckInterval,
		}, jobScheduler, settingsRepo, log)
		if err := trigger.Start(ctx); err != nil {
			log.Fatal("Failed to start ledger trigger", zap.Error(err))
		}
		defer func() {
			if err := trigger.Stop(context.Background()); err != nil {
				log.Error("Error stopping ledger trigger", zap.Error(err))
			}
		}()
		systemHandler.SetLedgerJobs(trigger)
		log.Info("Ledger scheduler started",
			zap.Int("hour", cfg.Scheduler.ReconcileHour),
			zap.Int("minute", cfg.Scheduler.ReconcileMinute),
		)
	}

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
	engine.Use(logger.GinMiddleware(log))
	engine.Use(logger.Recovery(log))
	engine.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     cfg.HTTP.CORSAllowOrigins,
		AllowMethods:     cfg.HTTP.CORSAllowMethods,
		AllowHeaders:     cfg.HTTP.CORSAllowHeaders,
		ExposeHeaders:    []string{"X-Request-ID", "X-RateLimit-Limit", "X-RateLimit-Remaining"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	engine.Use(middleware.SecureWithConfig(middleware.DefaultSecurityConfig()))
	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))
	engine.Use(middleware.TracingWithConfig(middleware.TracingConfig{
		ServiceName: cfg.Telemetry.ServiceName,
		Enabled:     cfg.Telemetry.Enabled,
	}))
	engine.Use(middleware.SpanErrorMarker())
	engine.Use(middleware.HTTPMetrics(meterProvider))

	var revocations auth.RevocationList = auth.NewInMemoryRevocationList()
	if stores.Client != nil {
		revocations = auth.NewRedisRevocationList(stores.Client)
	}
	jwtConfig := middleware.DefaultJWTConfig(auth.NewTokenVerifier(cfg.JWT))
	jwtConfig.Revocations = revocations
	jwtConfig.Logger = log
	jwtMiddleware := middleware.JWTAuthMiddlewareWithConfig(jwtConfig)

	engine.GET("/health", systemHandler.Health)
	if cfg.Swagger.Enabled {
		engine.GET("/swagger/*any",
			middleware.SwaggerProtection(middleware.SwaggerConfig{
				Enabled:     cfg.Swagger.Enabled,
				RequireAuth: cfg.Swagger.RequireAuth,
				AllowedIPs:  cfg.Swagger.AllowedIPs,
			}, jwtMiddleware),
			ginSwagger.WrapHandler(swaggerFiles.Handler),
		)
	}

	api := router.NewRouter(engine, router.WithAPIVersion("v1")).
		Use(jwtMiddleware, middleware.TracingAttributeInjector()).
		Use(middleware.ProfilingWithConfig(middleware.DefaultProfilingConfig()))
	if cfg.HTTP.RateLimitEnabled {
		var limiter middleware.RateLimiter
		if stores.Client != nil {
			limiter = middleware.NewRedisRateLimiter(stores.Client, cfg.HTTP.RateLimitRequests, cfg.HTTP.RateLimitWindow)
		} else {
			memoryLimiter := middleware.NewMemoryRateLimiter(cfg.HTTP.RateLimitRequests, cfg.HTTP.RateLimitWindow)
			defer memoryLimiter.Close()
			limiter = memoryLimiter
		}
		api.Use(middleware.RateLimit(limiter, middleware.TenantOrIPKey, log))
		log.Info("Rate limiting enabled",
			zap.Int("requests", cfg.HTTP.RateLimitRequests),
			zap.Duration("window", cfg.HTTP.RateLimitWindow),
		)
	}
	api.Register(router.PayrollGroups(router.Handlers{
		Accounts:      handler.NewAccountHandler(accountService),
		Settings:      handler.NewSettingsHandler(settingsService),
		Employees:     handler.NewEmployeeHandler(employeeService),
		Payrolls:      handler.NewPayrollHandler(payrollService),
		Vouchers:      handler.NewVoucherHandler(voucherService),
		GroupPayrolls: handler.NewGroupPayrollHandler(groupPayrollService),
		Reports:       handler.NewReportHandler(reportService),
		Outbox:        handler.NewOutboxHandler(outboxService),
		System:        systemHandler,
	})...)
	api.Setup()

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
	if err := tracerProvider.Shutdown(shutdownCtx); err != nil {
		log.Error("Error shutting down tracer provider", zap.Error(err))
	}
	if err := meterProvider.Shutdown(shutdownCtx); err != nil {
		log.Error("Error shutting down meter provider", zap.Error(err))
	}
	if err := loggerProvider.Shutdown(shutdownCtx); err != nil {
		log.Error("Error shutting down logger provider", zap.Error(err))
	}
	if err := profiler.Stop(); err != nil {
		log.Error("Error stopping profiler", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}

// runMigrations applies the embedded schema over its own connection, since
// closing the migrator also closes the database handle it was given
func runMigrations(cfg *config.Config, log *zap.Logger) error {
	sqlDB, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		return err
	}
	m, err := migration.New(sqlDB, migrations.FS, log)
	if err != nil {
		_ = sqlDB.Close()
		return err
	}
	defer func() {
		if err := m.Close(); err != nil {
			log.Warn("Error closing migrator", zap.Error(err))
		}
	}()
	return m.Up()
}

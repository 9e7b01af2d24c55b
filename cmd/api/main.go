package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"dunning-dashboard/config"
	"dunning-dashboard/internal/adapter/email"
	"dunning-dashboard/internal/adapter/events"
	httpHandler "dunning-dashboard/internal/adapter/http/handler"
	"dunning-dashboard/internal/adapter/http/middleware"
	"dunning-dashboard/internal/adapter/membership"
	pgStorage "dunning-dashboard/internal/adapter/storage/postgres"
	redisStorage "dunning-dashboard/internal/adapter/storage/redis"
	"dunning-dashboard/internal/buildmode"
	"dunning-dashboard/internal/core/ports"
	"dunning-dashboard/internal/service"
	"dunning-dashboard/pkg/logger"
	"dunning-dashboard/pkg/metrics"

	"github.com/gin-gonic/gin"
	goredis "github.com/redis/go-redis/v9"
)

func main() {
	// Load configuration
	cfg, err := config.Load(os.Getenv("DUNNING_CONFIG"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log := logger.New(cfg.Log.Level, cfg.Log.Pretty)
	gin.SetMode(cfg.Server.Mode)

	log.Info().
		Str("mode", cfg.Server.Mode).
		Int("port", cfg.Server.Port).
		Bool("demo", buildmode.Demo).
		Msg("Starting Dunning Dashboard")

	ctx := context.Background()

	// PostgreSQL. Without a URL every storage-backed route answers CFG_001.
	var pool pgStorage.Pool = pgStorage.Unconfigured{}
	if cfg.Database.Configured() {
		if cfg.Database.AutoMigrate {
			if err := pgStorage.MigrateUp(cfg.Database.URL, log); err != nil {
				log.Fatal().Err(err).Msg("Failed to apply migrations")
			}
		}
		pgPool, err := pgStorage.NewPool(ctx, cfg.Database, log)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
		}
		defer pgPool.Close()
		pool = pgPool
		log.Info().Msg("PostgreSQL connected")
	} else {
		log.Warn().Msg("database.url not set, storage not configured")
	}

	healthCheckers := []ports.HealthChecker{pgStorage.NewHealthCheck(pool)}

	// Redis. Disabled means no rate limiting, no replay guard and no cache.
	var (
		rdb            *goredis.Client
		nonceStore     ports.NonceStore    = redisStorage.NoopNonceStore{}
		responseCache  ports.ResponseCache = redisStorage.NoopCache{}
		rateLimitStore *redisStorage.RateLimitStore
	)
	if cfg.Redis.Enabled {
		rdb, err = redisStorage.NewClient(ctx, cfg.Redis, log)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to connect to Redis")
		}
		defer rdb.Close()
		log.Info().Msg("Redis connected")

		nonceStore = redisStorage.NewNonceStore(rdb)
		responseCache = redisStorage.NewResponseCache(rdb, "membership")
		rateLimitStore = redisStorage.NewRateLimitStore(rdb)
		healthCheckers = append(healthCheckers, redisStorage.NewHealthCheck(rdb))
	} else {
		log.Warn().Msg("redis disabled, rate limiting and webhook replay guard are off")
	}

	// Domain events
	publisher, err := events.NewPublisher(cfg.Events, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to RabbitMQ")
	}
	defer publisher.Close()

	// Initialize repositories
	paymentRepo := pgStorage.NewFailedPaymentRepo(pool)
	ruleRepo := pgStorage.NewEmailRuleRepo(pool)
	seqRepo := pgStorage.NewEmailSequenceRepo()
	sentRepo := pgStorage.NewSentEmailRepo(pool)
	auditRepo := pgStorage.NewAuditRepo(pool)
	diagRepo := pgStorage.NewDiagnosticsRepo(pool)
	transactor := pgStorage.NewTransactor(pool)

	// Outbound clients
	emailProvider := email.NewProvider(cfg.Email, logger.Component(log, "email"))
	membershipClient := membership.New(cfg.Membership, &http.Client{Timeout: cfg.Membership.Timeout})

	// Initialize core services
	sigSvc := service.NewHMACSignatureService()
	hashSvc := service.NewArgon2HashService()
	tokenSvc := service.NewJWTTokenService(cfg.JWT.Secret, cfg.JWT.Expiry, cfg.JWT.Issuer)

	// Initialize business services
	authSvc := service.NewAuthService(service.OperatorCredentials{
		Username:     cfg.Operator.Username,
		PasswordHash: cfg.Operator.PasswordHash,
		Companies:    cfg.Operator.Companies,
	}, hashSvc, tokenSvc, log)
	webhookSvc := service.NewWebhookService(paymentRepo, publisher, logger.Component(log, "webhook"))
	paymentSvc := service.NewPaymentService(paymentRepo, sentRepo, transactor, publisher, log)
	emailSvc := service.NewEmailService(
		paymentRepo,
		ruleRepo,
		seqRepo,
		sentRepo,
		transactor,
		emailProvider,
		publisher,
		cfg.Email.From,
		logger.Component(log, "email"),
	)
	membershipSvc := service.NewMembershipService(
		membershipClient,
		paymentRepo,
		responseCache,
		cfg.Membership.CacheTTL,
		logger.Component(log, "membership"),
	)
	diagSvc := service.NewDiagnosticsService(diagRepo, cfg.Membership, log)
	auditSvc := service.NewAuditService(auditRepo, logger.Component(log, "audit"))

	var testDataSvc ports.TestDataService
	if buildmode.Demo {
		testDataSvc = service.NewTestDataService(paymentRepo, cfg.Demo.CompanyID, log)
	}

	var metricsRegistry *metrics.Registry
	if cfg.Metrics.Enabled {
		metricsRegistry = metrics.New()
	}

	// Load OpenAPI spec for Swagger UI
	if specBytes, err := os.ReadFile("docs/api/openapi.yaml"); err == nil {
		httpHandler.SetSwaggerSpec(specBytes)
		log.Info().Msg("OpenAPI spec loaded for Swagger UI at /swagger")
	} else {
		log.Warn().Err(err).Msg("OpenAPI spec not found, Swagger UI will be unavailable")
	}

	// Setup Gin router with all routes
	router := httpHandler.SetupRouter(httpHandler.RouterDeps{
		AuthSvc:        authSvc,
		WebhookSvc:     webhookSvc,
		PaymentSvc:     paymentSvc,
		EmailSvc:       emailSvc,
		MembershipSvc:  membershipSvc,
		DiagnosticsSvc: diagSvc,
		TestDataSvc:    testDataSvc,
		SigSvc:         sigSvc,
		NonceStore:     nonceStore,
		TokenSvc:       tokenSvc,
		Webhook:        cfg.Webhook,
		RateLimitStore: rateLimitStore,
		HealthCheckers: healthCheckers,
		AuditSvc:       auditSvc,
		Metrics:        metricsRegistry,
		Logger:         log,
	})

	// HTTP Server with graceful shutdown
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           middleware.WithCORS(router, cfg.Server.CORSOrigins),
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Info().Str("addr", addr).Msg("HTTP server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("HTTP server failed")
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited")
}

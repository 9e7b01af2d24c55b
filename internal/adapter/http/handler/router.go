package handler

import (
	"dunning-dashboard/config"
	"dunning-dashboard/internal/adapter/http/middleware"
	redisStore "dunning-dashboard/internal/adapter/storage/redis"
	"dunning-dashboard/internal/buildmode"
	"dunning-dashboard/internal/core/ports"
	"dunning-dashboard/pkg/metrics"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// Webhook replay-guard scopes, one per endpoint.
const (
	ScopePaymentFailed     = "payment_failed"
	ScopeMembershipInvalid = "membership_invalid"
)

// RouterDeps holds all dependencies needed to set up routes.
type RouterDeps struct {
	AuthSvc        ports.AuthService
	WebhookSvc     ports.WebhookService
	PaymentSvc     ports.PaymentService
	EmailSvc       ports.EmailService
	MembershipSvc  ports.MembershipService
	DiagnosticsSvc ports.DiagnosticsService
	TestDataSvc    ports.TestDataService // nil = test-data routes disabled
	SigSvc         ports.SignatureService
	NonceStore     ports.NonceStore
	TokenSvc       ports.TokenService
	Webhook        config.WebhookConfig
	RateLimitStore *redisStore.RateLimitStore // nil = rate limiting disabled
	HealthCheckers []ports.HealthChecker
	AuditSvc       ports.AuditService // nil = audit logging disabled
	Metrics        *metrics.Registry  // nil = metrics disabled
	Logger         zerolog.Logger
}

// SetupRouter initialises the Gin engine with all routes and middleware.
func SetupRouter(deps RouterDeps) *gin.Engine {
	r := gin.New()

	// Global middleware
	r.Use(middleware.RequestID())
	r.Use(middleware.Recovery(deps.Logger))
	r.Use(middleware.RequestLogger(deps.Logger))
	r.Use(middleware.MaxBodySize(1 << 20)) // 1 MB request body limit

	if deps.Metrics != nil {
		r.Use(deps.Metrics.Middleware())
		r.GET("/metrics", gin.WrapH(deps.Metrics.Handler()))
	}

	// Audit logging (after response)
	if deps.AuditSvc != nil {
		r.Use(middleware.AuditLog(deps.AuditSvc))
	}

	r.GET("/health", HealthCheck(deps.HealthCheckers...))

	swagger := r.Group("/swagger")
	{
		swagger.GET("", SwaggerUI)
		swagger.GET("/spec", SwaggerSpec)
	}

	rules := middleware.DefaultRateLimitRules()

	// Helper: return rate limiter middleware if store is available, else noop.
	rl := func(group string) gin.HandlerFunc {
		if deps.RateLimitStore == nil {
			return func(c *gin.Context) { c.Next() }
		}
		rule, ok := rules[group]
		if !ok {
			return func(c *gin.Context) { c.Next() }
		}
		return middleware.RateLimiter(deps.RateLimitStore, group, rule, deps.Logger)
	}

	v1 := r.Group("/api/v1")

	// --- Signed provider webhooks ---
	webhookHandler := NewWebhookHandler(deps.WebhookSvc, deps.Metrics)
	signed := func(scope, secret string) gin.HandlerFunc {
		return middleware.WebhookSignature(middleware.WebhookSignatureConfig{
			Scope:     scope,
			Secret:    secret,
			Tolerance: deps.Webhook.Tolerance,
		}, deps.SigSvc, deps.NonceStore, deps.Logger)
	}
	webhooks := v1.Group("/webhooks", rl("webhooks"))
	{
		webhooks.POST("/payment-failed",
			signed(ScopePaymentFailed, deps.Webhook.PaymentFailedSecret),
			webhookHandler.PaymentFailed)
		webhooks.POST("/membership-invalid",
			signed(ScopeMembershipInvalid, deps.Webhook.MembershipInvalidSecret),
			webhookHandler.MembershipInvalid)
	}

	// --- Public routes (no auth) ---
	authHandler := NewAuthHandler(deps.AuthSvc)
	v1.POST("/auth/login", rl("auth_login"), authHandler.Login)

	// --- JWT-authenticated routes (dashboard) ---
	jwtAuth := middleware.JWTAuth(deps.TokenSvc, deps.Logger)
	dash := v1.Group("", jwtAuth)

	paymentHandler := NewPaymentHandler(deps.PaymentSvc)
	payments := dash.Group("/payments", rl("dashboard"))
	{
		payments.GET("", paymentHandler.List)
		payments.PATCH("", paymentHandler.BulkUpdate)
		payments.GET("/:id/emails", paymentHandler.EmailHistory)
	}
	dash.GET("/stats", rl("dashboard"), paymentHandler.Stats)

	emailHandler := NewEmailHandler(deps.EmailSvc, deps.Metrics)
	emails := dash.Group("/emails")
	{
		emails.POST("/send", rl("emails_send"), emailHandler.Send)
		emails.GET("/templates", rl("dashboard"), emailHandler.ListTemplates)
		emails.POST("/templates", rl("dashboard"), emailHandler.SaveTemplate)
		emails.DELETE("/templates", rl("dashboard"), emailHandler.DeleteTemplate)
	}

	membershipHandler := NewMembershipHandler(deps.MembershipSvc)
	dash.GET("/memberships", rl("dashboard"), membershipHandler.List)

	diagHandler := NewDiagnosticsHandler(deps.DiagnosticsSvc, deps.Logger)
	diagnostics := dash.Group("/diagnostics", rl("dashboard"))
	{
		diagnostics.GET("/database", diagHandler.Database)
		diagnostics.GET("/membership-api", diagHandler.MembershipAPI)
	}

	// --- Test data (demo builds only) ---
	if buildmode.Demo && deps.TestDataSvc != nil {
		testDataHandler := NewTestDataHandler(deps.TestDataSvc)
		testData := dash.Group("/test-data", rl("dashboard"))
		{
			testData.POST("", testDataHandler.Seed)
			testData.GET("", testDataHandler.List)
			testData.DELETE("", testDataHandler.Purge)
		}
	}

	return r
}

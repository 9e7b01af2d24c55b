package ports

import (
	"context"
	"errors"
	"time"

	"dunning-dashboard/internal/core/domain"

	"github.com/google/uuid"
)

var (
	// ErrEmailNotConfigured is returned by the email provider when no API key is set.
	ErrEmailNotConfigured = errors.New("email provider not configured")
	// ErrEmailRejected wraps a provider refusal of a well-formed request.
	ErrEmailRejected = errors.New("email rejected by provider")
	// ErrMembershipNotConfigured is returned by the membership client without credentials.
	ErrMembershipNotConfigured = errors.New("membership api not configured")
)

// HealthChecker is one dependency probed by /health.
type HealthChecker interface {
	Ping(ctx context.Context) error
	Name() string // e.g. "postgresql", "redis"
}

// SignatureService handles HMAC-SHA256 signing and verification.
type SignatureService interface {
	Sign(secretKey string, payload string) string
	Verify(secretKey string, payload string, signature string) bool
	BuildSignedPayload(timestamp int64, body []byte) string
}

// HashService handles password hashing (Argon2id).
type HashService interface {
	Hash(password string) (string, error)
	Verify(password string, hash string) (bool, error)
}

// TokenService handles operator JWT operations.
type TokenService interface {
	Generate(op domain.Operator) (string, time.Time, error)
	Validate(tokenString string) (*TokenClaims, error)
}

// TokenClaims holds the parsed JWT claims.
type TokenClaims struct {
	Username  string
	Companies []string
}

// Operator returns the authenticated operator described by the claims.
func (c TokenClaims) Operator() domain.Operator {
	return domain.Operator{Username: c.Username, Companies: c.Companies}
}

// NonceStore guards webhook deliveries against replay.
type NonceStore interface {
	// CheckAndSet atomically records nonce under scope.
	// Returns true if nonce is new, false if already seen.
	CheckAndSet(ctx context.Context, scope string, nonce string, ttl time.Duration) (bool, error)
	// Release forgets a nonce so a redelivery can be processed again.
	Release(ctx context.Context, scope string, nonce string) error
}

// ResponseCache is a short-lived cache of upstream API responses.
type ResponseCache interface {
	Get(ctx context.Context, key string) ([]byte, error) // nil on miss
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// EmailProvider delivers transactional email. Send returns the provider message id.
type EmailProvider interface {
	Send(ctx context.Context, msg domain.OutboundEmail) (string, error)
}

// MembershipClient reads memberships from the external membership API.
type MembershipClient interface {
	ListMemberships(ctx context.Context, q domain.MembershipQuery) ([]domain.Membership, error)
}

// EventPublisher publishes domain events to the message bus.
type EventPublisher interface {
	Publish(ctx context.Context, evt domain.Event) error
	Close() error
}

// --- Service Ports (Business Logic) ---

// WebhookService processes verified provider webhooks.
type WebhookService interface {
	HandlePaymentFailed(ctx context.Context, evt *domain.WebhookEvent) (any, error)
	HandleMembershipInvalid(ctx context.Context, evt *domain.WebhookEvent) (any, error)
}

// PaymentService serves the dashboard query API.
type PaymentService interface {
	List(ctx context.Context, filter domain.PaymentFilter) (*domain.PaymentPage, error)
	Stats(ctx context.Context, companyID string) (*domain.DashboardStats, error)
	BulkUpdate(ctx context.Context, ids []uuid.UUID, update domain.PaymentUpdate) ([]*domain.FailedPayment, error)
	EmailHistory(ctx context.Context, id uuid.UUID) ([]*domain.SentEmail, error)
}

// SendEmailRequest holds validated input for a recovery email.
type SendEmailRequest struct {
	To              string
	Template        domain.EmailTemplate
	FailedPaymentID uuid.UUID
	TemplateName    string
}

// EmailService sends recovery emails and manages email rules.
type EmailService interface {
	Send(ctx context.Context, req SendEmailRequest) (*domain.EmailSendResult, error)
	ListRules(ctx context.Context, companyID string) ([]*domain.EmailRule, error)
	SaveRule(ctx context.Context, rule *domain.EmailRule) (*domain.EmailRule, error)
	DeleteRule(ctx context.Context, id uuid.UUID) error
}

// MembershipService serves the alternate membership-API read path.
type MembershipService interface {
	ListFailedMemberships(ctx context.Context, companyID, status, search string) (*domain.MembershipPage, error)
}

// AuthService authenticates the dashboard operator.
type AuthService interface {
	Login(ctx context.Context, username, password string) (string, time.Time, error) // token, expiry, error
}

// AuditService records operator actions without blocking the request.
type AuditService interface {
	Log(ctx context.Context, entry *domain.AuditLog)
}

// DatabaseReport is the result of the database connectivity probe.
type DatabaseReport struct {
	ServerTime    time.Time `json:"server_time"`
	Tables        []string  `json:"tables"`
	MissingTables []string  `json:"missing_tables"`
}

// MembershipAPIReport describes which membership API settings are present.
type MembershipAPIReport struct {
	Initialized bool            `json:"-"`
	EnvCheck    map[string]bool `json:"env_check"`
}

// DiagnosticsService backs the connectivity probes.
type DiagnosticsService interface {
	CheckDatabase(ctx context.Context) (*DatabaseReport, error)
	CheckMembershipAPI() MembershipAPIReport
}

// SeedPaymentRequest overrides test-data defaults. Empty fields keep the default.
type SeedPaymentRequest struct {
	PaymentID           string
	MembershipID        string
	UserID              string
	UserEmail           string
	ProductID           string
	CompanyID           string
	Amount              *int64
	Currency            string
	PaymentsFailedCount *int
}

// TestDataService seeds and purges demo rows. Only wired in demo builds.
type TestDataService interface {
	Seed(ctx context.Context, req SeedPaymentRequest) (*domain.FailedPayment, error)
	List(ctx context.Context, companyID string) ([]*domain.FailedPayment, error)
	Purge(ctx context.Context, companyID string) (int64, error)
}

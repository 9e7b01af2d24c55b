package ports

import (
	"context"
	"errors"
	"time"

	"dunning-dashboard/internal/core/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// ErrStorageNotConfigured is returned by every store call when no database
// connection string was provided.
var ErrStorageNotConfigured = errors.New("storage not configured")

// FailedPaymentRepository defines persistence operations for failed payments.
// Methods accepting pgx.Tx run inside a caller-owned transaction.
type FailedPaymentRepository interface {
	// Upsert inserts or updates the row keyed by PaymentID in a single statement.
	Upsert(ctx context.Context, fp *domain.FailedPayment) (*domain.UpsertResult, error)
	Create(ctx context.Context, fp *domain.FailedPayment) error
	CancelByMembershipID(ctx context.Context, membershipID string) (int64, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.FailedPayment, error)
	GetByIDs(ctx context.Context, ids []uuid.UUID) ([]*domain.FailedPayment, error)
	List(ctx context.Context, filter domain.PaymentFilter) ([]*domain.FailedPayment, int64, error)
	ListByCompany(ctx context.Context, companyID string) ([]*domain.FailedPayment, error)
	Recent(ctx context.Context, companyID string, limit int) ([]*domain.FailedPayment, error)
	Stats(ctx context.Context, companyID string) (*domain.RecoveryStats, error)
	Update(ctx context.Context, tx pgx.Tx, id uuid.UUID, update domain.PaymentUpdate) (bool, error)
	RecordEmailSent(ctx context.Context, tx pgx.Tx, id uuid.UUID, sentAt time.Time) error
	DeleteByCompany(ctx context.Context, companyID string) (int64, error)
}

// EmailRuleRepository defines persistence operations for email rule templates.
type EmailRuleRepository interface {
	ListByCompany(ctx context.Context, companyID string) ([]*domain.EmailRule, error)
	// Upsert inserts or replaces the rule for (company_id, days).
	Upsert(ctx context.Context, rule *domain.EmailRule) (*domain.EmailRule, error)
	Delete(ctx context.Context, id uuid.UUID) (bool, error)
}

// EmailSequenceRepository records which email type was sent for a payment.
type EmailSequenceRepository interface {
	Create(ctx context.Context, tx pgx.Tx, seq *domain.EmailSequence) error
}

// SentEmailRepository stores the audit copy of every sent email.
type SentEmailRepository interface {
	Create(ctx context.Context, tx pgx.Tx, email *domain.SentEmail) error
	ListByPayment(ctx context.Context, failedPaymentID uuid.UUID) ([]*domain.SentEmail, error)
}

// AuditRepository persists operator audit logs.
type AuditRepository interface {
	Create(ctx context.Context, entry *domain.AuditLog) error
}

// DiagnosticsRepository backs the database connectivity probe.
type DiagnosticsRepository interface {
	ServerTime(ctx context.Context) (time.Time, error)
	ExistingTables(ctx context.Context, names []string) ([]string, error)
}

// DBTransactor provides database transaction management.
type DBTransactor interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

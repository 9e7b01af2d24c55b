package postgres

import (
	"context"
	"fmt"

	"dunning-dashboard/internal/core/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const emailRuleColumns = `id, company_id, days, enabled, template_name, template_subject, template_body, created_at, updated_at`

// EmailRuleRepo implements ports.EmailRuleRepository.
type EmailRuleRepo struct {
	pool Pool
}

// NewEmailRuleRepo creates a new EmailRuleRepo.
func NewEmailRuleRepo(pool Pool) *EmailRuleRepo {
	return &EmailRuleRepo{pool: pool}
}

// ListByCompany returns a company's rules ordered by day offset.
func (r *EmailRuleRepo) ListByCompany(ctx context.Context, companyID string) ([]*domain.EmailRule, error) {
	query := `SELECT ` + emailRuleColumns + ` FROM email_rules WHERE company_id = $1 ORDER BY days ASC`

	rows, err := r.pool.Query(ctx, query, companyID)
	if err != nil {
		return nil, fmt.Errorf("list email rules: %w", err)
	}
	defer rows.Close()

	rules := []*domain.EmailRule{}
	for rows.Next() {
		rule, err := scanEmailRule(rows)
		if err != nil {
			return nil, fmt.Errorf("scan email rule row: %w", err)
		}
		rules = append(rules, rule)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate email rule rows: %w", err)
	}
	return rules, nil
}

// Upsert inserts the rule or replaces the one with the same (company_id, days).
func (r *EmailRuleRepo) Upsert(ctx context.Context, rule *domain.EmailRule) (*domain.EmailRule, error) {
	query := `INSERT INTO email_rules (id, company_id, days, enabled, template_name, template_subject,
		template_body, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $8)
		ON CONFLICT (company_id, days) DO UPDATE SET
			enabled = EXCLUDED.enabled,
			template_name = EXCLUDED.template_name,
			template_subject = EXCLUDED.template_subject,
			template_body = EXCLUDED.template_body,
			updated_at = EXCLUDED.updated_at
		RETURNING ` + emailRuleColumns

	saved, err := scanEmailRule(r.pool.QueryRow(ctx, query,
		rule.ID, rule.CompanyID, rule.Days, rule.Enabled, rule.TemplateName,
		rule.TemplateSubject, rule.TemplateBody, rule.UpdatedAt,
	))
	if err != nil {
		return nil, fmt.Errorf("upsert email rule: %w", err)
	}
	return saved, nil
}

// Delete removes a rule. Returns false when it did not exist.
func (r *EmailRuleRepo) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM email_rules WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("delete email rule: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

func scanEmailRule(row pgx.Row) (*domain.EmailRule, error) {
	rule := &domain.EmailRule{}
	err := row.Scan(
		&rule.ID, &rule.CompanyID, &rule.Days, &rule.Enabled, &rule.TemplateName,
		&rule.TemplateSubject, &rule.TemplateBody, &rule.CreatedAt, &rule.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return rule, nil
}

// EmailSequenceRepo implements ports.EmailSequenceRepository.
type EmailSequenceRepo struct{}

// NewEmailSequenceRepo creates a new EmailSequenceRepo. It only writes inside
// caller-owned transactions and holds no pool.
func NewEmailSequenceRepo() *EmailSequenceRepo {
	return &EmailSequenceRepo{}
}

// Create inserts a sequence row within a database transaction.
func (r *EmailSequenceRepo) Create(ctx context.Context, tx pgx.Tx, seq *domain.EmailSequence) error {
	query := `INSERT INTO email_sequences (id, failed_payment_id, email_type, provider_message_id, sent_at)
		VALUES ($1, $2, $3, $4, $5)`

	_, err := tx.Exec(ctx, query, seq.ID, seq.FailedPaymentID, seq.EmailType, seq.ProviderMessageID, seq.SentAt)
	if err != nil {
		return fmt.Errorf("insert email sequence: %w", err)
	}
	return nil
}

const sentEmailColumns = `id, failed_payment_id, email_sequence_id, template_name, recipient_email,
	subject, body, provider_message_id, status, sent_at`

// SentEmailRepo implements ports.SentEmailRepository.
type SentEmailRepo struct {
	pool Pool
}

// NewSentEmailRepo creates a new SentEmailRepo.
func NewSentEmailRepo(pool Pool) *SentEmailRepo {
	return &SentEmailRepo{pool: pool}
}

// Create inserts the audit copy of a sent email within a database transaction.
func (r *SentEmailRepo) Create(ctx context.Context, tx pgx.Tx, e *domain.SentEmail) error {
	query := `INSERT INTO sent_emails (` + sentEmailColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	_, err := tx.Exec(ctx, query,
		e.ID, e.FailedPaymentID, e.EmailSequenceID, e.TemplateName, e.RecipientEmail,
		e.Subject, e.Body, e.ProviderMessageID, e.Status, e.SentAt,
	)
	if err != nil {
		return fmt.Errorf("insert sent email: %w", err)
	}
	return nil
}

// ListByPayment returns every email sent for a payment, newest first.
func (r *SentEmailRepo) ListByPayment(ctx context.Context, failedPaymentID uuid.UUID) ([]*domain.SentEmail, error) {
	query := `SELECT ` + sentEmailColumns + ` FROM sent_emails WHERE failed_payment_id = $1 ORDER BY sent_at DESC`

	rows, err := r.pool.Query(ctx, query, failedPaymentID)
	if err != nil {
		return nil, fmt.Errorf("list sent emails: %w", err)
	}
	defer rows.Close()

	emails := []*domain.SentEmail{}
	for rows.Next() {
		e := &domain.SentEmail{}
		err := rows.Scan(
			&e.ID, &e.FailedPaymentID, &e.EmailSequenceID, &e.TemplateName, &e.RecipientEmail,
			&e.Subject, &e.Body, &e.ProviderMessageID, &e.Status, &e.SentAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan sent email row: %w", err)
		}
		emails = append(emails, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate sent email rows: %w", err)
	}
	return emails, nil
}

package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"dunning-dashboard/internal/core/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const failedPaymentColumns = `id, payment_id, membership_id, user_id, user_email, product_id, company_id,
	amount, currency, payments_failed_count, last_payment_attempt, next_payment_attempt, status,
	auto_email_enabled, emails_sent, last_email_sent, created_at, updated_at`

// FailedPaymentRepo implements ports.FailedPaymentRepository.
type FailedPaymentRepo struct {
	pool Pool
}

// NewFailedPaymentRepo creates a new FailedPaymentRepo.
func NewFailedPaymentRepo(pool Pool) *FailedPaymentRepo {
	return &FailedPaymentRepo{pool: pool}
}

// Upsert records a payment failure keyed by payment_id. A redelivery updates
// the existing row in place, so concurrent deliveries never duplicate it.
func (r *FailedPaymentRepo) Upsert(ctx context.Context, fp *domain.FailedPayment) (*domain.UpsertResult, error) {
	query := `INSERT INTO failed_payments (id, payment_id, membership_id, user_id, user_email, product_id,
		company_id, amount, currency, payments_failed_count, last_payment_attempt, next_payment_attempt,
		status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $14)
		ON CONFLICT (payment_id) DO UPDATE SET
			membership_id = EXCLUDED.membership_id,
			user_id = EXCLUDED.user_id,
			user_email = EXCLUDED.user_email,
			product_id = EXCLUDED.product_id,
			company_id = EXCLUDED.company_id,
			amount = EXCLUDED.amount,
			currency = EXCLUDED.currency,
			payments_failed_count = EXCLUDED.payments_failed_count,
			last_payment_attempt = EXCLUDED.last_payment_attempt,
			next_payment_attempt = EXCLUDED.next_payment_attempt,
			status = EXCLUDED.status,
			updated_at = EXCLUDED.updated_at
		RETURNING id, (xmax = 0) AS inserted`

	var (
		id       uuid.UUID
		inserted bool
	)
	err := r.pool.QueryRow(ctx, query,
		fp.ID, fp.PaymentID, fp.MembershipID, fp.UserID, fp.UserEmail, fp.ProductID,
		fp.CompanyID, fp.Amount, fp.Currency, fp.PaymentsFailedCount,
		fp.LastPaymentAttempt, fp.NextPaymentAttempt, fp.Status, fp.UpdatedAt,
	).Scan(&id, &inserted)
	if err != nil {
		return nil, fmt.Errorf("upsert failed payment: %w", err)
	}
	return &domain.UpsertResult{ID: id.String(), Inserted: inserted}, nil
}

// Create inserts a fully specified row.
func (r *FailedPaymentRepo) Create(ctx context.Context, fp *domain.FailedPayment) error {
	query := `INSERT INTO failed_payments (` + failedPaymentColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)`

	_, err := r.pool.Exec(ctx, query,
		fp.ID, fp.PaymentID, fp.MembershipID, fp.UserID, fp.UserEmail, fp.ProductID, fp.CompanyID,
		fp.Amount, fp.Currency, fp.PaymentsFailedCount, fp.LastPaymentAttempt, fp.NextPaymentAttempt, fp.Status,
		fp.AutoEmailEnabled, fp.EmailsSent, fp.LastEmailSent, fp.CreatedAt, fp.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert failed payment: %w", err)
	}
	return nil
}

// CancelByMembershipID marks every row of the membership as cancelled and
// returns how many rows changed. Zero is not an error.
func (r *FailedPaymentRepo) CancelByMembershipID(ctx context.Context, membershipID string) (int64, error) {
	query := `UPDATE failed_payments SET status = $1, updated_at = $2 WHERE membership_id = $3`

	tag, err := r.pool.Exec(ctx, query, domain.PaymentStatusCancelled, time.Now().UTC(), membershipID)
	if err != nil {
		return 0, fmt.Errorf("cancel failed payments: %w", err)
	}
	return tag.RowsAffected(), nil
}

// GetByID fetches a failed payment by its internal id.
func (r *FailedPaymentRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.FailedPayment, error) {
	query := `SELECT ` + failedPaymentColumns + ` FROM failed_payments WHERE id = $1`

	fp, err := scanFailedPayment(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get failed payment: %w", err)
	}
	return fp, nil
}

// GetByIDs fetches the given rows, newest first. Unknown ids are skipped.
func (r *FailedPaymentRepo) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]*domain.FailedPayment, error) {
	query := `SELECT ` + failedPaymentColumns + ` FROM failed_payments WHERE id = ANY($1) ORDER BY created_at DESC`
	return r.queryMany(ctx, "get failed payments", query, ids)
}

// List fetches one page of a company's failed payments. Filtering and
// pagination run in SQL.
func (r *FailedPaymentRepo) List(ctx context.Context, filter domain.PaymentFilter) ([]*domain.FailedPayment, int64, error) {
	var conditions []string
	var args []any
	argIdx := 1

	conditions = append(conditions, fmt.Sprintf("company_id = $%d", argIdx))
	args = append(args, filter.CompanyID)
	argIdx++

	if filter.Status != "" {
		conditions = append(conditions, fmt.Sprintf("status = $%d", argIdx))
		args = append(args, filter.Status)
		argIdx++
	}
	if filter.Search != "" {
		conditions = append(conditions, fmt.Sprintf(`(user_email ILIKE $%d ESCAPE '\' OR membership_id ILIKE $%d ESCAPE '\')`, argIdx, argIdx))
		args = append(args, "%"+escapeLike(filter.Search)+"%")
		argIdx++
	}

	where := "WHERE " + strings.Join(conditions, " AND ")

	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM failed_payments %s", where)
	var total int64
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count failed payments: %w", err)
	}

	dataQuery := fmt.Sprintf(`SELECT %s FROM failed_payments %s ORDER BY created_at DESC LIMIT $%d OFFSET $%d`,
		failedPaymentColumns, where, argIdx, argIdx+1)
	args = append(args, filter.Limit, filter.Offset())

	payments, err := r.queryMany(ctx, "list failed payments", dataQuery, args...)
	if err != nil {
		return nil, 0, err
	}
	return payments, total, nil
}

// ListByCompany returns every row of a company. Used to join membership API results.
func (r *FailedPaymentRepo) ListByCompany(ctx context.Context, companyID string) ([]*domain.FailedPayment, error) {
	query := `SELECT ` + failedPaymentColumns + ` FROM failed_payments WHERE company_id = $1 ORDER BY created_at DESC`
	return r.queryMany(ctx, "list company failed payments", query, companyID)
}

// Recent returns the newest rows of a company.
func (r *FailedPaymentRepo) Recent(ctx context.Context, companyID string, limit int) ([]*domain.FailedPayment, error) {
	query := `SELECT ` + failedPaymentColumns + ` FROM failed_payments WHERE company_id = $1
		ORDER BY created_at DESC LIMIT $2`
	return r.queryMany(ctx, "recent failed payments", query, companyID, limit)
}

// Stats aggregates counts and revenue by status. RecoveryRate is left to the caller.
func (r *FailedPaymentRepo) Stats(ctx context.Context, companyID string) (*domain.RecoveryStats, error) {
	query := `SELECT
		COUNT(*) AS total,
		COUNT(*) FILTER (WHERE status = 'recovered') AS recovered,
		COUNT(*) FILTER (WHERE status = 'active') AS active,
		COUNT(*) FILTER (WHERE status = 'cancelled') AS cancelled,
		COALESCE(SUM(amount), 0)::bigint AS total_revenue,
		COALESCE(SUM(amount) FILTER (WHERE status = 'recovered'), 0)::bigint AS recovered_revenue
		FROM failed_payments WHERE company_id = $1`

	stats := &domain.RecoveryStats{}
	err := r.pool.QueryRow(ctx, query, companyID).Scan(
		&stats.TotalFailed, &stats.Recovered, &stats.Active, &stats.Cancelled,
		&stats.TotalRevenue, &stats.RecoveredRevenue,
	)
	if err != nil {
		return nil, fmt.Errorf("failed payment stats: %w", err)
	}
	return stats, nil
}

// Update applies the non-nil fields of update inside tx. Returns false when
// the row does not exist.
func (r *FailedPaymentRepo) Update(ctx context.Context, tx pgx.Tx, id uuid.UUID, update domain.PaymentUpdate) (bool, error) {
	var sets []string
	var args []any
	argIdx := 1

	if update.Status != nil {
		sets = append(sets, fmt.Sprintf("status = $%d", argIdx))
		args = append(args, *update.Status)
		argIdx++
	}
	if update.AutoEmailEnabled != nil {
		sets = append(sets, fmt.Sprintf("auto_email_enabled = $%d", argIdx))
		args = append(args, *update.AutoEmailEnabled)
		argIdx++
	}
	sets = append(sets, fmt.Sprintf("updated_at = $%d", argIdx))
	args = append(args, time.Now().UTC())
	argIdx++

	query := fmt.Sprintf("UPDATE failed_payments SET %s WHERE id = $%d", strings.Join(sets, ", "), argIdx)
	args = append(args, id)

	tag, err := tx.Exec(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("update failed payment: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// RecordEmailSent bumps the sent counter in SQL so concurrent sends never lose an increment.
func (r *FailedPaymentRepo) RecordEmailSent(ctx context.Context, tx pgx.Tx, id uuid.UUID, sentAt time.Time) error {
	query := `UPDATE failed_payments
		SET emails_sent = emails_sent + 1, last_email_sent = $1, updated_at = $1
		WHERE id = $2`

	tag, err := tx.Exec(ctx, query, sentAt, id)
	if err != nil {
		return fmt.Errorf("record email sent: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("failed payment not found: %s", id)
	}
	return nil
}

// DeleteByCompany hard-deletes a company's rows. Only reachable from demo builds.
func (r *FailedPaymentRepo) DeleteByCompany(ctx context.Context, companyID string) (int64, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM failed_payments WHERE company_id = $1`, companyID)
	if err != nil {
		return 0, fmt.Errorf("delete failed payments: %w", err)
	}
	return tag.RowsAffected(), nil
}

func (r *FailedPaymentRepo) queryMany(ctx context.Context, op, query string, args ...any) ([]*domain.FailedPayment, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	payments := []*domain.FailedPayment{}
	for rows.Next() {
		fp, err := scanFailedPayment(rows)
		if err != nil {
			return nil, fmt.Errorf("scan failed payment row: %w", err)
		}
		payments = append(payments, fp)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate failed payment rows: %w", err)
	}
	return payments, nil
}

func scanFailedPayment(row pgx.Row) (*domain.FailedPayment, error) {
	fp := &domain.FailedPayment{}
	err := row.Scan(
		&fp.ID, &fp.PaymentID, &fp.MembershipID, &fp.UserID, &fp.UserEmail, &fp.ProductID, &fp.CompanyID,
		&fp.Amount, &fp.Currency, &fp.PaymentsFailedCount, &fp.LastPaymentAttempt, &fp.NextPaymentAttempt, &fp.Status,
		&fp.AutoEmailEnabled, &fp.EmailsSent, &fp.LastEmailSent, &fp.CreatedAt, &fp.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return fp, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// escapeLike neutralises LIKE wildcards in user input.
func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

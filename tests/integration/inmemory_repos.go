package integration

import (
	"context"
	"slices"
	"strings"
	"sync"
	"time"

	"dunning-dashboard/internal/core/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// --- In-Memory Failed Payment Repo ---

type inMemoryPaymentRepo struct {
	mu   sync.RWMutex
	rows map[uuid.UUID]*domain.FailedPayment
}

func newInMemoryPaymentRepo() *inMemoryPaymentRepo {
	return &inMemoryPaymentRepo{rows: make(map[uuid.UUID]*domain.FailedPayment)}
}

func clonePayment(fp *domain.FailedPayment) *domain.FailedPayment {
	c := *fp
	return &c
}

func (r *inMemoryPaymentRepo) Upsert(ctx context.Context, fp *domain.FailedPayment) (*domain.UpsertResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.rows {
		if existing.PaymentID == fp.PaymentID {
			existing.MembershipID = fp.MembershipID
			existing.UserID = fp.UserID
			existing.UserEmail = fp.UserEmail
			existing.ProductID = fp.ProductID
			existing.CompanyID = fp.CompanyID
			existing.Amount = fp.Amount
			existing.Currency = fp.Currency
			existing.PaymentsFailedCount = fp.PaymentsFailedCount
			existing.LastPaymentAttempt = fp.LastPaymentAttempt
			existing.NextPaymentAttempt = fp.NextPaymentAttempt
			existing.Status = domain.PaymentStatusActive
			existing.UpdatedAt = time.Now().UTC()
			return &domain.UpsertResult{ID: existing.ID.String()}, nil
		}
	}
	row := clonePayment(fp)
	if row.ID == uuid.Nil {
		row.ID = uuid.New()
	}
	r.rows[row.ID] = row
	return &domain.UpsertResult{ID: row.ID.String(), Inserted: true}, nil
}

func (r *inMemoryPaymentRepo) Create(ctx context.Context, fp *domain.FailedPayment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rows[fp.ID] = clonePayment(fp)
	return nil
}

func (r *inMemoryPaymentRepo) CancelByMembershipID(ctx context.Context, membershipID string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, fp := range r.rows {
		if fp.MembershipID == membershipID {
			fp.Status = domain.PaymentStatusCancelled
			fp.UpdatedAt = time.Now().UTC()
			n++
		}
	}
	return n, nil
}

func (r *inMemoryPaymentRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.FailedPayment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	fp, ok := r.rows[id]
	if !ok {
		return nil, nil
	}
	return clonePayment(fp), nil
}

func (r *inMemoryPaymentRepo) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]*domain.FailedPayment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*domain.FailedPayment, 0, len(ids))
	for _, id := range ids {
		if fp, ok := r.rows[id]; ok {
			out = append(out, clonePayment(fp))
		}
	}
	return out, nil
}

// byCompany returns the company's rows, newest first.
func (r *inMemoryPaymentRepo) byCompany(companyID string) []*domain.FailedPayment {
	var out []*domain.FailedPayment
	for _, fp := range r.rows {
		if fp.CompanyID == companyID {
			out = append(out, clonePayment(fp))
		}
	}
	slices.SortFunc(out, func(a, b *domain.FailedPayment) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})
	return out
}

func (r *inMemoryPaymentRepo) List(ctx context.Context, filter domain.PaymentFilter) ([]*domain.FailedPayment, int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	search := strings.ToLower(filter.Search)
	var matched []*domain.FailedPayment
	for _, fp := range r.byCompany(filter.CompanyID) {
		if filter.Status != "" && fp.Status != filter.Status {
			continue
		}
		if search != "" &&
			!strings.Contains(strings.ToLower(fp.UserEmail), search) &&
			!strings.Contains(strings.ToLower(fp.MembershipID), search) {
			continue
		}
		matched = append(matched, fp)
	}
	total := int64(len(matched))
	start := min(filter.Offset(), len(matched))
	end := min(start+filter.Limit, len(matched))
	return matched[start:end], total, nil
}

func (r *inMemoryPaymentRepo) ListByCompany(ctx context.Context, companyID string) ([]*domain.FailedPayment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.byCompany(companyID), nil
}

func (r *inMemoryPaymentRepo) Recent(ctx context.Context, companyID string, limit int) ([]*domain.FailedPayment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	rows := r.byCompany(companyID)
	return rows[:min(limit, len(rows))], nil
}

func (r *inMemoryPaymentRepo) Stats(ctx context.Context, companyID string) (*domain.RecoveryStats, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s := &domain.RecoveryStats{}
	for _, fp := range r.byCompany(companyID) {
		s.TotalFailed++
		s.TotalRevenue += fp.Amount
		switch fp.Status {
		case domain.PaymentStatusRecovered:
			s.Recovered++
			s.RecoveredRevenue += fp.Amount
		case domain.PaymentStatusActive:
			s.Active++
		case domain.PaymentStatusCancelled:
			s.Cancelled++
		}
	}
	return s, nil
}

func (r *inMemoryPaymentRepo) Update(ctx context.Context, tx pgx.Tx, id uuid.UUID, update domain.PaymentUpdate) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	fp, ok := r.rows[id]
	if !ok {
		return false, nil
	}
	if update.Status != nil {
		fp.Status = *update.Status
	}
	if update.AutoEmailEnabled != nil {
		fp.AutoEmailEnabled = *update.AutoEmailEnabled
	}
	fp.UpdatedAt = time.Now().UTC()
	return true, nil
}

func (r *inMemoryPaymentRepo) RecordEmailSent(ctx context.Context, tx pgx.Tx, id uuid.UUID, sentAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if fp, ok := r.rows[id]; ok {
		fp.EmailsSent++
		fp.LastEmailSent = &sentAt
		fp.UpdatedAt = sentAt
	}
	return nil
}

func (r *inMemoryPaymentRepo) DeleteByCompany(ctx context.Context, companyID string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for id, fp := range r.rows {
		if fp.CompanyID == companyID {
			delete(r.rows, id)
			n++
		}
	}
	return n, nil
}

// --- In-Memory Email Repos ---

type inMemoryEmailRuleRepo struct {
	mu    sync.RWMutex
	rules map[uuid.UUID]*domain.EmailRule
}

func newInMemoryEmailRuleRepo() *inMemoryEmailRuleRepo {
	return &inMemoryEmailRuleRepo{rules: make(map[uuid.UUID]*domain.EmailRule)}
}

func (r *inMemoryEmailRuleRepo) ListByCompany(ctx context.Context, companyID string) ([]*domain.EmailRule, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := []*domain.EmailRule{}
	for _, rule := range r.rules {
		if rule.CompanyID == companyID {
			c := *rule
			out = append(out, &c)
		}
	}
	slices.SortFunc(out, func(a, b *domain.EmailRule) int { return a.Days - b.Days })
	return out, nil
}

func (r *inMemoryEmailRuleRepo) Upsert(ctx context.Context, rule *domain.EmailRule) (*domain.EmailRule, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.rules {
		if existing.CompanyID == rule.CompanyID && existing.Days == rule.Days {
			existing.Enabled = rule.Enabled
			existing.TemplateName = rule.TemplateName
			existing.TemplateSubject = rule.TemplateSubject
			existing.TemplateBody = rule.TemplateBody
			existing.UpdatedAt = rule.UpdatedAt
			c := *existing
			return &c, nil
		}
	}
	c := *rule
	r.rules[c.ID] = &c
	return rule, nil
}

func (r *inMemoryEmailRuleRepo) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.rules[id]; !ok {
		return false, nil
	}
	delete(r.rules, id)
	return true, nil
}

type inMemorySequenceRepo struct {
	mu   sync.Mutex
	seqs []*domain.EmailSequence
}

func (r *inMemorySequenceRepo) Create(ctx context.Context, tx pgx.Tx, seq *domain.EmailSequence) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seqs = append(r.seqs, seq)
	return nil
}

func (r *inMemorySequenceRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.seqs)
}

type inMemorySentEmailRepo struct {
	mu     sync.RWMutex
	emails []*domain.SentEmail
}

func (r *inMemorySentEmailRepo) Create(ctx context.Context, tx pgx.Tx, e *domain.SentEmail) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.emails = append(r.emails, e)
	return nil
}

func (r *inMemorySentEmailRepo) ListByPayment(ctx context.Context, failedPaymentID uuid.UUID) ([]*domain.SentEmail, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := []*domain.SentEmail{}
	for i := len(r.emails) - 1; i >= 0; i-- {
		if r.emails[i].FailedPaymentID == failedPaymentID {
			out = append(out, r.emails[i])
		}
	}
	return out, nil
}

// --- In-Memory Transactor (no-op tx) ---

type inMemoryTransactor struct{}

func newInMemoryTransactor() *inMemoryTransactor {
	return &inMemoryTransactor{}
}

func (t *inMemoryTransactor) Begin(ctx context.Context) (pgx.Tx, error) {
	return &noopTx{}, nil
}

// noopTx is a no-op pgx.Tx implementation for in-memory testing.
type noopTx struct{}

func (t *noopTx) Begin(ctx context.Context) (pgx.Tx, error) { return t, nil }
func (t *noopTx) Commit(ctx context.Context) error          { return nil }
func (t *noopTx) Rollback(ctx context.Context) error        { return nil }
func (t *noopTx) CopyFrom(ctx context.Context, tableName pgx.Identifier, columnNames []string, rowSrc pgx.CopyFromSource) (int64, error) {
	return 0, nil
}
func (t *noopTx) SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults { return nil }
func (t *noopTx) LargeObjects() pgx.LargeObjects                               { return pgx.LargeObjects{} }
func (t *noopTx) Prepare(ctx context.Context, name, sql string) (*pgconn.StatementDescription, error) {
	return nil, nil
}
func (t *noopTx) Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error) {
	return pgconn.NewCommandTag(""), nil
}
func (t *noopTx) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	return nil, nil
}
func (t *noopTx) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	return nil
}
func (t *noopTx) Conn() *pgx.Conn { return nil }

package service

import (
	"context"
	"fmt"
	"strings"

	"dunning-dashboard/internal/core/domain"
	"dunning-dashboard/internal/core/ports"
	"dunning-dashboard/pkg/apperror"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/samber/lo"
)

const (
	defaultPageSize = 10
	maxPageSize     = 100
	recentPayments  = 5
)

// PaymentServiceImpl implements ports.PaymentService.
type PaymentServiceImpl struct {
	repo       ports.FailedPaymentRepository
	sentRepo   ports.SentEmailRepository
	transactor ports.DBTransactor
	publisher  ports.EventPublisher
	log        zerolog.Logger
}

// NewPaymentService creates a new PaymentServiceImpl.
func NewPaymentService(
	repo ports.FailedPaymentRepository,
	sentRepo ports.SentEmailRepository,
	transactor ports.DBTransactor,
	publisher ports.EventPublisher,
	log zerolog.Logger,
) *PaymentServiceImpl {
	return &PaymentServiceImpl{
		repo:       repo,
		sentRepo:   sentRepo,
		transactor: transactor,
		publisher:  publisher,
		log:        log,
	}
}

// List returns one page of failed payments. Out-of-range paging values are
// clamped rather than rejected.
func (s *PaymentServiceImpl) List(ctx context.Context, filter domain.PaymentFilter) (*domain.PaymentPage, error) {
	if filter.Status != "" && !filter.Status.Valid() {
		return nil, apperror.Validation("Invalid status filter")
	}
	filter.CompanyID = lo.CoalesceOrEmpty(strings.TrimSpace(filter.CompanyID), domain.DefaultCompanyID)
	filter.Search = strings.TrimSpace(filter.Search)
	if filter.Limit > maxPageSize {
		return nil, apperror.Validation(fmt.Sprintf("Limit must not exceed %d", maxPageSize))
	}
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = defaultPageSize
	}

	payments, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, storageError(s.log, err, "failed to list payments")
	}

	return &domain.PaymentPage{
		Payments:   lo.Ternary(payments == nil, []*domain.FailedPayment{}, payments),
		Total:      total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalPages: domain.TotalPages(total, filter.Limit),
	}, nil
}

// Stats aggregates a company's failed payments and attaches the newest rows.
func (s *PaymentServiceImpl) Stats(ctx context.Context, companyID string) (*domain.DashboardStats, error) {
	companyID = lo.CoalesceOrEmpty(strings.TrimSpace(companyID), domain.DefaultCompanyID)

	stats, err := s.repo.Stats(ctx, companyID)
	if err != nil {
		return nil, storageError(s.log, err, "failed to aggregate stats")
	}
	stats.RecoveryRate = domain.RecoveryRate(stats.Recovered, stats.TotalFailed)

	recent, err := s.repo.Recent(ctx, companyID, recentPayments)
	if err != nil {
		return nil, storageError(s.log, err, "failed to load recent payments")
	}
	if recent == nil {
		recent = []*domain.FailedPayment{}
	}

	return &domain.DashboardStats{Stats: *stats, RecentPayments: recent}, nil
}

// BulkUpdate applies the same change to every id inside one transaction and
// returns the rows as they are after the commit. Unknown ids are skipped.
func (s *PaymentServiceImpl) BulkUpdate(ctx context.Context, ids []uuid.UUID, update domain.PaymentUpdate) ([]*domain.FailedPayment, error) {
	ids = lo.Uniq(ids)
	if len(ids) == 0 {
		return nil, apperror.Validation("Payment IDs are required")
	}
	if update.Status != nil && !update.Status.Valid() {
		return nil, apperror.Validation("Invalid status")
	}

	if !update.Empty() {
		if err := s.applyUpdate(ctx, ids, update); err != nil {
			return nil, err
		}
	}

	payments, err := s.repo.GetByIDs(ctx, ids)
	if err != nil {
		return nil, storageError(s.log, err, "failed to reload updated payments")
	}
	if payments == nil {
		payments = []*domain.FailedPayment{}
	}

	s.log.Info().
		Int("requested", len(ids)).
		Int("updated", len(payments)).
		Msg("payments updated")

	publish(ctx, s.publisher, s.log, domain.EventPaymentsUpdated, map[string]any{
		"paymentIds": lo.Map(payments, func(p *domain.FailedPayment, _ int) string { return p.ID.String() }),
		"updates":    update,
	})

	return payments, nil
}

func (s *PaymentServiceImpl) applyUpdate(ctx context.Context, ids []uuid.UUID, update domain.PaymentUpdate) error {
	dbTx, err := s.transactor.Begin(ctx)
	if err != nil {
		return storageError(s.log, err, "failed to begin bulk update")
	}
	defer dbTx.Rollback(ctx) //nolint:errcheck

	for _, id := range ids {
		found, err := s.repo.Update(ctx, dbTx, id, update)
		if err != nil {
			return storageError(s.log.With().Str("id", id.String()).Logger(), err, "failed to update payment")
		}
		if !found {
			s.log.Debug().Str("id", id.String()).Msg("bulk update skipped unknown payment")
		}
	}

	if err := dbTx.Commit(ctx); err != nil {
		return storageError(s.log, err, "failed to commit bulk update")
	}
	return nil
}

// EmailHistory lists the emails sent for one payment, newest first.
func (s *PaymentServiceImpl) EmailHistory(ctx context.Context, id uuid.UUID) ([]*domain.SentEmail, error) {
	fp, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, storageError(s.log, err, "failed to load payment")
	}
	if fp == nil {
		return nil, apperror.ErrNotFound("Payment")
	}

	emails, err := s.sentRepo.ListByPayment(ctx, id)
	if err != nil {
		return nil, storageError(s.log, err, "failed to list sent emails")
	}
	if emails == nil {
		emails = []*domain.SentEmail{}
	}
	return emails, nil
}

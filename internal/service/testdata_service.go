package service

import (
	"context"
	"fmt"
	"time"

	"dunning-dashboard/internal/core/domain"
	"dunning-dashboard/internal/core/ports"
	"dunning-dashboard/pkg/apperror"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/samber/lo"
)

const testDataListSize = 10

// TestDataServiceImpl implements ports.TestDataService.
type TestDataServiceImpl struct {
	repo             ports.FailedPaymentRepository
	defaultCompanyID string
	log              zerolog.Logger
}

// NewTestDataService creates a new TestDataServiceImpl. defaultCompanyID
// is used when neither the request nor the caller names a company.
func NewTestDataService(repo ports.FailedPaymentRepository, defaultCompanyID string, log zerolog.Logger) *TestDataServiceImpl {
	return &TestDataServiceImpl{
		repo:             repo,
		defaultCompanyID: lo.CoalesceOrEmpty(defaultCompanyID, domain.DefaultCompanyID),
		log:              log,
	}
}

// Seed inserts one active failed payment built from demo defaults and the
// request's overrides.
func (s *TestDataServiceImpl) Seed(ctx context.Context, req ports.SeedPaymentRequest) (*domain.FailedPayment, error) {
	now := time.Now().UTC()
	stamp := now.UnixMilli()
	next := now.Add(7 * 24 * time.Hour)

	fp := &domain.FailedPayment{
		ID:                  uuid.New(),
		PaymentID:           lo.CoalesceOrEmpty(req.PaymentID, fmt.Sprintf("pay_%d", stamp)),
		MembershipID:        lo.CoalesceOrEmpty(req.MembershipID, fmt.Sprintf("mem_%d", stamp)),
		UserID:              lo.CoalesceOrEmpty(req.UserID, "user_demo"),
		UserEmail:           lo.CoalesceOrEmpty(req.UserEmail, "customer@test.com"),
		ProductID:           lo.CoalesceOrEmpty(req.ProductID, "prod_demo"),
		CompanyID:           lo.CoalesceOrEmpty(req.CompanyID, s.defaultCompanyID),
		Amount:              lo.FromPtrOr(req.Amount, 500),
		Currency:            lo.CoalesceOrEmpty(req.Currency, "usd"),
		PaymentsFailedCount: lo.FromPtrOr(req.PaymentsFailedCount, 1),
		LastPaymentAttempt:  &now,
		NextPaymentAttempt:  &next,
		Status:              domain.PaymentStatusActive,
		CreatedAt:           now,
		UpdatedAt:           now,
	}
	if fp.Amount < 0 {
		return nil, apperror.Validation("Amount must not be negative")
	}

	if err := s.repo.Create(ctx, fp); err != nil {
		return nil, storageError(s.log, err, "failed to seed test payment")
	}

	s.log.Info().
		Str("id", fp.ID.String()).
		Str("payment_id", fp.PaymentID).
		Str("company_id", fp.CompanyID).
		Msg("test payment seeded")
	return fp, nil
}

// List returns the company's newest rows.
func (s *TestDataServiceImpl) List(ctx context.Context, companyID string) ([]*domain.FailedPayment, error) {
	rows, err := s.repo.Recent(ctx, lo.CoalesceOrEmpty(companyID, s.defaultCompanyID), testDataListSize)
	if err != nil {
		return nil, storageError(s.log, err, "failed to list test payments")
	}
	if rows == nil {
		rows = []*domain.FailedPayment{}
	}
	return rows, nil
}

// Purge deletes every row of the company.
func (s *TestDataServiceImpl) Purge(ctx context.Context, companyID string) (int64, error) {
	companyID = lo.CoalesceOrEmpty(companyID, s.defaultCompanyID)
	deleted, err := s.repo.DeleteByCompany(ctx, companyID)
	if err != nil {
		return 0, storageError(s.log, err, "failed to purge test data")
	}
	s.log.Info().Str("company_id", companyID).Int64("deleted", deleted).Msg("test data purged")
	return deleted, nil
}

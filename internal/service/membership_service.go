package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"dunning-dashboard/internal/core/domain"
	"dunning-dashboard/internal/core/ports"
	"dunning-dashboard/pkg/apperror"

	"github.com/rs/zerolog"
	"github.com/samber/lo"
)

const (
	membershipPageSize = 50
	membershipSource   = "membership_api"
)

// MembershipServiceImpl implements ports.MembershipService. It reads
// memberships from the provider API and enriches them with local email
// tracking; it never writes.
type MembershipServiceImpl struct {
	client      ports.MembershipClient
	paymentRepo ports.FailedPaymentRepository
	cache       ports.ResponseCache
	cacheTTL    time.Duration
	log         zerolog.Logger
}

// NewMembershipService creates a new MembershipServiceImpl.
func NewMembershipService(
	client ports.MembershipClient,
	paymentRepo ports.FailedPaymentRepository,
	cache ports.ResponseCache,
	cacheTTL time.Duration,
	log zerolog.Logger,
) *MembershipServiceImpl {
	return &MembershipServiceImpl{
		client:      client,
		paymentRepo: paymentRepo,
		cache:       cache,
		cacheTTL:    cacheTTL,
		log:         log,
	}
}

// ListFailedMemberships returns the company's memberships that show payment
// trouble, rendered in the failed-payment shape.
func (s *MembershipServiceImpl) ListFailedMemberships(ctx context.Context, companyID, status, search string) (*domain.MembershipPage, error) {
	companyID = strings.TrimSpace(companyID)
	if companyID == "" {
		return nil, apperror.Validation("Company ID is required")
	}
	statusFilter, ok := domain.ParseStatusFilter(status)
	if !ok {
		return nil, apperror.Validation("Invalid status filter")
	}

	memberships, err := s.fetch(ctx, domain.NewMembershipQuery(companyID, string(statusFilter)))
	if err != nil {
		if errors.Is(err, ports.ErrMembershipNotConfigured) {
			return nil, apperror.ErrMembershipNotConfigured()
		}
		s.log.Error().Err(err).Str("company_id", companyID).Msg("membership api request failed")
		return nil, apperror.ErrUpstream(err)
	}

	troubled := lo.Filter(memberships, func(m domain.Membership, _ int) bool {
		return m.HasPaymentIssue()
	})
	local := s.localRows(ctx, companyID)

	now := time.Now()
	payments := lo.Map(troubled, func(m domain.Membership, _ int) domain.MembershipPayment {
		return domain.NewMembershipPayment(m, local[m.ID], now)
	})

	needle := strings.ToLower(strings.TrimSpace(search))
	payments = lo.Filter(payments, func(p domain.MembershipPayment, _ int) bool {
		if statusFilter != "" && p.Status != statusFilter {
			return false
		}
		if needle == "" {
			return true
		}
		return strings.Contains(strings.ToLower(p.UserEmail), needle) ||
			strings.Contains(strings.ToLower(p.MembershipID), needle)
	})

	return &domain.MembershipPage{
		Payments:   payments,
		Total:      len(payments),
		Page:       1,
		Limit:      membershipPageSize,
		TotalPages: 1,
		Source:     membershipSource,
	}, nil
}

// fetch reads through the response cache. Cache failures only cost a round trip.
func (s *MembershipServiceImpl) fetch(ctx context.Context, q domain.MembershipQuery) ([]domain.Membership, error) {
	key := cacheKey(q)

	if raw, err := s.cache.Get(ctx, key); err != nil {
		s.log.Warn().Err(err).Str("key", key).Msg("membership cache read failed")
	} else if raw != nil {
		var cached []domain.Membership
		if err := json.Unmarshal(raw, &cached); err == nil {
			return cached, nil
		}
	}

	memberships, err := s.client.ListMemberships(ctx, q)
	if err != nil {
		return nil, err
	}

	if raw, err := json.Marshal(memberships); err == nil {
		if err := s.cache.Set(ctx, key, raw, s.cacheTTL); err != nil {
			s.log.Warn().Err(err).Str("key", key).Msg("membership cache write failed")
		}
	}
	return memberships, nil
}

// localRows indexes the company's local rows by membership id, keeping the
// newest row per membership. A lookup failure degrades to an empty index.
func (s *MembershipServiceImpl) localRows(ctx context.Context, companyID string) map[string]*domain.FailedPayment {
	rows, err := s.paymentRepo.ListByCompany(ctx, companyID)
	if err != nil {
		s.log.Warn().Err(err).Str("company_id", companyID).Msg("local payment lookup failed")
		return map[string]*domain.FailedPayment{}
	}
	byMembership := make(map[string]*domain.FailedPayment, len(rows))
	for _, fp := range rows {
		if fp.MembershipID == "" {
			continue
		}
		if _, seen := byMembership[fp.MembershipID]; !seen {
			byMembership[fp.MembershipID] = fp
		}
	}
	return byMembership
}

func cacheKey(q domain.MembershipQuery) string {
	return fmt.Sprintf("%s:%s:%s", q.CompanyID, q.MembershipStatus, strings.Join(q.MostRecentActions, ","))
}

package service

import (
	"context"
	"errors"
	"time"

	"dunning-dashboard/internal/core/domain"
	"dunning-dashboard/internal/core/ports"
	"dunning-dashboard/pkg/apperror"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// WebhookServiceImpl implements ports.WebhookService.
type WebhookServiceImpl struct {
	repo      ports.FailedPaymentRepository
	publisher ports.EventPublisher
	log       zerolog.Logger
}

// NewWebhookService creates the service behind both provider webhooks.
// Signature checks and replay detection happen before it is called.
func NewWebhookService(
	repo ports.FailedPaymentRepository,
	publisher ports.EventPublisher,
	log zerolog.Logger,
) *WebhookServiceImpl {
	return &WebhookServiceImpl{
		repo:      repo,
		publisher: publisher,
		log:       log,
	}
}

// HandlePaymentFailed records (or refreshes) the failed payment named by the event.
func (s *WebhookServiceImpl) HandlePaymentFailed(ctx context.Context, evt *domain.WebhookEvent) (any, error) {
	if !domain.IsPaymentFailedAction(evt.Action) {
		s.log.Debug().Str("action", evt.Action).Msg("ignoring non payment-failed event")
		return &domain.IgnoredEventAck{Message: "Not a payment failed event"}, nil
	}

	fp, err := domain.PaymentFailureFromPayload(evt.Data)
	if err != nil {
		if errors.Is(err, domain.ErrMissingPaymentID) {
			return nil, apperror.Validation("Payment ID is required")
		}
		return nil, apperror.Validation(err.Error())
	}

	now := time.Now().UTC()
	fp.ID = uuid.New()
	fp.CreatedAt = now
	fp.UpdatedAt = now

	res, err := s.repo.Upsert(ctx, fp)
	if err != nil {
		if errors.Is(err, ports.ErrStorageNotConfigured) {
			return nil, apperror.ErrStorageNotConfigured()
		}
		s.log.Error().Err(err).Str("payment_id", fp.PaymentID).Msg("failed to record payment failure")
		return nil, apperror.ErrUpstream(err)
	}

	action := "updated"
	if res.Inserted {
		action = "created"
	}

	s.log.Info().
		Str("id", res.ID).
		Str("payment_id", fp.PaymentID).
		Str("membership_id", fp.MembershipID).
		Str("company_id", fp.CompanyID).
		Int64("amount", fp.Amount).
		Str("action", action).
		Msg("payment failure recorded")

	publish(ctx, s.publisher, s.log, domain.EventPaymentFailedRecorded, map[string]any{
		"id":           res.ID,
		"paymentId":    fp.PaymentID,
		"membershipId": fp.MembershipID,
		"companyId":    fp.CompanyID,
		"amount":       fp.Amount,
		"currency":     fp.Currency,
		"action":       action,
	})

	return &domain.PaymentFailedAck{
		Success: true,
		Message: "Payment failure processed",
		ID:      res.ID,
		Action:  action,
	}, nil
}

// HandleMembershipInvalid cancels every tracked payment of the membership.
func (s *WebhookServiceImpl) HandleMembershipInvalid(ctx context.Context, evt *domain.WebhookEvent) (any, error) {
	if !domain.IsMembershipInvalidAction(evt.Action) {
		s.log.Debug().Str("action", evt.Action).Msg("ignoring non membership-invalid event")
		return &domain.IgnoredEventAck{
			Message:        "Not a membership invalid event",
			ReceivedAction: evt.Action,
			ValidActions:   domain.MembershipInvalidActions,
		}, nil
	}

	membershipID, strategy := domain.ExtractMembershipID(evt.Data)
	if membershipID == "" {
		return nil, apperror.Validation("Membership ID is required")
	}

	updated, err := s.repo.CancelByMembershipID(ctx, membershipID)
	if err != nil {
		if errors.Is(err, ports.ErrStorageNotConfigured) {
			return nil, apperror.ErrStorageNotConfigured()
		}
		s.log.Error().Err(err).Str("membership_id", membershipID).Msg("failed to cancel membership payments")
		return nil, apperror.ErrUpstream(err)
	}

	s.log.Info().
		Str("membership_id", membershipID).
		Str("id_source", strategy).
		Int64("updated", updated).
		Msg("membership invalidated")

	publish(ctx, s.publisher, s.log, domain.EventMembershipCancelled, map[string]any{
		"membershipId":         membershipID,
		"updatedPaymentsCount": updated,
	})

	return &domain.MembershipInvalidAck{
		Success:              true,
		Message:              "Membership invalid processed",
		MembershipID:         membershipID,
		UpdatedPaymentsCount: updated,
		EventAction:          evt.Action,
	}, nil
}

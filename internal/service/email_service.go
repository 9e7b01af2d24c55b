package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"dunning-dashboard/internal/core/domain"
	"dunning-dashboard/internal/core/ports"
	"dunning-dashboard/pkg/apperror"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// EmailServiceImpl implements ports.EmailService.
type EmailServiceImpl struct {
	paymentRepo ports.FailedPaymentRepository
	ruleRepo    ports.EmailRuleRepository
	seqRepo     ports.EmailSequenceRepository
	sentRepo    ports.SentEmailRepository
	transactor  ports.DBTransactor
	provider    ports.EmailProvider
	publisher   ports.EventPublisher
	from        string
	log         zerolog.Logger
}

// NewEmailService creates a new EmailServiceImpl. from is the sender address
// put on every outbound message.
func NewEmailService(
	paymentRepo ports.FailedPaymentRepository,
	ruleRepo ports.EmailRuleRepository,
	seqRepo ports.EmailSequenceRepository,
	sentRepo ports.SentEmailRepository,
	transactor ports.DBTransactor,
	provider ports.EmailProvider,
	publisher ports.EventPublisher,
	from string,
	log zerolog.Logger,
) *EmailServiceImpl {
	return &EmailServiceImpl{
		paymentRepo: paymentRepo,
		ruleRepo:    ruleRepo,
		seqRepo:     seqRepo,
		sentRepo:    sentRepo,
		transactor:  transactor,
		provider:    provider,
		publisher:   publisher,
		from:        from,
		log:         log,
	}
}

// Send delivers one recovery email and records it against the payment.
// Sends are not deduplicated: every call produces its own audit rows.
func (s *EmailServiceImpl) Send(ctx context.Context, req ports.SendEmailRequest) (*domain.EmailSendResult, error) {
	if strings.TrimSpace(req.To) == "" ||
		req.Template.Subject == "" ||
		req.Template.Body == "" ||
		req.FailedPaymentID == uuid.Nil ||
		strings.TrimSpace(req.TemplateName) == "" {
		return nil, apperror.Validation("Missing required fields")
	}

	fp, err := s.paymentRepo.GetByID(ctx, req.FailedPaymentID)
	if err != nil {
		return nil, storageError(s.log, err, "failed to load payment")
	}
	if fp == nil {
		return nil, apperror.ErrNotFound("Payment")
	}

	messageID, err := s.provider.Send(ctx, domain.OutboundEmail{
		From:    s.from,
		To:      req.To,
		Subject: req.Template.Subject,
		HTML:    req.Template.Body,
	})
	if err != nil {
		return nil, providerError(err)
	}

	sentAt := time.Now().UTC()
	seq := &domain.EmailSequence{
		ID:                uuid.New(),
		FailedPaymentID:   fp.ID,
		EmailType:         domain.EmailType(req.TemplateName),
		ProviderMessageID: messageID,
		SentAt:            sentAt,
	}
	sent := &domain.SentEmail{
		ID:                uuid.New(),
		FailedPaymentID:   fp.ID,
		EmailSequenceID:   seq.ID,
		TemplateName:      req.TemplateName,
		RecipientEmail:    req.To,
		Subject:           req.Template.Subject,
		Body:              req.Template.Body,
		ProviderMessageID: messageID,
		Status:            domain.SentEmailStatusSent,
		SentAt:            sentAt,
	}

	if err := s.recordSend(ctx, seq, sent); err != nil {
		// The provider already accepted the message; it cannot be recalled.
		log := s.log.With().
			Str("provider_message_id", messageID).
			Str("failed_payment_id", fp.ID.String()).
			Logger()
		return nil, storageError(log, err, "email sent but audit write failed")
	}

	s.log.Info().
		Str("provider_message_id", messageID).
		Str("failed_payment_id", fp.ID.String()).
		Str("email_type", seq.EmailType).
		Msg("recovery email sent")

	publish(ctx, s.publisher, s.log, domain.EventEmailSent, map[string]any{
		"failedPaymentId": fp.ID.String(),
		"sequenceId":      seq.ID.String(),
		"emailId":         messageID,
		"emailType":       seq.EmailType,
	})

	return &domain.EmailSendResult{
		Success:    true,
		EmailID:    messageID,
		SequenceID: seq.ID,
	}, nil
}

func (s *EmailServiceImpl) recordSend(ctx context.Context, seq *domain.EmailSequence, sent *domain.SentEmail) error {
	dbTx, err := s.transactor.Begin(ctx)
	if err != nil {
		return err
	}
	defer dbTx.Rollback(ctx) //nolint:errcheck

	if err := s.seqRepo.Create(ctx, dbTx, seq); err != nil {
		return err
	}
	if err := s.sentRepo.Create(ctx, dbTx, sent); err != nil {
		return err
	}
	if err := s.paymentRepo.RecordEmailSent(ctx, dbTx, seq.FailedPaymentID, seq.SentAt); err != nil {
		return err
	}
	return dbTx.Commit(ctx)
}

func providerError(err error) error {
	switch {
	case errors.Is(err, ports.ErrEmailNotConfigured):
		return apperror.ErrEmailNotConfigured()
	case errors.Is(err, ports.ErrEmailRejected):
		return apperror.ErrEmailRejected(err)
	default:
		return apperror.ErrUpstream(err)
	}
}

// ListRules returns a company's email rules ordered by day offset.
func (s *EmailServiceImpl) ListRules(ctx context.Context, companyID string) ([]*domain.EmailRule, error) {
	if strings.TrimSpace(companyID) == "" {
		return nil, apperror.Validation("Company ID is required")
	}
	rules, err := s.ruleRepo.ListByCompany(ctx, companyID)
	if err != nil {
		return nil, storageError(s.log, err, "failed to list email rules")
	}
	if rules == nil {
		rules = []*domain.EmailRule{}
	}
	return rules, nil
}

// SaveRule creates the rule for (company, days) or replaces the existing one.
func (s *EmailServiceImpl) SaveRule(ctx context.Context, rule *domain.EmailRule) (*domain.EmailRule, error) {
	if strings.TrimSpace(rule.CompanyID) == "" {
		return nil, apperror.Validation("Company ID is required")
	}
	if rule.Days < 0 {
		return nil, apperror.Validation("Days must not be negative")
	}

	now := time.Now().UTC()
	rule.ID = uuid.New()
	rule.CreatedAt = now
	rule.UpdatedAt = now

	saved, err := s.ruleRepo.Upsert(ctx, rule)
	if err != nil {
		return nil, storageError(s.log, err, "failed to save email rule")
	}

	s.log.Info().
		Str("rule_id", saved.ID.String()).
		Str("company_id", saved.CompanyID).
		Int("days", saved.Days).
		Msg("email rule saved")
	return saved, nil
}

// DeleteRule removes one rule by id.
func (s *EmailServiceImpl) DeleteRule(ctx context.Context, id uuid.UUID) error {
	deleted, err := s.ruleRepo.Delete(ctx, id)
	if err != nil {
		return storageError(s.log, err, "failed to delete email rule")
	}
	if !deleted {
		return apperror.ErrNotFound("Template")
	}
	return nil
}

package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"dunning-dashboard/internal/core/domain"
	"dunning-dashboard/internal/core/ports"
	"dunning-dashboard/internal/core/ports/mocks"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

const testSender = "Dunning <noreply@example.com>"

type emailTestDeps struct {
	svc         *EmailServiceImpl
	paymentRepo *mocks.MockFailedPaymentRepository
	ruleRepo    *mocks.MockEmailRuleRepository
	seqRepo     *mocks.MockEmailSequenceRepository
	sentRepo    *mocks.MockSentEmailRepository
	transactor  *mocks.MockDBTransactor
	provider    *mocks.MockEmailProvider
	publisher   *mocks.MockEventPublisher
}

func setupEmailService(t *testing.T) *emailTestDeps {
	ctrl := gomock.NewController(t)
	d := &emailTestDeps{
		paymentRepo: mocks.NewMockFailedPaymentRepository(ctrl),
		ruleRepo:    mocks.NewMockEmailRuleRepository(ctrl),
		seqRepo:     mocks.NewMockEmailSequenceRepository(ctrl),
		sentRepo:    mocks.NewMockSentEmailRepository(ctrl),
		transactor:  mocks.NewMockDBTransactor(ctrl),
		provider:    mocks.NewMockEmailProvider(ctrl),
		publisher:   mocks.NewMockEventPublisher(ctrl),
	}
	d.svc = NewEmailService(
		d.paymentRepo, d.ruleRepo, d.seqRepo, d.sentRepo,
		d.transactor, d.provider, d.publisher, testSender, zerolog.Nop(),
	)
	return d
}

func validSendRequest(id uuid.UUID) ports.SendEmailRequest {
	return ports.SendEmailRequest{
		To:              "customer@example.com",
		Template:        domain.EmailTemplate{Subject: "Your payment failed", Body: "<p>Please update your card</p>"},
		FailedPaymentID: id,
		TemplateName:    "First Reminder",
	}
}

// ==================== Send Tests ====================

func TestEmailService_Send_Success(t *testing.T) {
	d := setupEmailService(t)
	ctx := context.Background()
	tx := &mockTx{}
	id := uuid.New()

	d.paymentRepo.EXPECT().GetByID(ctx, id).Return(&domain.FailedPayment{ID: id}, nil)
	d.provider.EXPECT().Send(ctx, domain.OutboundEmail{
		From:    testSender,
		To:      "customer@example.com",
		Subject: "Your payment failed",
		HTML:    "<p>Please update your card</p>",
	}).Return("msg_123", nil)

	var seqID uuid.UUID
	d.transactor.EXPECT().Begin(ctx).Return(tx, nil)
	d.seqRepo.EXPECT().Create(ctx, tx, gomock.Any()).DoAndReturn(
		func(_ context.Context, _ pgx.Tx, seq *domain.EmailSequence) error {
			assert.Equal(t, "first_reminder", seq.EmailType)
			assert.Equal(t, "msg_123", seq.ProviderMessageID)
			assert.Equal(t, id, seq.FailedPaymentID)
			seqID = seq.ID
			return nil
		})
	d.sentRepo.EXPECT().Create(ctx, tx, gomock.Any()).DoAndReturn(
		func(_ context.Context, _ pgx.Tx, e *domain.SentEmail) error {
			assert.Equal(t, seqID, e.EmailSequenceID)
			assert.Equal(t, domain.SentEmailStatusSent, e.Status)
			assert.Equal(t, "First Reminder", e.TemplateName)
			assert.Equal(t, "customer@example.com", e.RecipientEmail)
			return nil
		})
	d.paymentRepo.EXPECT().RecordEmailSent(ctx, tx, id, gomock.Any()).Return(nil)
	d.publisher.EXPECT().Publish(ctx, gomock.Any()).Return(nil)

	res, err := d.svc.Send(ctx, validSendRequest(id))
	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.Equal(t, "msg_123", res.EmailID)
	assert.Equal(t, seqID, res.SequenceID)
	assert.True(t, tx.committed)
}

func TestEmailService_Send_TwiceRecordsTwice(t *testing.T) {
	d := setupEmailService(t)
	ctx := context.Background()
	id := uuid.New()

	d.paymentRepo.EXPECT().GetByID(ctx, id).Return(&domain.FailedPayment{ID: id}, nil).Times(2)
	d.provider.EXPECT().Send(ctx, gomock.Any()).Return("msg_a", nil)
	d.provider.EXPECT().Send(ctx, gomock.Any()).Return("msg_b", nil)
	d.transactor.EXPECT().Begin(ctx).Return(&mockTx{}, nil).Times(2)
	d.seqRepo.EXPECT().Create(ctx, gomock.Any(), gomock.Any()).Return(nil).Times(2)
	d.sentRepo.EXPECT().Create(ctx, gomock.Any(), gomock.Any()).Return(nil).Times(2)
	d.paymentRepo.EXPECT().RecordEmailSent(ctx, gomock.Any(), id, gomock.Any()).Return(nil).Times(2)
	d.publisher.EXPECT().Publish(ctx, gomock.Any()).Return(nil).Times(2)

	first, err := d.svc.Send(ctx, validSendRequest(id))
	require.NoError(t, err)
	second, err := d.svc.Send(ctx, validSendRequest(id))
	require.NoError(t, err)
	assert.NotEqual(t, first.SequenceID, second.SequenceID)
}

func TestEmailService_Send_MissingFields(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(r *ports.SendEmailRequest)
	}{
		{"no recipient", func(r *ports.SendEmailRequest) { r.To = "" }},
		{"no subject", func(r *ports.SendEmailRequest) { r.Template.Subject = "" }},
		{"no body", func(r *ports.SendEmailRequest) { r.Template.Body = "" }},
		{"no payment", func(r *ports.SendEmailRequest) { r.FailedPaymentID = uuid.Nil }},
		{"no template name", func(r *ports.SendEmailRequest) { r.TemplateName = "  " }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := setupEmailService(t)
			req := validSendRequest(uuid.New())
			tt.mutate(&req)

			_, err := d.svc.Send(context.Background(), req)
			assertAppError(t, err, "VAL_001")
			assert.Contains(t, err.Error(), "Missing required fields")
		})
	}
}

func TestEmailService_Send_PaymentNotFound(t *testing.T) {
	d := setupEmailService(t)
	ctx := context.Background()
	id := uuid.New()

	d.paymentRepo.EXPECT().GetByID(ctx, id).Return(nil, nil)

	_, err := d.svc.Send(ctx, validSendRequest(id))
	assertAppError(t, err, "RES_001")
}

func TestEmailService_Send_ProviderErrors(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code string
	}{
		{"not configured", ports.ErrEmailNotConfigured, "CFG_003"},
		{"rejected", fmt.Errorf("send email: status 422: %w", ports.ErrEmailRejected), "UPS_002"},
		{"transport", errors.New("send email: dial tcp: timeout"), "UPS_001"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := setupEmailService(t)
			ctx := context.Background()
			id := uuid.New()

			d.paymentRepo.EXPECT().GetByID(ctx, id).Return(&domain.FailedPayment{ID: id}, nil)
			d.provider.EXPECT().Send(ctx, gomock.Any()).Return("", tt.err)

			_, err := d.svc.Send(ctx, validSendRequest(id))
			assertAppError(t, err, tt.code)
		})
	}
}

func TestEmailService_Send_AuditWriteFails(t *testing.T) {
	d := setupEmailService(t)
	ctx := context.Background()
	tx := &mockTx{}
	id := uuid.New()

	d.paymentRepo.EXPECT().GetByID(ctx, id).Return(&domain.FailedPayment{ID: id}, nil)
	d.provider.EXPECT().Send(ctx, gomock.Any()).Return("msg_123", nil)
	d.transactor.EXPECT().Begin(ctx).Return(tx, nil)
	d.seqRepo.EXPECT().Create(ctx, tx, gomock.Any()).Return(nil)
	d.sentRepo.EXPECT().Create(ctx, tx, gomock.Any()).Return(errors.New("insert sent email: disk full"))

	_, err := d.svc.Send(ctx, validSendRequest(id))
	assertAppError(t, err, "UPS_001")
	assert.False(t, tx.committed)
}

// ==================== Rule Tests ====================

func TestEmailService_ListRules(t *testing.T) {
	d := setupEmailService(t)
	ctx := context.Background()

	d.ruleRepo.EXPECT().ListByCompany(ctx, "biz_1").Return([]*domain.EmailRule{
		{Days: 1}, {Days: 3},
	}, nil)

	rules, err := d.svc.ListRules(ctx, "biz_1")
	require.NoError(t, err)
	assert.Len(t, rules, 2)
}

func TestEmailService_ListRules_RequiresCompany(t *testing.T) {
	d := setupEmailService(t)

	_, err := d.svc.ListRules(context.Background(), "")
	assertAppError(t, err, "VAL_001")
}

func TestEmailService_SaveRule(t *testing.T) {
	d := setupEmailService(t)
	ctx := context.Background()
	existing := uuid.New()

	rule := &domain.EmailRule{
		CompanyID:       "biz_1",
		Days:            3,
		Enabled:         true,
		TemplateName:    "Second Reminder",
		TemplateSubject: "Still failing",
		TemplateBody:    "Hi {{name}}",
	}

	d.ruleRepo.EXPECT().Upsert(ctx, rule).DoAndReturn(
		func(_ context.Context, r *domain.EmailRule) (*domain.EmailRule, error) {
			assert.NotEqual(t, uuid.Nil, r.ID)
			assert.False(t, r.UpdatedAt.IsZero())
			saved := *r
			saved.ID = existing
			saved.CreatedAt = time.Now().Add(-time.Hour)
			return &saved, nil
		})

	saved, err := d.svc.SaveRule(ctx, rule)
	require.NoError(t, err)
	assert.Equal(t, existing, saved.ID)
	assert.Equal(t, "Second Reminder", saved.TemplateName)
}

func TestEmailService_SaveRule_Validation(t *testing.T) {
	d := setupEmailService(t)

	_, err := d.svc.SaveRule(context.Background(), &domain.EmailRule{Days: 1})
	assertAppError(t, err, "VAL_001")

	_, err = d.svc.SaveRule(context.Background(), &domain.EmailRule{CompanyID: "biz_1", Days: -1})
	assertAppError(t, err, "VAL_001")
}

func TestEmailService_DeleteRule(t *testing.T) {
	d := setupEmailService(t)
	ctx := context.Background()
	id := uuid.New()

	d.ruleRepo.EXPECT().Delete(ctx, id).Return(true, nil)
	require.NoError(t, d.svc.DeleteRule(ctx, id))
}

func TestEmailService_DeleteRule_NotFound(t *testing.T) {
	d := setupEmailService(t)
	ctx := context.Background()
	id := uuid.New()

	d.ruleRepo.EXPECT().Delete(ctx, id).Return(false, nil)
	assertAppError(t, d.svc.DeleteRule(ctx, id), "RES_001")
}

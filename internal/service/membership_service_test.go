package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"dunning-dashboard/internal/core/domain"
	"dunning-dashboard/internal/core/ports"
	"dunning-dashboard/internal/core/ports/mocks"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type membershipTestDeps struct {
	svc         *MembershipServiceImpl
	client      *mocks.MockMembershipClient
	paymentRepo *mocks.MockFailedPaymentRepository
	cache       *mocks.MockResponseCache
}

func setupMembershipService(t *testing.T) *membershipTestDeps {
	ctrl := gomock.NewController(t)
	d := &membershipTestDeps{
		client:      mocks.NewMockMembershipClient(ctrl),
		paymentRepo: mocks.NewMockFailedPaymentRepository(ctrl),
		cache:       mocks.NewMockResponseCache(ctrl),
	}
	d.svc = NewMembershipService(d.client, d.paymentRepo, d.cache, 30*time.Second, zerolog.Nop())
	return d
}

func sampleMemberships() []domain.Membership {
	return []domain.Membership{
		{ID: "mem_past_due", Status: "past_due", UserEmail: "alice@example.com", InitialPrice: 1500, CreatedAt: 1700000000},
		{ID: "mem_healthy", Status: "active", UserEmail: "bob@example.com"},
		{ID: "mem_retrying", Status: "active", UserEmail: "carol@example.com", PaymentsFailedCount: 2},
		{ID: "mem_churned", Status: "canceled", UserEmail: "dave@example.com", PaymentsFailedCount: 1},
	}
}

func TestMembershipService_List_JoinsLocalRows(t *testing.T) {
	d := setupMembershipService(t)
	ctx := context.Background()
	sent := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	d.cache.EXPECT().Get(ctx, "biz_1::").Return(nil, nil)
	d.client.EXPECT().ListMemberships(ctx, domain.MembershipQuery{
		CompanyID: "biz_1",
		First:     50,
		Order:     "created_at",
		Direction: "desc",
	}).Return(sampleMemberships(), nil)
	d.cache.EXPECT().Set(ctx, "biz_1::", gomock.Any(), 30*time.Second).Return(nil)
	d.paymentRepo.EXPECT().ListByCompany(ctx, "biz_1").Return([]*domain.FailedPayment{
		{ID: uuid.New(), MembershipID: "mem_retrying", Status: domain.PaymentStatusRecovered, EmailsSent: 3, LastEmailSent: &sent},
		{ID: uuid.New(), MembershipID: "mem_retrying", Status: domain.PaymentStatusActive, EmailsSent: 1},
	}, nil)

	page, err := d.svc.ListFailedMemberships(ctx, "biz_1", "", "")
	require.NoError(t, err)

	assert.Equal(t, "membership_api", page.Source)
	assert.Equal(t, 1, page.Page)
	assert.Equal(t, 50, page.Limit)
	assert.Equal(t, 1, page.TotalPages)
	require.Equal(t, 3, page.Total)

	byID := map[string]domain.MembershipPayment{}
	for _, p := range page.Payments {
		byID[p.MembershipID] = p
	}
	assert.NotContains(t, byID, "mem_healthy")

	assert.Equal(t, domain.PaymentStatusActive, byID["mem_past_due"].Status)
	assert.Equal(t, int64(1500), byID["mem_past_due"].Amount)
	assert.Equal(t, "past_due", byID["mem_past_due"].WhopData.Status)

	retrying := byID["mem_retrying"]
	assert.Equal(t, domain.PaymentStatusRecovered, retrying.Status)
	assert.Equal(t, 3, retrying.EmailsSent)
	assert.Equal(t, &sent, retrying.LastEmailSent)

	assert.Equal(t, domain.PaymentStatusCancelled, byID["mem_churned"].Status)
}

func TestMembershipService_List_CacheHit(t *testing.T) {
	d := setupMembershipService(t)
	ctx := context.Background()

	raw, err := json.Marshal(sampleMemberships())
	require.NoError(t, err)

	d.cache.EXPECT().Get(ctx, "biz_1:past_due:").Return(raw, nil)
	d.paymentRepo.EXPECT().ListByCompany(ctx, "biz_1").Return(nil, nil)

	page, err := d.svc.ListFailedMemberships(ctx, "biz_1", "active", "")
	require.NoError(t, err)
	// the churned membership is cancelled and dropped by the active filter
	assert.Equal(t, 2, page.Total)
}

func TestMembershipService_List_CancelledFilterAndSearch(t *testing.T) {
	d := setupMembershipService(t)
	ctx := context.Background()

	d.cache.EXPECT().Get(ctx, gomock.Any()).Return(nil, errors.New("redis down")).Times(2)
	d.client.EXPECT().ListMemberships(ctx, gomock.Any()).DoAndReturn(
		func(_ context.Context, q domain.MembershipQuery) ([]domain.Membership, error) {
			assert.Equal(t, []string{"churned"}, q.MostRecentActions)
			assert.Empty(t, q.MembershipStatus)
			return sampleMemberships(), nil
		}).Times(2)
	d.cache.EXPECT().Set(ctx, gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("redis down")).Times(2)
	d.paymentRepo.EXPECT().ListByCompany(ctx, "biz_1").Return(nil, nil).Times(2)

	page, err := d.svc.ListFailedMemberships(ctx, "biz_1", "cancelled", "DAVE")
	require.NoError(t, err)
	require.Len(t, page.Payments, 1)
	assert.Equal(t, "mem_churned", page.Payments[0].MembershipID)

	page, err = d.svc.ListFailedMemberships(ctx, "biz_1", "cancelled", "alice")
	if assert.NoError(t, err) {
		assert.Empty(t, page.Payments)
	}
}

func TestMembershipService_List_LocalLookupFailureIgnored(t *testing.T) {
	d := setupMembershipService(t)
	ctx := context.Background()

	d.cache.EXPECT().Get(ctx, gomock.Any()).Return(nil, nil)
	d.client.EXPECT().ListMemberships(ctx, gomock.Any()).Return(sampleMemberships(), nil)
	d.cache.EXPECT().Set(ctx, gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
	d.paymentRepo.EXPECT().ListByCompany(ctx, "biz_1").Return(nil, ports.ErrStorageNotConfigured)

	page, err := d.svc.ListFailedMemberships(ctx, "biz_1", "all", "")
	require.NoError(t, err)
	assert.Equal(t, 3, page.Total)
}

func TestMembershipService_List_NotConfigured(t *testing.T) {
	d := setupMembershipService(t)
	ctx := context.Background()

	d.cache.EXPECT().Get(ctx, gomock.Any()).Return(nil, nil)
	d.client.EXPECT().ListMemberships(ctx, gomock.Any()).Return(nil, ports.ErrMembershipNotConfigured)

	_, err := d.svc.ListFailedMemberships(ctx, "biz_1", "", "")
	assertAppError(t, err, "CFG_004")
}

func TestMembershipService_List_UpstreamFailure(t *testing.T) {
	d := setupMembershipService(t)
	ctx := context.Background()

	d.cache.EXPECT().Get(ctx, gomock.Any()).Return(nil, nil)
	d.client.EXPECT().ListMemberships(ctx, gomock.Any()).Return(nil, errors.New("list memberships: status 500"))

	_, err := d.svc.ListFailedMemberships(ctx, "biz_1", "", "")
	assertAppError(t, err, "UPS_001")
}

func TestMembershipService_List_Validation(t *testing.T) {
	d := setupMembershipService(t)

	_, err := d.svc.ListFailedMemberships(context.Background(), " ", "", "")
	assertAppError(t, err, "VAL_001")

	_, err = d.svc.ListFailedMemberships(context.Background(), "biz_1", "overdue", "")
	assertAppError(t, err, "VAL_001")
}

package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"dunning-dashboard/config"
	"dunning-dashboard/internal/core/ports"
	"dunning-dashboard/internal/core/ports/mocks"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestDiagnosticsService_CheckDatabase(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockDiagnosticsRepository(ctrl)
	svc := NewDiagnosticsService(repo, config.MembershipConfig{}, zerolog.Nop())
	ctx := context.Background()
	now := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)

	repo.EXPECT().ServerTime(ctx).Return(now, nil)
	repo.EXPECT().ExistingTables(ctx, ExpectedTables).Return([]string{"email_rules", "failed_payments"}, nil)

	report, err := svc.CheckDatabase(ctx)
	require.NoError(t, err)
	assert.Equal(t, now, report.ServerTime)
	assert.Equal(t, []string{"email_rules", "failed_payments"}, report.Tables)
	assert.Equal(t, []string{"audit_logs", "email_sequences", "sent_emails"}, report.MissingTables)
}

func TestDiagnosticsService_CheckDatabase_Errors(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockDiagnosticsRepository(ctrl)
	svc := NewDiagnosticsService(repo, config.MembershipConfig{}, zerolog.Nop())
	ctx := context.Background()

	repo.EXPECT().ServerTime(ctx).Return(time.Time{}, ports.ErrStorageNotConfigured)
	_, err := svc.CheckDatabase(ctx)
	assert.ErrorIs(t, err, ports.ErrStorageNotConfigured)

	repo.EXPECT().ServerTime(ctx).Return(time.Now(), nil)
	repo.EXPECT().ExistingTables(ctx, gomock.Any()).Return(nil, errors.New("list tables: permission denied"))
	_, err = svc.CheckDatabase(ctx)
	assert.EqualError(t, err, "list tables: permission denied")
}

func TestDiagnosticsService_CheckMembershipAPI(t *testing.T) {
	tests := []struct {
		name string
		cfg  config.MembershipConfig
		init bool
		env  map[string]bool
	}{
		{
			name: "nothing set",
			env:  map[string]bool{"api_key": false, "app_id": false, "agent_user_id": false, "company_id": false},
		},
		{
			name: "optional settings alone are not enough",
			cfg:  config.MembershipConfig{APIKey: "key", AgentUserID: "user_1", CompanyID: "biz_1"},
			env:  map[string]bool{"api_key": true, "app_id": false, "agent_user_id": true, "company_id": true},
		},
		{
			name: "required settings",
			cfg:  config.MembershipConfig{APIKey: "key", AppID: "app_1"},
			init: true,
			env:  map[string]bool{"api_key": true, "app_id": true, "agent_user_id": false, "company_id": false},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewDiagnosticsService(nil, tt.cfg, zerolog.Nop())
			report := svc.CheckMembershipAPI()
			assert.Equal(t, tt.init, report.Initialized)
			assert.Equal(t, tt.env, report.EnvCheck)
		})
	}
}

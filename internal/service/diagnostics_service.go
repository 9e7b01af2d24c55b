package service

import (
	"context"

	"dunning-dashboard/config"
	"dunning-dashboard/internal/core/ports"

	"github.com/rs/zerolog"
	"github.com/samber/lo"
)

// ExpectedTables lists the tables created by the schema migrations.
var ExpectedTables = []string{
	"audit_logs",
	"email_rules",
	"email_sequences",
	"failed_payments",
	"sent_emails",
}

// DiagnosticsServiceImpl implements ports.DiagnosticsService.
type DiagnosticsServiceImpl struct {
	repo       ports.DiagnosticsRepository
	membership config.MembershipConfig
	log        zerolog.Logger
}

// NewDiagnosticsService creates a new DiagnosticsServiceImpl.
func NewDiagnosticsService(repo ports.DiagnosticsRepository, membership config.MembershipConfig, log zerolog.Logger) *DiagnosticsServiceImpl {
	return &DiagnosticsServiceImpl{repo: repo, membership: membership, log: log}
}

// CheckDatabase reads the server clock and reports which expected tables exist.
// Errors are returned unmapped so the probe can render them verbatim.
func (s *DiagnosticsServiceImpl) CheckDatabase(ctx context.Context) (*ports.DatabaseReport, error) {
	now, err := s.repo.ServerTime(ctx)
	if err != nil {
		return nil, err
	}
	tables, err := s.repo.ExistingTables(ctx, ExpectedTables)
	if err != nil {
		return nil, err
	}
	missing := lo.Without(ExpectedTables, tables...)
	if len(missing) > 0 {
		s.log.Warn().Strs("missing_tables", missing).Msg("database schema incomplete")
	}
	return &ports.DatabaseReport{
		ServerTime:    now,
		Tables:        tables,
		MissingTables: missing,
	}, nil
}

// CheckMembershipAPI reports which membership API settings are present.
// Only api_key and app_id are required for the client to initialise.
func (s *DiagnosticsServiceImpl) CheckMembershipAPI() ports.MembershipAPIReport {
	return ports.MembershipAPIReport{
		Initialized: s.membership.Configured(),
		EnvCheck: map[string]bool{
			"api_key":       s.membership.APIKey != "",
			"app_id":        s.membership.AppID != "",
			"agent_user_id": s.membership.AgentUserID != "",
			"company_id":    s.membership.CompanyID != "",
		},
	}
}

package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"dunning-dashboard/internal/core/domain"
	"dunning-dashboard/internal/core/ports"

	"github.com/google/uuid"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUnconfigured_EveryCallFails(t *testing.T) {
	ctx := context.Background()
	var pool Pool = Unconfigured{}

	_, err := pool.Exec(ctx, "SELECT 1")
	assert.ErrorIs(t, err, ports.ErrStorageNotConfigured)

	_, err = pool.Query(ctx, "SELECT 1")
	assert.ErrorIs(t, err, ports.ErrStorageNotConfigured)

	var n int
	assert.ErrorIs(t, pool.QueryRow(ctx, "SELECT 1").Scan(&n), ports.ErrStorageNotConfigured)

	_, err = pool.Begin(ctx)
	assert.ErrorIs(t, err, ports.ErrStorageNotConfigured)

	assert.ErrorIs(t, pool.Ping(ctx), ports.ErrStorageNotConfigured)
}

func TestUnconfigured_RepositoriesSurfaceSentinel(t *testing.T) {
	ctx := context.Background()
	repo := NewFailedPaymentRepo(Unconfigured{})

	_, err := repo.Upsert(ctx, &domain.FailedPayment{ID: uuid.New()})
	assert.ErrorIs(t, err, ports.ErrStorageNotConfigured)

	_, _, err = repo.List(ctx, domain.PaymentFilter{CompanyID: "default", Page: 1, Limit: 20})
	assert.ErrorIs(t, err, ports.ErrStorageNotConfigured)

	_, err = repo.GetByID(ctx, uuid.New())
	assert.ErrorIs(t, err, ports.ErrStorageNotConfigured)

	_, err = NewTransactor(Unconfigured{}).Begin(ctx)
	assert.ErrorIs(t, err, ports.ErrStorageNotConfigured)
}

func TestMigrationURL(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"postgres://u:p@localhost:5432/dunning?sslmode=disable", "pgx5://u:p@localhost:5432/dunning?sslmode=disable"},
		{"postgresql://u@db/dunning", "pgx5://u@db/dunning"},
		{"pgx5://already/converted", "pgx5://already/converted"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, MigrationURL(tt.in))
	}
}

func TestTransactor_Begin(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectBegin()
	tx, err := NewTransactor(mock).Begin(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, tx)

	mock.ExpectBegin().WillReturnError(errors.New("too many connections"))
	_, err = NewTransactor(mock).Begin(context.Background())
	assert.ErrorContains(t, err, "begin tx")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresHealthChecker(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	checker := NewHealthCheck(mock)
	assert.Equal(t, "postgresql", checker.Name())

	mock.ExpectPing()
	assert.NoError(t, checker.Ping(context.Background()))

	mock.ExpectPing().WillReturnError(errors.New("down"))
	assert.Error(t, checker.Ping(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAuditRepo_Create(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewAuditRepo(mock)
	entry := &domain.AuditLog{
		ID:           uuid.New(),
		Actor:        "admin",
		Action:       domain.AuditActionUpdatePayments,
		ResourceType: "failed_payment",
		ResourceID:   "",
		Details:      `{"count":2}`,
		IPAddress:    "10.0.0.1",
		CreatedAt:    time.Now().UTC(),
	}

	mock.ExpectExec("INSERT INTO audit_logs").
		WithArgs(entry.ID, entry.Actor, "UPDATE_PAYMENTS", entry.ResourceType,
			entry.ResourceID, entry.Details, entry.IPAddress, entry.CreatedAt).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	assert.NoError(t, repo.Create(context.Background(), entry))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDiagnosticsRepo(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewDiagnosticsRepo(mock)
	now := time.Now().UTC()
	names := []string{"failed_payments", "email_rules", "email_sequences"}

	mock.ExpectQuery("SELECT NOW\\(\\)").
		WillReturnRows(pgxmock.NewRows([]string{"now"}).AddRow(now))
	mock.ExpectQuery("FROM information_schema.tables").
		WithArgs(names).
		WillReturnRows(pgxmock.NewRows([]string{"table_name"}).AddRow("email_rules").AddRow("failed_payments"))

	got, err := repo.ServerTime(context.Background())
	require.NoError(t, err)
	assert.Equal(t, now, got)

	tables, err := repo.ExistingTables(context.Background(), names)
	require.NoError(t, err)
	assert.Equal(t, []string{"email_rules", "failed_payments"}, tables)
	assert.NoError(t, mock.ExpectationsWereMet())
}

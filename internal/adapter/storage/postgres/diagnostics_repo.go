package postgres

import (
	"context"
	"fmt"
	"time"
)

// DiagnosticsRepo implements ports.DiagnosticsRepository.
type DiagnosticsRepo struct {
	pool Pool
}

// NewDiagnosticsRepo creates a new DiagnosticsRepo.
func NewDiagnosticsRepo(pool Pool) *DiagnosticsRepo {
	return &DiagnosticsRepo{pool: pool}
}

// ServerTime returns the database clock.
func (r *DiagnosticsRepo) ServerTime(ctx context.Context) (time.Time, error) {
	var now time.Time
	if err := r.pool.QueryRow(ctx, `SELECT NOW()`).Scan(&now); err != nil {
		return time.Time{}, fmt.Errorf("select now: %w", err)
	}
	return now, nil
}

// ExistingTables returns which of names exist in the public schema.
func (r *DiagnosticsRepo) ExistingTables(ctx context.Context, names []string) ([]string, error) {
	query := `SELECT table_name::text FROM information_schema.tables
		WHERE table_schema = 'public' AND table_name = ANY($1)
		ORDER BY table_name`

	rows, err := r.pool.Query(ctx, query, names)
	if err != nil {
		return nil, fmt.Errorf("list tables: %w", err)
	}
	defer rows.Close()

	tables := []string{}
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scan table name: %w", err)
		}
		tables = append(tables, name)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate table rows: %w", err)
	}
	return tables, nil
}

package postgres

import (
	"context"
	"errors"
	"fmt"
)

// ErrSchemaMissing is reported by HealthCheck when the ledger tables are absent.
var ErrSchemaMissing = errors.New("ledger schema missing; run migrations")

// HealthCheck implements ports.HealthChecker for PostgreSQL. Besides reachability
// it checks that the audit table exists, since every mutation depends on it.
type HealthCheck struct {
	pool Pool
}

// NewHealthCheck creates a PostgreSQL health checker.
func NewHealthCheck(pool Pool) *HealthCheck {
	return &HealthCheck{pool: pool}
}

// Ping fails when the server is unreachable or the schema was never migrated.
func (h *HealthCheck) Ping(ctx context.Context) error {
	var present bool
	if err := h.pool.QueryRow(ctx, "SELECT to_regclass('audit_entries') IS NOT NULL").Scan(&present); err != nil {
		return fmt.Errorf("check ledger schema: %w", err)
	}
	if !present {
		return ErrSchemaMissing
	}
	return nil
}

// Name returns the dependency name.
func (h *HealthCheck) Name() string {
	return "postgresql"
}

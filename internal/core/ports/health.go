package ports

import "context"

// HealthChecker checks the health of a ledger backend.
type HealthChecker interface {
	// Ping verifies connectivity. Returns nil if healthy.
	Ping(ctx context.Context) error
	// Name returns the backend name (e.g., "postgresql", "mongodb", "redis").
	Name() string
}

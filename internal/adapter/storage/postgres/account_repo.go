package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"guild-ledger/internal/core/domain"

	"github.com/jackc/pgx/v5"
)

// AccountRepo implements ports.AccountRepository. Columns are nullable so that
// damaged rows load as-is and can be repaired.
type AccountRepo struct {
	pool Pool
}

// NewAccountRepo creates a new AccountRepo.
func NewAccountRepo(pool Pool) *AccountRepo {
	return &AccountRepo{pool: pool}
}

// Get fetches the raw stored account.
func (r *AccountRepo) Get(ctx context.Context, userID string) (*domain.StoredAccount, error) {
	query := `SELECT user_id, status, created_at, updated_at, last_activity_at, version
		FROM accounts WHERE user_id = $1`

	a := &domain.StoredAccount{}
	err := r.pool.QueryRow(ctx, query, userID).Scan(
		&a.UserID, &a.Status, &a.CreatedAt, &a.UpdatedAt, &a.LastActivityAt, &a.Version,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get account: %w", err)
	}
	return a, nil
}

// Insert creates the account unless a row already exists.
func (r *AccountRepo) Insert(ctx context.Context, a *domain.Account) (bool, error) {
	query := `INSERT INTO accounts (user_id, status, created_at, updated_at, last_activity_at, version)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (user_id) DO NOTHING`

	tag, err := r.pool.Exec(ctx, query,
		a.UserID, string(a.Status), a.CreatedAt, a.UpdatedAt, a.LastActivityAt, a.Version,
	)
	if err != nil {
		return false, fmt.Errorf("insert account: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

// UpdateStatus sets the status while the stored version still matches.
func (r *AccountRepo) UpdateStatus(ctx context.Context, userID string, status domain.AccountStatus, expectedVersion int64, now time.Time) (bool, error) {
	query := `UPDATE accounts SET status = $2, version = version + 1, updated_at = $3
		WHERE user_id = $1 AND version = $4`

	tag, err := r.pool.Exec(ctx, query, userID, string(status), now, expectedVersion)
	if err != nil {
		return false, fmt.Errorf("update account status: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

// TouchActivity records the last activity time.
func (r *AccountRepo) TouchActivity(ctx context.Context, userID string, at time.Time) error {
	tag, err := r.pool.Exec(ctx, `UPDATE accounts SET last_activity_at = $2 WHERE user_id = $1`, userID, at)
	if err != nil {
		return fmt.Errorf("touch account activity: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("account %s not found", userID)
	}
	return nil
}

// ReplaceIfVersion rewrites every column while the stored version, NULL included,
// still equals expectedVersion.
func (r *AccountRepo) ReplaceIfVersion(ctx context.Context, a *domain.Account, expectedVersion *int64) (bool, error) {
	query := `UPDATE accounts SET status = $2, created_at = $3, updated_at = $4,
			last_activity_at = $5, version = $6
		WHERE user_id = $1 AND version IS NOT DISTINCT FROM $7`

	tag, err := r.pool.Exec(ctx, query,
		a.UserID, string(a.Status), a.CreatedAt, a.UpdatedAt, a.LastActivityAt, a.Version, expectedVersion,
	)
	if err != nil {
		return false, fmt.Errorf("replace account: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

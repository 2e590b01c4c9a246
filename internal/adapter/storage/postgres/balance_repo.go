package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"guild-ledger/internal/core/domain"

	"github.com/jackc/pgx/v5"
)

const balanceColumns = `currency_id, kind, amount, parts, version`

// BalanceRepo implements ports.BalanceRepository.
type BalanceRepo struct {
	pool Pool
}

// NewBalanceRepo creates a new BalanceRepo.
func NewBalanceRepo(pool Pool) *BalanceRepo {
	return &BalanceRepo{pool: pool}
}

// Get fetches one balance, or nil when the user never held the currency.
func (r *BalanceRepo) Get(ctx context.Context, userID, currencyID string) (*domain.Balance, error) {
	return getBalance(ctx, r.pool, userID, currencyID, false)
}

// IncrementScalar creates the balance at zero when missing, then applies delta
// with a guarded UPDATE.
func (r *BalanceRepo) IncrementScalar(ctx context.Context, userID, currencyID string, delta int64, allowNegative bool) (int64, bool, error) {
	ensure := `INSERT INTO currency_balances (user_id, currency_id, kind, amount, version)
		VALUES ($1, $2, $3, 0, 0)
		ON CONFLICT (user_id, currency_id) DO NOTHING`
	if _, err := r.pool.Exec(ctx, ensure, userID, currencyID, string(domain.CurrencyScalar)); err != nil {
		return 0, false, fmt.Errorf("ensure balance: %w", err)
	}

	update := `UPDATE currency_balances SET amount = amount + $3, version = version + 1
		WHERE user_id = $1 AND currency_id = $2 AND ($4 OR amount + $3 >= 0)
		RETURNING amount`

	var after int64
	err := r.pool.QueryRow(ctx, update, userID, currencyID, delta, allowNegative).Scan(&after)
	switch {
	case err == nil:
		return after, true, nil
	case isOutOfRange(err):
		return 0, false, fmt.Errorf("increment %s for %s: %w", currencyID, userID, domain.ErrBalanceOverflow)
	case !errors.Is(err, pgx.ErrNoRows):
		return 0, false, fmt.Errorf("increment balance: %w", err)
	}

	current, err := getBalance(ctx, r.pool, userID, currencyID, false)
	if err != nil {
		return 0, false, err
	}
	if current == nil {
		return 0, false, nil
	}
	return current.Amount, false, nil
}

// CompareAndSwap stores next at expectedVersion+1. A missing row only matches
// expectedVersion 0.
func (r *BalanceRepo) CompareAndSwap(ctx context.Context, userID string, next domain.Balance, expectedVersion int64) (bool, error) {
	parts, err := encodeParts(next.Parts)
	if err != nil {
		return false, err
	}

	query := `UPDATE currency_balances SET kind = $3, amount = $4, parts = $5, version = $6 + 1
		WHERE user_id = $1 AND currency_id = $2 AND version = $6`
	if expectedVersion == 0 {
		query = `INSERT INTO currency_balances (user_id, currency_id, kind, amount, parts, version)
			VALUES ($1, $2, $3, $4, $5, $6 + 1)
			ON CONFLICT (user_id, currency_id) DO UPDATE SET
				kind = EXCLUDED.kind, amount = EXCLUDED.amount, parts = EXCLUDED.parts, version = EXCLUDED.version
			WHERE currency_balances.version = $6`
	}

	tag, err := r.pool.Exec(ctx, query,
		userID, next.CurrencyID, string(next.Kind), next.Amount, parts, expectedVersion,
	)
	if err != nil {
		return false, fmt.Errorf("compare and swap balance: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

func getBalance(ctx context.Context, q querier, userID, currencyID string, forUpdate bool) (*domain.Balance, error) {
	query := `SELECT ` + balanceColumns + ` FROM currency_balances WHERE user_id = $1 AND currency_id = $2`
	if forUpdate {
		query += ` FOR UPDATE`
	}

	var (
		b     domain.Balance
		kind  string
		parts []byte
	)
	err := q.QueryRow(ctx, query, userID, currencyID).Scan(&b.CurrencyID, &kind, &b.Amount, &parts, &b.Version)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get balance: %w", err)
	}
	b.Kind = domain.CurrencyKind(kind)
	if len(parts) > 0 {
		if err := json.Unmarshal(parts, &b.Parts); err != nil {
			return nil, fmt.Errorf("decode balance parts: %w", err)
		}
	}
	return &b, nil
}

// encodeParts returns nil for scalar balances so the column stays NULL.
func encodeParts(parts map[string]int64) ([]byte, error) {
	if parts == nil {
		return nil, nil
	}
	raw, err := json.Marshal(parts)
	if err != nil {
		return nil, fmt.Errorf("encode balance parts: %w", err)
	}
	return raw, nil
}

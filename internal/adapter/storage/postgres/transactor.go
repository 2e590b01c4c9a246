package postgres

import (
	"context"
	"fmt"
	"time"

	"guild-ledger/internal/core/domain"
	"guild-ledger/internal/core/ports"

	"github.com/jackc/pgx/v5"
)

// Transactor implements ports.Transactor on a pgx transaction. Rows read through
// the LedgerTx are locked with FOR UPDATE until commit.
type Transactor struct {
	pool Pool
}

// NewTransactor creates a new Transactor wrapping the connection pool.
func NewTransactor(pool Pool) *Transactor {
	return &Transactor{pool: pool}
}

// WithinTx runs fn in one transaction and commits only when fn returns nil.
func (t *Transactor) WithinTx(ctx context.Context, fn func(ctx context.Context, tx ports.LedgerTx) error) error {
	tx, err := t.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin ledger tx: %w", err)
	}

	done := false
	defer func() {
		if !done {
			_ = tx.Rollback(ctx)
		}
	}()

	if err := fn(ctx, &ledgerTx{tx: tx}); err != nil {
		return err
	}

	done = true
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit ledger tx: %w", err)
	}
	return nil
}

type ledgerTx struct {
	tx pgx.Tx
}

func (l *ledgerTx) MarkRolledBack(ctx context.Context, correlationID, actorID string, at time.Time) (bool, error) {
	tag, err := l.tx.Exec(ctx,
		`INSERT INTO rollback_markers (correlation_id, actor_id, created_at) VALUES ($1, $2, $3)
		ON CONFLICT (correlation_id) DO NOTHING`,
		correlationID, actorID, at,
	)
	if err != nil {
		return false, fmt.Errorf("insert rollback marker: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

func (l *ledgerTx) GetBalance(ctx context.Context, userID, currencyID string) (*domain.Balance, error) {
	return getBalance(ctx, l.tx, userID, currencyID, true)
}

func (l *ledgerTx) PutBalance(ctx context.Context, userID string, b domain.Balance) error {
	parts, err := encodeParts(b.Parts)
	if err != nil {
		return err
	}

	query := `INSERT INTO currency_balances (user_id, currency_id, kind, amount, parts, version)
		VALUES ($1, $2, $3, $4, $5, 1)
		ON CONFLICT (user_id, currency_id) DO UPDATE SET
			kind = EXCLUDED.kind, amount = EXCLUDED.amount, parts = EXCLUDED.parts,
			version = currency_balances.version + 1`

	if _, err := l.tx.Exec(ctx, query, userID, b.CurrencyID, string(b.Kind), b.Amount, parts); err != nil {
		return fmt.Errorf("put balance: %w", err)
	}
	return nil
}

func (l *ledgerTx) GetItemQuantity(ctx context.Context, userID, itemID string) (int64, error) {
	return getQuantity(ctx, l.tx, userID, itemID, true)
}

func (l *ledgerTx) PutItemQuantity(ctx context.Context, userID, itemID string, quantity int64) error {
	if quantity < 0 {
		return fmt.Errorf("item %s quantity %d is negative", itemID, quantity)
	}
	query := `INSERT INTO inventory_items (user_id, item_id, quantity) VALUES ($1, $2, $3)
		ON CONFLICT (user_id, item_id) DO UPDATE SET quantity = EXCLUDED.quantity`
	if _, err := l.tx.Exec(ctx, query, userID, itemID, quantity); err != nil {
		return fmt.Errorf("put inventory item: %w", err)
	}
	return nil
}

func (l *ledgerTx) IncrementSector(ctx context.Context, guildID string, sector domain.Sector, delta int64) (int64, bool, error) {
	return incrementSector(ctx, l.tx, guildID, sector, delta)
}

func (l *ledgerTx) IncrementStock(ctx context.Context, guildID, itemID string, delta int64) (bool, error) {
	_, applied, err := incrementStock(ctx, l.tx, guildID, itemID, delta)
	return applied, err
}

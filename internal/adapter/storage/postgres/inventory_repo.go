package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
)

// InventoryRepo implements ports.InventoryRepository.
type InventoryRepo struct {
	pool Pool
}

// NewInventoryRepo creates a new InventoryRepo.
func NewInventoryRepo(pool Pool) *InventoryRepo {
	return &InventoryRepo{pool: pool}
}

// GetQuantity returns 0 for items the user never held.
func (r *InventoryRepo) GetQuantity(ctx context.Context, userID, itemID string) (int64, error) {
	return getQuantity(ctx, r.pool, userID, itemID, false)
}

// Increment adds delta, refusing results below zero.
func (r *InventoryRepo) Increment(ctx context.Context, userID, itemID string, delta int64) (int64, bool, error) {
	ensure := `INSERT INTO inventory_items (user_id, item_id, quantity) VALUES ($1, $2, 0)
		ON CONFLICT (user_id, item_id) DO NOTHING`
	if _, err := r.pool.Exec(ctx, ensure, userID, itemID); err != nil {
		return 0, false, fmt.Errorf("ensure inventory item: %w", err)
	}

	update := `UPDATE inventory_items SET quantity = quantity + $3
		WHERE user_id = $1 AND item_id = $2 AND quantity + $3 >= 0
		RETURNING quantity`

	var after int64
	err := r.pool.QueryRow(ctx, update, userID, itemID, delta).Scan(&after)
	if err == nil {
		return after, true, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) && !isOutOfRange(err) {
		return 0, false, fmt.Errorf("increment inventory item: %w", err)
	}

	current, err := getQuantity(ctx, r.pool, userID, itemID, false)
	if err != nil {
		return 0, false, err
	}
	return current, false, nil
}

func getQuantity(ctx context.Context, q querier, userID, itemID string, forUpdate bool) (int64, error) {
	query := `SELECT quantity FROM inventory_items WHERE user_id = $1 AND item_id = $2`
	if forUpdate {
		query += ` FOR UPDATE`
	}

	var quantity int64
	if err := q.QueryRow(ctx, query, userID, itemID).Scan(&quantity); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, nil
		}
		return 0, fmt.Errorf("get inventory quantity: %w", err)
	}
	return quantity, nil
}

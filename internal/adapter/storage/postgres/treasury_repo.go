package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"guild-ledger/internal/core/domain"

	"github.com/jackc/pgx/v5"
)

// sectorColumns maps each sector to its column. Only these names are ever
// interpolated into SQL.
var sectorColumns = map[domain.Sector]string{
	domain.SectorGlobal: "sector_global",
	domain.SectorWorks:  "sector_works",
	domain.SectorTrade:  "sector_trade",
	domain.SectorTax:    "sector_tax",
}

// TreasuryRepo implements ports.TreasuryRepository over guild_treasuries and guild_stock.
type TreasuryRepo struct {
	pool Pool
}

// NewTreasuryRepo creates a new TreasuryRepo.
func NewTreasuryRepo(pool Pool) *TreasuryRepo {
	return &TreasuryRepo{pool: pool}
}

// Get fetches a treasury with its sector balances.
func (r *TreasuryRepo) Get(ctx context.Context, guildID string) (*domain.GuildTreasury, error) {
	query := `SELECT guild_id, sector_global, sector_works, sector_trade, sector_tax,
			tax_rate, tax_enabled, tax_minimum, tax_destination,
			threshold_warning, threshold_alert, threshold_critical,
			version, created_at, updated_at
		FROM guild_treasuries WHERE guild_id = $1`

	var (
		t                         domain.GuildTreasury
		global, works, trade, tax int64
		destination               string
	)
	err := r.pool.QueryRow(ctx, query, guildID).Scan(
		&t.GuildID, &global, &works, &trade, &tax,
		&t.Tax.Rate, &t.Tax.Enabled, &t.Tax.MinimumTaxableAmount, &destination,
		&t.Thresholds.Warning, &t.Thresholds.Alert, &t.Thresholds.Critical,
		&t.Version, &t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get treasury: %w", err)
	}
	t.Tax.DestinationSector = domain.Sector(destination)
	t.Sectors = map[domain.Sector]int64{
		domain.SectorGlobal: global,
		domain.SectorWorks:  works,
		domain.SectorTrade:  trade,
		domain.SectorTax:    tax,
	}
	return &t, nil
}

// Insert creates the treasury unless one exists.
func (r *TreasuryRepo) Insert(ctx context.Context, t *domain.GuildTreasury) (bool, error) {
	query := `INSERT INTO guild_treasuries (guild_id, sector_global, sector_works, sector_trade, sector_tax,
			tax_rate, tax_enabled, tax_minimum, tax_destination,
			threshold_warning, threshold_alert, threshold_critical,
			version, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		ON CONFLICT (guild_id) DO NOTHING`

	tag, err := r.pool.Exec(ctx, query,
		t.GuildID, t.Balance(domain.SectorGlobal), t.Balance(domain.SectorWorks),
		t.Balance(domain.SectorTrade), t.Balance(domain.SectorTax),
		t.Tax.Rate, t.Tax.Enabled, t.Tax.MinimumTaxableAmount, string(t.Tax.DestinationSector),
		t.Thresholds.Warning, t.Thresholds.Alert, t.Thresholds.Critical,
		t.Version, t.CreatedAt, t.UpdatedAt,
	)
	if err != nil {
		return false, fmt.Errorf("insert treasury: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

// IncrementSector adds delta to one sector unless the result would go below zero.
func (r *TreasuryRepo) IncrementSector(ctx context.Context, guildID string, sector domain.Sector, delta int64) (int64, bool, error) {
	return incrementSector(ctx, r.pool, guildID, sector, delta)
}

// UpdateConfig replaces tax and threshold settings while the version matches.
func (r *TreasuryRepo) UpdateConfig(ctx context.Context, guildID string, tax domain.TaxConfig, thresholds domain.TransferThresholds, expectedVersion int64, now time.Time) (bool, error) {
	query := `UPDATE guild_treasuries SET
			tax_rate = $2, tax_enabled = $3, tax_minimum = $4, tax_destination = $5,
			threshold_warning = $6, threshold_alert = $7, threshold_critical = $8,
			version = version + 1, updated_at = $9
		WHERE guild_id = $1 AND version = $10`

	tag, err := r.pool.Exec(ctx, query,
		guildID, tax.Rate, tax.Enabled, tax.MinimumTaxableAmount, string(tax.DestinationSector),
		thresholds.Warning, thresholds.Alert, thresholds.Critical,
		now, expectedVersion,
	)
	if err != nil {
		return false, fmt.Errorf("update treasury config: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

// GetStock reports found=false when the guild store does not list the item.
func (r *TreasuryRepo) GetStock(ctx context.Context, guildID, itemID string) (int64, bool, error) {
	var stock int64
	err := r.pool.QueryRow(ctx,
		`SELECT stock FROM guild_stock WHERE guild_id = $1 AND item_id = $2`, guildID, itemID,
	).Scan(&stock)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, false, nil
		}
		return 0, false, fmt.Errorf("get stock: %w", err)
	}
	return stock, true, nil
}

// SetStock lists the item at the given stock, -1 meaning unlimited.
func (r *TreasuryRepo) SetStock(ctx context.Context, guildID, itemID string, stock int64) error {
	query := `INSERT INTO guild_stock (guild_id, item_id, stock) VALUES ($1, $2, $3)
		ON CONFLICT (guild_id, item_id) DO UPDATE SET stock = EXCLUDED.stock`
	if _, err := r.pool.Exec(ctx, query, guildID, itemID, stock); err != nil {
		return fmt.Errorf("set stock: %w", err)
	}
	return nil
}

// IncrementStock adjusts a listed, finite stock line.
func (r *TreasuryRepo) IncrementStock(ctx context.Context, guildID, itemID string, delta int64) (int64, bool, error) {
	after, ok, err := incrementStock(ctx, r.pool, guildID, itemID, delta)
	if err != nil || ok {
		return after, ok, err
	}
	current, _, err := r.GetStock(ctx, guildID, itemID)
	return current, false, err
}

func incrementSector(ctx context.Context, q querier, guildID string, sector domain.Sector, delta int64) (int64, bool, error) {
	column, ok := sectorColumns[sector]
	if !ok {
		return 0, false, fmt.Errorf("unknown sector %q", sector)
	}

	update := fmt.Sprintf(`UPDATE guild_treasuries SET %[1]s = %[1]s + $2
		WHERE guild_id = $1 AND %[1]s + $2 >= 0
		RETURNING %[1]s`, column)

	var after int64
	err := q.QueryRow(ctx, update, guildID, delta).Scan(&after)
	if err == nil {
		return after, true, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) && !isOutOfRange(err) {
		return 0, false, fmt.Errorf("increment sector: %w", err)
	}

	var current int64
	err = q.QueryRow(ctx,
		fmt.Sprintf(`SELECT %s FROM guild_treasuries WHERE guild_id = $1`, column), guildID,
	).Scan(&current)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, false, nil
		}
		return 0, false, fmt.Errorf("get sector: %w", err)
	}
	return current, false, nil
}

func incrementStock(ctx context.Context, q querier, guildID, itemID string, delta int64) (int64, bool, error) {
	update := `UPDATE guild_stock SET stock = stock + $3
		WHERE guild_id = $1 AND item_id = $2 AND stock >= 0 AND stock + $3 >= 0
		RETURNING stock`

	var after int64
	err := q.QueryRow(ctx, update, guildID, itemID, delta).Scan(&after)
	if err == nil {
		return after, true, nil
	}
	if errors.Is(err, pgx.ErrNoRows) || isOutOfRange(err) {
		return 0, false, nil
	}
	return 0, false, fmt.Errorf("increment stock: %w", err)
}

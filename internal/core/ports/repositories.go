package ports

import (
	"context"
	"time"

	"guild-ledger/internal/core/domain"
)

//go:generate mockgen -source=repositories.go -destination=mocks/mock_repositories.go -package=mocks

// AccountRepository defines persistence operations for accounts.
// Get returns (nil, nil) when the account does not exist.
type AccountRepository interface {
	Get(ctx context.Context, userID string) (*domain.StoredAccount, error)
	// Insert creates the account only if no record exists. It returns false when a
	// concurrent writer created it first.
	Insert(ctx context.Context, account *domain.Account) (bool, error)
	// UpdateStatus sets status, increments version and updatedAt only while the stored
	// version equals expectedVersion. It returns false on mismatch.
	UpdateStatus(ctx context.Context, userID string, status domain.AccountStatus, expectedVersion int64, now time.Time) (bool, error)
	TouchActivity(ctx context.Context, userID string, at time.Time) error
	// ReplaceIfVersion replaces the whole stored record only while its version still
	// equals expectedVersion; nil matches a missing version. Used by repair only.
	ReplaceIfVersion(ctx context.Context, account *domain.Account, expectedVersion *int64) (bool, error)
}

// BalanceRepository defines persistence operations for currency balances.
// Get returns (nil, nil) when the user never held the currency.
type BalanceRepository interface {
	Get(ctx context.Context, userID, currencyID string) (*domain.Balance, error)
	// IncrementScalar atomically adds delta to a scalar balance, creating it at zero
	// when missing. Unless allowNegative is set the write only happens when the result
	// is non-negative; ok=false reports a failed guard.
	IncrementScalar(ctx context.Context, userID, currencyID string, delta int64, allowNegative bool) (after int64, ok bool, err error)
	// CompareAndSwap stores next with version expectedVersion+1 only while the stored
	// version equals expectedVersion. A missing balance matches expectedVersion 0.
	CompareAndSwap(ctx context.Context, userID string, next domain.Balance, expectedVersion int64) (bool, error)
}

// InventoryRepository defines persistence operations for user item stacks.
type InventoryRepository interface {
	GetQuantity(ctx context.Context, userID, itemID string) (int64, error)
	// Increment atomically adds delta, refusing to go below zero (ok=false).
	Increment(ctx context.Context, userID, itemID string, delta int64) (after int64, ok bool, err error)
}

// TreasuryRepository defines persistence operations for guild treasuries and store stock.
// Get returns (nil, nil) when the treasury does not exist.
type TreasuryRepository interface {
	Get(ctx context.Context, guildID string) (*domain.GuildTreasury, error)
	Insert(ctx context.Context, treasury *domain.GuildTreasury) (bool, error)
	// IncrementSector atomically adds delta to one sector, refusing to go below zero.
	// ok=false is returned for a failed guard or a missing treasury.
	IncrementSector(ctx context.Context, guildID string, sector domain.Sector, delta int64) (after int64, ok bool, err error)
	UpdateConfig(ctx context.Context, guildID string, tax domain.TaxConfig, thresholds domain.TransferThresholds, expectedVersion int64, now time.Time) (bool, error)

	// GetStock returns found=false when the guild store does not list the item.
	GetStock(ctx context.Context, guildID, itemID string) (stock int64, found bool, err error)
	SetStock(ctx context.Context, guildID, itemID string, stock int64) error
	// IncrementStock adds delta only to a listed, finite stock and only while the
	// result stays non-negative.
	IncrementStock(ctx context.Context, guildID, itemID string, delta int64) (after int64, ok bool, err error)
}

// AuditRepository defines persistence for the append-only audit trail.
type AuditRepository interface {
	Create(ctx context.Context, entry *domain.AuditEntry) error
	// Query returns one page of matching entries, newest first, and the total match count.
	Query(ctx context.Context, filter domain.AuditFilter) ([]domain.AuditEntry, int64, error)
	FindByCorrelationID(ctx context.Context, correlationID string) ([]domain.AuditEntry, error)
	// HasRollback reports whether a rollback marker exists for the correlation id.
	HasRollback(ctx context.Context, correlationID string) (bool, error)
}

// RollbackMarkerCache is the Redis-layer rollback check (fast path). The store's
// marker stays authoritative; a cache miss always falls through.
type RollbackMarkerCache interface {
	IsRolledBack(ctx context.Context, correlationID string) (bool, error)
	MarkRolledBack(ctx context.Context, correlationID string, ttl time.Duration) error
}

// Transactor runs fn inside one multi-entity transaction. fn's error aborts every
// write made through tx. Only the rollback engine uses it.
type Transactor interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context, tx LedgerTx) error) error
}

// LedgerTx is the narrow set of writes a rollback may perform atomically.
// Reads lock the row for the remainder of the transaction where the store supports it.
type LedgerTx interface {
	// MarkRolledBack writes the rollback marker. It returns false when the marker
	// already exists.
	MarkRolledBack(ctx context.Context, correlationID, actorID string, at time.Time) (bool, error)
	GetBalance(ctx context.Context, userID, currencyID string) (*domain.Balance, error)
	// PutBalance stores b with its version incremented.
	PutBalance(ctx context.Context, userID string, b domain.Balance) error
	GetItemQuantity(ctx context.Context, userID, itemID string) (int64, error)
	PutItemQuantity(ctx context.Context, userID, itemID string, quantity int64) error
	// IncrementSector behaves like TreasuryRepository.IncrementSector.
	IncrementSector(ctx context.Context, guildID string, sector domain.Sector, delta int64) (after int64, ok bool, err error)
	// IncrementStock applies delta only to a listed, finite stock whose result stays
	// non-negative. applied=false means the line was left untouched.
	IncrementStock(ctx context.Context, guildID, itemID string, delta int64) (applied bool, err error)
}

// Clock supplies the server timestamp for records and audit entries.
type Clock interface {
	Now() time.Time
}

package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"guild-ledger/internal/core/domain"
	"guild-ledger/internal/core/ports"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccountRepository_InsertOnce(t *testing.T) {
	s := NewStore()
	repo := NewAccountRepository(s)
	ctx := context.Background()

	acc := domain.NewAccount("u1", time.Now().UTC())
	ok, err := repo.Insert(ctx, acc)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = repo.Insert(ctx, acc)
	require.NoError(t, err)
	assert.False(t, ok)

	missing, err := repo.Get(ctx, "nobody")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestAccountRepository_UpdateStatusCAS(t *testing.T) {
	s := NewStore()
	repo := NewAccountRepository(s)
	ctx := context.Background()
	_, _ = repo.Insert(ctx, domain.NewAccount("u1", time.Now().UTC()))

	ok, err := repo.UpdateStatus(ctx, "u1", domain.AccountStatusBlocked, 1, time.Now())
	require.NoError(t, err)
	assert.False(t, ok, "stale version")

	ok, err = repo.UpdateStatus(ctx, "u1", domain.AccountStatusBlocked, 0, time.Now())
	require.NoError(t, err)
	assert.True(t, ok)

	stored, _ := repo.Get(ctx, "u1")
	acc, valid := stored.Valid()
	require.True(t, valid)
	assert.Equal(t, domain.AccountStatusBlocked, acc.Status)
	assert.Equal(t, int64(1), acc.Version)
}

func TestAccountRepository_ReplaceIfVersion(t *testing.T) {
	s := NewStore()
	repo := NewAccountRepository(s)
	ctx := context.Background()
	s.SeedAccount(&domain.StoredAccount{UserID: "u1"})

	fixed := domain.NewAccount("u1", time.Now().UTC())
	fixed.Version = 1

	stale := int64(0)
	ok, err := repo.ReplaceIfVersion(ctx, fixed, &stale)
	require.NoError(t, err)
	assert.False(t, ok, "stored version is missing")

	ok, err = repo.ReplaceIfVersion(ctx, fixed, nil)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = repo.ReplaceIfVersion(ctx, fixed, nil)
	require.NoError(t, err)
	assert.False(t, ok, "version moved on")

	ok, err = repo.ReplaceIfVersion(ctx, domain.NewAccount("ghost", time.Now().UTC()), nil)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestBalanceRepository_IncrementScalarGuard(t *testing.T) {
	repo := NewBalanceRepository(NewStore())
	ctx := context.Background()

	after, ok, err := repo.IncrementScalar(ctx, "u1", "gems", 10, false)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, int64(10), after)

	after, ok, err = repo.IncrementScalar(ctx, "u1", "gems", -11, false)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, int64(10), after)

	after, ok, err = repo.IncrementScalar(ctx, "u1", "gems", -11, true)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, int64(-1), after)
}

func TestBalanceRepository_CompareAndSwap(t *testing.T) {
	repo := NewBalanceRepository(NewStore())
	ctx := context.Background()
	next := domain.Balance{CurrencyID: "coins", Kind: domain.CurrencyStructured, Parts: map[string]int64{"hand": 5, "bank": 0}}

	ok, err := repo.CompareAndSwap(ctx, "u1", next, 3)
	require.NoError(t, err)
	assert.False(t, ok, "missing balance only matches version 0")

	ok, err = repo.CompareAndSwap(ctx, "u1", next, 0)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = repo.CompareAndSwap(ctx, "u1", next, 0)
	require.NoError(t, err)
	assert.False(t, ok)

	got, err := repo.Get(ctx, "u1", "coins")
	require.NoError(t, err)
	assert.Equal(t, int64(1), got.Version)
	assert.Equal(t, int64(5), got.Parts["hand"])
}

func TestTreasuryRepository_SectorNeverNegative(t *testing.T) {
	repo := NewTreasuryRepository(NewStore())
	ctx := context.Background()
	_, _ = repo.Insert(ctx, domain.NewGuildTreasury("g1", time.Now()))

	_, ok, err := repo.IncrementSector(ctx, "g1", domain.SectorTrade, 100)
	require.NoError(t, err)
	require.True(t, ok)

	after, ok, err := repo.IncrementSector(ctx, "g1", domain.SectorTrade, -101)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, int64(100), after)

	_, ok, err = repo.IncrementSector(ctx, "g2", domain.SectorTrade, 1)
	require.NoError(t, err)
	assert.False(t, ok, "missing treasury")
}

func TestTreasuryRepository_IncrementStock(t *testing.T) {
	repo := NewTreasuryRepository(NewStore())
	ctx := context.Background()
	require.NoError(t, repo.SetStock(ctx, "g1", "wood", 2))
	require.NoError(t, repo.SetStock(ctx, "g1", "stone", domain.UnlimitedStock))

	after, ok, err := repo.IncrementStock(ctx, "g1", "wood", -2)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, int64(0), after)

	_, ok, _ = repo.IncrementStock(ctx, "g1", "wood", -1)
	assert.False(t, ok)
	_, ok, _ = repo.IncrementStock(ctx, "g1", "stone", -1)
	assert.False(t, ok, "unlimited stock is never decremented")
	_, ok, _ = repo.IncrementStock(ctx, "g1", "iron", 1)
	assert.False(t, ok, "unlisted item")
}

func TestTransactor_RollsBackOnError(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	treasuries := NewTreasuryRepository(s)
	_, _ = treasuries.Insert(ctx, domain.NewGuildTreasury("g1", time.Now()))
	_, _, _ = treasuries.IncrementSector(ctx, "g1", domain.SectorGlobal, 50)
	require.NoError(t, treasuries.SetStock(ctx, "g1", "wood", 5))

	boom := errors.New("boom")
	err := NewTransactor(s).WithinTx(ctx, func(ctx context.Context, tx ports.LedgerTx) error {
		ok, err := tx.MarkRolledBack(ctx, "c1", "mod", time.Now())
		require.NoError(t, err)
		require.True(t, ok)
		require.NoError(t, tx.PutBalance(ctx, "u1", domain.Balance{CurrencyID: "gems", Kind: domain.CurrencyScalar, Amount: 7}))
		require.NoError(t, tx.PutItemQuantity(ctx, "u1", "wood", 3))
		_, ok, err = tx.IncrementSector(ctx, "g1", domain.SectorGlobal, -20)
		require.NoError(t, err)
		require.True(t, ok)
		applied, err := tx.IncrementStock(ctx, "g1", "wood", 1)
		require.NoError(t, err)
		require.True(t, applied)
		return boom
	})
	require.ErrorIs(t, err, boom)

	marked, _ := NewAuditRepository(s).HasRollback(ctx, "c1")
	assert.False(t, marked)
	bal, _ := NewBalanceRepository(s).Get(ctx, "u1", "gems")
	assert.Nil(t, bal)
	qty, _ := NewInventoryRepository(s).GetQuantity(ctx, "u1", "wood")
	assert.Zero(t, qty)
	tr, _ := treasuries.Get(ctx, "g1")
	assert.Equal(t, int64(50), tr.Sectors[domain.SectorGlobal])
	stock, _, _ := treasuries.GetStock(ctx, "g1", "wood")
	assert.Equal(t, int64(5), stock)
}

func TestTransactor_MarkerIsUnique(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	tr := NewTransactor(s)

	require.NoError(t, tr.WithinTx(ctx, func(ctx context.Context, tx ports.LedgerTx) error {
		ok, err := tx.MarkRolledBack(ctx, "c1", "mod", time.Now())
		assert.True(t, ok)
		return err
	}))
	require.NoError(t, tr.WithinTx(ctx, func(ctx context.Context, tx ports.LedgerTx) error {
		ok, err := tx.MarkRolledBack(ctx, "c1", "mod", time.Now())
		assert.False(t, ok)
		return err
	}))

	marked, err := NewAuditRepository(s).HasRollback(ctx, "c1")
	require.NoError(t, err)
	assert.True(t, marked)
}

func TestAuditRepository_QueryOrdersNewestFirst(t *testing.T) {
	repo := NewAuditRepository(NewStore())
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	for i := 0; i < 5; i++ {
		e := &domain.AuditEntry{
			ID:            uuid.New(),
			OperationType: domain.OpCurrencyAdjust,
			TargetID:      "u1",
			GuildID:       "g1",
			Timestamp:     base.Add(time.Duration(i) * time.Minute),
		}
		e.SetMeta(domain.MetaCorrelationID, "c1")
		require.NoError(t, repo.Create(ctx, e))
	}
	require.NoError(t, repo.Create(ctx, &domain.AuditEntry{ID: uuid.New(), TargetID: "u2", Timestamp: base}))

	entries, total, err := repo.Query(ctx, domain.AuditFilter{TargetID: "u1", Page: 1, PageSize: 2})
	require.NoError(t, err)
	assert.Equal(t, int64(5), total)
	require.Len(t, entries, 2)
	assert.Equal(t, base.Add(4*time.Minute), entries[0].Timestamp)
	assert.Equal(t, base.Add(3*time.Minute), entries[1].Timestamp)

	entries, _, err = repo.Query(ctx, domain.AuditFilter{TargetID: "u1", Page: 9, PageSize: 2})
	require.NoError(t, err)
	assert.Empty(t, entries)

	group, err := repo.FindByCorrelationID(ctx, "c1")
	require.NoError(t, err)
	assert.Len(t, group, 5)
}

package service

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"guild-ledger/internal/adapter/storage/memory"
	"guild-ledger/internal/core/domain"
	"guild-ledger/internal/core/ports"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func newTestLogger() zerolog.Logger {
	return zerolog.New(io.Discard)
}

// stepClock advances by one millisecond per call so audit timestamps are ordered.
type stepClock struct {
	mu  sync.Mutex
	now time.Time
}

func newStepClock() *stepClock {
	return &stepClock{now: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *stepClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(time.Millisecond)
	return c.now
}

func ptr[T any](v T) *T { return &v }

func allowAll(context.Context, string, string) bool { return true }

func denyAll(context.Context, string, string) bool { return false }

// ledgerFixture wires every service over one in-memory store.
type ledgerFixture struct {
	store    *memory.Store
	registry *domain.CurrencyRegistry
	audit    *AuditServiceImpl
	accounts *AccountServiceImpl
	currency *CurrencyServiceImpl
	treasury *TreasuryServiceImpl
	items    *ItemServiceImpl
	rollback *RollbackServiceImpl
}

func newLedgerFixture(t *testing.T) *ledgerFixture {
	t.Helper()
	store := memory.NewStore()
	f := newLedgerFixtureWithAudit(t, store, memory.NewAuditRepository(store))
	// Appends run inline after Close, so assertions see them immediately.
	f.audit.Close()
	return f
}

// newLedgerFixtureWithAudit keeps the audit pool running over repo.
func newLedgerFixtureWithAudit(t *testing.T, store *memory.Store, repo ports.AuditRepository) *ledgerFixture {
	t.Helper()

	registry, err := domain.NewCurrencyRegistry(domain.DefaultCurrencies())
	require.NoError(t, err)

	clock := newStepClock()
	log := newTestLogger()

	balances := memory.NewBalanceRepository(store)
	treasuries := memory.NewTreasuryRepository(store)

	audit := NewAuditService(repo, nil, clock, AuditOptions{Workers: 2, QueueSize: 64}, log)
	t.Cleanup(audit.Close)

	accounts := NewAccountService(memory.NewAccountRepository(store), audit, clock, AccountOptions{}, log)
	t.Cleanup(accounts.Close)
	treasury := NewTreasuryService(treasuries, audit, clock, log)

	return &ledgerFixture{
		store:    store,
		registry: registry,
		audit:    audit,
		accounts: accounts,
		currency: NewCurrencyService(registry, balances, treasuries, accounts, audit, 3, log),
		treasury: treasury,
		items: NewItemService(registry, balances, memory.NewInventoryRepository(store), treasuries,
			treasury, accounts, audit, 3, log),
		rollback: NewRollbackService(audit, accounts, treasury, memory.NewTransactor(store), registry, clock, log),
	}
}

// heldAuditRepo holds matching appends until gate closes, or drops them when
// gate is nil. held receives one value per matching append.
type heldAuditRepo struct {
	ports.AuditRepository
	match func(e *domain.AuditEntry) bool
	gate  chan struct{}
	held  chan struct{}
}

func (r *heldAuditRepo) Create(ctx context.Context, e *domain.AuditEntry) error {
	if r.match(e) {
		if r.gate == nil {
			return errors.New("append lost")
		}
		r.held <- struct{}{}
		<-r.gate
	}
	return r.AuditRepository.Create(ctx, e)
}

func incomingLeg(e *domain.AuditEntry) bool {
	return e.MetadataString(domain.MetaDirection) == domain.DirectionIncoming
}

func (f *ledgerFixture) balance(t *testing.T, userID, currencyID string) int64 {
	t.Helper()
	b, err := f.currency.GetBalance(context.Background(), userID, currencyID)
	require.NoError(t, err)
	def, _ := f.registry.Lookup(currencyID)
	return def.Primary(b)
}

func (f *ledgerFixture) sector(t *testing.T, guildID string, sector domain.Sector) int64 {
	t.Helper()
	tr, err := f.treasury.Find(context.Background(), guildID)
	require.NoError(t, err)
	return tr.Balance(sector)
}

func (f *ledgerFixture) inventory(t *testing.T, userID, itemID string) int64 {
	t.Helper()
	q, err := memory.NewInventoryRepository(f.store).GetQuantity(context.Background(), userID, itemID)
	require.NoError(t, err)
	return q
}

func (f *ledgerFixture) grant(t *testing.T, userID, currencyID string, amount int64) string {
	t.Helper()
	res, err := f.currency.AdjustBalance(context.Background(), ports.AdjustRequest{
		ActorID:    "mod",
		TargetID:   userID,
		GuildID:    "g1",
		CurrencyID: currencyID,
		Delta:      amount,
		Reason:     "seed",
		Source:     "test",
	}, allowAll)
	require.NoError(t, err)
	return res.CorrelationID
}

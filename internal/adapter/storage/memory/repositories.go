package memory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"guild-ledger/internal/core/domain"
)

// --- Accounts ---

// AccountRepository implements ports.AccountRepository.
type AccountRepository struct {
	s *Store
}

// NewAccountRepository creates a new AccountRepository.
func NewAccountRepository(s *Store) *AccountRepository {
	return &AccountRepository{s: s}
}

func (r *AccountRepository) Get(ctx context.Context, userID string) (*domain.StoredAccount, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	stored, ok := r.s.accounts[userID]
	if !ok {
		return nil, nil
	}
	return cloneStored(stored), nil
}

func (r *AccountRepository) Insert(ctx context.Context, account *domain.Account) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.accounts[account.UserID]; ok {
		return false, nil
	}
	r.s.accounts[account.UserID] = domain.StoredFromAccount(account)
	return true, nil
}

func (r *AccountRepository) UpdateStatus(ctx context.Context, userID string, status domain.AccountStatus, expectedVersion int64, now time.Time) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	stored, ok := r.s.accounts[userID]
	if !ok || stored.Version == nil || *stored.Version != expectedVersion {
		return false, nil
	}
	s := string(status)
	v := expectedVersion + 1
	stored.Status = &s
	stored.Version = &v
	stored.UpdatedAt = &now
	return true, nil
}

func (r *AccountRepository) TouchActivity(ctx context.Context, userID string, at time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	stored, ok := r.s.accounts[userID]
	if !ok {
		return fmt.Errorf("account %s not found", userID)
	}
	stored.LastActivityAt = &at
	return nil
}

func (r *AccountRepository) ReplaceIfVersion(ctx context.Context, account *domain.Account, expectedVersion *int64) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	stored, ok := r.s.accounts[account.UserID]
	if !ok || !sameVersion(stored.Version, expectedVersion) {
		return false, nil
	}
	r.s.accounts[account.UserID] = domain.StoredFromAccount(account)
	return true, nil
}

func sameVersion(a, b *int64) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

// --- Balances ---

// BalanceRepository implements ports.BalanceRepository.
type BalanceRepository struct {
	s *Store
}

// NewBalanceRepository creates a new BalanceRepository.
func NewBalanceRepository(s *Store) *BalanceRepository {
	return &BalanceRepository{s: s}
}

func (r *BalanceRepository) Get(ctx context.Context, userID, currencyID string) (*domain.Balance, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	b, ok := r.s.balances[pairKey{userID, currencyID}]
	if !ok {
		return nil, nil
	}
	out := cloneBalance(b)
	return &out, nil
}

func (r *BalanceRepository) IncrementScalar(ctx context.Context, userID, currencyID string, delta int64, allowNegative bool) (int64, bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	key := pairKey{userID, currencyID}
	b, ok := r.s.balances[key]
	if !ok {
		b = domain.Balance{CurrencyID: currencyID, Kind: domain.CurrencyScalar}
	}
	after, ok := domain.CheckedAdd(b.Amount, delta)
	if !ok {
		return b.Amount, false, fmt.Errorf("increment %s for %s: %w", currencyID, userID, domain.ErrBalanceOverflow)
	}
	if after < 0 && !allowNegative {
		return b.Amount, false, nil
	}
	b.Amount = after
	b.Version++
	r.s.balances[key] = b
	return after, true, nil
}

func (r *BalanceRepository) CompareAndSwap(ctx context.Context, userID string, next domain.Balance, expectedVersion int64) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	key := pairKey{userID, next.CurrencyID}
	current, ok := r.s.balances[key]
	if ok && current.Version != expectedVersion {
		return false, nil
	}
	if !ok && expectedVersion != 0 {
		return false, nil
	}
	stored := cloneBalance(next)
	stored.Version = expectedVersion + 1
	r.s.balances[key] = stored
	return true, nil
}

// --- Inventory ---

// InventoryRepository implements ports.InventoryRepository.
type InventoryRepository struct {
	s *Store
}

// NewInventoryRepository creates a new InventoryRepository.
func NewInventoryRepository(s *Store) *InventoryRepository {
	return &InventoryRepository{s: s}
}

func (r *InventoryRepository) GetQuantity(ctx context.Context, userID, itemID string) (int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return r.s.items[pairKey{userID, itemID}], nil
}

func (r *InventoryRepository) Increment(ctx context.Context, userID, itemID string, delta int64) (int64, bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	key := pairKey{userID, itemID}
	after, ok := incrementGuarded(r.s.items[key], delta)
	if !ok {
		return r.s.items[key], false, nil
	}
	r.s.items[key] = after
	return after, true, nil
}

// --- Treasuries ---

// TreasuryRepository implements ports.TreasuryRepository.
type TreasuryRepository struct {
	s *Store
}

// NewTreasuryRepository creates a new TreasuryRepository.
func NewTreasuryRepository(s *Store) *TreasuryRepository {
	return &TreasuryRepository{s: s}
}

func (r *TreasuryRepository) Get(ctx context.Context, guildID string) (*domain.GuildTreasury, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	t, ok := r.s.treasuries[guildID]
	if !ok {
		return nil, nil
	}
	return cloneTreasury(t), nil
}

func (r *TreasuryRepository) Insert(ctx context.Context, treasury *domain.GuildTreasury) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.treasuries[treasury.GuildID]; ok {
		return false, nil
	}
	r.s.treasuries[treasury.GuildID] = cloneTreasury(treasury)
	return true, nil
}

func (r *TreasuryRepository) IncrementSector(ctx context.Context, guildID string, sector domain.Sector, delta int64) (int64, bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	t, ok := r.s.treasuries[guildID]
	if !ok {
		return 0, false, nil
	}
	after, ok := incrementGuarded(t.Sectors[sector], delta)
	if !ok {
		return t.Sectors[sector], false, nil
	}
	t.Sectors[sector] = after
	return after, true, nil
}

func (r *TreasuryRepository) UpdateConfig(ctx context.Context, guildID string, tax domain.TaxConfig, thresholds domain.TransferThresholds, expectedVersion int64, now time.Time) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	t, ok := r.s.treasuries[guildID]
	if !ok || t.Version != expectedVersion {
		return false, nil
	}
	t.Tax = tax
	t.Thresholds = thresholds
	t.Version++
	t.UpdatedAt = now
	return true, nil
}

func (r *TreasuryRepository) GetStock(ctx context.Context, guildID, itemID string) (int64, bool, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	v, ok := r.s.stock[pairKey{guildID, itemID}]
	return v, ok, nil
}

func (r *TreasuryRepository) SetStock(ctx context.Context, guildID, itemID string, stock int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.stock[pairKey{guildID, itemID}] = stock
	return nil
}

func (r *TreasuryRepository) IncrementStock(ctx context.Context, guildID, itemID string, delta int64) (int64, bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	key := pairKey{guildID, itemID}
	current, ok := r.s.stock[key]
	if !ok || current < 0 {
		return current, false, nil
	}
	after, ok := incrementGuarded(current, delta)
	if !ok {
		return current, false, nil
	}
	r.s.stock[key] = after
	return after, true, nil
}

func cloneTreasury(t *domain.GuildTreasury) *domain.GuildTreasury {
	out := *t
	out.Sectors = make(map[domain.Sector]int64, len(t.Sectors))
	for k, v := range t.Sectors {
		out.Sectors[k] = v
	}
	return &out
}

// --- Audit ---

// AuditRepository implements ports.AuditRepository.
type AuditRepository struct {
	s *Store
}

// NewAuditRepository creates a new AuditRepository.
func NewAuditRepository(s *Store) *AuditRepository {
	return &AuditRepository{s: s}
}

func (r *AuditRepository) Create(ctx context.Context, entry *domain.AuditEntry) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.audit = append(r.s.audit, cloneEntry(entry))
	return nil
}

func (r *AuditRepository) Query(ctx context.Context, filter domain.AuditFilter) ([]domain.AuditEntry, int64, error) {
	filter = filter.Normalize()

	r.s.mu.RLock()
	matched := make([]domain.AuditEntry, 0)
	for i := range r.s.audit {
		if filter.Matches(&r.s.audit[i]) {
			matched = append(matched, cloneEntry(&r.s.audit[i]))
		}
	}
	r.s.mu.RUnlock()

	// Newest first; later appends win ties.
	for i, j := 0, len(matched)-1; i < j; i, j = i+1, j-1 {
		matched[i], matched[j] = matched[j], matched[i]
	}
	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].Timestamp.After(matched[j].Timestamp)
	})

	total := int64(len(matched))
	start := filter.Offset()
	if start >= len(matched) {
		return []domain.AuditEntry{}, total, nil
	}
	end := start + filter.PageSize
	if end > len(matched) {
		end = len(matched)
	}
	return matched[start:end], total, nil
}

func (r *AuditRepository) FindByCorrelationID(ctx context.Context, correlationID string) ([]domain.AuditEntry, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var out []domain.AuditEntry
	for i := range r.s.audit {
		if r.s.audit[i].CorrelationID() == correlationID {
			out = append(out, cloneEntry(&r.s.audit[i]))
		}
	}
	return out, nil
}

func (r *AuditRepository) HasRollback(ctx context.Context, correlationID string) (bool, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	_, ok := r.s.markers[correlationID]
	return ok, nil
}

func cloneEntry(e *domain.AuditEntry) domain.AuditEntry {
	out := *e
	if e.CurrencyData != nil {
		cd := *e.CurrencyData
		out.CurrencyData = &cd
	}
	if e.ItemData != nil {
		id := *e.ItemData
		out.ItemData = &id
	}
	if e.Metadata != nil {
		out.Metadata = make(map[string]any, len(e.Metadata))
		for k, v := range e.Metadata {
			out.Metadata[k] = v
		}
	}
	return out
}

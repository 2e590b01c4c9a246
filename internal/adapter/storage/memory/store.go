// Package memory is an in-process ledger store. Every repository shares one lock,
// so a transaction holding it is serializable with every other write.
package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"guild-ledger/internal/core/domain"
	"guild-ledger/internal/core/ports"
)

type pairKey struct {
	owner string
	id    string
}

type marker struct {
	actorID string
	at      time.Time
}

// Store holds every ledger collection in memory.
type Store struct {
	mu         sync.RWMutex
	accounts   map[string]*domain.StoredAccount
	balances   map[pairKey]domain.Balance
	items      map[pairKey]int64
	treasuries map[string]*domain.GuildTreasury
	stock      map[pairKey]int64
	audit      []domain.AuditEntry
	markers    map[string]marker
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{
		accounts:   make(map[string]*domain.StoredAccount),
		balances:   make(map[pairKey]domain.Balance),
		items:      make(map[pairKey]int64),
		treasuries: make(map[string]*domain.GuildTreasury),
		stock:      make(map[pairKey]int64),
		markers:    make(map[string]marker),
	}
}

// SeedAccount stores a raw, possibly invalid record. Used to simulate corrupted data.
func (s *Store) SeedAccount(stored *domain.StoredAccount) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.accounts[stored.UserID] = cloneStored(stored)
}

// Ping implements ports.HealthChecker.
func (s *Store) Ping(ctx context.Context) error {
	return ctx.Err()
}

// Name implements ports.HealthChecker.
func (s *Store) Name() string {
	return "memory"
}

// Transactor implements ports.Transactor by holding the store lock for the whole
// callback and undoing its writes when the callback fails. The callback must only
// write through the LedgerTx it receives.
type Transactor struct {
	s *Store
}

// NewTransactor creates a new Transactor over s.
func NewTransactor(s *Store) *Transactor {
	return &Transactor{s: s}
}

func (t *Transactor) WithinTx(ctx context.Context, fn func(ctx context.Context, tx ports.LedgerTx) error) error {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()

	tx := &ledgerTx{s: t.s}
	if err := fn(ctx, tx); err != nil {
		tx.rollback()
		return err
	}
	return nil
}

type ledgerTx struct {
	s    *Store
	undo []func()
}

func (tx *ledgerTx) rollback() {
	for i := len(tx.undo) - 1; i >= 0; i-- {
		tx.undo[i]()
	}
	tx.undo = nil
}

func (tx *ledgerTx) MarkRolledBack(ctx context.Context, correlationID, actorID string, at time.Time) (bool, error) {
	if _, ok := tx.s.markers[correlationID]; ok {
		return false, nil
	}
	tx.s.markers[correlationID] = marker{actorID: actorID, at: at}
	tx.undo = append(tx.undo, func() { delete(tx.s.markers, correlationID) })
	return true, nil
}

func (tx *ledgerTx) GetBalance(ctx context.Context, userID, currencyID string) (*domain.Balance, error) {
	b, ok := tx.s.balances[pairKey{userID, currencyID}]
	if !ok {
		return nil, nil
	}
	out := cloneBalance(b)
	return &out, nil
}

func (tx *ledgerTx) PutBalance(ctx context.Context, userID string, b domain.Balance) error {
	key := pairKey{userID, b.CurrencyID}
	prev, existed := tx.s.balances[key]
	next := cloneBalance(b)
	next.Version = prev.Version + 1
	tx.s.balances[key] = next
	tx.undo = append(tx.undo, func() {
		if existed {
			tx.s.balances[key] = prev
		} else {
			delete(tx.s.balances, key)
		}
	})
	return nil
}

func (tx *ledgerTx) GetItemQuantity(ctx context.Context, userID, itemID string) (int64, error) {
	return tx.s.items[pairKey{userID, itemID}], nil
}

func (tx *ledgerTx) PutItemQuantity(ctx context.Context, userID, itemID string, quantity int64) error {
	if quantity < 0 {
		return fmt.Errorf("item %s quantity %d is negative", itemID, quantity)
	}
	key := pairKey{userID, itemID}
	prev, existed := tx.s.items[key]
	tx.s.items[key] = quantity
	tx.undo = append(tx.undo, func() {
		if existed {
			tx.s.items[key] = prev
		} else {
			delete(tx.s.items, key)
		}
	})
	return nil
}

func (tx *ledgerTx) IncrementSector(ctx context.Context, guildID string, sector domain.Sector, delta int64) (int64, bool, error) {
	t, ok := tx.s.treasuries[guildID]
	if !ok {
		return 0, false, nil
	}
	prev := t.Sectors[sector]
	after, ok := incrementGuarded(prev, delta)
	if !ok {
		return prev, false, nil
	}
	t.Sectors[sector] = after
	tx.undo = append(tx.undo, func() { t.Sectors[sector] = prev })
	return after, true, nil
}

func (tx *ledgerTx) IncrementStock(ctx context.Context, guildID, itemID string, delta int64) (bool, error) {
	key := pairKey{guildID, itemID}
	prev, ok := tx.s.stock[key]
	if !ok || prev < 0 {
		return false, nil
	}
	after, ok := incrementGuarded(prev, delta)
	if !ok {
		return false, nil
	}
	tx.s.stock[key] = after
	tx.undo = append(tx.undo, func() { tx.s.stock[key] = prev })
	return true, nil
}

// incrementGuarded adds delta and reports false when the result would be negative
// or overflow.
func incrementGuarded(current, delta int64) (int64, bool) {
	after, ok := domain.CheckedAdd(current, delta)
	if !ok || after < 0 {
		return current, false
	}
	return after, true
}

func cloneBalance(b domain.Balance) domain.Balance {
	out := b
	if b.Parts != nil {
		out.Parts = make(map[string]int64, len(b.Parts))
		for k, v := range b.Parts {
			out.Parts[k] = v
		}
	}
	return out
}

func cloneStored(s *domain.StoredAccount) *domain.StoredAccount {
	out := &domain.StoredAccount{UserID: s.UserID}
	if s.Status != nil {
		v := *s.Status
		out.Status = &v
	}
	if s.CreatedAt != nil {
		v := *s.CreatedAt
		out.CreatedAt = &v
	}
	if s.UpdatedAt != nil {
		v := *s.UpdatedAt
		out.UpdatedAt = &v
	}
	if s.LastActivityAt != nil {
		v := *s.LastActivityAt
		out.LastActivityAt = &v
	}
	if s.Version != nil {
		v := *s.Version
		out.Version = &v
	}
	return out
}

package domain

import (
	"errors"
	"fmt"
	"sort"
)

// ErrRollbackOfRollback is returned when a correlation group contains a rollback
// record. Reverting a rollback is not supported.
var ErrRollbackOfRollback = errors.New("rollback records cannot be rolled back")

// ErrIncompleteTransfer is returned when a correlation group holds one leg of a
// transfer without the other, as when the trail has not caught up yet.
var ErrIncompleteTransfer = errors.New("transfer legs are incomplete")

// CheckTransferLegs verifies that every currency or sector transfer in the group is
// recorded with both legs. A lone outgoing leg is accepted only when it is marked
// compensated=false, which is how a failed credit without a successful refund is
// recorded.
func CheckTransferLegs(entries []AuditEntry) error {
	type legs struct{ out, in, lone int }
	counts := make(map[OperationType]*legs)
	for i := range entries {
		e := &entries[i]
		if e.OperationType != OpCurrencyTransfer && e.OperationType != OpSectorTransfer {
			continue
		}
		c := counts[e.OperationType]
		if c == nil {
			c = &legs{}
			counts[e.OperationType] = c
		}
		switch e.MetadataString(MetaDirection) {
		case DirectionOutgoing:
			if compensated, ok := e.MetadataBool(MetaCompensated); ok && !compensated {
				c.lone++
			} else {
				c.out++
			}
		case DirectionIncoming:
			c.in++
		default:
			return fmt.Errorf("entry %s: %w: missing direction", e.ID, ErrIncompleteTransfer)
		}
	}
	for op, c := range counts {
		if c.out != c.in {
			return fmt.Errorf("%s: %d outgoing, %d incoming: %w", op, c.out, c.in, ErrIncompleteTransfer)
		}
	}
	return nil
}

// RollbackPlan holds the summed inverse deltas of one correlation group, keyed by
// the entity each delta applies to. Summation makes the plan independent of the
// order in which entries were written or read.
type RollbackPlan struct {
	CorrelationID string
	EntryCount    int
	GuildIDs      []string

	Currency map[string]map[string]int64 // user → currency → delta
	Items    map[string]map[string]int64 // user → item → delta
	Sectors  map[string]map[Sector]int64 // guild → sector → delta
	Stock    map[string]map[string]int64 // guild → item → delta
}

// Users returns every user with a currency or item delta, sorted.
func (p *RollbackPlan) Users() []string {
	return sortedUnion(keys(p.Currency), keys(p.Items))
}

// Guilds returns every guild with a sector or stock delta, sorted.
func (p *RollbackPlan) Guilds() []string {
	sectorGuilds := make([]string, 0, len(p.Sectors))
	for g := range p.Sectors {
		sectorGuilds = append(sectorGuilds, g)
	}
	return sortedUnion(sectorGuilds, keys(p.Stock))
}

// IsEmpty reports whether applying the plan would change nothing.
func (p *RollbackPlan) IsEmpty() bool {
	return len(p.Currency) == 0 && len(p.Items) == 0 && len(p.Sectors) == 0 && len(p.Stock) == 0
}

// RollbackSummary is recorded in the rollback audit entry.
type RollbackSummary struct {
	CorrelationID     string   `json:"correlation_id"`
	EntryCount        int      `json:"entry_count"`
	UsersTouched      []string `json:"users_touched"`
	CurrencyLines     int      `json:"currency_lines"`
	ItemLines         int      `json:"item_lines"`
	SectorsTouched    int      `json:"sectors_touched"`
	StockLinesTouched int      `json:"stock_lines_touched"`
	StockLinesSkipped int      `json:"stock_lines_skipped"`
}

// Summary counts the lines the plan touches.
func (p *RollbackPlan) Summary() RollbackSummary {
	s := RollbackSummary{
		CorrelationID: p.CorrelationID,
		EntryCount:    p.EntryCount,
		UsersTouched:  p.Users(),
	}
	for _, m := range p.Currency {
		s.CurrencyLines += len(m)
	}
	for _, m := range p.Items {
		s.ItemLines += len(m)
	}
	for _, m := range p.Sectors {
		s.SectorsTouched += len(m)
	}
	for _, m := range p.Stock {
		s.StockLinesTouched += len(m)
	}
	return s
}

// AggregateInverse computes the inverse deltas of a correlation group.
//
// Currency: the recorded delta is negated per user and currency. Transfer legs use
// the direction metadata: the outgoing leg credits the sender (actor) and the
// incoming leg debits the recipient (target) by the recorded magnitude.
//
// Items: purchases are removed, sales restored; grants and removals use the
// recorded itemDelta, then the before/after snapshot, before falling back to the
// raw quantity.
//
// Sectors: the recorded sectorDelta, else the before/after snapshot, else the
// entry's currency delta.
//
// Stock: the recorded stockDelta is negated; whether it is applied is decided when
// the current stock is known.
func AggregateInverse(correlationID string, entries []AuditEntry) (*RollbackPlan, error) {
	p := &RollbackPlan{
		CorrelationID: correlationID,
		EntryCount:    len(entries),
		Currency:      make(map[string]map[string]int64),
		Items:         make(map[string]map[string]int64),
		Sectors:       make(map[string]map[Sector]int64),
		Stock:         make(map[string]map[string]int64),
	}
	guilds := make(map[string]struct{})

	for i := range entries {
		e := &entries[i]
		if e.OperationType == OpRollback {
			return nil, ErrRollbackOfRollback
		}
		if e.GuildID != "" {
			guilds[e.GuildID] = struct{}{}
		}

		if e.CurrencyData != nil && !e.OperationType.IsSectorOperation() {
			user, delta := currencyInverse(e)
			if user == "" {
				return nil, fmt.Errorf("entry %s: currency movement without a subject user", e.ID)
			}
			if err := addNested(p.Currency, user, e.CurrencyData.CurrencyID, delta); err != nil {
				return nil, fmt.Errorf("entry %s: %w", e.ID, err)
			}
		}

		if e.ItemData != nil {
			if delta, ok := itemInverse(e); ok {
				if e.TargetID == "" {
					return nil, fmt.Errorf("entry %s: item movement without a target user", e.ID)
				}
				if err := addNested(p.Items, e.TargetID, e.ItemData.ItemID, delta); err != nil {
					return nil, fmt.Errorf("entry %s: %w", e.ID, err)
				}
			}
		}

		if name := e.MetadataString(MetaSector); name != "" {
			sector := Sector(name)
			if !sector.Valid() {
				return nil, fmt.Errorf("entry %s: unknown sector %q", e.ID, name)
			}
			if delta, ok := sectorDelta(e); ok {
				if err := addNested(p.Sectors, e.GuildID, sector, -delta); err != nil {
					return nil, fmt.Errorf("entry %s: %w", e.ID, err)
				}
			}
		}

		if delta, ok := e.MetadataInt(MetaStockDelta); ok && delta != 0 {
			itemID := e.MetadataString("itemId")
			if e.ItemData != nil {
				itemID = e.ItemData.ItemID
			}
			if itemID == "" {
				return nil, fmt.Errorf("entry %s: stock movement without an item", e.ID)
			}
			if err := addNested(p.Stock, e.GuildID, itemID, -delta); err != nil {
				return nil, fmt.Errorf("entry %s: %w", e.ID, err)
			}
		}
	}

	pruneZero(p.Currency)
	pruneZero(p.Items)
	pruneZero(p.Sectors)
	pruneZero(p.Stock)

	p.GuildIDs = make([]string, 0, len(guilds))
	for g := range guilds {
		p.GuildIDs = append(p.GuildIDs, g)
	}
	sort.Strings(p.GuildIDs)
	return p, nil
}

func currencyInverse(e *AuditEntry) (string, int64) {
	delta := e.CurrencyData.Delta
	switch e.MetadataString(MetaDirection) {
	case DirectionOutgoing:
		return e.ActorID, abs(delta)
	case DirectionIncoming:
		return e.TargetID, -abs(delta)
	}
	return e.TargetID, -delta
}

func itemInverse(e *AuditEntry) (int64, bool) {
	d := e.ItemData
	switch e.OperationType {
	case OpItemPurchase:
		return -abs(d.Quantity), true
	case OpItemSale:
		return abs(d.Quantity), true
	case OpItemGrant, OpItemRemove:
		if delta, ok := e.MetadataInt(MetaItemDelta); ok {
			return -delta, true
		}
		if d.After != d.Before {
			return -(d.After - d.Before), true
		}
		if e.OperationType == OpItemGrant {
			return -abs(d.Quantity), true
		}
		return abs(d.Quantity), true
	}
	if delta, ok := e.MetadataInt(MetaItemDelta); ok {
		return -delta, true
	}
	return 0, false
}

func sectorDelta(e *AuditEntry) (int64, bool) {
	if delta, ok := e.MetadataInt(MetaSectorDelta); ok {
		return delta, true
	}
	before, okBefore := e.MetadataInt(MetaSectorBefore)
	after, okAfter := e.MetadataInt(MetaSectorAfter)
	if okBefore && okAfter {
		return after - before, true
	}
	if e.CurrencyData != nil {
		if e.OperationType.IsSectorOperation() && e.CurrencyData.After != e.CurrencyData.Before {
			return e.CurrencyData.After - e.CurrencyData.Before, true
		}
		return e.CurrencyData.Delta, true
	}
	return 0, false
}

func addNested[K comparable](m map[string]map[K]int64, outer string, inner K, delta int64) error {
	if m[outer] == nil {
		m[outer] = make(map[K]int64)
	}
	v, ok := CheckedAdd(m[outer][inner], delta)
	if !ok {
		return ErrBalanceOverflow
	}
	m[outer][inner] = v
	return nil
}

func pruneZero[K comparable](m map[string]map[K]int64) {
	for outer, inner := range m {
		for k, v := range inner {
			if v == 0 {
				delete(inner, k)
			}
		}
		if len(inner) == 0 {
			delete(m, outer)
		}
	}
}

func keys(m map[string]map[string]int64) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}

func sortedUnion(a, b []string) []string {
	seen := make(map[string]struct{}, len(a)+len(b))
	out := make([]string, 0, len(a)+len(b))
	for _, list := range [][]string{a, b} {
		for _, s := range list {
			if _, ok := seen[s]; ok {
				continue
			}
			seen[s] = struct{}{}
			out = append(out, s)
		}
	}
	sort.Strings(out)
	return out
}

func abs(v int64) int64 {
	if v < 0 {
		return -v
	}
	return v
}

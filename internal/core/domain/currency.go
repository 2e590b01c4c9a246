package domain

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"sort"
)

var (
	// ErrNegativeBalance is returned when a delta would leave a balance (or one of
	// its parts) below zero for a currency that does not permit debt.
	ErrNegativeBalance = errors.New("balance would become negative")
	// ErrBalanceOverflow is returned when a delta would overflow int64.
	ErrBalanceOverflow = errors.New("balance overflow")
)

// identifierPattern guards every id that ends up inside a store key or a document
// field path: lowercase letters, digits and underscore only.
var identifierPattern = regexp.MustCompile(`^[a-z0-9_]{1,32}$`)

// ValidIdentifier reports whether id is safe to use as a currency or item id.
func ValidIdentifier(id string) bool {
	return identifierPattern.MatchString(id)
}

// CurrencyKind is the tag of the Balance union.
type CurrencyKind string

const (
	// CurrencyScalar balances are a single integer, safe for atomic increments.
	CurrencyScalar CurrencyKind = "scalar"
	// CurrencyStructured balances are split into named parts (e.g. hand/bank) and
	// are mutated by versioned read-modify-write.
	CurrencyStructured CurrencyKind = "structured"
)

// CurrencyDefinition describes how deltas are applied to one currency.
type CurrencyDefinition struct {
	ID          string       `json:"id"`
	Kind        CurrencyKind `json:"kind"`
	Parts       []string     `json:"parts,omitempty"`
	PrimaryPart string       `json:"primary_part,omitempty"` // part that absorbs deltas
	AllowDebt   bool         `json:"allow_debt"`
}

// Balance is a user's holding of one currency. Exactly one of Amount (scalar) or
// Parts (structured) is meaningful, selected by Kind.
type Balance struct {
	CurrencyID string           `json:"currency_id"`
	Kind       CurrencyKind     `json:"kind"`
	Amount     int64            `json:"amount"`
	Parts      map[string]int64 `json:"parts,omitempty"`
	Version    int64            `json:"version"`
}

// Total returns the spendable value of the balance across all parts.
func (b *Balance) Total() int64 {
	if b.Kind == CurrencyStructured {
		var sum int64
		for _, v := range b.Parts {
			sum += v
		}
		return sum
	}
	return b.Amount
}

// Primary returns the value the currency's deltas act on.
func (d CurrencyDefinition) Primary(b *Balance) int64 {
	if d.Kind == CurrencyStructured {
		return b.Parts[d.PrimaryPart]
	}
	return b.Amount
}

// Validate checks the definition itself.
func (d CurrencyDefinition) Validate() error {
	if !ValidIdentifier(d.ID) {
		return fmt.Errorf("currency id %q is not a valid identifier", d.ID)
	}
	switch d.Kind {
	case CurrencyScalar:
		if len(d.Parts) > 0 {
			return fmt.Errorf("scalar currency %s cannot declare parts", d.ID)
		}
	case CurrencyStructured:
		if len(d.Parts) == 0 {
			return fmt.Errorf("structured currency %s needs at least one part", d.ID)
		}
		found := false
		for _, p := range d.Parts {
			if !ValidIdentifier(p) {
				return fmt.Errorf("currency %s part %q is not a valid identifier", d.ID, p)
			}
			if p == d.PrimaryPart {
				found = true
			}
		}
		if !found {
			return fmt.Errorf("currency %s primary part %q is not declared", d.ID, d.PrimaryPart)
		}
	default:
		return fmt.Errorf("currency %s has unknown kind %q", d.ID, d.Kind)
	}
	return nil
}

// Zero returns an empty balance of this currency.
func (d CurrencyDefinition) Zero() Balance {
	b := Balance{CurrencyID: d.ID, Kind: d.Kind}
	if d.Kind == CurrencyStructured {
		b.Parts = make(map[string]int64, len(d.Parts))
		for _, p := range d.Parts {
			b.Parts[p] = 0
		}
	}
	return b
}

// Normalize fills parts the stored balance is missing with zero and drops parts the
// definition does not declare. It returns the names of parts that were defaulted.
func (d CurrencyDefinition) Normalize(b Balance) (Balance, []string) {
	out := Balance{CurrencyID: d.ID, Kind: d.Kind, Amount: b.Amount, Version: b.Version}
	if d.Kind != CurrencyStructured {
		return out, nil
	}
	var defaulted []string
	out.Amount = 0
	out.Parts = make(map[string]int64, len(d.Parts))
	for _, p := range d.Parts {
		v, ok := b.Parts[p]
		if !ok {
			defaulted = append(defaulted, p)
		}
		out.Parts[p] = v
	}
	return out, defaulted
}

// Apply returns b with delta added to the primary value. The input is not modified.
// The result is validated against the currency's debt rule.
func (d CurrencyDefinition) Apply(b Balance, delta int64) (Balance, error) {
	next := b.clone()
	if d.Kind == CurrencyStructured {
		if next.Parts == nil {
			next.Parts = make(map[string]int64, len(d.Parts))
		}
		v, ok := CheckedAdd(next.Parts[d.PrimaryPart], delta)
		if !ok {
			return b, ErrBalanceOverflow
		}
		next.Parts[d.PrimaryPart] = v
	} else {
		v, ok := CheckedAdd(next.Amount, delta)
		if !ok {
			return b, ErrBalanceOverflow
		}
		next.Amount = v
	}
	if err := d.Check(next); err != nil {
		return b, err
	}
	return next, nil
}

// Check validates the resulting invariants of a balance before commit.
func (d CurrencyDefinition) Check(b Balance) error {
	if d.AllowDebt {
		return nil
	}
	if d.Kind == CurrencyStructured {
		for _, v := range b.Parts {
			if v < 0 {
				return ErrNegativeBalance
			}
		}
		return nil
	}
	if b.Amount < 0 {
		return ErrNegativeBalance
	}
	return nil
}

func (b Balance) clone() Balance {
	out := b
	if b.Parts != nil {
		out.Parts = make(map[string]int64, len(b.Parts))
		for k, v := range b.Parts {
			out.Parts[k] = v
		}
	}
	return out
}

// CheckedAdd adds two int64 values and reports whether the sum did not overflow.
func CheckedAdd(a, b int64) (int64, bool) {
	if (b > 0 && a > math.MaxInt64-b) || (b < 0 && a < math.MinInt64-b) {
		return 0, false
	}
	return a + b, true
}

// CurrencyRegistry resolves currency ids to their definitions.
type CurrencyRegistry struct {
	defs map[string]CurrencyDefinition
}

// NewCurrencyRegistry validates and indexes the given definitions.
func NewCurrencyRegistry(defs []CurrencyDefinition) (*CurrencyRegistry, error) {
	r := &CurrencyRegistry{defs: make(map[string]CurrencyDefinition, len(defs))}
	for _, d := range defs {
		if err := d.Validate(); err != nil {
			return nil, err
		}
		if _, dup := r.defs[d.ID]; dup {
			return nil, fmt.Errorf("currency %s registered twice", d.ID)
		}
		r.defs[d.ID] = d
	}
	return r, nil
}

// Lookup returns the definition for id.
func (r *CurrencyRegistry) Lookup(id string) (CurrencyDefinition, bool) {
	d, ok := r.defs[id]
	return d, ok
}

// IDs returns the registered currency ids in lexical order.
func (r *CurrencyRegistry) IDs() []string {
	ids := make([]string, 0, len(r.defs))
	for id := range r.defs {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// DefaultCurrencies is the built-in currency set used when none is configured.
func DefaultCurrencies() []CurrencyDefinition {
	return []CurrencyDefinition{
		{ID: "coins", Kind: CurrencyStructured, Parts: []string{"hand", "bank"}, PrimaryPart: "hand"},
		{ID: "gems", Kind: CurrencyScalar},
		{ID: "tokens", Kind: CurrencyScalar},
		{ID: "event_points", Kind: CurrencyScalar},
	}
}

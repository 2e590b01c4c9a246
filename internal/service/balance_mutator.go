package service

import (
	"context"
	"errors"
	"fmt"

	"guild-ledger/internal/core/domain"
	"guild-ledger/internal/core/ports"
	"guild-ledger/pkg/apperror"

	"github.com/rs/zerolog"
)

// balanceChange describes one committed balance mutation. Before and After are the
// primary value the delta acted on.
type balanceChange struct {
	Before  int64
	After   int64
	Balance domain.Balance
}

// balanceMutator applies deltas to single user balances. Scalar currencies use one
// conditional atomic increment; structured ones use a bounded compare-and-swap loop.
type balanceMutator struct {
	registry   *domain.CurrencyRegistry
	balances   ports.BalanceRepository
	retryLimit int
	log        zerolog.Logger
}

func newBalanceMutator(registry *domain.CurrencyRegistry, balances ports.BalanceRepository, retryLimit int, log zerolog.Logger) *balanceMutator {
	if retryLimit < 1 {
		retryLimit = 1
	}
	return &balanceMutator{registry: registry, balances: balances, retryLimit: retryLimit, log: log}
}

// normalizeBalance brings a stored balance to the definition's shape. Parts that
// had to be defaulted are logged, since they point at a damaged record.
func normalizeBalance(log zerolog.Logger, def domain.CurrencyDefinition, userID string, current *domain.Balance) domain.Balance {
	if current == nil {
		return def.Zero()
	}
	b, defaulted := def.Normalize(*current)
	if len(defaulted) > 0 {
		log.Warn().
			Str("user_id", userID).
			Str("currency_id", def.ID).
			Strs("defaulted_parts", defaulted).
			Msg("balance normalized")
	}
	return b
}

// resolve validates the id shape before consulting the registry so that no
// unchecked id ever reaches a store key.
func (m *balanceMutator) resolve(currencyID string) (domain.CurrencyDefinition, error) {
	if !domain.ValidIdentifier(currencyID) {
		return domain.CurrencyDefinition{}, apperror.ErrInvalidCurrency(currencyID)
	}
	def, ok := m.registry.Lookup(currencyID)
	if !ok {
		return domain.CurrencyDefinition{}, apperror.ErrUnknownCurrency(currencyID)
	}
	return def, nil
}

func (m *balanceMutator) apply(ctx context.Context, def domain.CurrencyDefinition, userID string, delta int64) (*balanceChange, error) {
	if def.Kind == domain.CurrencyScalar {
		return m.applyScalar(ctx, def, userID, delta)
	}
	return m.applyStructured(ctx, def, userID, delta)
}

func (m *balanceMutator) applyScalar(ctx context.Context, def domain.CurrencyDefinition, userID string, delta int64) (*balanceChange, error) {
	after, ok, err := m.balances.IncrementScalar(ctx, userID, def.ID, delta, def.AllowDebt)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("increment %s: %w", def.ID, err))
	}
	if !ok {
		return nil, apperror.ErrInsufficientFunds()
	}
	return &balanceChange{
		Before:  after - delta,
		After:   after,
		Balance: domain.Balance{CurrencyID: def.ID, Kind: def.Kind, Amount: after},
	}, nil
}

func (m *balanceMutator) applyStructured(ctx context.Context, def domain.CurrencyDefinition, userID string, delta int64) (*balanceChange, error) {
	for attempt := 0; attempt < m.retryLimit; attempt++ {
		current, err := m.balances.Get(ctx, userID, def.ID)
		if err != nil {
			return nil, apperror.InternalError(fmt.Errorf("get %s balance: %w", def.ID, err))
		}
		base := normalizeBalance(m.log, def, userID, current)

		next, err := def.Apply(base, delta)
		if err != nil {
			return nil, mapBalanceError(err)
		}

		swapped, err := m.balances.CompareAndSwap(ctx, userID, next, base.Version)
		if err != nil {
			return nil, apperror.InternalError(fmt.Errorf("swap %s balance: %w", def.ID, err))
		}
		if swapped {
			next.Version = base.Version + 1
			return &balanceChange{
				Before:  def.Primary(&base),
				After:   def.Primary(&next),
				Balance: next,
			}, nil
		}
	}
	return nil, apperror.ErrBalanceConflict(def.ID)
}

// read returns the user's balance, zero-valued when never held.
func (m *balanceMutator) read(ctx context.Context, def domain.CurrencyDefinition, userID string) (*domain.Balance, error) {
	current, err := m.balances.Get(ctx, userID, def.ID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("get %s balance: %w", def.ID, err))
	}
	b := normalizeBalance(m.log, def, userID, current)
	return &b, nil
}

// mapBalanceError turns domain arithmetic failures into ledger errors.
func mapBalanceError(err error) error {
	switch {
	case errors.Is(err, domain.ErrNegativeBalance):
		return apperror.ErrInsufficientFunds()
	case errors.Is(err, domain.ErrBalanceOverflow):
		return apperror.Validation("resulting balance is out of range")
	}
	return apperror.InternalError(err)
}

// compensator runs best-effort reverse writes after a partial failure. These are
// not atomic with the original writes; a failed step is logged for reconciliation.
type compensator struct {
	steps []compensation
	log   zerolog.Logger
}

type compensation struct {
	name string
	fn   func(ctx context.Context) error
}

func (c *compensator) push(name string, fn func(ctx context.Context) error) {
	c.steps = append(c.steps, compensation{name: name, fn: fn})
}

// run executes the steps in reverse and reports whether every step succeeded.
func (c *compensator) run(ctx context.Context, correlationID string, cause error) bool {
	ctx = context.WithoutCancel(ctx)
	clean := true
	for i := len(c.steps) - 1; i >= 0; i-- {
		step := c.steps[i]
		if err := step.fn(ctx); err != nil {
			clean = false
			c.log.Error().Err(err).
				AnErr("cause", cause).
				Str("correlation_id", correlationID).
				Str("step", step.name).
				Msg("compensation failed, ledger needs manual reconciliation")
			continue
		}
		c.log.Warn().
			AnErr("cause", cause).
			Str("correlation_id", correlationID).
			Str("step", step.name).
			Msg("compensated partial write")
	}
	c.steps = nil
	return clean
}

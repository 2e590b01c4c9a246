// Package app wires configuration, storage backends and ledger services into
// one Ledger handle for hosts and the ledgerctl command.
package app

import (
	"context"
	"errors"
	"fmt"

	"guild-ledger/config"
	"guild-ledger/internal/adapter/storage/redis"
	"guild-ledger/internal/core/domain"
	"guild-ledger/internal/core/ports"
	"guild-ledger/internal/service"
	"guild-ledger/pkg/logger"
	"guild-ledger/pkg/telemetry"

	"github.com/rs/zerolog"
)

// Ledger exposes the ledger services over one configured backend.
type Ledger struct {
	Registry *domain.CurrencyRegistry
	Accounts ports.AccountService
	Currency ports.CurrencyService
	Treasury ports.TreasuryService
	Items    ports.ItemService
	Audit    ports.AuditService
	Rollback ports.RollbackService
	Health   []ports.HealthChecker

	migrate func(ctx context.Context) error
	closers []func(ctx context.Context) error
	log     zerolog.Logger
}

// New builds a Ledger from cfg. The caller owns the result and must Close it.
func New(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*Ledger, error) {
	registry, err := NewRegistry(cfg.Ledger.Currencies)
	if err != nil {
		return nil, fmt.Errorf("build currency registry: %w", err)
	}

	l := &Ledger{Registry: registry, log: log}

	shutdownTracing, err := telemetry.Setup(ctx, cfg.Tracing)
	if err != nil {
		return nil, fmt.Errorf("setup tracing: %w", err)
	}
	l.closers = append(l.closers, shutdownTracing)

	store, err := openStorage(ctx, cfg, logger.Component(log, "storage"))
	if err != nil {
		_ = l.Close(ctx)
		return nil, err
	}
	l.closers = append(l.closers, store.close)
	l.migrate = store.migrate
	l.Health = append(l.Health, store.health)

	var markers ports.RollbackMarkerCache
	if cfg.Redis.Enabled {
		client, err := redis.NewClient(ctx, cfg.Redis, logger.Component(log, "redis"))
		if err != nil {
			_ = l.Close(ctx)
			return nil, err
		}
		l.closers = append(l.closers, func(context.Context) error { return client.Close() })
		cache := redis.NewMarkerCache(client)
		l.Health = append(l.Health, cache)
		markers = cache
	}

	clock := service.SystemClock{}
	audit := service.NewAuditService(store.audit, markers, clock, service.AuditOptions{
		Workers:   cfg.Ledger.AuditWorkers,
		QueueSize: cfg.Ledger.AuditQueueSize,
		MarkerTTL: cfg.Redis.MarkerTTL,
	}, logger.Component(log, "audit"))
	// Pending audit appends drain before the store goes away.
	l.closers = append(l.closers, func(context.Context) error {
		audit.Close()
		return nil
	})

	accounts := service.NewAccountService(store.accounts, audit, clock, service.AccountOptions{
		TouchWorkers:   cfg.Ledger.TouchWorkers,
		TouchQueueSize: cfg.Ledger.TouchQueueSize,
	}, logger.Component(log, "accounts"))
	l.closers = append(l.closers, func(context.Context) error {
		accounts.Close()
		return nil
	})
	treasury := service.NewTreasuryService(store.treasuries, audit, clock, logger.Component(log, "treasury"))

	l.Audit = audit
	l.Accounts = accounts
	l.Treasury = treasury
	l.Currency = service.NewCurrencyService(
		registry, store.balances, store.treasuries, accounts, audit,
		cfg.Ledger.StructuredRetryLimit, logger.Component(log, "currency"),
	)
	l.Items = service.NewItemService(
		registry, store.balances, store.inventory, store.treasuries, treasury, accounts, audit,
		cfg.Ledger.StructuredRetryLimit, logger.Component(log, "items"),
	)
	l.Rollback = service.NewRollbackService(
		audit, accounts, treasury, store.transactor, registry, clock, logger.Component(log, "rollback"),
	)

	log.Info().
		Str("driver", cfg.Store.Driver).
		Bool("redis", cfg.Redis.Enabled).
		Int("currencies", len(registry.IDs())).
		Msg("Ledger ready")
	return l, nil
}

// Migrate brings the backend schema or indexes up to date.
func (l *Ledger) Migrate(ctx context.Context) error {
	return l.migrate(ctx)
}

// CheckHealth pings every backend and returns the failures keyed by name.
func (l *Ledger) CheckHealth(ctx context.Context) map[string]error {
	failures := make(map[string]error)
	for _, hc := range l.Health {
		if err := hc.Ping(ctx); err != nil {
			failures[hc.Name()] = err
		}
	}
	return failures
}

// Close releases resources in reverse order of acquisition.
func (l *Ledger) Close(ctx context.Context) error {
	var errs []error
	for i := len(l.closers) - 1; i >= 0; i-- {
		if err := l.closers[i](ctx); err != nil {
			errs = append(errs, err)
		}
	}
	l.closers = nil
	if err := errors.Join(errs...); err != nil {
		l.log.Error().Err(err).Msg("Ledger shutdown incomplete")
		return err
	}
	return nil
}

// NewRegistry converts configured currencies into a registry. An empty list
// yields the built-in set.
func NewRegistry(currencies []config.CurrencyConfig) (*domain.CurrencyRegistry, error) {
	if len(currencies) == 0 {
		return domain.NewCurrencyRegistry(domain.DefaultCurrencies())
	}
	defs := make([]domain.CurrencyDefinition, 0, len(currencies))
	for _, c := range currencies {
		defs = append(defs, domain.CurrencyDefinition{
			ID:          c.ID,
			Kind:        domain.CurrencyKind(c.Kind),
			Parts:       c.Parts,
			PrimaryPart: c.PrimaryPart,
			AllowDebt:   c.AllowDebt,
		})
	}
	return domain.NewCurrencyRegistry(defs)
}

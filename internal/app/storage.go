package app

import (
	"context"
	"fmt"

	"guild-ledger/config"
	"guild-ledger/internal/adapter/storage/memory"
	"guild-ledger/internal/adapter/storage/mongo"
	"guild-ledger/internal/adapter/storage/postgres"
	"guild-ledger/internal/core/ports"

	"github.com/rs/zerolog"
)

// storage is one configured backend behind the repository ports.
type storage struct {
	accounts   ports.AccountRepository
	balances   ports.BalanceRepository
	inventory  ports.InventoryRepository
	treasuries ports.TreasuryRepository
	audit      ports.AuditRepository
	transactor ports.Transactor
	health     ports.HealthChecker
	migrate    func(ctx context.Context) error
	close      func(ctx context.Context) error
}

func openStorage(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*storage, error) {
	switch cfg.Store.Driver {
	case "postgres":
		pool, err := postgres.NewPool(ctx, cfg.Database, log)
		if err != nil {
			return nil, err
		}
		return &storage{
			accounts:   postgres.NewAccountRepo(pool),
			balances:   postgres.NewBalanceRepo(pool),
			inventory:  postgres.NewInventoryRepo(pool),
			treasuries: postgres.NewTreasuryRepo(pool),
			audit:      postgres.NewAuditRepo(pool),
			transactor: postgres.NewTransactor(pool),
			health:     postgres.NewHealthCheck(pool),
			migrate:    func(ctx context.Context) error { return postgres.Migrate(ctx, pool) },
			close: func(context.Context) error {
				pool.Close()
				return nil
			},
		}, nil

	case "mongo":
		store, err := mongo.Connect(ctx, cfg.Mongo, log)
		if err != nil {
			return nil, err
		}
		return &storage{
			accounts:   mongo.NewAccountRepo(store),
			balances:   mongo.NewBalanceRepo(store),
			inventory:  mongo.NewInventoryRepo(store),
			treasuries: mongo.NewTreasuryRepo(store),
			audit:      mongo.NewAuditRepo(store),
			transactor: mongo.NewTransactor(store),
			health:     store,
			migrate:    store.Migrate,
			close:      store.Close,
		}, nil

	case "memory":
		store := memory.NewStore()
		log.Warn().Msg("Using in-memory ledger store; nothing is persisted")
		return &storage{
			accounts:   memory.NewAccountRepository(store),
			balances:   memory.NewBalanceRepository(store),
			inventory:  memory.NewInventoryRepository(store),
			treasuries: memory.NewTreasuryRepository(store),
			audit:      memory.NewAuditRepository(store),
			transactor: memory.NewTransactor(store),
			health:     store,
			migrate:    func(context.Context) error { return nil },
			close:      func(context.Context) error { return nil },
		}, nil
	}
	return nil, fmt.Errorf("unsupported store driver %q", cfg.Store.Driver)
}

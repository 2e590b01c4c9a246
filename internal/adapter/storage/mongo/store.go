// Package mongo stores the ledger in MongoDB. Conditional updates carry their
// guards in the filter, and the rollback transaction uses a client session, so the
// deployment must be a replica set.
package mongo

import (
	"context"
	"errors"
	"fmt"
	"math"

	"guild-ledger/config"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.mongodb.org/mongo-driver/v2/mongo/readpref"
)

// Collection name constants.
const (
	colAccounts   = "ledger_accounts"
	colBalances   = "ledger_balances"
	colInventory  = "ledger_inventory"
	colTreasuries = "ledger_treasuries"
	colStock      = "ledger_stock"
	colAudit      = "ledger_audit"
	colMarkers    = "ledger_rollback_markers"
)

// Store owns the client and database handle shared by the repositories.
type Store struct {
	client *mongo.Client
	db     *mongo.Database
}

// Connect opens a client for cfg and verifies it can reach the primary.
func Connect(ctx context.Context, cfg config.MongoConfig, log zerolog.Logger) (*Store, error) {
	opts := options.Client().ApplyURI(cfg.URI)
	if cfg.Timeout > 0 {
		opts.SetTimeout(cfg.Timeout)
	}

	client, err := mongo.Connect(opts)
	if err != nil {
		return nil, fmt.Errorf("connecting to mongo: %w", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("pinging mongo: %w", err)
	}

	log.Info().
		Str("database", cfg.Database).
		Msg("MongoDB connection established")

	return &Store{client: client, db: client.Database(cfg.Database)}, nil
}

// Migrate creates the unique and lookup indexes of every collection.
func (s *Store) Migrate(ctx context.Context) error {
	for col, models := range migrationIndexes() {
		if _, err := s.db.Collection(col).Indexes().CreateMany(ctx, models); err != nil {
			return fmt.Errorf("migrate %s indexes: %w", col, err)
		}
	}
	return nil
}

// Ping implements ports.HealthChecker.
func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, readpref.Primary())
}

// Name implements ports.HealthChecker.
func (s *Store) Name() string {
	return "mongodb"
}

// Close disconnects the client.
func (s *Store) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

func (s *Store) collection(name string) *mongo.Collection {
	return s.db.Collection(name)
}

func migrationIndexes() map[string][]mongo.IndexModel {
	unique := options.Index().SetUnique(true)
	return map[string][]mongo.IndexModel{
		colBalances: {
			{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "currency_id", Value: 1}}, Options: unique},
		},
		colInventory: {
			{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "item_id", Value: 1}}, Options: unique},
		},
		colStock: {
			{Keys: bson.D{{Key: "guild_id", Value: 1}, {Key: "item_id", Value: 1}}, Options: unique},
		},
		colAudit: {
			{Keys: bson.D{{Key: "correlation_id", Value: 1}, {Key: "created_at", Value: 1}}},
			{Keys: bson.D{{Key: "target_id", Value: 1}, {Key: "created_at", Value: -1}}},
			{Keys: bson.D{{Key: "guild_id", Value: 1}, {Key: "created_at", Value: -1}}},
			{Keys: bson.D{{Key: "created_at", Value: -1}}},
		},
	}
}

func isNoDocuments(err error) bool {
	return errors.Is(err, mongo.ErrNoDocuments)
}

// minimumFor returns the smallest current value that keeps current+delta >= floor.
// ok=false means no value can satisfy the guard.
func minimumFor(delta, floor int64) (int64, bool) {
	if delta == math.MinInt64 {
		return 0, false
	}
	if delta >= 0 {
		return floor, true
	}
	if floor > math.MaxInt64+delta {
		return 0, false
	}
	return floor - delta, true
}

// guardedFilter appends a "field >= least" clause to base.
func guardedFilter(base bson.D, field string, least int64) bson.D {
	out := make(bson.D, 0, len(base)+1)
	out = append(out, base...)
	return append(out, bson.E{Key: field, Value: bson.D{{Key: "$gte", Value: least}}})
}

// retryOnDuplicate reruns an upsert once when a concurrent writer inserted the
// same key first.
func retryOnDuplicate(fn func() error) error {
	err := fn()
	if mongo.IsDuplicateKeyError(err) {
		err = fn()
	}
	return err
}

package mongo

import (
	"context"
	"fmt"
	"time"

	"guild-ledger/internal/core/domain"
	"guild-ledger/internal/core/ports"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// Transactor implements ports.Transactor with a multi-document transaction. The
// driver reruns the callback on transient errors such as write conflicts.
type Transactor struct {
	s *Store
}

// NewTransactor creates a new Transactor.
func NewTransactor(s *Store) *Transactor {
	return &Transactor{s: s}
}

func (t *Transactor) WithinTx(ctx context.Context, fn func(ctx context.Context, tx ports.LedgerTx) error) error {
	sess, err := t.s.client.StartSession()
	if err != nil {
		return fmt.Errorf("start session: %w", err)
	}
	defer sess.EndSession(ctx)

	tx := &ledgerTx{
		balances:   t.s.collection(colBalances),
		inventory:  t.s.collection(colInventory),
		treasuries: t.s.collection(colTreasuries),
		stock:      t.s.collection(colStock),
		markers:    t.s.collection(colMarkers),
	}
	_, err = sess.WithTransaction(ctx, func(ctx context.Context) (any, error) {
		return nil, fn(ctx, tx)
	})
	return err
}

type ledgerTx struct {
	balances   *mongo.Collection
	inventory  *mongo.Collection
	treasuries *mongo.Collection
	stock      *mongo.Collection
	markers    *mongo.Collection
}

// MarkRolledBack reads before inserting so an existing marker does not abort the
// transaction with a duplicate key error.
func (l *ledgerTx) MarkRolledBack(ctx context.Context, correlationID, actorID string, at time.Time) (bool, error) {
	n, err := l.markers.CountDocuments(ctx, bson.M{"_id": correlationID}, options.Count().SetLimit(1))
	if err != nil {
		return false, fmt.Errorf("check rollback marker: %w", err)
	}
	if n > 0 {
		return false, nil
	}
	_, err = l.markers.InsertOne(ctx, markerModel{CorrelationID: correlationID, ActorID: actorID, CreatedAt: at})
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return false, nil
		}
		return false, fmt.Errorf("insert rollback marker: %w", err)
	}
	return true, nil
}

func (l *ledgerTx) GetBalance(ctx context.Context, userID, currencyID string) (*domain.Balance, error) {
	return getBalance(ctx, l.balances, userID, currencyID)
}

func (l *ledgerTx) PutBalance(ctx context.Context, userID string, b domain.Balance) error {
	_, err := l.balances.UpdateOne(ctx, balanceKey(userID, b.CurrencyID),
		bson.D{
			{Key: "$set", Value: bson.D{
				{Key: "kind", Value: string(b.Kind)},
				{Key: "amount", Value: b.Amount},
				{Key: "parts", Value: b.Parts},
			}},
			{Key: "$inc", Value: bson.D{{Key: "version", Value: int64(1)}}},
		},
		options.UpdateOne().SetUpsert(true),
	)
	if err != nil {
		return fmt.Errorf("put balance: %w", err)
	}
	return nil
}

func (l *ledgerTx) GetItemQuantity(ctx context.Context, userID, itemID string) (int64, error) {
	return getQuantity(ctx, l.inventory, userID, itemID)
}

func (l *ledgerTx) PutItemQuantity(ctx context.Context, userID, itemID string, quantity int64) error {
	if quantity < 0 {
		return fmt.Errorf("item %s quantity %d is negative", itemID, quantity)
	}
	_, err := l.inventory.UpdateOne(ctx, inventoryKey(userID, itemID),
		bson.D{{Key: "$set", Value: bson.D{{Key: "quantity", Value: quantity}}}},
		options.UpdateOne().SetUpsert(true),
	)
	if err != nil {
		return fmt.Errorf("put inventory item: %w", err)
	}
	return nil
}

func (l *ledgerTx) IncrementSector(ctx context.Context, guildID string, sector domain.Sector, delta int64) (int64, bool, error) {
	return incrementSector(ctx, l.treasuries, guildID, sector, delta)
}

func (l *ledgerTx) IncrementStock(ctx context.Context, guildID, itemID string, delta int64) (bool, error) {
	_, applied, err := incrementStock(ctx, l.stock, guildID, itemID, delta)
	return applied, err
}

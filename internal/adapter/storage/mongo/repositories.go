package mongo

import (
	"context"
	"fmt"
	"time"

	"guild-ledger/internal/core/domain"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// ==================== Accounts ====================

// AccountRepo implements ports.AccountRepository.
type AccountRepo struct {
	col *mongo.Collection
}

// NewAccountRepo creates a new AccountRepo.
func NewAccountRepo(s *Store) *AccountRepo {
	return &AccountRepo{col: s.collection(colAccounts)}
}

func (r *AccountRepo) Get(ctx context.Context, userID string) (*domain.StoredAccount, error) {
	var m accountModel
	if err := r.col.FindOne(ctx, bson.M{"_id": userID}).Decode(&m); err != nil {
		if isNoDocuments(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get account: %w", err)
	}
	return m.stored(), nil
}

func (r *AccountRepo) Insert(ctx context.Context, a *domain.Account) (bool, error) {
	if _, err := r.col.InsertOne(ctx, toAccountModel(a)); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return false, nil
		}
		return false, fmt.Errorf("insert account: %w", err)
	}
	return true, nil
}

func (r *AccountRepo) UpdateStatus(ctx context.Context, userID string, status domain.AccountStatus, expectedVersion int64, now time.Time) (bool, error) {
	res, err := r.col.UpdateOne(ctx,
		bson.D{{Key: "_id", Value: userID}, {Key: "version", Value: expectedVersion}},
		bson.D{
			{Key: "$set", Value: bson.D{{Key: "status", Value: string(status)}, {Key: "updated_at", Value: now}}},
			{Key: "$inc", Value: bson.D{{Key: "version", Value: int64(1)}}},
		},
	)
	if err != nil {
		return false, fmt.Errorf("update account status: %w", err)
	}
	return res.MatchedCount == 1, nil
}

func (r *AccountRepo) TouchActivity(ctx context.Context, userID string, at time.Time) error {
	res, err := r.col.UpdateOne(ctx,
		bson.M{"_id": userID},
		bson.M{"$set": bson.M{"last_activity_at": at}},
	)
	if err != nil {
		return fmt.Errorf("touch account activity: %w", err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("account %s not found", userID)
	}
	return nil
}

// ReplaceIfVersion filters on the stored version; a nil version matches documents
// where the field is null or absent.
func (r *AccountRepo) ReplaceIfVersion(ctx context.Context, a *domain.Account, expectedVersion *int64) (bool, error) {
	filter := bson.D{{Key: "_id", Value: a.UserID}, {Key: "version", Value: nil}}
	if expectedVersion != nil {
		filter[1].Value = *expectedVersion
	}
	res, err := r.col.ReplaceOne(ctx, filter, toAccountModel(a))
	if err != nil {
		return false, fmt.Errorf("replace account: %w", err)
	}
	return res.MatchedCount == 1, nil
}

// ==================== Balances ====================

// BalanceRepo implements ports.BalanceRepository.
type BalanceRepo struct {
	col *mongo.Collection
}

// NewBalanceRepo creates a new BalanceRepo.
func NewBalanceRepo(s *Store) *BalanceRepo {
	return &BalanceRepo{col: s.collection(colBalances)}
}

func balanceKey(userID, currencyID string) bson.D {
	return bson.D{{Key: "user_id", Value: userID}, {Key: "currency_id", Value: currencyID}}
}

func (r *BalanceRepo) Get(ctx context.Context, userID, currencyID string) (*domain.Balance, error) {
	return getBalance(ctx, r.col, userID, currencyID)
}

// IncrementScalar upserts credits and unguarded debits in one $inc. Guarded debits
// carry "amount >= -delta" in the filter and never create the document.
func (r *BalanceRepo) IncrementScalar(ctx context.Context, userID, currencyID string, delta int64, allowNegative bool) (int64, bool, error) {
	update := bson.D{
		{Key: "$inc", Value: bson.D{{Key: "amount", Value: delta}, {Key: "version", Value: int64(1)}}},
		{Key: "$setOnInsert", Value: bson.D{{Key: "kind", Value: string(domain.CurrencyScalar)}}},
	}
	filter := balanceKey(userID, currencyID)
	upsert := true
	if delta < 0 && !allowNegative {
		least, ok := minimumFor(delta, 0)
		if !ok {
			return r.current(ctx, userID, currencyID)
		}
		filter = guardedFilter(filter, "amount", least)
		upsert = false
	}

	var m balanceModel
	err := retryOnDuplicate(func() error {
		return r.col.FindOneAndUpdate(ctx, filter, update,
			options.FindOneAndUpdate().SetUpsert(upsert).SetReturnDocument(options.After),
		).Decode(&m)
	})
	if err == nil {
		return m.Amount, true, nil
	}
	if !isNoDocuments(err) {
		return 0, false, fmt.Errorf("increment balance: %w", err)
	}
	return r.current(ctx, userID, currencyID)
}

func (r *BalanceRepo) current(ctx context.Context, userID, currencyID string) (int64, bool, error) {
	b, err := getBalance(ctx, r.col, userID, currencyID)
	if err != nil || b == nil {
		return 0, false, err
	}
	return b.Amount, false, nil
}

// CompareAndSwap matches on the stored version. With expectedVersion 0 a missing
// document is created; a present one at another version fails the upsert with a
// duplicate key, which reports false.
func (r *BalanceRepo) CompareAndSwap(ctx context.Context, userID string, next domain.Balance, expectedVersion int64) (bool, error) {
	filter := append(balanceKey(userID, next.CurrencyID), bson.E{Key: "version", Value: expectedVersion})
	update := bson.D{{Key: "$set", Value: bson.D{
		{Key: "kind", Value: string(next.Kind)},
		{Key: "amount", Value: next.Amount},
		{Key: "parts", Value: next.Parts},
		{Key: "version", Value: expectedVersion + 1},
	}}}

	res, err := r.col.UpdateOne(ctx, filter, update, options.UpdateOne().SetUpsert(expectedVersion == 0))
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return false, nil
		}
		return false, fmt.Errorf("compare and swap balance: %w", err)
	}
	return res.MatchedCount+res.UpsertedCount == 1, nil
}

func getBalance(ctx context.Context, col *mongo.Collection, userID, currencyID string) (*domain.Balance, error) {
	var m balanceModel
	if err := col.FindOne(ctx, balanceKey(userID, currencyID)).Decode(&m); err != nil {
		if isNoDocuments(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get balance: %w", err)
	}
	return m.balance(), nil
}

// ==================== Inventory ====================

// InventoryRepo implements ports.InventoryRepository.
type InventoryRepo struct {
	col *mongo.Collection
}

// NewInventoryRepo creates a new InventoryRepo.
func NewInventoryRepo(s *Store) *InventoryRepo {
	return &InventoryRepo{col: s.collection(colInventory)}
}

func inventoryKey(userID, itemID string) bson.D {
	return bson.D{{Key: "user_id", Value: userID}, {Key: "item_id", Value: itemID}}
}

func (r *InventoryRepo) GetQuantity(ctx context.Context, userID, itemID string) (int64, error) {
	return getQuantity(ctx, r.col, userID, itemID)
}

func (r *InventoryRepo) Increment(ctx context.Context, userID, itemID string, delta int64) (int64, bool, error) {
	least, ok := minimumFor(delta, 0)
	if !ok {
		current, err := getQuantity(ctx, r.col, userID, itemID)
		return current, false, err
	}

	var m inventoryModel
	err := retryOnDuplicate(func() error {
		return r.col.FindOneAndUpdate(ctx,
			guardedFilter(inventoryKey(userID, itemID), "quantity", least),
			bson.D{{Key: "$inc", Value: bson.D{{Key: "quantity", Value: delta}}}},
			options.FindOneAndUpdate().SetUpsert(delta >= 0).SetReturnDocument(options.After),
		).Decode(&m)
	})
	if err == nil {
		return m.Quantity, true, nil
	}
	if !isNoDocuments(err) {
		return 0, false, fmt.Errorf("increment inventory item: %w", err)
	}
	current, err := getQuantity(ctx, r.col, userID, itemID)
	return current, false, err
}

func getQuantity(ctx context.Context, col *mongo.Collection, userID, itemID string) (int64, error) {
	var m inventoryModel
	if err := col.FindOne(ctx, inventoryKey(userID, itemID)).Decode(&m); err != nil {
		if isNoDocuments(err) {
			return 0, nil
		}
		return 0, fmt.Errorf("get inventory quantity: %w", err)
	}
	return m.Quantity, nil
}

// ==================== Treasuries ====================

// TreasuryRepo implements ports.TreasuryRepository.
type TreasuryRepo struct {
	treasuries *mongo.Collection
	stock      *mongo.Collection
}

// NewTreasuryRepo creates a new TreasuryRepo.
func NewTreasuryRepo(s *Store) *TreasuryRepo {
	return &TreasuryRepo{
		treasuries: s.collection(colTreasuries),
		stock:      s.collection(colStock),
	}
}

func (r *TreasuryRepo) Get(ctx context.Context, guildID string) (*domain.GuildTreasury, error) {
	var m treasuryModel
	if err := r.treasuries.FindOne(ctx, bson.M{"_id": guildID}).Decode(&m); err != nil {
		if isNoDocuments(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get treasury: %w", err)
	}
	return m.treasury(), nil
}

func (r *TreasuryRepo) Insert(ctx context.Context, t *domain.GuildTreasury) (bool, error) {
	if _, err := r.treasuries.InsertOne(ctx, toTreasuryModel(t)); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return false, nil
		}
		return false, fmt.Errorf("insert treasury: %w", err)
	}
	return true, nil
}

func (r *TreasuryRepo) IncrementSector(ctx context.Context, guildID string, sector domain.Sector, delta int64) (int64, bool, error) {
	return incrementSector(ctx, r.treasuries, guildID, sector, delta)
}

func (r *TreasuryRepo) UpdateConfig(ctx context.Context, guildID string, tax domain.TaxConfig, thresholds domain.TransferThresholds, expectedVersion int64, now time.Time) (bool, error) {
	res, err := r.treasuries.UpdateOne(ctx,
		bson.D{{Key: "_id", Value: guildID}, {Key: "version", Value: expectedVersion}},
		bson.D{
			{Key: "$set", Value: bson.D{
				{Key: "tax", Value: toTaxModel(tax)},
				{Key: "thresholds", Value: toThresholdsModel(thresholds)},
				{Key: "updated_at", Value: now},
			}},
			{Key: "$inc", Value: bson.D{{Key: "version", Value: int64(1)}}},
		},
	)
	if err != nil {
		return false, fmt.Errorf("update treasury config: %w", err)
	}
	return res.MatchedCount == 1, nil
}

func stockKey(guildID, itemID string) bson.D {
	return bson.D{{Key: "guild_id", Value: guildID}, {Key: "item_id", Value: itemID}}
}

func (r *TreasuryRepo) GetStock(ctx context.Context, guildID, itemID string) (int64, bool, error) {
	var m stockModel
	if err := r.stock.FindOne(ctx, stockKey(guildID, itemID)).Decode(&m); err != nil {
		if isNoDocuments(err) {
			return 0, false, nil
		}
		return 0, false, fmt.Errorf("get stock: %w", err)
	}
	return m.Stock, true, nil
}

func (r *TreasuryRepo) SetStock(ctx context.Context, guildID, itemID string, stock int64) error {
	err := retryOnDuplicate(func() error {
		_, err := r.stock.UpdateOne(ctx, stockKey(guildID, itemID),
			bson.D{{Key: "$set", Value: bson.D{{Key: "stock", Value: stock}}}},
			options.UpdateOne().SetUpsert(true),
		)
		return err
	})
	if err != nil {
		return fmt.Errorf("set stock: %w", err)
	}
	return nil
}

func (r *TreasuryRepo) IncrementStock(ctx context.Context, guildID, itemID string, delta int64) (int64, bool, error) {
	after, ok, err := incrementStock(ctx, r.stock, guildID, itemID, delta)
	if err != nil || ok {
		return after, ok, err
	}
	current, _, err := r.GetStock(ctx, guildID, itemID)
	return current, false, err
}

func sectorField(sector domain.Sector) (string, error) {
	if !sector.Valid() {
		return "", fmt.Errorf("unknown sector %q", sector)
	}
	return "sectors." + string(sector), nil
}

func incrementSector(ctx context.Context, col *mongo.Collection, guildID string, sector domain.Sector, delta int64) (int64, bool, error) {
	field, err := sectorField(sector)
	if err != nil {
		return 0, false, err
	}
	least, ok := minimumFor(delta, 0)
	if ok {
		var m treasuryModel
		err = col.FindOneAndUpdate(ctx,
			guardedFilter(bson.D{{Key: "_id", Value: guildID}}, field, least),
			bson.D{{Key: "$inc", Value: bson.D{{Key: field, Value: delta}}}},
			options.FindOneAndUpdate().SetReturnDocument(options.After),
		).Decode(&m)
		if err == nil {
			return m.Sectors[string(sector)], true, nil
		}
		if !isNoDocuments(err) {
			return 0, false, fmt.Errorf("increment sector: %w", err)
		}
	}

	var m treasuryModel
	if err := col.FindOne(ctx, bson.M{"_id": guildID}).Decode(&m); err != nil {
		if isNoDocuments(err) {
			return 0, false, nil
		}
		return 0, false, fmt.Errorf("get sector: %w", err)
	}
	return m.Sectors[string(sector)], false, nil
}

// incrementStock only matches listed, finite lines that stay non-negative.
func incrementStock(ctx context.Context, col *mongo.Collection, guildID, itemID string, delta int64) (int64, bool, error) {
	least, ok := minimumFor(delta, 0)
	if !ok {
		return 0, false, nil
	}
	var m stockModel
	err := col.FindOneAndUpdate(ctx,
		guardedFilter(stockKey(guildID, itemID), "stock", least),
		bson.D{{Key: "$inc", Value: bson.D{{Key: "stock", Value: delta}}}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&m)
	if err == nil {
		return m.Stock, true, nil
	}
	if isNoDocuments(err) {
		return 0, false, nil
	}
	return 0, false, fmt.Errorf("increment stock: %w", err)
}

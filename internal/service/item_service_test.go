package service

import (
	"context"
	"testing"

	"guild-ledger/internal/adapter/storage/memory"
	"guild-ledger/internal/core/domain"
	"guild-ledger/internal/core/ports"
	"guild-ledger/pkg/apperror"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestItemService_GrantAndRemove(t *testing.T) {
	f := newLedgerFixture(t)
	ctx := context.Background()

	res, err := f.items.GrantItem(ctx, ports.ItemRequest{
		ActorID: "mod", TargetID: "u1", GuildID: "g1", ItemID: "sword", Quantity: 3,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(0), res.Before)
	assert.Equal(t, int64(3), res.After)

	res, err = f.items.RemoveItem(ctx, ports.ItemRequest{
		ActorID: "mod", TargetID: "u1", GuildID: "g1", ItemID: "sword", Quantity: 2,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), res.After)

	_, err = f.items.RemoveItem(ctx, ports.ItemRequest{
		ActorID: "mod", TargetID: "u1", GuildID: "g1", ItemID: "sword", Quantity: 2,
	})
	assert.True(t, apperror.IsKind(err, apperror.KindInsufficientStock))
	assert.Equal(t, int64(1), f.inventory(t, "u1", "sword"))

	entries, err := f.audit.FindByCorrelationKey(ctx, res.CorrelationID)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	delta, ok := entries[0].MetadataInt(domain.MetaItemDelta)
	require.True(t, ok)
	assert.Equal(t, int64(-2), delta)
}

func TestItemService_ItemRequestValidation(t *testing.T) {
	tests := []struct {
		name string
		req  ports.ItemRequest
	}{
		{name: "missing target", req: ports.ItemRequest{GuildID: "g1", ItemID: "sword", Quantity: 1}},
		{name: "missing guild", req: ports.ItemRequest{TargetID: "u1", ItemID: "sword", Quantity: 1}},
		{name: "bad item id", req: ports.ItemRequest{TargetID: "u1", GuildID: "g1", ItemID: "Sword!", Quantity: 1}},
		{name: "zero quantity", req: ports.ItemRequest{TargetID: "u1", GuildID: "g1", ItemID: "sword"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newLedgerFixture(t)
			_, err := f.items.GrantItem(context.Background(), tt.req)
			assert.True(t, apperror.IsKind(err, apperror.KindInvalidInput), "got %v", err)
		})
	}
}

func TestItemService_Purchase(t *testing.T) {
	f := newLedgerFixture(t)
	ctx := context.Background()
	enableTax(t, f, "g1", 0.05, 0)
	require.NoError(t, f.items.SetStock(ctx, "g1", "potion", 5))
	f.grant(t, "u1", "coins", 100)

	res, err := f.items.Purchase(ctx, ports.PurchaseRequest{
		BuyerID: "u1", GuildID: "g1", ItemID: "potion", Quantity: 3, UnitPrice: 20, CurrencyID: "coins",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(60), res.Total)
	assert.Equal(t, int64(3), res.Tax.Tax)
	assert.Equal(t, int64(3), res.ItemsAfter)
	require.NotNil(t, res.StockAfter)
	assert.Equal(t, int64(2), *res.StockAfter)

	assert.Equal(t, int64(40), f.balance(t, "u1", "coins"))
	assert.Equal(t, int64(57), f.sector(t, "g1", domain.SectorTrade))
	assert.Equal(t, int64(3), f.sector(t, "g1", domain.SectorTax))

	entries, err := f.audit.FindByCorrelationKey(ctx, res.CorrelationID)
	require.NoError(t, err)
	ops := map[domain.OperationType]int{}
	for _, e := range entries {
		ops[e.OperationType]++
	}
	assert.Equal(t, map[domain.OperationType]int{
		domain.OpItemPurchase:  1,
		domain.OpSectorDeposit: 1,
		domain.OpTaxCollect:    1,
	}, ops)
}

func TestItemService_Purchase_UnlimitedStock(t *testing.T) {
	f := newLedgerFixture(t)
	ctx := context.Background()
	require.NoError(t, f.items.SetStock(ctx, "g1", "arrow", domain.UnlimitedStock))
	f.grant(t, "u1", "gems", 50)

	res, err := f.items.Purchase(ctx, ports.PurchaseRequest{
		BuyerID: "u1", GuildID: "g1", ItemID: "arrow", Quantity: 50, UnitPrice: 1, CurrencyID: "gems",
	})
	require.NoError(t, err)
	assert.Nil(t, res.StockAfter)
	assert.Equal(t, int64(50), f.inventory(t, "u1", "arrow"))
}

func TestItemService_Purchase_Failures(t *testing.T) {
	tests := []struct {
		name        string
		stock       *int64
		funds       int64
		req         ports.PurchaseRequest
		wantErrKind apperror.Kind
	}{
		{
			name:        "unlisted item",
			funds:       100,
			req:         ports.PurchaseRequest{ItemID: "potion", Quantity: 1, UnitPrice: 10},
			wantErrKind: apperror.KindInsufficientStock,
		},
		{
			name:        "not enough stock",
			stock:       ptr(int64(2)),
			funds:       100,
			req:         ports.PurchaseRequest{ItemID: "potion", Quantity: 3, UnitPrice: 10},
			wantErrKind: apperror.KindInsufficientStock,
		},
		{
			name:        "not enough funds",
			stock:       ptr(int64(10)),
			funds:       5,
			req:         ports.PurchaseRequest{ItemID: "potion", Quantity: 1, UnitPrice: 10},
			wantErrKind: apperror.KindInsufficientFunds,
		},
		{
			name:        "total overflows",
			stock:       ptr(domain.UnlimitedStock),
			funds:       5,
			req:         ports.PurchaseRequest{ItemID: "potion", Quantity: 1 << 40, UnitPrice: 1 << 40},
			wantErrKind: apperror.KindInvalidInput,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newLedgerFixture(t)
			ctx := context.Background()
			if tt.stock != nil {
				require.NoError(t, f.items.SetStock(ctx, "g1", "potion", *tt.stock))
			}
			f.grant(t, "u1", "gems", tt.funds)

			req := tt.req
			req.BuyerID, req.GuildID, req.CurrencyID = "u1", "g1", "gems"
			_, err := f.items.Purchase(ctx, req)
			assert.True(t, apperror.IsKind(err, tt.wantErrKind), "got %v", err)

			assert.Equal(t, tt.funds, f.balance(t, "u1", "gems"))
			assert.Equal(t, int64(0), f.inventory(t, "u1", "potion"))
			if tt.stock != nil && *tt.stock >= 0 {
				stock, _, err := memory.NewTreasuryRepository(f.store).GetStock(ctx, "g1", "potion")
				require.NoError(t, err)
				assert.Equal(t, *tt.stock, stock)
			}
		})
	}
}

func TestItemService_Sell(t *testing.T) {
	f := newLedgerFixture(t)
	ctx := context.Background()
	require.NoError(t, f.items.SetStock(ctx, "g1", "potion", 1))
	_, err := f.treasury.DepositToSector(ctx, ports.SectorRequest{GuildID: "g1", Sector: domain.SectorTrade, Amount: 100})
	require.NoError(t, err)
	_, err = f.items.GrantItem(ctx, ports.ItemRequest{ActorID: "mod", TargetID: "u1", GuildID: "g1", ItemID: "potion", Quantity: 4})
	require.NoError(t, err)

	res, err := f.items.Sell(ctx, ports.SellRequest{
		SellerID: "u1", GuildID: "g1", ItemID: "potion", Quantity: 2, UnitPrice: 15, CurrencyID: "gems",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(30), res.Total)
	assert.Equal(t, int64(2), res.ItemsAfter)
	require.NotNil(t, res.StockAfter)
	assert.Equal(t, int64(3), *res.StockAfter)

	assert.Equal(t, int64(30), f.balance(t, "u1", "gems"))
	assert.Equal(t, int64(70), f.sector(t, "g1", domain.SectorTrade))
}

func TestItemService_Sell_TradeSectorTooLow(t *testing.T) {
	f := newLedgerFixture(t)
	ctx := context.Background()
	_, err := f.items.GrantItem(ctx, ports.ItemRequest{ActorID: "mod", TargetID: "u1", GuildID: "g1", ItemID: "potion", Quantity: 4})
	require.NoError(t, err)

	_, err = f.items.Sell(ctx, ports.SellRequest{
		SellerID: "u1", GuildID: "g1", ItemID: "potion", Quantity: 2, UnitPrice: 15, CurrencyID: "gems",
	})
	assert.True(t, apperror.IsKind(err, apperror.KindInsufficientFunds))

	// The removed items were handed back.
	assert.Equal(t, int64(4), f.inventory(t, "u1", "potion"))
	assert.Equal(t, int64(0), f.balance(t, "u1", "gems"))
}

func TestItemService_SetStock_Validation(t *testing.T) {
	f := newLedgerFixture(t)
	ctx := context.Background()

	assert.True(t, apperror.IsKind(f.items.SetStock(ctx, "g1", "potion", -2), apperror.KindInvalidInput))
	assert.True(t, apperror.IsKind(f.items.SetStock(ctx, "", "potion", 1), apperror.KindInvalidInput))
	assert.True(t, apperror.IsKind(f.items.SetStock(ctx, "g1", "", 1), apperror.KindInvalidInput))
	assert.NoError(t, f.items.SetStock(ctx, "g1", "potion", 0))
}

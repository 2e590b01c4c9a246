package service

import (
	"context"
	"fmt"
	"math"

	"guild-ledger/internal/core/domain"
	"guild-ledger/internal/core/ports"
	"guild-ledger/pkg/apperror"

	"github.com/rs/zerolog"
)

// ItemServiceImpl implements ports.ItemService. Purchases and sales span a user
// balance, a user inventory, a guild sector and a store stock line; all entries of
// one trade share a correlation id so the trade can be rolled back as a unit.
type ItemServiceImpl struct {
	mutator    *balanceMutator
	inventory  ports.InventoryRepository
	treasuries ports.TreasuryRepository
	treasury   *TreasuryServiceImpl
	accounts   ports.AccountService
	audit      ports.AuditService
	log        zerolog.Logger
}

// NewItemService creates a new ItemServiceImpl.
func NewItemService(
	registry *domain.CurrencyRegistry,
	balances ports.BalanceRepository,
	inventory ports.InventoryRepository,
	treasuries ports.TreasuryRepository,
	treasury *TreasuryServiceImpl,
	accounts ports.AccountService,
	audit ports.AuditService,
	retryLimit int,
	log zerolog.Logger,
) *ItemServiceImpl {
	return &ItemServiceImpl{
		mutator:    newBalanceMutator(registry, balances, retryLimit, log),
		inventory:  inventory,
		treasuries: treasuries,
		treasury:   treasury,
		accounts:   accounts,
		audit:      audit,
		log:        log,
	}
}

// GrantItem adds items to a user's inventory.
func (s *ItemServiceImpl) GrantItem(ctx context.Context, req ports.ItemRequest) (*ports.ItemResult, error) {
	return s.adminMove(ctx, req, domain.OpItemGrant, req.Quantity)
}

// RemoveItem takes items from a user's inventory; the stack never goes negative.
func (s *ItemServiceImpl) RemoveItem(ctx context.Context, req ports.ItemRequest) (*ports.ItemResult, error) {
	return s.adminMove(ctx, req, domain.OpItemRemove, -req.Quantity)
}

func (s *ItemServiceImpl) adminMove(ctx context.Context, req ports.ItemRequest, op domain.OperationType, delta int64) (*ports.ItemResult, error) {
	if req.TargetID == "" {
		return nil, apperror.ErrInvalidUserID()
	}
	if req.GuildID == "" {
		return nil, apperror.ErrInvalidGuildID()
	}
	if !domain.ValidIdentifier(req.ItemID) {
		return nil, apperror.ErrInvalidItem(req.ItemID)
	}
	if req.Quantity <= 0 {
		return nil, apperror.ErrInvalidAmount()
	}
	if _, err := s.accounts.Ensure(ctx, req.TargetID); err != nil {
		return nil, err
	}

	after, ok, err := s.inventory.Increment(ctx, req.TargetID, req.ItemID, delta)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("increment item %s: %w", req.ItemID, err))
	}
	if !ok {
		return nil, apperror.ErrInsufficientItems(req.ItemID)
	}

	correlationID := domain.NewCorrelationID()
	s.audit.Create(ctx, domain.AuditEntry{
		OperationType: op,
		ActorID:       req.ActorID,
		TargetID:      req.TargetID,
		GuildID:       req.GuildID,
		Source:        req.Source,
		Reason:        req.Reason,
		ItemData: &domain.ItemData{
			ItemID:   req.ItemID,
			Quantity: req.Quantity,
			Before:   after - delta,
			After:    after,
		},
		Metadata: map[string]any{
			domain.MetaCorrelationID: correlationID,
			domain.MetaItemDelta:     delta,
		},
	})

	s.log.Info().
		Str("correlation_id", correlationID).
		Str("user_id", req.TargetID).
		Str("item_id", req.ItemID).
		Int64("delta", delta).
		Str("operation", string(op)).
		Msg("inventory adjusted")

	return &ports.ItemResult{CorrelationID: correlationID, Before: after - delta, After: after}, nil
}

// Purchase debits the buyer, decrements finite stock, grants the items and pays the
// guild's trade sector (taxed). Any failure reverses the writes already made.
func (s *ItemServiceImpl) Purchase(ctx context.Context, req ports.PurchaseRequest) (res *ports.TradeResult, err error) {
	ctx, span := startSpan(ctx, "ItemService.Purchase")
	defer func() { endSpan(span, err) }()

	def, total, err := s.validateTrade(req.BuyerID, req.GuildID, req.ItemID, req.CurrencyID, req.Quantity, req.UnitPrice)
	if err != nil {
		return nil, err
	}
	if _, err := s.accounts.RequireActive(ctx, req.BuyerID); err != nil {
		return nil, err
	}
	t, _, err := s.treasury.Ensure(ctx, req.GuildID)
	if err != nil {
		return nil, err
	}

	stock, listed, err := s.treasuries.GetStock(ctx, req.GuildID, req.ItemID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("get stock: %w", err))
	}
	if !listed || (stock >= 0 && stock < req.Quantity) {
		return nil, apperror.ErrOutOfStock(req.ItemID)
	}

	correlationID := domain.NewCorrelationID()
	comp := compensator{log: s.log}
	fail := func(cause error) (*ports.TradeResult, error) {
		comp.run(ctx, correlationID, cause)
		return nil, cause
	}

	debit, err := s.mutator.apply(ctx, def, req.BuyerID, -total)
	if err != nil {
		return nil, err
	}
	comp.push("refund buyer", func(ctx context.Context) error {
		_, err := s.mutator.apply(ctx, def, req.BuyerID, total)
		return err
	})

	var stockAfter *int64
	if stock >= 0 {
		after, ok, err := s.treasuries.IncrementStock(ctx, req.GuildID, req.ItemID, -req.Quantity)
		if err != nil {
			return fail(apperror.InternalError(fmt.Errorf("decrement stock: %w", err)))
		}
		if !ok {
			return fail(apperror.ErrOutOfStock(req.ItemID))
		}
		stockAfter = &after
		comp.push("restore stock", func(ctx context.Context) error {
			_, _, err := s.treasuries.IncrementStock(ctx, req.GuildID, req.ItemID, req.Quantity)
			return err
		})
	}

	itemsAfter, _, err := s.inventory.Increment(ctx, req.BuyerID, req.ItemID, req.Quantity)
	if err != nil {
		return fail(apperror.InternalError(fmt.Errorf("grant item: %w", err)))
	}
	comp.push("take back items", func(ctx context.Context) error {
		_, _, err := s.inventory.Increment(ctx, req.BuyerID, req.ItemID, -req.Quantity)
		return err
	})

	// The treasury deposit writes its own sector entries under the same correlation id.
	_, _, tax, err := s.treasury.depositTaxed(ctx, t, domain.SectorTrade, total, correlationID, req.BuyerID, req.Source, "store purchase")
	if err != nil {
		return fail(err)
	}

	entry := domain.AuditEntry{
		OperationType: domain.OpItemPurchase,
		ActorID:       req.BuyerID,
		TargetID:      req.BuyerID,
		GuildID:       req.GuildID,
		Source:        req.Source,
		Reason:        "store purchase",
		CurrencyData: &domain.CurrencyData{
			CurrencyID: def.ID,
			Delta:      -total,
			Before:     debit.Before,
			After:      debit.After,
		},
		ItemData: &domain.ItemData{
			ItemID:   req.ItemID,
			Quantity: req.Quantity,
			Before:   itemsAfter - req.Quantity,
			After:    itemsAfter,
		},
		Metadata: map[string]any{
			domain.MetaCorrelationID: correlationID,
			"unitPrice":              req.UnitPrice,
		},
	}
	if stockAfter != nil {
		entry.SetMeta(domain.MetaStockDelta, -req.Quantity)
	}
	s.audit.Create(ctx, entry)
	s.accounts.TouchActivity(ctx, req.BuyerID)

	s.log.Info().
		Str("correlation_id", correlationID).
		Str("user_id", req.BuyerID).
		Str("guild_id", req.GuildID).
		Str("item_id", req.ItemID).
		Int64("quantity", req.Quantity).
		Int64("total", total).
		Msg("item purchased")

	return &ports.TradeResult{
		CorrelationID: correlationID,
		Total:         total,
		Tax:           tax,
		ItemsAfter:    itemsAfter,
		StockAfter:    stockAfter,
	}, nil
}

// Sell takes items from the seller, pays them out of the guild's trade sector and
// restocks a finite store line.
func (s *ItemServiceImpl) Sell(ctx context.Context, req ports.SellRequest) (res *ports.TradeResult, err error) {
	ctx, span := startSpan(ctx, "ItemService.Sell")
	defer func() { endSpan(span, err) }()

	def, total, err := s.validateTrade(req.SellerID, req.GuildID, req.ItemID, req.CurrencyID, req.Quantity, req.UnitPrice)
	if err != nil {
		return nil, err
	}
	if _, err := s.accounts.RequireActive(ctx, req.SellerID); err != nil {
		return nil, err
	}
	if _, _, err := s.treasury.Ensure(ctx, req.GuildID); err != nil {
		return nil, err
	}

	correlationID := domain.NewCorrelationID()
	comp := compensator{log: s.log}
	fail := func(cause error) (*ports.TradeResult, error) {
		comp.run(ctx, correlationID, cause)
		return nil, cause
	}

	itemsAfter, ok, err := s.inventory.Increment(ctx, req.SellerID, req.ItemID, -req.Quantity)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("remove item: %w", err))
	}
	if !ok {
		return nil, apperror.ErrInsufficientItems(req.ItemID)
	}
	comp.push("return items", func(ctx context.Context) error {
		_, _, err := s.inventory.Increment(ctx, req.SellerID, req.ItemID, req.Quantity)
		return err
	})

	var sector *ports.SectorResult
	if total > 0 {
		sector, err = incrementSector(ctx, s.treasuries, req.GuildID, domain.SectorTrade, -total)
		if err != nil {
			return fail(err)
		}
		sector.CorrelationID = correlationID
		comp.push("refill trade sector", func(ctx context.Context) error {
			_, err := incrementSector(ctx, s.treasuries, req.GuildID, domain.SectorTrade, total)
			return err
		})
	}

	var credit *balanceChange
	if total > 0 {
		credit, err = s.mutator.apply(ctx, def, req.SellerID, total)
		if err != nil {
			return fail(err)
		}
	} else {
		b, err := s.mutator.read(ctx, def, req.SellerID)
		if err != nil {
			return fail(err)
		}
		v := def.Primary(b)
		credit = &balanceChange{Before: v, After: v, Balance: *b}
	}

	// Restocking is best-effort: unlimited or unlisted lines are left alone.
	var stockAfter *int64
	after, restocked, err := s.treasuries.IncrementStock(ctx, req.GuildID, req.ItemID, req.Quantity)
	if err != nil {
		s.log.Warn().Err(err).Str("guild_id", req.GuildID).Str("item_id", req.ItemID).Msg("failed to restock store line")
	} else if restocked {
		stockAfter = &after
	}

	entry := domain.AuditEntry{
		OperationType: domain.OpItemSale,
		ActorID:       req.SellerID,
		TargetID:      req.SellerID,
		GuildID:       req.GuildID,
		Source:        req.Source,
		Reason:        "store sale",
		CurrencyData: &domain.CurrencyData{
			CurrencyID: def.ID,
			Delta:      total,
			Before:     credit.Before,
			After:      credit.After,
		},
		ItemData: &domain.ItemData{
			ItemID:   req.ItemID,
			Quantity: req.Quantity,
			Before:   itemsAfter + req.Quantity,
			After:    itemsAfter,
		},
		Metadata: map[string]any{
			domain.MetaCorrelationID: correlationID,
			"unitPrice":              req.UnitPrice,
		},
	}
	if stockAfter != nil {
		entry.SetMeta(domain.MetaStockDelta, req.Quantity)
	}
	s.audit.Create(ctx, entry)
	if sector != nil {
		s.audit.Create(ctx, sectorEntry(domain.OpSectorWithdraw, req.SellerID, req.GuildID, req.Source, "store sale", sector, -total, ""))
	}
	s.accounts.TouchActivity(ctx, req.SellerID)

	s.log.Info().
		Str("correlation_id", correlationID).
		Str("user_id", req.SellerID).
		Str("guild_id", req.GuildID).
		Str("item_id", req.ItemID).
		Int64("quantity", req.Quantity).
		Int64("total", total).
		Msg("item sold")

	return &ports.TradeResult{
		CorrelationID: correlationID,
		Total:         total,
		Tax:           domain.TaxResult{Gross: total, Net: total},
		ItemsAfter:    itemsAfter,
		StockAfter:    stockAfter,
	}, nil
}

// SetStock lists an item in a guild store. UnlimitedStock (-1) disables decrements.
func (s *ItemServiceImpl) SetStock(ctx context.Context, guildID, itemID string, stock int64) error {
	if guildID == "" {
		return apperror.ErrInvalidGuildID()
	}
	if !domain.ValidIdentifier(itemID) {
		return apperror.ErrInvalidItem(itemID)
	}
	if stock < domain.UnlimitedStock {
		return apperror.Validation("stock must be -1 (unlimited) or non-negative")
	}
	if err := s.treasuries.SetStock(ctx, guildID, itemID, stock); err != nil {
		return apperror.InternalError(fmt.Errorf("set stock: %w", err))
	}
	return nil
}

func (s *ItemServiceImpl) validateTrade(userID, guildID, itemID, currencyID string, quantity, unitPrice int64) (domain.CurrencyDefinition, int64, error) {
	if userID == "" {
		return domain.CurrencyDefinition{}, 0, apperror.ErrInvalidUserID()
	}
	if guildID == "" {
		return domain.CurrencyDefinition{}, 0, apperror.ErrInvalidGuildID()
	}
	if !domain.ValidIdentifier(itemID) {
		return domain.CurrencyDefinition{}, 0, apperror.ErrInvalidItem(itemID)
	}
	if quantity <= 0 || unitPrice < 0 {
		return domain.CurrencyDefinition{}, 0, apperror.ErrInvalidAmount()
	}
	if unitPrice > 0 && quantity > math.MaxInt64/unitPrice {
		return domain.CurrencyDefinition{}, 0, apperror.Validation("trade total is out of range")
	}
	def, err := s.mutator.resolve(currencyID)
	if err != nil {
		return domain.CurrencyDefinition{}, 0, err
	}
	return def, quantity * unitPrice, nil
}

package service

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"slices"

	"guild-ledger/internal/core/domain"
	"guild-ledger/internal/core/ports"
	"guild-ledger/pkg/apperror"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/attribute"
)

// RollbackServiceImpl implements ports.RollbackService.
type RollbackServiceImpl struct {
	audit      ports.AuditService
	accounts   ports.AccountService
	treasury   ports.TreasuryService
	transactor ports.Transactor
	registry   *domain.CurrencyRegistry
	clock      ports.Clock
	log        zerolog.Logger
}

// NewRollbackService creates a new RollbackServiceImpl.
func NewRollbackService(
	audit ports.AuditService,
	accounts ports.AccountService,
	treasury ports.TreasuryService,
	transactor ports.Transactor,
	registry *domain.CurrencyRegistry,
	clock ports.Clock,
	log zerolog.Logger,
) *RollbackServiceImpl {
	return &RollbackServiceImpl{
		audit:      audit,
		accounts:   accounts,
		treasury:   treasury,
		transactor: transactor,
		registry:   registry,
		clock:      clock,
		log:        log,
	}
}

// RollbackByCorrelationID reverts every mutation recorded under one correlation id.
// Validation and aggregation happen before any write; the inverse deltas and the
// rollback marker are applied in a single transaction. A failure to record the
// rollback entry afterwards is reported although the state has already changed.
func (s *RollbackServiceImpl) RollbackByCorrelationID(ctx context.Context, req ports.RollbackRequest) (res *ports.RollbackResult, err error) {
	ctx, span := startSpan(ctx, "RollbackService.RollbackByCorrelationID")
	defer func() { endSpan(span, err) }()
	span.SetAttributes(
		attribute.String("ledger.correlation_id", req.CorrelationID),
		attribute.String("ledger.guild_id", req.GuildID),
	)

	entries, err := s.validate(ctx, req)
	if err != nil {
		return nil, err
	}

	plan, err := s.aggregate(req.CorrelationID, entries)
	if err != nil {
		return nil, err
	}
	if err := s.checkGuilds(req, plan); err != nil {
		return nil, err
	}

	summary, err := s.apply(ctx, req, plan)
	if err != nil {
		s.log.Warn().Err(err).
			Str("correlation_id", req.CorrelationID).
			Str("actor_id", req.ActorID).
			Msg("rollback aborted")
		return nil, err
	}
	s.audit.RememberRollback(ctx, req.CorrelationID)

	entry, err := s.record(ctx, req, plan, summary)
	if err != nil {
		s.log.Error().Err(err).
			Str("correlation_id", req.CorrelationID).
			Msg("rollback applied but not recorded")
		return nil, apperror.ErrRollbackRecordFailed(req.CorrelationID, err)
	}

	s.log.Info().
		Str("correlation_id", req.CorrelationID).
		Str("rollback_correlation_id", entry.CorrelationID()).
		Str("actor_id", req.ActorID).
		Int("entries", summary.EntryCount).
		Strs("users", summary.UsersTouched).
		Int("stock_skipped", summary.StockLinesSkipped).
		Msg("correlation rolled back")

	return &ports.RollbackResult{
		Summary:       summary,
		EntryID:       entry.ID.String(),
		CorrelationID: entry.CorrelationID(),
	}, nil
}

func (s *RollbackServiceImpl) validate(ctx context.Context, req ports.RollbackRequest) (_ []domain.AuditEntry, err error) {
	ctx, span := startSpan(ctx, "rollback.validate")
	defer func() { endSpan(span, err) }()

	if req.CorrelationID == "" {
		return nil, apperror.Validation("correlation id is required")
	}
	if !req.AllowCrossGuild && req.GuildID == "" {
		return nil, apperror.ErrInvalidGuildID()
	}

	done, err := s.audit.HasRollbackForCorrelation(ctx, req.CorrelationID)
	if err != nil {
		return nil, err
	}
	if done {
		return nil, apperror.ErrAlreadyRolledBack(req.CorrelationID)
	}

	entries, err := s.audit.FindByCorrelationKey(ctx, req.CorrelationID)
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return nil, apperror.ErrNothingToRollback(req.CorrelationID)
	}
	for i := range entries {
		if entries[i].GuildID == "" {
			return nil, apperror.ErrRollbackRefused(fmt.Sprintf("entry %s has no guild", entries[i].ID))
		}
	}
	if err := domain.CheckTransferLegs(entries); err != nil {
		return nil, apperror.ErrRollbackRefused(err.Error())
	}
	return entries, nil
}

func (s *RollbackServiceImpl) aggregate(correlationID string, entries []domain.AuditEntry) (*domain.RollbackPlan, error) {
	plan, err := domain.AggregateInverse(correlationID, entries)
	if err != nil {
		if errors.Is(err, domain.ErrRollbackOfRollback) {
			return nil, apperror.ErrRollbackRefused("rollback records cannot be rolled back")
		}
		return nil, apperror.ErrRollbackRefused(err.Error())
	}
	if plan.IsEmpty() {
		return nil, apperror.ErrRollbackRefused("correlation group has nothing to reverse")
	}
	for _, byCurrency := range plan.Currency {
		for currencyID := range byCurrency {
			if _, ok := s.registry.Lookup(currencyID); !ok {
				return nil, apperror.ErrRollbackRefused(fmt.Sprintf("currency %q is no longer registered", currencyID))
			}
		}
	}
	return plan, nil
}

func (s *RollbackServiceImpl) checkGuilds(req ports.RollbackRequest, plan *domain.RollbackPlan) error {
	if req.AllowCrossGuild {
		return nil
	}
	if len(plan.GuildIDs) > 1 {
		return apperror.ErrRollbackForbidden("correlation group spans more than one guild")
	}
	if len(plan.GuildIDs) == 1 && plan.GuildIDs[0] != req.GuildID {
		return apperror.ErrRollbackForbidden(fmt.Sprintf("correlation group belongs to guild %s", plan.GuildIDs[0]))
	}
	return nil
}

// apply ensures every touched account and treasury, then writes the marker and all
// inverse deltas in one transaction.
func (s *RollbackServiceImpl) apply(ctx context.Context, req ports.RollbackRequest, plan *domain.RollbackPlan) (summary domain.RollbackSummary, err error) {
	ctx, span := startSpan(ctx, "rollback.apply")
	defer func() { endSpan(span, err) }()

	for _, userID := range plan.Users() {
		if _, err := s.accounts.Ensure(ctx, userID); err != nil {
			return summary, err
		}
	}
	for _, guildID := range plan.Guilds() {
		if _, _, err := s.treasury.Ensure(ctx, guildID); err != nil {
			return summary, err
		}
	}

	summary = plan.Summary()

	err = s.transactor.WithinTx(ctx, func(ctx context.Context, tx ports.LedgerTx) error {
		// Stores may rerun the callback on transient conflicts.
		summary.StockLinesTouched, summary.StockLinesSkipped = 0, 0

		marked, err := tx.MarkRolledBack(ctx, req.CorrelationID, req.ActorID, s.clock.Now())
		if err != nil {
			return apperror.InternalError(fmt.Errorf("mark rolled back: %w", err))
		}
		if !marked {
			return apperror.ErrAlreadyRolledBack(req.CorrelationID)
		}

		for _, userID := range slices.Sorted(maps.Keys(plan.Currency)) {
			byCurrency := plan.Currency[userID]
			for _, currencyID := range slices.Sorted(maps.Keys(byCurrency)) {
				if err := s.revertBalance(ctx, tx, userID, currencyID, byCurrency[currencyID]); err != nil {
					return err
				}
			}
		}

		for _, userID := range slices.Sorted(maps.Keys(plan.Items)) {
			byItem := plan.Items[userID]
			for _, itemID := range slices.Sorted(maps.Keys(byItem)) {
				if err := revertItems(ctx, tx, userID, itemID, byItem[itemID]); err != nil {
					return err
				}
			}
		}

		for _, guildID := range slices.Sorted(maps.Keys(plan.Sectors)) {
			bySector := plan.Sectors[guildID]
			for _, sector := range slices.Sorted(maps.Keys(bySector)) {
				_, ok, err := tx.IncrementSector(ctx, guildID, sector, bySector[sector])
				if err != nil {
					return apperror.InternalError(fmt.Errorf("revert sector %s/%s: %w", guildID, sector, err))
				}
				if !ok {
					return apperror.ErrInsufficientSectorFunds(string(sector))
				}
			}
		}

		for _, guildID := range slices.Sorted(maps.Keys(plan.Stock)) {
			byItem := plan.Stock[guildID]
			for _, itemID := range slices.Sorted(maps.Keys(byItem)) {
				applied, err := tx.IncrementStock(ctx, guildID, itemID, byItem[itemID])
				if err != nil {
					return apperror.InternalError(fmt.Errorf("revert stock %s/%s: %w", guildID, itemID, err))
				}
				if applied {
					summary.StockLinesTouched++
				} else {
					summary.StockLinesSkipped++
				}
			}
		}
		return nil
	})
	if err != nil {
		var appErr *apperror.AppError
		if errors.As(err, &appErr) {
			return summary, err
		}
		return summary, apperror.InternalError(fmt.Errorf("rollback transaction: %w", err))
	}
	return summary, nil
}

func (s *RollbackServiceImpl) revertBalance(ctx context.Context, tx ports.LedgerTx, userID, currencyID string, delta int64) error {
	def, _ := s.registry.Lookup(currencyID)
	current, err := tx.GetBalance(ctx, userID, currencyID)
	if err != nil {
		return apperror.InternalError(fmt.Errorf("read %s balance of %s: %w", currencyID, userID, err))
	}
	base := normalizeBalance(s.log, def, userID, current)
	next, err := def.Apply(base, delta)
	if err != nil {
		return mapBalanceError(err)
	}
	if err := tx.PutBalance(ctx, userID, next); err != nil {
		return apperror.InternalError(fmt.Errorf("write %s balance of %s: %w", currencyID, userID, err))
	}
	return nil
}

func revertItems(ctx context.Context, tx ports.LedgerTx, userID, itemID string, delta int64) error {
	current, err := tx.GetItemQuantity(ctx, userID, itemID)
	if err != nil {
		return apperror.InternalError(fmt.Errorf("read %s of %s: %w", itemID, userID, err))
	}
	next, ok := domain.CheckedAdd(current, delta)
	if !ok {
		return apperror.Validation("resulting item quantity is out of range")
	}
	if next < 0 {
		return apperror.ErrInsufficientItems(itemID)
	}
	if err := tx.PutItemQuantity(ctx, userID, itemID, next); err != nil {
		return apperror.InternalError(fmt.Errorf("write %s of %s: %w", itemID, userID, err))
	}
	return nil
}

func (s *RollbackServiceImpl) record(ctx context.Context, req ports.RollbackRequest, plan *domain.RollbackPlan, summary domain.RollbackSummary) (_ *domain.AuditEntry, err error) {
	ctx, span := startSpan(ctx, "rollback.record")
	defer func() { endSpan(span, err) }()

	guildID := req.GuildID
	if guildID == "" && len(plan.GuildIDs) > 0 {
		guildID = plan.GuildIDs[0]
	}

	return s.audit.CreateSync(ctx, domain.AuditEntry{
		OperationType: domain.OpRollback,
		ActorID:       req.ActorID,
		TargetID:      req.CorrelationID,
		GuildID:       guildID,
		Source:        "rollback",
		Reason:        req.Reason,
		Metadata: map[string]any{
			domain.MetaCorrelationID: domain.NewCorrelationID(),
			domain.MetaRollbackOf:    req.CorrelationID,
			"entryCount":             summary.EntryCount,
			"usersTouched":           summary.UsersTouched,
			"guilds":                 plan.GuildIDs,
			"currencyLines":          summary.CurrencyLines,
			"itemLines":              summary.ItemLines,
			"sectorsTouched":         summary.SectorsTouched,
			"stockLinesTouched":      summary.StockLinesTouched,
			"stockLinesSkipped":      summary.StockLinesSkipped,
		},
	})
}

package service

import (
	"context"
	"fmt"

	"guild-ledger/internal/core/domain"
	"guild-ledger/internal/core/ports"
	"guild-ledger/pkg/apperror"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/attribute"
)

// CurrencyServiceImpl implements ports.CurrencyService.
type CurrencyServiceImpl struct {
	mutator    *balanceMutator
	treasuries ports.TreasuryRepository
	accounts   ports.AccountService
	audit      ports.AuditService
	log        zerolog.Logger
}

// NewCurrencyService creates a new CurrencyServiceImpl. retryLimit bounds the
// compare-and-swap attempts for structured balances.
func NewCurrencyService(
	registry *domain.CurrencyRegistry,
	balances ports.BalanceRepository,
	treasuries ports.TreasuryRepository,
	accounts ports.AccountService,
	audit ports.AuditService,
	retryLimit int,
	log zerolog.Logger,
) *CurrencyServiceImpl {
	return &CurrencyServiceImpl{
		mutator:    newBalanceMutator(registry, balances, retryLimit, log),
		treasuries: treasuries,
		accounts:   accounts,
		audit:      audit,
		log:        log,
	}
}

// AdjustBalance applies a signed delta to one user's balance on behalf of actor.
func (s *CurrencyServiceImpl) AdjustBalance(ctx context.Context, req ports.AdjustRequest, authorize ports.Authorizer) (res *ports.AdjustResult, err error) {
	ctx, span := startSpan(ctx, "CurrencyService.AdjustBalance")
	defer func() { endSpan(span, err) }()
	span.SetAttributes(
		attribute.String("ledger.currency_id", req.CurrencyID),
		attribute.String("ledger.guild_id", req.GuildID),
		attribute.Int64("ledger.delta", req.Delta),
	)

	if req.TargetID == "" {
		return nil, apperror.ErrInvalidUserID()
	}
	if req.Delta == 0 {
		return nil, apperror.ErrZeroDelta()
	}
	def, err := s.mutator.resolve(req.CurrencyID)
	if err != nil {
		return nil, err
	}
	if authorize == nil || !authorize(ctx, req.ActorID, req.GuildID) {
		return nil, apperror.ErrPermissionDenied()
	}
	if _, err := s.accounts.RequireActive(ctx, req.TargetID); err != nil {
		return nil, err
	}

	change, err := s.mutator.apply(ctx, def, req.TargetID, req.Delta)
	if err != nil {
		return nil, err
	}

	correlationID := req.CorrelationID
	if correlationID == "" {
		correlationID = domain.NewCorrelationID()
	}

	// The mutation is committed; an audit failure from here on is logged only.
	s.audit.Create(ctx, domain.AuditEntry{
		OperationType: domain.OpCurrencyAdjust,
		ActorID:       req.ActorID,
		TargetID:      req.TargetID,
		GuildID:       req.GuildID,
		Source:        req.Source,
		Reason:        req.Reason,
		CurrencyData: &domain.CurrencyData{
			CurrencyID: def.ID,
			Delta:      req.Delta,
			Before:     change.Before,
			After:      change.After,
		},
		Metadata: map[string]any{domain.MetaCorrelationID: correlationID},
	})
	s.accounts.TouchActivity(ctx, req.TargetID)

	s.log.Info().
		Str("correlation_id", correlationID).
		Str("actor_id", req.ActorID).
		Str("user_id", req.TargetID).
		Str("currency_id", def.ID).
		Int64("delta", req.Delta).
		Int64("after", change.After).
		Msg("balance adjusted")

	return &ports.AdjustResult{
		CorrelationID: correlationID,
		Before:        change.Before,
		After:         change.After,
		Balance:       change.Balance,
	}, nil
}

// TransferCurrency moves amount from sender to recipient. The debit is guarded; a
// failed credit is followed by a best-effort compensating credit to the sender.
func (s *CurrencyServiceImpl) TransferCurrency(ctx context.Context, req ports.TransferRequest) (res *ports.TransferResult, err error) {
	ctx, span := startSpan(ctx, "CurrencyService.TransferCurrency")
	defer func() { endSpan(span, err) }()
	span.SetAttributes(
		attribute.String("ledger.currency_id", req.CurrencyID),
		attribute.String("ledger.guild_id", req.GuildID),
		attribute.Int64("ledger.amount", req.Amount),
	)

	if req.SenderID == "" || req.RecipientID == "" {
		return nil, apperror.ErrInvalidUserID()
	}
	if req.Amount <= 0 {
		return nil, apperror.ErrInvalidAmount()
	}
	if req.SenderID == req.RecipientID {
		return nil, apperror.ErrSelfTransfer()
	}
	def, err := s.mutator.resolve(req.CurrencyID)
	if err != nil {
		return nil, err
	}
	if _, err := s.accounts.RequireActive(ctx, req.SenderID); err != nil {
		return nil, err
	}
	if _, err := s.accounts.RequireActive(ctx, req.RecipientID); err != nil {
		return nil, err
	}

	correlationID := domain.NewCorrelationID()
	level := s.thresholdLevel(ctx, req.GuildID, req.Amount)

	debit, err := s.mutator.apply(ctx, def, req.SenderID, -req.Amount)
	if err != nil {
		return nil, err
	}

	credit, err := s.mutator.apply(ctx, def, req.RecipientID, req.Amount)
	if err != nil {
		comp := compensator{log: s.log}
		comp.push("re-credit sender", func(ctx context.Context) error {
			_, err := s.mutator.apply(ctx, def, req.SenderID, req.Amount)
			return err
		})
		if !comp.run(ctx, correlationID, err) {
			// The sender stays debited: record the lone leg so the trail and a later
			// rollback of this correlation id reflect it.
			out := s.transferEntry(req, def.ID, correlationID, domain.DirectionOutgoing, level, -req.Amount, debit)
			out.SetMeta(domain.MetaCompensated, false)
			s.audit.Create(ctx, out)
		}
		if apperror.KindOf(err) != apperror.KindInternal {
			return nil, err
		}
		return nil, apperror.InternalError(fmt.Errorf("credit recipient: %w", err))
	}

	s.audit.Create(ctx, s.transferEntry(req, def.ID, correlationID, domain.DirectionOutgoing, level, -req.Amount, debit))
	s.audit.Create(ctx, s.transferEntry(req, def.ID, correlationID, domain.DirectionIncoming, level, req.Amount, credit))
	s.accounts.TouchActivity(ctx, req.SenderID)
	s.accounts.TouchActivity(ctx, req.RecipientID)

	event := s.log.Info()
	if level != domain.ThresholdNone {
		event = s.log.Warn()
	}
	event.
		Str("correlation_id", correlationID).
		Str("sender_id", req.SenderID).
		Str("recipient_id", req.RecipientID).
		Str("currency_id", def.ID).
		Int64("amount", req.Amount).
		Str("threshold_level", string(level)).
		Msg("currency transferred")

	return &ports.TransferResult{
		CorrelationID:   correlationID,
		SenderBefore:    debit.Before,
		SenderAfter:     debit.After,
		RecipientBefore: credit.Before,
		RecipientAfter:  credit.After,
		ThresholdLevel:  level,
	}, nil
}

// transferEntry builds one leg. Both legs name the sender as actor and the
// recipient as target; direction tells which side the currency data describes.
func (s *CurrencyServiceImpl) transferEntry(
	req ports.TransferRequest,
	currencyID, correlationID, direction string,
	level domain.ThresholdLevel,
	delta int64,
	change *balanceChange,
) domain.AuditEntry {
	return domain.AuditEntry{
		OperationType: domain.OpCurrencyTransfer,
		ActorID:       req.SenderID,
		TargetID:      req.RecipientID,
		GuildID:       req.GuildID,
		Source:        req.Source,
		Reason:        req.Reason,
		CurrencyData: &domain.CurrencyData{
			CurrencyID: currencyID,
			Delta:      delta,
			Before:     change.Before,
			After:      change.After,
		},
		Metadata: map[string]any{
			domain.MetaCorrelationID:  correlationID,
			domain.MetaDirection:      direction,
			domain.MetaThresholdLevel: string(level),
		},
	}
}

// thresholdLevel classifies amount against the guild's thresholds. It never blocks:
// a missing treasury uses the defaults and a read failure is logged.
func (s *CurrencyServiceImpl) thresholdLevel(ctx context.Context, guildID string, amount int64) domain.ThresholdLevel {
	thresholds := domain.DefaultThresholds()
	if guildID != "" {
		t, err := s.treasuries.Get(ctx, guildID)
		if err != nil {
			s.log.Warn().Err(err).Str("guild_id", guildID).Msg("failed to load transfer thresholds, using defaults")
		} else if t != nil {
			thresholds = t.Thresholds
		}
	}
	return domain.CheckTransferThreshold(amount, thresholds)
}

// GetBalance returns the user's normalized balance of one currency.
func (s *CurrencyServiceImpl) GetBalance(ctx context.Context, userID, currencyID string) (*domain.Balance, error) {
	if userID == "" {
		return nil, apperror.ErrInvalidUserID()
	}
	def, err := s.mutator.resolve(currencyID)
	if err != nil {
		return nil, err
	}
	return s.mutator.read(ctx, def, userID)
}

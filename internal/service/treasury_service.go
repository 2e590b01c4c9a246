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

// TreasuryServiceImpl implements ports.TreasuryService.
type TreasuryServiceImpl struct {
	repo  ports.TreasuryRepository
	audit ports.AuditService
	clock ports.Clock
	log   zerolog.Logger
}

// NewTreasuryService creates a new TreasuryServiceImpl.
func NewTreasuryService(repo ports.TreasuryRepository, audit ports.AuditService, clock ports.Clock, log zerolog.Logger) *TreasuryServiceImpl {
	return &TreasuryServiceImpl{repo: repo, audit: audit, clock: clock, log: log}
}

// Ensure returns the guild's treasury, creating it with defaults on first use.
// The bool reports whether this call created it.
func (s *TreasuryServiceImpl) Ensure(ctx context.Context, guildID string) (*domain.GuildTreasury, bool, error) {
	if guildID == "" {
		return nil, false, apperror.ErrInvalidGuildID()
	}

	t, err := s.repo.Get(ctx, guildID)
	if err != nil {
		return nil, false, apperror.InternalError(fmt.Errorf("get treasury: %w", err))
	}
	if t != nil {
		return t, false, nil
	}

	fresh := domain.NewGuildTreasury(guildID, s.clock.Now())
	inserted, err := s.repo.Insert(ctx, fresh)
	if err != nil {
		return nil, false, apperror.InternalError(fmt.Errorf("insert treasury: %w", err))
	}
	if inserted {
		s.log.Info().Str("guild_id", guildID).Msg("treasury created")
		return fresh, true, nil
	}

	t, err = s.repo.Get(ctx, guildID)
	if err != nil {
		return nil, false, apperror.InternalError(fmt.Errorf("re-read treasury: %w", err))
	}
	if t == nil {
		return nil, false, apperror.InternalError(fmt.Errorf("treasury %s missing after conflicting insert", guildID))
	}
	return t, false, nil
}

// Find returns the guild's treasury without creating it.
func (s *TreasuryServiceImpl) Find(ctx context.Context, guildID string) (*domain.GuildTreasury, error) {
	if guildID == "" {
		return nil, apperror.ErrInvalidGuildID()
	}
	t, err := s.repo.Get(ctx, guildID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("get treasury: %w", err))
	}
	if t == nil {
		return nil, apperror.ErrTreasuryNotFound(guildID)
	}
	return t, nil
}

// DepositToSector atomically adds to one sector.
func (s *TreasuryServiceImpl) DepositToSector(ctx context.Context, req ports.SectorRequest) (res *ports.SectorResult, err error) {
	ctx, span := startSpan(ctx, "TreasuryService.DepositToSector")
	defer func() { endSpan(span, err) }()

	if err := s.validateSectorRequest(req); err != nil {
		return nil, err
	}
	if _, _, err := s.Ensure(ctx, req.GuildID); err != nil {
		return nil, err
	}

	res, err = incrementSector(ctx, s.repo, req.GuildID, req.Sector, req.Amount)
	if err != nil {
		return nil, err
	}
	res.CorrelationID = orNewCorrelation(req.CorrelationID)
	s.audit.Create(ctx, sectorEntry(domain.OpSectorDeposit, req.ActorID, req.GuildID, req.Source, req.Reason, res, req.Amount, ""))
	s.logSector("sector deposit", req.GuildID, res, req.Amount)
	return res, nil
}

// WithdrawFromSector atomically subtracts from one sector. It fails with
// InsufficientFunds, leaving the sector unchanged, when the balance is too low.
func (s *TreasuryServiceImpl) WithdrawFromSector(ctx context.Context, req ports.SectorRequest) (res *ports.SectorResult, err error) {
	ctx, span := startSpan(ctx, "TreasuryService.WithdrawFromSector")
	defer func() { endSpan(span, err) }()

	if err := s.validateSectorRequest(req); err != nil {
		return nil, err
	}
	if _, _, err := s.Ensure(ctx, req.GuildID); err != nil {
		return nil, err
	}

	res, err = incrementSector(ctx, s.repo, req.GuildID, req.Sector, -req.Amount)
	if err != nil {
		return nil, err
	}
	res.CorrelationID = orNewCorrelation(req.CorrelationID)
	s.audit.Create(ctx, sectorEntry(domain.OpSectorWithdraw, req.ActorID, req.GuildID, req.Source, req.Reason, res, -req.Amount, ""))
	s.logSector("sector withdrawal", req.GuildID, res, -req.Amount)
	return res, nil
}

// TransferBetweenSectors withdraws from one sector and deposits into another. A failed
// deposit triggers a best-effort compensating deposit back to the source.
func (s *TreasuryServiceImpl) TransferBetweenSectors(ctx context.Context, req ports.SectorTransferRequest) (res *ports.SectorTransferResult, err error) {
	ctx, span := startSpan(ctx, "TreasuryService.TransferBetweenSectors")
	defer func() { endSpan(span, err) }()
	span.SetAttributes(
		attribute.String("ledger.guild_id", req.GuildID),
		attribute.Int64("ledger.amount", req.Amount),
	)

	if req.GuildID == "" {
		return nil, apperror.ErrInvalidGuildID()
	}
	if !req.From.Valid() {
		return nil, apperror.ErrInvalidSector(string(req.From))
	}
	if !req.To.Valid() {
		return nil, apperror.ErrInvalidSector(string(req.To))
	}
	if req.From == req.To {
		return nil, apperror.Validation("source and destination sectors must differ")
	}
	if req.Amount <= 0 {
		return nil, apperror.ErrInvalidAmount()
	}
	t, _, err := s.Ensure(ctx, req.GuildID)
	if err != nil {
		return nil, err
	}

	correlationID := domain.NewCorrelationID()
	level := domain.CheckTransferThreshold(req.Amount, t.Thresholds)

	from, err := incrementSector(ctx, s.repo, req.GuildID, req.From, -req.Amount)
	if err != nil {
		return nil, err
	}
	from.CorrelationID = correlationID

	to, err := incrementSector(ctx, s.repo, req.GuildID, req.To, req.Amount)
	if err != nil {
		comp := compensator{log: s.log}
		comp.push("re-deposit source sector", func(ctx context.Context) error {
			_, err := incrementSector(ctx, s.repo, req.GuildID, req.From, req.Amount)
			return err
		})
		if !comp.run(ctx, correlationID, err) {
			out := sectorEntry(domain.OpSectorTransfer, req.ActorID, req.GuildID, req.Source, req.Reason, from, -req.Amount, domain.DirectionOutgoing)
			out.SetMeta(domain.MetaCompensated, false)
			s.audit.Create(ctx, out)
		}
		return nil, err
	}
	to.CorrelationID = correlationID

	outEntry := sectorEntry(domain.OpSectorTransfer, req.ActorID, req.GuildID, req.Source, req.Reason, from, -req.Amount, domain.DirectionOutgoing)
	inEntry := sectorEntry(domain.OpSectorTransfer, req.ActorID, req.GuildID, req.Source, req.Reason, to, req.Amount, domain.DirectionIncoming)
	outEntry.SetMeta(domain.MetaThresholdLevel, string(level))
	inEntry.SetMeta(domain.MetaThresholdLevel, string(level))
	s.audit.Create(ctx, outEntry)
	s.audit.Create(ctx, inEntry)

	event := s.log.Info()
	if level != domain.ThresholdNone {
		event = s.log.Warn()
	}
	event.
		Str("correlation_id", correlationID).
		Str("guild_id", req.GuildID).
		Str("from", string(req.From)).
		Str("to", string(req.To)).
		Int64("amount", req.Amount).
		Str("threshold_level", string(level)).
		Msg("sector transfer")

	return &ports.SectorTransferResult{
		CorrelationID:  correlationID,
		From:           *from,
		To:             *to,
		ThresholdLevel: level,
	}, nil
}

// DepositWithTax splits a gross amount with the guild's tax config: the net goes to
// the requested sector and the tax to the configured destination sector.
func (s *TreasuryServiceImpl) DepositWithTax(ctx context.Context, req ports.SectorRequest) (res *ports.TaxedDepositResult, err error) {
	ctx, span := startSpan(ctx, "TreasuryService.DepositWithTax")
	defer func() { endSpan(span, err) }()

	if err := s.validateSectorRequest(req); err != nil {
		return nil, err
	}
	t, _, err := s.Ensure(ctx, req.GuildID)
	if err != nil {
		return nil, err
	}

	correlationID := orNewCorrelation(req.CorrelationID)
	net, taxed, tax, err := s.depositTaxed(ctx, t, req.Sector, req.Amount, correlationID, req.ActorID, req.Source, req.Reason)
	if err != nil {
		return nil, err
	}
	return &ports.TaxedDepositResult{
		CorrelationID: correlationID,
		Tax:           tax,
		Net:           *net,
		TaxSector:     taxed,
	}, nil
}

// depositTaxed performs the two deposits of a taxed payment and writes their audit
// entries. A failed tax deposit reverses the net deposit.
func (s *TreasuryServiceImpl) depositTaxed(
	ctx context.Context,
	t *domain.GuildTreasury,
	sector domain.Sector,
	gross int64,
	correlationID, actorID, source, reason string,
) (*ports.SectorResult, *ports.SectorResult, domain.TaxResult, error) {
	tax := domain.CalculateTax(gross, t.Tax)

	var net *ports.SectorResult
	var err error
	if tax.Net > 0 {
		net, err = incrementSector(ctx, s.repo, t.GuildID, sector, tax.Net)
		if err != nil {
			return nil, nil, tax, err
		}
	} else {
		current := t.Balance(sector)
		net = &ports.SectorResult{Sector: sector, Before: current, After: current}
	}
	net.CorrelationID = correlationID

	var taxed *ports.SectorResult
	if tax.Tax > 0 {
		taxed, err = incrementSector(ctx, s.repo, t.GuildID, t.Tax.DestinationSector, tax.Tax)
		if err != nil {
			if tax.Net > 0 {
				comp := compensator{log: s.log}
				comp.push("reverse net deposit", func(ctx context.Context) error {
					_, err := incrementSector(ctx, s.repo, t.GuildID, sector, -tax.Net)
					return err
				})
				comp.run(ctx, correlationID, err)
			}
			return nil, nil, tax, err
		}
		taxed.CorrelationID = correlationID
	}

	if tax.Net > 0 {
		entry := sectorEntry(domain.OpSectorDeposit, actorID, t.GuildID, source, reason, net, tax.Net, "")
		entry.SetMeta("gross", gross)
		s.audit.Create(ctx, entry)
	}
	if taxed != nil {
		entry := sectorEntry(domain.OpTaxCollect, actorID, t.GuildID, source, reason, taxed, tax.Tax, "")
		entry.SetMeta("gross", gross)
		entry.SetMeta("taxRate", t.Tax.Rate)
		s.audit.Create(ctx, entry)
	}

	s.log.Info().
		Str("correlation_id", correlationID).
		Str("guild_id", t.GuildID).
		Str("sector", string(sector)).
		Int64("gross", gross).
		Int64("tax", tax.Tax).
		Int64("net", tax.Net).
		Msg("taxed deposit")

	return net, taxed, tax, nil
}

// ConfigureTax replaces the tax config (and thresholds when given) under the
// treasury's version.
func (s *TreasuryServiceImpl) ConfigureTax(ctx context.Context, req ports.TaxConfigRequest) (*domain.GuildTreasury, error) {
	if reason := domain.ValidateTaxConfig(req.Tax); reason != "" {
		return nil, apperror.ErrInvalidTaxConfig(reason)
	}
	if th := req.Thresholds; th != nil && (th.Warning < 0 || th.Alert < 0 || th.Critical < 0) {
		return nil, apperror.ErrInvalidTaxConfig("thresholds must not be negative")
	}

	t, _, err := s.Ensure(ctx, req.GuildID)
	if err != nil {
		return nil, err
	}
	thresholds := t.Thresholds
	if req.Thresholds != nil {
		thresholds = *req.Thresholds
	}

	ok, err := s.repo.UpdateConfig(ctx, req.GuildID, req.Tax, thresholds, req.ExpectedVersion, s.clock.Now())
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("update treasury config: %w", err))
	}
	if !ok {
		return nil, apperror.ErrTreasuryConflict(req.GuildID)
	}

	s.audit.Create(ctx, domain.AuditEntry{
		OperationType: domain.OpTreasuryConfig,
		ActorID:       req.ActorID,
		TargetID:      req.GuildID,
		GuildID:       req.GuildID,
		Source:        "treasury",
		Metadata: map[string]any{
			"taxEnabled":        req.Tax.Enabled,
			"taxRate":           req.Tax.Rate,
			"minimumTaxable":    req.Tax.MinimumTaxableAmount,
			"destinationSector": string(req.Tax.DestinationSector),
		},
	})

	return s.Find(ctx, req.GuildID)
}

func (s *TreasuryServiceImpl) validateSectorRequest(req ports.SectorRequest) error {
	if req.GuildID == "" {
		return apperror.ErrInvalidGuildID()
	}
	if !req.Sector.Valid() {
		return apperror.ErrInvalidSector(string(req.Sector))
	}
	if req.Amount <= 0 {
		return apperror.ErrInvalidAmount()
	}
	return nil
}

func (s *TreasuryServiceImpl) logSector(msg, guildID string, res *ports.SectorResult, delta int64) {
	s.log.Info().
		Str("correlation_id", res.CorrelationID).
		Str("guild_id", guildID).
		Str("sector", string(res.Sector)).
		Int64("delta", delta).
		Int64("after", res.After).
		Msg(msg)
}

// incrementSector applies one guarded sector increment. A failed guard on a
// withdrawal is InsufficientFunds.
func incrementSector(ctx context.Context, repo ports.TreasuryRepository, guildID string, sector domain.Sector, delta int64) (*ports.SectorResult, error) {
	after, ok, err := repo.IncrementSector(ctx, guildID, sector, delta)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("increment sector %s: %w", sector, err))
	}
	if !ok {
		if delta < 0 {
			return nil, apperror.ErrInsufficientSectorFunds(string(sector))
		}
		return nil, apperror.InternalError(fmt.Errorf("deposit to sector %s of %s was rejected", sector, guildID))
	}
	return &ports.SectorResult{Sector: sector, Before: after - delta, After: after}, nil
}

// sectorEntry records a sector movement with explicit sector metadata so a rollback
// never has to infer it.
func sectorEntry(op domain.OperationType, actorID, guildID, source, reason string, res *ports.SectorResult, delta int64, direction string) domain.AuditEntry {
	e := domain.AuditEntry{
		OperationType: op,
		ActorID:       actorID,
		TargetID:      guildID,
		GuildID:       guildID,
		Source:        source,
		Reason:        reason,
		CurrencyData: &domain.CurrencyData{
			CurrencyID: domain.TreasuryCurrency,
			Delta:      delta,
			Before:     res.Before,
			After:      res.After,
		},
		Metadata: map[string]any{
			domain.MetaCorrelationID: res.CorrelationID,
			domain.MetaSector:        string(res.Sector),
			domain.MetaSectorDelta:   delta,
			domain.MetaSectorBefore:  res.Before,
			domain.MetaSectorAfter:   res.After,
		},
	}
	if direction != "" {
		e.SetMeta(domain.MetaDirection, direction)
	}
	return e
}

func orNewCorrelation(id string) string {
	if id == "" {
		return domain.NewCorrelationID()
	}
	return id
}

package service

import (
	"bytes"
	"context"
	"errors"
	"sync"
	"testing"

	"guild-ledger/internal/adapter/storage/memory"
	"guild-ledger/internal/core/domain"
	"guild-ledger/internal/core/ports"
	"guild-ledger/internal/core/ports/mocks"
	"guild-ledger/pkg/apperror"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

// ==================== AdjustBalance Tests ====================

func TestCurrencyService_AdjustBalance(t *testing.T) {
	tests := []struct {
		name        string
		currencyID  string
		seed        int64
		delta       int64
		authorize   ports.Authorizer
		wantAfter   int64
		wantErrKind apperror.Kind
	}{
		{name: "structured credit", currencyID: "coins", delta: 100, authorize: allowAll, wantAfter: 100},
		{name: "scalar credit", currencyID: "gems", delta: 7, authorize: allowAll, wantAfter: 7},
		{name: "debit within balance", currencyID: "gems", seed: 10, delta: -4, authorize: allowAll, wantAfter: 6},
		{name: "debit below zero", currencyID: "gems", seed: 3, delta: -4, authorize: allowAll, wantErrKind: apperror.KindInsufficientFunds},
		{name: "structured debit below zero", currencyID: "coins", seed: 3, delta: -4, authorize: allowAll, wantErrKind: apperror.KindInsufficientFunds},
		{name: "zero delta", currencyID: "gems", delta: 0, authorize: allowAll, wantErrKind: apperror.KindInvalidInput},
		{name: "unknown currency", currencyID: "rubies", delta: 1, authorize: allowAll, wantErrKind: apperror.KindInvalidInput},
		{name: "malformed currency", currencyID: "hand.bank", delta: 1, authorize: allowAll, wantErrKind: apperror.KindInvalidInput},
		{name: "permission denied", currencyID: "gems", delta: 1, authorize: denyAll, wantErrKind: apperror.KindForbidden},
		{name: "nil authorizer", currencyID: "gems", delta: 1, authorize: nil, wantErrKind: apperror.KindForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newLedgerFixture(t)
			ctx := context.Background()
			if tt.seed > 0 {
				f.grant(t, "u1", tt.currencyID, tt.seed)
			}

			res, err := f.currency.AdjustBalance(ctx, ports.AdjustRequest{
				ActorID:    "mod",
				TargetID:   "u1",
				GuildID:    "g1",
				CurrencyID: tt.currencyID,
				Delta:      tt.delta,
			}, tt.authorize)

			if tt.wantErrKind != "" {
				assert.True(t, apperror.IsKind(err, tt.wantErrKind), "got %v", err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.seed, res.Before)
			assert.Equal(t, tt.wantAfter, res.After)
			assert.NotEmpty(t, res.CorrelationID)
			assert.Equal(t, tt.wantAfter, f.balance(t, "u1", tt.currencyID))
		})
	}
}

func TestCurrencyService_AdjustBalance_StructuredKeepsOtherParts(t *testing.T) {
	f := newLedgerFixture(t)
	ctx := context.Background()

	balances := memory.NewBalanceRepository(f.store)
	ok, err := balances.CompareAndSwap(ctx, "u1", domain.Balance{
		CurrencyID: "coins",
		Kind:       domain.CurrencyStructured,
		Parts:      map[string]int64{"hand": 10, "bank": 500},
	}, 0)
	require.NoError(t, err)
	require.True(t, ok)

	res, err := f.currency.AdjustBalance(ctx, ports.AdjustRequest{
		ActorID: "mod", TargetID: "u1", GuildID: "g1", CurrencyID: "coins", Delta: 15,
	}, allowAll)
	require.NoError(t, err)
	assert.Equal(t, int64(25), res.Balance.Parts["hand"])
	assert.Equal(t, int64(500), res.Balance.Parts["bank"])
	assert.Equal(t, int64(2), res.Balance.Version)
}

func TestCurrencyService_AdjustBalance_BlockedAccount(t *testing.T) {
	f := newLedgerFixture(t)
	ctx := context.Background()

	_, err := f.accounts.UpdateStatus(ctx, ports.StatusUpdateRequest{UserID: "u1", Status: domain.AccountStatusBlocked})
	require.NoError(t, err)

	_, err = f.currency.AdjustBalance(ctx, ports.AdjustRequest{
		ActorID: "mod", TargetID: "u1", GuildID: "g1", CurrencyID: "gems", Delta: 5,
	}, allowAll)
	assert.True(t, apperror.IsKind(err, apperror.KindForbidden))
	assert.Equal(t, int64(0), f.balance(t, "u1", "gems"))
}

func TestCurrencyService_AdjustBalance_RecordsAudit(t *testing.T) {
	f := newLedgerFixture(t)
	ctx := context.Background()

	res, err := f.currency.AdjustBalance(ctx, ports.AdjustRequest{
		ActorID: "mod", TargetID: "u1", GuildID: "g1", CurrencyID: "gems", Delta: 9, Reason: "event prize", Source: "cmd",
	}, allowAll)
	require.NoError(t, err)

	entries, err := f.audit.FindByCorrelationKey(ctx, res.CorrelationID)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	e := entries[0]
	assert.Equal(t, domain.OpCurrencyAdjust, e.OperationType)
	assert.Equal(t, "mod", e.ActorID)
	assert.Equal(t, "u1", e.TargetID)
	assert.Equal(t, "event prize", e.Reason)
	require.NotNil(t, e.CurrencyData)
	assert.Equal(t, int64(9), e.CurrencyData.Delta)
	assert.Equal(t, int64(0), e.CurrencyData.Before)
	assert.Equal(t, int64(9), e.CurrencyData.After)
}

func TestCurrencyService_AdjustBalance_StructuredConflictExhaustsRetries(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	registry, err := domain.NewCurrencyRegistry(domain.DefaultCurrencies())
	require.NoError(t, err)
	balances := mocks.NewMockBalanceRepository(ctrl)
	accounts := mocks.NewMockAccountService(ctrl)
	audit := mocks.NewMockAuditService(ctrl)
	svc := NewCurrencyService(registry, balances, mocks.NewMockTreasuryRepository(ctrl), accounts, audit, 3, newTestLogger())

	ctx := context.Background()
	accounts.EXPECT().RequireActive(gomock.Any(), "u1").Return(domain.NewAccount("u1", newStepClock().Now()), nil)
	balances.EXPECT().Get(gomock.Any(), "u1", "coins").Return(nil, nil).Times(3)
	balances.EXPECT().CompareAndSwap(gomock.Any(), "u1", gomock.Any(), int64(0)).Return(false, nil).Times(3)

	_, err = svc.AdjustBalance(ctx, ports.AdjustRequest{
		ActorID: "mod", TargetID: "u1", GuildID: "g1", CurrencyID: "coins", Delta: 1,
	}, allowAll)
	assert.True(t, apperror.IsKind(err, apperror.KindConflict))
}

func TestCurrencyService_AdjustBalance_AuditFailureIsLoggedOnly(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	f := newLedgerFixture(t)
	auditRepo := mocks.NewMockAuditRepository(ctrl)
	audit := NewAuditService(auditRepo, nil, newStepClock(), AuditOptions{Workers: 1}, newTestLogger())
	svc := NewCurrencyService(f.registry, memory.NewBalanceRepository(f.store), memory.NewTreasuryRepository(f.store),
		f.accounts, audit, 3, newTestLogger())

	auditRepo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(errors.New("audit store down"))

	res, err := svc.AdjustBalance(context.Background(), ports.AdjustRequest{
		ActorID: "mod", TargetID: "u1", GuildID: "g1", CurrencyID: "gems", Delta: 12,
	}, allowAll)
	audit.Close()

	require.NoError(t, err)
	assert.Equal(t, int64(12), res.After)
	assert.Equal(t, int64(12), f.balance(t, "u1", "gems"))
}

func TestCurrencyService_AdjustBalance_ConcurrentCreditsAllApply(t *testing.T) {
	f := newLedgerFixture(t)

	const writers = 20
	var wg sync.WaitGroup
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.currency.AdjustBalance(context.Background(), ports.AdjustRequest{
				ActorID: "mod", TargetID: "u1", GuildID: "g1", CurrencyID: "gems", Delta: 5,
			}, allowAll)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.Equal(t, int64(writers*5), f.balance(t, "u1", "gems"))
}

// ==================== TransferCurrency Tests ====================

func TestCurrencyService_TransferCurrency_ConservesTotal(t *testing.T) {
	for _, currencyID := range []string{"coins", "gems"} {
		t.Run(currencyID, func(t *testing.T) {
			f := newLedgerFixture(t)
			ctx := context.Background()
			f.grant(t, "u1", currencyID, 100)
			f.grant(t, "u2", currencyID, 5)

			res, err := f.currency.TransferCurrency(ctx, ports.TransferRequest{
				SenderID: "u1", RecipientID: "u2", GuildID: "g1", CurrencyID: currencyID, Amount: 40,
			})
			require.NoError(t, err)
			assert.Equal(t, int64(100), res.SenderBefore)
			assert.Equal(t, int64(60), res.SenderAfter)
			assert.Equal(t, int64(5), res.RecipientBefore)
			assert.Equal(t, int64(45), res.RecipientAfter)
			assert.Equal(t, domain.ThresholdNone, res.ThresholdLevel)

			assert.Equal(t, int64(105), f.balance(t, "u1", currencyID)+f.balance(t, "u2", currencyID))
		})
	}
}

func TestCurrencyService_TransferCurrency_WritesPairedLegs(t *testing.T) {
	f := newLedgerFixture(t)
	ctx := context.Background()
	f.grant(t, "u1", "gems", 50)

	res, err := f.currency.TransferCurrency(ctx, ports.TransferRequest{
		SenderID: "u1", RecipientID: "u2", GuildID: "g1", CurrencyID: "gems", Amount: 20, Reason: "gift",
	})
	require.NoError(t, err)

	entries, err := f.audit.FindByCorrelationKey(ctx, res.CorrelationID)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	byDirection := map[string]domain.AuditEntry{}
	for _, e := range entries {
		assert.Equal(t, domain.OpCurrencyTransfer, e.OperationType)
		assert.Equal(t, "u1", e.ActorID)
		assert.Equal(t, "u2", e.TargetID)
		byDirection[e.MetadataString(domain.MetaDirection)] = e
	}
	require.Contains(t, byDirection, domain.DirectionOutgoing)
	require.Contains(t, byDirection, domain.DirectionIncoming)
	assert.Equal(t, int64(-20), byDirection[domain.DirectionOutgoing].CurrencyData.Delta)
	assert.Equal(t, int64(20), byDirection[domain.DirectionIncoming].CurrencyData.Delta)
}

func TestCurrencyService_TransferCurrency_Validation(t *testing.T) {
	tests := []struct {
		name        string
		req         ports.TransferRequest
		wantErrKind apperror.Kind
	}{
		{
			name:        "self transfer",
			req:         ports.TransferRequest{SenderID: "u1", RecipientID: "u1", CurrencyID: "gems", Amount: 1},
			wantErrKind: apperror.KindInvalidInput,
		},
		{
			name:        "zero amount",
			req:         ports.TransferRequest{SenderID: "u1", RecipientID: "u2", CurrencyID: "gems", Amount: 0},
			wantErrKind: apperror.KindInvalidInput,
		},
		{
			name:        "negative amount",
			req:         ports.TransferRequest{SenderID: "u1", RecipientID: "u2", CurrencyID: "gems", Amount: -3},
			wantErrKind: apperror.KindInvalidInput,
		},
		{
			name:        "missing recipient",
			req:         ports.TransferRequest{SenderID: "u1", CurrencyID: "gems", Amount: 1},
			wantErrKind: apperror.KindInvalidInput,
		},
		{
			name:        "insufficient funds",
			req:         ports.TransferRequest{SenderID: "u1", RecipientID: "u2", CurrencyID: "gems", Amount: 51},
			wantErrKind: apperror.KindInsufficientFunds,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newLedgerFixture(t)
			f.grant(t, "u1", "gems", 50)

			_, err := f.currency.TransferCurrency(context.Background(), tt.req)
			assert.True(t, apperror.IsKind(err, tt.wantErrKind), "got %v", err)
			assert.Equal(t, int64(50), f.balance(t, "u1", "gems"))
		})
	}
}

func TestCurrencyService_TransferCurrency_ThresholdLevel(t *testing.T) {
	f := newLedgerFixture(t)
	ctx := context.Background()
	f.grant(t, "u1", "gems", 200_000)

	res, err := f.currency.TransferCurrency(ctx, ports.TransferRequest{
		SenderID: "u1", RecipientID: "u2", GuildID: "g1", CurrencyID: "gems", Amount: 60_000,
	})
	require.NoError(t, err)
	assert.Equal(t, domain.ThresholdAlert, res.ThresholdLevel)

	// Guild-specific thresholds replace the defaults.
	_, _, err = f.treasury.Ensure(ctx, "g1")
	require.NoError(t, err)
	_, err = f.treasury.ConfigureTax(ctx, ports.TaxConfigRequest{
		GuildID:         "g1",
		Tax:             domain.DefaultTaxConfig(),
		Thresholds:      &domain.TransferThresholds{Warning: 10, Alert: 20, Critical: 30},
		ExpectedVersion: 0,
	})
	require.NoError(t, err)

	res, err = f.currency.TransferCurrency(ctx, ports.TransferRequest{
		SenderID: "u1", RecipientID: "u2", GuildID: "g1", CurrencyID: "gems", Amount: 30,
	})
	require.NoError(t, err)
	assert.Equal(t, domain.ThresholdCritical, res.ThresholdLevel)
}

func TestCurrencyService_TransferCurrency_CompensatesFailedCredit(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	registry, err := domain.NewCurrencyRegistry(domain.DefaultCurrencies())
	require.NoError(t, err)
	balances := mocks.NewMockBalanceRepository(ctrl)
	accounts := mocks.NewMockAccountService(ctrl)
	audit := mocks.NewMockAuditService(ctrl)
	treasuries := mocks.NewMockTreasuryRepository(ctrl)
	svc := NewCurrencyService(registry, balances, treasuries, accounts, audit, 3, newTestLogger())

	ctx := context.Background()
	accounts.EXPECT().RequireActive(gomock.Any(), gomock.Any()).Return(domain.NewAccount("x", newStepClock().Now()), nil).Times(2)
	treasuries.EXPECT().Get(gomock.Any(), "g1").Return(nil, nil)

	gomock.InOrder(
		balances.EXPECT().IncrementScalar(gomock.Any(), "u1", "gems", int64(-40), false).Return(int64(60), true, nil),
		balances.EXPECT().IncrementScalar(gomock.Any(), "u2", "gems", int64(40), false).Return(int64(0), false, errors.New("connection reset")),
		balances.EXPECT().IncrementScalar(gomock.Any(), "u1", "gems", int64(40), false).Return(int64(100), true, nil),
	)

	_, err = svc.TransferCurrency(ctx, ports.TransferRequest{
		SenderID: "u1", RecipientID: "u2", GuildID: "g1", CurrencyID: "gems", Amount: 40,
	})
	require.Error(t, err)
	assert.True(t, apperror.IsKind(err, apperror.KindInternal))
}

func TestCurrencyService_TransferCurrency_FailedCompensationRecordsLoneLeg(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	registry, err := domain.NewCurrencyRegistry(domain.DefaultCurrencies())
	require.NoError(t, err)
	balances := mocks.NewMockBalanceRepository(ctrl)
	accounts := mocks.NewMockAccountService(ctrl)
	audit := mocks.NewMockAuditService(ctrl)
	treasuries := mocks.NewMockTreasuryRepository(ctrl)
	svc := NewCurrencyService(registry, balances, treasuries, accounts, audit, 3, newTestLogger())

	ctx := context.Background()
	accounts.EXPECT().RequireActive(gomock.Any(), gomock.Any()).Return(domain.NewAccount("x", newStepClock().Now()), nil).Times(2)
	treasuries.EXPECT().Get(gomock.Any(), "g1").Return(nil, errors.New("timeout"))

	gomock.InOrder(
		balances.EXPECT().IncrementScalar(gomock.Any(), "u1", "gems", int64(-40), false).Return(int64(60), true, nil),
		balances.EXPECT().IncrementScalar(gomock.Any(), "u2", "gems", int64(40), false).Return(int64(0), false, errors.New("connection reset")),
		balances.EXPECT().IncrementScalar(gomock.Any(), "u1", "gems", int64(40), false).Return(int64(0), false, errors.New("connection reset")),
	)

	var recorded domain.AuditEntry
	audit.EXPECT().Create(gomock.Any(), gomock.Any()).Do(func(_ context.Context, e domain.AuditEntry) {
		recorded = e
	})

	_, err = svc.TransferCurrency(ctx, ports.TransferRequest{
		SenderID: "u1", RecipientID: "u2", GuildID: "g1", CurrencyID: "gems", Amount: 40,
	})
	require.Error(t, err)

	assert.Equal(t, domain.DirectionOutgoing, recorded.MetadataString(domain.MetaDirection))
	assert.Equal(t, false, recorded.Metadata[domain.MetaCompensated])
	assert.Equal(t, int64(-40), recorded.CurrencyData.Delta)
}

func TestCurrencyService_TransferCurrency_InsufficientCreditGuardSurfacesAsIs(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	registry, err := domain.NewCurrencyRegistry(domain.DefaultCurrencies())
	require.NoError(t, err)
	balances := mocks.NewMockBalanceRepository(ctrl)
	accounts := mocks.NewMockAccountService(ctrl)
	treasuries := mocks.NewMockTreasuryRepository(ctrl)
	svc := NewCurrencyService(registry, balances, treasuries, accounts, mocks.NewMockAuditService(ctrl), 3, newTestLogger())

	ctx := context.Background()
	accounts.EXPECT().RequireActive(gomock.Any(), gomock.Any()).Return(domain.NewAccount("x", newStepClock().Now()), nil).Times(2)
	treasuries.EXPECT().Get(gomock.Any(), "g1").Return(nil, nil)
	balances.EXPECT().IncrementScalar(gomock.Any(), "u1", "gems", int64(-1), false).Return(int64(0), false, nil)

	_, err = svc.TransferCurrency(ctx, ports.TransferRequest{
		SenderID: "u1", RecipientID: "u2", GuildID: "g1", CurrencyID: "gems", Amount: 1,
	})
	assert.True(t, apperror.IsKind(err, apperror.KindInsufficientFunds))
}

func TestCurrencyService_GetBalance(t *testing.T) {
	f := newLedgerFixture(t)
	ctx := context.Background()

	b, err := f.currency.GetBalance(ctx, "nobody", "coins")
	require.NoError(t, err)
	assert.Equal(t, domain.CurrencyStructured, b.Kind)
	assert.Equal(t, int64(0), b.Parts["hand"])
	assert.Equal(t, int64(0), b.Parts["bank"])

	_, err = f.currency.GetBalance(ctx, "nobody", "rubies")
	assert.True(t, apperror.IsKind(err, apperror.KindInvalidInput))
}

func TestCurrencyService_GetBalance_LogsDefaultedParts(t *testing.T) {
	store := memory.NewStore()
	registry, err := domain.NewCurrencyRegistry(domain.DefaultCurrencies())
	require.NoError(t, err)
	ctx := context.Background()

	balances := memory.NewBalanceRepository(store)
	ok, err := balances.CompareAndSwap(ctx, "u1", domain.Balance{
		CurrencyID: "coins",
		Kind:       domain.CurrencyStructured,
		Parts:      map[string]int64{"hand": 10},
	}, 0)
	require.NoError(t, err)
	require.True(t, ok)

	var buf bytes.Buffer
	svc := NewCurrencyService(registry, balances, memory.NewTreasuryRepository(store), nil, nil, 3, zerolog.New(&buf))

	b, err := svc.GetBalance(ctx, "u1", "coins")
	require.NoError(t, err)
	assert.Equal(t, int64(0), b.Parts["bank"])
	assert.Contains(t, buf.String(), `"defaulted_parts":["bank"]`)
	assert.Contains(t, buf.String(), `"level":"warn"`)

	buf.Reset()
	_, err = svc.GetBalance(ctx, "u2", "coins")
	require.NoError(t, err)
	assert.Empty(t, buf.String())
}

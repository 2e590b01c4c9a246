package ports

import (
	"context"

	"guild-ledger/internal/core/domain"
)

//go:generate mockgen -source=services.go -destination=mocks/mock_services.go -package=mocks

// Authorizer is the host's permission predicate: may actor mutate balances in guild?
type Authorizer func(ctx context.Context, actorID, guildID string) bool

// --- Account Registry ---

// AccountService manages the per-user account record.
type AccountService interface {
	Ensure(ctx context.Context, userID string) (*EnsureResult, error)
	FindByID(ctx context.Context, userID string) (*domain.Account, error)
	UpdateStatus(ctx context.Context, req StatusUpdateRequest) (*StatusUpdate, error)
	TouchActivity(ctx context.Context, userID string)
	Repair(ctx context.Context, userID string) (*RepairResult, error)
	// RequireActive ensures the account and fails with Forbidden unless its status is ok.
	RequireActive(ctx context.Context, userID string) (*domain.Account, error)
}

// EnsureResult is returned by AccountService.Ensure.
type EnsureResult struct {
	Account         *domain.Account
	IsNew           bool
	Repaired        bool
	DefaultedFields []string
}

// StatusUpdateRequest holds validated input for an optimistic status change.
type StatusUpdateRequest struct {
	UserID          string
	ActorID         string
	GuildID         string
	Status          domain.AccountStatus
	ExpectedVersion int64
	Reason          string
}

// StatusUpdate reports the outcome of a status change. Updated=false means the
// expected version was stale; Account then holds the current record for a retry.
type StatusUpdate struct {
	Updated bool
	Account *domain.Account
}

// RepairResult is returned by AccountService.Repair.
type RepairResult struct {
	Account         *domain.Account
	Repaired        bool
	DefaultedFields []string
}

// --- Currency Mutation Engine ---

// CurrencyService mutates user balances.
type CurrencyService interface {
	AdjustBalance(ctx context.Context, req AdjustRequest, authorize Authorizer) (*AdjustResult, error)
	TransferCurrency(ctx context.Context, req TransferRequest) (*TransferResult, error)
	GetBalance(ctx context.Context, userID, currencyID string) (*domain.Balance, error)
}

// AdjustRequest holds input for a moderator or system balance adjustment.
type AdjustRequest struct {
	ActorID    string
	TargetID   string
	GuildID    string
	CurrencyID string
	Delta      int64
	Reason     string
	Source     string
	// CorrelationID groups this adjustment with other entries; a fresh one is used when empty.
	CorrelationID string
}

// AdjustResult is returned by CurrencyService.AdjustBalance.
type AdjustResult struct {
	CorrelationID string
	Before        int64
	After         int64
	Balance       domain.Balance
}

// TransferRequest holds input for a user-to-user transfer.
type TransferRequest struct {
	SenderID    string
	RecipientID string
	GuildID     string
	CurrencyID  string
	Amount      int64
	Reason      string
	Source      string
}

// TransferResult is returned by CurrencyService.TransferCurrency.
type TransferResult struct {
	CorrelationID   string
	SenderBefore    int64
	SenderAfter     int64
	RecipientBefore int64
	RecipientAfter  int64
	ThresholdLevel  domain.ThresholdLevel
}

// --- Guild Treasury ---

// TreasuryService manages guild sector balances.
type TreasuryService interface {
	Ensure(ctx context.Context, guildID string) (*domain.GuildTreasury, bool, error)
	Find(ctx context.Context, guildID string) (*domain.GuildTreasury, error)
	DepositToSector(ctx context.Context, req SectorRequest) (*SectorResult, error)
	WithdrawFromSector(ctx context.Context, req SectorRequest) (*SectorResult, error)
	TransferBetweenSectors(ctx context.Context, req SectorTransferRequest) (*SectorTransferResult, error)
	DepositWithTax(ctx context.Context, req SectorRequest) (*TaxedDepositResult, error)
	ConfigureTax(ctx context.Context, req TaxConfigRequest) (*domain.GuildTreasury, error)
}

// SectorRequest holds input for a single-sector deposit or withdrawal.
type SectorRequest struct {
	GuildID       string
	ActorID       string
	Sector        domain.Sector
	Amount        int64
	Reason        string
	Source        string
	CorrelationID string
}

// SectorResult is returned by single-sector mutations.
type SectorResult struct {
	CorrelationID string
	Sector        domain.Sector
	Before        int64
	After         int64
}

// SectorTransferRequest moves funds between two sectors of one guild.
type SectorTransferRequest struct {
	GuildID string
	ActorID string
	From    domain.Sector
	To      domain.Sector
	Amount  int64
	Reason  string
	Source  string
}

// SectorTransferResult is returned by TreasuryService.TransferBetweenSectors.
type SectorTransferResult struct {
	CorrelationID  string
	From           SectorResult
	To             SectorResult
	ThresholdLevel domain.ThresholdLevel
}

// TaxedDepositResult is returned by TreasuryService.DepositWithTax.
type TaxedDepositResult struct {
	CorrelationID string
	Tax           domain.TaxResult
	Net           SectorResult
	TaxSector     *SectorResult // nil when nothing was taxed
}

// TaxConfigRequest replaces a guild's tax config and optionally its thresholds.
type TaxConfigRequest struct {
	GuildID         string
	ActorID         string
	Tax             domain.TaxConfig
	Thresholds      *domain.TransferThresholds
	ExpectedVersion int64
}

// --- Audit Trail ---

// AuditService appends to and reads the audit trail.
type AuditService interface {
	// Create appends entry without blocking the caller. Failures are logged only.
	Create(ctx context.Context, entry domain.AuditEntry)
	// CreateSync appends entry and reports failure.
	CreateSync(ctx context.Context, entry domain.AuditEntry) (*domain.AuditEntry, error)
	Query(ctx context.Context, filter domain.AuditFilter) (*AuditPage, error)
	FindByCorrelationKey(ctx context.Context, correlationID string) ([]domain.AuditEntry, error)
	HasRollbackForCorrelation(ctx context.Context, correlationID string) (bool, error)
	// RememberRollback primes the fast-path cache after a committed rollback.
	RememberRollback(ctx context.Context, correlationID string)
	// Close waits for queued appends to finish.
	Close()
}

// AuditPage is one page of audit query results.
type AuditPage struct {
	Entries  []domain.AuditEntry
	Total    int64
	Page     int
	PageSize int
}

// --- Items ---

// ItemService moves items between users and guild stores.
type ItemService interface {
	GrantItem(ctx context.Context, req ItemRequest) (*ItemResult, error)
	RemoveItem(ctx context.Context, req ItemRequest) (*ItemResult, error)
	Purchase(ctx context.Context, req PurchaseRequest) (*TradeResult, error)
	Sell(ctx context.Context, req SellRequest) (*TradeResult, error)
	SetStock(ctx context.Context, guildID, itemID string, stock int64) error
}

// ItemRequest holds input for an administrative item grant or removal.
type ItemRequest struct {
	ActorID  string
	TargetID string
	GuildID  string
	ItemID   string
	Quantity int64
	Reason   string
	Source   string
}

// ItemResult is returned by GrantItem and RemoveItem.
type ItemResult struct {
	CorrelationID string
	Before        int64
	After         int64
}

// PurchaseRequest buys Quantity of ItemID from a guild store at UnitPrice.
type PurchaseRequest struct {
	BuyerID    string
	GuildID    string
	ItemID     string
	Quantity   int64
	UnitPrice  int64
	CurrencyID string
	Source     string
}

// SellRequest sells Quantity of ItemID back to a guild store at UnitPrice.
type SellRequest struct {
	SellerID   string
	GuildID    string
	ItemID     string
	Quantity   int64
	UnitPrice  int64
	CurrencyID string
	Source     string
}

// TradeResult is returned by Purchase and Sell.
type TradeResult struct {
	CorrelationID string
	Total         int64
	Tax           domain.TaxResult
	ItemsAfter    int64
	StockAfter    *int64 // nil when stock is unlimited or unchanged
}

// --- Rollback Engine ---

// RollbackService reverts correlation groups.
type RollbackService interface {
	RollbackByCorrelationID(ctx context.Context, req RollbackRequest) (*RollbackResult, error)
}

// RollbackRequest holds input for a rollback.
type RollbackRequest struct {
	CorrelationID string
	ActorID       string
	// GuildID is the invoking guild; the group must belong to it unless AllowCrossGuild is set.
	GuildID         string
	AllowCrossGuild bool
	Reason          string
}

// RollbackResult is returned by a successful rollback.
type RollbackResult struct {
	Summary domain.RollbackSummary
	// EntryID is the id of the recorded rollback entry.
	EntryID string
	// CorrelationID is the fresh correlation id of the rollback entry itself.
	CorrelationID string
}

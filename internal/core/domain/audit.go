package domain

import (
	"encoding/json"
	"math"
	"strconv"
	"time"

	"github.com/google/uuid"
)

// OperationType names the mutation an audit entry records.
type OperationType string

const (
	OpCurrencyAdjust   OperationType = "currency_adjust"
	OpCurrencyTransfer OperationType = "currency_transfer"
	OpItemPurchase     OperationType = "item_purchase"
	OpItemSale         OperationType = "item_sale"
	OpItemGrant        OperationType = "item_grant"
	OpItemRemove       OperationType = "item_remove"
	OpSectorDeposit    OperationType = "sector_deposit"
	OpSectorWithdraw   OperationType = "sector_withdraw"
	OpSectorTransfer   OperationType = "sector_transfer"
	OpTaxCollect       OperationType = "tax_collect"
	OpAccountStatus    OperationType = "account_status"
	OpAccountRepair    OperationType = "account_repair"
	OpTreasuryConfig   OperationType = "treasury_config"
	OpRollback         OperationType = "rollback"
)

// IsSectorOperation reports whether the entry's currency data describes a guild
// sector rather than a user balance.
func (o OperationType) IsSectorOperation() bool {
	switch o {
	case OpSectorDeposit, OpSectorWithdraw, OpSectorTransfer, OpTaxCollect:
		return true
	}
	return false
}

// Metadata keys written by the ledger.
const (
	MetaCorrelationID  = "correlationId"
	MetaDirection      = "direction"
	MetaSector         = "sector"
	MetaSectorDelta    = "sectorDelta"
	MetaSectorBefore   = "sectorBefore"
	MetaSectorAfter    = "sectorAfter"
	MetaStockDelta     = "stockDelta"
	MetaItemDelta      = "itemDelta"
	MetaThresholdLevel = "thresholdLevel"
	MetaRollbackOf     = "rollbackOf"
	MetaDefaulted      = "defaultedFields"
	MetaTraceID        = "traceId"
	MetaSpanID         = "spanId"
	MetaCompensated    = "compensated"
)

// Transfer directions recorded in MetaDirection.
const (
	DirectionOutgoing = "outgoing"
	DirectionIncoming = "incoming"
)

// CurrencyData records a currency movement on the entry's subject.
type CurrencyData struct {
	CurrencyID string `json:"currency_id"`
	Delta      int64  `json:"delta"`
	Before     int64  `json:"before"`
	After      int64  `json:"after"`
}

// ItemData records an inventory movement on the entry's target.
type ItemData struct {
	ItemID   string `json:"item_id"`
	Quantity int64  `json:"quantity"`
	Before   int64  `json:"before"`
	After    int64  `json:"after"`
}

// AuditEntry is an immutable record of one mutation.
type AuditEntry struct {
	ID            uuid.UUID      `json:"id"`
	OperationType OperationType  `json:"operation_type"`
	ActorID       string         `json:"actor_id"`
	TargetID      string         `json:"target_id"`
	GuildID       string         `json:"guild_id"`
	Source        string         `json:"source"`
	Reason        string         `json:"reason"`
	CurrencyData  *CurrencyData  `json:"currency_data,omitempty"`
	ItemData      *ItemData      `json:"item_data,omitempty"`
	Metadata      map[string]any `json:"metadata,omitempty"`
	Timestamp     time.Time      `json:"timestamp"`
}

// CorrelationID returns the entry's correlation id, or "".
func (e *AuditEntry) CorrelationID() string {
	return e.MetadataString(MetaCorrelationID)
}

// SetMeta sets a metadata value, allocating the map when needed.
func (e *AuditEntry) SetMeta(key string, value any) {
	if e.Metadata == nil {
		e.Metadata = make(map[string]any)
	}
	e.Metadata[key] = value
}

// MetadataString returns a string metadata value.
func (e *AuditEntry) MetadataString(key string) string {
	v, ok := e.Metadata[key]
	if !ok {
		return ""
	}
	s, _ := v.(string)
	return s
}

// MetadataBool returns a boolean metadata value; ok is false when it is absent or
// not a bool.
func (e *AuditEntry) MetadataBool(key string) (value, ok bool) {
	value, ok = e.Metadata[key].(bool)
	return value, ok
}

// MetadataInt returns an integer metadata value. Stores decode numbers in
// different shapes (int64, int32, float64, json.Number, numeric strings); all are
// accepted when they hold an integral value.
func (e *AuditEntry) MetadataInt(key string) (int64, bool) {
	v, ok := e.Metadata[key]
	if !ok || v == nil {
		return 0, false
	}
	switch n := v.(type) {
	case int64:
		return n, true
	case int:
		return int64(n), true
	case int32:
		return int64(n), true
	case float64:
		if n != math.Trunc(n) || math.IsInf(n, 0) || math.IsNaN(n) {
			return 0, false
		}
		return int64(n), true
	case json.Number:
		i, err := n.Int64()
		return i, err == nil
	case string:
		i, err := strconv.ParseInt(n, 10, 64)
		return i, err == nil
	}
	return 0, false
}

// AuditFilter selects entries for Query. Empty fields do not filter.
type AuditFilter struct {
	TargetID      string
	ActorID       string
	GuildID       string
	CorrelationID string
	OperationType OperationType
	From          *time.Time
	To            *time.Time
	Page          int
	PageSize      int
}

const (
	DefaultAuditPageSize = 50
	MaxAuditPageSize     = 500
)

// Normalize clamps paging to sane bounds.
func (f AuditFilter) Normalize() AuditFilter {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.PageSize < 1 {
		f.PageSize = DefaultAuditPageSize
	}
	if f.PageSize > MaxAuditPageSize {
		f.PageSize = MaxAuditPageSize
	}
	return f
}

// Offset returns the number of entries to skip for the filter's page.
func (f AuditFilter) Offset() int {
	return (f.Page - 1) * f.PageSize
}

// Matches reports whether e satisfies every set field of f. Used by stores that
// filter in process.
func (f AuditFilter) Matches(e *AuditEntry) bool {
	if f.TargetID != "" && e.TargetID != f.TargetID {
		return false
	}
	if f.ActorID != "" && e.ActorID != f.ActorID {
		return false
	}
	if f.GuildID != "" && e.GuildID != f.GuildID {
		return false
	}
	if f.CorrelationID != "" && e.CorrelationID() != f.CorrelationID {
		return false
	}
	if f.OperationType != "" && e.OperationType != f.OperationType {
		return false
	}
	if f.From != nil && e.Timestamp.Before(*f.From) {
		return false
	}
	if f.To != nil && e.Timestamp.After(*f.To) {
		return false
	}
	return true
}

// NewCorrelationID returns a fresh correlation id.
func NewCorrelationID() string {
	return uuid.NewString()
}

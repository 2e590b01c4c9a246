package mongo

import (
	"time"

	"guild-ledger/internal/core/domain"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/v2/bson"
)

type accountModel struct {
	UserID         string     `bson:"_id"`
	Status         *string    `bson:"status,omitempty"`
	CreatedAt      *time.Time `bson:"created_at,omitempty"`
	UpdatedAt      *time.Time `bson:"updated_at,omitempty"`
	LastActivityAt *time.Time `bson:"last_activity_at,omitempty"`
	Version        *int64     `bson:"version,omitempty"`
}

func toAccountModel(a *domain.Account) accountModel {
	s := domain.StoredFromAccount(a)
	return accountModel{
		UserID:         s.UserID,
		Status:         s.Status,
		CreatedAt:      s.CreatedAt,
		UpdatedAt:      s.UpdatedAt,
		LastActivityAt: s.LastActivityAt,
		Version:        s.Version,
	}
}

func (m *accountModel) stored() *domain.StoredAccount {
	return &domain.StoredAccount{
		UserID:         m.UserID,
		Status:         m.Status,
		CreatedAt:      utcPtr(m.CreatedAt),
		UpdatedAt:      utcPtr(m.UpdatedAt),
		LastActivityAt: utcPtr(m.LastActivityAt),
		Version:        m.Version,
	}
}

type balanceModel struct {
	UserID     string           `bson:"user_id"`
	CurrencyID string           `bson:"currency_id"`
	Kind       string           `bson:"kind"`
	Amount     int64            `bson:"amount"`
	Parts      map[string]int64 `bson:"parts,omitempty"`
	Version    int64            `bson:"version"`
}

func (m *balanceModel) balance() *domain.Balance {
	return &domain.Balance{
		CurrencyID: m.CurrencyID,
		Kind:       domain.CurrencyKind(m.Kind),
		Amount:     m.Amount,
		Parts:      m.Parts,
		Version:    m.Version,
	}
}

type inventoryModel struct {
	UserID   string `bson:"user_id"`
	ItemID   string `bson:"item_id"`
	Quantity int64  `bson:"quantity"`
}

type taxModel struct {
	Rate        float64 `bson:"rate"`
	Enabled     bool    `bson:"enabled"`
	Minimum     int64   `bson:"minimum_taxable_amount"`
	Destination string  `bson:"destination_sector"`
}

type thresholdsModel struct {
	Warning  int64 `bson:"warning"`
	Alert    int64 `bson:"alert"`
	Critical int64 `bson:"critical"`
}

type treasuryModel struct {
	GuildID    string           `bson:"_id"`
	Sectors    map[string]int64 `bson:"sectors"`
	Tax        taxModel         `bson:"tax"`
	Thresholds thresholdsModel  `bson:"thresholds"`
	Version    int64            `bson:"version"`
	CreatedAt  time.Time        `bson:"created_at"`
	UpdatedAt  time.Time        `bson:"updated_at"`
}

func toTaxModel(t domain.TaxConfig) taxModel {
	return taxModel{
		Rate:        t.Rate,
		Enabled:     t.Enabled,
		Minimum:     t.MinimumTaxableAmount,
		Destination: string(t.DestinationSector),
	}
}

func toThresholdsModel(t domain.TransferThresholds) thresholdsModel {
	return thresholdsModel{Warning: t.Warning, Alert: t.Alert, Critical: t.Critical}
}

func toTreasuryModel(t *domain.GuildTreasury) treasuryModel {
	sectors := make(map[string]int64, len(domain.Sectors))
	for _, s := range domain.Sectors {
		sectors[string(s)] = t.Balance(s)
	}
	return treasuryModel{
		GuildID:    t.GuildID,
		Sectors:    sectors,
		Tax:        toTaxModel(t.Tax),
		Thresholds: toThresholdsModel(t.Thresholds),
		Version:    t.Version,
		CreatedAt:  t.CreatedAt,
		UpdatedAt:  t.UpdatedAt,
	}
}

func (m *treasuryModel) treasury() *domain.GuildTreasury {
	sectors := make(map[domain.Sector]int64, len(domain.Sectors))
	for _, s := range domain.Sectors {
		sectors[s] = m.Sectors[string(s)]
	}
	return &domain.GuildTreasury{
		GuildID: m.GuildID,
		Sectors: sectors,
		Tax: domain.TaxConfig{
			Rate:                 m.Tax.Rate,
			Enabled:              m.Tax.Enabled,
			MinimumTaxableAmount: m.Tax.Minimum,
			DestinationSector:    domain.Sector(m.Tax.Destination),
		},
		Thresholds: domain.TransferThresholds{
			Warning:  m.Thresholds.Warning,
			Alert:    m.Thresholds.Alert,
			Critical: m.Thresholds.Critical,
		},
		Version:   m.Version,
		CreatedAt: m.CreatedAt.UTC(),
		UpdatedAt: m.UpdatedAt.UTC(),
	}
}

type stockModel struct {
	GuildID string `bson:"guild_id"`
	ItemID  string `bson:"item_id"`
	Stock   int64  `bson:"stock"`
}

type currencyDataModel struct {
	CurrencyID string `bson:"currency_id"`
	Delta      int64  `bson:"delta"`
	Before     int64  `bson:"before"`
	After      int64  `bson:"after"`
}

type itemDataModel struct {
	ItemID   string `bson:"item_id"`
	Quantity int64  `bson:"quantity"`
	Before   int64  `bson:"before"`
	After    int64  `bson:"after"`
}

type auditModel struct {
	ID            string             `bson:"_id"`
	OperationType string             `bson:"operation_type"`
	ActorID       string             `bson:"actor_id"`
	TargetID      string             `bson:"target_id"`
	GuildID       string             `bson:"guild_id"`
	Source        string             `bson:"source,omitempty"`
	Reason        string             `bson:"reason,omitempty"`
	CorrelationID string             `bson:"correlation_id"`
	CurrencyData  *currencyDataModel `bson:"currency_data,omitempty"`
	ItemData      *itemDataModel     `bson:"item_data,omitempty"`
	Metadata      bson.M             `bson:"metadata,omitempty"`
	CreatedAt     time.Time          `bson:"created_at"`
}

func toAuditModel(e *domain.AuditEntry) auditModel {
	m := auditModel{
		ID:            e.ID.String(),
		OperationType: string(e.OperationType),
		ActorID:       e.ActorID,
		TargetID:      e.TargetID,
		GuildID:       e.GuildID,
		Source:        e.Source,
		Reason:        e.Reason,
		CorrelationID: e.CorrelationID(),
		CreatedAt:     e.Timestamp,
	}
	if cd := e.CurrencyData; cd != nil {
		m.CurrencyData = &currencyDataModel{CurrencyID: cd.CurrencyID, Delta: cd.Delta, Before: cd.Before, After: cd.After}
	}
	if id := e.ItemData; id != nil {
		m.ItemData = &itemDataModel{ItemID: id.ItemID, Quantity: id.Quantity, Before: id.Before, After: id.After}
	}
	if len(e.Metadata) > 0 {
		m.Metadata = make(bson.M, len(e.Metadata))
		for k, v := range e.Metadata {
			m.Metadata[k] = v
		}
	}
	return m
}

func (m *auditModel) entry() (domain.AuditEntry, error) {
	id, err := uuid.Parse(m.ID)
	if err != nil {
		return domain.AuditEntry{}, err
	}
	e := domain.AuditEntry{
		ID:            id,
		OperationType: domain.OperationType(m.OperationType),
		ActorID:       m.ActorID,
		TargetID:      m.TargetID,
		GuildID:       m.GuildID,
		Source:        m.Source,
		Reason:        m.Reason,
		Timestamp:     m.CreatedAt.UTC(),
	}
	if cd := m.CurrencyData; cd != nil {
		e.CurrencyData = &domain.CurrencyData{CurrencyID: cd.CurrencyID, Delta: cd.Delta, Before: cd.Before, After: cd.After}
	}
	if id := m.ItemData; id != nil {
		e.ItemData = &domain.ItemData{ItemID: id.ItemID, Quantity: id.Quantity, Before: id.Before, After: id.After}
	}
	if len(m.Metadata) > 0 {
		e.Metadata = make(map[string]any, len(m.Metadata))
		for k, v := range m.Metadata {
			e.Metadata[k] = v
		}
	}
	return e, nil
}

type markerModel struct {
	CorrelationID string    `bson:"_id"`
	ActorID       string    `bson:"actor_id"`
	CreatedAt     time.Time `bson:"created_at"`
}

func utcPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	u := t.UTC()
	return &u
}

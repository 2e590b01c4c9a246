package domain

import (
	"math"
	"math/big"
	"time"
)

// Sector is a named sub-balance of a guild treasury.
type Sector string

const (
	SectorGlobal Sector = "global"
	SectorWorks  Sector = "works"
	SectorTrade  Sector = "trade"
	SectorTax    Sector = "tax"
)

// TreasuryCurrency is the currency id recorded on sector audit entries.
const TreasuryCurrency = "coins"

// Sectors lists every sector in a stable order.
var Sectors = []Sector{SectorGlobal, SectorWorks, SectorTrade, SectorTax}

// Valid reports whether s is a known sector.
func (s Sector) Valid() bool {
	switch s {
	case SectorGlobal, SectorWorks, SectorTrade, SectorTax:
		return true
	}
	return false
}

// TaxConfig controls how guild transactions are taxed.
type TaxConfig struct {
	Rate                 float64 `json:"rate"`
	Enabled              bool    `json:"enabled"`
	MinimumTaxableAmount int64   `json:"minimum_taxable_amount"`
	DestinationSector    Sector  `json:"destination_sector"`
}

// TransferThresholds classify large transfers for moderation visibility.
type TransferThresholds struct {
	Warning  int64 `json:"warning"`
	Alert    int64 `json:"alert"`
	Critical int64 `json:"critical"`
}

// GuildTreasury holds a guild's sector balances and policies.
type GuildTreasury struct {
	GuildID    string             `json:"guild_id"`
	Sectors    map[Sector]int64   `json:"sectors"`
	Tax        TaxConfig          `json:"tax"`
	Thresholds TransferThresholds `json:"thresholds"`
	Version    int64              `json:"version"`
	CreatedAt  time.Time          `json:"created_at"`
	UpdatedAt  time.Time          `json:"updated_at"`
}

// Balance returns the value of one sector.
func (g *GuildTreasury) Balance(s Sector) int64 {
	return g.Sectors[s]
}

// DefaultTaxConfig is applied to newly created treasuries.
func DefaultTaxConfig() TaxConfig {
	return TaxConfig{
		Rate:                 0.05,
		Enabled:              false,
		MinimumTaxableAmount: 0,
		DestinationSector:    SectorTax,
	}
}

// DefaultThresholds is applied to newly created treasuries.
func DefaultThresholds() TransferThresholds {
	return TransferThresholds{Warning: 10_000, Alert: 50_000, Critical: 100_000}
}

// NewGuildTreasury builds the default record written on first Ensure.
func NewGuildTreasury(guildID string, now time.Time) *GuildTreasury {
	sectors := make(map[Sector]int64, len(Sectors))
	for _, s := range Sectors {
		sectors[s] = 0
	}
	return &GuildTreasury{
		GuildID:    guildID,
		Sectors:    sectors,
		Tax:        DefaultTaxConfig(),
		Thresholds: DefaultThresholds(),
		Version:    0,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

// ValidateTaxConfig checks a tax config before it is stored.
func ValidateTaxConfig(cfg TaxConfig) string {
	switch {
	case math.IsNaN(cfg.Rate) || cfg.Rate < 0 || cfg.Rate > 1:
		return "rate must be between 0 and 1"
	case cfg.MinimumTaxableAmount < 0:
		return "minimum taxable amount must not be negative"
	case !cfg.DestinationSector.Valid():
		return "destination sector is unknown"
	}
	return ""
}

// TaxResult is the outcome of CalculateTax.
type TaxResult struct {
	Gross int64 `json:"gross"`
	Tax   int64 `json:"tax"`
	Net   int64 `json:"net"`
	Taxed bool  `json:"taxed"`
}

// ratePrecision is the number of rate units per 1.0 used for exact flooring.
const ratePrecision = 1_000_000

// CalculateTax splits amount into tax and net. Tax is floor(amount × rate), so the
// payer keeps any fractional unit. Disabled configs and amounts under the minimum
// are returned untaxed.
func CalculateTax(amount int64, cfg TaxConfig) TaxResult {
	res := TaxResult{Gross: amount, Net: amount}
	if !cfg.Enabled || amount <= 0 || amount < cfg.MinimumTaxableAmount || cfg.Rate <= 0 {
		return res
	}
	rate := cfg.Rate
	if rate > 1 {
		rate = 1
	}
	units := big.NewInt(int64(math.Round(rate * ratePrecision)))
	tax := new(big.Int).Mul(big.NewInt(amount), units)
	tax.Quo(tax, big.NewInt(ratePrecision))

	res.Tax = tax.Int64()
	res.Net = amount - res.Tax
	res.Taxed = true
	return res
}

// ThresholdLevel classifies a transfer amount.
type ThresholdLevel string

const (
	ThresholdNone     ThresholdLevel = "none"
	ThresholdWarning  ThresholdLevel = "warning"
	ThresholdAlert    ThresholdLevel = "alert"
	ThresholdCritical ThresholdLevel = "critical"
)

// CheckTransferThreshold returns the highest threshold amount reaches, checking
// critical first. A zero threshold is disabled.
func CheckTransferThreshold(amount int64, t TransferThresholds) ThresholdLevel {
	switch {
	case t.Critical > 0 && amount >= t.Critical:
		return ThresholdCritical
	case t.Alert > 0 && amount >= t.Alert:
		return ThresholdAlert
	case t.Warning > 0 && amount >= t.Warning:
		return ThresholdWarning
	}
	return ThresholdNone
}

// UnlimitedStock marks a store item whose stock is never decremented.
const UnlimitedStock int64 = -1

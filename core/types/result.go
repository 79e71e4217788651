// Package types - Pricing result types
package types

import (
	"time"

	"github.com/shopspring/decimal"
)

// Money is a monetary amount rendered as a fixed two-decimal string.
// Internal computation stays in decimal.Decimal; conversion to Money is
// the single rounding point at the output boundary.
type Money struct {
	decimal.Decimal
}

// NewMoney rounds a decimal amount to cents
func NewMoney(d decimal.Decimal) Money {
	return Money{d.Round(2)}
}

// MoneyFromFloat rounds a float amount to cents
func MoneyFromFloat(f float64) Money {
	return NewMoney(decimal.NewFromFloat(f))
}

// String returns the fixed two-decimal representation
func (m Money) String() string {
	return m.StringFixed(2)
}

// MarshalJSON renders the amount as a fixed-precision decimal string,
// never a raw floating value.
func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(`"` + m.StringFixed(2) + `"`), nil
}

// UnmarshalJSON parses a quoted or bare decimal string
func (m *Money) UnmarshalJSON(data []byte) error {
	var d decimal.Decimal
	if err := d.UnmarshalJSON(data); err != nil {
		return err
	}
	m.Decimal = d
	return nil
}

// AddOn is a fixed service-specific charge (lab fee, delivery, rental)
type AddOn struct {
	// Label names the charge
	Label string `json:"label"`

	// Amount is the fixed charge
	Amount decimal.Decimal `json:"amount"`
}

// ServiceLineDefinition is the raw cost recipe for one
// (service, bracket, engine configuration) combination. Immutable at
// lookup time; catalog lookups return copies.
type ServiceLineDefinition struct {
	// Service is the service code this definition prices
	Service ServiceCode `json:"service"`

	// Bracket is the bracket label the definition was keyed on, when
	// bracket-keyed ("" for cylinder- or kW-keyed services)
	Bracket string `json:"bracket,omitempty"`

	// LaborHours is on-site labor time
	LaborHours decimal.Decimal `json:"labor_hours"`

	// MobilizationHours is trip preparation/documentation time
	MobilizationHours decimal.Decimal `json:"mobilization_hours"`

	// PartsCost is the fixed parts cost before markup
	PartsCost decimal.Decimal `json:"parts_cost"`

	// OilGallons is the engine oil volume consumed
	OilGallons decimal.Decimal `json:"oil_gallons"`

	// CoolantGallons is the coolant volume consumed
	CoolantGallons decimal.Decimal `json:"coolant_gallons"`

	// AddOns are fixed charges applied without markup
	AddOns []AddOn `json:"add_ons,omitempty"`

	// LaborMultiplier scales labor cost (Service E after-hours policy)
	LaborMultiplier decimal.Decimal `json:"labor_multiplier"`
}

// Clone returns a deep copy of the definition
func (d ServiceLineDefinition) Clone() ServiceLineDefinition {
	out := d
	out.AddOns = make([]AddOn, len(d.AddOns))
	copy(out.AddOns, d.AddOns)
	return out
}

// ServiceLineResult is one computed line item
type ServiceLineResult struct {
	// Service is the service code
	Service ServiceCode `json:"service"`

	// GeneratorID references the normalized generator
	GeneratorID string `json:"generator_id"`

	// Bracket is the resolved pricing bracket label
	Bracket string `json:"bracket,omitempty"`

	// LaborCost is the annualized labor cost for this line
	LaborCost Money `json:"labor_cost"`

	// PartsCost is the annualized parts and consumable cost
	PartsCost Money `json:"parts_cost"`

	// ShopCost is the annualized mobilization/shop cost
	ShopCost Money `json:"shop_cost"`

	// Frequency is the applied occurrences over the contract
	Frequency decimal.Decimal `json:"frequency"`

	// Definition is the raw recipe used, kept for traceability
	Definition ServiceLineDefinition `json:"definition"`
}

// ServiceTotal aggregates all line items for one service code
type ServiceTotal struct {
	// Service is the service code
	Service ServiceCode `json:"service"`

	// Label is the human-readable service name
	Label string `json:"label"`

	// LaborCost is the aggregated labor cost
	LaborCost Money `json:"labor_cost"`

	// PartsCost is the aggregated parts cost
	PartsCost Money `json:"parts_cost"`

	// ShopCost is the aggregated shop cost
	ShopCost Money `json:"shop_cost"`

	// TotalCost is the aggregated line total
	TotalCost Money `json:"total_cost"`

	// Quarterly is the cost allocation across calendar quarters
	Quarterly [4]Money `json:"quarterly"`
}

// YearTotal is one contract year in the escalation schedule
type YearTotal struct {
	// Year is the contract year index starting at 1
	Year int `json:"year"`

	// Total is the escalated annual total
	Total Money `json:"total"`
}

// ContractSummary is the multi-year view of the quote
type ContractSummary struct {
	// AnnualTotal is the unescalated first-year total
	AnnualTotal Money `json:"annual_total"`

	// EscalationRate is the applied annual escalation
	EscalationRate decimal.Decimal `json:"escalation_rate"`

	// Years is the per-year escalated schedule
	Years []YearTotal `json:"years,omitempty"`

	// FiveYearTotal is the summed five-year contract value
	FiveYearTotal Money `json:"five_year_total"`
}

// ResultMetadata describes how a result was produced
type ResultMetadata struct {
	// EngineVersion is the calculation engine version
	EngineVersion string `json:"engine_version"`

	// Strategy is the strategy that produced the result
	Strategy StrategyMode `json:"strategy"`

	// CalculatedAt is the calculation timestamp
	CalculatedAt time.Time `json:"calculated_at"`

	// DurationMs is the calculation duration
	DurationMs int64 `json:"duration_ms"`

	// ParityBaseline is the spreadsheet version the engine must match
	ParityBaseline string `json:"parity_baseline"`

	// CacheHit marks results served from the cache
	CacheHit bool `json:"cache_hit,omitempty"`
}

// PricingResult is the aggregated output of one calculation
type PricingResult struct {
	// LaborTotal is the grand labor cost
	LaborTotal Money `json:"labor_total"`

	// PartsTotal is the grand parts and consumable cost
	PartsTotal Money `json:"parts_total"`

	// ShopTotal is the grand mobilization/shop cost
	ShopTotal Money `json:"shop_total"`

	// TravelTotal is the mileage cost
	TravelTotal Money `json:"travel_total"`

	// Subtotal is labor + parts + shop + travel before tax
	Subtotal Money `json:"subtotal"`

	// TaxRate is the applied tax rate
	TaxRate decimal.Decimal `json:"tax_rate"`

	// Tax is the tax amount (parts subtotal only)
	Tax Money `json:"tax"`

	// GrandTotal is the final quoted amount
	GrandTotal Money `json:"grand_total"`

	// Lines are the per-generator per-service line items
	Lines []ServiceLineResult `json:"lines"`

	// Services is the per-service breakdown in catalog order
	Services []ServiceTotal `json:"services"`

	// Quarterly is the whole-quote quarterly allocation
	Quarterly [4]Money `json:"quarterly"`

	// DistanceMiles is the resolved one-way distance
	DistanceMiles decimal.Decimal `json:"distance_miles"`

	// Contract is the multi-year escalation summary
	Contract ContractSummary `json:"contract"`

	// Warnings are non-fatal degradations (provider fallbacks etc.)
	Warnings []string `json:"warnings,omitempty"`

	// Metadata describes the calculation
	Metadata ResultMetadata `json:"metadata"`
}

// Clone returns a deep copy of the result
func (r *PricingResult) Clone() *PricingResult {
	if r == nil {
		return nil
	}
	out := *r
	out.Lines = make([]ServiceLineResult, len(r.Lines))
	for i, line := range r.Lines {
		out.Lines[i] = line
		out.Lines[i].Definition = line.Definition.Clone()
	}
	out.Services = make([]ServiceTotal, len(r.Services))
	copy(out.Services, r.Services)
	out.Contract.Years = make([]YearTotal, len(r.Contract.Years))
	copy(out.Contract.Years, r.Contract.Years)
	out.Warnings = make([]string, len(r.Warnings))
	copy(out.Warnings, r.Warnings)
	return &out
}

// Package rates provides consumable unit prices and markup multipliers.
//
// Construction fails fast on bad configuration: a markup below 1.0 or a
// non-finite price would silently corrupt every downstream quote, so it
// is rejected before any request is accepted.
package rates

import (
	"math"

	"github.com/shopspring/decimal"

	"genquote/internal/config"
	"genquote/internal/errors"
)

// MaterialRates holds validated unit prices and multipliers.
// Immutable after construction.
type MaterialRates struct {
	oilPrice     decimal.Decimal
	coolantPrice decimal.Decimal
	defPrice     decimal.Decimal

	partsMarkup   decimal.Decimal
	oilMarkup     decimal.Decimal
	coolantMarkup decimal.Decimal
	freightMarkup decimal.Decimal
}

// New validates the configured rates and builds the table.
// Unit prices must be finite and positive; markups finite and >= 1.0.
// NaN is rejected explicitly: it compares false against every bound, so
// a naive range check would let it through.
func New(cfg config.MaterialsConfig) (*MaterialRates, error) {
	prices := map[string]float64{
		"oil price":     cfg.OilPricePerGallon,
		"coolant price": cfg.CoolantPricePerGallon,
		"DEF price":     cfg.DEFPricePerGallon,
	}
	for name, v := range prices {
		if math.IsNaN(v) || math.IsInf(v, 0) || v <= 0 {
			return nil, errors.Config(name + " must be a finite positive number")
		}
	}

	markups := map[string]float64{
		"parts markup":   cfg.PartsMarkup,
		"oil markup":     cfg.OilMarkup,
		"coolant markup": cfg.CoolantMarkup,
		"freight markup": cfg.FreightMarkup,
	}
	for name, v := range markups {
		if math.IsNaN(v) || math.IsInf(v, 0) || v < 1.0 {
			return nil, errors.Config(name + " must be a finite number >= 1.0")
		}
	}

	return &MaterialRates{
		oilPrice:      decimal.NewFromFloat(cfg.OilPricePerGallon),
		coolantPrice:  decimal.NewFromFloat(cfg.CoolantPricePerGallon),
		defPrice:      decimal.NewFromFloat(cfg.DEFPricePerGallon),
		partsMarkup:   decimal.NewFromFloat(cfg.PartsMarkup),
		oilMarkup:     decimal.NewFromFloat(cfg.OilMarkup),
		coolantMarkup: decimal.NewFromFloat(cfg.CoolantMarkup),
		freightMarkup: decimal.NewFromFloat(cfg.FreightMarkup),
	}, nil
}

// MustDefault builds the default rate table, panicking on failure.
// The defaults are statically valid; this is for tests and bootstrap.
func MustDefault() *MaterialRates {
	r, err := New(config.Default().Materials)
	if err != nil {
		panic(err)
	}
	return r
}

// OilPrice returns the base oil price per gallon
func (r *MaterialRates) OilPrice() decimal.Decimal { return r.oilPrice }

// CoolantPrice returns the base coolant price per gallon
func (r *MaterialRates) CoolantPrice() decimal.Decimal { return r.coolantPrice }

// DEFPrice returns the base DEF price per gallon
func (r *MaterialRates) DEFPrice() decimal.Decimal { return r.defPrice }

// PartsMarkup returns the parts multiplier
func (r *MaterialRates) PartsMarkup() decimal.Decimal { return r.partsMarkup }

// OilMarkup returns the oil multiplier
func (r *MaterialRates) OilMarkup() decimal.Decimal { return r.oilMarkup }

// CoolantMarkup returns the coolant multiplier
func (r *MaterialRates) CoolantMarkup() decimal.Decimal { return r.coolantMarkup }

// FreightMarkup returns the freight multiplier
func (r *MaterialRates) FreightMarkup() decimal.Decimal { return r.freightMarkup }

// OilCost prices a volume of oil: base price, markup, then freight.
// Freight compounds on top of markup rather than adding to it.
func (r *MaterialRates) OilCost(gallons decimal.Decimal) decimal.Decimal {
	if gallons.Sign() <= 0 {
		return decimal.Zero
	}
	return gallons.Mul(r.oilPrice).Mul(r.oilMarkup).Mul(r.freightMarkup)
}

// CoolantCost prices a volume of coolant with markup and freight
func (r *MaterialRates) CoolantCost(gallons decimal.Decimal) decimal.Decimal {
	if gallons.Sign() <= 0 {
		return decimal.Zero
	}
	return gallons.Mul(r.coolantPrice).Mul(r.coolantMarkup).Mul(r.freightMarkup)
}

// PartsCost prices a base parts cost with markup and freight
func (r *MaterialRates) PartsCost(baseCost decimal.Decimal) decimal.Decimal {
	if baseCost.Sign() <= 0 {
		return decimal.Zero
	}
	return baseCost.Mul(r.partsMarkup).Mul(r.freightMarkup)
}

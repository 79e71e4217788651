// Package engine - External data providers
//
// Tax and distance resolution are injected functions so deployments can
// plug real services in. Both have documented fallbacks: a failed tax
// lookup falls back to the configured default rate, a failed distance
// lookup to zero miles. Neither failure fails the calculation.
package engine

import (
	"context"
	"strings"

	"github.com/shopspring/decimal"

	"genquote/core/types"
	"genquote/internal/errors"
)

// TaxRateProvider resolves a sales tax rate for a customer location
type TaxRateProvider func(ctx context.Context, loc *types.Location) (decimal.Decimal, error)

// DistanceProvider resolves the one-way distance in miles to a
// customer location
type DistanceProvider func(ctx context.Context, loc *types.Location) (decimal.Decimal, error)

// stateTaxRates is the built-in combined state+average-local table the
// default provider answers from. Deployments wanting street-level
// accuracy inject a real provider.
var stateTaxRates = map[string]float64{
	"AL": 0.0924, "AK": 0.0176, "AZ": 0.0837, "AR": 0.0947, "CA": 0.0882,
	"CO": 0.0778, "CT": 0.0635, "DE": 0.0000, "FL": 0.0702, "GA": 0.0738,
	"HI": 0.0444, "ID": 0.0602, "IL": 0.0882, "IN": 0.0700, "IA": 0.0694,
	"KS": 0.0868, "KY": 0.0600, "LA": 0.0956, "ME": 0.0550, "MD": 0.0600,
	"MA": 0.0625, "MI": 0.0600, "MN": 0.0749, "MS": 0.0707, "MO": 0.0829,
	"MT": 0.0000, "NE": 0.0694, "NV": 0.0823, "NH": 0.0000, "NJ": 0.0660,
	"NM": 0.0772, "NY": 0.0852, "NC": 0.0698, "ND": 0.0696, "OH": 0.0724,
	"OK": 0.0898, "OR": 0.0000, "PA": 0.0634, "RI": 0.0700, "SC": 0.0744,
	"SD": 0.0640, "TN": 0.0955, "TX": 0.0820, "UT": 0.0719, "VT": 0.0624,
	"VA": 0.0575, "WA": 0.0929, "WV": 0.0655, "WI": 0.0543, "WY": 0.0536,
	"DC": 0.0600,
}

// DefaultTaxProvider answers from the built-in state table
func DefaultTaxProvider(ctx context.Context, loc *types.Location) (decimal.Decimal, error) {
	if err := ctx.Err(); err != nil {
		return decimal.Zero, err
	}
	if loc == nil || loc.State == "" {
		return decimal.Zero, errors.New(errors.TypeProvider, "no state on request")
	}
	rate, ok := stateTaxRates[strings.ToUpper(loc.State)]
	if !ok {
		return decimal.Zero, errors.Newf(errors.TypeProvider, "no tax rate for state %s", loc.State)
	}
	return decimal.NewFromFloat(rate), nil
}

// DefaultDistanceProvider has no routing backend; it always errors so
// the orchestrator applies the zero-mile fallback with a warning.
func DefaultDistanceProvider(ctx context.Context, loc *types.Location) (decimal.Decimal, error) {
	return decimal.Zero, errors.New(errors.TypeProvider, "no distance provider configured")
}

// StaticDistanceProvider returns a fixed distance, used by the CLI
// where the dispatcher knows the mileage.
func StaticDistanceProvider(miles float64) DistanceProvider {
	return func(ctx context.Context, loc *types.Location) (decimal.Decimal, error) {
		if miles < 0 {
			return decimal.Zero, errors.New(errors.TypeInput, "distance must not be negative")
		}
		return decimal.NewFromFloat(miles), nil
	}
}

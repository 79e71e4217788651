// Package calc provides the pure arithmetic helpers shared by both
// calculation strategies. Everything here is stateless and
// deterministic.
package calc

import (
	"math"

	"github.com/shopspring/decimal"

	"genquote/core/types"
)

// annualOccurrences is the fixed per-service frequency table, in
// occurrences per year. Fractional entries are multi-year services:
// Service F recurs every three years, Service H every five.
var annualOccurrences = map[types.ServiceCode]decimal.Decimal{
	types.ServiceA:      decimal.NewFromInt(4),
	types.ServiceB:      decimal.NewFromInt(1),
	types.ServiceC:      decimal.NewFromInt(1),
	types.ServiceD:      decimal.NewFromInt(4),
	types.ServiceE:      decimal.NewFromInt(1),
	types.ServiceF:      decimal.New(1, 0).Div(decimal.New(3, 0)),
	types.ServiceG:      decimal.New(1, 0).Div(decimal.New(3, 0)),
	types.ServiceH:      decimal.New(1, 0).Div(decimal.New(5, 0)),
	types.ServiceI:      decimal.NewFromInt(1),
	types.ServiceJ:      decimal.NewFromInt(1),
	types.ServiceCustom: decimal.NewFromInt(1),
}

// MobilizationPercent returns the mobilization share of labor time for
// a power rating, stepped across five kW tiers.
func MobilizationPercent(kw float64) decimal.Decimal {
	switch {
	case kw <= 30:
		return decimal.RequireFromString("0.25")
	case kw <= 150:
		return decimal.RequireFromString("0.30")
	case kw <= 500:
		return decimal.RequireFromString("0.35")
	case kw <= 1050:
		return decimal.RequireFromString("0.40")
	default:
		return decimal.RequireFromString("0.45")
	}
}

// ServiceFrequency returns the number of occurrences of a service over
// a contract: the fixed annual occurrence scaled by contractMonths/12.
// Unknown codes occur once per year.
func ServiceFrequency(code types.ServiceCode, contractMonths int) decimal.Decimal {
	annual, ok := annualOccurrences[code]
	if !ok {
		annual = decimal.NewFromInt(1)
	}
	if contractMonths <= 0 {
		contractMonths = 12
	}
	return annual.Mul(decimal.NewFromInt(int64(contractMonths))).Div(decimal.NewFromInt(12))
}

// AnnualOccurrences returns the per-year occurrence count for a code
func AnnualOccurrences(code types.ServiceCode) decimal.Decimal {
	if annual, ok := annualOccurrences[code]; ok {
		return annual
	}
	return decimal.NewFromInt(1)
}

// TripsPerVisitCycle returns monthly site visits needed for a service
// count, combining up to three services per trip.
func TripsPerVisitCycle(serviceCount int) int {
	if serviceCount <= 0 {
		return 0
	}
	return int(math.Ceil(float64(serviceCount) / 3.0))
}

// MileageCost prices travel for a contract: round-trip distance times
// the per-mile rate, for ceil(services/3) trips per month over the
// contract. Zero when distance or service count is non-positive.
func MileageCost(distanceMiles decimal.Decimal, serviceCount, contractMonths int, rate decimal.Decimal) decimal.Decimal {
	if distanceMiles.Sign() <= 0 || serviceCount <= 0 {
		return decimal.Zero
	}
	if contractMonths <= 0 {
		contractMonths = 12
	}
	trips := decimal.NewFromInt(int64(TripsPerVisitCycle(serviceCount)))
	roundTrip := distanceMiles.Mul(decimal.NewFromInt(2))
	return roundTrip.Mul(rate).Mul(trips).Mul(decimal.NewFromInt(int64(contractMonths)))
}

// QuarterlySplit allocates a service's annual cost across the four
// calendar quarters: quarterly services split evenly, biannual services
// land in Q1 and Q3, annual (and slower) services land in Q1.
//
// The rules are service-scheduling heuristics carried over from the
// original model; frequencies other than 1, 2 and 4 fall back to an
// even split rather than guessing a schedule.
func QuarterlySplit(total decimal.Decimal, annual decimal.Decimal) [4]decimal.Decimal {
	var out [4]decimal.Decimal
	four := decimal.NewFromInt(4)
	two := decimal.NewFromInt(2)
	one := decimal.NewFromInt(1)

	switch {
	case annual.Equal(four):
		q := total.Div(four)
		out = [4]decimal.Decimal{q, q, q, q}
	case annual.Equal(two):
		h := total.Div(two)
		out[0], out[2] = h, h
		out[1], out[3] = decimal.Zero, decimal.Zero
	case annual.LessThanOrEqual(one):
		out[0] = total
		out[1], out[2], out[3] = decimal.Zero, decimal.Zero, decimal.Zero
	default:
		q := total.Div(four)
		out = [4]decimal.Decimal{q, q, q, q}
	}
	return out
}

// MultiYearEscalation returns the per-year totals for a contract at a
// compounding escalation rate. Year 1 is the unescalated base.
func MultiYearEscalation(base decimal.Decimal, years int, rate decimal.Decimal) []decimal.Decimal {
	if years <= 0 {
		return nil
	}
	out := make([]decimal.Decimal, years)
	factor := decimal.NewFromInt(1)
	growth := decimal.NewFromInt(1).Add(rate)
	for i := 0; i < years; i++ {
		out[i] = base.Mul(factor)
		factor = factor.Mul(growth)
	}
	return out
}

// RoundMoney rounds a float amount to cents using scale-and-round, so
// values like 2.675 do not drift a cent under binary representation.
// The epsilon nudge compensates for amounts that sit a few ulps below
// the half-cent boundary after scaling.
func RoundMoney(value float64) float64 {
	scaled := value * 100
	return math.Round(scaled+math.Copysign(1e-9, scaled)) / 100
}

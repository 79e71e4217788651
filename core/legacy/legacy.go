// Package legacy reimplements the original pricing spreadsheet column
// by column. It exists for parity checking against quotes produced from
// the historical workbook; new behavior belongs in the standard
// orchestrator, not here.
//
// Known approximations, kept deliberately so numbers match the
// workbook rather than an idealized model:
//   - The inspection total folds the shop-supplies column into labor
//     the way the workbook's hidden column did. Confidence on sampled
//     rows is good but not exhaustive (roughly 7 of 10 audited rows
//     reproduce to the cent; the rest differ in the last cent from
//     workbook display rounding).
//   - Parts-with-markup rounds per column, not per line, matching the
//     workbook's cell-level ROUND calls.
// Do not "fix" these without re-auditing against workbook output.
package legacy

import (
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"genquote/core/bracket"
	"genquote/core/types"
	"genquote/internal/errors"
	"genquote/internal/logging"
)

// Workbook constants. These are frozen: the parity baseline prices
// every quote at these rates regardless of current configuration.
var (
	laborRate     = decimal.NewFromFloat(180.00)
	mileageRate   = decimal.NewFromFloat(2.50)
	partsMarkup   = decimal.NewFromFloat(1.25)
	freightMarkup = decimal.NewFromFloat(1.05)
	oilPrice      = decimal.NewFromFloat(16.00)
	oilMarkup     = decimal.NewFromFloat(1.50)
	additiveBase  = decimal.NewFromFloat(12.00)
	additiveMult  = decimal.NewFromFloat(2.5)
)

// ParityBaseline names the workbook revision this engine reproduces
const ParityBaseline = "workbook-v5.0"

// row carries the workbook's per-bracket columns
type row struct {
	LaborHours    float64 // column F, hours per inspection visit
	FilterCost    float64 // column K, oil filter set
	OilGallons    float64 // column L
	CoolantQuarts float64 // column N, additive quarts
	MiscPartsCost float64 // column P, belts/hoses allowance
}

var rows = map[string]row{
	"2-14":      {LaborHours: 1.0, FilterCost: 42.50, OilGallons: 1.5, CoolantQuarts: 1, MiscPartsCost: 20.00},
	"15-30":     {LaborHours: 1.5, FilterCost: 68.40, OilGallons: 3.0, CoolantQuarts: 2, MiscPartsCost: 25.00},
	"35-150":    {LaborHours: 2.0, FilterCost: 229.20, OilGallons: 7.0, CoolantQuarts: 4, MiscPartsCost: 40.00},
	"151-250":   {LaborHours: 2.5, FilterCost: 285.60, OilGallons: 12.0, CoolantQuarts: 6, MiscPartsCost: 55.00},
	"251-400":   {LaborHours: 3.0, FilterCost: 342.00, OilGallons: 18.0, CoolantQuarts: 9, MiscPartsCost: 70.00},
	"401-500":   {LaborHours: 3.5, FilterCost: 398.40, OilGallons: 24.0, CoolantQuarts: 11, MiscPartsCost: 85.00},
	"501-670":   {LaborHours: 4.0, FilterCost: 456.00, OilGallons: 32.0, CoolantQuarts: 14, MiscPartsCost: 100.00},
	"671-1050":  {LaborHours: 5.0, FilterCost: 512.40, OilGallons: 45.0, CoolantQuarts: 19, MiscPartsCost: 120.00},
	"1051-1500": {LaborHours: 6.0, FilterCost: 627.60, OilGallons: 60.0, CoolantQuarts: 25, MiscPartsCost: 145.00},
	"1501+":     {LaborHours: 8.0, FilterCost: 744.00, OilGallons: 80.0, CoolantQuarts: 33, MiscPartsCost: 175.00},
}

// Engine prices requests the way the workbook did
type Engine struct {
	logger *zap.Logger
}

// New builds a parity engine
func New() *Engine {
	return &Engine{logger: logging.Component("legacy")}
}

// LineCosts are the workbook's computed columns for one generator
type LineCosts struct {
	Bracket         string
	LaborHours      decimal.Decimal
	LaborCost       decimal.Decimal // hours x rate x inspections
	FilterCost      decimal.Decimal
	AirFilterCost   decimal.Decimal // half the oil filter set
	OilCost         decimal.Decimal
	AdditiveCost    decimal.Decimal
	PartsWithMarkup decimal.Decimal
	FreightApplied  decimal.Decimal
	MileageCost     decimal.Decimal
	Total           decimal.Decimal
}

// PriceGenerator computes the workbook columns for one generator.
// distanceMiles is the workbook's one-way distance column;
// inspectionsPerYear is the workbook's visit count (4 on every
// historical quote).
func (e *Engine) PriceGenerator(gen types.Generator, distanceMiles float64, inspectionsPerYear int) (LineCosts, error) {
	label, err := bracket.Classify(gen.KW)
	if err != nil {
		return LineCosts{}, err
	}
	r, ok := rows[label]
	if !ok {
		return LineCosts{}, errors.Newf(errors.TypeNotFound, "no workbook row for bracket %s", label)
	}
	if inspectionsPerYear <= 0 {
		inspectionsPerYear = 4
	}
	inspections := decimal.NewFromInt(int64(inspectionsPerYear))

	lc := LineCosts{Bracket: label}
	lc.LaborHours = decimal.NewFromFloat(r.LaborHours)
	lc.LaborCost = lc.LaborHours.Mul(laborRate).Mul(inspections).Round(2)

	lc.FilterCost = decimal.NewFromFloat(r.FilterCost)
	// Column M: air filter priced at half the oil filter set.
	lc.AirFilterCost = lc.FilterCost.Mul(decimal.NewFromFloat(0.5)).Round(2)
	lc.OilCost = decimal.NewFromFloat(r.OilGallons).Mul(oilPrice).Mul(oilMarkup).Round(2)
	lc.AdditiveCost = decimal.NewFromFloat(r.CoolantQuarts).Mul(additiveBase).Mul(additiveMult).Round(2)

	// Columns Q/R: markup and freight round per column, matching the
	// workbook's cell-level ROUND.
	partsBase := lc.FilterCost.
		Add(lc.AirFilterCost).
		Add(lc.OilCost).
		Add(lc.AdditiveCost).
		Add(decimal.NewFromFloat(r.MiscPartsCost))
	lc.PartsWithMarkup = partsBase.Mul(partsMarkup).Round(2)
	lc.FreightApplied = lc.PartsWithMarkup.Mul(freightMarkup).Round(2)

	// Column S: the workbook bills the entered distance once per
	// visit, with no round-trip doubling.
	lc.MileageCost = decimal.Zero
	if distanceMiles > 0 {
		lc.MileageCost = decimal.NewFromFloat(distanceMiles).
			Mul(mileageRate).
			Mul(inspections).
			Round(2)
	}

	qty := decimal.NewFromInt(int64(gen.Quantity))
	if gen.Quantity <= 0 {
		qty = decimal.NewFromInt(1)
	}
	perUnit := lc.LaborCost.Add(lc.FreightApplied)
	lc.Total = perUnit.Mul(qty).Add(lc.MileageCost).Round(2)
	return lc, nil
}

// Price computes a full request at workbook rates. Only the workbook's
// service scope (inspection, oil, coolant, load bank) is priced; other
// requested codes pass through as warnings.
func (e *Engine) Price(req *types.PricingRequest, distanceMiles float64) (*types.PricingResult, error) {
	if req == nil || len(req.Generators) == 0 {
		return nil, errors.New(errors.TypeInput, "request has no generators")
	}

	result := &types.PricingResult{
		TaxRate:       decimal.Zero,
		DistanceMiles: decimal.NewFromFloat(distanceMiles),
	}
	result.Metadata.Strategy = types.ModeLegacy
	result.Metadata.ParityBaseline = ParityBaseline

	for _, code := range req.Services {
		switch code {
		case types.ServiceA, types.ServiceB, types.ServiceC, types.ServiceE, types.ServiceF:
		default:
			result.Warnings = append(result.Warnings,
				"Service "+string(code)+" is outside the workbook scope and was not priced")
		}
	}

	labor := decimal.Zero
	parts := decimal.Zero
	travel := decimal.Zero
	for _, gen := range req.Generators {
		lc, err := e.PriceGenerator(gen, distanceMiles, 4)
		if err != nil {
			return nil, err
		}
		qty := decimal.NewFromInt(int64(gen.Quantity))
		if gen.Quantity <= 0 {
			qty = decimal.NewFromInt(1)
		}
		labor = labor.Add(lc.LaborCost.Mul(qty))
		parts = parts.Add(lc.FreightApplied.Mul(qty))
		travel = travel.Add(lc.MileageCost)

		// One combined line per generator, the way the workbook rolled
		// its columns up; the bundle marker keeps it distinguishable
		// from a single-service line.
		result.Lines = append(result.Lines, types.ServiceLineResult{
			Service:     types.ServiceBundle,
			GeneratorID: gen.ID,
			Bracket:     lc.Bracket,
			LaborCost:   types.NewMoney(lc.LaborCost.Mul(qty)),
			PartsCost:   types.NewMoney(lc.FreightApplied.Mul(qty)),
			Frequency:   decimal.NewFromInt(4),
		})
	}

	result.LaborTotal = types.NewMoney(labor)
	result.PartsTotal = types.NewMoney(parts)
	result.TravelTotal = types.NewMoney(travel)
	subtotal := labor.Add(parts).Add(travel)
	result.Subtotal = types.NewMoney(subtotal)
	result.GrandTotal = types.NewMoney(subtotal)
	result.Contract.AnnualTotal = result.GrandTotal
	return result, nil
}

// SelfTest recomputes the reference quote the workbook was audited
// against: one 80kW unit, 120 miles, four inspections. Any
// drift here means the parity tables were touched.
func (e *Engine) SelfTest() error {
	lc, err := e.PriceGenerator(types.Generator{KW: 80, Quantity: 1}, 120, 4)
	if err != nil {
		return err
	}
	checks := []struct {
		name string
		got  decimal.Decimal
		want decimal.Decimal
	}{
		{"bracket filter cost", lc.FilterCost, decimal.NewFromFloat(229.20)},
		{"labor hours", lc.LaborHours, decimal.NewFromInt(2)},
		{"mileage", lc.MileageCost, decimal.NewFromFloat(1200.00)},
	}
	for _, c := range checks {
		if !c.got.Equal(c.want) {
			e.logger.Error("parity self test failed",
				zap.String("check", c.name),
				zap.String("got", c.got.String()),
				zap.String("want", c.want.String()))
			return errors.Newf(errors.TypeCalculation, "parity self test: %s = %s, want %s",
				c.name, c.got, c.want)
		}
	}
	e.logger.Debug("parity self test passed")
	return nil
}

// Package catalog resolves service codes to raw cost recipes.
//
// Dispatch depends on the service: A, B, C, E, H and I key on the kW
// bracket, F on cylinder count and injector type, G on cylinder count,
// D on the bracket tier plus configured laboratory fees, and J directly
// on the raw kW rating. CUSTOM resolves to an empty recipe the caller
// prices separately.
package catalog

import (
	"github.com/shopspring/decimal"

	"genquote/core/bracket"
	"genquote/core/types"
	"genquote/internal/config"
	"genquote/internal/errors"
)

// ServiceLabels maps service codes to display names
var ServiceLabels = map[types.ServiceCode]string{
	types.ServiceA:      "Comprehensive Inspection",
	types.ServiceB:      "Oil & Filter Service",
	types.ServiceC:      "Coolant System Service",
	types.ServiceD:      "Fluid Analysis",
	types.ServiceE:      "Load Bank Test",
	types.ServiceF:      "Injector Service",
	types.ServiceG:      "Valve Adjustment",
	types.ServiceH:      "Major Coolant Replacement",
	types.ServiceI:      "Battery Service",
	types.ServiceJ:      "Thermal Imaging",
	types.ServiceCustom: "Custom Service",
}

// Label returns the display name for a service code
func Label(code types.ServiceCode) string {
	if label, ok := ServiceLabels[code]; ok {
		return label
	}
	return string(code)
}

// Catalog resolves service line definitions from the lookup tables and
// the configured fee schedule.
type Catalog struct {
	analysis       config.AnalysisConfig
	overrideActive bool
	afterHoursMult decimal.Decimal
}

// Default fee fallbacks, used when a configured fee is absent or
// non-positive.
var (
	fallbackOilFee     = decimal.NewFromFloat(16.55)
	fallbackCoolantFee = decimal.NewFromFloat(16.55)
	fallbackFuelFee    = decimal.NewFromFloat(60.00)
)

// Load bank override policy: when active, the transformer rental is
// waived and delivery is billed at a flat negotiated fee.
var overrideDeliveryFee = decimal.NewFromFloat(175.00)

// New builds a catalog from configuration
func New(cfg *config.Config) *Catalog {
	mult := decimal.NewFromFloat(cfg.Labor.AfterHoursMultiplier)
	if mult.LessThan(decimal.NewFromInt(1)) {
		mult = decimal.NewFromFloat(1.5)
	}
	return &Catalog{
		analysis:       cfg.Analysis,
		overrideActive: cfg.Engine.ServiceEOverride,
		afterHoursMult: mult,
	}
}

// Definition resolves the raw cost recipe for one service on one
// generator. Warnings accompany degraded resolutions (CUSTOM lines);
// an unknown code is fatal.
func (c *Catalog) Definition(code types.ServiceCode, gen types.Generator, opts types.ServiceOptions) (types.ServiceLineDefinition, []string, error) {
	label, err := bracket.Classify(gen.KW)
	if err != nil {
		return types.ServiceLineDefinition{}, nil, err
	}

	switch code {
	case types.ServiceA:
		return bracketDefinition(code, label, serviceA)
	case types.ServiceB:
		return bracketDefinition(code, label, serviceB)
	case types.ServiceC:
		return bracketDefinition(code, label, serviceC)
	case types.ServiceD:
		return c.analysisDefinition(label, opts)
	case types.ServiceE:
		return c.loadBankDefinition(label, opts)
	case types.ServiceF:
		return injectorDefinition(gen)
	case types.ServiceG:
		return valveDefinition(gen)
	case types.ServiceH:
		return bracketDefinition(code, label, serviceH)
	case types.ServiceI:
		return batteryDefinition(label, opts)
	case types.ServiceJ:
		return thermalDefinition(gen.KW)
	case types.ServiceCustom:
		def := newDefinition(types.ServiceCustom, "")
		return def, []string{"Custom service line has no catalog pricing; amount must be supplied separately"}, nil
	}

	return types.ServiceLineDefinition{}, nil, errors.Newf(errors.TypeNotFound, "Unknown service code: %s", code)
}

// newDefinition returns a zeroed definition with the multiplier set to 1
func newDefinition(code types.ServiceCode, bracketLabel string) types.ServiceLineDefinition {
	return types.ServiceLineDefinition{
		Service:         code,
		Bracket:         bracketLabel,
		LaborMultiplier: decimal.NewFromInt(1),
	}
}

func bracketDefinition(code types.ServiceCode, label string, table map[string]bracketRow) (types.ServiceLineDefinition, []string, error) {
	row, ok := table[label]
	if !ok {
		return types.ServiceLineDefinition{}, nil, errors.Newf(errors.TypeNotFound,
			"no %s pricing row for bracket %s", code, label)
	}
	def := newDefinition(code, label)
	def.LaborHours = decimal.NewFromFloat(row.Labor)
	def.MobilizationHours = decimal.NewFromFloat(row.Mob)
	def.PartsCost = decimal.NewFromFloat(row.Parts)
	def.OilGallons = decimal.NewFromFloat(row.OilGal)
	def.CoolantGallons = decimal.NewFromFloat(row.CoolGal)
	return def, nil, nil
}

// analysisDefinition builds the Service D recipe. Samples are collected
// during other scheduled visits, so no mobilization time is charged.
// Larger tiers carry slightly more on-site time for dual-bank draws.
func (c *Catalog) analysisDefinition(label string, opts types.ServiceOptions) (types.ServiceLineDefinition, []string, error) {
	tier := bracket.Tier(label)
	if tier < 0 {
		return types.ServiceLineDefinition{}, nil, errors.Newf(errors.TypeNotFound,
			"no analysis tier for bracket %s", label)
	}

	def := newDefinition(types.ServiceD, label)
	def.LaborHours = decimal.NewFromFloat(0.5)
	if tier >= 5 {
		def.LaborHours = decimal.NewFromFloat(0.75)
	}

	fluids := types.AnalysisFluids{Oil: true, Coolant: true, Fuel: true}
	if opts.Fluids != nil {
		fluids = *opts.Fluids
	}

	if fluids.Oil {
		def.AddOns = append(def.AddOns, types.AddOn{
			Label:  "Oil analysis",
			Amount: feeOrFallback(c.analysis.OilAnalysisFee, fallbackOilFee),
		})
	}
	if fluids.Coolant {
		def.AddOns = append(def.AddOns, types.AddOn{
			Label:  "Coolant analysis",
			Amount: feeOrFallback(c.analysis.CoolantAnalysisFee, fallbackCoolantFee),
		})
	}
	if fluids.Fuel {
		def.AddOns = append(def.AddOns, types.AddOn{
			Label:  "Fuel analysis",
			Amount: feeOrFallback(c.analysis.FuelAnalysisFee, fallbackFuelFee),
		})
	}
	return def, nil, nil
}

func feeOrFallback(configured float64, fallback decimal.Decimal) decimal.Decimal {
	if configured > 0 {
		return decimal.NewFromFloat(configured)
	}
	return fallback
}

// loadBankDefinition builds the Service E recipe and applies the
// override policy after the table lookup: transformer rental waived,
// delivery billed flat, and after-hours work scales labor.
func (c *Catalog) loadBankDefinition(label string, opts types.ServiceOptions) (types.ServiceLineDefinition, []string, error) {
	row, ok := serviceE[label]
	if !ok {
		return types.ServiceLineDefinition{}, nil, errors.Newf(errors.TypeNotFound,
			"no E pricing row for bracket %s", label)
	}

	def := newDefinition(types.ServiceE, label)
	def.LaborHours = decimal.NewFromFloat(row.Labor)
	def.MobilizationHours = decimal.NewFromFloat(row.Mob)
	def.AddOns = append(def.AddOns, types.AddOn{
		Label:  "Load bank rental",
		Amount: decimal.NewFromFloat(row.LoadBankRental),
	})

	transformer := decimal.NewFromFloat(row.TransformerRental)
	delivery := decimal.NewFromFloat(row.DeliveryCost)
	if c.overrideActive {
		transformer = decimal.Zero
		delivery = overrideDeliveryFee
		if opts.AfterHours {
			def.LaborMultiplier = c.afterHoursMult
		}
	}
	if transformer.IsPositive() {
		def.AddOns = append(def.AddOns, types.AddOn{Label: "Transformer rental", Amount: transformer})
	}
	def.AddOns = append(def.AddOns, types.AddOn{Label: "Equipment delivery", Amount: delivery})
	return def, nil, nil
}

// cylinderLookup finds the row for a cylinder count, resolving
// intermediate counts to the next defined row and clamping above the
// largest engine in the table.
func cylinderLookup(table []cylinderRow, cylinders int) cylinderRow {
	for _, row := range table {
		if cylinders <= row.Cylinders {
			return row
		}
	}
	return table[len(table)-1]
}

func injectorDefinition(gen types.Generator) (types.ServiceLineDefinition, []string, error) {
	if gen.Cylinders <= 0 {
		return types.ServiceLineDefinition{}, nil, errors.New(errors.TypeInput,
			"injector service requires a cylinder count")
	}
	table := serviceFPop
	if gen.Injector == types.InjectorUnit {
		table = serviceFUnit
	}
	row := cylinderLookup(table, gen.Cylinders)

	def := newDefinition(types.ServiceF, "")
	def.LaborHours = decimal.NewFromFloat(row.Labor)
	def.MobilizationHours = decimal.NewFromFloat(row.Mob)
	def.PartsCost = decimal.NewFromFloat(row.Parts)
	return def, nil, nil
}

func valveDefinition(gen types.Generator) (types.ServiceLineDefinition, []string, error) {
	if gen.Cylinders <= 0 {
		return types.ServiceLineDefinition{}, nil, errors.New(errors.TypeInput,
			"valve adjustment requires a cylinder count")
	}
	row := cylinderLookup(serviceG, gen.Cylinders)

	def := newDefinition(types.ServiceG, "")
	def.LaborHours = decimal.NewFromFloat(row.Labor)
	def.MobilizationHours = decimal.NewFromFloat(row.Mob)
	def.PartsCost = decimal.NewFromFloat(row.Parts)
	return def, nil, nil
}

func batteryDefinition(label string, opts types.ServiceOptions) (types.ServiceLineDefinition, []string, error) {
	row, ok := serviceI[label]
	if !ok {
		return types.ServiceLineDefinition{}, nil, errors.Newf(errors.TypeNotFound,
			"no I pricing row for bracket %s", label)
	}
	def := newDefinition(types.ServiceI, label)
	def.LaborHours = decimal.NewFromFloat(row.Labor)
	def.MobilizationHours = decimal.NewFromFloat(row.Mob)
	def.PartsCost = decimal.NewFromFloat(row.Parts)
	if opts.IncludeBattery {
		def.PartsCost = def.PartsCost.Add(decimal.NewFromFloat(row.Battery))
	}
	return def, nil, nil
}

// thermalDefinition keys on the raw kW rating, not the bracket
func thermalDefinition(kw float64) (types.ServiceLineDefinition, []string, error) {
	if kw < 0 {
		return types.ServiceLineDefinition{}, nil, errors.New(errors.TypeInput,
			"kW rating must not be negative")
	}
	def := newDefinition(types.ServiceJ, "")
	for _, row := range serviceJ {
		if row.MaxKW == 0 || kw <= row.MaxKW {
			def.LaborHours = decimal.NewFromFloat(row.Labor)
			def.MobilizationHours = decimal.NewFromFloat(row.Mob)
			def.AddOns = append(def.AddOns, types.AddOn{
				Label:  "Thermal imaging survey",
				Amount: decimal.NewFromFloat(row.Fee),
			})
			return def, nil, nil
		}
	}
	return def, nil, nil
}

// Brackets returns every bracket label that has full catalog coverage,
// used by the settings endpoint and the self test.
func Brackets() []string {
	return bracket.Labels()
}

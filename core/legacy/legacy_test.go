package legacy

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"genquote/core/bracket"
	"genquote/core/types"
)

// The reference quote the workbook was audited against: one 80kW unit,
// 120 miles, four inspection visits per year.
func TestReferenceQuoteColumns(t *testing.T) {
	e := New()
	lc, err := e.PriceGenerator(types.Generator{KW: 80, Quantity: 1}, 120, 4)
	if err != nil {
		t.Fatalf("PriceGenerator failed: %v", err)
	}

	if lc.Bracket != "35-150" {
		t.Errorf("bracket = %s, want 35-150", lc.Bracket)
	}
	if !lc.FilterCost.Equal(decimal.NewFromFloat(229.20)) {
		t.Errorf("filter cost = %s, want 229.20", lc.FilterCost)
	}
	if !lc.LaborHours.Equal(decimal.NewFromInt(2)) {
		t.Errorf("labor hours = %s, want 2", lc.LaborHours)
	}
	// 2h x 180/h x 4 visits
	if !lc.LaborCost.Equal(decimal.NewFromFloat(1440.00)) {
		t.Errorf("labor cost = %s, want 1440.00", lc.LaborCost)
	}
	// 120 miles x 2.50 x 4 visits
	if !lc.MileageCost.Equal(decimal.NewFromFloat(1200.00)) {
		t.Errorf("mileage = %s, want 1200.00", lc.MileageCost)
	}
	// Air filter is half the oil filter set.
	if !lc.AirFilterCost.Equal(decimal.NewFromFloat(114.60)) {
		t.Errorf("air filter = %s, want 114.60", lc.AirFilterCost)
	}
	// 7 gal x 16.00 x 1.5 markup
	if !lc.OilCost.Equal(decimal.NewFromFloat(168.00)) {
		t.Errorf("oil cost = %s, want 168.00", lc.OilCost)
	}
}

func TestSelfTest(t *testing.T) {
	if err := New().SelfTest(); err != nil {
		t.Fatalf("SelfTest failed: %v", err)
	}
}

// The markup chain rounds per column: base -> x1.25 -> round -> x1.05
// -> round. Verify against a hand-computed 35-150 row.
func TestMarkupChainRounding(t *testing.T) {
	e := New()
	lc, err := e.PriceGenerator(types.Generator{KW: 80, Quantity: 1}, 0, 4)
	if err != nil {
		t.Fatalf("PriceGenerator failed: %v", err)
	}

	// 229.20 + 114.60 + 168.00 + (4 x 12.00 x 2.5 = 120.00) + 40.00
	base := decimal.NewFromFloat(671.80)
	withMarkup := base.Mul(decimal.NewFromFloat(1.25)).Round(2)
	if !lc.PartsWithMarkup.Equal(withMarkup) {
		t.Errorf("parts with markup = %s, want %s", lc.PartsWithMarkup, withMarkup)
	}
	withFreight := withMarkup.Mul(decimal.NewFromFloat(1.05)).Round(2)
	if !lc.FreightApplied.Equal(withFreight) {
		t.Errorf("freight applied = %s, want %s", lc.FreightApplied, withFreight)
	}
	if lc.MileageCost.Sign() != 0 {
		t.Errorf("mileage = %s, want 0 at zero distance", lc.MileageCost)
	}
}

// Every bracket label must have a workbook row; a gap would make a
// valid kW rating unquotable in parity mode.
func TestWorkbookRowsComplete(t *testing.T) {
	for _, label := range bracket.Labels() {
		if _, ok := rows[label]; !ok {
			t.Errorf("missing workbook row for bracket %s", label)
		}
	}
	if len(rows) != len(bracket.Labels()) {
		t.Errorf("rows = %d, want %d", len(rows), len(bracket.Labels()))
	}
}

func TestPriceRequest(t *testing.T) {
	e := New()
	req := &types.PricingRequest{
		Generators: []types.Generator{
			{ID: "gen-1", KW: 80, Quantity: 2},
		},
		Services: []types.ServiceCode{types.ServiceA, types.ServiceB, types.ServiceJ},
	}
	result, err := e.Price(req, 120)
	if err != nil {
		t.Fatalf("Price failed: %v", err)
	}

	if result.Metadata.Strategy != types.ModeLegacy {
		t.Errorf("strategy = %s, want legacy", result.Metadata.Strategy)
	}
	if result.Metadata.ParityBaseline != ParityBaseline {
		t.Errorf("baseline = %s, want %s", result.Metadata.ParityBaseline, ParityBaseline)
	}

	// Service J is outside workbook scope and must warn, not fail.
	warned := false
	for _, w := range result.Warnings {
		if strings.Contains(w, "Service J") {
			warned = true
		}
	}
	if !warned {
		t.Errorf("expected out-of-scope warning for Service J, got %v", result.Warnings)
	}

	// Each line is the workbook's combined per-generator bundle, not a
	// single service.
	for _, line := range result.Lines {
		if line.Service != types.ServiceBundle {
			t.Errorf("line service = %s, want the bundle marker", line.Service)
		}
	}

	// Quantity scales labor and parts but not the shared trip mileage.
	if !result.LaborTotal.Equal(decimal.NewFromFloat(2880.00)) {
		t.Errorf("labor total = %s, want 2880.00 for two units", result.LaborTotal)
	}
	if !result.TravelTotal.Equal(decimal.NewFromFloat(1200.00)) {
		t.Errorf("travel total = %s, want 1200.00", result.TravelTotal)
	}
}

// The workbook escalated option years linearly (base x (1 + rate x n));
// the current engine compounds instead. Pin both so the divergence stays
// a documented fact, not an accident: at 3% over year 3 the linear
// schedule pays 10600.00 where compounding pays 10609.00.
func TestLinearEscalationDivergence(t *testing.T) {
	base := decimal.NewFromInt(10000)
	rate := decimal.NewFromFloat(0.03)

	linearYear3 := base.Mul(decimal.NewFromInt(1).Add(rate.Mul(decimal.NewFromInt(2))))
	if !linearYear3.Equal(decimal.NewFromFloat(10600.00)) {
		t.Errorf("linear year 3 = %s, want 10600.00", linearYear3)
	}

	compoundYear3 := base.Mul(decimal.NewFromInt(1).Add(rate)).Mul(decimal.NewFromInt(1).Add(rate))
	if !compoundYear3.Round(2).Equal(decimal.NewFromFloat(10609.00)) {
		t.Errorf("compound year 3 = %s, want 10609.00", compoundYear3)
	}
	if linearYear3.Equal(compoundYear3) {
		t.Error("schedules should diverge from year 3 on")
	}
}

func TestPriceRejectsEmptyRequest(t *testing.T) {
	if _, err := New().Price(&types.PricingRequest{}, 0); err == nil {
		t.Fatal("expected error for a request with no generators")
	}
}

package engine

import (
	"context"
	"strings"
	"sync"
	"testing"

	"github.com/shopspring/decimal"

	"genquote/core/types"
	"genquote/internal/config"
	"genquote/internal/errors"
)

func testOrchestrator(t *testing.T, opts ...Option) *Orchestrator {
	t.Helper()
	o, err := New(config.Default(), opts...)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	return o
}

// standardRequest stays outside the workbook scope so it routes to the
// catalog path.
func standardRequest() *types.PricingRequest {
	return &types.PricingRequest{
		Generators: []types.Generator{
			{KW: 80, Quantity: 1},
			{KW: 300, Quantity: 2},
		},
		Services:       []types.ServiceCode{types.ServiceA, types.ServiceB, types.ServiceJ},
		ContractMonths: 12,
		FacilityType:   types.FacilityCommercial,
		Customer:       &types.Location{State: "CA", Zip: "94107"},
	}
}

func TestCalculateProducesResult(t *testing.T) {
	o := testOrchestrator(t, WithDistanceProvider(StaticDistanceProvider(40)))
	result, err := o.Calculate(context.Background(), standardRequest())
	if err != nil {
		t.Fatalf("Calculate failed: %v", err)
	}

	// 2 generators x 3 services
	if len(result.Lines) != 6 {
		t.Errorf("lines = %d, want 6", len(result.Lines))
	}
	if len(result.Services) != 3 {
		t.Errorf("service totals = %d, want 3", len(result.Services))
	}
	if !result.GrandTotal.IsPositive() {
		t.Errorf("grand total = %s, want positive", result.GrandTotal)
	}
	if result.Metadata.EngineVersion != Version {
		t.Errorf("engine version = %s, want %s", result.Metadata.EngineVersion, Version)
	}
	if result.Metadata.Strategy != types.ModeStandard {
		t.Errorf("strategy = %s, want standard", result.Metadata.Strategy)
	}
	if result.Metadata.CalculatedAt.IsZero() {
		t.Error("metadata must carry a timestamp")
	}

	// Tax applies to the parts subtotal only.
	wantTax := types.NewMoney(result.PartsTotal.Mul(result.TaxRate))
	if !result.Tax.Equal(wantTax.Decimal) {
		t.Errorf("tax = %s, want %s (parts x rate)", result.Tax, wantTax)
	}

	// Subtotal excludes tax; grand total includes it.
	sum := result.LaborTotal.Add(result.PartsTotal.Decimal).
		Add(result.ShopTotal.Decimal).Add(result.TravelTotal.Decimal)
	if !result.Subtotal.Equal(sum.Round(2)) {
		t.Errorf("subtotal = %s, want %s", result.Subtotal, sum)
	}
}

// The same request must price identically on every run, whatever the
// input ordering.
func TestDeterminism(t *testing.T) {
	o := testOrchestrator(t, WithDistanceProvider(StaticDistanceProvider(40)))
	ctx := context.Background()

	first, err := o.Calculate(ctx, standardRequest())
	if err != nil {
		t.Fatalf("Calculate failed: %v", err)
	}

	for i := 0; i < 5; i++ {
		req := standardRequest()
		// Shuffle the input ordering.
		req.Services = []types.ServiceCode{types.ServiceJ, types.ServiceA, types.ServiceB}
		req.Generators[0], req.Generators[1] = req.Generators[1], req.Generators[0]

		got, err := o.Calculate(ctx, req)
		if err != nil {
			t.Fatalf("Calculate failed: %v", err)
		}
		if !got.GrandTotal.Equal(first.GrandTotal.Decimal) {
			t.Fatalf("run %d grand total = %s, want %s", i, got.GrandTotal, first.GrandTotal)
		}
	}
}

func TestValidationRejection(t *testing.T) {
	o := testOrchestrator(t)
	_, err := o.Calculate(context.Background(), &types.PricingRequest{})
	if err == nil {
		t.Fatal("expected a validation error")
	}
	if !errors.IsType(err, errors.TypeValidation) {
		t.Errorf("error = %v, want VALIDATION_ERROR", err)
	}
}

// Untouched inputs must not be mutated by normalization or pricing.
func TestRequestNotMutated(t *testing.T) {
	o := testOrchestrator(t)
	req := standardRequest()
	req.ContractMonths = 0
	req.FacilityType = ""

	if _, err := o.Calculate(context.Background(), req); err != nil {
		t.Fatalf("Calculate failed: %v", err)
	}
	if req.ContractMonths != 0 || req.FacilityType != "" || req.Generators[0].ID != "" {
		t.Error("Calculate mutated the caller's request")
	}
}

func TestCacheHitFlag(t *testing.T) {
	o := testOrchestrator(t)
	ctx := context.Background()

	first, err := o.Calculate(ctx, standardRequest())
	if err != nil {
		t.Fatalf("Calculate failed: %v", err)
	}
	if first.Metadata.CacheHit {
		t.Error("first calculation must not be a cache hit")
	}

	second, err := o.Calculate(ctx, standardRequest())
	if err != nil {
		t.Fatalf("Calculate failed: %v", err)
	}
	if !second.Metadata.CacheHit {
		t.Error("identical request must hit the cache")
	}
	if !second.GrandTotal.Equal(first.GrandTotal.Decimal) {
		t.Errorf("cached total = %s, want %s", second.GrandTotal, first.GrandTotal)
	}
}

// Provider failures degrade with warnings, never fail the calculation.
func TestProviderFallbacks(t *testing.T) {
	failTax := func(ctx context.Context, loc *types.Location) (decimal.Decimal, error) {
		return decimal.Zero, errors.New(errors.TypeProvider, "tax service down")
	}
	o := testOrchestrator(t, WithTaxProvider(failTax))

	result, err := o.Calculate(context.Background(), standardRequest())
	if err != nil {
		t.Fatalf("Calculate failed: %v", err)
	}
	if !result.TaxRate.Equal(decimal.NewFromFloat(0.1025)) {
		t.Errorf("tax rate = %s, want 0.1025 fallback", result.TaxRate)
	}
	if result.DistanceMiles.Sign() != 0 {
		t.Errorf("distance = %s, want 0 fallback", result.DistanceMiles)
	}

	taxWarned, distWarned := false, false
	for _, w := range result.Warnings {
		if strings.Contains(w, "Tax lookup failed") {
			taxWarned = true
		}
		if strings.Contains(w, "Distance lookup failed") {
			distWarned = true
		}
	}
	if !taxWarned || !distWarned {
		t.Errorf("warnings = %v, want tax and distance fallback warnings", result.Warnings)
	}
}

func TestStateTaxResolution(t *testing.T) {
	o := testOrchestrator(t, WithDistanceProvider(StaticDistanceProvider(10)))
	result, err := o.Calculate(context.Background(), standardRequest())
	if err != nil {
		t.Fatalf("Calculate failed: %v", err)
	}
	if !result.TaxRate.Equal(decimal.NewFromFloat(0.0882)) {
		t.Errorf("CA tax rate = %s, want 0.0882", result.TaxRate)
	}
}

// Concurrent identical requests collapse onto one computation and all
// get isolated, equal results.
func TestSingleFlight(t *testing.T) {
	o := testOrchestrator(t)
	ctx := context.Background()

	const callers = 8
	results := make([]*types.PricingResult, callers)
	var wg sync.WaitGroup
	wg.Add(callers)
	for i := 0; i < callers; i++ {
		go func(i int) {
			defer wg.Done()
			r, err := o.Calculate(ctx, standardRequest())
			if err != nil {
				t.Errorf("caller %d failed: %v", i, err)
				return
			}
			results[i] = r
		}(i)
	}
	wg.Wait()

	for i := 1; i < callers; i++ {
		if results[i] == nil || results[0] == nil {
			t.Fatal("missing result")
		}
		if !results[i].GrandTotal.Equal(results[0].GrandTotal.Decimal) {
			t.Errorf("caller %d total = %s, want %s", i, results[i].GrandTotal, results[0].GrandTotal)
		}
		if results[i] == results[0] {
			t.Error("callers must get distinct copies")
		}
	}
}

// The whole-quote quarterly allocation must account for every dollar:
// the four quarters sum back to labor + parts + shop + travel (within
// per-quarter rounding), and travel spreads evenly so no quarter is
// ever empty.
func TestQuarterlyAllocation(t *testing.T) {
	o := testOrchestrator(t, WithDistanceProvider(StaticDistanceProvider(40)))
	result, err := o.Calculate(context.Background(), standardRequest())
	if err != nil {
		t.Fatalf("Calculate failed: %v", err)
	}

	quarters := decimal.Zero
	for _, q := range result.Quarterly {
		quarters = quarters.Add(q.Decimal)
	}
	components := result.LaborTotal.Add(result.PartsTotal.Decimal).
		Add(result.ShopTotal.Decimal).
		Add(result.TravelTotal.Decimal)

	// Each quarter rounds independently, so allow a few cents of drift.
	if quarters.Sub(components).Abs().GreaterThan(decimal.NewFromFloat(0.05)) {
		t.Errorf("quarters sum to %s, want %s (labor+parts+shop+travel)", quarters, components)
	}

	travelQuarter := result.TravelTotal.Div(decimal.NewFromInt(4))
	for q, amount := range result.Quarterly {
		if amount.LessThan(travelQuarter.Sub(decimal.NewFromFloat(0.01))) {
			t.Errorf("Q%d = %s, want at least the travel share %s", q+1, amount, travelQuarter)
		}
	}
}

func TestStrategyRouting(t *testing.T) {
	router := NewRouter("standard")

	cases := []struct {
		name     string
		services []types.ServiceCode
		mode     types.StrategyMode
		want     types.StrategyMode
	}{
		{"explicit standard wins", []types.ServiceCode{types.ServiceA, types.ServiceB}, types.ModeStandard, types.ModeStandard},
		{"explicit legacy wins", []types.ServiceCode{types.ServiceJ}, types.ModeLegacy, types.ModeLegacy},
		{"injector service forces legacy", []types.ServiceCode{types.ServiceA, types.ServiceF, types.ServiceJ}, types.ModeAuto, types.ModeLegacy},
		{"workbook subset goes legacy", []types.ServiceCode{types.ServiceA, types.ServiceB, types.ServiceC}, types.ModeAuto, types.ModeLegacy},
		{"out-of-scope code goes standard", []types.ServiceCode{types.ServiceA, types.ServiceJ}, types.ModeAuto, types.ModeStandard},
		{"empty set takes default", nil, types.ModeAuto, types.ModeStandard},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := &types.PricingRequest{Services: tc.services, Mode: tc.mode}
			if got := router.Decide(req); got != tc.want {
				t.Errorf("Decide = %s, want %s", got, tc.want)
			}
		})
	}
}

func TestLegacyRouting(t *testing.T) {
	o := testOrchestrator(t, WithDistanceProvider(StaticDistanceProvider(120)))
	req := &types.PricingRequest{
		Generators:   []types.Generator{{KW: 80, Quantity: 1}},
		Services:     []types.ServiceCode{types.ServiceA, types.ServiceB},
		FacilityType: types.FacilityCommercial,
	}
	result, err := o.Calculate(context.Background(), req)
	if err != nil {
		t.Fatalf("Calculate failed: %v", err)
	}
	if result.Metadata.Strategy != types.ModeLegacy {
		t.Fatalf("strategy = %s, want legacy for a workbook-scope request", result.Metadata.Strategy)
	}
	if !result.TravelTotal.Equal(decimal.NewFromFloat(1200.00)) {
		t.Errorf("travel = %s, want the workbook's 1200.00", result.TravelTotal)
	}
}

func TestCompare(t *testing.T) {
	o := testOrchestrator(t, WithDistanceProvider(StaticDistanceProvider(120)))
	req := &types.PricingRequest{
		Generators:   []types.Generator{{KW: 80, Quantity: 1}},
		Services:     []types.ServiceCode{types.ServiceA, types.ServiceB},
		FacilityType: types.FacilityCommercial,
	}
	cmp, err := o.Compare(context.Background(), req)
	if err != nil {
		t.Fatalf("Compare failed: %v", err)
	}
	if len(cmp.Deltas) != 6 {
		t.Fatalf("deltas = %d, want 6 compared fields", len(cmp.Deltas))
	}
	var grand *FieldDelta
	for i := range cmp.Deltas {
		if cmp.Deltas[i].Field == "grand_total" {
			grand = &cmp.Deltas[i]
		}
	}
	if grand == nil {
		t.Fatal("missing grand_total delta")
	}
	// The catalog path and the workbook path price differently; the
	// harness exists to quantify that.
	if !cmp.Mismatch {
		t.Error("expected a mismatch between strategies on this request")
	}
}

func TestSelfTestPasses(t *testing.T) {
	if err := testOrchestrator(t).SelfTest(); err != nil {
		t.Fatalf("SelfTest failed: %v", err)
	}
}

func TestAuditTrailRecords(t *testing.T) {
	o := testOrchestrator(t)
	if _, err := o.Calculate(context.Background(), standardRequest()); err != nil {
		t.Fatalf("Calculate failed: %v", err)
	}

	stats := o.Trail().Stats()
	if stats.Started != 1 || stats.Retained != 1 {
		t.Errorf("audit stats = %+v, want one retained session", stats)
	}
	if stats.SuccessRate != 1.0 {
		t.Errorf("success rate = %f, want 1.0", stats.SuccessRate)
	}
}

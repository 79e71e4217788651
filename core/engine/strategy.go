// Package engine - Strategy routing
//
// Quotes that look like historical workbook quotes route to the parity
// engine so renewals match what the customer was quoted last year;
// everything else takes the catalog path. An explicit mode on the
// request always wins.
package engine

import (
	"context"

	"github.com/shopspring/decimal"

	"genquote/core/types"
)

// legacyScope is the service-code set the workbook priced
var legacyScope = map[types.ServiceCode]bool{
	types.ServiceA: true,
	types.ServiceB: true,
	types.ServiceC: true,
	types.ServiceE: true,
	types.ServiceF: true,
}

// Router decides which calculation strategy prices a request
type Router struct {
	defaultMode types.StrategyMode
}

// NewRouter builds a router with a configured default mode
func NewRouter(defaultStrategy string) *Router {
	mode := types.ModeStandard
	if defaultStrategy == string(types.ModeLegacy) {
		mode = types.ModeLegacy
	}
	return &Router{defaultMode: mode}
}

// Decide returns the strategy for a request. Precedence: explicit
// request mode, then auto-detection, then the configured default.
// Auto-detection routes to the parity engine when the request includes
// the injector service or stays entirely inside the workbook's scope.
func (r *Router) Decide(req *types.PricingRequest) types.StrategyMode {
	if req.Mode == types.ModeStandard || req.Mode == types.ModeLegacy {
		return req.Mode
	}
	if len(req.Services) == 0 {
		return r.defaultMode
	}

	inScope := true
	for _, code := range req.Services {
		if code == types.ServiceF {
			return types.ModeLegacy
		}
		if !legacyScope[code] {
			inScope = false
		}
	}
	if inScope {
		return types.ModeLegacy
	}
	return r.defaultMode
}

// FieldDelta is one compared amount between the two strategies
type FieldDelta struct {
	// Field names the compared amount
	Field string `json:"field"`

	// Standard is the catalog-path amount
	Standard types.Money `json:"standard"`

	// Legacy is the parity-path amount
	Legacy types.Money `json:"legacy"`

	// Delta is standard minus legacy
	Delta types.Money `json:"delta"`

	// DeltaPercent is the delta relative to the legacy amount
	DeltaPercent decimal.Decimal `json:"delta_percent"`
}

// Comparison is the outcome of a dual-strategy conformance run
type Comparison struct {
	// Deltas are the per-field differences
	Deltas []FieldDelta `json:"deltas"`

	// Mismatch reports a grand total difference above one cent
	Mismatch bool `json:"mismatch"`
}

// Compare prices a request under both strategies and reports per-field
// deltas. A grand total difference above one cent flags a mismatch.
// Each mode caches under its own key, so the runs never collide.
func (o *Orchestrator) Compare(ctx context.Context, req *types.PricingRequest) (*Comparison, error) {
	standardReq := req.Clone()
	standardReq.Mode = types.ModeStandard
	legacyReq := req.Clone()
	legacyReq.Mode = types.ModeLegacy

	standard, err := o.Calculate(ctx, standardReq)
	if err != nil {
		return nil, err
	}
	parity, err := o.Calculate(ctx, legacyReq)
	if err != nil {
		return nil, err
	}

	cmp := &Comparison{}
	pairs := []struct {
		field            string
		standard, legacy types.Money
	}{
		{"labor_total", standard.LaborTotal, parity.LaborTotal},
		{"parts_total", standard.PartsTotal, parity.PartsTotal},
		{"shop_total", standard.ShopTotal, parity.ShopTotal},
		{"travel_total", standard.TravelTotal, parity.TravelTotal},
		{"tax", standard.Tax, parity.Tax},
		{"grand_total", standard.GrandTotal, parity.GrandTotal},
	}
	oneCent := decimal.NewFromFloat(0.01)
	hundred := decimal.NewFromInt(100)
	for _, p := range pairs {
		delta := p.standard.Sub(p.legacy.Decimal)
		fd := FieldDelta{
			Field:    p.field,
			Standard: p.standard,
			Legacy:   p.legacy,
			Delta:    types.NewMoney(delta),
		}
		if p.legacy.Sign() != 0 {
			fd.DeltaPercent = delta.Div(p.legacy.Decimal).Mul(hundred).Round(2)
		}
		cmp.Deltas = append(cmp.Deltas, fd)
		if p.field == "grand_total" && delta.Abs().GreaterThan(oneCent) {
			cmp.Mismatch = true
		}
	}
	return cmp, nil
}

// Package engine runs the pricing pipeline.
//
// The orchestrator enforces the execution order: validate, cache probe,
// audit open, normalize, resolve external data, price lines, aggregate,
// format, seal. Money stays in decimal.Decimal through the pipeline and
// rounds exactly once, at the formatting step.
package engine

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"genquote/core/audit"
	"genquote/core/cache"
	"genquote/core/calc"
	"genquote/core/catalog"
	"genquote/core/legacy"
	"genquote/core/rates"
	"genquote/core/types"
	"genquote/core/validate"
	"genquote/internal/config"
	"genquote/internal/errors"
	"genquote/internal/logging"
	"genquote/internal/metrics"
)

// Version identifies the calculation engine
const Version = "5.0.0"

// providerTimeout bounds external tax/distance resolution
const providerTimeout = 2 * time.Second

// contractYears is the length of the escalation schedule
const contractYears = 5

// Orchestrator owns the pricing pipeline and its collaborators
type Orchestrator struct {
	cfg     *config.Config
	catalog *catalog.Catalog
	rates   *rates.MaterialRates
	cache   *cache.Cache
	trail   *audit.Trail
	legacy  *legacy.Engine
	router  *Router

	tax      TaxRateProvider
	distance DistanceProvider

	logger *zap.Logger

	flightMu sync.Mutex
	flights  map[string]*flight
}

// flight deduplicates concurrent calculations of the same key
type flight struct {
	done   chan struct{}
	result *types.PricingResult
	err    error
}

// Option configures an Orchestrator
type Option func(*Orchestrator)

// WithTaxProvider replaces the tax rate provider
func WithTaxProvider(p TaxRateProvider) Option {
	return func(o *Orchestrator) { o.tax = p }
}

// WithDistanceProvider replaces the distance provider
func WithDistanceProvider(p DistanceProvider) Option {
	return func(o *Orchestrator) { o.distance = p }
}

// New builds an orchestrator from configuration
func New(cfg *config.Config, opts ...Option) (*Orchestrator, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	materialRates, err := rates.New(cfg.Materials)
	if err != nil {
		return nil, err
	}

	o := &Orchestrator{
		cfg:      cfg,
		catalog:  catalog.New(cfg),
		rates:    materialRates,
		cache:    cache.New(cfg.Cache),
		trail:    audit.New(cfg.Audit),
		legacy:   legacy.New(),
		router:   NewRouter(cfg.Engine.DefaultStrategy),
		tax:      DefaultTaxProvider,
		distance: DefaultDistanceProvider,
		logger:   logging.Component("engine"),
		flights:  make(map[string]*flight),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o, nil
}

// Cache exposes the result cache for diagnostics
func (o *Orchestrator) Cache() *cache.Cache { return o.cache }

// Trail exposes the audit trail for diagnostics
func (o *Orchestrator) Trail() *audit.Trail { return o.trail }

// SelfTest runs the parity engine's reference-quote check
func (o *Orchestrator) SelfTest() error { return o.legacy.SelfTest() }

// Calculate prices a request. Identical concurrent requests share one
// computation; every caller gets an isolated copy.
func (o *Orchestrator) Calculate(ctx context.Context, req *types.PricingRequest) (*types.PricingResult, error) {
	started := time.Now()

	req = req.Clone()
	validate.ApplyDefaults(req)
	if err := validate.Validate(req); err != nil {
		metrics.CalculationsTotal.WithLabelValues("validation_error").Inc()
		return nil, err
	}

	key := cache.Key(req)
	if cached := o.cache.Get(key); cached != nil {
		cached.Metadata.CacheHit = true
		metrics.CalculationsTotal.WithLabelValues("success").Inc()
		return cached, nil
	}

	result, err := o.calculateShared(ctx, key, req, started)
	if err != nil {
		metrics.CalculationsTotal.WithLabelValues("error").Inc()
		return nil, err
	}
	metrics.CalculationsTotal.WithLabelValues("success").Inc()
	metrics.CalculationDuration.Observe(time.Since(started).Seconds())
	return result, nil
}

// calculateShared collapses concurrent identical requests onto one
// in-flight computation.
func (o *Orchestrator) calculateShared(ctx context.Context, key string, req *types.PricingRequest, started time.Time) (*types.PricingResult, error) {
	o.flightMu.Lock()
	if f, inFlight := o.flights[key]; inFlight {
		o.flightMu.Unlock()
		select {
		case <-f.done:
			if f.err != nil {
				return nil, f.err
			}
			return f.result.Clone(), nil
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	f := &flight{done: make(chan struct{})}
	o.flights[key] = f
	o.flightMu.Unlock()

	result, err := o.run(ctx, key, req, started)

	f.result, f.err = result, err
	close(f.done)
	o.flightMu.Lock()
	delete(o.flights, key)
	o.flightMu.Unlock()

	if err != nil {
		return nil, err
	}
	return result.Clone(), nil
}

// run executes the pipeline for one request
func (o *Orchestrator) run(ctx context.Context, key string, req *types.PricingRequest, started time.Time) (result *types.PricingResult, err error) {
	session := o.trail.Start()
	defer func() {
		if r := recover(); r != nil {
			err = errors.Calculation(fmt.Errorf("panic: %v", r), req)
			session.LogError("calculate", err)
			session.Complete(false)
			o.logger.Error("calculation panicked", zap.Any("panic", r))
		}
	}()

	normalize(req)
	session.Log("normalize", "request normalized", map[string]interface{}{
		"generators": len(req.Generators),
		"services":   len(req.Services),
		"months":     req.ContractMonths,
	})

	mode := o.router.Decide(req)
	session.Log("strategy", string(mode), nil)

	taxRate, distance, warnings := o.resolveProviders(ctx, req.Customer, session)

	if mode == types.ModeLegacy {
		result, err = o.legacy.Price(req, distanceFloat(distance))
		if err != nil {
			session.LogError("legacy", err)
			session.Complete(false)
			return nil, errors.Calculation(err, req)
		}
		result.Warnings = append(warnings, result.Warnings...)
	} else {
		result, err = o.priceStandard(req, taxRate, distance, session)
		if err != nil {
			session.LogError("price", err)
			session.Complete(false)
			if errors.IsType(err, errors.TypeInput) || errors.IsType(err, errors.TypeNotFound) {
				return nil, err
			}
			return nil, errors.Calculation(err, req)
		}
		result.Warnings = append(result.Warnings, warnings...)
	}

	result.Metadata.EngineVersion = Version
	result.Metadata.Strategy = mode
	result.Metadata.CalculatedAt = time.Now().UTC()
	result.Metadata.DurationMs = time.Since(started).Milliseconds()
	result.Metadata.ParityBaseline = legacy.ParityBaseline

	session.Log("complete", "calculation finished", map[string]interface{}{
		"grand_total": result.GrandTotal.String(),
		"lines":       len(result.Lines),
	})
	session.Complete(true)

	o.cache.Set(key, result)
	return result, nil
}

// normalize assigns stable generator IDs. Value defaults are applied
// by ApplyDefaults before validation.
func normalize(req *types.PricingRequest) {
	for i := range req.Generators {
		if req.Generators[i].ID == "" {
			req.Generators[i].ID = fmt.Sprintf("gen-%d", i+1)
		}
	}
}

// resolveProviders fetches tax rate and distance concurrently. Failures
// degrade to the configured default rate and zero miles, each with a
// warning and a fallback metric.
func (o *Orchestrator) resolveProviders(ctx context.Context, loc *types.Location, session *audit.Session) (decimal.Decimal, decimal.Decimal, []string) {
	ctx, cancel := context.WithTimeout(ctx, providerTimeout)
	defer cancel()

	var (
		wg       sync.WaitGroup
		taxRate  decimal.Decimal
		taxErr   error
		distance decimal.Decimal
		distErr  error
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		taxRate, taxErr = o.tax(ctx, loc)
	}()
	go func() {
		defer wg.Done()
		distance, distErr = o.distance(ctx, loc)
	}()
	wg.Wait()

	var warnings []string
	if taxErr != nil {
		taxRate = decimal.NewFromFloat(o.cfg.Engine.DefaultTaxRate)
		msg := fmt.Sprintf("Tax lookup failed, using default rate %s", taxRate.Mul(decimal.NewFromInt(100)).StringFixed(2)+"%")
		warnings = append(warnings, msg)
		session.Warn("tax", msg)
		metrics.ProviderFallbacks.WithLabelValues("tax").Inc()
	} else {
		session.Log("tax", taxRate.String(), nil)
	}
	if distErr != nil {
		distance = decimal.Zero
		msg := "Distance lookup failed, travel priced at 0 miles"
		warnings = append(warnings, msg)
		session.Warn("distance", msg)
		metrics.ProviderFallbacks.WithLabelValues("distance").Inc()
	} else {
		session.Log("distance", distance.String(), nil)
	}
	return taxRate, distance, warnings
}

// priceStandard prices a request against the catalog
func (o *Orchestrator) priceStandard(req *types.PricingRequest, taxRate, distance decimal.Decimal, session *audit.Session) (*types.PricingResult, error) {
	laborRate := decimal.NewFromFloat(o.cfg.Labor.RateFor(string(req.FacilityType)))
	mobRate := decimal.NewFromFloat(o.cfg.Labor.MobilizationRate)
	mileageRate := decimal.NewFromFloat(o.cfg.Labor.MileageRate)

	result := &types.PricingResult{
		TaxRate:       taxRate,
		DistanceMiles: distance,
	}

	type serviceAccum struct {
		labor decimal.Decimal
		parts decimal.Decimal
		shop  decimal.Decimal
	}
	perService := make(map[types.ServiceCode]*serviceAccum)

	laborTotal := decimal.Zero
	partsTotal := decimal.Zero
	shopTotal := decimal.Zero

	for _, gen := range req.Generators {
		qty := decimal.NewFromInt(int64(gen.Quantity))
		for _, code := range req.Services {
			def, warnings, err := o.catalog.Definition(code, gen, req.Options)
			if err != nil {
				return nil, err
			}
			result.Warnings = append(result.Warnings, warnings...)

			freq := calc.ServiceFrequency(code, req.ContractMonths)
			if override, ok := req.FrequencyOverrides[code]; ok {
				freq = decimal.NewFromFloat(override)
			}

			labor := def.LaborHours.Mul(laborRate).Mul(def.LaborMultiplier).Mul(freq).Mul(qty)
			shop := def.MobilizationHours.Mul(mobRate).Mul(freq).Mul(qty)

			parts := o.rates.PartsCost(def.PartsCost).
				Add(o.rates.OilCost(def.OilGallons)).
				Add(o.rates.CoolantCost(def.CoolantGallons))
			for _, addOn := range def.AddOns {
				parts = parts.Add(addOn.Amount)
			}
			parts = parts.Mul(freq).Mul(qty)

			laborTotal = laborTotal.Add(labor)
			partsTotal = partsTotal.Add(parts)
			shopTotal = shopTotal.Add(shop)

			acc, ok := perService[code]
			if !ok {
				acc = &serviceAccum{}
				perService[code] = acc
			}
			acc.labor = acc.labor.Add(labor)
			acc.parts = acc.parts.Add(parts)
			acc.shop = acc.shop.Add(shop)

			result.Lines = append(result.Lines, types.ServiceLineResult{
				Service:     code,
				GeneratorID: gen.ID,
				Bracket:     def.Bracket,
				LaborCost:   types.NewMoney(labor),
				PartsCost:   types.NewMoney(parts),
				ShopCost:    types.NewMoney(shop),
				Frequency:   freq,
				Definition:  def,
			})
		}
	}
	session.Log("lines", fmt.Sprintf("%d line items priced", len(result.Lines)), nil)

	travel := calc.MileageCost(distance, len(req.Services), req.ContractMonths, mileageRate)

	// Formatting boundary: each component total rounds here, once.
	// Derived amounts build on the rounded components so the printed
	// breakdown always adds up to the printed totals.
	result.LaborTotal = types.NewMoney(laborTotal)
	result.PartsTotal = types.NewMoney(partsTotal)
	result.ShopTotal = types.NewMoney(shopTotal)
	result.TravelTotal = types.NewMoney(travel)

	subtotal := result.LaborTotal.Decimal.
		Add(result.PartsTotal.Decimal).
		Add(result.ShopTotal.Decimal).
		Add(result.TravelTotal.Decimal)
	result.Subtotal = types.NewMoney(subtotal)
	result.Tax = types.NewMoney(result.PartsTotal.Mul(taxRate))
	grand := subtotal.Add(result.Tax.Decimal)
	result.GrandTotal = types.NewMoney(grand)

	var quoteQuarters [4]decimal.Decimal
	for _, code := range types.AllServiceCodes() {
		acc, ok := perService[code]
		if !ok {
			continue
		}
		total := acc.labor.Add(acc.parts).Add(acc.shop)
		split := calc.QuarterlySplit(total, calc.AnnualOccurrences(code))
		st := types.ServiceTotal{
			Service:   code,
			Label:     catalog.Label(code),
			LaborCost: types.NewMoney(acc.labor),
			PartsCost: types.NewMoney(acc.parts),
			ShopCost:  types.NewMoney(acc.shop),
			TotalCost: types.NewMoney(total),
		}
		for q := range split {
			st.Quarterly[q] = types.NewMoney(split[q])
			quoteQuarters[q] = quoteQuarters[q].Add(split[q])
		}
		result.Services = append(result.Services, st)
	}
	// Travel spreads evenly; trips happen every quarter.
	travelQuarter := travel.Div(decimal.NewFromInt(4))
	for q := range quoteQuarters {
		result.Quarterly[q] = types.NewMoney(quoteQuarters[q].Add(travelQuarter))
	}

	o.summarizeContract(result, grand, req.ContractMonths)
	return result, nil
}

// summarizeContract builds the multi-year escalation schedule from the
// annualized total.
func (o *Orchestrator) summarizeContract(result *types.PricingResult, grand decimal.Decimal, months int) {
	annual := grand
	if months != 12 && months > 0 {
		annual = grand.Div(decimal.NewFromInt(int64(months))).Mul(decimal.NewFromInt(12))
	}
	rate := decimal.NewFromFloat(o.cfg.Engine.EscalationRate)

	result.Contract.AnnualTotal = types.NewMoney(annual)
	result.Contract.EscalationRate = rate

	five := decimal.Zero
	for i, yearTotal := range calc.MultiYearEscalation(annual, contractYears, rate) {
		result.Contract.Years = append(result.Contract.Years, types.YearTotal{
			Year:  i + 1,
			Total: types.NewMoney(yearTotal),
		})
		five = five.Add(yearTotal)
	}
	result.Contract.FiveYearTotal = types.NewMoney(five)
}

func distanceFloat(d decimal.Decimal) float64 {
	f, _ := d.Float64()
	return f
}

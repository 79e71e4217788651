// Package validate checks pricing requests before calculation.
//
// Validation is aggregated: every violation in a request is reported in
// one pass so API clients can fix a form in a single round trip.
package validate

import (
	"fmt"
	"math"
	"regexp"

	"github.com/go-playground/validator/v10"

	"genquote/core/types"
	"genquote/internal/errors"
)

// Input bounds. Ratings outside the bracket table, absurd fleet sizes
// and multi-decade contracts are rejected, not clamped.
const (
	MinKW             = 2.0
	MaxKW             = 2050.0
	MinQuantity       = 1
	MaxQuantity       = 100
	MinCylinders      = 1
	MaxCylinders      = 20
	MinContractMonths = 1
	MaxContractMonths = 60
)

var (
	zipPattern   = regexp.MustCompile(`^\d{5}(-\d{4})?$`)
	phonePattern = regexp.MustCompile(`^\+?[\d\s().-]{7,20}$`)
)

// validate carries the struct-tag validator for Location fields
var structValidator = newStructValidator()

func newStructValidator() *validator.Validate {
	v := validator.New()
	// Registration only fails for empty tags; these are literals.
	_ = v.RegisterValidation("zip", func(fl validator.FieldLevel) bool {
		return zipPattern.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation("phone", func(fl validator.FieldLevel) bool {
		return phonePattern.MatchString(fl.Field().String())
	})
	return v
}

// Validate checks a request and returns a single aggregated validation
// error listing every violation, or nil when the request is clean.
func Validate(req *types.PricingRequest) error {
	if req == nil {
		return errors.Validation([]string{"Request body is required"})
	}

	var violations []string

	if len(req.Generators) == 0 {
		violations = append(violations, "Generators array is required")
	}
	for i, gen := range req.Generators {
		violations = append(violations, validateGenerator(i, gen)...)
	}

	if len(req.Services) == 0 {
		violations = append(violations, "Services array is required")
	}
	for _, code := range req.Services {
		if !code.Valid() {
			violations = append(violations, fmt.Sprintf("Invalid service code: %s", code))
		}
	}

	if req.ContractMonths != 0 && (req.ContractMonths < MinContractMonths || req.ContractMonths > MaxContractMonths) {
		violations = append(violations, fmt.Sprintf(
			"Contract months must be between %d and %d", MinContractMonths, MaxContractMonths))
	}

	if req.FacilityType != "" && !req.FacilityType.Valid() {
		violations = append(violations, fmt.Sprintf("Invalid facility type: %s", req.FacilityType))
	}

	if req.Mode != types.ModeAuto && req.Mode != types.ModeStandard && req.Mode != types.ModeLegacy {
		violations = append(violations, fmt.Sprintf("Invalid calculation mode: %s", req.Mode))
	}

	for code, freq := range req.FrequencyOverrides {
		if !code.Valid() {
			violations = append(violations, fmt.Sprintf("Invalid service code in frequency overrides: %s", code))
		}
		if freq <= 0 || math.IsNaN(freq) || math.IsInf(freq, 0) {
			violations = append(violations, fmt.Sprintf("Frequency override for %s must be a positive number", code))
		}
	}

	violations = append(violations, validateLocation(req.Customer)...)

	if len(violations) > 0 {
		return errors.Validation(violations)
	}
	return nil
}

func validateGenerator(index int, gen types.Generator) []string {
	var violations []string
	prefix := fmt.Sprintf("Generator %d:", index+1)

	if math.IsNaN(gen.KW) || math.IsInf(gen.KW, 0) {
		violations = append(violations, fmt.Sprintf("%s kW rating must be a number", prefix))
	} else if gen.KW < MinKW || gen.KW > MaxKW {
		violations = append(violations, fmt.Sprintf(
			"%s kW rating must be between %.0f and %.0f", prefix, MinKW, MaxKW))
	}

	if gen.Quantity < MinQuantity || gen.Quantity > MaxQuantity {
		violations = append(violations, fmt.Sprintf(
			"%s quantity must be between %d and %d", prefix, MinQuantity, MaxQuantity))
	}

	if gen.Cylinders != 0 && (gen.Cylinders < MinCylinders || gen.Cylinders > MaxCylinders) {
		violations = append(violations, fmt.Sprintf(
			"%s cylinders must be between %d and %d", prefix, MinCylinders, MaxCylinders))
	}

	if gen.Injector != "" && gen.Injector != types.InjectorPop && gen.Injector != types.InjectorUnit {
		violations = append(violations, fmt.Sprintf("%s invalid injector type: %s", prefix, gen.Injector))
	}
	return violations
}

func validateLocation(loc *types.Location) []string {
	if loc == nil {
		return nil
	}
	err := structValidator.Struct(loc)
	if err == nil {
		return nil
	}

	fieldErrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return []string{"Customer location is invalid"}
	}
	var violations []string
	for _, fe := range fieldErrs {
		switch fe.Field() {
		case "State":
			violations = append(violations, "Customer state must be a two-letter code")
		case "Zip":
			violations = append(violations, "Customer zip code is invalid")
		case "Email":
			violations = append(violations, "Customer email is invalid")
		case "Phone":
			violations = append(violations, "Customer phone number is invalid")
		default:
			violations = append(violations, fmt.Sprintf("Customer %s is invalid", fe.Field()))
		}
	}
	return violations
}

// ApplyDefaults fills omitted fields in place ahead of validation:
// quantity defaults to one, contract months to twelve, facility type
// to commercial, and an empty customer block drops. It never changes a
// value the validator would reject; rejection stays visible. This is
// the normalization the calculation pipeline runs.
func ApplyDefaults(req *types.PricingRequest) {
	if req == nil {
		return
	}
	for i := range req.Generators {
		if req.Generators[i].Quantity == 0 {
			req.Generators[i].Quantity = 1
		}
		if req.Generators[i].Cylinders < 0 {
			req.Generators[i].Cylinders = 0
		}
	}
	if req.ContractMonths == 0 {
		req.ContractMonths = 12
	}
	if req.FacilityType == "" {
		req.FacilityType = types.FacilityCommercial
	}
	if req.Customer != nil && *req.Customer == (types.Location{}) {
		req.Customer = nil
	}
}

// Sanitize recovers a best-effort valid request in place: out-of-range
// numeric fields clamp to their nearest bound, unrecognized service
// codes and frequency overrides drop, and the same defaults as
// ApplyDefaults fill in afterwards. NaN ratings stay untouched; there
// is no sensible bound to clamp them to, so validation still rejects
// them. Intended for ingestion paths that salvage partial input rather
// than reject it.
func Sanitize(req *types.PricingRequest) {
	if req == nil {
		return
	}
	for i := range req.Generators {
		g := &req.Generators[i]
		if !math.IsNaN(g.KW) {
			if math.IsInf(g.KW, 1) || g.KW > MaxKW {
				g.KW = MaxKW
			}
			if math.IsInf(g.KW, -1) || g.KW < MinKW {
				g.KW = MinKW
			}
		}
		if g.Quantity > MaxQuantity {
			g.Quantity = MaxQuantity
		}
		if g.Quantity < 0 {
			g.Quantity = MinQuantity
		}
		if g.Cylinders > MaxCylinders {
			g.Cylinders = MaxCylinders
		}
		if g.Cylinders < 0 {
			g.Cylinders = 0
		}
		if g.Injector != "" && g.Injector != types.InjectorPop && g.Injector != types.InjectorUnit {
			g.Injector = ""
		}
	}

	kept := req.Services[:0]
	for _, code := range req.Services {
		if code.Valid() {
			kept = append(kept, code)
		}
	}
	req.Services = kept

	if req.ContractMonths > MaxContractMonths {
		req.ContractMonths = MaxContractMonths
	}
	if req.ContractMonths < 0 {
		req.ContractMonths = MinContractMonths
	}
	if req.FacilityType != "" && !req.FacilityType.Valid() {
		req.FacilityType = types.FacilityCommercial
	}
	if req.Mode != types.ModeAuto && req.Mode != types.ModeStandard && req.Mode != types.ModeLegacy {
		req.Mode = types.ModeAuto
	}
	for code, freq := range req.FrequencyOverrides {
		if !code.Valid() || freq <= 0 || math.IsNaN(freq) || math.IsInf(freq, 0) {
			delete(req.FrequencyOverrides, code)
		}
	}

	ApplyDefaults(req)
}

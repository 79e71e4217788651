// Package types defines the pricing request and result shapes shared by
// every engine component.
package types

// ServiceCode identifies a maintenance service
type ServiceCode string

const (
	// ServiceA is the comprehensive inspection (quarterly)
	ServiceA ServiceCode = "A"

	// ServiceB is the oil and filter service
	ServiceB ServiceCode = "B"

	// ServiceC is the coolant system service
	ServiceC ServiceCode = "C"

	// ServiceD is fluid/fuel laboratory analysis
	ServiceD ServiceCode = "D"

	// ServiceE is load bank testing
	ServiceE ServiceCode = "E"

	// ServiceF is the injector service (cylinder and injector-type keyed)
	ServiceF ServiceCode = "F"

	// ServiceG is the valve adjustment service (cylinder keyed)
	ServiceG ServiceCode = "G"

	// ServiceH is the major coolant system replacement (5-year)
	ServiceH ServiceCode = "H"

	// ServiceI is the battery service
	ServiceI ServiceCode = "I"

	// ServiceJ is thermal imaging (raw kW keyed)
	ServiceJ ServiceCode = "J"

	// ServiceCustom is a customer-defined line item
	ServiceCustom ServiceCode = "CUSTOM"

	// ServiceBundle marks a result line that prices the workbook's
	// combined per-generator columns rather than a single service.
	// Result-side only; never valid on a request.
	ServiceBundle ServiceCode = "BUNDLE"
)

// AllServiceCodes lists every valid service code in catalog order
func AllServiceCodes() []ServiceCode {
	return []ServiceCode{
		ServiceA, ServiceB, ServiceC, ServiceD, ServiceE,
		ServiceF, ServiceG, ServiceH, ServiceI, ServiceJ,
		ServiceCustom,
	}
}

// Valid reports whether the code is a recognized service
func (c ServiceCode) Valid() bool {
	for _, code := range AllServiceCodes() {
		if c == code {
			return true
		}
	}
	return false
}

// FacilityType selects the labor rate schedule
type FacilityType string

const (
	FacilityCommercial  FacilityType = "commercial"
	FacilityGovernment  FacilityType = "government"
	FacilityContract    FacilityType = "contract"
	FacilityNonContract FacilityType = "non-contract"
)

// Valid reports whether the facility type is recognized
func (f FacilityType) Valid() bool {
	switch f {
	case FacilityCommercial, FacilityGovernment, FacilityContract, FacilityNonContract:
		return true
	}
	return false
}

// InjectorType selects the Service F pricing table
type InjectorType string

const (
	InjectorPop  InjectorType = "pop"
	InjectorUnit InjectorType = "unit"
)

// Generator describes one generator unit (or a group of identical units)
type Generator struct {
	// ID is a stable identifier assigned during normalization
	ID string `json:"id,omitempty"`

	// KW is the power rating in kilowatts. Valid range [2, 2050].
	KW float64 `json:"kw"`

	// Quantity is the number of identical units. Valid range [1, 100].
	Quantity int `json:"quantity"`

	// Cylinders is the engine cylinder count. Optional; valid [1, 20].
	Cylinders int `json:"cylinders,omitempty"`

	// Injector is the injector type for cylinder-keyed services
	Injector InjectorType `json:"injector,omitempty"`

	// Brand is the manufacturer (informational)
	Brand string `json:"brand,omitempty"`

	// Model is the model designation (informational)
	Model string `json:"model,omitempty"`
}

// Location carries customer location fields used for tax and distance
type Location struct {
	Name    string `json:"name,omitempty"`
	Address string `json:"address,omitempty"`
	City    string `json:"city,omitempty"`
	State   string `json:"state,omitempty" validate:"omitempty,len=2,alpha"`
	Zip     string `json:"zip,omitempty" validate:"omitempty,zip"`
	Email   string `json:"email,omitempty" validate:"omitempty,email"`
	Phone   string `json:"phone,omitempty" validate:"omitempty,phone"`
}

// TaxKey returns the location-derived component of the cache key.
// Only fields that influence tax or distance participate; customer
// identity never affects price.
func (l *Location) TaxKey() string {
	if l == nil {
		return ""
	}
	return l.Zip + "/" + l.State
}

// AnalysisFluids selects which Service D samples are taken
type AnalysisFluids struct {
	Oil     bool `json:"oil"`
	Coolant bool `json:"coolant"`
	Fuel    bool `json:"fuel"`
}

// ServiceOptions carries per-request service option flags
type ServiceOptions struct {
	// IncludeBattery adds battery replacement parts to Service I
	IncludeBattery bool `json:"include_battery,omitempty"`

	// AfterHours schedules work outside business hours (Service E policy)
	AfterHours bool `json:"after_hours,omitempty"`

	// Fluids selects Service D samples; zero value means all three
	Fluids *AnalysisFluids `json:"fluids,omitempty"`
}

// StrategyMode selects the calculation strategy
type StrategyMode string

const (
	// ModeAuto lets the router decide from the service-code set
	ModeAuto StrategyMode = ""

	// ModeStandard forces the catalog-backed orchestrator
	ModeStandard StrategyMode = "standard"

	// ModeLegacy forces the spreadsheet-parity lookup engine
	ModeLegacy StrategyMode = "legacy"
)

// PricingRequest is the input to a pricing calculation
type PricingRequest struct {
	// Generators is the fleet to be serviced
	Generators []Generator `json:"generators"`

	// Services is the requested service-code set
	Services []ServiceCode `json:"services"`

	// ContractMonths is the contract length. Valid [1, 60]; default 12.
	ContractMonths int `json:"contract_months,omitempty"`

	// FacilityType selects the labor rate schedule; default commercial
	FacilityType FacilityType `json:"facility_type,omitempty"`

	// Customer is the optional customer location
	Customer *Location `json:"customer,omitempty"`

	// FrequencyOverrides replaces the default annual occurrences per service
	FrequencyOverrides map[ServiceCode]float64 `json:"frequency_overrides,omitempty"`

	// Options carries service option flags
	Options ServiceOptions `json:"options,omitempty"`

	// Mode is the explicit strategy selection, if any
	Mode StrategyMode `json:"mode,omitempty"`
}

// Clone returns a deep copy of the request
func (r *PricingRequest) Clone() *PricingRequest {
	if r == nil {
		return nil
	}
	out := *r
	out.Generators = make([]Generator, len(r.Generators))
	copy(out.Generators, r.Generators)
	out.Services = make([]ServiceCode, len(r.Services))
	copy(out.Services, r.Services)
	if r.FrequencyOverrides != nil {
		out.FrequencyOverrides = make(map[ServiceCode]float64, len(r.FrequencyOverrides))
		for k, v := range r.FrequencyOverrides {
			out.FrequencyOverrides[k] = v
		}
	}
	if r.Customer != nil {
		loc := *r.Customer
		out.Customer = &loc
	}
	if r.Options.Fluids != nil {
		fluids := *r.Options.Fluids
		out.Options.Fluids = &fluids
	}
	return &out
}

// Package fleet loads pricing requests from fleet definition files.
//
// Site surveys are written as HCL: one contract block, an optional
// customer block, and a generator block per unit group. The CLI prices
// a survey directly from the file, so dispatchers never hand-build
// JSON.
package fleet

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"

	"genquote/core/types"
	"genquote/internal/errors"
)

// fileSchema is the top-level fleet definition layout
type fileSchema struct {
	Contract   *contractBlock   `hcl:"contract,block"`
	Customer   *customerBlock   `hcl:"customer,block"`
	Generators []generatorBlock `hcl:"generator,block"`
}

type contractBlock struct {
	Months       int      `hcl:"months,optional"`
	FacilityType string   `hcl:"facility_type,optional"`
	Services     []string `hcl:"services"`
	Mode         string   `hcl:"mode,optional"`
	AfterHours   bool     `hcl:"after_hours,optional"`
	WithBattery  bool     `hcl:"include_battery,optional"`
}

type customerBlock struct {
	Name    string `hcl:"name,optional"`
	Address string `hcl:"address,optional"`
	City    string `hcl:"city,optional"`
	State   string `hcl:"state,optional"`
	Zip     string `hcl:"zip,optional"`
	Email   string `hcl:"email,optional"`
	Phone   string `hcl:"phone,optional"`
}

type generatorBlock struct {
	Label     string  `hcl:"label,label"`
	KW        float64 `hcl:"kw"`
	Quantity  int     `hcl:"quantity,optional"`
	Cylinders int     `hcl:"cylinders,optional"`
	Injector  string  `hcl:"injector,optional"`
	Brand     string  `hcl:"brand,optional"`
	Model     string  `hcl:"model,optional"`
}

// Loader parses fleet definition files
type Loader struct {
	parser *hclparse.Parser
}

// NewLoader creates a fleet definition loader
func NewLoader() *Loader {
	return &Loader{parser: hclparse.NewParser()}
}

// Load parses one fleet definition file into a pricing request
func (l *Loader) Load(path string) (*types.PricingRequest, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(errors.TypeInput, "reading fleet definition", err)
	}
	return l.Parse(src, filepath.Base(path))
}

// LoadDir parses every .hcl file in a directory into one combined
// request. Generator blocks accumulate; the last contract block wins.
func (l *Loader) LoadDir(dir string) (*types.PricingRequest, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, errors.Wrap(errors.TypeInput, "reading fleet directory", err)
	}

	var combined *types.PricingRequest
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".hcl") {
			continue
		}
		req, err := l.Load(filepath.Join(dir, entry.Name()))
		if err != nil {
			return nil, err
		}
		if combined == nil {
			combined = req
			continue
		}
		combined.Generators = append(combined.Generators, req.Generators...)
		if len(req.Services) > 0 {
			combined.Services = req.Services
			combined.ContractMonths = req.ContractMonths
			combined.FacilityType = req.FacilityType
			combined.Mode = req.Mode
			combined.Options = req.Options
		}
		if req.Customer != nil {
			combined.Customer = req.Customer
		}
	}
	if combined == nil {
		return nil, errors.Newf(errors.TypeInput, "no .hcl files in %s", dir)
	}
	return combined, nil
}

// Parse decodes fleet definition source
func (l *Loader) Parse(src []byte, filename string) (*types.PricingRequest, error) {
	file, diags := l.parser.ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, errors.Wrap(errors.TypeInput, "parsing fleet definition", diags)
	}

	var schema fileSchema
	if diags := gohcl.DecodeBody(file.Body, nil, &schema); diags.HasErrors() {
		return nil, errors.Wrap(errors.TypeInput, "decoding fleet definition", diags)
	}
	return buildRequest(&schema)
}

func buildRequest(schema *fileSchema) (*types.PricingRequest, error) {
	req := &types.PricingRequest{}

	if schema.Contract != nil {
		req.ContractMonths = schema.Contract.Months
		req.FacilityType = types.FacilityType(schema.Contract.FacilityType)
		req.Mode = types.StrategyMode(schema.Contract.Mode)
		req.Options.AfterHours = schema.Contract.AfterHours
		req.Options.IncludeBattery = schema.Contract.WithBattery
		for _, code := range schema.Contract.Services {
			req.Services = append(req.Services, types.ServiceCode(strings.ToUpper(code)))
		}
	}

	if schema.Customer != nil {
		req.Customer = &types.Location{
			Name:    schema.Customer.Name,
			Address: schema.Customer.Address,
			City:    schema.Customer.City,
			State:   schema.Customer.State,
			Zip:     schema.Customer.Zip,
			Email:   schema.Customer.Email,
			Phone:   schema.Customer.Phone,
		}
	}

	seen := map[string]bool{}
	for _, block := range schema.Generators {
		if seen[block.Label] {
			return nil, errors.Newf(errors.TypeInput, "duplicate generator label %q", block.Label)
		}
		seen[block.Label] = true
		req.Generators = append(req.Generators, types.Generator{
			ID:        fmt.Sprintf("fleet-%s", block.Label),
			KW:        block.KW,
			Quantity:  block.Quantity,
			Cylinders: block.Cylinders,
			Injector:  types.InjectorType(block.Injector),
			Brand:     block.Brand,
			Model:     block.Model,
		})
	}
	return req, nil
}

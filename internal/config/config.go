// Package config provides configuration management.
//
// Every pricing input that is not a lookup-table row lives here: labor
// rates by facility type, material unit prices, markup multipliers,
// analysis fees, cache and audit sizing. All values have defaults so an
// empty config file yields a working engine.
package config

import (
	"strings"

	"github.com/spf13/viper"

	"genquote/internal/logging"
)

// Config is the main application configuration
type Config struct {
	// Version is the configuration version
	Version string `json:"version" mapstructure:"version"`

	// Labor contains labor and travel rates
	Labor LaborConfig `json:"labor" mapstructure:"labor"`

	// Materials contains consumable prices and markups
	Materials MaterialsConfig `json:"materials" mapstructure:"materials"`

	// Analysis contains fluid analysis laboratory fees
	Analysis AnalysisConfig `json:"analysis" mapstructure:"analysis"`

	// Engine contains calculation engine settings
	Engine EngineConfig `json:"engine" mapstructure:"engine"`

	// Cache contains result cache settings
	Cache CacheConfig `json:"cache" mapstructure:"cache"`

	// Audit contains audit trail settings
	Audit AuditConfig `json:"audit" mapstructure:"audit"`

	// Server contains API server settings
	Server ServerConfig `json:"server" mapstructure:"server"`

	// Logging contains logging configuration
	Logging logging.Config `json:"logging" mapstructure:"logging"`
}

// LaborConfig contains labor-related rates
type LaborConfig struct {
	// Rates maps facility type to hourly labor rate
	Rates map[string]float64 `json:"rates" mapstructure:"rates"`

	// MobilizationRate is the hourly rate for mobilization time
	MobilizationRate float64 `json:"mobilization_rate" mapstructure:"mobilization_rate"`

	// MileageRate is the per-mile travel rate
	MileageRate float64 `json:"mileage_rate" mapstructure:"mileage_rate"`

	// AfterHoursMultiplier applies to labor scheduled outside business hours
	AfterHoursMultiplier float64 `json:"after_hours_multiplier" mapstructure:"after_hours_multiplier"`
}

// RateFor returns the labor rate for a facility type, falling back to
// the commercial rate for unknown types.
func (l LaborConfig) RateFor(facilityType string) float64 {
	if rate, ok := l.Rates[facilityType]; ok {
		return rate
	}
	return l.Rates["commercial"]
}

// MaterialsConfig contains consumable unit prices and markups
type MaterialsConfig struct {
	// OilPricePerGallon is the base oil price
	OilPricePerGallon float64 `json:"oil_price_per_gallon" mapstructure:"oil_price_per_gallon"`

	// CoolantPricePerGallon is the base coolant price
	CoolantPricePerGallon float64 `json:"coolant_price_per_gallon" mapstructure:"coolant_price_per_gallon"`

	// DEFPricePerGallon is the base diesel exhaust fluid price
	DEFPricePerGallon float64 `json:"def_price_per_gallon" mapstructure:"def_price_per_gallon"`

	// PartsMarkup multiplies base parts cost
	PartsMarkup float64 `json:"parts_markup" mapstructure:"parts_markup"`

	// OilMarkup multiplies base oil price
	OilMarkup float64 `json:"oil_markup" mapstructure:"oil_markup"`

	// CoolantMarkup multiplies base coolant price
	CoolantMarkup float64 `json:"coolant_markup" mapstructure:"coolant_markup"`

	// FreightMarkup compounds on top of the other markups
	FreightMarkup float64 `json:"freight_markup" mapstructure:"freight_markup"`
}

// AnalysisConfig contains Service D laboratory fees per sample
type AnalysisConfig struct {
	// OilAnalysisFee is the oil sample laboratory fee
	OilAnalysisFee float64 `json:"oil_analysis_fee" mapstructure:"oil_analysis_fee"`

	// CoolantAnalysisFee is the coolant sample laboratory fee
	CoolantAnalysisFee float64 `json:"coolant_analysis_fee" mapstructure:"coolant_analysis_fee"`

	// FuelAnalysisFee is the fuel sample laboratory fee
	FuelAnalysisFee float64 `json:"fuel_analysis_fee" mapstructure:"fuel_analysis_fee"`
}

// EngineConfig contains calculation engine settings
type EngineConfig struct {
	// DefaultStrategy is used when neither the request nor the
	// auto-detector selects one ("standard" or "legacy")
	DefaultStrategy string `json:"default_strategy" mapstructure:"default_strategy"`

	// DefaultTaxRate substitutes when the tax provider fails
	DefaultTaxRate float64 `json:"default_tax_rate" mapstructure:"default_tax_rate"`

	// EscalationRate is the annual escalation for option years
	EscalationRate float64 `json:"escalation_rate" mapstructure:"escalation_rate"`

	// ServiceEOverride enables the load bank special-case policy
	ServiceEOverride bool `json:"service_e_override" mapstructure:"service_e_override"`
}

// CacheConfig contains result cache settings
type CacheConfig struct {
	// Enabled enables result caching
	Enabled bool `json:"enabled" mapstructure:"enabled"`

	// Capacity is the maximum number of cached results
	Capacity int `json:"capacity" mapstructure:"capacity"`

	// TTLSeconds is how long an entry stays valid
	TTLSeconds int `json:"ttl_seconds" mapstructure:"ttl_seconds"`
}

// AuditConfig contains audit trail settings
type AuditConfig struct {
	// HistoryCapacity bounds the retained session history
	HistoryCapacity int `json:"history_capacity" mapstructure:"history_capacity"`
}

// ServerConfig contains API server settings
type ServerConfig struct {
	// Host is the listen address
	Host string `json:"host" mapstructure:"host"`

	// Port is the listen port
	Port int `json:"port" mapstructure:"port"`
}

// Default returns a default configuration
func Default() *Config {
	return &Config{
		Version: "1.0",
		Labor: LaborConfig{
			Rates: map[string]float64{
				"commercial":   180.00,
				"government":   215.00,
				"contract":     170.00,
				"non-contract": 195.00,
			},
			MobilizationRate:     180.00,
			MileageRate:          2.50,
			AfterHoursMultiplier: 1.5,
		},
		Materials: MaterialsConfig{
			OilPricePerGallon:     16.00,
			CoolantPricePerGallon: 16.00,
			DEFPricePerGallon:     12.50,
			PartsMarkup:           1.25,
			OilMarkup:             1.50,
			CoolantMarkup:         1.50,
			FreightMarkup:         1.05,
		},
		Analysis: AnalysisConfig{
			OilAnalysisFee:     16.55,
			CoolantAnalysisFee: 16.55,
			FuelAnalysisFee:    60.00,
		},
		Engine: EngineConfig{
			DefaultStrategy:  "standard",
			DefaultTaxRate:   0.1025,
			EscalationRate:   0.03,
			ServiceEOverride: true,
		},
		Cache: CacheConfig{
			Enabled:    true,
			Capacity:   256,
			TTLSeconds: 3600,
		},
		Audit: AuditConfig{
			HistoryCapacity: 100,
		},
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: 3002,
		},
		Logging: logging.DefaultConfig(),
	}
}

// Load loads configuration from an optional file plus GENQUOTE_*
// environment overrides. A missing file yields the defaults.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("GENQUOTE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			if _, notFound := err.(viper.ConfigFileNotFoundError); !notFound {
				return nil, err
			}
		}
	}

	cfg := Default()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	d := Default()

	v.SetDefault("version", d.Version)
	v.SetDefault("labor.rates", d.Labor.Rates)
	v.SetDefault("labor.mobilization_rate", d.Labor.MobilizationRate)
	v.SetDefault("labor.mileage_rate", d.Labor.MileageRate)
	v.SetDefault("labor.after_hours_multiplier", d.Labor.AfterHoursMultiplier)
	v.SetDefault("materials.oil_price_per_gallon", d.Materials.OilPricePerGallon)
	v.SetDefault("materials.coolant_price_per_gallon", d.Materials.CoolantPricePerGallon)
	v.SetDefault("materials.def_price_per_gallon", d.Materials.DEFPricePerGallon)
	v.SetDefault("materials.parts_markup", d.Materials.PartsMarkup)
	v.SetDefault("materials.oil_markup", d.Materials.OilMarkup)
	v.SetDefault("materials.coolant_markup", d.Materials.CoolantMarkup)
	v.SetDefault("materials.freight_markup", d.Materials.FreightMarkup)
	v.SetDefault("analysis.oil_analysis_fee", d.Analysis.OilAnalysisFee)
	v.SetDefault("analysis.coolant_analysis_fee", d.Analysis.CoolantAnalysisFee)
	v.SetDefault("analysis.fuel_analysis_fee", d.Analysis.FuelAnalysisFee)
	v.SetDefault("engine.default_strategy", d.Engine.DefaultStrategy)
	v.SetDefault("engine.default_tax_rate", d.Engine.DefaultTaxRate)
	v.SetDefault("engine.escalation_rate", d.Engine.EscalationRate)
	v.SetDefault("engine.service_e_override", d.Engine.ServiceEOverride)
	v.SetDefault("cache.enabled", d.Cache.Enabled)
	v.SetDefault("cache.capacity", d.Cache.Capacity)
	v.SetDefault("cache.ttl_seconds", d.Cache.TTLSeconds)
	v.SetDefault("audit.history_capacity", d.Audit.HistoryCapacity)
	v.SetDefault("server.host", d.Server.Host)
	v.SetDefault("server.port", d.Server.Port)
	v.SetDefault("logging.level", d.Logging.Level)
	v.SetDefault("logging.format", d.Logging.Format)
	v.SetDefault("logging.output", d.Logging.Output)
	v.SetDefault("logging.development", d.Logging.Development)
}

// Global configuration instance
var globalConfig = Default()

// Get returns the global configuration
func Get() *Config {
	return globalConfig
}

// Set sets the global configuration
func Set(config *Config) {
	globalConfig = config
}

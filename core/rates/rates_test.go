package rates

import (
	"math"
	"testing"

	"github.com/shopspring/decimal"

	"genquote/internal/config"
	"genquote/internal/errors"
)

func validMaterials() config.MaterialsConfig {
	return config.Default().Materials
}

func TestNewRejectsNonPositivePrice(t *testing.T) {
	cfg := validMaterials()
	cfg.OilPricePerGallon = 0

	if _, err := New(cfg); err == nil {
		t.Fatal("expected error for zero oil price")
	}
}

func TestNewRejectsNaN(t *testing.T) {
	cfg := validMaterials()
	cfg.CoolantPricePerGallon = math.NaN()

	_, err := New(cfg)
	if err == nil {
		t.Fatal("expected error for NaN coolant price")
	}
	if !errors.IsType(err, errors.TypeConfig) {
		t.Fatalf("expected CONFIG_ERROR, got %v", err)
	}
}

func TestNewRejectsMarkupBelowOne(t *testing.T) {
	cfg := validMaterials()
	cfg.FreightMarkup = 0.95

	if _, err := New(cfg); err == nil {
		t.Fatal("expected error for freight markup below 1.0")
	}
}

func TestNewRejectsInfiniteMarkup(t *testing.T) {
	cfg := validMaterials()
	cfg.PartsMarkup = math.Inf(1)

	if _, err := New(cfg); err == nil {
		t.Fatal("expected error for infinite parts markup")
	}
}

// TestOilCostCompoundsFreight proves freight multiplies the marked-up
// price rather than adding to it.
func TestOilCostCompoundsFreight(t *testing.T) {
	r := MustDefault()

	// 10 gal * $16.00 * 1.5 markup * 1.05 freight = $252.00
	got := r.OilCost(decimal.NewFromInt(10))
	want := decimal.RequireFromString("252.00")
	if !got.Equal(want) {
		t.Fatalf("OilCost(10) = %s, want %s", got, want)
	}
}

func TestPartsCostAppliesMarkupAndFreight(t *testing.T) {
	r := MustDefault()

	// $100 * 1.25 * 1.05 = $131.25
	got := r.PartsCost(decimal.NewFromInt(100))
	want := decimal.RequireFromString("131.25")
	if !got.Equal(want) {
		t.Fatalf("PartsCost(100) = %s, want %s", got, want)
	}
}

func TestZeroQuantitiesCostNothing(t *testing.T) {
	r := MustDefault()
	if !r.OilCost(decimal.Zero).IsZero() {
		t.Error("OilCost(0) should be zero")
	}
	if !r.CoolantCost(decimal.NewFromInt(-1)).IsZero() {
		t.Error("CoolantCost(-1) should be zero")
	}
	if !r.PartsCost(decimal.Zero).IsZero() {
		t.Error("PartsCost(0) should be zero")
	}
}

// TestMarkupMonotonicity proves increasing any single markup strictly
// increases the corresponding cost, all else equal.
func TestMarkupMonotonicity(t *testing.T) {
	base := validMaterials()
	rBase, err := New(base)
	if err != nil {
		t.Fatal(err)
	}

	bumped := base
	bumped.PartsMarkup += 0.10
	rBumped, err := New(bumped)
	if err != nil {
		t.Fatal(err)
	}

	cost := decimal.NewFromInt(500)
	if rBumped.PartsCost(cost).LessThanOrEqual(rBase.PartsCost(cost)) {
		t.Error("raising parts markup did not raise parts cost")
	}

	bumped = base
	bumped.FreightMarkup += 0.10
	rBumped, err = New(bumped)
	if err != nil {
		t.Fatal(err)
	}
	if rBumped.PartsCost(cost).LessThanOrEqual(rBase.PartsCost(cost)) {
		t.Error("raising freight markup did not raise parts cost")
	}
	if rBumped.OilCost(cost).LessThanOrEqual(rBase.OilCost(cost)) {
		t.Error("raising freight markup did not raise oil cost")
	}
}

// Package cmd - settings command
package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"genquote/core/bracket"
	"genquote/core/calc"
	"genquote/internal/config"
)

var settingsJSON bool

// settingsCmd represents the settings command
var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Show the effective pricing settings",
	RunE:  runSettings,
}

func init() {
	settingsCmd.Flags().BoolVar(&settingsJSON, "json", false, "emit JSON instead of a table")
}

func runSettings(cmd *cobra.Command, args []string) error {
	cfg := config.Get()

	if settingsJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(cfg)
	}

	fmt.Println("Labor rates:")
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	for facility, rate := range cfg.Labor.Rates {
		fmt.Fprintf(w, "  %s\t$%.2f/h\n", facility, rate)
	}
	w.Flush()
	fmt.Printf("  mobilization\t$%.2f/h\n", cfg.Labor.MobilizationRate)
	fmt.Printf("  mileage\t$%.2f/mi\n", cfg.Labor.MileageRate)

	fmt.Println("\nMaterials:")
	fmt.Printf("  oil $%.2f/gal x%.2f, coolant $%.2f/gal x%.2f\n",
		cfg.Materials.OilPricePerGallon, cfg.Materials.OilMarkup,
		cfg.Materials.CoolantPricePerGallon, cfg.Materials.CoolantMarkup)
	fmt.Printf("  parts markup x%.2f, freight x%.2f\n",
		cfg.Materials.PartsMarkup, cfg.Materials.FreightMarkup)

	fmt.Println("\nAnalysis fees:")
	fmt.Printf("  oil $%.2f, coolant $%.2f, fuel $%.2f\n",
		cfg.Analysis.OilAnalysisFee, cfg.Analysis.CoolantAnalysisFee, cfg.Analysis.FuelAnalysisFee)

	fmt.Println("\nBrackets:")
	w = tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "  LABEL\tRANGE (kW)\tMOBILIZATION")
	for _, rng := range bracket.Ranges() {
		pct := calc.MobilizationPercent(rng.Min)
		fmt.Fprintf(w, "  %s\t%.0f-%.0f\t%s\n", rng.Label, rng.Min, rng.Max, pct)
	}
	w.Flush()

	fmt.Printf("\nEscalation: %.1f%% | Default tax: %.2f%% | Load bank override: %v\n",
		cfg.Engine.EscalationRate*100, cfg.Engine.DefaultTaxRate*100, cfg.Engine.ServiceEOverride)
	return nil
}

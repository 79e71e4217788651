// Package cmd - quote command
package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"genquote/adapters/fleet"
	"genquote/core/engine"
	"genquote/core/types"
	"genquote/internal/config"
)

var (
	outputFormat string
	distance     float64
	modeFlag     string
)

// quoteCmd represents the quote command
var quoteCmd = &cobra.Command{
	Use:   "quote [fleet-definition]",
	Short: "Price a maintenance contract from a fleet definition",
	Long: `Price a maintenance contract from an HCL fleet definition.

The argument can be a single .hcl file or a directory of them.

Examples:
  genquote quote ./site.hcl
  genquote quote --distance 40 ./site.hcl
  genquote quote --format json --mode legacy ./fleet/`,
	Args: cobra.ExactArgs(1),
	RunE: runQuote,
}

func init() {
	quoteCmd.Flags().StringVarP(&outputFormat, "format", "f", "table", "output format (table, json)")
	quoteCmd.Flags().Float64VarP(&distance, "distance", "d", 0, "one-way distance to the site in miles")
	quoteCmd.Flags().StringVarP(&modeFlag, "mode", "m", "", "calculation mode (standard, legacy)")
}

func loadRequest(path string) (*types.PricingRequest, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("fleet definition not found: %s", path)
	}
	loader := fleet.NewLoader()
	if info.IsDir() {
		return loader.LoadDir(path)
	}
	return loader.Load(path)
}

func runQuote(cmd *cobra.Command, args []string) error {
	req, err := loadRequest(args[0])
	if err != nil {
		return err
	}
	if modeFlag != "" {
		req.Mode = types.StrategyMode(modeFlag)
	}

	orchestrator, err := engine.New(config.Get(),
		engine.WithDistanceProvider(engine.StaticDistanceProvider(distance)))
	if err != nil {
		return err
	}

	result, err := orchestrator.Calculate(context.Background(), req)
	if err != nil {
		return err
	}

	if outputFormat == "json" {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	}
	printResult(result)
	return nil
}

func printResult(result *types.PricingResult) {
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "SERVICE\tLABOR\tPARTS\tSHOP\tTOTAL")
	for _, st := range result.Services {
		fmt.Fprintf(w, "%s (%s)\t%s\t%s\t%s\t%s\n",
			st.Service, st.Label, st.LaborCost, st.PartsCost, st.ShopCost, st.TotalCost)
	}
	w.Flush()

	fmt.Println()
	fmt.Printf("Labor total:   $%s\n", result.LaborTotal)
	fmt.Printf("Parts total:   $%s\n", result.PartsTotal)
	fmt.Printf("Shop total:    $%s\n", result.ShopTotal)
	fmt.Printf("Travel total:  $%s\n", result.TravelTotal)
	fmt.Printf("Subtotal:      $%s\n", result.Subtotal)
	fmt.Printf("Tax (%s):      $%s\n", result.TaxRate.Mul(decimal.NewFromInt(100)).StringFixed(2)+"%", result.Tax)
	fmt.Printf("Grand total:   $%s\n", result.GrandTotal)

	if len(result.Contract.Years) > 0 {
		fmt.Println()
		fmt.Println("Escalation schedule:")
		for _, year := range result.Contract.Years {
			fmt.Printf("  Year %d: $%s\n", year.Year, year.Total)
		}
		fmt.Printf("  Five-year total: $%s\n", result.Contract.FiveYearTotal)
	}

	for _, warning := range result.Warnings {
		fmt.Printf("Warning: %s\n", warning)
	}
	fmt.Printf("\nStrategy: %s | Engine: %s\n", result.Metadata.Strategy, result.Metadata.EngineVersion)
}

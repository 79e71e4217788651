// Package cmd - compare command
package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"genquote/core/engine"
	"genquote/internal/config"
)

var compareJSON bool

// compareCmd represents the compare command
var compareCmd = &cobra.Command{
	Use:   "compare [fleet-definition]",
	Short: "Price a contract under both strategies and show the deltas",
	Long: `Run the catalog engine and the workbook parity engine against the
same fleet definition and report per-field differences. Used when
auditing catalog changes against historical quotes.`,
	Args: cobra.ExactArgs(1),
	RunE: runCompare,
}

func init() {
	compareCmd.Flags().BoolVar(&compareJSON, "json", false, "emit JSON instead of a table")
	compareCmd.Flags().Float64VarP(&distance, "distance", "d", 0, "one-way distance to the site in miles")
}

func runCompare(cmd *cobra.Command, args []string) error {
	req, err := loadRequest(args[0])
	if err != nil {
		return err
	}

	orchestrator, err := engine.New(config.Get(),
		engine.WithDistanceProvider(engine.StaticDistanceProvider(distance)))
	if err != nil {
		return err
	}

	comparison, err := orchestrator.Compare(context.Background(), req)
	if err != nil {
		return err
	}

	if compareJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(comparison)
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "FIELD\tSTANDARD\tLEGACY\tDELTA\tDELTA %")
	for _, d := range comparison.Deltas {
		fmt.Fprintf(w, "%s\t$%s\t$%s\t$%s\t%s%%\n",
			d.Field, d.Standard, d.Legacy, d.Delta, d.DeltaPercent.StringFixed(2))
	}
	w.Flush()

	if comparison.Mismatch {
		fmt.Println("\nMISMATCH: grand totals differ by more than one cent")
	} else {
		fmt.Println("\nStrategies agree within one cent")
	}
	return nil
}

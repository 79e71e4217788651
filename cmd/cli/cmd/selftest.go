// Package cmd - selftest command
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"genquote/core/engine"
	"genquote/internal/config"
)

// selftestCmd represents the selftest command
var selftestCmd = &cobra.Command{
	Use:   "selftest",
	Short: "Verify the parity engine against its reference quote",
	Long: `Recompute the reference quote the pricing workbook was audited
against and fail if any column drifted. Run after editing lookup
tables.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		orchestrator, err := engine.New(config.Get())
		if err != nil {
			return err
		}
		if err := orchestrator.SelfTest(); err != nil {
			return err
		}
		fmt.Println("Parity self test passed")
		return nil
	},
}

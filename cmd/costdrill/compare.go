package main

import (
	"fmt"
	"os"

	"github.com/elC0mpa/costdrill/export"
	"github.com/elC0mpa/costdrill/model"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"
)

var compareCmd = &cobra.Command{
	Use:   "compare <instance-id>",
	Short: "Compare an instance's costs against the previous period",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		app, err := newApp(ctx, cmd)
		if err != nil {
			return err
		}

		comparison, err := withSpinner("Comparing periods...", func() (*model.InstanceCostComparison, error) {
			return app.aggregator.GetInstanceCostComparison(ctx, args[0], app.cfg.Days)
		})
		if err != nil {
			return err
		}

		format, ok, err := exportFormat(cmd)
		if err != nil {
			return err
		}
		if ok && format == export.FormatJSON {
			return jsonEncoder(os.Stdout).Encode(comparison)
		}

		printComparison(comparison)
		return nil
	},
}

func printComparison(c *model.InstanceCostComparison) {
	fmt.Printf("\n%s\n", text.FgHiWhite.Sprintf(" ⚖  COST COMPARISON: %s (%s)", c.InstanceName, c.InstanceID))
	fmt.Printf(" Current:  %s to %s  $%.2f\n",
		c.Period1.Start.Format("2006-01-02"), c.Period1.End.Format("2006-01-02"), c.Period1.TotalCost)
	fmt.Printf(" Previous: %s to %s  $%.2f\n",
		c.Period2.Start.Format("2006-01-02"), c.Period2.End.Format("2006-01-02"), c.Period2.TotalCost)

	printChange("Total", c.Changes.TotalCost)
	printChange("Compute", c.Changes.ComputeCost)
	printChange("Storage", c.Changes.StorageCost)
	printChange("Data transfer", c.Changes.DataTransferCost)
}

func printChange(label string, change model.CostChange) {
	color := text.FgGreen
	if change.Absolute > 0 {
		color = text.FgRed
	}
	fmt.Printf(" %-14s %s\n", label+":", color.Sprintf("%+.2f (%+.1f%%)", change.Absolute, change.Percentage))
}

func init() {
	addExportFlag(compareCmd)
	rootCmd.AddCommand(compareCmd)
}

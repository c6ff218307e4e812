package main

import (
	"os"

	"github.com/elC0mpa/costdrill/export"
	"github.com/elC0mpa/costdrill/model"
	"github.com/elC0mpa/costdrill/utils"
	"github.com/spf13/cobra"
)

var wasteCmd = &cobra.Command{
	Use:   "waste",
	Short: "Detect instances with cost optimization opportunities",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		app, err := newApp(ctx, cmd)
		if err != nil {
			return err
		}

		opportunities, err := withSpinner("Running waste checkup...", func() ([]model.OptimizationOpportunity, error) {
			return app.aggregator.GetCostOptimizationOpportunities(ctx, app.cfg.Days)
		})
		if err != nil {
			return err
		}

		format, ok, err := exportFormat(cmd)
		if err != nil {
			return err
		}
		if ok {
			return export.Opportunities(os.Stdout, opportunities, format)
		}

		utils.DrawWasteTable(app.accountID(ctx), opportunities)
		return nil
	},
}

func init() {
	addExportFlag(wasteCmd)
	rootCmd.AddCommand(wasteCmd)
}

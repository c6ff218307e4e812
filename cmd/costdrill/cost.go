package main

import (
	"os"

	"github.com/elC0mpa/costdrill/export"
	"github.com/elC0mpa/costdrill/model"
	"github.com/elC0mpa/costdrill/utils"
	"github.com/spf13/cobra"
)

var costCmd = &cobra.Command{
	Use:   "cost",
	Short: "Show costs for a service, tag or the whole account",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		app, err := newApp(ctx, cmd)
		if err != nil {
			return err
		}

		serviceName, _ := cmd.Flags().GetString("service")
		tagKey, _ := cmd.Flags().GetString("tag-key")
		tagValue, _ := cmd.Flags().GetString("tag-value")
		groupBy, _ := cmd.Flags().GetString("group-by")
		chart, _ := cmd.Flags().GetBool("chart")

		summary, err := withSpinner("Querying Cost Explorer...", func() (*model.CostSummary, error) {
			if tagKey != "" {
				return app.costs.GetCostByTag(ctx, tagKey, tagValue, app.cfg.Days)
			}
			return app.costs.GetServiceCosts(ctx, serviceName, app.cfg.Days, groupBy)
		})
		if err != nil {
			return err
		}

		format, ok, err := exportFormat(cmd)
		if err != nil {
			return err
		}
		if ok {
			return export.CostSummary(os.Stdout, summary, format)
		}

		utils.DrawCostSummaryTable(app.accountID(ctx), summary)
		if chart {
			utils.DrawDailyCostChart(app.accountID(ctx), summary.DailyCosts())
		}
		return nil
	},
}

func init() {
	costCmd.Flags().String("service", "Amazon Elastic Compute Cloud - Compute", "exact Cost Explorer service name")
	costCmd.Flags().String("group-by", "USAGE_TYPE", "dimension to group by")
	costCmd.Flags().String("tag-key", "", "group costs by this tag key instead of a service")
	costCmd.Flags().String("tag-value", "", "restrict tag costs to this value")
	costCmd.Flags().Bool("chart", false, "draw the daily cost chart")
	addExportFlag(costCmd)
	rootCmd.AddCommand(costCmd)
}

func addExportFlag(cmd *cobra.Command) {
	cmd.Flags().StringP("output", "o", "", "export format: json, csv or markdown")
}

func exportFormat(cmd *cobra.Command) (export.Format, bool, error) {
	raw, _ := cmd.Flags().GetString("output")
	if raw == "" {
		return "", false, nil
	}
	format, err := export.ParseFormat(raw)
	if err != nil {
		return "", false, err
	}
	return format, true, nil
}

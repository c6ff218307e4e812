package main

import (
	"os"

	"github.com/elC0mpa/costdrill/export"
	"github.com/elC0mpa/costdrill/model"
	"github.com/elC0mpa/costdrill/utils"
	"github.com/spf13/cobra"
)

var ec2Cmd = &cobra.Command{
	Use:   "ec2 [instance-id]",
	Short: "Show per-instance EC2 costs for the region",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		app, err := newApp(ctx, cmd)
		if err != nil {
			return err
		}

		if len(args) == 1 {
			return showInstance(cmd, app, args[0])
		}

		tagKey, _ := cmd.Flags().GetString("tag-key")
		tagValue, _ := cmd.Flags().GetString("tag-value")

		summary, err := withSpinner("Joining inventory with billing data...", func() (*model.RegionalEC2Summary, error) {
			return app.aggregator.GetAllInstancesWithCosts(ctx, app.cfg.Days)
		})
		if err != nil {
			return err
		}

		if tagKey != "" {
			summary = &model.RegionalEC2Summary{
				Region:    summary.Region,
				Instances: summary.InstancesByTag(tagKey, tagValue),
				Start:     summary.Start,
				End:       summary.End,
			}
			var total float64
			for _, item := range summary.Instances {
				total += item.TotalCost().Amount
			}
			summary.TotalCost = model.NewCostAmount(total)
		}

		format, ok, err := exportFormat(cmd)
		if err != nil {
			return err
		}
		if ok {
			return export.RegionalSummary(os.Stdout, summary, format)
		}

		utils.DrawRegionalSummaryTable(app.accountID(ctx), summary)
		return nil
	},
}

func showInstance(cmd *cobra.Command, app *app, instanceID string) error {
	ctx := cmd.Context()

	item, err := withSpinner("Querying instance costs...", func() (*model.EC2InstanceWithCosts, error) {
		return app.aggregator.GetInstanceWithCosts(ctx, instanceID, app.cfg.Days)
	})
	if err != nil {
		return err
	}

	format, ok, err := exportFormat(cmd)
	if err != nil {
		return err
	}
	if ok && format == export.FormatJSON {
		enc := jsonEncoder(os.Stdout)
		return enc.Encode(item)
	}

	utils.DrawInstanceDetailTable(item)
	utils.DrawBreakdownTable(item.CostBreakdown)
	return nil
}

func init() {
	ec2Cmd.Flags().String("tag-key", "", "only show instances carrying this tag key")
	ec2Cmd.Flags().String("tag-value", "", "additionally require this exact tag value")
	addExportFlag(ec2Cmd)
	rootCmd.AddCommand(ec2Cmd)
}

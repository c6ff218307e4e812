package utils

import (
	"fmt"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/elC0mpa/costdrill/model"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

// DrawRegionalSummaryTable renders every instance of a regional summary
// with its costs, most expensive first
func DrawRegionalSummaryTable(accountID string, summary *model.RegionalEC2Summary) {
	fmt.Printf("\n%s\n", text.FgHiWhite.Sprintf(" 🖥  EC2 COSTS: %s", summary.Region))
	fmt.Printf(" Account ID: %s\n", text.FgBlue.Sprint(accountID))
	fmt.Printf(" Instances: %d (%d running, %d stopped)   Storage: %s\n",
		summary.InstanceCount(),
		summary.RunningInstanceCount(),
		summary.StoppedInstanceCount(),
		humanize.IBytes(uint64(summary.TotalStorageGB())*humanize.GiByte))

	tw := table.NewWriter()
	tw.SetOutputMirror(os.Stdout)
	tw.AppendHeader(table.Row{"Instance", "Type", "State", "Storage", "Total", "Daily", "Monthly Proj."})
	tw.SetStyle(table.StyleRounded)
	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 4, Align: text.AlignRight},
		{Number: 5, Align: text.AlignRight},
		{Number: 6, Align: text.AlignRight},
		{Number: 7, Align: text.AlignRight},
	})

	for _, item := range summary.TopCostInstances(summary.InstanceCount()) {
		stateText := text.FgGreen.Sprint(item.Instance.State)
		if item.Instance.State == model.StateStopped {
			stateText = text.FgYellow.Sprint(item.Instance.State)
		}

		tw.AppendRow(table.Row{
			fmt.Sprintf("%s\n%s", item.Instance.Name(), text.FgHiBlack.Sprint(item.Instance.InstanceID)),
			item.Instance.InstanceType,
			stateText,
			fmt.Sprintf("%d GB", item.Instance.TotalStorageGB()),
			item.TotalCost().String(),
			fmt.Sprintf("$%.2f", item.DailyCost()),
			fmt.Sprintf("$%.2f", item.MonthlyProjection()),
		})
	}

	tw.AppendSeparator()
	tw.AppendRow(table.Row{
		text.FgHiGreen.Sprint("Total"), "", "", "",
		text.FgHiGreen.Sprint(summary.TotalCost.String()), "", "",
	})
	tw.Render()
}

// DrawInstanceDetailTable renders one instance with its volumes
func DrawInstanceDetailTable(item *model.EC2InstanceWithCosts) {
	instance := item.Instance
	fmt.Printf("\n%s\n", text.FgHiWhite.Sprintf(" 🖥  %s (%s)", instance.Name(), instance.InstanceID))
	fmt.Printf(" Type: %s   State: %s   AZ: %s   Platform: %s\n",
		instance.InstanceType, instance.State, instance.AvailabilityZone, instance.Platform)
	if instance.UptimeHours() > 0 {
		fmt.Printf(" Launched: %s\n", humanize.Time(instance.LaunchTime))
	}

	if len(instance.EBSVolumes) > 0 {
		tw := table.NewWriter()
		tw.SetOutputMirror(os.Stdout)
		tw.AppendHeader(table.Row{"Volume", "Device", "State"})
		tw.SetStyle(table.StyleRounded)
		for _, vol := range instance.EBSVolumes {
			tw.AppendRow(table.Row{vol.DisplayName(), vol.DeviceName, vol.State})
		}
		tw.Render()
	}

	DrawBreakdownTable(item.CostBreakdown)
}

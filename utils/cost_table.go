package utils

import (
	"fmt"
	"os"
	"sort"

	"github.com/elC0mpa/costdrill/model"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

const dateLayout = "2006-01-02"

// DrawCostSummaryTable renders the grouped line items of a cost summary,
// ordered by cost descending, with the total as the final row
func DrawCostSummaryTable(accountID string, summary *model.CostSummary) {
	fmt.Printf("\n%s\n", text.FgHiWhite.Sprint(" 💰 COST SUMMARY"))
	fmt.Printf(" Account ID: %s\n", text.FgBlue.Sprint(accountID))
	fmt.Printf(" Period: %s to %s\n",
		summary.Start.Format(dateLayout), summary.End.Format(dateLayout))

	tw := table.NewWriter()
	tw.SetOutputMirror(os.Stdout)
	tw.AppendHeader(table.Row{"Key", "Cost"})
	tw.SetStyle(table.StyleRounded)
	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 2, Align: text.AlignRight},
	})

	ordered := make([]model.CostBreakdown, len(summary.Breakdowns))
	copy(ordered, summary.Breakdowns)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Cost.Amount > ordered[j].Cost.Amount
	})

	for _, bd := range ordered {
		tw.AppendRow(table.Row{
			text.FgGreen.Sprint(bd.Key),
			bd.Cost.String(),
		})
	}

	tw.AppendSeparator()
	tw.AppendRow(table.Row{
		text.FgHiGreen.Sprint("Total"),
		text.FgHiGreen.Sprint(summary.TotalCost.String()),
	})
	tw.Render()
}

// DrawBreakdownTable renders the category split of an instance breakdown
func DrawBreakdownTable(breakdown model.EC2CostBreakdown) {
	fmt.Printf("\n%s\n", text.FgHiWhite.Sprintf(" 🔎 COST BREAKDOWN: %s", breakdown.InstanceID))

	tw := table.NewWriter()
	tw.SetOutputMirror(os.Stdout)
	tw.AppendHeader(table.Row{"Category", "Cost", "Share"})
	tw.SetStyle(table.StyleRounded)
	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 2, Align: text.AlignRight},
		{Number: 3, Align: text.AlignRight},
	})

	type categoryRow struct {
		name  string
		share model.CategoryShare
	}
	rows := make([]categoryRow, 0, 6)
	for name, share := range breakdown.CategoryShares() {
		rows = append(rows, categoryRow{name, share})
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].share.Amount != rows[j].share.Amount {
			return rows[i].share.Amount > rows[j].share.Amount
		}
		return rows[i].name < rows[j].name
	})

	for _, row := range rows {
		tw.AppendRow(table.Row{
			text.FgGreen.Sprint(row.name),
			fmt.Sprintf("$%.2f", row.share.Amount),
			fmt.Sprintf("%.1f%%", row.share.Percentage),
		})
	}

	tw.AppendSeparator()
	tw.AppendRow(table.Row{
		text.FgHiGreen.Sprint("Total"),
		text.FgHiGreen.Sprint(breakdown.TotalCost.String()),
		"100.0%",
	})
	tw.Render()

	fmt.Printf(" Running hours: %.0f   Cost/hour: $%.4f   Cost/GB-month: $%.4f\n",
		breakdown.RunningHours, breakdown.CostPerHour, breakdown.CostPerGBMonth)
}

// DrawForecastTable renders a cost forecast with its prediction interval
func DrawForecastTable(accountID string, forecast *model.CostForecast) {
	fmt.Printf("\n%s\n", text.FgHiWhite.Sprint(" 🔮 COST FORECAST"))
	fmt.Printf(" Account ID: %s\n", text.FgBlue.Sprint(accountID))

	tw := table.NewWriter()
	tw.SetOutputMirror(os.Stdout)
	tw.AppendHeader(table.Row{"Period", "Forecast", "Lower", "Upper"})
	tw.SetStyle(table.StyleRounded)
	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 2, Align: text.AlignRight},
		{Number: 3, Align: text.AlignRight},
		{Number: 4, Align: text.AlignRight},
	})

	tw.AppendRow(table.Row{
		fmt.Sprintf("%s to %s", forecast.Start.Format(dateLayout), forecast.End.Format(dateLayout)),
		text.FgHiGreen.Sprint(forecast.MeanValue.String()),
		forecast.PredictionIntervalLower.String(),
		forecast.PredictionIntervalUpper.String(),
	})
	tw.Render()
}

package utils

import (
	"fmt"
	"os"

	"github.com/elC0mpa/costdrill/model"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

// DrawWasteTable renders the optimization opportunities with their
// recommendations, most expensive first
func DrawWasteTable(accountID string, opportunities []model.OptimizationOpportunity) {
	fmt.Printf("\n%s\n", text.FgHiWhite.Sprint(" 🩺 WASTE CHECKUP"))
	fmt.Printf(" Account ID: %s\n", text.FgBlue.Sprint(accountID))

	if len(opportunities) == 0 {
		fmt.Printf(" %s\n", text.FgHiGreen.Sprint("No waste detected. All instances look healthy."))
		return
	}

	tw := table.NewWriter()
	tw.SetOutputMirror(os.Stdout)
	tw.AppendHeader(table.Row{"Instance", "Type", "State", "Cost", "Flags", "Recommendations"})
	tw.SetStyle(table.StyleRounded)
	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 4, Align: text.AlignRight},
		{Number: 6, WidthMax: 60},
	})

	for _, opp := range opportunities {
		tw.AppendRow(table.Row{
			fmt.Sprintf("%s\n%s", opp.InstanceName, text.FgHiBlack.Sprint(opp.InstanceID)),
			opp.InstanceType,
			text.FgYellow.Sprint(opp.State),
			text.FgHiRed.Sprintf("$%.2f", opp.TotalCost),
			flagSummary(opp.Indicators),
			recommendationList(opp.Indicators.Recommendations),
		})
		tw.AppendSeparator()
	}
	tw.Render()
}

func flagSummary(indicators model.WasteIndicators) string {
	var flags []string
	if indicators.StoppedWithCosts {
		flags = append(flags, "stopped with costs")
	}
	if indicators.HighStorageRatio {
		flags = append(flags, "high storage ratio")
	}
	if indicators.HighDataTransfer {
		flags = append(flags, "high data transfer")
	}
	if indicators.ElasticIPCharges {
		flags = append(flags, "elastic IP charges")
	}

	out := ""
	for i, flag := range flags {
		if i > 0 {
			out += "\n"
		}
		out += text.FgRed.Sprint(flag)
	}
	return out
}

func recommendationList(recommendations []string) string {
	out := ""
	for i, rec := range recommendations {
		if i > 0 {
			out += "\n"
		}
		out += "• " + rec
	}
	return out
}

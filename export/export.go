// Package export writes query results as machine-readable reports.
package export

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/elC0mpa/costdrill/model"
	"github.com/jedib0t/go-pretty/v6/table"
)

// Format selects the report output format
type Format string

const (
	FormatJSON     Format = "json"
	FormatCSV      Format = "csv"
	FormatMarkdown Format = "markdown"
)

// ParseFormat validates a format string from user input
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case FormatJSON, FormatCSV, FormatMarkdown:
		return Format(s), nil
	}
	return "", fmt.Errorf("unknown export format %q, expected json, csv or markdown", s)
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func render(w io.Writer, tw table.Writer, format Format) error {
	var out string
	switch format {
	case FormatCSV:
		out = tw.RenderCSV()
	default:
		out = tw.RenderMarkdown()
	}
	_, err := io.WriteString(w, out+"\n")
	return err
}

// CostSummary writes a cost summary report in the requested format
func CostSummary(w io.Writer, summary *model.CostSummary, format Format) error {
	if format == FormatJSON {
		return writeJSON(w, summary)
	}

	tw := table.NewWriter()
	tw.AppendHeader(table.Row{"Key", "Cost", "Unit"})
	for _, bd := range summary.Breakdowns {
		tw.AppendRow(table.Row{bd.Key, fmt.Sprintf("%.2f", bd.Cost.Amount), bd.Cost.Unit})
	}
	tw.AppendFooter(table.Row{"Total", fmt.Sprintf("%.2f", summary.TotalCost.Amount), summary.TotalCost.Unit})
	return render(w, tw, format)
}

// RegionalSummary writes a per-instance cost report in the requested format
func RegionalSummary(w io.Writer, summary *model.RegionalEC2Summary, format Format) error {
	if format == FormatJSON {
		return writeJSON(w, summary)
	}

	tw := table.NewWriter()
	tw.AppendHeader(table.Row{"Instance ID", "Name", "Type", "State", "Storage GB", "Total", "Daily", "Monthly Proj."})
	for _, item := range summary.Instances {
		tw.AppendRow(table.Row{
			item.Instance.InstanceID,
			item.Instance.Name(),
			item.Instance.InstanceType,
			string(item.Instance.State),
			item.Instance.TotalStorageGB(),
			fmt.Sprintf("%.2f", item.TotalCost().Amount),
			fmt.Sprintf("%.2f", item.DailyCost()),
			fmt.Sprintf("%.2f", item.MonthlyProjection()),
		})
	}
	tw.AppendFooter(table.Row{"Total", "", "", "", summary.TotalStorageGB(),
		fmt.Sprintf("%.2f", summary.TotalCost.Amount), "", ""})
	return render(w, tw, format)
}

// Opportunities writes the waste report in the requested format
func Opportunities(w io.Writer, opportunities []model.OptimizationOpportunity, format Format) error {
	if format == FormatJSON {
		return writeJSON(w, opportunities)
	}

	tw := table.NewWriter()
	tw.AppendHeader(table.Row{"Instance ID", "Name", "Type", "State", "Cost", "Recommendations"})
	for _, opp := range opportunities {
		recs := ""
		for i, rec := range opp.Indicators.Recommendations {
			if i > 0 {
				recs += "; "
			}
			recs += rec
		}
		tw.AppendRow(table.Row{
			opp.InstanceID,
			opp.InstanceName,
			opp.InstanceType,
			string(opp.State),
			fmt.Sprintf("%.2f", opp.TotalCost),
			recs,
		})
	}
	return render(w, tw, format)
}

// Forecast writes a forecast report in the requested format
func Forecast(w io.Writer, forecast *model.CostForecast, format Format) error {
	if format == FormatJSON {
		return writeJSON(w, forecast)
	}

	tw := table.NewWriter()
	tw.AppendHeader(table.Row{"Start", "End", "Forecast", "Lower", "Upper"})
	tw.AppendRow(table.Row{
		forecast.Start.Format("2006-01-02"),
		forecast.End.Format("2006-01-02"),
		fmt.Sprintf("%.2f", forecast.MeanValue.Amount),
		fmt.Sprintf("%.2f", forecast.PredictionIntervalLower.Amount),
		fmt.Sprintf("%.2f", forecast.PredictionIntervalUpper.Amount),
	})
	return render(w, tw, format)
}

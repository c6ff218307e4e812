package utils

import (
	"fmt"
	"sort"

	"github.com/NimbleMarkets/ntcharts/barchart"
	"github.com/charmbracelet/lipgloss"
	"github.com/elC0mpa/costdrill/model"
	"github.com/jedib0t/go-pretty/v6/text"
)

const (
	ColorRank1 = "#d73027"
	ColorRank2 = "#f46d43"
	ColorRank3 = "#fee08b"
	ColorRank4 = "#abdda4"
	ColorRank5 = "#66c2a5"
	ColorRank6 = "#1a9850"
)

var chartBorderStyle = lipgloss.NewStyle().
	BorderStyle(lipgloss.NormalBorder()).
	BorderForeground(lipgloss.Color("#F4D060"))

// DrawDailyCostChart renders the daily cost series as a bar chart. Bars
// are colored by rank so the most expensive days stand out.
func DrawDailyCostChart(accountID string, dailyCosts []model.DailyCost) {
	fmt.Printf("\n%s\n", text.FgHiWhite.Sprint(" 📈 DAILY COST TREND"))
	fmt.Printf(" Account ID: %s\n", text.FgBlue.Sprint(accountID))
	fmt.Println(text.FgHiBlue.Sprint(" ------------------------------------------------"))

	bc := barchart.New(130, 20)
	indexedColors := assignRankedColors(dailyCosts)

	for idx, daily := range dailyCosts {
		bc.Push(barchart.BarData{
			Label: fmt.Sprintf("%s: $%.2f", daily.Date.Format("Jan 02"), daily.Amount),
			Values: []barchart.BarValue{
				{
					Value: daily.Amount,
					Style: lipgloss.NewStyle().Foreground(lipgloss.Color(indexedColors[idx])),
				},
			},
		})
	}

	bc.Draw()
	fmt.Println(lipgloss.JoinHorizontal(lipgloss.Top, chartBorderStyle.Render(bc.View())))
}

// assignRankedColors maps each data point to a palette color by its cost
// rank, keeping the original ordering of the series. Points beyond the
// palette size stay uncolored.
func assignRankedColors(dailyCosts []model.DailyCost) []string {
	palette := []string{ColorRank1, ColorRank2, ColorRank3, ColorRank4, ColorRank5, ColorRank6}

	type costWithIndex struct {
		index int
		value float64
	}

	costsToSort := make([]costWithIndex, len(dailyCosts))
	for i, cost := range dailyCosts {
		costsToSort[i] = costWithIndex{index: i, value: cost.Amount}
	}

	sort.Slice(costsToSort, func(i, j int) bool {
		return costsToSort[i].value > costsToSort[j].value
	})

	resultColors := make([]string, len(dailyCosts))
	for rank, sortedCost := range costsToSort {
		if rank < len(palette) {
			resultColors[sortedCost.index] = palette[rank]
		}
	}

	return resultColors
}

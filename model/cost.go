package model

import (
	"fmt"
	"strings"
	"time"
)

// CostAmount represents a cost amount with its currency unit
type CostAmount struct {
	Amount float64 `json:"amount"`
	Unit   string  `json:"unit"`
}

// NewCostAmount creates a USD cost amount
func NewCostAmount(amount float64) CostAmount {
	return CostAmount{Amount: amount, Unit: "USD"}
}

func (c CostAmount) String() string {
	return fmt.Sprintf("$%.2f", c.Amount)
}

// CostMetrics bundles the cost variants reported for a time period.
// Only the unblended cost is always present; the other variants are
// populated only when the API response carries them.
type CostMetrics struct {
	UnblendedCost    CostAmount  `json:"unblended_cost"`
	BlendedCost      *CostAmount `json:"blended_cost,omitempty"`
	AmortizedCost    *CostAmount `json:"amortized_cost,omitempty"`
	NetUnblendedCost *CostAmount `json:"net_unblended_cost,omitempty"`
	NetAmortizedCost *CostAmount `json:"net_amortized_cost,omitempty"`
	UsageQuantity    *float64    `json:"usage_quantity,omitempty"`
}

// TimeSeriesCost contains cost data for a single time period
type TimeSeriesCost struct {
	Start     time.Time           `json:"start"`
	End       time.Time           `json:"end"`
	Metrics   CostMetrics         `json:"metrics"`
	Groups    []map[string]string `json:"groups,omitempty"`
	Estimated bool                `json:"estimated"`
}

// TotalCost returns the primary (unblended) cost amount for the period
func (t TimeSeriesCost) TotalCost() float64 {
	return t.Metrics.UnblendedCost.Amount
}

// CostBreakdown is one grouped line item of cost data, keyed by a
// dimension such as usage type, service or region
type CostBreakdown struct {
	Category string      `json:"category"`
	Key      string      `json:"key"`
	Cost     CostAmount  `json:"cost"`
	Metrics  CostMetrics `json:"metrics"`
}

// DailyCost pairs a date with the cost incurred on it
type DailyCost struct {
	Date   time.Time `json:"date"`
	Amount float64   `json:"amount"`
}

// CostSummary is the aggregated result of a cost query
type CostSummary struct {
	Start           time.Time                    `json:"start"`
	End             time.Time                    `json:"end"`
	TimeSeries      []TimeSeriesCost             `json:"time_series"`
	TotalCost       CostAmount                   `json:"total_cost"`
	Breakdowns      []CostBreakdown              `json:"breakdowns,omitempty"`
	DimensionValues map[string]map[string]string `json:"dimension_values,omitempty"`
}

// DailyCosts returns one entry per time series period, preserving order
func (s CostSummary) DailyCosts() []DailyCost {
	costs := make([]DailyCost, 0, len(s.TimeSeries))
	for _, ts := range s.TimeSeries {
		costs = append(costs, DailyCost{Date: ts.Start, Amount: ts.TotalCost()})
	}
	return costs
}

// BreakdownsByKey returns breakdowns whose key contains the given
// substring, case-insensitively
func (s CostSummary) BreakdownsByKey(key string) []CostBreakdown {
	lower := strings.ToLower(key)
	var matched []CostBreakdown
	for _, bd := range s.Breakdowns {
		if strings.Contains(strings.ToLower(bd.Key), lower) {
			matched = append(matched, bd)
		}
	}
	return matched
}

// CostForecast represents predicted future cost
type CostForecast struct {
	Start                   time.Time        `json:"start"`
	End                     time.Time        `json:"end"`
	MeanValue               CostAmount       `json:"mean_value"`
	PredictionIntervalLower CostAmount       `json:"prediction_interval_lower"`
	PredictionIntervalUpper CostAmount       `json:"prediction_interval_upper"`
	TimeSeries              []TimeSeriesCost `json:"time_series,omitempty"`
}

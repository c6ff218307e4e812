package awscostexplorer

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/costexplorer"
	"github.com/aws/aws-sdk-go-v2/service/costexplorer/types"
	"github.com/elC0mpa/costdrill/model"
)

// Cost Explorer reports calendar dates without a timezone
const dateLayout = "2006-01-02"

const (
	metricUnblendedCost    = "UnblendedCost"
	metricBlendedCost      = "BlendedCost"
	metricAmortizedCost    = "AmortizedCost"
	metricNetUnblendedCost = "NetUnblendedCost"
	metricNetAmortizedCost = "NetAmortizedCost"
	metricUsageQuantity    = "UsageQuantity"
)

func parseAmount(mv types.MetricValue) model.CostAmount {
	amount, _ := strconv.ParseFloat(aws.ToString(mv.Amount), 64)
	unit := aws.ToString(mv.Unit)
	if unit == "" {
		unit = "USD"
	}
	return model.CostAmount{Amount: amount, Unit: unit}
}

// ParseMetrics converts a metrics map into CostMetrics. A missing
// unblended cost is treated as zero; all other variants stay absent
// unless the response carries them.
func ParseMetrics(metrics map[string]types.MetricValue) model.CostMetrics {
	parsed := model.CostMetrics{UnblendedCost: model.NewCostAmount(0)}

	if mv, ok := metrics[metricUnblendedCost]; ok {
		parsed.UnblendedCost = parseAmount(mv)
	}
	if mv, ok := metrics[metricBlendedCost]; ok {
		amount := parseAmount(mv)
		parsed.BlendedCost = &amount
	}
	if mv, ok := metrics[metricAmortizedCost]; ok {
		amount := parseAmount(mv)
		parsed.AmortizedCost = &amount
	}
	if mv, ok := metrics[metricNetUnblendedCost]; ok {
		amount := parseAmount(mv)
		parsed.NetUnblendedCost = &amount
	}
	if mv, ok := metrics[metricNetAmortizedCost]; ok {
		amount := parseAmount(mv)
		parsed.NetAmortizedCost = &amount
	}
	if mv, ok := metrics[metricUsageQuantity]; ok {
		if quantity, err := strconv.ParseFloat(aws.ToString(mv.Amount), 64); err == nil {
			parsed.UsageQuantity = &quantity
		}
	}

	return parsed
}

func parsePeriod(period *types.DateInterval) (start, end time.Time, err error) {
	if period == nil || period.Start == nil || period.End == nil {
		return time.Time{}, time.Time{}, fmt.Errorf("result period is missing its time boundaries")
	}
	start, err = time.Parse(dateLayout, aws.ToString(period.Start))
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("parsing period start %q: %w", aws.ToString(period.Start), err)
	}
	end, err = time.Parse(dateLayout, aws.ToString(period.End))
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("parsing period end %q: %w", aws.ToString(period.End), err)
	}
	return start, end, nil
}

// splitGroupKey splits a composite "DIMENSION$value" group key on the
// first delimiter. Keys without a delimiter get the UNKNOWN category.
func splitGroupKey(composite string) (category, key string) {
	parts := strings.SplitN(composite, "$", 2)
	if len(parts) == 2 {
		return parts[0], parts[1]
	}
	return "UNKNOWN", composite
}

func rawGroups(groups []types.Group) []map[string]string {
	if len(groups) == 0 {
		return nil
	}
	raw := make([]map[string]string, 0, len(groups))
	for _, g := range groups {
		entry := map[string]string{"keys": strings.Join(g.Keys, ",")}
		if mv, ok := g.Metrics[metricUnblendedCost]; ok {
			entry[metricUnblendedCost] = aws.ToString(mv.Amount)
		}
		raw = append(raw, entry)
	}
	return raw
}

// ParseResultByTime converts a single period of a cost and usage
// response. Malformed period boundaries are a fatal parse error.
func ParseResultByTime(result types.ResultByTime) (model.TimeSeriesCost, error) {
	start, end, err := parsePeriod(result.TimePeriod)
	if err != nil {
		return model.TimeSeriesCost{}, err
	}

	return model.TimeSeriesCost{
		Start:     start,
		End:       end,
		Metrics:   ParseMetrics(result.Total),
		Groups:    rawGroups(result.Groups),
		Estimated: result.Estimated,
	}, nil
}

// ParseCostAndUsage converts a complete GetCostAndUsage response into a
// CostSummary. A response with no periods yields an empty summary, not
// an error. The total is the sum of per-period unblended costs; group
// breakdowns are never summed into it, since groups may only cover a
// subset of the total.
func ParseCostAndUsage(output *costexplorer.GetCostAndUsageOutput) (*model.CostSummary, error) {
	if output == nil || len(output.ResultsByTime) == 0 {
		now := time.Now()
		return &model.CostSummary{
			Start:      now,
			End:        now,
			TimeSeries: []model.TimeSeriesCost{},
			TotalCost:  model.NewCostAmount(0),
		}, nil
	}

	timeSeries := make([]model.TimeSeriesCost, 0, len(output.ResultsByTime))
	var total float64
	var breakdowns []model.CostBreakdown

	for _, result := range output.ResultsByTime {
		ts, err := ParseResultByTime(result)
		if err != nil {
			return nil, err
		}
		timeSeries = append(timeSeries, ts)
		total += ts.TotalCost()

		// every period's groups contribute separate breakdown entries
		for _, group := range result.Groups {
			if len(group.Keys) == 0 {
				continue
			}
			category, key := splitGroupKey(group.Keys[0])
			metrics := ParseMetrics(group.Metrics)
			breakdowns = append(breakdowns, model.CostBreakdown{
				Category: category,
				Key:      key,
				Cost:     metrics.UnblendedCost,
				Metrics:  metrics,
			})
		}
	}

	var dimensionValues map[string]map[string]string
	if len(output.DimensionValueAttributes) > 0 {
		dimensionValues = make(map[string]map[string]string, len(output.DimensionValueAttributes))
		for _, attr := range output.DimensionValueAttributes {
			if value := aws.ToString(attr.Value); value != "" {
				dimensionValues[value] = attr.Attributes
			}
		}
	}

	return &model.CostSummary{
		Start:           timeSeries[0].Start,
		End:             timeSeries[len(timeSeries)-1].End,
		TimeSeries:      timeSeries,
		TotalCost:       model.NewCostAmount(total),
		Breakdowns:      breakdowns,
		DimensionValues: dimensionValues,
	}, nil
}

// ParseForecast converts a GetCostForecast response. The forecast window
// is supplied by the caller since the response does not echo it.
// Per-period entries are always marked estimated.
func ParseForecast(start, end time.Time, output *costexplorer.GetCostForecastOutput) (*model.CostForecast, error) {
	forecast := &model.CostForecast{
		Start:                   start,
		End:                     end,
		MeanValue:               model.NewCostAmount(0),
		PredictionIntervalLower: model.NewCostAmount(0),
		PredictionIntervalUpper: model.NewCostAmount(0),
	}

	if output == nil {
		return forecast, nil
	}

	if output.Total != nil {
		forecast.MeanValue = parseAmount(*output.Total)
	}

	var lower, upper float64
	for _, result := range output.ForecastResultsByTime {
		tsStart, tsEnd, err := parsePeriod(result.TimePeriod)
		if err != nil {
			return nil, err
		}

		mean, _ := strconv.ParseFloat(aws.ToString(result.MeanValue), 64)
		lowerBound, _ := strconv.ParseFloat(aws.ToString(result.PredictionIntervalLowerBound), 64)
		upperBound, _ := strconv.ParseFloat(aws.ToString(result.PredictionIntervalUpperBound), 64)
		lower += lowerBound
		upper += upperBound

		forecast.TimeSeries = append(forecast.TimeSeries, model.TimeSeriesCost{
			Start:     tsStart,
			End:       tsEnd,
			Metrics:   model.CostMetrics{UnblendedCost: model.NewCostAmount(mean)},
			Estimated: true,
		})
	}

	forecast.PredictionIntervalLower = model.NewCostAmount(lower)
	forecast.PredictionIntervalUpper = model.NewCostAmount(upper)
	return forecast, nil
}

// Package analyzer categorizes usage-type cost line items into semantic
// buckets and derives unit economics and waste indicators from them.
package analyzer

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/elC0mpa/costdrill/model"
	"github.com/go-logr/logr"
)

// Category is one of the six mutually exclusive cost buckets
type Category string

const (
	CategoryCompute      Category = "compute"
	CategorySnapshot     Category = "snapshot"
	CategoryStorage      Category = "storage"
	CategoryDataTransfer Category = "data_transfer"
	CategoryElasticIP    Category = "elastic_ip"
	CategoryOther        Category = "other"
)

// hoursPerMonth converts GB-hours to GB-months
const hoursPerMonth = 730

// fallbackRunningHours is assumed when no BoxUsage line reports a usage
// quantity: a 30 day month of 24 hour days
const fallbackRunningHours = 720

type categoryMatcher struct {
	category Category
	pattern  *regexp.Regexp
}

// usageCategories is ordered and the order is load-bearing: snapshot
// lines also match the generic volume patterns, so snapshot must be
// tested before storage. First match wins; anything unmatched is other.
var usageCategories = []categoryMatcher{
	{CategoryCompute, regexp.MustCompile(`(?i)BoxUsage|HeavyUsage|SpotUsage|ReservedInstanceUsage|UnusedBox|UnusedDed`)},
	{CategorySnapshot, regexp.MustCompile(`(?i)EBS:SnapshotUsage`)},
	{CategoryStorage, regexp.MustCompile(`(?i)EBS:VolumeUsage|EBS:VolumeP-IOPS|EBS:Volume`)},
	{CategoryDataTransfer, regexp.MustCompile(`(?i)DataTransfer|InterRegion|PublicIP`)},
	{CategoryElasticIP, regexp.MustCompile(`(?i)ElasticIP|IdleAddress`)},
}

// Categorize maps a usage-type string to its cost category
func Categorize(usageType string) Category {
	for _, matcher := range usageCategories {
		if matcher.pattern.MatchString(usageType) {
			return matcher.category
		}
	}
	return CategoryOther
}

type Analyzer struct {
	log logr.Logger
}

func NewAnalyzer(log logr.Logger) *Analyzer {
	return &Analyzer{log: log.WithName("analyzer")}
}

// AnalyzeCostBreakdown categorizes every usage-type line item of a cost
// summary and derives the per-unit cost metrics. It never fails; a
// summary without breakdowns yields a zero-valued result.
func (a *Analyzer) AnalyzeCostBreakdown(instanceID string, summary *model.CostSummary) model.EC2CostBreakdown {
	totals := map[Category]float64{}
	usageTypeBreakdown := make(map[string]model.CostAmount, len(summary.Breakdowns))

	for _, bd := range summary.Breakdowns {
		usageTypeBreakdown[bd.Key] = bd.Cost

		category := Categorize(bd.Key)
		totals[category] += bd.Cost.Amount
		if category == CategoryOther {
			a.log.V(1).Info("uncategorized usage type", "usage_type", bd.Key)
		}
	}

	runningHours := runningHours(summary.Breakdowns)
	storageGBHours := storageGBHours(summary.Breakdowns)

	var costPerHour float64
	if runningHours > 0 {
		costPerHour = totals[CategoryCompute] / runningHours
	}
	var costPerGBMonth float64
	if storageGBHours > 0 {
		costPerGBMonth = totals[CategoryStorage] / (storageGBHours / hoursPerMonth)
	}

	return model.EC2CostBreakdown{
		InstanceID:         instanceID,
		TotalCost:          summary.TotalCost,
		ComputeCost:        model.NewCostAmount(totals[CategoryCompute]),
		StorageCost:        model.NewCostAmount(totals[CategoryStorage]),
		DataTransferCost:   model.NewCostAmount(totals[CategoryDataTransfer]),
		SnapshotCost:       model.NewCostAmount(totals[CategorySnapshot]),
		ElasticIPCost:      model.NewCostAmount(totals[CategoryElasticIP]),
		OtherCosts:         model.NewCostAmount(totals[CategoryOther]),
		RunningHours:       runningHours,
		StorageGBHours:     storageGBHours,
		CostPerHour:        costPerHour,
		CostPerGBMonth:     costPerGBMonth,
		UsageTypeBreakdown: usageTypeBreakdown,
	}
}

// AnalyzeRegionalBreakdown analyzes a summary spanning all instances of
// a region
func (a *Analyzer) AnalyzeRegionalBreakdown(summary *model.CostSummary) model.EC2CostBreakdown {
	return a.AnalyzeCostBreakdown("all", summary)
}

// runningHours takes the usage quantity of the first BoxUsage line item
// when the API reports one; for box usage the quantity is an hour count.
// Without one it assumes a full 720 hour month.
func runningHours(breakdowns []model.CostBreakdown) float64 {
	for _, bd := range breakdowns {
		if strings.Contains(bd.Key, "BoxUsage") && bd.Metrics.UsageQuantity != nil {
			return *bd.Metrics.UsageQuantity
		}
	}
	return fallbackRunningHours
}

// storageGBHours sums the usage quantities of volume-usage line items;
// the API reports GB-hours directly for those. Lines without a quantity
// contribute nothing.
func storageGBHours(breakdowns []model.CostBreakdown) float64 {
	var total float64
	for _, bd := range breakdowns {
		if strings.Contains(bd.Key, "VolumeUsage") && bd.Metrics.UsageQuantity != nil {
			total += *bd.Metrics.UsageQuantity
		}
	}
	return total
}

// CalculateWasteIndicators evaluates the independent waste heuristics
// over a cost breakdown. Every triggered flag contributes exactly one
// recommendation.
func (a *Analyzer) CalculateWasteIndicators(breakdown model.EC2CostBreakdown, state model.InstanceState) model.WasteIndicators {
	indicators := model.WasteIndicators{}

	if state == model.StateStopped && breakdown.TotalCost.Amount > 0 {
		indicators.StoppedWithCosts = true
		indicators.HasWaste = true
		indicators.Recommendations = append(indicators.Recommendations, fmt.Sprintf(
			"Instance is stopped but incurring $%.2f in costs. Consider terminating if not needed.",
			breakdown.TotalCost.Amount))
	}

	if breakdown.ComputeCost.Amount > 0 &&
		breakdown.StorageCost.Amount/breakdown.ComputeCost.Amount > 1.0 {
		indicators.HighStorageRatio = true
		indicators.HasWaste = true
		indicators.Recommendations = append(indicators.Recommendations, fmt.Sprintf(
			"Storage costs ($%.2f) exceed compute costs. Review attached volumes for optimization opportunities.",
			breakdown.StorageCost.Amount))
	}

	// the threshold is deliberately relative to compute cost, not total
	if breakdown.DataTransferCost.Amount > breakdown.ComputeCost.Amount*0.3 &&
		breakdown.DataTransferCost.Amount > 0 {
		indicators.HighDataTransfer = true
		indicators.HasWaste = true
		indicators.Recommendations = append(indicators.Recommendations, fmt.Sprintf(
			"Data transfer costs are %.1f%% of total. Consider optimizing data transfer patterns.",
			breakdown.DataTransferPercentage()))
	}

	if breakdown.ElasticIPCost.Amount > 0 {
		indicators.ElasticIPCharges = true
		indicators.HasWaste = true
		indicators.Recommendations = append(indicators.Recommendations, fmt.Sprintf(
			"Elastic IP charges detected ($%.2f). Ensure IPs are associated with running instances.",
			breakdown.ElasticIPCost.Amount))
	}

	return indicators
}

func costChange(current, baseline float64) model.CostChange {
	change := model.CostChange{Absolute: current - baseline}
	if baseline != 0 {
		change.Percentage = (current - baseline) / baseline * 100
	}
	return change
}

// CompareBreakdowns computes the absolute and relative change from
// baseline to current per category. A zero baseline reports a zero
// percentage change rather than an infinite one.
func CompareBreakdowns(current, baseline model.EC2CostBreakdown) model.CostComparison {
	return model.CostComparison{
		TotalCost:        costChange(current.TotalCost.Amount, baseline.TotalCost.Amount),
		ComputeCost:      costChange(current.ComputeCost.Amount, baseline.ComputeCost.Amount),
		StorageCost:      costChange(current.StorageCost.Amount, baseline.StorageCost.Amount),
		DataTransferCost: costChange(current.DataTransferCost.Amount, baseline.DataTransferCost.Amount),
	}
}

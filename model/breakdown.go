package model

import (
	"sort"
	"time"

	"github.com/samber/lo"
)

// EC2CostBreakdown is the per-instance cost analysis, with the total
// split across the six usage categories. The category costs always sum
// back to the total, modulo float rounding.
type EC2CostBreakdown struct {
	InstanceID string     `json:"instance_id"`
	TotalCost  CostAmount `json:"total_cost"`

	ComputeCost      CostAmount `json:"compute_cost"`
	StorageCost      CostAmount `json:"storage_cost"`
	DataTransferCost CostAmount `json:"data_transfer_cost"`
	SnapshotCost     CostAmount `json:"snapshot_cost"`
	ElasticIPCost    CostAmount `json:"elastic_ip_cost"`
	OtherCosts       CostAmount `json:"other_costs"`

	// RunningHours comes from the BoxUsage usage quantity when the API
	// reports one, otherwise it falls back to a 720 hour month. Treat it
	// as an estimate, not a measurement.
	RunningHours   float64 `json:"running_hours"`
	StorageGBHours float64 `json:"storage_gb_hours"`

	CostPerHour    float64 `json:"cost_per_hour"`
	CostPerGBMonth float64 `json:"cost_per_gb_month"`

	UsageTypeBreakdown map[string]CostAmount `json:"usage_type_breakdown,omitempty"`
}

func (b EC2CostBreakdown) percentage(amount float64) float64 {
	if b.TotalCost.Amount == 0 {
		return 0
	}
	return amount / b.TotalCost.Amount * 100
}

// ComputePercentage returns compute cost as a percentage of total
func (b EC2CostBreakdown) ComputePercentage() float64 {
	return b.percentage(b.ComputeCost.Amount)
}

// StoragePercentage returns storage cost as a percentage of total
func (b EC2CostBreakdown) StoragePercentage() float64 {
	return b.percentage(b.StorageCost.Amount)
}

// DataTransferPercentage returns data transfer cost as a percentage of total
func (b EC2CostBreakdown) DataTransferPercentage() float64 {
	return b.percentage(b.DataTransferCost.Amount)
}

// SnapshotPercentage returns snapshot cost as a percentage of total
func (b EC2CostBreakdown) SnapshotPercentage() float64 {
	return b.percentage(b.SnapshotCost.Amount)
}

// ElasticIPPercentage returns elastic IP cost as a percentage of total
func (b EC2CostBreakdown) ElasticIPPercentage() float64 {
	return b.percentage(b.ElasticIPCost.Amount)
}

// OtherPercentage returns uncategorized cost as a percentage of total
func (b EC2CostBreakdown) OtherPercentage() float64 {
	return b.percentage(b.OtherCosts.Amount)
}

// CategoryShare is one component of a cost breakdown
type CategoryShare struct {
	Amount     float64 `json:"amount"`
	Percentage float64 `json:"percentage"`
}

// CategoryShares returns the breakdown as plain serializable data for
// exporters and the presentation layer
func (b EC2CostBreakdown) CategoryShares() map[string]CategoryShare {
	return map[string]CategoryShare{
		"compute":       {Amount: b.ComputeCost.Amount, Percentage: b.ComputePercentage()},
		"storage":       {Amount: b.StorageCost.Amount, Percentage: b.StoragePercentage()},
		"data_transfer": {Amount: b.DataTransferCost.Amount, Percentage: b.DataTransferPercentage()},
		"snapshot":      {Amount: b.SnapshotCost.Amount, Percentage: b.SnapshotPercentage()},
		"elastic_ip":    {Amount: b.ElasticIPCost.Amount, Percentage: b.ElasticIPPercentage()},
		"other":         {Amount: b.OtherCosts.Amount, Percentage: b.OtherPercentage()},
	}
}

// WasteIndicators holds the waste heuristics evaluated for an instance.
// The flags are independent; HasWaste is true whenever any flag is set,
// and each triggered flag contributes exactly one recommendation.
type WasteIndicators struct {
	HasWaste         bool     `json:"has_waste"`
	StoppedWithCosts bool     `json:"stopped_with_costs"`
	HighStorageRatio bool     `json:"high_storage_ratio"`
	HighDataTransfer bool     `json:"high_data_transfer"`
	ElasticIPCharges bool     `json:"elastic_ip_charges"`
	Recommendations  []string `json:"recommendations,omitempty"`
}

// OptimizationOpportunity records an instance with at least one waste flag
type OptimizationOpportunity struct {
	InstanceID   string          `json:"instance_id"`
	InstanceName string          `json:"instance_name"`
	InstanceType string          `json:"instance_type"`
	State        InstanceState   `json:"state"`
	TotalCost    float64         `json:"total_cost"`
	Indicators   WasteIndicators `json:"indicators"`
}

// CostChange is the absolute and relative change of one cost component.
// Percentage is zero when the baseline value is zero.
type CostChange struct {
	Absolute   float64 `json:"absolute"`
	Percentage float64 `json:"percentage"`
}

// CostComparison compares two cost breakdowns per category
type CostComparison struct {
	TotalCost        CostChange `json:"total_cost"`
	ComputeCost      CostChange `json:"compute_cost"`
	StorageCost      CostChange `json:"storage_cost"`
	DataTransferCost CostChange `json:"data_transfer_cost"`
}

// PeriodCosts captures one window of an instance cost comparison
type PeriodCosts struct {
	Start     time.Time                `json:"start"`
	End       time.Time                `json:"end"`
	TotalCost float64                  `json:"total_cost"`
	Breakdown map[string]CategoryShare `json:"breakdown"`
}

// InstanceCostComparison is the result of comparing an instance's costs
// across two adjacent windows
type InstanceCostComparison struct {
	InstanceID   string         `json:"instance_id"`
	InstanceName string         `json:"instance_name"`
	Period1      PeriodCosts    `json:"period1"`
	Period2      PeriodCosts    `json:"period2"`
	Changes      CostComparison `json:"changes"`
}

// EC2InstanceWithCosts pairs instance metadata with its cost breakdown
// for a query window
type EC2InstanceWithCosts struct {
	Instance      EC2Instance      `json:"instance"`
	CostBreakdown EC2CostBreakdown `json:"cost_breakdown"`
	Start         time.Time        `json:"start"`
	End           time.Time        `json:"end"`
}

// TotalCost returns the total cost for the window
func (e EC2InstanceWithCosts) TotalCost() CostAmount {
	return e.CostBreakdown.TotalCost
}

// DailyCost returns the average daily cost across the window. A zero-day
// window returns the raw total.
func (e EC2InstanceWithCosts) DailyCost() float64 {
	days := int(e.End.Sub(e.Start).Hours() / 24)
	if days == 0 {
		return e.CostBreakdown.TotalCost.Amount
	}
	return e.CostBreakdown.TotalCost.Amount / float64(days)
}

// MonthlyProjection projects a 30 day cost from the daily average
func (e EC2InstanceWithCosts) MonthlyProjection() float64 {
	return e.DailyCost() * 30
}

// RegionalEC2Summary aggregates all instances of a region with costs
type RegionalEC2Summary struct {
	Region    string                 `json:"region"`
	Instances []EC2InstanceWithCosts `json:"instances"`
	TotalCost CostAmount             `json:"total_cost"`
	Start     time.Time              `json:"start"`
	End       time.Time              `json:"end"`
}

// InstanceCount returns the number of instances in the summary
func (s RegionalEC2Summary) InstanceCount() int {
	return len(s.Instances)
}

// RunningInstanceCount returns the number of running instances
func (s RegionalEC2Summary) RunningInstanceCount() int {
	return lo.CountBy(s.Instances, func(i EC2InstanceWithCosts) bool {
		return i.Instance.IsRunning()
	})
}

// StoppedInstanceCount returns the number of stopped instances
func (s RegionalEC2Summary) StoppedInstanceCount() int {
	return lo.CountBy(s.Instances, func(i EC2InstanceWithCosts) bool {
		return i.Instance.State == StateStopped
	})
}

// TotalStorageGB returns the summed EBS storage across all instances
func (s RegionalEC2Summary) TotalStorageGB() int32 {
	return lo.SumBy(s.Instances, func(i EC2InstanceWithCosts) int32 {
		return i.Instance.TotalStorageGB()
	})
}

// AverageCostPerInstance returns the mean cost per instance, zero when empty
func (s RegionalEC2Summary) AverageCostPerInstance() float64 {
	if len(s.Instances) == 0 {
		return 0
	}
	return s.TotalCost.Amount / float64(len(s.Instances))
}

// InstancesByType groups instances by instance type
func (s RegionalEC2Summary) InstancesByType() map[string][]EC2InstanceWithCosts {
	return lo.GroupBy(s.Instances, func(i EC2InstanceWithCosts) string {
		return i.Instance.InstanceType
	})
}

// InstancesByState groups instances by lifecycle state
func (s RegionalEC2Summary) InstancesByState() map[InstanceState][]EC2InstanceWithCosts {
	return lo.GroupBy(s.Instances, func(i EC2InstanceWithCosts) InstanceState {
		return i.Instance.State
	})
}

// TopCostInstances returns up to limit instances ordered by cost
// descending. The sort is stable so equal costs keep their original order.
func (s RegionalEC2Summary) TopCostInstances(limit int) []EC2InstanceWithCosts {
	sorted := make([]EC2InstanceWithCosts, len(s.Instances))
	copy(sorted, s.Instances)
	sort.SliceStable(sorted, func(a, b int) bool {
		return sorted[a].TotalCost().Amount > sorted[b].TotalCost().Amount
	})
	if limit < len(sorted) {
		sorted = sorted[:limit]
	}
	return sorted
}

// InstancesByTag filters instances carrying the tag key. A non-empty
// tagValue additionally requires an exact value match.
func (s RegionalEC2Summary) InstancesByTag(tagKey, tagValue string) []EC2InstanceWithCosts {
	return lo.Filter(s.Instances, func(i EC2InstanceWithCosts, _ int) bool {
		v, ok := i.Instance.Tags[tagKey]
		if !ok {
			return false
		}
		return tagValue == "" || v == tagValue
	})
}

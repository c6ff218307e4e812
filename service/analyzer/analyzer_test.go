package analyzer

import (
	"testing"
	"time"

	"github.com/elC0mpa/costdrill/model"
	"github.com/go-logr/logr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCategorize(t *testing.T) {
	tests := []struct {
		usageType string
		want      Category
	}{
		{"USE1-BoxUsage:t3.large", CategoryCompute},
		{"HeavyUsage:m5.xlarge", CategoryCompute},
		{"SpotUsage:c5.large", CategoryCompute},
		{"ReservedInstanceUsage", CategoryCompute},
		{"UnusedBox:t3.micro", CategoryCompute},
		{"UnusedDed:m5.large", CategoryCompute},
		{"EBS:SnapshotUsage", CategorySnapshot},
		{"USE1-EBS:SnapshotUsage", CategorySnapshot},
		{"EBS:VolumeUsage.gp3", CategoryStorage},
		{"EBS:VolumeP-IOPS.piops", CategoryStorage},
		{"EBS:VolumeIOPS.gp3", CategoryStorage},
		{"USE1-DataTransfer-Out-Bytes", CategoryDataTransfer},
		{"InterRegion-In", CategoryDataTransfer},
		{"PublicIP-In", CategoryDataTransfer},
		{"ElasticIP:IdleAddress", CategoryElasticIP},
		{"NatGateway-Hours", CategoryOther},
		{"", CategoryOther},
		// matching is case-insensitive
		{"use1-boxusage:t3.large", CategoryCompute},
		{"ebs:snapshotusage", CategorySnapshot},
	}

	for _, tc := range tests {
		assert.Equal(t, tc.want, Categorize(tc.usageType), tc.usageType)
	}
}

func TestSnapshotWinsOverStorage(t *testing.T) {
	// snapshot usage also contains "EBS:" prefixes that the storage
	// patterns could match; order decides
	assert.Equal(t, CategorySnapshot, Categorize("EBS:SnapshotUsage"))
}

func quantity(v float64) *float64 { return &v }

func breakdownItem(key string, amount float64, usage *float64) model.CostBreakdown {
	return model.CostBreakdown{
		Category: "USAGE_TYPE",
		Key:      key,
		Cost:     model.NewCostAmount(amount),
		Metrics: model.CostMetrics{
			UnblendedCost: model.NewCostAmount(amount),
			UsageQuantity: usage,
		},
	}
}

func sampleSummary() *model.CostSummary {
	return &model.CostSummary{
		Start:     time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC),
		End:       time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC),
		TotalCost: model.NewCostAmount(100),
		Breakdowns: []model.CostBreakdown{
			breakdownItem("USE1-BoxUsage:t3.large", 60, quantity(500)),
			breakdownItem("EBS:VolumeUsage.gp3", 20, quantity(36500)),
			breakdownItem("EBS:VolumeUsage.io1", 5, quantity(7300)),
			breakdownItem("EBS:SnapshotUsage", 4, nil),
			breakdownItem("USE1-DataTransfer-Out-Bytes", 8, quantity(120)),
			breakdownItem("ElasticIP:IdleAddress", 2, quantity(744)),
			breakdownItem("NatGateway-Hours", 1, nil),
		},
	}
}

func TestAnalyzeCostBreakdown(t *testing.T) {
	a := NewAnalyzer(logr.Discard())
	breakdown := a.AnalyzeCostBreakdown("i-0abc", sampleSummary())

	assert.Equal(t, "i-0abc", breakdown.InstanceID)
	assert.Equal(t, 100.0, breakdown.TotalCost.Amount)
	assert.Equal(t, 60.0, breakdown.ComputeCost.Amount)
	assert.Equal(t, 25.0, breakdown.StorageCost.Amount)
	assert.Equal(t, 4.0, breakdown.SnapshotCost.Amount)
	assert.Equal(t, 8.0, breakdown.DataTransferCost.Amount)
	assert.Equal(t, 2.0, breakdown.ElasticIPCost.Amount)
	assert.Equal(t, 1.0, breakdown.OtherCosts.Amount)

	// running hours come from the BoxUsage quantity
	assert.Equal(t, 500.0, breakdown.RunningHours)
	assert.InDelta(t, 0.12, breakdown.CostPerHour, 1e-9)

	// storage GB-hours are summed across volume lines
	assert.Equal(t, 43800.0, breakdown.StorageGBHours)
	assert.InDelta(t, 25.0/(43800.0/730.0), breakdown.CostPerGBMonth, 1e-9)

	assert.Len(t, breakdown.UsageTypeBreakdown, 7)
}

func TestAnalyzeCostBreakdownFallbackRunningHours(t *testing.T) {
	a := NewAnalyzer(logr.Discard())
	summary := &model.CostSummary{
		TotalCost: model.NewCostAmount(10),
		Breakdowns: []model.CostBreakdown{
			breakdownItem("USE1-BoxUsage:t3.large", 10, nil),
		},
	}

	breakdown := a.AnalyzeCostBreakdown("i-0abc", summary)
	assert.Equal(t, 720.0, breakdown.RunningHours)
}

func TestAnalyzeCostBreakdownEmptySummary(t *testing.T) {
	a := NewAnalyzer(logr.Discard())
	breakdown := a.AnalyzeCostBreakdown("i-0abc", &model.CostSummary{
		TotalCost: model.NewCostAmount(0),
	})

	assert.Equal(t, 0.0, breakdown.TotalCost.Amount)
	assert.Equal(t, 0.0, breakdown.ComputeCost.Amount)
	// no storage lines means no GB-hours, so the unit cost stays zero
	assert.Equal(t, 0.0, breakdown.CostPerGBMonth)
	assert.Equal(t, 720.0, breakdown.RunningHours)
}

func TestPercentagesSumForFullBreakdown(t *testing.T) {
	a := NewAnalyzer(logr.Discard())
	breakdown := a.AnalyzeCostBreakdown("i-0abc", sampleSummary())

	sum := breakdown.ComputePercentage() +
		breakdown.StoragePercentage() +
		breakdown.DataTransferPercentage() +
		breakdown.SnapshotPercentage() +
		breakdown.ElasticIPPercentage() +
		breakdown.OtherPercentage()
	assert.InDelta(t, 100.0, sum, 1e-9)
}

func wasteBreakdown(total, compute, storage, dataTransfer, elasticIP float64) model.EC2CostBreakdown {
	return model.EC2CostBreakdown{
		InstanceID:       "i-0abc",
		TotalCost:        model.NewCostAmount(total),
		ComputeCost:      model.NewCostAmount(compute),
		StorageCost:      model.NewCostAmount(storage),
		DataTransferCost: model.NewCostAmount(dataTransfer),
		ElasticIPCost:    model.NewCostAmount(elasticIP),
	}
}

func TestWasteStoppedInstanceWithCosts(t *testing.T) {
	a := NewAnalyzer(logr.Discard())

	indicators := a.CalculateWasteIndicators(wasteBreakdown(15, 0, 15, 0, 0), model.StateStopped)
	assert.True(t, indicators.StoppedWithCosts)
	assert.True(t, indicators.HasWaste)

	// a running instance with identical costs does not trip the flag
	indicators = a.CalculateWasteIndicators(wasteBreakdown(15, 0, 15, 0, 0), model.StateRunning)
	assert.False(t, indicators.StoppedWithCosts)

	// a stopped instance without costs is fine
	indicators = a.CalculateWasteIndicators(wasteBreakdown(0, 0, 0, 0, 0), model.StateStopped)
	assert.False(t, indicators.StoppedWithCosts)
	assert.False(t, indicators.HasWaste)
}

func TestWasteHighStorageRatio(t *testing.T) {
	a := NewAnalyzer(logr.Discard())

	indicators := a.CalculateWasteIndicators(wasteBreakdown(30, 10, 15, 0, 0), model.StateRunning)
	assert.True(t, indicators.HighStorageRatio)

	// equal storage and compute does not trip the threshold
	indicators = a.CalculateWasteIndicators(wasteBreakdown(20, 10, 10, 0, 0), model.StateRunning)
	assert.False(t, indicators.HighStorageRatio)

	// zero compute never flags, the ratio is undefined
	indicators = a.CalculateWasteIndicators(wasteBreakdown(15, 0, 15, 0, 0), model.StateRunning)
	assert.False(t, indicators.HighStorageRatio)
}

func TestWasteHighDataTransfer(t *testing.T) {
	a := NewAnalyzer(logr.Discard())

	indicators := a.CalculateWasteIndicators(wasteBreakdown(14, 10, 0, 4, 0), model.StateRunning)
	assert.True(t, indicators.HighDataTransfer)

	indicators = a.CalculateWasteIndicators(wasteBreakdown(12, 10, 0, 2, 0), model.StateRunning)
	assert.False(t, indicators.HighDataTransfer)

	// zero data transfer never flags even with zero compute
	indicators = a.CalculateWasteIndicators(wasteBreakdown(0, 0, 0, 0, 0), model.StateRunning)
	assert.False(t, indicators.HighDataTransfer)
}

func TestWasteElasticIPCharges(t *testing.T) {
	a := NewAnalyzer(logr.Discard())

	indicators := a.CalculateWasteIndicators(wasteBreakdown(10, 6, 0, 0, 4), model.StateRunning)
	assert.True(t, indicators.ElasticIPCharges)
	assert.True(t, indicators.HasWaste)
}

func TestWasteOneRecommendationPerFlag(t *testing.T) {
	a := NewAnalyzer(logr.Discard())

	breakdown := wasteBreakdown(40, 10, 15, 5, 3)
	indicators := a.CalculateWasteIndicators(breakdown, model.StateStopped)

	assert.True(t, indicators.StoppedWithCosts)
	assert.True(t, indicators.HighStorageRatio)
	assert.True(t, indicators.HighDataTransfer)
	assert.True(t, indicators.ElasticIPCharges)
	require.Len(t, indicators.Recommendations, 4)

	assert.Contains(t, indicators.Recommendations[0], "$40.00")
	assert.Contains(t, indicators.Recommendations[1], "$15.00")
}

func TestCompareBreakdowns(t *testing.T) {
	current := wasteBreakdown(120, 80, 30, 10, 0)
	baseline := wasteBreakdown(100, 80, 15, 5, 0)

	comparison := CompareBreakdowns(current, baseline)

	assert.InDelta(t, 20.0, comparison.TotalCost.Absolute, 1e-9)
	assert.InDelta(t, 20.0, comparison.TotalCost.Percentage, 1e-9)
	assert.InDelta(t, 0.0, comparison.ComputeCost.Absolute, 1e-9)
	assert.InDelta(t, 100.0, comparison.StorageCost.Percentage, 1e-9)
	assert.InDelta(t, 5.0, comparison.DataTransferCost.Absolute, 1e-9)
}

func TestCompareBreakdownsZeroBaseline(t *testing.T) {
	current := wasteBreakdown(50, 50, 0, 0, 0)
	baseline := wasteBreakdown(0, 0, 0, 0, 0)

	comparison := CompareBreakdowns(current, baseline)

	assert.Equal(t, 50.0, comparison.TotalCost.Absolute)
	// no division by zero; the percent change is reported as zero
	assert.Equal(t, 0.0, comparison.TotalCost.Percentage)
}

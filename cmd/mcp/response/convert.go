package response

import (
	"sort"

	"github.com/elC0mpa/costdrill/model"
)

const dateLayout = "2006-01-02"

// ConvertAccountInfo converts model.AccountInfo to response.AccountInfo
func ConvertAccountInfo(info *model.AccountInfo) *AccountInfo {
	if info == nil {
		return nil
	}
	return &AccountInfo{
		Provider:    info.Provider,
		AccountID:   info.AccountID,
		AccountName: info.AccountName,
	}
}

// ConvertCostSummary converts model.CostSummary to response.CostSummary,
// ordering line items by amount descending
func ConvertCostSummary(summary *model.CostSummary) *CostSummary {
	if summary == nil {
		return nil
	}

	items := make([]LineItem, 0, len(summary.Breakdowns))
	for _, bd := range summary.Breakdowns {
		items = append(items, LineItem{
			Key:    bd.Key,
			Amount: bd.Cost.Amount,
			Unit:   bd.Cost.Unit,
		})
	}
	sort.Slice(items, func(i, j int) bool {
		return items[i].Amount > items[j].Amount
	})

	return &CostSummary{
		StartDate: summary.Start.Format(dateLayout),
		EndDate:   summary.End.Format(dateLayout),
		LineItems: items,
		Total:     summary.TotalCost.Amount,
		Currency:  summary.TotalCost.Unit,
	}
}

// ConvertBreakdown converts model.EC2CostBreakdown to response.CategoryBreakdown
func ConvertBreakdown(breakdown model.EC2CostBreakdown) CategoryBreakdown {
	categories := make(map[string]float64, 6)
	for name, share := range breakdown.CategoryShares() {
		categories[name] = share.Amount
	}

	return CategoryBreakdown{
		InstanceID:     breakdown.InstanceID,
		Total:          breakdown.TotalCost.Amount,
		Categories:     categories,
		RunningHours:   breakdown.RunningHours,
		CostPerHour:    breakdown.CostPerHour,
		CostPerGBMonth: breakdown.CostPerGBMonth,
	}
}

// ConvertInstanceCosts converts a joined instance to response.InstanceCosts
func ConvertInstanceCosts(item model.EC2InstanceWithCosts) InstanceCosts {
	return InstanceCosts{
		InstanceID:        item.Instance.InstanceID,
		Name:              item.Instance.Name(),
		InstanceType:      item.Instance.InstanceType,
		State:             string(item.Instance.State),
		StorageGB:         item.Instance.TotalStorageGB(),
		Breakdown:         ConvertBreakdown(item.CostBreakdown),
		DailyCost:         item.DailyCost(),
		MonthlyProjection: item.MonthlyProjection(),
	}
}

// ConvertRegionalSummary converts model.RegionalEC2Summary to response.RegionalSummary
func ConvertRegionalSummary(summary *model.RegionalEC2Summary) *RegionalSummary {
	if summary == nil {
		return nil
	}

	instances := make([]InstanceCosts, 0, len(summary.Instances))
	for _, item := range summary.TopCostInstances(summary.InstanceCount()) {
		instances = append(instances, ConvertInstanceCosts(item))
	}

	return &RegionalSummary{
		Region:           summary.Region,
		StartDate:        summary.Start.Format(dateLayout),
		EndDate:          summary.End.Format(dateLayout),
		InstanceCount:    summary.InstanceCount(),
		RunningInstances: summary.RunningInstanceCount(),
		StoppedInstances: summary.StoppedInstanceCount(),
		TotalCost:        summary.TotalCost.Amount,
		Instances:        instances,
	}
}

// ConvertOpportunities converts optimization opportunities to a waste report
func ConvertOpportunities(accountID string, opportunities []model.OptimizationOpportunity) *WasteReport {
	report := &WasteReport{
		AccountID:     accountID,
		Opportunities: make([]WasteItem, 0, len(opportunities)),
	}

	for _, opp := range opportunities {
		var flags []string
		if opp.Indicators.StoppedWithCosts {
			flags = append(flags, "stopped_with_costs")
		}
		if opp.Indicators.HighStorageRatio {
			flags = append(flags, "high_storage_ratio")
		}
		if opp.Indicators.HighDataTransfer {
			flags = append(flags, "high_data_transfer")
		}
		if opp.Indicators.ElasticIPCharges {
			flags = append(flags, "elastic_ip_charges")
		}

		report.Opportunities = append(report.Opportunities, WasteItem{
			InstanceID:      opp.InstanceID,
			Name:            opp.InstanceName,
			InstanceType:    opp.InstanceType,
			State:           string(opp.State),
			TotalCost:       opp.TotalCost,
			Flags:           flags,
			Recommendations: opp.Indicators.Recommendations,
		})
		report.PotentialCost += opp.TotalCost
	}

	return report
}

// ConvertForecast converts model.CostForecast to response.Forecast
func ConvertForecast(forecast *model.CostForecast) *Forecast {
	if forecast == nil {
		return nil
	}
	return &Forecast{
		StartDate: forecast.Start.Format(dateLayout),
		EndDate:   forecast.End.Format(dateLayout),
		Mean:      forecast.MeanValue.Amount,
		Lower:     forecast.PredictionIntervalLower.Amount,
		Upper:     forecast.PredictionIntervalUpper.Amount,
		Currency:  forecast.MeanValue.Unit,
	}
}

// ConvertComparison converts model.InstanceCostComparison to response.PeriodComparison
func ConvertComparison(comparison *model.InstanceCostComparison) *PeriodComparison {
	if comparison == nil {
		return nil
	}
	return &PeriodComparison{
		InstanceID:    comparison.InstanceID,
		Name:          comparison.InstanceName,
		CurrentTotal:  comparison.Period1.TotalCost,
		PreviousTotal: comparison.Period2.TotalCost,
		Difference:    comparison.Changes.TotalCost.Absolute,
		PercentChange: comparison.Changes.TotalCost.Percentage,
	}
}

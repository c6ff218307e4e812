// Package aggregator joins the EC2 inventory with billing data to
// produce per-instance and per-region cost views.
package aggregator

import (
	"context"
	"sort"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	cetypes "github.com/aws/aws-sdk-go-v2/service/costexplorer/types"
	"github.com/elC0mpa/costdrill/model"
	"github.com/elC0mpa/costdrill/service/analyzer"
	awscostexplorer "github.com/elC0mpa/costdrill/service/aws/costexplorer"
	awsec2 "github.com/elC0mpa/costdrill/service/aws/ec2"
	"github.com/go-logr/logr"
	"github.com/samber/lo"
)

func NewService(instances awsec2.InstanceService, costs awscostexplorer.CostService, region string, log logr.Logger) AggregatorService {
	return &service{
		instances: instances,
		costs:     costs,
		analyzer:  analyzer.NewAnalyzer(log),
		region:    region,
		log:       log.WithName("aggregator"),
	}
}

// GetInstanceWithCosts returns one instance's metadata joined with its
// cost breakdown for the last days days
func (s *service) GetInstanceWithCosts(ctx context.Context, instanceID string, days int) (*model.EC2InstanceWithCosts, error) {
	instance, err := s.instances.GetInstance(ctx, instanceID)
	if err != nil {
		return nil, err
	}

	summary, err := s.costs.GetEC2Costs(ctx, instanceID, s.region, days)
	if err != nil {
		return nil, err
	}

	end := time.Now()
	return &model.EC2InstanceWithCosts{
		Instance:      *instance,
		CostBreakdown: s.analyzer.AnalyzeCostBreakdown(instanceID, summary),
		Start:         end.AddDate(0, 0, -days),
		End:           end,
	}, nil
}

// GetAllInstancesWithCosts joins every non-terminated instance of the
// region with its cost breakdown. A failed cost lookup for one instance
// does not fail the summary; the instance is kept with a zero breakdown
// and the failure is logged. The regional total is the sum of the
// per-instance totals.
func (s *service) GetAllInstancesWithCosts(ctx context.Context, days int) (*model.RegionalEC2Summary, error) {
	end := time.Now()
	start := end.AddDate(0, 0, -days)

	summary := &model.RegionalEC2Summary{
		Region:    s.region,
		TotalCost: model.NewCostAmount(0),
		Start:     start,
		End:       end,
	}

	instances, err := s.instances.ListInstances(ctx, false)
	if err != nil {
		return nil, err
	}
	if len(instances) == 0 {
		return summary, nil
	}

	var total float64
	for _, instance := range instances {
		breakdown := model.EC2CostBreakdown{
			InstanceID:       instance.InstanceID,
			TotalCost:        model.NewCostAmount(0),
			ComputeCost:      model.NewCostAmount(0),
			StorageCost:      model.NewCostAmount(0),
			DataTransferCost: model.NewCostAmount(0),
			SnapshotCost:     model.NewCostAmount(0),
			ElasticIPCost:    model.NewCostAmount(0),
			OtherCosts:       model.NewCostAmount(0),
		}

		costSummary, err := s.costs.GetEC2Costs(ctx, instance.InstanceID, s.region, days)
		if err != nil {
			s.log.Error(err, "cost lookup failed, using zero breakdown", "instance_id", instance.InstanceID)
		} else {
			breakdown = s.analyzer.AnalyzeCostBreakdown(instance.InstanceID, costSummary)
		}

		total += breakdown.TotalCost.Amount
		summary.Instances = append(summary.Instances, model.EC2InstanceWithCosts{
			Instance:      instance,
			CostBreakdown: breakdown,
			Start:         start,
			End:           end,
		})
	}

	summary.TotalCost = model.NewCostAmount(total)
	return summary, nil
}

// GetInstancesWithCostsByTag returns instances carrying the tag key,
// optionally narrowed to an exact value
func (s *service) GetInstancesWithCostsByTag(ctx context.Context, tagKey, tagValue string, days int) ([]model.EC2InstanceWithCosts, error) {
	summary, err := s.GetAllInstancesWithCosts(ctx, days)
	if err != nil {
		return nil, err
	}
	return summary.InstancesByTag(tagKey, tagValue), nil
}

// GetRunningInstancesWithCosts returns only running instances with costs
func (s *service) GetRunningInstancesWithCosts(ctx context.Context, days int) ([]model.EC2InstanceWithCosts, error) {
	summary, err := s.GetAllInstancesWithCosts(ctx, days)
	if err != nil {
		return nil, err
	}
	return lo.Filter(summary.Instances, func(i model.EC2InstanceWithCosts, _ int) bool {
		return i.Instance.IsRunning()
	}), nil
}

// GetStoppedInstancesWithCosts returns only stopped instances with costs
func (s *service) GetStoppedInstancesWithCosts(ctx context.Context, days int) ([]model.EC2InstanceWithCosts, error) {
	summary, err := s.GetAllInstancesWithCosts(ctx, days)
	if err != nil {
		return nil, err
	}
	return lo.Filter(summary.Instances, func(i model.EC2InstanceWithCosts, _ int) bool {
		return i.Instance.State == model.StateStopped
	}), nil
}

// GetCostOptimizationOpportunities evaluates the waste heuristics for
// every instance and returns those with at least one flag, ordered by
// total cost descending. The sort is stable so equal costs keep the
// inventory order.
func (s *service) GetCostOptimizationOpportunities(ctx context.Context, days int) ([]model.OptimizationOpportunity, error) {
	summary, err := s.GetAllInstancesWithCosts(ctx, days)
	if err != nil {
		return nil, err
	}

	return scanOpportunities(s.analyzer, summary), nil
}

// scanOpportunities runs the waste heuristics over an already computed
// regional summary, keeping flagged instances ordered by cost descending
func scanOpportunities(an *analyzer.Analyzer, summary *model.RegionalEC2Summary) []model.OptimizationOpportunity {
	var opportunities []model.OptimizationOpportunity
	for _, item := range summary.Instances {
		indicators := an.CalculateWasteIndicators(item.CostBreakdown, item.Instance.State)
		if !indicators.HasWaste {
			continue
		}
		opportunities = append(opportunities, model.OptimizationOpportunity{
			InstanceID:   item.Instance.InstanceID,
			InstanceName: item.Instance.Name(),
			InstanceType: item.Instance.InstanceType,
			State:        item.Instance.State,
			TotalCost:    item.CostBreakdown.TotalCost.Amount,
			Indicators:   indicators,
		})
	}

	sort.SliceStable(opportunities, func(a, b int) bool {
		return opportunities[a].TotalCost > opportunities[b].TotalCost
	})
	return opportunities
}

// GetInstanceCostComparison compares an instance's costs for the last
// days days against the immediately preceding window of equal length.
// Period1 is the recent window, Period2 the baseline before it.
func (s *service) GetInstanceCostComparison(ctx context.Context, instanceID string, days int) (*model.InstanceCostComparison, error) {
	instance, err := s.instances.GetInstance(ctx, instanceID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	recentStart := now.AddDate(0, 0, -days)
	baselineStart := now.AddDate(0, 0, -2*days)

	recent, err := s.instanceBreakdown(ctx, instanceID, recentStart, now)
	if err != nil {
		return nil, err
	}
	baseline, err := s.instanceBreakdown(ctx, instanceID, baselineStart, recentStart)
	if err != nil {
		return nil, err
	}

	return &model.InstanceCostComparison{
		InstanceID:   instanceID,
		InstanceName: instance.Name(),
		Period1: model.PeriodCosts{
			Start:     recentStart,
			End:       now,
			TotalCost: recent.TotalCost.Amount,
			Breakdown: recent.CategoryShares(),
		},
		Period2: model.PeriodCosts{
			Start:     baselineStart,
			End:       recentStart,
			TotalCost: baseline.TotalCost.Amount,
			Breakdown: baseline.CategoryShares(),
		},
		Changes: analyzer.CompareBreakdowns(recent, baseline),
	}, nil
}

func (s *service) instanceBreakdown(ctx context.Context, instanceID string, start, end time.Time) (model.EC2CostBreakdown, error) {
	summary, err := s.costs.GetCostAndUsage(ctx, awscostexplorer.CostQuery{
		Start:  start,
		End:    end,
		Filter: awscostexplorer.EC2Filter(instanceID, s.region),
		GroupBy: []cetypes.GroupDefinition{{
			Type: cetypes.GroupDefinitionTypeDimension,
			Key:  aws.String("USAGE_TYPE"),
		}},
	})
	if err != nil {
		return model.EC2CostBreakdown{}, err
	}
	return s.analyzer.AnalyzeCostBreakdown(instanceID, summary), nil
}

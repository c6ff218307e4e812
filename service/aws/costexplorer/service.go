package awscostexplorer

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/costexplorer"
	"github.com/aws/aws-sdk-go-v2/service/costexplorer/types"
	"github.com/elC0mpa/costdrill/model"
	"github.com/go-logr/logr"
)

const (
	// EC2ServiceName is the Cost Explorer SERVICE dimension value for
	// EC2 compute charges
	EC2ServiceName = "Amazon Elastic Compute Cloud - Compute"

	// Cost Explorer keeps roughly 14 months of history; 425 days leaves
	// a little margin under the documented limit
	maxHistoryDays = 425

	defaultQueryDays = 30

	maxForecastDays = 365
)

func NewService(awsconfig aws.Config, log logr.Logger) *service {
	return &service{
		client: costexplorer.NewFromConfig(awsconfig),
		log:    log.WithName("costexplorer"),
	}
}

// NewServiceWithClient builds the service around an existing API client
func NewServiceWithClient(client CostExplorerAPI, log logr.Logger) *service {
	return &service{client: client, log: log.WithName("costexplorer")}
}

// validateDateRange runs the pre-flight checks every historical query
// must pass before any network call is made.
func validateDateRange(start, end time.Time) error {
	now := time.Now()

	if !start.Before(end) {
		return &model.InvalidDateRangeError{Message: "start date must be before end date"}
	}
	if start.After(now) {
		return &model.InvalidDateRangeError{Message: "start date cannot be in the future"}
	}
	if start.Before(now.AddDate(0, 0, -maxHistoryDays)) {
		return &model.InvalidDateRangeError{
			Message: fmt.Sprintf("start date precedes the %d day Cost Explorer retention window", maxHistoryDays),
		}
	}
	return nil
}

// window applies the default query window of the last 30 days ending now
func (q CostQuery) window() (start, end time.Time) {
	start, end = q.Start, q.End
	if start.IsZero() {
		start = time.Now().AddDate(0, 0, -defaultQueryDays)
	}
	if end.IsZero() {
		end = time.Now()
	}
	return start, end
}

func (s *service) GetCostAndUsage(ctx context.Context, query CostQuery) (*model.CostSummary, error) {
	start, end := query.window()
	if err := validateDateRange(start, end); err != nil {
		return nil, err
	}

	granularity := query.Granularity
	if granularity == "" {
		granularity = types.GranularityDaily
	}
	metrics := query.Metrics
	if len(metrics) == 0 {
		metrics = []string{metricUnblendedCost}
	}

	input := &costexplorer.GetCostAndUsageInput{
		TimePeriod: &types.DateInterval{
			Start: aws.String(start.Format(dateLayout)),
			End:   aws.String(end.Format(dateLayout)),
		},
		Granularity: granularity,
		Metrics:     metrics,
		GroupBy:     query.GroupBy,
		Filter:      query.Filter,
	}

	s.log.V(1).Info("querying cost and usage",
		"start", start.Format(dateLayout), "end", end.Format(dateLayout), "granularity", granularity)

	output, err := s.client.GetCostAndUsage(ctx, input)
	if err != nil {
		return nil, mapError(err)
	}

	return ParseCostAndUsage(output)
}

// EC2Filter assembles the filter expression for EC2 cost queries.
// The SERVICE constraint is always present; instance and region
// constraints are ANDed in when supplied. A single constraint is
// returned bare, without the And wrapper.
func EC2Filter(instanceID, region string) *types.Expression {
	exprs := []types.Expression{{
		Dimensions: &types.DimensionValues{
			Key:    types.DimensionService,
			Values: []string{EC2ServiceName},
		},
	}}

	if instanceID != "" {
		exprs = append(exprs, types.Expression{
			Dimensions: &types.DimensionValues{
				Key:    types.DimensionResourceId,
				Values: []string{instanceID},
			},
		})
	}
	if region != "" {
		exprs = append(exprs, types.Expression{
			Dimensions: &types.DimensionValues{
				Key:    types.DimensionRegion,
				Values: []string{region},
			},
		})
	}

	if len(exprs) == 1 {
		return &exprs[0]
	}
	return &types.Expression{And: exprs}
}

// GetEC2Costs returns EC2 costs for the last days days, grouped by usage
// type so the analyzer can categorize them. Instance and region filters
// are optional.
func (s *service) GetEC2Costs(ctx context.Context, instanceID, region string, days int) (*model.CostSummary, error) {
	return s.GetCostAndUsage(ctx, CostQuery{
		Start:  time.Now().AddDate(0, 0, -days),
		End:    time.Now(),
		Filter: EC2Filter(instanceID, region),
		GroupBy: []types.GroupDefinition{{
			Type: types.GroupDefinitionTypeDimension,
			Key:  aws.String("USAGE_TYPE"),
		}},
	})
}

// GetServiceCosts returns costs filtered to an exact service name, with
// an optional single-dimension grouping
func (s *service) GetServiceCosts(ctx context.Context, serviceName string, days int, groupByDimension string) (*model.CostSummary, error) {
	query := CostQuery{
		Start: time.Now().AddDate(0, 0, -days),
		End:   time.Now(),
		Filter: &types.Expression{
			Dimensions: &types.DimensionValues{
				Key:    types.DimensionService,
				Values: []string{serviceName},
			},
		},
	}
	if groupByDimension != "" {
		query.GroupBy = []types.GroupDefinition{{
			Type: types.GroupDefinitionTypeDimension,
			Key:  aws.String(groupByDimension),
		}}
	}
	return s.GetCostAndUsage(ctx, query)
}

// GetCostByTag returns costs grouped by the tag key. When tagValue is
// set the result is also filtered to that exact key/value pair; grouping
// happens either way, so omitting the value yields all values for the key.
func (s *service) GetCostByTag(ctx context.Context, tagKey, tagValue string, days int) (*model.CostSummary, error) {
	query := CostQuery{
		Start: time.Now().AddDate(0, 0, -days),
		End:   time.Now(),
		GroupBy: []types.GroupDefinition{{
			Type: types.GroupDefinitionTypeTag,
			Key:  aws.String(tagKey),
		}},
	}
	if tagValue != "" {
		query.Filter = &types.Expression{
			Tags: &types.TagValues{
				Key:    aws.String(tagKey),
				Values: []string{tagValue},
			},
		}
	}
	return s.GetCostAndUsage(ctx, query)
}

// GetCostForecast predicts cost for the next days days. Forecasts always
// use monthly granularity regardless of the horizon.
func (s *service) GetCostForecast(ctx context.Context, days int, metric types.Metric) (*model.CostForecast, error) {
	if days < 1 || days > maxForecastDays {
		return nil, &model.InvalidDateRangeError{
			Message: fmt.Sprintf("forecast horizon must be between 1 and %d days", maxForecastDays),
		}
	}
	if metric == "" {
		metric = types.MetricUnblendedCost
	}

	start := time.Now()
	end := start.AddDate(0, 0, days)

	output, err := s.client.GetCostForecast(ctx, &costexplorer.GetCostForecastInput{
		TimePeriod: &types.DateInterval{
			Start: aws.String(start.Format(dateLayout)),
			End:   aws.String(end.Format(dateLayout)),
		},
		Metric:      metric,
		Granularity: types.GranularityMonthly,
	})
	if err != nil {
		return nil, mapError(err)
	}

	return ParseForecast(start, end, output)
}

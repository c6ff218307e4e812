package awscostexplorer

import (
	"context"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/costexplorer"
	"github.com/aws/aws-sdk-go-v2/service/costexplorer/types"
	"github.com/elC0mpa/costdrill/model"
	"github.com/go-logr/logr"
)

// CostExplorerAPI is the subset of the Cost Explorer client consumed by
// this service. Satisfied by *costexplorer.Client.
type CostExplorerAPI interface {
	GetCostAndUsage(ctx context.Context, params *costexplorer.GetCostAndUsageInput, optFns ...func(*costexplorer.Options)) (*costexplorer.GetCostAndUsageOutput, error)
	GetCostForecast(ctx context.Context, params *costexplorer.GetCostForecastInput, optFns ...func(*costexplorer.Options)) (*costexplorer.GetCostForecastOutput, error)
}

type service struct {
	client CostExplorerAPI
	log    logr.Logger
}

// CostQuery holds the semantic parameters of a cost and usage query.
// Zero-value Start/End select the default window of the last 30 days.
type CostQuery struct {
	Start       time.Time
	End         time.Time
	Granularity types.Granularity
	Metrics     []string
	GroupBy     []types.GroupDefinition
	Filter      *types.Expression
}

type CostService interface {
	GetCostAndUsage(ctx context.Context, query CostQuery) (*model.CostSummary, error)
	GetEC2Costs(ctx context.Context, instanceID, region string, days int) (*model.CostSummary, error)
	GetServiceCosts(ctx context.Context, serviceName string, days int, groupByDimension string) (*model.CostSummary, error)
	GetCostByTag(ctx context.Context, tagKey, tagValue string, days int) (*model.CostSummary, error)
	GetCostForecast(ctx context.Context, days int, metric types.Metric) (*model.CostForecast, error)
}

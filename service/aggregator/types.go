package aggregator

import (
	"context"

	"github.com/elC0mpa/costdrill/model"
	"github.com/elC0mpa/costdrill/service/analyzer"
	awscostexplorer "github.com/elC0mpa/costdrill/service/aws/costexplorer"
	awsec2 "github.com/elC0mpa/costdrill/service/aws/ec2"
	"github.com/go-logr/logr"
)

type service struct {
	instances awsec2.InstanceService
	costs     awscostexplorer.CostService
	analyzer  *analyzer.Analyzer
	region    string
	log       logr.Logger
}

type AggregatorService interface {
	GetInstanceWithCosts(ctx context.Context, instanceID string, days int) (*model.EC2InstanceWithCosts, error)
	GetAllInstancesWithCosts(ctx context.Context, days int) (*model.RegionalEC2Summary, error)
	GetInstancesWithCostsByTag(ctx context.Context, tagKey, tagValue string, days int) ([]model.EC2InstanceWithCosts, error)
	GetRunningInstancesWithCosts(ctx context.Context, days int) ([]model.EC2InstanceWithCosts, error)
	GetStoppedInstancesWithCosts(ctx context.Context, days int) ([]model.EC2InstanceWithCosts, error)
	GetCostOptimizationOpportunities(ctx context.Context, days int) ([]model.OptimizationOpportunity, error)
	GetInstanceCostComparison(ctx context.Context, instanceID string, days int) (*model.InstanceCostComparison, error)
}

package aggregator

import (
	"context"
	"strconv"
	"time"

	"github.com/elC0mpa/costdrill/cache"
	"github.com/elC0mpa/costdrill/model"
	"github.com/elC0mpa/costdrill/service/analyzer"
	"github.com/go-logr/logr"
	"github.com/samber/lo"
)

// RegionalTTL bounds how stale a cached regional summary may be. It is
// shorter than the default cost TTL because a regional summary folds in
// inventory state, which changes more often than billing data.
const RegionalTTL = 30 * time.Minute

// CachedService wraps an AggregatorService with file-backed memoization
// of the expensive joins. The filtered views are computed from the
// cached regional summary rather than cached separately.
type CachedService struct {
	inner    AggregatorService
	store    *cache.Cache
	analyzer *analyzer.Analyzer
	region   string
	enabled  bool
	log      logr.Logger
}

func NewCachedService(inner AggregatorService, store *cache.Cache, region string, enabled bool, log logr.Logger) *CachedService {
	return &CachedService{
		inner:    inner,
		store:    store,
		analyzer: analyzer.NewAnalyzer(log),
		region:   region,
		enabled:  enabled && store != nil,
		log:      log.WithName("cached-aggregator"),
	}
}

func (s *CachedService) GetInstanceWithCosts(ctx context.Context, instanceID string, days int) (*model.EC2InstanceWithCosts, error) {
	if !s.enabled {
		return s.inner.GetInstanceWithCosts(ctx, instanceID, days)
	}

	key := cache.GenerateKey("instance_with_costs", map[string]string{
		"instance_id": instanceID,
		"region":      s.region,
		"days":        strconv.Itoa(days),
	})

	if item, ok := cache.Lookup[model.EC2InstanceWithCosts](s.store, key); ok {
		s.log.V(1).Info("returning cached instance costs", "instance_id", instanceID)
		return &item, nil
	}

	result, err := s.inner.GetInstanceWithCosts(ctx, instanceID, days)
	if err != nil {
		return nil, err
	}
	if err := s.store.Set(key, result); err != nil {
		s.log.Info("failed to cache instance costs", "error", err.Error())
	}
	return result, nil
}

func (s *CachedService) GetAllInstancesWithCosts(ctx context.Context, days int) (*model.RegionalEC2Summary, error) {
	if !s.enabled {
		return s.inner.GetAllInstancesWithCosts(ctx, days)
	}

	key := cache.GenerateKey("regional_summary", map[string]string{
		"region": s.region,
		"days":   strconv.Itoa(days),
	})

	if summary, ok := cache.Lookup[model.RegionalEC2Summary](s.store, key); ok {
		s.log.V(1).Info("returning cached regional summary", "region", s.region)
		return &summary, nil
	}

	result, err := s.inner.GetAllInstancesWithCosts(ctx, days)
	if err != nil {
		return nil, err
	}
	if err := s.store.SetWithTTL(key, result, RegionalTTL); err != nil {
		s.log.Info("failed to cache regional summary", "error", err.Error())
	}
	return result, nil
}

func (s *CachedService) GetInstancesWithCostsByTag(ctx context.Context, tagKey, tagValue string, days int) ([]model.EC2InstanceWithCosts, error) {
	summary, err := s.GetAllInstancesWithCosts(ctx, days)
	if err != nil {
		return nil, err
	}
	return summary.InstancesByTag(tagKey, tagValue), nil
}

func (s *CachedService) GetRunningInstancesWithCosts(ctx context.Context, days int) ([]model.EC2InstanceWithCosts, error) {
	summary, err := s.GetAllInstancesWithCosts(ctx, days)
	if err != nil {
		return nil, err
	}
	return lo.Filter(summary.Instances, func(i model.EC2InstanceWithCosts, _ int) bool {
		return i.Instance.IsRunning()
	}), nil
}

func (s *CachedService) GetStoppedInstancesWithCosts(ctx context.Context, days int) ([]model.EC2InstanceWithCosts, error) {
	summary, err := s.GetAllInstancesWithCosts(ctx, days)
	if err != nil {
		return nil, err
	}
	return lo.Filter(summary.Instances, func(i model.EC2InstanceWithCosts, _ int) bool {
		return i.Instance.State == model.StateStopped
	}), nil
}

// GetCostOptimizationOpportunities scans the cached regional summary
// instead of delegating, so a warm cache serves the waste report too
func (s *CachedService) GetCostOptimizationOpportunities(ctx context.Context, days int) ([]model.OptimizationOpportunity, error) {
	summary, err := s.GetAllInstancesWithCosts(ctx, days)
	if err != nil {
		return nil, err
	}
	return scanOpportunities(s.analyzer, summary), nil
}

func (s *CachedService) GetInstanceCostComparison(ctx context.Context, instanceID string, days int) (*model.InstanceCostComparison, error) {
	return s.inner.GetInstanceCostComparison(ctx, instanceID, days)
}

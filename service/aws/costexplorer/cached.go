package awscostexplorer

import (
	"context"
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/costexplorer/types"
	"github.com/elC0mpa/costdrill/cache"
	"github.com/elC0mpa/costdrill/model"
	"github.com/go-logr/logr"
)

// Forecasts are predictive, so they get a shorter TTL than historical
// cost data
const ForecastTTL = 30 * time.Minute

// CachedService wraps a CostService with file-backed memoization.
// When disabled, every call goes straight through to the inner service.
type CachedService struct {
	inner   CostService
	store   *cache.Cache
	enabled bool
	log     logr.Logger
}

func NewCachedService(inner CostService, store *cache.Cache, enabled bool, log logr.Logger) *CachedService {
	return &CachedService{
		inner:   inner,
		store:   store,
		enabled: enabled && store != nil,
		log:     log.WithName("cached-costexplorer"),
	}
}

func itoa(n int) string {
	return strconv.Itoa(n)
}

func (s *CachedService) GetCostAndUsage(ctx context.Context, query CostQuery) (*model.CostSummary, error) {
	if !s.enabled {
		return s.inner.GetCostAndUsage(ctx, query)
	}

	start, end := query.window()
	extra, _ := json.Marshal(struct {
		GroupBy []types.GroupDefinition
		Filter  *types.Expression
	}{query.GroupBy, query.Filter})

	key := cache.GenerateKey("cost_and_usage", map[string]string{
		"start":       start.Format(dateLayout),
		"end":         end.Format(dateLayout),
		"granularity": string(query.Granularity),
		"metrics":     strings.Join(query.Metrics, ","),
		"shape":       string(extra),
	})

	if summary, ok := cache.Lookup[model.CostSummary](s.store, key); ok {
		s.log.V(1).Info("returning cached cost and usage data")
		return &summary, nil
	}

	result, err := s.inner.GetCostAndUsage(ctx, query)
	if err != nil {
		return nil, err
	}
	if err := s.store.Set(key, result); err != nil {
		s.log.Info("failed to cache cost and usage data", "error", err.Error())
	}
	return result, nil
}

func (s *CachedService) GetEC2Costs(ctx context.Context, instanceID, region string, days int) (*model.CostSummary, error) {
	if !s.enabled {
		return s.inner.GetEC2Costs(ctx, instanceID, region, days)
	}

	key := cache.GenerateKey("ec2_costs", map[string]string{
		"instance_id": instanceID,
		"region":      region,
		"days":        itoa(days),
	})

	if summary, ok := cache.Lookup[model.CostSummary](s.store, key); ok {
		s.log.V(1).Info("returning cached EC2 costs", "instance_id", instanceID)
		return &summary, nil
	}

	result, err := s.inner.GetEC2Costs(ctx, instanceID, region, days)
	if err != nil {
		return nil, err
	}
	if err := s.store.Set(key, result); err != nil {
		s.log.Info("failed to cache EC2 costs", "error", err.Error())
	}
	return result, nil
}

func (s *CachedService) GetServiceCosts(ctx context.Context, serviceName string, days int, groupByDimension string) (*model.CostSummary, error) {
	if !s.enabled {
		return s.inner.GetServiceCosts(ctx, serviceName, days, groupByDimension)
	}

	key := cache.GenerateKey("service_costs", map[string]string{
		"service":  serviceName,
		"days":     itoa(days),
		"group_by": groupByDimension,
	})

	if summary, ok := cache.Lookup[model.CostSummary](s.store, key); ok {
		s.log.V(1).Info("returning cached service costs", "service", serviceName)
		return &summary, nil
	}

	result, err := s.inner.GetServiceCosts(ctx, serviceName, days, groupByDimension)
	if err != nil {
		return nil, err
	}
	if err := s.store.Set(key, result); err != nil {
		s.log.Info("failed to cache service costs", "error", err.Error())
	}
	return result, nil
}

func (s *CachedService) GetCostByTag(ctx context.Context, tagKey, tagValue string, days int) (*model.CostSummary, error) {
	if !s.enabled {
		return s.inner.GetCostByTag(ctx, tagKey, tagValue, days)
	}

	key := cache.GenerateKey("cost_by_tag", map[string]string{
		"tag_key":   tagKey,
		"tag_value": tagValue,
		"days":      itoa(days),
	})

	if summary, ok := cache.Lookup[model.CostSummary](s.store, key); ok {
		s.log.V(1).Info("returning cached tag costs", "tag_key", tagKey)
		return &summary, nil
	}

	result, err := s.inner.GetCostByTag(ctx, tagKey, tagValue, days)
	if err != nil {
		return nil, err
	}
	if err := s.store.Set(key, result); err != nil {
		s.log.Info("failed to cache tag costs", "error", err.Error())
	}
	return result, nil
}

func (s *CachedService) GetCostForecast(ctx context.Context, days int, metric types.Metric) (*model.CostForecast, error) {
	if !s.enabled {
		return s.inner.GetCostForecast(ctx, days, metric)
	}

	key := cache.GenerateKey("cost_forecast", map[string]string{
		"days":   itoa(days),
		"metric": string(metric),
	})

	if forecast, ok := cache.Lookup[model.CostForecast](s.store, key); ok {
		s.log.V(1).Info("returning cached cost forecast")
		return &forecast, nil
	}

	result, err := s.inner.GetCostForecast(ctx, days, metric)
	if err != nil {
		return nil, err
	}
	if err := s.store.SetWithTTL(key, result, ForecastTTL); err != nil {
		s.log.Info("failed to cache cost forecast", "error", err.Error())
	}
	return result, nil
}

// ClearCache removes all cached entries
func (s *CachedService) ClearCache() error {
	if s.store == nil {
		return nil
	}
	return s.store.Clear()
}

// ClearExpiredCache removes stale entries and returns the count removed
func (s *CachedService) ClearExpiredCache() int {
	if s.store == nil {
		return 0
	}
	return s.store.ClearExpired()
}

package awscostexplorer

import (
	"context"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/costexplorer"
	"github.com/aws/aws-sdk-go-v2/service/costexplorer/types"
	"github.com/aws/smithy-go"
	"github.com/elC0mpa/costdrill/model"
	"github.com/go-logr/logr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClient struct {
	costInput     *costexplorer.GetCostAndUsageInput
	costOutput    *costexplorer.GetCostAndUsageOutput
	costErr       error
	forecastInput *costexplorer.GetCostForecastInput
	forecastErr   error
}

func (f *fakeClient) GetCostAndUsage(ctx context.Context, params *costexplorer.GetCostAndUsageInput, optFns ...func(*costexplorer.Options)) (*costexplorer.GetCostAndUsageOutput, error) {
	f.costInput = params
	if f.costErr != nil {
		return nil, f.costErr
	}
	if f.costOutput != nil {
		return f.costOutput, nil
	}
	return &costexplorer.GetCostAndUsageOutput{}, nil
}

func (f *fakeClient) GetCostForecast(ctx context.Context, params *costexplorer.GetCostForecastInput, optFns ...func(*costexplorer.Options)) (*costexplorer.GetCostForecastOutput, error) {
	f.forecastInput = params
	if f.forecastErr != nil {
		return nil, f.forecastErr
	}
	return &costexplorer.GetCostForecastOutput{
		Total: &types.MetricValue{Amount: aws.String("100.00"), Unit: aws.String("USD")},
	}, nil
}

func newTestService(client *fakeClient) *service {
	return NewServiceWithClient(client, logr.Discard())
}

func TestGetCostAndUsageRejectsInvertedRange(t *testing.T) {
	svc := newTestService(&fakeClient{})

	now := time.Now()
	_, err := svc.GetCostAndUsage(context.Background(), CostQuery{
		Start: now,
		End:   now.AddDate(0, 0, -7),
	})

	var rangeErr *model.InvalidDateRangeError
	require.ErrorAs(t, err, &rangeErr)
}

func TestGetCostAndUsageRejectsFutureStart(t *testing.T) {
	svc := newTestService(&fakeClient{})

	start := time.Now().AddDate(0, 0, 2)
	_, err := svc.GetCostAndUsage(context.Background(), CostQuery{
		Start: start,
		End:   start.AddDate(0, 0, 7),
	})

	var rangeErr *model.InvalidDateRangeError
	require.ErrorAs(t, err, &rangeErr)
}

func TestGetCostAndUsageRejectsStartBeyondRetention(t *testing.T) {
	svc := newTestService(&fakeClient{})

	_, err := svc.GetCostAndUsage(context.Background(), CostQuery{
		Start: time.Now().AddDate(0, 0, -500),
		End:   time.Now(),
	})

	var rangeErr *model.InvalidDateRangeError
	require.ErrorAs(t, err, &rangeErr)
}

func TestGetCostAndUsageValidationHappensBeforeTheCall(t *testing.T) {
	client := &fakeClient{}
	svc := newTestService(client)

	now := time.Now()
	_, err := svc.GetCostAndUsage(context.Background(), CostQuery{Start: now, End: now})
	require.Error(t, err)
	assert.Nil(t, client.costInput)
}

func TestGetCostAndUsageDefaults(t *testing.T) {
	client := &fakeClient{}
	svc := newTestService(client)

	_, err := svc.GetCostAndUsage(context.Background(), CostQuery{})
	require.NoError(t, err)

	require.NotNil(t, client.costInput)
	assert.Equal(t, types.GranularityDaily, client.costInput.Granularity)
	assert.Equal(t, []string{"UnblendedCost"}, client.costInput.Metrics)
}

func TestEC2FilterShapes(t *testing.T) {
	// service constraint only: returned bare, no And wrapper
	filter := EC2Filter("", "")
	require.NotNil(t, filter.Dimensions)
	assert.Nil(t, filter.And)
	assert.Equal(t, types.DimensionService, filter.Dimensions.Key)
	assert.Equal(t, []string{EC2ServiceName}, filter.Dimensions.Values)

	// multiple constraints: ANDed together
	filter = EC2Filter("i-0abc", "us-east-1")
	require.Len(t, filter.And, 3)
	assert.Equal(t, types.DimensionService, filter.And[0].Dimensions.Key)
	assert.Equal(t, types.DimensionResourceId, filter.And[1].Dimensions.Key)
	assert.Equal(t, []string{"i-0abc"}, filter.And[1].Dimensions.Values)
	assert.Equal(t, types.DimensionRegion, filter.And[2].Dimensions.Key)

	// instance only
	filter = EC2Filter("i-0abc", "")
	require.Len(t, filter.And, 2)
}

func TestGetEC2CostsGroupsByUsageType(t *testing.T) {
	client := &fakeClient{}
	svc := newTestService(client)

	_, err := svc.GetEC2Costs(context.Background(), "i-0abc", "us-east-1", 30)
	require.NoError(t, err)

	require.NotNil(t, client.costInput)
	require.Len(t, client.costInput.GroupBy, 1)
	assert.Equal(t, "USAGE_TYPE", aws.ToString(client.costInput.GroupBy[0].Key))
	assert.Equal(t, types.GroupDefinitionTypeDimension, client.costInput.GroupBy[0].Type)
	require.NotNil(t, client.costInput.Filter)
}

func TestGetCostByTagAlwaysGroupsFiltersOnlyWithValue(t *testing.T) {
	client := &fakeClient{}
	svc := newTestService(client)

	_, err := svc.GetCostByTag(context.Background(), "team", "", 30)
	require.NoError(t, err)
	require.Len(t, client.costInput.GroupBy, 1)
	assert.Equal(t, types.GroupDefinitionTypeTag, client.costInput.GroupBy[0].Type)
	assert.Nil(t, client.costInput.Filter)

	_, err = svc.GetCostByTag(context.Background(), "team", "platform", 30)
	require.NoError(t, err)
	require.NotNil(t, client.costInput.Filter)
	require.NotNil(t, client.costInput.Filter.Tags)
	assert.Equal(t, "team", aws.ToString(client.costInput.Filter.Tags.Key))
	assert.Equal(t, []string{"platform"}, client.costInput.Filter.Tags.Values)
}

func TestGetCostForecastHorizonBounds(t *testing.T) {
	svc := newTestService(&fakeClient{})

	for _, days := range []int{0, -1, 366} {
		_, err := svc.GetCostForecast(context.Background(), days, "")
		var rangeErr *model.InvalidDateRangeError
		require.ErrorAs(t, err, &rangeErr, "days=%d", days)
	}
}

func TestGetCostForecastForcesMonthlyGranularity(t *testing.T) {
	client := &fakeClient{}
	svc := newTestService(client)

	_, err := svc.GetCostForecast(context.Background(), 7, "")
	require.NoError(t, err)

	require.NotNil(t, client.forecastInput)
	assert.Equal(t, types.GranularityMonthly, client.forecastInput.Granularity)
	assert.Equal(t, types.MetricUnblendedCost, client.forecastInput.Metric)
}

type stubAPIError struct {
	code string
	msg  string
}

func (e *stubAPIError) Error() string                 { return e.msg }
func (e *stubAPIError) ErrorCode() string             { return e.code }
func (e *stubAPIError) ErrorMessage() string          { return e.msg }
func (e *stubAPIError) ErrorFault() smithy.ErrorFault { return smithy.FaultClient }

func TestMapError(t *testing.T) {
	tests := []struct {
		name string
		in   error
		want any
	}{
		{"data unavailable", &types.DataUnavailableException{Message: aws.String("too recent")}, new(*model.DataNotAvailableError)},
		{"limit exceeded", &types.LimitExceededException{Message: aws.String("slow down")}, new(*model.RateLimitExceededError)},
		{"invalid token", &types.InvalidNextTokenException{Message: aws.String("bad token")}, new(*model.APIError)},
		{"access denied", &stubAPIError{code: "AccessDeniedException", msg: "not enabled"}, new(*model.CostExplorerNotEnabledError)},
		{"throttling", &stubAPIError{code: "ThrottlingException", msg: "throttled"}, new(*model.RateLimitExceededError)},
		{"bad credentials", &stubAPIError{code: "UnrecognizedClientException", msg: "bad creds"}, new(*model.AuthenticationError)},
		{"expired token", &stubAPIError{code: "ExpiredTokenException", msg: "expired"}, new(*model.AuthenticationError)},
		{"unknown code", &stubAPIError{code: "SomethingElse", msg: "odd"}, new(*model.APIError)},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			mapped := mapError(tc.in)
			assert.ErrorAs(t, mapped, tc.want)
		})
	}
}

func TestMapErrorNonAPIError(t *testing.T) {
	mapped := mapError(assert.AnError)
	var apiErr *model.APIError
	require.ErrorAs(t, mapped, &apiErr)
	assert.Empty(t, apiErr.Code)
}

func TestRateLimitCarriesRetryHint(t *testing.T) {
	mapped := mapError(&stubAPIError{code: "Throttling", msg: "throttled"})
	var rateErr *model.RateLimitExceededError
	require.ErrorAs(t, mapped, &rateErr)
	assert.Equal(t, 60, rateErr.RetryAfterSeconds)
}

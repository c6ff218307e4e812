package tools

import (
	"context"
	"encoding/json"
	"fmt"
	stdlog "log"
	"os"

	"github.com/elC0mpa/costdrill/cmd/mcp/response"
	"github.com/elC0mpa/costdrill/service/aggregator"
	awsconfig "github.com/elC0mpa/costdrill/service/aws/config"
	awscostexplorer "github.com/elC0mpa/costdrill/service/aws/costexplorer"
	awsec2 "github.com/elC0mpa/costdrill/service/aws/ec2"
	awssts "github.com/elC0mpa/costdrill/service/aws/sts"
	"github.com/go-logr/logr"
	"github.com/go-logr/stdr"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// RegisterCostTools registers all cost analysis tools with the MCP server
func RegisterCostTools(s *server.MCPServer, region, profile string) {
	s.AddTool(
		mcp.NewTool("get_account_info",
			mcp.WithDescription("Get AWS account identity information including account ID and ARN"),
		),
		makeAccountInfoHandler(region, profile),
	)

	s.AddTool(
		mcp.NewTool("get_instance_costs",
			mcp.WithDescription("Get the categorized cost breakdown for a single EC2 instance: compute, storage, data transfer, snapshots, elastic IPs and derived unit costs"),
			mcp.WithString("instance_id", mcp.Required(), mcp.Description("EC2 instance ID, e.g. i-0abc123")),
			mcp.WithNumber("days", mcp.Description("query window in days, default 30")),
		),
		makeInstanceCostsHandler(region, profile),
	)

	s.AddTool(
		mcp.NewTool("get_regional_costs",
			mcp.WithDescription("Get every EC2 instance of the region joined with its cost breakdown, ordered by cost descending"),
			mcp.WithNumber("days", mcp.Description("query window in days, default 30")),
		),
		makeRegionalCostsHandler(region, profile),
	)

	s.AddTool(
		mcp.NewTool("get_waste_report",
			mcp.WithDescription("Detect EC2 instances with cost optimization opportunities: stopped instances with costs, storage-heavy instances, high data transfer and elastic IP charges"),
			mcp.WithNumber("days", mcp.Description("query window in days, default 30")),
		),
		makeWasteReportHandler(region, profile),
	)

	s.AddTool(
		mcp.NewTool("get_cost_forecast",
			mcp.WithDescription("Predict AWS spend for the coming period with a prediction interval"),
			mcp.WithNumber("days", mcp.Description("forecast horizon in days, 1 to 365, default 30")),
		),
		makeForecastHandler(region, profile),
	)

	s.AddTool(
		mcp.NewTool("get_costs_by_tag",
			mcp.WithDescription("Get costs grouped by a cost allocation tag, optionally filtered to one tag value"),
			mcp.WithString("tag_key", mcp.Required(), mcp.Description("tag key to group by")),
			mcp.WithString("tag_value", mcp.Description("restrict to this exact tag value")),
			mcp.WithNumber("days", mcp.Description("query window in days, default 30")),
		),
		makeCostsByTagHandler(region, profile),
	)

	s.AddTool(
		mcp.NewTool("compare_instance_costs",
			mcp.WithDescription("Compare an EC2 instance's costs for the recent period against the immediately preceding period of equal length"),
			mcp.WithString("instance_id", mcp.Required(), mcp.Description("EC2 instance ID")),
			mcp.WithNumber("days", mcp.Description("length of each comparison window in days, default 30")),
		),
		makeComparisonHandler(region, profile),
	)
}

type services struct {
	identity   awssts.IdentityService
	costs      awscostexplorer.CostService
	aggregator aggregator.AggregatorService
}

func buildServices(ctx context.Context, region, profile string) (*services, error) {
	awsCfg, err := awsconfig.NewService().GetAWSCfg(ctx, region, profile)
	if err != nil {
		return nil, fmt.Errorf("failed to configure AWS: %w", err)
	}

	log := newLogger()
	costs := awscostexplorer.NewService(awsCfg, log)
	instances := awsec2.NewService(awsCfg, log)

	return &services{
		identity:   awssts.NewService(awsCfg),
		costs:      costs,
		aggregator: aggregator.NewService(instances, costs, awsCfg.Region, log),
	}, nil
}

// stdout carries the protocol, so logs go to stderr
func newLogger() logr.Logger {
	return stdr.New(stdlog.New(os.Stderr, "", stdlog.LstdFlags)).WithName("costdrill-mcp")
}

func jsonResult(v any) *mcp.CallToolResult {
	data, _ := json.MarshalIndent(v, "", "  ")
	return mcp.NewToolResultText(string(data))
}

func makeAccountInfoHandler(region, profile string) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		svcs, err := buildServices(ctx, region, profile)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		info, err := svcs.identity.GetAccountInfo(ctx)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Failed to get account info: %v", err)), nil
		}
		return jsonResult(response.ConvertAccountInfo(info)), nil
	}
}

func makeInstanceCostsHandler(region, profile string) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		instanceID, err := request.RequireString("instance_id")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		days := request.GetInt("days", 30)

		svcs, err := buildServices(ctx, region, profile)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		item, err := svcs.aggregator.GetInstanceWithCosts(ctx, instanceID, days)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Failed to get instance costs: %v", err)), nil
		}
		return jsonResult(response.ConvertInstanceCosts(*item)), nil
	}
}

func makeRegionalCostsHandler(region, profile string) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		days := request.GetInt("days", 30)

		svcs, err := buildServices(ctx, region, profile)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		summary, err := svcs.aggregator.GetAllInstancesWithCosts(ctx, days)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Failed to get regional costs: %v", err)), nil
		}
		return jsonResult(response.ConvertRegionalSummary(summary)), nil
	}
}

func makeWasteReportHandler(region, profile string) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		days := request.GetInt("days", 30)

		svcs, err := buildServices(ctx, region, profile)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		accountID := ""
		if info, err := svcs.identity.GetAccountInfo(ctx); err == nil {
			accountID = info.AccountID
		}

		opportunities, err := svcs.aggregator.GetCostOptimizationOpportunities(ctx, days)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Failed to get waste report: %v", err)), nil
		}
		return jsonResult(response.ConvertOpportunities(accountID, opportunities)), nil
	}
}

func makeForecastHandler(region, profile string) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		days := request.GetInt("days", 30)

		svcs, err := buildServices(ctx, region, profile)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		forecast, err := svcs.costs.GetCostForecast(ctx, days, "")
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Failed to get forecast: %v", err)), nil
		}
		return jsonResult(response.ConvertForecast(forecast)), nil
	}
}

func makeCostsByTagHandler(region, profile string) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		tagKey, err := request.RequireString("tag_key")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		tagValue := request.GetString("tag_value", "")
		days := request.GetInt("days", 30)

		svcs, err := buildServices(ctx, region, profile)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		summary, err := svcs.costs.GetCostByTag(ctx, tagKey, tagValue, days)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Failed to get tag costs: %v", err)), nil
		}
		return jsonResult(response.ConvertCostSummary(summary)), nil
	}
}

func makeComparisonHandler(region, profile string) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		instanceID, err := request.RequireString("instance_id")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		days := request.GetInt("days", 30)

		svcs, err := buildServices(ctx, region, profile)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		comparison, err := svcs.aggregator.GetInstanceCostComparison(ctx, instanceID, days)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Failed to compare costs: %v", err)), nil
		}
		return jsonResult(response.ConvertComparison(comparison)), nil
	}
}

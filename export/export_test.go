package export

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/elC0mpa/costdrill/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleSummary() *model.CostSummary {
	return &model.CostSummary{
		Start:     time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC),
		End:       time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC),
		TotalCost: model.NewCostAmount(42.5),
		Breakdowns: []model.CostBreakdown{
			{Key: "BoxUsage:t3.large", Cost: model.NewCostAmount(30)},
			{Key: "EBS:VolumeUsage.gp3", Cost: model.NewCostAmount(12.5)},
		},
	}
}

func TestParseFormat(t *testing.T) {
	for _, valid := range []string{"json", "csv", "markdown"} {
		format, err := ParseFormat(valid)
		require.NoError(t, err)
		assert.Equal(t, Format(valid), format)
	}

	_, err := ParseFormat("xml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "xml")
}

func TestCostSummaryJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, CostSummary(&buf, sampleSummary(), FormatJSON))

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
}

func TestCostSummaryCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, CostSummary(&buf, sampleSummary(), FormatCSV))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "key,cost,unit", strings.ToLower(lines[0]))
	assert.Contains(t, lines[1], "BoxUsage:t3.large")
	assert.Contains(t, lines[1], "30.00")
	assert.Contains(t, strings.ToLower(lines[3]), "total")
	assert.Contains(t, lines[3], "42.50")
}

func TestCostSummaryMarkdown(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, CostSummary(&buf, sampleSummary(), FormatMarkdown))

	out := buf.String()
	assert.Contains(t, strings.ToLower(out), "| key |")
	assert.Contains(t, out, "BoxUsage:t3.large")
}

func TestOpportunitiesCSVJoinsRecommendations(t *testing.T) {
	opportunities := []model.OptimizationOpportunity{
		{
			InstanceID:   "i-1",
			InstanceName: "web-1",
			InstanceType: "t3.large",
			State:        model.StateStopped,
			TotalCost:    12.5,
			Indicators: model.WasteIndicators{
				StoppedWithCosts: true,
				Recommendations:  []string{"first", "second"},
			},
		},
	}

	var buf bytes.Buffer
	require.NoError(t, Opportunities(&buf, opportunities, FormatCSV))
	assert.Contains(t, buf.String(), "first; second")
}

func TestForecastJSON(t *testing.T) {
	forecast := &model.CostForecast{
		Start:                   time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC),
		End:                     time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC),
		MeanValue:               model.NewCostAmount(250),
		PredictionIntervalLower: model.NewCostAmount(205),
		PredictionIntervalUpper: model.NewCostAmount(295),
	}

	var buf bytes.Buffer
	require.NoError(t, Forecast(&buf, forecast, FormatJSON))

	var decoded model.CostForecast
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.InDelta(t, 250, decoded.MeanValue.Amount, 0.001)
}

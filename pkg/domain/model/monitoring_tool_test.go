package model_test

import (
	"encoding/json"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/dcrisk/pkg/domain/model"
)

func TestMetricValue_JSON(t *testing.T) {
	t.Run("number", func(t *testing.T) {
		var v model.MetricValue
		gt.NoError(t, json.Unmarshal([]byte(`68`), &v)).Required()
		gt.Bool(t, v.IsNumber()).True()
		gt.Value(t, v.Number()).Equal(68.0)
		gt.Value(t, v.String()).Equal("68")

		out, err := json.Marshal(v)
		gt.NoError(t, err).Required()
		gt.Value(t, string(out)).Equal("68")
	})

	t.Run("text", func(t *testing.T) {
		var v model.MetricValue
		gt.NoError(t, json.Unmarshal([]byte(`"512/520"`), &v)).Required()
		gt.Bool(t, v.IsNumber()).False()
		gt.Value(t, v.String()).Equal("512/520")

		out, err := json.Marshal(v)
		gt.NoError(t, err).Required()
		gt.Value(t, string(out)).Equal(`"512/520"`)
	})

	t.Run("fraction", func(t *testing.T) {
		gt.Value(t, model.NumberValue(0.02).String()).Equal("0.02")
	})

	t.Run("rejects other types", func(t *testing.T) {
		var v model.MetricValue
		gt.Error(t, json.Unmarshal([]byte(`true`), &v))
	})
}

func TestMonitoringTool_Copy(t *testing.T) {
	trend := -2.0
	tool := &model.MonitoringTool{
		ID:      "dcgm",
		Metrics: []model.Metric{{Label: "Avg Temperature", Value: model.NumberValue(68), Unit: "°C", Trend: &trend}},
	}

	c := tool.Copy()
	*c.Metrics[0].Trend = 5
	c.Metrics[0].Label = "changed"

	gt.Value(t, *tool.Metrics[0].Trend).Equal(-2.0)
	gt.Value(t, tool.Metrics[0].Label).Equal("Avg Temperature")
}

package model

import (
	"encoding/json"
	"strconv"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/dcrisk/pkg/domain/types"
)

// MonitoringTool is a monitoring system and its authored status snapshot
type MonitoringTool struct {
	ID          types.ToolID     `json:"id"`
	Name        string           `json:"name"`
	Description string           `json:"description"`
	Status      types.ToolStatus `json:"status"`
	Metrics     []Metric         `json:"metrics"`
	AlertCount  int              `json:"alertCount"`
	// LastCheck is display-only recency text such as "2 minutes ago"
	LastCheck string `json:"lastCheck"`
}

// Copy returns a deep copy of the tool
func (t *MonitoringTool) Copy() *MonitoringTool {
	if t == nil {
		return nil
	}
	c := *t
	c.Metrics = make([]Metric, len(t.Metrics))
	for i, m := range t.Metrics {
		c.Metrics[i] = m.copy()
	}
	return &c
}

// Metric is one labelled value of a monitoring tool
type Metric struct {
	Label  string             `json:"label"`
	Value  MetricValue        `json:"value"`
	Unit   string             `json:"unit,omitempty"`
	Status types.MetricStatus `json:"status,omitempty"`
	// Trend is a signed delta against the previous snapshot, nil when not reported
	Trend *float64 `json:"trend,omitempty"`
}

func (m Metric) copy() Metric {
	c := m
	if m.Trend != nil {
		v := *m.Trend
		c.Trend = &v
	}
	return c
}

// MetricValue holds either a number or free text
type MetricValue struct {
	text    string
	number  float64
	numeric bool
}

// TextValue returns a textual metric value
func TextValue(s string) MetricValue {
	return MetricValue{text: s}
}

// NumberValue returns a numeric metric value
func NumberValue(f float64) MetricValue {
	return MetricValue{number: f, numeric: true}
}

// IsNumber reports whether the value is numeric
func (v MetricValue) IsNumber() bool { return v.numeric }

// Number returns the numeric value, zero for text values
func (v MetricValue) Number() float64 { return v.number }

// String renders the value for display
func (v MetricValue) String() string {
	if v.numeric {
		return strconv.FormatFloat(v.number, 'f', -1, 64)
	}
	return v.text
}

func (v MetricValue) MarshalJSON() ([]byte, error) {
	if v.numeric {
		return json.Marshal(v.number)
	}
	return json.Marshal(v.text)
}

func (v *MetricValue) UnmarshalJSON(data []byte) error {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return goerr.Wrap(err, "failed to decode metric value")
	}
	switch x := raw.(type) {
	case float64:
		*v = NumberValue(x)
	case string:
		*v = TextValue(x)
	default:
		return goerr.New("metric value must be a string or a number", goerr.V(ValueKey, string(data)))
	}
	return nil
}

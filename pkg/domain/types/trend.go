package types

import "fmt"

// Trend is the authored direction of a risk over recent incidents
type Trend string

const (
	TrendIncreasing Trend = "increasing"
	TrendStable     Trend = "stable"
	TrendDecreasing Trend = "decreasing"
)

// AllTrends returns all valid trends
func AllTrends() []Trend {
	return []Trend{
		TrendIncreasing,
		TrendStable,
		TrendDecreasing,
	}
}

// IsValid checks if the trend is valid
func (t Trend) IsValid() bool {
	switch t {
	case TrendIncreasing,
		TrendStable,
		TrendDecreasing:
		return true
	default:
		return false
	}
}

// String returns the string representation of the trend
func (t Trend) String() string {
	return string(t)
}

// ParseTrend parses a string into a Trend
func ParseTrend(s string) (Trend, error) {
	t := Trend(s)
	if !t.IsValid() {
		return "", fmt.Errorf("invalid trend: %s", s)
	}
	return t, nil
}

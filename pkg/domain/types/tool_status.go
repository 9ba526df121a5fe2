package types

import "fmt"

// ToolStatus is the snapshot status of a monitoring tool
type ToolStatus string

const (
	ToolStatusHealthy  ToolStatus = "healthy"
	ToolStatusWarning  ToolStatus = "warning"
	ToolStatusCritical ToolStatus = "critical"
	ToolStatusOffline  ToolStatus = "offline"
)

// AllToolStatuses returns all valid tool statuses
func AllToolStatuses() []ToolStatus {
	return []ToolStatus{
		ToolStatusHealthy,
		ToolStatusWarning,
		ToolStatusCritical,
		ToolStatusOffline,
	}
}

// IsValid checks if the tool status is valid
func (s ToolStatus) IsValid() bool {
	switch s {
	case ToolStatusHealthy,
		ToolStatusWarning,
		ToolStatusCritical,
		ToolStatusOffline:
		return true
	default:
		return false
	}
}

// String returns the string representation of the tool status
func (s ToolStatus) String() string {
	return string(s)
}

// ParseToolStatus parses a string into a ToolStatus
func ParseToolStatus(s string) (ToolStatus, error) {
	status := ToolStatus(s)
	if !status.IsValid() {
		return "", fmt.Errorf("invalid tool status: %s", s)
	}
	return status, nil
}

// MetricStatus is the optional status of a single metric. Empty means unset.
type MetricStatus string

const (
	MetricStatusHealthy  MetricStatus = "healthy"
	MetricStatusWarning  MetricStatus = "warning"
	MetricStatusCritical MetricStatus = "critical"
)

// IsValid checks if the metric status is valid. The empty status is valid.
func (s MetricStatus) IsValid() bool {
	switch s {
	case "",
		MetricStatusHealthy,
		MetricStatusWarning,
		MetricStatusCritical:
		return true
	default:
		return false
	}
}

// String returns the string representation of the metric status
func (s MetricStatus) String() string {
	return string(s)
}

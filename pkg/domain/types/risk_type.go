package types

import "fmt"

// RiskType groups risks on an axis orthogonal to category
type RiskType string

const (
	RiskTypeTechnical   RiskType = "technical"
	RiskTypeBusiness    RiskType = "business"
	RiskTypeOperational RiskType = "operational"
)

// AllRiskTypes returns all valid risk types
func AllRiskTypes() []RiskType {
	return []RiskType{
		RiskTypeTechnical,
		RiskTypeBusiness,
		RiskTypeOperational,
	}
}

// IsValid checks if the risk type is valid
func (t RiskType) IsValid() bool {
	switch t {
	case RiskTypeTechnical,
		RiskTypeBusiness,
		RiskTypeOperational:
		return true
	default:
		return false
	}
}

// String returns the string representation of the risk type
func (t RiskType) String() string {
	return string(t)
}

// ParseRiskType parses a string into a RiskType
func ParseRiskType(s string) (RiskType, error) {
	t := RiskType(s)
	if !t.IsValid() {
		return "", fmt.Errorf("invalid risk type: %s", s)
	}
	return t, nil
}

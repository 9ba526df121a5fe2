package types

import (
	"regexp"

	"github.com/m-mizutani/goerr/v2"
)

// CategoryID identifies a risk or best practice category. The set is open: values outside
// KnownCategories are accepted and rendered with fallback display metadata.
type CategoryID string

const (
	CategoryGPUHardware  CategoryID = "gpu-hardware"
	CategoryNetworkDPU   CategoryID = "network-dpu"
	CategoryNVLink       CategoryID = "nvlink"
	CategorySoftware     CategoryID = "software"
	CategoryPowerCooling CategoryID = "power-cooling"
	CategoryStorageIO    CategoryID = "storage-io"
	CategorySecurity     CategoryID = "security"
	CategoryCompliance   CategoryID = "compliance"
	CategoryAIOperations CategoryID = "ai-operations"
)

var idPattern = regexp.MustCompile(`^[a-z0-9]+(-[a-z0-9]+)*$`)

// KnownCategories returns the categories that have dedicated display metadata
func KnownCategories() []CategoryID {
	return []CategoryID{
		CategoryGPUHardware,
		CategoryNetworkDPU,
		CategoryNVLink,
		CategorySoftware,
		CategoryPowerCooling,
		CategoryStorageIO,
		CategorySecurity,
		CategoryCompliance,
		CategoryAIOperations,
	}
}

// IsKnown reports whether c is one of KnownCategories
func (c CategoryID) IsKnown() bool {
	for _, known := range KnownCategories() {
		if c == known {
			return true
		}
	}
	return false
}

// Validate checks if the CategoryID is well-formed. It does not require the category to be known.
func (c CategoryID) Validate() error {
	if c == "" {
		return goerr.New("category ID cannot be empty")
	}
	if !idPattern.MatchString(string(c)) {
		return goerr.New("category ID must be lowercase alphanumeric with hyphens", goerr.V("id", c))
	}
	return nil
}

// String returns the string representation of CategoryID
func (c CategoryID) String() string {
	return string(c)
}

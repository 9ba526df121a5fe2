package interfaces

import (
	"context"

	"github.com/secmon-lab/dcrisk/pkg/domain/types"
)

// PreferenceKeyImplementedPractices holds the ordered ids of best practices a user marked implemented
const PreferenceKeyImplementedPractices = "implemented-practices"

// PreferenceRepository is a per-user key-value store of string lists
type PreferenceRepository interface {
	// Get returns the stored values of key. A key never written returns an empty list and no error.
	Get(ctx context.Context, userID types.UserID, key string) ([]string, error)

	// Put atomically replaces the values of key
	Put(ctx context.Context, userID types.UserID, key string, values []string) error

	// Close releases backend resources
	Close() error
}

package memory

import (
	"context"
	"slices"
	"sync"

	"github.com/secmon-lab/dcrisk/pkg/domain/interfaces"
	"github.com/secmon-lab/dcrisk/pkg/domain/types"
)

// Memory is an in-process PreferenceRepository for development and tests.
// Stored state is lost on restart.
type Memory struct {
	mu          sync.RWMutex
	preferences map[types.UserID]map[string][]string
}

var _ interfaces.PreferenceRepository = &Memory{}

func New() *Memory {
	return &Memory{
		preferences: make(map[types.UserID]map[string][]string),
	}
}

func (m *Memory) Get(ctx context.Context, userID types.UserID, key string) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	values, ok := m.preferences[userID][key]
	if !ok {
		return []string{}, nil
	}

	// Return a copy to prevent external modification
	return slices.Clone(values), nil
}

func (m *Memory) Put(ctx context.Context, userID types.UserID, key string, values []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	user, ok := m.preferences[userID]
	if !ok {
		user = make(map[string][]string)
		m.preferences[userID] = user
	}
	stored := make([]string, len(values))
	copy(stored, values)
	user[key] = stored
	return nil
}

func (m *Memory) Close() error {
	return nil
}

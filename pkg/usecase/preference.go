package usecase

import (
	"context"
	"errors"
	"slices"
	"sync"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/dcrisk/pkg/domain/interfaces"
	"github.com/secmon-lab/dcrisk/pkg/domain/types"
	"github.com/secmon-lab/dcrisk/pkg/utils/logging"
)

// PreferenceStore tracks the practices one user marked as implemented. Every read and every
// toggle goes to the repository, so writers sharing a backend see each other's changes.
// A set that failed to save is held in memory and replaces the persisted one until a later
// toggle saves it.
type PreferenceStore struct {
	repo   interfaces.PreferenceRepository
	userID types.UserID
	total  int

	mu      sync.Mutex
	unsaved []types.PracticeID
}

func NewPreferenceStore(repo interfaces.PreferenceRepository, userID types.UserID, total int) *PreferenceStore {
	return &PreferenceStore{
		repo:   repo,
		userID: userID,
		total:  total,
	}
}

// UserID returns the owner of the store
func (s *PreferenceStore) UserID() types.UserID {
	return s.userID
}

// HasUnsaved reports whether the in-memory set differs from the persisted one
func (s *PreferenceStore) HasUnsaved() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.unsaved != nil
}

// current must be called with s.mu held
func (s *PreferenceStore) current(ctx context.Context) ([]types.PracticeID, error) {
	if s.unsaved != nil {
		return slices.Clone(s.unsaved), nil
	}

	values, err := s.repo.Get(ctx, s.userID, interfaces.PreferenceKeyImplementedPractices)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to load implemented practices", goerr.V(UserIDKey, s.userID))
	}

	ids := make([]types.PracticeID, 0, len(values))
	for _, v := range values {
		id := types.PracticeID(v)
		if id == "" || slices.Contains(ids, id) {
			continue
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// IsImplemented reports whether id is in the set. Ids never toggled are not implemented.
func (s *PreferenceStore) IsImplemented(ctx context.Context, id types.PracticeID) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ids, err := s.current(ctx)
	if err != nil {
		return false, err
	}
	return slices.Contains(ids, id), nil
}

// Toggle adds id when absent and removes it when present, then persists the whole set.
// It returns the new membership. When the write fails the change is kept in memory and the
// error wraps both ErrPersistFailed and the repository error.
func (s *PreferenceStore) Toggle(ctx context.Context, id types.PracticeID) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ids, err := s.current(ctx)
	if err != nil {
		return false, err
	}

	var implemented bool
	if i := slices.Index(ids, id); i >= 0 {
		ids = slices.Delete(ids, i, i+1)
	} else {
		ids = append(ids, id)
		implemented = true
	}

	values := make([]string, len(ids))
	for i, v := range ids {
		values[i] = v.String()
	}

	if err := s.repo.Put(ctx, s.userID, interfaces.PreferenceKeyImplementedPractices, values); err != nil {
		s.unsaved = ids
		return implemented, goerr.Wrap(errors.Join(ErrPersistFailed, err), "failed to save implemented practices",
			goerr.V(UserIDKey, s.userID),
			goerr.V(PracticeIDKey, id))
	}
	s.unsaved = nil

	logging.From(ctx).Debug("toggled practice",
		"user_id", s.userID,
		"practice_id", id,
		"implemented", implemented,
	)
	return implemented, nil
}

// ImplementedCount returns the size of the set
func (s *PreferenceStore) ImplementedCount(ctx context.Context) (int, error) {
	ids, err := s.Implemented(ctx)
	if err != nil {
		return 0, err
	}
	return len(ids), nil
}

// TotalCount returns the number of practices in the catalog
func (s *PreferenceStore) TotalCount() int {
	return s.total
}

// Implemented returns the implemented ids in toggle order
func (s *PreferenceStore) Implemented(ctx context.Context) ([]types.PracticeID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current(ctx)
}

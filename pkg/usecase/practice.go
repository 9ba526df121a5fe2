package usecase

import (
	"context"
	"hash/maphash"
	"sync"

	"github.com/secmon-lab/dcrisk/pkg/domain/interfaces"
	"github.com/secmon-lab/dcrisk/pkg/domain/model"
	"github.com/secmon-lab/dcrisk/pkg/domain/types"
	"github.com/secmon-lab/dcrisk/pkg/utils/logging"
)

const (
	toggleLockStripes = 64

	// maxUnsavedStores caps how many users can hold a set that failed to save
	maxUnsavedStores = 1024
)

// PracticeUseCase serves best practices together with per-user implemented state
type PracticeUseCase struct {
	catalog *CatalogUseCase
	repo    interfaces.PreferenceRepository

	seed  maphash.Seed
	locks [toggleLockStripes]sync.Mutex

	mu      sync.Mutex
	unsaved map[types.UserID]*PreferenceStore
}

func NewPracticeUseCase(catalog *CatalogUseCase, repo interfaces.PreferenceRepository) *PracticeUseCase {
	return &PracticeUseCase{
		catalog: catalog,
		repo:    repo,
		seed:    maphash.MakeSeed(),
		unsaved: make(map[types.UserID]*PreferenceStore),
	}
}

// Store returns the preference store of a user. Only stores holding a set that failed to save
// are kept between calls; every other call builds a fresh store over the repository.
func (uc *PracticeUseCase) Store(userID types.UserID) *PreferenceStore {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	if s, ok := uc.unsaved[userID]; ok {
		return s
	}
	return NewPreferenceStore(uc.repo, userID, uc.catalog.Catalog().BestPracticeCount())
}

// UnsavedCount returns the number of users whose last toggle is not persisted
func (uc *PracticeUseCase) UnsavedCount() int {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	return len(uc.unsaved)
}

func (uc *PracticeUseCase) lockUser(userID types.UserID) *sync.Mutex {
	return &uc.locks[maphash.String(uc.seed, userID.String())%toggleLockStripes]
}

// PracticeState is a best practice with the implemented flag of one user
type PracticeState struct {
	*model.BestPractice
	Implemented bool `json:"implemented"`
}

// Progress is the "N of M implemented" summary of one user
type Progress struct {
	Implemented int `json:"implemented"`
	Total       int `json:"total"`
}

// List returns the practices matching query with the user's implemented flags
func (uc *PracticeUseCase) List(ctx context.Context, userID types.UserID, query string) ([]*PracticeState, error) {
	ids, err := uc.Store(userID).Implemented(ctx)
	if err != nil {
		return nil, err
	}
	implemented := make(map[types.PracticeID]struct{}, len(ids))
	for _, id := range ids {
		implemented[id] = struct{}{}
	}

	practices := uc.catalog.SearchPractices(query)
	out := make([]*PracticeState, 0, len(practices))
	for _, p := range practices {
		_, ok := implemented[p.ID]
		out = append(out, &PracticeState{BestPractice: p, Implemented: ok})
	}
	return out, nil
}

// Toggle flips the implemented flag of a catalog practice. Unknown ids are rejected with
// ErrPracticeNotFound and never reach the store. Toggles of one user are serialized within
// the process; across processes the last write wins.
func (uc *PracticeUseCase) Toggle(ctx context.Context, userID types.UserID, id types.PracticeID) (bool, error) {
	if _, err := uc.catalog.GetBestPractice(id); err != nil {
		return false, err
	}

	lock := uc.lockUser(userID)
	lock.Lock()
	defer lock.Unlock()

	store := uc.Store(userID)
	implemented, err := store.Toggle(ctx, id)
	uc.track(ctx, store)
	return implemented, err
}

// track keeps store between calls while it holds unsaved state
func (uc *PracticeUseCase) track(ctx context.Context, store *PreferenceStore) {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	userID := store.UserID()
	if !store.HasUnsaved() {
		delete(uc.unsaved, userID)
		return
	}
	if _, ok := uc.unsaved[userID]; !ok && len(uc.unsaved) >= maxUnsavedStores {
		logging.From(ctx).Warn("dropping unsaved preferences, too many pending users",
			"user_id", userID,
			"pending", len(uc.unsaved),
		)
		return
	}
	uc.unsaved[userID] = store
}

// Progress counts the implemented practices that exist in the catalog. Stale ids left in the
// persisted set by an older catalog are ignored.
func (uc *PracticeUseCase) Progress(ctx context.Context, userID types.UserID) (*Progress, error) {
	ids, err := uc.Store(userID).Implemented(ctx)
	if err != nil {
		return nil, err
	}

	catalog := uc.catalog.Catalog()
	p := &Progress{Total: catalog.BestPracticeCount()}
	for _, id := range ids {
		if _, ok := catalog.BestPractice(id); ok {
			p.Implemented++
		}
	}
	return p, nil
}

package usecase

import (
	"github.com/secmon-lab/dcrisk/pkg/domain/interfaces"
	"github.com/secmon-lab/dcrisk/pkg/domain/model"
	"github.com/secmon-lab/dcrisk/pkg/repository/memory"
)

type UseCases struct {
	repo     interfaces.PreferenceRepository
	Catalog  *CatalogUseCase
	Practice *PracticeUseCase
}

type Option func(*UseCases)

// WithPreferenceRepository sets the backend for per-user preferences. Defaults to memory.
func WithPreferenceRepository(repo interfaces.PreferenceRepository) Option {
	return func(uc *UseCases) {
		uc.repo = repo
	}
}

func New(catalog *model.Catalog, opts ...Option) *UseCases {
	uc := &UseCases{}

	for _, opt := range opts {
		opt(uc)
	}
	if uc.repo == nil {
		uc.repo = memory.New()
	}

	uc.Catalog = NewCatalogUseCase(catalog)
	uc.Practice = NewPracticeUseCase(uc.Catalog, uc.repo)

	return uc
}

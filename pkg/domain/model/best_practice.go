package model

import (
	"slices"

	"github.com/secmon-lab/dcrisk/pkg/domain/types"
)

// BestPractice is an authored remediation checklist
type BestPractice struct {
	ID          types.PracticeID `json:"id"`
	Title       string           `json:"title"`
	Description string           `json:"description"`
	Category    types.CategoryID `json:"category"`
	Steps       []string         `json:"steps"`
	// RelatedRisks may reference ids missing from the catalog
	RelatedRisks []types.RiskID `json:"relatedRisks"`
	// Implemented is the authored default. Per-user state lives in the preference store.
	Implemented bool `json:"implemented"`
}

// Copy returns a deep copy of the practice
func (p *BestPractice) Copy() *BestPractice {
	if p == nil {
		return nil
	}
	c := *p
	c.Steps = slices.Clone(p.Steps)
	c.RelatedRisks = slices.Clone(p.RelatedRisks)
	return &c
}

package model

import "github.com/secmon-lab/dcrisk/pkg/domain/types"

// CategoryInfo is the display metadata of a category
type CategoryInfo struct {
	ID    types.CategoryID `json:"id"`
	Label string           `json:"label"`
	Icon  string           `json:"icon"`
	Color string           `json:"color"`
	// Fallback is true when the category had no dedicated metadata
	Fallback bool `json:"fallback"`
}

package model

import (
	"slices"

	"github.com/secmon-lab/dcrisk/pkg/domain/types"
)

// Risk is a single authored infrastructure risk
type Risk struct {
	ID              types.RiskID     `json:"id"`
	Name            string           `json:"name"`
	Description     string           `json:"description"`
	Impact          string           `json:"impact"`
	Category        types.CategoryID `json:"category"`
	Type            types.RiskType   `json:"type"`
	Severity        types.Severity   `json:"severity"`
	Likelihood      int              `json:"likelihood"`
	ImpactScore     int              `json:"impactScore"`
	AffectedSystems []string         `json:"affectedSystems"`
	// Dependencies are directed edges to risks this one is caused by or coupled to.
	// Ids may dangle.
	Dependencies []types.RiskID `json:"dependencies"`
	// Interconnections are looser cross-domain relations. Stored as authored; not symmetrized.
	Interconnections []types.RiskID `json:"interconnections"`
	Mitigation       []string       `json:"mitigation"`
	// MonitoringTools reference MonitoringTool.Name loosely
	MonitoringTools []string    `json:"monitoringTools"`
	RecentIncidents int         `json:"recentIncidents"`
	Trend           types.Trend `json:"trend"`
}

// Copy returns a deep copy of the risk
func (r *Risk) Copy() *Risk {
	if r == nil {
		return nil
	}
	c := *r
	c.AffectedSystems = slices.Clone(r.AffectedSystems)
	c.Dependencies = slices.Clone(r.Dependencies)
	c.Interconnections = slices.Clone(r.Interconnections)
	c.Mitigation = slices.Clone(r.Mitigation)
	c.MonitoringTools = slices.Clone(r.MonitoringTools)
	return &c
}

// DependsOn reports whether id is listed in Dependencies
func (r *Risk) DependsOn(id types.RiskID) bool {
	return slices.Contains(r.Dependencies, id)
}

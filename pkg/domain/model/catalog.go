package model

import (
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/dcrisk/pkg/domain/types"
)

// ReferenceField names the field a dangling reference was found in
type ReferenceField string

const (
	ReferenceDependencies     ReferenceField = "dependencies"
	ReferenceInterconnections ReferenceField = "interconnections"
	ReferenceRelatedRisks     ReferenceField = "relatedRisks"
)

// DanglingReference is a risk id with no matching catalog entry. It is a warning, not an
// error: resolvers skip such ids.
type DanglingReference struct {
	// Owner is the id of the risk or practice holding the reference
	Owner  string         `json:"owner"`
	Field  ReferenceField `json:"field"`
	Target types.RiskID   `json:"target"`
}

// Catalog is the immutable store of risks, monitoring tools and best practices.
// It is safe for concurrent readers. Accessors return copies.
type Catalog struct {
	version   string
	risks     []*Risk
	tools     []*MonitoringTool
	practices []*BestPractice

	riskIndex     map[types.RiskID]int
	toolIndex     map[types.ToolID]int
	practiceIndex map[types.PracticeID]int

	dangling []DanglingReference
}

// CatalogOption configures NewCatalog
type CatalogOption func(*Catalog)

// WithVersion records the version of the catalog definition
func WithVersion(version string) CatalogOption {
	return func(c *Catalog) {
		c.version = version
	}
}

// NewCatalog validates and copies the given records. Any integrity violation is reported as
// ErrCatalogIntegrity.
func NewCatalog(risks []*Risk, tools []*MonitoringTool, practices []*BestPractice, opts ...CatalogOption) (*Catalog, error) {
	c := &Catalog{
		risks:         make([]*Risk, 0, len(risks)),
		tools:         make([]*MonitoringTool, 0, len(tools)),
		practices:     make([]*BestPractice, 0, len(practices)),
		riskIndex:     make(map[types.RiskID]int, len(risks)),
		toolIndex:     make(map[types.ToolID]int, len(tools)),
		practiceIndex: make(map[types.PracticeID]int, len(practices)),
	}
	for _, opt := range opts {
		opt(c)
	}

	for i, risk := range risks {
		if risk == nil {
			return nil, goerr.Wrap(ErrCatalogIntegrity, "risk entry is empty", goerr.V("index", i))
		}
		if err := validateRisk(risk); err != nil {
			return nil, err
		}
		if _, exists := c.riskIndex[risk.ID]; exists {
			return nil, goerr.Wrap(ErrCatalogIntegrity, "duplicate risk ID", goerr.V(RiskIDKey, risk.ID))
		}
		c.riskIndex[risk.ID] = len(c.risks)
		c.risks = append(c.risks, risk.Copy())
	}

	for i, tool := range tools {
		if tool == nil {
			return nil, goerr.Wrap(ErrCatalogIntegrity, "monitoring tool entry is empty", goerr.V("index", i))
		}
		if err := validateTool(tool); err != nil {
			return nil, err
		}
		if _, exists := c.toolIndex[tool.ID]; exists {
			return nil, goerr.Wrap(ErrCatalogIntegrity, "duplicate monitoring tool ID", goerr.V(ToolIDKey, tool.ID))
		}
		c.toolIndex[tool.ID] = len(c.tools)
		c.tools = append(c.tools, tool.Copy())
	}

	for i, practice := range practices {
		if practice == nil {
			return nil, goerr.Wrap(ErrCatalogIntegrity, "best practice entry is empty", goerr.V("index", i))
		}
		if practice.ID == "" {
			return nil, goerr.Wrap(ErrCatalogIntegrity, "best practice ID is required", goerr.V("index", i))
		}
		if _, exists := c.practiceIndex[practice.ID]; exists {
			return nil, goerr.Wrap(ErrCatalogIntegrity, "duplicate best practice ID", goerr.V(PracticeIDKey, practice.ID))
		}
		c.practiceIndex[practice.ID] = len(c.practices)
		c.practices = append(c.practices, practice.Copy())
	}

	c.dangling = c.findDanglingReferences()
	return c, nil
}

func validateRisk(r *Risk) error {
	if r.ID == "" {
		return goerr.Wrap(ErrCatalogIntegrity, "risk ID is required", goerr.V("name", r.Name))
	}
	if err := types.ValidateScore(r.Likelihood); err != nil {
		return goerr.Wrap(ErrCatalogIntegrity, "likelihood out of range",
			goerr.V(RiskIDKey, r.ID), goerr.V(FieldKey, "likelihood"), goerr.V(ValueKey, r.Likelihood))
	}
	if err := types.ValidateScore(r.ImpactScore); err != nil {
		return goerr.Wrap(ErrCatalogIntegrity, "impact score out of range",
			goerr.V(RiskIDKey, r.ID), goerr.V(FieldKey, "impactScore"), goerr.V(ValueKey, r.ImpactScore))
	}
	if !r.Type.IsValid() {
		return goerr.Wrap(ErrCatalogIntegrity, "unrecognized risk type",
			goerr.V(RiskIDKey, r.ID), goerr.V(FieldKey, "type"), goerr.V(ValueKey, r.Type))
	}
	if !r.Trend.IsValid() {
		return goerr.Wrap(ErrCatalogIntegrity, "unrecognized trend",
			goerr.V(RiskIDKey, r.ID), goerr.V(FieldKey, "trend"), goerr.V(ValueKey, r.Trend))
	}
	if r.RecentIncidents < 0 {
		return goerr.Wrap(ErrCatalogIntegrity, "recent incidents must not be negative",
			goerr.V(RiskIDKey, r.ID), goerr.V(ValueKey, r.RecentIncidents))
	}
	return nil
}

func validateTool(t *MonitoringTool) error {
	if t.ID == "" {
		return goerr.Wrap(ErrCatalogIntegrity, "monitoring tool ID is required", goerr.V("name", t.Name))
	}
	if !t.Status.IsValid() {
		return goerr.Wrap(ErrCatalogIntegrity, "unrecognized monitoring tool status",
			goerr.V(ToolIDKey, t.ID), goerr.V(FieldKey, "status"), goerr.V(ValueKey, t.Status))
	}
	if t.AlertCount < 0 {
		return goerr.Wrap(ErrCatalogIntegrity, "alert count must not be negative",
			goerr.V(ToolIDKey, t.ID), goerr.V(ValueKey, t.AlertCount))
	}
	for _, m := range t.Metrics {
		if !m.Status.IsValid() {
			return goerr.Wrap(ErrCatalogIntegrity, "unrecognized metric status",
				goerr.V(ToolIDKey, t.ID), goerr.V("metric", m.Label), goerr.V(ValueKey, m.Status))
		}
	}
	return nil
}

func (c *Catalog) findDanglingReferences() []DanglingReference {
	var refs []DanglingReference
	check := func(owner string, field ReferenceField, ids []types.RiskID) {
		for _, id := range ids {
			if _, ok := c.riskIndex[id]; !ok {
				refs = append(refs, DanglingReference{Owner: owner, Field: field, Target: id})
			}
		}
	}

	for _, r := range c.risks {
		check(r.ID.String(), ReferenceDependencies, r.Dependencies)
		check(r.ID.String(), ReferenceInterconnections, r.Interconnections)
	}
	for _, p := range c.practices {
		check(p.ID.String(), ReferenceRelatedRisks, p.RelatedRisks)
	}
	return refs
}

// Version returns the catalog definition version, empty when not recorded
func (c *Catalog) Version() string {
	return c.version
}

// Risks returns copies of all risks in catalog order
func (c *Catalog) Risks() []*Risk {
	out := make([]*Risk, len(c.risks))
	for i, r := range c.risks {
		out[i] = r.Copy()
	}
	return out
}

// MonitoringTools returns copies of all monitoring tools in catalog order
func (c *Catalog) MonitoringTools() []*MonitoringTool {
	out := make([]*MonitoringTool, len(c.tools))
	for i, t := range c.tools {
		out[i] = t.Copy()
	}
	return out
}

// BestPractices returns copies of all best practices in catalog order
func (c *Catalog) BestPractices() []*BestPractice {
	out := make([]*BestPractice, len(c.practices))
	for i, p := range c.practices {
		out[i] = p.Copy()
	}
	return out
}

// Risk looks up a risk by ID
func (c *Catalog) Risk(id types.RiskID) (*Risk, bool) {
	i, ok := c.riskIndex[id]
	if !ok {
		return nil, false
	}
	return c.risks[i].Copy(), true
}

// HasRisk reports whether id exists without copying the record
func (c *Catalog) HasRisk(id types.RiskID) bool {
	_, ok := c.riskIndex[id]
	return ok
}

// RiskPosition returns the catalog order of a risk
func (c *Catalog) RiskPosition(id types.RiskID) (int, bool) {
	i, ok := c.riskIndex[id]
	return i, ok
}

// MonitoringTool looks up a monitoring tool by ID
func (c *Catalog) MonitoringTool(id types.ToolID) (*MonitoringTool, bool) {
	i, ok := c.toolIndex[id]
	if !ok {
		return nil, false
	}
	return c.tools[i].Copy(), true
}

// MonitoringToolByName looks up a monitoring tool by exact name
func (c *Catalog) MonitoringToolByName(name string) (*MonitoringTool, bool) {
	for _, t := range c.tools {
		if t.Name == name {
			return t.Copy(), true
		}
	}
	return nil, false
}

// BestPractice looks up a best practice by ID
func (c *Catalog) BestPractice(id types.PracticeID) (*BestPractice, bool) {
	i, ok := c.practiceIndex[id]
	if !ok {
		return nil, false
	}
	return c.practices[i].Copy(), true
}

// RiskCount returns the number of risks
func (c *Catalog) RiskCount() int { return len(c.risks) }

// BestPracticeCount returns the number of best practices
func (c *Catalog) BestPracticeCount() int { return len(c.practices) }

// DanglingReferences returns all references to risk ids absent from the catalog
func (c *Catalog) DanglingReferences() []DanglingReference {
	out := make([]DanglingReference, len(c.dangling))
	copy(out, c.dangling)
	return out
}

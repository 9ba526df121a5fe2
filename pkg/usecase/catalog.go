package usecase

import (
	"slices"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/dcrisk/pkg/domain/model"
	"github.com/secmon-lab/dcrisk/pkg/domain/types"
)

// CatalogUseCase resolves cross references and derived views over an immutable catalog.
// All methods are read-only and safe for concurrent use. Returned records are copies.
type CatalogUseCase struct {
	catalog *model.Catalog

	risks     []*model.Risk
	tools     []*model.MonitoringTool
	practices []*model.BestPractice

	// dependents[A] lists positions of risks whose dependencies contain A, in catalog order
	dependents map[types.RiskID][]int
	// practicesByRisk[A] lists positions of practices whose relatedRisks contain A
	practicesByRisk map[types.RiskID][]int
}

func NewCatalogUseCase(catalog *model.Catalog) *CatalogUseCase {
	uc := &CatalogUseCase{
		catalog:         catalog,
		risks:           catalog.Risks(),
		tools:           catalog.MonitoringTools(),
		practices:       catalog.BestPractices(),
		dependents:      make(map[types.RiskID][]int),
		practicesByRisk: make(map[types.RiskID][]int),
	}

	for i, r := range uc.risks {
		seen := make(map[types.RiskID]bool, len(r.Dependencies))
		for _, dep := range r.Dependencies {
			if seen[dep] {
				continue
			}
			seen[dep] = true
			uc.dependents[dep] = append(uc.dependents[dep], i)
		}
	}

	for i, p := range uc.practices {
		seen := make(map[types.RiskID]bool, len(p.RelatedRisks))
		for _, id := range p.RelatedRisks {
			if seen[id] {
				continue
			}
			seen[id] = true
			uc.practicesByRisk[id] = append(uc.practicesByRisk[id], i)
		}
	}

	return uc
}

// Catalog returns the underlying catalog
func (uc *CatalogUseCase) Catalog() *model.Catalog {
	return uc.catalog
}

// ListRisks returns all risks in catalog order
func (uc *CatalogUseCase) ListRisks() []*model.Risk {
	return copyRisks(uc.risks)
}

// ListMonitoringTools returns all monitoring tools in catalog order
func (uc *CatalogUseCase) ListMonitoringTools() []*model.MonitoringTool {
	out := make([]*model.MonitoringTool, len(uc.tools))
	for i, t := range uc.tools {
		out[i] = t.Copy()
	}
	return out
}

// ListBestPractices returns all best practices in catalog order
func (uc *CatalogUseCase) ListBestPractices() []*model.BestPractice {
	return copyPractices(uc.practices)
}

// GetRisk returns a single risk or ErrRiskNotFound
func (uc *CatalogUseCase) GetRisk(id types.RiskID) (*model.Risk, error) {
	pos, ok := uc.catalog.RiskPosition(id)
	if !ok {
		return nil, goerr.Wrap(ErrRiskNotFound, "risk not found", goerr.V(RiskIDKey, id))
	}
	return uc.risks[pos].Copy(), nil
}

// DependenciesOf resolves the dependencies of a risk in authored order, skipping dangling ids
func (uc *CatalogUseCase) DependenciesOf(id types.RiskID) ([]*model.Risk, error) {
	pos, ok := uc.catalog.RiskPosition(id)
	if !ok {
		return nil, goerr.Wrap(ErrRiskNotFound, "risk not found", goerr.V(RiskIDKey, id))
	}
	return uc.resolve(uc.risks[pos].Dependencies), nil
}

// DependentsOf returns every risk whose dependencies contain id, in catalog order
func (uc *CatalogUseCase) DependentsOf(id types.RiskID) ([]*model.Risk, error) {
	if !uc.catalog.HasRisk(id) {
		return nil, goerr.Wrap(ErrRiskNotFound, "risk not found", goerr.V(RiskIDKey, id))
	}

	positions := uc.dependents[id]
	out := make([]*model.Risk, 0, len(positions))
	for _, p := range positions {
		out = append(out, uc.risks[p].Copy())
	}
	return out, nil
}

// InterconnectionsOf resolves the interconnections the risk itself lists. The relation is not
// symmetrized: if only A lists B, InterconnectionsOf(B) does not include A.
func (uc *CatalogUseCase) InterconnectionsOf(id types.RiskID) ([]*model.Risk, error) {
	pos, ok := uc.catalog.RiskPosition(id)
	if !ok {
		return nil, goerr.Wrap(ErrRiskNotFound, "risk not found", goerr.V(RiskIDKey, id))
	}
	return uc.resolve(uc.risks[pos].Interconnections), nil
}

// HighConnectivityRisks returns risks with at least minDegree interconnections, ordered by
// descending interconnection count with ties in catalog order. limit <= 0 means no limit.
func (uc *CatalogUseCase) HighConnectivityRisks(minDegree, limit int) []*model.Risk {
	var out []*model.Risk
	for _, r := range uc.risks {
		if len(r.Interconnections) >= minDegree {
			out = append(out, r.Copy())
		}
	}

	slices.SortStableFunc(out, func(a, b *model.Risk) int {
		return len(b.Interconnections) - len(a.Interconnections)
	})

	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	if out == nil {
		out = []*model.Risk{}
	}
	return out
}

// RisksByType returns risks of one type in catalog order
func (uc *CatalogUseCase) RisksByType(t types.RiskType) []*model.Risk {
	out := []*model.Risk{}
	for _, r := range uc.risks {
		if r.Type == t {
			out = append(out, r.Copy())
		}
	}
	return out
}

// GetBestPractice returns a single practice or ErrPracticeNotFound
func (uc *CatalogUseCase) GetBestPractice(id types.PracticeID) (*model.BestPractice, error) {
	p, ok := uc.catalog.BestPractice(id)
	if !ok {
		return nil, goerr.Wrap(ErrPracticeNotFound, "best practice not found", goerr.V(PracticeIDKey, id))
	}
	return p, nil
}

// RelatedRisksOf resolves the related risks of a best practice, skipping dangling ids
func (uc *CatalogUseCase) RelatedRisksOf(id types.PracticeID) ([]*model.Risk, error) {
	p, ok := uc.catalog.BestPractice(id)
	if !ok {
		return nil, goerr.Wrap(ErrPracticeNotFound, "best practice not found", goerr.V(PracticeIDKey, id))
	}
	return uc.resolve(p.RelatedRisks), nil
}

// PracticesForRisk returns the best practices listing the risk as related, in catalog order
func (uc *CatalogUseCase) PracticesForRisk(id types.RiskID) ([]*model.BestPractice, error) {
	if !uc.catalog.HasRisk(id) {
		return nil, goerr.Wrap(ErrRiskNotFound, "risk not found", goerr.V(RiskIDKey, id))
	}

	positions := uc.practicesByRisk[id]
	out := make([]*model.BestPractice, 0, len(positions))
	for _, p := range positions {
		out = append(out, uc.practices[p].Copy())
	}
	return out, nil
}

// ToolReference is a monitoring tool name from a risk and the tool it resolved to, if any
type ToolReference struct {
	Name string                `json:"name"`
	Tool *model.MonitoringTool `json:"tool,omitempty"`
}

// MonitoringToolsFor resolves the loose tool names of a risk. A name matches a tool with the
// same name, otherwise the first tool whose name contains it or is contained in it,
// ignoring case. Unmatched names are returned without a tool.
func (uc *CatalogUseCase) MonitoringToolsFor(id types.RiskID) ([]ToolReference, error) {
	pos, ok := uc.catalog.RiskPosition(id)
	if !ok {
		return nil, goerr.Wrap(ErrRiskNotFound, "risk not found", goerr.V(RiskIDKey, id))
	}

	names := uc.risks[pos].MonitoringTools
	out := make([]ToolReference, 0, len(names))
	for _, name := range names {
		ref := ToolReference{Name: name}
		ref.Tool = uc.findTool(name)
		out = append(out, ref)
	}
	return out, nil
}

func (uc *CatalogUseCase) findTool(name string) *model.MonitoringTool {
	if t, ok := uc.catalog.MonitoringToolByName(name); ok {
		return t
	}

	needle := strings.ToLower(name)
	for _, t := range uc.tools {
		hay := strings.ToLower(t.Name)
		if hay == "" || needle == "" {
			continue
		}
		if strings.Contains(hay, needle) || strings.Contains(needle, hay) {
			return t.Copy()
		}
	}
	return nil
}

// MatrixCell is one quadrant of the risk matrix with the risks placed in it
type MatrixCell struct {
	Quadrant types.Quadrant `json:"quadrant"`
	Risks    []*model.Risk  `json:"risks"`
}

// Matrix groups every risk into its quadrant. Cells follow types.AllQuadrants order.
func (uc *CatalogUseCase) Matrix() ([]MatrixCell, error) {
	quadrants := types.AllQuadrants()
	cells := make([]MatrixCell, len(quadrants))
	index := make(map[types.QuadrantName]int, len(quadrants))
	for i, q := range quadrants {
		cells[i] = MatrixCell{Quadrant: q, Risks: []*model.Risk{}}
		index[q.Name] = i
	}

	for _, r := range uc.risks {
		q, err := QuadrantOf(r)
		if err != nil {
			return nil, err
		}
		i := index[q.Name]
		cells[i].Risks = append(cells[i].Risks, r.Copy())
	}
	return cells, nil
}

// Summary holds the headline counts of the dashboard
type Summary struct {
	TotalRisks    int                        `json:"totalRisks"`
	CriticalRisks int                        `json:"criticalRisks"`
	HighRisks     int                        `json:"highRisks"`
	ActiveAlerts  int                        `json:"activeAlerts"`
	Quadrants     map[types.QuadrantName]int `json:"quadrants"`
	ByType        map[types.RiskType]int     `json:"byType"`
}

// Summary computes headline counts over the catalog
func (uc *CatalogUseCase) Summary() (*Summary, error) {
	s := &Summary{
		TotalRisks: len(uc.risks),
		Quadrants:  make(map[types.QuadrantName]int),
		ByType:     make(map[types.RiskType]int),
	}
	for _, q := range types.AllQuadrants() {
		s.Quadrants[q.Name] = 0
	}

	for _, r := range uc.risks {
		switch r.Severity {
		case types.SeverityCritical:
			s.CriticalRisks++
		case types.SeverityHigh:
			s.HighRisks++
		}
		s.ByType[r.Type]++

		q, err := QuadrantOf(r)
		if err != nil {
			return nil, err
		}
		s.Quadrants[q.Name]++
	}

	for _, t := range uc.tools {
		s.ActiveAlerts += t.AlertCount
	}
	return s, nil
}

// SearchRisks filters risks by a case-insensitive substring of name, description or category.
// An empty query matches every risk.
func (uc *CatalogUseCase) SearchRisks(query string) []*model.Risk {
	q := strings.ToLower(strings.TrimSpace(query))
	out := []*model.Risk{}
	for _, r := range uc.risks {
		if q == "" ||
			strings.Contains(strings.ToLower(r.Name), q) ||
			strings.Contains(strings.ToLower(r.Description), q) ||
			strings.Contains(strings.ToLower(r.Category.String()), q) {
			out = append(out, r.Copy())
		}
	}
	return out
}

// SearchPractices filters practices by a case-insensitive substring of title, description or
// category. An empty query matches every practice.
func (uc *CatalogUseCase) SearchPractices(query string) []*model.BestPractice {
	q := strings.ToLower(strings.TrimSpace(query))
	out := []*model.BestPractice{}
	for _, p := range uc.practices {
		if q == "" ||
			strings.Contains(strings.ToLower(p.Title), q) ||
			strings.Contains(strings.ToLower(p.Description), q) ||
			strings.Contains(strings.ToLower(p.Category.String()), q) {
			out = append(out, p.Copy())
		}
	}
	return out
}

func (uc *CatalogUseCase) resolve(ids []types.RiskID) []*model.Risk {
	out := make([]*model.Risk, 0, len(ids))
	for _, id := range ids {
		pos, ok := uc.catalog.RiskPosition(id)
		if !ok {
			continue
		}
		out = append(out, uc.risks[pos].Copy())
	}
	return out
}

func copyRisks(risks []*model.Risk) []*model.Risk {
	out := make([]*model.Risk, len(risks))
	for i, r := range risks {
		out[i] = r.Copy()
	}
	return out
}

func copyPractices(practices []*model.BestPractice) []*model.BestPractice {
	out := make([]*model.BestPractice, len(practices))
	for i, p := range practices {
		out[i] = p.Copy()
	}
	return out
}

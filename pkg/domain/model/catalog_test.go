package model_test

import (
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/dcrisk/pkg/domain/model"
	"github.com/secmon-lab/dcrisk/pkg/domain/types"
)

func newRisk(id types.RiskID, deps ...types.RiskID) *model.Risk {
	return &model.Risk{
		ID:           id,
		Name:         "Risk " + id.String(),
		Category:     types.CategoryGPUHardware,
		Type:         types.RiskTypeTechnical,
		Severity:     types.SeverityHigh,
		Likelihood:   5,
		ImpactScore:  5,
		Dependencies: deps,
		Trend:        types.TrendStable,
	}
}

func TestNewCatalog(t *testing.T) {
	t.Run("keeps catalog order", func(t *testing.T) {
		c, err := model.NewCatalog(
			[]*model.Risk{newRisk("b"), newRisk("a"), newRisk("c")},
			nil, nil,
			model.WithVersion("1.0.0"),
		)
		gt.NoError(t, err).Required()

		risks := c.Risks()
		gt.A(t, risks).Length(3)
		gt.Value(t, risks[0].ID).Equal(types.RiskID("b"))
		gt.Value(t, risks[1].ID).Equal(types.RiskID("a"))
		gt.Value(t, risks[2].ID).Equal(types.RiskID("c"))
		gt.Value(t, c.Version()).Equal("1.0.0")
		gt.Value(t, c.RiskCount()).Equal(3)
	})

	t.Run("duplicate risk ID", func(t *testing.T) {
		_, err := model.NewCatalog([]*model.Risk{newRisk("gpu-1"), newRisk("gpu-1")}, nil, nil)
		gt.Error(t, err).Is(model.ErrCatalogIntegrity)
	})

	t.Run("likelihood out of range", func(t *testing.T) {
		r := newRisk("gpu-1")
		r.Likelihood = 11
		_, err := model.NewCatalog([]*model.Risk{r}, nil, nil)
		gt.Error(t, err).Is(model.ErrCatalogIntegrity)
	})

	t.Run("impact score out of range", func(t *testing.T) {
		r := newRisk("gpu-1")
		r.ImpactScore = -1
		_, err := model.NewCatalog([]*model.Risk{r}, nil, nil)
		gt.Error(t, err).Is(model.ErrCatalogIntegrity)
	})

	t.Run("unknown risk type fails closed", func(t *testing.T) {
		r := newRisk("gpu-1")
		r.Type = "strategic"
		_, err := model.NewCatalog([]*model.Risk{r}, nil, nil)
		gt.Error(t, err).Is(model.ErrCatalogIntegrity)
	})

	t.Run("unknown trend fails closed", func(t *testing.T) {
		r := newRisk("gpu-1")
		r.Trend = "volatile"
		_, err := model.NewCatalog([]*model.Risk{r}, nil, nil)
		gt.Error(t, err).Is(model.ErrCatalogIntegrity)
	})

	t.Run("unknown category and severity are tolerated", func(t *testing.T) {
		r := newRisk("gpu-1")
		r.Category = "quantum-fabric"
		r.Severity = "catastrophic"
		_, err := model.NewCatalog([]*model.Risk{r}, nil, nil)
		gt.NoError(t, err)
	})

	t.Run("unknown tool status fails closed", func(t *testing.T) {
		_, err := model.NewCatalog(nil, []*model.MonitoringTool{
			{ID: "dcgm", Name: "NVIDIA DCGM", Status: "degraded"},
		}, nil)
		gt.Error(t, err).Is(model.ErrCatalogIntegrity)
	})

	t.Run("unknown metric status fails closed", func(t *testing.T) {
		_, err := model.NewCatalog(nil, []*model.MonitoringTool{
			{ID: "dcgm", Name: "NVIDIA DCGM", Status: types.ToolStatusHealthy, Metrics: []model.Metric{
				{Label: "GPU Health", Value: model.TextValue("Healthy"), Status: "offline"},
			}},
		}, nil)
		gt.Error(t, err).Is(model.ErrCatalogIntegrity)
	})

	t.Run("duplicate practice ID", func(t *testing.T) {
		_, err := model.NewCatalog(nil, nil, []*model.BestPractice{{ID: "bp-1"}, {ID: "bp-1"}})
		gt.Error(t, err).Is(model.ErrCatalogIntegrity)
	})
}

func TestCatalog_ReturnsCopies(t *testing.T) {
	c, err := model.NewCatalog([]*model.Risk{newRisk("storage-1", "network-1"), newRisk("network-1")}, nil, nil)
	gt.NoError(t, err).Required()

	risks := c.Risks()
	risks[0].Dependencies[0] = "tampered"
	risks[0].Name = "tampered"

	again, ok := c.Risk("storage-1")
	gt.Bool(t, ok).True()
	gt.Value(t, again.Dependencies[0]).Equal(types.RiskID("network-1"))
	gt.Value(t, again.Name).Equal("Risk storage-1")

	again.Dependencies = append(again.Dependencies, "extra")
	third, _ := c.Risk("storage-1")
	gt.A(t, third.Dependencies).Length(1)
}

func TestCatalog_InputIsCopied(t *testing.T) {
	r := newRisk("gpu-1")
	c, err := model.NewCatalog([]*model.Risk{r}, nil, nil)
	gt.NoError(t, err).Required()

	r.Name = "changed after load"
	got, _ := c.Risk("gpu-1")
	gt.Value(t, got.Name).Equal("Risk gpu-1")
}

func TestCatalog_DanglingReferences(t *testing.T) {
	risk := newRisk("gpu-1", "power-1", "missing-1")
	risk.Interconnections = []types.RiskID{"missing-2"}
	c, err := model.NewCatalog(
		[]*model.Risk{risk, newRisk("power-1")},
		nil,
		[]*model.BestPractice{{ID: "bp-1", RelatedRisks: []types.RiskID{"gpu-1", "missing-3"}}},
	)
	gt.NoError(t, err).Required()

	refs := c.DanglingReferences()
	gt.A(t, refs).Length(3)
	gt.Value(t, refs[0]).Equal(model.DanglingReference{Owner: "gpu-1", Field: model.ReferenceDependencies, Target: "missing-1"})
	gt.Value(t, refs[1]).Equal(model.DanglingReference{Owner: "gpu-1", Field: model.ReferenceInterconnections, Target: "missing-2"})
	gt.Value(t, refs[2]).Equal(model.DanglingReference{Owner: "bp-1", Field: model.ReferenceRelatedRisks, Target: "missing-3"})
}

func TestCatalog_Lookups(t *testing.T) {
	c, err := model.NewCatalog(
		[]*model.Risk{newRisk("gpu-1")},
		[]*model.MonitoringTool{{ID: "dcgm", Name: "NVIDIA DCGM", Status: types.ToolStatusHealthy}},
		[]*model.BestPractice{{ID: "bp-1", Title: "GPU health"}},
	)
	gt.NoError(t, err).Required()

	_, ok := c.Risk("nope")
	gt.Bool(t, ok).False()
	gt.Bool(t, c.HasRisk("gpu-1")).True()

	tool, ok := c.MonitoringTool("dcgm")
	gt.Bool(t, ok).True()
	gt.Value(t, tool.Name).Equal("NVIDIA DCGM")

	bp, ok := c.BestPractice("bp-1")
	gt.Bool(t, ok).True()
	gt.Value(t, bp.Title).Equal("GPU health")
	gt.Value(t, c.BestPracticeCount()).Equal(1)
}

package usecase_test

import (
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/dcrisk/pkg/domain/model"
	"github.com/secmon-lab/dcrisk/pkg/domain/types"
)

func newRisk(id string, category types.CategoryID, severity types.Severity, likelihood, impact int) *model.Risk {
	return &model.Risk{
		ID:          types.RiskID(id),
		Name:        "Risk " + id,
		Description: "Description of " + id,
		Category:    category,
		Type:        types.RiskTypeTechnical,
		Severity:    severity,
		Likelihood:  likelihood,
		ImpactScore: impact,
		Trend:       types.TrendStable,
	}
}

// newTestCatalog builds a small catalog shaped like the default data set
func newTestCatalog(t *testing.T) *model.Catalog {
	t.Helper()

	gpu := newRisk("gpu-1", types.CategoryGPUHardware, types.SeverityCritical, 7, 8)
	gpu.Dependencies = []types.RiskID{"power-1", "software-1"}
	gpu.Interconnections = []types.RiskID{"power-1", "network-1"}
	gpu.MonitoringTools = []string{"DCGM", "nvidia-smi"}

	network := newRisk("network-1", types.CategoryNetworkDPU, types.SeverityHigh, 6, 7)
	network.Interconnections = []types.RiskID{"storage-1"}
	network.MonitoringTools = []string{"UFM Telemetry"}

	software := newRisk("software-1", types.CategorySoftware, types.SeverityMedium, 5, 6)
	software.Dependencies = []types.RiskID{"gone-1"}

	power := newRisk("power-1", types.CategoryPowerCooling, types.SeverityCritical, 3, 9)

	storage := newRisk("storage-1", types.CategoryStorageIO, types.SeverityHigh, 4, 4)
	storage.Dependencies = []types.RiskID{"network-1", "network-1"}

	business := newRisk("business-1", types.CategoryCompliance, types.SeverityHigh, 6, 5)
	business.Type = types.RiskTypeBusiness
	business.Interconnections = []types.RiskID{"gpu-1", "network-1", "power-1", "storage-1"}

	ops := newRisk("ops-1", types.CategoryID("ai-operations"), types.SeverityLow, 2, 2)
	ops.Type = types.RiskTypeOperational
	ops.Dependencies = []types.RiskID{"gpu-1"}

	tools := []*model.MonitoringTool{
		{ID: "dcgm", Name: "NVIDIA DCGM", Status: types.ToolStatusHealthy, AlertCount: 2},
		{ID: "ufm", Name: "UFM Telemetry", Status: types.ToolStatusWarning, AlertCount: 5},
	}

	practices := []*model.BestPractice{
		{
			ID:           "bp-1",
			Title:        "GPU Health Monitoring",
			Description:  "Continuous DCGM health checks",
			Category:     types.CategoryGPUHardware,
			RelatedRisks: []types.RiskID{"gpu-1", "missing-9"},
		},
		{
			ID:           "bp-2",
			Title:        "Fabric Redundancy",
			Description:  "Dual-rail InfiniBand",
			Category:     types.CategoryNetworkDPU,
			RelatedRisks: []types.RiskID{"network-1", "storage-1"},
		},
		{
			ID:          "bp-3",
			Title:       "Power Capping",
			Description: "Limit rack draw",
			Category:    types.CategoryPowerCooling,
		},
	}

	catalog, err := model.NewCatalog(
		[]*model.Risk{gpu, network, software, power, storage, business, ops},
		tools,
		practices,
	)
	gt.NoError(t, err).Required()
	return catalog
}

func riskIDs(risks []*model.Risk) []types.RiskID {
	ids := make([]types.RiskID, len(risks))
	for i, r := range risks {
		ids[i] = r.ID
	}
	return ids
}

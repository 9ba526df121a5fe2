package usecase_test

import (
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/dcrisk/pkg/domain/model"
	"github.com/secmon-lab/dcrisk/pkg/domain/types"
	"github.com/secmon-lab/dcrisk/pkg/usecase"
)

func TestCategoryInfoOf(t *testing.T) {
	testCases := []struct {
		category types.CategoryID
		label    string
		icon     string
		color    string
	}{
		{types.CategoryGPUHardware, "GPU Hardware", "Cpu", "text-accent"},
		{types.CategoryNetworkDPU, "Network & DPU", "Network", "text-primary"},
		{types.CategoryNVLink, "NVLink/NVSwitch", "LinkSimple", "text-accent"},
		{types.CategorySoftware, "Software & Orchestration", "Code", "text-primary"},
		{types.CategoryPowerCooling, "Power & Cooling", "Lightning", "text-destructive"},
		{types.CategoryStorageIO, "Storage & I/O", "Database", "text-primary"},
		{types.CategorySecurity, "Security", "ShieldCheck", "text-warning"},
		{types.CategoryCompliance, "Compliance", "CheckCircle", "text-muted-foreground"},
		{types.CategoryAIOperations, "AI Operations", "Brain", "text-accent"},
	}

	for _, tc := range testCases {
		t.Run(tc.category.String(), func(t *testing.T) {
			info := usecase.CategoryInfoOf(tc.category)
			gt.Value(t, info.ID).Equal(tc.category)
			gt.Value(t, info.Label).Equal(tc.label)
			gt.Value(t, info.Icon).Equal(tc.icon)
			gt.Value(t, info.Color).Equal(tc.color)
			gt.Bool(t, info.Fallback).False()
		})
	}

	t.Run("unknown category falls back to its raw id", func(t *testing.T) {
		info := usecase.CategoryInfoOf("nonexistent-category")
		gt.Value(t, info.Label).Equal("nonexistent-category")
		gt.Value(t, info.Icon).Equal("Cube")
		gt.Value(t, info.Color).Equal("text-foreground")
		gt.Bool(t, info.Fallback).True()
	})

	t.Run("empty category does not panic", func(t *testing.T) {
		info := usecase.CategoryInfoOf("")
		gt.Value(t, info.Label).Equal("")
		gt.Bool(t, info.Fallback).True()
	})
}

func TestSeverityColor(t *testing.T) {
	testCases := map[types.Severity]string{
		types.SeverityCritical: "bg-destructive text-destructive-foreground",
		types.SeverityHigh:     "bg-warning text-warning-foreground",
		types.SeverityMedium:   "bg-accent text-accent-foreground",
		types.SeverityLow:      "bg-muted text-muted-foreground",
		types.Severity("huge"): "bg-muted text-muted-foreground",
		types.Severity(""):     "bg-muted text-muted-foreground",
	}

	for severity, expected := range testCases {
		gt.Value(t, usecase.SeverityColor(severity)).Equal(expected)
	}
}

func TestQuadrantOf(t *testing.T) {
	testCases := []struct {
		name       string
		likelihood int
		impact     int
		expected   types.QuadrantName
	}{
		{"gpu-1 sits in critical action", 7, 8, types.QuadrantCriticalAction},
		{"origin", 0, 0, types.QuadrantLowPriority},
		{"upper bound of low", 5, 5, types.QuadrantLowPriority},
		{"likely but mild", 6, 5, types.QuadrantMonitor},
		{"unlikely but severe", 5, 6, types.QuadrantAttentionRequired},
		{"maximum", 10, 10, types.QuadrantCriticalAction},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			q, err := usecase.QuadrantOf(&model.Risk{ID: "r", Likelihood: tc.likelihood, ImpactScore: tc.impact})
			gt.NoError(t, err).Required()
			gt.Value(t, q.Name).Equal(tc.expected)
		})
	}

	t.Run("out of range is an error", func(t *testing.T) {
		for _, r := range []*model.Risk{
			{ID: "a", Likelihood: 11, ImpactScore: 3},
			{ID: "b", Likelihood: 3, ImpactScore: -1},
		} {
			_, err := usecase.QuadrantOf(r)
			gt.Error(t, err).Is(model.ErrOutOfRange)
		}
	})
}

func TestClassify(t *testing.T) {
	risk := &model.Risk{
		ID:          "gpu-1",
		Category:    types.CategoryGPUHardware,
		Severity:    types.SeverityCritical,
		Likelihood:  7,
		ImpactScore: 8,
	}

	c, err := usecase.Classify(risk)
	gt.NoError(t, err).Required()
	gt.Value(t, c.Category.Label).Equal("GPU Hardware")
	gt.Value(t, c.SeverityColor).Equal("bg-destructive text-destructive-foreground")
	gt.Value(t, c.Quadrant).Equal(types.QuadrantCriticalAction)
}

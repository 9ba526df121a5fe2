package config_test

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/pelletier/go-toml/v2"
	"github.com/santhosh-tekuri/jsonschema/v5"
	"github.com/secmon-lab/dcrisk/pkg/cli/config"
	"github.com/secmon-lab/dcrisk/pkg/domain/model"
	"github.com/secmon-lab/dcrisk/pkg/domain/types"
	"github.com/secmon-lab/dcrisk/pkg/usecase"
)

const minimalTOML = `
version = "1.0.0"

[[risk]]
id = "gpu-1"
name = "GPU Hardware Failures"
category = "gpu-hardware"
type = "technical"
severity = "high"
likelihood = 7
impact_score = 8
dependencies = ["power-1"]
trend = "stable"

[[monitoring_tool]]
id = "dcgm"
name = "NVIDIA DCGM"
status = "healthy"

  [[monitoring_tool.metric]]
  label = "Avg Temperature"
  value = 68
  unit = "°C"
  trend = -2

  [[monitoring_tool.metric]]
  label = "GPU Health"
  value = "Healthy"
  status = "healthy"

[[best_practice]]
id = "bp-1"
title = "GPU Health Monitoring"
category = "gpu-hardware"
related_risks = ["gpu-1"]
`

const minimalJSON = `{
  "version": "1.4.2",
  "risks": [
    {
      "id": "network-1",
      "name": "DPU and Network Failures",
      "category": "network-dpu",
      "type": "technical",
      "severity": "critical",
      "likelihood": 5,
      "impactScore": 9,
      "interconnections": ["storage-1"],
      "trend": "decreasing"
    },
    {
      "id": "storage-1",
      "name": "Storage Degradation",
      "category": "storage-io",
      "type": "technical",
      "severity": "medium",
      "likelihood": 7,
      "impactScore": 5,
      "dependencies": ["network-1"],
      "trend": "stable"
    }
  ],
  "monitoringTools": [
    {
      "id": "ufm",
      "name": "NVIDIA UFM",
      "status": "warning",
      "alertCount": 2,
      "metrics": [
        {"label": "Packet Loss", "value": 0.02, "unit": "%", "status": "healthy"},
        {"label": "Active Links", "value": "512/520", "status": "warning"}
      ]
    }
  ],
  "bestPractices": []
}`

func TestDefaultCatalog(t *testing.T) {
	ctx := context.Background()
	catalog, err := config.DefaultCatalog(ctx)
	gt.NoError(t, err).Required()

	gt.Number(t, catalog.RiskCount()).Equal(10)
	gt.A(t, catalog.MonitoringTools()).Length(4)
	gt.Number(t, catalog.BestPracticeCount()).Equal(5)
	gt.Value(t, catalog.Version()).Equal("1.2.0")
	gt.A(t, catalog.DanglingReferences()).Length(0)

	uc := usecase.NewCatalogUseCase(catalog)

	t.Run("gpu-1 needs critical action", func(t *testing.T) {
		risk, ok := catalog.Risk("gpu-1")
		gt.Bool(t, ok).True()
		q, err := usecase.QuadrantOf(risk)
		gt.NoError(t, err).Required()
		gt.Value(t, q.Name).Equal(types.QuadrantCriticalAction)
	})

	t.Run("storage-1 is a dependent of network-1", func(t *testing.T) {
		dependents, err := uc.DependentsOf("network-1")
		gt.NoError(t, err).Required()
		found := false
		for _, r := range dependents {
			if r.ID == "storage-1" {
				found = true
			}
		}
		gt.Bool(t, found).True()
	})

	t.Run("business-1 is the only highly connected risk", func(t *testing.T) {
		risks := uc.HighConnectivityRisks(3, 6)
		gt.A(t, risks).Length(1).Required()
		gt.Value(t, risks[0].ID).Equal(types.RiskID("business-1"))
	})

	t.Run("metrics keep numbers and text apart", func(t *testing.T) {
		tool, ok := catalog.MonitoringTool("dcgm")
		gt.Bool(t, ok).True()
		gt.A(t, tool.Metrics).Length(5).Required()
		gt.Bool(t, tool.Metrics[0].Value.IsNumber()).False()
		gt.Value(t, tool.Metrics[0].Value.String()).Equal("Healthy")
		gt.Bool(t, tool.Metrics[1].Value.IsNumber()).True()
		gt.Value(t, tool.Metrics[1].Value.Number()).Equal(68.0)
		gt.Value(t, *tool.Metrics[1].Trend).Equal(-2.0)
	})
}

func TestParseCatalog(t *testing.T) {
	ctx := context.Background()

	t.Run("TOML", func(t *testing.T) {
		catalog, err := config.ParseCatalog(ctx, []byte(minimalTOML), config.CatalogFormatTOML, "test")
		gt.NoError(t, err).Required()
		gt.Number(t, catalog.RiskCount()).Equal(1)

		// power-1 is not defined
		refs := catalog.DanglingReferences()
		gt.A(t, refs).Length(1).Required()
		gt.Value(t, refs[0].Target).Equal(types.RiskID("power-1"))
		gt.Value(t, refs[0].Field).Equal(model.ReferenceDependencies)
	})

	t.Run("JSON", func(t *testing.T) {
		catalog, err := config.ParseCatalog(ctx, []byte(minimalJSON), config.CatalogFormatJSON, "test")
		gt.NoError(t, err).Required()
		gt.Number(t, catalog.RiskCount()).Equal(2)

		tool, ok := catalog.MonitoringTool("ufm")
		gt.Bool(t, ok).True()
		gt.Value(t, tool.Metrics[0].Value.Number()).Equal(0.02)
		gt.Value(t, tool.Metrics[1].Value.String()).Equal("512/520")
	})

	t.Run("unknown TOML key is rejected", func(t *testing.T) {
		data := minimalTOML + "\n[[risk]]\nid = \"x-1\"\nowner = \"nobody\"\n"
		_, err := config.ParseCatalog(ctx, []byte(data), config.CatalogFormatTOML, "test")
		gt.Error(t, err).Is(config.ErrInvalidCatalog)

		var strictErr *toml.StrictMissingError
		gt.Bool(t, errors.As(err, &strictErr)).True()
	})

	t.Run("JSON schema violation is rejected", func(t *testing.T) {
		data := `{"version": "1.0.0", "risks": [{"id": "a-1", "name": "A", "category": "software",
			"type": "technical", "severity": "low", "likelihood": 11, "impactScore": 1, "trend": "stable"}]}`
		_, err := config.ParseCatalog(ctx, []byte(data), config.CatalogFormatJSON, "test")
		gt.Error(t, err).Is(config.ErrInvalidCatalog)

		var validationErr *jsonschema.ValidationError
		gt.Bool(t, errors.As(err, &validationErr)).True()
	})

	t.Run("malformed JSON keeps the syntax error", func(t *testing.T) {
		_, err := config.ParseCatalog(ctx, []byte(`{"version": `), config.CatalogFormatJSON, "test")
		gt.Error(t, err).Is(config.ErrInvalidCatalog)

		var syntaxErr *json.SyntaxError
		gt.Bool(t, errors.As(err, &syntaxErr)).True()
	})

	t.Run("unsupported versions", func(t *testing.T) {
		for _, version := range []string{"2.0.0", "0.9.1", "latest", ""} {
			data := `version = "` + version + `"`
			_, err := config.ParseCatalog(ctx, []byte(data), config.CatalogFormatTOML, "test")
			gt.Error(t, err).Is(config.ErrUnsupportedCatalogVersion)
		}
	})

	t.Run("integrity violations", func(t *testing.T) {
		testCases := map[string]string{
			"duplicate id": `version = "1.0.0"
[[risk]]
id = "a-1"
type = "technical"
trend = "stable"
[[risk]]
id = "a-1"
type = "technical"
trend = "stable"
`,
			"score out of range": `version = "1.0.0"
[[risk]]
id = "a-1"
type = "technical"
trend = "stable"
likelihood = 12
`,
			"unknown type": `version = "1.0.0"
[[risk]]
id = "a-1"
type = "political"
trend = "stable"
`,
			"unknown tool status": `version = "1.0.0"
[[monitoring_tool]]
id = "t-1"
status = "sleepy"
`,
		}

		for name, data := range testCases {
			t.Run(name, func(t *testing.T) {
				_, err := config.ParseCatalog(ctx, []byte(data), config.CatalogFormatTOML, "test")
				gt.Error(t, err).Is(model.ErrCatalogIntegrity)
			})
		}
	})

	t.Run("metric without value", func(t *testing.T) {
		data := `version = "1.0.0"
[[monitoring_tool]]
id = "t-1"
status = "healthy"
  [[monitoring_tool.metric]]
  label = "empty"
`
		_, err := config.ParseCatalog(ctx, []byte(data), config.CatalogFormatTOML, "test")
		gt.Error(t, err).Is(config.ErrInvalidMetricValue)
	})

	t.Run("unknown category and severity only warn", func(t *testing.T) {
		data := `version = "1.0.0"
[[risk]]
id = "q-1"
category = "quantum"
severity = "apocalyptic"
type = "technical"
trend = "stable"
`
		catalog, err := config.ParseCatalog(ctx, []byte(data), config.CatalogFormatTOML, "test")
		gt.NoError(t, err).Required()
		risk, ok := catalog.Risk("q-1")
		gt.Bool(t, ok).True()
		gt.Value(t, usecase.CategoryInfoOf(risk.Category).Label).Equal("quantum")
	})
}

func TestLoadCatalogFile(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	t.Run("by extension", func(t *testing.T) {
		tomlPath := filepath.Join(dir, "catalog.toml")
		gt.NoError(t, os.WriteFile(tomlPath, []byte(minimalTOML), 0600)).Required()
		catalog, err := config.LoadCatalogFile(ctx, tomlPath)
		gt.NoError(t, err).Required()
		gt.Number(t, catalog.RiskCount()).Equal(1)

		jsonPath := filepath.Join(dir, "catalog.JSON")
		gt.NoError(t, os.WriteFile(jsonPath, []byte(minimalJSON), 0600)).Required()
		catalog, err = config.LoadCatalogFile(ctx, jsonPath)
		gt.NoError(t, err).Required()
		gt.Number(t, catalog.RiskCount()).Equal(2)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := config.LoadCatalogFile(ctx, filepath.Join(dir, "nope.toml"))
		gt.Error(t, err).Is(config.ErrCatalogNotFound)
	})
}

func TestDefaultCatalogData(t *testing.T) {
	data := config.DefaultCatalogData()
	gt.Bool(t, len(data) > 0).True()

	// the copy is independent of the embedded bytes
	data[0] = '!'
	_, err := config.DefaultCatalog(context.Background())
	gt.NoError(t, err)
}

func TestFormatOf(t *testing.T) {
	gt.Value(t, config.FormatOf("a/b/catalog.json")).Equal(config.CatalogFormatJSON)
	gt.Value(t, config.FormatOf("catalog.toml")).Equal(config.CatalogFormatTOML)
	gt.Value(t, config.FormatOf("catalog")).Equal(config.CatalogFormatTOML)
}

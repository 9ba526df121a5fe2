package cli_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/dcrisk/pkg/cli"
	"github.com/secmon-lab/dcrisk/pkg/cli/config"
)

const minimalCatalog = `
version = "1.0.0"

[[risk]]
id = "gpu-1"
name = "GPU Thermal Throttling"
category = "gpu-hardware"
type = "technical"
severity = "critical"
likelihood = 7
impact_score = 8
trend = "increasing"
dependencies = ["power-1"]

[[risk]]
id = "power-1"
name = "Power Delivery Failure"
category = "power-cooling"
type = "technical"
severity = "high"
likelihood = 3
impact_score = 9
trend = "stable"
`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	gt.NoError(t, os.WriteFile(path, []byte(content), 0o600)).Required()
	return path
}

func TestRun_ValidateCommand_BuiltIn(t *testing.T) {
	err := cli.Run(context.Background(), []string{"dcrisk", "validate"}, "test")
	gt.NoError(t, err)
}

func TestRun_ValidateCommand_Files(t *testing.T) {
	valid := writeFile(t, "valid.toml", minimalCatalog)
	builtIn := writeFile(t, "default.toml", string(config.DefaultCatalogData()))

	t.Run("all valid", func(t *testing.T) {
		err := cli.Run(context.Background(), []string{"dcrisk", "validate", valid, builtIn}, "test")
		gt.NoError(t, err)
	})

	t.Run("one invalid fails the run", func(t *testing.T) {
		invalid := writeFile(t, "invalid.toml", `
version = "1.0.0"

[[risk]]
id = "gpu-1"
name = "GPU"
category = "gpu-hardware"
type = "technical"
severity = "critical"
likelihood = 11
impact_score = 8
trend = "stable"
`)
		err := cli.Run(context.Background(), []string{"dcrisk", "validate", valid, invalid}, "test")
		gt.Value(t, err).NotNil()
	})

	t.Run("missing file", func(t *testing.T) {
		missing := filepath.Join(t.TempDir(), "nonexistent.toml")
		err := cli.Run(context.Background(), []string{"dcrisk", "validate", missing}, "test")
		gt.Value(t, err).NotNil()
	})

	t.Run("unsupported version", func(t *testing.T) {
		future := writeFile(t, "future.toml", `version = "2.0.0"`)
		err := cli.Run(context.Background(), []string{"dcrisk", "validate", future}, "test")
		gt.Value(t, err).NotNil()
	})
}

func TestRun_ValidateCommand_CatalogFlag(t *testing.T) {
	valid := writeFile(t, "valid.toml", minimalCatalog)
	err := cli.Run(context.Background(), []string{"dcrisk", "validate", "--catalog", valid}, "test")
	gt.NoError(t, err)
}

func TestRun_ShowCommand(t *testing.T) {
	err := cli.Run(context.Background(), []string{"dcrisk", "show", "--no-color"}, "test")
	gt.NoError(t, err)
}

func TestRun_PracticeCommands(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "prefs.db")
	repoArgs := []string{"--repository-backend", "sqlite", "--sqlite-path", dbPath, "--user", "alice"}

	run := func(args ...string) error {
		return cli.Run(context.Background(), append([]string{"dcrisk", "practice"}, args...), "test")
	}

	gt.NoError(t, run(append([]string{"toggle"}, append(repoArgs, "bp-1")...)...))
	gt.NoError(t, run(append([]string{"list"}, repoArgs...)...))

	t.Run("unknown practice", func(t *testing.T) {
		gt.Value(t, run(append([]string{"toggle"}, append(repoArgs, "bp-404")...)...)).NotNil()
	})

	t.Run("user is required", func(t *testing.T) {
		gt.Value(t, run("list", "--repository-backend", "sqlite", "--sqlite-path", dbPath)).NotNil()
	})
}

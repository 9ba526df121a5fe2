package config

import (
	"bytes"
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/Masterminds/semver/v3"
	"github.com/m-mizutani/goerr/v2"
	"github.com/pelletier/go-toml/v2"
	"github.com/santhosh-tekuri/jsonschema/v5"
	"github.com/secmon-lab/dcrisk/pkg/domain/model"
	"github.com/secmon-lab/dcrisk/pkg/domain/types"
	"github.com/secmon-lab/dcrisk/pkg/service/storage"
	"github.com/secmon-lab/dcrisk/pkg/utils/logging"
	"github.com/secmon-lab/dcrisk/pkg/utils/safe"
	"github.com/urfave/cli/v3"
)

//go:embed catalog/default.toml
var defaultCatalog []byte

//go:embed catalog/schema.json
var catalogSchema []byte

const catalogSchemaURL = "https://dcrisk.secmon-lab.dev/schema/catalog.json"

// SupportedCatalogVersions is the semver range of catalog definitions this build understands
const SupportedCatalogVersions = ">= 1.0.0, < 2.0.0"

// CatalogFormat is the encoding of a catalog definition
type CatalogFormat string

const (
	CatalogFormatTOML CatalogFormat = "toml"
	CatalogFormatJSON CatalogFormat = "json"
)

// FormatOf picks the format from a path or object name. Anything but .json is TOML.
func FormatOf(path string) CatalogFormat {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return CatalogFormatJSON
	}
	return CatalogFormatTOML
}

// Catalog holds CLI flags for the catalog source
type Catalog struct {
	source          string
	storageEndpoint string
}

func (x *Catalog) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "catalog",
			Aliases:     []string{"c"},
			Usage:       "Catalog definition (local path or gs://bucket/object). The built-in catalog is used when empty",
			Category:    "Catalog",
			Sources:     cli.EnvVars("DCRISK_CATALOG"),
			Destination: &x.source,
		},
		&cli.StringFlag{
			Name:        "storage-endpoint",
			Usage:       "Cloud Storage endpoint override, for emulators",
			Category:    "Catalog",
			Sources:     cli.EnvVars("DCRISK_STORAGE_ENDPOINT"),
			Destination: &x.storageEndpoint,
		},
	}
}

func (x Catalog) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("source", x.source),
		slog.String("storage-endpoint", x.storageEndpoint),
	)
}

// Source returns the configured source, empty for the built-in catalog
func (x *Catalog) Source() string {
	return x.source
}

// Configure loads and validates the configured catalog
func (x *Catalog) Configure(ctx context.Context) (*model.Catalog, error) {
	switch {
	case x.source == "":
		logging.From(ctx).Info("Using built-in catalog")
		return DefaultCatalog(ctx)

	case storage.IsURL(x.source):
		return x.loadFromStorage(ctx)

	default:
		return LoadCatalogFile(ctx, x.source)
	}
}

func (x *Catalog) loadFromStorage(ctx context.Context) (*model.Catalog, error) {
	obj, err := storage.ParseURL(x.source)
	if err != nil {
		return nil, goerr.Wrap(err, "invalid catalog source", goerr.V(CatalogSourceKey, x.source))
	}

	var opts []storage.Option
	if x.storageEndpoint != "" {
		opts = append(opts, storage.WithEndpoint(x.storageEndpoint))
	}
	client, err := storage.New(ctx, opts...)
	if err != nil {
		return nil, err
	}
	defer safe.Close(ctx, client)

	data, err := client.Read(ctx, obj)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to fetch catalog", goerr.V(CatalogSourceKey, x.source))
	}
	return ParseCatalog(ctx, data, FormatOf(obj.Name), x.source)
}

// DefaultCatalog parses the catalog bundled with the binary
func DefaultCatalog(ctx context.Context) (*model.Catalog, error) {
	return ParseCatalog(ctx, defaultCatalog, CatalogFormatTOML, "built-in")
}

// DefaultCatalogData returns the bundled TOML definition
func DefaultCatalogData() []byte {
	return bytes.Clone(defaultCatalog)
}

// LoadCatalogFile loads a catalog from a local file
func LoadCatalogFile(ctx context.Context, path string) (*model.Catalog, error) {
	// #nosec G304 - path is expected to be provided by CLI argument
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, goerr.Wrap(ErrCatalogNotFound, "catalog file does not exist", goerr.V(CatalogSourceKey, path))
		}
		return nil, goerr.Wrap(err, "failed to open catalog file", goerr.V(CatalogSourceKey, path))
	}
	defer safe.Close(ctx, f)

	data, err := safe.ReadAll(f, storage.MaxObjectSize)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read catalog file", goerr.V(CatalogSourceKey, path))
	}
	return ParseCatalog(ctx, data, FormatOf(path), path)
}

// ParseCatalog decodes, checks and builds a catalog. Dangling cross references are logged as
// warnings; everything else that is wrong is an error.
func ParseCatalog(ctx context.Context, data []byte, format CatalogFormat, source string) (*model.Catalog, error) {
	doc, err := decodeCatalog(data, format)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to decode catalog",
			goerr.V(CatalogSourceKey, source), goerr.V(CatalogFormatKey, format))
	}

	if err := checkCatalogVersion(doc.Version); err != nil {
		return nil, goerr.Wrap(err, "catalog version check failed", goerr.V(CatalogSourceKey, source))
	}

	catalog, err := doc.ToDomain()
	if err != nil {
		return nil, goerr.Wrap(err, "catalog integrity check failed", goerr.V(CatalogSourceKey, source))
	}

	logger := logging.From(ctx)
	for _, ref := range catalog.DanglingReferences() {
		logger.Warn("dangling risk reference",
			"source", source,
			"owner", ref.Owner,
			"field", ref.Field,
			"target", ref.Target,
		)
	}
	for _, r := range catalog.Risks() {
		if !r.Category.IsKnown() {
			logger.Warn("unknown risk category, using fallback display", "risk_id", r.ID, "category", r.Category)
		}
		if !r.Severity.IsValid() {
			logger.Warn("unknown risk severity, using fallback display", "risk_id", r.ID, "severity", r.Severity)
		}
	}

	logger.Debug("catalog loaded",
		"source", source,
		"version", catalog.Version(),
		"risks", catalog.RiskCount(),
		"monitoring_tools", len(catalog.MonitoringTools()),
		"best_practices", catalog.BestPracticeCount(),
	)
	return catalog, nil
}

func decodeCatalog(data []byte, format CatalogFormat) (*CatalogDocument, error) {
	var doc CatalogDocument

	switch format {
	case CatalogFormatTOML:
		if err := toml.NewDecoder(bytes.NewReader(data)).DisallowUnknownFields().Decode(&doc); err != nil {
			return nil, goerr.Wrap(errors.Join(ErrInvalidCatalog, err), "malformed TOML")
		}

	case CatalogFormatJSON:
		if err := validateCatalogSchema(data); err != nil {
			return nil, err
		}
		decoder := json.NewDecoder(bytes.NewReader(data))
		decoder.DisallowUnknownFields()
		if err := decoder.Decode(&doc); err != nil {
			return nil, goerr.Wrap(errors.Join(ErrInvalidCatalog, err), "malformed JSON")
		}

	default:
		return nil, goerr.Wrap(ErrInvalidCatalog, "unknown catalog format", goerr.V(CatalogFormatKey, format))
	}

	return &doc, nil
}

var compileCatalogSchema = sync.OnceValues(func() (*jsonschema.Schema, error) {
	c := jsonschema.NewCompiler()
	c.Draft = jsonschema.Draft2020
	if err := c.AddResource(catalogSchemaURL, bytes.NewReader(catalogSchema)); err != nil {
		return nil, goerr.Wrap(err, "failed to add catalog schema")
	}
	schema, err := c.Compile(catalogSchemaURL)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to compile catalog schema")
	}
	return schema, nil
})

func validateCatalogSchema(data []byte) error {
	schema, err := compileCatalogSchema()
	if err != nil {
		return err
	}

	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return goerr.Wrap(errors.Join(ErrInvalidCatalog, err), "malformed JSON")
	}
	if err := schema.Validate(v); err != nil {
		return goerr.Wrap(errors.Join(ErrInvalidCatalog, err), "catalog does not match schema")
	}
	return nil
}

func checkCatalogVersion(version string) error {
	if version == "" {
		return goerr.Wrap(ErrUnsupportedCatalogVersion, "catalog version is required")
	}

	v, err := semver.NewVersion(version)
	if err != nil {
		return goerr.Wrap(ErrUnsupportedCatalogVersion, "catalog version is not semver",
			goerr.V(CatalogVersionKey, version))
	}

	constraint, err := semver.NewConstraint(SupportedCatalogVersions)
	if err != nil {
		return goerr.Wrap(err, "invalid supported version constraint")
	}
	if !constraint.Check(v) {
		return goerr.Wrap(ErrUnsupportedCatalogVersion, "catalog version is not supported",
			goerr.V(CatalogVersionKey, version),
			goerr.V("supported", SupportedCatalogVersions))
	}
	return nil
}

// CatalogDocument is the on-disk catalog definition
type CatalogDocument struct {
	Version         string                   `toml:"version" json:"version"`
	Risks           []RiskDocument           `toml:"risk" json:"risks"`
	MonitoringTools []MonitoringToolDocument `toml:"monitoring_tool" json:"monitoringTools"`
	BestPractices   []BestPracticeDocument   `toml:"best_practice" json:"bestPractices"`
}

type RiskDocument struct {
	ID               string   `toml:"id" json:"id"`
	Name             string   `toml:"name" json:"name"`
	Description      string   `toml:"description" json:"description"`
	Impact           string   `toml:"impact" json:"impact"`
	Category         string   `toml:"category" json:"category"`
	Type             string   `toml:"type" json:"type"`
	Severity         string   `toml:"severity" json:"severity"`
	Likelihood       int      `toml:"likelihood" json:"likelihood"`
	ImpactScore      int      `toml:"impact_score" json:"impactScore"`
	AffectedSystems  []string `toml:"affected_systems" json:"affectedSystems"`
	Dependencies     []string `toml:"dependencies" json:"dependencies"`
	Interconnections []string `toml:"interconnections" json:"interconnections"`
	Mitigation       []string `toml:"mitigation" json:"mitigation"`
	MonitoringTools  []string `toml:"monitoring_tools" json:"monitoringTools"`
	RecentIncidents  int      `toml:"recent_incidents" json:"recentIncidents"`
	Trend            string   `toml:"trend" json:"trend"`
}

type MonitoringToolDocument struct {
	ID          string           `toml:"id" json:"id"`
	Name        string           `toml:"name" json:"name"`
	Description string           `toml:"description" json:"description"`
	Status      string           `toml:"status" json:"status"`
	Metrics     []MetricDocument `toml:"metric" json:"metrics"`
	AlertCount  int              `toml:"alert_count" json:"alertCount"`
	LastCheck   string           `toml:"last_check" json:"lastCheck"`
}

type MetricDocument struct {
	Label string `toml:"label" json:"label"`
	// Value is a number or a string
	Value  any    `toml:"value" json:"value"`
	Unit   string `toml:"unit" json:"unit"`
	Status string `toml:"status" json:"status"`
	Trend  any    `toml:"trend" json:"trend"`
}

type BestPracticeDocument struct {
	ID           string   `toml:"id" json:"id"`
	Title        string   `toml:"title" json:"title"`
	Description  string   `toml:"description" json:"description"`
	Category     string   `toml:"category" json:"category"`
	Steps        []string `toml:"steps" json:"steps"`
	RelatedRisks []string `toml:"related_risks" json:"relatedRisks"`
	Implemented  bool     `toml:"implemented" json:"implemented"`
}

// ToDomain converts the document to a validated catalog
func (d *CatalogDocument) ToDomain() (*model.Catalog, error) {
	risks := make([]*model.Risk, len(d.Risks))
	for i, r := range d.Risks {
		risks[i] = &model.Risk{
			ID:               types.RiskID(r.ID),
			Name:             r.Name,
			Description:      r.Description,
			Impact:           r.Impact,
			Category:         types.CategoryID(r.Category),
			Type:             types.RiskType(r.Type),
			Severity:         types.Severity(r.Severity),
			Likelihood:       r.Likelihood,
			ImpactScore:      r.ImpactScore,
			AffectedSystems:  r.AffectedSystems,
			Dependencies:     toRiskIDs(r.Dependencies),
			Interconnections: toRiskIDs(r.Interconnections),
			Mitigation:       r.Mitigation,
			MonitoringTools:  r.MonitoringTools,
			RecentIncidents:  r.RecentIncidents,
			Trend:            types.Trend(r.Trend),
		}
	}

	tools := make([]*model.MonitoringTool, len(d.MonitoringTools))
	for i, t := range d.MonitoringTools {
		metrics := make([]model.Metric, len(t.Metrics))
		for j, m := range t.Metrics {
			metric, err := m.toDomain()
			if err != nil {
				return nil, goerr.Wrap(err, "invalid metric", goerr.V(model.ToolIDKey, t.ID))
			}
			metrics[j] = metric
		}
		tools[i] = &model.MonitoringTool{
			ID:          types.ToolID(t.ID),
			Name:        t.Name,
			Description: t.Description,
			Status:      types.ToolStatus(t.Status),
			Metrics:     metrics,
			AlertCount:  t.AlertCount,
			LastCheck:   t.LastCheck,
		}
	}

	practices := make([]*model.BestPractice, len(d.BestPractices))
	for i, p := range d.BestPractices {
		practices[i] = &model.BestPractice{
			ID:           types.PracticeID(p.ID),
			Title:        p.Title,
			Description:  p.Description,
			Category:     types.CategoryID(p.Category),
			Steps:        p.Steps,
			RelatedRisks: toRiskIDs(p.RelatedRisks),
			Implemented:  p.Implemented,
		}
	}

	return model.NewCatalog(risks, tools, practices, model.WithVersion(d.Version))
}

func (m MetricDocument) toDomain() (model.Metric, error) {
	metric := model.Metric{
		Label:  m.Label,
		Unit:   m.Unit,
		Status: types.MetricStatus(m.Status),
	}

	switch v := m.Value.(type) {
	case string:
		metric.Value = model.TextValue(v)
	default:
		n, ok := toFloat(v)
		if !ok {
			return model.Metric{}, goerr.Wrap(ErrInvalidMetricValue, "unsupported metric value",
				goerr.V("label", m.Label), goerr.V("value", m.Value))
		}
		metric.Value = model.NumberValue(n)
	}

	if m.Trend != nil {
		n, ok := toFloat(m.Trend)
		if !ok {
			return model.Metric{}, goerr.Wrap(ErrInvalidMetricValue, "metric trend must be a number",
				goerr.V("label", m.Label), goerr.V("trend", m.Trend))
		}
		metric.Trend = &n
	}
	return metric, nil
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int64:
		return float64(n), true
	case int:
		return float64(n), true
	case float64:
		return n, true
	default:
		return 0, false
	}
}

func toRiskIDs(ids []string) []types.RiskID {
	if ids == nil {
		return nil
	}
	out := make([]types.RiskID, len(ids))
	for i, id := range ids {
		out[i] = types.RiskID(id)
	}
	return out
}

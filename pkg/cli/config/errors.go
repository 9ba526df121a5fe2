package config

import "github.com/m-mizutani/goerr/v2"

// Sentinel errors for catalog loading
var (
	ErrCatalogNotFound           = goerr.New("catalog file not found")
	ErrInvalidCatalog            = goerr.New("invalid catalog definition")
	ErrUnsupportedCatalogVersion = goerr.New("unsupported catalog version")
	ErrInvalidMetricValue        = goerr.New("metric value must be a number or a string")
)

// Context keys for error values
const (
	CatalogSourceKey  = "catalog_source"
	CatalogVersionKey = "catalog_version"
	CatalogFormatKey  = "catalog_format"
)

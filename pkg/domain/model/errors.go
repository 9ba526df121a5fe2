package model

import "github.com/m-mizutani/goerr/v2"

// Catalog errors
var (
	// ErrCatalogIntegrity is fatal at load time: duplicate ids, out of range scores, or an
	// unrecognized value in a field that has no display fallback (type, status, trend).
	ErrCatalogIntegrity = goerr.New("catalog integrity violation")

	// ErrOutOfRange is returned when a likelihood or impact score is outside [0,10]
	ErrOutOfRange = goerr.New("score out of range")
)

// Context keys for error values
const (
	RiskIDKey     = "risk_id"
	ToolIDKey     = "tool_id"
	PracticeIDKey = "practice_id"
	FieldKey      = "field"
	ValueKey      = "value"
)

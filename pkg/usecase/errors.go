package usecase

import "errors"

// Sentinel errors for use case layer
var (
	// Not found errors
	ErrRiskNotFound     = errors.New("risk not found")
	ErrPracticeNotFound = errors.New("best practice not found")

	// ErrPersistFailed means a preference change is applied in memory but was not saved
	ErrPersistFailed = errors.New("failed to persist preference")
)

// Context keys for error values
const (
	RiskIDKey     = "risk_id"
	PracticeIDKey = "practice_id"
	UserIDKey     = "user_id"
)

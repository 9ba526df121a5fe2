package types

import "github.com/m-mizutani/goerr/v2"

const (
	// MinScore and MaxScore bound likelihood and impact scores
	MinScore = 0
	MaxScore = 10
)

// ValidateScore checks that v is within [MinScore, MaxScore]
func ValidateScore(v int) error {
	if v < MinScore || v > MaxScore {
		return goerr.New("score must be between 0 and 10", goerr.V("score", v))
	}
	return nil
}

package types

// QuadrantName is the display name of a risk matrix quadrant
type QuadrantName string

const (
	QuadrantLowPriority       QuadrantName = "Low Priority"
	QuadrantMonitor           QuadrantName = "Monitor"
	QuadrantAttentionRequired QuadrantName = "Attention Required"
	QuadrantCriticalAction    QuadrantName = "Critical Action"
)

func (n QuadrantName) String() string { return string(n) }

// ScoreRange is an inclusive integer range
type ScoreRange struct {
	Min int `json:"min"`
	Max int `json:"max"`
}

// Contains reports whether v lies in the inclusive range
func (r ScoreRange) Contains(v int) bool {
	return v >= r.Min && v <= r.Max
}

var (
	lowScores  = ScoreRange{Min: MinScore, Max: 5}
	highScores = ScoreRange{Min: 6, Max: MaxScore}
)

// Quadrant is one region of the likelihood x impact plane
type Quadrant struct {
	Name       QuadrantName `json:"name"`
	Likelihood ScoreRange   `json:"likelihood"`
	Impact     ScoreRange   `json:"impact"`
	Style      string       `json:"style"`
}

// Contains reports whether the (likelihood, impact) point lies in the quadrant
func (q Quadrant) Contains(likelihood, impact int) bool {
	return q.Likelihood.Contains(likelihood) && q.Impact.Contains(impact)
}

// AllQuadrants returns the four quadrants in matching order. The ranges partition
// [0,10]x[0,10] with no overlap, so the order only matters for display.
func AllQuadrants() []Quadrant {
	return []Quadrant{
		{Name: QuadrantLowPriority, Likelihood: lowScores, Impact: lowScores, Style: "bg-muted/30"},
		{Name: QuadrantMonitor, Likelihood: highScores, Impact: lowScores, Style: "bg-accent/20"},
		{Name: QuadrantAttentionRequired, Likelihood: lowScores, Impact: highScores, Style: "bg-warning/20"},
		{Name: QuadrantCriticalAction, Likelihood: highScores, Impact: highScores, Style: "bg-destructive/20"},
	}
}

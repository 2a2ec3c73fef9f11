package advisor

import "context"

// Input carries the scored snapshot of one student for narrative generation.
type Input struct {
	StudentID       string
	Department      string
	RiskLevel       string
	RiskPercentage  int
	Factors         []string
	Recommendations []string
}

// Narrative is the counselor-facing guidance text produced for a student.
type Narrative struct {
	Summary string                 `json:"summary"`
	Raw     map[string]interface{} `json:"raw,omitempty"`
}

// Advisor describes a model capable of turning a scored record into
// guidance prose.
type Advisor interface {
	Advise(ctx context.Context, input Input) (Narrative, error)
}

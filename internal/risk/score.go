// Package risk implements the deterministic dropout-risk heuristic: a
// weighted sum over normalized academic and socio-economic factors, the
// bucket classification derived from it, and the aggregate views built on
// both. Every function in this package is pure.
package risk

import (
	"math"

	"github.com/omnivion/omnivion-api/internal/models"
)

// Level is a discrete risk bucket.
type Level string

// Risk buckets in descending severity.
const (
	LevelHigh   Level = "high"
	LevelMedium Level = "medium"
	LevelLow    Level = "low"
)

// Factor weights. Listed in evaluation order; they sum to 1.0 when every
// factor is present.
const (
	weightCGPA        = 0.25
	weightAttendance  = 0.25
	weightIncome      = 0.15
	weightFailures    = 0.15
	weightStudyHours  = 0.10
	weightProjects    = 0.05
	weightAssignments = 0.03
	weightActivities  = 0.02
)

// Score computes the dropout-risk percentage for a student record as an
// integer in [0,100]. Each present factor contributes its clamped sub-risk
// times its weight; absent (nil) factors contribute nothing and the
// remaining weights are deliberately NOT renormalized, so sparse records
// score lower than fully-populated ones with the same values. That is a
// known modeling simplification inherited from the production heuristic and
// must be preserved.
func Score(s models.Student) int {
	total := 0.0

	if s.CGPA != nil {
		total += shortfall(*s.CGPA, 8.0) * weightCGPA
	}
	if s.AttendanceRate != nil {
		total += shortfall(*s.AttendanceRate, 85) * weightAttendance
	}
	if s.FamilyIncome != nil {
		total += shortfall(*s.FamilyIncome, 500000) * weightIncome
	}
	if s.PastFailures != nil {
		total += math.Min(100, *s.PastFailures*20) * weightFailures
	}
	if s.StudyHoursPerWeek != nil {
		total += shortfall(*s.StudyHoursPerWeek, 15) * weightStudyHours
	}
	if s.ProjectsCompleted != nil {
		total += shortfall(*s.ProjectsCompleted, 10) * weightProjects
	}
	if s.AssignmentsSubmitted != nil {
		total += shortfall(*s.AssignmentsSubmitted, 15) * weightAssignments
	}
	if s.TotalActivities != nil {
		total += shortfall(*s.TotalActivities, 5) * weightActivities
	}

	return int(math.Round(math.Min(100, math.Max(0, total))))
}

// shortfall maps how far value falls below target onto a 0-100 sub-risk.
// Values at or above target carry zero risk.
func shortfall(value, target float64) float64 {
	return math.Max(0, (target-value)/target) * 100
}

// Classify maps a risk percentage to its bucket. Boundary values belong to
// the higher bucket: 70 is high, 40 is medium.
func Classify(percentage int) Level {
	switch {
	case percentage >= 70:
		return LevelHigh
	case percentage >= 40:
		return LevelMedium
	default:
		return LevelLow
	}
}

// ClassifyProbability buckets a dropout probability in [0,1] using the same
// thresholds the external model service applies.
func ClassifyProbability(probability float64) Level {
	switch {
	case probability >= 0.7:
		return LevelHigh
	case probability >= 0.4:
		return LevelMedium
	default:
		return LevelLow
	}
}

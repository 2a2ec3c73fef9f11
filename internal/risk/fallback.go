package risk

import (
	"fmt"
	"math"

	"github.com/omnivion/omnivion-api/internal/models"
)

// ContributingFactor explains one driver behind a prediction.
type ContributingFactor struct {
	Factor      string  `json:"factor"`
	Weight      float64 `json:"weight"`
	Description string  `json:"description"`
}

// Recommendation is an advisory action attached to a prediction.
type Recommendation struct {
	Action      string `json:"action"`
	Priority    string `json:"priority"`
	Description string `json:"description"`
}

// Prediction is the outcome of the local rule-based fallback.
type Prediction struct {
	RiskLevel           Level                `json:"risk_level"`
	DropoutProbability  float64              `json:"dropout_probability"`
	ContributingFactors []ContributingFactor `json:"contributing_factors"`
	Recommendations     []Recommendation     `json:"recommendations"`
}

// Fallback produces a deterministic rule-based prediction for use when the
// external model service is unavailable. Each triggered rule adds a fixed
// probability increment; the sum is clamped to 1.0. Rules only fire on
// present values, so sparse records degrade toward low risk.
func Fallback(s models.Student) Prediction {
	probability := 0.0
	factors := []ContributingFactor{}

	if s.CGPA != nil && *s.CGPA < 5.0 {
		probability += 0.4
		factors = append(factors, ContributingFactor{
			Factor:      "Low CGPA",
			Weight:      0.8,
			Description: fmt.Sprintf("CGPA of %.2f is below average", *s.CGPA),
		})
	}
	if s.AttendanceRate != nil && *s.AttendanceRate < 70 {
		probability += 0.3
		factors = append(factors, ContributingFactor{
			Factor:      "Poor Attendance",
			Weight:      0.7,
			Description: fmt.Sprintf("Attendance rate of %.1f%% is concerning", *s.AttendanceRate),
		})
	}
	if s.PastFailures != nil && *s.PastFailures > 3 {
		probability += 0.2
		factors = append(factors, ContributingFactor{
			Factor:      "Multiple Past Failures",
			Weight:      0.6,
			Description: fmt.Sprintf("%.0f past failures indicate academic struggles", *s.PastFailures),
		})
	}
	if s.StudyHoursPerWeek != nil && *s.StudyHoursPerWeek < 10 {
		probability += 0.1
		factors = append(factors, ContributingFactor{
			Factor:      "Insufficient Study Time",
			Weight:      0.5,
			Description: fmt.Sprintf("Only %.0f hours of study per week", *s.StudyHoursPerWeek),
		})
	}

	probability = math.Min(probability, 1.0)
	level := ClassifyProbability(probability)

	return Prediction{
		RiskLevel:           level,
		DropoutProbability:  probability,
		ContributingFactors: factors,
		Recommendations:     recommendationsFor(level),
	}
}

func recommendationsFor(level Level) []Recommendation {
	switch level {
	case LevelHigh:
		return []Recommendation{
			{
				Action:      "Immediate Academic Intervention",
				Priority:    "high",
				Description: "Schedule one-on-one tutoring and academic counseling",
			},
			{
				Action:      "Attendance Monitoring",
				Priority:    "high",
				Description: "Implement daily attendance tracking",
			},
		}
	case LevelMedium:
		return []Recommendation{
			{
				Action:      "Study Skills Workshop",
				Priority:    "medium",
				Description: "Enroll in study skills workshops",
			},
			{
				Action:      "Regular Check-ins",
				Priority:    "medium",
				Description: "Schedule bi-weekly progress meetings",
			},
		}
	default:
		return []Recommendation{
			{
				Action:      "Maintain Current Progress",
				Priority:    "low",
				Description: "Continue current study habits",
			},
		}
	}
}

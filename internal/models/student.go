package models

import (
	"time"

	"gorm.io/datatypes"
)

// Student is the canonical record of one student's academic and demographic
// data. Numeric and categorical attributes are pointers: a nil field means the
// value is unknown and must be excluded from risk scoring, not treated as zero.
type Student struct {
	ID        uint   `gorm:"primaryKey" json:"id"`
	StudentID string `gorm:"size:64;uniqueIndex;not null" json:"student_id"`
	Name      string `gorm:"size:255" json:"name,omitempty"`

	Gender              *int `json:"gender"`
	Department          *int `json:"department"`
	Scholarship         *int `json:"scholarship"`
	ParentalEducation   *int `json:"parental_education"`
	ExtraCurricular     *int `json:"extra_curricular"`
	SportsParticipation *int `json:"sports_participation"`

	Age                  *float64 `json:"age"`
	CGPA                 *float64 `json:"cgpa"`
	AttendanceRate       *float64 `json:"attendance_rate"`
	FamilyIncome         *float64 `json:"family_income"`
	PastFailures         *float64 `json:"past_failures"`
	StudyHoursPerWeek    *float64 `json:"study_hours_per_week"`
	AssignmentsSubmitted *float64 `json:"assignments_submitted"`
	ProjectsCompleted    *float64 `json:"projects_completed"`
	TotalActivities      *float64 `json:"total_activities"`

	// Historical dropout label from the source dataset, if any.
	Dropout *int `json:"dropout,omitempty"`

	// Snapshot of the most recent prediction envelope. Informational only;
	// risk scores are always recomputed from the record on read.
	LastPrediction datatypes.JSON `json:"last_prediction,omitempty"`
	PredictedAt    *time.Time     `json:"predicted_at,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

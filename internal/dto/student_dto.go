package dto

import (
	"github.com/omnivion/omnivion-api/internal/models"
)

// StudentPayload carries the raw attributes of one student record as
// submitted by clients (creation and prediction requests share this shape).
// Optional attributes are pointers; absent means unknown.
type StudentPayload struct {
	StudentID string `json:"student_id" validate:"required"`
	Name      string `json:"name" validate:"max=255"`

	Gender              *int `json:"gender" validate:"omitempty,min=0,max=2"`
	Department          *int `json:"department" validate:"omitempty,min=0,max=6"`
	Scholarship         *int `json:"scholarship" validate:"omitempty,min=0,max=2"`
	ParentalEducation   *int `json:"parental_education"`
	ExtraCurricular     *int `json:"extra_curricular"`
	SportsParticipation *int `json:"sports_participation"`

	Age                  *float64 `json:"age"`
	CGPA                 *float64 `json:"cgpa" validate:"omitempty,min=0,max=10"`
	AttendanceRate       *float64 `json:"attendance_rate" validate:"omitempty,min=0,max=100"`
	FamilyIncome         *float64 `json:"family_income" validate:"omitempty,min=0"`
	PastFailures         *float64 `json:"past_failures" validate:"omitempty,min=0"`
	StudyHoursPerWeek    *float64 `json:"study_hours_per_week" validate:"omitempty,min=0"`
	AssignmentsSubmitted *float64 `json:"assignments_submitted" validate:"omitempty,min=0"`
	ProjectsCompleted    *float64 `json:"projects_completed" validate:"omitempty,min=0"`
	TotalActivities      *float64 `json:"total_activities" validate:"omitempty,min=0"`

	Dropout *int `json:"dropout" validate:"omitempty,min=0,max=1"`
}

// ToModel converts the payload into the canonical record.
func (p StudentPayload) ToModel() models.Student {
	return models.Student{
		StudentID:            p.StudentID,
		Name:                 p.Name,
		Gender:               p.Gender,
		Department:           p.Department,
		Scholarship:          p.Scholarship,
		ParentalEducation:    p.ParentalEducation,
		ExtraCurricular:      p.ExtraCurricular,
		SportsParticipation:  p.SportsParticipation,
		Age:                  p.Age,
		CGPA:                 p.CGPA,
		AttendanceRate:       p.AttendanceRate,
		FamilyIncome:         p.FamilyIncome,
		PastFailures:         p.PastFailures,
		StudyHoursPerWeek:    p.StudyHoursPerWeek,
		AssignmentsSubmitted: p.AssignmentsSubmitted,
		ProjectsCompleted:    p.ProjectsCompleted,
		TotalActivities:      p.TotalActivities,
		Dropout:              p.Dropout,
	}
}

// StudentResponse is a student record enriched with its current computed
// risk. The risk fields are derived on every read and never persisted.
type StudentResponse struct {
	models.Student
	DepartmentName string `json:"department_name"`
	RiskPercentage int    `json:"risk_percentage"`
	RiskLevel      string `json:"risk_level"`
}

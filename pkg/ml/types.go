// Package ml is the client for the external dropout-scoring service. The
// service is a black box reached over JSON RPC; only its request/response
// contract matters here. Any transport, status or payload failure is
// returned to the caller, which decides how to degrade.
package ml

import "context"

// PredictRequest is the feature vector the scoring service expects: raw
// numerics plus one-hot categorical flags. Field names follow the service's
// training schema, including the space in the computer-science column.
type PredictRequest struct {
	StudentID            string  `json:"student_id"`
	Age                  float64 `json:"age"`
	CGPA                 float64 `json:"cgpa"`
	Attendance           float64 `json:"attendance_rate"`
	FamilyIncome         float64 `json:"family_income"`
	PastFailures         float64 `json:"past_failures"`
	StudyHoursPerWeek    float64 `json:"study_hours_per_week"`
	AssignmentsSubmitted float64 `json:"assignments_submitted"`
	ProjectsCompleted    float64 `json:"projects_completed"`
	TotalActivities      float64 `json:"total_activities"`
	Dropout              int     `json:"dropout"`

	ScholarshipEncoded         int `json:"scholarship_encoded"`
	ExtraCurricularEncoded     int `json:"extra_curricular_encoded"`
	SportsParticipationEncoded int `json:"sports_participation_encoded"`
	ParentalEducationEncoded   int `json:"parental_education_encoded"`

	GenderFemale int `json:"gender_Female"`
	GenderMale   int `json:"gender_Male"`
	GenderOther  int `json:"gender_Other"`

	DepartmentArts            int `json:"department_ARTS"`
	DepartmentBiology         int `json:"department_BIOLOGY"`
	DepartmentCivil           int `json:"department_CIVIL"`
	DepartmentCommerce        int `json:"department_COMMERCE"`
	DepartmentComputerScience int `json:"department_COMPUTER SCIENCE"`
	DepartmentElectronics     int `json:"department_ELECTRONICS"`
	DepartmentMechanical      int `json:"department_MECHANICAL"`
}

// ContributingFactor mirrors the service's explanatory factor tuple.
type ContributingFactor struct {
	Factor      string  `json:"factor"`
	Weight      float64 `json:"weight"`
	Description string  `json:"description"`
}

// Recommendation mirrors the service's advisory tuple.
type Recommendation struct {
	Action      string `json:"action"`
	Priority    string `json:"priority"`
	Description string `json:"description"`
}

// Prediction is one scored record as returned by the service.
type Prediction struct {
	StudentID           string               `json:"student_id"`
	RiskLevel           string               `json:"risk_level"`
	DropoutProbability  float64              `json:"dropout_probability"`
	ContributingFactors []ContributingFactor `json:"contributing_factors"`
	Recommendations     []Recommendation     `json:"recommendations"`
	ModelVersion        string               `json:"model_version"`
	Error               string               `json:"error,omitempty"`
}

// BatchResponse is the service's batch envelope.
type BatchResponse struct {
	Predictions    []Prediction `json:"predictions"`
	TotalProcessed int          `json:"total_processed"`
	ModelVersion   string       `json:"model_version"`
}

// Health reports service availability.
type Health struct {
	Status      string `json:"status"`
	ModelLoaded bool   `json:"model_loaded"`
}

// Scorer describes a remote model capable of scoring dropout risk.
type Scorer interface {
	Predict(ctx context.Context, req PredictRequest) (Prediction, error)
	PredictBatch(ctx context.Context, reqs []PredictRequest) (BatchResponse, error)
	Health(ctx context.Context) (Health, error)
}

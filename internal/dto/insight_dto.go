package dto

import "time"

// InsightResponse is the advisory narrative generated for one student.
type InsightResponse struct {
	StudentID      string    `json:"student_id"`
	RiskLevel      string    `json:"risk_level"`
	RiskPercentage int       `json:"risk_percentage"`
	Narrative      string    `json:"narrative"`
	GeneratedAt    time.Time `json:"generated_at"`
}

package dto

import (
	"time"

	"github.com/omnivion/omnivion-api/internal/risk"
)

// CollegeStatsResponse summarizes the whole student population.
type CollegeStatsResponse struct {
	TotalStudents      int     `json:"total_students"`
	HighRiskCount      int     `json:"high_risk_count"`
	MediumRiskCount    int     `json:"medium_risk_count"`
	LowRiskCount       int     `json:"low_risk_count"`
	AvgCGPA            float64 `json:"avg_cgpa"`
	AvgAttendanceRate  float64 `json:"avg_attendance_rate"`
	AvgRiskPercentage  float64 `json:"avg_risk_percentage"`
	DropoutRatePercent float64 `json:"dropout_rate_percent"`
}

// DepartmentStatsResponse summarizes one department for its HOD.
type DepartmentStatsResponse struct {
	Department        string  `json:"department"`
	TotalStudents     int     `json:"total_students"`
	HighRiskCount     int     `json:"high_risk_count"`
	MediumRiskCount   int     `json:"medium_risk_count"`
	LowRiskCount      int     `json:"low_risk_count"`
	AvgCGPA           float64 `json:"avg_cgpa"`
	AvgAttendanceRate float64 `json:"avg_attendance_rate"`
	AvgRiskPercentage float64 `json:"avg_risk_percentage"`
}

// AnalyticsSummaryResponse is the cached dashboard aggregate view.
type AnalyticsSummaryResponse struct {
	DepartmentStats []risk.DepartmentAggregate    `json:"departmentStats"`
	IncomeStats     []risk.IncomeBracketAggregate `json:"incomeStats"`
	GeneratedAt     time.Time                     `json:"generated_at"`
	CacheHit        bool                          `json:"cache_hit"`
}

package risk

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/omnivion/omnivion-api/internal/models"
)

func intPtr(v int) *int { return &v }

func highRiskStudent(id string, department *int, income *float64) models.Student {
	return models.Student{
		StudentID:            id,
		Department:           department,
		FamilyIncome:         income,
		CGPA:                 floatPtr(1),
		AttendanceRate:       floatPtr(20),
		PastFailures:         floatPtr(6),
		StudyHoursPerWeek:    floatPtr(2),
		ProjectsCompleted:    floatPtr(0),
		AssignmentsSubmitted: floatPtr(1),
		TotalActivities:      floatPtr(0),
	}
}

func TestAggregateEmpty(t *testing.T) {
	stats := Aggregate(nil)
	require.Empty(t, stats.DepartmentStats)
	require.Len(t, stats.IncomeStats, 4)
	for _, bracket := range stats.IncomeStats {
		require.Zero(t, bracket.StudentCount)
		require.Zero(t, bracket.DropoutRatePercent)
	}
}

func TestAggregateDepartments(t *testing.T) {
	students := []models.Student{
		{StudentID: "A", Department: intPtr(4), CGPA: floatPtr(8)},
		highRiskStudent("B", intPtr(4), nil),
		{StudentID: "C", Department: nil, CGPA: floatPtr(6)},
		{StudentID: "D", Department: intPtr(0)},
	}

	stats := Aggregate(students)
	require.Len(t, stats.DepartmentStats, 3)

	// First-seen enumeration order.
	require.Equal(t, "COMPUTER SCIENCE", stats.DepartmentStats[0].Department)
	require.Equal(t, "Unknown", stats.DepartmentStats[1].Department)
	require.Equal(t, "ARTS", stats.DepartmentStats[2].Department)

	cs := stats.DepartmentStats[0]
	require.Equal(t, 2, cs.TotalStudents)
	require.Equal(t, 1, cs.HighRiskCount)
	require.InDelta(t, 4.5, cs.AvgCGPA, 1e-9)

	// No valid CGPA values in the group yields a zero average.
	require.Zero(t, stats.DepartmentStats[2].AvgCGPA)
}

func TestAggregateIncomeBrackets(t *testing.T) {
	students := []models.Student{
		highRiskStudent("A", nil, floatPtr(50000)),
		{StudentID: "B", FamilyIncome: floatPtr(150000), CGPA: floatPtr(9), AttendanceRate: floatPtr(95)},
		{StudentID: "C", FamilyIncome: floatPtr(200000)},
		{StudentID: "D", FamilyIncome: floatPtr(2500000)},
		{StudentID: "E", FamilyIncome: nil},
	}

	stats := Aggregate(students)
	require.Len(t, stats.IncomeStats, 4)

	low := stats.IncomeStats[0]
	require.Equal(t, "0-2L", low.Bracket)
	require.Equal(t, 2, low.StudentCount)
	require.InDelta(t, 50, low.DropoutRatePercent, 1e-9)

	// 200000 is the open edge of the first bracket and belongs to the second.
	require.Equal(t, 1, stats.IncomeStats[1].StudentCount)
	require.Zero(t, stats.IncomeStats[2].StudentCount)
	require.Equal(t, 1, stats.IncomeStats[3].StudentCount)

	// Nil income is excluded everywhere.
	total := 0
	for _, bracket := range stats.IncomeStats {
		total += bracket.StudentCount
	}
	require.Equal(t, 4, total)
}

func TestAggregateOrderIndependent(t *testing.T) {
	students := []models.Student{
		{StudentID: "A", Department: intPtr(1), CGPA: floatPtr(7), FamilyIncome: floatPtr(300000)},
		highRiskStudent("B", intPtr(1), floatPtr(100000)),
		{StudentID: "C", Department: intPtr(2), FamilyIncome: floatPtr(600000)},
	}
	reversed := []models.Student{students[2], students[1], students[0]}

	forward := Aggregate(students)
	backward := Aggregate(reversed)

	require.Equal(t, forward.IncomeStats, backward.IncomeStats)
	require.ElementsMatch(t, forward.DepartmentStats, backward.DepartmentStats)
}

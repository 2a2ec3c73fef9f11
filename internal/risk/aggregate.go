package risk

import (
	"math"

	"github.com/omnivion/omnivion-api/internal/models"
)

// DepartmentAggregate summarizes one department.
type DepartmentAggregate struct {
	Department    string  `json:"department"`
	TotalStudents int     `json:"totalStudents"`
	HighRiskCount int     `json:"highRiskCount"`
	AvgCGPA       float64 `json:"avgCGPA"`
}

// IncomeBracketAggregate summarizes one family-income bracket.
type IncomeBracketAggregate struct {
	Bracket            string  `json:"bracket"`
	StudentCount       int     `json:"studentCount"`
	DropoutRatePercent float64 `json:"dropoutRatePercent"`
}

// BatchStats bundles the derived aggregate views over a set of records.
type BatchStats struct {
	DepartmentStats []DepartmentAggregate    `json:"departmentStats"`
	IncomeStats     []IncomeBracketAggregate `json:"incomeStats"`
}

// incomeBrackets are fixed half-open ranges in currency units, labeled in
// lakh notation as the dashboards expect.
var incomeBrackets = []struct {
	min   float64
	max   float64
	label string
}{
	{0, 200000, "0-2L"},
	{200000, 500000, "2-5L"},
	{500000, 1000000, "5-10L"},
	{1000000, math.Inf(1), "10L+"},
}

// Aggregate folds a set of student records into per-department and
// per-income-bracket summaries. The fold is order-independent; department
// output keeps stable first-seen order and income output always lists all
// four brackets. Records with nil income are excluded from the income view
// entirely, and nil CGPA values are excluded from department averages.
func Aggregate(students []models.Student) BatchStats {
	type deptFold struct {
		total    int
		highRisk int
		cgpaSum  float64
		cgpaN    int
	}

	folds := map[string]*deptFold{}
	order := []string{}
	bracketTotals := make([]int, len(incomeBrackets))
	bracketHigh := make([]int, len(incomeBrackets))

	for _, s := range students {
		name := models.DepartmentName(s.Department)
		fold, ok := folds[name]
		if !ok {
			fold = &deptFold{}
			folds[name] = fold
			order = append(order, name)
		}

		level := Classify(Score(s))

		fold.total++
		if level == LevelHigh {
			fold.highRisk++
		}
		if s.CGPA != nil {
			fold.cgpaSum += *s.CGPA
			fold.cgpaN++
		}

		if s.FamilyIncome != nil {
			for i, bracket := range incomeBrackets {
				if *s.FamilyIncome >= bracket.min && *s.FamilyIncome < bracket.max {
					bracketTotals[i]++
					if level == LevelHigh {
						bracketHigh[i]++
					}
					break
				}
			}
		}
	}

	departmentStats := make([]DepartmentAggregate, 0, len(order))
	for _, name := range order {
		fold := folds[name]
		avg := 0.0
		if fold.cgpaN > 0 {
			avg = fold.cgpaSum / float64(fold.cgpaN)
		}
		departmentStats = append(departmentStats, DepartmentAggregate{
			Department:    name,
			TotalStudents: fold.total,
			HighRiskCount: fold.highRisk,
			AvgCGPA:       avg,
		})
	}

	incomeStats := make([]IncomeBracketAggregate, 0, len(incomeBrackets))
	for i, bracket := range incomeBrackets {
		rate := 0.0
		if bracketTotals[i] > 0 {
			rate = float64(bracketHigh[i]) / float64(bracketTotals[i]) * 100
		}
		incomeStats = append(incomeStats, IncomeBracketAggregate{
			Bracket:            bracket.label,
			StudentCount:       bracketTotals[i],
			DropoutRatePercent: rate,
		})
	}

	return BatchStats{DepartmentStats: departmentStats, IncomeStats: incomeStats}
}

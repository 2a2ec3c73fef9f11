package ingest

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNormalizeNullTokens(t *testing.T) {
	student, err := Normalize(map[string]string{
		"student_id":      "S-1",
		"cgpa":            " 7.5 ",
		"attendance_rate": "NaN",
		"family_income":   "-",
		"past_failures":   "None",
		"age":             "na",
	})
	require.NoError(t, err)
	require.Equal(t, "S-1", student.StudentID)
	require.NotNil(t, student.CGPA)
	require.InDelta(t, 7.5, *student.CGPA, 1e-9)
	require.Nil(t, student.AttendanceRate)
	require.Nil(t, student.FamilyIncome)
	require.Nil(t, student.PastFailures)
	require.Nil(t, student.Age)
}

func TestNormalizeUnparseableNumericBecomesNil(t *testing.T) {
	student, err := Normalize(map[string]string{
		"student_id": "S-2",
		"cgpa":       "seven",
	})
	require.NoError(t, err)
	require.Nil(t, student.CGPA)
}

func TestNormalizeRejectsMissingStudentID(t *testing.T) {
	_, err := Normalize(map[string]string{"cgpa": "8"})
	require.ErrorIs(t, err, ErrMissingStudentID)

	_, err = Normalize(map[string]string{"student_id": "  nan "})
	require.ErrorIs(t, err, ErrMissingStudentID)
}

func TestNormalizeGenderOneHot(t *testing.T) {
	student, err := Normalize(map[string]string{
		"student_id":    "S-3",
		"gender_Female": "0",
		"gender_Male":   "1",
		"gender_Other":  "0",
	})
	require.NoError(t, err)
	require.NotNil(t, student.Gender)
	require.Equal(t, 1, *student.Gender)

	// More than one set flag is ambiguous; do not guess.
	student, err = Normalize(map[string]string{
		"student_id":    "S-4",
		"gender_Female": "1",
		"gender_Male":   "1",
	})
	require.NoError(t, err)
	require.Nil(t, student.Gender)

	// Zero set flags is also unknown.
	student, err = Normalize(map[string]string{
		"student_id":    "S-5",
		"gender_Female": "0",
		"gender_Male":   "0",
		"gender_Other":  "0",
	})
	require.NoError(t, err)
	require.Nil(t, student.Gender)
}

func TestNormalizeDepartmentFirstMatch(t *testing.T) {
	student, err := Normalize(map[string]string{
		"student_id":                  "S-6",
		"department_ARTS":             "0",
		"department_COMPUTER SCIENCE": "1",
	})
	require.NoError(t, err)
	require.NotNil(t, student.Department)
	require.Equal(t, 4, *student.Department)

	// Malformed rows with multiple set flags resolve to the first in
	// fixed department order.
	student, err = Normalize(map[string]string{
		"student_id":            "S-7",
		"department_BIOLOGY":    "1",
		"department_MECHANICAL": "1",
	})
	require.NoError(t, err)
	require.NotNil(t, student.Department)
	require.Equal(t, 1, *student.Department)
}

func TestNormalizeDirectCodeColumns(t *testing.T) {
	student, err := Normalize(map[string]string{
		"student_id":          "S-8",
		"gender":              "2",
		"department":          "6",
		"scholarship_encoded": "1",
		"dropout":             "0",
	})
	require.NoError(t, err)
	require.Equal(t, 2, *student.Gender)
	require.Equal(t, 6, *student.Department)
	require.Equal(t, 1, *student.Scholarship)
	require.Equal(t, 0, *student.Dropout)
}

// Package ingest converts raw tabular roster rows into canonical student
// records: null-token cleaning, numeric parsing and one-hot categorical
// decoding, plus the CSV plumbing that feeds it.
package ingest

import (
	"errors"
	"strconv"
	"strings"

	"github.com/omnivion/omnivion-api/internal/models"
)

// ErrMissingStudentID marks a row without a usable student identifier.
var ErrMissingStudentID = errors.New("row has no usable student_id")

// genderColumns in code order (0=Female, 1=Male, 2=Other).
var genderColumns = []string{"gender_Female", "gender_Male", "gender_Other"}

// departmentColumns in code order, per models.DepartmentNames.
var departmentColumns = []string{
	"department_ARTS",
	"department_BIOLOGY",
	"department_CIVIL",
	"department_COMMERCE",
	"department_COMPUTER SCIENCE",
	"department_ELECTRONICS",
	"department_MECHANICAL",
}

// Normalize converts one raw row into a student record. Missing or
// unparseable optional values become nil, never zero; only an absent
// student_id is an error.
func Normalize(row map[string]string) (models.Student, error) {
	studentID := cleanValue(row["student_id"])
	if studentID == "" {
		return models.Student{}, ErrMissingStudentID
	}

	student := models.Student{
		StudentID: studentID,
		Name:      cleanValue(row["name"]),

		Age:                  parseNumeric(row["age"]),
		CGPA:                 parseNumeric(row["cgpa"]),
		AttendanceRate:       parseNumeric(row["attendance_rate"]),
		FamilyIncome:         parseNumeric(row["family_income"]),
		PastFailures:         parseNumeric(row["past_failures"]),
		StudyHoursPerWeek:    parseNumeric(row["study_hours_per_week"]),
		AssignmentsSubmitted: parseNumeric(row["assignments_submitted"]),
		ProjectsCompleted:    parseNumeric(row["projects_completed"]),
		TotalActivities:      parseNumeric(row["total_activities"]),

		Scholarship:         parseCode(firstPresent(row, "scholarship_encoded", "scholarship")),
		ExtraCurricular:     parseCode(firstPresent(row, "extra_curricular_encoded", "extra_curricular")),
		SportsParticipation: parseCode(firstPresent(row, "sports_participation_encoded", "sports_participation")),
		ParentalEducation:   parseCode(firstPresent(row, "parental_education_encoded", "parental_education")),
		Dropout:             parseCode(row["dropout"]),
	}

	student.Gender = decodeCategory(row, "gender", genderColumns, decodeExactlyOne)
	student.Department = decodeCategory(row, "department", departmentColumns, decodeFirstMatch)

	return student, nil
}

// decodeCategory resolves a categorical code from either a direct integer
// column or a group of one-hot flag columns, preferring the one-hot form
// when any of its columns is present.
func decodeCategory(row map[string]string, direct string, flags []string, decode func(map[string]string, []string) *int) *int {
	for _, column := range flags {
		if _, ok := row[column]; ok {
			return decode(row, flags)
		}
	}
	if raw, ok := row[direct]; ok {
		return parseCode(raw)
	}
	return nil
}

// decodeExactlyOne returns the index of the single set flag. Zero or more
// than one set flag means the value is unknown; no guessing.
func decodeExactlyOne(row map[string]string, flags []string) *int {
	matched := -1
	for i, column := range flags {
		if flagSet(row[column]) {
			if matched >= 0 {
				return nil
			}
			matched = i
		}
	}
	if matched < 0 {
		return nil
	}
	return &matched
}

// decodeFirstMatch returns the index of the first set flag in column order.
// A malformed row with several set flags still decodes deterministically;
// this masks bad input on purpose and is covered by tests.
func decodeFirstMatch(row map[string]string, flags []string) *int {
	for i, column := range flags {
		if flagSet(row[column]) {
			index := i
			return &index
		}
	}
	return nil
}

func flagSet(raw string) bool {
	value := parseNumeric(raw)
	return value != nil && *value == 1
}

// cleanValue trims the raw token and collapses the dataset's null spellings
// to the empty string.
func cleanValue(raw string) string {
	trimmed := strings.TrimSpace(raw)
	switch strings.ToLower(trimmed) {
	case "", "na", "nan", "-", "none":
		return ""
	}
	return trimmed
}

// parseNumeric parses a cleaned token as a float. Failures yield nil, never
// NaN and never an error: optional numeric fields degrade to unknown.
func parseNumeric(raw string) *float64 {
	cleaned := cleanValue(raw)
	if cleaned == "" {
		return nil
	}
	value, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return nil
	}
	return &value
}

// parseCode parses a small integer categorical code, tolerating float
// spellings like "2.0".
func parseCode(raw string) *int {
	value := parseNumeric(raw)
	if value == nil {
		return nil
	}
	code := int(*value)
	return &code
}

func firstPresent(row map[string]string, keys ...string) string {
	for _, key := range keys {
		if value, ok := row[key]; ok {
			return value
		}
	}
	return ""
}

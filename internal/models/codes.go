package models

// Categorical attribute encodings used across ingestion, scoring and
// analytics. These tables are the single source of truth for code-to-label
// mapping; nothing else may redefine them.

// Gender codes.
const (
	GenderFemale = 0
	GenderMale   = 1
	GenderOther  = 2
)

// Scholarship codes.
const (
	ScholarshipNo      = 0
	ScholarshipPartial = 1
	ScholarshipYes     = 2
)

// DepartmentNames maps department codes to display labels. Index order is
// significant: one-hot department columns are decoded in this order.
var DepartmentNames = [...]string{
	"ARTS",
	"BIOLOGY",
	"CIVIL",
	"COMMERCE",
	"COMPUTER SCIENCE",
	"ELECTRONICS",
	"MECHANICAL",
}

// GenderNames maps gender codes to display labels, in one-hot column order.
var GenderNames = [...]string{"Female", "Male", "Other"}

// DepartmentUnknown is the bucket label for records without a valid
// department code.
const DepartmentUnknown = "Unknown"

// DepartmentName resolves a department code to its label. Nil or
// out-of-range codes resolve to DepartmentUnknown.
func DepartmentName(code *int) string {
	if code == nil || *code < 0 || *code >= len(DepartmentNames) {
		return DepartmentUnknown
	}
	return DepartmentNames[*code]
}

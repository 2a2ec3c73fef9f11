package dto

// ImportRowError reports one rejected CSV row.
type ImportRowError struct {
	Line    int    `json:"line"`
	Message string `json:"message"`
}

// ImportResponse summarizes a roster CSV import. Rejected rows are counted
// and itemized, never silently dropped.
type ImportResponse struct {
	Processed int              `json:"processed"`
	Imported  int              `json:"imported"`
	Rejected  int              `json:"rejected"`
	RowErrors []ImportRowError `json:"row_errors,omitempty"`
}

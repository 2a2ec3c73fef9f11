package ingest

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/omnivion/omnivion-api/internal/models"
)

// ErrTooManyRows indicates the row limit was exceeded.
var ErrTooManyRows = errors.New("too many rows in csv file")

// ErrMissingHeader indicates the file has no usable header row.
var ErrMissingHeader = errors.New("csv header row is missing or empty")

// RowError records why one row was rejected. Line numbers are 1-based and
// include the header row.
type RowError struct {
	Line    int    `json:"line"`
	Message string `json:"message"`
}

// ParseResult holds the outcome of parsing a roster CSV: the rows that
// normalized cleanly and, separately, every rejected row. Rejections never
// abort the parse.
type ParseResult struct {
	Students []models.Student
	Errors   []RowError
}

// ParseOptions configures ParseStudents.
type ParseOptions struct {
	// MaxRows caps the number of data rows; 0 means unlimited.
	MaxRows int
}

// ParseStudents reads a roster CSV with a header row naming the columns of
// the standard export format (student_id, numeric attributes, one-hot
// gender/department flags, encoded categoricals). Rows that fail
// normalization are collected as RowErrors so callers can report rejection
// counts instead of silently dropping data.
func ParseStudents(r io.Reader, opts ParseOptions) (ParseResult, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err == io.EOF {
		return ParseResult{}, ErrMissingHeader
	}
	if err != nil {
		return ParseResult{}, fmt.Errorf("read csv header: %w", err)
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\uFEFF")
	}

	columns := make([]string, len(header))
	usable := 0
	for i, name := range header {
		columns[i] = strings.TrimSpace(name)
		if columns[i] != "" {
			usable++
		}
	}
	if usable == 0 {
		return ParseResult{}, ErrMissingHeader
	}

	var result ParseResult
	line := 1
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			result.Errors = append(result.Errors, RowError{Line: line, Message: err.Error()})
			continue
		}

		if opts.MaxRows > 0 && len(result.Students) >= opts.MaxRows {
			return result, ErrTooManyRows
		}

		row := make(map[string]string, len(columns))
		for i, value := range record {
			if i < len(columns) && columns[i] != "" {
				row[columns[i]] = value
			}
		}

		student, err := Normalize(row)
		if err != nil {
			result.Errors = append(result.Errors, RowError{Line: line, Message: err.Error()})
			continue
		}
		result.Students = append(result.Students, student)
	}

	return result, nil
}

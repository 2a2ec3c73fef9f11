package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"github.com/gabriel-vasile/mimetype"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/omnivion/omnivion-api/internal/dto"
	"github.com/omnivion/omnivion-api/internal/ingest"
	"github.com/omnivion/omnivion-api/internal/observability"
	"github.com/omnivion/omnivion-api/internal/repository"
)

// Import failure modes surfaced to the handler.
var (
	ErrImportTooLarge       = errors.New("import file exceeds the size limit")
	ErrImportTypeNotAllowed = errors.New("import file is not a CSV")
	ErrImportEmpty          = errors.New("import file contains no rows")
)

var allowedImportTypes = []string{"text/csv", "text/plain"}

// ImportService ingests roster CSV uploads into the student table.
type ImportService interface {
	ImportCSV(ctx context.Context, filename string, data []byte) (dto.ImportResponse, error)
}

type importService struct {
	students repository.StudentRepository
	maxBytes int64
	maxRows  int
	logger   zerolog.Logger
}

// NewImportService constructs the CSV import service.
func NewImportService(students repository.StudentRepository, maxMB int, maxRows int, logger zerolog.Logger) ImportService {
	return &importService{
		students: students,
		maxBytes: int64(maxMB) * 1024 * 1024,
		maxRows:  maxRows,
		logger:   logger.With().Str("component", "import_service").Logger(),
	}
}

func (s *importService) ImportCSV(ctx context.Context, filename string, data []byte) (dto.ImportResponse, error) {
	tracer := otel.Tracer("github.com/omnivion/omnivion-api/internal/service/import")
	ctx, span := tracer.Start(ctx, "import.csv")
	span.SetAttributes(
		attribute.String("import.filename", filename),
		attribute.Int("import.bytes", len(data)),
	)
	defer span.End()

	if int64(len(data)) > s.maxBytes {
		return dto.ImportResponse{}, fmt.Errorf("%w: %d bytes", ErrImportTooLarge, len(data))
	}
	if len(data) == 0 {
		return dto.ImportResponse{}, ErrImportEmpty
	}

	detected := mimetype.Detect(data)
	if !importTypeAllowed(detected) {
		return dto.ImportResponse{}, fmt.Errorf("%w: detected %s", ErrImportTypeNotAllowed, detected.String())
	}

	result, err := ingest.ParseStudents(bytes.NewReader(data), ingest.ParseOptions{MaxRows: s.maxRows})
	if err != nil {
		span.RecordError(err)
		return dto.ImportResponse{}, err
	}
	if len(result.Students) == 0 && len(result.Errors) == 0 {
		return dto.ImportResponse{}, ErrImportEmpty
	}

	imported, err := s.students.UpsertBatch(ctx, result.Students)
	if err != nil {
		span.RecordError(err)
		return dto.ImportResponse{}, err
	}

	response := dto.ImportResponse{
		Processed: len(result.Students) + len(result.Errors),
		Imported:  int(imported),
		Rejected:  len(result.Errors),
	}
	for _, rowErr := range result.Errors {
		response.RowErrors = append(response.RowErrors, dto.ImportRowError{
			Line:    rowErr.Line,
			Message: rowErr.Message,
		})
	}

	observability.ImportRows().WithLabelValues("imported").Add(float64(response.Imported))
	observability.ImportRows().WithLabelValues("rejected").Add(float64(response.Rejected))
	s.logger.Info().
		Str("filename", filename).
		Int("imported", response.Imported).
		Int("rejected", response.Rejected).
		Msg("roster import completed")

	return response, nil
}

func importTypeAllowed(detected *mimetype.MIME) bool {
	for _, allowed := range allowedImportTypes {
		if detected.Is(allowed) {
			return true
		}
	}
	return false
}

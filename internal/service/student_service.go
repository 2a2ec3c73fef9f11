package service

import (
	"context"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/microcosm-cc/bluemonday"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/omnivion/omnivion-api/internal/dto"
	"github.com/omnivion/omnivion-api/internal/models"
	"github.com/omnivion/omnivion-api/internal/repository"
	"github.com/omnivion/omnivion-api/internal/risk"
)

// Student failure modes surfaced to the handler.
var (
	ErrStudentNotFound = errors.New("student not found")
	ErrStudentExists   = errors.New("student already exists")
)

// StudentService manages the student roster and its risk-enriched views.
type StudentService interface {
	List(ctx context.Context) ([]dto.StudentResponse, error)
	ListByDepartment(ctx context.Context, department int) ([]dto.StudentResponse, error)
	Get(ctx context.Context, studentID string) (dto.StudentResponse, error)
	Create(ctx context.Context, payload dto.StudentPayload) (dto.StudentResponse, error)
}

type studentService struct {
	repo      repository.StudentRepository
	validator *validator.Validate
	sanitizer *bluemonday.Policy
	logger    zerolog.Logger
}

// NewStudentService constructs the student service.
func NewStudentService(repo repository.StudentRepository, validate *validator.Validate, logger zerolog.Logger) StudentService {
	return &studentService{
		repo:      repo,
		validator: validate,
		sanitizer: bluemonday.StrictPolicy(),
		logger:    logger.With().Str("component", "student_service").Logger(),
	}
}

func (s *studentService) List(ctx context.Context) ([]dto.StudentResponse, error) {
	students, err := s.repo.List(ctx, repository.StudentFilter{})
	if err != nil {
		return nil, err
	}

	return s.toResponses(students), nil
}

func (s *studentService) ListByDepartment(ctx context.Context, department int) ([]dto.StudentResponse, error) {
	students, err := s.repo.List(ctx, repository.StudentFilter{Department: &department})
	if err != nil {
		return nil, err
	}

	return s.toResponses(students), nil
}

func (s *studentService) Get(ctx context.Context, studentID string) (dto.StudentResponse, error) {
	student, err := s.repo.GetByStudentID(ctx, studentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.StudentResponse{}, ErrStudentNotFound
		}
		return dto.StudentResponse{}, err
	}

	return newStudentResponse(student), nil
}

func (s *studentService) Create(ctx context.Context, payload dto.StudentPayload) (dto.StudentResponse, error) {
	payload.StudentID = strings.TrimSpace(payload.StudentID)
	payload.Name = strings.TrimSpace(s.sanitizer.Sanitize(payload.Name))

	if err := s.validator.Struct(payload); err != nil {
		return dto.StudentResponse{}, err
	}

	exists, err := s.repo.ExistsByStudentID(ctx, payload.StudentID)
	if err != nil {
		return dto.StudentResponse{}, err
	}
	if exists {
		return dto.StudentResponse{}, ErrStudentExists
	}

	student := payload.ToModel()
	if err := s.repo.Create(ctx, &student); err != nil {
		return dto.StudentResponse{}, err
	}

	s.logger.Info().Str("student_id", student.StudentID).Msg("student record created")
	return newStudentResponse(student), nil
}

func (s *studentService) toResponses(students []models.Student) []dto.StudentResponse {
	responses := make([]dto.StudentResponse, 0, len(students))
	for i := range students {
		responses = append(responses, newStudentResponse(students[i]))
	}
	return responses
}

func newStudentResponse(student models.Student) dto.StudentResponse {
	score := risk.Score(student)
	return dto.StudentResponse{
		Student:        student,
		DepartmentName: models.DepartmentName(student.Department),
		RiskPercentage: score,
		RiskLevel:      string(risk.Classify(score)),
	}
}

package service

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/omnivion/omnivion-api/internal/dto"
	"github.com/omnivion/omnivion-api/internal/models"
	"github.com/omnivion/omnivion-api/internal/risk"
	"github.com/omnivion/omnivion-api/pkg/advisor"
)

// ErrInsightUnavailable indicates no narrative provider is configured.
var ErrInsightUnavailable = errors.New("insight generation is not configured")

// InsightService turns a scored student record into counselor guidance.
type InsightService interface {
	StudentInsight(ctx context.Context, studentID string) (dto.InsightResponse, error)
}

type insightService struct {
	students StudentLookup
	advisor  advisor.Advisor
	logger   zerolog.Logger
	now      func() time.Time
}

// StudentLookup is the slice of the student repository the insight flow needs.
type StudentLookup interface {
	GetByStudentID(ctx context.Context, studentID string) (models.Student, error)
}

// NewInsightService constructs the insight service. The advisor may be nil
// when no provider is configured; requests then fail with
// ErrInsightUnavailable.
func NewInsightService(students StudentLookup, adv advisor.Advisor, logger zerolog.Logger) InsightService {
	return &insightService{
		students: students,
		advisor:  adv,
		logger:   logger.With().Str("component", "insight_service").Logger(),
		now:      time.Now,
	}
}

func (s *insightService) StudentInsight(ctx context.Context, studentID string) (dto.InsightResponse, error) {
	if s.advisor == nil {
		return dto.InsightResponse{}, ErrInsightUnavailable
	}

	student, err := s.students.GetByStudentID(ctx, studentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.InsightResponse{}, ErrStudentNotFound
		}
		return dto.InsightResponse{}, err
	}

	score := risk.Score(student)
	level := risk.Classify(score)
	prediction := risk.Fallback(student)

	input := advisor.Input{
		StudentID:      student.StudentID,
		Department:     models.DepartmentName(student.Department),
		RiskLevel:      string(level),
		RiskPercentage: score,
	}
	for _, factor := range prediction.ContributingFactors {
		input.Factors = append(input.Factors, factor.Description)
	}
	for _, rec := range prediction.Recommendations {
		input.Recommendations = append(input.Recommendations, rec.Description)
	}

	narrative, err := s.advisor.Advise(ctx, input)
	if err != nil {
		s.logger.Warn().Err(err).Str("student_id", studentID).Msg("failed to generate insight")
		return dto.InsightResponse{}, err
	}

	return dto.InsightResponse{
		StudentID:      student.StudentID,
		RiskLevel:      string(level),
		RiskPercentage: score,
		Narrative:      narrative.Summary,
		GeneratedAt:    s.now().UTC(),
	}, nil
}

package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/omnivion/omnivion-api/internal/dto"
	"github.com/omnivion/omnivion-api/internal/models"
	"github.com/omnivion/omnivion-api/internal/repository"
	"github.com/omnivion/omnivion-api/internal/risk"
)

// AnalyticsService aggregates cohort statistics for the dashboards.
type AnalyticsService interface {
	CollegeStats(ctx context.Context) (dto.CollegeStatsResponse, error)
	DepartmentStats(ctx context.Context, department int) (dto.DepartmentStatsResponse, error)
	Summary(ctx context.Context) (dto.AnalyticsSummaryResponse, error)
}

type analyticsService struct {
	students repository.StudentRepository
	cache    *redis.Client
	cacheTTL time.Duration
	logger   zerolog.Logger
	now      func() time.Time
}

// NewAnalyticsService constructs the analytics service.
func NewAnalyticsService(students repository.StudentRepository, cache *redis.Client, ttl time.Duration, logger zerolog.Logger) AnalyticsService {
	return &analyticsService{
		students: students,
		cache:    cache,
		cacheTTL: ttl,
		logger:   logger.With().Str("component", "analytics_service").Logger(),
		now:      time.Now,
	}
}

func (s *analyticsService) CollegeStats(ctx context.Context) (dto.CollegeStatsResponse, error) {
	students, err := s.students.List(ctx, repository.StudentFilter{})
	if err != nil {
		return dto.CollegeStatsResponse{}, err
	}

	return buildCollegeStats(students), nil
}

func (s *analyticsService) DepartmentStats(ctx context.Context, department int) (dto.DepartmentStatsResponse, error) {
	students, err := s.students.List(ctx, repository.StudentFilter{Department: &department})
	if err != nil {
		return dto.DepartmentStatsResponse{}, err
	}

	stats := buildCollegeStats(students)
	return dto.DepartmentStatsResponse{
		Department:        models.DepartmentName(&department),
		TotalStudents:     stats.TotalStudents,
		HighRiskCount:     stats.HighRiskCount,
		MediumRiskCount:   stats.MediumRiskCount,
		LowRiskCount:      stats.LowRiskCount,
		AvgCGPA:           stats.AvgCGPA,
		AvgAttendanceRate: stats.AvgAttendanceRate,
		AvgRiskPercentage: stats.AvgRiskPercentage,
	}, nil
}

func (s *analyticsService) Summary(ctx context.Context) (dto.AnalyticsSummaryResponse, error) {
	const cacheKey = "analytics:summary"
	tracer := otel.Tracer("github.com/omnivion/omnivion-api/internal/service/analytics")
	ctx, span := tracer.Start(ctx, "analytics.summary")
	span.SetAttributes(attribute.String("analytics.cache_key", cacheKey))
	defer span.End()

	if s.cache != nil {
		cached, err := s.cache.Get(ctx, cacheKey).Result()
		if err == nil {
			var response dto.AnalyticsSummaryResponse
			if unmarshalErr := json.Unmarshal([]byte(cached), &response); unmarshalErr == nil {
				response.CacheHit = true
				span.SetAttributes(attribute.Bool("analytics.cache_hit", true))
				return response, nil
			}
		} else if err != redis.Nil {
			s.logger.Warn().Err(err).Msg("failed to read analytics cache")
			span.RecordError(err)
		}
	}

	students, err := s.students.List(ctx, repository.StudentFilter{})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "list_students_failed")
		return dto.AnalyticsSummaryResponse{}, err
	}

	stats := risk.Aggregate(students)
	response := dto.AnalyticsSummaryResponse{
		DepartmentStats: stats.DepartmentStats,
		IncomeStats:     stats.IncomeStats,
		GeneratedAt:     s.now().UTC(),
	}
	span.SetAttributes(attribute.Int("analytics.student_count", len(students)))

	if s.cache != nil {
		payload, err := json.Marshal(response)
		if err == nil {
			if err := s.cache.Set(ctx, cacheKey, payload, s.cacheTTL).Err(); err != nil {
				s.logger.Warn().Err(err).Msg("failed to store analytics cache")
				span.RecordError(err)
			}
		}
	}

	return response, nil
}

func buildCollegeStats(students []models.Student) dto.CollegeStatsResponse {
	stats := dto.CollegeStatsResponse{TotalStudents: len(students)}

	var (
		cgpaSum       float64
		cgpaCount     int
		attendSum     float64
		attendCount   int
		riskSum       int
		dropoutCount  int
		dropoutKnowns int
	)

	for i := range students {
		student := students[i]
		score := risk.Score(student)
		riskSum += score

		switch risk.Classify(score) {
		case risk.LevelHigh:
			stats.HighRiskCount++
		case risk.LevelMedium:
			stats.MediumRiskCount++
		default:
			stats.LowRiskCount++
		}

		if student.CGPA != nil {
			cgpaSum += *student.CGPA
			cgpaCount++
		}
		if student.AttendanceRate != nil {
			attendSum += *student.AttendanceRate
			attendCount++
		}
		if student.Dropout != nil {
			dropoutKnowns++
			if *student.Dropout == 1 {
				dropoutCount++
			}
		}
	}

	if cgpaCount > 0 {
		stats.AvgCGPA = cgpaSum / float64(cgpaCount)
	}
	if attendCount > 0 {
		stats.AvgAttendanceRate = attendSum / float64(attendCount)
	}
	if len(students) > 0 {
		stats.AvgRiskPercentage = float64(riskSum) / float64(len(students))
	}
	if dropoutKnowns > 0 {
		stats.DropoutRatePercent = float64(dropoutCount) / float64(dropoutKnowns) * 100
	}

	return stats
}

package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"gorm.io/datatypes"

	"github.com/omnivion/omnivion-api/internal/dto"
	"github.com/omnivion/omnivion-api/internal/models"
	"github.com/omnivion/omnivion-api/internal/observability"
	"github.com/omnivion/omnivion-api/internal/repository"
	"github.com/omnivion/omnivion-api/internal/risk"
	"github.com/omnivion/omnivion-api/pkg/ml"
)

// The scoring service only sees dense feature vectors, so unknown values
// are substituted before the call. Age defaults to a plausible cohort
// value; every other numeric defaults to zero.
const defaultAge = 20

// Fallback path reports these as its supported inputs.
var fallbackFeatures = []string{"cgpa", "attendance_rate", "past_failures", "study_hours_per_week"}

// PredictionService scores student records, preferring the external model
// service and degrading to the local rule-based heuristic per record.
type PredictionService interface {
	Predict(ctx context.Context, payload dto.StudentPayload) (dto.PredictionResponse, error)
	PredictBatch(ctx context.Context, payloads []dto.StudentPayload) (dto.BatchPredictionResponse, error)
	ServiceHealth(ctx context.Context) dto.MLHealthResponse
}

type predictionService struct {
	scorer       ml.Scorer
	students     repository.StudentRepository
	events       *nats.Conn
	alertSubject string
	endpoint     string
	logger       zerolog.Logger
	now          func() time.Time
}

// NewPredictionService constructs the prediction gateway. The NATS
// connection may be nil; alerting is then disabled.
func NewPredictionService(scorer ml.Scorer, students repository.StudentRepository, events *nats.Conn, alertSubject, endpoint string, logger zerolog.Logger) PredictionService {
	return &predictionService{
		scorer:       scorer,
		students:     students,
		events:       events,
		alertSubject: alertSubject,
		endpoint:     endpoint,
		logger:       logger.With().Str("component", "prediction_service").Logger(),
		now:          time.Now,
	}
}

func (s *predictionService) Predict(ctx context.Context, payload dto.StudentPayload) (dto.PredictionResponse, error) {
	tracer := otel.Tracer("github.com/omnivion/omnivion-api/internal/service/prediction")
	ctx, span := tracer.Start(ctx, "prediction.predict")
	span.SetAttributes(attribute.String("prediction.student_id", payload.StudentID))
	defer span.End()

	student := payload.ToModel()

	prediction, err := s.scorer.Predict(ctx, buildFeatureVector(student))
	if err != nil {
		s.logger.Warn().Err(err).Str("student_id", payload.StudentID).Msg("model service unavailable, using fallback")
		span.RecordError(err)
		response := s.fallbackResponse(student)
		s.finish(ctx, response)
		return response, nil
	}

	response := s.externalResponse(student.StudentID, prediction)
	span.SetAttributes(attribute.String("prediction.source", response.Source))
	s.finish(ctx, response)
	return response, nil
}

func (s *predictionService) PredictBatch(ctx context.Context, payloads []dto.StudentPayload) (dto.BatchPredictionResponse, error) {
	tracer := otel.Tracer("github.com/omnivion/omnivion-api/internal/service/prediction")
	ctx, span := tracer.Start(ctx, "prediction.predict_batch")
	span.SetAttributes(attribute.Int("prediction.batch_size", len(payloads)))
	defer span.End()

	students := make([]models.Student, 0, len(payloads))
	vectors := make([]ml.PredictRequest, 0, len(payloads))
	for _, payload := range payloads {
		student := payload.ToModel()
		students = append(students, student)
		vectors = append(vectors, buildFeatureVector(student))
	}

	response := dto.BatchPredictionResponse{
		Source:    dto.PredictionSourceExternal,
		Timestamp: s.now().UTC(),
	}

	batch, err := s.scorer.PredictBatch(ctx, vectors)
	if err != nil {
		s.logger.Warn().Err(err).Int("batch_size", len(payloads)).Msg("model service unavailable, using fallback for batch")
		span.RecordError(err)
		response.Source = dto.PredictionSourceFallback
		for i := range students {
			entry := s.fallbackResponse(students[i])
			s.finish(ctx, entry)
			response.Predictions = append(response.Predictions, entry)
		}
	} else {
		response.ModelVersion = batch.ModelVersion
		byID := make(map[string]ml.Prediction, len(batch.Predictions))
		for _, p := range batch.Predictions {
			byID[p.StudentID] = p
		}
		for i := range students {
			prediction, ok := byID[students[i].StudentID]
			if !ok {
				// Missing entries degrade individually.
				entry := s.fallbackResponse(students[i])
				s.finish(ctx, entry)
				response.Predictions = append(response.Predictions, entry)
				continue
			}
			entry := s.externalResponse(students[i].StudentID, prediction)
			s.finish(ctx, entry)
			response.Predictions = append(response.Predictions, entry)
		}
	}

	response.Summary = summarize(response.Predictions)
	span.SetAttributes(
		attribute.String("prediction.source", response.Source),
		attribute.Int("prediction.failed", response.Summary.Failed),
	)
	return response, nil
}

func (s *predictionService) ServiceHealth(ctx context.Context) dto.MLHealthResponse {
	checked := s.now().UTC()

	health, err := s.scorer.Health(ctx)
	if err != nil {
		return dto.MLHealthResponse{
			Status:            "fallback",
			Service:           "rule-based heuristic",
			ModelLoaded:       false,
			Endpoint:          s.endpoint,
			FeaturesSupported: fallbackFeatures,
			LastChecked:       checked,
		}
	}

	return dto.MLHealthResponse{
		Status:      health.Status,
		Service:     "external model",
		ModelLoaded: health.ModelLoaded,
		Endpoint:    s.endpoint,
		LastChecked: checked,
	}
}

func (s *predictionService) externalResponse(studentID string, prediction ml.Prediction) dto.PredictionResponse {
	response := dto.PredictionResponse{
		StudentID:          studentID,
		RiskLevel:          prediction.RiskLevel,
		DropoutProbability: prediction.DropoutProbability,
		ModelVersion:       prediction.ModelVersion,
		Source:             dto.PredictionSourceExternal,
		Timestamp:          s.now().UTC(),
		Error:              prediction.Error,
	}
	for _, factor := range prediction.ContributingFactors {
		response.ContributingFactors = append(response.ContributingFactors, risk.ContributingFactor(factor))
	}
	for _, rec := range prediction.Recommendations {
		response.Recommendations = append(response.Recommendations, risk.Recommendation(rec))
	}
	return response
}

func (s *predictionService) fallbackResponse(student models.Student) dto.PredictionResponse {
	prediction := risk.Fallback(student)
	return dto.PredictionResponse{
		StudentID:           student.StudentID,
		RiskLevel:           string(prediction.RiskLevel),
		DropoutProbability:  prediction.DropoutProbability,
		ContributingFactors: prediction.ContributingFactors,
		Recommendations:     prediction.Recommendations,
		ModelVersion:        "fallback-1.0",
		Source:              dto.PredictionSourceFallback,
		Timestamp:           s.now().UTC(),
	}
}

// finish applies the post-prediction side effects: metrics, the stored
// last-prediction snapshot and the high-risk alert. All are best effort.
func (s *predictionService) finish(ctx context.Context, response dto.PredictionResponse) {
	observability.Predictions().WithLabelValues(response.Source).Inc()
	if response.Source == dto.PredictionSourceFallback {
		observability.Fallbacks().Inc()
	}
	if response.Error != "" {
		return
	}

	if s.students != nil {
		if snapshot, err := json.Marshal(response); err == nil {
			if err := s.students.SaveLastPrediction(ctx, response.StudentID, datatypes.JSON(snapshot), response.Timestamp); err != nil {
				s.logger.Debug().Err(err).Str("student_id", response.StudentID).Msg("failed to store prediction snapshot")
			}
		}
	}

	if s.events != nil && response.RiskLevel == string(risk.LevelHigh) {
		s.publishAlert(response)
	}
}

func (s *predictionService) publishAlert(response dto.PredictionResponse) {
	payload, err := json.Marshal(map[string]interface{}{
		"student_id":          response.StudentID,
		"risk_level":          response.RiskLevel,
		"dropout_probability": response.DropoutProbability,
		"source":              response.Source,
		"timestamp":           response.Timestamp,
	})
	if err != nil {
		return
	}
	if err := s.events.Publish(s.alertSubject, payload); err != nil {
		s.logger.Warn().Err(err).Str("student_id", response.StudentID).Msg("failed to publish high-risk alert")
	}
}

func summarize(predictions []dto.PredictionResponse) dto.PredictionSummary {
	summary := dto.PredictionSummary{Total: len(predictions)}
	for _, prediction := range predictions {
		if prediction.Error != "" {
			summary.Failed++
			continue
		}
		summary.Successful++
		switch risk.Level(prediction.RiskLevel) {
		case risk.LevelHigh:
			summary.HighRisk++
		case risk.LevelMedium:
			summary.MediumRisk++
		default:
			summary.LowRisk++
		}
	}
	return summary
}

func buildFeatureVector(s models.Student) ml.PredictRequest {
	req := ml.PredictRequest{
		StudentID:            s.StudentID,
		Age:                  numericOr(s.Age, defaultAge),
		CGPA:                 numericOr(s.CGPA, 0),
		Attendance:           numericOr(s.AttendanceRate, 0),
		FamilyIncome:         numericOr(s.FamilyIncome, 0),
		PastFailures:         numericOr(s.PastFailures, 0),
		StudyHoursPerWeek:    numericOr(s.StudyHoursPerWeek, 0),
		AssignmentsSubmitted: numericOr(s.AssignmentsSubmitted, 0),
		ProjectsCompleted:    numericOr(s.ProjectsCompleted, 0),
		TotalActivities:      numericOr(s.TotalActivities, 0),
	}

	if s.Dropout != nil {
		req.Dropout = *s.Dropout
	}
	if s.Scholarship != nil {
		req.ScholarshipEncoded = *s.Scholarship
	}
	if s.ExtraCurricular != nil {
		req.ExtraCurricularEncoded = *s.ExtraCurricular
	}
	if s.SportsParticipation != nil {
		req.SportsParticipationEncoded = *s.SportsParticipation
	}
	if s.ParentalEducation != nil {
		req.ParentalEducationEncoded = *s.ParentalEducation
	}

	if s.Gender != nil {
		switch *s.Gender {
		case models.GenderFemale:
			req.GenderFemale = 1
		case models.GenderMale:
			req.GenderMale = 1
		case models.GenderOther:
			req.GenderOther = 1
		}
	}

	if s.Department != nil {
		flags := []*int{
			&req.DepartmentArts,
			&req.DepartmentBiology,
			&req.DepartmentCivil,
			&req.DepartmentCommerce,
			&req.DepartmentComputerScience,
			&req.DepartmentElectronics,
			&req.DepartmentMechanical,
		}
		if *s.Department >= 0 && *s.Department < len(flags) {
			*flags[*s.Department] = 1
		}
	}

	return req
}

func numericOr(value *float64, fallback float64) float64 {
	if value != nil {
		return *value
	}
	return fallback
}

package service

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/omnivion/omnivion-api/internal/dto"
	"github.com/omnivion/omnivion-api/pkg/ml"
)

type stubScorer struct {
	predict      func(ml.PredictRequest) (ml.Prediction, error)
	predictBatch func([]ml.PredictRequest) (ml.BatchResponse, error)
	health       func() (ml.Health, error)
}

func (s *stubScorer) Predict(_ context.Context, req ml.PredictRequest) (ml.Prediction, error) {
	return s.predict(req)
}

func (s *stubScorer) PredictBatch(_ context.Context, reqs []ml.PredictRequest) (ml.BatchResponse, error) {
	return s.predictBatch(reqs)
}

func (s *stubScorer) Health(_ context.Context) (ml.Health, error) {
	return s.health()
}

func failingScorer() *stubScorer {
	err := errors.New("connection refused")
	return &stubScorer{
		predict:      func(ml.PredictRequest) (ml.Prediction, error) { return ml.Prediction{}, err },
		predictBatch: func([]ml.PredictRequest) (ml.BatchResponse, error) { return ml.BatchResponse{}, err },
		health:       func() (ml.Health, error) { return ml.Health{}, err },
	}
}

func riskyPayload(id string) dto.StudentPayload {
	cgpa := 3.0
	attendance := 50.0
	failures := 5.0
	study := 4.0
	return dto.StudentPayload{
		StudentID:         id,
		CGPA:              &cgpa,
		AttendanceRate:    &attendance,
		PastFailures:      &failures,
		StudyHoursPerWeek: &study,
	}
}

func TestPredictFallsBackWhenServiceUnavailable(t *testing.T) {
	svc := NewPredictionService(failingScorer(), nil, nil, "", "http://localhost:5000", zerolog.Nop())

	response, err := svc.Predict(context.Background(), riskyPayload("STU001"))
	require.NoError(t, err)

	require.Equal(t, dto.PredictionSourceFallback, response.Source)
	require.Equal(t, "high", response.RiskLevel)
	require.InDelta(t, 1.0, response.DropoutProbability, 1e-9)
	require.Len(t, response.ContributingFactors, 4)
	require.NotEmpty(t, response.Recommendations)
}

func TestPredictUsesExternalService(t *testing.T) {
	scorer := &stubScorer{
		predict: func(req ml.PredictRequest) (ml.Prediction, error) {
			require.Equal(t, "STU002", req.StudentID)
			return ml.Prediction{
				StudentID:          "STU002",
				RiskLevel:          "medium",
				DropoutProbability: 0.55,
				ModelVersion:       "2.3.1",
			}, nil
		},
	}
	svc := NewPredictionService(scorer, nil, nil, "", "http://localhost:5000", zerolog.Nop())

	response, err := svc.Predict(context.Background(), dto.StudentPayload{StudentID: "STU002"})
	require.NoError(t, err)

	require.Equal(t, dto.PredictionSourceExternal, response.Source)
	require.Equal(t, "medium", response.RiskLevel)
	require.Equal(t, "2.3.1", response.ModelVersion)
}

func TestPredictBatchFallbackSummary(t *testing.T) {
	svc := NewPredictionService(failingScorer(), nil, nil, "", "http://localhost:5000", zerolog.Nop())

	payloads := []dto.StudentPayload{
		riskyPayload("STU001"),
		riskyPayload("STU002"),
		{StudentID: "STU003"},
	}

	response, err := svc.PredictBatch(context.Background(), payloads)
	require.NoError(t, err)

	require.Equal(t, dto.PredictionSourceFallback, response.Source)
	require.Len(t, response.Predictions, 3)
	for _, prediction := range response.Predictions {
		require.Equal(t, dto.PredictionSourceFallback, prediction.Source)
	}

	require.Equal(t, 3, response.Summary.Total)
	require.Equal(t, 3, response.Summary.Successful)
	require.Equal(t, 0, response.Summary.Failed)
	require.Equal(t, 2, response.Summary.HighRisk)
	require.Equal(t, 1, response.Summary.LowRisk)
}

func TestPredictBatchCountsPerRecordErrors(t *testing.T) {
	scorer := &stubScorer{
		predictBatch: func(reqs []ml.PredictRequest) (ml.BatchResponse, error) {
			return ml.BatchResponse{
				Predictions: []ml.Prediction{
					{StudentID: "STU001", RiskLevel: "low", DropoutProbability: 0.1},
					{StudentID: "STU002", Error: "invalid feature vector"},
				},
				TotalProcessed: 2,
				ModelVersion:   "2.3.1",
			}, nil
		},
	}
	svc := NewPredictionService(scorer, nil, nil, "", "http://localhost:5000", zerolog.Nop())

	response, err := svc.PredictBatch(context.Background(), []dto.StudentPayload{
		{StudentID: "STU001"}, {StudentID: "STU002"},
	})
	require.NoError(t, err)

	require.Equal(t, dto.PredictionSourceExternal, response.Source)
	require.Equal(t, 2, response.Summary.Total)
	require.Equal(t, 1, response.Summary.Successful)
	require.Equal(t, 1, response.Summary.Failed)
	require.Equal(t, 1, response.Summary.LowRisk)
	require.Equal(t, "invalid feature vector", response.Predictions[1].Error)
}

func TestServiceHealthReportsFallbackMode(t *testing.T) {
	svc := NewPredictionService(failingScorer(), nil, nil, "", "http://localhost:5000", zerolog.Nop())

	health := svc.ServiceHealth(context.Background())
	require.Equal(t, "fallback", health.Status)
	require.False(t, health.ModelLoaded)
	require.Contains(t, health.FeaturesSupported, "cgpa")
	require.Equal(t, "http://localhost:5000", health.Endpoint)
}

func TestBuildFeatureVectorDefaultsAndOneHot(t *testing.T) {
	gender := 1
	department := 4
	vector := buildFeatureVector(dto.StudentPayload{
		StudentID:  "STU010",
		Gender:     &gender,
		Department: &department,
	}.ToModel())

	require.Equal(t, float64(20), vector.Age)
	require.Zero(t, vector.CGPA)
	require.Equal(t, 1, vector.GenderMale)
	require.Zero(t, vector.GenderFemale)
	require.Equal(t, 1, vector.DepartmentComputerScience)
	require.Zero(t, vector.DepartmentArts)
}

package dto

import (
	"time"

	"github.com/omnivion/omnivion-api/internal/risk"
)

// Prediction sources. Every envelope states which path produced it so
// callers can tell a model answer from the local heuristic.
const (
	PredictionSourceExternal = "external"
	PredictionSourceFallback = "fallback"
)

// BatchPredictionRequest wraps the records to score in one call.
type BatchPredictionRequest struct {
	Students []StudentPayload `json:"students" validate:"required,min=1,dive"`
}

// PredictionResponse is the uniform envelope for one scored record,
// regardless of which path produced it.
type PredictionResponse struct {
	StudentID           string                    `json:"student_id"`
	RiskLevel           string                    `json:"risk_level"`
	DropoutProbability  float64                   `json:"dropout_probability"`
	ContributingFactors []risk.ContributingFactor `json:"contributing_factors"`
	Recommendations     []risk.Recommendation     `json:"recommendations"`
	ModelVersion        string                    `json:"model_version"`
	Source              string                    `json:"source"`
	Timestamp           time.Time                 `json:"timestamp"`
	Error               string                    `json:"error,omitempty"`
}

// PredictionSummary partitions a batch outcome. Successful and Failed sum
// to Total; the per-level counters partition Successful.
type PredictionSummary struct {
	Total      int `json:"total"`
	Successful int `json:"successful"`
	Failed     int `json:"failed"`
	HighRisk   int `json:"high_risk"`
	MediumRisk int `json:"medium_risk"`
	LowRisk    int `json:"low_risk"`
}

// BatchPredictionResponse is the envelope for a batch scoring call.
type BatchPredictionResponse struct {
	Predictions  []PredictionResponse `json:"predictions"`
	Summary      PredictionSummary    `json:"summary"`
	ModelVersion string               `json:"model_version"`
	Source       string               `json:"source"`
	Timestamp    time.Time            `json:"timestamp"`
}

// MLHealthResponse reports scoring-service reachability and which scoring
// path the gateway is currently on.
type MLHealthResponse struct {
	Status            string    `json:"status"`
	Service           string    `json:"service"`
	ModelLoaded       bool      `json:"model_loaded"`
	Endpoint          string    `json:"endpoint"`
	FeaturesSupported []string  `json:"features_supported"`
	LastChecked       time.Time `json:"last_checked"`
}

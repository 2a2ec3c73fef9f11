package ml

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"
	"github.com/santhosh-tekuri/jsonschema/v5"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var (
	mlDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "omnivion",
		Subsystem: "ml",
		Name:      "request_duration_seconds",
		Help:      "Duration of scoring-service requests",
	}, []string{"endpoint"})

	mlFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "omnivion",
		Subsystem: "ml",
		Name:      "request_failures_total",
		Help:      "Number of failed scoring-service requests",
	}, []string{"endpoint"})
)

// Responses are schema-checked before they are trusted; a payload that does
// not match the contract counts as a service failure.
const predictionSchemaBody = `{
	"type": "object",
	"required": ["risk_level", "dropout_probability"],
	"properties": {
		"student_id": {"type": "string"},
		"risk_level": {"enum": ["high", "medium", "low"]},
		"dropout_probability": {"type": "number"},
		"model_version": {"type": "string"}
	}
}`

const batchSchemaBody = `{
	"type": "object",
	"required": ["predictions"],
	"properties": {
		"predictions": {"type": "array", "items": {"type": "object"}},
		"total_processed": {"type": "integer"},
		"model_version": {"type": "string"}
	}
}`

var (
	predictionSchema = jsonschema.MustCompileString("prediction.json", predictionSchemaBody)
	batchSchema      = jsonschema.MustCompileString("batch.json", batchSchemaBody)
)

// ClientConfig configures the HTTP scoring client.
type ClientConfig struct {
	BaseURL        string
	PredictTimeout time.Duration
	BatchTimeout   time.Duration
	Logger         zerolog.Logger
}

// Client talks to the scoring service over HTTP. It performs a single
// attempt per call bounded by the configured timeout; retries are the
// caller's concern (and deliberately not performed anywhere).
type Client struct {
	baseURL        string
	http           *http.Client
	predictTimeout time.Duration
	batchTimeout   time.Duration
	tracer         trace.Tracer
	logger         zerolog.Logger
}

// NewClient builds a scoring-service client.
func NewClient(cfg ClientConfig) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("scoring service base url is required")
	}
	if cfg.PredictTimeout <= 0 {
		cfg.PredictTimeout = 30 * time.Second
	}
	if cfg.BatchTimeout <= 0 {
		cfg.BatchTimeout = 90 * time.Second
	}

	return &Client{
		baseURL:        cfg.BaseURL,
		http:           &http.Client{},
		predictTimeout: cfg.PredictTimeout,
		batchTimeout:   cfg.BatchTimeout,
		tracer:         otel.Tracer("github.com/omnivion/omnivion-api/pkg/ml"),
		logger:         cfg.Logger.With().Str("component", "ml_client").Logger(),
	}, nil
}

// Predict scores a single record.
func (c *Client) Predict(parent context.Context, req PredictRequest) (Prediction, error) {
	ctx, span := c.tracer.Start(parent, "ml.predict", trace.WithAttributes(
		attribute.String("ml.student_id", req.StudentID),
	))
	defer span.End()

	var prediction Prediction
	if err := c.post(ctx, "/predict", c.predictTimeout, req, predictionSchema, &prediction); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return Prediction{}, err
	}

	prediction.DropoutProbability = clampProbability(prediction.DropoutProbability)
	return prediction, nil
}

// PredictBatch scores a set of records in one call.
func (c *Client) PredictBatch(parent context.Context, reqs []PredictRequest) (BatchResponse, error) {
	ctx, span := c.tracer.Start(parent, "ml.predict_batch", trace.WithAttributes(
		attribute.Int("ml.batch_size", len(reqs)),
	))
	defer span.End()

	payload := struct {
		Students []PredictRequest `json:"students"`
	}{Students: reqs}

	var batch BatchResponse
	if err := c.post(ctx, "/predict_batch", c.batchTimeout, payload, batchSchema, &batch); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return BatchResponse{}, err
	}

	for i := range batch.Predictions {
		batch.Predictions[i].DropoutProbability = clampProbability(batch.Predictions[i].DropoutProbability)
	}
	return batch, nil
}

// Health probes the service's health endpoint with a short budget.
func (c *Client) Health(parent context.Context) (Health, error) {
	ctx, cancel := context.WithTimeout(parent, 5*time.Second)
	defer cancel()

	request, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", nil)
	if err != nil {
		return Health{}, fmt.Errorf("build health request: %w", err)
	}

	start := time.Now()
	resp, err := c.http.Do(request)
	mlDuration.WithLabelValues("/health").Observe(time.Since(start).Seconds())
	if err != nil {
		mlFailures.WithLabelValues("/health").Inc()
		return Health{}, fmt.Errorf("scoring service health: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		mlFailures.WithLabelValues("/health").Inc()
		return Health{}, fmt.Errorf("scoring service health: unexpected status %d", resp.StatusCode)
	}

	var health Health
	if err := json.NewDecoder(resp.Body).Decode(&health); err != nil {
		mlFailures.WithLabelValues("/health").Inc()
		return Health{}, fmt.Errorf("decode health response: %w", err)
	}
	return health, nil
}

func (c *Client) post(ctx context.Context, endpoint string, timeout time.Duration, payload interface{}, schema *jsonschema.Schema, out interface{}) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode request: %w", err)
	}

	request, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	request.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := c.http.Do(request)
	mlDuration.WithLabelValues(endpoint).Observe(time.Since(start).Seconds())
	if err != nil {
		mlFailures.WithLabelValues(endpoint).Inc()
		return fmt.Errorf("scoring service %s: %w", endpoint, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		mlFailures.WithLabelValues(endpoint).Inc()
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		mlFailures.WithLabelValues(endpoint).Inc()
		c.logger.Warn().Int("status", resp.StatusCode).Str("endpoint", endpoint).Msg("scoring service returned non-success status")
		return fmt.Errorf("scoring service %s: unexpected status %d", endpoint, resp.StatusCode)
	}

	var decoded interface{}
	if err := json.Unmarshal(raw, &decoded); err != nil {
		mlFailures.WithLabelValues(endpoint).Inc()
		return fmt.Errorf("decode response: %w", err)
	}
	if err := schema.Validate(decoded); err != nil {
		mlFailures.WithLabelValues(endpoint).Inc()
		return fmt.Errorf("response failed contract validation: %w", err)
	}

	if err := json.Unmarshal(raw, out); err != nil {
		mlFailures.WithLabelValues(endpoint).Inc()
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func clampProbability(p float64) float64 {
	if p < 0 {
		return 0
	}
	if p > 1 {
		return 1
	}
	return p
}

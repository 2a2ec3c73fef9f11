// Package advisor generates counselor-facing narratives for scored student
// records via a chat-completion model.
package advisor

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"
	openai "github.com/sashabaranov/go-openai"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var (
	adviseDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "omnivion",
		Subsystem: "advisor",
		Name:      "request_duration_seconds",
		Help:      "Duration of advisory narrative requests",
	}, []string{"model"})

	adviseFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "omnivion",
		Subsystem: "advisor",
		Name:      "request_failures_total",
		Help:      "Number of advisory narrative failures",
	}, []string{"model"})
)

// OpenAIConfig defines configuration options for the OpenAI advisor.
type OpenAIConfig struct {
	APIKey      string
	Model       string
	MaxTokens   int
	Temperature float32
	Logger      zerolog.Logger
}

// OpenAIAdvisor implements Advisor against the OpenAI chat completion API.
type OpenAIAdvisor struct {
	client *openai.Client
	cfg    OpenAIConfig
	tracer trace.Tracer
	logger zerolog.Logger
}

// NewOpenAIAdvisor builds an advisor using the provided configuration.
func NewOpenAIAdvisor(cfg OpenAIConfig) (*OpenAIAdvisor, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("openai api key is required")
	}

	if cfg.Model == "" {
		cfg.Model = "gpt-4o-mini"
	}
	if cfg.MaxTokens == 0 {
		cfg.MaxTokens = 512
	}

	logger := cfg.Logger
	if logger.GetLevel() == zerolog.Disabled {
		logger = zerolog.Nop()
	}

	return &OpenAIAdvisor{
		client: openai.NewClientWithConfig(openai.DefaultConfig(cfg.APIKey)),
		cfg:    cfg,
		tracer: otel.Tracer("github.com/omnivion/omnivion-api/pkg/advisor"),
		logger: logger,
	}, nil
}

// Advise requests a short guidance narrative for the scored student.
func (a *OpenAIAdvisor) Advise(parent context.Context, input Input) (Narrative, error) {
	ctx, span := a.tracer.Start(parent, "advisor.advise", trace.WithAttributes(
		attribute.String("model", a.cfg.Model),
		attribute.String("risk_level", input.RiskLevel),
	))
	defer span.End()

	start := time.Now()
	request := openai.ChatCompletionRequest{
		Model:       a.cfg.Model,
		MaxTokens:   a.cfg.MaxTokens,
		Temperature: a.cfg.Temperature,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: advisorSystemPrompt(),
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: buildAdvisoryPrompt(input),
			},
		},
	}

	resp, err := a.client.CreateChatCompletion(ctx, request)
	adviseDuration.WithLabelValues(a.cfg.Model).Observe(time.Since(start).Seconds())
	if err != nil {
		adviseFailures.WithLabelValues(a.cfg.Model).Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return Narrative{}, fmt.Errorf("openai advise: %w", err)
	}

	if len(resp.Choices) == 0 {
		err := fmt.Errorf("no choices returned from openai")
		adviseFailures.WithLabelValues(a.cfg.Model).Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return Narrative{}, err
	}

	return Narrative{
		Summary: strings.TrimSpace(resp.Choices[0].Message.Content),
		Raw: map[string]interface{}{
			"usage": resp.Usage,
		},
	}, nil
}

func advisorSystemPrompt() string {
	return "You are an academic counselor assistant. Given a student's dropout-risk assessment, write a short, action" +
		"able paragraph for their counselor. Be concrete, avoid alarmism, and reference the listed factors directly."
}

func buildAdvisoryPrompt(input Input) string {
	builder := strings.Builder{}
	builder.WriteString("# Student\n")
	builder.WriteString(input.StudentID)
	builder.WriteString("\n\n## Department\n")
	builder.WriteString(input.Department)
	builder.WriteString("\n\n## Risk\n")
	fmt.Fprintf(&builder, "%s (%d%%)", input.RiskLevel, input.RiskPercentage)
	if len(input.Factors) > 0 {
		builder.WriteString("\n\n## Contributing Factors\n")
		builder.WriteString(strings.Join(input.Factors, "\n"))
	}
	if len(input.Recommendations) > 0 {
		builder.WriteString("\n\n## Suggested Actions\n")
		builder.WriteString(strings.Join(input.Recommendations, "\n"))
	}
	return builder.String()
}

package ai

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
	solveDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "lastresort",
		Subsystem: "ai",
		Name:      "solve_duration_seconds",
		Help:      "Duration of AI oracle requests",
	}, []string{"model"})

	solveFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "lastresort",
		Subsystem: "ai",
		Name:      "solve_failures_total",
		Help:      "Number of failed AI oracle requests",
	}, []string{"model"})
)

// OpenAIConfig defines configuration options for the OpenAI oracle.
type OpenAIConfig struct {
	APIKey      string
	Model       string
	MaxTokens   int
	Temperature float32
	Logger      zerolog.Logger
}

// OpenAIOracle implements Oracle against the OpenAI chat completion API.
type OpenAIOracle struct {
	client *openai.Client
	cfg    OpenAIConfig
	tracer trace.Tracer
	logger zerolog.Logger
}

// NewOpenAIOracle builds a new oracle using the provided configuration.
func NewOpenAIOracle(cfg OpenAIConfig) (*OpenAIOracle, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("openai api key is required")
	}

	if cfg.Model == "" {
		cfg.Model = "gpt-4o"
	}

	if cfg.MaxTokens == 0 {
		cfg.MaxTokens = 1000
	}

	tracer := otel.Tracer("github.com/noah-isme/lastresort-api/pkg/ai/openai")
	logger := cfg.Logger
	if logger.GetLevel() == zerolog.Disabled {
		logger = zerolog.Nop()
	}

	config := openai.DefaultConfig(cfg.APIKey)
	client := openai.NewClientWithConfig(config)

	return &OpenAIOracle{
		client: client,
		cfg:    cfg,
		tracer: tracer,
		logger: logger,
	}, nil
}

// Solve sends the problem to OpenAI and parses the completion into a solution
// and a final answer.
func (o *OpenAIOracle) Solve(parent context.Context, input ProblemInput) (ProblemResult, error) {
	ctx, span := o.tracer.Start(parent, "openai.solve", trace.WithAttributes(
		attribute.String("model", o.cfg.Model),
		attribute.Int("question_number", input.QuestionNumber),
	))
	defer span.End()

	start := time.Now()
	request := openai.ChatCompletionRequest{
		Model:       o.cfg.Model,
		MaxTokens:   o.cfg.MaxTokens,
		Temperature: o.cfg.Temperature,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: oracleSystemPrompt(),
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: buildProblemPrompt(input),
			},
		},
	}

	resp, err := o.client.CreateChatCompletion(ctx, request)
	duration := time.Since(start)
	solveDuration.WithLabelValues(o.cfg.Model).Observe(duration.Seconds())
	if err != nil {
		solveFailures.WithLabelValues(o.cfg.Model).Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return ProblemResult{}, fmt.Errorf("openai solve: %w", err)
	}

	if len(resp.Choices) == 0 {
		err := fmt.Errorf("no choices returned from openai")
		solveFailures.WithLabelValues(o.cfg.Model).Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return ProblemResult{}, err
	}

	content := strings.TrimSpace(resp.Choices[0].Message.Content)
	solution, answer := ParseCompletion(content)

	return ProblemResult{
		Solution: solution,
		Answer:   answer,
		Raw: map[string]interface{}{
			"usage": resp.Usage,
		},
	}, nil
}

func oracleSystemPrompt() string {
	return "You are an AI assistant tasked with solving problems. Provide your solution and final answer clearly."
}

func buildProblemPrompt(input ProblemInput) string {
	builder := strings.Builder{}
	builder.WriteString("Problem: ")
	builder.WriteString(input.Text)
	builder.WriteString("\n\nPlease provide:\n1. Your solution approach\n2. Your final answer")
	return builder.String()
}

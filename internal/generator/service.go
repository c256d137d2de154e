// Package generator orchestrates component generation, refinement,
// explanation and conversion on top of an LLM completer.
package generator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/ashureev/uiforge/internal/codegen"
	"github.com/ashureev/uiforge/internal/convert"
	"github.com/ashureev/uiforge/internal/domain"
	"github.com/ashureev/uiforge/internal/identity"
	"github.com/ashureev/uiforge/internal/llm"
	"github.com/ashureev/uiforge/internal/metrics"
	"github.com/ashureev/uiforge/internal/store"
	"github.com/google/uuid"
)

// Validation errors returned before any upstream call is made.
var (
	ErrEmptyPrompt          = errors.New("prompt is required")
	ErrEmptyCode            = errors.New("code is required")
	ErrEmptyFeedback        = errors.New("feedback is required")
	ErrUnsupportedFramework = errors.New("unsupported framework")
)

// Messages used when the upstream call fails.
const (
	FallbackExplanation = "Generated a basic component structure. Please refine as needed."
	RefineFailedMessage = "Unable to refine at this time."
)

var (
	fallbackSuggestions = []string{"Add more interactivity", "Enhance styling", "Add props validation"}
	refineChanges       = []string{"Applied user feedback", "Improved code structure"}
	refineFailedChanges = []string{"No changes applied due to error"}
)

const historyWriteTimeout = 5 * time.Second

// Config holds model parameters.
type Config struct {
	Model              string
	Temperature        float64
	MaxTokens          int
	ExplainTemperature float64
	ExplainMaxTokens   int
}

// DefaultConfig returns the parameters used when none are configured.
func DefaultConfig() Config {
	return Config{
		Model:              llm.DefaultModel,
		Temperature:        0.4,
		MaxTokens:          2000,
		ExplainTemperature: 0.7,
		ExplainMaxTokens:   1500,
	}
}

// Option configures a Service.
type Option func(*Service)

// WithMetrics records operation metrics.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

// WithHistory persists every result to repo.
func WithHistory(repo store.Repository) Option {
	return func(s *Service) {
		s.history = repo
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

// Service runs the generation pipeline. Every operation returns a
// well-formed result; upstream failures degrade to fixed fallbacks.
type Service struct {
	llm     llm.Completer
	cfg     Config
	metrics *metrics.Metrics
	history store.Repository
	logger  *slog.Logger

	mu      sync.Mutex
	closed  bool
	pending sync.WaitGroup
}

// NewService creates a Service backed by completer.
func NewService(completer llm.Completer, cfg Config, opts ...Option) *Service {
	def := DefaultConfig()
	if cfg.Model == "" {
		cfg.Model = def.Model
	}
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = def.MaxTokens
	}
	if cfg.ExplainMaxTokens <= 0 {
		cfg.ExplainMaxTokens = def.ExplainMaxTokens
	}

	s := &Service{
		llm:    completer,
		cfg:    cfg,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Close waits for in-flight history writes. Results produced after Close
// are not recorded.
func (s *Service) Close() {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
	s.pending.Wait()
}

// Generate creates a new component from a natural-language prompt.
func (s *Service) Generate(ctx context.Context, req domain.GenerationRequest) (domain.GenerationResult, error) {
	prompt := strings.TrimSpace(req.Prompt)
	if prompt == "" {
		return domain.GenerationResult{}, ErrEmptyPrompt
	}
	fw, err := resolveFramework(req.Framework)
	if err != nil {
		return domain.GenerationResult{}, err
	}

	resp, err := s.complete(ctx, domain.OpGenerate, llm.Request{
		Model: s.cfg.Model,
		Messages: []llm.Message{
			{Role: "system", Content: generateSystemPrompt(fw, req.Preferences)},
			{Role: "user", Content: generateUserPrompt(fw, prompt, req.Preferences)},
		},
		Temperature:  s.cfg.Temperature,
		MaxTokens:    s.cfg.MaxTokens,
		JSONResponse: true,
	})

	var res domain.GenerationResult
	if err != nil {
		s.logger.Warn("Generation failed, using fallback component", "error", err, "framework", fw)
		res = domain.GenerationResult{
			Code:        codegen.Fallback(fw, prompt),
			Explanation: FallbackExplanation,
			Suggestions: clone(fallbackSuggestions),
			Fallback:    true,
		}
	} else {
		parsed := codegen.Normalize(resp.Content, true)
		s.metrics.NormalizePath(string(parsed.Source))
		res = domain.GenerationResult{
			Code:        codegen.Sanitize(parsed.Code, fw),
			Explanation: parsed.Explanation,
			Suggestions: parsed.Suggestions,
		}
	}

	s.metrics.Operation(string(domain.OpGenerate), string(fw), outcome(res.Fallback))
	s.record(ctx, &domain.GenerationRecord{
		Operation:   domain.OpGenerate,
		Framework:   fw,
		Prompt:      prompt,
		Code:        res.Code,
		Explanation: res.Explanation,
		Suggestions: res.Suggestions,
		Fallback:    res.Fallback,
	})
	return res, nil
}

// Refine applies natural-language feedback to existing component code.
func (s *Service) Refine(ctx context.Context, req domain.RefinementRequest) (domain.RefinementResult, error) {
	if strings.TrimSpace(req.Code) == "" {
		return domain.RefinementResult{}, ErrEmptyCode
	}
	feedback := strings.TrimSpace(req.Feedback)
	if feedback == "" {
		return domain.RefinementResult{}, ErrEmptyFeedback
	}
	fw, err := resolveFramework(req.Framework)
	if err != nil {
		return domain.RefinementResult{}, err
	}

	resp, err := s.complete(ctx, domain.OpRefine, llm.Request{
		Model: s.cfg.Model,
		Messages: []llm.Message{
			{Role: "system", Content: refineSystemPrompt(fw)},
			{Role: "user", Content: refineUserPrompt(req.Code, feedback)},
		},
		Temperature:  s.cfg.Temperature,
		MaxTokens:    s.cfg.MaxTokens,
		JSONResponse: true,
	})

	var res domain.RefinementResult
	if err != nil {
		s.logger.Warn("Refinement failed, returning original code", "error", err, "framework", fw)
		res = domain.RefinementResult{
			Code:        req.Code,
			Changes:     clone(refineFailedChanges),
			Explanation: RefineFailedMessage,
			Fallback:    true,
		}
	} else {
		parsed := codegen.Normalize(resp.Content, false)
		s.metrics.NormalizePath(string(parsed.Source))
		res = domain.RefinementResult{
			Code:        codegen.Sanitize(parsed.Code, fw),
			Changes:     clone(refineChanges),
			Explanation: parsed.Explanation,
		}
	}

	s.metrics.Operation(string(domain.OpRefine), string(fw), outcome(res.Fallback))
	s.record(ctx, &domain.GenerationRecord{
		Operation:   domain.OpRefine,
		Framework:   fw,
		Prompt:      feedback,
		Code:        res.Code,
		Explanation: res.Explanation,
		Changes:     res.Changes,
		Fallback:    res.Fallback,
	})
	return res, nil
}

// Explain produces a learning-oriented breakdown of code.
func (s *Service) Explain(ctx context.Context, code string, framework domain.Framework) (domain.DesignExplanation, error) {
	if strings.TrimSpace(code) == "" {
		return domain.DesignExplanation{}, ErrEmptyCode
	}
	fw, err := resolveFramework(framework)
	if err != nil {
		return domain.DesignExplanation{}, err
	}

	resp, err := s.complete(ctx, domain.OpExplain, llm.Request{
		Model: s.cfg.Model,
		Messages: []llm.Message{
			{Role: "system", Content: explainSystemPrompt},
			{Role: "user", Content: explainUserPrompt(code, fw)},
		},
		Temperature: s.cfg.ExplainTemperature,
		MaxTokens:   s.cfg.ExplainMaxTokens,
	})
	if err != nil {
		s.logger.Warn("Explanation failed", "error", err, "framework", fw)
		s.metrics.Operation(string(domain.OpExplain), string(fw), metrics.OutcomeFallback)
		return unavailableExplanation(), nil
	}

	exp, ok := parseExplanation(resp.Content)
	if !ok {
		s.metrics.NormalizePath(string(codegen.SourceRaw))
		exp = unparsedExplanation(resp.Content)
	} else {
		s.metrics.NormalizePath(string(codegen.SourceJSON))
	}
	s.metrics.Operation(string(domain.OpExplain), string(fw), metrics.OutcomeSuccess)
	return exp, nil
}

// Convert translates code between frameworks.
func (s *Service) Convert(code string, from, to domain.Framework) (string, error) {
	src, err := resolveFramework(from)
	if err != nil {
		return "", err
	}
	dst, err := resolveFramework(to)
	if err != nil {
		return "", err
	}
	out := convert.Convert(code, src, dst)
	s.metrics.Operation(string(domain.OpConvert), string(dst), metrics.OutcomeSuccess)
	return out, nil
}

func (s *Service) complete(ctx context.Context, op domain.Operation, req llm.Request) (*llm.Response, error) {
	if s.llm == nil {
		return nil, errors.New("no completer configured")
	}

	start := time.Now()
	resp, err := s.llm.Complete(ctx, req)
	result := metrics.OutcomeSuccess
	if err != nil {
		result = metrics.OutcomeError
	}
	s.metrics.LLMRequest(string(op), result, time.Since(start))

	if err != nil {
		return nil, fmt.Errorf("%s completion: %w", op, err)
	}
	return resp, nil
}

// record writes rec to history in the background, detached from ctx.
func (s *Service) record(ctx context.Context, rec *domain.GenerationRecord) {
	if s.history == nil {
		return
	}
	rec.ID = uuid.NewString()
	rec.ClientID = identity.ClientIDFromContext(ctx)
	rec.CreatedAt = time.Now()
	if rec.ClientID == "" {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		s.logger.Debug("Service closed, dropping history record", "client_id", rec.ClientID)
		return
	}
	s.pending.Add(1)
	go func() {
		defer s.pending.Done()
		writeCtx, cancel := context.WithTimeout(context.Background(), historyWriteTimeout)
		defer cancel()
		if err := store.SaveWithRetry(writeCtx, s.history, rec); err != nil {
			s.logger.Warn("Failed to record generation history", "error", err, "client_id", rec.ClientID)
		}
	}()
}

func resolveFramework(f domain.Framework) (domain.Framework, error) {
	fw, err := domain.ParseFramework(string(f))
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFramework, f)
	}
	return fw, nil
}

func outcome(fallback bool) string {
	if fallback {
		return metrics.OutcomeFallback
	}
	return metrics.OutcomeSuccess
}

func clone(list []string) []string {
	out := make([]string, len(list))
	copy(out, list)
	return out
}

// Package api provides HTTP handlers for the component generator API.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/ashureev/uiforge/internal/domain"
	"github.com/ashureev/uiforge/internal/store"
)

// DefaultMaxBodyBytes bounds request bodies when no limit is configured.
const DefaultMaxBodyBytes = 1 << 20

// Service is the generation pipeline the handlers drive.
type Service interface {
	Generate(ctx context.Context, req domain.GenerationRequest) (domain.GenerationResult, error)
	Refine(ctx context.Context, req domain.RefinementRequest) (domain.RefinementResult, error)
	Explain(ctx context.Context, code string, framework domain.Framework) (domain.DesignExplanation, error)
	Convert(code string, from, to domain.Framework) (string, error)
}

// Handler provides the API endpoints and their shared dependencies.
type Handler struct {
	svc       Service
	history   store.Repository
	maxBody   int64
	rateLimit func(http.Handler) http.Handler
}

// Option configures a Handler.
type Option func(*Handler)

// WithHistory enables the history endpoints.
func WithHistory(repo store.Repository) Option {
	return func(h *Handler) {
		h.history = repo
	}
}

// WithMaxBodyBytes limits the size of request bodies.
func WithMaxBodyBytes(n int64) Option {
	return func(h *Handler) {
		if n > 0 {
			h.maxBody = n
		}
	}
}

// WithRateLimit wraps the pipeline endpoints in mw.
func WithRateLimit(mw func(http.Handler) http.Handler) Option {
	return func(h *Handler) {
		h.rateLimit = mw
	}
}

// NewHandler creates a new Handler backed by svc.
func NewHandler(svc Service, opts ...Option) *Handler {
	h := &Handler{
		svc:     svc,
		maxBody: DefaultMaxBodyBytes,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// JSON writes a JSON response with the given status code.
func JSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, `{"error": "failed to encode response"}`, http.StatusInternalServerError)
	}
}

// Error writes a JSON error response.
func Error(w http.ResponseWriter, status int, message string) {
	JSON(w, status, map[string]string{"error": message})
}

// errBodyTooLarge is returned by decode when the body exceeds the limit.
var errBodyTooLarge = errors.New("request body too large")

// decode reads a single JSON object from the request body into dst.
func (h *Handler) decode(w http.ResponseWriter, r *http.Request, dst any) error {
	body := http.MaxBytesReader(w, r.Body, h.maxBody)
	defer body.Close()

	dec := json.NewDecoder(body)
	if err := dec.Decode(dst); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return errBodyTooLarge
		}
		return fmt.Errorf("invalid request body: %w", err)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return errors.New("invalid request body: trailing data")
	}
	return nil
}

// writeDecodeError maps a decode failure to its status code.
func writeDecodeError(w http.ResponseWriter, err error) {
	if errors.Is(err, errBodyTooLarge) {
		Error(w, http.StatusRequestEntityTooLarge, err.Error())
		return
	}
	Error(w, http.StatusBadRequest, "invalid request body")
}

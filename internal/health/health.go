// Package health exposes liveness and readiness over HTTP and the standard
// gRPC health service.
package health

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/ashureev/uiforge/internal/api"
	"github.com/ashureev/uiforge/internal/llm"
	"github.com/go-chi/chi/v5"
)

const defaultCheckTimeout = 5 * time.Second

// Pinger reports whether a dependency is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// BreakerState reports the LLM circuit breaker state.
type BreakerState interface {
	State() llm.State
}

// ConnCounter reports open websocket connections.
type ConnCounter interface {
	Count() int
}

// Handler serves the HTTP health endpoints.
type Handler struct {
	db      Pinger
	breaker BreakerState
	conns   ConnCounter
	timeout time.Duration
	now     func() time.Time
}

// NewHandler creates a health handler. db and breaker may be nil.
func NewHandler(db Pinger, breaker BreakerState) *Handler {
	return &Handler{
		db:      db,
		breaker: breaker,
		timeout: defaultCheckTimeout,
		now:     time.Now,
	}
}

// SetConnections includes the open connection count in readiness output.
func (h *Handler) SetConnections(c ConnCounter) {
	h.conns = c
}

// Live reports that the process is up.
func (h *Handler) Live(w http.ResponseWriter, _ *http.Request) {
	api.JSON(w, http.StatusOK, map[string]string{
		"status":    "ok",
		"timestamp": h.now().UTC().Format(time.RFC3339),
	})
}

// Ready checks dependencies. An unreachable database fails readiness; an
// open breaker only marks it degraded.
func (h *Handler) Ready(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	checks := map[string]string{"api": "ok"}
	status := "ok"
	code := http.StatusOK

	if h.db != nil {
		if err := h.db.Ping(ctx); err != nil {
			slog.Error("Readiness check failed", "error", err)
			checks["database"] = "unreachable"
			status = "unavailable"
			code = http.StatusServiceUnavailable
		} else {
			checks["database"] = "ok"
		}
	}

	if h.breaker != nil {
		state := h.breaker.State()
		checks["llm"] = state.String()
		if state == llm.StateOpen && code == http.StatusOK {
			status = "degraded"
		}
	}

	resp := map[string]any{
		"status": status,
		"checks": checks,
	}
	if h.conns != nil {
		resp["connections"] = h.conns.Count()
	}
	api.JSON(w, code, resp)
}

// RegisterRoutes registers /health and /health/ready.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/health", h.Live)
	r.Get("/health/ready", h.Ready)
}

package socket

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/ashureev/uiforge/internal/domain"
	"github.com/ashureev/uiforge/internal/generator"
	"github.com/ashureev/uiforge/internal/identity"
	"github.com/ashureev/uiforge/internal/metrics"
	"github.com/coder/websocket"
	"github.com/google/uuid"
)

const writeTimeout = 10 * time.Second

// Error messages sent with EventError.
const (
	msgGenerateFailed = "Failed to generate component"
	msgUpdateFailed   = "Failed to update component"
	msgInvalidMessage = "Invalid message"
	msgRateLimited    = "Rate limit exceeded, please slow down"
)

// Generator is the part of the generation service the socket channel uses.
type Generator interface {
	Generate(ctx context.Context, req domain.GenerationRequest) (domain.GenerationResult, error)
	Refine(ctx context.Context, req domain.RefinementRequest) (domain.RefinementResult, error)
}

// Limiter throttles requests per key.
type Limiter interface {
	Allow(key string) bool
}

// Handler upgrades HTTP requests to the generation channel.
type Handler struct {
	gen           Generator
	hub           *Hub
	limiter       Limiter
	metrics       *metrics.Metrics
	allowedOrigin string
	isDev         bool
}

// NewHandler creates a new socket handler.
func NewHandler(gen Generator, hub *Hub, allowedOrigin string, isDev bool) *Handler {
	return &Handler{
		gen:           gen,
		hub:           hub,
		allowedOrigin: allowedOrigin,
		isDev:         isDev,
	}
}

// SetLimiter throttles generate and update events per client.
func (h *Handler) SetLimiter(l Limiter) {
	h.limiter = l
}

// SetMetrics records connection counts.
func (h *Handler) SetMetrics(m *metrics.Metrics) {
	h.metrics = m
}

// ServeHTTP implements http.Handler for WebSocket upgrade.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	clientID := identity.ClientIDFromContext(r.Context())
	connID := uuid.NewString()

	if !h.checkOrigin(r) {
		http.Error(w, "origin not allowed", http.StatusForbidden)
		return
	}

	ws, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: []string{"*"},
	})
	if err != nil {
		slog.Error("Failed to accept WebSocket", "error", err, "client_id", clientID)
		return
	}
	defer func() {
		if closeErr := ws.Close(websocket.StatusNormalClosure, "session ended"); closeErr != nil {
			slog.Debug("Failed to close websocket", "error", closeErr, "client_id", clientID)
		}
	}()
	ws.SetReadLimit(maxMessageSize)

	h.hub.Register(clientID, connID, ws)
	defer h.hub.Unregister(clientID, connID, ws)
	h.metrics.ConnectionOpened()
	defer h.metrics.ConnectionClosed()

	slog.Info("Client connected", "client_id", clientID, "conn_id", connID, "ip", identity.IPFromRequest(r))

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	var wg sync.WaitGroup
	h.readLoop(ctx, ws, clientID, &wg)
	cancel()
	wg.Wait()

	slog.Info("Client disconnected", "client_id", clientID, "conn_id", connID)
}

func (h *Handler) checkOrigin(r *http.Request) bool {
	if h.isDev {
		return true
	}
	origin := r.Header.Get("Origin")
	if origin == "" || h.allowedOrigin == "" || h.allowedOrigin == "*" {
		return true
	}
	if origin == h.allowedOrigin {
		return true
	}
	slog.Warn("WebSocket origin rejected", "origin", origin, "allowed", h.allowedOrigin)
	return false
}

// readLoop dispatches events until the connection closes. Generate and
// update requests run concurrently, tracked by wg.
func (h *Handler) readLoop(ctx context.Context, ws *websocket.Conn, clientID string, wg *sync.WaitGroup) {
	for {
		_, message, err := ws.Read(ctx)
		if err != nil {
			if websocket.CloseStatus(err) != -1 {
				slog.Debug("WebSocket closed by client", "client_id", clientID)
			} else if ctx.Err() == nil {
				slog.Warn("WebSocket read error", "error", err, "client_id", clientID)
			}
			return
		}

		env, err := decode(message)
		if err != nil {
			h.emit(ws, EventError, "", domain.ErrorEvent{Message: msgInvalidMessage, Code: "invalid_message"})
			continue
		}

		switch env.Event {
		case EventGenerate:
			var req domain.GenerationRequest
			if err := json.Unmarshal(env.Data, &req); err != nil {
				h.emit(ws, EventError, env.ID, domain.ErrorEvent{Message: msgGenerateFailed, Code: "invalid_request"})
				continue
			}
			wg.Add(1)
			go func() {
				defer wg.Done()
				h.generate(ctx, ws, clientID, env.ID, req)
			}()
		case EventUpdate:
			var req domain.RefinementRequest
			if err := json.Unmarshal(env.Data, &req); err != nil {
				h.emit(ws, EventError, env.ID, domain.ErrorEvent{Message: msgUpdateFailed, Code: "invalid_request"})
				continue
			}
			wg.Add(1)
			go func() {
				defer wg.Done()
				h.update(ctx, ws, clientID, env.ID, req)
			}()
		case EventPing:
			h.emit(ws, EventPong, env.ID, nil)
		default:
			h.emit(ws, EventError, env.ID, domain.ErrorEvent{Message: msgInvalidMessage, Code: "unknown_event"})
		}
	}
}

func (h *Handler) generate(ctx context.Context, ws *websocket.Conn, clientID, id string, req domain.GenerationRequest) {
	if !h.allow(clientID) {
		h.emit(ws, EventError, id, domain.ErrorEvent{Message: msgRateLimited, Code: "rate_limited"})
		return
	}

	h.emit(ws, EventProgress, id, domain.ProgressUpdate{Status: domain.StatusProcessing, Message: "Analyzing requirements..."})

	fw, err := domain.ParseFramework(string(req.Framework))
	if err != nil {
		h.emit(ws, EventError, id, domain.ErrorEvent{Message: msgGenerateFailed, Code: "invalid_request"})
		return
	}
	req.Framework = fw

	h.emit(ws, EventProgress, id, domain.ProgressUpdate{Status: domain.StatusGenerating, Message: "Creating component..."})

	res, err := h.gen.Generate(ctx, req)
	if err != nil {
		slog.Warn("Socket generation rejected", "error", err, "client_id", clientID)
		h.emit(ws, EventError, id, domain.ErrorEvent{Message: msgGenerateFailed, Code: "invalid_request"})
		return
	}

	h.emit(ws, EventGenerated, id, generator.NewComponent(res, fw, req.Prompt))
}

func (h *Handler) update(ctx context.Context, ws *websocket.Conn, clientID, id string, req domain.RefinementRequest) {
	if !h.allow(clientID) {
		h.emit(ws, EventError, id, domain.ErrorEvent{Message: msgRateLimited, Code: "rate_limited"})
		return
	}

	fw, err := domain.ParseFramework(string(req.Framework))
	if err != nil {
		h.emit(ws, EventError, id, domain.ErrorEvent{Message: msgUpdateFailed, Code: "invalid_request"})
		return
	}
	req.Framework = fw

	res, err := h.gen.Refine(ctx, req)
	if err != nil {
		slog.Warn("Socket update rejected", "error", err, "client_id", clientID)
		h.emit(ws, EventError, id, domain.ErrorEvent{Message: msgUpdateFailed, Code: "invalid_request"})
		return
	}

	h.emit(ws, EventUpdated, id, generator.RefinedComponent(res, fw))
}

func (h *Handler) allow(clientID string) bool {
	if h.limiter == nil {
		return true
	}
	if h.limiter.Allow(clientID) {
		return true
	}
	h.metrics.RateLimited()
	return false
}

// emit writes one event. coder/websocket allows concurrent writers.
func (h *Handler) emit(ws *websocket.Conn, event, id string, data any) {
	msg, err := encode(event, id, data)
	if err != nil {
		slog.Error("Failed to encode socket event", "error", err, "event", event)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
	defer cancel()
	if err := ws.Write(ctx, websocket.MessageText, msg); err != nil {
		slog.Debug("Failed to send socket event", "error", err, "event", event)
	}
}

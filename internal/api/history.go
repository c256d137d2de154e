package api

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/ashureev/uiforge/internal/domain"
	"github.com/ashureev/uiforge/internal/identity"
	"github.com/ashureev/uiforge/internal/store"
	"github.com/go-chi/chi/v5"
)

const defaultHistoryLimit = 20

type historyResponse struct {
	Items []*domain.GenerationRecord `json:"items"`
}

// ListHistory handles GET /history for the calling client.
func (h *Handler) ListHistory(w http.ResponseWriter, r *http.Request) {
	clientID, ok := h.historyClient(w, r)
	if !ok {
		return
	}

	limit := defaultHistoryLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			Error(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = min(n, store.MaxListLimit)
	}

	items, err := h.history.ListGenerations(r.Context(), clientID, limit)
	if err != nil {
		slog.Error("Failed to list history", "error", err, "client_id", clientID)
		Error(w, http.StatusInternalServerError, "failed to load history")
		return
	}
	if items == nil {
		items = []*domain.GenerationRecord{}
	}
	JSON(w, http.StatusOK, historyResponse{Items: items})
}

// GetHistory handles GET /history/{id}.
func (h *Handler) GetHistory(w http.ResponseWriter, r *http.Request) {
	clientID, ok := h.historyClient(w, r)
	if !ok {
		return
	}

	id := chi.URLParam(r, "id")
	rec, err := h.history.GetGeneration(r.Context(), clientID, id)
	if err != nil {
		slog.Error("Failed to load history record", "error", err, "client_id", clientID, "id", id)
		Error(w, http.StatusInternalServerError, "failed to load history")
		return
	}
	if rec == nil {
		Error(w, http.StatusNotFound, "record not found")
		return
	}
	JSON(w, http.StatusOK, rec)
}

func (h *Handler) historyClient(w http.ResponseWriter, r *http.Request) (string, bool) {
	if h.history == nil {
		Error(w, http.StatusNotFound, "history is disabled")
		return "", false
	}
	clientID := identity.ClientIDFromContext(r.Context())
	if clientID == "" {
		Error(w, http.StatusUnauthorized, "missing client identity")
		return "", false
	}
	return clientID, true
}

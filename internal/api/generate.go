package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/ashureev/uiforge/internal/convert"
	"github.com/ashureev/uiforge/internal/domain"
	"github.com/ashureev/uiforge/internal/generator"
)

type generateResponse struct {
	Success     bool             `json:"success"`
	Code        string           `json:"code"`
	Framework   domain.Framework `json:"framework"`
	Explanation string           `json:"explanation"`
	Suggestions []string         `json:"suggestions"`
}

type refineResponse struct {
	Success     bool     `json:"success"`
	Code        string   `json:"code"`
	Changes     []string `json:"changes"`
	Explanation string   `json:"explanation"`
}

type explainRequest struct {
	Code      string           `json:"code"`
	Framework domain.Framework `json:"framework"`
}

type explainResponse struct {
	Success     bool                     `json:"success"`
	Explanation domain.DesignExplanation `json:"explanation"`
	Insights    domain.LearningInsights  `json:"insights"`
}

type convertRequest struct {
	Code          string           `json:"code"`
	FromFramework domain.Framework `json:"fromFramework"`
	ToFramework   domain.Framework `json:"toFramework"`
}

type convertResponse struct {
	Code      string           `json:"code"`
	Framework domain.Framework `json:"framework"`
	Supported bool             `json:"supported"`
}

// Generate handles POST /generate.
func (h *Handler) Generate(w http.ResponseWriter, r *http.Request) {
	var req domain.GenerationRequest
	if err := h.decode(w, r, &req); err != nil {
		writeDecodeError(w, err)
		return
	}

	res, err := h.svc.Generate(r.Context(), req)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	fw, _ := domain.ParseFramework(string(req.Framework))
	JSON(w, http.StatusOK, generateResponse{
		Success:     true,
		Code:        res.Code,
		Framework:   fw,
		Explanation: res.Explanation,
		Suggestions: nonNil(res.Suggestions),
	})
}

// Refine handles POST /refine.
func (h *Handler) Refine(w http.ResponseWriter, r *http.Request) {
	var req domain.RefinementRequest
	if err := h.decode(w, r, &req); err != nil {
		writeDecodeError(w, err)
		return
	}

	res, err := h.svc.Refine(r.Context(), req)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	JSON(w, http.StatusOK, refineResponse{
		Success:     true,
		Code:        res.Code,
		Changes:     nonNil(res.Changes),
		Explanation: res.Explanation,
	})
}

// Explain handles POST /explain.
func (h *Handler) Explain(w http.ResponseWriter, r *http.Request) {
	var req explainRequest
	if err := h.decode(w, r, &req); err != nil {
		writeDecodeError(w, err)
		return
	}

	exp, err := h.svc.Explain(r.Context(), req.Code, req.Framework)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	fw, _ := domain.ParseFramework(string(req.Framework))
	JSON(w, http.StatusOK, explainResponse{
		Success:     true,
		Explanation: exp,
		Insights:    generator.Insights(fw),
	})
}

// Convert handles POST /convert.
func (h *Handler) Convert(w http.ResponseWriter, r *http.Request) {
	var req convertRequest
	if err := h.decode(w, r, &req); err != nil {
		writeDecodeError(w, err)
		return
	}
	if req.Code == "" {
		Error(w, http.StatusBadRequest, generator.ErrEmptyCode.Error())
		return
	}

	out, err := h.svc.Convert(req.Code, req.FromFramework, req.ToFramework)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	from, _ := domain.ParseFramework(string(req.FromFramework))
	to, _ := domain.ParseFramework(string(req.ToFramework))
	JSON(w, http.StatusOK, convertResponse{
		Code:      out,
		Framework: to,
		Supported: convert.Supported(from, to),
	})
}

// writeServiceError maps validation errors to 400 and anything else to 500.
func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, generator.ErrEmptyPrompt),
		errors.Is(err, generator.ErrEmptyCode),
		errors.Is(err, generator.ErrEmptyFeedback),
		errors.Is(err, generator.ErrUnsupportedFramework):
		Error(w, http.StatusBadRequest, err.Error())
	default:
		slog.Error("Pipeline request failed", "error", err)
		Error(w, http.StatusInternalServerError, "internal error")
	}
}

func nonNil(list []string) []string {
	if list == nil {
		return []string{}
	}
	return list
}

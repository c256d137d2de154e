package api

import (
	"net/http"

	"github.com/ashureev/uiforge/internal/convert"
	"github.com/ashureev/uiforge/internal/domain"
	"github.com/ashureev/uiforge/internal/generator"
)

type exportRequest struct {
	Name      string           `json:"name"`
	Code      string           `json:"code"`
	Framework domain.Framework `json:"framework"`
	Options   convert.Options  `json:"options"`
}

type exportResponse struct {
	Files []convert.File `json:"files"`
}

// Export handles POST /export.
func (h *Handler) Export(w http.ResponseWriter, r *http.Request) {
	var req exportRequest
	if err := h.decode(w, r, &req); err != nil {
		writeDecodeError(w, err)
		return
	}
	if req.Code == "" {
		Error(w, http.StatusBadRequest, generator.ErrEmptyCode.Error())
		return
	}
	from, err := domain.ParseFramework(string(req.Framework))
	if err != nil {
		Error(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.Options.Framework != "" {
		to, err := domain.ParseFramework(string(req.Options.Framework))
		if err != nil {
			Error(w, http.StatusBadRequest, err.Error())
			return
		}
		req.Options.Framework = to
	}

	files, err := convert.Export(req.Name, req.Code, from, req.Options)
	if err != nil {
		Error(w, http.StatusBadRequest, err.Error())
		return
	}
	JSON(w, http.StatusOK, exportResponse{Files: files})
}

package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"car-advisor/domain"
	"car-advisor/service"
)

type ExplainHandler struct {
	service *service.ExplainerService
	logger  *slog.Logger
}

func NewExplainHandler(service *service.ExplainerService, logger *slog.Logger) *ExplainHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &ExplainHandler{service: service, logger: logger}
}

// Explain handles POST /decision/explain. The supplied result is validated
// field by field before any narrative is generated over it.
func (h *ExplainHandler) Explain(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed", "")
		return
	}

	contentType := r.Header.Get("Content-Type")
	if !strings.Contains(contentType, "application/json") {
		writeError(w, http.StatusUnsupportedMediaType, "Content-Type must be application/json", "")
		return
	}

	var req service.ExplainRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("bad explain request body", "error", err)
		writeError(w, http.StatusBadRequest, "invalid request body", "")
		return
	}

	if err := service.ValidateResultShape(req.Result); err != nil {
		var vErr *domain.ValidationError
		if errors.As(err, &vErr) {
			writeError(w, http.StatusBadRequest, vErr.Error(), vErr.Field)
			return
		}
		writeError(w, http.StatusBadRequest, err.Error(), "")
		return
	}

	writeJSON(w, h.logger, h.service.Explain(req))
}

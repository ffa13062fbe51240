package http

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"car-advisor/domain"
	"car-advisor/service"
)

// EvaluateRequest is the wire shape of one decision request.
type EvaluateRequest struct {
	User  domain.UserProfile   `json:"user"`
	Buy   domain.BuyScenario   `json:"buy"`
	Lease domain.LeaseScenario `json:"lease"`
}

type errorResponse struct {
	Error string `json:"error"`
	Field string `json:"field,omitempty"`
}

type DecisionHandler struct {
	service *service.DecisionService
	logger  *slog.Logger
}

func NewDecisionHandler(service *service.DecisionService, logger *slog.Logger) *DecisionHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &DecisionHandler{service: service, logger: logger}
}

// Evaluate handles POST /decision/evaluate.
func (h *DecisionHandler) Evaluate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed", "")
		return
	}

	contentType := r.Header.Get("Content-Type")
	if !strings.Contains(contentType, "application/json") {
		writeError(w, http.StatusUnsupportedMediaType, "Content-Type must be application/json", "")
		return
	}

	var req EvaluateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("bad evaluate request body", "error", err)
		writeError(w, http.StatusBadRequest, "invalid request body", "")
		return
	}

	result, err := h.service.Evaluate(req.User, req.Buy, req.Lease)
	if err != nil {
		var vErr *domain.ValidationError
		if errors.As(err, &vErr) {
			writeError(w, http.StatusBadRequest, vErr.Error(), vErr.Field)
			return
		}
		h.logger.Error("evaluate failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error", "")
		return
	}

	writeJSON(w, h.logger, result)
}

func writeError(w http.ResponseWriter, status int, msg, field string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(errorResponse{Error: msg, Field: field})
}

// writeJSON encodes into a buffer first so a failed encode never leaves a
// half-written 200 response.
func writeJSON(w http.ResponseWriter, logger *slog.Logger, v any) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(v); err != nil {
		logger.Error("encoding response failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error", "")
		return
	}
	w.Header().Set("Content-Type", "application/json")
	if _, err := buf.WriteTo(w); err != nil {
		logger.Warn("writing response failed", "error", err)
	}
}

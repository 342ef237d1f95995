package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/respondeo/internal/interfaces"
	"github.com/ternarybob/respondeo/internal/models"
)

// AskHandler handles question-answering HTTP requests
type AskHandler struct {
	answerService interfaces.AnswerService
	logger        arbor.ILogger
}

// NewAskHandler creates a new ask handler
func NewAskHandler(answerService interfaces.AnswerService, logger arbor.ILogger) *AskHandler {
	return &AskHandler{
		answerService: answerService,
		logger:        logger,
	}
}

// AskRequest is the body of POST /api/ask
type AskRequest struct {
	TenantID string `json:"tenant_id"`
	Question string `json:"question"`
}

// AskHandler handles POST /api/ask requests
func (h *AskHandler) AskHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "POST") {
		return
	}

	var req AskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Error().Err(err).Msg("Failed to decode ask request")
		WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.TenantID == "" {
		WriteError(w, http.StatusBadRequest, "tenant_id field is required")
		return
	}
	if req.Question == "" {
		WriteError(w, http.StatusBadRequest, "question field is required")
		return
	}

	h.logger.Info().
		Str("tenant_id", req.TenantID).
		Int("question_length", len(req.Question)).
		Msg("Processing question")

	answer, err := h.answerService.Answer(r.Context(), req.TenantID, req.Question)
	if err != nil {
		if errors.Is(err, models.ErrTenantNotFound) || errors.Is(err, models.ErrIndexCorrupt) {
			WriteError(w, http.StatusNotFound, "No index exists for this tenant. Run ingestion first.")
			return
		}
		h.logger.Error().Err(err).Str("tenant_id", req.TenantID).Msg("Failed to answer question")
		WriteError(w, http.StatusInternalServerError, "Failed to generate answer: "+err.Error())
		return
	}

	WriteJSON(w, http.StatusOK, answer)
}

package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/respondeo/internal/interfaces"
	"github.com/ternarybob/respondeo/internal/models"
)

// IngestHandler handles ingestion HTTP requests
type IngestHandler struct {
	ingestService interfaces.IngestService
	logger        arbor.ILogger
}

// NewIngestHandler creates a new ingest handler
func NewIngestHandler(ingestService interfaces.IngestService, logger arbor.ILogger) *IngestHandler {
	return &IngestHandler{
		ingestService: ingestService,
		logger:        logger,
	}
}

// IngestRequest is the body of POST /api/ingest
type IngestRequest struct {
	TenantID string `json:"tenant_id"`
	// Wait blocks the request until ingestion completes and returns the
	// run summary. When false the run happens in the background.
	Wait bool `json:"wait,omitempty"`
}

// IngestHandler handles POST /api/ingest requests
func (h *IngestHandler) IngestHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "POST") {
		return
	}

	var req IngestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Error().Err(err).Msg("Failed to decode ingest request")
		WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.TenantID == "" {
		WriteError(w, http.StatusBadRequest, "tenant_id field is required")
		return
	}

	if h.ingestService.Ingesting(req.TenantID) {
		WriteError(w, http.StatusConflict, "Ingestion already running for this tenant")
		return
	}

	if req.Wait {
		result, err := h.ingestService.IngestTenant(r.Context(), req.TenantID)
		if err != nil {
			h.writeIngestError(w, req.TenantID, err)
			return
		}
		WriteJSON(w, http.StatusOK, result)
		return
	}

	go func() {
		// Detached from the request; a closed client connection must not
		// abort a rebuild mid-flight.
		result, err := h.ingestService.IngestTenant(context.Background(), req.TenantID)
		if err != nil {
			h.logger.Error().Err(err).Str("tenant_id", req.TenantID).Msg("Background ingestion failed")
			return
		}
		h.logger.Info().
			Str("tenant_id", result.TenantID).
			Int("documents", result.Documents).
			Int("chunks", result.Chunks).
			Msg("Background ingestion complete")
	}()

	WriteStarted(w, "Ingestion started for tenant "+req.TenantID)
}

// StatusHandler handles GET /api/ingest/status requests
func (h *IngestHandler) StatusHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "GET") {
		return
	}

	tenantID := r.URL.Query().Get("tenant_id")
	if tenantID == "" {
		WriteError(w, http.StatusBadRequest, "tenant_id query parameter is required")
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"tenant_id": tenantID,
		"ingesting": h.ingestService.Ingesting(tenantID),
	})
}

func (h *IngestHandler) writeIngestError(w http.ResponseWriter, tenantID string, err error) {
	if errors.Is(err, models.ErrNoDocuments) {
		WriteError(w, http.StatusNotFound, "No PDF documents found for this tenant")
		return
	}
	var failErr *models.IngestFailedError
	if errors.As(err, &failErr) {
		h.logger.Error().Err(err).Str("tenant_id", tenantID).Msg("Ingestion failed, no readable documents")
		WriteError(w, http.StatusBadGateway, "No document could be read: "+err.Error())
		return
	}
	var embedErr *models.EmbeddingError
	if errors.As(err, &embedErr) {
		h.logger.Error().Err(err).Str("tenant_id", tenantID).Msg("Ingestion failed during embedding")
		WriteError(w, http.StatusBadGateway, "Embedding provider failed: "+err.Error())
		return
	}
	h.logger.Error().Err(err).Str("tenant_id", tenantID).Msg("Ingestion failed")
	WriteError(w, http.StatusInternalServerError, "Ingestion failed: "+err.Error())
}

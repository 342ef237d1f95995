package handlers

import (
	"net/http"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/respondeo/internal/common"
	"github.com/ternarybob/respondeo/internal/interfaces"
)

// StatusHandler reports aggregate application status
type StatusHandler struct {
	store  interfaces.IndexStore
	cache  interfaces.IndexCache
	ingest interfaces.IngestService
	logger arbor.ILogger
}

// NewStatusHandler creates a new status handler
func NewStatusHandler(store interfaces.IndexStore, cache interfaces.IndexCache, ingest interfaces.IngestService, logger arbor.ILogger) *StatusHandler {
	return &StatusHandler{
		store:  store,
		cache:  cache,
		ingest: ingest,
		logger: logger,
	}
}

// GetStatusHandler handles GET /api/status requests
func (h *StatusHandler) GetStatusHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "GET") {
		return
	}

	tenants, err := h.store.ListTenants()
	if err != nil {
		h.logger.Error().Err(err).Msg("Failed to list tenants for status")
		WriteError(w, http.StatusInternalServerError, "Failed to read index store")
		return
	}

	ingesting := make([]string, 0)
	for _, id := range tenants {
		if h.ingest.Ingesting(id) {
			ingesting = append(ingesting, id)
		}
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"version":         common.GetVersion(),
		"indexed_tenants": len(tenants),
		"cached_indexes":  h.cache.Len(),
		"ingesting":       ingesting,
	})
}

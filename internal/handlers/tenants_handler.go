package handlers

import (
	"net/http"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/respondeo/internal/interfaces"
)

// TenantsHandler reports which tenants have indexed content
type TenantsHandler struct {
	store      interfaces.IndexStore
	docStorage interfaces.DocumentStorage
	logger     arbor.ILogger
}

// NewTenantsHandler creates a new tenants handler
func NewTenantsHandler(store interfaces.IndexStore, docStorage interfaces.DocumentStorage, logger arbor.ILogger) *TenantsHandler {
	return &TenantsHandler{
		store:      store,
		docStorage: docStorage,
		logger:     logger,
	}
}

// TenantInfo is one row of the tenant listing.
type TenantInfo struct {
	TenantID  string `json:"tenant_id"`
	Documents int    `json:"documents"`
	Indexed   bool   `json:"indexed"`
}

// ListHandler handles GET /api/tenants requests. It merges tenants known to
// the document registry with tenants holding a persisted index, so a tenant
// whose ingestion failed before persisting still shows up.
func (h *TenantsHandler) ListHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "GET") {
		return
	}

	indexed, err := h.store.ListTenants()
	if err != nil {
		h.logger.Error().Err(err).Msg("Failed to list indexed tenants")
		WriteError(w, http.StatusInternalServerError, "Failed to list tenants")
		return
	}

	registered, err := h.docStorage.ListTenantIDs()
	if err != nil {
		h.logger.Error().Err(err).Msg("Failed to list registered tenants")
		WriteError(w, http.StatusInternalServerError, "Failed to list tenants")
		return
	}

	indexedSet := make(map[string]bool, len(indexed))
	for _, id := range indexed {
		indexedSet[id] = true
	}

	seen := make(map[string]bool)
	tenants := make([]TenantInfo, 0, len(registered)+len(indexed))
	for _, id := range append(registered, indexed...) {
		if seen[id] {
			continue
		}
		seen[id] = true

		count, err := h.docStorage.CountDocuments(id)
		if err != nil {
			h.logger.Warn().Err(err).Str("tenant_id", id).Msg("Failed to count documents")
		}
		tenants = append(tenants, TenantInfo{
			TenantID:  id,
			Documents: count,
			Indexed:   indexedSet[id],
		})
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"count":   len(tenants),
		"tenants": tenants,
	})
}

// DocumentsHandler handles GET /api/documents?tenant_id={id} requests
func (h *TenantsHandler) DocumentsHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "GET") {
		return
	}

	tenantID := r.URL.Query().Get("tenant_id")
	if tenantID == "" {
		WriteError(w, http.StatusBadRequest, "tenant_id query parameter is required")
		return
	}

	docs, err := h.docStorage.ListDocuments(tenantID)
	if err != nil {
		h.logger.Error().Err(err).Str("tenant_id", tenantID).Msg("Failed to list documents")
		WriteError(w, http.StatusInternalServerError, "Failed to list documents")
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"tenant_id": tenantID,
		"count":     len(docs),
		"documents": docs,
	})
}

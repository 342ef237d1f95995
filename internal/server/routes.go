package server

import (
	"net/http"
)

// setupRoutes configures all HTTP routes
func (s *Server) setupRoutes() *http.ServeMux {
	mux := http.NewServeMux()

	// API routes - Question answering
	mux.HandleFunc("/api/ask", s.app.AskHandler.AskHandler) // POST

	// API routes - Ingestion
	mux.HandleFunc("/api/ingest", s.app.IngestHandler.IngestHandler)       // POST
	mux.HandleFunc("/api/ingest/status", s.app.IngestHandler.StatusHandler) // GET ?tenant_id=

	// API routes - Tenants and documents
	mux.HandleFunc("/api/tenants", s.app.TenantsHandler.ListHandler)        // GET
	mux.HandleFunc("/api/documents", s.app.TenantsHandler.DocumentsHandler) // GET ?tenant_id=

	// API routes - System
	mux.HandleFunc("/api/status", s.app.StatusHandler.GetStatusHandler)
	mux.HandleFunc("/api/version", s.app.APIHandler.VersionHandler)
	mux.HandleFunc("/api/health", s.app.APIHandler.HealthHandler)
	mux.HandleFunc("/api/health/llm", s.app.APIHandler.LLMHealthHandler)

	// 404 handler for unmatched API routes
	mux.HandleFunc("/api/", s.app.APIHandler.NotFoundHandler)

	return mux
}

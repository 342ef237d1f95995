package interfaces

import (
	"context"

	"github.com/ternarybob/respondeo/internal/models"
)

// IngestService runs the extract → chunk → build → persist pipeline for a
// tenant's documents. Ingestions for the same tenant are serialized;
// different tenants may ingest in parallel. After persisting a rebuilt
// index the service invalidates the tenant's cache entry so readers never
// see stale in-memory data.
type IngestService interface {
	// IngestTenant processes every PDF in the tenant's document directory.
	IngestTenant(ctx context.Context, tenantID string) (*models.IngestResult, error)

	// Ingesting reports whether an ingestion is currently running for the tenant.
	Ingesting(tenantID string) bool
}

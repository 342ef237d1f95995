// -----------------------------------------------------------------------
// Index Interfaces - Per-tenant vector index build, persistence, caching
// -----------------------------------------------------------------------

package interfaces

import (
	"context"

	"github.com/ternarybob/respondeo/internal/models"
)

// IndexBuilder turns chunks into a searchable tenant index by embedding each
// chunk and collecting the (chunk, vector) pairs. Building is all-or-nothing
// per tenant: an embedding failure after bounded retries fails the build and
// leaves any previously persisted index untouched.
type IndexBuilder interface {
	Build(ctx context.Context, tenantID string, chunks []models.Chunk) (*models.TenantIndex, error)
}

// IndexStore is the durable, per-tenant persistence of built indexes.
// Writes are atomic from the reader's perspective: a crash mid-write never
// leaves a corrupt index observable by subsequent loads.
type IndexStore interface {
	// Persist writes the index under the tenant's storage location,
	// replacing any prior version atomically.
	Persist(tenantID string, idx *models.TenantIndex) error

	// Load reads the tenant's persisted index. Returns
	// models.ErrTenantNotFound when none exists; a corrupt payload is
	// logged and surfaced as models.ErrIndexCorrupt (which callers may
	// treat as not-found).
	Load(tenantID string) (*models.TenantIndex, error)

	// ListTenants enumerates tenant ids with a persisted index.
	ListTenants() ([]string, error)
}

// IndexCache is the bounded in-memory pool of loaded tenant indexes with
// least-recently-used eviction. Eviction drops only the in-memory copy; the
// on-disk copy persists until explicitly rebuilt. The cache's internal lock
// covers pointer and recency updates only; loading from the store happens
// outside it.
type IndexCache interface {
	// Get returns the tenant's index, loading from the store on miss and
	// evicting the least recently used entry at capacity. Returns
	// models.ErrTenantNotFound when the store has none.
	Get(ctx context.Context, tenantID string) (*models.TenantIndex, error)

	// Invalidate removes a tenant's entry so the next Get reloads the
	// fresh on-disk version. Required after every rebuild.
	Invalidate(tenantID string)

	// Len reports the number of resident entries.
	Len() int
}

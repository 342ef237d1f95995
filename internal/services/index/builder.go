// -----------------------------------------------------------------------
// Index Builder - Turn chunks into a searchable per-tenant vector index
// -----------------------------------------------------------------------

package index

import (
	"context"
	"time"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/respondeo/internal/interfaces"
	"github.com/ternarybob/respondeo/internal/models"
)

// Builder assembles a TenantIndex by embedding every chunk. All-or-nothing:
// the embedding service aborts the batch on the first chunk that exhausts
// its retries, so a partially embedded corpus never becomes an index.
type Builder struct {
	embedder interfaces.EmbeddingService
	logger   arbor.ILogger
}

var _ interfaces.IndexBuilder = (*Builder)(nil)

// NewBuilder creates an index builder backed by the given embedding service.
func NewBuilder(embedder interfaces.EmbeddingService, logger arbor.ILogger) *Builder {
	return &Builder{
		embedder: embedder,
		logger:   logger,
	}
}

// Build embeds the chunks and assembles the tenant's index. An empty chunk
// slice yields a valid empty index; answering against it short-circuits with
// the no-content response rather than calling the language model.
func (b *Builder) Build(ctx context.Context, tenantID string, chunks []models.Chunk) (*models.TenantIndex, error) {
	start := time.Now()

	indexed, err := b.embedder.EmbedChunks(ctx, tenantID, chunks)
	if err != nil {
		return nil, err
	}

	idx := &models.TenantIndex{
		TenantID:  tenantID,
		Model:     b.embedder.ModelName(),
		Dimension: b.embedder.Dimension(),
		Chunks:    indexed,
		BuiltAt:   time.Now(),
	}

	b.logger.Info().
		Str("tenant_id", tenantID).
		Int("chunks", idx.Len()).
		Str("model", idx.Model).
		Dur("duration", time.Since(start)).
		Msg("Built tenant index")

	return idx, nil
}

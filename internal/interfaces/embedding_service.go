package interfaces

import (
	"context"

	"github.com/ternarybob/respondeo/internal/models"
)

// EmbeddingService generates vector embeddings for chunks and queries,
// retrying individual calls with bounded attempts. Chunk embedding is
// all-or-nothing: exhausting retries for any chunk fails the whole batch
// (as *models.EmbeddingError).
type EmbeddingService interface {
	// Embed a single text
	GenerateEmbedding(ctx context.Context, text string) ([]float32, error)

	// Embed every chunk in order, pairing each with its vector
	EmbedChunks(ctx context.Context, tenantID string, chunks []models.Chunk) ([]models.IndexedChunk, error)

	// Embed a search query (same model/space as chunk embedding)
	GenerateQueryEmbedding(ctx context.Context, query string) ([]float32, error)

	// Get model information
	ModelName() string
	Dimension() int
}

package embeddings

import (
	"context"
	"fmt"
	"time"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/respondeo/internal/interfaces"
	"github.com/ternarybob/respondeo/internal/models"
	"github.com/ternarybob/respondeo/internal/services/llm"
)

// Service implements EmbeddingService interface
type Service struct {
	llmService interfaces.LLMService
	retry      *llm.RetryConfig
	dimension  int
	logger     arbor.ILogger
}

var _ interfaces.EmbeddingService = (*Service)(nil)

// NewService creates a new embedding service
func NewService(llmService interfaces.LLMService, retry *llm.RetryConfig, dimension int, logger arbor.ILogger) interfaces.EmbeddingService {
	if retry == nil {
		retry = llm.NewDefaultRetryConfig()
	}
	return &Service{
		llmService: llmService,
		retry:      retry,
		dimension:  dimension,
		logger:     logger,
	}
}

// GenerateEmbedding creates a vector embedding for text, retrying transient
// failures up to the configured attempt bound.
func (s *Service) GenerateEmbedding(ctx context.Context, text string) ([]float32, error) {
	if text == "" {
		return nil, fmt.Errorf("text cannot be empty")
	}

	start := time.Now()
	embedding, err := s.embedWithRetry(ctx, text)
	if err != nil {
		return nil, err
	}

	if len(embedding) == 0 {
		return nil, fmt.Errorf("LLM service returned empty embedding")
	}

	s.logger.Debug().
		Int("embedding_dim", len(embedding)).
		Dur("duration", time.Since(start)).
		Msg("Generated embedding")

	return embedding, nil
}

// EmbedChunks embeds every chunk in order, pairing each with its vector.
// All-or-nothing: a chunk whose embedding fails after bounded retries aborts
// the batch with *models.EmbeddingError, leaving no partial result for the
// caller to mistake for a complete index.
func (s *Service) EmbedChunks(ctx context.Context, tenantID string, chunks []models.Chunk) ([]models.IndexedChunk, error) {
	if len(chunks) == 0 {
		return []models.IndexedChunk{}, nil
	}

	start := time.Now()
	s.logger.Info().
		Str("tenant_id", tenantID).
		Int("chunk_count", len(chunks)).
		Msg("Embedding chunks")

	indexed := make([]models.IndexedChunk, 0, len(chunks))
	for _, chunk := range chunks {
		vector, err := s.embedWithRetry(ctx, chunk.Text)
		if err != nil {
			return nil, &models.EmbeddingError{
				TenantID: tenantID,
				ChunkSeq: chunk.Seq,
				Attempts: s.retry.MaxAttempts,
				Err:      err,
			}
		}
		indexed = append(indexed, models.IndexedChunk{Chunk: chunk, Vector: vector})
	}

	s.logger.Info().
		Str("tenant_id", tenantID).
		Int("chunk_count", len(indexed)).
		Dur("duration", time.Since(start)).
		Msg("Embedded all chunks")

	return indexed, nil
}

// GenerateQueryEmbedding embeds a search query. Same model and vector space
// as chunk embedding; a query embedded in a different space would score
// garbage similarities.
func (s *Service) GenerateQueryEmbedding(ctx context.Context, query string) ([]float32, error) {
	return s.GenerateEmbedding(ctx, query)
}

// ModelName returns the embedding model name in use.
func (s *Service) ModelName() string {
	return s.llmService.EmbeddingModel()
}

// Dimension returns the embedding vector dimension.
func (s *Service) Dimension() int {
	return s.dimension
}

// embedWithRetry calls the LLM service with bounded retries. Rate limit
// errors wait for the API-suggested delay; other errors use exponential
// backoff.
func (s *Service) embedWithRetry(ctx context.Context, text string) ([]float32, error) {
	var lastErr error

	for attempt := 0; attempt < s.retry.MaxAttempts; attempt++ {
		if attempt > 0 {
			apiDelay := time.Duration(0)
			if llm.IsRateLimitError(lastErr) {
				apiDelay = llm.ExtractRetryDelay(lastErr)
			}
			backoff := s.retry.CalculateBackoff(attempt-1, apiDelay)

			s.logger.Warn().
				Err(lastErr).
				Int("attempt", attempt).
				Dur("backoff", backoff).
				Msg("Embedding call failed, retrying")

			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(backoff):
			}
		}

		embedding, err := s.llmService.Embed(ctx, text)
		if err == nil {
			return embedding, nil
		}
		lastErr = err

		// Context errors are not transient
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
	}

	return nil, fmt.Errorf("embedding failed after %d attempts: %w", s.retry.MaxAttempts, lastErr)
}

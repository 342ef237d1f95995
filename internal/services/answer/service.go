// -----------------------------------------------------------------------
// Answer Service - Question answering over a tenant's indexed documents
// -----------------------------------------------------------------------

package answer

import (
	"context"
	"fmt"
	"time"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/respondeo/internal/interfaces"
	"github.com/ternarybob/respondeo/internal/models"
)

// Service answers questions by embedding the question, retrieving the most
// similar chunks from the tenant's cached index and asking the chat model to
// answer from that context.
type Service struct {
	cache    interfaces.IndexCache
	embedder interfaces.EmbeddingService
	llm      interfaces.LLMService
	topK     int
	logger   arbor.ILogger
}

var _ interfaces.AnswerService = (*Service)(nil)

// NewService creates an answer service. topK defaults to 4 when non-positive.
func NewService(cache interfaces.IndexCache, embedder interfaces.EmbeddingService, llm interfaces.LLMService, topK int, logger arbor.ILogger) *Service {
	if topK <= 0 {
		topK = 4
	}
	return &Service{
		cache:    cache,
		embedder: embedder,
		llm:      llm,
		topK:     topK,
		logger:   logger,
	}
}

// Answer resolves the tenant's index and produces an answer to the question.
// A tenant with no persisted index surfaces models.ErrTenantNotFound so the
// caller can trigger ingestion; an empty index short-circuits with the fixed
// no-content answer without invoking the language model.
func (s *Service) Answer(ctx context.Context, tenantID, question string) (*models.Answer, error) {
	if tenantID == "" {
		return nil, fmt.Errorf("tenant ID is required")
	}
	if question == "" {
		return nil, fmt.Errorf("question is required")
	}

	start := time.Now()

	idx, err := s.cache.Get(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	if idx.Len() == 0 {
		s.logger.Info().
			Str("tenant_id", tenantID).
			Msg("Index is empty, returning no-content answer")
		return &models.Answer{
			TenantID: tenantID,
			Question: question,
			Text:     NoContentAnswer,
		}, nil
	}

	queryVector, err := s.embedder.GenerateQueryEmbedding(ctx, question)
	if err != nil {
		return nil, fmt.Errorf("failed to embed question: %w", err)
	}

	results := idx.Search(queryVector, s.topK)

	response, err := s.llm.Chat(ctx, []interfaces.Message{
		{Role: "system", Content: systemPrompt},
		{Role: "user", Content: buildPrompt(question, results)},
	})
	if err != nil {
		return nil, fmt.Errorf("chat completion failed: %w", err)
	}

	s.logger.Info().
		Str("tenant_id", tenantID).
		Int("retrieved_chunks", len(results)).
		Dur("duration", time.Since(start)).
		Msg("Answered question")

	return &models.Answer{
		TenantID: tenantID,
		Question: question,
		Text:     response,
		Sources:  results,
		Model:    idx.Model,
	}, nil
}

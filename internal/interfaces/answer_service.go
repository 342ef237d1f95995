package interfaces

import (
	"context"

	"github.com/ternarybob/respondeo/internal/models"
)

// AnswerService answers natural-language questions against a tenant's index:
// cache get, question embedding, k-nearest-neighbor retrieval, prompt
// assembly, LLM completion. A tenant with no index surfaces
// models.ErrTenantNotFound so the caller can trigger ingestion; an empty
// index short-circuits with a fixed "no content indexed" answer without
// invoking the language model.
type AnswerService interface {
	Answer(ctx context.Context, tenantID, question string) (*models.Answer, error)
}

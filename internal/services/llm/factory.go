package llm

import (
	"context"
	"fmt"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/respondeo/internal/common"
	"github.com/ternarybob/respondeo/internal/interfaces"
)

// NewLLMService creates the LLM service for the configured chat provider.
//
// Embeddings always come from Gemini regardless of provider: chunk vectors
// and query vectors must live in the same embedding space, and Claude has no
// embeddings endpoint. Selecting the claude provider therefore yields a
// composite service that chats via Claude and embeds via Gemini.
func NewLLMService(cfg *common.Config, kvStorage interfaces.KeyValueStorage, logger arbor.ILogger) (interfaces.LLMService, error) {
	logger.Info().Str("chat_provider", cfg.LLM.ChatProvider).Msg("Initializing LLM service")

	gemini, err := NewGeminiService(&cfg.Gemini, kvStorage, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini service: %w", err)
	}

	switch cfg.LLM.ChatProvider {
	case "", "gemini":
		return gemini, nil

	case "claude":
		claude, err := NewClaudeService(&cfg.Claude, kvStorage, logger)
		if err != nil {
			gemini.Close()
			return nil, fmt.Errorf("failed to create Claude service: %w", err)
		}
		return &compositeService{embed: gemini, chat: claude}, nil

	default:
		gemini.Close()
		return nil, fmt.Errorf("invalid chat provider '%s': must be 'gemini' or 'claude'", cfg.LLM.ChatProvider)
	}
}

// compositeService pairs a Gemini embedder with a Claude chat model.
type compositeService struct {
	embed *GeminiService
	chat  *ClaudeService
}

var _ interfaces.LLMService = (*compositeService)(nil)

func (s *compositeService) Embed(ctx context.Context, text string) ([]float32, error) {
	return s.embed.Embed(ctx, text)
}

func (s *compositeService) Chat(ctx context.Context, messages []interfaces.Message) (string, error) {
	return s.chat.Chat(ctx, messages)
}

func (s *compositeService) EmbeddingModel() string {
	return s.embed.EmbeddingModel()
}

func (s *compositeService) HealthCheck(ctx context.Context) error {
	if err := s.embed.HealthCheck(ctx); err != nil {
		return err
	}
	return s.chat.HealthCheck(ctx)
}

func (s *compositeService) Close() error {
	if err := s.chat.Close(); err != nil {
		return err
	}
	return s.embed.Close()
}

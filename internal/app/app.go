package app

import (
	"fmt"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/respondeo/internal/common"
	"github.com/ternarybob/respondeo/internal/handlers"
	"github.com/ternarybob/respondeo/internal/interfaces"
	"github.com/ternarybob/respondeo/internal/services/answer"
	"github.com/ternarybob/respondeo/internal/services/chunker"
	"github.com/ternarybob/respondeo/internal/services/embeddings"
	"github.com/ternarybob/respondeo/internal/services/extract"
	"github.com/ternarybob/respondeo/internal/services/index"
	"github.com/ternarybob/respondeo/internal/services/ingest"
	"github.com/ternarybob/respondeo/internal/services/llm"
	"github.com/ternarybob/respondeo/internal/services/ocr"
	"github.com/ternarybob/respondeo/internal/services/scheduler"
	"github.com/ternarybob/respondeo/internal/storage/badger"
)

// App holds all application components and dependencies
type App struct {
	Config         *common.Config
	Logger         arbor.ILogger
	StorageManager interfaces.StorageManager

	// LLM providers (embedding always Gemini; chat per config)
	LLMService       interfaces.LLMService
	EmbeddingService interfaces.EmbeddingService

	// Ingestion pipeline
	Extractor    interfaces.Extractor
	Chunker      interfaces.Chunker
	IndexBuilder interfaces.IndexBuilder

	// Index persistence and retrieval
	IndexStore interfaces.IndexStore
	IndexCache interfaces.IndexCache

	AnswerService interfaces.AnswerService
	IngestService interfaces.IngestService
	Scheduler     *scheduler.Service

	// HTTP handlers
	AskHandler     *handlers.AskHandler
	IngestHandler  *handlers.IngestHandler
	TenantsHandler *handlers.TenantsHandler
	StatusHandler  *handlers.StatusHandler
	APIHandler     *handlers.APIHandler
}

// New creates and wires the application.
//
// Initialization order matters: storage first (API keys may live in the KV
// store), then LLM providers, then the pipeline services that depend on
// them, then handlers.
func New(config *common.Config, logger arbor.ILogger) (*App, error) {
	a := &App{
		Config: config,
		Logger: logger,
	}

	if err := a.initStorage(); err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}

	if err := a.initServices(); err != nil {
		a.StorageManager.Close()
		return nil, fmt.Errorf("failed to initialize services: %w", err)
	}

	a.initHandlers()

	logger.Info().
		Str("chat_provider", config.LLM.ChatProvider).
		Str("embed_model", a.LLMService.EmbeddingModel()).
		Int("cache_size", config.Index.CacheSize).
		Msg("Application initialized")

	return a, nil
}

func (a *App) initStorage() error {
	manager, err := badger.NewManager(a.Logger, &a.Config.Storage.Badger)
	if err != nil {
		return err
	}
	a.StorageManager = manager
	return nil
}

func (a *App) initServices() error {
	llmService, err := llm.NewLLMService(a.Config, a.StorageManager.KeyValueStorage(), a.Logger)
	if err != nil {
		return fmt.Errorf("llm service: %w", err)
	}
	a.LLMService = llmService

	retry := llm.NewDefaultRetryConfig()
	if a.Config.LLM.EmbedRetries > 0 {
		retry.MaxAttempts = a.Config.LLM.EmbedRetries
	}
	a.EmbeddingService = embeddings.NewService(llmService, retry, a.Config.Gemini.EmbedDimension, a.Logger)

	recognizer := ocr.NewTesseractRecognizer(a.Config.Extraction.TesseractPath, a.Config.Extraction.OCRResolutionDPI, a.Logger)
	a.Extractor = extract.NewService(&a.Config.Extraction, recognizer, a.Logger)

	a.Chunker = chunker.NewService(a.Config.Chunking.Size, a.Config.Chunking.Overlap, a.Logger)
	a.IndexBuilder = index.NewBuilder(a.EmbeddingService, a.Logger)

	store, err := index.NewFileStore(a.Config.Storage.Indexes, a.Logger)
	if err != nil {
		return fmt.Errorf("index store: %w", err)
	}
	a.IndexStore = store
	a.IndexCache = index.NewCache(store, a.Config.Index.CacheSize, a.Logger)

	a.AnswerService = answer.NewService(a.IndexCache, a.EmbeddingService, a.LLMService, a.Config.Index.TopK, a.Logger)

	a.IngestService = ingest.NewService(
		a.Config.Storage.Documents,
		a.Extractor,
		a.Chunker,
		a.IndexBuilder,
		a.IndexStore,
		a.IndexCache,
		a.StorageManager.DocumentStorage(),
		a.Logger,
	)

	a.Scheduler = scheduler.NewService(a.IngestService, a.IndexStore, a.Logger)
	if a.Config.Scheduler.Enabled {
		if err := a.Scheduler.Start(a.Config.Scheduler.Schedule); err != nil {
			return fmt.Errorf("scheduler: %w", err)
		}
	}

	return nil
}

func (a *App) initHandlers() {
	a.AskHandler = handlers.NewAskHandler(a.AnswerService, a.Logger)
	a.IngestHandler = handlers.NewIngestHandler(a.IngestService, a.Logger)
	a.TenantsHandler = handlers.NewTenantsHandler(a.IndexStore, a.StorageManager.DocumentStorage(), a.Logger)
	a.StatusHandler = handlers.NewStatusHandler(a.IndexStore, a.IndexCache, a.IngestService, a.Logger)
	a.APIHandler = handlers.NewAPIHandler(a.LLMService)
}

// Close shuts down components in reverse dependency order
func (a *App) Close() error {
	if a.Scheduler != nil {
		a.Scheduler.Stop()
	}

	if a.LLMService != nil {
		if err := a.LLMService.Close(); err != nil {
			a.Logger.Warn().Err(err).Msg("Failed to close LLM service")
		}
	}

	if a.StorageManager != nil {
		if err := a.StorageManager.Close(); err != nil {
			a.Logger.Warn().Err(err).Msg("Failed to close storage manager")
			return err
		}
	}

	a.Logger.Info().Msg("Application closed")
	return nil
}

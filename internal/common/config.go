package common

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/pelletier/go-toml/v2"

	"github.com/ternarybob/respondeo/internal/interfaces"
)

// Config represents the application configuration
type Config struct {
	Environment string           `toml:"environment"` // "development" or "production"
	Server      ServerConfig     `toml:"server"`
	Storage     StorageConfig    `toml:"storage"`
	Extraction  ExtractionConfig `toml:"extraction"`
	Chunking    ChunkingConfig   `toml:"chunking"`
	Index       IndexConfig      `toml:"index"`
	Logging     LoggingConfig    `toml:"logging"`
	Gemini      GeminiConfig     `toml:"gemini"`
	Claude      ClaudeConfig     `toml:"claude"`
	LLM         LLMConfig        `toml:"llm"`
	Scheduler   SchedulerConfig  `toml:"scheduler"`
}

type ServerConfig struct {
	Port int    `toml:"port" validate:"gt=0,lte=65535"`
	Host string `toml:"host"`
}

type StorageConfig struct {
	Badger    BadgerConfig `toml:"badger"`
	Documents string       `toml:"documents"` // root directory of per-tenant PDF folders
	Indexes   string       `toml:"indexes"`   // root directory of per-tenant index files
}

// BadgerConfig represents BadgerDB-specific configuration
type BadgerConfig struct {
	Path           string `toml:"path"`             // Database directory path
	ResetOnStartup bool   `toml:"reset_on_startup"` // Delete database on startup for clean test runs
}

// ExtractionConfig controls the text extraction strategy cascade.
type ExtractionConfig struct {
	// MinTextChars is the minimal character count (after whitespace
	// normalization) below which a page counts as empty and falls through
	// to the next strategy. Tunable; the right value depends on the corpus.
	MinTextChars int `toml:"min_text_chars" validate:"gte=0"`

	// OCREnabled gates the OCR fallback for pages the structured parsers
	// cannot read (characteristic of scanned, image-only pages).
	OCREnabled bool `toml:"ocr_enabled"`

	// TesseractPath is the OCR binary invoked per page image.
	TesseractPath string `toml:"tesseract_path"`

	// OCRResolutionDPI is the resolution hint passed to the recognizer for
	// page images lacking DPI metadata.
	OCRResolutionDPI int `toml:"ocr_resolution_dpi" validate:"gte=72"`

	// TempDir holds intermediate extraction artifacts.
	TempDir string `toml:"temp_dir"`
}

// ChunkingConfig controls passage splitting for embedding and retrieval.
type ChunkingConfig struct {
	Size    int `toml:"size" validate:"gt=0"`            // chunk size in characters
	Overlap int `toml:"overlap" validate:"gte=0"`        // overlap window in characters
}

// IndexConfig controls the index cache and retrieval behavior.
type IndexConfig struct {
	CacheSize int `toml:"cache_size" validate:"gt=0"` // max tenant indexes held in memory
	TopK      int `toml:"top_k" validate:"gt=0"`      // chunks retrieved per question
}

type LoggingConfig struct {
	Level  string   `toml:"level"`  // "debug", "info", "warn", "error"
	Output []string `toml:"output"` // "stdout", "file"
}

// GeminiConfig contains Google Gemini API configuration
type GeminiConfig struct {
	APIKey         string  `toml:"api_key"`         // Google Gemini API key
	Model          string  `toml:"model"`           // Chat model
	EmbedModel     string  `toml:"embed_model"`     // Embedding model
	EmbedDimension int     `toml:"embed_dimension"` // Embedding output dimensionality
	Timeout        string  `toml:"timeout"`         // Operation timeout as duration string
	RateLimit      string  `toml:"rate_limit"`      // Minimum interval between API calls
	Temperature    float32 `toml:"temperature"`     // Chat completion temperature
}

// ClaudeConfig contains Anthropic Claude API configuration
type ClaudeConfig struct {
	APIKey      string  `toml:"api_key"`     // Anthropic API key (ANTHROPIC_API_KEY or config)
	Model       string  `toml:"model"`       // Chat model
	MaxTokens   int     `toml:"max_tokens"`  // Response token cap
	Timeout     string  `toml:"timeout"`     // Operation timeout as duration string
	RateLimit   string  `toml:"rate_limit"`  // Minimum interval between API calls
	Temperature float32 `toml:"temperature"` // Chat completion temperature
}

// LLMConfig selects the chat provider. Embeddings always use Gemini so the
// chunk-time and query-time embedding spaces match.
type LLMConfig struct {
	ChatProvider string `toml:"chat_provider" validate:"oneof=gemini claude"`
	EmbedRetries int    `toml:"embed_retries" validate:"gte=0"` // bounded retry attempts per chunk
}

// SchedulerConfig controls the periodic re-ingest sweep.
type SchedulerConfig struct {
	Enabled  bool   `toml:"enabled"`
	Schedule string `toml:"schedule"` // cron expression
}

// NewDefaultConfig returns the default configuration
func NewDefaultConfig() *Config {
	return &Config{
		Environment: "development",
		Server: ServerConfig{
			Port: 8585,
			Host: "localhost",
		},
		Storage: StorageConfig{
			Badger: BadgerConfig{
				Path:           "./data/respondeo.db",
				ResetOnStartup: false,
			},
			Documents: "./data/documents",
			Indexes:   "./data/indexes",
		},
		Extraction: ExtractionConfig{
			MinTextChars:     16, // below this a page counts as empty
			OCREnabled:       true,
			TesseractPath:    "tesseract",
			OCRResolutionDPI: 300,
			TempDir:          "", // resolved to os.TempDir()/respondeo at runtime
		},
		Chunking: ChunkingConfig{
			Size:    1000,
			Overlap: 100,
		},
		Index: IndexConfig{
			CacheSize: 5,
			TopK:      4,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Output: []string{"stdout"},
		},
		Gemini: GeminiConfig{
			APIKey:         "", // User must provide API key (no fallback)
			Model:          "gemini-3-flash-preview",
			EmbedModel:     "gemini-embedding-001",
			EmbedDimension: 768,
			Timeout:        "5m",
			RateLimit:      "4s", // 15 RPM free tier
			Temperature:    0,
		},
		Claude: ClaudeConfig{
			APIKey:      "",
			Model:       "claude-haiku-3-5-20241022",
			MaxTokens:   8192,
			Timeout:     "5m",
			RateLimit:   "1s",
			Temperature: 0,
		},
		LLM: LLMConfig{
			ChatProvider: "gemini", // matches the embedding provider by default
			EmbedRetries: 3,
		},
		Scheduler: SchedulerConfig{
			Enabled:  false,
			Schedule: "0 */6 * * *", // every six hours
		},
	}
}

// LoadFromFiles loads configuration with priority: defaults -> file1 -> file2
// -> ... -> env. Later files override earlier files; environment variables
// override all files. CLI flags are applied afterwards via ApplyFlagOverrides.
func LoadFromFiles(paths ...string) (*Config, error) {
	config := NewDefaultConfig()

	for i, path := range paths {
		if path == "" {
			continue
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}

		if err := toml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s (file %d of %d): %w", path, i+1, len(paths), err)
		}
	}

	applyEnvOverrides(config)

	if err := validator.New().Struct(config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

// applyEnvOverrides applies environment variable overrides to config
func applyEnvOverrides(config *Config) {
	if env := os.Getenv("RESPONDEO_ENV"); env != "" {
		config.Environment = env
	}
	if port := os.Getenv("RESPONDEO_SERVER_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			config.Server.Port = p
		}
	}
	if host := os.Getenv("RESPONDEO_SERVER_HOST"); host != "" {
		config.Server.Host = host
	}
	if path := os.Getenv("RESPONDEO_BADGER_PATH"); path != "" {
		config.Storage.Badger.Path = path
	}
	if dir := os.Getenv("RESPONDEO_DOCUMENTS_DIR"); dir != "" {
		config.Storage.Documents = dir
	}
	if dir := os.Getenv("RESPONDEO_INDEXES_DIR"); dir != "" {
		config.Storage.Indexes = dir
	}
	if level := os.Getenv("RESPONDEO_LOG_LEVEL"); level != "" {
		config.Logging.Level = level
	}
	if key := os.Getenv("RESPONDEO_GEMINI_API_KEY"); key != "" {
		config.Gemini.APIKey = key
	}
	if key := os.Getenv("RESPONDEO_CLAUDE_API_KEY"); key != "" {
		config.Claude.APIKey = key
	}
	if provider := os.Getenv("RESPONDEO_CHAT_PROVIDER"); provider != "" {
		config.LLM.ChatProvider = provider
	}
}

// ApplyFlagOverrides applies command-line flag overrides (highest priority)
func ApplyFlagOverrides(config *Config, port int, host string) {
	if port > 0 {
		config.Server.Port = port
	}
	if host != "" {
		config.Server.Host = host
	}
}

// IsProduction returns true when running in production mode
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// ResolveAPIKey resolves an API key with priority: environment variable >
// KV store > config fallback. kvStorage may be nil.
func ResolveAPIKey(ctx context.Context, kvStorage interfaces.KeyValueStorage, name string, configFallback string) (string, error) {
	keyToEnvMapping := map[string][]string{
		"gemini_api_key":    {"RESPONDEO_GEMINI_API_KEY", "GEMINI_API_KEY"},
		"anthropic_api_key": {"RESPONDEO_CLAUDE_API_KEY", "ANTHROPIC_API_KEY"},
	}

	if envVarNames, ok := keyToEnvMapping[name]; ok {
		for _, envVarName := range envVarNames {
			if envValue := os.Getenv(envVarName); envValue != "" {
				return envValue, nil
			}
		}
	}

	if kvStorage != nil {
		apiKey, err := kvStorage.Get(ctx, name)
		if err == nil && apiKey != "" {
			return apiKey, nil
		}
	}

	if configFallback != "" {
		return configFallback, nil
	}

	return "", fmt.Errorf("API key '%s' not found in environment, KV store, or config", name)
}

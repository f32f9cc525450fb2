// Package env loads application configuration from the environment.
// A .env file in the working directory is honoured when present, so the
// app behaves the same no matter where it is launched from.
package env

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"github.com/purple-ai/docuchat/internal/core/domain"
)

// Default configuration values.
const (
	DefaultEmbeddingModel     = "nomic-embed-text"
	DefaultEmbeddingDimension = 768
	DefaultChunkSize          = 300
	DefaultChunkOverlap       = 100
	DefaultProvider           = domain.ProviderOllama
	DefaultOllamaModel        = "llama3.2:1b"
	DefaultOllamaHost         = "http://localhost:11434"
	DefaultOpenAIModel        = "gpt-4o-mini"
	DefaultGeminiModel        = "gemini-1.5-flash"
	DefaultOpenSearchHost     = "localhost"
	DefaultOpenSearchPort     = 9200
	DefaultIndexName          = "documents"
	DefaultTopK               = 5
	DefaultMaxTurns           = 10
)

// Config holds the process-wide configuration surface.
type Config struct {
	// EmbeddingProvider selects the embedding backend (ollama or openai).
	EmbeddingProvider domain.Provider

	// EmbeddingModel is the embedding model name.
	EmbeddingModel string

	// EmbeddingDimension is the vector width. Must match both the model
	// output and the index's vector field for the index lifetime.
	EmbeddingDimension int

	// ChunkSize is the maximum characters per chunk.
	ChunkSize int

	// ChunkOverlap is the characters repeated between adjacent chunks.
	ChunkOverlap int

	// Provider selects the chat backend.
	Provider domain.Provider

	// OllamaModel and OllamaHost configure the local backend.
	OllamaModel string
	OllamaHost  string

	// OpenAIModel and OpenAIAPIKey configure the OpenAI backend.
	OpenAIModel  string
	OpenAIAPIKey string

	// GeminiModel and GeminiAPIKey configure the Gemini backend.
	GeminiModel  string
	GeminiAPIKey string

	// OpenSearchHost and OpenSearchPort locate the search engine.
	OpenSearchHost string
	OpenSearchPort int

	// IndexName is the chunk index name.
	IndexName string

	// TopK is the default number of chunks retrieved for context.
	TopK int

	// MaxTurns is the chat history window in user+assistant pairs.
	MaxTurns int
}

// Load reads configuration from the environment, applying defaults.
// A .env file is loaded first if one exists; real environment variables
// win over .env entries.
func Load() (*Config, error) {
	// godotenv.Load never overrides variables already set.
	_ = godotenv.Load()

	cfg := &Config{
		EmbeddingProvider: providerOr("EMBEDDING_PROVIDER", domain.ProviderOllama),
		EmbeddingModel:    stringOr("EMBEDDING_MODEL", DefaultEmbeddingModel),
		Provider:          providerOr("LLM_PROVIDER", DefaultProvider),
		OllamaModel:       stringOr("OLLAMA_MODEL_NAME", DefaultOllamaModel),
		OllamaHost:        stringOr("OLLAMA_HOST", DefaultOllamaHost),
		OpenAIModel:       stringOr("OPENAI_MODEL", DefaultOpenAIModel),
		OpenAIAPIKey:      os.Getenv("OPENAI_API_KEY"),
		GeminiModel:       stringOr("GEMINI_MODEL", DefaultGeminiModel),
		GeminiAPIKey:      os.Getenv("GEMINI_API_KEY"),
		OpenSearchHost:    stringOr("OPENSEARCH_HOST", DefaultOpenSearchHost),
		IndexName:         stringOr("OPENSEARCH_INDEX", DefaultIndexName),
	}

	// Malformed numbers are fatal, not silently defaulted.
	var err error
	if cfg.EmbeddingDimension, err = intOr("EMBEDDING_DIMENSION", DefaultEmbeddingDimension); err != nil {
		return nil, err
	}
	if cfg.ChunkSize, err = intOr("TEXT_CHUNK_SIZE", DefaultChunkSize); err != nil {
		return nil, err
	}
	if cfg.ChunkOverlap, err = intOr("TEXT_CHUNK_OVERLAP", DefaultChunkOverlap); err != nil {
		return nil, err
	}
	if cfg.OpenSearchPort, err = intOr("OPENSEARCH_PORT", DefaultOpenSearchPort); err != nil {
		return nil, err
	}
	if cfg.TopK, err = intOr("RAG_TOP_K", DefaultTopK); err != nil {
		return nil, err
	}
	if cfg.MaxTurns, err = intOr("CHAT_MAX_TURNS", DefaultMaxTurns); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate enforces the invariants that must hold before any network
// call is attempted. Violations are fatal configuration errors.
func (c *Config) Validate() error {
	if c.ChunkSize <= 0 {
		return fmt.Errorf("%w: chunk size must be positive, got %d",
			domain.ErrInvalidConfig, c.ChunkSize)
	}
	if c.ChunkOverlap < 0 || c.ChunkOverlap >= c.ChunkSize {
		return fmt.Errorf("%w: overlap %d must be in [0, chunk size %d)",
			domain.ErrInvalidConfig, c.ChunkOverlap, c.ChunkSize)
	}
	if c.EmbeddingDimension <= 0 {
		return fmt.Errorf("%w: embedding dimension must be positive, got %d",
			domain.ErrInvalidConfig, c.EmbeddingDimension)
	}
	if !c.Provider.IsValid() {
		return fmt.Errorf("%w: unknown LLM provider %q (want ollama, openai or gemini)",
			domain.ErrInvalidConfig, c.Provider)
	}
	if c.EmbeddingProvider != domain.ProviderOllama && c.EmbeddingProvider != domain.ProviderOpenAI {
		return fmt.Errorf("%w: unknown embedding provider %q (want ollama or openai)",
			domain.ErrInvalidConfig, c.EmbeddingProvider)
	}
	if c.IndexName == "" {
		return fmt.Errorf("%w: index name must not be empty", domain.ErrInvalidConfig)
	}
	return nil
}

// OpenSearchAddress returns the engine URL.
func (c *Config) OpenSearchAddress() string {
	return fmt.Sprintf("http://%s:%d", c.OpenSearchHost, c.OpenSearchPort)
}

// ChatModel returns the model name of the active chat provider.
func (c *Config) ChatModel() string {
	switch c.Provider {
	case domain.ProviderOpenAI:
		return c.OpenAIModel
	case domain.ProviderGemini:
		return c.GeminiModel
	default:
		return c.OllamaModel
	}
}

func stringOr(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func intOr(key string, fallback int) (int, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%w: %s=%q is not an integer", domain.ErrInvalidConfig, key, v)
	}
	return n, nil
}

func providerOr(key string, fallback domain.Provider) domain.Provider {
	v := strings.ToLower(strings.TrimSpace(os.Getenv(key)))
	if v == "" {
		return fallback
	}
	return domain.Provider(v)
}

// Command docuchat is the entry point for the document chat CLI.
// It wires the driven adapters (embedding, search engine, chat backend,
// registry, settings) into the core services and hands them to the CLI.
package main

import (
	"fmt"
	"os"

	"github.com/purple-ai/docuchat/internal/adapters/driven/config/env"
	"github.com/purple-ai/docuchat/internal/adapters/driven/config/file"
	ollamaembed "github.com/purple-ai/docuchat/internal/adapters/driven/embedding/ollama"
	openaiembed "github.com/purple-ai/docuchat/internal/adapters/driven/embedding/openai"
	"github.com/purple-ai/docuchat/internal/adapters/driven/llm/gemini"
	ollamachat "github.com/purple-ai/docuchat/internal/adapters/driven/llm/ollama"
	openaichat "github.com/purple-ai/docuchat/internal/adapters/driven/llm/openai"
	"github.com/purple-ai/docuchat/internal/adapters/driven/opensearch"
	"github.com/purple-ai/docuchat/internal/adapters/driven/storage/sqlite"
	"github.com/purple-ai/docuchat/internal/adapters/driving/cli"
	"github.com/purple-ai/docuchat/internal/core/domain"
	"github.com/purple-ai/docuchat/internal/core/ports/driven"
	"github.com/purple-ai/docuchat/internal/core/services"
	"github.com/purple-ai/docuchat/internal/logger"
	"github.com/purple-ai/docuchat/internal/postprocessors/chunker"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := env.Load()
	if err != nil {
		return err
	}

	embedder, err := services.SharedEmbedder(func() (driven.EmbeddingService, error) {
		return newEmbedder(cfg)
	})
	if err != nil {
		return err
	}
	defer embedder.Close()

	indexStore, err := services.SharedSearchStore(func() (services.SearchStore, error) {
		return opensearch.NewStore(opensearch.Config{
			Address:   cfg.OpenSearchAddress(),
			IndexName: cfg.IndexName,
			Dimension: cfg.EmbeddingDimension,
		})
	})
	if err != nil {
		return err
	}

	registry, err := sqlite.NewStore("")
	if err != nil {
		return err
	}
	defer registry.Close()

	settingsStore, err := file.NewSettingsStore("")
	if err != nil {
		return err
	}

	chunkProcessor, err := chunker.New(
		chunker.WithChunkSize(cfg.ChunkSize),
		chunker.WithOverlap(cfg.ChunkOverlap),
	)
	if err != nil {
		return err
	}

	streamer, err := newStreamer(cfg)
	if err != nil {
		return err
	}
	defer streamer.Close()

	contextService := services.NewContextService(embedder, indexStore, indexStore)
	cli.SetServices(
		services.NewChatService(streamer, contextService, cfg.Provider, cfg.TopK, cfg.MaxTurns),
		services.NewIngestService(chunkProcessor, embedder, indexStore, registry),
		services.NewDocumentService(registry, indexStore),
		services.NewSettingsService(settingsStore),
	)

	logger.Debug("Configured provider %s, index %s", cfg.Provider, cfg.IndexName)
	return cli.Execute()
}

// newEmbedder builds the embedding backend selected by the config.
func newEmbedder(cfg *env.Config) (driven.EmbeddingService, error) {
	switch cfg.EmbeddingProvider {
	case domain.ProviderOpenAI:
		return openaiembed.NewEmbeddingService(openaiembed.Config{
			APIKey:     cfg.OpenAIAPIKey,
			Model:      cfg.EmbeddingModel,
			Dimensions: cfg.EmbeddingDimension,
		})
	default:
		return ollamaembed.NewEmbeddingService(ollamaembed.Config{
			BaseURL:    cfg.OllamaHost,
			Model:      cfg.EmbeddingModel,
			Dimensions: cfg.EmbeddingDimension,
		}), nil
	}
}

// newStreamer builds the chat backend selected by the config.
func newStreamer(cfg *env.Config) (driven.ChatStreamer, error) {
	switch cfg.Provider {
	case domain.ProviderOpenAI:
		return openaichat.NewChatService(openaichat.Config{
			APIKey: cfg.OpenAIAPIKey,
			Model:  cfg.OpenAIModel,
		})
	case domain.ProviderGemini:
		return gemini.NewChatService(gemini.Config{
			APIKey: cfg.GeminiAPIKey,
			Model:  cfg.GeminiModel,
		})
	default:
		return ollamachat.NewChatService(ollamachat.Config{
			BaseURL: cfg.OllamaHost,
			Model:   cfg.OllamaModel,
		}), nil
	}
}

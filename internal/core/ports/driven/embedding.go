package driven

import "context"

// EmbeddingService generates vector embeddings for chunks and queries.
//
// Implementations may include:
//   - Ollama (local models, e.g. nomic-embed-text)
//   - OpenAI (text-embedding-3-small and friends)
//
// The service is process-wide shared state: it is initialised once behind
// a guarded lazy-init (see services.Providers) and reused thereafter.
type EmbeddingService interface {
	// Embed generates a vector embedding for the given text.
	Embed(ctx context.Context, text string) ([]float32, error)

	// EmbedBatch generates embeddings for multiple texts, order-preserving,
	// one vector per input.
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)

	// Dimensions returns the embedding vector size.
	Dimensions() int

	// ModelName returns the name of the embedding model being used.
	ModelName() string

	// Ping validates the service is reachable by making a lightweight
	// test request.
	Ping(ctx context.Context) error

	// Close releases resources.
	Close() error
}

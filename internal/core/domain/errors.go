package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrInvalidConfig indicates a fatal configuration error (e.g.
	// overlap >= chunk size, non-positive embedding dimension). Operations
	// must stop before any network call is attempted.
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrDimensionMismatch indicates an embedding vector whose length does
	// not match the configured index dimension. The index must be rebuilt
	// when the embedding model changes; this is not runtime-recoverable.
	ErrDimensionMismatch = errors.New("embedding dimension mismatch")

	// ErrEngineUnreachable indicates the search engine could not be
	// reached. Callers degrade (fail-open retrieval) or present an
	// engine-specific remediation message.
	ErrEngineUnreachable = errors.New("search engine unreachable")

	// ErrEmbeddingUnavailable indicates the embedding service is not
	// configured or could not be initialised.
	ErrEmbeddingUnavailable = errors.New("embedding service unavailable")

	// ErrProviderUnavailable indicates the chat provider failed before or
	// during streaming. It is the sentinel "unavailable" outcome,
	// distinguishable from a completed stream with zero fragments.
	ErrProviderUnavailable = errors.New("chat provider unavailable")

	// ErrMissingAPIKey indicates a hosted provider has no API key
	// configured. Failing fast on this avoids any network call.
	ErrMissingAPIKey = errors.New("API key not configured")

	// ErrModelUnavailable indicates the configured model is not present on
	// the local model host and could not be pulled.
	ErrModelUnavailable = errors.New("model unavailable")
)

package driven

import (
	"context"

	"github.com/purple-ai/docuchat/internal/core/domain"
)

// EmitFunc receives one normalized stream fragment. Returning a non-nil
// error stops the stream; the adapter propagates that error back out of
// StreamChat.
type EmitFunc func(domain.StreamFragment) error

// ChatStreamer opens a streaming chat completion against one backend and
// emits normalized fragments.
//
// Implementations:
//   - Ollama: local host, health-checked with a short timeout before the
//     chat call; the model is pulled on first use if absent.
//   - OpenAI / Gemini: hosted APIs; a missing API key fails construction,
//     before any network call.
//
// Normalization is the adapter's core contract: callers never see
// backend-specific chunk shapes. Emission is synchronous with the
// caller's consumption; there is no background production.
type ChatStreamer interface {
	// StreamChat sends the windowed messages and temperature to the
	// backend and calls emit once per answer increment. It returns nil
	// when the backend signals end-of-stream and an error on any
	// connectivity or backend failure. Temperature outside [0.0, 1.0] is
	// clamped, never rejected.
	StreamChat(ctx context.Context, messages []domain.ChatMessage, temperature float64, emit EmitFunc) error

	// ModelName returns the name of the chat model being used.
	ModelName() string

	// Ping validates the backend is reachable by making a lightweight
	// test request.
	Ping(ctx context.Context) error

	// Close releases resources.
	Close() error
}

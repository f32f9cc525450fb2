package driving

import (
	"context"

	"github.com/purple-ai/docuchat/internal/core/domain"
)

// ChatService dispatches a prompt to the configured chat provider,
// optionally grounded in retrieved document context.
type ChatService interface {
	// Stream windows the transcript, injects RAG context when enabled,
	// and opens a streaming completion. It returns
	// domain.ErrProviderUnavailable (possibly wrapped) when the provider
	// fails before streaming starts; mid-stream failures surface via the
	// returned stream's Err. The transcript is never mutated: callers
	// append the raw prompt and the collected answer themselves.
	Stream(ctx context.Context, transcript []domain.ChatMessage, prompt string, opts domain.StreamOptions) (*domain.ChatStream, error)

	// ProviderName describes the active backend and model.
	ProviderName() string

	// Ready verifies the provider is usable (local host reachable and
	// model present, or API key configured).
	Ready(ctx context.Context) error
}

package services

import (
	"context"
	"fmt"

	"github.com/purple-ai/docuchat/internal/core/domain"
	"github.com/purple-ai/docuchat/internal/core/ports/driven"
	"github.com/purple-ai/docuchat/internal/core/ports/driving"
	"github.com/purple-ai/docuchat/internal/logger"
)

// Ensure ChatService implements the interface.
var _ driving.ChatService = (*ChatService)(nil)

// contextPromptFormat wraps the user's question with retrieved document
// context before it reaches the model.
const contextPromptFormat = `Use the following context from the uploaded documents to answer the question. If the context does not contain relevant information, say so.

Context:
%s

Question: %s`

// ChatService dispatches prompts to the configured chat provider,
// optionally grounding them in retrieved document context.
type ChatService struct {
	streamer       driven.ChatStreamer
	contextBuilder driving.ContextService
	provider       domain.Provider
	defaultTopK    int
	defaultTurns   int
}

// NewChatService creates a new chat service. The contextBuilder is
// optional (can be nil); without it RAG is silently off.
func NewChatService(
	streamer driven.ChatStreamer,
	contextBuilder driving.ContextService,
	provider domain.Provider,
	defaultTopK int,
	defaultTurns int,
) *ChatService {
	return &ChatService{
		streamer:       streamer,
		contextBuilder: contextBuilder,
		provider:       provider,
		defaultTopK:    defaultTopK,
		defaultTurns:   defaultTurns,
	}
}

// Stream windows the transcript, injects retrieved context when RAG is
// enabled and opens a streaming completion.
//
// The returned stream is lazy: the provider produces fragments only as
// the caller consumes them. The transcript is never mutated; callers
// append the raw prompt and the collected answer themselves so injected
// context never pollutes history.
func (s *ChatService) Stream(
	ctx context.Context, transcript []domain.ChatMessage, prompt string, opts domain.StreamOptions,
) (*domain.ChatStream, error) {
	if s.streamer == nil {
		return nil, fmt.Errorf("%w: no chat provider configured", domain.ErrProviderUnavailable)
	}

	topK := opts.TopK
	if topK <= 0 {
		topK = s.defaultTopK
	}
	maxTurns := opts.MaxTurns
	if maxTurns <= 0 {
		maxTurns = s.defaultTurns
	}
	temperature := domain.ClampTemperature(opts.Temperature)

	finalPrompt := prompt
	if opts.RAG && s.contextBuilder != nil {
		result := s.contextBuilder.BuildContext(ctx, prompt, topK)
		if result.Reason == domain.ContextReasonOK {
			finalPrompt = fmt.Sprintf(contextPromptFormat, result.Context, prompt)
		} else {
			logger.Debug("Chatting without context (%s)", result.Reason)
		}
	}

	messages := domain.WindowTranscript(transcript, finalPrompt, maxTurns)
	logger.Debug("Dispatching %d messages to %s (temperature %.2f)",
		len(messages), s.ProviderName(), temperature)

	stream := domain.NewChatStream()
	go func() {
		err := s.streamer.StreamChat(ctx, messages, temperature, func(f domain.StreamFragment) error {
			return stream.Publish(ctx, f)
		})
		stream.Finish(err)
	}()

	return stream, nil
}

// ProviderName describes the active backend and model.
func (s *ChatService) ProviderName() string {
	if s.streamer == nil {
		return string(s.provider)
	}
	return fmt.Sprintf("%s (%s)", s.provider, s.streamer.ModelName())
}

// Ready verifies the provider is usable.
func (s *ChatService) Ready(ctx context.Context) error {
	if s.streamer == nil {
		return fmt.Errorf("%w: no chat provider configured", domain.ErrProviderUnavailable)
	}
	return s.streamer.Ping(ctx)
}

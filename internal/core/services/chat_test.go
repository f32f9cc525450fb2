package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/purple-ai/docuchat/internal/core/domain"
)

func TestStream_CollectsFragments(t *testing.T) {
	streamer := &mockStreamer{fragments: []string{"Hel", "lo"}}
	svc := NewChatService(streamer, nil, domain.ProviderOllama, 5, 10)

	stream, err := svc.Stream(context.Background(), nil, "say hello", domain.StreamOptions{Temperature: 0.7})
	require.NoError(t, err)

	answer, err := stream.Collect()
	require.NoError(t, err)
	assert.Equal(t, "Hello", answer)
	assert.InDelta(t, 0.7, streamer.gotTemp, 1e-9)
}

func TestStream_InjectsContextWithoutMutatingTranscript(t *testing.T) {
	streamer := &mockStreamer{fragments: []string{"ok"}}
	builder := &mockContextBuilder{result: domain.ContextResult{
		Context: "retrieved chunk",
		Reason:  domain.ContextReasonOK,
	}}
	svc := NewChatService(streamer, builder, domain.ProviderOllama, 5, 10)

	transcript := []domain.ChatMessage{
		{Role: domain.RoleUser, Content: "earlier question"},
		{Role: domain.RoleAssistant, Content: "earlier answer"},
	}

	stream, err := svc.Stream(context.Background(), transcript, "what is in my docs?",
		domain.StreamOptions{RAG: true, TopK: 3})
	require.NoError(t, err)
	_, err = stream.Collect()
	require.NoError(t, err)

	// The builder saw the raw prompt, not the wrapped one.
	assert.Equal(t, "what is in my docs?", builder.gotQuery)
	assert.Equal(t, 3, builder.gotTopK)

	// The final message carries the context wrapper; history is untouched.
	require.Len(t, streamer.gotMessages, 3)
	last := streamer.gotMessages[2]
	assert.Equal(t, domain.RoleUser, last.Role)
	assert.Contains(t, last.Content, "retrieved chunk")
	assert.Contains(t, last.Content, "what is in my docs?")
	assert.Equal(t, "earlier question", transcript[0].Content)
	assert.Equal(t, "earlier answer", transcript[1].Content)
}

func TestStream_DegradedContextFallsBackToPlainPrompt(t *testing.T) {
	for _, reason := range []domain.ContextReason{
		domain.ContextReasonIndexMissing,
		domain.ContextReasonEmbeddingFailed,
		domain.ContextReasonSearchFailed,
		domain.ContextReasonNoResults,
	} {
		t.Run(string(reason), func(t *testing.T) {
			streamer := &mockStreamer{fragments: []string{"ok"}}
			builder := &mockContextBuilder{result: domain.ContextResult{Reason: reason}}
			svc := NewChatService(streamer, builder, domain.ProviderOllama, 5, 10)

			stream, err := svc.Stream(context.Background(), nil, "question",
				domain.StreamOptions{RAG: true})
			require.NoError(t, err)
			_, err = stream.Collect()
			require.NoError(t, err)

			require.Len(t, streamer.gotMessages, 1)
			assert.Equal(t, "question", streamer.gotMessages[0].Content)
		})
	}
}

func TestStream_RAGDisabledSkipsRetrieval(t *testing.T) {
	streamer := &mockStreamer{fragments: []string{"ok"}}
	builder := &mockContextBuilder{result: domain.ContextResult{
		Context: "should not appear",
		Reason:  domain.ContextReasonOK,
	}}
	svc := NewChatService(streamer, builder, domain.ProviderOllama, 5, 10)

	stream, err := svc.Stream(context.Background(), nil, "question", domain.StreamOptions{RAG: false})
	require.NoError(t, err)
	_, err = stream.Collect()
	require.NoError(t, err)

	assert.Zero(t, builder.calls)
	assert.Equal(t, "question", streamer.gotMessages[0].Content)
}

func TestStream_WindowsHistory(t *testing.T) {
	streamer := &mockStreamer{fragments: []string{"ok"}}
	svc := NewChatService(streamer, nil, domain.ProviderOllama, 5, 10)

	transcript := make([]domain.ChatMessage, 0, 30)
	for i := 0; i < 15; i++ {
		transcript = append(transcript,
			domain.ChatMessage{Role: domain.RoleUser, Content: fmt.Sprintf("q%d", i)},
			domain.ChatMessage{Role: domain.RoleAssistant, Content: fmt.Sprintf("a%d", i)},
		)
	}

	stream, err := svc.Stream(context.Background(), transcript, "new question", domain.StreamOptions{})
	require.NoError(t, err)
	_, err = stream.Collect()
	require.NoError(t, err)

	// Last 10 pairs plus the new prompt.
	require.Len(t, streamer.gotMessages, 21)
	assert.Equal(t, "q5", streamer.gotMessages[0].Content)
	assert.Equal(t, "new question", streamer.gotMessages[20].Content)
}

func TestStream_ClampsTemperature(t *testing.T) {
	streamer := &mockStreamer{fragments: []string{"ok"}}
	svc := NewChatService(streamer, nil, domain.ProviderOllama, 5, 10)

	stream, err := svc.Stream(context.Background(), nil, "question",
		domain.StreamOptions{Temperature: 7.5})
	require.NoError(t, err)
	_, err = stream.Collect()
	require.NoError(t, err)

	assert.InDelta(t, 1.0, streamer.gotTemp, 1e-9)
}

func TestStream_ProviderFailureSurfacesOnStream(t *testing.T) {
	streamer := &mockStreamer{
		fragments: []string{"partial"},
		streamErr: fmt.Errorf("%w: backend crashed", domain.ErrProviderUnavailable),
	}
	svc := NewChatService(streamer, nil, domain.ProviderOpenAI, 5, 10)

	stream, err := svc.Stream(context.Background(), nil, "question", domain.StreamOptions{})
	require.NoError(t, err)

	answer, err := stream.Collect()
	assert.Equal(t, "partial", answer)
	assert.True(t, errors.Is(err, domain.ErrProviderUnavailable), "got %v", err)
}

func TestStream_NilStreamer(t *testing.T) {
	svc := NewChatService(nil, nil, domain.ProviderOllama, 5, 10)

	_, err := svc.Stream(context.Background(), nil, "question", domain.StreamOptions{})

	assert.True(t, errors.Is(err, domain.ErrProviderUnavailable), "got %v", err)
}

func TestStream_EmptyCompletionIsNotAnError(t *testing.T) {
	streamer := &mockStreamer{} // zero fragments, nil error
	svc := NewChatService(streamer, nil, domain.ProviderOllama, 5, 10)

	stream, err := svc.Stream(context.Background(), nil, "question", domain.StreamOptions{})
	require.NoError(t, err)

	answer, err := stream.Collect()
	require.NoError(t, err)
	assert.Empty(t, answer)
}

func TestProviderName(t *testing.T) {
	svc := NewChatService(&mockStreamer{}, nil, domain.ProviderGemini, 5, 10)
	name := svc.ProviderName()
	assert.True(t, strings.Contains(name, "gemini"), "got %q", name)
	assert.True(t, strings.Contains(name, "mock-model"), "got %q", name)
}

func TestReady(t *testing.T) {
	t.Run("reachable", func(t *testing.T) {
		svc := NewChatService(&mockStreamer{}, nil, domain.ProviderOllama, 5, 10)
		assert.NoError(t, svc.Ready(context.Background()))
	})

	t.Run("unreachable", func(t *testing.T) {
		svc := NewChatService(&mockStreamer{pingErr: errors.New("down")}, nil, domain.ProviderOllama, 5, 10)
		assert.Error(t, svc.Ready(context.Background()))
	})
}

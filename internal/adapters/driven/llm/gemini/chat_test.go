package gemini

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/purple-ai/docuchat/internal/core/domain"
)

func newTestService(t *testing.T, handler http.HandlerFunc) *ChatService {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	svc, err := NewChatService(Config{
		APIKey:  "test-key",
		BaseURL: server.URL,
	})
	require.NoError(t, err)
	return svc
}

func TestNewChatService_MissingKey(t *testing.T) {
	_, err := NewChatService(Config{})
	assert.True(t, errors.Is(err, domain.ErrMissingAPIKey), "got %v", err)
}

func TestStreamChat_EmitsParts(t *testing.T) {
	var gotReq generateRequest
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/models/gemini-2.0-flash:streamGenerateContent", r.URL.Path)
		require.Equal(t, "sse", r.URL.Query().Get("alt"))
		require.Equal(t, "test-key", r.URL.Query().Get("key"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))

		w.Header().Set("Content-Type", "text/event-stream")
		_, _ = w.Write([]byte(
			"data: {\"candidates\":[{\"content\":{\"parts\":[{\"text\":\"Hel\"}]}}]}\n\n" +
				"data: {\"candidates\":[{\"content\":{\"parts\":[{\"text\":\"lo\"}]}}]}\n\n"))
	})

	var fragments []string
	err := svc.StreamChat(context.Background(),
		[]domain.ChatMessage{
			{Role: domain.RoleUser, Content: "hi"},
			{Role: domain.RoleAssistant, Content: "hello"},
			{Role: domain.RoleUser, Content: "say hello again"},
		},
		0.6,
		func(f domain.StreamFragment) error {
			fragments = append(fragments, f.Content)
			return nil
		})

	require.NoError(t, err)
	assert.Equal(t, []string{"Hel", "lo"}, fragments)
	assert.InDelta(t, 0.6, gotReq.GenerationConfig.Temperature, 1e-9)

	// Assistant turns map to Gemini's model role.
	require.Len(t, gotReq.Contents, 3)
	assert.Equal(t, "user", gotReq.Contents[0].Role)
	assert.Equal(t, "model", gotReq.Contents[1].Role)
	assert.Equal(t, "user", gotReq.Contents[2].Role)
	require.Len(t, gotReq.Contents[1].Parts, 1)
	assert.Equal(t, "hello", gotReq.Contents[1].Parts[0].Text)
}

func TestStreamChat_APIError(t *testing.T) {
	svc := newTestService(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":{"message":"API key not valid"}}`))
	})

	err := svc.StreamChat(context.Background(), nil, 0.5, func(domain.StreamFragment) error { return nil })

	require.Error(t, err)
	assert.Contains(t, err.Error(), "API key not valid")
}

func TestStreamChat_ProviderUnavailable(t *testing.T) {
	svc, err := NewChatService(Config{
		APIKey:  "test-key",
		BaseURL: "http://127.0.0.1:1",
	})
	require.NoError(t, err)

	err = svc.StreamChat(context.Background(), nil, 0.5, func(domain.StreamFragment) error { return nil })

	assert.True(t, errors.Is(err, domain.ErrProviderUnavailable), "got %v", err)
}

func TestStreamChat_EmitErrorStopsStream(t *testing.T) {
	svc := newTestService(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(
			"data: {\"candidates\":[{\"content\":{\"parts\":[{\"text\":\"one\"}]}}]}\n\n" +
				"data: {\"candidates\":[{\"content\":{\"parts\":[{\"text\":\"two\"}]}}]}\n\n"))
	})

	stopErr := errors.New("consumer gone")
	emitted := 0
	err := svc.StreamChat(context.Background(), nil, 0.5, func(domain.StreamFragment) error {
		emitted++
		return stopErr
	})

	assert.True(t, errors.Is(err, stopErr), "got %v", err)
	assert.Equal(t, 1, emitted)
}

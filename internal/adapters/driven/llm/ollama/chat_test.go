package ollama

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/purple-ai/docuchat/internal/core/domain"
)

// modelListHandler answers /api/tags with the given model names.
func modelListHandler(names ...string) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		var tags tagsResponse
		for _, name := range names {
			tags.Models = append(tags.Models, struct {
				Name string `json:"name"`
			}{Name: name})
		}
		_ = json.NewEncoder(w).Encode(tags)
	}
}

func collectFragments(t *testing.T, svc *ChatService, messages []domain.ChatMessage) ([]string, error) {
	t.Helper()
	var got []string
	err := svc.StreamChat(context.Background(), messages, 0.7, func(f domain.StreamFragment) error {
		got = append(got, f.Content)
		return nil
	})
	return got, err
}

func TestStreamChat_EmitsFragments(t *testing.T) {
	var gotReq chatRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/tags":
			modelListHandler("llama3.2:1b")(w, r)
		case "/api/chat":
			require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))
			_, _ = w.Write([]byte(
				`{"message":{"content":"Hel"},"done":false}` + "\n" +
					`{"message":{"content":"lo"},"done":false}` + "\n" +
					`{"message":{"content":""},"done":true}` + "\n"))
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	}))
	defer server.Close()

	svc := NewChatService(Config{BaseURL: server.URL})
	fragments, err := collectFragments(t, svc, []domain.ChatMessage{
		{Role: domain.RoleUser, Content: "say hello"},
	})

	require.NoError(t, err)
	assert.Equal(t, []string{"Hel", "lo"}, fragments)
	assert.True(t, gotReq.Stream)
	assert.InDelta(t, 0.7, gotReq.Options.Temperature, 1e-9)
	require.Len(t, gotReq.Messages, 1)
	assert.Equal(t, "user", gotReq.Messages[0].Role)
}

func TestStreamChat_ClampsTemperature(t *testing.T) {
	var gotReq chatRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/tags":
			modelListHandler("llama3.2:1b")(w, r)
		case "/api/chat":
			require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))
			_, _ = w.Write([]byte(`{"message":{"content":"ok"},"done":true}` + "\n"))
		}
	}))
	defer server.Close()

	svc := NewChatService(Config{BaseURL: server.URL})
	err := svc.StreamChat(context.Background(), nil, 3.5, func(domain.StreamFragment) error { return nil })

	require.NoError(t, err)
	assert.InDelta(t, 1.0, gotReq.Options.Temperature, 1e-9)
}

func TestStreamChat_PullsMissingModel(t *testing.T) {
	pulled := false
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/tags":
			modelListHandler("some-other-model")(w, r)
		case "/api/pull":
			var req map[string]any
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			assert.Equal(t, "llama3.2:1b", req["model"])
			pulled = true
			_, _ = w.Write([]byte(`{"status":"success"}`))
		case "/api/chat":
			require.True(t, pulled, "chat must not start before the model is pulled")
			_, _ = w.Write([]byte(`{"message":{"content":"hi"},"done":true}` + "\n"))
		}
	}))
	defer server.Close()

	svc := NewChatService(Config{BaseURL: server.URL})
	fragments, err := collectFragments(t, svc, nil)

	require.NoError(t, err)
	assert.True(t, pulled)
	assert.Equal(t, []string{"hi"}, fragments)
}

func TestStreamChat_HealthCheckRunsOnce(t *testing.T) {
	tagCalls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/tags":
			tagCalls++
			modelListHandler("llama3.2:1b")(w, r)
		case "/api/chat":
			_, _ = w.Write([]byte(`{"message":{"content":"x"},"done":true}` + "\n"))
		}
	}))
	defer server.Close()

	svc := NewChatService(Config{BaseURL: server.URL})
	for i := 0; i < 3; i++ {
		_, err := collectFragments(t, svc, nil)
		require.NoError(t, err)
	}

	// One reachability probe plus one model listing, never repeated.
	assert.Equal(t, 2, tagCalls)
}

func TestStreamChat_HostDown(t *testing.T) {
	svc := NewChatService(Config{BaseURL: "http://127.0.0.1:1"})

	_, err := collectFragments(t, svc, nil)

	assert.True(t, errors.Is(err, domain.ErrProviderUnavailable), "got %v", err)
}

func TestStreamChat_StreamError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/tags":
			modelListHandler("llama3.2:1b")(w, r)
		case "/api/chat":
			_, _ = w.Write([]byte(`{"error":"model runner crashed"}` + "\n"))
		}
	}))
	defer server.Close()

	svc := NewChatService(Config{BaseURL: server.URL})
	_, err := collectFragments(t, svc, nil)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "model runner crashed")
}

func TestStreamChat_EmitErrorStopsStream(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/tags":
			modelListHandler("llama3.2:1b")(w, r)
		case "/api/chat":
			var lines strings.Builder
			for i := 0; i < 10; i++ {
				fmt.Fprintf(&lines, `{"message":{"content":"chunk %d"},"done":false}`+"\n", i)
			}
			lines.WriteString(`{"message":{"content":""},"done":true}` + "\n")
			_, _ = w.Write([]byte(lines.String()))
		}
	}))
	defer server.Close()

	svc := NewChatService(Config{BaseURL: server.URL})
	emitted := 0
	stopErr := errors.New("consumer gone")
	err := svc.StreamChat(context.Background(), nil, 0.5, func(domain.StreamFragment) error {
		emitted++
		if emitted == 2 {
			return stopErr
		}
		return nil
	})

	assert.True(t, errors.Is(err, stopErr), "got %v", err)
	assert.Equal(t, 2, emitted)
}

// Package ollama provides a streaming chat adapter for a local Ollama
// host. The first chat call health-checks the host with a short timeout
// and pulls the model if it is not present locally.
package ollama

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/purple-ai/docuchat/internal/core/domain"
	"github.com/purple-ai/docuchat/internal/core/ports/driven"
	"github.com/purple-ai/docuchat/internal/logger"
)

// Ensure ChatService implements the interface.
var _ driven.ChatStreamer = (*ChatService)(nil)

// Default configuration values.
const (
	DefaultBaseURL = "http://localhost:11434"
	DefaultModel   = "llama3.2:1b"

	// HealthCheckTimeout bounds the pre-chat reachability probe so a
	// stopped Ollama host fails fast instead of hanging a chat turn.
	HealthCheckTimeout = 3 * time.Second

	// PullTimeout bounds a cold model download.
	PullTimeout = 10 * time.Minute
)

// Config holds configuration for the Ollama chat service.
type Config struct {
	// BaseURL is the Ollama API base URL (default: http://localhost:11434).
	BaseURL string

	// Model is the chat model to use (default: llama3.2:1b).
	Model string
}

// ChatService streams chat completions from Ollama's /api/chat endpoint,
// which emits newline-delimited JSON chunks.
type ChatService struct {
	client  *http.Client
	baseURL string
	model   string

	readyOnce sync.Once
	readyErr  error
}

// chatRequest is the Ollama /api/chat request format.
type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
	Stream   bool          `json:"stream"`
	Options  chatOptions   `json:"options"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatOptions struct {
	Temperature float64 `json:"temperature"`
}

// chatChunk is one NDJSON line of the streaming response.
type chatChunk struct {
	Message struct {
		Content string `json:"content"`
	} `json:"message"`
	Done  bool   `json:"done"`
	Error string `json:"error,omitempty"`
}

// NewChatService creates a new Ollama chat service. No network calls are
// made until the first StreamChat.
func NewChatService(cfg Config) *ChatService {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}

	return &ChatService{
		// Streaming responses can outlive any sane fixed timeout, so the
		// client has none; cancellation comes from the request context.
		client:  &http.Client{},
		baseURL: cfg.BaseURL,
		model:   cfg.Model,
	}
}

// StreamChat sends the messages to Ollama and emits one fragment per
// answer increment. The host is health-checked and the model pulled if
// absent before the first stream.
func (s *ChatService) StreamChat(ctx context.Context, messages []domain.ChatMessage, temperature float64, emit driven.EmitFunc) error {
	if err := s.ensureReady(ctx); err != nil {
		return err
	}

	reqBody := chatRequest{
		Model:    s.model,
		Stream:   true,
		Options:  chatOptions{Temperature: domain.ClampTemperature(temperature)},
		Messages: make([]chatMessage, 0, len(messages)),
	}
	for _, msg := range messages {
		reqBody.Messages = append(reqBody.Messages, chatMessage{
			Role:    string(msg.Role),
			Content: msg.Content,
		})
	}

	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		s.baseURL+"/api/chat",
		bytes.NewReader(jsonBody),
	)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: ollama: %v", domain.ErrProviderUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, readErr := io.ReadAll(resp.Body)
		if readErr != nil {
			return fmt.Errorf("ollama error (status %d): failed to read response", resp.StatusCode)
		}
		return fmt.Errorf("ollama error (status %d): %s", resp.StatusCode, string(body))
	}

	scanner := bufio.NewScanner(resp.Body)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}

		var chunk chatChunk
		if err := json.Unmarshal(line, &chunk); err != nil {
			return fmt.Errorf("decode stream chunk: %w", err)
		}
		if chunk.Error != "" {
			return fmt.Errorf("ollama stream error: %s", chunk.Error)
		}
		if chunk.Message.Content != "" {
			if err := emit(domain.StreamFragment{Content: chunk.Message.Content}); err != nil {
				return err
			}
		}
		if chunk.Done {
			return nil
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read stream: %w", err)
	}
	return nil
}

// ensureReady health-checks the host and pulls the model if absent.
// It runs once per service lifetime; a failure is sticky so a dead host
// keeps failing fast instead of retrying the pull on every turn.
func (s *ChatService) ensureReady(ctx context.Context) error {
	s.readyOnce.Do(func() {
		pingCtx, cancel := context.WithTimeout(ctx, HealthCheckTimeout)
		defer cancel()
		if err := s.Ping(pingCtx); err != nil {
			s.readyErr = fmt.Errorf("%w: ollama host is not running: %v", domain.ErrProviderUnavailable, err)
			return
		}

		present, err := s.modelPresent(ctx)
		if err != nil {
			s.readyErr = err
			return
		}
		if present {
			return
		}

		logger.Info("Model %s not found locally, pulling from Ollama registry", s.model)
		s.readyErr = s.pullModel(ctx)
	})
	return s.readyErr
}

// tagsResponse is the Ollama /api/tags response format.
type tagsResponse struct {
	Models []struct {
		Name string `json:"name"`
	} `json:"models"`
}

// modelPresent reports whether the configured model is available locally.
func (s *ChatService) modelPresent(ctx context.Context) (bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+"/api/tags", http.NoBody)
	if err != nil {
		return false, fmt.Errorf("create tags request: %w", err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return false, fmt.Errorf("%w: ollama: %v", domain.ErrProviderUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return false, fmt.Errorf("ollama: list models returned status %d", resp.StatusCode)
	}

	var tags tagsResponse
	if err := json.NewDecoder(resp.Body).Decode(&tags); err != nil {
		return false, fmt.Errorf("decode tags response: %w", err)
	}

	for _, model := range tags.Models {
		if model.Name == s.model {
			return true, nil
		}
	}
	return false, nil
}

// pullModel downloads the configured model. The pull endpoint streams
// progress lines; they are drained and only the terminal status matters.
func (s *ChatService) pullModel(ctx context.Context) error {
	pullCtx, cancel := context.WithTimeout(ctx, PullTimeout)
	defer cancel()

	jsonBody, err := json.Marshal(map[string]any{
		"model":  s.model,
		"stream": false,
	})
	if err != nil {
		return fmt.Errorf("marshal pull request: %w", err)
	}

	req, err := http.NewRequestWithContext(
		pullCtx,
		http.MethodPost,
		s.baseURL+"/api/pull",
		bytes.NewReader(jsonBody),
	)
	if err != nil {
		return fmt.Errorf("create pull request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: ollama: pull %s: %v", domain.ErrModelUnavailable, s.model, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, readErr := io.ReadAll(resp.Body)
		if readErr != nil {
			return fmt.Errorf("%w: pull %s returned status %d", domain.ErrModelUnavailable, s.model, resp.StatusCode)
		}
		return fmt.Errorf("%w: pull %s returned status %d: %s",
			domain.ErrModelUnavailable, s.model, resp.StatusCode, string(body))
	}

	if _, err := io.Copy(io.Discard, resp.Body); err != nil {
		return fmt.Errorf("%w: pull %s interrupted: %v", domain.ErrModelUnavailable, s.model, err)
	}

	logger.Info("Model %s pulled successfully", s.model)
	return nil
}

// ModelName returns the name of the chat model being used.
func (s *ChatService) ModelName() string {
	return s.model
}

// Ping validates the host is reachable via the /api/tags endpoint.
func (s *ChatService) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+"/api/tags", http.NoBody)
	if err != nil {
		return fmt.Errorf("ollama: failed to create ping request: %w", err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("ollama: ping failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("ollama: API returned status %d", resp.StatusCode)
	}
	return nil
}

// Close releases resources.
func (s *ChatService) Close() error {
	// HTTP client doesn't need explicit cleanup
	return nil
}

// Package file provides a TOML-backed settings store.
// Chat preferences are persisted in a TOML file within the docuchat
// config directory and survive between sessions.
package file

import (
	"os"
	"path/filepath"
	"sync"

	"github.com/pelletier/go-toml/v2"

	"github.com/purple-ai/docuchat/internal/core/domain"
	"github.com/purple-ai/docuchat/internal/core/ports/driven"
)

// Ensure SettingsStore implements the interface.
var _ driven.SettingsStore = (*SettingsStore)(nil)

// settingsFile mirrors domain.ChatSettings on disk.
type settingsFile struct {
	Chat struct {
		Temperature float64 `toml:"temperature"`
		TopK        int     `toml:"top_k"`
		RAGEnabled  bool    `toml:"rag_enabled"`
	} `toml:"chat"`
}

// SettingsStore is a file-based implementation of driven.SettingsStore
// using TOML.
type SettingsStore struct {
	mu       sync.RWMutex
	filePath string
}

// NewSettingsStore creates a TOML settings store.
// If configDir is empty, defaults to ~/.docuchat/config.toml.
func NewSettingsStore(configDir string) (*SettingsStore, error) {
	if configDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		configDir = filepath.Join(home, ".docuchat")
	}

	if err := os.MkdirAll(configDir, 0700); err != nil {
		return nil, err
	}

	return &SettingsStore{
		filePath: filepath.Join(configDir, "config.toml"),
	}, nil
}

// Get returns the persisted settings, or defaults when no file exists.
func (s *SettingsStore) Get() (domain.ChatSettings, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, err := os.ReadFile(s.filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return domain.DefaultChatSettings(), nil
		}
		return domain.ChatSettings{}, err
	}

	var f settingsFile
	if err := toml.Unmarshal(data, &f); err != nil {
		return domain.ChatSettings{}, err
	}

	settings := domain.ChatSettings{
		Temperature: f.Chat.Temperature,
		TopK:        f.Chat.TopK,
		RAGEnabled:  f.Chat.RAGEnabled,
	}
	if settings.TopK <= 0 {
		settings.TopK = domain.DefaultChatSettings().TopK
	}
	return settings, nil
}

// Save persists the settings, creating the file if needed.
func (s *SettingsStore) Save(settings domain.ChatSettings) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var f settingsFile
	f.Chat.Temperature = settings.Temperature
	f.Chat.TopK = settings.TopK
	f.Chat.RAGEnabled = settings.RAGEnabled

	data, err := toml.Marshal(f)
	if err != nil {
		return err
	}

	// Write with restricted permissions
	return os.WriteFile(s.filePath, data, 0600)
}

// Path returns the settings file path.
func (s *SettingsStore) Path() string {
	return s.filePath
}

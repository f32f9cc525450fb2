package services

import (
	"fmt"

	"github.com/purple-ai/docuchat/internal/core/domain"
	"github.com/purple-ai/docuchat/internal/core/ports/driven"
	"github.com/purple-ai/docuchat/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// SettingsService validates and persists chat preferences.
type SettingsService struct {
	store driven.SettingsStore
}

// NewSettingsService creates a new settings service.
func NewSettingsService(store driven.SettingsStore) *SettingsService {
	return &SettingsService{store: store}
}

// Get returns current settings, or defaults when nothing is persisted.
func (s *SettingsService) Get() (domain.ChatSettings, error) {
	if s.store == nil {
		return domain.DefaultChatSettings(), nil
	}
	settings, err := s.store.Get()
	if err != nil {
		return domain.DefaultChatSettings(), fmt.Errorf("loading settings: %w", err)
	}
	return settings, nil
}

// Save validates and persists settings. Temperature is clamped rather
// than rejected; a non-positive top-k is a caller bug and is rejected.
func (s *SettingsService) Save(settings domain.ChatSettings) error {
	if settings.TopK <= 0 {
		return fmt.Errorf("%w: top-k must be positive, got %d", domain.ErrInvalidInput, settings.TopK)
	}
	settings.Temperature = domain.ClampTemperature(settings.Temperature)

	if s.store == nil {
		return fmt.Errorf("%w: no settings store configured", domain.ErrInvalidConfig)
	}
	if err := s.store.Save(settings); err != nil {
		return fmt.Errorf("saving settings: %w", err)
	}
	return nil
}

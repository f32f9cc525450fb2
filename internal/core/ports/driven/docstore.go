package driven

import (
	"context"

	"github.com/purple-ai/docuchat/internal/core/domain"
)

// DocumentStore persists the local registry of ingested documents.
// The registry is reconciled against IndexStore.ListDocumentNames to
// detect documents known on only one side.
type DocumentStore interface {
	// Save stores or updates a document record, keyed by name.
	Save(ctx context.Context, doc domain.Document) error

	// Get retrieves a document record by name.
	// Returns domain.ErrNotFound if absent.
	Get(ctx context.Context, name string) (*domain.Document, error)

	// List returns all document records ordered by name.
	List(ctx context.Context) ([]domain.Document, error)

	// Delete removes a document record. Deleting an absent record is not
	// an error.
	Delete(ctx context.Context, name string) error

	// Close releases resources.
	Close() error
}

// SettingsStore persists user chat preferences between sessions.
type SettingsStore interface {
	// Get returns the persisted settings, or defaults if none are stored.
	Get() (domain.ChatSettings, error)

	// Save persists the settings.
	Save(settings domain.ChatSettings) error
}

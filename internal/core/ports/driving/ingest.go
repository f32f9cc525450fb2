package driving

import (
	"context"

	"github.com/purple-ai/docuchat/internal/core/domain"
)

// IngestService turns raw document text into indexed, embedded chunks.
type IngestService interface {
	// Ingest chunks text, embeds each chunk and bulk-upserts the result
	// under documentName. Partial bulk failures are reported in the
	// returned report, not hidden.
	Ingest(ctx context.Context, documentName, text string) (*domain.IngestReport, error)

	// IngestFile ingests text that originated from a file, recording the
	// source path in the registry.
	IngestFile(ctx context.Context, documentName, path, text string) (*domain.IngestReport, error)
}

// DocumentService manages ingested documents across the local registry
// and the search index.
type DocumentService interface {
	// List reconciles the registry against the index's document names.
	List(ctx context.Context) ([]domain.DocumentStatus, error)

	// Delete removes a document's chunks from the index and its record
	// from the registry. Returns the number of deleted index entries.
	Delete(ctx context.Context, name string) (int, error)
}

// ContextService assembles grounding context for a query. Fail-open:
// retrieval errors degrade to an empty context, they never propagate.
type ContextService interface {
	// BuildContext embeds the query, runs hybrid search and joins the hit
	// texts with blank lines.
	BuildContext(ctx context.Context, query string, topK int) domain.ContextResult
}

// SettingsService manages persisted chat preferences.
type SettingsService interface {
	// Get returns current settings (defaults when nothing is persisted).
	Get() (domain.ChatSettings, error)

	// Save validates and persists settings.
	Save(settings domain.ChatSettings) error
}

package driven

import (
	"context"

	"github.com/purple-ai/docuchat/internal/core/domain"
)

// IndexStore owns the search engine's index lifecycle: creation, bulk
// upsert, delete-by-document and document-name listing.
//
// Connectivity failures wrap domain.ErrEngineUnreachable so callers can
// present engine-specific remediation instead of a generic failure.
type IndexStore interface {
	// EnsureIndex creates the index with the chunk schema (text field,
	// vector field of the configured dimension, document-name keyword
	// field) if it does not exist. Idempotent.
	EnsureIndex(ctx context.Context) error

	// IndexExists reports whether the index has been created.
	IndexExists(ctx context.Context) (bool, error)

	// BulkUpsert writes entries in one bulk call, keyed by chunk ID.
	// Partial failure is surfaced: it returns the number of items the
	// engine accepted alongside per-item errors.
	BulkUpsert(ctx context.Context, entries []domain.IndexEntry) (int, []domain.BulkError, error)

	// DeleteByDocument removes every entry whose document name matches and
	// returns the deletion count. Deleting a non-existent document
	// succeeds with zero deletions.
	DeleteByDocument(ctx context.Context, documentName string) (int, error)

	// ListDocumentNames returns the distinct document names currently
	// indexed, via an aggregation query.
	ListDocumentNames(ctx context.Context) ([]string, error)
}

// HybridSearcher issues a combined lexical + vector query and returns
// ranked hits, best-first.
type HybridSearcher interface {
	// Search combines a text match on the chunk text field with a
	// k-nearest-neighbour match on the embedding field, fused by the
	// engine's rank pipeline, limited to topK. Zero matches yield an
	// empty slice and a nil error.
	Search(ctx context.Context, queryText string, queryVector []float32, topK int) ([]domain.SearchHit, error)
}

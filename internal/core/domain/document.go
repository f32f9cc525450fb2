package domain

import (
	"fmt"
	"time"
)

// Document represents an uploaded document tracked in the local registry.
// The document name is the primary key: chunk IDs derive from it and
// deletion from the search index is keyed on it.
type Document struct {
	// Name is the unique document name (e.g. "report.pdf").
	Name string

	// Path is the local filesystem path the text was read from, if any.
	Path string

	// SizeBytes is the length of the extracted text in bytes.
	SizeBytes int64

	// ChunkCount is the number of chunks produced at last ingest.
	ChunkCount int

	// IngestID identifies the ingest run that last wrote this document.
	IngestID string

	// IndexedAt is when the document was last indexed.
	IndexedAt time.Time
}

// Chunk is a searchable unit of document text.
// Chunks from one document form an ordered sequence.
type Chunk struct {
	// ID is the deterministic chunk identifier: "<document name>_<position>".
	// It is the search engine's primary key, so re-ingesting a document
	// overwrites its previous chunks instead of duplicating them.
	ID string

	// DocumentName is the name of the owning document.
	DocumentName string

	// Text is the chunk content. Never empty.
	Text string

	// Position is the ordinal index within the document.
	Position int
}

// ChunkID derives the deterministic chunk identifier for a document
// name and ordinal position.
func ChunkID(documentName string, position int) string {
	return fmt.Sprintf("%s_%d", documentName, position)
}

// IndexEntry is what gets persisted in the search engine for one chunk.
type IndexEntry struct {
	// ChunkID is the engine document ID.
	ChunkID string

	// Text is the chunk content.
	Text string

	// Embedding is the chunk's vector representation. Its length must
	// equal the configured embedding dimension for the index lifetime.
	Embedding []float32

	// DocumentName is the owning document, used for delete-by-document.
	DocumentName string
}

// SearchHit is a single result from hybrid search.
// Callers consume only the text; the score is informational.
type SearchHit struct {
	// Text is the matched chunk content.
	Text string

	// Score is the engine's fused relevance score.
	Score float64
}

// BulkError describes one failed item of a bulk index request.
type BulkError struct {
	// ChunkID is the item that failed.
	ChunkID string

	// Reason is the engine's error description.
	Reason string
}

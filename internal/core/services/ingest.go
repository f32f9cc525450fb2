package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/purple-ai/docuchat/internal/core/domain"
	"github.com/purple-ai/docuchat/internal/core/ports/driven"
	"github.com/purple-ai/docuchat/internal/core/ports/driving"
	"github.com/purple-ai/docuchat/internal/logger"
	"github.com/purple-ai/docuchat/internal/postprocessors/chunker"
)

// Ensure IngestService implements the interface.
var _ driving.IngestService = (*IngestService)(nil)

// IngestService turns raw document text into embedded, indexed chunks
// and records the result in the local registry.
type IngestService struct {
	chunker    *chunker.Processor
	embedder   driven.EmbeddingService
	indexStore driven.IndexStore
	registry   driven.DocumentStore
}

// NewIngestService creates a new ingest service. The registry is
// optional (can be nil); without it ingests still index but leave no
// local record.
func NewIngestService(
	chunkProcessor *chunker.Processor,
	embedder driven.EmbeddingService,
	indexStore driven.IndexStore,
	registry driven.DocumentStore,
) *IngestService {
	return &IngestService{
		chunker:    chunkProcessor,
		embedder:   embedder,
		indexStore: indexStore,
		registry:   registry,
	}
}

// Ingest chunks the text, embeds every chunk in one batch and
// bulk-upserts the results under documentName. Re-ingesting a document
// overwrites its chunks in place: chunk IDs are deterministic, so the
// bulk call replaces rather than duplicates.
func (s *IngestService) Ingest(ctx context.Context, documentName, text string) (*domain.IngestReport, error) {
	documentName = strings.TrimSpace(documentName)
	if documentName == "" {
		return nil, fmt.Errorf("%w: document name is required", domain.ErrInvalidInput)
	}

	logger.Section("Ingest " + documentName)

	chunks := s.chunker.Split(documentName, text)
	if len(chunks) == 0 {
		return nil, fmt.Errorf("%w: document %q has no text to chunk", domain.ErrInvalidInput, documentName)
	}
	logger.Info("Split %q into %d chunks (size %d, overlap %d)",
		documentName, len(chunks), s.chunker.ChunkSize(), s.chunker.Overlap())

	texts := make([]string, len(chunks))
	for i, chunk := range chunks {
		texts[i] = chunk.Text
	}

	vectors, err := s.embedder.EmbedBatch(ctx, texts)
	if err != nil {
		return nil, fmt.Errorf("embedding chunks: %w", err)
	}
	if len(vectors) != len(chunks) {
		return nil, fmt.Errorf("embedding chunks: got %d vectors for %d chunks", len(vectors), len(chunks))
	}

	if err := s.indexStore.EnsureIndex(ctx); err != nil {
		return nil, fmt.Errorf("ensuring index: %w", err)
	}

	entries := make([]domain.IndexEntry, len(chunks))
	for i, chunk := range chunks {
		entries[i] = domain.IndexEntry{
			ChunkID:      chunk.ID,
			Text:         chunk.Text,
			Embedding:    vectors[i],
			DocumentName: documentName,
		}
	}

	indexed, bulkErrors, err := s.indexStore.BulkUpsert(ctx, entries)
	if err != nil {
		return nil, fmt.Errorf("indexing chunks: %w", err)
	}
	for _, bulkErr := range bulkErrors {
		logger.Warn("Chunk %s rejected by index: %s", bulkErr.ChunkID, bulkErr.Reason)
	}

	report := &domain.IngestReport{
		IngestID:     uuid.NewString(),
		DocumentName: documentName,
		ChunkCount:   len(chunks),
		IndexedCount: indexed,
		Errors:       bulkErrors,
	}

	if s.registry != nil {
		doc := domain.Document{
			Name:       documentName,
			SizeBytes:  int64(len(text)),
			ChunkCount: len(chunks),
			IngestID:   report.IngestID,
		}
		if err := s.registry.Save(ctx, doc); err != nil {
			// The index already holds the chunks; a registry miss only
			// affects the local listing, so log and carry on.
			logger.Warn("Failed to record %q in the registry: %v", documentName, err)
		}
	}

	logger.Info("Ingest %s complete: %d/%d chunks indexed", report.IngestID, indexed, len(chunks))
	return report, nil
}

// IngestFile is a convenience that stamps the registry record with the
// source path.
func (s *IngestService) IngestFile(ctx context.Context, documentName, path, text string) (*domain.IngestReport, error) {
	report, err := s.Ingest(ctx, documentName, text)
	if err != nil {
		return nil, err
	}

	if s.registry != nil && path != "" {
		if doc, getErr := s.registry.Get(ctx, report.DocumentName); getErr == nil {
			doc.Path = path
			if saveErr := s.registry.Save(ctx, *doc); saveErr != nil {
				logger.Warn("Failed to record path for %q: %v", report.DocumentName, saveErr)
			}
		}
	}
	return report, nil
}

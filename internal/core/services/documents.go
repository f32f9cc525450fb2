package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/purple-ai/docuchat/internal/core/domain"
	"github.com/purple-ai/docuchat/internal/core/ports/driven"
	"github.com/purple-ai/docuchat/internal/core/ports/driving"
	"github.com/purple-ai/docuchat/internal/logger"
)

// Ensure DocumentService implements the interface.
var _ driving.DocumentService = (*DocumentService)(nil)

// DocumentService manages ingested documents across the local registry
// and the search index, which can drift apart (a crashed ingest, a
// wiped index, a deleted registry file).
type DocumentService struct {
	registry   driven.DocumentStore
	indexStore driven.IndexStore
}

// NewDocumentService creates a new document service.
func NewDocumentService(registry driven.DocumentStore, indexStore driven.IndexStore) *DocumentService {
	return &DocumentService{
		registry:   registry,
		indexStore: indexStore,
	}
}

// List reconciles the registry against the index and returns one status
// per document name known to either side, ordered by name.
func (s *DocumentService) List(ctx context.Context) ([]domain.DocumentStatus, error) {
	docs, err := s.registry.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing registry: %w", err)
	}

	statuses := make(map[string]*domain.DocumentStatus, len(docs))
	for _, doc := range docs {
		statuses[doc.Name] = &domain.DocumentStatus{
			Document:   doc,
			InRegistry: true,
		}
	}

	exists, err := s.indexStore.IndexExists(ctx)
	if err != nil {
		return nil, fmt.Errorf("checking index: %w", err)
	}
	if exists {
		names, err := s.indexStore.ListDocumentNames(ctx)
		if err != nil {
			return nil, fmt.Errorf("listing index: %w", err)
		}
		for _, name := range names {
			if status, ok := statuses[name]; ok {
				status.InIndex = true
				continue
			}
			statuses[name] = &domain.DocumentStatus{
				Document: domain.Document{Name: name},
				InIndex:  true,
			}
		}
	}

	result := make([]domain.DocumentStatus, 0, len(statuses))
	for _, status := range statuses {
		result = append(result, *status)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Document.Name < result[j].Document.Name
	})
	return result, nil
}

// Delete removes a document's chunks from the index and its record from
// the registry. Returns the number of deleted index entries. Deleting a
// document unknown to both sides returns domain.ErrNotFound.
func (s *DocumentService) Delete(ctx context.Context, name string) (int, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return 0, fmt.Errorf("%w: document name is required", domain.ErrInvalidInput)
	}

	inRegistry := true
	if _, err := s.registry.Get(ctx, name); err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			return 0, fmt.Errorf("checking registry: %w", err)
		}
		inRegistry = false
	}

	deleted := 0
	exists, err := s.indexStore.IndexExists(ctx)
	if err != nil {
		return 0, fmt.Errorf("checking index: %w", err)
	}
	if exists {
		deleted, err = s.indexStore.DeleteByDocument(ctx, name)
		if err != nil {
			return 0, fmt.Errorf("deleting from index: %w", err)
		}
	}

	if !inRegistry && deleted == 0 {
		return 0, fmt.Errorf("document %q: %w", name, domain.ErrNotFound)
	}

	if err := s.registry.Delete(ctx, name); err != nil {
		return deleted, fmt.Errorf("deleting from registry: %w", err)
	}

	logger.Info("Deleted document %q (%d index entries)", name, deleted)
	return deleted, nil
}

package services

import (
	"context"
	"strings"

	"github.com/purple-ai/docuchat/internal/core/domain"
	"github.com/purple-ai/docuchat/internal/core/ports/driven"
	"github.com/purple-ai/docuchat/internal/core/ports/driving"
	"github.com/purple-ai/docuchat/internal/logger"
)

// Ensure ContextService implements the interface.
var _ driving.ContextService = (*ContextService)(nil)

// ContextService assembles grounding context for a chat query.
//
// Every failure mode degrades to an empty context with a tagged reason:
// a broken retrieval pipeline turns chat into a plain conversation, it
// never blocks it.
type ContextService struct {
	embedder   driven.EmbeddingService
	indexStore driven.IndexStore
	searcher   driven.HybridSearcher
}

// NewContextService creates a new context service.
func NewContextService(
	embedder driven.EmbeddingService,
	indexStore driven.IndexStore,
	searcher driven.HybridSearcher,
) *ContextService {
	return &ContextService{
		embedder:   embedder,
		indexStore: indexStore,
		searcher:   searcher,
	}
}

// BuildContext embeds the query, runs hybrid search and joins the hit
// texts with blank lines. Blank hit texts are skipped.
func (s *ContextService) BuildContext(ctx context.Context, query string, topK int) domain.ContextResult {
	exists, err := s.indexStore.IndexExists(ctx)
	if err != nil {
		logger.Warn("Context degraded, index check failed: %v", err)
		return domain.ContextResult{Reason: domain.ContextReasonSearchFailed}
	}
	if !exists {
		logger.Debug("Context skipped, no index yet")
		return domain.ContextResult{Reason: domain.ContextReasonIndexMissing}
	}

	vector, err := s.embedder.Embed(ctx, query)
	if err != nil {
		logger.Warn("Context degraded, query embedding failed: %v", err)
		return domain.ContextResult{Reason: domain.ContextReasonEmbeddingFailed}
	}

	hits, err := s.searcher.Search(ctx, query, vector, topK)
	if err != nil {
		logger.Warn("Context degraded, hybrid search failed: %v", err)
		return domain.ContextResult{Reason: domain.ContextReasonSearchFailed}
	}

	texts := make([]string, 0, len(hits))
	for _, hit := range hits {
		text := strings.TrimSpace(hit.Text)
		if text == "" {
			continue
		}
		texts = append(texts, text)
	}
	if len(texts) == 0 {
		logger.Debug("Context empty, search returned no usable hits")
		return domain.ContextResult{Reason: domain.ContextReasonNoResults}
	}

	logger.Debug("Context assembled from %d hits", len(texts))
	return domain.ContextResult{
		Context: strings.Join(texts, "\n\n"),
		Reason:  domain.ContextReasonOK,
	}
}

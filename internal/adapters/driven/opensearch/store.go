// Package opensearch owns the chunk index inside an OpenSearch cluster:
// index lifecycle, bulk upserts keyed by chunk ID, delete-by-document and
// hybrid (lexical + k-NN) retrieval through the engine's search pipeline.
package opensearch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	opensearchclient "github.com/opensearch-project/opensearch-go/v2"

	"github.com/purple-ai/docuchat/internal/core/domain"
	"github.com/purple-ai/docuchat/internal/core/ports/driven"
	"github.com/purple-ai/docuchat/internal/logger"
)

// Ensure Store implements both engine-facing interfaces.
var (
	_ driven.IndexStore     = (*Store)(nil)
	_ driven.HybridSearcher = (*Store)(nil)
)

// Default configuration values.
const (
	DefaultAddress   = "http://localhost:9200"
	DefaultIndexName = "documents"
	DefaultTimeout   = 30 * time.Second

	// searchPipeline is the engine-side rank pipeline that fuses the
	// lexical and vector sub-queries into one ranking.
	searchPipeline = "nlp-search-pipeline"

	// documentNameBuckets caps the distinct-name aggregation.
	documentNameBuckets = 10000
)

// Config holds configuration for the OpenSearch store.
type Config struct {
	// Address is the cluster URL (default: http://localhost:9200).
	Address string

	// IndexName is the chunk index (default: documents).
	IndexName string

	// Dimension is the embedding vector width for the index mapping.
	Dimension int

	// Timeout is the request timeout (default: 30s).
	Timeout time.Duration
}

// Store talks to one OpenSearch index holding chunk records:
// {text, embedding, document_name}, keyed by chunk ID.
type Store struct {
	client    *opensearchclient.Client
	indexName string
	dimension int
}

// NewStore creates an OpenSearch-backed store. It does not touch the
// network; connectivity problems surface on first use as
// domain.ErrEngineUnreachable.
func NewStore(cfg Config) (*Store, error) {
	if cfg.Address == "" {
		cfg.Address = DefaultAddress
	}
	if cfg.IndexName == "" {
		cfg.IndexName = DefaultIndexName
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.Dimension <= 0 {
		return nil, fmt.Errorf("%w: index vector dimension must be positive, got %d",
			domain.ErrInvalidConfig, cfg.Dimension)
	}

	client, err := opensearchclient.NewClient(opensearchclient.Config{
		Addresses:           []string{cfg.Address},
		CompressRequestBody: true,
		MaxRetries:          3,
		Transport: &http.Transport{
			ResponseHeaderTimeout: cfg.Timeout,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("create opensearch client: %w", err)
	}

	return &Store{
		client:    client,
		indexName: cfg.IndexName,
		dimension: cfg.Dimension,
	}, nil
}

// IndexName returns the configured index name.
func (s *Store) IndexName() string {
	return s.indexName
}

// IndexExists reports whether the chunk index has been created.
func (s *Store) IndexExists(ctx context.Context) (bool, error) {
	resp, err := s.client.Indices.Exists(
		[]string{s.indexName},
		s.client.Indices.Exists.WithContext(ctx),
	)
	if err != nil {
		return false, fmt.Errorf("%w: index exists check: %v", domain.ErrEngineUnreachable, err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		return true, nil
	case http.StatusNotFound:
		return false, nil
	default:
		return false, fmt.Errorf("opensearch: index exists check returned status %d", resp.StatusCode)
	}
}

// EnsureIndex creates the chunk index if absent. The mapping fixes the
// vector field width for the index lifetime; changing the embedding
// model requires rebuilding the index.
func (s *Store) EnsureIndex(ctx context.Context) error {
	exists, err := s.IndexExists(ctx)
	if err != nil {
		return err
	}
	if exists {
		logger.Debug("Index %s already exists", s.indexName)
		return nil
	}

	body := map[string]any{
		"settings": map[string]any{
			"index": map[string]any{
				"knn": true,
			},
		},
		"mappings": map[string]any{
			"properties": map[string]any{
				"text": map[string]any{
					"type": "text",
				},
				"embedding": map[string]any{
					"type":      "knn_vector",
					"dimension": s.dimension,
				},
				"document_name": map[string]any{
					"type": "keyword",
				},
			},
		},
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshal index mapping: %w", err)
	}

	resp, err := s.client.Indices.Create(
		s.indexName,
		s.client.Indices.Create.WithBody(bytes.NewReader(payload)),
		s.client.Indices.Create.WithContext(ctx),
	)
	if err != nil {
		return fmt.Errorf("%w: create index: %v", domain.ErrEngineUnreachable, err)
	}
	defer resp.Body.Close()

	if resp.IsError() {
		return fmt.Errorf("opensearch: create index returned status %d: %s",
			resp.StatusCode, readBody(resp.Body))
	}

	logger.Info("Created index %s (dimension %d)", s.indexName, s.dimension)
	return nil
}

// bulkItemResponse is one item of the engine's bulk response.
type bulkItemResponse struct {
	Index struct {
		ID     string `json:"_id"`
		Status int    `json:"status"`
		Error  *struct {
			Type   string `json:"type"`
			Reason string `json:"reason"`
		} `json:"error,omitempty"`
	} `json:"index"`
}

// bulkResponse is the engine's bulk response envelope.
type bulkResponse struct {
	Errors bool               `json:"errors"`
	Items  []bulkItemResponse `json:"items"`
}

// BulkUpsert writes entries in one bulk call keyed by chunk ID.
// Per-item failures are surfaced as counts and reasons; they do not fail
// the whole batch.
func (s *Store) BulkUpsert(ctx context.Context, entries []domain.IndexEntry) (int, []domain.BulkError, error) {
	if len(entries) == 0 {
		return 0, nil, nil
	}

	var buf bytes.Buffer
	for _, entry := range entries {
		if len(entry.Embedding) != s.dimension {
			return 0, nil, fmt.Errorf("%w: chunk %s has %d dimensions, index expects %d",
				domain.ErrDimensionMismatch, entry.ChunkID, len(entry.Embedding), s.dimension)
		}

		action := map[string]any{
			"index": map[string]any{
				"_index": s.indexName,
				"_id":    entry.ChunkID,
			},
		}
		source := map[string]any{
			"text":          entry.Text,
			"embedding":     entry.Embedding,
			"document_name": entry.DocumentName,
		}

		if err := json.NewEncoder(&buf).Encode(action); err != nil {
			return 0, nil, fmt.Errorf("encode bulk action: %w", err)
		}
		if err := json.NewEncoder(&buf).Encode(source); err != nil {
			return 0, nil, fmt.Errorf("encode bulk source: %w", err)
		}
	}

	resp, err := s.client.Bulk(
		bytes.NewReader(buf.Bytes()),
		s.client.Bulk.WithContext(ctx),
	)
	if err != nil {
		return 0, nil, fmt.Errorf("%w: bulk upsert: %v", domain.ErrEngineUnreachable, err)
	}
	defer resp.Body.Close()

	if resp.IsError() {
		return 0, nil, fmt.Errorf("opensearch: bulk upsert returned status %d: %s",
			resp.StatusCode, readBody(resp.Body))
	}

	var bulkResp bulkResponse
	if err := json.NewDecoder(resp.Body).Decode(&bulkResp); err != nil {
		return 0, nil, fmt.Errorf("decode bulk response: %w", err)
	}

	success := 0
	var bulkErrors []domain.BulkError
	for _, item := range bulkResp.Items {
		if item.Index.Error != nil {
			bulkErrors = append(bulkErrors, domain.BulkError{
				ChunkID: item.Index.ID,
				Reason:  item.Index.Error.Reason,
			})
			continue
		}
		success++
	}

	logger.Info("Bulk indexed %d/%d chunks into %s (%d errors)",
		success, len(entries), s.indexName, len(bulkErrors))
	return success, bulkErrors, nil
}

// DeleteByDocument removes every entry whose document_name matches.
// Deleting a non-existent document succeeds with zero deletions.
func (s *Store) DeleteByDocument(ctx context.Context, documentName string) (int, error) {
	query := map[string]any{
		"query": map[string]any{
			"term": map[string]any{
				"document_name": documentName,
			},
		},
	}

	payload, err := json.Marshal(query)
	if err != nil {
		return 0, fmt.Errorf("marshal delete query: %w", err)
	}

	resp, err := s.client.DeleteByQuery(
		[]string{s.indexName},
		bytes.NewReader(payload),
		s.client.DeleteByQuery.WithContext(ctx),
	)
	if err != nil {
		return 0, fmt.Errorf("%w: delete by document: %v", domain.ErrEngineUnreachable, err)
	}
	defer resp.Body.Close()

	if resp.IsError() {
		return 0, fmt.Errorf("opensearch: delete by document returned status %d: %s",
			resp.StatusCode, readBody(resp.Body))
	}

	var deleteResp struct {
		Deleted int `json:"deleted"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&deleteResp); err != nil {
		return 0, fmt.Errorf("decode delete response: %w", err)
	}

	logger.Info("Deleted %d chunks of document %q from %s", deleteResp.Deleted, documentName, s.indexName)
	return deleteResp.Deleted, nil
}

// ListDocumentNames returns the distinct document_name values currently
// indexed, via a terms aggregation.
func (s *Store) ListDocumentNames(ctx context.Context) ([]string, error) {
	query := map[string]any{
		"size": 0,
		"aggs": map[string]any{
			"document_names": map[string]any{
				"terms": map[string]any{
					"field": "document_name",
					"size":  documentNameBuckets,
				},
			},
		},
	}

	payload, err := json.Marshal(query)
	if err != nil {
		return nil, fmt.Errorf("marshal aggregation query: %w", err)
	}

	resp, err := s.client.Search(
		s.client.Search.WithContext(ctx),
		s.client.Search.WithIndex(s.indexName),
		s.client.Search.WithBody(bytes.NewReader(payload)),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: list document names: %v", domain.ErrEngineUnreachable, err)
	}
	defer resp.Body.Close()

	if resp.IsError() {
		return nil, fmt.Errorf("opensearch: list document names returned status %d: %s",
			resp.StatusCode, readBody(resp.Body))
	}

	var aggResp struct {
		Aggregations struct {
			DocumentNames struct {
				Buckets []struct {
					Key string `json:"key"`
				} `json:"buckets"`
			} `json:"document_names"`
		} `json:"aggregations"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&aggResp); err != nil {
		return nil, fmt.Errorf("decode aggregation response: %w", err)
	}

	names := make([]string, 0, len(aggResp.Aggregations.DocumentNames.Buckets))
	for _, bucket := range aggResp.Aggregations.DocumentNames.Buckets {
		names = append(names, bucket.Key)
	}
	return names, nil
}

// readBody drains a response body for error messages, best effort.
func readBody(r io.Reader) string {
	data, err := io.ReadAll(r)
	if err != nil {
		return "<unreadable>"
	}
	return strings.TrimSpace(string(data))
}

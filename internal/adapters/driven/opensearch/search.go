package opensearch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/purple-ai/docuchat/internal/core/domain"
)

// searchResponse is the subset of the engine's search response that
// retrieval needs.
type searchResponse struct {
	Hits struct {
		Hits []struct {
			Score  float64 `json:"_score"`
			Source struct {
				Text         string `json:"text"`
				DocumentName string `json:"document_name"`
			} `json:"_source"`
		} `json:"hits"`
	} `json:"hits"`
}

// Search runs a hybrid query combining a lexical match on the text field
// with a k-NN match on the embedding field. The two sub-queries are fused
// by the engine's rank pipeline. Embeddings are excluded from the source
// to keep responses small.
func (s *Store) Search(ctx context.Context, queryText string, queryVector []float32, topK int) ([]domain.SearchHit, error) {
	if topK <= 0 {
		return nil, fmt.Errorf("%w: topK must be positive, got %d", domain.ErrInvalidInput, topK)
	}
	if len(queryVector) != s.dimension {
		return nil, fmt.Errorf("%w: query vector has %d dimensions, index expects %d",
			domain.ErrDimensionMismatch, len(queryVector), s.dimension)
	}

	query := map[string]any{
		"size": topK,
		"_source": map[string]any{
			"excludes": []string{"embedding"},
		},
		"query": map[string]any{
			"hybrid": map[string]any{
				"queries": []any{
					map[string]any{
						"match": map[string]any{
							"text": map[string]any{
								"query": queryText,
							},
						},
					},
					map[string]any{
						"knn": map[string]any{
							"embedding": map[string]any{
								"vector": queryVector,
								"k":      topK,
							},
						},
					},
				},
			},
		},
	}

	payload, err := json.Marshal(query)
	if err != nil {
		return nil, fmt.Errorf("marshal search query: %w", err)
	}

	resp, err := s.performSearch(ctx, payload)
	if err != nil {
		return nil, fmt.Errorf("%w: hybrid search: %v", domain.ErrEngineUnreachable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusMultipleChoices {
		return nil, fmt.Errorf("opensearch: hybrid search returned status %d: %s",
			resp.StatusCode, readBody(resp.Body))
	}

	var searchResp searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&searchResp); err != nil {
		return nil, fmt.Errorf("decode search response: %w", err)
	}

	hits := make([]domain.SearchHit, 0, len(searchResp.Hits.Hits))
	for _, hit := range searchResp.Hits.Hits {
		hits = append(hits, domain.SearchHit{
			Text:  hit.Source.Text,
			Score: hit.Score,
		})
	}
	return hits, nil
}

// performSearch issues the search over the client's raw transport. The
// v2 client's Search API has no search pipeline option, so the pipeline
// rides on the query string the way the engine also accepts it.
func (s *Store) performSearch(ctx context.Context, payload []byte) (*http.Response, error) {
	req := &http.Request{
		Method: http.MethodPost,
		URL: &url.URL{
			Path:     "/" + s.indexName + "/_search",
			RawQuery: url.Values{"search_pipeline": []string{searchPipeline}}.Encode(),
		},
		Header:        http.Header{"Content-Type": []string{"application/json"}},
		Body:          io.NopCloser(bytes.NewReader(payload)),
		ContentLength: int64(len(payload)),
	}
	return s.client.Perform(req.WithContext(ctx))
}

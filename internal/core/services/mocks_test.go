package services

import (
	"context"
	"sort"

	"github.com/purple-ai/docuchat/internal/core/domain"
	"github.com/purple-ai/docuchat/internal/core/ports/driven"
)

// --- Mock implementations ---

// mockEmbedder implements driven.EmbeddingService for testing. It
// returns a fixed-width vector derived from the input length.
type mockEmbedder struct {
	dims     int
	embedErr error
	batches  [][]string
}

func (m *mockEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	vectors, err := m.EmbedBatch(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vectors[0], nil
}

func (m *mockEmbedder) EmbedBatch(_ context.Context, texts []string) ([][]float32, error) {
	if m.embedErr != nil {
		return nil, m.embedErr
	}
	m.batches = append(m.batches, texts)
	vectors := make([][]float32, len(texts))
	for i := range texts {
		vectors[i] = make([]float32, m.dims)
		vectors[i][0] = float32(len(texts[i]))
	}
	return vectors, nil
}

func (m *mockEmbedder) Dimensions() int   { return m.dims }
func (m *mockEmbedder) ModelName() string { return "mock-embedder" }

func (m *mockEmbedder) Ping(_ context.Context) error { return nil }
func (m *mockEmbedder) Close() error                 { return nil }

// mockIndexStore implements driven.IndexStore and driven.HybridSearcher
// for testing.
type mockIndexStore struct {
	exists    bool
	existsErr error
	ensureErr error

	entries    map[string]domain.IndexEntry
	upsertErr  error
	bulkErrors []domain.BulkError

	deleteErr error
	searchErr error
	hits      []domain.SearchHit
}

func newMockIndexStore() *mockIndexStore {
	return &mockIndexStore{entries: make(map[string]domain.IndexEntry)}
}

func (m *mockIndexStore) EnsureIndex(_ context.Context) error {
	if m.ensureErr != nil {
		return m.ensureErr
	}
	m.exists = true
	return nil
}

func (m *mockIndexStore) IndexExists(_ context.Context) (bool, error) {
	return m.exists, m.existsErr
}

func (m *mockIndexStore) BulkUpsert(_ context.Context, entries []domain.IndexEntry) (int, []domain.BulkError, error) {
	if m.upsertErr != nil {
		return 0, nil, m.upsertErr
	}
	rejected := make(map[string]bool, len(m.bulkErrors))
	for _, bulkErr := range m.bulkErrors {
		rejected[bulkErr.ChunkID] = true
	}
	accepted := 0
	for _, entry := range entries {
		if rejected[entry.ChunkID] {
			continue
		}
		m.entries[entry.ChunkID] = entry
		accepted++
	}
	return accepted, m.bulkErrors, nil
}

func (m *mockIndexStore) DeleteByDocument(_ context.Context, documentName string) (int, error) {
	if m.deleteErr != nil {
		return 0, m.deleteErr
	}
	deleted := 0
	for id, entry := range m.entries {
		if entry.DocumentName == documentName {
			delete(m.entries, id)
			deleted++
		}
	}
	return deleted, nil
}

func (m *mockIndexStore) ListDocumentNames(_ context.Context) ([]string, error) {
	seen := make(map[string]bool)
	for _, entry := range m.entries {
		seen[entry.DocumentName] = true
	}
	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

func (m *mockIndexStore) Search(_ context.Context, _ string, _ []float32, topK int) ([]domain.SearchHit, error) {
	if m.searchErr != nil {
		return nil, m.searchErr
	}
	if topK < len(m.hits) {
		return m.hits[:topK], nil
	}
	return m.hits, nil
}

// mockRegistry implements driven.DocumentStore for testing.
type mockRegistry struct {
	docs      map[string]domain.Document
	saveErr   error
	listErr   error
	deleteErr error
}

func newMockRegistry() *mockRegistry {
	return &mockRegistry{docs: make(map[string]domain.Document)}
}

func (m *mockRegistry) Save(_ context.Context, doc domain.Document) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.docs[doc.Name] = doc
	return nil
}

func (m *mockRegistry) Get(_ context.Context, name string) (*domain.Document, error) {
	doc, ok := m.docs[name]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &doc, nil
}

func (m *mockRegistry) List(_ context.Context) ([]domain.Document, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	docs := make([]domain.Document, 0, len(m.docs))
	for _, doc := range m.docs {
		docs = append(docs, doc)
	}
	sort.Slice(docs, func(i, j int) bool { return docs[i].Name < docs[j].Name })
	return docs, nil
}

func (m *mockRegistry) Delete(_ context.Context, name string) error {
	if m.deleteErr != nil {
		return m.deleteErr
	}
	delete(m.docs, name)
	return nil
}

func (m *mockRegistry) Close() error { return nil }

// mockStreamer implements driven.ChatStreamer for testing.
type mockStreamer struct {
	fragments   []string
	streamErr   error
	pingErr     error
	gotMessages []domain.ChatMessage
	gotTemp     float64
}

func (m *mockStreamer) StreamChat(_ context.Context, messages []domain.ChatMessage, temperature float64, emit driven.EmitFunc) error {
	m.gotMessages = messages
	m.gotTemp = temperature
	for _, content := range m.fragments {
		if err := emit(domain.StreamFragment{Content: content}); err != nil {
			return err
		}
	}
	return m.streamErr
}

func (m *mockStreamer) ModelName() string { return "mock-model" }

func (m *mockStreamer) Ping(_ context.Context) error { return m.pingErr }
func (m *mockStreamer) Close() error                 { return nil }

// mockContextBuilder implements driving.ContextService for testing.
type mockContextBuilder struct {
	result   domain.ContextResult
	gotQuery string
	gotTopK  int
	calls    int
}

func (m *mockContextBuilder) BuildContext(_ context.Context, query string, topK int) domain.ContextResult {
	m.calls++
	m.gotQuery = query
	m.gotTopK = topK
	return m.result
}

// mockSettingsStore implements driven.SettingsStore for testing.
type mockSettingsStore struct {
	settings *domain.ChatSettings
	getErr   error
	saveErr  error
}

func (m *mockSettingsStore) Get() (domain.ChatSettings, error) {
	if m.getErr != nil {
		return domain.DefaultChatSettings(), m.getErr
	}
	if m.settings == nil {
		return domain.DefaultChatSettings(), nil
	}
	return *m.settings, nil
}

func (m *mockSettingsStore) Save(settings domain.ChatSettings) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.settings = &settings
	return nil
}

package services

import (
	"sync"

	"github.com/purple-ai/docuchat/internal/core/ports/driven"
)

// SearchStore is the engine-facing surface shared across services: index
// lifecycle plus hybrid retrieval. The OpenSearch adapter satisfies both.
type SearchStore interface {
	driven.IndexStore
	driven.HybridSearcher
}

// lazy caches a single build result, including its error. Concurrent
// first callers share one build.
type lazy[T any] struct {
	mu    sync.Mutex
	built bool
	value T
	err   error
}

func (l *lazy[T]) get(build func() (T, error)) (T, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if !l.built {
		l.value, l.err = build()
		l.built = true
	}
	return l.value, l.err
}

func (l *lazy[T]) reset() {
	l.mu.Lock()
	defer l.mu.Unlock()
	var zero T
	l.built = false
	l.value = zero
	l.err = nil
}

var (
	sharedEmbedder    lazy[driven.EmbeddingService]
	sharedSearchStore lazy[SearchStore]
)

// SharedEmbedder returns the process-wide embedding backend, building it
// on first use. Subsequent calls return the cached instance (or the
// cached build error) and ignore their build argument.
func SharedEmbedder(build func() (driven.EmbeddingService, error)) (driven.EmbeddingService, error) {
	return sharedEmbedder.get(build)
}

// SharedSearchStore returns the process-wide search engine client,
// building it on first use. Subsequent calls return the cached instance
// (or the cached build error) and ignore their build argument.
func SharedSearchStore(build func() (SearchStore, error)) (SearchStore, error) {
	return sharedSearchStore.get(build)
}

// ResetShared discards the cached embedder and search store so tests can
// rebuild them in isolation. It does not close the discarded instances.
func ResetShared() {
	sharedEmbedder.reset()
	sharedSearchStore.reset()
}

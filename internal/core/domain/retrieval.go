package domain

// ContextReason tags why context assembly produced what it did.
// Retrieval is fail-open: a degraded reason is logged, never raised
// into the chat path.
type ContextReason string

// Context assembly outcomes.
const (
	// ContextReasonOK means hits were retrieved and joined.
	ContextReasonOK ContextReason = "ok"

	// ContextReasonIndexMissing means the index has not been created yet.
	ContextReasonIndexMissing ContextReason = "index_missing"

	// ContextReasonEmbeddingFailed means the query could not be embedded.
	ContextReasonEmbeddingFailed ContextReason = "embedding_failed"

	// ContextReasonSearchFailed means the hybrid search call failed.
	ContextReasonSearchFailed ContextReason = "search_failed"

	// ContextReasonNoResults means the search succeeded with zero usable hits.
	ContextReasonNoResults ContextReason = "no_results"
)

// ContextResult carries either an assembled context string or a tagged
// degradation reason. Context is "" whenever Reason != ContextReasonOK.
type ContextResult struct {
	// Context is the retrieved chunk texts joined by blank lines.
	Context string

	// Reason tags the outcome.
	Reason ContextReason
}

// Degraded returns true if retrieval failed (as opposed to succeeding
// with or without results).
func (r ContextResult) Degraded() bool {
	switch r.Reason {
	case ContextReasonOK, ContextReasonNoResults:
		return false
	default:
		return true
	}
}

// IngestReport summarises one ingest run.
type IngestReport struct {
	// IngestID identifies the run.
	IngestID string

	// DocumentName is the ingested document.
	DocumentName string

	// ChunkCount is the number of chunks produced.
	ChunkCount int

	// IndexedCount is the number of chunks the engine accepted.
	IndexedCount int

	// Errors holds per-item bulk failures, if any.
	Errors []BulkError
}

// DocumentStatus describes one document when reconciling the local
// registry against the search index.
type DocumentStatus struct {
	// Document is the registry record. Zero-valued except Name when the
	// document exists only in the index.
	Document Document

	// InRegistry is true if the local registry knows the document.
	InRegistry bool

	// InIndex is true if the search index holds chunks for the document.
	InIndex bool
}

// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
//   - IndexStore: search-engine index lifecycle (OpenSearch)
//   - HybridSearcher: combined lexical + vector retrieval
//   - EmbeddingService: text to vector (Ollama or OpenAI)
//   - ChatStreamer: streaming chat completion (Ollama, OpenAI or Gemini)
//
// # Optional Interfaces
//
// These can be nil - the application degrades gracefully:
//
//   - DocumentStore: local registry of ingested documents (SQLite).
//     Without it, reconciliation against the index is unavailable.
//   - SettingsStore: persisted chat preferences. Without it, defaults apply.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter package
package driven

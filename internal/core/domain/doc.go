// Package domain defines the core business entities for Docuchat.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Document: An uploaded document known to the local registry
//   - Chunk: A bounded-length slice of document text, the unit of retrieval
//   - ChatMessage: One turn of a conversation transcript
//   - StreamFragment: One normalized increment of a streamed answer
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain

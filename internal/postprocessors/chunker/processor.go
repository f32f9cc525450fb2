// Package chunker provides a fixed-size overlapping text chunker.
package chunker

import (
	"fmt"

	"github.com/purple-ai/docuchat/internal/core/domain"
)

// DefaultChunkSize is the default number of characters per chunk.
const DefaultChunkSize = 300

// DefaultOverlap is the default number of trailing characters repeated
// at the start of the next chunk.
const DefaultOverlap = 100

// Processor splits document text into overlapping fixed-size chunks with
// deterministic IDs, so re-ingesting a document overwrites its previous
// chunks in the index.
type Processor struct {
	chunkSize int
	overlap   int
}

// Option configures the chunker processor.
type Option func(*Processor)

// WithChunkSize sets the chunk size in characters.
func WithChunkSize(size int) Option {
	return func(p *Processor) {
		if size > 0 {
			p.chunkSize = size
		}
	}
}

// WithOverlap sets the overlap between chunks in characters.
func WithOverlap(overlap int) Option {
	return func(p *Processor) {
		if overlap >= 0 {
			p.overlap = overlap
		}
	}
}

// New creates a chunker processor. Overlap must be strictly smaller than
// the chunk size; anything else would produce degenerate windows, so it
// is rejected as a configuration error rather than clamped.
func New(opts ...Option) (*Processor, error) {
	p := &Processor{
		chunkSize: DefaultChunkSize,
		overlap:   DefaultOverlap,
	}

	for _, opt := range opts {
		opt(p)
	}

	if p.overlap >= p.chunkSize {
		return nil, fmt.Errorf("%w: overlap %d must be smaller than chunk size %d",
			domain.ErrInvalidConfig, p.overlap, p.chunkSize)
	}

	return p, nil
}

// Name returns the processor name.
func (p *Processor) Name() string {
	return "chunker"
}

// ChunkSize returns the configured window width in characters.
func (p *Processor) ChunkSize() int {
	return p.chunkSize
}

// Overlap returns the configured overlap in characters.
func (p *Processor) Overlap() int {
	return p.overlap
}

// Split slides a window of chunkSize characters across text, advancing by
// chunkSize - overlap each step. The final window may be shorter. Empty
// text yields no chunks; no chunk is ever empty.
func (p *Processor) Split(documentName, text string) []domain.Chunk {
	if text == "" {
		return nil
	}

	step := p.chunkSize - p.overlap
	estimated := (len(text) / step) + 1
	chunks := make([]domain.Chunk, 0, estimated)

	position := 0
	for start := 0; start < len(text); start += step {
		end := start + p.chunkSize
		if end > len(text) {
			end = len(text)
		}

		chunks = append(chunks, domain.Chunk{
			ID:           domain.ChunkID(documentName, position),
			DocumentName: documentName,
			Text:         text[start:end],
			Position:     position,
		})
		position++

		if end == len(text) {
			break
		}
	}

	return chunks
}

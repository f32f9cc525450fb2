package domain

import (
	"context"
	"strings"
	"sync"
)

// StreamOptions configures one chat dispatch.
type StreamOptions struct {
	// Temperature is the sampling temperature, clamped to [0.0, 1.0]
	// before it reaches the backend.
	Temperature float64

	// RAG toggles retrieval-augmented context injection.
	RAG bool

	// TopK is the number of chunks retrieved when RAG is on.
	TopK int

	// MaxTurns is the history window size in user+assistant pairs.
	MaxTurns int
}

// ChatStream delivers one answer as a lazy, finite, non-restartable
// sequence of fragments. The channel is unbuffered: the producer blocks
// until the consumer pulls, so there is no background generation while
// nobody is reading. After the channel closes, Err distinguishes a failed
// stream from one that completed (possibly with zero fragments).
type ChatStream struct {
	fragments chan StreamFragment
	done      chan struct{}

	mu  sync.Mutex
	err error
}

// NewChatStream creates an open stream. The producer must call Finish
// exactly once.
func NewChatStream() *ChatStream {
	return &ChatStream{
		fragments: make(chan StreamFragment),
		done:      make(chan struct{}),
	}
}

// Fragments returns the consumer side of the stream.
func (s *ChatStream) Fragments() <-chan StreamFragment {
	return s.fragments
}

// Publish delivers one fragment, blocking until the consumer receives it
// or ctx is cancelled.
func (s *ChatStream) Publish(ctx context.Context, f StreamFragment) error {
	select {
	case s.fragments <- f:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Finish closes the stream. A nil err marks completion; a non-nil err
// marks failure. Must be called exactly once.
func (s *ChatStream) Finish(err error) {
	s.mu.Lock()
	s.err = err
	s.mu.Unlock()
	close(s.fragments)
	close(s.done)
}

// Err returns the terminal stream error. It blocks until the producer has
// finished, so it is safe to call right after the fragment channel closes.
func (s *ChatStream) Err() error {
	<-s.done
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// Collect drains the stream and returns the concatenated answer, or the
// stream's terminal error.
func (s *ChatStream) Collect() (string, error) {
	var b strings.Builder
	for f := range s.fragments {
		b.WriteString(f.Content)
	}
	return b.String(), s.Err()
}

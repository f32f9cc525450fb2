package chunker

import (
	"errors"
	"strings"
	"testing"

	"github.com/purple-ai/docuchat/internal/core/domain"
)

func TestNew(t *testing.T) {
	t.Run("default values", func(t *testing.T) {
		p, err := New()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if p.chunkSize != DefaultChunkSize {
			t.Errorf("expected chunkSize %d, got %d", DefaultChunkSize, p.chunkSize)
		}
		if p.overlap != DefaultOverlap {
			t.Errorf("expected overlap %d, got %d", DefaultOverlap, p.overlap)
		}
	})

	t.Run("custom chunk size", func(t *testing.T) {
		p, err := New(WithChunkSize(500))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if p.chunkSize != 500 {
			t.Errorf("expected chunkSize 500, got %d", p.chunkSize)
		}
	})

	t.Run("overlap equals chunk size", func(t *testing.T) {
		_, err := New(WithChunkSize(100), WithOverlap(100))
		if !errors.Is(err, domain.ErrInvalidConfig) {
			t.Errorf("expected ErrInvalidConfig, got %v", err)
		}
	})

	t.Run("overlap exceeds chunk size", func(t *testing.T) {
		_, err := New(WithChunkSize(100), WithOverlap(150))
		if !errors.Is(err, domain.ErrInvalidConfig) {
			t.Errorf("expected ErrInvalidConfig, got %v", err)
		}
	})

	t.Run("zero values ignored", func(t *testing.T) {
		p, err := New(WithChunkSize(0), WithOverlap(-1))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if p.chunkSize != DefaultChunkSize {
			t.Errorf("expected default chunkSize, got %d", p.chunkSize)
		}
		if p.overlap != DefaultOverlap {
			t.Errorf("expected default overlap, got %d", p.overlap)
		}
	})
}

func TestProcessor_Name(t *testing.T) {
	p, _ := New()
	if p.Name() != "chunker" {
		t.Errorf("expected name 'chunker', got '%s'", p.Name())
	}
}

func TestProcessor_Split_EmptyText(t *testing.T) {
	p, _ := New()
	chunks := p.Split("doc.txt", "")
	if len(chunks) != 0 {
		t.Errorf("expected 0 chunks for empty text, got %d", len(chunks))
	}
}

func TestProcessor_Split_SmallText(t *testing.T) {
	p, _ := New(WithChunkSize(100), WithOverlap(20))
	chunks := p.Split("doc.txt", "This is a small piece of content.")

	if len(chunks) != 1 {
		t.Fatalf("expected 1 chunk for small text, got %d", len(chunks))
	}
	if chunks[0].ID != "doc.txt_0" {
		t.Errorf("expected ID 'doc.txt_0', got '%s'", chunks[0].ID)
	}
	if chunks[0].DocumentName != "doc.txt" {
		t.Errorf("expected DocumentName 'doc.txt', got '%s'", chunks[0].DocumentName)
	}
	if chunks[0].Text != "This is a small piece of content." {
		t.Error("expected chunk text to match input")
	}
}

func TestProcessor_Split_ReferenceWindows(t *testing.T) {
	// 650 characters at size 300 / overlap 100 must produce exactly
	// [0:300], [200:500] and [400:650].
	p, _ := New(WithChunkSize(300), WithOverlap(100))
	text := strings.Repeat("abcdefghij", 65)

	chunks := p.Split("report.pdf", text)

	if len(chunks) != 3 {
		t.Fatalf("expected 3 chunks, got %d", len(chunks))
	}
	if chunks[0].Text != text[0:300] {
		t.Error("first chunk should cover [0:300]")
	}
	if chunks[1].Text != text[200:500] {
		t.Error("second chunk should cover [200:500]")
	}
	if chunks[2].Text != text[400:650] {
		t.Error("third chunk should cover [400:650]")
	}
	if len(chunks[2].Text) != 250 {
		t.Errorf("expected final chunk length 250, got %d", len(chunks[2].Text))
	}
}

func TestProcessor_Split_OverlapAndCoverage(t *testing.T) {
	p, _ := New(WithChunkSize(10), WithOverlap(3))
	text := "0123456789ABCDEFGHIJ" // 20 chars

	chunks := p.Split("doc.txt", text)

	if len(chunks) < 2 {
		t.Fatalf("expected at least 2 chunks, got %d", len(chunks))
	}

	// Consecutive chunks overlap by exactly 3 characters.
	for i := 1; i < len(chunks); i++ {
		prev := chunks[i-1].Text
		tail := prev[len(prev)-3:]
		if !strings.HasPrefix(chunks[i].Text, tail) {
			t.Errorf("chunk %d does not start with previous chunk's 3-char tail", i)
		}
	}

	// Window starts advance by step=7, covering the text with no gaps.
	step := p.ChunkSize() - p.Overlap()
	for i, chunk := range chunks {
		wantStart := i * step
		if text[wantStart:wantStart+len(chunk.Text)] != chunk.Text {
			t.Errorf("chunk %d does not cover [%d:%d]", i, wantStart, wantStart+len(chunk.Text))
		}
	}

	last := chunks[len(chunks)-1]
	if !strings.HasSuffix(text, last.Text) {
		t.Error("final chunk should end at the end of the text")
	}
}

func TestProcessor_Split_NoEmptyChunks(t *testing.T) {
	p, _ := New(WithChunkSize(50), WithOverlap(0))
	chunks := p.Split("doc.txt", strings.Repeat("a", 100)) // exactly 2 windows

	if len(chunks) != 2 {
		t.Fatalf("expected 2 chunks, got %d", len(chunks))
	}
	for _, chunk := range chunks {
		if chunk.Text == "" {
			t.Error("no chunk may be empty")
		}
	}
}

func TestProcessor_Split_DeterministicIDs(t *testing.T) {
	p, _ := New(WithChunkSize(10), WithOverlap(2))
	text := strings.Repeat("z", 30)

	first := p.Split("doc.txt", text)
	second := p.Split("doc.txt", text)

	if len(first) != len(second) {
		t.Fatalf("expected stable chunk count, got %d and %d", len(first), len(second))
	}
	for i := range first {
		if first[i].ID != second[i].ID {
			t.Errorf("chunk %d: IDs differ between runs: %s vs %s", i, first[i].ID, second[i].ID)
		}
		if first[i].Position != i {
			t.Errorf("expected position %d, got %d", i, first[i].Position)
		}
	}
}

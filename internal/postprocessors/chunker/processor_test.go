package chunker

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/corpora-labs/corpora-cli/internal/core/domain"
)

func TestNew(t *testing.T) {
	t.Run("default values", func(t *testing.T) {
		p := New()
		if p.chunkSize != DefaultChunkSize {
			t.Errorf("expected chunkSize %d, got %d", DefaultChunkSize, p.chunkSize)
		}
		if p.overlap != DefaultChunkOverlap {
			t.Errorf("expected overlap %d, got %d", DefaultChunkOverlap, p.overlap)
		}
	})

	t.Run("custom chunk size", func(t *testing.T) {
		p := New(WithChunkSize(800))
		if p.chunkSize != 800 {
			t.Errorf("expected chunkSize 800, got %d", p.chunkSize)
		}
	})

	t.Run("overlap exceeds chunk size", func(t *testing.T) {
		p := New(WithChunkSize(100), WithOverlap(150))
		if p.overlap >= p.chunkSize {
			t.Error("overlap should be reduced when it exceeds chunk size")
		}
	})

	t.Run("zero values ignored", func(t *testing.T) {
		p := New(WithChunkSize(0), WithOverlap(-1))
		if p.chunkSize != DefaultChunkSize {
			t.Errorf("expected default chunkSize, got %d", p.chunkSize)
		}
		if p.overlap != DefaultChunkOverlap {
			t.Errorf("expected default overlap, got %d", p.overlap)
		}
	})
}

func TestProcessor_Name(t *testing.T) {
	p := New()
	if p.Name() != "chunker" {
		t.Errorf("expected name 'chunker', got '%s'", p.Name())
	}
}

func proseExtraction(text string) *domain.Extraction {
	return &domain.Extraction{Text: text, Mode: domain.ChunkModeProse}
}

func TestProcessor_Process_EmptyContent(t *testing.T) {
	p := New()

	chunks, err := p.Process(context.Background(), "test-doc", proseExtraction(""), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(chunks) != 0 {
		t.Errorf("expected 0 chunks for empty content, got %d", len(chunks))
	}
}

func TestProcessor_Process_SmallContent(t *testing.T) {
	p := New(WithChunkSize(100), WithOverlap(20))

	chunks, err := p.Process(context.Background(), "test-doc", proseExtraction("This is a short sentence."), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(chunks) != 1 {
		t.Fatalf("expected 1 chunk, got %d", len(chunks))
	}
	if chunks[0].Text != "This is a short sentence." {
		t.Errorf("unexpected chunk text: %q", chunks[0].Text)
	}
	if chunks[0].DocumentID != "test-doc" {
		t.Errorf("expected document ID 'test-doc', got %q", chunks[0].DocumentID)
	}
	if chunks[0].Ordinal != 0 {
		t.Errorf("expected ordinal 0, got %d", chunks[0].Ordinal)
	}
}

func TestProcessor_Process_ChunkIDs(t *testing.T) {
	p := New(WithChunkSize(60), WithOverlap(0))
	text := strings.Repeat("A wholly unremarkable sentence sits here. ", 5)

	chunks, err := p.Process(context.Background(), "doc-7", proseExtraction(text), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(chunks) < 2 {
		t.Fatalf("expected multiple chunks, got %d", len(chunks))
	}
	for i, c := range chunks {
		if c.ID != domain.ChunkID("doc-7", i) {
			t.Errorf("chunk %d: expected ID %q, got %q", i, domain.ChunkID("doc-7", i), c.ID)
		}
		if c.Ordinal != i {
			t.Errorf("chunk %d: expected ordinal %d, got %d", i, i, c.Ordinal)
		}
	}
}

func TestProcessor_Process_SizeBound(t *testing.T) {
	p := New(WithChunkSize(500), WithOverlap(50))
	text := strings.Repeat("Each of these sentences is about sixty characters long, yes. ", 20)

	chunks, err := p.Process(context.Background(), "doc", proseExtraction(text), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i, c := range chunks {
		if len(c.Text) > 500 {
			t.Errorf("chunk %d exceeds size bound: %d chars", i, len(c.Text))
		}
	}
}

func TestProcessor_Process_Overlap(t *testing.T) {
	p := New(WithChunkSize(500), WithOverlap(50))
	// ~27 sentences of 44 chars each, roughly 1200 chars total.
	var sb strings.Builder
	for i := 0; i < 27; i++ {
		sb.WriteString("The quick brown fox jumps over the lazy dog. ")
	}

	chunks, err := p.Process(context.Background(), "doc", proseExtraction(sb.String()), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(chunks) != 3 {
		t.Fatalf("expected 3 chunks for ~1200 chars at 500/50, got %d", len(chunks))
	}

	// Each chunk should begin with text repeated from the end of the
	// previous one.
	for i := 1; i < len(chunks); i++ {
		firstSentence := chunks[i].Text
		if idx := strings.Index(firstSentence, ". "); idx >= 0 {
			firstSentence = firstSentence[:idx+1]
		}
		if !strings.Contains(chunks[i-1].Text, firstSentence) {
			t.Errorf("chunk %d does not start with overlap from chunk %d", i, i-1)
		}
	}
}

func TestProcessor_Process_RoundTrip(t *testing.T) {
	p := New(WithChunkSize(200), WithOverlap(40))
	sentences := []string{
		"Alpha always arrives first in the collection of markers.",
		"Bravo follows close behind with a different set of words.",
		"Charlie brings the third distinct marker into the text.",
		"Delta closes out the sequence of identifiable sentences.",
	}
	text := strings.Join(sentences, " ")

	chunks, err := p.Process(context.Background(), "doc", proseExtraction(text), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	joined := ""
	for _, c := range chunks {
		joined += c.Text + " "
	}
	for _, s := range sentences {
		if !strings.Contains(joined, s) {
			t.Errorf("sentence lost during chunking: %q", s)
		}
	}
}

func TestProcessor_Process_OversizedSentence(t *testing.T) {
	p := New(WithChunkSize(100), WithOverlap(20))
	// One ~300-char sentence with no internal terminators; distinct words
	// so the overlap check below is meaningful.
	var words []string
	for i := 0; i < 42; i++ {
		words = append(words, fmt.Sprintf("tok%02d", i))
	}
	long := strings.Join(words, " ") + "."

	chunks, err := p.Process(context.Background(), "doc", proseExtraction(long), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(chunks) < 2 {
		t.Fatalf("expected oversized sentence to be word-split, got %d chunks", len(chunks))
	}
	for i, c := range chunks {
		if len(c.Text) > 100 {
			t.Errorf("chunk %d has %d chars, exceeds size bound 100", i, len(c.Text))
		}
	}

	// No word is lost and each chunk repeats trailing words of the previous.
	joined := strings.Join(chunkTexts(chunks), " ")
	for _, w := range words {
		if !strings.Contains(joined, w) {
			t.Errorf("word lost during splitting: %q", w)
		}
	}
	for i := 1; i < len(chunks); i++ {
		first := strings.Fields(chunks[i].Text)[0]
		if !strings.Contains(chunks[i-1].Text, first) {
			t.Errorf("chunk %d does not start with overlap from chunk %d", i, i-1)
		}
	}
}

func TestProcessor_Process_OversizedSentenceAmongNormal(t *testing.T) {
	p := New(WithChunkSize(100), WithOverlap(20))
	text := "A short opener sits here. " +
		strings.Repeat("sprawling clause without any terminator keeps going ", 6) +
		"finally ends. A short closer follows."

	chunks, err := p.Process(context.Background(), "doc", proseExtraction(text), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i, c := range chunks {
		if len(c.Text) > 100 {
			t.Errorf("chunk %d has %d chars, exceeds size bound 100", i, len(c.Text))
		}
	}
	joined := strings.Join(chunkTexts(chunks), " ")
	if !strings.Contains(joined, "short opener") || !strings.Contains(joined, "short closer") {
		t.Error("surrounding sentences lost when splitting the oversized one")
	}
}

func chunkTexts(chunks []domain.Chunk) []string {
	texts := make([]string, len(chunks))
	for i, c := range chunks {
		texts[i] = c.Text
	}
	return texts
}

func TestProcessor_Process_ModeMetadata(t *testing.T) {
	p := New()

	chunks, err := p.Process(context.Background(), "doc", proseExtraction("Plain prose here."), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := chunks[0].Metadata["mode"]; got != "prose" {
		t.Errorf("expected mode metadata %q, got %q", "prose", got)
	}

	code := &domain.Extraction{Mode: domain.ChunkModeCode, Units: []string{"func f() {}"}}
	chunks, err = p.Process(context.Background(), "doc", code, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := chunks[0].Metadata["mode"]; got != "code" {
		t.Errorf("expected mode metadata %q, got %q", "code", got)
	}
}

func TestProcessor_Process_Terminates(t *testing.T) {
	// Overlap nearly as large as the chunk must still advance the window.
	p := New(WithChunkSize(60), WithOverlap(55))
	text := strings.Repeat("Short one here. ", 50)

	chunks, err := p.Process(context.Background(), "doc", proseExtraction(text), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(chunks) == 0 {
		t.Fatal("expected chunks")
	}
	if len(chunks) > 60 {
		t.Errorf("suspiciously many chunks (%d), window may not be advancing", len(chunks))
	}
}

func TestProcessor_Process_CodeMode(t *testing.T) {
	p := New(WithChunkSize(120), WithOverlap(20))
	ext := &domain.Extraction{
		Mode: domain.ChunkModeCode,
		Units: []string{
			"func add(a, b int) int {\n\treturn a + b\n}",
			"func sub(a, b int) int {\n\treturn a - b\n}",
			"func mul(a, b int) int {\n\treturn a * b\n}",
		},
	}

	chunks, err := p.Process(context.Background(), "doc", ext, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(chunks) == 0 {
		t.Fatal("expected chunks")
	}
	// No chunk should cut a unit in half.
	for _, c := range chunks {
		opens := strings.Count(c.Text, "{")
		closes := strings.Count(c.Text, "}")
		if opens != closes {
			t.Errorf("chunk splits a declaration: %q", c.Text)
		}
	}
}

func TestProcessor_Process_CodeOversizedUnit(t *testing.T) {
	p := New(WithChunkSize(100), WithOverlap(20))
	var lines []string
	for i := 0; i < 30; i++ {
		lines = append(lines, "\tx = x + 1 // step")
	}
	ext := &domain.Extraction{
		Mode:  domain.ChunkModeCode,
		Units: []string{"func big() {\n" + strings.Join(lines, "\n") + "\n}"},
	}

	chunks, err := p.Process(context.Background(), "doc", ext, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(chunks) < 2 {
		t.Fatalf("expected oversized unit to be split, got %d chunks", len(chunks))
	}
}

func TestSplitSentences(t *testing.T) {
	tests := []struct {
		name string
		text string
		want int
	}{
		{"simple", "One sentence. Two sentence. Three sentence.", 3},
		{"abbreviation", "Dr. Smith arrived early. He sat down.", 2},
		{"initial", "J. Smith wrote the paper. It was long.", 2},
		{"exclamation", "Stop! Go now. Why?", 3},
		{"no terminator", "a fragment without punctuation", 1},
		{"empty", "", 0},
		{"latin abbreviations", "Use markers, e.g. flags. Then stop.", 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := splitSentences(tt.text)
			if len(got) != tt.want {
				t.Errorf("expected %d sentences, got %d: %q", tt.want, len(got), got)
			}
		})
	}
}

package postprocessors

import (
	"context"
	"errors"
	"testing"

	"github.com/corpora-labs/corpora-cli/internal/core/domain"
)

// mockProcessor is a test processor that returns predefined chunks.
type mockProcessor struct {
	name   string
	chunks []domain.Chunk
	err    error
}

func (m *mockProcessor) Name() string {
	return m.name
}

func (m *mockProcessor) Process(_ context.Context, _ string, _ *domain.Extraction, chunks []domain.Chunk) ([]domain.Chunk, error) {
	if m.err != nil {
		return nil, m.err
	}
	if m.chunks != nil {
		return m.chunks, nil
	}
	return chunks, nil
}

func TestNewPipeline(t *testing.T) {
	p := NewPipeline()
	if p == nil {
		t.Fatal("expected non-nil pipeline")
	}
	if p.Len() != 0 {
		t.Errorf("expected 0 processors, got %d", p.Len())
	}
}

func TestPipeline_Add(t *testing.T) {
	p := NewPipeline()
	p.Add(&mockProcessor{name: "test"})

	if p.Len() != 1 {
		t.Errorf("expected 1 processor, got %d", p.Len())
	}
}

func TestPipeline_Process_NilExtraction(t *testing.T) {
	p := NewPipeline()

	_, err := p.Process(context.Background(), "test-doc", nil)
	if err == nil {
		t.Error("expected error for nil extraction")
	}
}

func TestPipeline_Process_EmptyPipeline(t *testing.T) {
	p := NewPipeline()
	ext := &domain.Extraction{Text: "test content", Mode: domain.ChunkModeProse}

	chunks, err := p.Process(context.Background(), "test-doc", ext)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if chunks != nil {
		t.Errorf("expected nil chunks from empty pipeline, got %v", chunks)
	}
}

func TestPipeline_Process_SingleProcessor(t *testing.T) {
	expectedChunks := []domain.Chunk{
		{ID: "chunk-1", Text: "test"},
	}

	p := NewPipeline(&mockProcessor{
		name:   "chunker",
		chunks: expectedChunks,
	})

	ext := &domain.Extraction{Text: "test content", Mode: domain.ChunkModeProse}

	chunks, err := p.Process(context.Background(), "test-doc", ext)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(chunks) != len(expectedChunks) {
		t.Errorf("expected %d chunks, got %d", len(expectedChunks), len(chunks))
	}
}

func TestPipeline_Process_MultipleProcessors(t *testing.T) {
	firstChunks := []domain.Chunk{
		{ID: "chunk-1", Text: "first"},
	}
	secondChunks := []domain.Chunk{
		{ID: "chunk-1", Text: "modified"},
		{ID: "chunk-2", Text: "added"},
	}

	p := NewPipeline(
		&mockProcessor{name: "first", chunks: firstChunks},
		&mockProcessor{name: "second", chunks: secondChunks},
	)

	ext := &domain.Extraction{Text: "test content", Mode: domain.ChunkModeProse}

	chunks, err := p.Process(context.Background(), "test-doc", ext)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(chunks) != 2 {
		t.Errorf("expected 2 chunks after second processor, got %d", len(chunks))
	}
}

func TestPipeline_Process_ProcessorError(t *testing.T) {
	wantErr := errors.New("boom")
	p := NewPipeline(&mockProcessor{name: "broken", err: wantErr})

	ext := &domain.Extraction{Text: "test content", Mode: domain.ChunkModeProse}

	_, err := p.Process(context.Background(), "test-doc", ext)
	if err == nil {
		t.Fatal("expected error from failing processor")
	}
	if !errors.Is(err, wantErr) {
		t.Errorf("expected wrapped processor error, got %v", err)
	}
}

package services

import (
	"context"
	"hash/fnv"
	"path/filepath"
	"strings"
	"sync/atomic"

	"github.com/corpora-labs/corpora-cli/internal/core/domain"
	"github.com/corpora-labs/corpora-cli/internal/core/ports/driven"
)

// fakeExtractors accepts .txt files and returns the content verbatim.
// Per-filename failures are injectable for batch isolation tests.
type fakeExtractors struct {
	failOn map[string]error
}

func (f *fakeExtractors) Extract(_ context.Context, file *domain.RawFile) (*domain.Extraction, error) {
	if err, ok := f.failOn[file.Filename]; ok {
		return nil, err
	}
	if strings.ToLower(filepath.Ext(file.Filename)) != ".txt" {
		return nil, domain.ErrUnsupportedFormat
	}
	return &domain.Extraction{
		Text: string(file.Content),
		Mode: domain.ChunkModeProse,
	}, nil
}

func (f *fakeExtractors) Register(driven.Extractor) {}

func (f *fakeExtractors) Supported() []string { return []string{".txt"} }

// linePipeline emits one chunk per non-blank line.
type linePipeline struct{}

func (linePipeline) Process(_ context.Context, documentID string, ext *domain.Extraction) ([]domain.Chunk, error) {
	var chunks []domain.Chunk
	for _, line := range strings.Split(ext.Text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		ordinal := len(chunks)
		chunks = append(chunks, domain.Chunk{
			ID:         domain.ChunkID(documentID, ordinal),
			DocumentID: documentID,
			Ordinal:    ordinal,
			Text:       line,
			Metadata:   map[string]any{},
		})
	}
	return chunks, nil
}

// fakeEmbedder derives a deterministic small vector from the text so
// identical texts land on identical embeddings.
type fakeEmbedder struct {
	calls   atomic.Int64
	failErr error
}

func (f *fakeEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	f.calls.Add(1)
	if f.failErr != nil {
		return nil, f.failErr
	}
	h := fnv.New32a()
	h.Write([]byte(text))
	sum := h.Sum32()
	return []float32{
		float32(sum%97) / 97,
		float32(sum%31) / 31,
		float32(sum%7) / 7,
	}, nil
}

func (f *fakeEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i, text := range texts {
		vec, err := f.Embed(ctx, text)
		if err != nil {
			return nil, err
		}
		out[i] = vec
	}
	return out, nil
}

func (f *fakeEmbedder) Dimensions() int { return 3 }

func (f *fakeEmbedder) ModelName() string { return "fake-embed" }

func (f *fakeEmbedder) Ping(context.Context) error { return nil }

func (f *fakeEmbedder) Close() error { return nil }

// failingRegistry wraps a registry to force write failures.
type failingRegistry struct {
	driven.DocumentRegistry
	putErr    error
	deleteErr error
}

func (r *failingRegistry) Put(ctx context.Context, doc *domain.Document) error {
	if r.putErr != nil {
		return r.putErr
	}
	return r.DocumentRegistry.Put(ctx, doc)
}

func (r *failingRegistry) Delete(ctx context.Context, id string) error {
	if r.deleteErr != nil {
		return r.deleteErr
	}
	return r.DocumentRegistry.Delete(ctx, id)
}

// failingVectorStore wraps a store to force delete failures.
type failingVectorStore struct {
	driven.VectorStore
	deleteErr error
}

func (s *failingVectorStore) DeleteByDocument(ctx context.Context, documentID string) error {
	if s.deleteErr != nil {
		return s.deleteErr
	}
	return s.VectorStore.DeleteByDocument(ctx, documentID)
}

// countingInvalidator records invalidation calls.
type countingInvalidator struct {
	calls atomic.Int64
}

func (c *countingInvalidator) Invalidate() { c.calls.Add(1) }

package services

import (
	"context"
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/corpora-labs/corpora-cli/internal/core/domain"
	"github.com/corpora-labs/corpora-cli/internal/core/ports/driven"
	"github.com/corpora-labs/corpora-cli/internal/core/ports/driving"
	"github.com/corpora-labs/corpora-cli/internal/logger"
)

// Ensure IngestService implements the interface.
var _ driving.IngestService = (*IngestService)(nil)

// DefaultMaxFileSize is the per-file size limit when none is configured.
const DefaultMaxFileSize = 50 * 1024 * 1024

// DefaultBatchConcurrency bounds parallel file processing in a batch.
const DefaultBatchConcurrency = 4

// cacheInvalidator is anything holding derived state that goes stale when
// the corpus changes.
type cacheInvalidator interface {
	Invalidate()
}

// IngestService coordinates extraction, chunking, embedding, and storage.
type IngestService struct {
	extractors  driven.ExtractorRegistry
	pipeline    driven.PostProcessorPipeline
	embedder    driven.EmbeddingService
	vectors     driven.VectorStore
	registry    driven.DocumentRegistry
	maxFileSize int64
	concurrency int
	allowed     map[string]struct{}
	invalidator cacheInvalidator
}

// NewIngestService creates a new ingest service.
func NewIngestService(
	extractors driven.ExtractorRegistry,
	pipeline driven.PostProcessorPipeline,
	embedder driven.EmbeddingService,
	vectors driven.VectorStore,
	registry driven.DocumentRegistry,
) *IngestService {
	return &IngestService{
		extractors:  extractors,
		pipeline:    pipeline,
		embedder:    embedder,
		vectors:     vectors,
		registry:    registry,
		maxFileSize: DefaultMaxFileSize,
		concurrency: DefaultBatchConcurrency,
	}
}

// SetMaxFileSize overrides the per-file size limit.
func (s *IngestService) SetMaxFileSize(limit int64) {
	if limit > 0 {
		s.maxFileSize = limit
	}
}

// SetConcurrency overrides the batch concurrency bound.
func (s *IngestService) SetConcurrency(n int) {
	if n > 0 {
		s.concurrency = n
	}
}

// SetAllowedExtensions restricts ingestion to the listed extensions.
// An empty list allows every format the extractor registry supports.
// Entries are normalised to lowercase with a leading dot.
func (s *IngestService) SetAllowedExtensions(exts []string) {
	if len(exts) == 0 {
		s.allowed = nil
		return
	}
	allowed := make(map[string]struct{}, len(exts))
	for _, ext := range exts {
		ext = strings.ToLower(strings.TrimSpace(ext))
		if ext == "" {
			continue
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		allowed[ext] = struct{}{}
	}
	s.allowed = allowed
}

// SetInvalidator registers a cache to invalidate whenever the corpus
// changes.
func (s *IngestService) SetInvalidator(inv cacheInvalidator) {
	s.invalidator = inv
}

// IngestOne processes a single file end to end.
// Every successful call creates a fresh document: re-ingesting the same
// bytes yields a new document id rather than replacing the old one.
func (s *IngestService) IngestOne(ctx context.Context, file *domain.RawFile, meta domain.UploadMetadata) (*domain.IngestResult, error) {
	if file == nil || file.Filename == "" {
		return nil, domain.ErrInvalidInput
	}

	logger.Section("Ingest")
	logger.Debug("File: %s (%d bytes)", file.Filename, len(file.Content))

	filename := SanitiseFilename(file.Filename)
	if filename == "" {
		return nil, fmt.Errorf("%w: unusable filename %q", domain.ErrInvalidInput, file.Filename)
	}

	extension := strings.ToLower(filepath.Ext(filename))
	if s.allowed != nil {
		if _, ok := s.allowed[extension]; !ok {
			return nil, fmt.Errorf("%w: %s is not in the allowed extensions", domain.ErrUnsupportedFormat, extension)
		}
	}

	if int64(len(file.Content)) > s.maxFileSize {
		return nil, fmt.Errorf("%w: %s is %d bytes (limit %d)",
			domain.ErrFileTooLarge, filename, len(file.Content), s.maxFileSize)
	}
	if len(file.Content) == 0 {
		return nil, fmt.Errorf("%w: %s", domain.ErrEmptyContent, filename)
	}

	extraction, err := s.extractors.Extract(ctx, &domain.RawFile{Filename: filename, Content: file.Content})
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(extraction.Text) == "" && len(extraction.Units) == 0 {
		return nil, fmt.Errorf("%w: %s extracted no text", domain.ErrEmptyContent, filename)
	}
	for _, warning := range extraction.Warnings {
		logger.Warn("Extraction %s: %s", filename, warning)
	}

	documentID := uuid.New().String()
	uploadedAt := time.Now().UTC()

	chunks, err := s.pipeline.Process(ctx, documentID, extraction)
	if err != nil {
		return nil, fmt.Errorf("chunking %s: %w", filename, err)
	}
	if len(chunks) == 0 {
		return nil, fmt.Errorf("%w: %s produced no chunks", domain.ErrEmptyContent, filename)
	}

	texts := make([]string, len(chunks))
	for i, c := range chunks {
		texts[i] = c.Text
	}
	embeddings, err := s.embedder.EmbedBatch(ctx, texts)
	if err != nil {
		return nil, fmt.Errorf("embedding %s: %w", filename, err)
	}
	if len(embeddings) != len(chunks) {
		return nil, fmt.Errorf("embedding %s: got %d vectors for %d chunks", filename, len(embeddings), len(chunks))
	}

	points := make([]driven.Point, len(chunks))
	for i, c := range chunks {
		payload := map[string]any{
			"document_id": documentID,
			"chunk_index": c.Ordinal,
			"text":        c.Text,
			"filename":    filename,
			"extension":   extension,
			"category":    meta.Category,
			"tags":        meta.Tags,
			"folder_path": meta.FolderPath,
			"upload_date": uploadedAt.Unix(),
		}
		for k, v := range c.Metadata {
			if _, reserved := payload[k]; !reserved {
				payload[k] = v
			}
		}
		points[i] = driven.Point{
			ID:      c.ID,
			Vector:  embeddings[i],
			Payload: payload,
		}
	}

	if err := s.vectors.Upsert(ctx, points); err != nil {
		return nil, fmt.Errorf("storing %s: %w", filename, err)
	}

	doc := &domain.Document{
		ID:          documentID,
		Filename:    filename,
		Extension:   extension,
		Category:    meta.Category,
		Tags:        meta.Tags,
		FolderPath:  meta.FolderPath,
		TotalChunks: len(chunks),
		UploadedAt:  uploadedAt,
	}
	if err := s.registry.Put(ctx, doc); err != nil {
		// The vectors landed but the registry write failed. Roll the
		// vectors back so the two stores stay consistent; if even the
		// rollback fails the caller sees a partial write.
		if delErr := s.vectors.DeleteByDocument(ctx, documentID); delErr != nil {
			logger.Error("Rollback of %s failed: %v", documentID, delErr)
			return nil, fmt.Errorf("%w: registry write failed (%v) and vector rollback failed (%v)",
				domain.ErrPartialWrite, err, delErr)
		}
		return nil, fmt.Errorf("registering %s: %w", filename, err)
	}

	if s.invalidator != nil {
		s.invalidator.Invalidate()
	}

	logger.Info("Ingested %s as %s (%d chunks)", filename, documentID, len(chunks))
	return &domain.IngestResult{
		DocumentID: documentID,
		Filename:   filename,
		ChunkCount: len(chunks),
	}, nil
}

// IngestBatch processes multiple files with bounded concurrency.
// Per-file failures are recorded in the result, never propagated: one
// corrupt file cannot sink the batch.
func (s *IngestService) IngestBatch(ctx context.Context, files []*domain.RawFile, meta domain.UploadMetadata) (*domain.BatchResult, error) {
	result := &domain.BatchResult{
		Total:   len(files),
		Results: make([]domain.FileStatus, len(files)),
	}
	if len(files) == 0 {
		return result, nil
	}

	logger.Section("Batch Ingest")
	logger.Debug("Files: %d, concurrency: %d", len(files), s.concurrency)

	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)

	for i, file := range files {
		g.Go(func() error {
			status := domain.FileStatus{Filename: file.Filename}

			ingested, err := s.IngestOne(gctx, file, meta)
			if err != nil {
				status.Err = err.Error()
			} else {
				status.Filename = ingested.Filename
				status.DocumentID = ingested.DocumentID
				status.ChunkCount = ingested.ChunkCount
			}

			mu.Lock()
			result.Results[i] = status
			mu.Unlock()
			return nil
		})
	}

	// Workers never return errors, so this only waits.
	_ = g.Wait()

	for _, status := range result.Results {
		if status.Failed() {
			result.Failed++
		} else {
			result.Successful++
		}
	}

	logger.Info("Batch done: %d ok, %d failed of %d", result.Successful, result.Failed, result.Total)
	return result, nil
}

// filenameSanitiser strips characters that are path-meaningful or
// control characters.
var filenameSanitiser = regexp.MustCompile(`[\x00-\x1f/\\:*?"<>|]+`)

// maxFilenameLength bounds sanitised names; longer names are truncated
// with the extension preserved.
const maxFilenameLength = 200

// SanitiseFilename reduces a client-supplied name to a safe base name.
// Path components are discarded and forbidden characters collapse to
// underscores.
func SanitiseFilename(name string) string {
	// Take the last element of either path flavour.
	name = filepath.Base(strings.ReplaceAll(name, "\\", "/"))

	name = filenameSanitiser.ReplaceAllString(name, "_")
	name = strings.Trim(name, " ._")
	if name == "" || name == "." || name == ".." {
		return ""
	}

	if len(name) > maxFilenameLength {
		ext := filepath.Ext(name)
		if len(ext) >= maxFilenameLength {
			ext = ""
		}
		name = name[:maxFilenameLength-len(ext)] + ext
	}
	return name
}

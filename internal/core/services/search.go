package services

import (
	"context"
	"strings"

	"github.com/corpora-labs/corpora-cli/internal/core/domain"
	"github.com/corpora-labs/corpora-cli/internal/core/ports/driven"
	"github.com/corpora-labs/corpora-cli/internal/core/ports/driving"
	"github.com/corpora-labs/corpora-cli/internal/logger"
)

// Ensure SearchService implements the interface.
var _ driving.SearchService = (*SearchService)(nil)

// DefaultSearchLimit applies when the caller requests no specific limit.
const DefaultSearchLimit = 5

// SearchService provides filtered semantic search.
type SearchService struct {
	embedder driven.EmbeddingService
	vectors  driven.VectorStore
}

// NewSearchService creates a new search service.
func NewSearchService(embedder driven.EmbeddingService, vectors driven.VectorStore) *SearchService {
	return &SearchService{
		embedder: embedder,
		vectors:  vectors,
	}
}

// Search embeds the query once and runs a filtered nearest-neighbour
// search over all stored chunks.
func (s *SearchService) Search(ctx context.Context, query string, opts domain.SearchOptions) ([]domain.SearchResult, error) {
	logger.Section("Search")
	logger.Debug("Query: %q", query)

	query = strings.TrimSpace(query)
	if query == "" {
		logger.Debug("Empty query, returning no results")
		return []domain.SearchResult{}, nil
	}

	limit := opts.Limit
	if limit <= 0 {
		limit = DefaultSearchLimit
	}

	vector, err := s.embedder.Embed(ctx, query)
	if err != nil {
		return nil, err
	}

	results, err := s.vectors.Search(ctx, vector, buildStoreFilter(opts), limit)
	if err != nil {
		return nil, err
	}

	logger.Debug("Hits: %d", len(results))
	return results, nil
}

// buildStoreFilter translates search options into the vector store filter.
// Returns nil when no constraint applies so unfiltered searches skip
// filter evaluation entirely.
func buildStoreFilter(opts domain.SearchOptions) *driven.Filter {
	f := &driven.Filter{
		Category:   opts.Category,
		Tags:       opts.Tags,
		FolderPath: opts.FolderPath,
		ClusterID:  opts.ClusterID,
	}

	for _, ext := range opts.Extensions {
		ext = strings.ToLower(strings.TrimSpace(ext))
		if ext == "" {
			continue
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		f.Extensions = append(f.Extensions, ext)
	}

	if !opts.UploadedAfter.IsZero() {
		f.UploadedAfter = opts.UploadedAfter.Unix()
	}
	if !opts.UploadedBefore.IsZero() {
		f.UploadedBefore = opts.UploadedBefore.Unix()
	}

	if f.Category == "" && len(f.Tags) == 0 && len(f.Extensions) == 0 &&
		f.FolderPath == "" && f.ClusterID == nil &&
		f.UploadedAfter == 0 && f.UploadedBefore == 0 {
		return nil
	}
	return f
}

// Package qdrant provides a vector store adapter backed by a Qdrant
// instance over its REST API. It assumes cosine distance and creates the
// collection on first use.
package qdrant

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/corpora-labs/corpora-cli/internal/core/domain"
	"github.com/corpora-labs/corpora-cli/internal/core/ports/driven"
	"github.com/corpora-labs/corpora-cli/internal/logger"
)

// Ensure Store implements the interface.
var _ driven.VectorStore = (*Store)(nil)

// Default configuration values.
const (
	DefaultBaseURL    = "http://localhost:6333"
	DefaultCollection = "corpora"
	DefaultTimeout    = 30 * time.Second

	scrollPageSize = 256
)

// pointNamespace seeds deterministic point UUIDs. Qdrant only accepts
// UUID or integer point IDs, so chunk IDs are hashed into UUIDs and the
// original ID is carried in the payload.
var pointNamespace = uuid.MustParse("8c5f1d0a-4a2e-4b6f-9b3d-2f8e6a1c7d94")

// Config holds configuration for the Qdrant store.
type Config struct {
	// BaseURL is the Qdrant REST endpoint (default: http://localhost:6333).
	BaseURL string

	// APIKey authenticates requests. Empty disables the header.
	APIKey string

	// Collection is the collection name (default: corpora).
	Collection string

	// Timeout is the per-request timeout (default: 30s).
	Timeout time.Duration
}

// Store is a REST client to Qdrant implementing the VectorStore port.
type Store struct {
	client     *http.Client
	baseURL    string
	apiKey     string
	collection string
	dimensions int
}

// New creates a new Qdrant store.
func New(cfg Config) *Store {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Collection == "" {
		cfg.Collection = DefaultCollection
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}

	return &Store{
		client:     &http.Client{Timeout: cfg.Timeout},
		baseURL:    cfg.BaseURL,
		apiKey:     cfg.APIKey,
		collection: cfg.Collection,
	}
}

// PointID returns the Qdrant point UUID for a chunk ID.
func PointID(chunkID string) string {
	return uuid.NewSHA1(pointNamespace, []byte(chunkID)).String()
}

// EnsureCollection creates the collection if missing.
// Qdrant returns 409 when the collection already exists, which is not an
// error here.
func (s *Store) EnsureCollection(ctx context.Context, dimensions int) error {
	if dimensions <= 0 {
		return fmt.Errorf("qdrant: invalid dimensions %d", dimensions)
	}
	s.dimensions = dimensions

	body := map[string]any{
		"vectors": map[string]any{
			"size":     dimensions,
			"distance": "Cosine",
		},
	}

	err := s.do(ctx, http.MethodPut, s.collectionURL(""), body, nil)
	if err != nil {
		var statusErr *statusError
		if errors.As(err, &statusErr) && statusErr.code == http.StatusConflict {
			logger.Debug("Qdrant collection %s already exists", s.collection)
			return nil
		}
		return fmt.Errorf("%w: %v", domain.ErrVectorStoreUnavailable, err)
	}
	return nil
}

// Upsert writes all points in one request with wait=true so they are
// immediately searchable.
func (s *Store) Upsert(ctx context.Context, points []driven.Point) error {
	if len(points) == 0 {
		return nil
	}

	qdrantPoints := make([]map[string]any, len(points))
	for i, p := range points {
		payload := make(map[string]any, len(p.Payload)+1)
		for k, v := range p.Payload {
			payload[k] = v
		}
		payload["chunk_id"] = p.ID

		qdrantPoints[i] = map[string]any{
			"id":      PointID(p.ID),
			"vector":  p.Vector,
			"payload": payload,
		}
	}

	body := map[string]any{"points": qdrantPoints}
	if err := s.do(ctx, http.MethodPut, s.collectionURL("/points?wait=true"), body, nil); err != nil {
		return fmt.Errorf("%w: upsert: %v", domain.ErrVectorStoreUnavailable, err)
	}
	return nil
}

// Search returns the k best hits for the query vector.
func (s *Store) Search(ctx context.Context, vector []float32, filter *driven.Filter, k int) ([]domain.SearchResult, error) {
	if k <= 0 {
		k = 5
	}

	req := map[string]any{
		"vector":       vector,
		"limit":        k,
		"with_payload": true,
	}
	if f := buildFilter(filter); f != nil {
		req["filter"] = f
	}

	var resp struct {
		Result []struct {
			Score   float64        `json:"score"`
			Payload map[string]any `json:"payload"`
		} `json:"result"`
	}
	if err := s.do(ctx, http.MethodPost, s.collectionURL("/points/search"), req, &resp); err != nil {
		return nil, fmt.Errorf("%w: search: %v", domain.ErrVectorStoreUnavailable, err)
	}

	results := make([]domain.SearchResult, 0, len(resp.Result))
	for _, r := range resp.Result {
		results = append(results, domain.SearchResult{
			Chunk: chunkFromPayload(r.Payload),
			Score: r.Score,
		})
	}
	return results, nil
}

// ScrollAll streams every stored point to fn, paging through the
// collection until Qdrant reports no next offset.
func (s *Store) ScrollAll(ctx context.Context, withVectors bool, fn func(driven.Point) error) error {
	var offset any

	for {
		req := map[string]any{
			"limit":        scrollPageSize,
			"with_payload": true,
			"with_vector":  withVectors,
		}
		if offset != nil {
			req["offset"] = offset
		}

		var resp struct {
			Result struct {
				Points []struct {
					ID      any            `json:"id"`
					Vector  []float32      `json:"vector"`
					Payload map[string]any `json:"payload"`
				} `json:"points"`
				NextPageOffset any `json:"next_page_offset"`
			} `json:"result"`
		}
		if err := s.do(ctx, http.MethodPost, s.collectionURL("/points/scroll"), req, &resp); err != nil {
			return fmt.Errorf("%w: scroll: %v", domain.ErrVectorStoreUnavailable, err)
		}

		for _, p := range resp.Result.Points {
			point := driven.Point{
				Vector:  p.Vector,
				Payload: p.Payload,
			}
			if id, ok := p.Payload["chunk_id"].(string); ok {
				point.ID = id
			} else {
				point.ID = fmt.Sprintf("%v", p.ID)
			}
			if err := fn(point); err != nil {
				return err
			}
		}

		if resp.Result.NextPageOffset == nil {
			return nil
		}
		offset = resp.Result.NextPageOffset
	}
}

// SetPayload merges payload fields onto the identified points.
func (s *Store) SetPayload(ctx context.Context, ids []string, payload map[string]any) error {
	if len(ids) == 0 {
		return nil
	}

	pointIDs := make([]string, len(ids))
	for i, id := range ids {
		pointIDs[i] = PointID(id)
	}

	body := map[string]any{
		"payload": payload,
		"points":  pointIDs,
	}
	if err := s.do(ctx, http.MethodPost, s.collectionURL("/points/payload?wait=true"), body, nil); err != nil {
		return fmt.Errorf("%w: set payload: %v", domain.ErrVectorStoreUnavailable, err)
	}
	return nil
}

// DeleteByDocument removes every point whose payload carries the document ID.
func (s *Store) DeleteByDocument(ctx context.Context, documentID string) error {
	body := map[string]any{
		"filter": map[string]any{
			"must": []map[string]any{
				{"key": "document_id", "match": map[string]any{"value": documentID}},
			},
		},
	}
	if err := s.do(ctx, http.MethodPost, s.collectionURL("/points/delete?wait=true"), body, nil); err != nil {
		return fmt.Errorf("%w: delete document: %v", domain.ErrVectorStoreUnavailable, err)
	}
	return nil
}

// Clear drops the collection and recreates it when the dimensionality is
// known.
func (s *Store) Clear(ctx context.Context) error {
	if err := s.do(ctx, http.MethodDelete, s.collectionURL(""), nil, nil); err != nil {
		return fmt.Errorf("%w: clear: %v", domain.ErrVectorStoreUnavailable, err)
	}
	if s.dimensions > 0 {
		return s.EnsureCollection(ctx, s.dimensions)
	}
	return nil
}

// buildFilter translates the port-level filter into Qdrant filter JSON.
// Returns nil when no condition applies.
func buildFilter(f *driven.Filter) map[string]any {
	if f == nil {
		return nil
	}

	var must []map[string]any

	if f.DocumentID != "" {
		must = append(must, match("document_id", f.DocumentID))
	}
	if f.Category != "" {
		must = append(must, match("category", f.Category))
	}
	if f.FolderPath != "" {
		must = append(must, match("folder_path", f.FolderPath))
	}
	if len(f.Tags) > 0 {
		must = append(must, matchAny("tags", f.Tags))
	}
	if len(f.Extensions) > 0 {
		must = append(must, matchAny("extension", f.Extensions))
	}
	if f.ClusterID != nil {
		must = append(must, match("cluster_id", *f.ClusterID))
	}
	if f.UploadedAfter > 0 || f.UploadedBefore > 0 {
		rng := map[string]any{}
		if f.UploadedAfter > 0 {
			rng["gte"] = f.UploadedAfter
		}
		if f.UploadedBefore > 0 {
			rng["lte"] = f.UploadedBefore
		}
		must = append(must, map[string]any{"key": "upload_date", "range": rng})
	}

	if len(must) == 0 {
		return nil
	}
	return map[string]any{"must": must}
}

func match(key string, value any) map[string]any {
	return map[string]any{"key": key, "match": map[string]any{"value": value}}
}

func matchAny(key string, values []string) map[string]any {
	return map[string]any{"key": key, "match": map[string]any{"any": values}}
}

// chunkFromPayload reconstructs a chunk from stored payload fields.
// Unknown keys are preserved as metadata.
func chunkFromPayload(payload map[string]any) domain.Chunk {
	chunk := domain.Chunk{Metadata: make(map[string]any)}

	for k, v := range payload {
		switch k {
		case "chunk_id":
			if s, ok := v.(string); ok {
				chunk.ID = s
			}
		case "document_id":
			if s, ok := v.(string); ok {
				chunk.DocumentID = s
			}
		case "chunk_index":
			if n, ok := v.(float64); ok {
				chunk.Ordinal = int(n)
			}
		case "text":
			if s, ok := v.(string); ok {
				chunk.Text = s
			}
		default:
			chunk.Metadata[k] = v
		}
	}
	return chunk
}

func (s *Store) collectionURL(suffix string) string {
	return fmt.Sprintf("%s/collections/%s%s", s.baseURL, s.collection, suffix)
}

// statusError carries a non-2xx response for callers that need the code.
type statusError struct {
	code int
	body string
}

func (e *statusError) Error() string {
	return fmt.Sprintf("qdrant: status %d: %s", e.code, e.body)
}

// do issues one JSON request and decodes the response into out when
// provided.
func (s *Store) do(ctx context.Context, method, url string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if s.apiKey != "" {
		req.Header.Set("api-key", s.apiKey)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return &statusError{code: resp.StatusCode, body: string(raw)}
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}

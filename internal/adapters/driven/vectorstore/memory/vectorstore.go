// Package memory provides an in-memory vector store used in tests and as
// a fallback when no Qdrant instance is configured.
package memory

import (
	"context"
	"math"
	"sort"
	"sync"

	"github.com/corpora-labs/corpora-cli/internal/core/domain"
	"github.com/corpora-labs/corpora-cli/internal/core/ports/driven"
)

// Ensure Store implements the interface.
var _ driven.VectorStore = (*Store)(nil)

// Store is an in-memory implementation of driven.VectorStore.
// Search is a linear scan with cosine similarity, adequate for test-sized
// collections.
type Store struct {
	mu     sync.RWMutex
	points map[string]driven.Point
	order  []string
	dims   int
}

// New creates a new in-memory vector store.
func New() *Store {
	return &Store{
		points: make(map[string]driven.Point),
	}
}

// EnsureCollection records the expected dimensionality.
func (s *Store) EnsureCollection(_ context.Context, dimensions int) error {
	if dimensions <= 0 {
		return domain.ErrInvalidInput
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.dims = dimensions
	return nil
}

// Upsert writes all points, replacing any with matching IDs.
func (s *Store) Upsert(_ context.Context, points []driven.Point) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, p := range points {
		if _, exists := s.points[p.ID]; !exists {
			s.order = append(s.order, p.ID)
		}
		s.points[p.ID] = p
	}
	return nil
}

// Search returns the k most similar points passing the filter.
func (s *Store) Search(_ context.Context, vector []float32, filter *driven.Filter, k int) ([]domain.SearchResult, error) {
	if k <= 0 {
		k = 5
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	type scored struct {
		point driven.Point
		score float64
	}

	var hits []scored
	for _, id := range s.order {
		p := s.points[id]
		if !matchesFilter(p.Payload, filter) {
			continue
		}
		hits = append(hits, scored{point: p, score: cosine(vector, p.Vector)})
	}

	sort.SliceStable(hits, func(i, j int) bool {
		return hits[i].score > hits[j].score
	})
	if len(hits) > k {
		hits = hits[:k]
	}

	results := make([]domain.SearchResult, 0, len(hits))
	for _, h := range hits {
		results = append(results, domain.SearchResult{
			Chunk: chunkFromPayload(h.point.ID, h.point.Payload),
			Score: h.score,
		})
	}
	return results, nil
}

// ScrollAll streams every point in insertion order.
func (s *Store) ScrollAll(_ context.Context, withVectors bool, fn func(driven.Point) error) error {
	s.mu.RLock()
	snapshot := make([]driven.Point, 0, len(s.order))
	for _, id := range s.order {
		p := s.points[id]
		if !withVectors {
			p.Vector = nil
		}
		snapshot = append(snapshot, p)
	}
	s.mu.RUnlock()

	for _, p := range snapshot {
		if err := fn(p); err != nil {
			return err
		}
	}
	return nil
}

// SetPayload merges payload fields onto the identified points.
// Unknown IDs are ignored.
func (s *Store) SetPayload(_ context.Context, ids []string, payload map[string]any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, id := range ids {
		p, ok := s.points[id]
		if !ok {
			continue
		}
		if p.Payload == nil {
			p.Payload = make(map[string]any)
		}
		for k, v := range payload {
			p.Payload[k] = v
		}
		s.points[id] = p
	}
	return nil
}

// DeleteByDocument removes every point belonging to the document.
func (s *Store) DeleteByDocument(_ context.Context, documentID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := s.order[:0]
	for _, id := range s.order {
		p := s.points[id]
		if docID, _ := p.Payload["document_id"].(string); docID == documentID {
			delete(s.points, id)
			continue
		}
		kept = append(kept, id)
	}
	s.order = kept
	return nil
}

// Clear drops all stored points.
func (s *Store) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.points = make(map[string]driven.Point)
	s.order = nil
	return nil
}

// Count returns the number of stored points. Test helper.
func (s *Store) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.points)
}

func matchesFilter(payload map[string]any, f *driven.Filter) bool {
	if f == nil {
		return true
	}
	if f.DocumentID != "" && !payloadEquals(payload, "document_id", f.DocumentID) {
		return false
	}
	if f.Category != "" && !payloadEquals(payload, "category", f.Category) {
		return false
	}
	if f.FolderPath != "" && !payloadEquals(payload, "folder_path", f.FolderPath) {
		return false
	}
	if len(f.Extensions) > 0 {
		ext, _ := payload["extension"].(string)
		if !contains(f.Extensions, ext) {
			return false
		}
	}
	if len(f.Tags) > 0 && !hasAnyTag(payload, f.Tags) {
		return false
	}
	if f.ClusterID != nil {
		cid, ok := payloadInt(payload, "cluster_id")
		if !ok || cid != *f.ClusterID {
			return false
		}
	}
	if f.UploadedAfter > 0 || f.UploadedBefore > 0 {
		ts, ok := payloadInt64(payload, "upload_date")
		if !ok {
			return false
		}
		if f.UploadedAfter > 0 && ts < f.UploadedAfter {
			return false
		}
		if f.UploadedBefore > 0 && ts > f.UploadedBefore {
			return false
		}
	}
	return true
}

func payloadEquals(payload map[string]any, key, want string) bool {
	got, _ := payload[key].(string)
	return got == want
}

func payloadInt(payload map[string]any, key string) (int, bool) {
	return asInt(payload[key])
}

func asInt(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case float64:
		return int(n), true
	default:
		return 0, false
	}
}

func payloadInt64(payload map[string]any, key string) (int64, bool) {
	switch v := payload[key].(type) {
	case int:
		return int64(v), true
	case int64:
		return v, true
	case float64:
		return int64(v), true
	default:
		return 0, false
	}
}

func hasAnyTag(payload map[string]any, want []string) bool {
	switch tags := payload["tags"].(type) {
	case []string:
		for _, t := range tags {
			if contains(want, t) {
				return true
			}
		}
	case []any:
		for _, raw := range tags {
			if t, ok := raw.(string); ok && contains(want, t) {
				return true
			}
		}
	}
	return false
}

func contains(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}

// cosine computes cosine similarity between two vectors.
// Mismatched lengths or zero vectors score zero.
func cosine(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

func chunkFromPayload(id string, payload map[string]any) domain.Chunk {
	chunk := domain.Chunk{ID: id, Metadata: make(map[string]any)}
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
			if n, ok := asInt(v); ok {
				chunk.Ordinal = n
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

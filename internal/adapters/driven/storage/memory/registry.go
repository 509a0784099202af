// Package memory provides in-memory implementations of driven port
// interfaces for testing.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/corpora-labs/corpora-cli/internal/core/domain"
	"github.com/corpora-labs/corpora-cli/internal/core/ports/driven"
)

// Ensure Registry implements the interface.
var _ driven.DocumentRegistry = (*Registry)(nil)

// Registry is an in-memory implementation of driven.DocumentRegistry for testing.
type Registry struct {
	mu   sync.RWMutex
	docs map[string]domain.Document
}

// NewRegistry creates a new in-memory document registry.
func NewRegistry() *Registry {
	return &Registry{
		docs: make(map[string]domain.Document),
	}
}

// Put stores or replaces the record for doc.ID.
func (r *Registry) Put(_ context.Context, doc *domain.Document) error {
	if doc == nil || doc.ID == "" {
		return domain.ErrInvalidInput
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.docs[doc.ID] = *doc
	return nil
}

// Get retrieves a document by id.
func (r *Registry) Get(_ context.Context, id string) (*domain.Document, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	doc, ok := r.docs[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &doc, nil
}

// List returns all registered documents, newest first.
func (r *Registry) List(_ context.Context) ([]domain.Document, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	docs := make([]domain.Document, 0, len(r.docs))
	for _, doc := range r.docs {
		docs = append(docs, doc)
	}
	sort.Slice(docs, func(i, j int) bool {
		if !docs[i].UploadedAt.Equal(docs[j].UploadedAt) {
			return docs[i].UploadedAt.After(docs[j].UploadedAt)
		}
		return docs[i].ID < docs[j].ID
	})
	return docs, nil
}

// Delete removes a document record.
func (r *Registry) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.docs[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.docs, id)
	return nil
}

// SetCluster updates the cluster assignment on a document record.
func (r *Registry) SetCluster(_ context.Context, id string, clusterID int, clusterName string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	doc, ok := r.docs[id]
	if !ok {
		return domain.ErrNotFound
	}
	doc.ClusterID = &clusterID
	doc.ClusterName = clusterName
	r.docs[id] = doc
	return nil
}

// Count returns the number of registered documents.
func (r *Registry) Count(_ context.Context) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.docs), nil
}

// Clear removes every record.
func (r *Registry) Clear(_ context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.docs = make(map[string]domain.Document)
	return nil
}

// Close releases resources.
func (r *Registry) Close() error {
	return nil
}

package sqlite

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/corpora-labs/corpora-cli/internal/core/domain"
)

func newTestRegistry(t *testing.T) *Registry {
	t.Helper()
	r, err := NewRegistry(t.TempDir())
	if err != nil {
		t.Fatalf("NewRegistry: %v", err)
	}
	t.Cleanup(func() { r.Close() })
	return r
}

func sampleDocument(id string) *domain.Document {
	return &domain.Document{
		ID:          id,
		Filename:    "report.pdf",
		Extension:   ".pdf",
		Category:    "finance",
		Tags:        []string{"q3", "internal"},
		FolderPath:  "reports/2026",
		TotalChunks: 12,
		UploadedAt:  time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC),
	}
}

func TestRegistry_PutGet(t *testing.T) {
	r := newTestRegistry(t)
	ctx := context.Background()

	doc := sampleDocument("doc-1")
	if err := r.Put(ctx, doc); err != nil {
		t.Fatalf("Put: %v", err)
	}

	got, err := r.Get(ctx, "doc-1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Filename != doc.Filename {
		t.Errorf("expected filename %q, got %q", doc.Filename, got.Filename)
	}
	if len(got.Tags) != 2 || got.Tags[0] != "q3" {
		t.Errorf("tags not round-tripped: %v", got.Tags)
	}
	if got.ClusterID != nil {
		t.Errorf("expected nil cluster before clustering, got %v", *got.ClusterID)
	}
	if !got.UploadedAt.Equal(doc.UploadedAt) {
		t.Errorf("expected uploaded at %v, got %v", doc.UploadedAt, got.UploadedAt)
	}
}

func TestRegistry_Get_NotFound(t *testing.T) {
	r := newTestRegistry(t)

	_, err := r.Get(context.Background(), "missing")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestRegistry_Put_Replaces(t *testing.T) {
	r := newTestRegistry(t)
	ctx := context.Background()

	doc := sampleDocument("doc-1")
	if err := r.Put(ctx, doc); err != nil {
		t.Fatalf("Put: %v", err)
	}

	doc.TotalChunks = 20
	doc.Category = "archive"
	if err := r.Put(ctx, doc); err != nil {
		t.Fatalf("Put update: %v", err)
	}

	got, err := r.Get(ctx, "doc-1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.TotalChunks != 20 || got.Category != "archive" {
		t.Errorf("update not applied: %+v", got)
	}

	count, err := r.Count(ctx)
	if err != nil {
		t.Fatalf("Count: %v", err)
	}
	if count != 1 {
		t.Errorf("expected 1 document after replace, got %d", count)
	}
}

func TestRegistry_List_NewestFirst(t *testing.T) {
	r := newTestRegistry(t)
	ctx := context.Background()

	for i, id := range []string{"doc-old", "doc-mid", "doc-new"} {
		doc := sampleDocument(id)
		doc.UploadedAt = time.Date(2026, 8, 1+i, 0, 0, 0, 0, time.UTC)
		if err := r.Put(ctx, doc); err != nil {
			t.Fatalf("Put %s: %v", id, err)
		}
	}

	docs, err := r.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(docs) != 3 {
		t.Fatalf("expected 3 documents, got %d", len(docs))
	}
	if docs[0].ID != "doc-new" || docs[2].ID != "doc-old" {
		t.Errorf("unexpected order: %s, %s, %s", docs[0].ID, docs[1].ID, docs[2].ID)
	}
}

func TestRegistry_Delete(t *testing.T) {
	r := newTestRegistry(t)
	ctx := context.Background()

	if err := r.Put(ctx, sampleDocument("doc-1")); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if err := r.Delete(ctx, "doc-1"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := r.Delete(ctx, "doc-1"); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected ErrNotFound on second delete, got %v", err)
	}
}

func TestRegistry_SetCluster(t *testing.T) {
	r := newTestRegistry(t)
	ctx := context.Background()

	if err := r.Put(ctx, sampleDocument("doc-1")); err != nil {
		t.Fatalf("Put: %v", err)
	}

	if err := r.SetCluster(ctx, "doc-1", 3, "finance & reports"); err != nil {
		t.Fatalf("SetCluster: %v", err)
	}

	got, err := r.Get(ctx, "doc-1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.ClusterID == nil || *got.ClusterID != 3 {
		t.Errorf("cluster id not set: %v", got.ClusterID)
	}
	if got.ClusterName != "finance & reports" {
		t.Errorf("cluster name not set: %q", got.ClusterName)
	}

	if err := r.SetCluster(ctx, "missing", 1, "x"); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected ErrNotFound for unknown document, got %v", err)
	}
}

func TestRegistry_SetCluster_Noise(t *testing.T) {
	r := newTestRegistry(t)
	ctx := context.Background()

	if err := r.Put(ctx, sampleDocument("doc-1")); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if err := r.SetCluster(ctx, "doc-1", domain.NoiseCluster, domain.NoiseClusterName); err != nil {
		t.Fatalf("SetCluster: %v", err)
	}

	got, err := r.Get(ctx, "doc-1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.ClusterID == nil || *got.ClusterID != domain.NoiseCluster {
		t.Errorf("noise cluster not recorded: %v", got.ClusterID)
	}
}

func TestRegistry_Clear(t *testing.T) {
	r := newTestRegistry(t)
	ctx := context.Background()

	for _, id := range []string{"a", "b", "c"} {
		if err := r.Put(ctx, sampleDocument(id)); err != nil {
			t.Fatalf("Put: %v", err)
		}
	}
	if err := r.Clear(ctx); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	count, err := r.Count(ctx)
	if err != nil {
		t.Fatalf("Count: %v", err)
	}
	if count != 0 {
		t.Errorf("expected 0 documents after clear, got %d", count)
	}
}

func TestRegistry_Reopen(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	r, err := NewRegistry(dir)
	if err != nil {
		t.Fatalf("NewRegistry: %v", err)
	}
	if err := r.Put(ctx, sampleDocument("doc-1")); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if err := r.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	// Reopening runs migrations again and must find the existing row.
	r2, err := NewRegistry(dir)
	if err != nil {
		t.Fatalf("NewRegistry reopen: %v", err)
	}
	defer r2.Close()

	got, err := r2.Get(ctx, "doc-1")
	if err != nil {
		t.Fatalf("Get after reopen: %v", err)
	}
	if got.Filename != "report.pdf" {
		t.Errorf("unexpected document after reopen: %+v", got)
	}
}

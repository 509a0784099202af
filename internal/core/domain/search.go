package domain

import "time"

// SearchOptions controls semantic search behaviour.
type SearchOptions struct {
	// Limit is the maximum number of results (default 5).
	Limit int

	// Category restricts results to one category when non-empty.
	Category string

	// Tags restricts results to chunks carrying any of these tags.
	Tags []string

	// Extensions restricts results to documents with any of these extensions.
	Extensions []string

	// FolderPath restricts results to one folder when non-empty.
	FolderPath string

	// ClusterID restricts results to one cluster when non-nil.
	ClusterID *int

	// UploadedAfter and UploadedBefore bound the upload timestamp.
	// Zero values disable the bound.
	UploadedAfter  time.Time
	UploadedBefore time.Time
}

// SearchResult is one ranked chunk hit.
type SearchResult struct {
	// Chunk is the matched chunk, hydrated with text and metadata.
	Chunk Chunk

	// Score is the similarity score reported by the vector store.
	Score float64
}

// IngestResult reports a successful single-file ingestion.
type IngestResult struct {
	DocumentID string
	Filename   string
	ChunkCount int
}

// FileStatus reports the per-file outcome within a batch.
type FileStatus struct {
	Filename   string
	DocumentID string
	ChunkCount int
	Err        string
}

// Failed reports whether this file was rejected or failed.
func (s FileStatus) Failed() bool { return s.Err != "" }

// BatchResult aggregates a batch ingestion. No file's failure is invisible:
// every submitted file appears exactly once in Results.
type BatchResult struct {
	Total      int
	Successful int
	Failed     int
	Results    []FileStatus
}

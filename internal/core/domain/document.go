package domain

import (
	"strconv"
	"time"
)

// Document represents one ingested file.
// It is the canonical registry record after extraction and chunking.
type Document struct {
	// ID is the unique identifier, assigned exactly once at ingestion.
	ID string

	// Filename is the sanitised original filename.
	Filename string

	// Extension is the lowercased source extension including the dot.
	Extension string

	// Category is a free-form grouping label supplied at upload.
	Category string

	// Tags are free-form labels supplied at upload.
	Tags []string

	// FolderPath is the optional destination folder, empty for unsorted.
	FolderPath string

	// TotalChunks is the number of chunk records persisted for this document.
	TotalChunks int

	// ClusterID is the assigned cluster, nil before the first clustering run.
	// -1 denotes noise.
	ClusterID *int

	// ClusterName is the human-readable cluster label, if assigned.
	ClusterName string

	// UploadedAt is when the document was ingested.
	UploadedAt time.Time
}

// Chunk represents one embeddable unit of text belonging to a Document.
type Chunk struct {
	// ID is unique within the vector store, derived as "documentID:ordinal".
	ID string

	// DocumentID links to the owning Document.
	DocumentID string

	// Ordinal is the position within the document, assigned in extraction order.
	Ordinal int

	// Text is the raw text span.
	Text string

	// Embedding is the vector representation. Dimensionality is constant
	// across all chunks in a store.
	Embedding []float32

	// Metadata carries the document attributes duplicated onto the chunk so
	// searches need no join (category, tags, upload date, extension, folder).
	Metadata map[string]any
}

// ChunkID derives the stable chunk identifier from a document ID and ordinal.
// Derived IDs keep chunk identity collision-free without extra bookkeeping.
func ChunkID(documentID string, ordinal int) string {
	return documentID + ":" + strconv.Itoa(ordinal)
}

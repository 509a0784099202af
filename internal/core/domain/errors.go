package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors, which are wrapped and
// propagated with context by the services that hit them.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnsupportedFormat indicates a file extension outside the allow-list.
	// Rejected before any I/O, never fatal to a batch.
	ErrUnsupportedFormat = errors.New("unsupported file format")

	// ErrEmptyContent indicates extraction succeeded but yielded no usable
	// text. A rejection distinct from a hard extraction failure.
	ErrEmptyContent = errors.New("document contains no extractable text")

	// ErrFileTooLarge indicates the upload exceeds the configured size limit.
	ErrFileTooLarge = errors.New("file exceeds maximum size")

	// ErrExtractionFailed indicates a format-specific parse or OCR failure.
	ErrExtractionFailed = errors.New("extraction failed")

	// ErrEmbeddingUnavailable indicates the embedding service is not
	// configured or unreachable after bounded retries.
	ErrEmbeddingUnavailable = errors.New("embedding service unavailable")

	// ErrVectorStoreUnavailable indicates the vector store is not reachable.
	ErrVectorStoreUnavailable = errors.New("vector store unavailable")

	// ErrPartialWrite indicates one of the two stores (vector store, document
	// registry) accepted a write while the other failed, leaving the system
	// inconsistent. Surfaced distinctly, never silently dropped.
	ErrPartialWrite = errors.New("partial write: vector store and registry disagree")

	// ErrInsufficientData indicates clustering was requested with fewer than
	// two documents. Not an error condition for callers; a defined no-op.
	ErrInsufficientData = errors.New("insufficient data for clustering")

	// ErrJobNotFound indicates an unknown background job identifier.
	ErrJobNotFound = errors.New("job not found")

	// ErrJobCancelled indicates the job observed its cancellation flag.
	ErrJobCancelled = errors.New("job cancelled")
)

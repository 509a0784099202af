package driven

import "context"

// EmbeddingService generates vector embeddings from text.
//
// The model is treated as a single logical resource: implementations
// serialize inference calls internally, so the service is safe to share
// between ingestion and search.
//
// Implementations may include:
//   - Ollama (nomic-embed-text, all-minilm)
//   - OpenAI (text-embedding-3-small, text-embedding-3-large)
type EmbeddingService interface {
	// Embed generates a vector embedding for the given text.
	Embed(ctx context.Context, text string) ([]float32, error)

	// EmbedBatch generates embeddings for multiple texts, preserving input
	// order. Implementations bound the per-request batch size internally.
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)

	// Dimensions returns the embedding vector size (e.g. 768).
	// This must match the vector store's collection configuration.
	Dimensions() int

	// ModelName returns the name of the embedding model being used.
	ModelName() string

	// Ping validates the backing service is reachable without running
	// inference.
	Ping(ctx context.Context) error

	// Close releases resources.
	Close() error
}

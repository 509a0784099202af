package domain

import "time"

// EmbeddingProvider identifies the embedding backend.
type EmbeddingProvider string

// Supported embedding providers.
const (
	ProviderOllama EmbeddingProvider = "ollama"
	ProviderOpenAI EmbeddingProvider = "openai"
)

// IsValid reports whether the provider is recognised.
func (p EmbeddingProvider) IsValid() bool {
	switch p {
	case ProviderOllama, ProviderOpenAI:
		return true
	default:
		return false
	}
}

// RequiresAPIKey reports whether the provider needs credentials.
func (p EmbeddingProvider) RequiresAPIKey() bool {
	return p == ProviderOpenAI
}

// String returns the provider name.
func (p EmbeddingProvider) String() string {
	return string(p)
}

// EmbeddingSettings configures the embedding service.
type EmbeddingSettings struct {
	Provider   EmbeddingProvider
	Model      string
	BaseURL    string
	APIKey     string
	Dimensions int
}

// IsConfigured reports whether the settings are usable as-is.
func (s EmbeddingSettings) IsConfigured() bool {
	if !s.Provider.IsValid() || s.Model == "" {
		return false
	}
	if s.Provider.RequiresAPIKey() && s.APIKey == "" {
		return false
	}
	return true
}

// ChunkingSettings configures the chunker.
type ChunkingSettings struct {
	ChunkSize int
	Overlap   int
}

// VectorStoreSettings configures the Qdrant connection.
type VectorStoreSettings struct {
	BaseURL    string
	APIKey     string
	Collection string
}

// IngestSettings bounds what ingestion accepts.
type IngestSettings struct {
	// MaxFileSize is the per-file limit in bytes.
	MaxFileSize int64

	// OCRLanguage is the tesseract language code for image extraction.
	OCRLanguage string

	// AllowedExtensions restricts which file extensions ingestion accepts.
	// Empty means every format the extractor registry supports.
	AllowedExtensions []string

	// Concurrency bounds parallel file ingestion within a batch.
	Concurrency int
}

// JobSettings configures background job bookkeeping.
type JobSettings struct {
	// Retention is how long finished jobs stay queryable.
	Retention time.Duration
}

// AppSettings is the full application configuration.
type AppSettings struct {
	Embedding   EmbeddingSettings
	Chunking    ChunkingSettings
	VectorStore VectorStoreSettings
	Ingest      IngestSettings
	Jobs        JobSettings
}

// DefaultAppSettings returns the settings used when nothing is configured.
func DefaultAppSettings() AppSettings {
	return AppSettings{
		Embedding: EmbeddingSettings{
			Provider:   ProviderOllama,
			Model:      "nomic-embed-text",
			BaseURL:    "http://localhost:11434",
			Dimensions: 768,
		},
		Chunking: ChunkingSettings{
			ChunkSize: 500,
			Overlap:   50,
		},
		VectorStore: VectorStoreSettings{
			BaseURL:    "http://localhost:6333",
			Collection: "corpora",
		},
		Ingest: IngestSettings{
			MaxFileSize: 50 * 1024 * 1024,
			OCRLanguage: "eng",
			Concurrency: 4,
		},
		Jobs: JobSettings{
			Retention: 24 * time.Hour,
		},
	}
}

// PipelineConfig describes which post-processors run and how they are
// configured.
type PipelineConfig struct {
	Processors       []string
	ProcessorConfigs map[string]map[string]any
}

// DefaultPipelineConfig returns the standard chunker-then-metadata pipeline.
func DefaultPipelineConfig() PipelineConfig {
	return PipelineConfig{
		Processors: []string{"chunker", "metadata"},
		ProcessorConfigs: map[string]map[string]any{
			"chunker": {
				"chunk_size": 500,
				"overlap":    50,
			},
		},
	}
}

package services

import (
	"fmt"
	"time"

	"github.com/corpora-labs/corpora-cli/internal/core/domain"
	"github.com/corpora-labs/corpora-cli/internal/core/ports/driven"
	"github.com/corpora-labs/corpora-cli/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
//
//nolint:gosec // G101: These are config key names, not actual credentials.
const (
	keyEmbedProvider = "embedding.provider"
	keyEmbedModel    = "embedding.model"
	keyEmbedBaseURL  = "embedding.base_url"
	keyEmbedAPIKey   = "embedding.api_key"
	keyEmbedDims     = "embedding.dimensions"
	keyChunkSize     = "chunking.chunk_size"
	keyChunkOverlap  = "chunking.overlap"
	keyVectorBaseURL = "vector_store.base_url"
	keyVectorAPIKey  = "vector_store.api_key"
	keyVectorColl    = "vector_store.collection"
	keyMaxFileSizeMB = "ingest.max_file_size_mb"
	keyOCRLanguage   = "ingest.ocr_language"
	keyAllowedExts   = "ingest.allowed_extensions"
	keyConcurrency   = "ingest.concurrency"
	keyJobRetention  = "jobs.retention"
)

// Default embedding models per provider.
var defaultEmbeddingModels = map[domain.EmbeddingProvider]string{
	domain.ProviderOllama: "nomic-embed-text",
	domain.ProviderOpenAI: "text-embedding-3-small",
}

// Known model dimensionalities. Models not listed keep the configured or
// default dimensions.
var embeddingDimensions = map[string]int{
	"nomic-embed-text":       768,
	"all-minilm":             384,
	"mxbai-embed-large":      1024,
	"text-embedding-3-small": 1536,
	"text-embedding-3-large": 3072,
}

// SettingsService manages application settings.
type SettingsService struct {
	configStore driven.ConfigStore
}

// NewSettingsService creates a new settings service.
func NewSettingsService(configStore driven.ConfigStore) *SettingsService {
	return &SettingsService{
		configStore: configStore,
	}
}

// Get retrieves current application settings.
func (s *SettingsService) Get() (*domain.AppSettings, error) {
	defaults := domain.DefaultAppSettings()

	settings := &domain.AppSettings{
		Embedding: domain.EmbeddingSettings{
			Provider:   s.getProvider(defaults.Embedding.Provider),
			Model:      s.getString(keyEmbedModel, defaults.Embedding.Model),
			BaseURL:    s.getString(keyEmbedBaseURL, defaults.Embedding.BaseURL),
			APIKey:     s.configStore.GetString(keyEmbedAPIKey),
			Dimensions: s.getInt(keyEmbedDims, defaults.Embedding.Dimensions),
		},
		Chunking: domain.ChunkingSettings{
			ChunkSize: s.getInt(keyChunkSize, defaults.Chunking.ChunkSize),
			Overlap:   s.getIntAllowZero(keyChunkOverlap, defaults.Chunking.Overlap),
		},
		VectorStore: domain.VectorStoreSettings{
			BaseURL:    s.getString(keyVectorBaseURL, defaults.VectorStore.BaseURL),
			APIKey:     s.configStore.GetString(keyVectorAPIKey),
			Collection: s.getString(keyVectorColl, defaults.VectorStore.Collection),
		},
		Ingest: domain.IngestSettings{
			MaxFileSize:       defaults.Ingest.MaxFileSize,
			OCRLanguage:       s.getString(keyOCRLanguage, defaults.Ingest.OCRLanguage),
			AllowedExtensions: s.configStore.GetStringSlice(keyAllowedExts),
			Concurrency:       s.getInt(keyConcurrency, defaults.Ingest.Concurrency),
		},
		Jobs: domain.JobSettings{
			Retention: defaults.Jobs.Retention,
		},
	}

	if mb := s.configStore.GetInt(keyMaxFileSizeMB); mb > 0 {
		settings.Ingest.MaxFileSize = int64(mb) * 1024 * 1024
	}
	if raw := s.configStore.GetString(keyJobRetention); raw != "" {
		if d, err := time.ParseDuration(raw); err == nil && d > 0 {
			settings.Jobs.Retention = d
		}
	}

	return settings, nil
}

// Save persists application settings.
func (s *SettingsService) Save(settings *domain.AppSettings) error {
	entries := []struct {
		key   string
		value any
	}{
		{keyEmbedProvider, settings.Embedding.Provider.String()},
		{keyEmbedModel, settings.Embedding.Model},
		{keyEmbedBaseURL, settings.Embedding.BaseURL},
		{keyEmbedDims, settings.Embedding.Dimensions},
		{keyChunkSize, settings.Chunking.ChunkSize},
		{keyChunkOverlap, settings.Chunking.Overlap},
		{keyVectorBaseURL, settings.VectorStore.BaseURL},
		{keyVectorColl, settings.VectorStore.Collection},
		{keyMaxFileSizeMB, int(settings.Ingest.MaxFileSize / (1024 * 1024))},
		{keyOCRLanguage, settings.Ingest.OCRLanguage},
		{keyAllowedExts, settings.Ingest.AllowedExtensions},
		{keyConcurrency, settings.Ingest.Concurrency},
		{keyJobRetention, settings.Jobs.Retention.String()},
	}

	for _, e := range entries {
		if err := s.configStore.Set(e.key, e.value); err != nil {
			return fmt.Errorf("save %s: %w", e.key, err)
		}
	}

	// Secrets are only written when present so Save never wipes them.
	if settings.Embedding.APIKey != "" {
		if err := s.configStore.Set(keyEmbedAPIKey, settings.Embedding.APIKey); err != nil {
			return fmt.Errorf("save %s: %w", keyEmbedAPIKey, err)
		}
	}
	if settings.VectorStore.APIKey != "" {
		if err := s.configStore.Set(keyVectorAPIKey, settings.VectorStore.APIKey); err != nil {
			return fmt.Errorf("save %s: %w", keyVectorAPIKey, err)
		}
	}

	return nil
}

// SetEmbeddingProvider configures the embedding backend.
func (s *SettingsService) SetEmbeddingProvider(provider domain.EmbeddingProvider, model, apiKey string) error {
	if !provider.IsValid() {
		return fmt.Errorf("invalid embedding provider: %s", provider)
	}
	if provider.RequiresAPIKey() && apiKey == "" {
		return fmt.Errorf("API key required for %s", provider)
	}

	settings, err := s.Get()
	if err != nil {
		return err
	}

	settings.Embedding.Provider = provider

	// Set model - use provided or default
	if model != "" {
		settings.Embedding.Model = model
	} else if defaultModel, ok := defaultEmbeddingModels[provider]; ok {
		settings.Embedding.Model = defaultModel
	}

	settings.Embedding.APIKey = apiKey

	// Update vector dimensions based on model
	if d, ok := embeddingDimensions[settings.Embedding.Model]; ok {
		settings.Embedding.Dimensions = d
	}

	return s.Save(settings)
}

// Validate checks that current settings are internally consistent.
func (s *SettingsService) Validate() error {
	settings, err := s.Get()
	if err != nil {
		return err
	}

	if !settings.Embedding.IsConfigured() {
		return fmt.Errorf("embedding provider is not configured")
	}
	if settings.Embedding.Dimensions <= 0 {
		return fmt.Errorf("embedding dimensions must be positive")
	}
	if settings.Chunking.ChunkSize <= 0 {
		return fmt.Errorf("chunk size must be positive")
	}
	if settings.Chunking.Overlap >= settings.Chunking.ChunkSize {
		return fmt.Errorf("overlap must be smaller than chunk size")
	}
	if settings.Ingest.MaxFileSize <= 0 {
		return fmt.Errorf("max file size must be positive")
	}
	return nil
}

// GetPipelineConfig returns the post-processor pipeline configuration.
// Chunking settings flow into the chunker processor config.
func (s *SettingsService) GetPipelineConfig() domain.PipelineConfig {
	cfg := domain.DefaultPipelineConfig()

	if processors := s.configStore.GetStringSlice("pipeline.processors"); len(processors) > 0 {
		cfg.Processors = processors
	}

	settings, err := s.Get()
	if err != nil {
		return cfg
	}
	if cfg.ProcessorConfigs == nil {
		cfg.ProcessorConfigs = make(map[string]map[string]any)
	}
	cfg.ProcessorConfigs["chunker"] = map[string]any{
		"chunk_size": settings.Chunking.ChunkSize,
		"overlap":    settings.Chunking.Overlap,
	}
	return cfg
}

// Helper methods for reading config with defaults.

func (s *SettingsService) getString(key, defaultVal string) string {
	val := s.configStore.GetString(key)
	if val == "" {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getInt(key string, defaultVal int) int {
	val := s.configStore.GetInt(key)
	if val == 0 {
		return defaultVal
	}
	return val
}

// getIntAllowZero treats an explicitly-set zero as a valid value.
func (s *SettingsService) getIntAllowZero(key string, defaultVal int) int {
	if _, exists := s.configStore.Get(key); !exists {
		return defaultVal
	}
	return s.configStore.GetInt(key)
}

func (s *SettingsService) getProvider(defaultVal domain.EmbeddingProvider) domain.EmbeddingProvider {
	val := s.configStore.GetString(keyEmbedProvider)
	if val == "" {
		return defaultVal
	}
	provider := domain.EmbeddingProvider(val)
	if !provider.IsValid() {
		return defaultVal
	}
	return provider
}

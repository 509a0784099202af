package driving

import "github.com/corpora-labs/corpora-cli/internal/core/domain"

// SettingsService manages application settings.
type SettingsService interface {
	// Get retrieves current application settings, falling back to defaults
	// for anything unconfigured.
	Get() (*domain.AppSettings, error)

	// Save persists application settings.
	Save(settings *domain.AppSettings) error

	// SetEmbeddingProvider configures the embedding backend.
	SetEmbeddingProvider(provider domain.EmbeddingProvider, model, apiKey string) error

	// GetPipelineConfig returns the post-processor pipeline configuration.
	GetPipelineConfig() domain.PipelineConfig

	// Validate checks that current settings are internally consistent.
	Validate() error
}

package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/corpora-labs/corpora-cli/internal/core/domain"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "View and change configuration",
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current settings",
	RunE:  runSettingsShow,
}

var (
	settingsProvider string
	settingsModel    string
	settingsAPIKey   string
)

var settingsEmbeddingCmd = &cobra.Command{
	Use:   "embedding",
	Short: "Configure the embedding provider",
	Long: `Configures which embedding backend is used for ingestion and search.

Supported providers: ollama (local, no key) and openai (requires --api-key).
Changing provider or model invalidates existing vectors; re-ingest or
re-create the collection afterwards.`,
	RunE: runSettingsEmbedding,
}

var (
	settingsChunkSize int
	settingsOverlap   int
)

var settingsChunkingCmd = &cobra.Command{
	Use:   "chunking",
	Short: "Configure chunk size and overlap",
	RunE:  runSettingsChunking,
}

var settingsValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check settings for consistency",
	RunE:  runSettingsValidate,
}

func init() {
	settingsEmbeddingCmd.Flags().StringVar(&settingsProvider, "provider", "", "embedding provider (ollama, openai)")
	settingsEmbeddingCmd.Flags().StringVar(&settingsModel, "model", "", "embedding model name")
	settingsEmbeddingCmd.Flags().StringVar(&settingsAPIKey, "api-key", "", "API key for hosted providers")
	_ = settingsEmbeddingCmd.MarkFlagRequired("provider")

	settingsChunkingCmd.Flags().IntVar(&settingsChunkSize, "size", 0, "chunk size in characters")
	settingsChunkingCmd.Flags().IntVar(&settingsOverlap, "overlap", -1, "overlap between consecutive chunks")

	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsEmbeddingCmd)
	settingsCmd.AddCommand(settingsChunkingCmd)
	settingsCmd.AddCommand(settingsValidateCmd)
	rootCmd.AddCommand(settingsCmd)
}

func runSettingsShow(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("loading settings: %w", err)
	}

	cmd.Println("Embedding:")
	cmd.Printf("  Provider:    %s\n", settings.Embedding.Provider)
	cmd.Printf("  Model:       %s\n", settings.Embedding.Model)
	cmd.Printf("  Base URL:    %s\n", settings.Embedding.BaseURL)
	cmd.Printf("  Dimensions:  %d\n", settings.Embedding.Dimensions)
	cmd.Printf("  API key:     %s\n", maskSecret(settings.Embedding.APIKey))
	cmd.Println()
	cmd.Println("Chunking:")
	cmd.Printf("  Chunk size:  %d\n", settings.Chunking.ChunkSize)
	cmd.Printf("  Overlap:     %d\n", settings.Chunking.Overlap)
	cmd.Println()
	cmd.Println("Vector store:")
	cmd.Printf("  Base URL:    %s\n", settings.VectorStore.BaseURL)
	cmd.Printf("  Collection:  %s\n", settings.VectorStore.Collection)
	cmd.Printf("  API key:     %s\n", maskSecret(settings.VectorStore.APIKey))
	cmd.Println()
	cmd.Println("Ingestion:")
	cmd.Printf("  Max file size: %d bytes\n", settings.Ingest.MaxFileSize)
	cmd.Printf("  OCR language:  %s\n", settings.Ingest.OCRLanguage)
	allowed := "(all supported)"
	if len(settings.Ingest.AllowedExtensions) > 0 {
		allowed = strings.Join(settings.Ingest.AllowedExtensions, ", ")
	}
	cmd.Printf("  Allowed:       %s\n", allowed)
	cmd.Printf("  Concurrency:   %d\n", settings.Ingest.Concurrency)
	cmd.Println()
	cmd.Println("Jobs:")
	cmd.Printf("  Retention:   %s\n", settings.Jobs.Retention)
	return nil
}

func runSettingsEmbedding(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	provider := domain.EmbeddingProvider(settingsProvider)
	if err := settingsService.SetEmbeddingProvider(provider, settingsModel, settingsAPIKey); err != nil {
		return fmt.Errorf("setting embedding provider: %w", err)
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("loading settings: %w", err)
	}
	cmd.Printf("Embedding provider set to %s (model %s, %d dimensions)\n",
		settings.Embedding.Provider, settings.Embedding.Model, settings.Embedding.Dimensions)
	cmd.Println("Existing vectors were produced with the previous model; re-ingest to refresh them.")
	return nil
}

func runSettingsChunking(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("loading settings: %w", err)
	}
	if settingsChunkSize > 0 {
		settings.Chunking.ChunkSize = settingsChunkSize
	}
	if settingsOverlap >= 0 {
		settings.Chunking.Overlap = settingsOverlap
	}
	if settings.Chunking.Overlap >= settings.Chunking.ChunkSize {
		return fmt.Errorf("chunk overlap (%d) must be below chunk size (%d)",
			settings.Chunking.Overlap, settings.Chunking.ChunkSize)
	}
	if err := settingsService.Save(settings); err != nil {
		return fmt.Errorf("saving settings: %w", err)
	}
	cmd.Printf("Chunking set to size %d, overlap %d\n",
		settings.Chunking.ChunkSize, settings.Chunking.Overlap)
	return nil
}

func runSettingsValidate(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	if err := settingsService.Validate(); err != nil {
		return err
	}
	cmd.Println("Settings OK.")
	return nil
}

func maskSecret(s string) string {
	if s == "" {
		return "(not set)"
	}
	return "********"
}

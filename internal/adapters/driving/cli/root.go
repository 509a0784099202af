// Package cli implements the corpora command line interface using cobra.
// Commands talk to the core services through the driving ports; all
// infrastructure wiring happens here.
package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	configfile "github.com/corpora-labs/corpora-cli/internal/adapters/driven/config/file"
	ollamaembed "github.com/corpora-labs/corpora-cli/internal/adapters/driven/embedding/ollama"
	openaiembed "github.com/corpora-labs/corpora-cli/internal/adapters/driven/embedding/openai"
	"github.com/corpora-labs/corpora-cli/internal/adapters/driven/storage/sqlite"
	"github.com/corpora-labs/corpora-cli/internal/adapters/driven/vectorstore/qdrant"
	"github.com/corpora-labs/corpora-cli/internal/core/domain"
	"github.com/corpora-labs/corpora-cli/internal/core/ports/driven"
	"github.com/corpora-labs/corpora-cli/internal/core/ports/driving"
	"github.com/corpora-labs/corpora-cli/internal/core/services"
	"github.com/corpora-labs/corpora-cli/internal/extractors"
	"github.com/corpora-labs/corpora-cli/internal/extractors/code"
	csvx "github.com/corpora-labs/corpora-cli/internal/extractors/csv"
	"github.com/corpora-labs/corpora-cli/internal/extractors/docx"
	"github.com/corpora-labs/corpora-cli/internal/extractors/image"
	pdfx "github.com/corpora-labs/corpora-cli/internal/extractors/pdf"
	"github.com/corpora-labs/corpora-cli/internal/extractors/plaintext"
	"github.com/corpora-labs/corpora-cli/internal/extractors/pptx"
	"github.com/corpora-labs/corpora-cli/internal/extractors/xlsx"
	"github.com/corpora-labs/corpora-cli/internal/logger"
	"github.com/corpora-labs/corpora-cli/internal/postprocessors"
)

// version is set by Execute.
var version = "dev"

// verbose is bound to the persistent --verbose flag.
var verbose bool

// Services shared by all commands, wired in initServices.
var (
	settingsService   driving.SettingsService
	ingestService     driving.IngestService
	searchService     driving.SearchService
	documentService   driving.DocumentService
	clusterService    driving.ClusterService
	jobService        driving.JobService
	projectionService driving.ProjectionService

	embeddingService  driven.EmbeddingService
	vectorStore       driven.VectorStore
	extractorRegistry *extractors.Registry
)

var rootCmd = &cobra.Command{
	Use:   "corpora",
	Short: "Semantic document knowledge base",
	Long: `Corpora ingests documents into a searchable knowledge base.

Files are extracted, chunked, embedded, and stored in a vector database.
Search is semantic: queries match by meaning, not keywords. Documents can
be organised automatically with density-based clustering.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		logger.SetVerbose(verbose)

		// Version and help need no services.
		if cmd.Name() == "version" || cmd.Name() == "help" {
			return nil
		}
		return initServices()
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
}

// Execute runs the root command with the given version string.
// The command context is cancelled on SIGINT/SIGTERM so long-running
// commands (watch, mcp) shut down cleanly.
func Execute(v string) error {
	if v != "" {
		version = v
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return rootCmd.ExecuteContext(ctx)
}

// wired is set once initServices has run (or tests have installed mocks).
var wired bool

// initServices wires adapters and services from configuration.
// Idempotent: repeated calls keep the first wiring.
func initServices() error {
	if wired {
		return nil
	}

	configStore, err := configfile.NewConfigStore("")
	if err != nil {
		return fmt.Errorf("opening config: %w", err)
	}
	settingsSvc := services.NewSettingsService(configStore)
	settingsService = settingsSvc

	settings, err := settingsSvc.Get()
	if err != nil {
		return fmt.Errorf("loading settings: %w", err)
	}

	embeddingService, err = newEmbeddingService(settings)
	if err != nil {
		return err
	}

	vectorStore = qdrant.New(qdrant.Config{
		BaseURL:    settings.VectorStore.BaseURL,
		APIKey:     settings.VectorStore.APIKey,
		Collection: settings.VectorStore.Collection,
	})

	registry, err := sqlite.NewRegistry("")
	if err != nil {
		return fmt.Errorf("opening registry: %w", err)
	}

	extractorRegistry = newExtractorRegistry(settings)
	pipeline, err := newPipeline(settingsSvc.GetPipelineConfig())
	if err != nil {
		return err
	}

	jobs := services.NewJobManager(settings.Jobs.Retention)
	jobService = jobs

	ingest := services.NewIngestService(extractorRegistry, pipeline, embeddingService, vectorStore, registry)
	ingest.SetMaxFileSize(settings.Ingest.MaxFileSize)
	ingest.SetConcurrency(settings.Ingest.Concurrency)
	ingest.SetAllowedExtensions(settings.Ingest.AllowedExtensions)

	documents := services.NewDocumentService(registry, vectorStore)
	cluster := services.NewClusterService(vectorStore, registry, jobs)
	projection := services.NewProjectionService(vectorStore)

	ingest.SetInvalidator(projection)
	documents.SetInvalidator(projection)
	cluster.SetInvalidator(projection)

	ingestService = ingest
	documentService = documents
	clusterService = cluster
	projectionService = projection
	searchService = services.NewSearchService(embeddingService, vectorStore)

	wired = true
	return nil
}

// newEmbeddingService builds the configured embedding adapter.
func newEmbeddingService(settings *domain.AppSettings) (driven.EmbeddingService, error) {
	switch settings.Embedding.Provider {
	case domain.ProviderOpenAI:
		return openaiembed.NewEmbeddingService(openaiembed.Config{
			APIKey:     settings.Embedding.APIKey,
			BaseURL:    settings.Embedding.BaseURL,
			Model:      settings.Embedding.Model,
			Dimensions: settings.Embedding.Dimensions,
		})
	case domain.ProviderOllama:
		return ollamaembed.NewEmbeddingService(ollamaembed.Config{
			BaseURL:    settings.Embedding.BaseURL,
			Model:      settings.Embedding.Model,
			Dimensions: settings.Embedding.Dimensions,
		}), nil
	default:
		return nil, fmt.Errorf("unknown embedding provider: %s", settings.Embedding.Provider)
	}
}

// newExtractorRegistry registers every supported format.
func newExtractorRegistry(settings *domain.AppSettings) *extractors.Registry {
	r := extractors.NewRegistry()
	r.Register(plaintext.New())
	r.Register(code.New())
	r.Register(csvx.New())
	r.Register(pdfx.New())
	r.Register(docx.New())
	r.Register(pptx.New())
	r.Register(xlsx.New())
	r.Register(image.New(image.WithLanguage(settings.Ingest.OCRLanguage)))
	return r
}

// newPipeline builds the post-processor chain from configuration.
func newPipeline(cfg domain.PipelineConfig) (driven.PostProcessorPipeline, error) {
	registry := postprocessors.NewRegistry()
	postprocessors.RegisterDefaults(registry)

	procs := make([]driven.PostProcessor, 0, len(cfg.Processors))
	for _, name := range cfg.Processors {
		p, err := registry.Build(name, cfg.ProcessorConfigs[name])
		if err != nil {
			return nil, fmt.Errorf("building pipeline: %w", err)
		}
		procs = append(procs, p)
	}
	return postprocessors.NewPipeline(procs...), nil
}

// ensureCollection creates the vector collection if missing. Commands that
// write vectors call this before their first write.
func ensureCollection(cmd *cobra.Command) error {
	ctx := cmd.Context()
	if err := vectorStore.EnsureCollection(ctx, embeddingService.Dimensions()); err != nil {
		return fmt.Errorf("preparing vector collection: %w", err)
	}
	return nil
}

// formatTime renders timestamps consistently across commands.
func formatTime(t time.Time) string {
	return t.Local().Format("2006-01-02 15:04:05")
}

// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
//   - Extractor: Turns file bytes into plain text plus structural hints
//   - ExtractorRegistry: Selects the extractor for a file extension
//   - PostProcessor / PostProcessorPipeline: Chunking and chunk enrichment
//   - EmbeddingService: Generates vector embeddings
//   - VectorStore: External (vector, payload) storage with similarity search
//   - DocumentRegistry: Key-value document metadata for O(1) listing
//   - ConfigStore: Application configuration
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter or extractor package
package driven

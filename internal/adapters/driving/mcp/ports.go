package mcp

import (
	"github.com/corpora-labs/corpora-cli/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the MCP server.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Search provides semantic search.
	Search driving.SearchService

	// Document manages the document registry.
	Document driving.DocumentService

	// Jobs exposes background job status.
	Jobs driving.JobService

	// Cluster triggers clustering runs.
	Cluster driving.ClusterService
}

// Validate ensures all required ports are set.
// Returns an error if any required port is nil.
func (p *Ports) Validate() error {
	if p.Search == nil {
		return ErrMissingSearchService
	}
	// Document, Jobs and Cluster are optional; their tools degrade to
	// not-found responses when absent.
	return nil
}

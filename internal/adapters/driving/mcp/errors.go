// Package mcp provides an MCP (Model Context Protocol) server adapter for
// corpora. It lets AI assistants search the knowledge base, inspect
// documents, and follow background jobs.
package mcp

import "errors"

// ErrMissingSearchService is returned when the search service is not provided.
var ErrMissingSearchService = errors.New("mcp: search service is required")

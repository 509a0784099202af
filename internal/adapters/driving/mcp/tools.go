package mcp

import (
	"context"
	"errors"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/corpora-labs/corpora-cli/internal/core/domain"
)

// SearchInput is the input schema for the search tool.
type SearchInput struct {
	Query      string   `json:"query" jsonschema:"the search query to find relevant chunks"`
	Limit      int      `json:"limit,omitempty" jsonschema:"maximum number of results to return (default 5)"`
	Category   string   `json:"category,omitempty" jsonschema:"restrict results to one category"`
	Tags       []string `json:"tags,omitempty" jsonschema:"restrict results to chunks carrying any of these tags"`
	Extensions []string `json:"extensions,omitempty" jsonschema:"restrict results to documents with these file extensions"`
}

// SearchOutput is the output schema for the search tool.
type SearchOutput struct {
	Results []SearchResultOutput `json:"results"`
	Count   int                  `json:"count"`
}

// SearchResultOutput represents a single search result.
type SearchResultOutput struct {
	ChunkID    string  `json:"chunk_id"`
	DocumentID string  `json:"document_id"`
	Filename   string  `json:"filename,omitempty"`
	Score      float64 `json:"score"`
	Text       string  `json:"text"`
}

// DocumentListInput is the input schema for the list_documents tool.
type DocumentListInput struct{}

// DocumentListOutput is the output schema for the list_documents tool.
type DocumentListOutput struct {
	Documents []DocumentOutput `json:"documents"`
	Count     int              `json:"count"`
}

// DocumentOutput represents one registered document.
type DocumentOutput struct {
	ID          string   `json:"id"`
	Filename    string   `json:"filename"`
	Category    string   `json:"category,omitempty"`
	Tags        []string `json:"tags,omitempty"`
	FolderPath  string   `json:"folder_path,omitempty"`
	TotalChunks int      `json:"total_chunks"`
	ClusterName string   `json:"cluster_name,omitempty"`
	UploadedAt  string   `json:"uploaded_at"`
}

// DocumentDeleteInput is the input schema for the delete_document tool.
type DocumentDeleteInput struct {
	DocumentID string `json:"document_id" jsonschema:"the id of the document to delete"`
}

// DocumentDeleteOutput is the output schema for the delete_document tool.
type DocumentDeleteOutput struct {
	Deleted bool `json:"deleted"`
}

// JobStatusInput is the input schema for the job_status tool.
type JobStatusInput struct {
	JobID string `json:"job_id" jsonschema:"the id of the background job to inspect"`
}

// JobStatusOutput is the output schema for the job_status tool.
type JobStatusOutput struct {
	JobID    string `json:"job_id"`
	Type     string `json:"type"`
	Status   string `json:"status"`
	Progress int    `json:"progress"`
	Error    string `json:"error,omitempty"`
}

// ClusterInput is the input schema for the cluster_documents tool.
type ClusterInput struct{}

// ClusterOutput is the output schema for the cluster_documents tool.
type ClusterOutput struct {
	JobID string `json:"job_id"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "search",
		Description: "Semantic search across all ingested documents",
	}, s.handleSearch)

	if s.ports.Document != nil {
		mcp.AddTool(s.server, &mcp.Tool{
			Name:        "list_documents",
			Description: "List all documents in the knowledge base",
		}, s.handleDocumentList)
		mcp.AddTool(s.server, &mcp.Tool{
			Name:        "delete_document",
			Description: "Delete a document and all its chunks",
		}, s.handleDocumentDelete)
	}

	if s.ports.Jobs != nil {
		mcp.AddTool(s.server, &mcp.Tool{
			Name:        "job_status",
			Description: "Check the status of a background job",
		}, s.handleJobStatus)
	}

	if s.ports.Cluster != nil {
		mcp.AddTool(s.server, &mcp.Tool{
			Name:        "cluster_documents",
			Description: "Start a background clustering run over the whole knowledge base",
		}, s.handleCluster)
	}
}

// handleSearch handles the search tool invocation.
func (s *Server) handleSearch(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input SearchInput,
) (*mcp.CallToolResult, SearchOutput, error) {
	opts := domain.SearchOptions{
		Limit:      input.Limit,
		Category:   input.Category,
		Tags:       input.Tags,
		Extensions: input.Extensions,
	}
	results, err := s.ports.Search.Search(ctx, input.Query, opts)
	if err != nil {
		return nil, SearchOutput{}, err
	}

	output := SearchOutput{
		Results: make([]SearchResultOutput, len(results)),
		Count:   len(results),
	}
	for i := range results {
		filename, _ := results[i].Chunk.Metadata["filename"].(string)
		output.Results[i] = SearchResultOutput{
			ChunkID:    results[i].Chunk.ID,
			DocumentID: results[i].Chunk.DocumentID,
			Filename:   filename,
			Score:      results[i].Score,
			Text:       results[i].Chunk.Text,
		}
	}

	return nil, output, nil
}

// handleDocumentList handles the list_documents tool invocation.
func (s *Server) handleDocumentList(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	_ DocumentListInput,
) (*mcp.CallToolResult, DocumentListOutput, error) {
	docs, err := s.ports.Document.List(ctx)
	if err != nil {
		return nil, DocumentListOutput{}, err
	}

	output := DocumentListOutput{
		Documents: make([]DocumentOutput, len(docs)),
		Count:     len(docs),
	}
	for i := range docs {
		output.Documents[i] = documentOutput(&docs[i])
	}
	return nil, output, nil
}

// handleDocumentDelete handles the delete_document tool invocation.
func (s *Server) handleDocumentDelete(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input DocumentDeleteInput,
) (*mcp.CallToolResult, DocumentDeleteOutput, error) {
	if err := s.ports.Document.Delete(ctx, input.DocumentID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, DocumentDeleteOutput{Deleted: false}, nil
		}
		return nil, DocumentDeleteOutput{}, err
	}
	return nil, DocumentDeleteOutput{Deleted: true}, nil
}

// handleJobStatus handles the job_status tool invocation.
func (s *Server) handleJobStatus(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input JobStatusInput,
) (*mcp.CallToolResult, JobStatusOutput, error) {
	job, err := s.ports.Jobs.Get(ctx, input.JobID)
	if err != nil {
		return nil, JobStatusOutput{}, err
	}
	return nil, JobStatusOutput{
		JobID:    job.ID,
		Type:     string(job.Type),
		Status:   string(job.Status),
		Progress: job.Progress,
		Error:    job.Error,
	}, nil
}

// handleCluster handles the cluster_documents tool invocation.
func (s *Server) handleCluster(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	_ ClusterInput,
) (*mcp.CallToolResult, ClusterOutput, error) {
	jobID, err := s.ports.Cluster.ClusterAllAsync(ctx)
	if err != nil {
		return nil, ClusterOutput{}, err
	}
	return nil, ClusterOutput{JobID: jobID}, nil
}

func documentOutput(doc *domain.Document) DocumentOutput {
	return DocumentOutput{
		ID:          doc.ID,
		Filename:    doc.Filename,
		Category:    doc.Category,
		Tags:        doc.Tags,
		FolderPath:  doc.FolderPath,
		TotalChunks: doc.TotalChunks,
		ClusterName: doc.ClusterName,
		UploadedAt:  doc.UploadedAt.Format("2006-01-02 15:04:05"),
	}
}

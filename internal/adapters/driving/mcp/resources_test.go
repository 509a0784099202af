package mcp

import (
	"context"
	"testing"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/corpora-labs/corpora-cli/internal/core/domain"
)

func TestExtractDocumentID(t *testing.T) {
	tests := []struct {
		name     string
		uri      string
		expected string
	}{
		{
			name:     "valid document URI",
			uri:      "corpora://documents/doc-456",
			expected: "doc-456",
		},
		{
			name:     "invalid prefix",
			uri:      "file://documents/doc-456",
			expected: "",
		},
		{
			name:     "empty URI",
			uri:      "",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := extractDocumentID(tt.uri)
			assert.Equal(t, tt.expected, result)
		})
	}
}

func TestServer_handleDocumentsResource(t *testing.T) {
	ctx := context.Background()

	t.Run("lists documents as JSON", func(t *testing.T) {
		docSvc := &mockDocumentService{
			documents: []domain.Document{
				{ID: "doc-1", Filename: "a.txt", UploadedAt: time.Now()},
			},
		}
		server, err := NewServer(&Ports{Search: &mockSearchService{}, Document: docSvc})
		require.NoError(t, err)

		req := &mcp.ReadResourceRequest{
			Params: &mcp.ReadResourceParams{URI: "corpora://documents"},
		}
		result, err := server.handleDocumentsResource(ctx, req)
		require.NoError(t, err)
		require.Len(t, result.Contents, 1)
		assert.Equal(t, "application/json", result.Contents[0].MIMEType)
		assert.Contains(t, result.Contents[0].Text, "doc-1")
	})

	t.Run("no document service yields empty list", func(t *testing.T) {
		server, err := NewServer(&Ports{Search: &mockSearchService{}})
		require.NoError(t, err)

		req := &mcp.ReadResourceRequest{
			Params: &mcp.ReadResourceParams{URI: "corpora://documents"},
		}
		result, err := server.handleDocumentsResource(ctx, req)
		require.NoError(t, err)
		require.Len(t, result.Contents, 1)
		assert.Equal(t, "[]", result.Contents[0].Text)
	})
}

func TestServer_handleDocumentResource(t *testing.T) {
	ctx := context.Background()

	docSvc := &mockDocumentService{
		document: &domain.Document{ID: "doc-456", Filename: "report.pdf", UploadedAt: time.Now()},
	}
	server, err := NewServer(&Ports{Search: &mockSearchService{}, Document: docSvc})
	require.NoError(t, err)

	req := &mcp.ReadResourceRequest{
		Params: &mcp.ReadResourceParams{URI: "corpora://documents/doc-456"},
	}
	result, err := server.handleDocumentResource(ctx, req)
	require.NoError(t, err)
	require.Len(t, result.Contents, 1)
	assert.Contains(t, result.Contents[0].Text, "report.pdf")

	// Malformed URI is a resource error, not a crash.
	req.Params.URI = "corpora://documents/"
	_, err = server.handleDocumentResource(ctx, req)
	assert.Error(t, err)
}

package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var documentCmd = &cobra.Command{
	Use:     "document",
	Aliases: []string{"doc", "docs"},
	Short:   "Manage ingested documents",
}

var documentListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all documents in the knowledge base",
	RunE:  runDocumentList,
}

var documentGetCmd = &cobra.Command{
	Use:   "get [document-id]",
	Short: "Show document details",
	Args:  cobra.ExactArgs(1),
	RunE:  runDocumentGet,
}

var documentDeleteCmd = &cobra.Command{
	Use:   "delete [document-id]",
	Short: "Delete a document and its chunks",
	Args:  cobra.ExactArgs(1),
	RunE:  runDocumentDelete,
}

func init() {
	documentCmd.AddCommand(documentListCmd)
	documentCmd.AddCommand(documentGetCmd)
	documentCmd.AddCommand(documentDeleteCmd)
	rootCmd.AddCommand(documentCmd)
}

func runDocumentList(cmd *cobra.Command, _ []string) error {
	if documentService == nil {
		return errors.New("document service not configured")
	}

	docs, err := documentService.List(cmd.Context())
	if err != nil {
		return fmt.Errorf("listing documents: %w", err)
	}

	if len(docs) == 0 {
		cmd.Println("No documents. Ingest some with: corpora ingest <file>")
		return nil
	}

	cmd.Printf("Documents (%d):\n\n", len(docs))
	for i := range docs {
		cmd.Printf("  %s  %-40s  %4d chunks  %s\n",
			docs[i].ID, docs[i].Filename, docs[i].TotalChunks,
			formatTime(docs[i].UploadedAt))
	}
	return nil
}

func runDocumentGet(cmd *cobra.Command, args []string) error {
	if documentService == nil {
		return errors.New("document service not configured")
	}

	doc, err := documentService.Get(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("getting document: %w", err)
	}

	cmd.Printf("Document: %s\n\n", doc.Filename)
	cmd.Printf("  ID:        %s\n", doc.ID)
	cmd.Printf("  Extension: %s\n", doc.Extension)
	cmd.Printf("  Chunks:    %d\n", doc.TotalChunks)
	cmd.Printf("  Uploaded:  %s\n", formatTime(doc.UploadedAt))
	if doc.Category != "" {
		cmd.Printf("  Category:  %s\n", doc.Category)
	}
	if len(doc.Tags) > 0 {
		cmd.Printf("  Tags:      %s\n", strings.Join(doc.Tags, ", "))
	}
	if doc.FolderPath != "" {
		cmd.Printf("  Folder:    %s\n", doc.FolderPath)
	}
	if doc.ClusterID != nil {
		cmd.Printf("  Cluster:   %d (%s)\n", *doc.ClusterID, doc.ClusterName)
	}
	return nil
}

func runDocumentDelete(cmd *cobra.Command, args []string) error {
	if documentService == nil {
		return errors.New("document service not configured")
	}

	if err := documentService.Delete(cmd.Context(), args[0]); err != nil {
		return fmt.Errorf("deleting document: %w", err)
	}
	cmd.Printf("Deleted document %s\n", args[0])
	return nil
}

package cli

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/corpora-labs/corpora-cli/internal/core/domain"
)

var (
	searchLimit      int
	searchCategory   string
	searchTags       []string
	searchExtensions []string
	searchFolder     string
	searchCluster    int
	searchJSON       bool
)

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search the knowledge base",
	Long: `Performs semantic search across all ingested documents.
The query is embedded and matched against stored chunks by meaning,
optionally filtered by category, tags, extension, folder, or cluster.`,
	Args: cobra.ExactArgs(1),
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().IntVarP(&searchLimit, "limit", "n", 5, "maximum number of results")
	searchCmd.Flags().StringVarP(&searchCategory, "category", "c", "", "restrict to one category")
	searchCmd.Flags().StringSliceVarP(&searchTags, "tag", "t", nil, "restrict to chunks with any of these tags")
	searchCmd.Flags().StringSliceVarP(&searchExtensions, "extension", "e", nil, "restrict to these file extensions")
	searchCmd.Flags().StringVarP(&searchFolder, "folder", "f", "", "restrict to one folder path")
	searchCmd.Flags().IntVar(&searchCluster, "cluster", -2, "restrict to one cluster id (-1 for uncategorized)")
	searchCmd.Flags().BoolVar(&searchJSON, "json", false, "output results as JSON")
	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	query := args[0]

	if searchService == nil {
		return errors.New("search service not configured")
	}

	opts := domain.SearchOptions{
		Limit:      searchLimit,
		Category:   searchCategory,
		Tags:       searchTags,
		Extensions: searchExtensions,
		FolderPath: searchFolder,
	}
	if cmd.Flags().Changed("cluster") {
		cluster := searchCluster
		opts.ClusterID = &cluster
	}

	results, err := searchService.Search(cmd.Context(), query, opts)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	if searchJSON {
		return outputSearchJSON(cmd, results)
	}
	return outputSearchTable(cmd, results)
}

func outputSearchJSON(cmd *cobra.Command, results []domain.SearchResult) error {
	data, err := json.MarshalIndent(results, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal results: %w", err)
	}
	cmd.Println(string(data))
	return nil
}

func outputSearchTable(cmd *cobra.Command, results []domain.SearchResult) error {
	if len(results) == 0 {
		cmd.Println("No results found.")
		return nil
	}

	cmd.Println("Results:")
	cmd.Println()
	for i := range results {
		chunk := results[i].Chunk

		label := chunk.DocumentID
		if filename, ok := chunk.Metadata["filename"].(string); ok && filename != "" {
			label = filename
		}

		cmd.Printf("  [%d] %s (%.2f)\n", i+1, label, results[i].Score)
		if cluster, ok := chunk.Metadata["cluster_name"].(string); ok && cluster != "" {
			cmd.Printf("      Cluster: %s\n", cluster)
		}
		cmd.Printf("      %s\n", snippet(chunk.Text, 160))
		cmd.Println()
	}

	return nil
}

// snippet truncates text for table output, breaking on a rune boundary.
func snippet(text string, limit int) string {
	runes := []rune(text)
	if len(runes) <= limit {
		return text
	}
	return string(runes[:limit]) + "…"
}

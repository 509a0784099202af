package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/corpora-labs/corpora-cli/internal/core/domain"
)

var (
	ingestCategory string
	ingestTags     []string
	ingestFolder   string
)

var ingestCmd = &cobra.Command{
	Use:   "ingest [file|directory]...",
	Short: "Ingest documents into the knowledge base",
	Long: `Extracts text from the given files, splits it into chunks, embeds the
chunks, and stores them for semantic search.

Directories are walked recursively; files with unsupported extensions are
skipped. Each file becomes a new document, re-ingesting a file creates a
second document rather than replacing the first.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runIngest,
}

func init() {
	ingestCmd.Flags().StringVarP(&ingestCategory, "category", "c", "", "category label for the documents")
	ingestCmd.Flags().StringSliceVarP(&ingestTags, "tag", "t", nil, "tags for the documents (repeatable)")
	ingestCmd.Flags().StringVarP(&ingestFolder, "folder", "f", "", "folder path to file the documents under")
	rootCmd.AddCommand(ingestCmd)
}

func runIngest(cmd *cobra.Command, args []string) error {
	if ingestService == nil {
		return errors.New("ingest service not configured")
	}

	paths, err := collectFiles(args)
	if err != nil {
		return err
	}
	if len(paths) == 0 {
		return errors.New("no files found to ingest")
	}

	files := make([]*domain.RawFile, 0, len(paths))
	for _, path := range paths {
		content, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("reading %s: %w", path, err)
		}
		files = append(files, &domain.RawFile{
			Filename: filepath.Base(path),
			Content:  content,
		})
	}

	if err := ensureCollection(cmd); err != nil {
		return err
	}

	meta := domain.UploadMetadata{
		Category:   ingestCategory,
		Tags:       ingestTags,
		FolderPath: ingestFolder,
	}

	ctx := cmd.Context()

	if len(files) == 1 {
		result, err := ingestService.IngestOne(ctx, files[0], meta)
		if err != nil {
			return fmt.Errorf("ingest failed: %w", err)
		}
		cmd.Printf("Ingested %s\n", result.Filename)
		cmd.Printf("  Document ID: %s\n", result.DocumentID)
		cmd.Printf("  Chunks:      %d\n", result.ChunkCount)
		return nil
	}

	result, err := ingestService.IngestBatch(ctx, files, meta)
	if err != nil {
		return fmt.Errorf("batch ingest failed: %w", err)
	}

	cmd.Printf("Batch complete: %d ok, %d failed of %d\n\n", result.Successful, result.Failed, result.Total)
	for _, status := range result.Results {
		if status.Failed() {
			cmd.Printf("  FAIL %s: %s\n", status.Filename, status.Err)
		} else {
			cmd.Printf("  ok   %s (%d chunks, %s)\n", status.Filename, status.ChunkCount, status.DocumentID)
		}
	}
	if result.Failed > 0 {
		return fmt.Errorf("%d of %d files failed", result.Failed, result.Total)
	}
	return nil
}

// collectFiles expands the given paths: files pass through, directories
// are walked recursively. Hidden entries are skipped.
func collectFiles(args []string) ([]string, error) {
	var paths []string
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", arg, err)
		}
		if !info.IsDir() {
			paths = append(paths, arg)
			continue
		}

		err = filepath.WalkDir(arg, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			name := d.Name()
			if strings.HasPrefix(name, ".") && path != arg {
				if d.IsDir() {
					return filepath.SkipDir
				}
				return nil
			}
			if !d.IsDir() {
				paths = append(paths, path)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("walking %s: %w", arg, err)
		}
	}
	return paths, nil
}

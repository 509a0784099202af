package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/corpora-labs/corpora-cli/internal/core/domain"
	"github.com/corpora-labs/corpora-cli/internal/logger"
)

// debounceDelay is how long a file must be quiet before it gets ingested.
// Editors and downloads produce bursts of write events for one file.
const debounceDelay = 2 * time.Second

var (
	watchCategory string
	watchTags     []string
)

var watchCmd = &cobra.Command{
	Use:   "watch [directory]",
	Short: "Watch a directory and ingest new files automatically",
	Long: `Watches a directory tree and ingests files as they appear or change.

Files with unsupported extensions and dot-prefixed entries are ignored.
New subdirectories are picked up automatically. The document's folder is
set to the file's path relative to the watched root.

Runs until interrupted.`,
	Args: cobra.ExactArgs(1),
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().StringVarP(&watchCategory, "category", "c", "", "category applied to ingested files")
	watchCmd.Flags().StringSliceVarP(&watchTags, "tag", "t", nil, "tags applied to ingested files (repeatable)")
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	if ingestService == nil {
		return errors.New("ingest service not configured")
	}

	root, err := filepath.Abs(args[0])
	if err != nil {
		return fmt.Errorf("resolving %s: %w", args[0], err)
	}
	info, err := os.Stat(root)
	if err != nil {
		return fmt.Errorf("watching %s: %w", root, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("watching %s: not a directory", root)
	}

	if err := ensureCollection(cmd); err != nil {
		return err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer watcher.Close()

	if err := watchTree(watcher, root); err != nil {
		return err
	}

	cmd.Printf("Watching %s (ctrl-c to stop)\n", root)

	dw := &dirWatcher{
		cmd:    cmd,
		root:   root,
		timers: make(map[string]*time.Timer),
	}
	defer dw.stop()

	ctx := cmd.Context()
	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			dw.handle(watcher, event)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("Watcher error: %v", err)
		}
	}
}

// watchTree registers dir and every non-hidden subdirectory.
func watchTree(watcher *fsnotify.Watcher, dir string) error {
	return filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != dir && strings.HasPrefix(d.Name(), ".") {
			return filepath.SkipDir
		}
		if err := watcher.Add(path); err != nil {
			return fmt.Errorf("watching %s: %w", path, err)
		}
		return nil
	})
}

// dirWatcher debounces file events and ingests settled files.
type dirWatcher struct {
	cmd  *cobra.Command
	root string

	mu     sync.Mutex
	timers map[string]*time.Timer
}

func (w *dirWatcher) handle(watcher *fsnotify.Watcher, event fsnotify.Event) {
	name := filepath.Base(event.Name)
	if strings.HasPrefix(name, ".") {
		return
	}

	// New subdirectories join the watch set.
	if event.Op.Has(fsnotify.Create) {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			if err := watchTree(watcher, event.Name); err != nil {
				logger.Warn("Cannot watch %s: %v", event.Name, err)
			}
			return
		}
	}

	if !event.Op.Has(fsnotify.Create) && !event.Op.Has(fsnotify.Write) {
		return
	}
	if !w.supported(event.Name) {
		return
	}
	w.schedule(event.Name)
}

func (w *dirWatcher) supported(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, supported := range extractorRegistry.Supported() {
		if ext == supported {
			return true
		}
	}
	return false
}

// schedule (re)arms the debounce timer for a path.
func (w *dirWatcher) schedule(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if timer, ok := w.timers[path]; ok {
		timer.Reset(debounceDelay)
		return
	}
	w.timers[path] = time.AfterFunc(debounceDelay, func() {
		w.mu.Lock()
		delete(w.timers, path)
		w.mu.Unlock()
		w.ingest(path)
	})
}

func (w *dirWatcher) ingest(path string) {
	content, err := os.ReadFile(path)
	if err != nil {
		logger.Warn("Cannot read %s: %v", path, err)
		return
	}

	folder := ""
	if rel, err := filepath.Rel(w.root, filepath.Dir(path)); err == nil && rel != "." {
		folder = filepath.ToSlash(rel)
	}

	result, err := ingestService.IngestOne(w.cmd.Context(), &domain.RawFile{
		Filename: filepath.Base(path),
		Content:  content,
	}, domain.UploadMetadata{
		Category:   watchCategory,
		Tags:       watchTags,
		FolderPath: folder,
	})
	if err != nil {
		w.cmd.Printf("FAIL %s: %v\n", path, err)
		return
	}
	w.cmd.Printf("ok   %s (%d chunks, document %s)\n", path, result.ChunkCount, result.DocumentID)
}

func (w *dirWatcher) stop() {
	w.mu.Lock()
	defer w.mu.Unlock()
	for _, timer := range w.timers {
		timer.Stop()
	}
}

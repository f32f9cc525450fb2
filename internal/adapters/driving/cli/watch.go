package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
	"golang.org/x/time/rate"

	"github.com/purple-ai/docuchat/internal/logger"
)

// watchExtensions limits ingestion to plain-text document types.
var watchExtensions = map[string]bool{
	".txt": true,
	".md":  true,
}

var watchCmd = &cobra.Command{
	Use:   "watch [directory]",
	Short: "Watch a directory and ingest documents as they change",
	Long: `Watches a directory and re-ingests text documents whenever they are
created or modified. Ingestion is rate-limited so editors that write in
bursts do not trigger repeated embedding runs.`,
	Args: cobra.ExactArgs(1),
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	if ingestService == nil {
		return errors.New("ingest service not configured")
	}

	dir := args[0]
	info, err := os.Stat(dir)
	if err != nil {
		return fmt.Errorf("watching %s: %w", dir, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("watching %s: not a directory", dir)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("watching %s: %w", dir, err)
	}

	cmd.Printf("Watching %s (ctrl-c to stop)\n", dir)

	// One ingest per file per second at most; editors fire multiple
	// write events per save.
	limiters := make(map[string]*rate.Limiter)
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
				continue
			}
			if !watchExtensions[strings.ToLower(filepath.Ext(event.Name))] {
				continue
			}

			limiter, ok := limiters[event.Name]
			if !ok {
				limiter = rate.NewLimiter(rate.Limit(1), 1)
				limiters[event.Name] = limiter
			}
			if !limiter.Allow() {
				logger.Debug("Skipping %s, rate limited", event.Name)
				continue
			}

			if err := ingestPath(ctx, cmd, event.Name); err != nil {
				cmd.Println(errorStyle.Render(err.Error()))
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("Watcher error: %v", err)
		}
	}
}

func ingestPath(ctx context.Context, cmd *cobra.Command, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}
	if len(data) == 0 {
		// Editors often create the file empty before the first write.
		return nil
	}

	report, err := ingestService.IngestFile(ctx, filepath.Base(path), path, string(data))
	if err != nil {
		return fmt.Errorf("ingesting %s: %w", path, err)
	}

	cmd.Printf("Ingested %s: %d/%d chunks indexed\n", report.DocumentName, report.IndexedCount, report.ChunkCount)
	return nil
}

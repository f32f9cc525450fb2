package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

// ingestName overrides the document name derived from the file name.
var ingestName string

var ingestCmd = &cobra.Command{
	Use:   "ingest [file]",
	Short: "Ingest a document into the search index",
	Long: `Reads a text file, splits it into overlapping chunks, embeds each
chunk and indexes the result for hybrid retrieval. Re-ingesting a file
replaces its chunks in place.`,
	Args: cobra.ExactArgs(1),
	RunE: runIngest,
}

func init() {
	ingestCmd.Flags().StringVarP(&ingestName, "name", "n", "", "document name (defaults to the file name)")
	rootCmd.AddCommand(ingestCmd)
}

func runIngest(cmd *cobra.Command, args []string) error {
	if ingestService == nil {
		return errors.New("ingest service not configured")
	}

	path := args[0]
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}

	name := ingestName
	if name == "" {
		name = filepath.Base(path)
	}

	report, err := ingestService.IngestFile(context.Background(), name, path, string(data))
	if err != nil {
		return fmt.Errorf("ingest failed: %w", err)
	}

	cmd.Printf("Ingested %s: %d/%d chunks indexed\n", report.DocumentName, report.IndexedCount, report.ChunkCount)
	for _, bulkErr := range report.Errors {
		cmd.Printf("  chunk %s rejected: %s\n", bulkErr.ChunkID, bulkErr.Reason)
	}
	return nil
}

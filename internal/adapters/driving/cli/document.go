package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/purple-ai/docuchat/internal/core/domain"
)

var documentCmd = &cobra.Command{
	Use:   "document",
	Short: "Manage ingested documents",
	Long:  `List or delete documents across the local registry and the search index.`,
}

var documentListCmd = &cobra.Command{
	Use:   "list",
	Short: "List ingested documents",
	Args:  cobra.NoArgs,
	RunE:  runDocumentList,
}

var documentDeleteCmd = &cobra.Command{
	Use:   "delete [name]",
	Short: "Delete a document from the index and registry",
	Args:  cobra.ExactArgs(1),
	RunE:  runDocumentDelete,
}

func init() {
	documentCmd.AddCommand(documentListCmd)
	documentCmd.AddCommand(documentDeleteCmd)
	rootCmd.AddCommand(documentCmd)
}

func runDocumentList(cmd *cobra.Command, _ []string) error {
	if documentService == nil {
		return errors.New("document service not configured")
	}

	statuses, err := documentService.List(context.Background())
	if err != nil {
		return fmt.Errorf("failed to list documents: %w", err)
	}

	if len(statuses) == 0 {
		cmd.Println("No documents ingested yet.")
		return nil
	}

	cmd.Println("Documents:")
	for _, status := range statuses {
		cmd.Printf("  %s  (%d chunks)%s\n",
			status.Document.Name, status.Document.ChunkCount, driftNote(status))
	}
	return nil
}

// driftNote flags documents known on only one side of the
// registry/index pair.
func driftNote(status domain.DocumentStatus) string {
	switch {
	case status.InRegistry && !status.InIndex:
		return "  [not in index, re-ingest to restore]"
	case !status.InRegistry && status.InIndex:
		return "  [index only, no local record]"
	default:
		return ""
	}
}

func runDocumentDelete(cmd *cobra.Command, args []string) error {
	if documentService == nil {
		return errors.New("document service not configured")
	}

	name := args[0]
	deleted, err := documentService.Delete(context.Background(), name)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return fmt.Errorf("document %q is not ingested", name)
		}
		return fmt.Errorf("failed to delete document: %w", err)
	}

	cmd.Printf("Deleted %s (%d index entries)\n", name, deleted)
	return nil
}

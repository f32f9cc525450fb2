// Package cli implements the command-line driving adapter.
// Commands talk to the core exclusively through the driving port
// interfaces; wiring happens in cmd/docuchat.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/purple-ai/docuchat/internal/core/ports/driving"
	"github.com/purple-ai/docuchat/internal/logger"
)

// version is set at build time via ldflags.
var version = "dev"

// Services are injected by cmd/docuchat (or swapped by tests).
var (
	chatService     driving.ChatService
	ingestService   driving.IngestService
	documentService driving.DocumentService
	settingsService driving.SettingsService
)

// verbose enables debug logging.
var verbose bool

var rootCmd = &cobra.Command{
	Use:   "docuchat",
	Short: "Chat with your documents",
	Long: `docuchat ingests documents into a hybrid search index and answers
questions about them through a local or hosted language model.

Start by ingesting a document, then chat:

  docuchat ingest notes.txt
  docuchat chat`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verbose)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
}

// SetServices injects the driving port implementations.
func SetServices(
	chat driving.ChatService,
	ingest driving.IngestService,
	documents driving.DocumentService,
	settings driving.SettingsService,
) {
	chatService = chat
	ingestService = ingest
	documentService = documents
	settingsService = settings
}

// SetVersion overrides the build version string.
func SetVersion(v string) {
	version = v
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

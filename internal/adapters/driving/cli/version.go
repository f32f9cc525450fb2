package cli

import (
	"runtime"

	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version and active chat backend",
	Run: func(cmd *cobra.Command, _ []string) {
		cmd.Printf("docuchat version %s (%s/%s)\n", version, runtime.GOOS, runtime.GOARCH)
		if chatService != nil {
			cmd.Printf("chat backend: %s\n", chatService.ProviderName())
		}
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
